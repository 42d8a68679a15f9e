// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"fmt"
	"math"

	"github.com/ava-labs/avalanchego/database"
	smath "github.com/ava-labs/avalanchego/utils/math"
	"github.com/ethereum/go-ethereum/common"
)

// UnlimitedAllowance is never decremented by TransferFrom.
const UnlimitedAllowance = math.MaxUint64

type LedgerInfo struct {
	Name        string `serialize:"true" json:"name"`
	Symbol      string `serialize:"true" json:"symbol"`
	Decimals    uint8  `serialize:"true" json:"decimals"`
	TotalSupply uint64 `serialize:"true" json:"totalSupply"`
}

func GetLedgerInfo(db database.KeyValueReader, ledger common.Address) (*LedgerInfo, bool, error) {
	i := new(LedgerInfo)
	has, err := getRecord(db, LedgerKey(ledger), i)
	if err != nil || !has {
		return nil, has, err
	}
	return i, true, nil
}

func PutLedgerInfo(db database.KeyValueWriter, ledger common.Address, i *LedgerInfo) error {
	return putRecord(db, LedgerKey(ledger), i)
}

// DeployLedger creates an empty ledger administered by [admin].
func DeployLedger(db database.Database, ledger common.Address, admin common.Address, i *LedgerInfo) error {
	if err := deployContract(db, ledger, KindLedger, admin); err != nil {
		return err
	}
	return PutLedgerInfo(db, ledger, i)
}

func GetBalance(db database.KeyValueReader, ledger common.Address, account common.Address) (uint64, error) {
	return getUint64(db, BalanceKey(ledger, account))
}

func GetAllowance(db database.KeyValueReader, ledger common.Address, owner common.Address, spender common.Address) (uint64, error) {
	return getUint64(db, AllowanceKey(ledger, owner, spender))
}

func GetTotalSupply(db database.KeyValueReader, ledger common.Address) (uint64, error) {
	i, has, err := GetLedgerInfo(db, ledger)
	if err != nil || !has {
		return 0, err
	}
	return i.TotalSupply, nil
}

// ModifyBalance credits or debits [account] and returns the new balance.
func ModifyBalance(db database.Database, ledger common.Address, account common.Address, add bool, change uint64) (uint64, error) {
	b, err := GetBalance(db, ledger, account)
	if err != nil {
		return 0, err
	}
	var n uint64
	if add {
		n, err = smath.Add64(b, change)
		if err != nil {
			return 0, ErrOverflow
		}
	} else {
		if b < change {
			return 0, fmt.Errorf("%w: balance %d < %d", ErrInsufficientFunds, b, change)
		}
		n = b - change
	}
	return n, putUint64(db, BalanceKey(ledger, account), n)
}

func setAllowance(db database.Database, ledger common.Address, owner common.Address, spender common.Address, value uint64) error {
	return putUint64(db, AllowanceKey(ledger, owner, spender), value)
}

// mint raises the balance of [to] and the supply of [ledger].
func mint(c *TransactionContext, ledger common.Address, to common.Address, value uint64) error {
	i, has, err := GetLedgerInfo(c.Database, ledger)
	if err != nil {
		return err
	}
	if !has {
		return ErrContractMissing
	}
	supply, err := smath.Add64(i.TotalSupply, value)
	if err != nil {
		return ErrOverflow
	}
	if _, err := ModifyBalance(c.Database, ledger, to, true, value); err != nil {
		return err
	}
	i.TotalSupply = supply
	if err := PutLedgerInfo(c.Database, ledger, i); err != nil {
		return err
	}
	c.emit(&Transfer{Ledger: ledger, To: to, Value: value})
	return nil
}

func transfer(c *TransactionContext, ledger common.Address, from common.Address, to common.Address, value uint64) error {
	if to == zeroAddress {
		return ErrZeroAddress
	}
	if _, err := ModifyBalance(c.Database, ledger, from, false, value); err != nil {
		return err
	}
	if _, err := ModifyBalance(c.Database, ledger, to, true, value); err != nil {
		return err
	}
	c.emit(&Transfer{Ledger: ledger, From: from, To: to, Value: value})
	return nil
}

// transferFrom moves [value] from [from] to [to] on behalf of [spender],
// consuming allowance.
func transferFrom(
	c *TransactionContext,
	ledger common.Address,
	spender common.Address,
	from common.Address,
	to common.Address,
	value uint64,
) error {
	if _, err := loadContract(c.Database, ledger, KindLedger); err != nil {
		return err
	}
	allowance, err := GetAllowance(c.Database, ledger, from, spender)
	if err != nil {
		return err
	}
	if allowance < value {
		return fmt.Errorf("%w: allowance %d < %d", ErrInsufficientAllowance, allowance, value)
	}
	if err := transfer(c, ledger, from, to, value); err != nil {
		return err
	}
	if allowance == UnlimitedAllowance {
		return nil
	}
	return setAllowance(c.Database, ledger, from, spender, allowance-value)
}

// canPay reports whether [spender] may pull [value] from [from] right now.
func canPay(db database.KeyValueReader, ledger common.Address, spender common.Address, from common.Address, value uint64) (bool, error) {
	b, err := GetBalance(db, ledger, from)
	if err != nil {
		return false, err
	}
	a, err := GetAllowance(db, ledger, from, spender)
	if err != nil {
		return false, err
	}
	return b >= value && a >= value, nil
}
