// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ethereum/go-ethereum/common"
)

var (
	_ UnsignedTransaction = &TransferOwnershipTx{}
	_ UnsignedTransaction = &RenounceOwnershipTx{}
	_ UnsignedTransaction = &PauseTx{}
	_ UnsignedTransaction = &UnpauseTx{}
	_ UnsignedTransaction = &SetUnitPriceTx{}
	_ UnsignedTransaction = &SetLedgerTx{}
)

// adminOf loads any contract and checks the sender administers it.
func adminOf(c *TransactionContext, contract common.Address) (*ContractInfo, error) {
	i, has, err := GetContractInfo(c.Database, contract)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, ErrContractMissing
	}
	if err := c.requireAdmin(i); err != nil {
		return nil, err
	}
	return i, nil
}

type TransferOwnershipTx struct {
	*BaseTx `serialize:"true" json:"baseTx"`
	To      common.Address `serialize:"true" json:"to"`
}

func (t *TransferOwnershipTx) Execute(c *TransactionContext) error {
	i, err := adminOf(c, t.Contract)
	if err != nil {
		return err
	}
	if err := requireActive(i); err != nil {
		return err
	}
	if t.To == zeroAddress {
		return ErrZeroAddress
	}
	prev := i.Admin
	i.Admin = t.To
	if err := PutContractInfo(c.Database, t.Contract, i); err != nil {
		return err
	}
	c.emit(&OwnershipTransferred{Contract: t.Contract, PreviousOwner: prev, NewOwner: t.To})
	return nil
}

func (t *TransferOwnershipTx) Copy() UnsignedTransaction {
	return &TransferOwnershipTx{BaseTx: t.BaseTx.Copy(), To: t.To}
}

// RenounceOwnershipTx leaves the contract without an admin. Admin-only
// operations are unusable afterwards.
type RenounceOwnershipTx struct {
	*BaseTx `serialize:"true" json:"baseTx"`
}

func (r *RenounceOwnershipTx) Execute(c *TransactionContext) error {
	i, err := adminOf(c, r.Contract)
	if err != nil {
		return err
	}
	if err := requireActive(i); err != nil {
		return err
	}
	prev := i.Admin
	i.Admin = zeroAddress
	if err := PutContractInfo(c.Database, r.Contract, i); err != nil {
		return err
	}
	c.emit(&OwnershipRenounced{Contract: r.Contract, PreviousOwner: prev})
	return nil
}

func (r *RenounceOwnershipTx) Copy() UnsignedTransaction {
	return &RenounceOwnershipTx{BaseTx: r.BaseTx.Copy()}
}

// PauseTx halts a registry or marketplace. Ledgers cannot be paused.
type PauseTx struct {
	*BaseTx `serialize:"true" json:"baseTx"`
}

func (p *PauseTx) Execute(c *TransactionContext) error {
	i, err := adminOf(c, p.Contract)
	if err != nil {
		return err
	}
	if i.Kind == KindLedger {
		return ErrInvalidContract
	}
	if i.Paused {
		return ErrContractPaused
	}
	i.Paused = true
	if err := PutContractInfo(c.Database, p.Contract, i); err != nil {
		return err
	}
	c.emit(&Paused{Contract: p.Contract})
	return nil
}

func (p *PauseTx) Copy() UnsignedTransaction {
	return &PauseTx{BaseTx: p.BaseTx.Copy()}
}

type UnpauseTx struct {
	*BaseTx `serialize:"true" json:"baseTx"`
}

func (u *UnpauseTx) Execute(c *TransactionContext) error {
	i, err := adminOf(c, u.Contract)
	if err != nil {
		return err
	}
	if i.Kind == KindLedger {
		return ErrInvalidContract
	}
	if !i.Paused {
		return ErrContractNotPaused
	}
	i.Paused = false
	if err := PutContractInfo(c.Database, u.Contract, i); err != nil {
		return err
	}
	c.emit(&Unpaused{Contract: u.Contract})
	return nil
}

func (u *UnpauseTx) Copy() UnsignedTransaction {
	return &UnpauseTx{BaseTx: u.BaseTx.Copy()}
}

// SetUnitPriceTx changes what one pool parcel costs on a registry.
type SetUnitPriceTx struct {
	*BaseTx `serialize:"true" json:"baseTx"`
	Price   uint64 `serialize:"true" json:"price"`
}

func (s *SetUnitPriceTx) Execute(c *TransactionContext) error {
	ci, err := activeContract(c.Database, s.Contract, KindRegistry)
	if err != nil {
		return err
	}
	if err := c.requireAdmin(ci); err != nil {
		return err
	}
	i, err := mustRegistryInfo(c, s.Contract)
	if err != nil {
		return err
	}
	i.UnitPrice = s.Price
	if err := PutRegistryInfo(c.Database, s.Contract, i); err != nil {
		return err
	}
	c.emit(&UnitPriceChanged{Registry: s.Contract, Price: s.Price})
	return nil
}

func (s *SetUnitPriceTx) Copy() UnsignedTransaction {
	return &SetUnitPriceTx{BaseTx: s.BaseTx.Copy(), Price: s.Price}
}

// SetLedgerTx points a registry or marketplace at a different ledger.
type SetLedgerTx struct {
	*BaseTx `serialize:"true" json:"baseTx"`
	Ledger  common.Address `serialize:"true" json:"ledger"`
}

func (s *SetLedgerTx) Execute(c *TransactionContext) error {
	ci, err := adminOf(c, s.Contract)
	if err != nil {
		return err
	}
	if err := requireActive(ci); err != nil {
		return err
	}
	if _, err := loadContract(c.Database, s.Ledger, KindLedger); err != nil {
		return err
	}
	switch ci.Kind {
	case KindRegistry:
		i, err := mustRegistryInfo(c, s.Contract)
		if err != nil {
			return err
		}
		i.Ledger = s.Ledger
		if err := PutRegistryInfo(c.Database, s.Contract, i); err != nil {
			return err
		}
	case KindMarket:
		i, err := mustMarketInfo(c, s.Contract)
		if err != nil {
			return err
		}
		i.Ledger = s.Ledger
		if err := PutMarketInfo(c.Database, s.Contract, i); err != nil {
			return err
		}
	default:
		return ErrInvalidContract
	}
	c.emit(&LedgerChanged{Contract: s.Contract, Ledger: s.Ledger})
	return nil
}

func (s *SetLedgerTx) Copy() UnsignedTransaction {
	return &SetLedgerTx{BaseTx: s.BaseTx.Copy(), Ledger: s.Ledger}
}
