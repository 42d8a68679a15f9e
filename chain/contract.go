// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ava-labs/avalanchego/database"
	"github.com/ethereum/go-ethereum/common"
)

type Kind uint8

const (
	KindLedger Kind = iota + 1
	KindRegistry
	KindMarket
)

func (k Kind) String() string {
	switch k {
	case KindLedger:
		return "ledger"
	case KindRegistry:
		return "registry"
	case KindMarket:
		return "marketplace"
	default:
		return "unknown"
	}
}

// ContractInfo is the administrative record every deployed component carries.
// A zero Admin means ownership was renounced.
type ContractInfo struct {
	Kind   Kind           `serialize:"true" json:"kind"`
	Admin  common.Address `serialize:"true" json:"admin"`
	Paused bool           `serialize:"true" json:"paused"`
}

func GetContractInfo(db database.KeyValueReader, contract common.Address) (*ContractInfo, bool, error) {
	i := new(ContractInfo)
	has, err := getRecord(db, ContractKey(contract), i)
	if err != nil || !has {
		return nil, has, err
	}
	return i, true, nil
}

func PutContractInfo(db database.KeyValueWriter, contract common.Address, i *ContractInfo) error {
	return putRecord(db, ContractKey(contract), i)
}

func deployContract(db database.Database, contract common.Address, kind Kind, admin common.Address) error {
	if contract == zeroAddress || admin == zeroAddress {
		return ErrZeroAddress
	}
	_, has, err := GetContractInfo(db, contract)
	if err != nil {
		return err
	}
	if has {
		return ErrContractExists
	}
	return PutContractInfo(db, contract, &ContractInfo{Kind: kind, Admin: admin})
}

// loadContract returns the contract info at [contract] if it is of [kind].
func loadContract(db database.KeyValueReader, contract common.Address, kind Kind) (*ContractInfo, error) {
	i, has, err := GetContractInfo(db, contract)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, ErrContractMissing
	}
	if i.Kind != kind {
		return nil, ErrInvalidContract
	}
	return i, nil
}

func (t *TransactionContext) authorized(owner common.Address) bool {
	return owner != zeroAddress && owner == t.Sender
}

// requireAdmin fails unless the sender administers [i].
func (t *TransactionContext) requireAdmin(i *ContractInfo) error {
	if !t.authorized(i.Admin) {
		return ErrUnauthorized
	}
	return nil
}

func requireActive(i *ContractInfo) error {
	if i.Paused {
		return ErrContractPaused
	}
	return nil
}

// activeContract loads a contract of [kind] that is not paused.
func activeContract(db database.KeyValueReader, contract common.Address, kind Kind) (*ContractInfo, error) {
	i, err := loadContract(db, contract, kind)
	if err != nil {
		return nil, err
	}
	if err := requireActive(i); err != nil {
		return nil, err
	}
	return i, nil
}
