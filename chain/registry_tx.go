// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"errors"
	"fmt"

	smath "github.com/ava-labs/avalanchego/utils/math"
	"github.com/ethereum/go-ethereum/common"
)

var (
	_ UnsignedTransaction = &BulkCreateTx{}
	_ UnsignedTransaction = &BuyTx{}
	_ UnsignedTransaction = &GiveTx{}
)

// BulkCreateTx adds parcels to the registry's unsold pool.
type BulkCreateTx struct {
	*BaseTx `serialize:"true" json:"baseTx"`

	// Parcels holds the metadata of each new parcel, in asset id order.
	Parcels [][]byte `serialize:"true" json:"parcels"`
}

func (b *BulkCreateTx) Execute(c *TransactionContext) error {
	ci, err := activeContract(c.Database, b.Contract, KindRegistry)
	if err != nil {
		return err
	}
	if err := c.requireAdmin(ci); err != nil {
		return err
	}
	if len(b.Parcels) == 0 {
		return ErrNonActionable
	}
	if c.Genesis != nil && uint64(len(b.Parcels)) > c.Genesis.MaxBulkCreate {
		return ErrBatchTooLarge
	}
	i, err := mustRegistryInfo(c, b.Contract)
	if err != nil {
		return err
	}
	if err := createParcels(c, b.Contract, i, b.Parcels); err != nil {
		return err
	}
	return PutRegistryInfo(c.Database, b.Contract, i)
}

func (b *BulkCreateTx) Copy() UnsignedTransaction {
	parcels := make([][]byte, len(b.Parcels))
	for i, p := range b.Parcels {
		parcels[i] = make([]byte, len(p))
		copy(parcels[i], p)
	}
	return &BulkCreateTx{BaseTx: b.BaseTx.Copy(), Parcels: parcels}
}

// BuyTx purchases Count parcels from the pool for Recipient at the current
// unit price.
type BuyTx struct {
	*BaseTx   `serialize:"true" json:"baseTx"`
	Count     uint64         `serialize:"true" json:"count"`
	Recipient common.Address `serialize:"true" json:"recipient"`
}

func (b *BuyTx) Execute(c *TransactionContext) error {
	if _, err := activeContract(c.Database, b.Contract, KindRegistry); err != nil {
		return err
	}
	i, err := mustRegistryInfo(c, b.Contract)
	if err != nil {
		return err
	}
	if i.Unsold < b.Count {
		return ErrNotEnoughParcels
	}
	cost, err := smath.Mul64(b.Count, i.UnitPrice)
	if err != nil {
		return ErrOverflow
	}
	fee := uint64(0)
	if i.FeeSink != zeroAddress && i.PurchaseFeePercent > 0 {
		fee, err = percentOf(cost, i.PurchaseFeePercent)
		if err != nil {
			return err
		}
	}
	if err := payRegistry(c, i.Ledger, b.Contract, i.FeeSink, fee); err != nil {
		return err
	}
	if err := payRegistry(c, i.Ledger, b.Contract, b.Contract, cost-fee); err != nil {
		return err
	}
	if _, err := allocate(c, b.Contract, i, b.Count, b.Recipient); err != nil {
		return err
	}
	return PutRegistryInfo(c.Database, b.Contract, i)
}

func (b *BuyTx) Copy() UnsignedTransaction {
	return &BuyTx{BaseTx: b.BaseTx.Copy(), Count: b.Count, Recipient: b.Recipient}
}

// GiveTx hands out parcels from the pool without payment.
type GiveTx struct {
	*BaseTx   `serialize:"true" json:"baseTx"`
	Count     uint64         `serialize:"true" json:"count"`
	Recipient common.Address `serialize:"true" json:"recipient"`
}

func (g *GiveTx) Execute(c *TransactionContext) error {
	ci, err := activeContract(c.Database, g.Contract, KindRegistry)
	if err != nil {
		return err
	}
	if err := c.requireAdmin(ci); err != nil {
		return err
	}
	i, err := mustRegistryInfo(c, g.Contract)
	if err != nil {
		return err
	}
	if _, err := allocate(c, g.Contract, i, g.Count, g.Recipient); err != nil {
		return err
	}
	return PutRegistryInfo(c.Database, g.Contract, i)
}

func (g *GiveTx) Copy() UnsignedTransaction {
	return &GiveTx{BaseTx: g.BaseTx.Copy(), Count: g.Count, Recipient: g.Recipient}
}

func mustRegistryInfo(c *TransactionContext, registry common.Address) (*RegistryInfo, error) {
	i, has, err := GetRegistryInfo(c.Database, registry)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, ErrContractMissing
	}
	return i, nil
}

// payRegistry pulls [value] credits from the sender to [to] with the registry
// as spender.
func payRegistry(c *TransactionContext, ledger common.Address, registry common.Address, to common.Address, value uint64) error {
	if value == 0 {
		return nil
	}
	err := transferFrom(c, ledger, registry, c.Sender, to, value)
	if errors.Is(err, ErrInsufficientAllowance) || errors.Is(err, ErrInsufficientFunds) {
		return fmt.Errorf("%w: not enough available credits (%v)", ErrInsufficientFunds, err)
	}
	return err
}
