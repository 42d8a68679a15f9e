// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/versiondb"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/ethereum/go-ethereum/common"
)

const (
	DefaultMaxBulkCreate = 256
	DefaultUnitPrice     = 25

	DefaultLedgerName     = "EcoBux"
	DefaultLedgerSymbol   = "ECOB"
	DefaultLedgerDecimals = 2

	DefaultRegistryName   = "PanamaJungle"
	DefaultRegistrySymbol = "PAJ"
)

var ErrInvalidGenesis = errors.New("invalid genesis")

type CustomAllocation struct {
	Address common.Address `json:"address"`
	Balance uint64         `json:"balance"`
}

type LedgerGenesis struct {
	Address  common.Address `json:"address"`
	Admin    common.Address `json:"admin"`
	Name     string         `json:"name"`
	Symbol   string         `json:"symbol"`
	Decimals uint8          `json:"decimals"`

	Allocations []*CustomAllocation `json:"allocations"`
}

type RegistryGenesis struct {
	Address   common.Address `json:"address"`
	Admin     common.Address `json:"admin"`
	Ledger    common.Address `json:"ledger"`
	Name      string         `json:"name"`
	Symbol    string         `json:"symbol"`
	UnitPrice uint64         `json:"unitPrice"`

	FeeSink            common.Address `json:"feeSink"`
	PurchaseFeePercent uint64         `json:"purchaseFeePercent"`
}

type MarketGenesis struct {
	Address    common.Address `json:"address"`
	Admin      common.Address `json:"admin"`
	Ledger     common.Address `json:"ledger"`
	FeeSink    common.Address `json:"feeSink"`
	FeePercent uint64         `json:"feePercent"`
}

// Genesis lists the components deployed when the state is first created.
type Genesis struct {
	// MaxBulkCreate caps the parcels a single BulkCreateTx may add.
	MaxBulkCreate uint64 `json:"maxBulkCreate"`

	Ledgers      []*LedgerGenesis   `json:"ledgers"`
	Registries   []*RegistryGenesis `json:"registries"`
	Marketplaces []*MarketGenesis   `json:"marketplaces"`
}

func DefaultGenesis() *Genesis {
	return &Genesis{
		MaxBulkCreate: DefaultMaxBulkCreate,
	}
}

// Verify checks the genesis is self-consistent and fills in defaults.
func (g *Genesis) Verify() error {
	if g.MaxBulkCreate == 0 {
		g.MaxBulkCreate = DefaultMaxBulkCreate
	}

	ledgers := map[common.Address]struct{}{}
	seen := map[common.Address]struct{}{}
	claim := func(addr common.Address) error {
		if addr == zeroAddress {
			return ErrZeroAddress
		}
		if _, ok := seen[addr]; ok {
			return fmt.Errorf("%w: %s deployed twice", ErrInvalidGenesis, addr.Hex())
		}
		seen[addr] = struct{}{}
		return nil
	}

	errs := wrappers.Errs{}
	for _, l := range g.Ledgers {
		errs.Add(claim(l.Address))
		ledgers[l.Address] = struct{}{}
		if l.Name == "" {
			l.Name = DefaultLedgerName
		}
		if l.Symbol == "" {
			l.Symbol = DefaultLedgerSymbol
		}
		if l.Decimals == 0 {
			l.Decimals = DefaultLedgerDecimals
		}
		for _, a := range l.Allocations {
			if a.Address == zeroAddress {
				errs.Add(fmt.Errorf("%w: allocation to zero address", ErrInvalidGenesis))
			}
		}
	}
	hasLedger := func(addr common.Address) error {
		if _, ok := ledgers[addr]; !ok {
			return fmt.Errorf("%w: unknown ledger %s", ErrInvalidGenesis, addr.Hex())
		}
		return nil
	}
	for _, r := range g.Registries {
		errs.Add(claim(r.Address), hasLedger(r.Ledger))
		if r.Name == "" {
			r.Name = DefaultRegistryName
		}
		if r.Symbol == "" {
			r.Symbol = DefaultRegistrySymbol
		}
		if r.UnitPrice == 0 {
			r.UnitPrice = DefaultUnitPrice
		}
		if r.PurchaseFeePercent > 100 {
			errs.Add(fmt.Errorf("%w: purchase fee %d%%", ErrInvalidGenesis, r.PurchaseFeePercent))
		}
	}
	for _, m := range g.Marketplaces {
		errs.Add(claim(m.Address), hasLedger(m.Ledger))
		if m.FeePercent == 0 {
			m.FeePercent = DefaultFeePercent
		}
		if m.FeeSink == zeroAddress {
			errs.Add(fmt.Errorf("%w: marketplace %s has no fee sink", ErrInvalidGenesis, m.Address.Hex()))
		}
		if _, err := SplitPrice(0, m.FeePercent); err != nil {
			errs.Add(fmt.Errorf("%w: marketplace fee %d%%", ErrInvalidGenesis, m.FeePercent))
		}
	}
	return errs.Err
}

// Load deploys every component into [db] and mints the initial allocations.
// Nothing is written unless the whole genesis applies.
func (g *Genesis) Load(db database.Database) error {
	if err := g.Verify(); err != nil {
		return err
	}
	vdb := versiondb.New(db)
	c := &TransactionContext{Genesis: g, Database: vdb}
	if err := g.load(c); err != nil {
		vdb.Abort()
		return err
	}
	if err := PutEvents(vdb, c.TxID, c.events); err != nil {
		vdb.Abort()
		return err
	}
	return vdb.Commit()
}

func (g *Genesis) load(c *TransactionContext) error {
	for _, l := range g.Ledgers {
		if err := DeployLedger(c.Database, l.Address, l.Admin, &LedgerInfo{
			Name:     l.Name,
			Symbol:   l.Symbol,
			Decimals: l.Decimals,
		}); err != nil {
			return fmt.Errorf("ledger %s: %w", l.Address.Hex(), err)
		}
		for _, a := range l.Allocations {
			if err := mint(c, l.Address, a.Address, a.Balance); err != nil {
				return fmt.Errorf("allocation %s: %w", a.Address.Hex(), err)
			}
		}
	}
	for _, r := range g.Registries {
		if err := DeployRegistry(c.Database, r.Address, r.Admin, &RegistryInfo{
			Name:               r.Name,
			Symbol:             r.Symbol,
			Ledger:             r.Ledger,
			UnitPrice:          r.UnitPrice,
			FeeSink:            r.FeeSink,
			PurchaseFeePercent: r.PurchaseFeePercent,
		}); err != nil {
			return fmt.Errorf("registry %s: %w", r.Address.Hex(), err)
		}
	}
	for _, m := range g.Marketplaces {
		if err := DeployMarket(c.Database, m.Address, m.Admin, &MarketInfo{
			Ledger:     m.Ledger,
			FeeSink:    m.FeeSink,
			FeePercent: m.FeePercent,
		}); err != nil {
			return fmt.Errorf("marketplace %s: %w", m.Address.Hex(), err)
		}
	}
	return nil
}
