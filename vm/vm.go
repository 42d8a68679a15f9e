// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package vm sequences signed operations against the marketplace state.
package vm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/prefixdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ethereum/go-ethereum/common"
	log "github.com/inconshreveable/log15"

	"github.com/ecobux/ecovm/chain"
)

const (
	Name           = "ecovm"
	PublicEndpoint = "/public"
)

var (
	statePrefix = []byte("state")
	genesisKey  = []byte("genesis")
)

type VM struct {
	config   Config
	genesis  *chain.Genesis
	selector chain.ParcelSelector

	base database.Database
	db   database.Database

	// Every operation runs under the write lock so at most one is ever
	// staged against the state.
	mu sync.RWMutex
}

// New opens the VM state in [base]. The genesis is loaded on first use and
// must match the one stored afterwards.
func New(config Config, genesis *chain.Genesis, base database.Database) (*VM, error) {
	if err := config.Verify(); err != nil {
		return nil, err
	}
	selector, err := chain.NewSelector(config.ParcelSelection)
	if err != nil {
		return nil, err
	}
	if genesis == nil {
		genesis = chain.DefaultGenesis()
	}
	vm := &VM{
		config:   config,
		genesis:  genesis,
		selector: selector,
		base:     base,
		db:       prefixdb.New(statePrefix, base),
	}
	if err := vm.initGenesis(); err != nil {
		return nil, err
	}
	return vm, nil
}

func (vm *VM) initGenesis() error {
	if err := vm.genesis.Verify(); err != nil {
		return err
	}
	b, err := json.Marshal(vm.genesis)
	if err != nil {
		return err
	}
	stored, err := vm.base.Get(genesisKey)
	switch {
	case err == nil:
		if !bytes.Equal(stored, b) {
			return fmt.Errorf("%w: stored genesis differs", ErrCorruption)
		}
		log.Info("loaded existing state", "ledgers", len(vm.genesis.Ledgers))
		return nil
	case !errors.Is(err, database.ErrNotFound):
		return err
	}
	if err := vm.genesis.Load(vm.db); err != nil {
		return err
	}
	log.Info("initialized genesis",
		"ledgers", len(vm.genesis.Ledgers),
		"registries", len(vm.genesis.Registries),
		"marketplaces", len(vm.genesis.Marketplaces),
	)
	return vm.base.Put(genesisKey, b)
}

func (vm *VM) Genesis() *chain.Genesis { return vm.genesis }

func (vm *VM) Config() Config { return vm.config }

// Submit executes [tx] and returns the events it emitted as they were
// recorded in the log. A failed tx leaves no trace in the state.
func (vm *VM) Submit(tx *chain.Transaction) ([]*chain.EventRecord, error) {
	if tx == nil || tx.UnsignedTransaction == nil {
		return nil, ErrInvalidEmptyTx
	}
	vm.mu.Lock()
	defer vm.mu.Unlock()

	first, err := chain.EventCount(vm.db)
	if err != nil {
		return nil, err
	}
	events, err := tx.Execute(vm.genesis, vm.db, vm.selector)
	if err != nil {
		log.Debug("tx failed", "txID", tx.ID(), "sender", tx.Sender(), "err", err)
		return nil, err
	}
	records := make([]*chain.EventRecord, len(events))
	for i, e := range events {
		records[i] = &chain.EventRecord{Seq: first + uint64(i), TxID: tx.ID(), Event: e}
	}
	log.Debug("executed tx", "txID", tx.ID(), "sender", tx.Sender(), "events", len(events), "firstSeq", first)
	return records, nil
}

// SubmitRaw decodes and executes a tx in its wire form.
func (vm *VM) SubmitRaw(b []byte) (ids.ID, []*chain.EventRecord, error) {
	if len(b) == 0 {
		return ids.Empty, nil, ErrInvalidEmptyTx
	}
	tx := new(chain.Transaction)
	if _, err := chain.Unmarshal(b, tx); err != nil {
		return ids.Empty, nil, err
	}
	if err := tx.Init(); err != nil {
		return ids.Empty, nil, err
	}
	records, err := vm.Submit(tx)
	return tx.ID(), records, err
}

func (vm *VM) HasTx(txID ids.ID) (bool, error) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return chain.HasTransaction(vm.db, txID)
}

func (vm *VM) Contract(contract common.Address) (*chain.ContractInfo, error) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	i, has, err := chain.GetContractInfo(vm.db, contract)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, fmt.Errorf("%w: contract %s", ErrNotFound, contract.Hex())
	}
	return i, nil
}

func (vm *VM) Ledger(ledger common.Address) (*chain.LedgerInfo, error) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	i, has, err := chain.GetLedgerInfo(vm.db, ledger)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, fmt.Errorf("%w: ledger %s", ErrNotFound, ledger.Hex())
	}
	return i, nil
}

func (vm *VM) Balance(ledger common.Address, account common.Address) (uint64, error) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return chain.GetBalance(vm.db, ledger, account)
}

func (vm *VM) Allowance(ledger common.Address, owner common.Address, spender common.Address) (uint64, error) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return chain.GetAllowance(vm.db, ledger, owner, spender)
}

func (vm *VM) Registry(registry common.Address) (*chain.RegistryInfo, error) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	i, has, err := chain.GetRegistryInfo(vm.db, registry)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, fmt.Errorf("%w: registry %s", ErrNotFound, registry.Hex())
	}
	return i, nil
}

// Parcel returns a parcel and the operator approved to move it, if any.
func (vm *VM) Parcel(registry common.Address, assetID uint64) (*chain.Parcel, common.Address, error) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	p, has, err := chain.GetParcel(vm.db, registry, assetID)
	if err != nil {
		return nil, common.Address{}, err
	}
	if !has {
		return nil, common.Address{}, chain.ErrInvalidAsset
	}
	approved, err := chain.GetApproved(vm.db, registry, assetID)
	if err != nil {
		return nil, common.Address{}, err
	}
	return p, approved, nil
}

func (vm *VM) OwnedParcels(registry common.Address, owner common.Address) ([]uint64, error) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return chain.OwnedParcels(vm.db, registry, owner)
}

func (vm *VM) Addon(registry common.Address, addonID uint64) (*chain.AddonDefinition, error) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	a, has, err := chain.GetAddon(vm.db, registry, addonID)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, fmt.Errorf("%w: add-on %d", ErrNotFound, addonID)
	}
	return a, nil
}

func (vm *VM) Market(market common.Address) (*chain.MarketInfo, error) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	i, has, err := chain.GetMarketInfo(vm.db, market)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, fmt.Errorf("%w: marketplace %s", ErrNotFound, market.Hex())
	}
	return i, nil
}

// Order returns the live order for a parcel together with how its price
// would be split.
func (vm *VM) Order(market common.Address, registry common.Address, assetID uint64) (*chain.Order, chain.Split, error) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	mi, has, err := chain.GetMarketInfo(vm.db, market)
	if err != nil {
		return nil, chain.Split{}, err
	}
	if !has {
		return nil, chain.Split{}, fmt.Errorf("%w: marketplace %s", ErrNotFound, market.Hex())
	}
	o, has, err := chain.GetOrder(vm.db, market, registry, assetID)
	if err != nil {
		return nil, chain.Split{}, err
	}
	if !has {
		return nil, chain.Split{}, chain.ErrOrderNotFound
	}
	split, err := chain.SplitPrice(o.Price, mi.FeePercent)
	if err != nil {
		return nil, chain.Split{}, err
	}
	return o, split, nil
}

// Events pages through the event log starting at [from]. A [limit] of zero
// or above the configured page size is clamped to it.
func (vm *VM) Events(from uint64, limit int) ([]*chain.EventRecord, uint64, error) {
	if limit <= 0 || limit > vm.config.EventPageSize {
		limit = vm.config.EventPageSize
	}
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	records, err := chain.GetEvents(vm.db, from, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := chain.EventCount(vm.db)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}
