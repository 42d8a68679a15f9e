// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"encoding/binary"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ethereum/go-ethereum/common"
)

var (
	testLedger   = common.HexToAddress("0x1000")
	testRegistry = common.HexToAddress("0x2000")
	testMarket   = common.HexToAddress("0x3000")
	testAdmin    = common.HexToAddress("0xad")
	testFeeSink  = common.HexToAddress("0xfee")
	testSeller   = common.HexToAddress("0x5e11")
	testBuyer    = common.HexToAddress("0xb0b")
	testOther    = common.HexToAddress("0x0770")
)

// testWorld is one ledger, registry and marketplace deployed on a fresh db.
type testWorld struct {
	db       database.Database
	genesis  *Genesis
	selector ParcelSelector
	seq      uint64
}

func newTestWorld(t *testing.T) *testWorld {
	t.Helper()

	g := DefaultGenesis()
	g.Ledgers = []*LedgerGenesis{{Address: testLedger, Admin: testAdmin}}
	g.Registries = []*RegistryGenesis{{
		Address: testRegistry,
		Admin:   testAdmin,
		Ledger:  testLedger,
		Name:    "Parcels",
		Symbol:  "PCL",
	}}
	g.Marketplaces = []*MarketGenesis{{
		Address:    testMarket,
		Admin:      testAdmin,
		Ledger:     testLedger,
		FeeSink:    testFeeSink,
		FeePercent: DefaultFeePercent,
	}}
	db := memdb.New()
	if err := g.Load(db); err != nil {
		t.Fatal(err)
	}
	return &testWorld{db: db, genesis: g}
}

func (w *testWorld) run(sender common.Address, utx UnsignedTransaction) ([]Event, error) {
	w.seq++
	txID := ids.ID{}
	binary.BigEndian.PutUint64(txID[:8], w.seq)
	return Process(&TransactionContext{
		Genesis:  w.genesis,
		Database: w.db,
		TxID:     txID,
		Sender:   sender,
		Selector: w.selector,
	}, utx)
}

func (w *testWorld) mustRun(t *testing.T, sender common.Address, utx UnsignedTransaction) []Event {
	t.Helper()
	events, err := w.run(sender, utx)
	if err != nil {
		t.Fatalf("%T failed: %v", utx, err)
	}
	return events
}

func (w *testWorld) balance(t *testing.T, account common.Address) uint64 {
	t.Helper()
	b, err := GetBalance(w.db, testLedger, account)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func (w *testWorld) owner(t *testing.T, assetID uint64) common.Address {
	t.Helper()
	o, err := OwnerOf(w.db, testRegistry, assetID)
	if err != nil {
		t.Fatal(err)
	}
	return o
}

// fund mints [value] credits to [account] and lets [spender] pull all of it.
func (w *testWorld) fund(t *testing.T, account common.Address, spender common.Address, value uint64) {
	t.Helper()
	w.mustRun(t, testAdmin, &MintTx{BaseTx: &BaseTx{Contract: testLedger}, To: account, Value: value})
	w.mustRun(t, account, &ApproveTx{BaseTx: &BaseTx{Contract: testLedger}, Spender: spender, Value: value})
}

// create adds [n] parcels to the pool.
func (w *testWorld) create(t *testing.T, n int) {
	t.Helper()
	parcels := make([][]byte, n)
	for i := range parcels {
		parcels[i] = []byte(`{"geoMap":[[1,2]]}`)
	}
	w.mustRun(t, testAdmin, &BulkCreateTx{BaseTx: &BaseTx{Contract: testRegistry}, Parcels: parcels})
}
