// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestAdminTxs(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	otherLedger := common.HexToAddress("0x1001")
	if err := DeployLedger(w.db, otherLedger, testAdmin, &LedgerInfo{Name: "Other"}); err != nil {
		t.Fatal(err)
	}
	reg := func() *BaseTx { return &BaseTx{Contract: testRegistry} }

	tt := []struct {
		utx    UnsignedTransaction
		sender common.Address
		err    error
	}{
		{
			utx:    &PauseTx{BaseTx: reg()},
			sender: testOther,
			err:    ErrUnauthorized,
		},
		{
			utx:    &PauseTx{BaseTx: &BaseTx{Contract: testLedger}},
			sender: testAdmin,
			err:    ErrInvalidContract,
		},
		{
			utx:    &UnpauseTx{BaseTx: reg()},
			sender: testAdmin,
			err:    ErrContractNotPaused,
		},
		{
			utx:    &PauseTx{BaseTx: reg()},
			sender: testAdmin,
		},
		{
			utx:    &PauseTx{BaseTx: reg()},
			sender: testAdmin,
			err:    ErrContractPaused,
		},
		{
			utx:    &SetUnitPriceTx{BaseTx: reg(), Price: 40},
			sender: testAdmin,
			err:    ErrContractPaused,
		},
		{
			utx:    &UnpauseTx{BaseTx: reg()},
			sender: testAdmin,
		},
		{
			utx:    &SetUnitPriceTx{BaseTx: reg(), Price: 40},
			sender: testOther,
			err:    ErrUnauthorized,
		},
		{
			utx:    &SetUnitPriceTx{BaseTx: reg(), Price: 40},
			sender: testAdmin,
		},
		{
			utx:    &SetLedgerTx{BaseTx: reg(), Ledger: testMarket},
			sender: testAdmin,
			err:    ErrInvalidContract,
		},
		{
			utx:    &SetLedgerTx{BaseTx: &BaseTx{Contract: testMarket}, Ledger: otherLedger},
			sender: testAdmin,
		},
		{
			utx:    &TransferOwnershipTx{BaseTx: reg(), To: zeroAddress},
			sender: testAdmin,
			err:    ErrZeroAddress,
		},
		{
			utx:    &TransferOwnershipTx{BaseTx: reg(), To: testOther},
			sender: testAdmin,
		},
		{ // the previous admin lost its rights
			utx:    &SetUnitPriceTx{BaseTx: reg(), Price: 1},
			sender: testAdmin,
			err:    ErrUnauthorized,
		},
		{
			utx:    &RenounceOwnershipTx{BaseTx: reg()},
			sender: testOther,
		},
		{
			utx:    &BulkCreateTx{BaseTx: reg(), Parcels: [][]byte{{0x1}}},
			sender: testOther,
			err:    ErrUnauthorized,
		},
		{
			utx:    &TransferOwnershipTx{BaseTx: reg(), To: testOther},
			sender: testOther,
			err:    ErrUnauthorized,
		},
	}
	for i, tv := range tt {
		_, err := w.run(tv.sender, tv.utx)
		if !errors.Is(err, tv.err) {
			t.Fatalf("#%d: tx.Execute err expected %v, got %v", i, tv.err, err)
		}
	}

	ri, _, err := GetRegistryInfo(w.db, testRegistry)
	if err != nil {
		t.Fatal(err)
	}
	if ri.UnitPrice != 40 {
		t.Fatalf("unit price expected 40, got %d", ri.UnitPrice)
	}
	mi, _, err := GetMarketInfo(w.db, testMarket)
	if err != nil {
		t.Fatal(err)
	}
	if mi.Ledger != otherLedger {
		t.Fatalf("market ledger expected %s, got %s", otherLedger.Hex(), mi.Ledger.Hex())
	}
	ci, _, err := GetContractInfo(w.db, testRegistry)
	if err != nil {
		t.Fatal(err)
	}
	if ci.Admin != zeroAddress || ci.Paused {
		t.Fatalf("unexpected contract info %+v", ci)
	}
}

func TestRenounceEvent(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	events := w.mustRun(t, testAdmin, &RenounceOwnershipTx{BaseTx: &BaseTx{Contract: testLedger}})
	e, ok := events[0].(*OwnershipRenounced)
	if !ok || e.PreviousOwner != testAdmin || e.Contract != testLedger {
		t.Fatalf("unexpected event %+v", events[0])
	}
	if _, err := w.run(testAdmin, &MintTx{BaseTx: &BaseTx{Contract: testLedger}, To: testAdmin, Value: 1}); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("mint after renounce expected %v, got %v", ErrUnauthorized, err)
	}
}
