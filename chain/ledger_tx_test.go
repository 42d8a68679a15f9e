// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestLedgerTxs(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	base := func() *BaseTx { return &BaseTx{Contract: testLedger} }

	tt := []struct {
		utx    UnsignedTransaction
		sender common.Address
		err    error
	}{
		{ // only the admin mints
			utx:    &MintTx{BaseTx: base(), To: testSeller, Value: 10},
			sender: testSeller,
			err:    ErrUnauthorized,
		},
		{
			utx:    &MintTx{BaseTx: base(), To: zeroAddress, Value: 10},
			sender: testAdmin,
			err:    ErrZeroAddress,
		},
		{
			utx:    &MintTx{BaseTx: base(), To: testSeller, Value: 100},
			sender: testAdmin,
		},
		{ // not enough balance
			utx:    &TransferTx{BaseTx: base(), To: testBuyer, Value: 101},
			sender: testSeller,
			err:    ErrInsufficientFunds,
		},
		{
			utx:    &TransferTx{BaseTx: base(), To: zeroAddress, Value: 1},
			sender: testSeller,
			err:    ErrZeroAddress,
		},
		{
			utx:    &TransferTx{BaseTx: base(), To: testBuyer, Value: 40},
			sender: testSeller,
		},
		{ // no allowance yet
			utx:    &TransferFromTx{BaseTx: base(), From: testSeller, To: testOther, Value: 10},
			sender: testBuyer,
			err:    ErrInsufficientAllowance,
		},
		{
			utx:    &ApproveTx{BaseTx: base(), Spender: testBuyer, Value: 15},
			sender: testSeller,
		},
		{
			utx:    &TransferFromTx{BaseTx: base(), From: testSeller, To: testOther, Value: 10},
			sender: testBuyer,
		},
		{ // 5 of the allowance is left
			utx:    &TransferFromTx{BaseTx: base(), From: testSeller, To: testOther, Value: 6},
			sender: testBuyer,
			err:    ErrInsufficientAllowance,
		},
		{ // registries are not ledgers
			utx:    &TransferTx{BaseTx: &BaseTx{Contract: testRegistry}, To: testBuyer, Value: 1},
			sender: testSeller,
			err:    ErrInvalidContract,
		},
		{
			utx:    &TransferTx{BaseTx: &BaseTx{Contract: common.HexToAddress("0x9999")}, To: testBuyer, Value: 1},
			sender: testSeller,
			err:    ErrContractMissing,
		},
	}
	for i, tv := range tt {
		_, err := w.run(tv.sender, tv.utx)
		if !errors.Is(err, tv.err) {
			t.Fatalf("#%d: tx.Execute err expected %v, got %v", i, tv.err, err)
		}
	}

	for _, b := range []struct {
		account common.Address
		value   uint64
	}{
		{testSeller, 50},
		{testBuyer, 40},
		{testOther, 10},
	} {
		if v := w.balance(t, b.account); v != b.value {
			t.Fatalf("balance of %s expected %d, got %d", b.account.Hex(), b.value, v)
		}
	}
	supply, err := GetTotalSupply(w.db, testLedger)
	if err != nil {
		t.Fatal(err)
	}
	if supply != 100 {
		t.Fatalf("supply expected 100, got %d", supply)
	}
	allowance, err := GetAllowance(w.db, testLedger, testSeller, testBuyer)
	if err != nil {
		t.Fatal(err)
	}
	if allowance != 5 {
		t.Fatalf("allowance expected 5, got %d", allowance)
	}
}

func TestUnlimitedAllowance(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	w.mustRun(t, testAdmin, &MintTx{BaseTx: &BaseTx{Contract: testLedger}, To: testSeller, Value: 30})
	w.mustRun(t, testSeller, &ApproveTx{BaseTx: &BaseTx{Contract: testLedger}, Spender: testBuyer, Value: UnlimitedAllowance})
	for i := 0; i < 3; i++ {
		w.mustRun(t, testBuyer, &TransferFromTx{BaseTx: &BaseTx{Contract: testLedger}, From: testSeller, To: testBuyer, Value: 10})
	}
	allowance, err := GetAllowance(w.db, testLedger, testSeller, testBuyer)
	if err != nil {
		t.Fatal(err)
	}
	if allowance != UnlimitedAllowance {
		t.Fatalf("unlimited allowance was decremented to %d", allowance)
	}
	if b := w.balance(t, testBuyer); b != 30 {
		t.Fatalf("buyer balance expected 30, got %d", b)
	}
}

func TestMintEvent(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	events := w.mustRun(t, testAdmin, &MintTx{BaseTx: &BaseTx{Contract: testLedger}, To: testBuyer, Value: 7})
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e, ok := events[0].(*Transfer)
	if !ok {
		t.Fatalf("expected *Transfer, got %T", events[0])
	}
	if e.From != zeroAddress || e.To != testBuyer || e.Value != 7 {
		t.Fatalf("unexpected mint event %+v", e)
	}
}
