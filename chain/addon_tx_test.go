// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"errors"
	"reflect"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestAddonTxs(t *testing.T) {
	t.Parallel()

	w := newTestWorld(t)
	w.create(t, 1)
	w.mustRun(t, testAdmin, &GiveTx{BaseTx: &BaseTx{Contract: testRegistry}, Count: 1, Recipient: testSeller})
	w.fund(t, testBuyer, testRegistry, 30)
	base := func() *BaseTx { return &BaseTx{Contract: testRegistry} }

	tt := []struct {
		utx    UnsignedTransaction
		sender common.Address
		err    error
	}{
		{
			utx:    &CreateAddonTx{BaseTx: base(), Price: 20, Purchasable: true},
			sender: testBuyer,
			err:    ErrUnauthorized,
		},
		{ // addon 0
			utx:    &CreateAddonTx{BaseTx: base(), Price: 20, Purchasable: true},
			sender: testAdmin,
		},
		{ // addon 1
			utx:    &CreateAddonTx{BaseTx: base(), Price: 5},
			sender: testAdmin,
		},
		{
			utx:    &AttachAddonTx{BaseTx: base(), AssetID: 0, AddonID: 1},
			sender: testBuyer,
			err:    ErrAddonNotPurchasable,
		},
		{
			utx:    &AttachAddonTx{BaseTx: base(), AssetID: 0, AddonID: 7},
			sender: testBuyer,
			err:    ErrAddonNotPurchasable,
		},
		{
			utx:    &AttachAddonTx{BaseTx: base(), AssetID: 3, AddonID: 0},
			sender: testBuyer,
			err:    ErrInvalidAsset,
		},
		{ // anyone may pay for an add-on
			utx:    &AttachAddonTx{BaseTx: base(), AssetID: 0, AddonID: 0},
			sender: testBuyer,
		},
		{ // only 10 left
			utx:    &AttachAddonTx{BaseTx: base(), AssetID: 0, AddonID: 0},
			sender: testBuyer,
			err:    ErrInsufficientFunds,
		},
	}
	for i, tv := range tt {
		_, err := w.run(tv.sender, tv.utx)
		if !errors.Is(err, tv.err) {
			t.Fatalf("#%d: tx.Execute err expected %v, got %v", i, tv.err, err)
		}
	}

	p, _, err := GetParcel(w.db, testRegistry, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(p.Addons, []uint64{0}) {
		t.Fatalf("expected add-ons [0], got %v", p.Addons)
	}
	if p.Owner != testSeller {
		t.Fatalf("add-on changed owner to %s", p.Owner.Hex())
	}
	if b := w.balance(t, testRegistry); b != 20 {
		t.Fatalf("registry expected 20, got %d", b)
	}
	def, has, err := GetAddon(w.db, testRegistry, 1)
	if err != nil || !has {
		t.Fatalf("add-on 1 missing: %v", err)
	}
	if def.Price != 5 || def.Purchasable {
		t.Fatalf("unexpected add-on %+v", def)
	}
}
