// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
)

func TestSignedTransaction(t *testing.T) {
	t.Parallel()

	priv, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	sender := crypto.PubkeyToAddress(priv.PublicKey)

	w := newTestWorld(t)
	w.mustRun(t, testAdmin, &MintTx{BaseTx: &BaseTx{Contract: testLedger}, To: sender, Value: 10})

	tx, err := SignTx(&TransferTx{BaseTx: &BaseTx{Contract: testLedger}, To: testBuyer, Value: 4}, priv)
	if err != nil {
		t.Fatal(err)
	}
	if tx.Sender() != sender {
		t.Fatalf("sender expected %s, got %s", sender.Hex(), tx.Sender().Hex())
	}

	// The wire form decodes to the same tx.
	decoded := new(Transaction)
	if _, err := Unmarshal(tx.Bytes(), decoded); err != nil {
		t.Fatal(err)
	}
	if err := decoded.Init(); err != nil {
		t.Fatal(err)
	}
	if decoded.ID() != tx.ID() || decoded.Sender() != sender {
		t.Fatal("decoded tx does not match")
	}

	if _, err := decoded.Execute(w.genesis, w.db, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := tx.Execute(w.genesis, w.db, nil); !errors.Is(err, ErrDuplicateTx) {
		t.Fatalf("replay expected %v, got %v", ErrDuplicateTx, err)
	}
	if b := w.balance(t, sender); b != 6 {
		t.Fatalf("sender expected 6, got %d", b)
	}

	// A new nonce makes an otherwise identical tx distinct.
	again, err := SignTx(&TransferTx{BaseTx: &BaseTx{Contract: testLedger, Nonce: 1}, To: testBuyer, Value: 4}, priv)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := again.Execute(w.genesis, w.db, nil); err != nil {
		t.Fatal(err)
	}
	if b := w.balance(t, testBuyer); b != 8 {
		t.Fatalf("buyer expected 8, got %d", b)
	}
}

func TestReencodedSignatureReplay(t *testing.T) {
	t.Parallel()

	priv, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	sender := crypto.PubkeyToAddress(priv.PublicKey)

	w := newTestWorld(t)
	w.mustRun(t, testAdmin, &MintTx{BaseTx: &BaseTx{Contract: testLedger}, To: sender, Value: 10})

	utx := &TransferTx{BaseTx: &BaseTx{Contract: testLedger}, To: testBuyer, Value: 4}
	tx, err := SignTx(utx, priv)
	if err != nil {
		t.Fatal(err)
	}
	if tx.ID() != TxID(tx.DigestHash(), sender) {
		t.Fatal("tx id not derived from digest and sender")
	}
	if _, err := tx.Execute(w.genesis, w.db, nil); err != nil {
		t.Fatal(err)
	}

	flipped := make([]byte, len(tx.Signature))
	copy(flipped, tx.Signature)
	flipped[recoveryIDOffset] -= legacyRecoveryID

	for name, sig := range map[string][]byte{"raw recovery id": flipped, "high s": highS(tx.Signature)} {
		replay := NewTx(utx, sig)
		if err := replay.Init(); !errors.Is(err, ErrInvalidSignature) {
			t.Fatalf("%s: expected %v, got %v", name, ErrInvalidSignature, err)
		}
	}

	// Even a second valid encoding would map to the executed id.
	again := NewTx(utx, tx.Signature)
	if err := again.Init(); err != nil {
		t.Fatal(err)
	}
	if _, err := again.Execute(w.genesis, w.db, nil); !errors.Is(err, ErrDuplicateTx) {
		t.Fatalf("expected %v, got %v", ErrDuplicateTx, err)
	}
	if b := w.balance(t, testBuyer); b != 4 {
		t.Fatalf("buyer expected 4, got %d", b)
	}
}

func TestInvalidSignature(t *testing.T) {
	t.Parallel()

	tx := NewTx(&TransferTx{BaseTx: &BaseTx{Contract: testLedger}, To: testBuyer, Value: 1}, []byte{0x1, 0x2})
	if err := tx.Init(); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected %v, got %v", ErrInvalidSignature, err)
	}
}
