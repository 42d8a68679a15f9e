// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"crypto/ecdsa"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

type Transaction struct {
	UnsignedTransaction `serialize:"true" json:"unsignedTransaction"`
	Signature           []byte `serialize:"true" json:"signature"`

	digestHash []byte
	bytes      []byte
	id         ids.ID
	size       uint64
	sender     common.Address
}

func NewTx(utx UnsignedTransaction, sig []byte) *Transaction {
	return &Transaction{
		UnsignedTransaction: utx,
		Signature:           sig,
	}
}

// DigestHash is what the sender signs.
func DigestHash(utx UnsignedTransaction) ([]byte, error) {
	b, err := Marshal(utx)
	if err != nil {
		return nil, err
	}
	return crypto.Keccak256(b), nil
}

// SignTx signs [utx] with [priv] and returns the initialized tx.
func SignTx(utx UnsignedTransaction, priv *ecdsa.PrivateKey) (*Transaction, error) {
	dh, err := DigestHash(utx)
	if err != nil {
		return nil, err
	}
	sig, err := SignDigest(dh, priv)
	if err != nil {
		return nil, err
	}
	tx := NewTx(utx, sig)
	if err := tx.Init(); err != nil {
		return nil, err
	}
	return tx, nil
}

func (t *Transaction) Init() error {
	dh, err := DigestHash(t.UnsignedTransaction)
	if err != nil {
		return err
	}
	t.digestHash = dh

	stx, err := Marshal(t)
	if err != nil {
		return err
	}
	t.bytes = stx
	t.size = uint64(len(t.bytes))

	sender, err := RecoverAddress(t.digestHash, t.Signature)
	if err != nil {
		return err
	}
	t.sender = sender
	t.id = TxID(t.digestHash, sender)
	return nil
}

// TxID identifies a tx by what its sender signed, never by the signature
// bytes, so a re-encoded signature cannot replay it.
func TxID(digest []byte, sender common.Address) ids.ID {
	return ids.ID(crypto.Keccak256Hash(digest, sender.Bytes()))
}

func (t *Transaction) Bytes() []byte { return t.bytes }

func (t *Transaction) DigestHash() []byte { return t.digestHash }

func (t *Transaction) Size() uint64 { return t.size }

func (t *Transaction) ID() ids.ID { return t.id }

func (t *Transaction) Sender() common.Address { return t.sender }

// Execute applies the tx to [db] as one atomic operation and returns the
// events it emitted.
func (t *Transaction) Execute(g *Genesis, db database.Database, sel ParcelSelector) ([]Event, error) {
	if len(t.Signature) != crypto.SignatureLength || t.sender == zeroAddress {
		return nil, ErrInvalidSignature
	}
	has, err := HasTransaction(db, t.id)
	if err != nil {
		return nil, err
	}
	if has {
		return nil, ErrDuplicateTx
	}
	return Process(&TransactionContext{
		Genesis:  g,
		Database: db,
		TxID:     t.id,
		Sender:   t.sender,
		Selector: sel,
	}, t.UnsignedTransaction)
}
