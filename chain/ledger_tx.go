// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ethereum/go-ethereum/common"
)

var (
	_ UnsignedTransaction = &MintTx{}
	_ UnsignedTransaction = &TransferTx{}
	_ UnsignedTransaction = &ApproveTx{}
	_ UnsignedTransaction = &TransferFromTx{}
)

// MintTx creates new credits. Only the ledger admin may mint.
type MintTx struct {
	*BaseTx `serialize:"true" json:"baseTx"`
	To      common.Address `serialize:"true" json:"to"`
	Value   uint64         `serialize:"true" json:"value"`
}

func (m *MintTx) Execute(c *TransactionContext) error {
	i, err := loadContract(c.Database, m.Contract, KindLedger)
	if err != nil {
		return err
	}
	if err := c.requireAdmin(i); err != nil {
		return err
	}
	if m.To == zeroAddress {
		return ErrZeroAddress
	}
	return mint(c, m.Contract, m.To, m.Value)
}

func (m *MintTx) Copy() UnsignedTransaction {
	return &MintTx{BaseTx: m.BaseTx.Copy(), To: m.To, Value: m.Value}
}

type TransferTx struct {
	*BaseTx `serialize:"true" json:"baseTx"`
	To      common.Address `serialize:"true" json:"to"`
	Value   uint64         `serialize:"true" json:"value"`
}

func (t *TransferTx) Execute(c *TransactionContext) error {
	if _, err := loadContract(c.Database, t.Contract, KindLedger); err != nil {
		return err
	}
	return transfer(c, t.Contract, c.Sender, t.To, t.Value)
}

func (t *TransferTx) Copy() UnsignedTransaction {
	return &TransferTx{BaseTx: t.BaseTx.Copy(), To: t.To, Value: t.Value}
}

// ApproveTx overwrites the sender's allowance for Spender.
type ApproveTx struct {
	*BaseTx `serialize:"true" json:"baseTx"`
	Spender common.Address `serialize:"true" json:"spender"`
	Value   uint64         `serialize:"true" json:"value"`
}

func (a *ApproveTx) Execute(c *TransactionContext) error {
	if _, err := loadContract(c.Database, a.Contract, KindLedger); err != nil {
		return err
	}
	if a.Spender == zeroAddress {
		return ErrZeroAddress
	}
	if err := setAllowance(c.Database, a.Contract, c.Sender, a.Spender, a.Value); err != nil {
		return err
	}
	c.emit(&Approval{Ledger: a.Contract, Owner: c.Sender, Spender: a.Spender, Value: a.Value})
	return nil
}

func (a *ApproveTx) Copy() UnsignedTransaction {
	return &ApproveTx{BaseTx: a.BaseTx.Copy(), Spender: a.Spender, Value: a.Value}
}

type TransferFromTx struct {
	*BaseTx `serialize:"true" json:"baseTx"`
	From    common.Address `serialize:"true" json:"from"`
	To      common.Address `serialize:"true" json:"to"`
	Value   uint64         `serialize:"true" json:"value"`
}

func (t *TransferFromTx) Execute(c *TransactionContext) error {
	return transferFrom(c, t.Contract, c.Sender, t.From, t.To, t.Value)
}

func (t *TransferFromTx) Copy() UnsignedTransaction {
	return &TransferFromTx{BaseTx: t.BaseTx.Copy(), From: t.From, To: t.To, Value: t.Value}
}
