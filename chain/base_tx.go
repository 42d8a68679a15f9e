// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ethereum/go-ethereum/common"
)

var zeroAddress = common.Address{}

type BaseTx struct {
	// Contract is the ledger, registry or marketplace the tx is addressed to.
	Contract common.Address `serialize:"true" json:"contract"`

	// Nonce makes otherwise identical txs from one sender distinct.
	Nonce uint64 `serialize:"true" json:"nonce"`
}

func (b *BaseTx) GetContract() common.Address {
	return b.Contract
}

func (b *BaseTx) GetNonce() uint64 {
	return b.Nonce
}

func (b *BaseTx) ExecuteBase() error {
	if b.Contract == zeroAddress {
		return ErrContractMissing
	}
	return nil
}

func (b *BaseTx) Copy() *BaseTx {
	return &BaseTx{
		Contract: b.Contract,
		Nonce:    b.Nonce,
	}
}
