// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"
	"github.com/ethereum/go-ethereum/common"
)

type UnsignedTransaction interface {
	Copy() UnsignedTransaction
	GetContract() common.Address
	GetNonce() uint64

	ExecuteBase() error
	Execute(*TransactionContext) error
}

// TransactionContext is everything an operation may read or write while it
// executes. Database is already staged: writes only land once the whole
// operation succeeds.
type TransactionContext struct {
	Genesis  *Genesis
	Database database.Database
	TxID     ids.ID
	Sender   common.Address
	Selector ParcelSelector

	events []Event
}

func (t *TransactionContext) emit(e Event) {
	t.events = append(t.events, e)
}

// Events returns the events emitted so far.
func (t *TransactionContext) Events() []Event {
	return t.events
}

func (t *TransactionContext) selector() ParcelSelector {
	if t.Selector == nil {
		return SequentialSelector{}
	}
	return t.Selector
}
