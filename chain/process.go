// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ava-labs/avalanchego/database/versiondb"
	"github.com/ava-labs/avalanchego/ids"
)

// Process runs [utx] on a staged view of c.Database. Either every write and
// event of the operation is committed or none is.
func Process(c *TransactionContext, utx UnsignedTransaction) ([]Event, error) {
	if err := utx.ExecuteBase(); err != nil {
		return nil, err
	}
	vdb := versiondb.New(c.Database)
	staged := &TransactionContext{
		Genesis:  c.Genesis,
		Database: vdb,
		TxID:     c.TxID,
		Sender:   c.Sender,
		Selector: c.Selector,
	}
	if err := utx.Execute(staged); err != nil {
		vdb.Abort()
		return nil, err
	}
	if c.TxID != ids.Empty {
		if err := SetTransaction(vdb, c.TxID); err != nil {
			vdb.Abort()
			return nil, err
		}
	}
	if err := PutEvents(vdb, c.TxID, staged.events); err != nil {
		vdb.Abort()
		return nil, err
	}
	if err := vdb.Commit(); err != nil {
		return nil, err
	}
	return staged.events, nil
}
