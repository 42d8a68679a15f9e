// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ethereum/go-ethereum/common"
)

var (
	_ UnsignedTransaction = &ApproveAssetTx{}
	_ UnsignedTransaction = &SetApprovalForAllTx{}
	_ UnsignedTransaction = &TransferAssetTx{}
)

// ApproveAssetTx lets Operator move one parcel. A zero Operator clears the
// approval.
type ApproveAssetTx struct {
	*BaseTx  `serialize:"true" json:"baseTx"`
	Operator common.Address `serialize:"true" json:"operator"`
	AssetID  uint64         `serialize:"true" json:"assetId"`
}

func (a *ApproveAssetTx) Execute(c *TransactionContext) error {
	if _, err := activeContract(c.Database, a.Contract, KindRegistry); err != nil {
		return err
	}
	owner, err := OwnerOf(c.Database, a.Contract, a.AssetID)
	if err != nil {
		return err
	}
	if owner == a.Operator {
		return ErrNonActionable
	}
	if !c.authorized(owner) {
		operator, err := IsApprovedForAll(c.Database, a.Contract, owner, c.Sender)
		if err != nil {
			return err
		}
		if !operator {
			return ErrUnauthorized
		}
	}
	k := ApprovalKey(a.Contract, a.AssetID)
	if a.Operator == zeroAddress {
		err = c.Database.Delete(k)
	} else {
		err = c.Database.Put(k, a.Operator.Bytes())
	}
	if err != nil {
		return err
	}
	c.emit(&ParcelApproval{Registry: a.Contract, Owner: owner, Operator: a.Operator, AssetID: a.AssetID})
	return nil
}

func (a *ApproveAssetTx) Copy() UnsignedTransaction {
	return &ApproveAssetTx{BaseTx: a.BaseTx.Copy(), Operator: a.Operator, AssetID: a.AssetID}
}

// SetApprovalForAllTx grants or revokes Operator control over every parcel
// the sender holds in the registry, now and later.
type SetApprovalForAllTx struct {
	*BaseTx  `serialize:"true" json:"baseTx"`
	Operator common.Address `serialize:"true" json:"operator"`
	Approved bool           `serialize:"true" json:"approved"`
}

func (s *SetApprovalForAllTx) Execute(c *TransactionContext) error {
	if _, err := activeContract(c.Database, s.Contract, KindRegistry); err != nil {
		return err
	}
	if s.Operator == zeroAddress {
		return ErrZeroAddress
	}
	if s.Operator == c.Sender {
		return ErrNonActionable
	}
	k := OperatorKey(s.Contract, c.Sender, s.Operator)
	var err error
	if s.Approved {
		err = c.Database.Put(k, approvedFlag)
	} else {
		err = c.Database.Delete(k)
	}
	if err != nil {
		return err
	}
	c.emit(&ApprovalForAll{Registry: s.Contract, Owner: c.Sender, Operator: s.Operator, Approved: s.Approved})
	return nil
}

func (s *SetApprovalForAllTx) Copy() UnsignedTransaction {
	return &SetApprovalForAllTx{BaseTx: s.BaseTx.Copy(), Operator: s.Operator, Approved: s.Approved}
}

// TransferAssetTx moves a parcel. The sender must be From, the parcel's
// approved operator, or an operator for all of From's parcels.
type TransferAssetTx struct {
	*BaseTx `serialize:"true" json:"baseTx"`
	From    common.Address `serialize:"true" json:"from"`
	To      common.Address `serialize:"true" json:"to"`
	AssetID uint64         `serialize:"true" json:"assetId"`
}

func (t *TransferAssetTx) Execute(c *TransactionContext) error {
	return transferParcel(c, t.Contract, c.Sender, t.From, t.To, t.AssetID)
}

func (t *TransferAssetTx) Copy() UnsignedTransaction {
	return &TransferAssetTx{BaseTx: t.BaseTx.Copy(), From: t.From, To: t.To, AssetID: t.AssetID}
}
