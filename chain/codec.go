// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ava-labs/avalanchego/codec"
	"github.com/ava-labs/avalanchego/codec/linearcodec"
	"github.com/ava-labs/avalanchego/utils/wrappers"
)

// codecVersion is the current default codec version
const codecVersion = 0

var codecManager codec.Manager

func init() {
	c := linearcodec.NewDefault()
	codecManager = codec.NewDefaultManager()
	errs := wrappers.Errs{}
	errs.Add(
		// Transactions
		c.RegisterType(&BaseTx{}),
		c.RegisterType(&MintTx{}),
		c.RegisterType(&TransferTx{}),
		c.RegisterType(&ApproveTx{}),
		c.RegisterType(&TransferFromTx{}),
		c.RegisterType(&BulkCreateTx{}),
		c.RegisterType(&BuyTx{}),
		c.RegisterType(&GiveTx{}),
		c.RegisterType(&CreateAddonTx{}),
		c.RegisterType(&AttachAddonTx{}),
		c.RegisterType(&ApproveAssetTx{}),
		c.RegisterType(&SetApprovalForAllTx{}),
		c.RegisterType(&TransferAssetTx{}),
		c.RegisterType(&CreateOrderTx{}),
		c.RegisterType(&CancelOrderTx{}),
		c.RegisterType(&ExecuteOrderTx{}),
		c.RegisterType(&TransferOwnershipTx{}),
		c.RegisterType(&RenounceOwnershipTx{}),
		c.RegisterType(&PauseTx{}),
		c.RegisterType(&UnpauseTx{}),
		c.RegisterType(&SetUnitPriceTx{}),
		c.RegisterType(&SetLedgerTx{}),
		c.RegisterType(&Transaction{}),

		// Events
		c.RegisterType(&Transfer{}),
		c.RegisterType(&Approval{}),
		c.RegisterType(&ParcelTransfer{}),
		c.RegisterType(&ParcelApproval{}),
		c.RegisterType(&ApprovalForAll{}),
		c.RegisterType(&AddonCreated{}),
		c.RegisterType(&AddonAttached{}),
		c.RegisterType(&OrderCreated{}),
		c.RegisterType(&OrderCancelled{}),
		c.RegisterType(&OrderSuccessful{}),
		c.RegisterType(&OwnershipTransferred{}),
		c.RegisterType(&OwnershipRenounced{}),
		c.RegisterType(&Paused{}),
		c.RegisterType(&Unpaused{}),
		c.RegisterType(&UnitPriceChanged{}),
		c.RegisterType(&LedgerChanged{}),

		// State
		c.RegisterType(&ContractInfo{}),
		c.RegisterType(&LedgerInfo{}),
		c.RegisterType(&RegistryInfo{}),
		c.RegisterType(&MarketInfo{}),
		c.RegisterType(&Parcel{}),
		c.RegisterType(&AddonDefinition{}),
		c.RegisterType(&Order{}),
		c.RegisterType(&EventRecord{}),
		codecManager.RegisterCodec(codecVersion, c),
	)
	if errs.Errored() {
		panic(errs.Err)
	}
}

func Marshal(source interface{}) ([]byte, error) {
	return codecManager.Marshal(codecVersion, source)
}

func Unmarshal(source []byte, destination interface{}) (uint16, error) {
	return codecManager.Unmarshal(source, destination)
}
