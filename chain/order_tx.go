// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

var (
	_ UnsignedTransaction = &CreateOrderTx{}
	_ UnsignedTransaction = &CancelOrderTx{}
	_ UnsignedTransaction = &ExecuteOrderTx{}
)

// CreateOrderTx lists a parcel for sale. Listing a parcel that already has a
// live order replaces that order.
type CreateOrderTx struct {
	*BaseTx  `serialize:"true" json:"baseTx"`
	Registry common.Address `serialize:"true" json:"registry"`
	AssetID  uint64         `serialize:"true" json:"assetId"`
	Price    uint64         `serialize:"true" json:"price"`
}

func (o *CreateOrderTx) Execute(c *TransactionContext) error {
	if _, err := activeContract(c.Database, o.Contract, KindMarket); err != nil {
		return err
	}
	if _, err := loadContract(c.Database, o.Registry, KindRegistry); err != nil {
		return ErrInvalidCollateral
	}
	owner, err := OwnerOf(c.Database, o.Registry, o.AssetID)
	if err != nil && !errors.Is(err, ErrInvalidAsset) {
		return err
	}
	if !c.authorized(owner) {
		return fmt.Errorf("%w: only the owner can make orders", ErrUnauthorized)
	}
	if o.Price == 0 {
		return ErrPriceTooLow
	}
	approved, err := isApprovedOrOwner(c.Database, o.Registry, o.Contract, owner, o.AssetID)
	if err != nil {
		return err
	}
	if !approved {
		return ErrNotApproved
	}

	i, err := mustMarketInfo(c, o.Contract)
	if err != nil {
		return err
	}
	order := &Order{ID: i.NextOrderID, Seller: c.Sender, Price: o.Price}
	i.NextOrderID++
	if err := PutMarketInfo(c.Database, o.Contract, i); err != nil {
		return err
	}
	if err := PutOrder(c.Database, o.Contract, o.Registry, o.AssetID, order); err != nil {
		return err
	}
	c.emit(&OrderCreated{
		Market:          o.Contract,
		OrderID:         order.ID,
		AssetID:         o.AssetID,
		AssetOwner:      c.Sender,
		SubTokenAddress: o.Registry,
		EcoPrice:        o.Price,
	})
	return nil
}

func (o *CreateOrderTx) Copy() UnsignedTransaction {
	return &CreateOrderTx{BaseTx: o.BaseTx.Copy(), Registry: o.Registry, AssetID: o.AssetID, Price: o.Price}
}

// CancelOrderTx withdraws the seller's live order. No credits move.
type CancelOrderTx struct {
	*BaseTx  `serialize:"true" json:"baseTx"`
	Registry common.Address `serialize:"true" json:"registry"`
	AssetID  uint64         `serialize:"true" json:"assetId"`
}

func (o *CancelOrderTx) Execute(c *TransactionContext) error {
	if _, err := activeContract(c.Database, o.Contract, KindMarket); err != nil {
		return err
	}
	order, err := mustOrder(c, o.Contract, o.Registry, o.AssetID)
	if err != nil {
		return err
	}
	if !c.authorized(order.Seller) {
		return fmt.Errorf("%w: unauthorized user", ErrUnauthorized)
	}
	if err := DeleteOrder(c.Database, o.Contract, o.Registry, o.AssetID); err != nil {
		return err
	}
	c.emit(&OrderCancelled{
		Market:          o.Contract,
		OrderID:         order.ID,
		AssetID:         o.AssetID,
		Seller:          order.Seller,
		SubTokenAddress: o.Registry,
	})
	return nil
}

func (o *CancelOrderTx) Copy() UnsignedTransaction {
	return &CancelOrderTx{BaseTx: o.BaseTx.Copy(), Registry: o.Registry, AssetID: o.AssetID}
}

// ExecuteOrderTx buys a listed parcel. ExpectedPrice must match the live
// order so a seller cannot reprice underneath a pending purchase.
type ExecuteOrderTx struct {
	*BaseTx       `serialize:"true" json:"baseTx"`
	Registry      common.Address `serialize:"true" json:"registry"`
	AssetID       uint64         `serialize:"true" json:"assetId"`
	ExpectedPrice uint64         `serialize:"true" json:"expectedPrice"`
}

func (o *ExecuteOrderTx) Execute(c *TransactionContext) error {
	if _, err := activeContract(c.Database, o.Contract, KindMarket); err != nil {
		return err
	}
	order, err := mustOrder(c, o.Contract, o.Registry, o.AssetID)
	if err != nil {
		return err
	}
	if order.Seller == c.Sender {
		return ErrSelfTrade
	}
	if order.Price != o.ExpectedPrice {
		return ErrPriceMismatch
	}
	owner, err := OwnerOf(c.Database, o.Registry, o.AssetID)
	if err != nil {
		return err
	}
	if owner != order.Seller {
		return ErrSellerNoLongerOwner
	}
	i, err := mustMarketInfo(c, o.Contract)
	if err != nil {
		return err
	}
	split, err := SplitPrice(order.Price, i.FeePercent)
	if err != nil {
		return err
	}
	ok, err := canPay(c.Database, i.Ledger, o.Contract, c.Sender, split.Total())
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: not enough credits", ErrInsufficientFunds)
	}

	// Settlement. Any failure below aborts the whole tx, including the
	// payments already made.
	for _, leg := range []struct {
		to    common.Address
		value uint64
	}{
		{order.Seller, split.Seller},
		{i.FeeSink, split.FeeSink},
		{o.Registry, split.Registry},
	} {
		if leg.value == 0 {
			continue
		}
		if err := transferFrom(c, i.Ledger, o.Contract, c.Sender, leg.to, leg.value); err != nil {
			return err
		}
	}
	if err := transferParcel(c, o.Registry, o.Contract, order.Seller, c.Sender, o.AssetID); err != nil {
		return err
	}
	if err := DeleteOrder(c.Database, o.Contract, o.Registry, o.AssetID); err != nil {
		return err
	}
	c.emit(&OrderSuccessful{
		Market:          o.Contract,
		OrderID:         order.ID,
		AssetID:         o.AssetID,
		Seller:          order.Seller,
		SubTokenAddress: o.Registry,
		TotalPrice:      order.Price,
		Buyer:           c.Sender,
	})
	return nil
}

func (o *ExecuteOrderTx) Copy() UnsignedTransaction {
	return &ExecuteOrderTx{
		BaseTx:        o.BaseTx.Copy(),
		Registry:      o.Registry,
		AssetID:       o.AssetID,
		ExpectedPrice: o.ExpectedPrice,
	}
}

func mustMarketInfo(c *TransactionContext, market common.Address) (*MarketInfo, error) {
	i, has, err := GetMarketInfo(c.Database, market)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, ErrContractMissing
	}
	return i, nil
}

func mustOrder(c *TransactionContext, market common.Address, registry common.Address, assetID uint64) (*Order, error) {
	order, has, err := GetOrder(c.Database, market, registry, assetID)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, ErrOrderNotFound
	}
	return order, nil
}
