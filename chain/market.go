// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ava-labs/avalanchego/database"
	"github.com/ethereum/go-ethereum/common"
)

type MarketInfo struct {
	Ledger  common.Address `serialize:"true" json:"ledger"`
	FeeSink common.Address `serialize:"true" json:"feeSink"`

	// FeePercent is charged twice per sale: once for the fee sink and once for
	// the registry the parcel belongs to.
	FeePercent  uint64 `serialize:"true" json:"feePercent"`
	NextOrderID uint64 `serialize:"true" json:"nextOrderId"`
}

// Order is a live fixed-price listing for one parcel.
type Order struct {
	ID     uint64         `serialize:"true" json:"id"`
	Seller common.Address `serialize:"true" json:"seller"`
	Price  uint64         `serialize:"true" json:"price"`
}

func GetMarketInfo(db database.KeyValueReader, market common.Address) (*MarketInfo, bool, error) {
	i := new(MarketInfo)
	has, err := getRecord(db, MarketKey(market), i)
	if err != nil || !has {
		return nil, has, err
	}
	return i, true, nil
}

func PutMarketInfo(db database.KeyValueWriter, market common.Address, i *MarketInfo) error {
	return putRecord(db, MarketKey(market), i)
}

// DeployMarket creates an empty marketplace settling in i.Ledger credits.
func DeployMarket(db database.Database, market common.Address, admin common.Address, i *MarketInfo) error {
	if i.FeeSink == zeroAddress {
		return ErrZeroAddress
	}
	if _, err := SplitPrice(0, i.FeePercent); err != nil {
		return err
	}
	if err := deployContract(db, market, KindMarket, admin); err != nil {
		return err
	}
	return PutMarketInfo(db, market, i)
}

func GetOrder(db database.KeyValueReader, market common.Address, registry common.Address, assetID uint64) (*Order, bool, error) {
	o := new(Order)
	has, err := getRecord(db, OrderKey(market, registry, assetID), o)
	if err != nil || !has {
		return nil, has, err
	}
	return o, true, nil
}

func PutOrder(db database.KeyValueWriter, market common.Address, registry common.Address, assetID uint64, o *Order) error {
	return putRecord(db, OrderKey(market, registry, assetID), o)
}

func DeleteOrder(db database.Database, market common.Address, registry common.Address, assetID uint64) error {
	return db.Delete(OrderKey(market, registry, assetID))
}
