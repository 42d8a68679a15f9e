// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	smath "github.com/ava-labs/avalanchego/utils/math"
)

// DefaultFeePercent is taken once for the fee sink and once for the
// registry on every marketplace sale.
const DefaultFeePercent = 1

// percentOf returns floor(value * pct / 100).
func percentOf(value uint64, pct uint64) (uint64, error) {
	if pct > 100 {
		return 0, ErrValueTooBig
	}
	p, err := smath.Mul64(value, pct)
	if err != nil {
		return 0, ErrOverflow
	}
	return p / 100, nil
}

// Split is how one sale price is distributed.
type Split struct {
	FeeSink  uint64 `json:"feeSink"`
	Registry uint64 `json:"registry"`
	Seller   uint64 `json:"seller"`
}

// Total is what the buyer pays. It can fall short of the listed price by a
// unit of dust because the seller share is rounded separately from the cuts.
func (s Split) Total() uint64 {
	return s.FeeSink + s.Registry + s.Seller
}

// SplitPrice takes floor(price*pct/100) for each of the two fee accounts and
// gives the seller price - floor(price*2*pct/100).
func SplitPrice(price uint64, pct uint64) (Split, error) {
	if pct > 50 {
		return Split{}, ErrValueTooBig
	}
	cut, err := percentOf(price, pct)
	if err != nil {
		return Split{}, err
	}
	both, err := percentOf(price, 2*pct)
	if err != nil {
		return Split{}, err
	}
	return Split{
		FeeSink:  cut,
		Registry: cut,
		Seller:   price - both,
	}, nil
}
