// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"errors"
)

var (
	// Tx Correctness
	ErrInvalidSignature = errors.New("invalid signature")
	ErrDuplicateTx      = errors.New("duplicate transaction")
	ErrNonActionable    = errors.New("transaction has no effect")
	ErrZeroAddress      = errors.New("address cannot be the zero address")
	ErrBatchTooLarge    = errors.New("batch too large")
	ErrValueTooBig      = errors.New("value too big")
	ErrOverflow         = errors.New("arithmetic overflow")

	// Contracts
	ErrContractMissing   = errors.New("contract missing")
	ErrContractExists    = errors.New("contract already deployed")
	ErrInvalidContract   = errors.New("contract does not support this operation")
	ErrUnauthorized      = errors.New("sender is not authorized")
	ErrContractPaused    = errors.New("function cannot be used while contract is paused")
	ErrContractNotPaused = errors.New("function cannot be used while contract is not paused")

	// Ledger
	ErrInsufficientFunds     = errors.New("insufficient funds")
	ErrInsufficientAllowance = errors.New("insufficient allowance")

	// Registry
	ErrInvalidAsset        = errors.New("selected token does not exist")
	ErrNotEnoughParcels    = errors.New("not enough available tokens")
	ErrAddonNotPurchasable = errors.New("selected add-on does not exist or is not purchasable")
	ErrNotOwner            = errors.New("from is not the owner of the asset")
	ErrDuplicateSelection  = errors.New("selector returned the same asset twice")

	// Marketplace
	ErrInvalidCollateral   = errors.New("address must reference an asset registry")
	ErrNotApproved         = errors.New("contract is not authorized to manage the asset")
	ErrPriceTooLow         = errors.New("price too low")
	ErrOrderNotFound       = errors.New("asset not published")
	ErrSelfTrade           = errors.New("seller cannot buy asset")
	ErrPriceMismatch       = errors.New("price is not correct")
	ErrSellerNoLongerOwner = errors.New("the seller is not the owner")
)
