// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"encoding/json"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ethereum/go-ethereum/common"
)

// Event is a state change announced by a successful operation.
type Event interface {
	Kind() string
}

const (
	TransferEvent             = "Transfer"
	ApprovalEvent             = "Approval"
	ParcelTransferEvent       = "ParcelTransfer"
	ParcelApprovalEvent       = "ParcelApproval"
	ApprovalForAllEvent       = "ApprovalForAll"
	AddonCreatedEvent         = "NewAddon"
	AddonAttachedEvent        = "AddedAddon"
	OrderCreatedEvent         = "OrderCreated"
	OrderCancelledEvent       = "OrderCancelled"
	OrderSuccessfulEvent      = "OrderSuccessful"
	OwnershipTransferredEvent = "OwnershipTransferred"
	OwnershipRenouncedEvent   = "OwnershipRenounced"
	PausedEvent               = "Paused"
	UnpausedEvent             = "Unpaused"
	UnitPriceChangedEvent     = "UnitPriceChanged"
	LedgerChangedEvent        = "LedgerChanged"
)

// Transfer is a ledger balance movement. Mints have a zero From.
type Transfer struct {
	Ledger common.Address `serialize:"true" json:"ledger"`
	From   common.Address `serialize:"true" json:"from"`
	To     common.Address `serialize:"true" json:"to"`
	Value  uint64         `serialize:"true" json:"value"`
}

type Approval struct {
	Ledger  common.Address `serialize:"true" json:"ledger"`
	Owner   common.Address `serialize:"true" json:"owner"`
	Spender common.Address `serialize:"true" json:"spender"`
	Value   uint64         `serialize:"true" json:"value"`
}

// ParcelTransfer is a change of parcel owner. Creation has a zero From.
type ParcelTransfer struct {
	Registry common.Address `serialize:"true" json:"registry"`
	From     common.Address `serialize:"true" json:"from"`
	To       common.Address `serialize:"true" json:"to"`
	AssetID  uint64         `serialize:"true" json:"assetId"`
}

type ParcelApproval struct {
	Registry common.Address `serialize:"true" json:"registry"`
	Owner    common.Address `serialize:"true" json:"owner"`
	Operator common.Address `serialize:"true" json:"operator"`
	AssetID  uint64         `serialize:"true" json:"assetId"`
}

type ApprovalForAll struct {
	Registry common.Address `serialize:"true" json:"registry"`
	Owner    common.Address `serialize:"true" json:"owner"`
	Operator common.Address `serialize:"true" json:"operator"`
	Approved bool           `serialize:"true" json:"approved"`
}

type AddonCreated struct {
	Registry    common.Address `serialize:"true" json:"registry"`
	AddonID     uint64         `serialize:"true" json:"addonId"`
	Price       uint64         `serialize:"true" json:"price"`
	Purchasable bool           `serialize:"true" json:"buyable"`
}

type AddonAttached struct {
	Registry common.Address `serialize:"true" json:"registry"`
	AssetID  uint64         `serialize:"true" json:"assetId"`
	AddonID  uint64         `serialize:"true" json:"addonId"`
	Buyer    common.Address `serialize:"true" json:"buyer"`
}

type OrderCreated struct {
	Market          common.Address `serialize:"true" json:"market"`
	OrderID         uint64         `serialize:"true" json:"orderId"`
	AssetID         uint64         `serialize:"true" json:"assetId"`
	AssetOwner      common.Address `serialize:"true" json:"assetOwner"`
	SubTokenAddress common.Address `serialize:"true" json:"subTokenAddress"`
	EcoPrice        uint64         `serialize:"true" json:"ecoPrice"`
}

type OrderCancelled struct {
	Market          common.Address `serialize:"true" json:"market"`
	OrderID         uint64         `serialize:"true" json:"orderId"`
	AssetID         uint64         `serialize:"true" json:"assetId"`
	Seller          common.Address `serialize:"true" json:"seller"`
	SubTokenAddress common.Address `serialize:"true" json:"subTokenAddress"`
}

type OrderSuccessful struct {
	Market          common.Address `serialize:"true" json:"market"`
	OrderID         uint64         `serialize:"true" json:"orderId"`
	AssetID         uint64         `serialize:"true" json:"assetId"`
	Seller          common.Address `serialize:"true" json:"seller"`
	SubTokenAddress common.Address `serialize:"true" json:"subTokenAddress"`
	TotalPrice      uint64         `serialize:"true" json:"totalPrice"`
	Buyer           common.Address `serialize:"true" json:"buyer"`
}

type OwnershipTransferred struct {
	Contract      common.Address `serialize:"true" json:"contract"`
	PreviousOwner common.Address `serialize:"true" json:"previousOwner"`
	NewOwner      common.Address `serialize:"true" json:"newOwner"`
}

type OwnershipRenounced struct {
	Contract      common.Address `serialize:"true" json:"contract"`
	PreviousOwner common.Address `serialize:"true" json:"previousOwner"`
}

type Paused struct {
	Contract common.Address `serialize:"true" json:"contract"`
}

type Unpaused struct {
	Contract common.Address `serialize:"true" json:"contract"`
}

type UnitPriceChanged struct {
	Registry common.Address `serialize:"true" json:"registry"`
	Price    uint64         `serialize:"true" json:"price"`
}

type LedgerChanged struct {
	Contract common.Address `serialize:"true" json:"contract"`
	Ledger   common.Address `serialize:"true" json:"ledger"`
}

func (*Transfer) Kind() string             { return TransferEvent }
func (*Approval) Kind() string             { return ApprovalEvent }
func (*ParcelTransfer) Kind() string       { return ParcelTransferEvent }
func (*ParcelApproval) Kind() string       { return ParcelApprovalEvent }
func (*ApprovalForAll) Kind() string       { return ApprovalForAllEvent }
func (*AddonCreated) Kind() string         { return AddonCreatedEvent }
func (*AddonAttached) Kind() string        { return AddonAttachedEvent }
func (*OrderCreated) Kind() string         { return OrderCreatedEvent }
func (*OrderCancelled) Kind() string       { return OrderCancelledEvent }
func (*OrderSuccessful) Kind() string      { return OrderSuccessfulEvent }
func (*OwnershipTransferred) Kind() string { return OwnershipTransferredEvent }
func (*OwnershipRenounced) Kind() string   { return OwnershipRenouncedEvent }
func (*Paused) Kind() string               { return PausedEvent }
func (*Unpaused) Kind() string             { return UnpausedEvent }
func (*UnitPriceChanged) Kind() string     { return UnitPriceChangedEvent }
func (*LedgerChanged) Kind() string        { return LedgerChangedEvent }

var eventTypes = map[string]func() Event{
	TransferEvent:             func() Event { return new(Transfer) },
	ApprovalEvent:             func() Event { return new(Approval) },
	ParcelTransferEvent:       func() Event { return new(ParcelTransfer) },
	ParcelApprovalEvent:       func() Event { return new(ParcelApproval) },
	ApprovalForAllEvent:       func() Event { return new(ApprovalForAll) },
	AddonCreatedEvent:         func() Event { return new(AddonCreated) },
	AddonAttachedEvent:        func() Event { return new(AddonAttached) },
	OrderCreatedEvent:         func() Event { return new(OrderCreated) },
	OrderCancelledEvent:       func() Event { return new(OrderCancelled) },
	OrderSuccessfulEvent:      func() Event { return new(OrderSuccessful) },
	OwnershipTransferredEvent: func() Event { return new(OwnershipTransferred) },
	OwnershipRenouncedEvent:   func() Event { return new(OwnershipRenounced) },
	PausedEvent:               func() Event { return new(Paused) },
	UnpausedEvent:             func() Event { return new(Unpaused) },
	UnitPriceChangedEvent:     func() Event { return new(UnitPriceChanged) },
	LedgerChangedEvent:        func() Event { return new(LedgerChanged) },
}

// EventRecord is an event as stored in the log.
type EventRecord struct {
	Seq   uint64 `serialize:"true"`
	TxID  ids.ID `serialize:"true"`
	Event Event  `serialize:"true"`
}

type eventRecordJSON struct {
	Seq   uint64          `json:"seq"`
	TxID  ids.ID          `json:"txId"`
	Kind  string          `json:"kind"`
	Event json.RawMessage `json:"event"`
}

func (r *EventRecord) MarshalJSON() ([]byte, error) {
	e, err := json.Marshal(r.Event)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&eventRecordJSON{
		Seq:   r.Seq,
		TxID:  r.TxID,
		Kind:  r.Event.Kind(),
		Event: e,
	})
}

func (r *EventRecord) UnmarshalJSON(b []byte) error {
	var raw eventRecordJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	f, ok := eventTypes[raw.Kind]
	if !ok {
		return fmt.Errorf("unknown event kind %q", raw.Kind)
	}
	e := f()
	if err := json.Unmarshal(raw.Event, e); err != nil {
		return err
	}
	r.Seq = raw.Seq
	r.TxID = raw.TxID
	r.Event = e
	return nil
}
