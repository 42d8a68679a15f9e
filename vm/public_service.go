// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"net/http"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ethereum/go-ethereum/common"
	log "github.com/inconshreveable/log15"

	"github.com/ecobux/ecovm/chain"
	"github.com/ecobux/ecovm/version"
)

type PublicService struct {
	vm *VM
}

type PingReply struct {
	Success bool `json:"success"`
}

func (svc *PublicService) Ping(_ *http.Request, _ *struct{}, reply *PingReply) (err error) {
	log.Info("ping")
	reply.Success = true
	return nil
}

type VersionReply struct {
	Version string `json:"version"`
}

func (svc *PublicService) Version(_ *http.Request, _ *struct{}, reply *VersionReply) error {
	reply.Version = version.Version.String()
	return nil
}

type GenesisReply struct {
	Genesis *chain.Genesis `json:"genesis"`
}

func (svc *PublicService) Genesis(_ *http.Request, _ *struct{}, reply *GenesisReply) (err error) {
	reply.Genesis = svc.vm.Genesis()
	return nil
}

type IssueRawTxArgs struct {
	Tx []byte `json:"tx"`
}

type IssueRawTxReply struct {
	TxID   ids.ID              `json:"txId"`
	Events []*chain.EventRecord `json:"events"`
}

func (svc *PublicService) IssueRawTx(_ *http.Request, args *IssueRawTxArgs, reply *IssueRawTxReply) error {
	txID, records, err := svc.vm.SubmitRaw(args.Tx)
	if err != nil {
		return err
	}
	reply.TxID = txID
	reply.Events = records
	return nil
}

type HasTxArgs struct {
	TxID ids.ID `json:"txId"`
}

type HasTxReply struct {
	Confirmed bool `json:"confirmed"`
}

func (svc *PublicService) HasTx(_ *http.Request, args *HasTxArgs, reply *HasTxReply) error {
	has, err := svc.vm.HasTx(args.TxID)
	if err != nil {
		return err
	}
	reply.Confirmed = has
	return nil
}

type ContractArgs struct {
	Contract common.Address `json:"contract"`
}

type ContractReply struct {
	Info *chain.ContractInfo `json:"info"`
	Kind string              `json:"kind"`
}

func (svc *PublicService) Contract(_ *http.Request, args *ContractArgs, reply *ContractReply) error {
	i, err := svc.vm.Contract(args.Contract)
	if err != nil {
		return err
	}
	reply.Info = i
	reply.Kind = i.Kind.String()
	return nil
}

type LedgerReply struct {
	Info *chain.LedgerInfo `json:"info"`
}

func (svc *PublicService) Ledger(_ *http.Request, args *ContractArgs, reply *LedgerReply) error {
	i, err := svc.vm.Ledger(args.Contract)
	if err != nil {
		return err
	}
	reply.Info = i
	return nil
}

type BalanceArgs struct {
	Ledger  common.Address `json:"ledger"`
	Address common.Address `json:"address"`
}

type BalanceReply struct {
	Balance uint64 `json:"balance"`
}

func (svc *PublicService) Balance(_ *http.Request, args *BalanceArgs, reply *BalanceReply) error {
	bal, err := svc.vm.Balance(args.Ledger, args.Address)
	if err != nil {
		return err
	}
	reply.Balance = bal
	return nil
}

type AllowanceArgs struct {
	Ledger  common.Address `json:"ledger"`
	Owner   common.Address `json:"owner"`
	Spender common.Address `json:"spender"`
}

type AllowanceReply struct {
	Allowance uint64 `json:"allowance"`
}

func (svc *PublicService) Allowance(_ *http.Request, args *AllowanceArgs, reply *AllowanceReply) error {
	a, err := svc.vm.Allowance(args.Ledger, args.Owner, args.Spender)
	if err != nil {
		return err
	}
	reply.Allowance = a
	return nil
}

type RegistryReply struct {
	Info *chain.RegistryInfo `json:"info"`
}

func (svc *PublicService) Registry(_ *http.Request, args *ContractArgs, reply *RegistryReply) error {
	i, err := svc.vm.Registry(args.Contract)
	if err != nil {
		return err
	}
	reply.Info = i
	return nil
}

type ParcelArgs struct {
	Registry common.Address `json:"registry"`
	AssetID  uint64         `json:"assetId"`
}

type ParcelReply struct {
	Parcel   *chain.Parcel  `json:"parcel"`
	Approved common.Address `json:"approved"`
}

func (svc *PublicService) Parcel(_ *http.Request, args *ParcelArgs, reply *ParcelReply) error {
	p, approved, err := svc.vm.Parcel(args.Registry, args.AssetID)
	if err != nil {
		return err
	}
	reply.Parcel = p
	reply.Approved = approved
	return nil
}

type OwnedParcelsArgs struct {
	Registry common.Address `json:"registry"`
	Owner    common.Address `json:"owner"`
}

type OwnedParcelsReply struct {
	AssetIDs []uint64 `json:"assetIds"`
}

func (svc *PublicService) OwnedParcels(_ *http.Request, args *OwnedParcelsArgs, reply *OwnedParcelsReply) error {
	owned, err := svc.vm.OwnedParcels(args.Registry, args.Owner)
	if err != nil {
		return err
	}
	reply.AssetIDs = owned
	return nil
}

type AddonArgs struct {
	Registry common.Address `json:"registry"`
	AddonID  uint64         `json:"addonId"`
}

type AddonReply struct {
	Addon *chain.AddonDefinition `json:"addon"`
}

func (svc *PublicService) Addon(_ *http.Request, args *AddonArgs, reply *AddonReply) error {
	a, err := svc.vm.Addon(args.Registry, args.AddonID)
	if err != nil {
		return err
	}
	reply.Addon = a
	return nil
}

type MarketReply struct {
	Info *chain.MarketInfo `json:"info"`
}

func (svc *PublicService) Market(_ *http.Request, args *ContractArgs, reply *MarketReply) error {
	i, err := svc.vm.Market(args.Contract)
	if err != nil {
		return err
	}
	reply.Info = i
	return nil
}

type OrderArgs struct {
	Market   common.Address `json:"market"`
	Registry common.Address `json:"registry"`
	AssetID  uint64         `json:"assetId"`
}

type OrderReply struct {
	Order *chain.Order `json:"order"`
	Split chain.Split  `json:"split"`
}

func (svc *PublicService) Order(_ *http.Request, args *OrderArgs, reply *OrderReply) error {
	o, split, err := svc.vm.Order(args.Market, args.Registry, args.AssetID)
	if err != nil {
		return err
	}
	reply.Order = o
	reply.Split = split
	return nil
}

type EventsArgs struct {
	From  uint64 `json:"from"`
	Limit int    `json:"limit"`
}

type EventsReply struct {
	Events []*chain.EventRecord `json:"events"`
	Total  uint64               `json:"total"`
}

func (svc *PublicService) Events(_ *http.Request, args *EventsArgs, reply *EventsReply) error {
	records, total, err := svc.vm.Events(args.From, args.Limit)
	if err != nil {
		return err
	}
	reply.Events = records
	reply.Total = total
	return nil
}
