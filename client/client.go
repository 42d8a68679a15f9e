// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package client implements "ecovm" client SDK.
package client

import (
	"context"
	"time"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/rpc"
	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"

	"github.com/ecobux/ecovm/chain"
	"github.com/ecobux/ecovm/vm"
)

// Client defines ecovm client operations.
type Client interface {
	// Pings the VM.
	Ping(ctx context.Context) (bool, error)
	// Returns the version of the VM.
	Version(ctx context.Context) (string, error)
	// Returns the VM genesis.
	Genesis(ctx context.Context) (*chain.Genesis, error)

	// Issues the transaction and returns its ID and events.
	IssueRawTx(ctx context.Context, d []byte) (ids.ID, []*chain.EventRecord, error)
	// Checks the status of the transaction, and returns "true" if confirmed.
	HasTx(ctx context.Context, id ids.ID) (bool, error)
	// Polls the transactions until its status is confirmed.
	PollTx(ctx context.Context, txID ids.ID) (confirmed bool, err error)

	Contract(ctx context.Context, contract common.Address) (*chain.ContractInfo, error)
	Ledger(ctx context.Context, ledger common.Address) (*chain.LedgerInfo, error)
	Balance(ctx context.Context, ledger common.Address, addr common.Address) (uint64, error)
	Allowance(ctx context.Context, ledger common.Address, owner common.Address, spender common.Address) (uint64, error)

	Registry(ctx context.Context, registry common.Address) (*chain.RegistryInfo, error)
	// Returns a parcel and the operator approved to move it.
	Parcel(ctx context.Context, registry common.Address, assetID uint64) (*chain.Parcel, common.Address, error)
	OwnedParcels(ctx context.Context, registry common.Address, owner common.Address) ([]uint64, error)
	Addon(ctx context.Context, registry common.Address, addonID uint64) (*chain.AddonDefinition, error)

	Market(ctx context.Context, market common.Address) (*chain.MarketInfo, error)
	// Returns the live order for a parcel and how its price is split.
	Order(ctx context.Context, market common.Address, registry common.Address, assetID uint64) (*chain.Order, chain.Split, error)

	// Pages through the event log.
	Events(ctx context.Context, from uint64, limit int) ([]*chain.EventRecord, uint64, error)
}

// New creates a new client object.
func New(uri string, reqTimeout time.Duration) Client {
	req := rpc.NewEndpointRequester(
		uri,
		vm.PublicEndpoint,
		vm.Name,
		reqTimeout,
	)
	return &client{req: req}
}

type client struct {
	req rpc.EndpointRequester
}

// send issues one call unless [ctx] is already done. The requester enforces
// its own per-request timeout.
func (cli *client) send(ctx context.Context, method string, args interface{}, reply interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if args == nil {
		args = struct{}{}
	}
	return cli.req.SendRequest(method, args, reply)
}

func (cli *client) Ping(ctx context.Context) (bool, error) {
	resp := new(vm.PingReply)
	if err := cli.send(ctx, "ping", nil, resp); err != nil {
		return false, err
	}
	return resp.Success, nil
}

func (cli *client) Version(ctx context.Context) (string, error) {
	resp := new(vm.VersionReply)
	if err := cli.send(ctx, "version", nil, resp); err != nil {
		return "", err
	}
	return resp.Version, nil
}

func (cli *client) Genesis(ctx context.Context) (*chain.Genesis, error) {
	resp := new(vm.GenesisReply)
	err := cli.send(ctx, "genesis", nil, resp)
	return resp.Genesis, err
}

func (cli *client) IssueRawTx(ctx context.Context, d []byte) (ids.ID, []*chain.EventRecord, error) {
	resp := new(vm.IssueRawTxReply)
	if err := cli.send(
		ctx,
		"issueRawTx",
		&vm.IssueRawTxArgs{Tx: d},
		resp,
	); err != nil {
		return ids.Empty, nil, err
	}
	return resp.TxID, resp.Events, nil
}

func (cli *client) HasTx(ctx context.Context, txID ids.ID) (bool, error) {
	resp := new(vm.HasTxReply)
	if err := cli.send(
		ctx,
		"hasTx",
		&vm.HasTxArgs{TxID: txID},
		resp,
	); err != nil {
		return false, err
	}
	return resp.Confirmed, nil
}

func (cli *client) PollTx(ctx context.Context, txID ids.ID) (confirmed bool, err error) {
done:
	for ctx.Err() == nil {
		confirmed, err := cli.HasTx(ctx, txID)
		if err != nil {
			color.Red("polling transaction failed %v", err)
		} else if confirmed {
			return true, nil
		}

		select {
		case <-time.After(time.Second):
		case <-ctx.Done():
			break done
		}
	}
	return false, ctx.Err()
}

func (cli *client) Contract(ctx context.Context, contract common.Address) (*chain.ContractInfo, error) {
	resp := new(vm.ContractReply)
	if err := cli.send(ctx, "contract", &vm.ContractArgs{Contract: contract}, resp); err != nil {
		return nil, err
	}
	return resp.Info, nil
}

func (cli *client) Ledger(ctx context.Context, ledger common.Address) (*chain.LedgerInfo, error) {
	resp := new(vm.LedgerReply)
	if err := cli.send(ctx, "ledger", &vm.ContractArgs{Contract: ledger}, resp); err != nil {
		return nil, err
	}
	return resp.Info, nil
}

func (cli *client) Balance(ctx context.Context, ledger common.Address, addr common.Address) (uint64, error) {
	resp := new(vm.BalanceReply)
	if err := cli.send(
		ctx,
		"balance",
		&vm.BalanceArgs{Ledger: ledger, Address: addr},
		resp,
	); err != nil {
		return 0, err
	}
	return resp.Balance, nil
}

func (cli *client) Allowance(ctx context.Context, ledger common.Address, owner common.Address, spender common.Address) (uint64, error) {
	resp := new(vm.AllowanceReply)
	if err := cli.send(
		ctx,
		"allowance",
		&vm.AllowanceArgs{Ledger: ledger, Owner: owner, Spender: spender},
		resp,
	); err != nil {
		return 0, err
	}
	return resp.Allowance, nil
}

func (cli *client) Registry(ctx context.Context, registry common.Address) (*chain.RegistryInfo, error) {
	resp := new(vm.RegistryReply)
	if err := cli.send(ctx, "registry", &vm.ContractArgs{Contract: registry}, resp); err != nil {
		return nil, err
	}
	return resp.Info, nil
}

func (cli *client) Parcel(ctx context.Context, registry common.Address, assetID uint64) (*chain.Parcel, common.Address, error) {
	resp := new(vm.ParcelReply)
	if err := cli.send(
		ctx,
		"parcel",
		&vm.ParcelArgs{Registry: registry, AssetID: assetID},
		resp,
	); err != nil {
		return nil, common.Address{}, err
	}
	return resp.Parcel, resp.Approved, nil
}

func (cli *client) OwnedParcels(ctx context.Context, registry common.Address, owner common.Address) ([]uint64, error) {
	resp := new(vm.OwnedParcelsReply)
	if err := cli.send(
		ctx,
		"ownedParcels",
		&vm.OwnedParcelsArgs{Registry: registry, Owner: owner},
		resp,
	); err != nil {
		return nil, err
	}
	return resp.AssetIDs, nil
}

func (cli *client) Addon(ctx context.Context, registry common.Address, addonID uint64) (*chain.AddonDefinition, error) {
	resp := new(vm.AddonReply)
	if err := cli.send(
		ctx,
		"addon",
		&vm.AddonArgs{Registry: registry, AddonID: addonID},
		resp,
	); err != nil {
		return nil, err
	}
	return resp.Addon, nil
}

func (cli *client) Market(ctx context.Context, market common.Address) (*chain.MarketInfo, error) {
	resp := new(vm.MarketReply)
	if err := cli.send(ctx, "market", &vm.ContractArgs{Contract: market}, resp); err != nil {
		return nil, err
	}
	return resp.Info, nil
}

func (cli *client) Order(ctx context.Context, market common.Address, registry common.Address, assetID uint64) (*chain.Order, chain.Split, error) {
	resp := new(vm.OrderReply)
	if err := cli.send(
		ctx,
		"order",
		&vm.OrderArgs{Market: market, Registry: registry, AssetID: assetID},
		resp,
	); err != nil {
		return nil, chain.Split{}, err
	}
	return resp.Order, resp.Split, nil
}

func (cli *client) Events(ctx context.Context, from uint64, limit int) ([]*chain.EventRecord, uint64, error) {
	resp := new(vm.EventsReply)
	if err := cli.send(
		ctx,
		"events",
		&vm.EventsArgs{From: from, Limit: limit},
		resp,
	); err != nil {
		return nil, 0, err
	}
	return resp.Events, resp.Total, nil
}
