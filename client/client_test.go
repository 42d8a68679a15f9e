// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package client

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/ecobux/ecovm/chain"
	"github.com/ecobux/ecovm/vm"
)

var (
	ledger   = common.HexToAddress("0x1000")
	registry = common.HexToAddress("0x2000")
	market   = common.HexToAddress("0x3000")
	feeSink  = common.HexToAddress("0xfee")
)

func TestClient(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	priv, err := crypto.GenerateKey()
	require.NoError(err)
	admin := crypto.PubkeyToAddress(priv.PublicKey)

	g := chain.DefaultGenesis()
	g.Ledgers = []*chain.LedgerGenesis{{
		Address:     ledger,
		Admin:       admin,
		Allocations: []*chain.CustomAllocation{{Address: admin, Balance: 100}},
	}}
	g.Registries = []*chain.RegistryGenesis{{Address: registry, Admin: admin, Ledger: ledger}}
	g.Marketplaces = []*chain.MarketGenesis{{Address: market, Admin: admin, Ledger: ledger, FeeSink: feeSink, FeePercent: 1}}

	var config vm.Config
	config.SetDefaults()
	v, err := vm.New(config, g, memdb.New())
	require.NoError(err)
	handler, err := vm.NewHandler(v)
	require.NoError(err)
	server := httptest.NewServer(handler)
	defer server.Close()

	cli := New(server.URL, 5*time.Second)

	ok, err := cli.Ping(ctx)
	require.NoError(err)
	require.True(ok)

	remote, err := cli.Genesis(ctx)
	require.NoError(err)
	require.Len(remote.Ledgers, 1)
	require.Equal(chain.DefaultLedgerSymbol, remote.Ledgers[0].Symbol)

	info, err := cli.Contract(ctx, registry)
	require.NoError(err)
	require.Equal(chain.KindRegistry, info.Kind)
	require.Equal(admin, info.Admin)

	txID, events, err := SignIssueTx(ctx, cli,
		&chain.BulkCreateTx{BaseTx: &chain.BaseTx{Contract: registry}, Parcels: [][]byte{[]byte("a"), []byte("b")}},
		priv, WithQuiet(), WithPollTx(),
	)
	require.NoError(err)
	require.Len(events, 2)
	require.Equal(chain.ParcelTransferEvent, events[0].Event.Kind())
	// The genesis mint holds sequence 0.
	require.Equal(uint64(1), events[0].Seq)
	require.Equal(uint64(2), events[1].Seq)

	confirmed, err := cli.HasTx(ctx, txID)
	require.NoError(err)
	require.True(confirmed)

	_, _, err = SignIssueTx(ctx, cli,
		&chain.ApproveTx{BaseTx: &chain.BaseTx{Contract: ledger}, Spender: registry, Value: 25},
		priv, WithQuiet(),
	)
	require.NoError(err)
	_, _, err = SignIssueTx(ctx, cli,
		&chain.BuyTx{BaseTx: &chain.BaseTx{Contract: registry}, Count: 1, Recipient: admin},
		priv, WithQuiet(),
	)
	require.NoError(err)

	bal, err := cli.Balance(ctx, ledger, admin)
	require.NoError(err)
	require.Equal(uint64(75), bal)

	allowance, err := cli.Allowance(ctx, ledger, admin, registry)
	require.NoError(err)
	require.Zero(allowance)

	owned, err := cli.OwnedParcels(ctx, registry, admin)
	require.NoError(err)
	require.Equal([]uint64{0}, owned)

	p, approved, err := cli.Parcel(ctx, registry, 0)
	require.NoError(err)
	require.Equal([]byte("a"), p.Metadata)
	require.Equal(common.Address{}, approved)

	ri, err := cli.Registry(ctx, registry)
	require.NoError(err)
	require.Equal(uint64(1), ri.Unsold)

	_, _, err = SignIssueTx(ctx, cli,
		&chain.ApproveAssetTx{BaseTx: &chain.BaseTx{Contract: registry}, Operator: market, AssetID: 0},
		priv, WithQuiet(),
	)
	require.NoError(err)
	_, _, err = SignIssueTx(ctx, cli,
		&chain.CreateOrderTx{BaseTx: &chain.BaseTx{Contract: market}, Registry: registry, AssetID: 0, Price: 300},
		priv, WithQuiet(),
	)
	require.NoError(err)

	o, split, err := cli.Order(ctx, market, registry, 0)
	require.NoError(err)
	require.Equal(uint64(300), o.Price)
	require.Equal(uint64(294), split.Seller)

	// Executed errors surface as RPC errors.
	_, _, err = SignIssueTx(ctx, cli,
		&chain.ExecuteOrderTx{BaseTx: &chain.BaseTx{Contract: market}, Registry: registry, AssetID: 0, ExpectedPrice: 300},
		priv, WithQuiet(),
	)
	require.Error(err)
	require.Contains(err.Error(), chain.ErrSelfTrade.Error())

	records, total, err := cli.Events(ctx, 0, 0)
	require.NoError(err)
	require.Equal(uint64(len(records)), total)
	require.Equal(chain.OrderCreatedEvent, records[len(records)-1].Event.Kind())

	mi, err := cli.Market(ctx, market)
	require.NoError(err)
	require.Equal(feeSink, mi.FeeSink)

	li, err := cli.Ledger(ctx, ledger)
	require.NoError(err)
	require.Equal(uint64(100), li.TotalSupply)
}

func TestClientCanceledContext(t *testing.T) {
	require := require.New(t)

	var config vm.Config
	config.SetDefaults()
	v, err := vm.New(config, chain.DefaultGenesis(), memdb.New())
	require.NoError(err)
	handler, err := vm.NewHandler(v)
	require.NoError(err)
	server := httptest.NewServer(handler)
	defer server.Close()

	cli := New(server.URL, 5*time.Second)
	ok, err := cli.Ping(context.Background())
	require.NoError(err)
	require.True(ok)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = cli.Ping(ctx)
	require.ErrorIs(err, context.Canceled)
	_, _, err = cli.IssueRawTx(ctx, []byte{0x1})
	require.ErrorIs(err, context.Canceled)
}
