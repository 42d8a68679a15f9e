// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm_test

import (
	"context"
	"crypto/ecdsa"
	"encoding/hex"
	"flag"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/fatih/color"
	log "github.com/inconshreveable/log15"
	ginkgo "github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/ecobux/ecovm/chain"
	"github.com/ecobux/ecovm/client"
	"github.com/ecobux/ecovm/parser"
	"github.com/ecobux/ecovm/vm"
)

func TestIntegration(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "ecovm integration test suites")
}

var requestTimeout time.Duration

func init() {
	flag.DurationVar(
		&requestTimeout,
		"request-timeout",
		30*time.Second,
		"timeout for transaction issuance",
	)
}

var (
	ledger   = common.HexToAddress("0xec0b000000000000000000000000000000000001")
	registry = common.HexToAddress("0xec0b000000000000000000000000000000000002")
	market   = common.HexToAddress("0xec0b000000000000000000000000000000000003")
	feeSink  = common.HexToAddress("0xfee")
)

type account struct {
	priv *ecdsa.PrivateKey
	addr common.Address
}

var (
	admin, seller, buyer account

	db         *memdb.Database
	instance   *vm.VM
	httpServer *httptest.Server
	cli        client.Client

	genesis *chain.Genesis
	nonce   uint64
)

func newAccount() account {
	priv, err := crypto.GenerateKey()
	gomega.Ω(err).Should(gomega.BeNil())
	addr := crypto.PubkeyToAddress(priv.PublicKey)
	log.Debug("generated key", "addr", addr, "priv", hex.EncodeToString(crypto.FromECDSA(priv)))
	return account{priv: priv, addr: addr}
}

func base(contract common.Address) *chain.BaseTx {
	nonce++
	return &chain.BaseTx{Contract: contract, Nonce: nonce}
}

func issue(from account, utx chain.UnsignedTransaction) ([]*chain.EventRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	_, events, err := client.SignIssueTx(ctx, cli, utx, from.priv, client.WithPollTx(), client.WithQuiet())
	return events, err
}

func balance(addr common.Address) uint64 {
	b, err := cli.Balance(context.Background(), ledger, addr)
	gomega.Ω(err).Should(gomega.BeNil())
	return b
}

var _ = ginkgo.BeforeSuite(func() {
	admin = newAccount()
	seller = newAccount()
	buyer = newAccount()

	genesis = chain.DefaultGenesis()
	genesis.MaxBulkCreate = 2
	genesis.Ledgers = []*chain.LedgerGenesis{{
		Address: ledger,
		Admin:   admin.addr,
		Allocations: []*chain.CustomAllocation{
			{Address: seller.addr, Balance: 1000},
			{Address: buyer.addr, Balance: 2000},
		},
	}}
	genesis.Registries = []*chain.RegistryGenesis{{
		Address: registry,
		Admin:   admin.addr,
		Ledger:  ledger,
	}}
	genesis.Marketplaces = []*chain.MarketGenesis{{
		Address:    market,
		Admin:      admin.addr,
		Ledger:     ledger,
		FeeSink:    feeSink,
		FeePercent: chain.DefaultFeePercent,
	}}

	var config vm.Config
	config.SetDefaults()

	db = memdb.New()
	var err error
	instance, err = vm.New(config, genesis, db)
	gomega.Ω(err).Should(gomega.BeNil())

	handler, err := vm.NewHandler(instance)
	gomega.Ω(err).Should(gomega.BeNil())
	httpServer = httptest.NewServer(handler)
	cli = client.New(httpServer.URL, requestTimeout)

	// Verify genesis allocations loaded correctly
	g, err := cli.Genesis(context.Background())
	gomega.Ω(err).Should(gomega.BeNil())
	for _, alloc := range g.Ledgers[0].Allocations {
		gomega.Ω(balance(alloc.Address)).Should(gomega.Equal(alloc.Balance))
	}
	color.Blue("created VM at %s", httpServer.URL)
})

var _ = ginkgo.AfterSuite(func() {
	httpServer.Close()
	gomega.Ω(db.Close()).Should(gomega.BeNil())
})

var _ = ginkgo.Describe("[Ping]", func() {
	ginkgo.It("can ping", func() {
		ok, err := cli.Ping(context.Background())
		gomega.Ω(ok).Should(gomega.BeTrue())
		gomega.Ω(err).Should(gomega.BeNil())
	})
})

var _ = ginkgo.Describe("Marketplace", func() {
	ginkgo.It("ensure nothing owned yet", func() {
		owned, err := cli.OwnedParcels(context.Background(), registry, seller.addr)
		gomega.Ω(err).Should(gomega.BeNil())
		gomega.Ω(owned).Should(gomega.BeEmpty())
	})

	ginkgo.It("bulk creates parcels in batches", func() {
		descs := []*parser.Descriptor{
			{GeoMap: [][]int64{{0, 0}}},
			{GeoMap: [][]int64{{0, 1}}},
			{GeoMap: [][]int64{{1, 0}, {1, 1}}},
		}
		batches, err := parser.Batches(descs, int(genesis.MaxBulkCreate))
		gomega.Ω(err).Should(gomega.BeNil())
		gomega.Ω(batches).Should(gomega.HaveLen(2))
		for _, batch := range batches {
			_, err := issue(admin, &chain.BulkCreateTx{BaseTx: base(registry), Parcels: batch})
			gomega.Ω(err).Should(gomega.BeNil())
		}

		info, err := cli.Registry(context.Background(), registry)
		gomega.Ω(err).Should(gomega.BeNil())
		gomega.Ω(info.Unsold).Should(gomega.Equal(uint64(3)))
	})

	ginkgo.It("rejects bulk create from a non-admin", func() {
		_, err := issue(seller, &chain.BulkCreateTx{BaseTx: base(registry), Parcels: [][]byte{[]byte("{}")}})
		gomega.Ω(err).ShouldNot(gomega.BeNil())
		gomega.Ω(err.Error()).Should(gomega.ContainSubstring(chain.ErrUnauthorized.Error()))
	})

	ginkgo.It("buys parcels from the pool", func() {
		_, err := issue(seller, &chain.ApproveTx{BaseTx: base(ledger), Spender: registry, Value: 2 * chain.DefaultUnitPrice})
		gomega.Ω(err).Should(gomega.BeNil())
		_, err = issue(seller, &chain.BuyTx{BaseTx: base(registry), Count: 2, Recipient: seller.addr})
		gomega.Ω(err).Should(gomega.BeNil())

		owned, err := cli.OwnedParcels(context.Background(), registry, seller.addr)
		gomega.Ω(err).Should(gomega.BeNil())
		gomega.Ω(owned).Should(gomega.Equal([]uint64{0, 1}))
		gomega.Ω(balance(seller.addr)).Should(gomega.Equal(uint64(1000 - 2*chain.DefaultUnitPrice)))

		p, _, err := cli.Parcel(context.Background(), registry, 0)
		gomega.Ω(err).Should(gomega.BeNil())
		d, err := parser.DecodeMetadata(p.Metadata)
		gomega.Ω(err).Should(gomega.BeNil())
		gomega.Ω(d.GeoMap).Should(gomega.Equal([][]int64{{0, 0}}))
	})

	ginkgo.It("lists a parcel", func() {
		_, err := issue(seller, &chain.SetApprovalForAllTx{BaseTx: base(registry), Operator: market, Approved: true})
		gomega.Ω(err).Should(gomega.BeNil())
		events, err := issue(seller, &chain.CreateOrderTx{BaseTx: base(market), Registry: registry, AssetID: 1, Price: 100})
		gomega.Ω(err).Should(gomega.BeNil())
		gomega.Ω(events).Should(gomega.HaveLen(1))
		gomega.Ω(events[0].Event.Kind()).Should(gomega.Equal(chain.OrderCreatedEvent))

		o, split, err := cli.Order(context.Background(), market, registry, 1)
		gomega.Ω(err).Should(gomega.BeNil())
		gomega.Ω(o.Seller).Should(gomega.Equal(seller.addr))
		gomega.Ω(split).Should(gomega.Equal(chain.Split{FeeSink: 1, Registry: 1, Seller: 98}))
	})

	ginkgo.It("rejects a purchase at a stale price", func() {
		_, err := issue(buyer, &chain.ExecuteOrderTx{BaseTx: base(market), Registry: registry, AssetID: 1, ExpectedPrice: 99})
		gomega.Ω(err).ShouldNot(gomega.BeNil())
		gomega.Ω(err.Error()).Should(gomega.ContainSubstring(chain.ErrPriceMismatch.Error()))
	})

	ginkgo.It("executes the order", func() {
		registryBefore := balance(registry)

		_, err := issue(buyer, &chain.ApproveTx{BaseTx: base(ledger), Spender: market, Value: 100})
		gomega.Ω(err).Should(gomega.BeNil())
		events, err := issue(buyer, &chain.ExecuteOrderTx{BaseTx: base(market), Registry: registry, AssetID: 1, ExpectedPrice: 100})
		gomega.Ω(err).Should(gomega.BeNil())
		gomega.Ω(events[len(events)-1].Event.Kind()).Should(gomega.Equal(chain.OrderSuccessfulEvent))

		gomega.Ω(balance(buyer.addr)).Should(gomega.Equal(uint64(1900)))
		gomega.Ω(balance(seller.addr)).Should(gomega.Equal(uint64(1000 - 2*chain.DefaultUnitPrice + 98)))
		gomega.Ω(balance(feeSink)).Should(gomega.Equal(uint64(1)))
		gomega.Ω(balance(registry)).Should(gomega.Equal(registryBefore + 1))

		owner, _, err := cli.Parcel(context.Background(), registry, 1)
		gomega.Ω(err).Should(gomega.BeNil())
		gomega.Ω(owner.Owner).Should(gomega.Equal(buyer.addr))

		_, _, err = cli.Order(context.Background(), market, registry, 1)
		gomega.Ω(err).ShouldNot(gomega.BeNil())
	})

	ginkgo.It("records every event in order", func() {
		records, total, err := cli.Events(context.Background(), 0, 0)
		gomega.Ω(err).Should(gomega.BeNil())
		gomega.Ω(uint64(len(records))).Should(gomega.Equal(total))
		for i, r := range records {
			gomega.Ω(r.Seq).Should(gomega.Equal(uint64(i)))
		}
		gomega.Ω(records[len(records)-1].Event.Kind()).Should(gomega.Equal(chain.OrderSuccessfulEvent))
	})
})
