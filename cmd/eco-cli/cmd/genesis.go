// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"encoding/json"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ecobux/ecovm/chain"
)

var (
	genesisFile        string
	maxBulkCreate      uint64
	unitPrice          uint64
	marketFeePercent   uint64
	purchaseFeePercent uint64
	feeSinkAddr        string
	adminAddr          string
)

func init() {
	genesisCmd.PersistentFlags().StringVar(
		&genesisFile,
		"genesis-file",
		"genesis.json",
		"genesis file path",
	)
	genesisCmd.PersistentFlags().Uint64Var(
		&maxBulkCreate,
		"max-bulk-create",
		chain.DefaultMaxBulkCreate,
		"maximum parcels per bulk create",
	)
	genesisCmd.PersistentFlags().Uint64Var(
		&unitPrice,
		"unit-price",
		chain.DefaultUnitPrice,
		"credit price of one parcel bought from the registry",
	)
	genesisCmd.PersistentFlags().Uint64Var(
		&marketFeePercent,
		"market-fee-percent",
		chain.DefaultFeePercent,
		"marketplace fee percent, charged once for the fee sink and once for the registry",
	)
	genesisCmd.PersistentFlags().Uint64Var(
		&purchaseFeePercent,
		"purchase-fee-percent",
		0,
		"percent of registry sales forwarded to the fee sink",
	)
	genesisCmd.PersistentFlags().StringVar(
		&feeSinkAddr,
		"fee-sink",
		"",
		"fee sink address (defaults to the admin)",
	)
	genesisCmd.PersistentFlags().StringVar(
		&adminAddr,
		"admin",
		"",
		"admin address (defaults to the key in --private-key-file)",
	)
}

var genesisCmd = &cobra.Command{
	Use:   "genesis [options] [allocations file]",
	Short: "Creates a new genesis in the default location",
	Long: `
Writes a genesis deploying one ledger, one registry and one marketplace.
The optional allocations file is a JSON list of {"address", "balance"}
entries credited on the ledger.

$ eco-cli genesis --admin 0x... allocations.json

`,
	Args: cobra.MaximumNArgs(1),
	RunE: genesisFunc,
}

func genesisFunc(cmd *cobra.Command, args []string) error {
	admin, err := resolveAdmin()
	if err != nil {
		return err
	}
	feeSink := admin
	if feeSinkAddr != "" {
		if feeSink, err = parseAddress(feeSinkAddr); err != nil {
			return err
		}
	}
	ledger, err := ledgerAddress()
	if err != nil {
		return err
	}
	registry, err := registryAddress()
	if err != nil {
		return err
	}
	market, err := marketAddress()
	if err != nil {
		return err
	}

	var allocs []*chain.CustomAllocation
	if len(args) == 1 {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		if err := json.Unmarshal(b, &allocs); err != nil {
			return err
		}
	}

	g := chain.DefaultGenesis()
	g.MaxBulkCreate = maxBulkCreate
	g.Ledgers = []*chain.LedgerGenesis{{
		Address:     ledger,
		Admin:       admin,
		Name:        chain.DefaultLedgerName,
		Symbol:      chain.DefaultLedgerSymbol,
		Decimals:    chain.DefaultLedgerDecimals,
		Allocations: allocs,
	}}
	g.Registries = []*chain.RegistryGenesis{{
		Address:            registry,
		Admin:              admin,
		Ledger:             ledger,
		Name:               chain.DefaultRegistryName,
		Symbol:             chain.DefaultRegistrySymbol,
		UnitPrice:          unitPrice,
		FeeSink:            feeSink,
		PurchaseFeePercent: purchaseFeePercent,
	}}
	g.Marketplaces = []*chain.MarketGenesis{{
		Address:    market,
		Admin:      admin,
		Ledger:     ledger,
		FeeSink:    feeSink,
		FeePercent: marketFeePercent,
	}}
	if err := g.Verify(); err != nil {
		return err
	}

	b, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(genesisFile, b, fsModeWrite); err != nil {
		return err
	}
	color.Green("created genesis and saved to %s", genesisFile)
	return nil
}
