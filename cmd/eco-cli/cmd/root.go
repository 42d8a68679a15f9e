// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// "eco-cli" implements ecovm client operation interface.
package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

const (
	requestTimeout = 30 * time.Second
	fsModeWrite    = 0o600
)

var (
	privateKeyFile string
	uri            string
	pollTx         bool

	ledgerAddr   string
	registryAddr string
	marketAddr   string

	rootCmd = &cobra.Command{
		Use:        "eco-cli",
		Short:      "EcoVM CLI",
		SuggestFor: []string{"eco-cli", "ecocli", "ecoctl"},
	}
)

func init() {
	cobra.EnablePrefixMatching = true
	rootCmd.AddCommand(
		createCmd,
		genesisCmd,
		ledgerCmd,
		registryCmd,
		marketCmd,
		adminCmd,
		eventsCmd,
	)

	rootCmd.PersistentFlags().StringVar(
		&privateKeyFile,
		"private-key-file",
		".eco-cli-pk",
		"private key file path",
	)
	rootCmd.PersistentFlags().StringVar(
		&uri,
		"endpoint",
		"http://127.0.0.1:9650",
		"RPC endpoint for VM",
	)
	rootCmd.PersistentFlags().BoolVar(
		&pollTx,
		"poll",
		false,
		"Poll issued transactions until confirmed",
	)
	rootCmd.PersistentFlags().StringVar(
		&ledgerAddr,
		"ledger",
		defaultLedger.Hex(),
		"ledger address",
	)
	rootCmd.PersistentFlags().StringVar(
		&registryAddr,
		"registry",
		defaultRegistry.Hex(),
		"registry address",
	)
	rootCmd.PersistentFlags().StringVar(
		&marketAddr,
		"market",
		defaultMarket.Hex(),
		"marketplace address",
	)
}

func Execute() error {
	return rootCmd.Execute()
}
