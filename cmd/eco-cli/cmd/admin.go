// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ecobux/ecovm/chain"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrative operations on any deployed contract",
}

func init() {
	adminCmd.AddCommand(
		&cobra.Command{
			Use:   "transfer-ownership [contract] [to]",
			Short: "Hands the admin role to another address",
			Args:  cobra.ExactArgs(2),
			RunE:  transferOwnershipFunc,
		},
		&cobra.Command{
			Use:   "renounce [contract]",
			Short: "Gives up the admin role for good",
			Args:  cobra.ExactArgs(1),
			RunE: contractTxFunc(func(b *chain.BaseTx) chain.UnsignedTransaction {
				return &chain.RenounceOwnershipTx{BaseTx: b}
			}),
		},
		&cobra.Command{
			Use:   "pause [contract]",
			Short: "Pauses a registry or marketplace",
			Args:  cobra.ExactArgs(1),
			RunE: contractTxFunc(func(b *chain.BaseTx) chain.UnsignedTransaction {
				return &chain.PauseTx{BaseTx: b}
			}),
		},
		&cobra.Command{
			Use:   "unpause [contract]",
			Short: "Resumes a paused registry or marketplace",
			Args:  cobra.ExactArgs(1),
			RunE: contractTxFunc(func(b *chain.BaseTx) chain.UnsignedTransaction {
				return &chain.UnpauseTx{BaseTx: b}
			}),
		},
		&cobra.Command{
			Use:   "set-unit-price [price]",
			Short: "Changes the registry parcel price",
			Args:  cobra.ExactArgs(1),
			RunE:  setUnitPriceFunc,
		},
		&cobra.Command{
			Use:   "set-ledger [contract] [ledger]",
			Short: "Points a registry or marketplace at another ledger",
			Args:  cobra.ExactArgs(2),
			RunE:  setLedgerFunc,
		},
		&cobra.Command{
			Use:   "contract [contract]",
			Short: "Prints the admin record of a contract",
			Args:  cobra.ExactArgs(1),
			RunE:  contractInfoFunc,
		},
	)
}

func contractTxFunc(f func(*chain.BaseTx) chain.UnsignedTransaction) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		contract, err := parseAddress(args[0])
		if err != nil {
			return err
		}
		_, err = issue(f(baseTx(contract)))
		return err
	}
}

func transferOwnershipFunc(cmd *cobra.Command, args []string) error {
	contract, err := parseAddress(args[0])
	if err != nil {
		return err
	}
	to, err := parseAddress(args[1])
	if err != nil {
		return err
	}
	_, err = issue(&chain.TransferOwnershipTx{BaseTx: baseTx(contract), To: to})
	return err
}

func setUnitPriceFunc(cmd *cobra.Command, args []string) error {
	registry, err := registryAddress()
	if err != nil {
		return err
	}
	price, err := parseUint(args[0], "price")
	if err != nil {
		return err
	}
	_, err = issue(&chain.SetUnitPriceTx{BaseTx: baseTx(registry), Price: price})
	return err
}

func setLedgerFunc(cmd *cobra.Command, args []string) error {
	contract, err := parseAddress(args[0])
	if err != nil {
		return err
	}
	ledger, err := parseAddress(args[1])
	if err != nil {
		return err
	}
	_, err = issue(&chain.SetLedgerTx{BaseTx: baseTx(contract), Ledger: ledger})
	return err
}

func contractInfoFunc(cmd *cobra.Command, args []string) error {
	contract, err := parseAddress(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	i, err := newClient().Contract(ctx, contract)
	if err != nil {
		return err
	}
	color.Cyan("%s: kind=%s admin=%s paused=%t", contract, i.Kind, i.Admin, i.Paused)
	return nil
}
