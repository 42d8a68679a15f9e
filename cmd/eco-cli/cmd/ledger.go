// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ecobux/ecovm/chain"
)

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Credit ledger operations",
}

func init() {
	ledgerCmd.AddCommand(
		&cobra.Command{
			Use:   "mint [to] [value]",
			Short: "Mints credits (ledger admin only)",
			Args:  cobra.ExactArgs(2),
			RunE:  mintFunc,
		},
		&cobra.Command{
			Use:   "transfer [to] [value]",
			Short: "Transfers credits",
			Args:  cobra.ExactArgs(2),
			RunE:  transferFunc,
		},
		&cobra.Command{
			Use:   "approve [spender] [value]",
			Short: "Sets the allowance of a spender",
			Args:  cobra.ExactArgs(2),
			RunE:  approveFunc,
		},
		&cobra.Command{
			Use:   "transfer-from [from] [to] [value]",
			Short: "Transfers credits out of an allowance",
			Args:  cobra.ExactArgs(3),
			RunE:  transferFromFunc,
		},
		&cobra.Command{
			Use:   "balance [address]",
			Short: "Prints the balance of an address (defaults to the CLI key)",
			Args:  cobra.MaximumNArgs(1),
			RunE:  balanceFunc,
		},
		&cobra.Command{
			Use:   "allowance [owner] [spender]",
			Short: "Prints the allowance of a spender",
			Args:  cobra.ExactArgs(2),
			RunE:  allowanceFunc,
		},
		&cobra.Command{
			Use:   "info",
			Short: "Prints the ledger metadata",
			Args:  cobra.NoArgs,
			RunE:  ledgerInfoFunc,
		},
	)
}

func addressAndValue(args []string) (common.Address, uint64, error) {
	addr, err := parseAddress(args[0])
	if err != nil {
		return common.Address{}, 0, err
	}
	v, err := parseUint(args[1], "value")
	if err != nil {
		return common.Address{}, 0, err
	}
	return addr, v, nil
}

func mintFunc(cmd *cobra.Command, args []string) error {
	ledger, err := ledgerAddress()
	if err != nil {
		return err
	}
	to, value, err := addressAndValue(args)
	if err != nil {
		return err
	}
	_, err = issue(&chain.MintTx{BaseTx: baseTx(ledger), To: to, Value: value})
	return err
}

func transferFunc(cmd *cobra.Command, args []string) error {
	ledger, err := ledgerAddress()
	if err != nil {
		return err
	}
	to, value, err := addressAndValue(args)
	if err != nil {
		return err
	}
	_, err = issue(&chain.TransferTx{BaseTx: baseTx(ledger), To: to, Value: value})
	return err
}

func approveFunc(cmd *cobra.Command, args []string) error {
	ledger, err := ledgerAddress()
	if err != nil {
		return err
	}
	spender, value, err := addressAndValue(args)
	if err != nil {
		return err
	}
	_, err = issue(&chain.ApproveTx{BaseTx: baseTx(ledger), Spender: spender, Value: value})
	return err
}

func transferFromFunc(cmd *cobra.Command, args []string) error {
	ledger, err := ledgerAddress()
	if err != nil {
		return err
	}
	from, err := parseAddress(args[0])
	if err != nil {
		return err
	}
	to, value, err := addressAndValue(args[1:])
	if err != nil {
		return err
	}
	_, err = issue(&chain.TransferFromTx{BaseTx: baseTx(ledger), From: from, To: to, Value: value})
	return err
}

func balanceFunc(cmd *cobra.Command, args []string) error {
	ledger, err := ledgerAddress()
	if err != nil {
		return err
	}
	addr, err := addressOrKey(args)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	b, err := newClient().Balance(ctx, ledger, addr)
	if err != nil {
		return err
	}
	color.Cyan("%s balance: %d", addr, b)
	return nil
}

func allowanceFunc(cmd *cobra.Command, args []string) error {
	ledger, err := ledgerAddress()
	if err != nil {
		return err
	}
	owner, err := parseAddress(args[0])
	if err != nil {
		return err
	}
	spender, err := parseAddress(args[1])
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	a, err := newClient().Allowance(ctx, ledger, owner, spender)
	if err != nil {
		return err
	}
	color.Cyan("%s may spend %d of %s", spender, a, owner)
	return nil
}

func ledgerInfoFunc(cmd *cobra.Command, args []string) error {
	ledger, err := ledgerAddress()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	i, err := newClient().Ledger(ctx, ledger)
	if err != nil {
		return err
	}
	color.Cyan("%+v", i)
	return nil
}
