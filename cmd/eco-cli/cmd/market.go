// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ecobux/ecovm/chain"
)

var approveSpend bool

var marketCmd = &cobra.Command{
	Use:   "market",
	Short: "Marketplace operations",
}

func init() {
	executeCmd := &cobra.Command{
		Use:   "execute-order [asset id]",
		Short: "Buys a listed parcel at its current price",
		Long: `
Looks up the live order for the parcel and executes it at the listed
price. With --approve, the marketplace allowance is first set to the
amount the sale will charge.

$ eco-cli market execute-order 7 --approve

`,
		Args: cobra.ExactArgs(1),
		RunE: executeOrderFunc,
	}
	executeCmd.Flags().BoolVar(&approveSpend, "approve", false, "approve the marketplace to spend the sale total first")

	marketCmd.AddCommand(
		&cobra.Command{
			Use:   "create-order [asset id] [price]",
			Short: "Lists a parcel for sale, replacing any live order",
			Args:  cobra.ExactArgs(2),
			RunE:  createOrderFunc,
		},
		&cobra.Command{
			Use:   "cancel-order [asset id]",
			Short: "Withdraws a listing",
			Args:  cobra.ExactArgs(1),
			RunE:  cancelOrderFunc,
		},
		executeCmd,
		&cobra.Command{
			Use:   "order [asset id]",
			Short: "Prints the live order of a parcel",
			Args:  cobra.ExactArgs(1),
			RunE:  orderFunc,
		},
		&cobra.Command{
			Use:   "info",
			Short: "Prints the marketplace metadata",
			Args:  cobra.NoArgs,
			RunE:  marketInfoFunc,
		},
	)
}

func createOrderFunc(cmd *cobra.Command, args []string) error {
	market, err := marketAddress()
	if err != nil {
		return err
	}
	registry, err := registryAddress()
	if err != nil {
		return err
	}
	assetID, err := parseUint(args[0], "asset id")
	if err != nil {
		return err
	}
	price, err := parseUint(args[1], "price")
	if err != nil {
		return err
	}
	_, err = issue(&chain.CreateOrderTx{BaseTx: baseTx(market), Registry: registry, AssetID: assetID, Price: price})
	return err
}

func cancelOrderFunc(cmd *cobra.Command, args []string) error {
	market, err := marketAddress()
	if err != nil {
		return err
	}
	registry, err := registryAddress()
	if err != nil {
		return err
	}
	assetID, err := parseUint(args[0], "asset id")
	if err != nil {
		return err
	}
	_, err = issue(&chain.CancelOrderTx{BaseTx: baseTx(market), Registry: registry, AssetID: assetID})
	return err
}

func executeOrderFunc(cmd *cobra.Command, args []string) error {
	market, err := marketAddress()
	if err != nil {
		return err
	}
	registry, err := registryAddress()
	if err != nil {
		return err
	}
	assetID, err := parseUint(args[0], "asset id")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	cli := newClient()
	o, split, err := cli.Order(ctx, market, registry, assetID)
	if err != nil {
		return err
	}
	color.Blue("order %d: price=%d charges %d (seller=%d fee sink=%d registry=%d)",
		o.ID, o.Price, split.Total(), split.Seller, split.FeeSink, split.Registry)

	if approveSpend {
		mi, err := cli.Market(ctx, market)
		if err != nil {
			return err
		}
		if _, err := issue(&chain.ApproveTx{BaseTx: baseTx(mi.Ledger), Spender: market, Value: split.Total()}); err != nil {
			return err
		}
	}
	_, err = issue(&chain.ExecuteOrderTx{BaseTx: baseTx(market), Registry: registry, AssetID: assetID, ExpectedPrice: o.Price})
	return err
}

func orderFunc(cmd *cobra.Command, args []string) error {
	market, err := marketAddress()
	if err != nil {
		return err
	}
	registry, err := registryAddress()
	if err != nil {
		return err
	}
	assetID, err := parseUint(args[0], "asset id")
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	o, split, err := newClient().Order(ctx, market, registry, assetID)
	if err != nil {
		return err
	}
	color.Cyan("order %d: seller=%s price=%d", o.ID, o.Seller, o.Price)
	color.Cyan("  buyer pays %d (seller=%d fee sink=%d registry=%d)", split.Total(), split.Seller, split.FeeSink, split.Registry)
	return nil
}

func marketInfoFunc(cmd *cobra.Command, args []string) error {
	market, err := marketAddress()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	i, err := newClient().Market(ctx, market)
	if err != nil {
		return err
	}
	color.Cyan("%+v", i)
	return nil
}
