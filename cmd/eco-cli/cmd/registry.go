// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ecobux/ecovm/chain"
	"github.com/ecobux/ecovm/parser"
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Parcel registry operations",
}

func init() {
	registryCmd.AddCommand(
		&cobra.Command{
			Use:   "bulk-create [descriptor file]",
			Short: "Adds parcels from a JSON or YAML descriptor feed (registry admin only)",
			Long: `
Reads a list of parcel descriptors and adds them to the unsold pool,
splitting the feed into as many transactions as the genesis bulk limit
requires.

$ eco-cli registry bulk-create parcels.yaml

`,
			Args: cobra.ExactArgs(1),
			RunE: bulkCreateFunc,
		},
		&cobra.Command{
			Use:   "buy [count] [recipient]",
			Short: "Buys parcels from the unsold pool (recipient defaults to the CLI key)",
			Args:  cobra.RangeArgs(1, 2),
			RunE:  buyFunc,
		},
		&cobra.Command{
			Use:   "give [count] [recipient]",
			Short: "Gives away parcels from the unsold pool (registry admin only)",
			Args:  cobra.ExactArgs(2),
			RunE:  giveFunc,
		},
		&cobra.Command{
			Use:   "create-addon [price] [purchasable]",
			Short: "Defines a new add-on (registry admin only)",
			Args:  cobra.ExactArgs(2),
			RunE:  createAddonFunc,
		},
		&cobra.Command{
			Use:   "attach-addon [asset id] [addon id]",
			Short: "Buys an add-on for an owned parcel",
			Args:  cobra.ExactArgs(2),
			RunE:  attachAddonFunc,
		},
		&cobra.Command{
			Use:   "approve-asset [operator] [asset id]",
			Short: "Approves an operator for one parcel",
			Args:  cobra.ExactArgs(2),
			RunE:  approveAssetFunc,
		},
		&cobra.Command{
			Use:   "approve-all [operator] [true|false]",
			Short: "Sets an operator for every parcel of the CLI key",
			Args:  cobra.ExactArgs(2),
			RunE:  approveAllFunc,
		},
		&cobra.Command{
			Use:   "transfer-asset [from] [to] [asset id]",
			Short: "Moves a parcel",
			Args:  cobra.ExactArgs(3),
			RunE:  transferAssetFunc,
		},
		&cobra.Command{
			Use:   "owned [address]",
			Short: "Lists the parcels of an address (defaults to the CLI key)",
			Args:  cobra.MaximumNArgs(1),
			RunE:  ownedFunc,
		},
		&cobra.Command{
			Use:   "parcel [asset id]",
			Short: "Prints a parcel",
			Args:  cobra.ExactArgs(1),
			RunE:  parcelFunc,
		},
		&cobra.Command{
			Use:   "addon [addon id]",
			Short: "Prints an add-on definition",
			Args:  cobra.ExactArgs(1),
			RunE:  addonFunc,
		},
		&cobra.Command{
			Use:   "info",
			Short: "Prints the registry metadata",
			Args:  cobra.NoArgs,
			RunE:  registryInfoFunc,
		},
	)
}

func bulkCreateFunc(cmd *cobra.Command, args []string) error {
	registry, err := registryAddress()
	if err != nil {
		return err
	}
	format, err := parser.FormatFromPath(args[0])
	if err != nil {
		return err
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	descs, err := parser.ParseDescriptors(f, format)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	g, err := newClient().Genesis(ctx)
	if err != nil {
		return err
	}
	batches, err := parser.Batches(descs, int(g.MaxBulkCreate))
	if err != nil {
		return err
	}
	for i, batch := range batches {
		if _, err := issue(&chain.BulkCreateTx{BaseTx: baseTx(registry), Parcels: batch}); err != nil {
			return err
		}
		color.Green("created batch %d/%d (%d parcels)", i+1, len(batches), len(batch))
	}
	return nil
}

func buyFunc(cmd *cobra.Command, args []string) error {
	registry, err := registryAddress()
	if err != nil {
		return err
	}
	count, err := parseUint(args[0], "count")
	if err != nil {
		return err
	}
	recipient, err := addressOrKey(args[1:])
	if err != nil {
		return err
	}
	_, err = issue(&chain.BuyTx{BaseTx: baseTx(registry), Count: count, Recipient: recipient})
	return err
}

func giveFunc(cmd *cobra.Command, args []string) error {
	registry, err := registryAddress()
	if err != nil {
		return err
	}
	count, err := parseUint(args[0], "count")
	if err != nil {
		return err
	}
	recipient, err := parseAddress(args[1])
	if err != nil {
		return err
	}
	_, err = issue(&chain.GiveTx{BaseTx: baseTx(registry), Count: count, Recipient: recipient})
	return err
}

func createAddonFunc(cmd *cobra.Command, args []string) error {
	registry, err := registryAddress()
	if err != nil {
		return err
	}
	price, err := parseUint(args[0], "price")
	if err != nil {
		return err
	}
	purchasable, err := strconv.ParseBool(args[1])
	if err != nil {
		return err
	}
	_, err = issue(&chain.CreateAddonTx{BaseTx: baseTx(registry), Price: price, Purchasable: purchasable})
	return err
}

func attachAddonFunc(cmd *cobra.Command, args []string) error {
	registry, err := registryAddress()
	if err != nil {
		return err
	}
	assetID, err := parseUint(args[0], "asset id")
	if err != nil {
		return err
	}
	addonID, err := parseUint(args[1], "addon id")
	if err != nil {
		return err
	}
	_, err = issue(&chain.AttachAddonTx{BaseTx: baseTx(registry), AssetID: assetID, AddonID: addonID})
	return err
}

func approveAssetFunc(cmd *cobra.Command, args []string) error {
	registry, err := registryAddress()
	if err != nil {
		return err
	}
	operator, err := parseAddress(args[0])
	if err != nil {
		return err
	}
	assetID, err := parseUint(args[1], "asset id")
	if err != nil {
		return err
	}
	_, err = issue(&chain.ApproveAssetTx{BaseTx: baseTx(registry), Operator: operator, AssetID: assetID})
	return err
}

func approveAllFunc(cmd *cobra.Command, args []string) error {
	registry, err := registryAddress()
	if err != nil {
		return err
	}
	operator, err := parseAddress(args[0])
	if err != nil {
		return err
	}
	approved, err := strconv.ParseBool(args[1])
	if err != nil {
		return err
	}
	_, err = issue(&chain.SetApprovalForAllTx{BaseTx: baseTx(registry), Operator: operator, Approved: approved})
	return err
}

func transferAssetFunc(cmd *cobra.Command, args []string) error {
	registry, err := registryAddress()
	if err != nil {
		return err
	}
	from, err := parseAddress(args[0])
	if err != nil {
		return err
	}
	to, err := parseAddress(args[1])
	if err != nil {
		return err
	}
	assetID, err := parseUint(args[2], "asset id")
	if err != nil {
		return err
	}
	_, err = issue(&chain.TransferAssetTx{BaseTx: baseTx(registry), From: from, To: to, AssetID: assetID})
	return err
}

func ownedFunc(cmd *cobra.Command, args []string) error {
	registry, err := registryAddress()
	if err != nil {
		return err
	}
	owner, err := addressOrKey(args)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	assets, err := newClient().OwnedParcels(ctx, registry, owner)
	if err != nil {
		return err
	}
	color.Cyan("%s owns %d parcels: %v", owner, len(assets), assets)
	return nil
}

func parcelFunc(cmd *cobra.Command, args []string) error {
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
	p, approved, err := newClient().Parcel(ctx, registry, assetID)
	if err != nil {
		return err
	}
	color.Cyan("parcel %d: owner=%s approved=%s addons=%v", assetID, p.Owner, approved, p.Addons)
	if d, err := parser.DecodeMetadata(p.Metadata); err == nil {
		color.Cyan("  geo map: %v", d.GeoMap)
	} else {
		color.Yellow("  raw metadata: %q", p.Metadata)
	}
	return nil
}

func addonFunc(cmd *cobra.Command, args []string) error {
	registry, err := registryAddress()
	if err != nil {
		return err
	}
	addonID, err := parseUint(args[0], "addon id")
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	a, err := newClient().Addon(ctx, registry, addonID)
	if err != nil {
		return err
	}
	color.Cyan("addon %d: price=%d purchasable=%t", addonID, a.Price, a.Purchasable)
	return nil
}

func registryInfoFunc(cmd *cobra.Command, args []string) error {
	registry, err := registryAddress()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	i, err := newClient().Registry(ctx, registry)
	if err != nil {
		return err
	}
	color.Cyan("%+v", i)
	return nil
}
