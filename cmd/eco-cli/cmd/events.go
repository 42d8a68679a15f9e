// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	eventsFrom  uint64
	eventsLimit int
)

var eventsCmd = &cobra.Command{
	Use:   "events [options]",
	Short: "Prints the event log",
	Args:  cobra.NoArgs,
	RunE:  eventsFunc,
}

func init() {
	eventsCmd.Flags().Uint64Var(&eventsFrom, "from", 0, "first sequence number")
	eventsCmd.Flags().IntVar(&eventsLimit, "limit", 0, "maximum events to print (0 uses the server page size)")
}

func eventsFunc(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	records, total, err := newClient().Events(ctx, eventsFrom, eventsLimit)
	if err != nil {
		return err
	}
	for _, r := range records {
		color.Cyan("#%d %s tx=%s %+v", r.Seq, r.Event.Kind(), r.TxID, r.Event)
	}
	color.Blue("%d of %d events", len(records), total)
	return nil
}
