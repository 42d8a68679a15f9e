// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package version implements "version" commands.
package version

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ecobux/ecovm/version"
	"github.com/ecobux/ecovm/vm"
)

// NewCommand implements "ecovm version" command.
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Prints out the version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "%s@%s\n", vm.Name, version.Version)
			return nil
		},
	}
}
