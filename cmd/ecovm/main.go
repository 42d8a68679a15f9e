// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// "ecovm" serves the marketplace VM over JSON-RPC.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/ava-labs/avalanchego/database/memdb"
	log "github.com/inconshreveable/log15"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/ecobux/ecovm/chain"
	"github.com/ecobux/ecovm/cmd/ecovm/version"
	"github.com/ecobux/ecovm/vm"
)

const envPrefix = "ECOVM"

var (
	configFile  string
	genesisFile string

	rootCmd = &cobra.Command{
		Use:        "ecovm",
		Short:      "EcoVM server",
		SuggestFor: []string{"ecovm"},
		RunE:       runFunc,
	}
)

func init() {
	cobra.EnablePrefixMatching = true
	rootCmd.AddCommand(version.NewCommand())

	defaults := vm.Config{}
	defaults.SetDefaults()

	fs := rootCmd.Flags()
	fs.StringVar(&configFile, "config-file", "", "config file (json or yaml)")
	fs.StringVar(&genesisFile, "genesis-file", "", "genesis file created by \"eco-cli genesis\"")
	fs.String("listen-address", defaults.ListenAddress, "HTTP listen address")
	fs.String("log-level", defaults.LogLevel, "log level (debug, info, warn, error, crit)")
	fs.String("parcel-selection", defaults.ParcelSelection, "unsold parcel selection (sequential or random)")
	fs.Int("event-page-size", defaults.EventPageSize, "maximum events returned per query")
	fs.Duration("read-timeout", defaults.ReadTimeout, "HTTP read timeout")
	fs.Duration("write-timeout", defaults.WriteTimeout, "HTTP write timeout")
	fs.Duration("shutdown-timeout", defaults.ShutdownTimeout, "graceful shutdown timeout")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ecovm failed %v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}

// loadConfig merges flags, ECOVM_* environment variables and the optional
// config file, in that order of precedence.
func loadConfig(fs *pflag.FlagSet) (vm.Config, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return vm.Config{}, err
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return vm.Config{}, err
		}
	}

	var config vm.Config
	config.SetDefaults()
	if err := v.Unmarshal(&config); err != nil {
		return vm.Config{}, err
	}
	return config, config.Verify()
}

func loadGenesis() (*chain.Genesis, error) {
	g := chain.DefaultGenesis()
	if genesisFile == "" {
		return g, nil
	}
	b, err := os.ReadFile(genesisFile)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(b, g); err != nil {
		return nil, fmt.Errorf("%w: %v", chain.ErrInvalidGenesis, err)
	}
	return g, nil
}

func runFunc(cmd *cobra.Command, args []string) error {
	config, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	lvl, _ := log.LvlFromString(config.LogLevel)
	log.Root().SetHandler(log.LvlFilterHandler(lvl, log.StreamHandler(os.Stderr, log.LogfmtFormat())))

	genesis, err := loadGenesis()
	if err != nil {
		return err
	}
	v, err := vm.New(config, genesis, memdb.New())
	if err != nil {
		return err
	}
	handler, err := vm.NewHandler(v)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:         config.ListenAddress,
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("serving", "address", config.ListenAddress, "endpoint", vm.PublicEndpoint)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
