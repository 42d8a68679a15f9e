// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/ecobux/ecovm/chain"
	"github.com/ecobux/ecovm/client"
)

var (
	defaultLedger   = common.HexToAddress("0xec0b000000000000000000000000000000000001")
	defaultRegistry = common.HexToAddress("0xec0b000000000000000000000000000000000002")
	defaultMarket   = common.HexToAddress("0xec0b000000000000000000000000000000000003")
)

func loadKey() (*ecdsa.PrivateKey, common.Address, error) {
	priv, err := crypto.LoadECDSA(privateKeyFile)
	if err != nil {
		return nil, common.Address{}, err
	}
	return priv, crypto.PubkeyToAddress(priv.PublicKey), nil
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

func parseUint(s string, name string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return v, nil
}

func ledgerAddress() (common.Address, error)   { return parseAddress(ledgerAddr) }
func registryAddress() (common.Address, error) { return parseAddress(registryAddr) }
func marketAddress() (common.Address, error)   { return parseAddress(marketAddr) }

// baseTx addresses [contract] with a fresh nonce.
func baseTx(contract common.Address) *chain.BaseTx {
	return &chain.BaseTx{Contract: contract, Nonce: uint64(time.Now().UnixNano())}
}

// issue signs [utx] with the CLI key and submits it.
func issue(utx chain.UnsignedTransaction) ([]*chain.EventRecord, error) {
	priv, _, err := loadKey()
	if err != nil {
		return nil, err
	}
	opts := []client.OpOption{}
	if pollTx {
		opts = append(opts, client.WithPollTx())
	}
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()
	_, events, err := client.SignIssueTx(ctx, newClient(), utx, priv, opts...)
	return events, err
}

func newClient() client.Client {
	return client.New(uri, requestTimeout)
}

// resolveAdmin returns --admin when set, and the CLI key address otherwise.
func resolveAdmin() (common.Address, error) {
	if adminAddr != "" {
		return parseAddress(adminAddr)
	}
	_, addr, err := loadKey()
	return addr, err
}

// addressOrKey parses the first argument, falling back to the CLI key.
func addressOrKey(args []string) (common.Address, error) {
	if len(args) > 0 {
		return parseAddress(args[0])
	}
	_, addr, err := loadKey()
	return addr, err
}
