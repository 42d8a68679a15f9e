// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package client

import (
	"context"
	"crypto/ecdsa"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/fatih/color"

	"github.com/ecobux/ecovm/chain"
)

type Op struct {
	pollTx bool
	quiet  bool
}

type OpOption func(*Op)

func (op *Op) applyOpts(opts []OpOption) {
	for _, opt := range opts {
		opt(op)
	}
}

// "true" to poll transaction for its confirmation.
func WithPollTx() OpOption {
	return func(op *Op) { op.pollTx = true }
}

// Suppresses the per-event output.
func WithQuiet() OpOption {
	return func(op *Op) { op.quiet = true }
}

// Signs and issues the transaction.
func SignIssueTx(
	ctx context.Context,
	cli Client,
	utx chain.UnsignedTransaction,
	priv *ecdsa.PrivateKey,
	opts ...OpOption,
) (txID ids.ID, events []*chain.EventRecord, err error) {
	ret := &Op{}
	ret.applyOpts(opts)

	tx, err := chain.SignTx(utx, priv)
	if err != nil {
		return ids.Empty, nil, err
	}

	color.Yellow("issuing tx %s (contract=%s, nonce=%d)", tx.ID(), utx.GetContract().Hex(), utx.GetNonce())
	txID, events, err = cli.IssueRawTx(ctx, tx.Bytes())
	if err != nil {
		return ids.Empty, nil, err
	}
	if !ret.quiet {
		for _, e := range events {
			color.Cyan("  %s %+v", e.Event.Kind(), e.Event)
		}
	}

	if ret.pollTx {
		color.Green("issued transaction %s (now polling)", txID)
		confirmed, err := cli.PollTx(ctx, txID)
		if err != nil {
			return ids.Empty, nil, err
		}
		if !confirmed {
			return ids.Empty, nil, ErrNotConfirmed
		}
		color.Green("transaction %s confirmed", txID)
	}
	return txID, events, nil
}
