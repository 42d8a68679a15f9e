// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"fmt"
	"time"

	log "github.com/inconshreveable/log15"

	"github.com/ecobux/ecovm/chain"
)

type Config struct {
	ListenAddress string `json:"listenAddress" mapstructure:"listen-address"`
	LogLevel      string `json:"logLevel" mapstructure:"log-level"`

	// ParcelSelection names the policy that picks parcels out of the unsold
	// pool ("sequential" or "random").
	ParcelSelection string `json:"parcelSelection" mapstructure:"parcel-selection"`

	// EventPageSize caps the records returned by a single events query.
	EventPageSize int `json:"eventPageSize" mapstructure:"event-page-size"`

	ReadTimeout     time.Duration `json:"readTimeout" mapstructure:"read-timeout"`
	WriteTimeout    time.Duration `json:"writeTimeout" mapstructure:"write-timeout"`
	ShutdownTimeout time.Duration `json:"shutdownTimeout" mapstructure:"shutdown-timeout"`
}

func (c *Config) SetDefaults() {
	c.ListenAddress = "127.0.0.1:9650"
	c.LogLevel = "info"

	c.ParcelSelection = chain.SequentialSelection
	c.EventPageSize = 256

	c.ReadTimeout = 10 * time.Second
	c.WriteTimeout = 10 * time.Second
	c.ShutdownTimeout = 5 * time.Second
}

// Verify rejects settings the VM cannot run with.
func (c *Config) Verify() error {
	if _, err := log.LvlFromString(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := chain.NewSelector(c.ParcelSelection); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.EventPageSize <= 0 {
		return fmt.Errorf("%w: event page size must be positive", ErrInvalidConfig)
	}
	return nil
}
