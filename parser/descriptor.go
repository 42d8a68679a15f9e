// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package parser

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ecobux/ecovm/chain"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

var (
	ErrEmptyFeed       = errors.New("descriptor feed is empty")
	ErrEmptyGeoMap     = errors.New("geo map has no points")
	ErrInvalidPoint    = errors.New("geo map point must have exactly two coordinates")
	ErrMetadataTooBig  = errors.New("encoded descriptor too big")
	ErrUnknownFormat   = errors.New("unknown descriptor format")
	ErrInvalidBatchLen = errors.New("batch size must be positive")
)

// Descriptor is the geo outline of one parcel. Coordinates are fixed-point
// integers as produced by the upstream survey export.
type Descriptor struct {
	GeoMap [][]int64 `json:"geoMap" yaml:"geoMap"`
}

// Verify checks the descriptor can be stored as parcel metadata.
func (d *Descriptor) Verify() error {
	if len(d.GeoMap) == 0 {
		return ErrEmptyGeoMap
	}
	for _, p := range d.GeoMap {
		if len(p) != 2 {
			return ErrInvalidPoint
		}
	}
	return nil
}

// Metadata returns the canonical encoding stored on chain.
func (d *Descriptor) Metadata() ([]byte, error) {
	if err := d.Verify(); err != nil {
		return nil, err
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	if len(b) > chain.MaxMetadataSize {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrMetadataTooBig, len(b), chain.MaxMetadataSize)
	}
	return b, nil
}

// DecodeMetadata is the inverse of Metadata.
func DecodeMetadata(b []byte) (*Descriptor, error) {
	d := new(Descriptor)
	if err := json.Unmarshal(b, d); err != nil {
		return nil, err
	}
	return d, d.Verify()
}

// FormatFromPath picks the feed format from a file extension.
func FormatFromPath(p string) (Format, error) {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, p)
	}
}

// ParseDescriptors reads an ordered list of descriptors. Each entry is
// either an object with a "geoMap" field or a bare list of points.
func ParseDescriptors(r io.Reader, format Format) ([]*Descriptor, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var descs []*Descriptor
	switch format {
	case FormatJSON:
		descs, err = parseJSON(raw)
	case FormatYAML:
		descs, err = parseYAML(raw)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}
	if len(descs) == 0 {
		return nil, ErrEmptyFeed
	}
	for i, d := range descs {
		if err := d.Verify(); err != nil {
			return nil, fmt.Errorf("descriptor %d: %w", i, err)
		}
	}
	return descs, nil
}

func parseJSON(raw []byte) ([]*Descriptor, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	descs := make([]*Descriptor, len(entries))
	for i, e := range entries {
		d := new(Descriptor)
		var err error
		if bytes.HasPrefix(bytes.TrimSpace(e), []byte("[")) {
			err = json.Unmarshal(e, &d.GeoMap)
		} else {
			err = json.Unmarshal(e, d)
		}
		if err != nil {
			return nil, fmt.Errorf("descriptor %d: %w", i, err)
		}
		descs[i] = d
	}
	return descs, nil
}

func parseYAML(raw []byte) ([]*Descriptor, error) {
	var entries []yaml.Node
	if err := yaml.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	descs := make([]*Descriptor, len(entries))
	for i := range entries {
		d := new(Descriptor)
		var err error
		if entries[i].Kind == yaml.SequenceNode {
			err = entries[i].Decode(&d.GeoMap)
		} else {
			err = entries[i].Decode(d)
		}
		if err != nil {
			return nil, fmt.Errorf("descriptor %d: %w", i, err)
		}
		descs[i] = d
	}
	return descs, nil
}

// Batches encodes [descs] into metadata batches of at most [size] parcels,
// ready for one BulkCreateTx each.
func Batches(descs []*Descriptor, size int) ([][][]byte, error) {
	if size <= 0 {
		return nil, ErrInvalidBatchLen
	}
	batches := [][][]byte{}
	for start := 0; start < len(descs); start += size {
		end := start + size
		if end > len(descs) {
			end = len(descs)
		}
		batch := make([][]byte, 0, end-start)
		for i := start; i < end; i++ {
			m, err := descs[i].Metadata()
			if err != nil {
				return nil, fmt.Errorf("descriptor %d: %w", i, err)
			}
			batch = append(batch, m)
		}
		batches = append(batches, batch)
	}
	return batches, nil
}
