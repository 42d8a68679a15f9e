// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"encoding/binary"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"golang.org/x/crypto/sha3"
)

const (
	SequentialSelection = "sequential"
	RandomSelection     = "random"
)

// ParcelSelector picks which unsold parcels a purchase receives.
type ParcelSelector interface {
	// Select returns [count] distinct ids taken from [pool]. [pool] is sorted
	// ascending and holds at least [count] ids. [seed] is unique per tx.
	Select(pool []uint64, count uint64, seed ids.ID) ([]uint64, error)
}

// NewSelector returns the selector registered under [name].
func NewSelector(name string) (ParcelSelector, error) {
	switch name {
	case "", SequentialSelection:
		return SequentialSelector{}, nil
	case RandomSelection:
		return RandomSelector{}, nil
	default:
		return nil, fmt.Errorf("unknown parcel selection %q", name)
	}
}

// SequentialSelector hands out the lowest unsold ids first.
type SequentialSelector struct{}

func (SequentialSelector) Select(pool []uint64, count uint64, _ ids.ID) ([]uint64, error) {
	if uint64(len(pool)) < count {
		return nil, ErrNotEnoughParcels
	}
	picked := make([]uint64, count)
	copy(picked, pool[:count])
	return picked, nil
}

// RandomSelector draws ids with a partial Fisher-Yates shuffle driven by a
// SHAKE256 stream over the seed, so every node picks the same parcels.
type RandomSelector struct{}

func (RandomSelector) Select(pool []uint64, count uint64, seed ids.ID) ([]uint64, error) {
	n := uint64(len(pool))
	if n < count {
		return nil, ErrNotEnoughParcels
	}
	shuffled := make([]uint64, n)
	copy(shuffled, pool)

	stream := sha3.NewShake256()
	if _, err := stream.Write(seed[:]); err != nil {
		return nil, err
	}
	buf := make([]byte, 8)
	for i := uint64(0); i < count; i++ {
		if _, err := stream.Read(buf); err != nil {
			return nil, err
		}
		j := i + binary.BigEndian.Uint64(buf)%(n-i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:count], nil
}
