// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package vm

import (
	"errors"
)

var (
	ErrInvalidConfig  = errors.New("invalid config")
	ErrInvalidEmptyTx = errors.New("invalid empty transaction")
	ErrNotFound       = errors.New("not found")
	ErrCorruption     = errors.New("corruption detected")
)
