// Copyright (C) 2019-2021, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDescriptors(t *testing.T) {
	tt := []struct {
		name   string
		feed   string
		format Format
		points [][][]int64
		err    error
	}{
		{
			name:   "json objects",
			feed:   `[{"geoMap": [[1, 2], [3, 4]]}, {"geoMap": [[5, 6]]}]`,
			format: FormatJSON,
			points: [][][]int64{{{1, 2}, {3, 4}}, {{5, 6}}},
		},
		{
			name:   "json bare point lists",
			feed:   `[[[10, -20], [30, 40]]]`,
			format: FormatJSON,
			points: [][][]int64{{{10, -20}, {30, 40}}},
		},
		{
			name:   "yaml mixed",
			feed:   "- geoMap:\n    - [1, 2]\n- - [7, 8]\n  - [9, 10]\n",
			format: FormatYAML,
			points: [][][]int64{{{1, 2}}, {{7, 8}, {9, 10}}},
		},
		{
			name:   "empty",
			feed:   `[]`,
			format: FormatJSON,
			err:    ErrEmptyFeed,
		},
		{
			name:   "no points",
			feed:   `[{"geoMap": []}]`,
			format: FormatJSON,
			err:    ErrEmptyGeoMap,
		},
		{
			name:   "three coordinates",
			feed:   `[[[1, 2, 3]]]`,
			format: FormatJSON,
			err:    ErrInvalidPoint,
		},
		{
			name:   "unknown format",
			feed:   `[]`,
			format: Format("toml"),
			err:    ErrUnknownFormat,
		},
	}
	for _, tv := range tt {
		t.Run(tv.name, func(t *testing.T) {
			descs, err := ParseDescriptors(strings.NewReader(tv.feed), tv.format)
			if tv.err != nil {
				require.ErrorIs(t, err, tv.err)
				return
			}
			require.NoError(t, err)
			require.Len(t, descs, len(tv.points))
			for i, d := range descs {
				require.Equal(t, tv.points[i], d.GeoMap)
			}
		})
	}
}

func TestMetadataRoundTrip(t *testing.T) {
	d := &Descriptor{GeoMap: [][]int64{{1, 2}, {3, 4}}}
	b, err := d.Metadata()
	require.NoError(t, err)
	require.Equal(t, `{"geoMap":[[1,2],[3,4]]}`, string(b))

	decoded, err := DecodeMetadata(b)
	require.NoError(t, err)
	require.Equal(t, d, decoded)

	big := &Descriptor{}
	for i := 0; i < 200; i++ {
		big.GeoMap = append(big.GeoMap, []int64{1000000, 2000000})
	}
	_, err = big.Metadata()
	require.ErrorIs(t, err, ErrMetadataTooBig)
}

func TestBatches(t *testing.T) {
	descs := make([]*Descriptor, 5)
	for i := range descs {
		descs[i] = &Descriptor{GeoMap: [][]int64{{int64(i), 0}}}
	}
	batches, err := Batches(descs, 2)
	require.NoError(t, err)
	require.Len(t, batches, 3)
	require.Len(t, batches[2], 1)
	require.Equal(t, `{"geoMap":[[4,0]]}`, string(batches[2][0]))

	_, err = Batches(descs, 0)
	require.ErrorIs(t, err, ErrInvalidBatchLen)
}

func TestFormatFromPath(t *testing.T) {
	f, err := FormatFromPath("feeds/EcoBlocks.json")
	require.NoError(t, err)
	require.Equal(t, FormatJSON, f)

	f, err = FormatFromPath("blocks.YML")
	require.NoError(t, err)
	require.Equal(t, FormatYAML, f)

	_, err = FormatFromPath("blocks.csv")
	require.ErrorIs(t, err, ErrUnknownFormat)
}
