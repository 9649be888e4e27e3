// Copyright 2025 RegionForge Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package region_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/regionforge/mctrim/pkg/region"
	"github.com/regionforge/mctrim/pkg/region/regiontest"
)

// Entity records are opaque compound payloads; position fields are not
// required, only valid compression and framing.
func entityPayload(marker byte) []byte {
	return regiontest.Payload(regiontest.Record(regiontest.ByteField("m", marker)))
}

func TestParseEntitiesKeepsPopulatedSlotsOnly(t *testing.T) {
	input := regiontest.NewBuilder().
		Add(100, 1700000000, entityPayload(1)).
		Add(700, 1700000001, entityPayload(2)).
		Bytes()

	e, err := region.ParseEntities(input)
	require.NoError(t, err)
	require.Equal(t, 2, e.Len())
	require.False(t, e.Dirty())
}

func TestEntitiesRoundTripUntouched(t *testing.T) {
	input := regiontest.NewBuilder().
		Add(700, 1700000001, entityPayload(2)).
		Add(100, 1700000000, entityPayload(1)).
		Bytes()

	e, err := region.ParseEntities(input)
	require.NoError(t, err)
	require.Equal(t, input, e.Bytes())
}

func TestParseEntitiesIgnoresStaleZeroSizeEntry(t *testing.T) {
	pristine := regiontest.NewBuilder().
		Add(100, 1700000000, entityPayload(1)).
		Bytes()
	input := append([]byte(nil), pristine...)
	input[9*4+2] = 5

	e, err := region.ParseEntities(input)
	require.NoError(t, err)
	require.Equal(t, 1, e.Len())
	require.Equal(t, pristine, e.Bytes())
}

func TestEntitiesRemove(t *testing.T) {
	input := regiontest.NewBuilder().
		Add(100, 1700000000, entityPayload(1)).
		Add(700, 1700000001, entityPayload(2)).
		Bytes()

	e, err := region.ParseEntities(input)
	require.NoError(t, err)

	require.True(t, e.Remove(100))
	require.False(t, e.Remove(100))
	require.False(t, e.Remove(5))
	require.True(t, e.Dirty())
	require.Equal(t, 1, e.Len())

	out := e.Bytes()
	require.Len(t, out, region.HeaderSize+region.SectorSize)
	// Slot 100 zeroes its table entries, slot 700 compacts to sector 2,
	// matching the container that never held slot 100.
	require.Equal(t, []byte{0, 0, 2, 1}, out[700*4:701*4])
	expected := regiontest.NewBuilder().
		Add(700, 1700000001, entityPayload(2)).
		Bytes()
	require.Equal(t, expected, out)

	re, err := region.ParseEntities(out)
	require.NoError(t, err)
	require.Equal(t, 1, re.Len())
}

func TestEntitiesSaveDeletesWhenEmptied(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "r.0.0.mca")
	input := regiontest.NewBuilder().
		Add(42, 0, entityPayload(9)).
		Bytes()
	require.NoError(t, os.WriteFile(path, input, 0644))

	e, err := region.ParseEntitiesFile(path)
	require.NoError(t, err)
	require.True(t, e.Remove(42))

	written, err := e.Save(path)
	require.NoError(t, err)
	require.False(t, written)
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestEntitiesRejectCorruptPayload(t *testing.T) {
	input := regiontest.NewBuilder().
		Add(0, 0, entityPayload(1)).
		Bytes()
	input[region.HeaderSize+4] = region.CompressionGzip

	_, err := region.ParseEntities(input)
	require.Error(t, err)
}
