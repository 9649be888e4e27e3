// Copyright 2025 RegionForge Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package region

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Sizes of the fixed on-disk structures. A region file opens with two
// 4 KiB header tables, chunk locations followed by chunk timestamps,
// and everything after them is payload space allocated in 4 KiB sectors.
const (
	SectorSize         = 4096
	TableEntries       = 1024
	LocationTableSize  = TableEntries * locationSize
	TimestampTableSize = TableEntries * timestampSize
	HeaderSize         = LocationTableSize + TimestampTableSize
)

// The header tables occupy the first two sectors, so no payload may be
// addressed below sector 2.
const reservedSectors = 2

const (
	locationSize  = 4
	timestampSize = 4
)

// Location addresses one chunk payload inside the region file: a 24-bit
// big-endian offset in sectors from the start of the file plus an 8-bit
// sector count. A slot is populated only when the sector count is
// nonzero.
type Location struct {
	Offset  uint32
	Sectors uint8
}

// The sector count is a single byte, capping one payload span at 255
// sectors.
const maxSlotSectors = 0xff

func parseLocation(b []byte) Location {
	return Location{
		Offset:  uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]),
		Sectors: b[3],
	}
}

func (loc Location) put(b []byte) {
	b[0] = byte(loc.Offset >> 16)
	b[1] = byte(loc.Offset >> 8)
	b[2] = byte(loc.Offset)
	b[3] = loc.Sectors
}

// IsEmpty reports whether the location addresses no payload. A zero
// sector count means empty even when a stale offset is left in the
// entry; rewriting normalizes such entries back to zeros.
func (loc Location) IsEmpty() bool {
	return loc.Sectors == 0
}

// Timestamp is the chunk modification marker kept in the second header
// table. The value is opaque here: it is carried through unchanged and
// zeroed when the slot it belongs to is cleared.
type Timestamp uint32

func parseTimestamp(b []byte) Timestamp {
	return Timestamp(binary.BigEndian.Uint32(b))
}

func (ts Timestamp) put(b []byte) {
	binary.BigEndian.PutUint32(b, uint32(ts))
}

// parseTable decodes one header table of TableEntries fixed-width entries.
func parseTable[E any](data []byte, width int, parse func([]byte) E) ([]E, error) {
	if len(data) != TableEntries*width {
		return nil, errors.Errorf("table is %d bytes, want %d", len(data), TableEntries*width)
	}
	entries := make([]E, TableEntries)
	for i := range entries {
		entries[i] = parse(data[i*width : (i+1)*width])
	}
	return entries, nil
}
