// Copyright 2025 RegionForge Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package region

import (
	"os"
	"sort"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// slot ties one record to its header table entries and its index in the
// tables. Region keeps all 1024 slots, Entities only the populated ones.
type slot struct {
	index     int
	location  Location
	timestamp Timestamp
	chunk     Chunk
}

// serializeSlots rebuilds a container image from its slots. Payloads are
// packed back to back from the first sector past the header tables, kept
// in the order they currently sit in the file, and both tables are
// regenerated around the new offsets. Slots whose record is empty zero
// their table entries, and indices missing from slots stay zero. When no
// record was cleared since parsing the result reproduces the input bytes
// exactly.
func serializeSlots(slots []*slot) []byte {
	ordered := make([]*slot, len(slots))
	copy(ordered, slots)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].location.Offset < ordered[j].location.Offset
	})

	header := make([]byte, HeaderSize)
	payload := make([]byte, 0)
	cursor := uint32(reservedSectors)
	for _, s := range ordered {
		enc := s.chunk.encoded()
		if len(enc) == 0 {
			s.location = Location{}
			s.timestamp = 0
			continue
		}
		s.location = Location{
			Offset:  cursor,
			Sectors: uint8(len(enc) / SectorSize),
		}
		cursor += uint32(len(enc) / SectorSize)
		payload = append(payload, enc...)
	}
	for _, s := range slots {
		s.location.put(header[s.index*locationSize:])
		s.timestamp.put(header[LocationTableSize+s.index*timestampSize:])
	}
	return append(header, payload...)
}

// WriteContainer saves a serialized container image to path. An image
// with nothing beyond the header tables is not worth a file: nothing is
// written and a stale file at path is removed instead. Writes are staged
// through a uniquely named temporary file and renamed into place, so an
// interrupted save never leaves a truncated container behind.
func WriteContainer(path string, data []byte) (bool, error) {
	if len(data) <= HeaderSize {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return false, errors.Wrap(err, "remove emptied container")
		}
		return false, nil
	}
	tmp := path + "." + uuid.NewString()
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return false, errors.Wrap(err, "write container")
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return false, errors.Wrap(err, "replace container")
	}
	return true, nil
}
