// Copyright 2025 RegionForge Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package region

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Entities is the companion container carrying the entity records of a
// region. It shares the header table format and compaction behavior, but
// differs in shape: most slots are empty in practice, so only populated
// ones are kept in memory, and records are removed by slot index rather
// than through a field predicate.
type Entities struct {
	slots []*slot
	dirty bool
}

// ParseEntities decodes a complete entities container image.
func ParseEntities(data []byte) (*Entities, error) {
	if len(data) < HeaderSize {
		return nil, errors.Errorf("container is %d bytes, shorter than its %d byte header tables", len(data), HeaderSize)
	}
	locations, err := parseTable(data[:LocationTableSize], locationSize, parseLocation)
	if err != nil {
		return nil, errors.Wrap(err, "location table")
	}
	timestamps, err := parseTable(data[LocationTableSize:HeaderSize], timestampSize, parseTimestamp)
	if err != nil {
		return nil, errors.Wrap(err, "timestamp table")
	}

	e := &Entities{}
	for i, loc := range locations {
		if loc.IsEmpty() {
			continue
		}
		chunk, err := parseSpan(data, loc)
		if err != nil {
			return nil, errors.Wrapf(err, "slot %d", i)
		}
		e.slots = append(e.slots, &slot{
			index:     i,
			location:  loc,
			timestamp: timestamps[i],
			chunk:     chunk,
		})
	}
	return e, nil
}

// ParseEntitiesFile reads and decodes the entities container at path.
func ParseEntitiesFile(path string) (*Entities, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read container")
	}
	e, err := ParseEntities(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", filepath.Base(path))
	}
	return e, nil
}

// Len returns the number of populated slots.
func (e *Entities) Len() int {
	return len(e.slots)
}

// Remove drops the record at the given slot index and reports whether one
// was present. There is no predicate for entity records: they are removed
// by position, typically to follow a chunk trimmed from the paired region
// container.
func (e *Entities) Remove(index int) bool {
	for i, s := range e.slots {
		if s.index != index {
			continue
		}
		e.slots = append(e.slots[:i], e.slots[i+1:]...)
		e.dirty = true
		return true
	}
	return false
}

// Dirty reports whether any record was removed since parsing.
func (e *Entities) Dirty() bool {
	return e.dirty
}

// Bytes serializes the container with its surviving payloads compacted.
// Slot indices with no record zero their table entries, so the header
// tables keep their fixed shape however sparse the container is.
func (e *Entities) Bytes() []byte {
	return serializeSlots(e.slots)
}

// Save writes the compacted container to path, deleting instead of
// writing when no records remain. It reports whether a file was written.
func (e *Entities) Save(path string) (bool, error) {
	return WriteContainer(path, e.Bytes())
}
