// Copyright 2025 RegionForge Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

// Package region reads, trims and rewrites Minecraft region containers:
// fixed tables of 1024 chunk slots backed by zlib-compressed payloads in
// 4 KiB sectors. Parsing keeps the original payload bytes, so rewriting
// a container in which nothing was cleared is a byte exact round trip,
// while clearing chunks compacts the surviving payloads and reclaims
// their sectors.
package region

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Predicate decides whether a chunk should be cleared. It may fail, for
// example when a field it scans for is missing from the record.
type Predicate func(*Chunk) (bool, error)

// Region is one fully parsed region file: 1024 chunk slots addressed
// through the location table, populated or not.
type Region struct {
	slots [TableEntries]slot
	dirty bool
}

// ParseRegion decodes a complete region file image. Every check is fatal:
// a container that cannot be decoded in full is never half processed.
func ParseRegion(data []byte) (*Region, error) {
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

	r := &Region{}
	for i := range r.slots {
		s := &r.slots[i]
		s.index = i
		s.location = locations[i]
		s.timestamp = timestamps[i]
		if s.location.IsEmpty() {
			continue
		}
		chunk, err := parseSpan(data, s.location)
		if err != nil {
			return nil, errors.Wrapf(err, "slot %d", i)
		}
		s.chunk = chunk
	}
	return r, nil
}

// parseSpan bounds checks a populated location and decodes its payload.
func parseSpan(data []byte, loc Location) (Chunk, error) {
	if loc.Offset < reservedSectors {
		return Chunk{}, errors.Errorf("payload offset %d overlaps the header tables", loc.Offset)
	}
	start := int(loc.Offset) * SectorSize
	end := start + int(loc.Sectors)*SectorSize
	if end > len(data) {
		return Chunk{}, errors.Errorf("payload span [%d:%d] extends past the %d byte container", start, end, len(data))
	}
	return parseChunk(data[start:end])
}

// ParseRegionFile reads and decodes the region container at path.
func ParseRegionFile(path string) (*Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read container")
	}
	r, err := ParseRegion(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", filepath.Base(path))
	}
	return r, nil
}

// Trim clears every populated chunk the predicate matches and returns how
// many were cleared by this call. Clearing is one way: a cleared slot
// stays empty no matter what later calls decide. A predicate error stops
// the pass immediately; chunks may already have been cleared by then, so
// the container must not be saved after a failed trim.
func (r *Region) Trim(match Predicate) (int, error) {
	cleared := 0
	for i := range r.slots {
		s := &r.slots[i]
		if s.chunk.IsEmpty() {
			continue
		}
		hit, err := match(&s.chunk)
		if err != nil {
			return cleared, errors.Wrapf(err, "slot %d", i)
		}
		if !hit {
			continue
		}
		s.chunk.clear()
		r.dirty = true
		cleared++
	}
	return cleared, nil
}

// Dirty reports whether any chunk was cleared since the region was parsed.
// A clean region serializes back to its exact input bytes, which callers
// use to skip rewriting files the trim pass did not touch.
func (r *Region) Dirty() bool {
	return r.dirty
}

// Chunks calls fn for every populated slot in index order, stopping early
// when fn returns false.
func (r *Region) Chunks(fn func(index int, c *Chunk) bool) {
	for i := range r.slots {
		if r.slots[i].chunk.IsEmpty() {
			continue
		}
		if !fn(i, &r.slots[i].chunk) {
			return
		}
	}
}

// Bytes serializes the region with its surviving payloads compacted
// against the header tables.
func (r *Region) Bytes() []byte {
	refs := make([]*slot, len(r.slots))
	for i := range r.slots {
		refs[i] = &r.slots[i]
	}
	return serializeSlots(refs)
}

// Save writes the compacted region to path, deleting instead of writing
// when no chunks remain. It reports whether a file was written.
func (r *Region) Save(path string) (bool, error) {
	return WriteContainer(path, r.Bytes())
}
