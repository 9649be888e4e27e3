// Copyright 2025 RegionForge Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

// Package regiontest builds syntactically valid region container images
// for tests: NBT records, compressed payload spans and whole containers
// with full control over slot indices, timestamps and payload order.
package regiontest

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/klauspost/compress/zlib"

	"github.com/regionforge/mctrim/pkg/region"
)

// Record wraps fields into the decompressed form of a chunk record: a
// nameless root compound closed by an end tag.
func Record(fields ...[]byte) []byte {
	record := []byte{0x0a, 0x00, 0x00}
	for _, f := range fields {
		record = append(record, f...)
	}
	return append(record, 0x00)
}

// ByteField encodes a named NBT byte tag.
func ByteField(name string, v byte) []byte {
	return append(tagHeader(region.TagByte, name), v)
}

// IntField encodes a named NBT int tag.
func IntField(name string, v int32) []byte {
	field := append(tagHeader(region.TagInt, name), 0, 0, 0, 0)
	binary.BigEndian.PutUint32(field[len(field)-4:], uint32(v))
	return field
}

// LongField encodes a named NBT long tag.
func LongField(name string, v uint64) []byte {
	field := append(tagHeader(region.TagLong, name), 0, 0, 0, 0, 0, 0, 0, 0)
	binary.BigEndian.PutUint64(field[len(field)-8:], v)
	return field
}

// FloatField encodes a named NBT float tag.
func FloatField(name string, v float32) []byte {
	field := append(tagHeader(region.TagFloat, name), 0, 0, 0, 0)
	binary.BigEndian.PutUint32(field[len(field)-4:], math.Float32bits(v))
	return field
}

// DoubleField encodes a named NBT double tag.
func DoubleField(name string, v float64) []byte {
	field := append(tagHeader(region.TagDouble, name), 0, 0, 0, 0, 0, 0, 0, 0)
	binary.BigEndian.PutUint64(field[len(field)-8:], math.Float64bits(v))
	return field
}

// CompoundField encodes a named nested compound holding fields.
func CompoundField(name string, fields ...[]byte) []byte {
	field := tagHeader(0x0a, name)
	for _, f := range fields {
		field = append(field, f...)
	}
	return append(field, 0x00)
}

func tagHeader(tag byte, name string) []byte {
	header := make([]byte, 3+len(name))
	header[0] = tag
	binary.BigEndian.PutUint16(header[1:3], uint16(len(name)))
	copy(header[3:], name)
	return header
}

// Payload compresses a decompressed record and frames it as a stored
// payload span, sector padding included.
func Payload(record []byte) []byte {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(record); err != nil {
		panic(err)
	}
	if err := zw.Close(); err != nil {
		panic(err)
	}
	enc, err := region.EncodePayload(buf.Bytes())
	if err != nil {
		panic(err)
	}
	return enc
}

// Chunk builds the stored payload span of a chunk record carrying the
// position and inhabited time fields the trim predicates scan for. The
// yPos field is fixed at -4, the lowest section of a modern world.
func Chunk(x, z int32, inhabited uint64) []byte {
	return Payload(Record(
		IntField("xPos", x),
		IntField("yPos", -4),
		IntField("zPos", z),
		LongField("InhabitedTime", inhabited),
	))
}

// Builder assembles a container image. Payload spans are laid out back to
// back from sector 2 in the order they are added, which may differ from
// slot index order when a test needs it to.
type Builder struct {
	entries []entry
}

type entry struct {
	index     int
	timestamp uint32
	payload   []byte
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Add places a payload span in the slot at index. The span must be a
// whole number of sectors, at most 255 of them, as produced by Payload
// or Chunk.
func (b *Builder) Add(index int, timestamp uint32, payload []byte) *Builder {
	if len(payload)%region.SectorSize != 0 {
		panic("payload span is not sector aligned")
	}
	if len(payload)/region.SectorSize > 255 {
		panic("payload span overflows the one byte sector count")
	}
	b.entries = append(b.entries, entry{index: index, timestamp: timestamp, payload: payload})
	return b
}

// Bytes assembles the container image.
func (b *Builder) Bytes() []byte {
	header := make([]byte, region.HeaderSize)
	var payload []byte
	cursor := 2
	for _, e := range b.entries {
		loc := header[e.index*4:]
		loc[0] = byte(cursor >> 16)
		loc[1] = byte(cursor >> 8)
		loc[2] = byte(cursor)
		loc[3] = byte(len(e.payload) / region.SectorSize)
		binary.BigEndian.PutUint32(header[region.LocationTableSize+e.index*4:], e.timestamp)
		payload = append(payload, e.payload...)
		cursor += len(e.payload) / region.SectorSize
	}
	return append(header, payload...)
}
