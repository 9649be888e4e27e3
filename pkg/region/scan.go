// Copyright 2025 RegionForge Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package region

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// NBT tag ids of the fixed-width value types the scanner understands.
const (
	TagByte   = 0x01
	TagInt    = 0x03
	TagLong   = 0x04
	TagFloat  = 0x05
	TagDouble = 0x06
)

// ErrFieldNotFound reports that a scanned record does not contain the
// requested field.
var ErrFieldNotFound = errors.New("field not found")

func tagWidth(tag byte) (int, error) {
	switch tag {
	case TagByte:
		return 1, nil
	case TagInt, TagFloat:
		return 4, nil
	case TagLong, TagDouble:
		return 8, nil
	}
	return 0, errors.Errorf("tag 0x%02x has no fixed width", tag)
}

// Field locates a named fixed-width value in the decompressed record and
// returns its raw big-endian bytes. This is a flat byte search for the
// tag/name pattern, not a structural parse: a field of the same name and
// tag inside a nested compound is indistinguishable from a top level one,
// and the first occurrence in the stream wins. Chunk records keep the
// names scanned here unique, which is what makes the shortcut safe.
func (c *Chunk) Field(tag byte, name string) ([]byte, error) {
	width, err := tagWidth(tag)
	if err != nil {
		return nil, err
	}
	pattern := make([]byte, 3+len(name))
	pattern[0] = tag
	binary.BigEndian.PutUint16(pattern[1:3], uint16(len(name)))
	copy(pattern[3:], name)

	idx := bytes.Index(c.fields, pattern)
	if idx < 0 {
		return nil, errors.Wrap(ErrFieldNotFound, name)
	}
	start := idx + len(pattern)
	if start+width > len(c.fields) {
		return nil, errors.Errorf("field %s is truncated", name)
	}
	return c.fields[start : start+width], nil
}

// InhabitedTime returns the cumulative number of ticks players have spent
// inside the chunk. The counter is stored as a signed long and must never
// be negative; a set sign bit is corruption, not a count.
func (c *Chunk) InhabitedTime() (uint64, error) {
	raw, err := c.Field(TagLong, "InhabitedTime")
	if err != nil {
		return 0, err
	}
	v := binary.BigEndian.Uint64(raw)
	if v > math.MaxInt64 {
		return 0, errors.Errorf("InhabitedTime %#x has its sign bit set", v)
	}
	return v, nil
}

// XPos returns the chunk's X coordinate in chunk units.
func (c *Chunk) XPos() (int32, error) {
	raw, err := c.Field(TagInt, "xPos")
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(raw)), nil
}

// YPos returns the chunk's lowest section Y coordinate.
func (c *Chunk) YPos() (int32, error) {
	raw, err := c.Field(TagInt, "yPos")
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(raw)), nil
}

// ZPos returns the chunk's Z coordinate in chunk units.
func (c *Chunk) ZPos() (int32, error) {
	raw, err := c.Field(TagInt, "zPos")
	if err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(raw)), nil
}
