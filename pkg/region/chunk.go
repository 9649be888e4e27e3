// Copyright 2025 RegionForge Authors. All rights reserved.
//
// SPDX-License-Identifier: Apache-2.0

package region

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/pkg/errors"
)

// Compression schemes defined by the region format. Gzip is a leftover
// from ancient worlds and unsupported here, like everywhere else.
const (
	CompressionGzip = 1
	CompressionZlib = 2
)

// Every stored payload starts with a 4-byte big-endian length followed by
// a 1-byte compression scheme. The length counts the scheme byte.
const payloadHeaderSize = 5

// The decompressed record is a single nameless NBT compound: one tag byte
// and a zero 16-bit name length, stripped before field scanning.
const compoundFrameSize = 3

// Chunk is one compressed record slot. raw holds the payload exactly as
// stored on disk, sector padding included, so a container in which nothing
// was cleared serializes back byte for byte. fields is the decompressed
// record with the root compound frame stripped, ready for scanning.
type Chunk struct {
	raw    []byte
	fields []byte
}

// IsEmpty reports whether the slot holds no record.
func (c *Chunk) IsEmpty() bool {
	return len(c.raw) == 0
}

func (c *Chunk) clear() {
	c.raw = nil
	c.fields = nil
}

func (c *Chunk) encoded() []byte {
	return c.raw
}

// parseChunk decodes one stored payload from its sector span.
func parseChunk(data []byte) (Chunk, error) {
	if len(data) < payloadHeaderSize {
		return Chunk{}, errors.Errorf("payload is %d bytes, shorter than its %d byte header", len(data), payloadHeaderSize)
	}
	length := binary.BigEndian.Uint32(data)
	if length == 0 {
		return Chunk{}, errors.New("payload declares a zero length")
	}
	if scheme := data[4]; scheme != CompressionZlib {
		return Chunk{}, errors.Errorf("unsupported compression scheme %d, only zlib (%d) is handled", scheme, CompressionZlib)
	}
	end := payloadHeaderSize + int(length) - 1
	if end > len(data) {
		return Chunk{}, errors.Errorf("payload declares %d bytes but its sector span holds %d", length-1, len(data)-payloadHeaderSize)
	}
	fields, err := decompressFields(data[payloadHeaderSize:end])
	if err != nil {
		return Chunk{}, err
	}
	return Chunk{raw: data, fields: fields}, nil
}

func decompressFields(body []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "open zlib stream")
	}
	defer zr.Close()
	record, err := io.ReadAll(zr)
	if err != nil {
		return nil, errors.Wrap(err, "decompress record")
	}
	if len(record) < compoundFrameSize {
		return nil, errors.Errorf("record is %d bytes, too short for the root compound frame", len(record))
	}
	return record[compoundFrameSize:], nil
}

// EncodePayload frames a zlib-compressed record body for storage: length,
// scheme byte, body, then zero padding up to the next sector boundary.
// A body whose span would overflow the single byte sector count of a
// location entry is rejected. Container builders use this; payloads read
// from a file keep their original bytes instead.
func EncodePayload(body []byte) ([]byte, error) {
	total := payloadHeaderSize + len(body)
	padded := (total + SectorSize - 1) / SectorSize * SectorSize
	if padded/SectorSize > maxSlotSectors {
		return nil, errors.Errorf("payload spans %d sectors, a location entry holds at most %d", padded/SectorSize, maxSlotSectors)
	}
	out := make([]byte, padded)
	binary.BigEndian.PutUint32(out, uint32(len(body)+1))
	out[4] = CompressionZlib
	copy(out[payloadHeaderSize:], body)
	return out, nil
}
