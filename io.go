// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package framemeta

import (
	"bytes"
	"encoding/binary"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// byteReader provides bounds checked reads of binary data from a fixed buffer.
// All offsets are relative to the start of b.
// It holds no mutable state and is safe for concurrent use.
type byteReader struct {
	b         []byte
	byteOrder binary.ByteOrder
}

func newByteReader(b []byte, byteOrder binary.ByteOrder) byteReader {
	return byteReader{b: b, byteOrder: byteOrder}
}

// span returns length bytes at offset without copying.
// The arithmetic is done in int64 so that offsets sourced from 32-bit
// file fields can never wrap around.
func (e byteReader) span(offset, length int64) ([]byte, error) {
	if offset < 0 || length < 0 || offset+length > int64(len(e.b)) {
		return nil, newOutOfBoundsError(offset, length, len(e.b))
	}
	return e.b[offset : offset+length], nil
}

func (e byteReader) read2(offset int64) (uint16, error) {
	b, err := e.span(offset, 2)
	if err != nil {
		return 0, err
	}
	return e.byteOrder.Uint16(b), nil
}

func (e byteReader) read4(offset int64) (uint32, error) {
	b, err := e.span(offset, 4)
	if err != nil {
		return 0, err
	}
	return e.byteOrder.Uint32(b), nil
}

func (e byteReader) read4s(offset int64) (int32, error) {
	v, err := e.read4(offset)
	return int32(v), err
}

// readBytes returns a copy of length bytes at offset.
func (e byteReader) readBytes(offset, length int64) ([]byte, error) {
	b, err := e.span(offset, length)
	if err != nil {
		return nil, err
	}
	return bytes.Clone(b), nil
}

// readASCII reads a fixed length EXIF ASCII field and strips the NUL padding.
// Cameras sometimes write Latin-1 into these fields, so anything that
// is not valid UTF-8 is decoded as ISO-8859-1.
func (e byteReader) readASCII(offset, length int64) (string, error) {
	b, err := e.span(offset, length)
	if err != nil {
		return "", err
	}
	b = bytes.TrimRight(b, "\x00")
	if i := bytes.IndexByte(b, 0); i >= 0 {
		// Only the first NUL terminated string is used.
		b = b[:i]
	}
	if utf8.Valid(b) {
		return string(b), nil
	}
	s, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return string(b), nil
	}
	return string(s), nil
}

// readRational reads an unsigned rational and returns numerator/denominator,
// or 0 if the denominator is 0.
func (e byteReader) readRational(offset int64) (float64, error) {
	n, err := e.read4(offset)
	if err != nil {
		return 0, err
	}
	d, err := e.read4(offset + 4)
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return 0, nil
	}
	return float64(n) / float64(d), nil
}

// readSignedRational is the signed variant of readRational.
func (e byteReader) readSignedRational(offset int64) (float64, error) {
	n, err := e.read4s(offset)
	if err != nil {
		return 0, err
	}
	d, err := e.read4s(offset + 4)
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return 0, nil
	}
	return float64(n) / float64(d), nil
}

func (e byteReader) withByteOrder(byteOrder binary.ByteOrder) byteReader {
	e.byteOrder = byteOrder
	return e
}
