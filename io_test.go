// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package framemeta

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestByteReaderByteOrder(t *testing.T) {
	c := qt.New(t)

	b := []byte{0x01, 0x02, 0x03, 0x04}

	be := newByteReader(b, binary.BigEndian)
	le := newByteReader(b, binary.LittleEndian)

	v16, err := be.read2(0)
	c.Assert(err, qt.IsNil)
	c.Assert(v16, qt.Equals, uint16(0x0102))
	v16, err = le.read2(2)
	c.Assert(err, qt.IsNil)
	c.Assert(v16, qt.Equals, uint16(0x0403))

	v32, err := be.read4(0)
	c.Assert(err, qt.IsNil)
	c.Assert(v32, qt.Equals, uint32(0x01020304))
	v32, err = le.read4(0)
	c.Assert(err, qt.IsNil)
	c.Assert(v32, qt.Equals, uint32(0x04030201))
}

func TestByteReaderOutOfBounds(t *testing.T) {
	c := qt.New(t)

	r := newByteReader([]byte{1, 2, 3, 4, 5}, binary.BigEndian)

	_, err := r.read2(4)
	c.Assert(errors.Is(err, ErrOutOfBounds), qt.IsTrue)
	_, err = r.read4(2)
	c.Assert(errors.Is(err, ErrOutOfBounds), qt.IsTrue)
	_, err = r.read4(-1)
	c.Assert(errors.Is(err, ErrOutOfBounds), qt.IsTrue)
	_, err = r.readBytes(0, 6)
	c.Assert(errors.Is(err, ErrOutOfBounds), qt.IsTrue)
	_, err = r.readASCII(math.MaxUint32, 10)
	c.Assert(errors.Is(err, ErrOutOfBounds), qt.IsTrue)
	_, err = r.readRational(0)
	c.Assert(errors.Is(err, ErrOutOfBounds), qt.IsTrue)
	c.Assert(IsInvalidFormat(err), qt.IsTrue)

	// Exactly at the end is fine.
	v, err := r.readBytes(1, 4)
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.DeepEquals, []byte{2, 3, 4, 5})
	v, err = r.readBytes(5, 0)
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.HasLen, 0)
}

func TestByteReaderReadBytesCopies(t *testing.T) {
	c := qt.New(t)

	b := []byte{1, 2, 3}
	r := newByteReader(b, binary.BigEndian)
	v, err := r.readBytes(0, 3)
	c.Assert(err, qt.IsNil)
	v[0] = 42
	c.Assert(b[0], qt.Equals, byte(1))
}

func TestByteReaderReadASCII(t *testing.T) {
	c := qt.New(t)

	r := newByteReader([]byte("Canon\x00\x00\x00"), binary.BigEndian)
	s, err := r.readASCII(0, 8)
	c.Assert(err, qt.IsNil)
	c.Assert(s, qt.Equals, "Canon")

	r = newByteReader([]byte("ab\x00cd\x00"), binary.BigEndian)
	s, err = r.readASCII(0, 6)
	c.Assert(err, qt.IsNil)
	c.Assert(s, qt.Equals, "ab")

	// UTF-8 is kept as is.
	r = newByteReader([]byte("Bjørn\x00"), binary.BigEndian)
	s, err = r.readASCII(0, int64(len("Bjørn\x00")))
	c.Assert(err, qt.IsNil)
	c.Assert(s, qt.Equals, "Bjørn")

	// Latin-1.
	r = newByteReader([]byte{'B', 'j', 0xf8, 'r', 'n', 0}, binary.BigEndian)
	s, err = r.readASCII(0, 6)
	c.Assert(err, qt.IsNil)
	c.Assert(s, qt.Equals, "Bjørn")
}

func TestByteReaderRationals(t *testing.T) {
	c := qt.New(t)

	b := make([]byte, 24)
	binary.LittleEndian.PutUint32(b[0:], 1)
	binary.LittleEndian.PutUint32(b[4:], 100)
	binary.LittleEndian.PutUint32(b[8:], 7)
	binary.LittleEndian.PutUint32(b[12:], 0)
	var num, den int32 = -3, 2
	binary.LittleEndian.PutUint32(b[16:], uint32(num))
	binary.LittleEndian.PutUint32(b[20:], uint32(den))

	r := newByteReader(b, binary.LittleEndian)

	f, err := r.readRational(0)
	c.Assert(err, qt.IsNil)
	c.Assert(f, qt.Equals, 0.01)

	// Zero denominator.
	f, err = r.readRational(8)
	c.Assert(err, qt.IsNil)
	c.Assert(f, qt.Equals, 0.0)

	f, err = r.readSignedRational(16)
	c.Assert(err, qt.IsNil)
	c.Assert(f, qt.Equals, -1.5)

	f, err = r.readSignedRational(8)
	c.Assert(err, qt.IsNil)
	c.Assert(f, qt.Equals, 0.0)
}

func TestByteReaderWithByteOrder(t *testing.T) {
	c := qt.New(t)

	r := newByteReader([]byte{0, 1, 2, 3}, binary.BigEndian)
	le := r.withByteOrder(binary.LittleEndian)

	v, err := r.read2(0)
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.Equals, uint16(0x0001))
	v, err = le.read2(0)
	c.Assert(err, qt.IsNil)
	c.Assert(v, qt.Equals, uint16(0x0100))
	_, err = le.read4(1)
	c.Assert(errors.Is(err, ErrOutOfBounds), qt.IsTrue)
}
