// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package framemeta

import (
	"encoding/binary"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/bep/framemeta/internal/exiftest"
)

func TestLocateEXIF(t *testing.T) {
	c := qt.New(t)

	for _, byteOrder := range []binary.ByteOrder{binary.LittleEndian, binary.BigEndian} {
		b := exiftest.New(byteOrder).ASCII(exiftest.TagMake, "Canon").JPEG()
		seg, err := locateEXIF(b)
		c.Assert(err, qt.IsNil)
		c.Assert(seg.byteOrder(), qt.Equals, byteOrder)
		// SOI (2) + APP1 marker and length (4) + "Exif\0\0" (6).
		c.Assert(seg.tiffOffset, qt.Equals, int64(12))
		c.Assert(seg.ifd0Offset, qt.Equals, int64(8))
		c.Assert(seg.absoluteIFD0Offset(), qt.Equals, int64(20))
	}
}

func TestLocateEXIFAfterOtherSegments(t *testing.T) {
	c := qt.New(t)

	b := exiftest.New(binary.BigEndian).
		Segment(0xffe0, []byte("JFIF\x00\x01\x02\x00\x00\x01\x00\x01\x00\x00")).
		XMP(`<x:xmpmeta xmlns:x="adobe:ns:meta/"><rdf:RDF/></x:xmpmeta>`).
		Segment(0xffe1, []byte("Exi")).
		ASCII(exiftest.TagMake, "Canon")

	seg, err := locateEXIF(b.JPEG())
	c.Assert(err, qt.IsNil)
	tags, err := decodeIFD0(seg, Options{}.init())
	c.Assert(err, qt.IsNil)
	c.Assert(tags[tagMake], qt.Equals, tagValue(asciiValue("Canon")))
}

func TestLocateEXIFOnlyXMP(t *testing.T) {
	c := qt.New(t)

	// Make sure the XMP payload is never read as a TIFF header,
	// even if it happens to contain one.
	b := exiftest.New(binary.BigEndian).
		XMP("MM\x00\x2a\x00\x00\x00\x08").
		JPEGWithoutEXIF()

	_, err := locateEXIF(b)
	c.Assert(err, qt.ErrorIs, ErrEXIFNotFound)
}

func TestLocateEXIFErrors(t *testing.T) {
	c := qt.New(t)

	validTIFF := exiftest.New(binary.LittleEndian).ASCII(exiftest.TagMake, "Canon").TIFF()

	badByteOrder := append([]byte(nil), validTIFF...)
	copy(badByteOrder, "XX")

	badMagic := append([]byte(nil), validTIFF...)
	binary.LittleEndian.PutUint16(badMagic[2:], 43)

	for _, test := range []struct {
		name string
		b    []byte
		err  error
	}{
		{"empty", nil, ErrNotAJPEG},
		{"one byte", []byte{0xff}, ErrNotAJPEG},
		{"png", []byte("\x89PNG\r\n\x1a\n"), ErrNotAJPEG},
		{"only SOI", []byte{0xff, 0xd8}, ErrEXIFNotFound},
		{"SOI and EOI", []byte{0xff, 0xd8, 0xff, 0xd9}, ErrEXIFNotFound},
		{"no segment length", []byte{0xff, 0xd8, 0xff, 0xe0}, ErrUnexpectedEndOfStream},
		{"no segment length half", []byte{0xff, 0xd8, 0xff, 0xe0, 0x00}, ErrUnexpectedEndOfStream},
		{"segment past end", []byte{0xff, 0xd8, 0xff, 0xe0, 0x10, 0x00, 0x01}, ErrEXIFNotFound},
		{"garbage after SOI", []byte{0xff, 0xd8, 0x01, 0x02, 0x03}, ErrEXIFNotFound},
		{"no EXIF", exiftest.New(binary.BigEndian).JPEGWithoutEXIF(), ErrEXIFNotFound},
		{"bad byte order", exiftest.FromTIFF(badByteOrder), ErrInvalidTIFFHeader},
		{"bad magic", exiftest.FromTIFF(badMagic), ErrInvalidTIFFHeader},
		{"short TIFF header", exiftest.FromTIFF([]byte("II\x2a\x00")), ErrInvalidTIFFHeader},
		{"empty TIFF", exiftest.FromTIFF(nil), ErrInvalidTIFFHeader},
	} {
		c.Run(test.name, func(c *qt.C) {
			_, err := locateEXIF(test.b)
			c.Assert(err, qt.ErrorIs, test.err)
			c.Assert(IsInvalidFormat(err), qt.IsTrue)
		})
	}
}

func TestLocateEXIFTruncatedSegment(t *testing.T) {
	c := qt.New(t)

	b := exiftest.New(binary.LittleEndian).
		ASCII(exiftest.TagMake, "Canon").
		ASCII(exiftest.TagModel, "EOS R5").
		JPEG()

	// Cut the buffer in the middle of the APP1 segment, as when only
	// the head of a large file is read.
	b = b[:len(b)-20]

	seg, err := locateEXIF(b)
	c.Assert(err, qt.IsNil)

	// The model value is cut off, the make is still there.
	tags, err := decodeIFD0(seg, Options{}.init())
	c.Assert(err, qt.IsNil)
	c.Assert(tags, qt.DeepEquals, tagTable{
		tagMake: asciiValue("Canon"),
	})
}
