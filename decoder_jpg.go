// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package framemeta

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

var markerEXIF = []byte("Exif\x00\x00")

const (
	markerSOI             = 0xffd8
	markerApp1            = 0xffe1
	markerSOS             = 0xffda
	markerEOI             = 0xffd9
	byteOrderBigEndian    = 0x4d4d
	byteOrderLittleEndian = 0x4949
	meaningOfLife         = 42
)

// exifSegment describes the TIFF block found in a JPEG APP1 segment.
type exifSegment struct {
	// The whole JPEG buffer, read in the byte order of the TIFF header.
	buf byteReader

	// Position of the TIFF header in the JPEG buffer.
	tiffOffset int64

	// Offset of IFD0 relative to the TIFF header.
	ifd0Offset int64
}

func (s exifSegment) byteOrder() binary.ByteOrder {
	return s.buf.byteOrder
}

// absoluteIFD0Offset returns the position of IFD0 in the JPEG buffer.
func (s exifSegment) absoluteIFD0Offset() int64 {
	return s.tiffOffset + s.ifd0Offset
}

// locateEXIF walks the JPEG marker segments in b looking for the
// APP1 segment carrying EXIF data.
// APP1 segments with other payloads (e.g. XMP) are skipped.
func locateEXIF(b []byte) (exifSegment, error) {
	r := newByteReader(b, binary.BigEndian)

	// JPEG SOI marker.
	soi, err := r.read2(0)
	if err != nil || soi != markerSOI {
		return exifSegment{}, ErrNotAJPEG
	}

	offset := int64(2)
	for {
		marker, err := r.read2(offset)
		if err != nil {
			return exifSegment{}, ErrEXIFNotFound
		}

		if marker < 0xff00 {
			offset++
			continue
		}

		if marker == markerSOS || marker == markerEOI {
			// Start of scan or end of image. APP1 always comes before these.
			return exifSegment{}, ErrEXIFNotFound
		}

		// The 16-bit segment length includes the 2 bytes for the length itself.
		length, err := r.read2(offset + 2)
		if err != nil {
			return exifSegment{}, fmt.Errorf("%w: no segment length for marker 0x%x at offset %d", ErrUnexpectedEndOfStream, marker, offset)
		}
		segmentEnd := offset + 2 + int64(length)

		if marker == markerApp1 {
			header, err := r.span(offset+4, int64(len(markerEXIF)))
			if err == nil && bytes.Equal(header, markerEXIF) {
				tiffOffset := offset + 4 + int64(len(markerEXIF))
				return decodeTIFFHeader(r, tiffOffset, segmentEnd)
			}
		}

		offset = segmentEnd
	}
}

// decodeTIFFHeader reads the 8 byte TIFF header at tiffOffset.
// The header must fit in the APP1 segment, or in the buffer if the
// segment was truncated.
func decodeTIFFHeader(r byteReader, tiffOffset, segmentEnd int64) (exifSegment, error) {
	if n := int64(len(r.b)); segmentEnd > n {
		segmentEnd = n
	}
	if size := segmentEnd - tiffOffset; size < 8 {
		return exifSegment{}, fmt.Errorf("%w: header is %d bytes", ErrInvalidTIFFHeader, max(size, 0))
	}

	byteOrderTag, err := r.read2(tiffOffset)
	if err != nil {
		return exifSegment{}, fmt.Errorf("%w: %w", ErrInvalidTIFFHeader, err)
	}

	switch byteOrderTag {
	case byteOrderBigEndian:
		r = r.withByteOrder(binary.BigEndian)
	case byteOrderLittleEndian:
		r = r.withByteOrder(binary.LittleEndian)
	default:
		return exifSegment{}, fmt.Errorf("%w: byte order 0x%x", ErrInvalidTIFFHeader, byteOrderTag)
	}

	magic, err := r.read2(tiffOffset + 2)
	if err != nil {
		return exifSegment{}, fmt.Errorf("%w: %w", ErrInvalidTIFFHeader, err)
	}
	if magic != meaningOfLife {
		return exifSegment{}, fmt.Errorf("%w: magic number %d", ErrInvalidTIFFHeader, magic)
	}

	ifd0Offset, err := r.read4(tiffOffset + 4)
	if err != nil {
		return exifSegment{}, fmt.Errorf("%w: %w", ErrInvalidTIFFHeader, err)
	}

	return exifSegment{
		buf:        r,
		tiffOffset: tiffOffset,
		ifd0Offset: int64(ifd0Offset),
	}, nil
}
