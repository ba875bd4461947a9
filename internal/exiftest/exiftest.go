// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

// Package exiftest builds small synthetic JPEG files with an EXIF block for tests.
package exiftest

import (
	"bytes"
	"encoding/binary"
)

// EXIF types.
const (
	TypeByte      = 1
	TypeASCII     = 2
	TypeShort     = 3
	TypeLong      = 4
	TypeRational  = 5
	TypeUndefined = 7
	TypeSLong     = 9
	TypeSRational = 10
)

// Some common tags.
const (
	TagMake              = 0x010f
	TagModel             = 0x0110
	TagDateTime          = 0x0132
	TagExposureTime      = 0x829a
	TagFNumber           = 0x829d
	TagExifIFDPointer    = 0x8769
	TagISO               = 0x8827
	TagDateTimeOriginal  = 0x9003
	TagDateTimeDigitized = 0x9004
	TagFocalLength       = 0x920a
)

// XMPHeader is the namespace prefix of an XMP APP1 payload.
var XMPHeader = []byte("http://ns.adobe.com/xap/1.0/\x00")

type entry struct {
	tag   uint16
	typ   uint16
	count uint32
	value []byte

	// If set, written verbatim to the value field.
	raw    bool
	rawVal uint32
}

type segment struct {
	marker  uint16
	payload []byte
}

// fromTIFFOffset is the position of the TIFF header in a JPEG built by FromTIFF.
const fromTIFFOffset = 12

// Builder builds a JPEG with one APP1 EXIF segment.
// Entries are written in the order they are added.
// Out-of-line value offsets and the Exif IFD pointer are absolute
// positions in the JPEG unless TIFFRelative is set.
type Builder struct {
	byteOrder binary.ByteOrder
	entries   []entry
	exifIFD   *Builder
	before    []segment
	relative  bool
}

// New creates a Builder writing TIFF data in the given byte order.
func New(byteOrder binary.ByteOrder) *Builder {
	return &Builder{byteOrder: byteOrder}
}

// ASCII adds a NUL terminated ASCII entry.
func (b *Builder) ASCII(tag uint16, s string) *Builder {
	v := append([]byte(s), 0)
	return b.add(tag, TypeASCII, uint32(len(v)), v)
}

// Short adds a single SHORT entry.
func (b *Builder) Short(tag, v uint16) *Builder {
	buf := make([]byte, 2)
	b.byteOrder.PutUint16(buf, v)
	return b.add(tag, TypeShort, 1, buf)
}

// Shorts adds a SHORT array entry.
func (b *Builder) Shorts(tag uint16, vs ...uint16) *Builder {
	buf := make([]byte, 2*len(vs))
	for i, v := range vs {
		b.byteOrder.PutUint16(buf[2*i:], v)
	}
	return b.add(tag, TypeShort, uint32(len(vs)), buf)
}

// Long adds a single LONG entry.
func (b *Builder) Long(tag uint16, v uint32) *Builder {
	buf := make([]byte, 4)
	b.byteOrder.PutUint32(buf, v)
	return b.add(tag, TypeLong, 1, buf)
}

// Rational adds a single RATIONAL entry.
func (b *Builder) Rational(tag uint16, num, den uint32) *Builder {
	buf := make([]byte, 8)
	b.byteOrder.PutUint32(buf, num)
	b.byteOrder.PutUint32(buf[4:], den)
	return b.add(tag, TypeRational, 1, buf)
}

// SignedRational adds a single SRATIONAL entry.
func (b *Builder) SignedRational(tag uint16, num, den int32) *Builder {
	buf := make([]byte, 8)
	b.byteOrder.PutUint32(buf, uint32(num))
	b.byteOrder.PutUint32(buf[4:], uint32(den))
	return b.add(tag, TypeSRational, 1, buf)
}

// Bytes adds an entry of type typ with count len(v).
func (b *Builder) Bytes(tag, typ uint16, v []byte) *Builder {
	return b.add(tag, typ, uint32(len(v)), v)
}

// Raw adds an entry with the value field set to valueOrOffset,
// e.g. to point a value outside of the buffer.
func (b *Builder) Raw(tag, typ uint16, count, valueOrOffset uint32) *Builder {
	b.entries = append(b.entries, entry{tag: tag, typ: typ, count: count, raw: true, rawVal: valueOrOffset})
	return b
}

// ExifIFD returns the builder for the Exif sub-IFD.
// The pointer entry is added to IFD0 when the TIFF block is built.
func (b *Builder) ExifIFD() *Builder {
	if b.exifIFD == nil {
		b.exifIFD = New(b.byteOrder)
	}
	return b.exifIFD
}

// TIFFRelative makes the builder write offsets relative to the TIFF header,
// the way cameras do.
func (b *Builder) TIFFRelative() *Builder {
	b.relative = true
	return b
}

// Segment adds a marker segment written before the APP1 EXIF segment.
func (b *Builder) Segment(marker uint16, payload []byte) *Builder {
	b.before = append(b.before, segment{marker: marker, payload: payload})
	return b
}

// XMP adds an APP1 XMP segment before the EXIF segment.
func (b *Builder) XMP(packet string) *Builder {
	return b.Segment(0xffe1, append(bytes.Clone(XMPHeader), packet...))
}

func (b *Builder) add(tag, typ uint16, count uint32, v []byte) *Builder {
	b.entries = append(b.entries, entry{tag: tag, typ: typ, count: count, value: v})
	return b
}

// TIFF returns the TIFF block: header, IFD0, its values and the Exif sub-IFD, if any.
// Unless TIFFRelative is set, offsets assume the block is wrapped by FromTIFF.
func (b *Builder) TIFF() []byte {
	return b.tiff(fromTIFFOffset)
}

func (b *Builder) tiff(tiffOffset uint32) []byte {
	var base uint32
	if !b.relative {
		base = tiffOffset
	}

	var buf bytes.Buffer
	if b.byteOrder == binary.LittleEndian {
		buf.WriteString("II")
	} else {
		buf.WriteString("MM")
	}
	b.put16(&buf, 42)
	b.put32(&buf, 8)

	entries := b.entries
	if b.exifIFD != nil {
		entries = append(entries[:len(entries):len(entries)], entry{tag: TagExifIFDPointer, typ: TypeLong, count: 1})
	}

	ifd0Size := ifdSize(entries)
	if b.exifIFD != nil {
		v := make([]byte, 4)
		b.byteOrder.PutUint32(v, base+uint32(8+ifd0Size))
		entries[len(entries)-1].value = v
	}

	b.writeIFD(&buf, entries, 8, base)
	if b.exifIFD != nil {
		b.writeIFD(&buf, b.exifIFD.entries, uint32(8+ifd0Size), base)
	}

	return buf.Bytes()
}

// JPEG returns a minimal JPEG: SOI, the extra segments, APP1 EXIF, SOS and EOI.
func (b *Builder) JPEG() []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0xff, 0xd8})
	for _, s := range b.before {
		writeSegment(&buf, s.marker, s.payload)
	}
	// APP1 marker, length and the EXIF header.
	tiffOffset := uint32(buf.Len() + 4 + 6)
	writeSegment(&buf, 0xffe1, append([]byte("Exif\x00\x00"), b.tiff(tiffOffset)...))
	// An empty scan.
	writeSegment(&buf, 0xffda, []byte{0x01, 0x01, 0x00, 0x00, 0x3f, 0x00})
	buf.Write([]byte{0x00, 0xff, 0xd9})
	return buf.Bytes()
}

// FromTIFF wraps an already built TIFF block in a minimal JPEG.
func FromTIFF(tiff []byte) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0xff, 0xd8})
	writeSegment(&buf, 0xffe1, append([]byte("Exif\x00\x00"), tiff...))
	writeSegment(&buf, 0xffda, []byte{0x01, 0x01, 0x00, 0x00, 0x3f, 0x00})
	buf.Write([]byte{0x00, 0xff, 0xd9})
	return buf.Bytes()
}

// JPEGWithoutEXIF returns a minimal JPEG with only the extra segments.
func (b *Builder) JPEGWithoutEXIF() []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0xff, 0xd8})
	for _, s := range b.before {
		writeSegment(&buf, s.marker, s.payload)
	}
	writeSegment(&buf, 0xffda, []byte{0x01, 0x01, 0x00, 0x00, 0x3f, 0x00})
	buf.Write([]byte{0x00, 0xff, 0xd9})
	return buf.Bytes()
}

func writeSegment(buf *bytes.Buffer, marker uint16, payload []byte) {
	var hdr [4]byte
	binary.BigEndian.PutUint16(hdr[:], marker)
	binary.BigEndian.PutUint16(hdr[2:], uint16(len(payload)+2))
	buf.Write(hdr[:])
	buf.Write(payload)
}

// ifdSize returns the size of the IFD including its out-of-line values.
func ifdSize(entries []entry) int {
	size := 2 + 12*len(entries) + 4
	for _, e := range entries {
		if !e.raw && len(e.value) > 4 {
			size += padded(len(e.value))
		}
	}
	return size
}

func padded(n int) int {
	return n + n%2
}

// writeIFD writes the IFD at start in the TIFF block.
// Offsets written are start relative plus base.
func (b *Builder) writeIFD(buf *bytes.Buffer, entries []entry, start, base uint32) {
	dataOffset := base + start + uint32(2+12*len(entries)+4)
	var data bytes.Buffer

	b.put16(buf, uint16(len(entries)))
	for _, e := range entries {
		b.put16(buf, e.tag)
		b.put16(buf, e.typ)
		b.put32(buf, e.count)
		switch {
		case e.raw:
			b.put32(buf, e.rawVal)
		case len(e.value) <= 4:
			var v [4]byte
			copy(v[:], e.value)
			buf.Write(v[:])
		default:
			b.put32(buf, dataOffset+uint32(data.Len()))
			data.Write(e.value)
			if len(e.value)%2 == 1 {
				data.WriteByte(0)
			}
		}
	}
	// No next IFD.
	b.put32(buf, 0)
	buf.Write(data.Bytes())
}

func (b *Builder) put16(buf *bytes.Buffer, v uint16) {
	var tmp [2]byte
	b.byteOrder.PutUint16(tmp[:], v)
	buf.Write(tmp[:])
}

func (b *Builder) put32(buf *bytes.Buffer, v uint32) {
	var tmp [4]byte
	b.byteOrder.PutUint32(tmp[:], v)
	buf.Write(tmp[:])
}
