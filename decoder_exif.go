// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package framemeta

import (
	"errors"
	"fmt"
)

// exifType represents the basic tiff tag data types.
type exifType uint16

const (
	typeUnsignedByte  exifType = 1
	typeUnsignedASCII exifType = 2
	typeUnsignedShort exifType = 3
	typeUnsignedLong  exifType = 4
	typeUnsignedRat   exifType = 5
	typeSignedByte    exifType = 6
	typeUndef         exifType = 7
	typeSignedShort   exifType = 8
	typeSignedLong    exifType = 9
	typeSignedRat     exifType = 10
	typeSignedFloat   exifType = 11
	typeSignedDouble  exifType = 12
)

// Size in bytes of each type.
var exifTypeSize = map[exifType]uint32{
	typeUnsignedByte:  1,
	typeUnsignedASCII: 1,
	typeUnsignedShort: 2,
	typeUnsignedLong:  4,
	typeUnsignedRat:   8,
	typeSignedByte:    1,
	typeUndef:         1,
	typeSignedShort:   2,
	typeSignedLong:    4,
	typeSignedRat:     8,
	typeSignedFloat:   4,
	typeSignedDouble:  8,
}

// tagValue is a decoded directory entry value.
// The concrete type is determined by the EXIF type code of the entry.
type tagValue interface {
	isTagValue()
}

type (
	byteValue           []byte
	asciiValue          string
	shortValue          uint16
	longValue           uint32
	rationalValue       float64
	signedRationalValue float64
)

func (byteValue) isTagValue()           {}
func (asciiValue) isTagValue()          {}
func (shortValue) isTagValue()          {}
func (longValue) isTagValue()           {}
func (rationalValue) isTagValue()       {}
func (signedRationalValue) isTagValue() {}

// tagTable holds the decoded entries of one IFD keyed by tag ID.
type tagTable map[uint16]tagValue

// valueIsInline reports whether count values of typ fit in the 4 byte
// value field of a directory entry. ok is false for unknown types.
func valueIsInline(typ exifType, count uint32) (inline, ok bool) {
	size, ok := exifTypeSize[typ]
	if !ok {
		return false, false
	}
	return uint64(size)*uint64(count) <= 4, true
}

// ifdDecoder decodes image file directories in a JPEG buffer.
// Entry positions are absolute. Out-of-line value offsets and the Exif
// IFD pointer are added to valueBase, which is 0 unless
// Options.TIFFRelativeOffsets is set.
type ifdDecoder struct {
	byteReader
	valueBase int64
	opts      Options
}

func newIFDDecoder(seg exifSegment, opts Options) *ifdDecoder {
	e := &ifdDecoder{
		byteReader: seg.buf,
		opts:       opts,
	}
	if opts.TIFFRelativeOffsets {
		e.valueBase = seg.tiffOffset
	}
	return e
}

// decodeIFD0 decodes the first IFD of seg and, if enabled, merges in the Exif sub-IFD.
func decodeIFD0(seg exifSegment, opts Options) (tagTable, error) {
	e := newIFDDecoder(seg, opts)
	tags := make(tagTable)
	if err := e.decodeTags("IFD0", seg.absoluteIFD0Offset(), tags); err != nil {
		return nil, err
	}

	if !opts.FollowExifIFD {
		return tags, nil
	}

	ptr, ok := tags[tagExifIFDPointer].(longValue)
	if !ok {
		return tags, nil
	}
	sub := make(tagTable)
	if err := e.decodeTags("IFD0/ExifIFD", e.valueBase+int64(ptr), sub); err != nil {
		e.opts.Warnf("framemeta: skipping Exif IFD at offset %d: %s", ptr, err)
		return tags, nil
	}
	for id, v := range sub {
		if _, found := tags[id]; !found {
			tags[id] = v
		}
	}

	return tags, nil
}

// A tag is represented in 12 bytes:
//   - 2 bytes for the tag ID
//   - 2 bytes for the data type
//   - 4 bytes for the number of data values of the specified type
//   - 4 bytes for the value itself, if it fits, otherwise for a pointer to another location where the data may be found.
func (e *ifdDecoder) decodeTag(namespace string, entryOffset int64, tags tagTable) error {
	tagID, err := e.read2(entryOffset)
	if err != nil {
		return err
	}
	dataType, err := e.read2(entryOffset + 2)
	if err != nil {
		return err
	}
	count, err := e.read4(entryOffset + 4)
	if err != nil {
		return err
	}

	typ := exifType(dataType)
	inline, ok := valueIsInline(typ, count)
	if !ok {
		e.opts.Warnf("framemeta: %s: %s: unknown EXIF type %d", namespace, tagName(tagID), typ)
		return nil
	}

	valLen := int64(exifTypeSize[typ]) * int64(count)
	if valLen > int64(e.opts.LimitTagSize) {
		e.opts.Warnf("framemeta: %s: %s: value size %d exceeds limit %d", namespace, tagName(tagID), valLen, e.opts.LimitTagSize)
		return nil
	}

	valueOffset := entryOffset + 8
	if !inline {
		offset, err := e.read4(entryOffset + 8)
		if err != nil {
			return err
		}
		valueOffset = e.valueBase + int64(offset)
	}

	val, err := e.convertValues(typ, count, valueOffset)
	if err != nil {
		return fmt.Errorf("%s: %w", tagName(tagID), err)
	}
	if val == nil {
		return nil
	}

	tags[tagID] = val

	return nil
}

// decodeTags decodes the IFD at ifdOffset into tags.
// Entries that can not be read are skipped.
func (e *ifdDecoder) decodeTags(namespace string, ifdOffset int64, tags tagTable) error {
	numTags, err := e.read2(ifdOffset)
	if err != nil {
		return err
	}

	n := uint32(numTags)
	if n > e.opts.LimitNumTags {
		e.opts.Warnf("framemeta: %s: %d entries exceeds limit %d", namespace, n, e.opts.LimitNumTags)
		n = e.opts.LimitNumTags
	}

	for i := int64(0); i < int64(n); i++ {
		entryOffset := ifdOffset + 2 + 12*i
		if err := e.decodeTag(namespace, entryOffset, tags); err != nil {
			if errors.Is(err, ErrOutOfBounds) {
				e.opts.Warnf("framemeta: %s: skipping entry %d: %s", namespace, i, err)
				continue
			}
			return err
		}
	}

	return nil
}

// convertValues decodes count values of typ at offset.
// It returns nil for types and counts that are not handled.
func (e *ifdDecoder) convertValues(typ exifType, count uint32, offset int64) (tagValue, error) {
	switch typ {
	case typeUnsignedByte, typeUndef:
		b, err := e.readBytes(offset, int64(count))
		if err != nil {
			return nil, err
		}
		return byteValue(b), nil
	case typeUnsignedASCII:
		s, err := e.readASCII(offset, int64(count))
		if err != nil {
			return nil, err
		}
		return asciiValue(s), nil
	}

	if count != 1 {
		// Arrays of numbers are not used by any of the fields we resolve.
		return nil, nil
	}

	switch typ {
	case typeUnsignedShort:
		v, err := e.read2(offset)
		if err != nil {
			return nil, err
		}
		return shortValue(v), nil
	case typeUnsignedLong:
		v, err := e.read4(offset)
		if err != nil {
			return nil, err
		}
		return longValue(v), nil
	case typeUnsignedRat:
		v, err := e.readRational(offset)
		if err != nil {
			return nil, err
		}
		return rationalValue(v), nil
	case typeSignedRat:
		v, err := e.readSignedRational(offset)
		if err != nil {
			return nil, err
		}
		return signedRationalValue(v), nil
	default:
		return nil, nil
	}
}
