// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package framemeta

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAJPEG is returned when the buffer does not start with the JPEG SOI marker.
	ErrNotAJPEG = errors.New("framemeta: not a JPEG")

	// ErrInvalidTIFFHeader is returned when the byte order marker or the TIFF magic number
	// following the Exif header is wrong.
	ErrInvalidTIFFHeader = errors.New("framemeta: invalid TIFF header")

	// ErrEXIFNotFound is returned when no APP1 segment with an Exif payload was found.
	ErrEXIFNotFound = errors.New("framemeta: EXIF not found")

	// ErrOutOfBounds is returned when a read would go past the end of the buffer.
	ErrOutOfBounds = errors.New("framemeta: read out of bounds")

	// ErrUnexpectedEndOfStream is returned when a JPEG segment length could not be read.
	ErrUnexpectedEndOfStream = errors.New("framemeta: unexpected end of stream")

	// ErrUnparseableDateTime is returned when an EXIF date/time value could not be parsed.
	ErrUnparseableDateTime = errors.New("framemeta: unparseable date/time")
)

var formatErrors = []error{
	ErrNotAJPEG,
	ErrInvalidTIFFHeader,
	ErrEXIFNotFound,
	ErrOutOfBounds,
	ErrUnexpectedEndOfStream,
}

// IsInvalidFormat reports whether err signals a missing or malformed EXIF block.
func IsInvalidFormat(err error) bool {
	if err == nil {
		return false
	}
	for _, e := range formatErrors {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

func newOutOfBoundsError(offset, length int64, size int) error {
	return fmt.Errorf("%w: %d bytes at offset %d, buffer length %d", ErrOutOfBounds, length, offset, size)
}

// errFromRecover converts a recovered panic value to an error.
func errFromRecover(r any) error {
	if r == nil {
		return nil
	}
	if err, ok := r.(error); ok {
		return fmt.Errorf("framemeta: recovered: %w", err)
	}
	return fmt.Errorf("framemeta: unknown panic: %v", r)
}
