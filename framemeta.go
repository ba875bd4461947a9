// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

// Package framemeta extracts the camera and exposure metadata shown in photo
// frames from the EXIF block of a JPEG.
package framemeta

import (
	"io"
	"time"
)

// MaxHeaderSize is the number of bytes read by ExtractFrom.
// EXIF lives in the first APP1 segment, which precedes the image scan data.
const MaxHeaderSize = 64 << 10

// Unknown is used for camera make and model when not set.
const Unknown = "Unknown"

const (
	defaultAperture     = "f/0"
	defaultShutterSpeed = "1/0s"
	defaultFocalLength  = "0mm"
)

// ExifData is the metadata extracted from an image.
// Every field has a default, see Extract.
type ExifData struct {
	Camera   CameraInfo     `json:"camera"`
	Settings CameraSettings `json:"settings"`

	// DateTime is the capture time in ISO-8601 format (UTC), e.g. "2023-07-04T10:15:30.000Z".
	// It is the extraction time if the image has no parseable date.
	DateTime string `json:"datetime"`

	// GPS is currently always nil.
	GPS *GPS `json:"gps,omitempty"`
}

// Brand returns the camera brand derived from the camera make.
func (d ExifData) Brand() CameraBrand {
	return ClassifyBrand(d.Camera.Make)
}

// DisplayName returns the camera name to show, see DisplayName.
func (d ExifData) DisplayName() string {
	return DisplayName(d.Camera)
}

// Time parses DateTime.
func (d ExifData) Time() (time.Time, error) {
	return time.Parse(dateTimeLayout, d.DateTime)
}

// CameraInfo holds the camera make and model.
type CameraInfo struct {
	Make  string `json:"make"`
	Model string `json:"model"`
}

// CameraSettings holds the exposure settings formatted for display.
type CameraSettings struct {
	// Aperture as f-number, e.g. "f/2.8". Defaults to "f/0".
	Aperture string `json:"aperture"`
	// ShutterSpeed, e.g. "1/250s" or "2.0s". Defaults to "1/0s".
	ShutterSpeed string `json:"shutterSpeed"`
	// ISO speed. Defaults to 0.
	ISO int `json:"iso"`
	// FocalLength, e.g. "35mm". Defaults to "0mm".
	FocalLength string `json:"focalLength"`
}

// GPS holds a position in decimal degrees.
type GPS struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Options contains the options for Extract and Decode.
// The zero value is ready to use.
type Options struct {
	// Warnf will be called for each recovered problem, e.g. a skipped tag.
	Warnf func(string, ...any)

	// Now returns the time used when the image has no parseable date.
	// Defaults to time.Now.
	Now func() time.Time

	// Location is used for EXIF date/time values, which carry no time zone.
	// Defaults to time.Local.
	Location *time.Location

	// LimitNumTags is the maximum number of entries to read from a directory.
	// Default value is 5000.
	LimitNumTags uint32

	// LimitTagSize is the maximum size in bytes of a tag value to read.
	// Tag values larger than this will be skipped.
	// Default value is 10000.
	LimitTagSize uint32

	// FollowExifIFD enables merging the Exif sub-IFD into the IFD0 tags.
	// Many cameras store the exposure settings there.
	// IFD0 values win on duplicates.
	FollowExifIFD bool

	// TIFFRelativeOffsets makes out-of-line value offsets and the Exif
	// IFD pointer relative to the TIFF header, as most cameras write them.
	// By default they are absolute positions in the input buffer.
	TIFFRelativeOffsets bool
}

func (opts Options) init() Options {
	const (
		defaultLimitNumTags = 5000
		defaultLimitTagSize = 10000
	)

	if opts.Warnf == nil {
		opts.Warnf = func(string, ...any) {}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.LimitNumTags == 0 {
		opts.LimitNumTags = defaultLimitNumTags
	}
	if opts.LimitTagSize == 0 {
		opts.LimitTagSize = defaultLimitTagSize
	}
	return opts
}

func newExifData(now time.Time) ExifData {
	return ExifData{
		Camera: CameraInfo{
			Make:  Unknown,
			Model: Unknown,
		},
		Settings: CameraSettings{
			Aperture:     defaultAperture,
			ShutterSpeed: defaultShutterSpeed,
			FocalLength:  defaultFocalLength,
		},
		DateTime: now.UTC().Format(dateTimeLayout),
	}
}

// Extract reads the EXIF metadata from b, the start of a JPEG file.
// It never fails: if b is not a JPEG or has no usable EXIF block,
// a record with all fields set to their defaults is returned.
// The reason is passed to Options.Warnf.
func Extract(b []byte, opts Options) ExifData {
	opts = opts.init()
	d, err := Decode(b, opts)
	if err != nil {
		opts.Warnf("framemeta: using defaults: %s", err)
	}
	return d
}

// ExtractFrom reads up to MaxHeaderSize bytes from r and calls Extract.
func ExtractFrom(r io.Reader, opts Options) ExifData {
	opts = opts.init()
	b, err := io.ReadAll(io.LimitReader(r, MaxHeaderSize))
	if err != nil {
		opts.Warnf("framemeta: read failed after %d bytes: %s", len(b), err)
	}
	return Extract(b, opts)
}

// Decode is like Extract but reports why the EXIF block could not be read.
// On error the returned ExifData has all fields set to their defaults.
// Problems with single tags are not errors; they are passed to Options.Warnf.
func Decode(b []byte, opts Options) (data ExifData, err error) {
	opts = opts.init()
	now := opts.Now()
	data = newExifData(now)

	defer func() {
		if err2 := errFromRecover(recover()); err2 != nil {
			data, err = newExifData(now), err2
		}
	}()

	seg, err := locateEXIF(b)
	if err != nil {
		return data, err
	}

	tags, err := decodeIFD0(seg, opts)
	if err != nil {
		return data, err
	}

	r := resolver{
		tags: tags,
		now:  now,
		opts: opts,
	}

	return r.resolve(), nil
}
