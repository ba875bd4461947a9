// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package framemeta

import "fmt"

const (
	tagMake              = 0x010f
	tagModel             = 0x0110
	tagDateTime          = 0x0132
	tagShutterSpeed      = 0x829a
	tagAperture          = 0x829d
	tagExifIFDPointer    = 0x8769
	tagISO               = 0x8827
	tagDateTimeOriginal  = 0x9003
	tagDateTimeDigitized = 0x9004
	tagFocalLength       = 0x920a
)

// Names of the tags we know about, used in warnings.
// Note that 0x829a and 0x829d are ExposureTime and FNumber in the EXIF standard;
// they are read here as shutter speed in seconds and APEX aperture.
var exifFields = map[uint16]string{
	tagMake:              "Make",
	tagModel:             "Model",
	tagDateTime:          "DateTime",
	tagShutterSpeed:      "ExposureTime",
	tagAperture:          "FNumber",
	tagExifIFDPointer:    "ExifOffset",
	tagISO:               "ISO",
	tagDateTimeOriginal:  "DateTimeOriginal",
	tagDateTimeDigitized: "DateTimeDigitized",
	tagFocalLength:       "FocalLength",
}

// UnknownPrefix is used as prefix for unknown tags in warnings.
const UnknownPrefix = "UnknownTag_"

func tagName(id uint16) string {
	if name, ok := exifFields[id]; ok {
		return name
	}
	return fmt.Sprintf("%s0x%x", UnknownPrefix, id)
}
