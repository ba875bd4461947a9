// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package framemeta

import (
	"fmt"
	"regexp"
	"time"
)

// The layout used for ExifData.DateTime.
const dateTimeLayout = "2006-01-02T15:04:05.000Z"

// EXIF writes dates as "YYYY:MM:DD HH:MM:SS".
var exifDateRe = regexp.MustCompile(`^(\d{4}):(\d{2}):(\d{2})`)

// Layouts tried, in order, after the date separators have been rewritten.
// Layouts with a zone are parsed as is, the others in Options.Location.
var dateTimeLayouts = []struct {
	layout  string
	hasZone bool
}{
	{"2006-01-02 15:04:05", false},
	{"2006-01-02T15:04:05", false},
	{"2006-01-02 15:04:05Z07:00", true},
	{"2006-01-02T15:04:05Z07:00", true},
	{"2006-01-02 15:04", false},
	{"2006-01-02", false},
}

// resolver converts the raw tags of IFD0 into ExifData.
type resolver struct {
	tags tagTable
	now  time.Time
	opts Options
}

func (r resolver) resolve() ExifData {
	d := newExifData(r.now)

	if s, ok := r.string(tagMake); ok {
		d.Camera.Make = s
	}
	if s, ok := r.string(tagModel); ok {
		d.Camera.Model = s
	}
	if f, ok := r.float(tagAperture); ok {
		d.Settings.Aperture = converters.formatAperture(f)
	}
	if f, ok := r.float(tagShutterSpeed); ok {
		d.Settings.ShutterSpeed = converters.formatShutterSpeed(f)
	}
	if f, ok := r.float(tagISO); ok && !converters.isUndefined(f) && f > 0 {
		d.Settings.ISO = int(f)
	}
	if f, ok := r.float(tagFocalLength); ok && f != 0 {
		d.Settings.FocalLength = converters.formatFocalLength(f)
	}

	if tm, ok := r.dateTime(); ok {
		d.DateTime = tm.UTC().Format(dateTimeLayout)
	}

	return d
}

// dateTime returns the first parseable of DateTimeOriginal, DateTime and DateTimeDigitized.
// Only the first one present is tried.
func (r resolver) dateTime() (time.Time, bool) {
	for _, id := range []uint16{tagDateTimeOriginal, tagDateTime, tagDateTimeDigitized} {
		s, ok := r.string(id)
		if !ok || s == "" {
			continue
		}
		tm, err := parseDateTime(s, r.opts.Location)
		if err != nil {
			r.opts.Warnf("framemeta: %s: %s", tagName(id), err)
			return time.Time{}, false
		}
		return tm, true
	}
	return time.Time{}, false
}

func (r resolver) string(id uint16) (string, bool) {
	v, found := r.tags[id]
	if !found {
		return "", false
	}
	s, ok := toString(v)
	if !ok {
		r.opts.Warnf("framemeta: %s: expected ASCII, got %T", tagName(id), v)
		return "", false
	}
	if s == "" {
		return "", false
	}
	return s, true
}

func (r resolver) float(id uint16) (float64, bool) {
	v, found := r.tags[id]
	if !found {
		return 0, false
	}
	f, ok := toFloat64(v)
	if !ok {
		r.opts.Warnf("framemeta: %s: expected a number, got %T", tagName(id), v)
		return 0, false
	}
	return f, true
}

// parseDateTime parses an EXIF date/time string.
// The date separators are rewritten to hyphens before parsing.
func parseDateTime(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s = exifDateRe.ReplaceAllString(printableString(s), "$1-$2-$3")

	for _, l := range dateTimeLayouts {
		var (
			tm  time.Time
			err error
		)
		if l.hasZone {
			tm, err = time.Parse(l.layout, s)
		} else {
			tm, err = time.ParseInLocation(l.layout, s, loc)
		}
		if err == nil {
			return tm, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDateTime, s)
}
