// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package framemeta

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// maxShutterDenominator caps the denominator of fractional shutter speeds.
// Exposure times shorter than 1/100000s are displayed as 1/100000s.
const maxShutterDenominator = 100000

type vc struct{}

var converters = vc{}

func (vc) isUndefined(f float64) bool {
	return math.IsNaN(f) || math.IsInf(f, 0)
}

func (vc) convertAPEXToFNumber(v float64) float64 {
	return math.Pow(2, v/2)
}

// formatAperture formats an APEX aperture value as an f-number, e.g. "f/2.8".
func (c vc) formatAperture(v float64) string {
	if v <= 0 || c.isUndefined(v) {
		return defaultAperture
	}
	return fmt.Sprintf("f/%.1f", c.convertAPEXToFNumber(v))
}

// formatShutterSpeed formats an exposure time in seconds, e.g. "1/250s" or "2.5s".
func (c vc) formatShutterSpeed(v float64) string {
	if v <= 0 || c.isUndefined(v) {
		return defaultShutterSpeed
	}
	if v >= 1 {
		return fmt.Sprintf("%.1fs", v)
	}
	den := math.Round(1 / v)
	if den > maxShutterDenominator {
		den = maxShutterDenominator
	}
	return fmt.Sprintf("1/%ds", int64(den))
}

// formatFocalLength formats a focal length in millimeters, e.g. "35mm".
func (c vc) formatFocalLength(v float64) string {
	if c.isUndefined(v) {
		return defaultFocalLength
	}
	return fmt.Sprintf("%dmm", int64(math.Round(v)))
}

func printableString(s string) string {
	ss := strings.Map(func(r rune) rune {
		if unicode.IsGraphic(r) {
			return r
		}
		return -1
	}, s)

	return strings.TrimSpace(ss)
}

// toFloat64 returns the numeric value of v.
func toFloat64(v tagValue) (float64, bool) {
	switch vv := v.(type) {
	case shortValue:
		return float64(vv), true
	case longValue:
		return float64(vv), true
	case rationalValue:
		return float64(vv), true
	case signedRationalValue:
		return float64(vv), true
	default:
		return 0, false
	}
}

// toString returns the string value of v as read, without the NUL terminator.
func toString(v tagValue) (string, bool) {
	s, ok := v.(asciiValue)
	if !ok {
		return "", false
	}
	return string(s), true
}
