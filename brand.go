// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package framemeta

import (
	"fmt"
	"strings"
)

// CameraBrand is a known camera manufacturer.
type CameraBrand int

const (
	// BrandOther is used when the make matches no known brand.
	BrandOther CameraBrand = iota
	BrandCanon
	BrandNikon
	BrandSony
	BrandFujifilm
	BrandOlympus
	BrandPanasonic
	BrandLeica
	BrandPentax
	BrandHasselblad
	BrandPhaseOne
	BrandApple
	BrandSamsung
	BrandGoogle
	BrandHuawei
	BrandXiaomi
	BrandOnePlus
)

var brandNames = [...]string{
	BrandOther:      "Other",
	BrandCanon:      "Canon",
	BrandNikon:      "Nikon",
	BrandSony:       "Sony",
	BrandFujifilm:   "Fujifilm",
	BrandOlympus:    "Olympus",
	BrandPanasonic:  "Panasonic",
	BrandLeica:      "Leica",
	BrandPentax:     "Pentax",
	BrandHasselblad: "Hasselblad",
	BrandPhaseOne:   "PhaseOne",
	BrandApple:      "Apple",
	BrandSamsung:    "Samsung",
	BrandGoogle:     "Google",
	BrandHuawei:     "Huawei",
	BrandXiaomi:     "Xiaomi",
	BrandOnePlus:    "OnePlus",
}

// Matched in order against the lower cased make.
var brandKeywords = [...]struct {
	keyword string
	brand   CameraBrand
}{
	{"canon", BrandCanon},
	{"nikon", BrandNikon},
	{"sony", BrandSony},
	{"fujifilm", BrandFujifilm},
	{"olympus", BrandOlympus},
	{"panasonic", BrandPanasonic},
	{"leica", BrandLeica},
	{"pentax", BrandPentax},
	{"hasselblad", BrandHasselblad},
	{"phase one", BrandPhaseOne},
	{"apple", BrandApple},
	{"samsung", BrandSamsung},
	{"google", BrandGoogle},
	{"huawei", BrandHuawei},
	{"xiaomi", BrandXiaomi},
	{"oneplus", BrandOnePlus},
}

func (b CameraBrand) String() string {
	if b < 0 || int(b) >= len(brandNames) {
		return fmt.Sprintf("CameraBrand(%d)", int(b))
	}
	return brandNames[b]
}

func (b CameraBrand) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *CameraBrand) UnmarshalText(text []byte) error {
	s := string(text)
	for i, name := range brandNames {
		if name == s {
			*b = CameraBrand(i)
			return nil
		}
	}
	return fmt.Errorf("unknown camera brand %q", s)
}

// ClassifyBrand returns the brand whose keyword is contained in cameraMake,
// ignoring case, or BrandOther.
func ClassifyBrand(cameraMake string) CameraBrand {
	makeLower := strings.ToLower(cameraMake)
	for _, k := range brandKeywords {
		if strings.Contains(makeLower, k.keyword) {
			return k.brand
		}
	}
	return BrandOther
}

// DisplayName returns the camera name to show in a frame, e.g. "Canon EOS R5".
// The make is dropped if the model already contains it.
func DisplayName(c CameraInfo) string {
	makeUnknown, modelUnknown := c.Make == Unknown, c.Model == Unknown
	switch {
	case makeUnknown && modelUnknown:
		return "Unknown Camera"
	case makeUnknown:
		return c.Model
	case modelUnknown:
		return c.Make
	}
	if strings.Contains(strings.ToLower(c.Model), strings.ToLower(c.Make)) {
		return c.Model
	}
	return c.Make + " " + c.Model
}
