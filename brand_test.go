// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

package framemeta_test

import (
	"encoding/json"
	"testing"

	"github.com/bep/framemeta"

	qt "github.com/frankban/quicktest"
)

func TestClassifyBrand(t *testing.T) {
	c := qt.New(t)

	for _, test := range []struct {
		make  string
		brand framemeta.CameraBrand
	}{
		{"Canon", framemeta.BrandCanon},
		{"NIKON CORPORATION", framemeta.BrandNikon},
		{"SONY", framemeta.BrandSony},
		{"FUJIFILM", framemeta.BrandFujifilm},
		{"OLYMPUS IMAGING CORP.", framemeta.BrandOlympus},
		{"Panasonic", framemeta.BrandPanasonic},
		{"LEICA CAMERA AG", framemeta.BrandLeica},
		{"PENTAX Corporation", framemeta.BrandPentax},
		{"RICOH IMAGING COMPANY, LTD. PENTAX", framemeta.BrandPentax},
		{"Hasselblad", framemeta.BrandHasselblad},
		{"Phase One", framemeta.BrandPhaseOne},
		{"Apple", framemeta.BrandApple},
		{"samsung", framemeta.BrandSamsung},
		{"Google", framemeta.BrandGoogle},
		{"HUAWEI", framemeta.BrandHuawei},
		{"Xiaomi", framemeta.BrandXiaomi},
		{"OnePlus", framemeta.BrandOnePlus},
		{"GoPro", framemeta.BrandOther},
		{"", framemeta.BrandOther},
		{framemeta.Unknown, framemeta.BrandOther},
		// First match in declaration order wins.
		{"Sony Canon adapter", framemeta.BrandCanon},
	} {
		c.Assert(framemeta.ClassifyBrand(test.make), qt.Equals, test.brand, qt.Commentf("%q", test.make))
	}
}

func TestCameraBrandString(t *testing.T) {
	c := qt.New(t)

	c.Assert(framemeta.BrandOther.String(), qt.Equals, "Other")
	c.Assert(framemeta.BrandPhaseOne.String(), qt.Equals, "PhaseOne")
	c.Assert(framemeta.BrandOnePlus.String(), qt.Equals, "OnePlus")
	c.Assert(framemeta.CameraBrand(42).String(), qt.Equals, "CameraBrand(42)")
	c.Assert(framemeta.CameraBrand(-1).String(), qt.Equals, "CameraBrand(-1)")
}

func TestCameraBrandText(t *testing.T) {
	c := qt.New(t)

	b, err := json.Marshal(map[string]framemeta.CameraBrand{"brand": framemeta.BrandFujifilm})
	c.Assert(err, qt.IsNil)
	c.Assert(string(b), qt.Equals, `{"brand":"Fujifilm"}`)

	var m map[string]framemeta.CameraBrand
	c.Assert(json.Unmarshal(b, &m), qt.IsNil)
	c.Assert(m["brand"], qt.Equals, framemeta.BrandFujifilm)

	var brand framemeta.CameraBrand
	c.Assert(brand.UnmarshalText([]byte("Kodak")), qt.ErrorMatches, `unknown camera brand "Kodak"`)
}

func TestDisplayName(t *testing.T) {
	c := qt.New(t)

	for _, test := range []struct {
		make, model string
		expect      string
	}{
		{"Canon", "Canon EOS R5", "Canon EOS R5"},
		{"Canon", "EOS R5", "Canon EOS R5"},
		{"NIKON CORPORATION", "NIKON Z 6", "NIKON CORPORATION NIKON Z 6"},
		{"NIKON", "NIKON Z 6", "NIKON Z 6"},
		{"FUJIFILM", "X-T5", "FUJIFILM X-T5"},
		{"apple", "Apple iPhone 15", "Apple iPhone 15"},
		{framemeta.Unknown, "X100V", "X100V"},
		{"Sony", framemeta.Unknown, "Sony"},
		{framemeta.Unknown, framemeta.Unknown, "Unknown Camera"},
	} {
		got := framemeta.DisplayName(framemeta.CameraInfo{Make: test.make, Model: test.model})
		c.Assert(got, qt.Equals, test.expect)
	}
}
