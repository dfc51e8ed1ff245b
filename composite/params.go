// seehuhn.de/go/raincurve - procedural precipitation rendering
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package composite

import (
	"seehuhn.de/go/raincurve/internal/num"
	"seehuhn.de/go/raincurve/surface"
)

// Shape describes how the per-sample alpha of a pass is derived:
//
//	Alpha · taper · i^Intensity · c^Confidence · (1-c)^Uncertainty · s^Strength
//
// where i is the height as a fraction of the maximum, c the confidence,
// s the dissipation strength and taper the wetness taper. An exponent of
// 0 disables its term.
type Shape struct {
	Alpha       float64 `yaml:"alpha"`
	Intensity   float64 `yaml:"intensity"`
	Confidence  float64 `yaml:"confidence"`
	Uncertainty float64 `yaml:"uncertainty"`
	Strength    float64 `yaml:"strength"`

	// Tail lets dry samples inherit their tail strength in place of the
	// wetness taper.
	Tail bool `yaml:"tail"`
}

func (s *Shape) sanitize() {
	s.Alpha = num.Clamp01(num.Finite(s.Alpha))
	s.Intensity = num.Clamp(num.Finite(s.Intensity), 0, 8)
	s.Confidence = num.Clamp(num.Finite(s.Confidence), 0, 8)
	s.Uncertainty = num.Clamp(num.Finite(s.Uncertainty), 0, 8)
	s.Strength = num.Clamp(num.Finite(s.Strength), 0, 8)
}

// Params holds the tunables of the deterministic passes. Lengths are in
// points and are multiplied by the device scale.
type Params struct {
	// Taper is the height above the wet threshold over which effects fade
	// in.
	Taper float64 `yaml:"taper"`

	BaselineWidth float64 `yaml:"baseline_width"`
	BaselineAlpha float64 `yaml:"baseline_alpha"`

	Core Shape `yaml:"core"`

	// UseInset draws the core with the inset top edge.
	UseInset     bool    `yaml:"use_inset"`
	ErosionAlpha float64 `yaml:"erosion_alpha"` // at erosion strength 1
	ErosionBlur  float64 `yaml:"erosion_blur"`

	CrestEnabled bool    `yaml:"crest_enabled"`
	Crest        Shape   `yaml:"crest"`
	CrestWidth   float64 `yaml:"crest_width"`
	CrestBlur    float64 `yaml:"crest_blur"`

	Bloom       Shape   `yaml:"bloom"`
	BloomWidth  float64 `yaml:"bloom_width"`
	BloomBlur   float64 `yaml:"bloom_blur"`
	BloomExtent float64 `yaml:"bloom_extent"` // height of the band above the crest

	Ridge      Shape   `yaml:"ridge"`
	RidgeWidth float64 `yaml:"ridge_width"`
	RidgeBlur  float64 `yaml:"ridge_blur"`

	Glint        Shape   `yaml:"glint"`
	GlintWidth   float64 `yaml:"glint_width"`
	GlintBlur    float64 `yaml:"glint_blur"`
	GlintSpread  float64 `yaml:"glint_spread"`       // standard deviation along x
	GlintMinFrac float64 `yaml:"glint_min_fraction"` // of the run maximum

	Shell          Shape   `yaml:"shell"`
	ShellWidth     float64 `yaml:"shell_width"`
	ShellBlur      float64 `yaml:"shell_blur"`
	ShellOuter     Shape   `yaml:"shell_outer"` // diffusion blobs outside the edge
	ShellOuterBlur float64 `yaml:"shell_outer_blur"`

	Mist        Shape   `yaml:"mist"`
	MistBands   int     `yaml:"mist_bands"`
	MistSpacing float64 `yaml:"mist_spacing"`
	MistFade    float64 `yaml:"mist_fade"` // exponent of the upward fade
	MistBlur    float64 `yaml:"mist_blur"`
	MistTexture bool    `yaml:"mist_texture"`
}

// DefaultParams returns the parameters of the interactive application.
func DefaultParams() Params {
	return Params{
		Taper: 6,

		BaselineWidth: 1,
		BaselineAlpha: 0.45,

		Core:         Shape{Alpha: 1, Intensity: 0.25, Confidence: 0.35},
		UseInset:     true,
		ErosionAlpha: 0.55,
		ErosionBlur:  1.2,

		CrestEnabled: true,
		Crest:        Shape{Alpha: 0.35, Intensity: 0.8, Confidence: 0.5},
		CrestWidth:   10,
		CrestBlur:    4,

		Bloom:       Shape{Alpha: 0.28, Intensity: 0.5, Uncertainty: 0.9, Strength: 0.6},
		BloomWidth:  14,
		BloomBlur:   9,
		BloomExtent: 26,

		Ridge:      Shape{Alpha: 0.55, Intensity: 0.6, Confidence: 1.1},
		RidgeWidth: 1.6,
		RidgeBlur:  0.9,

		Glint:        Shape{Alpha: 0.7, Intensity: 0.5, Confidence: 1.4},
		GlintWidth:   2.2,
		GlintBlur:    1.4,
		GlintSpread:  18,
		GlintMinFrac: 0.35,

		Shell:          Shape{Alpha: 0.4, Uncertainty: 0.8, Strength: 0.7},
		ShellWidth:     5,
		ShellBlur:      2,
		ShellOuter:     Shape{Alpha: 1, Strength: 0.5, Tail: true},
		ShellOuterBlur: 0.8,

		Mist:        Shape{Alpha: 0.22, Uncertainty: 1.2, Strength: 0.8, Tail: true},
		MistBands:   4,
		MistSpacing: 4,
		MistFade:    1.6,
		MistBlur:    3,
		MistTexture: true,
	}
}

// Sanitize clamps all parameters into their valid ranges.
func (p *Params) Sanitize() {
	for _, s := range []*Shape{&p.Core, &p.Crest, &p.Bloom, &p.Ridge, &p.Glint, &p.Shell, &p.ShellOuter, &p.Mist} {
		s.sanitize()
	}
	length := func(x *float64, hi float64) {
		*x = num.Clamp(num.Finite(*x), 0, hi)
	}
	length(&p.Taper, 64)
	length(&p.BaselineWidth, 16)
	length(&p.ErosionBlur, 32)
	length(&p.CrestWidth, 64)
	length(&p.CrestBlur, 32)
	length(&p.BloomWidth, 64)
	length(&p.BloomBlur, 64)
	length(&p.BloomExtent, 256)
	length(&p.RidgeWidth, 16)
	length(&p.RidgeBlur, 16)
	length(&p.GlintWidth, 16)
	length(&p.GlintBlur, 16)
	length(&p.GlintSpread, 512)
	length(&p.ShellWidth, 32)
	length(&p.ShellBlur, 32)
	length(&p.ShellOuterBlur, 16)
	length(&p.MistSpacing, 32)
	length(&p.MistBlur, 32)
	p.BaselineAlpha = num.Clamp01(num.Finite(p.BaselineAlpha))
	p.ErosionAlpha = num.Clamp01(num.Finite(p.ErosionAlpha))
	p.GlintMinFrac = num.Clamp01(num.Finite(p.GlintMinFrac))
	p.MistBands = min(max(p.MistBands, 0), 12)
	p.MistFade = num.Clamp(num.Finite(p.MistFade), 0, 8)
}

// Palette holds the colours of all layers.
type Palette struct {
	Baseline surface.Color `yaml:"baseline"`
	Core     surface.Color `yaml:"core"`
	Crest    surface.Color `yaml:"crest"`
	Bloom    surface.Color `yaml:"bloom"`
	Ridge    surface.Color `yaml:"ridge"`
	Glint    surface.Color `yaml:"glint"`
	Shell    surface.Color `yaml:"shell"`
	Mist     surface.Color `yaml:"mist"`
	Particle surface.Color `yaml:"particle"` // speckles, macro grains, diffusion blobs
	Haze     surface.Color `yaml:"haze"`
}

// DefaultPalette returns the blue palette of the application.
func DefaultPalette() Palette {
	return Palette{
		Baseline: surface.RGB8(0x8a, 0x94, 0xa6),
		Core:     surface.RGB8(0x2f, 0x6f, 0xd6),
		Crest:    surface.RGB8(0x6d, 0xa2, 0xf0),
		Bloom:    surface.RGB8(0x4d, 0x8c, 0xe8),
		Ridge:    surface.RGB8(0xc9, 0xdf, 0xff),
		Glint:    surface.RGB8(0xff, 0xff, 0xff),
		Shell:    surface.RGB8(0x1e, 0x4f, 0xa8),
		Mist:     surface.RGB8(0x9c, 0xc1, 0xf5),
		Particle: surface.RGB8(0x35, 0x78, 0xdd),
		Haze:     surface.RGB8(0xb4, 0xcf, 0xf7),
	}
}
