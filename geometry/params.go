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

package geometry

import "seehuhn.de/go/raincurve/internal/num"

// Params holds the tunables of the geometry builder.
type Params struct {
	// Base strength of wet samples, as a function of confidence c:
	// floor + (1-floor)·(1 - smoothstep(thr-tr, thr+tr, c))^exponent.
	ConfidenceThreshold  float64 `yaml:"confidence_threshold"`
	ConfidenceTransition float64 `yaml:"confidence_transition"`
	ConfidenceExponent   float64 `yaml:"confidence_exponent"`
	StrengthFloor        float64 `yaml:"strength_floor"`

	// LowHeightBoost is added at zero height and fades out at
	// LowHeightFraction of the maximum height.
	LowHeightBoost    float64 `yaml:"low_height_boost"`
	LowHeightFraction float64 `yaml:"low_height_fraction"`

	// SlopeBoost is added where |dh/dx| reaches SlopeScale.
	SlopeBoost float64 `yaml:"slope_boost"`
	SlopeScale float64 `yaml:"slope_scale"`

	// Dry tail: within TailMinutes of the nearest wet sample, dry samples
	// get max(TailMin, s·(1-smoothstep(t))^TailExponent).
	TailMinutes  float64 `yaml:"tail_minutes"`
	TailMin      float64 `yaml:"tail_min"`
	TailExponent float64 `yaml:"tail_exponent"`

	// InsetMax is the inward offset in pixels of the top edge at strength 1.
	InsetMax float64 `yaml:"inset_max"`

	// Erosion bands.
	ErosionBins  int     `yaml:"erosion_bins"`
	ErosionWidth float64 `yaml:"erosion_width"` // pixels at strength 1
}

// DefaultParams returns the parameters used by the interactive profile.
func DefaultParams() Params {
	return Params{
		ConfidenceThreshold:  0.62,
		ConfidenceTransition: 0.30,
		ConfidenceExponent:   1.20,
		StrengthFloor:        0.10,

		LowHeightBoost:    0.35,
		LowHeightFraction: 0.18,

		SlopeBoost: 0.25,
		SlopeScale: 1.5,

		TailMinutes:  6,
		TailMin:      0.03,
		TailExponent: 0.75,

		InsetMax: 2.5,

		ErosionBins:  4,
		ErosionWidth: 7,
	}
}

// Sanitize clamps all parameters into their valid ranges.
func (p *Params) Sanitize() {
	p.ConfidenceThreshold = num.Clamp01(num.Finite(p.ConfidenceThreshold))
	p.ConfidenceTransition = num.Clamp(num.Finite(p.ConfidenceTransition), 0, 1)
	p.ConfidenceExponent = num.Clamp(num.Finite(p.ConfidenceExponent), 0.05, 8)
	p.StrengthFloor = num.Clamp01(num.Finite(p.StrengthFloor))
	p.LowHeightBoost = num.Clamp01(num.Finite(p.LowHeightBoost))
	p.LowHeightFraction = num.Clamp01(num.Finite(p.LowHeightFraction))
	p.SlopeBoost = num.Clamp01(num.Finite(p.SlopeBoost))
	p.SlopeScale = num.Clamp(num.Finite(p.SlopeScale), 0.01, 100)
	p.TailMinutes = num.Clamp(num.Finite(p.TailMinutes), 0, 60)
	p.TailMin = num.Clamp01(num.Finite(p.TailMin))
	p.TailExponent = num.Clamp(num.Finite(p.TailExponent), 0.05, 8)
	p.InsetMax = num.Clamp(num.Finite(p.InsetMax), 0, 64)
	p.ErosionBins = min(max(p.ErosionBins, 1), 8)
	p.ErosionWidth = num.Clamp(num.Finite(p.ErosionWidth), 0, 64)
}
