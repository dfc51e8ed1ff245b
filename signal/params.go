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

package signal

import "seehuhn.de/go/raincurve/internal/num"

// Params holds the tunables of the signal pipeline.
type Params struct {
	// ReferenceMax is the intensity that maps to full height. If it is not
	// positive, the RobustPercentile of the positive samples is used, and
	// failing that the observed maximum.
	ReferenceMax     float64 `yaml:"reference_max"`
	RobustPercentile float64 `yaml:"robust_percentile"`

	// Gamma shapes normalised intensity; clamped to [0.10, 2.50].
	Gamma float64 `yaml:"gamma"`

	// HeightScale and MaxHeight are fractions of the plot height.
	HeightScale float64 `yaml:"height_scale"`
	MaxHeight   float64 `yaml:"max_height"`

	// Confidence weight: ConfidenceBase + ConfidenceSpan·c^ConfidenceExponent.
	ConfidenceBase     float64 `yaml:"confidence_base"`
	ConfidenceSpan     float64 `yaml:"confidence_span"`
	ConfidenceExponent float64 `yaml:"confidence_exponent"`

	// Resampling: SamplesPerPixel device pixels per sample, bounded below
	// by 12 and above by MaxSamples.
	SamplesPerPixel float64 `yaml:"samples_per_pixel"`
	MaxSamples      int     `yaml:"max_samples"`

	SmoothRadius int `yaml:"smooth_radius"`
	SmoothPasses int `yaml:"smooth_passes"`

	EdgeFraction float64 `yaml:"edge_fraction"`
	EdgePower    float64 `yaml:"edge_power"`

	// WetEaseSamples is the ramp length at dry/wet transitions.
	WetEaseSamples int     `yaml:"wet_ease_samples"`
	WetEasePower   float64 `yaml:"wet_ease_power"`

	// Flat plateau relief.
	ReliefMinRun     int     `yaml:"relief_min_run"`
	ReliefFlatRange  float64 `yaml:"relief_flat_range"`  // global range / run max
	ReliefCoreRange  float64 `yaml:"relief_core_range"`  // upper-quarter range / run max
	ReliefAmplitude  float64 `yaml:"relief_amplitude"`   // fraction of run max, at most 0.16
	ReliefFrequency  float64 `yaml:"relief_frequency"`   // lattice cells per minute, first band
	ReliefFrequency2 float64 `yaml:"relief_frequency_2"` // second band
	ReliefMix        float64 `yaml:"relief_mix"`         // weight of the first band
	ReliefTaper      int     `yaml:"relief_taper"`       // samples over which relief fades in at run ends
}

// Hard limits of the pipeline.
const (
	MinSamples = 12

	minGamma = 0.10
	maxGamma = 2.50

	// maxRelief bounds the plateau relief as a fraction of the run maximum.
	maxRelief = 0.16
)

// DefaultParams returns the parameters used by the interactive profile.
func DefaultParams() Params {
	return Params{
		RobustPercentile: 0.92,
		Gamma:            0.72,

		HeightScale: 0.86,
		MaxHeight:   0.94,

		ConfidenceBase:     0.35,
		ConfidenceSpan:     0.65,
		ConfidenceExponent: 0.70,

		SamplesPerPixel: 0.5,
		MaxSamples:      240,

		SmoothRadius: 2,
		SmoothPasses: 1,

		EdgeFraction: 0.06,
		EdgePower:    1.6,

		WetEaseSamples: 4,
		WetEasePower:   1.35,

		ReliefMinRun:     14,
		ReliefFlatRange:  0.08,
		ReliefCoreRange:  0.04,
		ReliefAmplitude:  0.10,
		ReliefFrequency:  0.18,
		ReliefFrequency2: 0.47,
		ReliefMix:        0.65,
		ReliefTaper:      6,
	}
}

// Sanitize clamps all parameters into their valid ranges.
func (p *Params) Sanitize() {
	p.ReferenceMax = max(num.Finite(p.ReferenceMax), 0)
	p.RobustPercentile = num.Clamp(num.Finite(p.RobustPercentile), 0, 1)
	p.Gamma = num.Clamp(num.Finite(p.Gamma), minGamma, maxGamma)
	p.HeightScale = num.Clamp(num.Finite(p.HeightScale), 0, 1)
	p.MaxHeight = num.Clamp(num.Finite(p.MaxHeight), 0, 1)
	p.ConfidenceBase = num.Clamp(num.Finite(p.ConfidenceBase), 0, 1)
	p.ConfidenceSpan = num.Clamp(num.Finite(p.ConfidenceSpan), 0, 1-p.ConfidenceBase)
	p.ConfidenceExponent = num.Clamp(num.Finite(p.ConfidenceExponent), 0.05, 8)
	p.SamplesPerPixel = num.Clamp(num.Finite(p.SamplesPerPixel), 0.01, 4)
	p.MaxSamples = max(p.MaxSamples, MinSamples)
	p.SmoothRadius = min(max(p.SmoothRadius, 0), 16)
	p.SmoothPasses = min(max(p.SmoothPasses, 0), 8)
	p.EdgeFraction = num.Clamp(num.Finite(p.EdgeFraction), 0, 0.5)
	p.EdgePower = num.Clamp(num.Finite(p.EdgePower), 0.1, 8)
	p.WetEaseSamples = min(max(p.WetEaseSamples, 0), 64)
	p.WetEasePower = num.Clamp(num.Finite(p.WetEasePower), 0.1, 8)
	p.ReliefMinRun = max(p.ReliefMinRun, 2)
	p.ReliefFlatRange = num.Clamp(num.Finite(p.ReliefFlatRange), 0, 1)
	p.ReliefCoreRange = num.Clamp(num.Finite(p.ReliefCoreRange), 0, 1)
	p.ReliefAmplitude = num.Clamp(num.Finite(p.ReliefAmplitude), 0, maxRelief)
	p.ReliefFrequency = num.Clamp(num.Finite(p.ReliefFrequency), 0, 4)
	p.ReliefFrequency2 = num.Clamp(num.Finite(p.ReliefFrequency2), 0, 4)
	p.ReliefMix = num.Clamp(num.Finite(p.ReliefMix), 0, 1)
	p.ReliefTaper = max(p.ReliefTaper, 0)
}
