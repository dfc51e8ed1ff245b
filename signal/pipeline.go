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

// Package signal turns a raw per-minute (intensity, confidence) series into
// a dense, smoothed height curve in device pixels.
//
// The stages run in a fixed order: reconciliation, normalisation and gamma
// shaping, confidence weighting, monotone cubic resampling, smoothing, edge
// easing, wet segment easing and flat plateau relief. Every stage is a pure
// function of its inputs.
package signal

import (
	"math"
	"slices"

	"seehuhn.de/go/raincurve/internal/num"
	"seehuhn.de/go/raincurve/noise"
)

// Frame describes the plot area in device pixels.
type Frame struct {
	Width  float64
	Height float64
}

// Curve is the dense output of the pipeline.
type Curve struct {
	Heights     []float32 // pixel offsets above the baseline
	Confidences []float32 // in [0, 1]

	// MaxHeight is the largest allowed height in pixels.
	MaxHeight float32

	// WetThreshold is the height above which a sample counts as wet.
	WetThreshold float32

	// Minutes is the length of the reconciled input series, and
	// SamplesPerMinute converts minute distances to sample distances.
	Minutes          int
	SamplesPerMinute float64

	// Relief reports whether flat plateau relief was added.
	Relief bool
}

// Len returns the number of dense samples.
func (c *Curve) Len() int {
	return min(len(c.Heights), len(c.Confidences))
}

// The wet threshold is one device pixel.
const wetThreshold = 1.0

// Process runs the full pipeline.
// An empty intensity series gives an empty curve.
func Process(intensity, confidence []float64, frame Frame, p Params, seed uint64) Curve {
	p.Sanitize()
	in, conf := Reconcile(intensity, confidence)
	if len(in) == 0 {
		return Curve{WetThreshold: wetThreshold}
	}

	plotH := max(num.Finite(frame.Height), 0)
	maxH := p.MaxHeight * plotH
	scale := p.HeightScale * plotH

	norm := Normalize(in, p.ReferenceMax, p.RobustPercentile, p.Gamma)
	heights := make([]float64, len(in))
	for i, v := range norm {
		w := p.ConfidenceBase + p.ConfidenceSpan*num.Pow(conf[i], p.ConfidenceExponent)
		heights[i] = num.Clamp(v*scale*w, 0, maxH)
	}

	n := TargetSamples(frame.Width, p.SamplesPerPixel, p.MaxSamples)
	h := Resample(heights, n)
	c := Resample(conf, n)

	for range p.SmoothPasses {
		h = Smooth(h, p.SmoothRadius)
		c = Smooth(c, p.SmoothRadius)
	}

	EaseEdges(h, p.EdgeFraction, p.EdgePower)
	EaseWetSegments(h, wetThreshold, p.WetEaseSamples, EdgeSpan(n, p.EdgeFraction), p.WetEasePower)

	spm := 1.0
	if len(in) > 1 {
		spm = float64(n-1) / float64(len(in)-1)
	}
	relief := Relief(h, wetThreshold, maxH, spm, p, noise.Mix(seed, noise.SaltRelief))

	out := Curve{
		Heights:          make([]float32, n),
		Confidences:      make([]float32, n),
		MaxHeight:        float32(maxH),
		WetThreshold:     wetThreshold,
		Minutes:          len(in),
		SamplesPerMinute: spm,
		Relief:           relief,
	}
	for i := range n {
		out.Heights[i] = float32(num.Clamp(h[i], 0, maxH))
		out.Confidences[i] = float32(num.Clamp01(c[i]))
	}
	return out
}

// Reconcile sanitises the raw series and brings the confidences to the
// length of the intensities. Missing confidences repeat the last given
// value, or 1 if none is given; extra confidences are dropped. Non-finite
// and negative intensities become 0, confidences are clamped to [0, 1].
func Reconcile(intensity, confidence []float64) (in, conf []float64) {
	n := len(intensity)
	in = make([]float64, n)
	conf = make([]float64, n)
	last := 1.0
	for i := range n {
		in[i] = max(num.Finite(intensity[i]), 0)
		if i < len(confidence) {
			last = num.Clamp01(num.Finite(confidence[i]))
		}
		conf[i] = last
	}
	return in, conf
}

// Normalize divides by the reference maximum and applies gamma shaping.
// The reference is ref if positive, else the given percentile of the
// positive samples, else their maximum. An all-dry series maps to zeros.
func Normalize(xs []float64, ref, percentile, gamma float64) []float64 {
	out := make([]float64, len(xs))
	if !(ref > 0) {
		ref = robustMax(xs, percentile)
	}
	if !(ref > 0) {
		return out
	}
	gamma = num.Clamp(gamma, minGamma, maxGamma)
	for i, x := range xs {
		out[i] = num.Pow(max(num.Finite(x), 0)/ref, gamma)
	}
	return out
}

func robustMax(xs []float64, percentile float64) float64 {
	var pos []float64
	for _, x := range xs {
		if x > 0 && !math.IsInf(x, 0) {
			pos = append(pos, x)
		}
	}
	if len(pos) == 0 {
		return 0
	}
	slices.Sort(pos)
	pos0 := num.Clamp01(percentile) * float64(len(pos)-1)
	i := int(pos0)
	v := pos[i]
	if i+1 < len(pos) {
		v = num.Lerp(v, pos[i+1], pos0-float64(i))
	}
	if v > 0 {
		return v
	}
	return pos[len(pos)-1]
}

// TargetSamples returns the dense sample count for a plot of the given
// width in device pixels.
func TargetSamples(widthPx, perPixel float64, maxSamples int) int {
	n := int(math.Round(max(num.Finite(widthPx), 0) * max(num.Finite(perPixel), 0)))
	return min(max(n, MinSamples), max(maxSamples, MinSamples))
}
