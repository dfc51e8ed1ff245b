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

// Package dissipation implements the stochastic edge layer: speckles,
// macro grains, diffusion blobs, erosion and haze.
//
// Particles are placed by weighted sampling over the silhouette segments,
// using a separate seeded stream per effect. Emitted particles are grouped
// into a few opacity bins per effect, so that drawing an effect costs one
// fill per bin regardless of the particle count.
package dissipation

import (
	"fmt"
	"math"

	"seehuhn.de/go/raincurve/geometry"
	"seehuhn.de/go/raincurve/internal/num"
)

// Stage is the state of a Renderer.
type Stage int

// A Renderer moves through these stages in order, once.
const (
	StageIdle Stage = iota
	StageBudget
	StageEmit
	StageComposite
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageBudget:
		return "budget"
	case StageEmit:
		return "emit"
	case StageComposite:
		return "composite"
	default:
		return fmt.Sprintf("Stage(%d)", int(s))
	}
}

// Budget holds the particle counts granted to each effect.
type Budget struct {
	Speckle   int
	Macro     int
	Diffusion int
	Erosion   int
	Haze      int

	// StrengthScale is the factor applied to all base counts, in
	// [MinStrengthScale, 1], or 0 if there is nothing to place.
	StrengthScale float64
}

// Total returns the sum of all counts.
func (b Budget) Total() int {
	return b.Speckle + b.Macro + b.Diffusion + b.Erosion + b.Haze
}

// Renderer runs the dissipation stages for one render:
// ComputeBudget, then Emit, then Composite. A Renderer is used once and
// must not be shared between renders.
type Renderer struct {
	params  Params
	profile Profile
	seed    uint64
	scale   float64

	stage  Stage
	geom   *geometry.Geometry
	outer  *Sampler // all segments
	inner  *Sampler // wet segments, for effects inside the silhouette
	damp   []float64
	budget Budget
	plan   *Plan
}

// NewRenderer returns a renderer in the idle stage. Scale is the number of
// device pixels per point.
func NewRenderer(p Params, profile Profile, seed uint64, scale float64) *Renderer {
	p.Sanitize()
	if profile != Tight {
		profile = Full
	}
	scale = num.Finite(scale)
	if !(scale > 0) {
		scale = 1
	}
	return &Renderer{
		params:  p,
		profile: profile,
		seed:    seed,
		scale:   min(scale, 16),
	}
}

// Stage returns the current stage.
func (r *Renderer) Stage() Stage {
	return r.stage
}

// Profile returns the budget profile.
func (r *Renderer) Profile() Profile {
	return r.profile
}

func (r *Renderer) advance(from, to Stage) {
	if r.stage != from {
		panic(fmt.Sprintf("dissipation: cannot enter stage %v from %v", to, r.stage))
	}
	r.stage = to
}

// ComputeBudget computes the placement weights and particle counts for g.
func (r *Renderer) ComputeBudget(g *geometry.Geometry) Budget {
	r.advance(StageIdle, StageBudget)
	r.geom = g

	p := &r.params
	nSeg := len(g.SegmentStrength)
	outer := make([]float64, nSeg)
	inner := make([]float64, nSeg)
	r.damp = make([]float64, nSeg)
	runLen := segmentRunLengths(g)
	var maxStrength float64
	for i, s := range g.SegmentStrength {
		s = num.Clamp01(s)
		maxStrength = max(maxStrength, s)
		d := r.pepper(g, i, runLen[i])
		r.damp[i] = d
		w := num.Pow(s, p.WeightPower) * d
		outer[i] = w
		if g.Wet[i] && g.Wet[i+1] {
			inner[i] = w
		}
	}
	r.outer = NewSampler(outer)
	r.inner = NewSampler(inner)

	if !(r.outer.Total() > 0) {
		r.budget = Budget{}
		return r.budget
	}

	scale := num.Clamp(maxStrength*p.StrengthWeight, p.MinStrengthScale, 1)
	count := func(e Effect, enabled bool) int {
		if !enabled {
			return 0
		}
		limit := e.CapFull
		if r.profile == Tight {
			limit = e.CapTight
		}
		n := int(math.Round(float64(e.Base) * scale * p.Density))
		return min(max(n, 0), limit)
	}
	full := r.profile == Full
	r.budget = Budget{
		Speckle:       count(p.Speckle, true),
		Macro:         count(p.Macro, full),
		Diffusion:     count(p.Diffusion, true),
		Erosion:       count(p.Erosion, r.inner.Total() > 0),
		Haze:          count(p.Haze, full),
		StrengthScale: scale,
	}
	return r.budget
}

// pepper returns the placement damping of segment i: 1 on slopes, low
// ground and short runs, down to 1-PepperDamp on long high plateaus.
func (r *Renderer) pepper(g *geometry.Geometry, i, runLen int) float64 {
	p := &r.params
	if !(g.MaxHeight > 0) || runLen == 0 {
		return 1
	}
	frac := 0.5 * (g.Heights[i] + g.Heights[i+1]) / g.MaxHeight
	var slope float64
	if dx := g.Points[i+1].X - g.Points[i].X; dx > 0 {
		slope = math.Abs(g.Heights[i+1]-g.Heights[i]) / dx
	}
	high := num.Smoothstep(p.PepperHeight-0.15, p.PepperHeight+0.15, frac)
	flat := 1 - num.Smoothstep(0, p.PepperSlope, slope)
	long := num.Smoothstep(float64(p.PepperRun)/2, float64(p.PepperRun), float64(runLen))
	return 1 - p.PepperDamp*high*flat*long
}

// segmentRunLengths returns, per segment, the length of the wet run
// containing both its end points, or 0.
func segmentRunLengths(g *geometry.Geometry) []int {
	out := make([]int, len(g.SegmentStrength))
	for _, run := range g.Runs {
		for i := run.Start; i < run.End-1 && i < len(out); i++ {
			out[i] = run.Len()
		}
	}
	return out
}
