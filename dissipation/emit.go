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

package dissipation

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/raincurve/geometry"
	"seehuhn.de/go/raincurve/internal/num"
	"seehuhn.de/go/raincurve/noise"
)

// Bin is one opacity bin of an effect: every particle in the bin is a
// subpath of Path, and the bin is drawn with a single fill.
type Bin struct {
	Path  *path.Data
	Alpha float32 // mean alpha of the particles, in [0, 1]
	Count int
}

// Counts holds the number of emitted particles per effect.
type Counts struct {
	Speckle   int
	Macro     int
	Diffusion int
	Erosion   int
	Haze      int
}

// Total returns the sum of all counts.
func (c Counts) Total() int {
	return c.Speckle + c.Macro + c.Diffusion + c.Erosion + c.Haze
}

// Plan is the result of the emit stage.
type Plan struct {
	Profile Profile
	Budget  Budget
	Counts  Counts

	Speckles  []Bin
	Macro     []Bin // nil under the tight profile
	Diffusion []Bin
	Erosion   []Bin
	Haze      []Bin // nil under the tight profile
}

// DrawCalls returns the number of fills needed to draw the plan.
func (p *Plan) DrawCalls() int {
	return len(p.Speckles) + len(p.Macro) + len(p.Diffusion) + len(p.Erosion) + len(p.Haze)
}

// direction of the normal offset of an effect
const (
	outward = 1.0
	inward  = -1.0
)

// Emit places all particles granted by the budget.
func (r *Renderer) Emit() *Plan {
	r.advance(StageBudget, StageEmit)
	p := &r.params
	b := r.budget
	plan := &Plan{Profile: r.profile, Budget: b}
	r.plan = plan
	if b.Total() == 0 {
		return plan
	}

	alphaMul := min(1, 0.5+0.5*p.Density)
	weld := p.WeldFull
	if r.profile == Tight {
		alphaMul *= p.TightAlpha
		weld = p.WeldTight
	}

	plan.Erosion, plan.Counts.Erosion = r.emit(p.Erosion, b.Erosion, r.inner,
		noise.Stream(r.seed, noise.SaltErosion), inward, 0, alphaMul)
	plan.Diffusion, plan.Counts.Diffusion = r.emit(p.Diffusion, b.Diffusion, r.outer,
		noise.Stream(r.seed, noise.SaltDiffusion), outward, 0, alphaMul)
	plan.Speckles, plan.Counts.Speckle = r.emit(p.Speckle, b.Speckle, r.outer,
		noise.Stream(r.seed, noise.SaltSpeckle), outward, weld, alphaMul)
	if r.profile == Full {
		plan.Macro, plan.Counts.Macro = r.emit(p.Macro, b.Macro, r.outer,
			noise.Stream(r.seed, noise.SaltMacro), outward, 0, alphaMul)
		plan.Haze, plan.Counts.Haze = r.emit(p.Haze, b.Haze, r.outer,
			noise.Stream(r.seed, noise.SaltHaze), outward, 0, alphaMul)
	}
	return plan
}

// binAcc collects the particles of one opacity bin.
type binAcc struct {
	path  *path.Data
	sum   float64
	count int
}

// emit places n particles of effect e. Every particle consumes the same
// number of random draws, so that the placement of particle k does not
// depend on whether earlier particles were visible.
func (r *Renderer) emit(e Effect, n int, smp *Sampler, rng *noise.RNG, dir, weld, alphaMul float64) ([]Bin, int) {
	g := r.geom
	if n <= 0 || !(smp.Total() > 0) {
		return nil, 0
	}
	sc := r.scale
	bins := make([]binAcc, e.Bins)
	emitted := 0
	for range n {
		i := smp.Pick(rng.Float64())
		t := rng.Float64()
		uRadius := rng.Float64()
		uDist := rng.Float64()
		uWeld := rng.Float64()
		uStraddle := rng.Float64()
		jitter := rng.Signed()
		phase := 2 * math.Pi * rng.Float64()
		if i < 0 || i+1 >= g.Len() {
			continue
		}

		base := lerp(g.Points[i], g.Points[i+1], t)
		nrm := unitOr(lerp(g.Normals[i], g.Normals[i+1], t), vec.Vec2{X: 0, Y: -1})
		tan := vec.Vec2{X: -nrm.Y, Y: nrm.X}
		s := num.Clamp01(num.Lerp(g.Strength[i], g.Strength[i+1], t))

		radius := sc * num.Lerp(e.RadiusMin, e.RadiusMax, num.Pow(uRadius, e.RadiusPower))
		frac := num.Pow(uDist, e.DistancePower)
		offset := dir * sc * e.Distance * frac * (0.4 + 0.6*s)
		if uWeld < weld {
			// straddle the edge so the speckle merges with the core
			frac = 0
			offset = -radius * uStraddle
		}
		c := base.Add(nrm.Mul(offset)).Add(tan.Mul(jitter * sc * e.Jitter))
		if dir == inward {
			c.Y = min(c.Y, g.Layout.Baseline-0.5*radius)
		}

		alpha := e.Alpha *
			num.Pow(s, e.StrengthPower) *
			num.Pow(1-frac, e.FalloffPower) *
			r.damp[i] *
			alphaMul
		alpha = num.Clamp01(alpha)
		if !(alpha > 0) || !(radius > 0) || !finite(c) {
			continue
		}

		k := min(int(alpha*float64(e.Bins)), e.Bins-1)
		acc := &bins[k]
		if acc.path == nil {
			acc.path = &path.Data{}
		}
		geometry.AppendCircle(acc.path, c, radius, geometry.CircleSides(radius), phase)
		acc.sum += alpha
		acc.count++
		emitted++
	}

	var out []Bin
	for _, acc := range bins {
		if acc.count == 0 {
			continue
		}
		out = append(out, Bin{
			Path:  acc.path,
			Alpha: float32(num.Clamp01(acc.sum / float64(acc.count))),
			Count: acc.count,
		})
	}
	return out, emitted
}

func lerp(a, b vec.Vec2, t float64) vec.Vec2 {
	return a.Add(b.Sub(a).Mul(t))
}

func unitOr(v, fallback vec.Vec2) vec.Vec2 {
	l := v.Length()
	if !(l > 1e-12) || math.IsInf(l, 0) {
		return fallback
	}
	return v.Mul(1 / l)
}

func finite(v vec.Vec2) bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}
