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

// Package geometry turns a dense height curve into the shapes used by the
// drawing passes: the closed silhouette, the surface points with their
// outward normals, and per-sample and per-segment dissipation strength.
//
// All coordinates are device pixels with y growing downwards. The height
// data is never changed here; the inset edge and the erosion bands are
// derived from the finished silhouette.
package geometry

import (
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/raincurve/internal/num"
	"seehuhn.de/go/raincurve/signal"
)

// Layout places the curve on the canvas.
type Layout struct {
	Left, Right float64 // horizontal extent of the curve
	Baseline    float64 // y coordinate of zero height
}

// Band is one strength bin of the erosion layer.
type Band struct {
	Path     *path.Data
	Strength float64 // representative strength of the bin, in [0, 1]
}

// Geometry is the derived per-render geometry. All per-sample slices have
// the same length; per-segment slices are one shorter.
type Geometry struct {
	Layout Layout

	Points      []vec.Vec2
	Normals     []vec.Vec2 // outward unit normals
	Heights     []float64
	Confidences []float64

	Strength        []float64 // per sample, in [0, 1]
	SegmentStrength []float64 // per segment, in [0, 1]

	Wet  []bool
	Runs []signal.Run

	MaxHeight    float64 // height cap in pixels
	PeakHeight   float64 // largest height present
	WetThreshold float64

	// SamplesPerMinute converts minutes to sample distances.
	SamplesPerMinute float64

	Silhouette *path.Data // nil if no sample is wet
	Top        *path.Data // open polyline through Points
	Inset      *path.Data // silhouette with the top edge pulled inwards
	Baseline   *path.Data
	Erosion    []Band
}

// Len returns the number of samples.
func (g *Geometry) Len() int {
	return len(g.Points)
}

// HasSilhouette reports whether any sample is wet.
func (g *Geometry) HasSilhouette() bool {
	return g.Silhouette != nil
}

// Build constructs the geometry for a processed curve.
func Build(c signal.Curve, l Layout, p Params) *Geometry {
	p.Sanitize()
	l.Left = num.Finite(l.Left)
	l.Right = max(num.Finite(l.Right), l.Left)
	l.Baseline = num.Finite(l.Baseline)

	n := c.Len()
	g := &Geometry{
		Layout:           l,
		MaxHeight:        max(num.Finite(float64(c.MaxHeight)), 0),
		WetThreshold:     max(num.Finite(float64(c.WetThreshold)), 0),
		SamplesPerMinute: max(num.Finite(c.SamplesPerMinute), 0),
		Baseline: Polyline([]vec.Vec2{
			{X: l.Left, Y: l.Baseline},
			{X: l.Right, Y: l.Baseline},
		}),
	}
	if n == 0 {
		return g
	}

	g.Heights = make([]float64, n)
	g.Confidences = make([]float64, n)
	g.Wet = make([]bool, n)
	g.Points = make([]vec.Vec2, n)
	for i := range n {
		h := num.Clamp(num.Finite(float64(c.Heights[i])), 0, g.MaxHeight)
		g.Heights[i] = h
		g.Confidences[i] = num.Clamp01(num.Finite(float64(c.Confidences[i])))
		g.Wet[i] = h > g.WetThreshold
		g.PeakHeight = max(g.PeakHeight, h)

		x := l.Left
		if n > 1 {
			x = num.Lerp(l.Left, l.Right, float64(i)/float64(n-1))
		}
		g.Points[i] = vec.Vec2{X: x, Y: l.Baseline - h}
	}
	g.Runs = signal.WetRuns(g.Heights, g.WetThreshold)
	g.Normals = Normals(g.Points)

	g.Strength = g.sampleStrength(p)
	g.SegmentStrength = make([]float64, max(n-1, 0))
	for i := range g.SegmentStrength {
		g.SegmentStrength[i] = num.Clamp01(0.5 * (g.Strength[i] + g.Strength[i+1]))
	}

	g.Top = Polyline(g.Points)
	if len(g.Runs) > 0 {
		g.Silhouette = Area(g.Points, l.Baseline)

		d := make([]float64, n)
		for i, s := range g.Strength {
			if g.Wet[i] {
				d[i] = -p.InsetMax * s
			}
		}
		g.Inset = Area(Offset(g.Points, g.Normals, d, l.Baseline), l.Baseline)
		g.Erosion = g.erosionBands(p)
	}
	return g
}

// Normals returns outward unit normals from the secant between the
// neighbours of each point, one-sided at the ends. A zero-length secant
// gives (0, -1).
func Normals(pts []vec.Vec2) []vec.Vec2 {
	n := len(pts)
	out := make([]vec.Vec2, n)
	for i := range n {
		a, b := max(i-1, 0), min(i+1, n-1)
		t := pts[b].Sub(pts[a])
		l := t.Length()
		if !(l > 1e-12) {
			out[i] = vec.Vec2{X: 0, Y: -1}
			continue
		}
		t = t.Mul(1 / l)
		out[i] = vec.Vec2{X: t.Y, Y: -t.X}
	}
	return out
}

// sampleStrength computes the per-sample dissipation strength: the wet
// term for wet samples, the tail for dry samples near a wet one, 0 else.
func (g *Geometry) sampleStrength(p Params) []float64 {
	n := g.Len()
	s := make([]float64, n)
	for i := range n {
		if !g.Wet[i] {
			continue
		}
		s[i] = WetStrength(g.Confidences[i], g.Heights[i]/max(g.MaxHeight, 1e-9), g.slope(i), p)
	}
	applyTail(s, g.Wet, p.TailMinutes*g.SamplesPerMinute, p)
	return s
}

// slope returns |dh/dx| at sample i from the neighbouring samples.
func (g *Geometry) slope(i int) float64 {
	n := g.Len()
	a, b := max(i-1, 0), min(i+1, n-1)
	dx := g.Points[b].X - g.Points[a].X
	if !(dx > 0) {
		return 0
	}
	return num.Finite((g.Heights[b] - g.Heights[a]) / dx)
}

// WetStrength combines the confidence term, the low height boost and the
// slope boost for a wet sample. frac is the height as a fraction of the
// maximum height. Each term is clamped before summing, and the sum is
// clamped to [0, 1].
func WetStrength(conf, frac, slope float64, p Params) float64 {
	conf = num.Clamp01(num.Finite(conf))
	frac = num.Clamp01(num.Finite(frac))
	if slope < 0 {
		slope = -slope
	}

	lo := p.ConfidenceThreshold - p.ConfidenceTransition
	hi := p.ConfidenceThreshold + p.ConfidenceTransition
	u := num.Pow(1-num.Smoothstep(lo, hi, conf), p.ConfidenceExponent)
	base := num.Clamp01(p.StrengthFloor + (1-p.StrengthFloor)*u)

	low := num.Clamp01(p.LowHeightBoost * (1 - num.Smoothstep(0, p.LowHeightFraction, frac)))
	steep := num.Clamp01(p.SlopeBoost * num.Smoothstep(0, p.SlopeScale, num.Finite(slope)))

	return num.Clamp01(base + low + steep)
}

// applyTail assigns strength to dry samples within dist samples of the
// nearest wet sample. The height data is not involved.
func applyTail(s []float64, wet []bool, dist float64, p Params) {
	if !(dist > 0) {
		return
	}
	n := len(s)
	nearest := make([]int, n) // index of nearest wet sample, -1 if none
	last := -1
	for i := range n {
		if wet[i] {
			last = i
		}
		nearest[i] = last
	}
	last = -1
	for i := n - 1; i >= 0; i-- {
		if wet[i] {
			last = i
		}
		if last >= 0 && (nearest[i] < 0 || last-i < i-nearest[i]) {
			nearest[i] = last
		}
	}

	for i := range n {
		j := nearest[i]
		if wet[i] || j < 0 {
			continue
		}
		d := float64(abs(i - j))
		if d > dist {
			continue
		}
		t := d / dist
		decay := num.Pow(1-num.Smoothstep(0, 1, t), p.TailExponent)
		s[i] = num.Clamp01(max(p.TailMin, s[j]*decay))
	}
}

// erosionBands groups the wet top-edge segments by strength and builds,
// for every non-empty bin, one path of strips reaching inwards from the
// edge by a width proportional to the strength.
func (g *Geometry) erosionBands(p Params) []Band {
	bins := p.ErosionBins
	paths := make([]*path.Data, bins)
	for i, s := range g.SegmentStrength {
		if !(s > 0) || !g.Wet[i] || !g.Wet[i+1] {
			continue
		}
		w := p.ErosionWidth * s
		if !(w > 0) {
			continue
		}
		b := min(int(s*float64(bins)), bins-1)
		if paths[b] == nil {
			paths[b] = &path.Data{}
		}
		a0, a1 := g.Points[i], g.Points[i+1]
		b0 := a0.Sub(g.Normals[i].Mul(w))
		b1 := a1.Sub(g.Normals[i+1].Mul(w))
		b0.Y = min(b0.Y, g.Layout.Baseline)
		b1.Y = min(b1.Y, g.Layout.Baseline)
		AppendPolygon(paths[b], a0, a1, b1, b0)
	}

	var bands []Band
	for b, pd := range paths {
		if pd == nil {
			continue
		}
		bands = append(bands, Band{
			Path:     pd,
			Strength: (float64(b) + 0.5) / float64(bins),
		})
	}
	return bands
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
