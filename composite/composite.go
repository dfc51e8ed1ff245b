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

// Package composite draws the deterministic layers of a rain curve.
//
// Each pass is a method of Compositor taking the target surface. The
// passes must be called in the order of [Compositor.Draw]; later passes
// rely on the core already being present.
//
// Masked passes draw their effect shape into a layer and then multiply the
// layer by the core mask (or its complement), instead of clipping to the
// silhouette path. Blurred bands do not line up with the silhouette edge
// pixel by pixel, and the mask keeps the inside effects inside and the
// outside effects outside.
package composite

import (
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/raincurve/dissipation"
	"seehuhn.de/go/raincurve/geometry"
	"seehuhn.de/go/raincurve/internal/num"
	"seehuhn.de/go/raincurve/noise"
	"seehuhn.de/go/raincurve/surface"
)

// Compositor draws the deterministic passes for one geometry.
type Compositor struct {
	g     *geometry.Geometry
	p     Params
	pal   Palette
	tex   *noise.Textures // may be nil
	scale float64
}

// New returns a compositor for g. The textures are optional; without
// them the textured passes draw untextured. Scale is the number of device
// pixels per point.
func New(g *geometry.Geometry, p Params, pal Palette, tex *noise.Textures, scale float64) *Compositor {
	p.Sanitize()
	scale = num.Finite(scale)
	if !(scale > 0) {
		scale = 1
	}
	return &Compositor{g: g, p: p, pal: pal, tex: tex, scale: min(scale, 16)}
}

// Draw runs all passes in order. The diffusion bins are drawn by the
// shell pass.
func (c *Compositor) Draw(s surface.Surface, diffusion []dissipation.Bin) {
	c.Baseline(s)
	c.Core(s)
	c.Crest(s)
	c.Bloom(s)
	c.Ridge(s)
	c.Glint(s)
	c.Shell(s, diffusion)
	c.Mist(s)
}

var white = surface.Color{R: 1, G: 1, B: 1}

// drawable reports whether the geometry has a silhouette the passes can
// work with.
func (c *Compositor) drawable() bool {
	return c.g != nil && c.g.HasSilhouette() && c.g.Len() >= 2
}

// mask returns the core shape.
func (c *Compositor) mask() *path.Data {
	if c.p.UseInset && c.g.Inset != nil {
		return c.g.Inset
	}
	return c.g.Silhouette
}

// alphas computes a fresh per-sample alpha array for one pass.
func (c *Compositor) alphas(sh Shape) []float32 {
	g := c.g
	out := make([]float32, g.Len())
	taper := c.p.Taper * c.scale
	for i := range out {
		var w float64
		switch {
		case g.Wet[i]:
			w = 1
			if taper > 0 {
				w = num.Smoothstep(g.WetThreshold, g.WetThreshold+taper, g.Heights[i])
			}
		case sh.Tail:
			w = g.Strength[i]
		default:
			continue
		}
		var frac float64
		if g.MaxHeight > 0 {
			frac = num.Clamp01(g.Heights[i] / g.MaxHeight)
		}
		conf := num.Clamp01(g.Confidences[i])
		a := sh.Alpha * w *
			num.Pow(frac, sh.Intensity) *
			num.Pow(conf, sh.Confidence) *
			num.Pow(1-conf, sh.Uncertainty) *
			num.Pow(num.Clamp01(g.Strength[i]), sh.Strength)
		out[i] = float32(num.Clamp01(a))
	}
	return out
}

// gradient places one stop per sample at the sample's x coordinate.
func (c *Compositor) gradient(alpha []float32) surface.Gradient {
	grad := make(surface.Gradient, len(alpha))
	for i, a := range alpha {
		grad[i] = surface.Stop{X: c.g.Points[i].X, Alpha: a}
	}
	return grad
}

// restrict multiplies the current layer by the core mask, or by its
// complement if inside is false.
func (c *Compositor) restrict(s surface.Surface, inside bool) {
	mode := surface.BlendDestinationOut
	if inside {
		mode = surface.BlendDestinationIn
	}
	s.WithBlendMode(mode, func(s surface.Surface) {
		s.FillPath(c.mask(), surface.Solid(white, 1))
	})
}

// masked draws fn into a blurred layer, restricts the result to one side
// of the core mask and composites it with the given blend mode.
func (c *Compositor) masked(s surface.Surface, blur float64, blend surface.BlendMode, inside bool, fn func(surface.Surface)) {
	s.DrawLayer(surface.LayerOptions{Blend: blend}, func(s surface.Surface) {
		s.DrawLayer(surface.LayerOptions{Blur: blur * c.scale}, fn)
		c.restrict(s, inside)
	})
}

func (c *Compositor) strokeTop(s surface.Surface, pts []vec.Vec2, width float64, paint surface.Paint) {
	top := c.g.Top
	if pts != nil {
		top = geometry.Polyline(pts)
	}
	style := surface.Stroke{
		Width: width * c.scale,
		Cap:   graphics.LineCapRound,
		Join:  graphics.LineJoinRound,
	}
	s.StrokePath(top, style, paint)
}

// fullRect returns a path covering the whole surface.
func fullRect(s surface.Surface) *path.Data {
	w, h := s.Size()
	p := &path.Data{}
	geometry.AppendPolygon(p,
		vec.Vec2{X: 0, Y: 0},
		vec.Vec2{X: float64(w), Y: 0},
		vec.Vec2{X: float64(w), Y: float64(h)},
		vec.Vec2{X: 0, Y: float64(h)},
	)
	return p
}

func (c *Compositor) pattern(g noise.Grain) surface.Pattern {
	if c.tex == nil {
		return nil
	}
	return c.tex.Tile(g)
}
