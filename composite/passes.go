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
	"math"

	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/raincurve/dissipation"
	"seehuhn.de/go/raincurve/internal/num"
	"seehuhn.de/go/raincurve/noise"
	"seehuhn.de/go/raincurve/surface"
)

// Baseline strokes the zero line. It is drawn even when there is no
// silhouette.
func (c *Compositor) Baseline(s surface.Surface) {
	if c.g == nil || c.p.BaselineWidth == 0 || c.p.BaselineAlpha == 0 {
		return
	}
	style := surface.Stroke{
		Width: c.p.BaselineWidth * c.scale,
		Cap:   graphics.LineCapButt,
		Join:  graphics.LineJoinMiter,
	}
	surface.Section(s, "baseline", func() {
		s.StrokePath(c.g.Baseline, style, surface.Solid(c.pal.Baseline, float32(c.p.BaselineAlpha)))
	})
}

// Core fills the silhouette. The mask is drawn first, then the colour
// gradient is composited over the whole surface with source-in, so that
// it only lands where the mask is. The erosion bands are then subtracted
// as a soft layer.
func (c *Compositor) Core(s surface.Surface) {
	if !c.drawable() {
		return
	}
	grad := c.gradient(c.alphas(c.p.Core))
	surface.Section(s, "core", func() {
		s.DrawLayer(surface.LayerOptions{}, func(s surface.Surface) {
			s.FillPath(c.mask(), surface.Solid(white, 1))
			s.WithBlendMode(surface.BlendSourceIn, func(s surface.Surface) {
				s.FillPath(fullRect(s), surface.Paint{Color: c.pal.Core, Alpha: 1, Gradient: grad})
			})
			c.erode(s)
		})
	})
}

func (c *Compositor) erode(s surface.Surface) {
	if len(c.g.Erosion) == 0 || c.p.ErosionAlpha == 0 {
		return
	}
	opt := surface.LayerOptions{Blur: c.p.ErosionBlur * c.scale, Blend: surface.BlendDestinationOut}
	s.DrawLayer(opt, func(s surface.Surface) {
		for _, b := range c.g.Erosion {
			a := num.Clamp01(c.p.ErosionAlpha * b.Strength)
			s.FillPath(b.Path, surface.Solid(white, float32(a)))
		}
	})
}

// Crest lifts the upper part of the core with a broad soft band.
func (c *Compositor) Crest(s surface.Surface) {
	if !c.p.CrestEnabled || !c.drawable() {
		return
	}
	grad := c.gradient(c.alphas(c.p.Crest))
	surface.Section(s, "crest", func() {
		c.masked(s, c.p.CrestBlur, surface.BlendNormal, true, func(s surface.Surface) {
			c.strokeTop(s, nil, c.p.CrestWidth, surface.Paint{Color: c.pal.Crest, Alpha: 1, Gradient: grad})
		})
	})
}

// Bloom draws a wide blurred glow outside the core. It is limited to a
// band of BloomExtent above the highest point.
func (c *Compositor) Bloom(s surface.Surface) {
	if !c.drawable() {
		return
	}
	grad := c.gradient(c.alphas(c.p.Bloom))
	w, _ := s.Size()
	g := c.g
	band := rect.Rect{
		LLx: 0,
		LLy: g.Layout.Baseline - g.PeakHeight - c.p.BloomExtent*c.scale,
		URx: float64(w),
		URy: g.Layout.Baseline,
	}
	surface.Section(s, "bloom", func() {
		s.WithClip(band, func(s surface.Surface) {
			c.masked(s, c.p.BloomBlur, surface.BlendNormal, false, func(s surface.Surface) {
				c.strokeTop(s, nil, c.p.BloomWidth, surface.Paint{Color: c.pal.Bloom, Alpha: 1, Gradient: grad})
			})
		})
	})
}

// Ridge draws a thin highlight just inside the top edge.
func (c *Compositor) Ridge(s surface.Surface) {
	if !c.drawable() {
		return
	}
	grad := c.gradient(c.alphas(c.p.Ridge))
	surface.Section(s, "ridge", func() {
		c.masked(s, c.p.RidgeBlur, surface.BlendPlus, true, func(s surface.Surface) {
			c.strokeTop(s, nil, c.p.RidgeWidth, surface.Paint{Color: c.pal.Ridge, Alpha: 1, Gradient: grad})
		})
	})
}

// Glint places one narrow highlight per wet run, centred on the run's
// tallest and most confident sample.
func (c *Compositor) Glint(s surface.Surface) {
	if !c.drawable() {
		return
	}
	alpha := c.glintAlphas()
	if alpha == nil {
		return
	}
	grad := c.gradient(alpha)
	surface.Section(s, "glint", func() {
		c.masked(s, c.p.GlintBlur, surface.BlendPlus, true, func(s surface.Surface) {
			c.strokeTop(s, nil, c.p.GlintWidth, surface.Paint{Color: c.pal.Glint, Alpha: 1, Gradient: grad})
		})
	})
}

// glintPeaks returns the glint centre of every wet run which has one.
// A run gets no glint if it is shorter than three samples or if its best
// sample is lower than GlintMinFrac of the run maximum.
func (c *Compositor) glintPeaks() []int {
	g := c.g
	var peaks []int
	for _, run := range g.Runs {
		if run.Len() < 3 {
			continue
		}
		peak, best, runMax := run.Start, -1.0, 0.0
		for i := run.Start; i < run.End; i++ {
			h := g.Heights[i]
			runMax = max(runMax, h)
			if score := h * (0.5 + 0.5*g.Confidences[i]); score > best {
				peak, best = i, score
			}
		}
		if !(runMax > 0) || g.Heights[peak] < c.p.GlintMinFrac*runMax {
			continue
		}
		peaks = append(peaks, peak)
	}
	return peaks
}

// glintAlphas returns Gaussian bumps around the glint peaks, or nil if
// there are no peaks.
func (c *Compositor) glintAlphas() []float32 {
	peaks := c.glintPeaks()
	if len(peaks) == 0 {
		return nil
	}
	g := c.g
	base := c.alphas(c.p.Glint)
	out := make([]float32, g.Len())
	sigma := c.p.GlintSpread * c.scale
	for _, k := range peaks {
		px := g.Points[k].X
		for i := range out {
			var wt float64
			switch {
			case i == k:
				wt = 1
			case sigma > 0:
				dx := (g.Points[i].X - px) / sigma
				wt = math.Exp(-0.5 * dx * dx)
			}
			out[i] = max(out[i], float32(num.Clamp01(float64(base[k])*wt)))
		}
	}
	return out
}

// Shell draws the fuzzy skin of the edge: a smooth band inside the core
// and the diffusion blobs outside it, textured with the coarse grain.
func (c *Compositor) Shell(s surface.Surface, diffusion []dissipation.Bin) {
	if !c.drawable() {
		return
	}
	inner := c.gradient(c.alphas(c.p.Shell))
	surface.Section(s, "shell", func() {
		c.masked(s, c.p.ShellBlur, surface.BlendNormal, true, func(s surface.Surface) {
			c.strokeTop(s, nil, c.p.ShellWidth, surface.Paint{Color: c.pal.Shell, Alpha: 1, Gradient: inner})
		})
		if len(diffusion) == 0 {
			return
		}
		outer := c.gradient(c.alphas(c.p.ShellOuter))
		pat := c.pattern(noise.GrainCoarse)
		c.masked(s, c.p.ShellOuterBlur, surface.BlendNormal, false, func(s surface.Surface) {
			for _, b := range diffusion {
				s.FillPath(b.Path, surface.Paint{
					Color:    c.pal.Particle,
					Alpha:    b.Alpha,
					Gradient: outer,
					Pattern:  pat,
				})
			}
		})
	})
}

// Mist draws stacked bands above the surface, fading upwards.
func (c *Compositor) Mist(s surface.Surface) {
	if !c.drawable() || c.p.MistBands == 0 || c.p.MistSpacing == 0 {
		return
	}
	g := c.g
	grad := c.gradient(c.alphas(c.p.Mist))
	var pat surface.Pattern
	if c.p.MistTexture {
		pat = c.pattern(noise.GrainFine)
	}
	spacing := c.p.MistSpacing * c.scale
	bands := c.p.MistBands
	surface.Section(s, "mist", func() {
		c.masked(s, c.p.MistBlur, surface.BlendNormal, false, func(s surface.Surface) {
			pts := make([]vec.Vec2, g.Len())
			for k := range bands {
				lift := float64(k+1) * spacing
				for i, pt := range g.Points {
					pts[i] = vec.Vec2{X: pt.X, Y: pt.Y - lift}
				}
				fade := num.Pow(1-(float64(k)+0.5)/float64(bands), c.p.MistFade)
				c.strokeTop(s, pts, 1.1*c.p.MistSpacing, surface.Paint{
					Color:    c.pal.Mist,
					Alpha:    float32(num.Clamp01(fade)),
					Gradient: grad,
					Pattern:  pat,
				})
			}
		})
	})
}
