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
	"seehuhn.de/go/raincurve/surface"
)

// Colors are the paint colours of the stochastic layers.
type Colors struct {
	Particle surface.Color // speckles and macro grains
	Haze     surface.Color
}

// Composite draws the emitted layers onto s: erosion first, then haze,
// macro grains and speckles. Diffusion bins are drawn by the shell pass
// and are skipped here.
func (r *Renderer) Composite(s surface.Surface, col Colors) {
	r.advance(StageEmit, StageComposite)
	plan := r.plan
	p := &r.params

	if len(plan.Erosion) > 0 {
		surface.Section(s, "erosion", func() {
			opt := surface.LayerOptions{Blur: p.ErosionBlur * r.scale, Blend: surface.BlendDestinationOut}
			s.DrawLayer(opt, func(s surface.Surface) {
				FillBins(s, plan.Erosion, surface.Color{R: 1, G: 1, B: 1}, nil)
			})
		})
	}
	if r.profile == Full && len(plan.Haze) > 0 {
		surface.Section(s, "haze", func() {
			s.DrawLayer(surface.LayerOptions{Blur: p.HazeBlur * r.scale}, func(s surface.Surface) {
				FillBins(s, plan.Haze, col.Haze, nil)
			})
		})
	}
	if r.profile == Full && len(plan.Macro) > 0 {
		surface.Section(s, "macro", func() {
			s.DrawLayer(surface.LayerOptions{Blur: p.MacroBlur * r.scale}, func(s surface.Surface) {
				FillBins(s, plan.Macro, col.Particle, nil)
			})
		})
	}
	if len(plan.Speckles) > 0 {
		surface.Section(s, "speckle", func() {
			FillBins(s, plan.Speckles, col.Particle, nil)
		})
	}
}

// FillBins issues one fill per bin.
func FillBins(s surface.Surface, bins []Bin, c surface.Color, pattern surface.Pattern) {
	for _, b := range bins {
		s.FillPath(b.Path, surface.Paint{Color: c, Alpha: b.Alpha, Pattern: pattern})
	}
}
