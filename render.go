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

package raincurve

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"gopkg.in/yaml.v3"

	"seehuhn.de/go/raincurve/composite"
	"seehuhn.de/go/raincurve/dissipation"
	"seehuhn.de/go/raincurve/geometry"
	"seehuhn.de/go/raincurve/internal/num"
	"seehuhn.de/go/raincurve/noise"
	"seehuhn.de/go/raincurve/signal"
	"seehuhn.de/go/raincurve/surface"
)

// Input is the forecast series of one render.
type Input struct {
	// Intensity holds one value per minute, in mm/h. Confidence holds
	// values in [0, 1] and is padded or truncated to the length of
	// Intensity.
	Intensity  []float64 `yaml:"intensity"`
	Confidence []float64 `yaml:"confidence"`

	// Minutes is the time span shown. If it exceeds the length of the
	// series the remaining minutes are dry; if it is shorter the series
	// is cut. Zero means the length of the series.
	Minutes int `yaml:"minutes,omitempty"`
}

// maxMinutes limits Input.Minutes to one day.
const maxMinutes = 24 * 60

// series returns the intensity and confidence series covering the shown
// time span.
func (in Input) series() (intensity, confidence []float64) {
	intensity, confidence = in.Intensity, in.Confidence
	m := min(in.Minutes, maxMinutes)
	switch {
	case m <= 0 || m == len(intensity):
	case m < len(intensity):
		intensity = intensity[:m]
		confidence = confidence[:min(m, len(confidence))]
	default:
		padded := make([]float64, m)
		copy(padded, intensity)
		intensity = padded
	}
	return intensity, confidence
}

// LoadInput reads a series from a YAML document.
func LoadInput(r io.Reader) (Input, error) {
	var in Input
	err := yaml.NewDecoder(r).Decode(&in)
	if err != nil && !errors.Is(err, io.EOF) {
		return Input{}, fmt.Errorf("raincurve: decode input: %w", err)
	}
	return in, nil
}

// RenderContext describes where a render is shown.
type RenderContext int

// These are the render contexts.
const (
	Interactive RenderContext = iota // the application, generous budget
	Snapshot                         // time-boxed static snapshots
)

func (ctx RenderContext) String() string {
	switch ctx {
	case Interactive:
		return "interactive"
	case Snapshot:
		return "snapshot"
	default:
		return fmt.Sprintf("RenderContext(%d)", int(ctx))
	}
}

// ProfileFor returns the budget profile for a render context.
func ProfileFor(ctx RenderContext) Profile {
	if ctx == Snapshot {
		return Tight
	}
	return Full
}

// Options holds per-call settings which are not part of the configuration.
type Options struct {
	// Scale is the number of device pixels per point. Zero means 1.
	Scale float64

	// Logger receives one debug record per render, if non-nil.
	Logger *slog.Logger
}

// Render draws the rain curve for in onto dst, filling the whole surface.
// The textures are optional; without them the grain is left out.
//
// All layers are drawn into one group which is composited onto dst at
// the end, so that the erosion layer only removes paint of the curve.
func Render(dst surface.Surface, in Input, cfg Config, tex *noise.Textures, opt Options) {
	cfg.Sanitize()
	scale := num.Finite(opt.Scale)
	if !(scale > 0) {
		scale = 1
	}
	scale = min(scale, 16)

	w, h := dst.Size()
	if w <= 0 || h <= 0 {
		return
	}
	baseline := max(float64(h)-math.Ceil(cfg.Composite.BaselineWidth*scale), 0)
	frame := signal.Frame{Width: float64(w), Height: baseline}
	layout := geometry.Layout{Left: 0, Right: float64(w), Baseline: baseline}

	intensity, confidence := in.series()
	curve := signal.Process(intensity, confidence, frame, cfg.Signal, cfg.Seed)
	g := geometry.Build(curve, layout, cfg.Geometry)

	r := dissipation.NewRenderer(cfg.Dissipation, cfg.Profile, cfg.Seed, scale)
	r.ComputeBudget(g)
	plan := r.Emit()

	comp := composite.New(g, cfg.Composite, cfg.Palette, tex, scale)
	colors := dissipation.Colors{Particle: cfg.Palette.Particle, Haze: cfg.Palette.Haze}
	dst.DrawLayer(surface.LayerOptions{}, func(s surface.Surface) {
		comp.Draw(s, plan.Diffusion)
		r.Composite(s, colors)
	})

	if opt.Logger != nil {
		c := plan.Counts
		opt.Logger.Debug("rendered rain curve",
			slog.String("profile", cfg.Profile.String()),
			slog.Int("minutes", curve.Minutes),
			slog.Int("samples", g.Len()),
			slog.Bool("relief", curve.Relief),
			slog.Group("particles",
				slog.Int("speckle", c.Speckle),
				slog.Int("macro", c.Macro),
				slog.Int("diffusion", c.Diffusion),
				slog.Int("erosion", c.Erosion),
				slog.Int("haze", c.Haze),
			),
			slog.Int("fills", plan.DrawCalls()),
		)
	}
}
