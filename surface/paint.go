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

package surface

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Color is a non-premultiplied sRGB colour with components in [0, 1].
type Color struct {
	R, G, B float32
}

// RGB8 returns the colour with the given 8-bit components.
func RGB8(r, g, b uint8) Color {
	return Color{R: float32(r) / 255, G: float32(g) / 255, B: float32(b) / 255}
}

// ErrBadColor is returned when a colour string cannot be parsed.
var ErrBadColor = errors.New("invalid colour")

// ParseColor parses a colour in "#rrggbb" notation.
func ParseColor(s string) (Color, error) {
	hex, ok := strings.CutPrefix(strings.TrimSpace(s), "#")
	if !ok || len(hex) != 6 {
		return Color{}, fmt.Errorf("%w %q", ErrBadColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("%w %q", ErrBadColor, s)
	}
	return RGB8(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

func (c Color) String() string {
	to8 := func(x float32) uint8 {
		return uint8(math.Round(float64(clamp01(x)) * 255))
	}
	return fmt.Sprintf("#%02x%02x%02x", to8(c.R), to8(c.G), to8(c.B))
}

// Lerp interpolates between c and d.
func (c Color) Lerp(d Color, t float32) Color {
	return Color{
		R: c.R + (d.R-c.R)*t,
		G: c.G + (d.G-c.G)*t,
		B: c.B + (d.B-c.B)*t,
	}
}

// MarshalYAML implements yaml.Marshaler.
func (c Color) MarshalYAML() (any, error) {
	return c.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	v, err := ParseColor(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*c = v
	return nil
}

// Pattern is a repeating alpha texture.
type Pattern interface {
	Alpha(x, y int) float32
}

// Stop is one alpha stop of a horizontal gradient.
type Stop struct {
	X     float64 // device x coordinate
	Alpha float32
}

// Gradient is an alpha ramp along the x axis, linear between the stops
// and constant beyond the outermost stops. Stops must be sorted by X.
type Gradient []Stop

// At returns the gradient value at device x coordinate x.
func (g Gradient) At(x float64) float32 {
	n := len(g)
	switch {
	case n == 0:
		return 1
	case x <= g[0].X:
		return g[0].Alpha
	case x >= g[n-1].X:
		return g[n-1].Alpha
	}
	i := sort.Search(n, func(i int) bool { return g[i].X > x })
	a, b := g[i-1], g[i]
	dx := b.X - a.X
	if !(dx > 0) {
		return b.Alpha
	}
	t := float32((x - a.X) / dx)
	return a.Alpha + (b.Alpha-a.Alpha)*t
}

// Paint describes the source colour of a fill or stroke. The effective
// alpha at a pixel is Alpha, times the gradient value at the pixel
// centre, times the pattern value.
type Paint struct {
	Color    Color
	Alpha    float32
	Gradient Gradient
	Pattern  Pattern
}

// Solid returns a paint with constant colour and alpha.
func Solid(c Color, alpha float32) Paint {
	return Paint{Color: c, Alpha: alpha}
}

// Sanitized returns a copy of p with the colour and all alpha values
// clamped to [0, 1] and non-finite values replaced by 0.
func (p Paint) Sanitized() Paint {
	p.Color = Color{R: clamp01(p.Color.R), G: clamp01(p.Color.G), B: clamp01(p.Color.B)}
	p.Alpha = clamp01(p.Alpha)
	if len(p.Gradient) > 0 {
		g := make(Gradient, 0, len(p.Gradient))
		for _, s := range p.Gradient {
			if math.IsNaN(s.X) || math.IsInf(s.X, 0) {
				continue
			}
			g = append(g, Stop{X: s.X, Alpha: clamp01(s.Alpha)})
		}
		sort.SliceStable(g, func(i, j int) bool { return g[i].X < g[j].X })
		if len(g) == 0 {
			p.Alpha = 0
		}
		p.Gradient = g
	}
	return p
}

// clamp01 limits x to [0, 1]; NaN maps to 0.
func clamp01(x float32) float32 {
	if !(x > 0) {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
