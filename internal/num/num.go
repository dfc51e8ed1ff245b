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

// Package num contains the small numeric helpers shared by the rendering
// stages.
package num

import "math"

// Finite returns x, or 0 if x is NaN or infinite.
func Finite(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

// Clamp limits x to [lo, hi]. NaN maps to lo.
func Clamp(x, lo, hi float64) float64 {
	if !(x > lo) {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// Clamp01 limits x to [0, 1]. NaN maps to 0.
func Clamp01(x float64) float64 {
	return Clamp(x, 0, 1)
}

// Smoothstep is the cubic Hermite step between edges e0 and e1.
func Smoothstep(e0, e1, x float64) float64 {
	if e1 == e0 {
		if x < e0 {
			return 0
		}
		return 1
	}
	t := Clamp01((x - e0) / (e1 - e0))
	return t * t * (3 - 2*t)
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Pow is math.Pow restricted to non-negative bases, with a finite result.
func Pow(x, e float64) float64 {
	if !(x > 0) {
		if e == 0 {
			return 1
		}
		return 0
	}
	return Finite(math.Pow(x, e))
}
