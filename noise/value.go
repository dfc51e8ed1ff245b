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

package noise

import "math"

// Value1D returns smooth lattice value noise in [-1, 1] at position x.
// Lattice values come from Hash, so the result depends only on seed and x.
func Value1D(seed uint64, x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	fl := math.Floor(x)
	i := int64(fl)
	t := x - fl
	t = t * t * (3 - 2*t)
	a := Hash(seed, i)
	b := Hash(seed, i+1)
	return a + (b-a)*t
}

// Fractal1D sums octaves of Value1D, normalised to [-1, 1].
func Fractal1D(seed uint64, x float64, octaves int) float64 {
	var sum, norm float64
	amp := 1.0
	for o := range max(octaves, 1) {
		sum += amp * Value1D(Mix(seed, uint64(o)), x)
		norm += amp
		x *= 2
		amp *= 0.5
	}
	return sum / norm
}
