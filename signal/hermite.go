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

package signal

import "math"

// Resample maps ys, taken as equally spaced samples on [0, 1], to n equally
// spaced samples using monotone cubic Hermite interpolation.
//
// Tangents are the harmonic mean of the adjacent secants, zero at local
// extrema, and pairs of tangents are limited with the Fritsch–Carlson
// condition, so that the result never leaves the range spanned by the two
// input samples around it.
func Resample(ys []float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	switch len(ys) {
	case 0:
		return out
	case 1:
		for i := range out {
			out[i] = ys[0]
		}
		return out
	}
	if len(ys) == n {
		copy(out, ys)
		return out
	}

	m := tangents(ys)
	segs := len(ys) - 1
	for j := range n {
		var x float64
		if n > 1 {
			x = float64(j) * float64(segs) / float64(n-1)
		}
		k := min(int(x), segs-1)
		t := x - float64(k)
		out[j] = hermite(ys[k], ys[k+1], m[k], m[k+1], t)
	}
	return out
}

// tangents computes the limited Hermite tangents for unit sample spacing.
func tangents(ys []float64) []float64 {
	n := len(ys)
	d := make([]float64, n-1)
	for k := range d {
		d[k] = ys[k+1] - ys[k]
	}

	m := make([]float64, n)
	m[0] = d[0]
	m[n-1] = d[n-2]
	for k := 1; k < n-1; k++ {
		a, b := d[k-1], d[k]
		if a*b <= 0 {
			continue
		}
		m[k] = 2 / (1/a + 1/b)
	}

	for k, dk := range d {
		if dk == 0 {
			m[k] = 0
			m[k+1] = 0
			continue
		}
		a := m[k] / dk
		b := m[k+1] / dk
		if s := a*a + b*b; s > 9 {
			tau := 3 / math.Sqrt(s)
			m[k] = tau * a * dk
			m[k+1] = tau * b * dk
		}
	}
	return m
}

// hermite evaluates the cubic Hermite segment from y0 to y1 at t in [0, 1].
// The result is clamped to the segment's range to absorb rounding.
func hermite(y0, y1, m0, m1, t float64) float64 {
	t2 := t * t
	t3 := t2 * t
	v := (2*t3-3*t2+1)*y0 + (t3-2*t2+t)*m0 + (-2*t3+3*t2)*y1 + (t3-t2)*m1
	lo, hi := min(y0, y1), max(y0, y1)
	return min(max(v, lo), hi)
}
