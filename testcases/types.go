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

// Package testcases holds named input series shared by the tests and the
// preview command.
package testcases

// Scenario is one named forecast series.
type Scenario struct {
	Name       string // lowercase a-z and _ only
	Intensity  []float64
	Confidence []float64
	Minutes    int // shown time span, 0 for the series length
}

// constant returns n copies of v.
func constant(n int, v float64) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = v
	}
	return xs
}

// linear returns n values from a to b.
func linear(n int, a, b float64) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		xs[i] = a + (b-a)*t
	}
	return xs
}

// concat joins the given series.
func concat(parts ...[]float64) []float64 {
	var xs []float64
	for _, p := range parts {
		xs = append(xs, p...)
	}
	return xs
}
