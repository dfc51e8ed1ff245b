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

package testcases

import "math"

var dryCases = []Scenario{
	{
		Name:       "all_zero",
		Intensity:  constant(5, 0),
		Confidence: constant(5, 1),
	},
	{
		Name: "empty",
	},
	{
		Name:       "dry_hour",
		Intensity:  constant(60, 0),
		Confidence: constant(60, 0.95),
	},
}

var steadyCases = []Scenario{
	{
		Name:       "heavy_plateau",
		Intensity:  constant(60, 5),
		Confidence: constant(60, 0.9),
	},
	{
		Name:       "drizzle",
		Intensity:  constant(60, 0.4),
		Confidence: constant(60, 0.7),
	},
	{
		Name:       "single_sample",
		Intensity:  []float64{3},
		Confidence: []float64{0.8},
	},
}

var rampCases = []Scenario{
	{
		Name:       "rising_uncertain",
		Intensity:  linear(60, 0, 10),
		Confidence: constant(60, 0.2),
	},
	{
		Name:       "rising_certain",
		Intensity:  linear(60, 0, 10),
		Confidence: constant(60, 1),
	},
	{
		Name:       "easing_off",
		Intensity:  linear(60, 8, 0),
		Confidence: linear(60, 0.9, 0.3),
	},
}

var burstCases = []Scenario{
	{
		Name:       "short_burst",
		Intensity:  concat(constant(20, 0), constant(4, 6), constant(36, 0)),
		Confidence: constant(60, 0.6),
	},
	{
		Name: "two_showers",
		Intensity: concat(
			constant(5, 0), linear(8, 0.5, 4), linear(7, 4, 0.5),
			constant(15, 0),
			linear(10, 1, 7), linear(10, 7, 1), constant(5, 0)),
		Confidence: concat(constant(30, 0.8), constant(30, 0.35)),
	},
	{
		Name:       "partial_hour",
		Intensity:  linear(25, 2, 6),
		Confidence: constant(25, 0.5),
		Minutes:    60,
	},
}

var adversarialCases = []Scenario{
	{
		Name: "non_finite",
		Intensity: []float64{
			math.NaN(), math.Inf(1), 3, math.Inf(-1), -5,
			1e308, 2, math.NaN(), 4, 0,
		},
		Confidence: []float64{
			1, math.NaN(), -1, 2, math.Inf(1),
			0.5, math.Inf(-1), 0.3, 0.7, 1,
		},
	},
	{
		Name:       "huge",
		Intensity:  constant(60, 1e300),
		Confidence: constant(60, 0.5),
	},
	{
		Name:       "tiny",
		Intensity:  constant(60, 1e-300),
		Confidence: constant(60, 0.5),
	},
}

var mismatchedCases = []Scenario{
	{
		Name:       "short_confidence",
		Intensity:  linear(60, 1, 5),
		Confidence: []float64{0.9, 0.8, 0.7, 0.4},
	},
	{
		Name:       "long_confidence",
		Intensity:  linear(10, 4, 1),
		Confidence: constant(60, 0.6),
	},
	{
		Name:      "no_confidence",
		Intensity: constant(30, 2),
	},
}
