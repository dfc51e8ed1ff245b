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
	"math"
	"sort"
)

// Sampler draws indices with probability proportional to their weight.
// Each draw is a binary search over the cumulative weights.
type Sampler struct {
	cum []float64
}

// NewSampler builds a sampler. Negative and non-finite weights count as 0.
func NewSampler(weights []float64) *Sampler {
	cum := make([]float64, len(weights))
	var total float64
	for i, w := range weights {
		if w > 0 && !math.IsInf(w, 1) {
			total += w
		}
		cum[i] = total
	}
	return &Sampler{cum: cum}
}

// Total returns the sum of all weights.
func (s *Sampler) Total() float64 {
	if len(s.cum) == 0 {
		return 0
	}
	return s.cum[len(s.cum)-1]
}

// Pick maps u in [0, 1) to an index. Indices with zero weight are never
// returned. Pick returns -1 if the total weight is zero.
func (s *Sampler) Pick(u float64) int {
	total := s.Total()
	if !(total > 0) {
		return -1
	}
	target := min(max(u, 0), 1) * total
	i := sort.Search(len(s.cum), func(i int) bool { return s.cum[i] > target })
	if i == len(s.cum) {
		// u == 1 and rounding: fall back to the last positive weight
		i = sort.SearchFloat64s(s.cum, total)
	}
	return i
}
