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

import (
	"slices"

	"seehuhn.de/go/raincurve/internal/num"
	"seehuhn.de/go/raincurve/noise"
)

// Run is a maximal half-open range [Start, End) of wet samples.
type Run struct {
	Start, End int
}

// Len returns the number of samples in the run.
func (r Run) Len() int {
	return r.End - r.Start
}

// WetRuns returns the maximal runs of samples strictly above thr.
func WetRuns[T float32 | float64](h []T, thr T) []Run {
	var runs []Run
	start := -1
	for i, v := range h {
		wet := v > thr
		switch {
		case wet && start < 0:
			start = i
		case !wet && start >= 0:
			runs = append(runs, Run{start, i})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, Run{start, len(h)})
	}
	return runs
}

// Smooth applies a triangular moving average with the given radius.
// Weights are (r+1)-|offset|; near the ends only in-range samples
// contribute and the weights are renormalised, so constants are preserved.
func Smooth(h []float64, radius int) []float64 {
	out := make([]float64, len(h))
	if radius <= 0 {
		copy(out, h)
		return out
	}
	n := len(h)
	for i := range n {
		var sum, wsum float64
		for o := -radius; o <= radius; o++ {
			j := i + o
			if j < 0 || j >= n {
				continue
			}
			w := float64(radius + 1 - abs(o))
			sum += w * h[j]
			wsum += w
		}
		out[i] = sum / wsum
	}
	return out
}

// EaseEdges tapers both ends of the curve to zero. The outermost
// k = min(round(n·fraction), n/2) samples on each side are multiplied by
// (i/k)^power, where i is the distance from the end.
func EaseEdges(h []float64, fraction, power float64) {
	n := len(h)
	k := EdgeSpan(n, fraction)
	for i := range k {
		w := num.Pow(float64(i)/float64(k), power)
		h[i] *= w
		h[n-1-i] *= w
	}
}

// EdgeSpan returns the number of samples affected by EaseEdges at each end.
func EdgeSpan(n int, fraction float64) int {
	return min(int(float64(n)*fraction+0.5), n/2)
}

// EaseWetSegments softens interior dry/wet transitions. For every wet run
// border that lies more than margin samples inside the curve, up to k
// samples next to the border are multiplied by ((j+1)/(k+1))^power.
// Borders within the margin are left to EaseEdges.
func EaseWetSegments(h []float64, thr float64, k, margin int, power float64) {
	if k <= 0 {
		return
	}
	n := len(h)
	for _, r := range WetRuns(h, thr) {
		kk := min(k, r.Len()/2)
		lead := r.Start > margin
		trail := r.End < n-margin
		for j := range kk {
			w := num.Pow(float64(j+1)/float64(kk+1), power)
			if lead {
				h[r.Start+j] *= w
			}
			if trail {
				h[r.End-1-j] *= w
			}
		}
	}
}

// Relief adds low-frequency undulation to long flat wet runs, so that a
// constant signal does not render as a ruler-straight slab. A run is
// eligible if it has at least p.ReliefMinRun samples and either its total
// range or the range of its upper quarter (75th percentile to maximum) is
// small relative to the run maximum.
//
// The offset at any sample is at most p.ReliefAmplitude times the run
// maximum. It fades in over p.ReliefTaper samples at each run end and is
// scaled by the local height fraction. Results are clamped to [0, maxH].
// Relief reports whether any run was modified.
func Relief(h []float64, thr, maxH, samplesPerMinute float64, p Params, seed uint64) bool {
	if p.ReliefAmplitude <= 0 {
		return false
	}
	seed2 := noise.Mix(seed, 2)
	applied := false
	for _, r := range WetRuns(h, thr) {
		if r.Len() < p.ReliefMinRun {
			continue
		}
		runMax, runMin := h[r.Start], h[r.Start]
		for _, v := range h[r.Start:r.End] {
			runMax = max(runMax, v)
			runMin = min(runMin, v)
		}
		if runMax <= thr {
			continue
		}

		flat := runMax-runMin <= p.ReliefFlatRange*runMax
		if !flat {
			vals := slices.Clone(h[r.Start:r.End])
			slices.Sort(vals)
			upper := vals[len(vals)*3/4]
			flat = runMax-upper <= p.ReliefCoreRange*runMax
		}
		if !flat {
			continue
		}

		amp := p.ReliefAmplitude * runMax
		for i := r.Start; i < r.End; i++ {
			minute := float64(i) / samplesPerMinute
			v := p.ReliefMix*noise.Value1D(seed, minute*p.ReliefFrequency) +
				(1-p.ReliefMix)*noise.Value1D(seed2, minute*p.ReliefFrequency2)
			edge := min(i-r.Start, r.End-1-i)
			w := num.Smoothstep(0, float64(p.ReliefTaper), float64(edge))
			w *= num.Clamp01(h[i] / runMax)
			h[i] = num.Clamp(h[i]+amp*v*w, 0, maxH)
		}
		applied = true
	}
	return applied
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
