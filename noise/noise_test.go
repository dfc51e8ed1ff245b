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

import (
	"math"
	"testing"
)

func TestStreamReproducible(t *testing.T) {
	a := Stream(42, SaltSpeckle)
	b := Stream(42, SaltSpeckle)
	for i := range 1000 {
		x, y := a.Float64(), b.Float64()
		if x != y {
			t.Fatalf("draw %d: %g != %g", i, x, y)
		}
		if x < 0 || x >= 1 {
			t.Fatalf("draw %d: %g outside [0,1)", i, x)
		}
	}
}

func TestSignedRange(t *testing.T) {
	r := New(7)
	var lo, hi float64
	for range 10000 {
		v := r.Signed()
		if v < -1 || v >= 1 {
			t.Fatalf("signed value %g outside [-1,1)", v)
		}
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if lo > -0.99 || hi < 0.99 {
		t.Errorf("signed values do not cover the range: [%g, %g]", lo, hi)
	}
}

func TestMixOrderSensitive(t *testing.T) {
	const seed = 12345
	if Mix(Mix(seed, 1), 2) == Mix(Mix(seed, 2), 1) {
		t.Error("mixing is not order-sensitive")
	}
	if Mix(seed, SaltSpeckle) == Mix(seed, SaltDiffusion) {
		t.Error("different salts give the same seed")
	}
}

// TestStreamsDecorrelated checks that salted streams of the same seed are
// not trivially correlated.
func TestStreamsDecorrelated(t *testing.T) {
	const n = 4000
	a := Stream(99, SaltSpeckle)
	b := Stream(99, SaltErosion)
	var sa, sb, sab, saa, sbb float64
	for range n {
		x, y := a.Signed(), b.Signed()
		sa += x
		sb += y
		sab += x * y
		saa += x * x
		sbb += y * y
	}
	cov := sab/n - (sa/n)*(sb/n)
	corr := cov / math.Sqrt((saa/n-(sa/n)*(sa/n))*(sbb/n-(sb/n)*(sb/n)))
	if math.Abs(corr) > 0.06 {
		t.Errorf("streams correlated: r=%.3f", corr)
	}
}

func TestSplitDoesNotAdvance(t *testing.T) {
	r := New(5)
	ref := New(5)
	_ = r.Split(SaltHaze)
	if r.Uint64() != ref.Uint64() {
		t.Error("Split advanced the parent generator")
	}
}

func TestValue1D(t *testing.T) {
	const seed = 3
	for i := range 2000 {
		x := float64(i)*0.037 - 20
		v := Value1D(seed, x)
		if v < -1 || v > 1 {
			t.Fatalf("Value1D(%g) = %g", x, v)
		}
		if v != Value1D(seed, x) {
			t.Fatal("Value1D not deterministic")
		}
	}
	// continuity across lattice points
	if d := math.Abs(Value1D(seed, 4-1e-9) - Value1D(seed, 4+1e-9)); d > 1e-6 {
		t.Errorf("discontinuity at lattice point: %g", d)
	}
	if v := Value1D(seed, math.NaN()); v != 0 {
		t.Errorf("Value1D(NaN) = %g", v)
	}
	if v := Fractal1D(seed, 1.7, 3); v < -1 || v > 1 {
		t.Errorf("Fractal1D out of range: %g", v)
	}
}

func TestTilesSeamless(t *testing.T) {
	tex := NewTextures(11)
	for _, g := range []Grain{GrainFine, GrainCoarse} {
		t.Run(g.String(), func(t *testing.T) {
			tile := tex.Tile(g)
			n := tile.Size()
			var maxJump, meanStep float64
			for y := range n {
				for x := range n {
					v := tile.Alpha(x, y)
					if v < 0 || v > 1 {
						t.Fatalf("value %g at (%d,%d)", v, x, y)
					}
					if tile.Alpha(x+n, y-n) != v {
						t.Fatalf("tile does not repeat at (%d,%d)", x, y)
					}
					step := math.Abs(float64(tile.Alpha(x+1, y) - v))
					meanStep += step
					if x == n-1 {
						maxJump = max(maxJump, step)
					}
				}
			}
			meanStep /= float64(n * n)
			// the wrap-around step should look like any other step
			if maxJump > 20*meanStep+0.5 {
				t.Errorf("seam: max wrap step %.3f, mean step %.3f", maxJump, meanStep)
			}
		})
	}
}

func TestTexturesDeterministic(t *testing.T) {
	a := NewTextures(8).Tile(GrainCoarse)
	b := NewTextures(8).Tile(GrainCoarse)
	for i := range a.pix {
		if a.pix[i] != b.pix[i] {
			t.Fatalf("pixel %d differs", i)
		}
	}
	if NewTextures(8).Tile(Grain(17)) == nil {
		t.Error("unknown grain returned nil")
	}
}
