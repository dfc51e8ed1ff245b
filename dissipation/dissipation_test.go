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
	"slices"
	"testing"

	"seehuhn.de/go/raincurve/geometry"
	"seehuhn.de/go/raincurve/signal"
	"seehuhn.de/go/raincurve/surface"
)

var testColors = Colors{Particle: surface.RGB8(40, 90, 200), Haze: surface.RGB8(200, 210, 230)}

func build(sp signal.Params, in, conf []float64) *geometry.Geometry {
	c := signal.Process(in, conf, signal.Frame{Width: 400, Height: 120}, sp, 7)
	return geometry.Build(c, geometry.Layout{Left: 0, Right: 400, Baseline: 120}, geometry.DefaultParams())
}

func series(n int, f func(i int) float64) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = f(i)
	}
	return xs
}

func ramp() *geometry.Geometry {
	return build(signal.DefaultParams(),
		series(60, func(i int) float64 { return 10 * float64(i) / 59 }),
		series(60, func(int) float64 { return 0.2 }))
}

func plateau() *geometry.Geometry {
	sp := signal.DefaultParams()
	sp.ReliefAmplitude = 0
	return build(sp,
		series(60, func(int) float64 { return 5 }),
		series(60, func(int) float64 { return 0.9 }))
}

func dry() *geometry.Geometry {
	return build(signal.DefaultParams(), make([]float64, 5), []float64{1, 1, 1, 1, 1})
}

func run(g *geometry.Geometry, p Params, profile Profile, seed uint64) (*Plan, *surface.Recorder) {
	r := NewRenderer(p, profile, seed, 1)
	r.ComputeBudget(g)
	plan := r.Emit()
	rec := surface.NewRecorder(400, 120)
	r.Composite(rec, testColors)
	return plan, rec
}

func TestSampler(t *testing.T) {
	s := NewSampler([]float64{0, 1, 3, 0, math.NaN(), -2})
	if s.Total() != 4 {
		t.Fatalf("total %g", s.Total())
	}
	counts := make([]int, 6)
	const n = 4000
	for k := range n {
		counts[s.Pick((float64(k)+0.5)/n)]++
	}
	if counts[0] != 0 || counts[3] != 0 || counts[4] != 0 || counts[5] != 0 {
		t.Errorf("zero weights picked: %v", counts)
	}
	if counts[1] != 1000 || counts[2] != 3000 {
		t.Errorf("counts %v, want 1000 and 3000", counts[1:3])
	}
	if i := s.Pick(0); i != 1 {
		t.Errorf("Pick(0) = %d", i)
	}
	if i := s.Pick(1); i != 2 {
		t.Errorf("Pick(1) = %d", i)
	}
	if i := NewSampler([]float64{0, 0}).Pick(0.5); i != -1 {
		t.Errorf("empty sampler picked %d", i)
	}
	if i := NewSampler(nil).Pick(0.5); i != -1 {
		t.Errorf("nil sampler picked %d", i)
	}
}

func TestStageOrder(t *testing.T) {
	r := NewRenderer(DefaultParams(), Full, 1, 1)
	if r.Stage() != StageIdle {
		t.Fatalf("stage %v", r.Stage())
	}
	func() {
		defer func() {
			if recover() == nil {
				t.Error("Emit before ComputeBudget did not panic")
			}
		}()
		r.Emit()
	}()

	r.ComputeBudget(ramp())
	if r.Stage() != StageBudget {
		t.Errorf("stage %v after budget", r.Stage())
	}
	r.Emit()
	r.Composite(surface.NewRecorder(1, 1), testColors)
	if r.Stage() != StageComposite {
		t.Errorf("stage %v after composite", r.Stage())
	}
}

func TestDryInputEmitsNothing(t *testing.T) {
	for _, profile := range []Profile{Full, Tight} {
		plan, rec := run(dry(), DefaultParams(), profile, 3)
		if plan.Budget.Total() != 0 || plan.Counts.Total() != 0 {
			t.Errorf("%v: budget %+v counts %+v", profile, plan.Budget, plan.Counts)
		}
		if len(rec.Ops) != 0 {
			t.Errorf("%v: %d drawing operations", profile, len(rec.Ops))
		}
	}
}

func TestBudgetMonotone(t *testing.T) {
	geoms := map[string]*geometry.Geometry{"ramp": ramp(), "plateau": plateau()}
	for name, g := range geoms {
		for seed := range uint64(4) {
			full, _ := run(g, DefaultParams(), Full, seed)
			tight, _ := run(g, DefaultParams(), Tight, seed)
			fb, tb := full.Budget, tight.Budget
			if tb.Speckle > fb.Speckle || tb.Diffusion > fb.Diffusion || tb.Erosion > fb.Erosion {
				t.Errorf("%s/%d: tight budget %+v exceeds full %+v", name, seed, tb, fb)
			}
			if tb.Macro != 0 || tb.Haze != 0 || tight.Macro != nil || tight.Haze != nil {
				t.Errorf("%s/%d: tight profile has macro grains or haze", name, seed)
			}
			if tight.Counts.Total() > full.Counts.Total() {
				t.Errorf("%s/%d: tight emitted %d > %d", name, seed, tight.Counts.Total(), full.Counts.Total())
			}
			p := DefaultParams()
			if tb.Speckle > p.Speckle.CapTight || tb.Diffusion > p.Diffusion.CapTight || tb.Erosion > p.Erosion.CapTight {
				t.Errorf("%s/%d: tight budget %+v exceeds the caps", name, seed, tb)
			}
		}
	}
}

func TestTightSkipsDisabledEffects(t *testing.T) {
	_, rec := run(ramp(), DefaultParams(), Tight, 11)
	for _, tag := range []string{"haze", "macro"} {
		if ops := rec.Tagged(tag); len(ops) != 0 {
			t.Errorf("tight profile drew %d %s operations", len(ops), tag)
		}
	}
	if len(rec.Tagged("speckle")) == 0 {
		t.Error("no speckles drawn")
	}

	_, rec = run(ramp(), DefaultParams(), Full, 11)
	for _, tag := range []string{"haze", "macro", "speckle", "erosion"} {
		if len(rec.Tagged(tag)) == 0 {
			t.Errorf("full profile drew no %s", tag)
		}
	}
}

func TestDrawCallsBounded(t *testing.T) {
	p := DefaultParams()
	p.Density = 3
	plan, rec := run(ramp(), p, Full, 5)
	if plan.Counts.Total() < 1000 {
		t.Fatalf("only %d particles", plan.Counts.Total())
	}
	if n := plan.DrawCalls(); n > 5*MaxBins {
		t.Errorf("%d draw calls for %d particles", n, plan.Counts.Total())
	}
	if fills := rec.Count(surface.OpFill); fills > plan.DrawCalls() {
		t.Errorf("%d fills, plan needs %d", fills, plan.DrawCalls())
	}
	for _, bins := range [][]Bin{plan.Speckles, plan.Macro, plan.Diffusion, plan.Erosion, plan.Haze} {
		if len(bins) > MaxBins {
			t.Errorf("%d bins", len(bins))
		}
	}
}

func TestDeterministic(t *testing.T) {
	a, _ := run(ramp(), DefaultParams(), Full, 42)
	b, _ := run(ramp(), DefaultParams(), Full, 42)
	c, _ := run(ramp(), DefaultParams(), Full, 43)
	coords := func(p *Plan) []float64 {
		var out []float64
		for _, bins := range [][]Bin{p.Speckles, p.Macro, p.Diffusion, p.Erosion, p.Haze} {
			for _, b := range bins {
				for _, v := range b.Path.Coords {
					out = append(out, v.X, v.Y)
				}
			}
		}
		return out
	}
	if !slices.Equal(coords(a), coords(b)) || a.Counts != b.Counts {
		t.Error("same seed gave different particles")
	}
	if slices.Equal(coords(a), coords(c)) {
		t.Error("different seeds gave the same particles")
	}
}

func TestErosionInside(t *testing.T) {
	g := ramp()
	plan, _ := run(g, DefaultParams(), Full, 8)
	if plan.Counts.Erosion == 0 {
		t.Fatal("no erosion")
	}
	for _, b := range plan.Erosion {
		for _, v := range b.Path.Coords {
			// vertices may poke out by the radius, centres are above the baseline
			if v.Y > g.Layout.Baseline+DefaultParams().Erosion.RadiusMax {
				t.Fatalf("erosion particle below the baseline: %v", v)
			}
		}
	}
}

func TestPepperDamp(t *testing.T) {
	g := plateau()
	r := NewRenderer(DefaultParams(), Full, 1, 1)
	r.ComputeBudget(g)
	mid := len(r.damp) / 2
	if r.damp[mid] > 0.3 {
		t.Errorf("plateau damp %g", r.damp[mid])
	}
	if r.damp[5] <= r.damp[mid] {
		t.Errorf("edge damp %g not above plateau damp %g", r.damp[5], r.damp[mid])
	}
}

func TestClampClosure(t *testing.T) {
	p := DefaultParams()
	p.Density = math.Inf(1)
	p.Speckle.Alpha = 7
	p.Speckle.RadiusMax = math.NaN()
	p.Erosion.Bins = 99
	p.Haze.CapTight = 5000
	p.TightAlpha = -1
	p.StrengthWeight = math.NaN()

	g := ramp()
	g.Strength[3] = math.NaN()
	g.SegmentStrength[4] = 12
	g.SegmentStrength[5] = math.Inf(-1)

	for _, profile := range []Profile{Full, Tight} {
		plan, rec := run(g, p, profile, 2)
		for _, op := range rec.Ops {
			if op.Kind != surface.OpFill {
				continue
			}
			if a := op.Paint.Alpha; !(a >= 0 && a <= 1) {
				t.Fatalf("%v: fill alpha %g", profile, a)
			}
		}
		for _, bins := range [][]Bin{plan.Speckles, plan.Diffusion, plan.Erosion} {
			if len(bins) > MaxBins {
				t.Fatalf("%v: %d bins", profile, len(bins))
			}
			for _, b := range bins {
				if !(b.Alpha >= 0 && b.Alpha <= 1) {
					t.Fatalf("%v: bin alpha %g", profile, b.Alpha)
				}
			}
		}
	}
}

func TestParseProfile(t *testing.T) {
	for in, want := range map[string]Profile{"full": Full, " Tight ": Tight} {
		got, err := ParseProfile(in)
		if err != nil || got != want {
			t.Errorf("ParseProfile(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseProfile("medium"); err == nil {
		t.Error("unknown profile accepted")
	}
	var p Profile
	if err := p.UnmarshalText([]byte("tight")); err != nil || p != Tight {
		t.Errorf("UnmarshalText: %v, %v", p, err)
	}
}
