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

package geometry

import (
	"math"
	"testing"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/raincurve/signal"
)

var testLayout = Layout{Left: 10, Right: 410, Baseline: 130}

// stepCurve has n samples, the first wet ones at height h.
func stepCurve(n, wet int, h float32) signal.Curve {
	c := signal.Curve{
		Heights:          make([]float32, n),
		Confidences:      make([]float32, n),
		MaxHeight:        100,
		WetThreshold:     1,
		SamplesPerMinute: 2,
	}
	for i := range n {
		if i < wet {
			c.Heights[i] = h
		}
		c.Confidences[i] = 0.5
	}
	return c
}

func signedArea(p *path.Data) []float64 {
	var areas []float64
	var sub []vec.Vec2
	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo, path.CmdLineTo:
			sub = append(sub, p.Coords[k])
			k++
		case path.CmdClose:
			var a float64
			for i, v := range sub {
				w := sub[(i+1)%len(sub)]
				a += v.X*w.Y - w.X*v.Y
			}
			areas = append(areas, a/2)
			sub = sub[:0]
		}
	}
	return areas
}

func TestNormals(t *testing.T) {
	pts := []vec.Vec2{{X: 0, Y: 5}, {X: 1, Y: 5}, {X: 2, Y: 5}}
	for i, n := range Normals(pts) {
		if n != (vec.Vec2{X: 0, Y: -1}) {
			t.Errorf("flat normal %d = %v", i, n)
		}
	}

	same := []vec.Vec2{{X: 3, Y: 3}, {X: 3, Y: 3}}
	for i, n := range Normals(same) {
		if n != (vec.Vec2{X: 0, Y: -1}) {
			t.Errorf("degenerate normal %d = %v", i, n)
		}
	}

	// rising to the right in screen space: y decreases
	rise := []vec.Vec2{{X: 0, Y: 10}, {X: 1, Y: 9}, {X: 2, Y: 8}}
	n := Normals(rise)[1]
	want := vec.Vec2{X: -1 / math.Sqrt2, Y: -1 / math.Sqrt2}
	if math.Abs(n.X-want.X) > 1e-12 || math.Abs(n.Y-want.Y) > 1e-12 {
		t.Errorf("normal %v, want %v", n, want)
	}
}

func TestBuildEmpty(t *testing.T) {
	g := Build(signal.Curve{WetThreshold: 1}, testLayout, DefaultParams())
	if g.HasSilhouette() || g.Len() != 0 {
		t.Error("empty curve has a silhouette")
	}
	if g.Baseline == nil || len(g.Baseline.Coords) != 2 {
		t.Error("missing baseline")
	}
}

func TestBuildDry(t *testing.T) {
	g := Build(stepCurve(30, 0, 0), testLayout, DefaultParams())
	if g.HasSilhouette() || len(g.Runs) != 0 || len(g.Erosion) != 0 {
		t.Error("dry curve has a silhouette")
	}
	for i, s := range g.Strength {
		if s != 0 {
			t.Fatalf("dry strength %d = %g", i, s)
		}
	}
}

func TestBuildPoints(t *testing.T) {
	c := stepCurve(5, 5, 20)
	g := Build(c, testLayout, DefaultParams())
	if g.Points[0].X != 10 || g.Points[4].X != 410 {
		t.Errorf("x range %g..%g", g.Points[0].X, g.Points[4].X)
	}
	if g.Points[2].Y != 110 {
		t.Errorf("y = %g, want 110", g.Points[2].Y)
	}
	if len(g.SegmentStrength) != 4 {
		t.Errorf("%d segments", len(g.SegmentStrength))
	}
	for i, s := range g.SegmentStrength {
		if want := 0.5 * (g.Strength[i] + g.Strength[i+1]); s != want {
			t.Errorf("segment %d: %g, want %g", i, s, want)
		}
	}
	sil := g.Silhouette
	if sil.Coords[0] != (vec.Vec2{X: 10, Y: 130}) || sil.Cmds[len(sil.Cmds)-1] != path.CmdClose {
		t.Error("silhouette does not start on the baseline or is not closed")
	}
}

func TestTail(t *testing.T) {
	p := DefaultParams()
	c := stepCurve(40, 20, 30)
	g := Build(c, testLayout, p)

	// 6 minutes at 2 samples per minute
	const dist = 12
	for i := 20; i < 40; i++ {
		d := i - 19
		s := g.Strength[i]
		switch {
		case d > dist:
			if s != 0 {
				t.Errorf("sample %d beyond tail has strength %g", i, s)
			}
		case s < p.TailMin || s > g.Strength[19]:
			t.Errorf("tail sample %d: strength %g", i, s)
		case i > 20 && s > g.Strength[i-1]:
			t.Errorf("tail increases at %d", i)
		}
		if g.Heights[i] != 0 {
			t.Errorf("tail changed height %d", i)
		}
	}
	if g.Strength[19+dist] != p.TailMin {
		t.Errorf("tail end %g, want %g", g.Strength[19+dist], p.TailMin)
	}
}

func TestWetStrengthMonotone(t *testing.T) {
	p := DefaultParams()
	prev := 2.0
	for c := 0.0; c <= 1; c += 0.05 {
		s := WetStrength(c, 0.5, 0.2, p)
		if s > prev+1e-12 {
			t.Fatalf("strength increases with confidence at %g", c)
		}
		prev = s
	}
	prev = -1
	for slope := 0.0; slope < 3; slope += 0.1 {
		s := WetStrength(0.5, 0.5, slope, p)
		if s < prev-1e-12 {
			t.Fatalf("strength decreases with slope at %g", slope)
		}
		prev = s
	}
	if WetStrength(0.5, 0.01, 0, p) <= WetStrength(0.5, 0.9, 0, p) {
		t.Error("no low height boost")
	}
}

// TestRampScenario builds a rising series with low confidence.
func TestRampScenario(t *testing.T) {
	in := make([]float64, 60)
	conf := make([]float64, 60)
	for i := range in {
		in[i] = 10 * float64(i) / 59
		conf[i] = 0.2
	}
	c := signal.Process(in, conf, signal.Frame{Width: 400, Height: 120}, signal.DefaultParams(), 1)
	p := DefaultParams()
	g := Build(c, testLayout, p)
	if !g.HasSilhouette() {
		t.Fatal("no silhouette")
	}

	dist := p.TailMinutes * g.SamplesPerMinute
	for i, s := range g.Strength {
		if s < 0 || s > 1 {
			t.Fatalf("strength %d = %g", i, s)
		}
		if g.Wet[i] {
			if s < WetStrength(0.2, 1, 0, p)-1e-6 {
				t.Errorf("wet sample %d below base strength: %g", i, s)
			}
			continue
		}
		near := math.Inf(1)
		for j, w := range g.Wet {
			if w {
				near = min(near, math.Abs(float64(i-j)))
			}
		}
		if s > 0 && near > dist {
			t.Errorf("dry sample %d at distance %g has strength %g", i, near, s)
		}
	}
}

func TestBuildAdversarial(t *testing.T) {
	c := stepCurve(20, 20, 30)
	c.Heights[3] = float32(math.NaN())
	c.Heights[4] = float32(math.Inf(1))
	c.Heights[5] = -7
	c.Confidences[6] = float32(math.NaN())
	c.Confidences[7] = 4
	c.SamplesPerMinute = math.NaN()
	p := DefaultParams()
	p.TailExponent = math.Inf(-1)
	p.ErosionBins = 100
	g := Build(c, Layout{Left: math.NaN(), Right: 50, Baseline: math.Inf(1)}, p)
	for i := range g.Len() {
		if s := g.Strength[i]; !(s >= 0 && s <= 1) {
			t.Fatalf("strength %d = %g", i, s)
		}
		if h := g.Heights[i]; !(h >= 0 && h <= g.MaxHeight) {
			t.Fatalf("height %d = %g", i, h)
		}
		pt := g.Points[i]
		if math.IsNaN(pt.X) || math.IsNaN(pt.Y) || math.IsInf(pt.Y, 0) {
			t.Fatalf("point %d = %v", i, pt)
		}
	}
	if len(g.Erosion) > 8 {
		t.Errorf("%d erosion bands", len(g.Erosion))
	}
}

func TestErosionBands(t *testing.T) {
	c := stepCurve(60, 60, 40)
	for i := range c.Confidences {
		c.Confidences[i] = float32(i) / 59
	}
	g := Build(c, testLayout, DefaultParams())
	if len(g.Erosion) == 0 || len(g.Erosion) > 4 {
		t.Fatalf("%d bands", len(g.Erosion))
	}
	for _, b := range g.Erosion {
		if !(b.Strength > 0 && b.Strength < 1) {
			t.Errorf("band strength %g", b.Strength)
		}
		for _, a := range signedArea(b.Path) {
			if a > 0 {
				t.Fatalf("band strip with positive orientation: %g", a)
			}
		}
		for _, q := range b.Path.Coords {
			if q.Y > testLayout.Baseline {
				t.Fatalf("strip below the baseline: %v", q)
			}
		}
	}
}

func TestAppendPolygonOrientation(t *testing.T) {
	p := &path.Data{}
	sq := []vec.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
	AppendPolygon(p, sq...)
	rev := []vec.Vec2{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 0}}
	AppendPolygon(p, rev...)
	AppendCircle(p, vec.Vec2{X: 5, Y: 5}, 2, CircleSides(2), 0.3)
	areas := signedArea(p)
	if len(areas) != 3 {
		t.Fatalf("%d subpaths", len(areas))
	}
	for i, a := range areas {
		if a >= 0 {
			t.Errorf("subpath %d has area %g", i, a)
		}
	}
	AppendPolygon(p, sq[:2]...)
	if len(signedArea(p)) != 3 {
		t.Error("degenerate polygon was added")
	}
}
