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

package raster

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"testing"

	"golang.org/x/image/vector"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// polygon builds a closed polygon path.
func polygon(pts ...vec.Vec2) *path.Data {
	p := &path.Data{}
	for i, pt := range pts {
		if i == 0 {
			p.Cmds = append(p.Cmds, path.CmdMoveTo)
		} else {
			p.Cmds = append(p.Cmds, path.CmdLineTo)
		}
		p.Coords = append(p.Coords, pt)
	}
	p.Cmds = append(p.Cmds, path.CmdClose)
	return p
}

// polyline builds an open path.
func polyline(pts ...vec.Vec2) *path.Data {
	p := polygon(pts...)
	p.Cmds = p.Cmds[:len(p.Cmds)-1]
	return p
}

func render(r *Rasterizer, w, h int, draw func(EmitFunc)) []float32 {
	buf := make([]float32, w*h)
	draw(func(y, xMin int, coverage []float32) {
		copy(buf[y*w+xMin:], coverage)
	})
	return buf
}

// TestTriangleCoverage verifies exact coverage values for a simple triangle.
// The triangle (0,0)→(10,0)→(10,1)→close has a diagonal edge y = x/10.
// Each pixel X should have coverage (2X+1)/20: 0.05, 0.15, ..., 0.95.
func TestTriangleCoverage(t *testing.T) {
	tri := polygon(vec.Vec2{X: 0, Y: 0}, vec.Vec2{X: 10, Y: 0}, vec.Vec2{X: 10, Y: 1})

	for _, threshold := range []int{1 << 30, 0} {
		t.Run(fmt.Sprintf("threshold%d", threshold), func(t *testing.T) {
			r := NewRasterizer(rect.Rect{LLx: 0, LLy: 0, URx: 10, URy: 1})
			r.smallPathThreshold = threshold
			cov := render(r, 10, 1, func(emit EmitFunc) { r.FillNonZero(tri, emit) })

			const epsilon = 1e-6
			for x := range 10 {
				want := float32(2*x+1) / 20
				if math.Abs(float64(cov[x]-want)) > epsilon {
					t.Errorf("pixel %d: expected coverage %.4f, got %.4f", x, want, cov[x])
				}
			}
		})
	}
}

// TestApproachesAgree checks that the 2D buffer and the active edge list
// produce the same coverage.
func TestApproachesAgree(t *testing.T) {
	shapes := map[string]*path.Data{
		"star": star(32, 32, 25),
		"wave": polygon(
			vec.Vec2{X: 2, Y: 60}, vec.Vec2{X: 10, Y: 20}, vec.Vec2{X: 25, Y: 35},
			vec.Vec2{X: 40, Y: 8}, vec.Vec2{X: 62, Y: 40}, vec.Vec2{X: 62, Y: 60}),
	}
	for name, p := range shapes {
		t.Run(name, func(t *testing.T) {
			clip := rect.Rect{URx: 64, URy: 64}
			a := NewRasterizer(clip)
			a.smallPathThreshold = 1 << 30
			b := NewRasterizer(clip)
			b.smallPathThreshold = 0

			for _, evenOdd := range []bool{false, true} {
				ca := render(a, 64, 64, func(emit EmitFunc) { fill(a, p, evenOdd, emit) })
				cb := render(b, 64, 64, func(emit EmitFunc) { fill(b, p, evenOdd, emit) })
				for i := range ca {
					if math.Abs(float64(ca[i]-cb[i])) > 1e-5 {
						t.Fatalf("evenOdd=%v: pixel %d differs: %g vs %g", evenOdd, i, ca[i], cb[i])
					}
				}
			}
		})
	}
}

func fill(r *Rasterizer, p *path.Data, evenOdd bool, emit EmitFunc) {
	if evenOdd {
		r.FillEvenOdd(p, emit)
	} else {
		r.FillNonZero(p, emit)
	}
}

func star(cx, cy, radius float64) *path.Data {
	pts := make([]vec.Vec2, 5)
	for i, k := range []int{0, 2, 4, 1, 3} {
		angle := float64(k)*2*math.Pi/5 - math.Pi/2
		pts[i] = vec.Vec2{X: cx + radius*math.Cos(angle), Y: cy + radius*math.Sin(angle)}
	}
	return polygon(pts...)
}

func TestEvenOddStarHasHole(t *testing.T) {
	clip := rect.Rect{URx: 64, URy: 64}
	r := NewRasterizer(clip)
	nz := render(r, 64, 64, func(emit EmitFunc) { r.FillNonZero(star(32, 32, 25), emit) })
	eo := render(r, 64, 64, func(emit EmitFunc) { r.FillEvenOdd(star(32, 32, 25), emit) })

	centre := 32*64 + 32
	if nz[centre] < 0.99 {
		t.Errorf("nonzero centre coverage %g, want 1", nz[centre])
	}
	if eo[centre] > 0.01 {
		t.Errorf("even-odd centre coverage %g, want 0", eo[centre])
	}
}

// TestStrokeHorizontal checks the coverage of a horizontal stroke with butt
// caps, which must be exactly the rectangle it spans.
func TestStrokeHorizontal(t *testing.T) {
	r := NewRasterizer(rect.Rect{URx: 20, URy: 10})
	r.Width = 2
	r.Cap = graphics.LineCapButt
	line := polyline(vec.Vec2{X: 5, Y: 5}, vec.Vec2{X: 15, Y: 5})
	cov := render(r, 20, 10, func(emit EmitFunc) { r.Stroke(line, emit) })

	for y := range 10 {
		for x := range 20 {
			want := float32(0)
			if x >= 5 && x < 15 && (y == 4 || y == 5) {
				want = 1
			}
			if got := cov[y*20+x]; math.Abs(float64(got-want)) > 1e-5 {
				t.Errorf("pixel (%d,%d): got %g, want %g", x, y, got, want)
			}
		}
	}
}

// TestStrokeJoinsUnion checks that overlapping stroke pieces never exceed
// full coverage and that a round joined zigzag has no gaps at its corners.
func TestStrokeJoinsUnion(t *testing.T) {
	zigzag := polyline(
		vec.Vec2{X: 4, Y: 28}, vec.Vec2{X: 16, Y: 6}, vec.Vec2{X: 28, Y: 28},
		vec.Vec2{X: 40, Y: 6}, vec.Vec2{X: 52, Y: 28})

	joins := []graphics.LineJoinStyle{graphics.LineJoinRound, graphics.LineJoinBevel, graphics.LineJoinMiter}
	for _, join := range joins {
		t.Run(join.String(), func(t *testing.T) {
			r := NewRasterizer(rect.Rect{URx: 56, URy: 36})
			r.Width = 4
			r.Join = join
			cov := render(r, 56, 36, func(emit EmitFunc) { r.Stroke(zigzag, emit) })
			for i, c := range cov {
				if c < 0 || c > 1 {
					t.Fatalf("pixel %d: coverage %g out of range", i, c)
				}
			}
			// the corner vertices themselves are always painted
			for _, pt := range []vec.Vec2{{X: 16, Y: 6}, {X: 28, Y: 27}, {X: 40, Y: 6}} {
				if c := cov[int(pt.Y)*56+int(pt.X)]; c < 0.9 {
					t.Errorf("corner %v: coverage %g", pt, c)
				}
			}
		})
	}
}

func TestStrokeDegenerate(t *testing.T) {
	dot := polyline(vec.Vec2{X: 8, Y: 8})
	for _, style := range []graphics.LineCapStyle{graphics.LineCapButt, graphics.LineCapRound, graphics.LineCapSquare} {
		r := NewRasterizer(rect.Rect{URx: 16, URy: 16})
		r.Width = 6
		r.Cap = style
		cov := render(r, 16, 16, func(emit EmitFunc) { r.Stroke(dot, emit) })
		centre := cov[8*16+8]
		if style == graphics.LineCapButt {
			if centre != 0 {
				t.Errorf("butt cap dot painted coverage %g", centre)
			}
		} else if centre < 0.99 {
			t.Errorf("%s cap dot: centre coverage %g", style, centre)
		}
	}
}

func TestNonFiniteCoordinatesIgnored(t *testing.T) {
	r := NewRasterizer(rect.Rect{URx: 8, URy: 8})
	bad := polygon(vec.Vec2{X: 1, Y: 1}, vec.Vec2{X: math.NaN(), Y: 4}, vec.Vec2{X: 6, Y: math.Inf(1)})
	r.FillNonZero(bad, func(y, xMin int, coverage []float32) {
		for _, c := range coverage {
			if math.IsNaN(float64(c)) || c < 0 || c > 1 {
				t.Fatalf("invalid coverage %g", c)
			}
		}
	})
}

func TestDiscSegments(t *testing.T) {
	if n := DiscSegments(0.5, 0.25); n != 6 {
		t.Errorf("tiny disc: %d segments", n)
	}
	small, large := DiscSegments(3, 0.25), DiscSegments(30, 0.25)
	if small >= large {
		t.Errorf("segment count not increasing with radius: %d, %d", small, large)
	}
	if n := DiscSegments(1e9, 0.25); n != 96 {
		t.Errorf("huge disc: %d segments", n)
	}
}

// BenchmarkFillWave compares the rasterizer with x/image/vector on a
// silhouette-like polygon.
func BenchmarkFillWave(b *testing.B) {
	const w, h = 360, 120
	pts := make([]vec.Vec2, 0, 182)
	pts = append(pts, vec.Vec2{X: 0, Y: h})
	for i := range 180 {
		x := float64(i) * 2
		pts = append(pts, vec.Vec2{X: x, Y: h - 40 - 30*math.Sin(x/25)})
	}
	pts = append(pts, vec.Vec2{X: 358, Y: h})
	wave := polygon(pts...)

	b.Run("raster", func(b *testing.B) {
		r := NewRasterizer(rect.Rect{URx: w, URy: h})
		dst := image.NewAlpha(image.Rect(0, 0, w, h))
		b.ReportAllocs()
		for b.Loop() {
			r.FillNonZero(wave, func(y, xMin int, coverage []float32) {
				row := dst.Pix[y*dst.Stride+xMin:]
				for i, c := range coverage {
					row[i] = uint8(c * 255)
				}
			})
		}
	})

	b.Run("vector", func(b *testing.B) {
		z := vector.NewRasterizer(w, h)
		dst := image.NewAlpha(image.Rect(0, 0, w, h))
		src := image.NewUniform(color.Alpha{255})
		b.ReportAllocs()
		for b.Loop() {
			z.Reset(w, h)
			z.MoveTo(float32(pts[0].X), float32(pts[0].Y))
			for _, pt := range pts[1:] {
				z.LineTo(float32(pt.X), float32(pt.Y))
			}
			z.ClosePath()
			z.Draw(dst, dst.Bounds(), src, image.Point{})
		}
	})
}
