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

// Package raster converts vector paths into anti-aliased pixel coverage.
//
// Coverage is the fraction of each pixel covered by the filled or stroked
// shape, from 0 (outside) to 1 (inside). Results are delivered one scanline
// at a time through an emit callback, so callers can composite directly
// into their own pixel buffers.
package raster

import (
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// EmitFunc receives the coverage of one scanline. The coverage slice starts
// at pixel xMin and is only valid for the duration of the call.
type EmitFunc func(y, xMin int, coverage []float32)

// edge is a line segment in device coordinates.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64 // (x1-x0)/(y1-y0)
}

// Rasterizer converts paths to pixel coverage. Create one instance per
// render and reuse it for all paths; internal buffers grow as needed but
// never shrink.
//
// A Rasterizer is not safe for concurrent use.
type Rasterizer struct {
	// CTM transforms from user space to device space. Must be non-singular.
	CTM matrix.Matrix

	// Clip bounds output to this device-coordinate rectangle.
	// Coordinates must be integer-aligned.
	Clip rect.Rect

	// Flatness controls curve approximation accuracy in device pixels.
	Flatness float64

	// Width is the stroke width in user-space units.
	Width float64

	// Cap is the style used for the ends of open stroked subpaths.
	Cap graphics.LineCapStyle

	// Join is the style used where stroked segments meet.
	Join graphics.LineJoinStyle

	// MiterLimit caps the length of miter joins. Must be at least 1.
	MiterLimit float64

	smallPathThreshold int

	cover       []float32 // cover change per pixel; reused as output
	area        []float32 // area within pixel
	edges       []edge
	activeIdx   []int
	rowHasEdges []bool
	crossings   []float64

	// stroke scratch buffers, see stroke.go
	line   []vec.Vec2 // flattened points of the current subpath
	poly   []vec.Vec2 // outline piece being emitted
	closed bool       // whether the current subpath was closed

	bboxEmpty        bool
	devXMin, devXMax float64
	devYMin, devYMax float64
}

// NewRasterizer returns a Rasterizer for the given clip rectangle, with an
// identity CTM and round caps and joins.
func NewRasterizer(clip rect.Rect) *Rasterizer {
	r := &Rasterizer{}
	r.Reset(clip)
	return r
}

// Reset restores the default parameters for a new clip rectangle while
// keeping the capacity of the internal buffers.
func (r *Rasterizer) Reset(clip rect.Rect) {
	r.CTM = matrix.Identity
	r.Clip = clip
	r.Flatness = defaultFlatness
	r.Width = 1
	r.Cap = graphics.LineCapRound
	r.Join = graphics.LineJoinRound
	r.MiterLimit = defaultMiterLimit
	r.smallPathThreshold = smallPathThreshold

	r.edges = r.edges[:0]
	r.activeIdx = r.activeIdx[:0]
	r.crossings = r.crossings[:0]
	r.line = r.line[:0]
	r.poly = r.poly[:0]
}

// FillNonZero fills the path using the nonzero winding rule.
func (r *Rasterizer) FillNonZero(p *path.Data, emit EmitFunc) {
	r.beginEdges()
	r.addPathEdges(p)
	r.rasterize(fillNonZero, emit)
}

// FillEvenOdd fills the path using the even-odd rule.
func (r *Rasterizer) FillEvenOdd(p *path.Data, emit EmitFunc) {
	r.beginEdges()
	r.addPathEdges(p)
	r.rasterize(fillEvenOdd, emit)
}

type fillRule int

const (
	fillNonZero fillRule = iota
	fillEvenOdd
)

// transformLinear applies only the 2×2 linear part of the CTM.
func (r *Rasterizer) transformLinear(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: r.CTM[0]*v.X + r.CTM[2]*v.Y,
		Y: r.CTM[1]*v.X + r.CTM[3]*v.Y,
	}
}

// flattenQuadratic emits line segments approximating a quadratic Bézier.
func (r *Rasterizer) flattenQuadratic(p0, p1, p2 vec.Vec2, emit func(from, to vec.Vec2)) {
	e := p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25)
	n := 1
	if errDev := r.transformLinear(e).Length(); errDev > r.Flatness {
		n = int(math.Ceil(math.Sqrt(errDev / r.Flatness)))
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		omt := 1 - t
		pt := p0.Mul(omt * omt).Add(p1.Mul(2 * omt * t)).Add(p2.Mul(t * t))
		emit(prev, pt)
		prev = pt
	}
}

// flattenCubic emits line segments approximating a cubic Bézier.
// The segment count follows Wang's formula.
func (r *Rasterizer) flattenCubic(p0, p1, p2, p3 vec.Vec2, emit func(from, to vec.Vec2)) {
	d1 := r.transformLinear(p0.Sub(p1.Mul(2)).Add(p2))
	d2 := r.transformLinear(p1.Sub(p2.Mul(2)).Add(p3))

	n := 1
	if m := max(d1.Length(), d2.Length()); m > 0 {
		if nf := math.Sqrt(3 * m / (4 * r.Flatness)); nf > 1 {
			n = int(math.Ceil(nf))
		}
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		omt := 1 - t
		omt2 := omt * omt
		t2 := t * t
		pt := p0.Mul(omt2 * omt).Add(p1.Mul(3 * omt2 * t)).Add(p2.Mul(3 * omt * t2)).Add(p3.Mul(t2 * t))
		emit(prev, pt)
		prev = pt
	}
}

// addPathEdges walks the path and appends its flattened edges.
// Open subpaths are closed implicitly, as required for filling.
func (r *Rasterizer) addPathEdges(p *path.Data) {
	if p == nil {
		return
	}
	var current, start vec.Vec2
	open := false
	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			if open && current != start {
				r.addEdge(current, start)
			}
			current = p.Coords[k]
			start = current
			open = true
			k++
		case path.CmdLineTo:
			r.addEdge(current, p.Coords[k])
			current = p.Coords[k]
			k++
		case path.CmdQuadTo:
			r.flattenQuadratic(current, p.Coords[k], p.Coords[k+1], r.addEdge)
			current = p.Coords[k+1]
			k += 2
		case path.CmdCubeTo:
			r.flattenCubic(current, p.Coords[k], p.Coords[k+1], p.Coords[k+2], r.addEdge)
			current = p.Coords[k+2]
			k += 3
		case path.CmdClose:
			if current != start {
				r.addEdge(current, start)
			}
			current = start
			open = false
		}
	}
	if open && current != start {
		r.addEdge(current, start)
	}
}

func (r *Rasterizer) beginEdges() {
	r.edges = r.edges[:0]
	r.bboxEmpty = true
}

// addEdge adds an edge given in user space.
func (r *Rasterizer) addEdge(p0, p1 vec.Vec2) {
	dx0 := r.CTM[0]*p0.X + r.CTM[2]*p0.Y + r.CTM[4]
	dy0 := r.CTM[1]*p0.X + r.CTM[3]*p0.Y + r.CTM[5]
	dx1 := r.CTM[0]*p1.X + r.CTM[2]*p1.Y + r.CTM[4]
	dy1 := r.CTM[1]*p1.X + r.CTM[3]*p1.Y + r.CTM[5]
	if !finite(dx0) || !finite(dy0) || !finite(dx1) || !finite(dy1) {
		return
	}

	dy := dy1 - dy0
	if dy > -horizontalEdgeThreshold && dy < horizontalEdgeThreshold {
		return
	}

	r.edges = append(r.edges, edge{
		x0: dx0, y0: dy0,
		x1: dx1, y1: dy1,
		dxdy: (dx1 - dx0) / dy,
	})

	if r.bboxEmpty {
		r.devXMin, r.devXMax = min(dx0, dx1), max(dx0, dx1)
		r.devYMin, r.devYMax = min(dy0, dy1), max(dy0, dy1)
		r.bboxEmpty = false
	} else {
		r.devXMin = min(r.devXMin, dx0, dx1)
		r.devXMax = max(r.devXMax, dx0, dx1)
		r.devYMin = min(r.devYMin, dy0, dy1)
		r.devYMax = max(r.devYMax, dy0, dy1)
	}
}

// edgeBounds returns the pixel bounding box of the collected edges,
// clamped to the clip rectangle.
func (r *Rasterizer) edgeBounds() (xMin, xMax, yMin, yMax int, ok bool) {
	if len(r.edges) == 0 {
		return 0, 0, 0, 0, false
	}

	// Edges to the left of the clip still carry winding, so the left bound
	// is the clip boundary whenever the path extends past it.
	xMin = max(int(math.Floor(r.devXMin)), int(r.Clip.LLx))
	xMax = min(int(math.Floor(r.devXMax))+1, int(r.Clip.URx))
	yMin = max(int(math.Floor(r.devYMin)), int(r.Clip.LLy))
	yMax = min(int(math.Floor(r.devYMax))+1, int(r.Clip.URy))
	if xMin >= xMax || yMin >= yMax {
		return 0, 0, 0, 0, false
	}
	return xMin, xMax, yMin, yMax, true
}

// rasterize scan-converts the collected edges.
func (r *Rasterizer) rasterize(rule fillRule, emit EmitFunc) {
	xMin, xMax, yMin, yMax, ok := r.edgeBounds()
	if !ok {
		return
	}
	if (xMax-xMin)*(yMax-yMin) < r.smallPathThreshold {
		r.fillSmallPath(xMin, xMax, yMin, yMax, rule, emit)
	} else {
		r.fillLargePath(xMin, xMax, yMin, yMax, rule, emit)
	}
}

// Coverage accumulation model:
//
// Each pixel tracks two values:
//   cover: signed vertical extent of edges crossing this pixel column
//   area:  cover weighted by how far left in the pixel the crossing is
//
// The scanline integral
//   pixel_coverage = accumulated_cover + area[i]
//   accumulated_cover += cover[i]
// is the signed area of the path inside each pixel. It is clamped (nonzero)
// or folded (even-odd) into [0, 1].

// accumulateEdge adds the part of e inside scanline y to the buffers.
// The buffers are indexed by x - bboxXMin.
func (r *Rasterizer) accumulateEdge(e *edge, y int, cover, area []float32, bboxXMin, bboxXMax int) {
	yTop := max(float64(y), min(e.y0, e.y1))
	yBot := min(float64(y+1), max(e.y0, e.y1))
	if yBot <= yTop {
		return
	}

	sign := float32(1)
	if e.y1 < e.y0 {
		sign = -1
	}

	xTop := e.x0 + e.dxdy*(yTop-e.y0)
	xBot := e.x0 + e.dxdy*(yBot-e.y0)
	pixLeft := int(math.Floor(min(xTop, xBot)))
	pixRight := int(math.Floor(max(xTop, xBot)))

	if pixRight < bboxXMin {
		v := sign * float32(yBot-yTop)
		cover[0] += v
		area[0] += v
		return
	}
	if pixLeft >= bboxXMax {
		return
	}

	if pixLeft == pixRight {
		r.accumulateInColumn(e, yTop, yBot, sign, pixLeft, cover, area, bboxXMin, bboxXMax)
		return
	}

	// split the edge where it crosses pixel column boundaries
	dydx := 1 / e.dxdy
	r.crossings = append(r.crossings[:0], yTop, yBot)
	for x := pixLeft + 1; x <= pixRight; x++ {
		if yx := e.y0 + dydx*(float64(x)-e.x0); yx > yTop && yx < yBot {
			r.crossings = append(r.crossings, yx)
		}
	}
	slices.Sort(r.crossings)

	for i := range len(r.crossings) - 1 {
		y0, y1 := r.crossings[i], r.crossings[i+1]
		if y1 <= y0 {
			continue
		}
		r.accumulateInColumn(e, y0, y1, sign, derivePix, cover, area, bboxXMin, bboxXMax)
	}
}

// accumulateInColumn handles an edge piece within a single pixel column.
// If pix is derivePix, the column is taken from the piece's midpoint.
func (r *Rasterizer) accumulateInColumn(e *edge, yTop, yBot float64, sign float32, pix int, cover, area []float32, bboxXMin, bboxXMax int) {
	v := sign * float32(yBot-yTop)
	xMid := e.x0 + e.dxdy*((yTop+yBot)/2-e.y0)
	if pix == derivePix {
		pix = int(math.Floor(xMid))
	}

	if pix < bboxXMin {
		cover[0] += v
		area[0] += v
		return
	}
	if pix >= bboxXMax {
		return
	}

	idx := pix - bboxXMin
	cover[idx] += v
	area[idx] += v * float32(1-(xMid-float64(pix)))
}

// integrateNonZero turns cover/area into coverage for the nonzero rule.
// The cover slice is overwritten with the result.
func integrateNonZero(cover, area []float32) {
	var accum float32
	for i := range cover {
		raw := accum + area[i]
		accum += cover[i]
		if raw < 0 {
			raw = -raw
		}
		cover[i] = min(raw, 1)
	}
}

// integrateEvenOdd turns cover/area into coverage for the even-odd rule.
func integrateEvenOdd(cover, area []float32) {
	var accum float32
	for i := range cover {
		raw := accum + area[i]
		accum += cover[i]
		if raw < 0 {
			raw = -raw
		}
		mod := raw - 2*float32(int(raw/2))
		c := 1 - mod
		if c < 0 {
			c = -c
		}
		cover[i] = 1 - c
	}
}

// trimZeros returns the non-zero part of coverage and its offset.
func trimZeros(coverage []float32) ([]float32, int) {
	lo, hi := 0, len(coverage)
	for lo < hi && coverage[lo] == 0 {
		lo++
	}
	if lo == hi {
		return nil, 0
	}
	for hi > lo && coverage[hi-1] == 0 {
		hi--
	}
	return coverage[lo:hi], lo
}

func (r *Rasterizer) integrate(rule fillRule, cover, area []float32) {
	if rule == fillNonZero {
		integrateNonZero(cover, area)
	} else {
		integrateEvenOdd(cover, area)
	}
}

// fillSmallPath rasterizes using a 2D buffer covering the bounding box.
func (r *Rasterizer) fillSmallPath(xMin, xMax, yMin, yMax int, rule fillRule, emit EmitFunc) {
	width := xMax - xMin
	height := yMax - yMin
	size := width * height
	r.cover = slices.Grow(r.cover[:0], size)[:size]
	r.area = slices.Grow(r.area[:0], size)[:size]
	clear(r.cover)
	clear(r.area)
	r.rowHasEdges = slices.Grow(r.rowHasEdges[:0], height)[:height]
	clear(r.rowHasEdges)

	for i := range r.edges {
		e := &r.edges[i]
		y0 := max(int(math.Floor(min(e.y0, e.y1))), yMin)
		y1 := min(int(math.Floor(max(e.y0, e.y1)))+1, yMax)
		for y := y0; y < y1; y++ {
			row := y - yMin
			off := row * width
			r.accumulateEdge(e, y, r.cover[off:off+width], r.area[off:off+width], xMin, xMax)
			r.rowHasEdges[row] = true
		}
	}

	for row := range height {
		if !r.rowHasEdges[row] {
			continue
		}
		off := row * width
		coverage := r.cover[off : off+width]
		r.integrate(rule, coverage, r.area[off:off+width])
		if trimmed, dx := trimZeros(coverage); trimmed != nil {
			emit(yMin+row, xMin+dx, trimmed)
		}
	}
}

// fillLargePath rasterizes one scanline at a time using an active edge list.
func (r *Rasterizer) fillLargePath(xMin, xMax, yMin, yMax int, rule fillRule, emit EmitFunc) {
	width := xMax - xMin
	r.cover = slices.Grow(r.cover[:0], width)[:width]
	r.area = slices.Grow(r.area[:0], width)[:width]

	slices.SortFunc(r.edges, func(a, b edge) int {
		return cmp.Compare(min(a.y0, a.y1), min(b.y0, b.y1))
	})

	r.activeIdx = r.activeIdx[:0]
	next := 0
	for y := yMin; y < yMax; y++ {
		yf := float64(y)
		for next < len(r.edges) && min(r.edges[next].y0, r.edges[next].y1) < yf+1 {
			r.activeIdx = append(r.activeIdx, next)
			next++
		}
		if len(r.activeIdx) == 0 {
			continue
		}

		clear(r.cover)
		clear(r.area)
		touched := false
		for i := 0; i < len(r.activeIdx); {
			e := &r.edges[r.activeIdx[i]]
			if max(e.y0, e.y1) <= yf {
				last := len(r.activeIdx) - 1
				r.activeIdx[i] = r.activeIdx[last]
				r.activeIdx = r.activeIdx[:last]
				continue
			}
			r.accumulateEdge(e, y, r.cover, r.area, xMin, xMax)
			touched = true
			i++
		}
		if !touched {
			continue
		}

		r.integrate(rule, r.cover, r.area)
		if trimmed, dx := trimZeros(r.cover); trimmed != nil {
			emit(y, xMin+dx, trimmed)
		}
	}
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Default values for rasterizer parameters.
const (
	// defaultFlatness is the curve flattening tolerance in device pixels.
	// 0.25 is below the threshold of visual perception.
	defaultFlatness = 0.25

	defaultMiterLimit = 4.0
)

// Numerical tolerances.
const (
	// horizontalEdgeThreshold is the minimum vertical extent for an edge
	// to contribute to coverage.
	horizontalEdgeThreshold = 1e-10

	// smallPathThreshold is the largest bounding box area (in pixels) that
	// is rasterized with 2D buffers. Particles and short strokes take this
	// path; the silhouette and full-width layers use the active edge list.
	smallPathThreshold = 65536

	// zeroLengthThreshold is the minimum length of a stroked segment.
	zeroLengthThreshold = 1e-10
)

// derivePix tells accumulateInColumn to locate the pixel column itself.
const derivePix = math.MinInt
