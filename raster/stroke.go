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
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"
)

// Stroke renders the path as a stroked outline using Width, Cap, Join and
// MiterLimit.
//
// The outline is the union of one quadrilateral per segment plus the join
// and cap pieces. All pieces are emitted with the same orientation, so the
// nonzero rule paints overlapping pieces once.
func (r *Rasterizer) Stroke(p *path.Data, emit EmitFunc) {
	if p == nil || !(r.Width > 0) {
		return
	}
	r.beginEdges()

	r.line = r.line[:0]
	r.closed = false
	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			r.strokeLine()
			r.line = append(r.line[:0], p.Coords[k])
			r.closed = false
			k++
		case path.CmdLineTo:
			r.addLinePoint(vec.Vec2{}, p.Coords[k])
			k++
		case path.CmdQuadTo:
			if len(r.line) > 0 {
				r.flattenQuadratic(r.line[len(r.line)-1], p.Coords[k], p.Coords[k+1], r.addLinePoint)
			}
			k += 2
		case path.CmdCubeTo:
			if len(r.line) > 0 {
				r.flattenCubic(r.line[len(r.line)-1], p.Coords[k], p.Coords[k+1], p.Coords[k+2], r.addLinePoint)
			}
			k += 3
		case path.CmdClose:
			if len(r.line) > 0 {
				r.closed = true
				start := r.line[0]
				r.strokeLine()
				r.line = append(r.line[:0], start)
				r.closed = false
			}
		}
	}
	r.strokeLine()

	r.rasterize(fillNonZero, emit)
}

// addLinePoint appends the end point of a flattened segment to the current
// subpath. The start point is implied by the previous point.
func (r *Rasterizer) addLinePoint(_, to vec.Vec2) {
	if len(r.line) == 0 {
		return
	}
	if to.Sub(r.line[len(r.line)-1]).Length() < zeroLengthThreshold {
		return
	}
	r.line = append(r.line, to)
}

// strokeLine emits the outline pieces for the current subpath.
func (r *Rasterizer) strokeLine() {
	pts := r.line
	if len(pts) == 0 {
		return
	}
	d := r.Width / 2

	if r.closed && len(pts) > 2 && pts[0].Sub(pts[len(pts)-1]).Length() < zeroLengthThreshold {
		pts = pts[:len(pts)-1]
	}

	if len(pts) == 1 {
		// A zero-length subpath has no direction; only round and square
		// caps paint anything.
		switch r.Cap {
		case graphics.LineCapRound:
			r.addDisc(pts[0], d)
		case graphics.LineCapSquare:
			r.addCap(pts[0], vec.Vec2{X: 1, Y: 0}, d)
			r.addCap(pts[0], vec.Vec2{X: -1, Y: 0}, d)
		}
		r.line = r.line[:0]
		return
	}

	n := len(pts)
	segs := n - 1
	if r.closed {
		segs = n
	}
	for i := range segs {
		a, b := pts[i], pts[(i+1)%n]
		t := unit(b.Sub(a))
		nv := vec.Vec2{X: -t.Y, Y: t.X}.Mul(d)
		r.addPolygon(a.Add(nv), b.Add(nv), b.Sub(nv), a.Sub(nv))
	}

	for i := range n {
		if !r.closed && (i == 0 || i == n-1) {
			continue
		}
		prev := pts[(i+n-1)%n]
		next := pts[(i+1)%n]
		r.addJoin(pts[i], unit(pts[i].Sub(prev)), unit(next.Sub(pts[i])), d)
	}

	if !r.closed {
		r.addCap(pts[0], unit(pts[0].Sub(pts[1])), d)
		r.addCap(pts[n-1], unit(pts[n-1].Sub(pts[n-2])), d)
	}

	r.line = r.line[:0]
}

// addJoin adds the join piece at P between incoming tangent t1 and
// outgoing tangent t2.
func (r *Rasterizer) addJoin(P, t1, t2 vec.Vec2, d float64) {
	cross := t1.X*t2.Y - t1.Y*t2.X
	if math.Abs(cross) < 1e-9 && t1.Dot(t2) > 0 {
		return // collinear, the segment pieces already meet
	}

	if r.Join == graphics.LineJoinRound {
		r.addDisc(P, d)
		return
	}

	// The outer side of the corner is opposite to the turn direction.
	s := 1.0
	if cross > 0 {
		s = -1
	}
	n1 := vec.Vec2{X: -t1.Y, Y: t1.X}.Mul(s)
	n2 := vec.Vec2{X: -t2.Y, Y: t2.X}.Mul(s)
	p1 := P.Add(n1.Mul(d))
	p2 := P.Add(n2.Mul(d))

	if r.Join == graphics.LineJoinMiter {
		bis := n1.Add(n2)
		if l := bis.Length(); l > zeroLengthThreshold {
			bis = bis.Mul(1 / l)
			cosHalf := bis.Dot(n1)
			if cosHalf > 0 && 1/cosHalf <= r.MiterLimit {
				r.addPolygon(P, p1, P.Add(bis.Mul(d/cosHalf)), p2)
				return
			}
		}
	}
	r.addPolygon(P, p1, p2)
}

// addCap adds the cap piece at P, where t points away from the line.
func (r *Rasterizer) addCap(P, t vec.Vec2, d float64) {
	switch r.Cap {
	case graphics.LineCapRound:
		r.addDisc(P, d)
	case graphics.LineCapSquare:
		nv := vec.Vec2{X: -t.Y, Y: t.X}.Mul(d)
		ext := t.Mul(d)
		r.addPolygon(P.Add(nv), P.Add(nv).Add(ext), P.Sub(nv).Add(ext), P.Sub(nv))
	}
}

// addDisc adds a polygonal disc. The vertex count follows the flatness
// tolerance at the device-space radius.
func (r *Rasterizer) addDisc(c vec.Vec2, radius float64) {
	n := DiscSegments(radius*r.deviceScale(), r.Flatness)
	r.poly = r.poly[:0]
	for i := range n {
		phi := 2 * math.Pi * float64(i) / float64(n)
		r.poly = append(r.poly, vec.Vec2{
			X: c.X + radius*math.Cos(phi),
			Y: c.Y + radius*math.Sin(phi),
		})
	}
	r.emitPoly()
}

// DiscSegments returns the number of polygon vertices needed to approximate
// a circle of the given device radius within tolerance flatness.
func DiscSegments(radius, flatness float64) int {
	if !(radius > flatness) || !(flatness > 0) {
		return 6
	}
	n := int(math.Ceil(math.Pi / math.Acos(1-flatness/radius)))
	return min(max(n, 6), 96)
}

// deviceScale is the geometric mean scale factor of the CTM.
func (r *Rasterizer) deviceScale() float64 {
	det := r.CTM[0]*r.CTM[3] - r.CTM[1]*r.CTM[2]
	return math.Sqrt(math.Abs(det))
}

func (r *Rasterizer) addPolygon(pts ...vec.Vec2) {
	r.poly = append(r.poly[:0], pts...)
	r.emitPoly()
}

// emitPoly adds the edges of r.poly with negative signed area,
// reversing the vertex order if needed.
func (r *Rasterizer) emitPoly() {
	pts := r.poly
	if len(pts) < 3 {
		return
	}
	var area float64
	for i := range pts {
		j := (i + 1) % len(pts)
		area += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	if area > 0 {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
	for i := range pts {
		r.addEdge(pts[i], pts[(i+1)%len(pts)])
	}
}

func unit(v vec.Vec2) vec.Vec2 {
	l := v.Length()
	if l < zeroLengthThreshold {
		return vec.Vec2{X: 1, Y: 0}
	}
	return v.Mul(1 / l)
}
