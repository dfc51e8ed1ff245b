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

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// AppendPolygon adds pts as a closed subpath to p. The vertices are
// reversed in place when needed, so that all polygons added this way share
// one orientation and overlapping pieces form a union under the nonzero
// rule.
func AppendPolygon(p *path.Data, pts ...vec.Vec2) {
	if len(pts) < 3 {
		return
	}
	var area float64
	for i, a := range pts {
		b := pts[(i+1)%len(pts)]
		area += a.X*b.Y - b.X*a.Y
	}
	if area > 0 {
		for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
			pts[i], pts[j] = pts[j], pts[i]
		}
	}
	p.Cmds = append(p.Cmds, path.CmdMoveTo)
	p.Coords = append(p.Coords, pts[0])
	for _, pt := range pts[1:] {
		p.Cmds = append(p.Cmds, path.CmdLineTo)
		p.Coords = append(p.Coords, pt)
	}
	p.Cmds = append(p.Cmds, path.CmdClose)
}

// AppendCircle adds a regular polygon with the given number of sides
// approximating a circle. The phase rotates the first vertex, so that
// neighbouring small dots do not all share one visible facet pattern.
func AppendCircle(p *path.Data, c vec.Vec2, r float64, sides int, phase float64) {
	if !(r > 0) || sides < 3 {
		return
	}
	pts := make([]vec.Vec2, sides)
	for i := range pts {
		a := phase + 2*math.Pi*float64(i)/float64(sides)
		pts[i] = vec.Vec2{X: c.X + r*math.Cos(a), Y: c.Y + r*math.Sin(a)}
	}
	AppendPolygon(p, pts...)
}

// CircleSides returns a polygon side count for a circle of radius r
// pixels, between 6 and 24.
func CircleSides(r float64) int {
	n := int(math.Ceil(2 * math.Pi * r / 1.5))
	return min(max(n, 6), 24)
}

// Polyline returns an open path through pts.
func Polyline(pts []vec.Vec2) *path.Data {
	p := &path.Data{}
	for i, pt := range pts {
		if i == 0 {
			p.Cmds = append(p.Cmds, path.CmdMoveTo)
		} else {
			p.Cmds = append(p.Cmds, path.CmdLineTo)
		}
		p.Coords = append(p.Coords, pt)
	}
	return p
}

// Area returns a closed path from (pts[0].X, baseline) over pts to
// (pts[n-1].X, baseline).
func Area(pts []vec.Vec2, baseline float64) *path.Data {
	if len(pts) == 0 {
		return &path.Data{}
	}
	p := &path.Data{
		Cmds:   []path.Command{path.CmdMoveTo},
		Coords: []vec.Vec2{{X: pts[0].X, Y: baseline}},
	}
	for _, pt := range pts {
		p.Cmds = append(p.Cmds, path.CmdLineTo)
		p.Coords = append(p.Coords, pt)
	}
	p.Cmds = append(p.Cmds, path.CmdLineTo, path.CmdClose)
	p.Coords = append(p.Coords, vec.Vec2{X: pts[len(pts)-1].X, Y: baseline})
	return p
}

// Offset returns the points moved by d[i] along n[i]. The y coordinate
// is limited to yMax.
func Offset(pts, n []vec.Vec2, d []float64, yMax float64) []vec.Vec2 {
	k := min(len(pts), len(n), len(d))
	out := make([]vec.Vec2, k)
	for i := range k {
		q := pts[i].Add(n[i].Mul(d[i]))
		q.Y = min(q.Y, yMax)
		out[i] = q
	}
	return out
}
