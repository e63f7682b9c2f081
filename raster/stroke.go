// seehuhn.de/go/protoshapes - synthetic shape datasets for prototype learning
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

// segment is a flattened piece of a stroked subpath, in path coordinates.
type segment struct {
	A, B vec.Vec2
	T    vec.Vec2 // unit tangent from A to B
	N    vec.Vec2 // unit normal, T rotated by 90°
}

// Stroke computes the coverage of the outline of p, using Width, Cap, Join
// and MiterLimit.
//
// The stroke is assembled from convex pieces: one quadrilateral per
// segment, plus join and cap geometry.  All pieces are given the same
// orientation and filled together with the nonzero rule, so that
// overlapping pieces are painted once.
func (r *Rasterizer) Stroke(p *path.Data, emit EmitFunc) {
	r.beginEdges()
	r.segs = r.segs[:0]
	r.flatten(p, r.addSegment, r.strokeSubpath)
	r.scan(NonZero, emit)
}

// addSegment appends a flattened segment of the current subpath.
func (r *Rasterizer) addSegment(a, b vec.Vec2) {
	d := b.Sub(a)
	length := d.Length()
	if length < zeroLengthThreshold {
		return
	}
	t := d.Mul(1 / length)
	r.segs = append(r.segs, segment{A: a, B: b, T: t, N: vec.Vec2{X: -t.Y, Y: t.X}})
}

// strokeSubpath turns the segments collected for one subpath into edges.
func (r *Rasterizer) strokeSubpath(start, _ vec.Vec2, closed bool) {
	segs := r.segs
	defer func() { r.segs = r.segs[:0] }()

	d := r.Width / 2
	if len(segs) == 0 {
		// A subpath without extent has no direction.  Only round caps
		// produce a mark.
		if r.Cap == graphics.LineCapRound {
			r.addDisc(start, d)
		}
		return
	}

	for i := range segs {
		s := &segs[i]
		r.addPolygon(
			s.A.Add(s.N.Mul(d)),
			s.B.Add(s.N.Mul(d)),
			s.B.Sub(s.N.Mul(d)),
			s.A.Sub(s.N.Mul(d)),
		)
		if i > 0 {
			r.addJoin(s.A, &segs[i-1], s, d)
		}
	}

	first, last := &segs[0], &segs[len(segs)-1]
	if closed {
		r.addJoin(first.A, last, first, d)
	} else {
		r.addCap(first.A, first.T.Mul(-1), d)
		r.addCap(last.B, last.T, d)
	}
}

// addJoin adds the geometry filling the gap on the outer side of the
// corner at p, where segment s1 ends and s2 starts.
func (r *Rasterizer) addJoin(p vec.Vec2, s1, s2 *segment, d float64) {
	cosTheta := s1.T.Dot(s2.T)
	sinTheta := s1.T.X*s2.T.Y - s1.T.Y*s2.T.X
	if math.Abs(sinTheta) < collinearityThreshold && cosTheta > 0 {
		return
	}

	if r.Join == graphics.LineJoinRound {
		r.addDisc(p, d)
		return
	}

	// the outer side lies opposite to the direction of the turn
	side := 1.0
	if sinTheta > 0 {
		side = -1
	}
	o1 := p.Add(s1.N.Mul(side * d))
	o2 := p.Add(s2.N.Mul(side * d))

	if r.Join == graphics.LineJoinMiter {
		// The miter length relative to the stroke width is 1/cos(θ/2).
		cosHalf := math.Sqrt((1 + cosTheta) / 2)
		if cosHalf > 0 && 1/cosHalf <= r.MiterLimit+miterEpsilon {
			bisector := s1.N.Add(s2.N).Mul(side)
			if l := bisector.Length(); l > zeroLengthThreshold {
				tip := p.Add(bisector.Mul(d / (cosHalf * l)))
				r.addPolygon(p, o1, tip, o2)
				return
			}
		}
	}

	// bevel, or a miter over the limit
	r.addPolygon(p, o1, o2)
}

// addCap adds the cap at the open end p of a subpath.  t is the unit
// tangent pointing away from the stroke.
func (r *Rasterizer) addCap(p, t vec.Vec2, d float64) {
	switch r.Cap {
	case graphics.LineCapSquare:
		n := vec.Vec2{X: -t.Y, Y: t.X}
		ext := t.Mul(d)
		r.addPolygon(
			p.Add(n.Mul(d)),
			p.Add(n.Mul(d)).Add(ext),
			p.Sub(n.Mul(d)).Add(ext),
			p.Sub(n.Mul(d)),
		)
	case graphics.LineCapRound:
		r.addDisc(p, d)
	}
}

// addDisc adds a polygonal disc of the given radius.  The number of
// vertices keeps the polygon within Flatness of the true circle.
func (r *Rasterizer) addDisc(center vec.Vec2, radius float64) {
	devRadius := max(
		r.transformLinear(vec.Vec2{X: radius}).Length(),
		r.transformLinear(vec.Vec2{Y: radius}).Length(),
	)

	// A chord spanning the angle φ deviates by radius*(1-cos(φ/2)) from
	// the circle.
	n := 8
	if devRadius > r.Flatness {
		step := 2 * math.Acos(1-r.Flatness/devRadius)
		if step > 0 && !math.IsNaN(step) {
			n = max(n, int(math.Ceil(2*math.Pi/step)))
		}
	}

	r.poly = r.poly[:0]
	for i := range n {
		phi := 2 * math.Pi * float64(i) / float64(n)
		r.poly = append(r.poly, center.Add(vec.Vec2{X: math.Cos(phi), Y: math.Sin(phi)}.Mul(radius)))
	}
	r.addPolygonBuf()
}

// addPolygon adds the edges of a closed convex polygon.
func (r *Rasterizer) addPolygon(pts ...vec.Vec2) {
	r.poly = append(r.poly[:0], pts...)
	r.addPolygonBuf()
}

// addPolygonBuf adds the polygon in r.poly, reversed if needed so that
// every stroke piece has positive orientation.
func (r *Rasterizer) addPolygonBuf() {
	pts := r.poly
	if len(pts) < 3 {
		return
	}
	var area float64
	for i, a := range pts {
		b := pts[(i+1)%len(pts)]
		area += a.X*b.Y - a.Y*b.X
	}
	if area == 0 {
		return
	}
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		if area < 0 {
			a, b = b, a
		}
		r.addEdge(a, b)
	}
}

// miterEpsilon absorbs rounding errors at exactly the miter limit.
const miterEpsilon = 1e-10
