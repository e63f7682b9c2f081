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

// Package raster converts shape outlines into anti-aliased pixel coverage.
//
// Paths are given as [path.Data] in pixel coordinates (origin top-left,
// y pointing down).  Coverage is reported scanline by scanline through an
// [EmitFunc]; the helpers [AlphaMask] and [Paint] turn it into silhouette
// masks and colored pixels.
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

// FillRule decides which points are inside a path.
type FillRule int

const (
	// NonZero fills every point with a nonzero winding number.
	NonZero FillRule = iota

	// EvenOdd fills every point with an odd winding number.  Two nested
	// closed subpaths give a ring.
	EvenOdd
)

// EmitFunc receives the coverage of one scanline.  coverage[i] is the
// fraction of pixel (xMin+i, y) covered by the shape, in the range 0 to 1.
// The slice is only valid during the call.
type EmitFunc func(y, xMin int, coverage []float32)

// edge is a line segment in device coordinates.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64 // (x1-x0)/(y1-y0)
}

func (e *edge) top() float64    { return min(e.y0, e.y1) }
func (e *edge) bottom() float64 { return max(e.y0, e.y1) }
func (e *edge) xAt(y float64) float64 {
	return e.x0 + e.dxdy*(y-e.y0)
}

// Rasterizer computes pixel coverage for filled and stroked paths.
// Internal buffers are kept between calls, so a single Rasterizer
// should be reused for many shapes.
//
// A Rasterizer is not safe for concurrent use.
type Rasterizer struct {
	// CTM maps path coordinates to device pixels.  Must be non-singular.
	CTM matrix.Matrix

	// Clip limits the output to this device rectangle.  The coordinates
	// must be integers.
	Clip rect.Rect

	// Flatness is the maximal distance, in device pixels, between a curve
	// and the line segments used to approximate it.
	Flatness float64

	// Width is the stroke width in path units.
	Width float64

	// Cap is the style used at the open ends of stroked subpaths.
	Cap graphics.LineCapStyle

	// Join is the style used where two stroked segments meet.
	Join graphics.LineJoinStyle

	// MiterLimit bounds the length of miter joins, relative to the
	// stroke width.  Must be at least 1.
	MiterLimit float64

	cover  []float32 // per-pixel change of the winding accumulator
	area   []float32 // per-pixel partial coverage
	edges  []edge
	active []int // indices into edges

	haveBBox       bool
	bbXMin, bbXMax float64
	bbYMin, bbYMax float64

	segs []segment  // segments of the subpath being stroked
	poly []vec.Vec2 // scratch polygon for stroke pieces
}

// NewRasterizer returns a Rasterizer for a canvas of the given size, with
// the identity CTM and default stroke parameters.
func NewRasterizer(width, height int) *Rasterizer {
	r := &Rasterizer{}
	r.Reset(width, height)
	return r
}

// Reset restores the default parameters and sets the clip rectangle to a
// canvas of the given size.  Buffer capacity is kept.
func (r *Rasterizer) Reset(width, height int) {
	r.CTM = matrix.Identity
	r.Clip = rect.Rect{URx: float64(width), URy: float64(height)}
	r.Flatness = defaultFlatness
	r.Width = 1
	r.Cap = graphics.LineCapButt
	r.Join = graphics.LineJoinMiter
	r.MiterLimit = defaultMiterLimit

	r.edges = r.edges[:0]
	r.active = r.active[:0]
	r.segs = r.segs[:0]
	r.poly = r.poly[:0]
	r.haveBBox = false
}

// Fill computes the coverage of the interior of p.  Open subpaths are
// closed implicitly.
func (r *Rasterizer) Fill(p *path.Data, rule FillRule, emit EmitFunc) {
	r.beginEdges()
	r.flatten(p, r.addEdge, func(start, current vec.Vec2, closed bool) {
		if !closed && current != start {
			r.addEdge(current, start)
		}
	})
	r.scan(rule, emit)
}

// transformLinear applies the linear part of the CTM.
func (r *Rasterizer) transformLinear(v vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: r.CTM[0]*v.X + r.CTM[2]*v.Y,
		Y: r.CTM[1]*v.X + r.CTM[3]*v.Y,
	}
}

// flatten walks p, replaces curves by line segments and calls line for
// every segment.  done is called at the end of each subpath, with the
// subpath's start point and the current point.
func (r *Rasterizer) flatten(p *path.Data, line func(a, b vec.Vec2), done func(start, current vec.Vec2, closed bool)) {
	var start, cur vec.Vec2
	open := false
	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			if open {
				done(start, cur, false)
			}
			cur = p.Coords[k]
			start = cur
			open = true
			k++
			continue
		case path.CmdClose:
			if open {
				if cur != start {
					line(cur, start)
				}
				done(start, start, true)
				cur = start
				open = false
			}
			continue
		}

		if !open {
			// drawing after a close starts a new subpath at the old start
			start = cur
			open = true
		}
		switch cmd {
		case path.CmdLineTo:
			line(cur, p.Coords[k])
			cur = p.Coords[k]
			k++
		case path.CmdQuadTo:
			r.flattenQuadratic(cur, p.Coords[k], p.Coords[k+1], line)
			cur = p.Coords[k+1]
			k += 2
		case path.CmdCubeTo:
			r.flattenCubic(cur, p.Coords[k], p.Coords[k+1], p.Coords[k+2], line)
			cur = p.Coords[k+2]
			k += 3
		}
	}
	if open {
		done(start, cur, false)
	}
}

// flattenQuadratic approximates the quadratic Bézier curve p0, p1, p2 by
// line segments.  The number of segments is chosen from the device space
// deviation of the curve.
func (r *Rasterizer) flattenQuadratic(p0, p1, p2 vec.Vec2, line func(a, b vec.Vec2)) {
	dev := r.transformLinear(p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25)).Length()
	n := 1
	if dev > r.Flatness {
		n = int(math.Ceil(math.Sqrt(dev / r.Flatness)))
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		pt := p0.Mul(s * s).Add(p1.Mul(2 * s * t)).Add(p2.Mul(t * t))
		line(prev, pt)
		prev = pt
	}
}

// flattenCubic approximates the cubic Bézier curve p0, ..., p3 by line
// segments, using Wang's formula for the segment count.
func (r *Rasterizer) flattenCubic(p0, p1, p2, p3 vec.Vec2, line func(a, b vec.Vec2)) {
	d1 := r.transformLinear(p0.Sub(p1.Mul(2)).Add(p2)).Length()
	d2 := r.transformLinear(p1.Sub(p2.Mul(2)).Add(p3)).Length()
	n := 1
	if m := max(d1, d2); m > 0 {
		if nf := math.Sqrt(3 * m / (4 * r.Flatness)); nf > 1 {
			n = int(math.Ceil(nf))
		}
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		pt := p0.Mul(s * s * s).
			Add(p1.Mul(3 * s * s * t)).
			Add(p2.Mul(3 * s * t * t)).
			Add(p3.Mul(t * t * t))
		line(prev, pt)
		prev = pt
	}
}

// beginEdges clears the edge list before a new fill or stroke.
func (r *Rasterizer) beginEdges() {
	r.edges = r.edges[:0]
	r.haveBBox = false
}

// addEdge transforms the segment from p0 to p1 to device space and
// records it.  Horizontal segments do not change the winding number and
// are dropped.
func (r *Rasterizer) addEdge(p0, p1 vec.Vec2) {
	m := r.CTM
	x0 := m[0]*p0.X + m[2]*p0.Y + m[4]
	y0 := m[1]*p0.X + m[3]*p0.Y + m[5]
	x1 := m[0]*p1.X + m[2]*p1.Y + m[4]
	y1 := m[1]*p1.X + m[3]*p1.Y + m[5]

	dy := y1 - y0
	if math.Abs(dy) < horizontalEdgeThreshold {
		return
	}
	r.edges = append(r.edges, edge{x0: x0, y0: y0, x1: x1, y1: y1, dxdy: (x1 - x0) / dy})

	if !r.haveBBox {
		r.bbXMin, r.bbXMax = min(x0, x1), max(x0, x1)
		r.bbYMin, r.bbYMax = min(y0, y1), max(y0, y1)
		r.haveBBox = true
		return
	}
	r.bbXMin = min(r.bbXMin, x0, x1)
	r.bbXMax = max(r.bbXMax, x0, x1)
	r.bbYMin = min(r.bbYMin, y0, y1)
	r.bbYMax = max(r.bbYMax, y0, y1)
}

// pixelBounds returns the integer bounding box of the collected edges,
// clipped to r.Clip.  The upper bounds are exclusive.
func (r *Rasterizer) pixelBounds() (xMin, xMax, yMin, yMax int, ok bool) {
	if !r.haveBBox || len(r.edges) == 0 {
		return 0, 0, 0, 0, false
	}
	xMin = max(int(math.Floor(r.bbXMin)), int(r.Clip.LLx))
	xMax = min(int(math.Floor(r.bbXMax))+1, int(r.Clip.URx))
	yMin = max(int(math.Floor(r.bbYMin)), int(r.Clip.LLy))
	yMax = min(int(math.Floor(r.bbYMax))+1, int(r.Clip.URy))
	if xMin >= xMax || yMin >= yMax {
		return 0, 0, 0, 0, false
	}
	return xMin, xMax, yMin, yMax, true
}

// Coverage model
//
// For every pixel of a scanline two numbers are accumulated:
//
//	cover: signed vertical extent of all edge pieces inside the pixel
//	area:  the same, weighted by the fraction of the pixel to the right
//	       of the edge piece
//
// Scanning the row from left to right, the coverage of pixel i is the sum
// of cover over all pixels left of i, plus area[i].  This is the signed
// area of the shape inside the pixel; the fill rule folds it into [0, 1].

// scan turns the collected edges into coverage, one scanline at a time.
// Edges are sorted by their top coordinate and kept in an active list
// while they intersect the current scanline.
func (r *Rasterizer) scan(rule FillRule, emit EmitFunc) {
	xMin, xMax, yMin, yMax, ok := r.pixelBounds()
	if !ok {
		return
	}
	width := xMax - xMin
	r.cover = slices.Grow(r.cover[:0], width)[:width]
	r.area = slices.Grow(r.area[:0], width)[:width]

	slices.SortFunc(r.edges, func(a, b edge) int {
		return cmp.Compare(a.top(), b.top())
	})

	r.active = r.active[:0]
	next := 0
	for y := yMin; y < yMax; y++ {
		rowTop, rowBottom := float64(y), float64(y+1)

		for next < len(r.edges) && r.edges[next].top() < rowBottom {
			r.active = append(r.active, next)
			next++
		}
		kept := r.active[:0]
		for _, i := range r.active {
			if r.edges[i].bottom() > rowTop {
				kept = append(kept, i)
			}
		}
		r.active = kept
		if len(r.active) == 0 {
			continue
		}

		clear(r.cover)
		clear(r.area)
		for _, i := range r.active {
			r.accumulate(&r.edges[i], y, xMin, xMax)
		}
		integrate(r.cover, r.area, rule)

		if cov, offset := trimZeros(r.cover); cov != nil {
			emit(y, xMin+offset, cov)
		}
	}
}

// accumulate adds the part of e inside scanline y to the cover and area
// buffers, which hold the pixels xMin to xMax-1.  Pieces left of xMin are
// collected in the first pixel.
func (r *Rasterizer) accumulate(e *edge, y, xMin, xMax int) {
	top := max(float64(y), e.top())
	bottom := min(float64(y+1), e.bottom())
	if bottom <= top {
		return
	}
	sign := float32(1)
	if e.y1 < e.y0 {
		sign = -1
	}

	xa, xb := e.xAt(top), e.xAt(bottom)
	left := int(math.Floor(min(xa, xb)))
	right := int(math.Floor(max(xa, xb)))

	switch {
	case right < xMin:
		r.deposit(e, xMin-1, sign, top, bottom, xMin, xMax)
		return
	case left >= xMax:
		return
	case left == right:
		r.deposit(e, left, sign, top, bottom, xMin, xMax)
		return
	}

	// split the piece at the pixel column boundaries
	dydx := 1 / e.dxdy
	for pix := left; pix <= right; pix++ {
		ya := e.y0 + dydx*(float64(pix)-e.x0)
		yb := e.y0 + dydx*(float64(pix+1)-e.x0)
		segTop := max(min(ya, yb), top)
		segBottom := min(max(ya, yb), bottom)
		if segBottom <= segTop {
			continue
		}
		r.deposit(e, pix, sign, segTop, segBottom, xMin, xMax)
	}
}

// deposit records the piece of e between top and bottom, which lies
// inside pixel column pix.
func (r *Rasterizer) deposit(e *edge, pix int, sign float32, top, bottom float64, xMin, xMax int) {
	c := sign * float32(bottom-top)
	switch {
	case pix < xMin:
		r.cover[0] += c
		r.area[0] += c
	case pix < xMax:
		frac := e.xAt((top+bottom)/2) - float64(pix)
		i := pix - xMin
		r.cover[i] += c
		r.area[i] += c * float32(1-frac)
	}
}

// integrate converts the accumulated buffers of one scanline into coverage
// values.  The result is stored in cover.
func integrate(cover, area []float32, rule FillRule) {
	var acc float32
	for i := range cover {
		raw := abs32(acc + area[i])
		acc += cover[i]

		if rule == EvenOdd {
			raw -= 2 * float32(int(raw/2))
			raw = 1 - abs32(1-raw)
		} else if raw > 1 {
			raw = 1
		}
		cover[i] = raw
	}
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// trimZeros strips zero coverage from both ends of a scanline.  It returns
// nil if the whole line is empty.
func trimZeros(coverage []float32) ([]float32, int) {
	lo, hi := 0, len(coverage)
	for lo < hi && coverage[lo] == 0 {
		lo++
	}
	if lo == hi {
		return nil, 0
	}
	for coverage[hi-1] == 0 {
		hi--
	}
	return coverage[lo:hi], lo
}

const (
	// defaultFlatness is below the threshold of visual perception.
	defaultFlatness = 0.25

	// defaultMiterLimit matches PDF and PostScript.
	defaultMiterLimit = 10.0

	// horizontalEdgeThreshold is the minimal vertical extent for an edge
	// to contribute to coverage.
	horizontalEdgeThreshold = 1e-10

	// zeroLengthThreshold is the minimal length of a stroked segment.
	zeroLengthThreshold = 1e-10

	// collinearityThreshold is the |sin| below which two stroked segments
	// are treated as collinear.
	collinearityThreshold = 1e-6
)
