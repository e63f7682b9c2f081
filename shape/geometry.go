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

package shape

import (
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// Insets of the canonical geometry, in pixels from the canvas edge.
const (
	solidInset = 5 // square and circle

	squareOutlineInset = 10 // first of the outline rectangles
	squareOutlineCount = 5

	triangleInset      = 10
	triangleInnerApex  = 20
	triangleInnerInset = 15

	// silhouettes for the stripe mask
	squareMaskInset   = 11
	circleMaskInset   = 6
	triangleMaskInset = 12
)

// box is a rectangle of whole pixels.  It covers the pixel columns x0 to
// x1 and the rows y0 to y1, both inclusive.
type box struct {
	x0, y0, x1, y1 int
}

// insetBox returns the box which leaves d pixels free on every side of a
// canvas of the given size.
func insetBox(size, d int) box {
	return box{x0: d, y0: d, x1: size - d, y1: size - d}
}

// area returns the outline of the pixels covered by b.
func (b box) area() *path.Data {
	x0, y0 := float64(b.x0), float64(b.y0)
	x1, y1 := float64(b.x1+1), float64(b.y1+1)
	return (&path.Data{}).
		MoveTo(vec.Vec2{X: x0, Y: y0}).
		LineTo(vec.Vec2{X: x1, Y: y0}).
		LineTo(vec.Vec2{X: x1, Y: y1}).
		LineTo(vec.Vec2{X: x0, Y: y1}).
		Close()
}

// addBorder appends a closed subpath through the centers of the
// outermost pixels of b to p.  Stroked with width 1, it covers exactly the
// border pixels.
func (b box) addBorder(p *path.Data) *path.Data {
	x0, y0 := float64(b.x0)+0.5, float64(b.y0)+0.5
	x1, y1 := float64(b.x1)+0.5, float64(b.y1)+0.5
	return p.
		MoveTo(vec.Vec2{X: x0, Y: y0}).
		LineTo(vec.Vec2{X: x1, Y: y0}).
		LineTo(vec.Vec2{X: x1, Y: y1}).
		LineTo(vec.Vec2{X: x0, Y: y1}).
		Close()
}

// ellipse returns the ellipse inscribed in the pixels of b, shrunk by d
// on every side.
func (b box) ellipse(d float64) *path.Data {
	x0, y0 := float64(b.x0), float64(b.y0)
	x1, y1 := float64(b.x1+1), float64(b.y1+1)
	cx, cy := (x0+x1)/2, (y0+y1)/2
	rx, ry := (x1-x0)/2-d, (y1-y0)/2-d
	return ellipse(cx, cy, rx, ry)
}

// ellipse approximates an axis-aligned ellipse by four cubic Bézier curves.
func ellipse(cx, cy, rx, ry float64) *path.Data {
	const k = 0.5522847498307936 // 4/3 (√2 - 1)
	return (&path.Data{}).
		MoveTo(vec.Vec2{X: cx + rx, Y: cy}).
		CubeTo(vec.Vec2{X: cx + rx, Y: cy + k*ry}, vec.Vec2{X: cx + k*rx, Y: cy + ry}, vec.Vec2{X: cx, Y: cy + ry}).
		CubeTo(vec.Vec2{X: cx - k*rx, Y: cy + ry}, vec.Vec2{X: cx - rx, Y: cy + k*ry}, vec.Vec2{X: cx - rx, Y: cy}).
		CubeTo(vec.Vec2{X: cx - rx, Y: cy - k*ry}, vec.Vec2{X: cx - k*rx, Y: cy - ry}, vec.Vec2{X: cx, Y: cy - ry}).
		CubeTo(vec.Vec2{X: cx + k*rx, Y: cy - ry}, vec.Vec2{X: cx + rx, Y: cy - k*ry}, vec.Vec2{X: cx + rx, Y: cy}).
		Close()
}

// triangle returns the isosceles triangle with apex (size/2, apexY) and
// base corners (inset, size-inset) and (size-inset, size-inset).  The
// vertices are placed at pixel centers.
func triangle(size int, apexY, inset float64) *path.Data {
	s := float64(size)
	return (&path.Data{}).
		MoveTo(vec.Vec2{X: s/2 + 0.5, Y: apexY + 0.5}).
		LineTo(vec.Vec2{X: s - inset + 0.5, Y: s - inset + 0.5}).
		LineTo(vec.Vec2{X: inset + 0.5, Y: s - inset + 0.5}).
		Close()
}
