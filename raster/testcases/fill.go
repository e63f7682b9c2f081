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

package testcases

import (
	"math"

	"seehuhn.de/go/geom/path"
)

var fillCases = []TestCase{
	{
		Name:   "rectangle",
		Path:   rectangle(10, 10, 44, 44),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
		Area:   34 * 34,
	},
	{
		Name:   "rectangle_subpixel",
		Path:   rectangle(10.25, 10.5, 43.75, 44.5),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
		Area:   33.5 * 34,
	},
	{
		Name:   "triangle",
		Path:   triangle(10, 50, 32, 10, 54, 50),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
		Area:   44 * 40 / 2,
	},
	{
		Name:   "triangle_open",
		Path:   openTriangle(10, 50, 32, 10, 54, 50),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
		Area:   44 * 40 / 2,
	},
	{
		Name:   "frame_evenodd",
		Path:   nested(8, 56, 16, 48),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: EvenOdd},
		Area:   48*48 - 32*32,
	},
	{
		Name:   "frame_nonzero",
		Path:   nested(8, 56, 16, 48),
		Width:  64,
		Height: 64,
		Op:     Fill{Rule: NonZero},
		Area:   48 * 48,
	},
	{
		Name:      "circle",
		Path:      ellipse(32, 32, 20, 20),
		Width:     64,
		Height:    64,
		Op:        Fill{Rule: NonZero},
		Area:      math.Pi * 20 * 20,
		Tolerance: 0.005,
	},
	{
		Name:      "ellipse_clipped",
		Path:      ellipse(0, 32, 20, 10),
		Width:     64,
		Height:    64,
		Op:        Fill{Rule: NonZero},
		Area:      math.Pi * 20 * 10 / 2,
		Tolerance: 0.005,
	},
}

// rectangle builds a rectangular path.
func rectangle(x1, y1, x2, y2 float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(x1, y1)).
		LineTo(pt(x2, y1)).
		LineTo(pt(x2, y2)).
		LineTo(pt(x1, y2)).
		Close()
}

// nested builds two concentric squares with the same orientation.
func nested(outer0, outer1, inner0, inner1 float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(outer0, outer0)).
		LineTo(pt(outer1, outer0)).
		LineTo(pt(outer1, outer1)).
		LineTo(pt(outer0, outer1)).
		Close().
		MoveTo(pt(inner0, inner0)).
		LineTo(pt(inner1, inner0)).
		LineTo(pt(inner1, inner1)).
		LineTo(pt(inner0, inner1)).
		Close()
}

// triangle builds a closed triangular path.
func triangle(x1, y1, x2, y2, x3, y3 float64) *path.Data {
	return openTriangle(x1, y1, x2, y2, x3, y3).Close()
}

// openTriangle builds a triangle without the closing segment.
func openTriangle(x1, y1, x2, y2, x3, y3 float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(x1, y1)).
		LineTo(pt(x2, y2)).
		LineTo(pt(x3, y3))
}

// ellipse approximates an axis-aligned ellipse by four cubic Bézier
// curves.
func ellipse(cx, cy, rx, ry float64) *path.Data {
	const k = 0.5522847498307936 // 4/3 (√2 - 1)
	return (&path.Data{}).
		MoveTo(pt(cx+rx, cy)).
		CubeTo(pt(cx+rx, cy+k*ry), pt(cx+k*rx, cy+ry), pt(cx, cy+ry)).
		CubeTo(pt(cx-k*rx, cy+ry), pt(cx-rx, cy+k*ry), pt(cx-rx, cy)).
		CubeTo(pt(cx-rx, cy-k*ry), pt(cx-k*rx, cy-ry), pt(cx, cy-ry)).
		CubeTo(pt(cx+k*rx, cy-ry), pt(cx+rx, cy-k*ry), pt(cx+rx, cy)).
		Close()
}
