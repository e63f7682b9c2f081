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

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/pdf/graphics"
)

var strokeCases = []TestCase{
	{
		Name:   "line_butt",
		Path:   line(8, 20, 56, 20),
		Width:  64,
		Height: 64,
		Op:     Stroke{Width: 3, Cap: graphics.LineCapButt, Join: graphics.LineJoinMiter, MiterLimit: 10},
		Area:   48 * 3,
	},
	{
		Name:   "line_square",
		Path:   line(8, 20, 56, 20),
		Width:  64,
		Height: 64,
		Op:     Stroke{Width: 3, Cap: graphics.LineCapSquare, Join: graphics.LineJoinMiter, MiterLimit: 10},
		Area:   51 * 3,
	},
	{
		Name:      "line_round",
		Path:      line(8, 20, 56, 20),
		Width:     64,
		Height:    64,
		Op:        Stroke{Width: 3, Cap: graphics.LineCapRound, Join: graphics.LineJoinMiter, MiterLimit: 10},
		Area:      48*3 + math.Pi*1.5*1.5,
		Tolerance: 0.01,
	},
	{
		Name:   "outline_miter",
		Path:   rectangle(16, 16, 48, 48),
		Width:  64,
		Height: 64,
		Op:     Stroke{Width: 2, Cap: graphics.LineCapButt, Join: graphics.LineJoinMiter, MiterLimit: 10},
		Area:   34*34 - 30*30,
	},
	{
		Name:   "outline_bevel",
		Path:   rectangle(16, 16, 48, 48),
		Width:  64,
		Height: 64,
		Op:     Stroke{Width: 2, Cap: graphics.LineCapButt, Join: graphics.LineJoinBevel, MiterLimit: 10},
		Area:   34*34 - 30*30 - 4*0.5,
	},
	{
		// a miter limit of 1 turns every corner into a bevel
		Name:   "outline_miter_limit",
		Path:   rectangle(16, 16, 48, 48),
		Width:  64,
		Height: 64,
		Op:     Stroke{Width: 2, Cap: graphics.LineCapButt, Join: graphics.LineJoinMiter, MiterLimit: 1},
		Area:   34*34 - 30*30 - 4*0.5,
	},
	{
		Name:      "outline_round",
		Path:      rectangle(16, 16, 48, 48),
		Width:     64,
		Height:    64,
		Op:        Stroke{Width: 2, Cap: graphics.LineCapButt, Join: graphics.LineJoinRound, MiterLimit: 10},
		Area:      34*34 - 30*30 - 4*(1-math.Pi/4),
		Tolerance: 0.01,
	},
}

var ctmCases = []TestCase{
	{
		Name:   "scale_2x",
		Path:   rectangle(0, 0, 20, 20),
		Width:  128,
		Height: 128,
		Op:     Fill{Rule: NonZero},
		CTM:    matrix.Scale(2, 2).Translate(24, 24),
		Area:   40 * 40,
	},
	{
		Name:   "scale_anisotropic",
		Path:   rectangle(0, 0, 20, 20),
		Width:  128,
		Height: 128,
		Op:     Fill{Rule: NonZero},
		CTM:    matrix.Scale(2, 1).Translate(40, 40),
		Area:   40 * 20,
	},
	{
		// the stroke width scales with the CTM
		Name:   "scale_stroke",
		Path:   line(0, 10, 20, 10),
		Width:  128,
		Height: 128,
		Op:     Stroke{Width: 2, Cap: graphics.LineCapButt, Join: graphics.LineJoinMiter, MiterLimit: 10},
		CTM:    matrix.Scale(2, 2).Translate(24, 24),
		Area:   40 * 4,
	},
}

// line builds an open path with a single segment.
func line(x1, y1, x2, y2 float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(x1, y1)).
		LineTo(pt(x2, y2))
}
