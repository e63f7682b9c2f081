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
	"image"
	"image/color"
)

// AlphaMask returns an EmitFunc which adds coverage to m.  With threshold
// zero the anti-aliased coverage is kept.  Otherwise pixels with coverage
// at or above threshold become opaque and all other pixels are left
// unchanged, which gives a binary mask.
//
// Emitted coordinates are taken relative to m.Rect.Min.
func AlphaMask(m *image.Alpha, threshold float32) EmitFunc {
	return func(y, xMin int, coverage []float32) {
		row := m.Pix[m.PixOffset(m.Rect.Min.X+xMin, m.Rect.Min.Y+y):]
		for i, c := range coverage {
			var a uint8
			if threshold > 0 {
				if c < threshold {
					continue
				}
				a = 0xff
			} else {
				a = toByte(c)
			}
			row[i] = max(row[i], a)
		}
	}
}

// Paint returns an EmitFunc which blends the opaque color c into dst,
// using the coverage as opacity.
//
// Emitted coordinates are taken relative to dst.Rect.Min.
func Paint(dst *image.RGBA, c color.RGBA) EmitFunc {
	return func(y, xMin int, coverage []float32) {
		row := dst.Pix[dst.PixOffset(dst.Rect.Min.X+xMin, dst.Rect.Min.Y+y):]
		for i, cov := range coverage {
			a := uint32(toByte(cov))
			if a == 0 {
				continue
			}
			px := row[4*i : 4*i+4 : 4*i+4]
			px[0] = blend(px[0], c.R, a)
			px[1] = blend(px[1], c.G, a)
			px[2] = blend(px[2], c.B, a)
			px[3] = 0xff
		}
	}
}

// blend mixes src over dst with opacity a/255.
func blend(dst, src uint8, a uint32) uint8 {
	return uint8((uint32(src)*a + uint32(dst)*(0xff-a) + 0x7f) / 0xff)
}

func toByte(c float32) uint8 {
	return uint8(max(0, min(255, int(c*255+0.5))))
}
