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
	"testing"
)

func TestAlphaMask(t *testing.T) {
	m := image.NewAlpha(image.Rect(0, 0, 4, 1))
	emit := AlphaMask(m, 0)

	emit(0, 1, []float32{0.5, 1})
	emit(0, 0, []float32{0.25, 0.25})

	want := []uint8{64, 128, 255, 0}
	for i, w := range want {
		if m.Pix[i] != w {
			t.Errorf("pixel %d: got %d, want %d", i, m.Pix[i], w)
		}
	}
}

func TestAlphaMaskThreshold(t *testing.T) {
	m := image.NewAlpha(image.Rect(0, 0, 4, 1))
	emit := AlphaMask(m, 0.5)

	emit(0, 0, []float32{0.49, 0.5, 0.9, 0.1})

	want := []uint8{0, 255, 255, 0}
	for i, w := range want {
		if m.Pix[i] != w {
			t.Errorf("pixel %d: got %d, want %d", i, m.Pix[i], w)
		}
	}
}

func TestAlphaMaskOffset(t *testing.T) {
	m := image.NewAlpha(image.Rect(10, 20, 14, 22))
	emit := AlphaMask(m, 0)

	emit(1, 2, []float32{1})

	if got := m.AlphaAt(12, 21).A; got != 255 {
		t.Errorf("got %d, want 255", got)
	}
}

func TestPaint(t *testing.T) {
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	dst := image.NewRGBA(image.Rect(0, 0, 3, 1))
	for x := range 3 {
		dst.SetRGBA(x, 0, white)
	}

	red := color.RGBA{R: 255, A: 255}
	Paint(dst, red)(0, 0, []float32{1, 0.5, 0})

	cases := []color.RGBA{
		red,
		{R: 255, G: 127, B: 127, A: 255},
		white,
	}
	for x, want := range cases {
		if got := dst.RGBAAt(x, 0); got != want {
			t.Errorf("pixel %d: got %v, want %v", x, got, want)
		}
	}
}
