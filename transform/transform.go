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

// Package transform varies the size and position of a rendered shape.
//
// The shape is shrunk towards the origin by a random factor, moved to a
// random position where it is still fully visible, and finally copied
// onto a clean white canvas.
package transform

import (
	"fmt"
	"image"
	"math/rand/v2"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"seehuhn.de/go/protoshapes"
)

// Range of the scale factor.  A factor of f shrinks the image to 1/f of
// its size.
const (
	MinScale = 1.0
	MaxScale = 4.0
)

// Transformer applies random scaling and translation to images of a fixed
// size.  It has no mutable state and can be shared between goroutines.
type Transformer struct {
	size int

	// Interpolator is used to resample the scaled image.
	Interpolator draw.Interpolator
}

// New returns a Transformer for images of imageSize × imageSize pixels.
func New(imageSize int) *Transformer {
	return &Transformer{
		size:         imageSize,
		Interpolator: draw.ApproxBiLinear,
	}
}

// Apply returns a randomly scaled and translated copy of img, which must
// show shape on a white background.  The result is a new image of the
// same size.  If img has no marks, the result is blank.
//
// The random source is used for the scale factor and then for the two
// translation offsets.
func (t *Transformer) Apply(img *image.RGBA, shape protoshapes.Shape, rng *rand.Rand) (*image.RGBA, error) {
	s := t.size
	if img.Bounds() != image.Rect(0, 0, s, s) {
		return nil, fmt.Errorf("%w: image bounds %v, want %dx%d",
			protoshapes.ErrInvalidArgument, img.Bounds(), s, s)
	}
	if !shape.IsValid() {
		return nil, fmt.Errorf("%w: %s", protoshapes.ErrInvalidArgument, shape)
	}

	factor := MinScale + (MaxScale-MinScale)*rng.Float64()
	scaled := t.scale(img, factor)

	// Choose an offset which keeps the far edge of the marks on the
	// canvas.  The shape is moved right and down by -dx and -dy pixels.
	bbox := BBox(scaled)
	if bbox.Empty() {
		return blank(s), nil
	}
	newDim := max(bbox.Max.X, bbox.Max.Y)
	dx := -rng.IntN(s - newDim + 1)
	dy := -rng.IntN(s - newDim + 1)
	moved := blank(s)
	draw.Copy(moved, image.Pt(-dx, -dy), scaled, scaled.Bounds(), draw.Src, nil)

	// Resampling can leave a faint seam along straight edges.
	keep := BBox(moved)
	if shape != protoshapes.Circle {
		keep = keep.Inset(1)
	}

	mask := image.NewAlpha(moved.Bounds())
	draw.Draw(mask, keep, image.Opaque, image.Point{}, draw.Src)

	out := blank(s)
	draw.DrawMask(out, out.Bounds(), moved, image.Point{}, mask, image.Point{}, draw.Over)
	return out, nil
}

// scale shrinks img towards the origin.  Output pixel (x, y) is sampled
// from input position (factor·x, factor·y); pixels with no source stay
// white.
func (t *Transformer) scale(img *image.RGBA, factor float64) *image.RGBA {
	dst := blank(t.size)

	// s2d maps source to destination coordinates
	s2d := f64.Aff3{
		1 / factor, 0, 0,
		0, 1 / factor, 0,
	}
	interp := t.Interpolator
	if interp == nil {
		interp = draw.ApproxBiLinear
	}
	interp.Transform(dst, s2d, img, img.Bounds(), draw.Src, nil)
	return dst
}

// BBox returns the smallest rectangle containing all pixels of img which
// differ from the background.  The result is empty if there are none.
func BBox(img *image.RGBA) image.Rectangle {
	b := img.Bounds()
	xMin, yMin := b.Max.X, b.Max.Y
	xMax, yMax := b.Min.X, b.Min.Y
	bg := protoshapes.Background
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):]
		for x := b.Min.X; x < b.Max.X; x++ {
			i := 4 * (x - b.Min.X)
			if row[i] == bg.R && row[i+1] == bg.G && row[i+2] == bg.B && row[i+3] == bg.A {
				continue
			}
			xMin = min(xMin, x)
			xMax = max(xMax, x+1)
			yMin = min(yMin, y)
			yMax = max(yMax, y+1)
		}
	}
	if xMin >= xMax {
		return image.Rectangle{}
	}
	return image.Rect(xMin, yMin, xMax, yMax)
}

func blank(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(protoshapes.Background), image.Point{}, draw.Src)
	return img
}
