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

// Package stripes provides the striped fill pattern for shapes.
//
// For every color an oversized canvas with horizontal lines is rendered
// once.  Each striped shape then uses a randomly rotated crop of this
// canvas.
package stripes

import (
	"fmt"
	"image"
	"math"
	"math/rand/v2"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/protoshapes"
	"seehuhn.de/go/protoshapes/raster"
)

const (
	// LineWidth is the width of the stripes in pixels.
	LineWidth = 3

	// Spacing is the distance between the centers of neighbouring stripes.
	Spacing = 20
)

// Cache holds the stripe canvases for a fixed image size.  The canvases
// are not modified after New returns, so a Cache can be used by many
// goroutines at once.
type Cache struct {
	size     int
	canvases map[protoshapes.Color]*image.RGBA
}

// New renders the stripe canvases for the given colors.  Every canvas
// measures 2*imageSize pixels in each direction.
func New(colors []protoshapes.Color, imageSize int) *Cache {
	n := 2 * imageSize
	r := raster.NewRasterizer(n, n)

	c := &Cache{
		size:     imageSize,
		canvases: make(map[protoshapes.Color]*image.RGBA, len(colors)),
	}
	stripes := lines(n)
	for _, col := range colors {
		img := image.NewRGBA(image.Rect(0, 0, n, n))
		draw.Draw(img, img.Bounds(), image.NewUniform(protoshapes.Background), image.Point{}, draw.Src)

		r.Reset(n, n)
		r.Width = LineWidth
		r.Cap = graphics.LineCapButt
		r.Stroke(stripes, raster.Paint(img, col.Pixel()))

		c.canvases[col] = img
	}
	return c
}

// lines returns the horizontal stripes for a canvas of size n.  The line
// at y covers the pixel rows y-1 to y+1.
func lines(n int) *path.Data {
	p := &path.Data{}
	for y := 0; y < n; y += Spacing {
		yc := float64(y) + 0.5
		p.MoveTo(vec.Vec2{X: 0, Y: yc}).LineTo(vec.Vec2{X: float64(n), Y: yc})
	}
	return p
}

// ImageSize returns the size of the crops returned by RotatedCrop.
func (c *Cache) ImageSize() int {
	return c.size
}

// Canvas returns the unrotated canvas for col.  The caller must not
// modify the returned image.
func (c *Cache) Canvas(col protoshapes.Color) (*image.RGBA, bool) {
	img, ok := c.canvases[col]
	return img, ok
}

// RotatedCrop rotates the canvas for col by a random angle in [0°, 180°)
// around its center and returns the central imageSize × imageSize region
// as a new image.
//
// The crop lies inside the circle inscribed in the canvas, so it never
// reaches the corners left empty by the rotation.
func (c *Cache) RotatedCrop(col protoshapes.Color, rng *rand.Rand) (*image.RGBA, error) {
	src, ok := c.canvases[col]
	if !ok {
		return nil, fmt.Errorf("%w: no stripes for color %s", protoshapes.ErrInvalidArgument, col)
	}

	angle := rng.Float64() * math.Pi
	return c.crop(src, angle), nil
}

// crop returns the central region of src after rotating it by angle
// (in radians).
func (c *Cache) crop(src *image.RGBA, angle float64) *image.RGBA {
	s := c.size
	center := float64(s)     // center of the 2s × 2s canvas
	offset := float64(s / 2) // top-left corner of the crop

	sin, cos := math.Sincos(angle)

	// The matrix maps canvas coordinates to crop coordinates:
	// dst = R·(src - center) + center - offset
	m := f64.Aff3{
		cos, -sin, center - cos*center + sin*center - offset,
		sin, cos, center - sin*center - cos*center - offset,
	}

	dst := image.NewRGBA(image.Rect(0, 0, s, s))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(protoshapes.Background), image.Point{}, draw.Src)
	draw.NearestNeighbor.Transform(dst, m, src, src.Bounds(), draw.Src, nil)
	return dst
}
