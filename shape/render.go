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

// Package shape draws the canonical square, circle and triangle images.
//
// Shapes are drawn centered on a white canvas.  Solid shapes are filled
// with their color.  Striped and blank shapes get a colored outline;
// striped shapes are then filled with a rotated stripe pattern inside the
// outline, blank shapes stay white inside.
package shape

import (
	"fmt"
	"image"
	"math/rand/v2"
	"sync"

	"golang.org/x/image/draw"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/pdf/graphics"

	"seehuhn.de/go/protoshapes"
	"seehuhn.de/go/protoshapes/raster"
	"seehuhn.de/go/protoshapes/stripes"
)

// MinSize is the smallest canvas on which all shapes fit.
const MinSize = 48

// maskThreshold is the coverage from which a pixel belongs to the stripe
// mask.
const maskThreshold = 0.5

// Renderer draws shapes onto new canvases of a fixed size.
// A Renderer can be used by several goroutines at the same time.
type Renderer struct {
	size  int
	cache *stripes.Cache
	pool  sync.Pool // of *raster.Rasterizer
}

// NewRenderer returns a Renderer for canvases of imageSize × imageSize
// pixels.  The stripe cache is used for striped shapes; it must have been
// built for the same image size.
func NewRenderer(imageSize int, cache *stripes.Cache) *Renderer {
	r := &Renderer{
		size:  imageSize,
		cache: cache,
	}
	r.pool.New = func() any {
		return raster.NewRasterizer(imageSize, imageSize)
	}
	return r
}

// ImageSize returns the width and height of the rendered images.
func (r *Renderer) ImageSize() int {
	return r.size
}

// Render draws shape in the given color and texture onto a new white
// canvas.  The random source is only used for striped shapes, to choose
// the stripe angle.
func (r *Renderer) Render(shape protoshapes.Shape, col protoshapes.Color, tex protoshapes.Texture, rng *rand.Rand) (*image.RGBA, error) {
	if !shape.IsValid() {
		return nil, fmt.Errorf("%w: %s", protoshapes.ErrInvalidArgument, shape)
	}
	if !col.IsValid() {
		return nil, fmt.Errorf("%w: %s", protoshapes.ErrInvalidArgument, col)
	}
	if !tex.IsValid() {
		return nil, fmt.Errorf("%w: %s", protoshapes.ErrInvalidArgument, tex)
	}
	if r.size < MinSize {
		return nil, fmt.Errorf("%w: image size %d below %d",
			protoshapes.ErrInvalidArgument, r.size, MinSize)
	}

	ras := r.pool.Get().(*raster.Rasterizer)
	defer r.pool.Put(ras)

	img := r.draw(ras, shape, col, tex == protoshapes.Solid)
	if tex != protoshapes.Striped {
		return img, nil
	}

	if r.cache == nil || r.cache.ImageSize() != r.size {
		return nil, fmt.Errorf("%w: no stripe cache for image size %d",
			protoshapes.ErrInvalidArgument, r.size)
	}
	tile, err := r.cache.RotatedCrop(col, rng)
	if err != nil {
		return nil, err
	}
	mask := r.silhouette(ras, shape)
	return composite(img, tile, mask), nil
}

// draw renders the solid shape, or its outline, onto a new canvas.
func (r *Renderer) draw(ras *raster.Rasterizer, shape protoshapes.Shape, col protoshapes.Color, solid bool) *image.RGBA {
	s := r.size
	img := blank(s)
	paint := raster.Paint(img, col.Pixel())
	erase := raster.Paint(img, protoshapes.Background)

	ras.Reset(s, s)
	switch shape {
	case protoshapes.Square:
		if solid {
			ras.Fill(insetBox(s, solidInset).area(), raster.NonZero, paint)
			break
		}
		outline := &path.Data{}
		for i := range squareOutlineCount {
			insetBox(s, squareOutlineInset+i).addBorder(outline)
		}
		ras.Width = 1
		ras.Join = graphics.LineJoinMiter
		ras.Stroke(outline, paint)

	case protoshapes.Circle:
		b := insetBox(s, solidInset)
		if solid {
			ras.Fill(b.ellipse(0), raster.NonZero, paint)
			break
		}
		ras.Fill(b.ellipse(0), raster.NonZero, erase)
		ras.Width = 1
		ras.Stroke(b.ellipse(0.5), paint)

	case protoshapes.Triangle:
		ras.Fill(triangle(s, triangleInset, triangleInset), raster.NonZero, paint)
		if !solid {
			ras.Fill(triangle(s, triangleInnerApex, triangleInnerInset), raster.NonZero, erase)
		}
	}
	return img
}

// silhouette returns the binary mask of the region which is filled with
// stripes.  It lies slightly inside the outline drawn by draw.
func (r *Renderer) silhouette(ras *raster.Rasterizer, shape protoshapes.Shape) *image.Alpha {
	s := r.size
	mask := image.NewAlpha(image.Rect(0, 0, s, s))
	emit := raster.AlphaMask(mask, maskThreshold)

	ras.Reset(s, s)
	switch shape {
	case protoshapes.Square:
		ras.Fill(insetBox(s, squareMaskInset).area(), raster.NonZero, emit)
	case protoshapes.Circle:
		ras.Fill(insetBox(s, circleMaskInset).ellipse(0), raster.NonZero, emit)
	case protoshapes.Triangle:
		ras.Fill(triangle(s, triangleMaskInset, triangleMaskInset), raster.NonZero, emit)
	}
	return mask
}

// composite returns a copy of img with tile drawn over it through mask.
func composite(img, tile *image.RGBA, mask *image.Alpha) *image.RGBA {
	out := image.NewRGBA(img.Rect)
	copy(out.Pix, img.Pix)
	draw.DrawMask(out, out.Bounds(), tile, tile.Rect.Min, mask, mask.Rect.Min, draw.Over)
	return out
}

// blank returns a new white canvas.
func blank(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(protoshapes.Background), image.Point{}, draw.Src)
	return img
}
