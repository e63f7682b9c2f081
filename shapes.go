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

// Package protoshapes describes datasets of simple shape images, for
// research on category and prototype learning.
//
// Every image shows one [Shape] in one [Color] and [Texture].  For each
// shape a [PrototypeSpec] sets the typical ("prototypical") color and
// texture, together with the probability that an instance shows them.
// The subpackages sample the attributes, render and transform the images
// and assemble them into a dataset on disk.
package protoshapes

import (
	"errors"
	"fmt"
	"image/color"
)

// ErrInvalidArgument is returned for unknown names and out-of-range values.
var ErrInvalidArgument = errors.New("invalid argument")

// Shape is the category of a generated image.
type Shape int

// These are the supported shapes.
const (
	Square Shape = iota
	Circle
	Triangle
)

var shapeNames = [...]string{
	Square:   "square",
	Circle:   "circle",
	Triangle: "triangle",
}

// AllShapes returns all shapes, in generation order.
func AllShapes() []Shape {
	return []Shape{Square, Circle, Triangle}
}

// ParseShape converts a lower case shape name to a Shape.
func ParseShape(name string) (Shape, error) {
	for s, n := range shapeNames {
		if n == name {
			return Shape(s), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown shape %q", ErrInvalidArgument, name)
}

// IsValid reports whether s is one of the defined shapes.
func (s Shape) IsValid() bool {
	return s >= 0 && int(s) < len(shapeNames)
}

func (s Shape) String() string {
	if !s.IsValid() {
		return fmt.Sprintf("Shape(%d)", int(s))
	}
	return shapeNames[s]
}

// MarshalText implements the [encoding.TextMarshaler] interface.
func (s Shape) MarshalText() ([]byte, error) {
	if !s.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, s)
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
func (s *Shape) UnmarshalText(text []byte) error {
	v, err := ParseShape(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Color is the color in which a shape is drawn.
type Color int

// These are the supported colors.
const (
	Red Color = iota
	Green
	Blue
	Black
)

var colorNames = [...]string{
	Red:   "red",
	Green: "green",
	Blue:  "blue",
	Black: "black",
}

var palette = [...]color.RGBA{
	Red:   {R: 0xff, A: 0xff},
	Green: {G: 0x80, A: 0xff},
	Blue:  {B: 0xff, A: 0xff},
	Black: {A: 0xff},
}

// Background is the color of all pixels not covered by a shape.
var Background = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// AllColors returns all colors.
func AllColors() []Color {
	return []Color{Red, Green, Blue, Black}
}

// ParseColor converts a lower case color name to a Color.
func ParseColor(name string) (Color, error) {
	for c, n := range colorNames {
		if n == name {
			return Color(c), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown color %q", ErrInvalidArgument, name)
}

// IsValid reports whether c is one of the defined colors.
func (c Color) IsValid() bool {
	return c >= 0 && int(c) < len(colorNames)
}

func (c Color) String() string {
	if !c.IsValid() {
		return fmt.Sprintf("Color(%d)", int(c))
	}
	return colorNames[c]
}

// Pixel returns the opaque RGBA value used to draw c.
// Invalid colors map to the background.
func (c Color) Pixel() color.RGBA {
	if !c.IsValid() {
		return Background
	}
	return palette[c]
}

// MarshalText implements the [encoding.TextMarshaler] interface.
func (c Color) MarshalText() ([]byte, error) {
	if !c.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, c)
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
func (c *Color) UnmarshalText(text []byte) error {
	v, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Texture is the fill pattern of a shape.
type Texture int

// These are the supported textures.
const (
	// Solid shapes are filled with their color.
	Solid Texture = iota

	// Striped shapes have a colored outline and are filled with parallel
	// lines at a random angle.
	Striped

	// Blank shapes have a colored outline and a white interior.
	Blank
)

var textureNames = [...]string{
	Solid:   "solid",
	Striped: "striped",
	Blank:   "blank",
}

// AllTextures returns all textures.
func AllTextures() []Texture {
	return []Texture{Solid, Striped, Blank}
}

// ParseTexture converts a lower case texture name to a Texture.
func ParseTexture(name string) (Texture, error) {
	for t, n := range textureNames {
		if n == name {
			return Texture(t), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown texture %q", ErrInvalidArgument, name)
}

// IsValid reports whether t is one of the defined textures.
func (t Texture) IsValid() bool {
	return t >= 0 && int(t) < len(textureNames)
}

func (t Texture) String() string {
	if !t.IsValid() {
		return fmt.Sprintf("Texture(%d)", int(t))
	}
	return textureNames[t]
}

// MarshalText implements the [encoding.TextMarshaler] interface.
func (t Texture) MarshalText() ([]byte, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, t)
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
func (t *Texture) UnmarshalText(text []byte) error {
	v, err := ParseTexture(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// FileType is the image format of the generated files.
type FileType int

// These are the supported file types.
const (
	PNG FileType = iota
	JPEG
)

// ParseFileType converts a file extension, without the leading dot, to a
// FileType.  Both "jpg" and "jpeg" are accepted for JPEG.
func ParseFileType(ext string) (FileType, error) {
	switch ext {
	case "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	}
	return 0, fmt.Errorf("%w: unknown file type %q", ErrInvalidArgument, ext)
}

// IsValid reports whether ft is one of the defined file types.
func (ft FileType) IsValid() bool {
	return ft == PNG || ft == JPEG
}

// Ext returns the file name extension for ft, without the leading dot.
func (ft FileType) Ext() string {
	switch ft {
	case PNG:
		return "png"
	case JPEG:
		return "jpg"
	}
	return ""
}

func (ft FileType) String() string {
	if !ft.IsValid() {
		return fmt.Sprintf("FileType(%d)", int(ft))
	}
	return ft.Ext()
}

// MarshalText implements the [encoding.TextMarshaler] interface.
func (ft FileType) MarshalText() ([]byte, error) {
	if !ft.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidArgument, ft)
	}
	return []byte(ft.Ext()), nil
}

// UnmarshalText implements the [encoding.TextUnmarshaler] interface.
func (ft *FileType) UnmarshalText(text []byte) error {
	v, err := ParseFileType(string(text))
	if err != nil {
		return err
	}
	*ft = v
	return nil
}
