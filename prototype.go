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

package protoshapes

import "fmt"

// PrototypeSpec describes the attribute distribution of one shape.
//
// With probability PercentColor an instance gets the prototype color.
// Otherwise the color is drawn uniformly from all colors, which may select
// the prototype again.  Textures are sampled the same way, independently
// of the color.
type PrototypeSpec struct {
	Color          Color   `yaml:"color"`
	PercentColor   float64 `yaml:"percent_color"`
	Texture        Texture `yaml:"texture"`
	PercentTexture float64 `yaml:"percent_texture"`
	Count          int     `yaml:"number"`
}

// Validate checks that all fields are in range.
func (p PrototypeSpec) Validate() error {
	if !p.Color.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidArgument, p.Color)
	}
	if !p.Texture.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidArgument, p.Texture)
	}
	if !(p.PercentColor >= 0 && p.PercentColor <= 1) {
		return fmt.Errorf("%w: color percentage %g not in [0, 1]",
			ErrInvalidArgument, p.PercentColor)
	}
	if !(p.PercentTexture >= 0 && p.PercentTexture <= 1) {
		return fmt.Errorf("%w: texture percentage %g not in [0, 1]",
			ErrInvalidArgument, p.PercentTexture)
	}
	if p.Count < 0 {
		return fmt.Errorf("%w: negative count %d", ErrInvalidArgument, p.Count)
	}
	return nil
}

// ExpectedFrequency returns the long-run fraction of instances which show
// the prototype value, when the prototype is chosen with probability
// percent and otherwise one of k values is drawn uniformly.
func ExpectedFrequency(percent float64, k int) float64 {
	return percent + (1-percent)/float64(k)
}

// Instance is a single generated token of a shape.
type Instance struct {
	Shape   Shape
	Index   int
	Color   Color
	Texture Texture
}
