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

// Package config holds the settings of a dataset generation run.
//
// Settings can be read from a YAML file:
//
//	output_directory: data
//	dataset_name: prototypes
//	image_size: 64
//	filetype: png
//	validation_split: 0.2
//	seed: 42
//	shapes:
//	  circle:
//	    color: red
//	    percent_color: 0.8
//	    texture: solid
//	    percent_texture: 0.7
//	    number: 1000
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"seehuhn.de/go/protoshapes"
	"seehuhn.de/go/protoshapes/shape"
)

// Defaults for settings which are not given explicitly.
const (
	DefaultImageSize   = 64
	DefaultCount       = 100
	DefaultJPEGQuality = 90
	DefaultDatasetName = "shapes"
)

// Range for the prototype percentages chosen by ApplyRandomStats.
const (
	randomPercentMin = 0.5
	randomPercentMax = 1.0
)

// Config describes a dataset generation run.  A Config must not be
// modified once generation has started.
type Config struct {
	OutputDirectory string               `yaml:"output_directory"`
	DatasetName     string               `yaml:"dataset_name"`
	ImageSize       int                  `yaml:"image_size"`
	FileType        protoshapes.FileType `yaml:"filetype"`
	ValidationSplit float64              `yaml:"validation_split"`

	// RandomStats asks for prototype specifications to be generated,
	// see ApplyRandomStats.
	RandomStats bool `yaml:"random_stats"`

	// Seed determines all random choices of the run.
	Seed uint64 `yaml:"seed"`

	// Workers is the number of images generated concurrently.
	Workers int `yaml:"workers"`

	JPEGQuality int `yaml:"jpeg_quality"`

	Shapes map[protoshapes.Shape]protoshapes.PrototypeSpec `yaml:"shapes"`
}

// Default returns a configuration with all defaults filled in and no
// shapes.
func Default() *Config {
	return &Config{
		OutputDirectory: ".",
		DatasetName:     DefaultDatasetName,
		ImageSize:       DefaultImageSize,
		FileType:        protoshapes.PNG,
		Workers:         1,
		JPEGQuality:     DefaultJPEGQuality,
		Shapes:          make(map[protoshapes.Shape]protoshapes.PrototypeSpec),
	}
}

// Load reads a YAML configuration file.  Settings missing from the file
// keep their default values.
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	c, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Decode reads a YAML configuration from r.  Unknown keys are an error.
func Decode(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if c.Shapes == nil {
		c.Shapes = make(map[protoshapes.Shape]protoshapes.PrototypeSpec)
	}
	return c, nil
}

// Encode writes c in YAML format.
func (c *Config) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}

// Validate checks all settings.  All errors wrap
// [protoshapes.ErrInvalidArgument].
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format,
			append([]any{protoshapes.ErrInvalidArgument}, args...)...))
	}

	if c.OutputDirectory == "" {
		bad("missing output directory")
	}
	switch {
	case c.DatasetName == "":
		bad("missing dataset name")
	case c.DatasetName == "." || c.DatasetName == ".." ||
		strings.ContainsAny(c.DatasetName, `/\`) ||
		c.DatasetName != filepath.Base(c.DatasetName):
		bad("dataset name %q is not a plain directory name", c.DatasetName)
	}
	if c.ImageSize < shape.MinSize {
		bad("image size %d below %d", c.ImageSize, shape.MinSize)
	}
	if !c.FileType.IsValid() {
		bad("unsupported file type %s", c.FileType)
	}
	if !(c.ValidationSplit >= 0 && c.ValidationSplit <= 1) {
		bad("validation split %g not in [0, 1]", c.ValidationSplit)
	}
	if c.Workers < 1 {
		bad("%d workers", c.Workers)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		bad("JPEG quality %d not in [1, 100]", c.JPEGQuality)
	}
	if len(c.Shapes) == 0 && !c.RandomStats {
		bad("no shapes configured")
	}
	for _, s := range protoshapes.AllShapes() {
		spec, ok := c.Shapes[s]
		if !ok {
			continue
		}
		if err := spec.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s, err))
		}
	}
	for s := range c.Shapes {
		if !s.IsValid() {
			bad("unknown shape %s", s)
		}
	}

	return errors.Join(errs...)
}

// ApplyRandomStats replaces the prototype specifications of all shapes by
// randomly chosen ones.  Prototype color and texture are drawn uniformly,
// the percentages uniformly from [0.5, 1).  Counts already configured for
// a shape are kept, other shapes get DefaultCount instances.
func (c *Config) ApplyRandomStats(rng *rand.Rand) {
	colors := protoshapes.AllColors()
	textures := protoshapes.AllTextures()

	shapes := make(map[protoshapes.Shape]protoshapes.PrototypeSpec)
	for _, s := range protoshapes.AllShapes() {
		count := DefaultCount
		if old, ok := c.Shapes[s]; ok && old.Count > 0 {
			count = old.Count
		}
		shapes[s] = protoshapes.PrototypeSpec{
			Color:          colors[rng.IntN(len(colors))],
			PercentColor:   randomPercent(rng),
			Texture:        textures[rng.IntN(len(textures))],
			PercentTexture: randomPercent(rng),
			Count:          count,
		}
	}
	c.Shapes = shapes
}

func randomPercent(rng *rand.Rand) float64 {
	return randomPercentMin + (randomPercentMax-randomPercentMin)*rng.Float64()
}

// DatasetDir returns the directory which holds the generated dataset.
func (c *Config) DatasetDir() string {
	return filepath.Join(c.OutputDirectory, c.DatasetName)
}
