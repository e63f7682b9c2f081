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

package config

import (
	"bytes"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"seehuhn.de/go/protoshapes"
)

const example = `
output_directory: data
dataset_name: prototypes
image_size: 96
filetype: jpg
validation_split: 0.2
seed: 42
workers: 4
shapes:
  circle:
    color: red
    percent_color: 0.8
    texture: solid
    percent_texture: 0.7
    number: 1000
  triangle:
    color: black
    percent_color: 0.5
    texture: striped
    percent_texture: 1
    number: 10
`

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/protogen.yaml", []byte(example), 0o644))

	c, err := Load(fs, "/etc/protogen.yaml")
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	require.Equal(t, "data", c.OutputDirectory)
	require.Equal(t, "prototypes", c.DatasetName)
	require.Equal(t, 96, c.ImageSize)
	require.Equal(t, protoshapes.JPEG, c.FileType)
	require.Equal(t, 0.2, c.ValidationSplit)
	require.Equal(t, uint64(42), c.Seed)
	require.Equal(t, 4, c.Workers)
	require.Equal(t, DefaultJPEGQuality, c.JPEGQuality)
	require.Len(t, c.Shapes, 2)
	require.Equal(t, protoshapes.PrototypeSpec{
		Color:          protoshapes.Red,
		PercentColor:   0.8,
		Texture:        protoshapes.Solid,
		PercentTexture: 0.7,
		Count:          1000,
	}, c.Shapes[protoshapes.Circle])
	require.Equal(t, filepath.Join("data", "prototypes"), c.DatasetDir())
}

func TestLoadErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := Load(fs, "missing.yaml")
	require.Error(t, err)

	require.NoError(t, afero.WriteFile(fs, "typo.yaml", []byte("image_sise: 64\n"), 0o644))
	_, err = Load(fs, "typo.yaml")
	require.Error(t, err)

	require.NoError(t, afero.WriteFile(fs, "color.yaml", []byte("shapes:\n  square:\n    color: pink\n"), 0o644))
	_, err = Load(fs, "color.yaml")
	require.ErrorIs(t, err, protoshapes.ErrInvalidArgument)
}

func TestDecodeEmpty(t *testing.T) {
	c, err := Decode(bytes.NewReader(nil))
	require.NoError(t, err)
	require.Equal(t, Default(), c)
}

func TestEncodeRoundTrip(t *testing.T) {
	c, err := Decode(bytes.NewReader([]byte(example)))
	require.NoError(t, err)

	buf := &bytes.Buffer{}
	require.NoError(t, c.Encode(buf))

	back, err := Decode(buf)
	require.NoError(t, err)
	require.Equal(t, c, back)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := Default()
		c.Shapes[protoshapes.Square] = protoshapes.PrototypeSpec{
			Color: protoshapes.Blue, PercentColor: 0.5,
			Texture: protoshapes.Blank, PercentTexture: 0.5,
			Count: 3,
		}
		return c
	}
	require.NoError(t, valid().Validate())

	breakers := map[string]func(c *Config){
		"no output":      func(c *Config) { c.OutputDirectory = "" },
		"no name":        func(c *Config) { c.DatasetName = "" },
		"nested name":    func(c *Config) { c.DatasetName = "a/b" },
		"dot name":       func(c *Config) { c.DatasetName = ".." },
		"small image":    func(c *Config) { c.ImageSize = 16 },
		"file type":      func(c *Config) { c.FileType = protoshapes.FileType(5) },
		"split high":     func(c *Config) { c.ValidationSplit = 1.5 },
		"split negative": func(c *Config) { c.ValidationSplit = -0.1 },
		"workers":        func(c *Config) { c.Workers = 0 },
		"quality":        func(c *Config) { c.JPEGQuality = 101 },
		"no shapes":      func(c *Config) { c.Shapes = nil },
		"percent": func(c *Config) {
			spec := c.Shapes[protoshapes.Square]
			spec.PercentColor = 1.01
			c.Shapes[protoshapes.Square] = spec
		},
		"count": func(c *Config) {
			spec := c.Shapes[protoshapes.Square]
			spec.Count = -5
			c.Shapes[protoshapes.Square] = spec
		},
	}
	for name, breaker := range breakers {
		c := valid()
		breaker(c)
		require.ErrorIs(t, c.Validate(), protoshapes.ErrInvalidArgument, name)
	}

	// random stats do not need explicit shapes
	c := valid()
	c.Shapes = nil
	c.RandomStats = true
	require.NoError(t, c.Validate())
}

func TestApplyRandomStats(t *testing.T) {
	c := Default()
	c.Shapes[protoshapes.Circle] = protoshapes.PrototypeSpec{Count: 7}
	c.ApplyRandomStats(rand.New(rand.NewPCG(1, 2)))

	require.Len(t, c.Shapes, 3)
	for _, s := range protoshapes.AllShapes() {
		spec := c.Shapes[s]
		require.NoError(t, spec.Validate())
		require.GreaterOrEqual(t, spec.PercentColor, 0.5)
		require.Less(t, spec.PercentColor, 1.0)
		require.GreaterOrEqual(t, spec.PercentTexture, 0.5)
		require.Less(t, spec.PercentTexture, 1.0)
		if s == protoshapes.Circle {
			require.Equal(t, 7, spec.Count)
		} else {
			require.Equal(t, DefaultCount, spec.Count)
		}
	}

	other := Default()
	other.Shapes[protoshapes.Circle] = protoshapes.PrototypeSpec{Count: 7}
	other.ApplyRandomStats(rand.New(rand.NewPCG(1, 2)))
	require.Equal(t, c.Shapes, other.Shapes)
}
