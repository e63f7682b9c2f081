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

package dataset

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
	"gopkg.in/yaml.v3"

	"seehuhn.de/go/protoshapes"
	"seehuhn.de/go/protoshapes/config"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testConfig(split float64) *config.Config {
	cfg := config.Default()
	cfg.OutputDirectory = "/out"
	cfg.DatasetName = "test"
	cfg.ValidationSplit = split
	cfg.Seed = 1
	return cfg
}

func newTestAssembler(t *testing.T, fs afero.Fs, cfg *config.Config) *Assembler {
	t.Helper()
	require.NoError(t, cfg.Validate())
	layout, err := CreateLayout(fs, cfg.OutputDirectory, cfg.DatasetName, cfg.ValidationSplit)
	require.NoError(t, err)
	return New(fs, layout, cfg, zaptest.NewLogger(t))
}

func listNames(t *testing.T, fs afero.Fs, dir string) []string {
	t.Helper()
	entries, err := afero.ReadDir(fs, dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestCreateLayout(t *testing.T) {
	fs := afero.NewMemMapFs()

	l, err := CreateLayout(fs, "/data", "a", 0)
	require.NoError(t, err)
	require.Equal(t, filepath.Join("/data", "a", TrainingDir), l.Training)
	require.Empty(t, l.Validation)
	ok, err := afero.DirExists(fs, l.Training)
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = afero.Exists(fs, filepath.Join("/data", "a", ValidationDir))
	require.NoError(t, err)
	require.False(t, ok)

	l, err = CreateLayout(fs, "/data", "b", 0.1)
	require.NoError(t, err)
	ok, err = afero.DirExists(fs, l.Validation)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = CreateLayout(fs, "/data", "a", 0)
	require.ErrorIs(t, err, ErrExists)

	// a stray validation directory is a collision as well
	require.NoError(t, fs.MkdirAll("/data/c/validation", 0o755))
	_, err = CreateLayout(fs, "/data", "c", 0.5)
	require.ErrorIs(t, err, ErrExists)
	ok, err = afero.Exists(fs, "/data/c/training")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestGenerateNames(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := testConfig(0)
	spec := protoshapes.PrototypeSpec{
		Color: protoshapes.Red, PercentColor: 1,
		Texture: protoshapes.Solid, PercentTexture: 1,
		Count: 10,
	}
	cfg.Shapes[protoshapes.Circle] = spec
	a := newTestAssembler(t, fs, cfg)

	labels, err := a.Generate(context.Background(), protoshapes.Circle, spec)
	require.NoError(t, err)
	require.Len(t, labels, 10)

	var want []string
	for i := range 10 {
		name := fmt.Sprintf("circle_%d_red_solid.png", i)
		want = append(want, name)
		require.Equal(t, Label{
			File: name, Shape: "circle", Index: i,
			Color: "red", Texture: "solid", Split: TrainingDir,
		}, labels[i])
	}
	require.Equal(t, want, listNames(t, fs, a.Layout.Training))

	data, err := afero.ReadFile(fs, filepath.Join(a.Layout.Training, want[3]))
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, cfg.ImageSize, img.Bounds().Dx())
	require.Equal(t, cfg.ImageSize, img.Bounds().Dy())
}

func TestGenerateJPEG(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := testConfig(0)
	cfg.FileType = protoshapes.JPEG
	spec := protoshapes.PrototypeSpec{
		Color: protoshapes.Blue, PercentColor: 0.5,
		Texture: protoshapes.Striped, PercentTexture: 0.5,
		Count: 12,
	}
	cfg.Shapes[protoshapes.Triangle] = spec
	a := newTestAssembler(t, fs, cfg)

	labels, err := a.Generate(context.Background(), protoshapes.Triangle, spec)
	require.NoError(t, err)
	for i, l := range labels {
		require.Equal(t, fmt.Sprintf("triangle_%02d_%s_%s.jpg", i, l.Color, l.Texture), l.File)
		data, err := afero.ReadFile(fs, filepath.Join(a.Layout.Training, l.File))
		require.NoError(t, err)
		_, err = jpeg.Decode(bytes.NewReader(data))
		require.NoError(t, err)
	}
}

func TestSplit(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := testConfig(0.2)
	spec := protoshapes.PrototypeSpec{
		Color: protoshapes.Green, PercentColor: 0.9,
		Texture: protoshapes.Blank, PercentTexture: 0.9,
		Count: 100,
	}
	cfg.Shapes[protoshapes.Square] = spec
	cfg.Workers = 4
	a := newTestAssembler(t, fs, cfg)

	labels, err := a.Generate(context.Background(), protoshapes.Square, spec)
	require.NoError(t, err)
	labels, err = a.Split(protoshapes.Square, spec, labels)
	require.NoError(t, err)

	training := listNames(t, fs, a.Layout.Training)
	validation := listNames(t, fs, a.Layout.Validation)
	require.Len(t, training, 80)
	require.Len(t, validation, 20)

	inTraining := make(map[string]bool)
	for _, name := range training {
		inTraining[name] = true
	}
	moved := 0
	for _, l := range labels {
		if l.Split == ValidationDir {
			moved++
			require.False(t, inTraining[l.File], l.File)
			require.Contains(t, validation, l.File)
		} else {
			require.True(t, inTraining[l.File], l.File)
		}
	}
	require.Equal(t, 20, moved)
}

func TestSplitPerShape(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := testConfig(0.5)
	for _, s := range []protoshapes.Shape{protoshapes.Square, protoshapes.Circle} {
		cfg.Shapes[s] = protoshapes.PrototypeSpec{
			Color: protoshapes.Black, PercentColor: 0.5,
			Texture: protoshapes.Solid, PercentTexture: 0.5,
			Count: 10,
		}
	}
	a := newTestAssembler(t, fs, cfg)
	require.NoError(t, a.Run(context.Background()))

	count := func(dir string) map[string]int {
		res := make(map[string]int)
		for _, name := range listNames(t, fs, dir) {
			inst, _, err := protoshapes.ParseFileName(name)
			require.NoError(t, err)
			res[inst.Shape.String()]++
		}
		return res
	}
	require.Equal(t, map[string]int{"square": 5, "circle": 5}, count(a.Layout.Training))
	require.Equal(t, map[string]int{"square": 5, "circle": 5}, count(a.Layout.Validation))
}

func TestWorkersGiveSameImages(t *testing.T) {
	run := func(workers int) afero.Fs {
		fs := afero.NewMemMapFs()
		cfg := testConfig(0.3)
		cfg.Workers = workers
		cfg.Seed = 99
		for _, s := range protoshapes.AllShapes() {
			cfg.Shapes[s] = protoshapes.PrototypeSpec{
				Color: protoshapes.Red, PercentColor: 0.6,
				Texture: protoshapes.Striped, PercentTexture: 0.6,
				Count: 15,
			}
		}
		a := newTestAssembler(t, fs, cfg)
		require.NoError(t, a.Run(context.Background()))
		return fs
	}
	seq := run(1)
	par := run(4)

	for _, dir := range []string{"/out/test/training", "/out/test/validation"} {
		names := listNames(t, seq, dir)
		require.Equal(t, names, listNames(t, par, dir))
		for _, name := range names {
			a, err := afero.ReadFile(seq, filepath.Join(dir, name))
			require.NoError(t, err)
			b, err := afero.ReadFile(par, filepath.Join(dir, name))
			require.NoError(t, err)
			require.True(t, bytes.Equal(a, b), name)
		}
	}
}

func TestRunManifests(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := testConfig(0.25)
	cfg.Shapes[protoshapes.Square] = protoshapes.PrototypeSpec{
		Color: protoshapes.Blue, PercentColor: 1,
		Texture: protoshapes.Striped, PercentTexture: 1,
		Count: 8,
	}
	cfg.Shapes[protoshapes.Triangle] = protoshapes.PrototypeSpec{
		Color: protoshapes.Green, PercentColor: 0,
		Texture: protoshapes.Blank, PercentTexture: 0.5,
		Count: 4,
	}
	a := newTestAssembler(t, fs, cfg)
	require.NoError(t, a.Run(context.Background()))

	data, err := afero.ReadFile(fs, filepath.Join(a.Layout.Root, LabelsFile))
	require.NoError(t, err)
	var labels []Label
	require.NoError(t, gocsv.Unmarshal(bytes.NewReader(data), &labels))
	require.Len(t, labels, 12)
	for _, l := range labels {
		inst, ft, err := protoshapes.ParseFileName(l.File)
		require.NoError(t, err)
		require.Equal(t, protoshapes.PNG, ft)
		require.Equal(t, l.Shape, inst.Shape.String())
		require.Equal(t, l.Index, inst.Index)
		require.Equal(t, l.Color, inst.Color.String())
		require.Equal(t, l.Texture, inst.Texture.String())
		ok, err := afero.Exists(fs, filepath.Join(a.Layout.Root, l.Split, l.File))
		require.NoError(t, err)
		require.True(t, ok, l.File)
	}

	data, err = afero.ReadFile(fs, filepath.Join(a.Layout.Root, StatisticsFile))
	require.NoError(t, err)
	var st Statistics
	require.NoError(t, yaml.Unmarshal(data, &st))
	_, err = uuid.Parse(st.RunID)
	require.NoError(t, err)
	require.Equal(t, uint64(1), st.Seed)
	require.Equal(t, protoshapes.PNG, st.FileType)
	require.Len(t, st.Shapes, 2)

	sq := st.Shapes[protoshapes.Square]
	require.Equal(t, 8, sq.Count)
	require.Equal(t, 2, sq.Validation)
	require.Equal(t, "blue", sq.Color.Prototype)
	require.Equal(t, 1.0, sq.Color.Expected)
	require.Equal(t, 1.0, sq.Color.Realized)
	require.Equal(t, map[string]int{"striped": 8}, sq.Texture.Histogram)

	tri := st.Shapes[protoshapes.Triangle]
	require.Equal(t, 4, tri.Count)
	require.Equal(t, 1, tri.Validation)
	require.InDelta(t, 0.25, tri.Color.Expected, 1e-12)

	// manifests are only written once
	err = a.WriteManifests(uuid.New(), labels)
	require.ErrorIs(t, err, ErrExists)
}

func TestGenerateCanceled(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := testConfig(0)
	spec := protoshapes.PrototypeSpec{
		Color: protoshapes.Red, PercentColor: 1,
		Texture: protoshapes.Solid, PercentTexture: 1,
		Count: 50,
	}
	cfg.Shapes[protoshapes.Square] = spec
	cfg.Workers = 3
	a := newTestAssembler(t, fs, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.Generate(ctx, protoshapes.Square, spec)
	require.ErrorIs(t, err, context.Canceled)
}

func TestGenerateInvalidSpec(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := testConfig(0)
	cfg.Shapes[protoshapes.Square] = protoshapes.PrototypeSpec{Count: 1}
	a := newTestAssembler(t, fs, cfg)

	bad := protoshapes.PrototypeSpec{PercentColor: 2, Count: 3}
	_, err := a.Generate(context.Background(), protoshapes.Square, bad)
	require.ErrorIs(t, err, protoshapes.ErrInvalidArgument)
	require.Empty(t, listNames(t, fs, a.Layout.Training))
}
