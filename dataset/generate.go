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

// Package dataset writes generated shape images to disk.
//
// A dataset lives in its own directory, with the images in a training
// subdirectory and optionally a validation subdirectory.  Image names
// have the form <shape>_<index>_<color>_<texture>.<ext>, see
// [protoshapes.FileName].  Two manifests describe the run: a
// statistics.yaml file with the prototype distributions and a labels.csv
// file with one row per image.
package dataset

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"path/filepath"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"seehuhn.de/go/protoshapes"
	"seehuhn.de/go/protoshapes/config"
	"seehuhn.de/go/protoshapes/sample"
	"seehuhn.de/go/protoshapes/shape"
	"seehuhn.de/go/protoshapes/stripes"
	"seehuhn.de/go/protoshapes/transform"
)

// Assembler generates the images of a dataset and sorts them into the
// training and validation directories.
type Assembler struct {
	FS          afero.Fs
	Layout      Layout
	Config      *config.Config
	Renderer    *shape.Renderer
	Transformer *transform.Transformer

	// Logger receives progress information.  If nil, nothing is logged.
	Logger *zap.Logger
}

// New returns an Assembler for the given configuration.  The stripe
// cache is built here, before any image is generated.
func New(fs afero.Fs, layout Layout, cfg *config.Config, logger *zap.Logger) *Assembler {
	cache := stripes.New(protoshapes.AllColors(), cfg.ImageSize)
	return &Assembler{
		FS:          fs,
		Layout:      layout,
		Config:      cfg,
		Renderer:    shape.NewRenderer(cfg.ImageSize, cache),
		Transformer: transform.New(cfg.ImageSize),
		Logger:      logger,
	}
}

func (a *Assembler) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

// Run generates all configured shapes, in the order square, circle,
// triangle.  Each shape is split into training and validation images as
// soon as it is complete.  Finally the manifests are written.
func (a *Assembler) Run(ctx context.Context) error {
	runID := uuid.New()
	log := a.logger().With(zap.Stringer("run", runID))
	log.Info("generating dataset",
		zap.String("dir", a.Layout.Root),
		zap.Uint64("seed", a.Config.Seed),
		zap.Int("image_size", a.Config.ImageSize),
		zap.Int("workers", a.Config.Workers))

	var all []Label
	for _, s := range protoshapes.AllShapes() {
		spec, ok := a.Config.Shapes[s]
		if !ok {
			continue
		}
		labels, err := a.Generate(ctx, s, spec)
		if err != nil {
			return err
		}
		labels, err = a.Split(s, spec, labels)
		if err != nil {
			return err
		}
		all = append(all, labels...)
	}

	if err := a.WriteManifests(runID, all); err != nil {
		return err
	}
	log.Info("dataset complete", zap.Int("images", len(all)))
	return nil
}

// Generate writes spec.Count images of shape s into the training
// directory and returns their labels, ordered by index.
//
// Up to Config.Workers images are generated at the same time.  Every
// image uses its own random stream, so the output does not depend on the
// number of workers.  If one image fails, the remaining work is abandoned
// and the error is returned.
func (a *Assembler) Generate(ctx context.Context, s protoshapes.Shape, spec protoshapes.PrototypeSpec) ([]Label, error) {
	log := a.logger().With(zap.Stringer("shape", s))
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", s, err)
	}

	labels := make([]Label, spec.Count)
	var written atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(a.Config.Workers, 1))
	for i := range spec.Count {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			label, n, err := a.generateOne(s, i, spec)
			if err != nil {
				return fmt.Errorf("%s %d: %w", s, i, err)
			}
			labels[i] = label
			written.Add(n)
			log.Debug("image written",
				zap.String("file", label.File),
				zap.String("size", humanize.Bytes(uint64(n))))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Info("images generated",
		zap.Int("count", spec.Count),
		zap.String("written", humanize.Bytes(uint64(written.Load()))))
	return labels, nil
}

// generateOne samples, renders and writes a single image.  It returns the
// label and the number of bytes written.
func (a *Assembler) generateOne(s protoshapes.Shape, index int, spec protoshapes.PrototypeSpec) (Label, int64, error) {
	rng := sample.Stream(a.Config.Seed, s, index)
	inst := sample.Instance(rng, s, index, spec)

	img, err := a.Renderer.Render(inst.Shape, inst.Color, inst.Texture, rng)
	if err != nil {
		return Label{}, 0, err
	}
	img, err = a.Transformer.Apply(img, inst.Shape, rng)
	if err != nil {
		return Label{}, 0, err
	}

	data, err := a.encode(img)
	if err != nil {
		return Label{}, 0, err
	}
	name := protoshapes.FileName(inst, spec.Count, a.Config.FileType)
	if err := writeFileAtomic(a.FS, filepath.Join(a.Layout.Training, name), data); err != nil {
		return Label{}, 0, err
	}
	return newLabel(name, inst, TrainingDir), int64(len(data)), nil
}

// encode converts img to the configured file format.
func (a *Assembler) encode(img image.Image) ([]byte, error) {
	buf := &bytes.Buffer{}
	var err error
	switch a.Config.FileType {
	case protoshapes.PNG:
		err = png.Encode(buf, img)
	case protoshapes.JPEG:
		err = jpeg.Encode(buf, img, &jpeg.Options{Quality: a.Config.JPEGQuality})
	default:
		err = fmt.Errorf("%w: file type %s", protoshapes.ErrInvalidArgument, a.Config.FileType)
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// writeFileAtomic writes data to a temporary file next to path and then
// renames it, so that path is either complete or absent.
func writeFileAtomic(fs afero.Fs, path string, data []byte) (err error) {
	dir, base := filepath.Split(path)
	tmp, err := afero.TempFile(fs, dir, "."+base+".tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = fs.Remove(tmp.Name())
		}
	}()

	_, err = tmp.Write(data)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	if err := fs.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return fs.Rename(tmp.Name(), path)
}
