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

// Command protogen generates a dataset of synthetic shape images.
//
// Settings are read from an optional YAML file (--config) and from
// command line flags, where flags take precedence.  Example:
//
//	protogen --output-directory data --dataset-name run1 \
//	    --circle-color red --circle-percent-color 0.8 \
//	    --circle-texture solid --circle-percent-texture 0.7 \
//	    --circle-number 1000 --validation-split 0.2 --seed 42
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"runtime/debug"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"seehuhn.de/go/protoshapes"
	"seehuhn.de/go/protoshapes/config"
	"seehuhn.de/go/protoshapes/dataset"
	"seehuhn.de/go/protoshapes/sample"
)

var logger *zap.Logger

type options struct {
	configFile string
	verbose    bool

	outputDirectory string
	datasetName     string
	randomStats     bool
	imageSize       int
	fileType        string
	validationSplit float64
	seed            uint64
	workers         int
	jpegQuality     int

	shapes map[protoshapes.Shape]*shapeOptions
}

type shapeOptions struct {
	color          string
	percentColor   float64
	texture        string
	percentTexture float64
	number         int
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	opt := &options{
		shapes: make(map[protoshapes.Shape]*shapeOptions),
	}

	generate := func(cmd *cobra.Command, args []string) error {
		return runGenerate(cmd.Context(), fs, cmd.Flags(), opt)
	}

	rootCmd := &cobra.Command{
		Use:   "protogen",
		Short: "Generate synthetic shape datasets for prototype learning",
		Long: `protogen draws squares, circles and triangles in a few colors and
textures.  For every shape, a prototypical color and texture is chosen
together with the probability that an image shows them.  The images are
written to <output-directory>/<dataset-name>/training, and a fraction of
them is moved to <output-directory>/<dataset-name>/validation.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logger != nil {
				return nil
			}
			logConfig := zap.NewProductionConfig()
			if opt.verbose {
				logConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = logConfig.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		RunE: generate,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opt.configFile, "config", "", "YAML file with default settings")
	flags.BoolVarP(&opt.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&opt.outputDirectory, "output-directory", ".", "The directory to save the dataset to")
	flags.StringVar(&opt.datasetName, "dataset-name", config.DefaultDatasetName,
		"Name of the dataset, used for the final output directory")
	flags.BoolVar(&opt.randomStats, "random-stats", false,
		"Choose prototype statistics for all shapes at random, ignoring manual statistics")
	flags.IntVar(&opt.imageSize, "image-size", config.DefaultImageSize, "Width and height of the images in pixels")
	flags.StringVar(&opt.fileType, "filetype", "png", "Image format, png or jpg")
	flags.Float64Var(&opt.validationSplit, "validation-split", 0,
		"Fraction of the images of each shape to move to the validation directory")
	flags.Uint64Var(&opt.seed, "seed", 0, "Seed for all random choices (0 picks a random seed)")
	flags.IntVar(&opt.workers, "workers", 1, "Number of images generated concurrently")
	flags.IntVar(&opt.jpegQuality, "jpeg-quality", config.DefaultJPEGQuality, "Quality of JPEG images, 1 to 100")

	for _, s := range protoshapes.AllShapes() {
		so := &shapeOptions{}
		opt.shapes[s] = so
		name := s.String()
		flags.StringVar(&so.color, name+"-color", "",
			fmt.Sprintf("The color of the prototypical %s", name))
		flags.Float64Var(&so.percentColor, name+"-percent-color", 0,
			fmt.Sprintf("The fraction of %ss with the prototype color, the rest are random", name))
		flags.StringVar(&so.texture, name+"-texture", "",
			fmt.Sprintf("The texture of the prototypical %s", name))
		flags.Float64Var(&so.percentTexture, name+"-percent-texture", 0,
			fmt.Sprintf("The fraction of %ss with the prototype texture, the rest are random", name))
		flags.IntVar(&so.number, name+"-number", 0,
			fmt.Sprintf("The number of %ss to generate", name))
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "generate",
		Short: "Generate the dataset (default)",
		Args:  cobra.NoArgs,
		RunE:  generate,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "show-config",
		Short: "Print the effective settings as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(fs, cmd.Flags(), opt)
			if err != nil {
				return err
			}
			return cfg.Encode(cmd.OutOrStdout())
		},
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version of protogen",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("protogen", version())
		},
	})

	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd(afero.NewOsFs()).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runGenerate(ctx context.Context, fs afero.Fs, flags *pflag.FlagSet, opt *options) error {
	cfg, err := buildConfig(fs, flags, opt)
	if err != nil {
		return err
	}

	layout, err := dataset.CreateLayout(fs, cfg.OutputDirectory, cfg.DatasetName, cfg.ValidationSplit)
	if errors.Is(err, dataset.ErrExists) {
		logger.Error("refusing to overwrite existing dataset", zap.Error(err))
		return err
	} else if err != nil {
		return err
	}

	a := dataset.New(fs, layout, cfg, logger)
	return a.Run(ctx)
}

// buildConfig combines the configuration file, if any, with the command
// line flags.  Only flags given explicitly override file settings.
func buildConfig(fs afero.Fs, flags *pflag.FlagSet, opt *options) (*config.Config, error) {
	cfg := config.Default()
	if opt.configFile != "" {
		var err error
		cfg, err = config.Load(fs, opt.configFile)
		if err != nil {
			return nil, err
		}
	}

	if flags.Changed("output-directory") {
		cfg.OutputDirectory = opt.outputDirectory
	}
	if flags.Changed("dataset-name") {
		cfg.DatasetName = opt.datasetName
	}
	if flags.Changed("random-stats") {
		cfg.RandomStats = opt.randomStats
	}
	if flags.Changed("image-size") {
		cfg.ImageSize = opt.imageSize
	}
	if flags.Changed("filetype") {
		ft, err := protoshapes.ParseFileType(opt.fileType)
		if err != nil {
			return nil, fmt.Errorf("--filetype: %w", err)
		}
		cfg.FileType = ft
	}
	if flags.Changed("validation-split") {
		cfg.ValidationSplit = opt.validationSplit
	}
	if flags.Changed("seed") {
		cfg.Seed = opt.seed
	}
	if flags.Changed("workers") {
		cfg.Workers = opt.workers
	}
	if flags.Changed("jpeg-quality") {
		cfg.JPEGQuality = opt.jpegQuality
	}
	for _, s := range protoshapes.AllShapes() {
		if err := applyShapeFlags(cfg, flags, s, opt.shapes[s]); err != nil {
			return nil, err
		}
	}

	for cfg.Seed == 0 {
		cfg.Seed = rand.Uint64()
		logger.Info("no seed given, using random seed", zap.Uint64("seed", cfg.Seed))
	}
	if cfg.RandomStats {
		cfg.ApplyRandomStats(sample.RunStream(cfg.Seed))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyShapeFlags updates the prototype specification of s from the
// --<shape>-* flags.  A shape mentioned only on the command line starts
// from uniform sampling and config.DefaultCount instances.
func applyShapeFlags(cfg *config.Config, flags *pflag.FlagSet, s protoshapes.Shape, so *shapeOptions) error {
	prefix := s.String() + "-"
	changed := func(name string) bool {
		return flags.Changed(prefix + name)
	}
	if !changed("color") && !changed("percent-color") && !changed("texture") &&
		!changed("percent-texture") && !changed("number") {
		return nil
	}

	spec, ok := cfg.Shapes[s]
	if !ok {
		spec.Count = config.DefaultCount
	}
	if changed("color") {
		c, err := protoshapes.ParseColor(so.color)
		if err != nil {
			return fmt.Errorf("--%scolor: %w", prefix, err)
		}
		spec.Color = c
	}
	if changed("percent-color") {
		spec.PercentColor = so.percentColor
	}
	if changed("texture") {
		t, err := protoshapes.ParseTexture(so.texture)
		if err != nil {
			return fmt.Errorf("--%stexture: %w", prefix, err)
		}
		spec.Texture = t
	}
	if changed("percent-texture") {
		spec.PercentTexture = so.percentTexture
	}
	if changed("number") {
		spec.Count = so.number
	}
	cfg.Shapes[s] = spec
	return nil
}

func version() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}
