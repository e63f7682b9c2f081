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
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"seehuhn.de/go/protoshapes"
	"seehuhn.de/go/protoshapes/config"
)

// Names of the manifest files in the dataset directory.
const (
	StatisticsFile = "statistics.yaml"
	LabelsFile     = "labels.csv"
)

// Label describes one generated image.  Split is either TrainingDir or
// ValidationDir.
type Label struct {
	File    string `csv:"filename"`
	Shape   string `csv:"shape"`
	Index   int    `csv:"index"`
	Color   string `csv:"color"`
	Texture string `csv:"texture"`
	Split   string `csv:"split"`
}

func newLabel(name string, inst protoshapes.Instance, split string) Label {
	return Label{
		File:    name,
		Shape:   inst.Shape.String(),
		Index:   inst.Index,
		Color:   inst.Color.String(),
		Texture: inst.Texture.String(),
		Split:   split,
	}
}

// Statistics is the content of the statistics manifest.
type Statistics struct {
	RunID           string                                 `yaml:"run_id"`
	Seed            uint64                                 `yaml:"seed"`
	ImageSize       int                                    `yaml:"image_size"`
	FileType        protoshapes.FileType                   `yaml:"filetype"`
	ValidationSplit float64                                `yaml:"validation_split"`
	Shapes          map[protoshapes.Shape]*ShapeStatistics `yaml:"shapes"`
}

// ShapeStatistics summarizes the images of one shape.
type ShapeStatistics struct {
	Count      int                 `yaml:"number"`
	Validation int                 `yaml:"validation"`
	Color      AttributeStatistics `yaml:"color"`
	Texture    AttributeStatistics `yaml:"texture"`
}

// AttributeStatistics compares the configured distribution of an attribute
// with the values which were actually generated.
type AttributeStatistics struct {
	Prototype string  `yaml:"prototype"`
	Percent   float64 `yaml:"percent"`

	// Expected is the long-run frequency of the prototype value, see
	// [protoshapes.ExpectedFrequency].
	Expected float64 `yaml:"expected_frequency"`

	// Realized is the fraction of generated images which show the
	// prototype value.
	Realized float64 `yaml:"realized_frequency"`

	Histogram map[string]int `yaml:"histogram"`
}

// NewStatistics summarizes the labels of a run.
func NewStatistics(runID uuid.UUID, cfg *config.Config, labels []Label) *Statistics {
	st := &Statistics{
		RunID:           runID.String(),
		Seed:            cfg.Seed,
		ImageSize:       cfg.ImageSize,
		FileType:        cfg.FileType,
		ValidationSplit: cfg.ValidationSplit,
		Shapes:          make(map[protoshapes.Shape]*ShapeStatistics),
	}

	nColors := len(protoshapes.AllColors())
	nTextures := len(protoshapes.AllTextures())
	for s, spec := range cfg.Shapes {
		st.Shapes[s] = &ShapeStatistics{
			Color: AttributeStatistics{
				Prototype: spec.Color.String(),
				Percent:   spec.PercentColor,
				Expected:  protoshapes.ExpectedFrequency(spec.PercentColor, nColors),
				Histogram: make(map[string]int),
			},
			Texture: AttributeStatistics{
				Prototype: spec.Texture.String(),
				Percent:   spec.PercentTexture,
				Expected:  protoshapes.ExpectedFrequency(spec.PercentTexture, nTextures),
				Histogram: make(map[string]int),
			},
		}
	}

	for _, l := range labels {
		s, err := protoshapes.ParseShape(l.Shape)
		if err != nil {
			continue
		}
		ss := st.Shapes[s]
		if ss == nil {
			continue
		}
		ss.Count++
		if l.Split == ValidationDir {
			ss.Validation++
		}
		ss.Color.Histogram[l.Color]++
		ss.Texture.Histogram[l.Texture]++
	}

	for _, ss := range st.Shapes {
		if ss.Count == 0 {
			continue
		}
		ss.Color.Realized = float64(ss.Color.Histogram[ss.Color.Prototype]) / float64(ss.Count)
		ss.Texture.Realized = float64(ss.Texture.Histogram[ss.Texture.Prototype]) / float64(ss.Count)
	}
	return st
}

// WriteManifests writes the statistics and labels files into the dataset
// directory.  Existing manifests are never overwritten.
func (a *Assembler) WriteManifests(runID uuid.UUID, labels []Label) error {
	buf := &bytes.Buffer{}
	enc := yaml.NewEncoder(buf)
	enc.SetIndent(2)
	if err := enc.Encode(NewStatistics(runID, a.Config, labels)); err != nil {
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}
	if err := writeFileExclusive(a.FS, filepath.Join(a.Layout.Root, StatisticsFile), buf.Bytes()); err != nil {
		return err
	}

	buf = &bytes.Buffer{}
	if labels == nil {
		labels = []Label{}
	}
	if err := gocsv.Marshal(&labels, buf); err != nil {
		return err
	}
	return writeFileExclusive(a.FS, filepath.Join(a.Layout.Root, LabelsFile), buf.Bytes())
}

// writeFileExclusive creates path and writes data to it.  If path exists
// already, ErrExists is returned.
func writeFileExclusive(fs afero.Fs, path string, data []byte) error {
	f, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%w: %s", ErrExists, path)
	} else if err != nil {
		return err
	}
	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
