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
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// ErrExists is returned when a dataset directory is already present.
var ErrExists = errors.New("dataset directory exists")

// Names of the subdirectories of a dataset.
const (
	TrainingDir   = "training"
	ValidationDir = "validation"
)

// Layout gives the directories of a dataset.
type Layout struct {
	Root       string
	Training   string
	Validation string // empty if there is no validation split
}

// CreateLayout creates the directory out/name with a training
// subdirectory and, if split > 0, a validation subdirectory.  The output
// directory out is created if needed.  If any of the dataset directories
// exist already, nothing is created and ErrExists is returned.
func CreateLayout(fs afero.Fs, out, name string, split float64) (Layout, error) {
	root := filepath.Join(out, name)
	l := Layout{
		Root:     root,
		Training: filepath.Join(root, TrainingDir),
	}
	if split > 0 {
		l.Validation = filepath.Join(root, ValidationDir)
	}

	for _, dir := range []string{l.Root, l.Training, l.Validation} {
		if dir == "" {
			continue
		}
		exists, err := afero.Exists(fs, dir)
		if err != nil {
			return Layout{}, err
		}
		if exists {
			return Layout{}, fmt.Errorf("%w: %s", ErrExists, dir)
		}
	}

	if err := fs.MkdirAll(out, 0o755); err != nil {
		return Layout{}, err
	}
	for _, dir := range []string{l.Root, l.Training, l.Validation} {
		if dir == "" {
			continue
		}
		err := fs.Mkdir(dir, 0o755)
		if errors.Is(err, os.ErrExist) {
			return Layout{}, fmt.Errorf("%w: %s", ErrExists, dir)
		} else if err != nil {
			return Layout{}, err
		}
	}
	return l, nil
}
