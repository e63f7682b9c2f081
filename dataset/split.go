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
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"seehuhn.de/go/protoshapes"
	"seehuhn.de/go/protoshapes/sample"
)

// Split moves a random subset of the training images of shape s into the
// validation directory.  The number of moved images is
// floor(spec.Count * ValidationSplit).  Only files named after s with the
// configured extension take part, so that splitting one shape does not
// affect the images of shapes generated earlier.
//
// Split must only be called once all images of s have been written.  The
// returned labels have their Split field updated.
func (a *Assembler) Split(s protoshapes.Shape, spec protoshapes.PrototypeSpec, labels []Label) ([]Label, error) {
	split := a.Config.ValidationSplit
	if split <= 0 || a.Layout.Validation == "" {
		return labels, nil
	}
	n := int(math.Floor(float64(spec.Count) * split))
	if n == 0 {
		return labels, nil
	}

	entries, err := afero.ReadDir(a.FS, a.Layout.Training)
	if err != nil {
		return nil, err
	}
	prefix := s.String() + "_"
	suffix := "." + a.Config.FileType.Ext()
	var names []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
			continue
		}
		names = append(names, name)
	}
	if n > len(names) {
		return nil, fmt.Errorf("%s: %d validation images requested, only %d found",
			s, n, len(names))
	}

	pos := make(map[string]int, len(labels))
	for i, l := range labels {
		pos[l.File] = i
	}

	// afero.ReadDir sorts by name, so the choice only depends on the seed
	rng := sample.SplitStream(a.Config.Seed, s)
	for _, k := range rng.Perm(len(names))[:n] {
		name := names[k]
		from := filepath.Join(a.Layout.Training, name)
		to := filepath.Join(a.Layout.Validation, name)
		if err := a.FS.Rename(from, to); err != nil {
			return nil, err
		}
		if i, ok := pos[name]; ok {
			labels[i].Split = ValidationDir
		}
	}

	a.logger().Info("validation split",
		zap.Stringer("shape", s),
		zap.Int("validation", n),
		zap.Int("training", len(names)-n))
	return labels, nil
}
