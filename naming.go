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

import (
	"fmt"
	"strconv"
	"strings"
)

// IndexWidth returns the number of digits used for instance indices when
// count instances of a shape are generated.  This is the length of the
// decimal representation of the largest index, count-1.
func IndexWidth(count int) int {
	if count <= 1 {
		return 1
	}
	return len(strconv.Itoa(count - 1))
}

// FileName returns the name of the image file for inst, in the form
// <shape>_<index>_<color>_<texture>.<ext>.  The index is zero-padded to
// IndexWidth(count) digits.
func FileName(inst Instance, count int, ft FileType) string {
	return fmt.Sprintf("%s_%0*d_%s_%s.%s",
		inst.Shape, IndexWidth(count), inst.Index, inst.Color, inst.Texture, ft.Ext())
}

// ParseFileName recovers the instance and file type from a name produced
// by [FileName].
func ParseFileName(name string) (Instance, FileType, error) {
	base, ext, ok := strings.Cut(name, ".")
	if !ok {
		return Instance{}, 0, fmt.Errorf("%w: no extension in %q", ErrInvalidArgument, name)
	}
	ft, err := ParseFileType(ext)
	if err != nil {
		return Instance{}, 0, err
	}

	parts := strings.Split(base, "_")
	if len(parts) != 4 {
		return Instance{}, 0, fmt.Errorf("%w: malformed file name %q", ErrInvalidArgument, name)
	}

	var inst Instance
	inst.Shape, err = ParseShape(parts[0])
	if err != nil {
		return Instance{}, 0, err
	}
	idx := parts[1]
	if idx == "" || strings.TrimLeft(idx, "0123456789") != "" {
		return Instance{}, 0, fmt.Errorf("%w: bad index in %q", ErrInvalidArgument, name)
	}
	inst.Index, err = strconv.Atoi(idx)
	if err != nil {
		return Instance{}, 0, fmt.Errorf("%w: bad index in %q", ErrInvalidArgument, name)
	}
	inst.Color, err = ParseColor(parts[2])
	if err != nil {
		return Instance{}, 0, err
	}
	inst.Texture, err = ParseTexture(parts[3])
	if err != nil {
		return Instance{}, 0, err
	}
	return inst, ft, nil
}
