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

// Package sample draws instance attributes from a prototype distribution.
//
// All randomness of a dataset run is derived from a single seed.  Every
// instance gets its own generator from [Stream], so that instances can be
// produced in any order, or concurrently, with identical results.
package sample

import (
	"math/rand/v2"

	"seehuhn.de/go/protoshapes"
)

// Attribute returns prototype with probability percent.  Otherwise a
// value is drawn uniformly from choices, which may select the prototype
// again.  The prototype is therefore seen with frequency
// percent + (1-percent)/len(choices).
func Attribute[T any](rng *rand.Rand, prototype T, percent float64, choices []T) T {
	if rng.Float64() < percent {
		return prototype
	}
	return choices[rng.IntN(len(choices))]
}

// Instance samples the color and then the texture of the instance with the
// given index.
func Instance(rng *rand.Rand, shape protoshapes.Shape, index int, spec protoshapes.PrototypeSpec) protoshapes.Instance {
	return protoshapes.Instance{
		Shape:   shape,
		Index:   index,
		Color:   Attribute(rng, spec.Color, spec.PercentColor, protoshapes.AllColors()),
		Texture: Attribute(rng, spec.Texture, spec.PercentTexture, protoshapes.AllTextures()),
	}
}

// Stream returns the generator for instance index of the given shape.
// The result only depends on the arguments.
func Stream(seed uint64, shape protoshapes.Shape, index int) *rand.Rand {
	return derive(seed, purposeInstance, uint64(shape), uint64(index))
}

// SplitStream returns the generator used to select the validation files
// of a shape.
func SplitStream(seed uint64, shape protoshapes.Shape) *rand.Rand {
	return derive(seed, purposeSplit, uint64(shape), 0)
}

// RunStream returns the generator for run-wide choices, like randomly
// generated prototype specifications.
func RunStream(seed uint64) *rand.Rand {
	return derive(seed, purposeRun, 0, 0)
}

const (
	purposeInstance uint64 = iota + 1
	purposeSplit
	purposeRun
)

// derive builds a PCG generator from the seed and a stream key.  The key
// is scrambled, so that neighbouring indices give unrelated streams.
func derive(seed, purpose, a, b uint64) *rand.Rand {
	key := mix(purpose<<56 ^ a<<48 ^ b)
	return rand.New(rand.NewPCG(mix(seed^key), mix(key+seed)))
}

// mix is the SplitMix64 finalizer.
func mix(z uint64) uint64 {
	z += 0x9e3779b97f4a7c15
	z = (z ^ z>>30) * 0xbf58476d1ce4e5b9
	z = (z ^ z>>27) * 0x94d049bb133111eb
	return z ^ z>>31
}
