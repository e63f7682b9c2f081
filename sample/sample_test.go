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

package sample

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"seehuhn.de/go/protoshapes"
)

func TestAttributeFrequencies(t *testing.T) {
	const trials = 200_000
	colors := protoshapes.AllColors()
	k := len(colors)

	for _, percent := range []float64{0, 0.25, 0.5, 0.9} {
		rng := rand.New(rand.NewPCG(1, uint64(percent*1000)))
		counts := make(map[protoshapes.Color]int)
		for range trials {
			counts[Attribute(rng, protoshapes.Blue, percent, colors)]++
		}

		// The standard deviation of each frequency is below 0.0012.
		const tol = 0.006
		got := float64(counts[protoshapes.Blue]) / trials
		require.InDelta(t, protoshapes.ExpectedFrequency(percent, k), got, tol,
			"prototype frequency, percent=%g", percent)
		for _, c := range colors {
			if c == protoshapes.Blue {
				continue
			}
			got := float64(counts[c]) / trials
			require.InDelta(t, (1-percent)/float64(k), got, tol,
				"frequency of %s, percent=%g", c, percent)
		}
	}
}

func TestAttributeCertain(t *testing.T) {
	rng := rand.New(rand.NewPCG(2, 3))
	textures := protoshapes.AllTextures()
	for range 10_000 {
		require.Equal(t, protoshapes.Striped, Attribute(rng, protoshapes.Striped, 1, textures))
	}
}

func TestAttributeZeroPercent(t *testing.T) {
	rng := rand.New(rand.NewPCG(4, 5))
	textures := protoshapes.AllTextures()
	seen := 0
	for range 3000 {
		if Attribute(rng, protoshapes.Blank, 0, textures) == protoshapes.Blank {
			seen++
		}
	}
	// about 1000 expected
	require.Greater(t, seen, 800)
	require.Less(t, seen, 1200)
}

func TestInstance(t *testing.T) {
	spec := protoshapes.PrototypeSpec{
		Color:          protoshapes.Red,
		PercentColor:   1,
		Texture:        protoshapes.Solid,
		PercentTexture: 1,
		Count:          10,
	}
	for i := range 10 {
		inst := Instance(Stream(7, protoshapes.Circle, i), protoshapes.Circle, i, spec)
		require.Equal(t, protoshapes.Instance{
			Shape:   protoshapes.Circle,
			Index:   i,
			Color:   protoshapes.Red,
			Texture: protoshapes.Solid,
		}, inst)
	}
}

func TestStreamDeterministic(t *testing.T) {
	a := Stream(42, protoshapes.Triangle, 17)
	b := Stream(42, protoshapes.Triangle, 17)
	for range 100 {
		require.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestStreamsDiffer(t *testing.T) {
	first := make(map[uint64]string)
	add := func(name string, rng *rand.Rand) {
		v := rng.Uint64()
		other, dup := first[v]
		require.False(t, dup, "%s and %s start with the same value", name, other)
		first[v] = name
	}

	for _, s := range protoshapes.AllShapes() {
		for i := range 50 {
			add(fmt.Sprintf("%s/%d", s, i), Stream(1, s, i))
		}
		add(s.String()+"/split", SplitStream(1, s))
	}
	add("run", RunStream(1))
	add("run/2", RunStream(2))
	add("circle/0/2", Stream(2, protoshapes.Circle, 0))
}
