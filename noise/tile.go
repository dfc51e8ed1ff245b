// seehuhn.de/go/raincurve - procedural precipitation rendering
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

package noise

import (
	"fmt"
	"math"

	"github.com/ojrac/opensimplex-go"
)

// Grain selects one of the texture presets.
type Grain int

const (
	GrainFine Grain = iota
	GrainCoarse

	numGrains
)

func (g Grain) String() string {
	switch g {
	case GrainFine:
		return "fine"
	case GrainCoarse:
		return "coarse"
	default:
		return fmt.Sprintf("Grain(%d)", int(g))
	}
}

// grainSpec describes how a preset is synthesised.
type grainSpec struct {
	size     int     // tile edge length in pixels
	radius   float64 // torus radius in noise space, controls feature size
	octaves  int
	contrast float64 // exponent applied to the normalised value
	cutoff   float64 // values below this are set to zero, for speckled grains
}

var grainSpecs = [numGrains]grainSpec{
	GrainFine:   {size: 64, radius: 5.5, octaves: 3, contrast: 1.6, cutoff: 0.18},
	GrainCoarse: {size: 128, radius: 3.0, octaves: 4, contrast: 1.2, cutoff: 0.08},
}

// Tile is a seamless square grayscale texture with values in [0, 1].
// A Tile is immutable and safe for concurrent use.
type Tile struct {
	size int
	pix  []float32
}

// Size returns the edge length of the tile.
func (t *Tile) Size() int {
	return t.size
}

// Alpha returns the texture value at pixel (x, y), repeating the tile in
// both directions.
func (t *Tile) Alpha(x, y int) float32 {
	x %= t.size
	if x < 0 {
		x += t.size
	}
	y %= t.size
	if y < 0 {
		y += t.size
	}
	return t.pix[y*t.size+x]
}

// Textures holds one tile per grain preset. It is built once per process,
// passed by reference into every render, and never modified afterwards.
type Textures struct {
	seed  uint64
	tiles [numGrains]*Tile
}

// NewTextures synthesises all grain presets for the given seed.
func NewTextures(seed uint64) *Textures {
	tex := &Textures{seed: seed}
	for g := range numGrains {
		tex.tiles[g] = makeTile(Mix(seed, SaltTexture+uint64(g)), grainSpecs[g])
	}
	return tex
}

// Tile returns the texture for grain g. Unknown presets fall back to the
// fine grain.
func (tex *Textures) Tile(g Grain) *Tile {
	if tex == nil {
		return nil
	}
	if g < 0 || g >= numGrains {
		g = GrainFine
	}
	return tex.tiles[g]
}

// Seed returns the seed the textures were built from.
func (tex *Textures) Seed() uint64 {
	return tex.seed
}

// makeTile evaluates simplex noise on a 4D torus. Moving once around the
// tile in x or y walks once around one of the two circles, so opposite
// edges meet without a seam.
func makeTile(seed uint64, spec grainSpec) *Tile {
	n := spec.size
	sn := opensimplex.New(int64(seed))
	raw := make([]float64, n*n)
	lo, hi := math.Inf(1), math.Inf(-1)
	for y := range n {
		b := 2 * math.Pi * float64(y) / float64(n)
		for x := range n {
			a := 2 * math.Pi * float64(x) / float64(n)
			var v, norm float64
			amp, r := 1.0, spec.radius
			for range spec.octaves {
				v += amp * sn.Eval4(r*math.Cos(a), r*math.Sin(a), r*math.Cos(b), r*math.Sin(b))
				norm += amp
				amp *= 0.5
				r *= 2
			}
			v /= norm
			raw[y*n+x] = v
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}

	t := &Tile{size: n, pix: make([]float32, n*n)}
	span := hi - lo
	for i, v := range raw {
		u := 0.5
		if span > 0 {
			u = (v - lo) / span
		}
		u = math.Pow(u, spec.contrast)
		if u < spec.cutoff {
			u = 0
		} else {
			u = (u - spec.cutoff) / (1 - spec.cutoff)
		}
		t.pix[i] = float32(u)
	}
	return t
}
