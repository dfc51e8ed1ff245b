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

// Package noise provides the deterministic randomness used by the renderer:
// a salted, splittable pseudorandom generator, one-dimensional value noise
// and seamless tileable grain textures.
//
// Identical seeds always produce identical streams. Nothing in this package
// keeps global state.
package noise

import "math/rand/v2"

// Salts select independent streams for the individual visual effects.
const (
	SaltSpeckle   uint64 = 0x5be0cd19137e2179
	SaltDiffusion uint64 = 0x1f83d9abfb41bd6b
	SaltErosion   uint64 = 0x9b05688c2b3e6c1f
	SaltMacro     uint64 = 0x510e527fade682d1
	SaltHaze      uint64 = 0xa54ff53a5f1d36f1
	SaltRelief    uint64 = 0x3c6ef372fe94f82b
	SaltTexture   uint64 = 0xbb67ae8584caa73b
)

const (
	golden = 0x9e3779b97f4a7c15
	mulA   = 0xbf58476d1ce4e5b9
	mulB   = 0x94d049bb133111eb
)

// Mix combines a seed with a salt. The combination is order-sensitive:
// Mix(Mix(s, a), b) and Mix(Mix(s, b), a) differ, and distinct salts give
// decorrelated results for the same seed.
func Mix(seed, salt uint64) uint64 {
	z := seed ^ (salt * golden)
	z += golden
	z = (z ^ (z >> 30)) * mulA
	z = (z ^ (z >> 27)) * mulB
	return z ^ (z >> 31)
}

// RNG is a deterministic pseudorandom generator.
// The zero value is not useful; use New or Stream.
//
// An RNG is cheap to create and must not be shared between goroutines.
type RNG struct {
	pcg  rand.PCG
	seed uint64
}

// New returns a generator for the given seed.
func New(seed uint64) *RNG {
	r := &RNG{seed: seed}
	r.pcg.Seed(Mix(seed, 0), Mix(seed, golden))
	return r
}

// Stream returns the generator for the sub-stream of seed selected by salt.
func Stream(seed, salt uint64) *RNG {
	return New(Mix(seed, salt))
}

// Split returns an independent generator derived from r's seed and salt.
// It does not advance r.
func (r *RNG) Split(salt uint64) *RNG {
	return Stream(r.seed, salt)
}

// Uint64 returns the next 64 random bits.
func (r *RNG) Uint64() uint64 {
	return r.pcg.Uint64()
}

// Float64 returns a uniform value in [0, 1).
func (r *RNG) Float64() float64 {
	return float64(r.pcg.Uint64()>>11) * 0x1p-53
}

// Signed returns a uniform value in [-1, 1).
func (r *RNG) Signed() float64 {
	return 2*r.Float64() - 1
}

// Range returns a uniform value in [lo, hi).
func (r *RNG) Range(lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

// Chance reports true with probability p.
func (r *RNG) Chance(p float64) bool {
	return r.Float64() < p
}

// Hash maps (seed, i) to a uniform value in [-1, 1] without any state.
func Hash(seed uint64, i int64) float64 {
	h := Mix(seed, uint64(i))
	return float64(h>>11)*0x1p-52 - 1
}
