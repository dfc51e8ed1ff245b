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

package surface

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// maxDirectSigma is the largest blur computed at full resolution. Wider
// blurs run on a downscaled copy of the layer.
const maxDirectSigma = 6.0

// maxSigma bounds the blur radius.
const maxSigma = 256.0

// blurLayer approximates a Gaussian blur with standard deviation sigma by
// three box blur passes. Pixels outside the layer count as transparent.
func blurLayer(pix []float32, w, h int, sigma float64) {
	if w == 0 || h == 0 || !(sigma > 0) {
		return
	}
	if sigma <= maxDirectSigma {
		boxBlur3(pix, w, h, sigma)
		return
	}

	f := int(math.Ceil(sigma / (maxDirectSigma / 2)))
	sw, sh := max((w+f-1)/f, 1), max((h+f-1)/f, 1)

	full := toRGBA64(pix, w, h)
	small := image.NewRGBA64(image.Rect(0, 0, sw, sh))
	draw.BiLinear.Scale(small, small.Bounds(), full, full.Bounds(), draw.Src, nil)

	sp := fromRGBA64(small)
	boxBlur3(sp, sw, sh, sigma/float64(f))
	small = toRGBA64(sp, sw, sh)

	draw.BiLinear.Scale(full, full.Bounds(), small, small.Bounds(), draw.Src, nil)
	copy(pix, fromRGBA64(full))
}

// boxBlur3 runs three box blurs whose combined variance matches sigma².
func boxBlur3(pix []float32, w, h int, sigma float64) {
	tmp := make([]float32, len(pix))
	for _, r := range boxRadii(sigma) {
		if r == 0 {
			continue
		}
		boxH(tmp, pix, w, h, r)
		boxV(pix, tmp, w, h, r)
	}
}

// boxRadii returns the radii of three box filters approximating a
// Gaussian of standard deviation sigma.
func boxRadii(sigma float64) [3]int {
	const n = 3
	ideal := math.Sqrt(12*sigma*sigma/n + 1)
	lo := int(math.Floor(ideal))
	if lo%2 == 0 {
		lo--
	}
	lo = max(lo, 1)
	hi := lo + 2
	m := math.Round((12*sigma*sigma - n*float64(lo*lo) - 4*n*float64(lo) - 3*n) / (-4*float64(lo) - 4))

	var radii [3]int
	for i := range radii {
		size := hi
		if float64(i) < m {
			size = lo
		}
		radii[i] = (size - 1) / 2
	}
	return radii
}

// boxH writes the horizontal box blur of src with radius r to dst.
func boxH(dst, src []float32, w, h, r int) {
	scale := 1 / float32(2*r+1)
	for y := range h {
		row := src[4*y*w : 4*(y+1)*w]
		out := dst[4*y*w : 4*(y+1)*w]
		var acc [4]float32
		for x := range min(r, w) {
			for c := range 4 {
				acc[c] += row[4*x+c]
			}
		}
		for x := range w {
			if in := x + r; in < w {
				for c := range 4 {
					acc[c] += row[4*in+c]
				}
			}
			if away := x - r - 1; away >= 0 {
				for c := range 4 {
					acc[c] -= row[4*away+c]
				}
			}
			for c := range 4 {
				out[4*x+c] = max(acc[c]*scale, 0)
			}
		}
	}
}

// boxV writes the vertical box blur of src with radius r to dst.
func boxV(dst, src []float32, w, h, r int) {
	scale := 1 / float32(2*r+1)
	acc := make([]float32, 4*w)
	for y := range min(r, h) {
		for i, v := range src[4*y*w : 4*(y+1)*w] {
			acc[i] += v
		}
	}
	for y := range h {
		if in := y + r; in < h {
			for i, v := range src[4*in*w : 4*(in+1)*w] {
				acc[i] += v
			}
		}
		if away := y - r - 1; away >= 0 {
			for i, v := range src[4*away*w : 4*(away+1)*w] {
				acc[i] -= v
			}
		}
		out := dst[4*y*w : 4*(y+1)*w]
		for i, v := range acc {
			out[i] = max(v*scale, 0)
		}
	}
}

func toRGBA64(pix []float32, w, h int) *image.RGBA64 {
	img := image.NewRGBA64(image.Rect(0, 0, w, h))
	for i, v := range pix[:4*w*h] {
		u := uint16(math.Round(float64(clamp01(v)) * 0xffff))
		img.Pix[2*i] = uint8(u >> 8)
		img.Pix[2*i+1] = uint8(u)
	}
	return img
}

func fromRGBA64(img *image.RGBA64) []float32 {
	b := img.Bounds()
	n := 4 * b.Dx() * b.Dy()
	pix := make([]float32, n)
	for i := range pix {
		u := uint16(img.Pix[2*i])<<8 | uint16(img.Pix[2*i+1])
		pix[i] = float32(u) / 0xffff
	}
	return pix
}
