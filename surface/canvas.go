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

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/raincurve/raster"
)

// Canvas is a Surface backed by premultiplied float32 RGBA buffers.
//
// A Canvas is not safe for concurrent use. Independent renders should use
// independent canvases.
type Canvas struct {
	w, h   int
	layers [][]float32 // layers[0] is the base image
	clip   box
	blend  BlendMode

	r    *raster.Rasterizer
	mask []float32 // coverage scratch for whole-area blend modes
}

var _ Surface = (*Canvas)(nil)

// box is an integer pixel rectangle [x0, x1) × [y0, y1).
type box struct {
	x0, y0, x1, y1 int
}

func (b box) empty() bool {
	return b.x0 >= b.x1 || b.y0 >= b.y1
}

func (b box) rect() rect.Rect {
	return rect.Rect{LLx: float64(b.x0), LLy: float64(b.y0), URx: float64(b.x1), URy: float64(b.y1)}
}

// NewCanvas allocates a transparent canvas. Negative dimensions are
// treated as zero.
func NewCanvas(width, height int) *Canvas {
	width, height = max(width, 0), max(height, 0)
	c := &Canvas{
		w:      width,
		h:      height,
		layers: [][]float32{make([]float32, 4*width*height)},
		clip:   box{0, 0, width, height},
	}
	c.r = raster.NewRasterizer(c.clip.rect())
	return c
}

// Size implements Surface.
func (c *Canvas) Size() (int, int) {
	return c.w, c.h
}

func (c *Canvas) top() []float32 {
	return c.layers[len(c.layers)-1]
}

// FillPath implements Surface.
func (c *Canvas) FillPath(p *path.Data, paint Paint) {
	if p == nil || c.clip.empty() {
		return
	}
	c.r.Reset(c.clip.rect())
	c.paint(paint, func(emit raster.EmitFunc) { c.r.FillNonZero(p, emit) })
}

// StrokePath implements Surface.
func (c *Canvas) StrokePath(p *path.Data, style Stroke, paint Paint) {
	if p == nil || c.clip.empty() || !(style.Width > 0) || math.IsInf(style.Width, 0) {
		return
	}
	c.r.Reset(c.clip.rect())
	c.r.Width = style.Width
	c.r.Cap = style.Cap
	c.r.Join = style.Join
	c.paint(paint, func(emit raster.EmitFunc) { c.r.Stroke(p, emit) })
}

// paint runs the rasteriser and blends the coverage into the top layer.
func (c *Canvas) paint(paint Paint, run func(raster.EmitFunc)) {
	paint = paint.Sanitized()
	if paint.Alpha == 0 && !c.blend.wholeArea() {
		return
	}
	dst := c.top()
	col := paint.Color

	// alpha returns the source alpha at pixel (x, y) for coverage cov
	alpha := func(x, y int, cov float32) float32 {
		a := cov * paint.Alpha
		if paint.Gradient != nil {
			a *= paint.Gradient.At(float64(x) + 0.5)
		}
		if paint.Pattern != nil {
			a *= clamp01(paint.Pattern.Alpha(x, y))
		}
		return clamp01(a)
	}

	if c.blend.wholeArea() {
		c.paintWhole(dst, col, alpha, run)
		return
	}

	mode := c.blend
	run(func(y, xMin int, coverage []float32) {
		if y < c.clip.y0 || y >= c.clip.y1 {
			return
		}
		for i, cov := range coverage {
			x := xMin + i
			if x < c.clip.x0 || x >= c.clip.x1 || cov <= 0 {
				continue
			}
			a := alpha(x, y, min(cov, 1))
			if a == 0 {
				continue
			}
			k := 4 * (y*c.w + x)
			blendPixel(dst[k:k+4:k+4], col, a, mode)
		}
	})
}

// paintWhole handles the blend modes which also change uncovered pixels.
func (c *Canvas) paintWhole(dst []float32, col Color, alpha func(x, y int, cov float32) float32, run func(raster.EmitFunc)) {
	cb := c.clip
	cw := cb.x1 - cb.x0
	n := cw * (cb.y1 - cb.y0)
	if cap(c.mask) < n {
		c.mask = make([]float32, n)
	}
	m := c.mask[:n]
	clear(m)
	run(func(y, xMin int, coverage []float32) {
		if y < cb.y0 || y >= cb.y1 {
			return
		}
		for i, cov := range coverage {
			x := xMin + i
			if x < cb.x0 || x >= cb.x1 || cov <= 0 {
				continue
			}
			m[(y-cb.y0)*cw+x-cb.x0] = alpha(x, y, min(cov, 1))
		}
	})

	for y := cb.y0; y < cb.y1; y++ {
		for x := cb.x0; x < cb.x1; x++ {
			a := m[(y-cb.y0)*cw+x-cb.x0]
			k := 4 * (y*c.w + x)
			blendPixel(dst[k:k+4:k+4], col, a, c.blend)
		}
	}
}

// blendPixel combines a source of colour col and alpha a into the
// premultiplied pixel d.
func blendPixel(d []float32, col Color, a float32, mode BlendMode) {
	blend(d, col.R*a, col.G*a, col.B*a, a, mode)
}

// blend combines the premultiplied source (sr, sg, sb, sa) into d.
func blend(d []float32, sr, sg, sb, sa float32, mode BlendMode) {
	switch mode {
	case BlendNormal:
		k := 1 - sa
		d[0] = sr + d[0]*k
		d[1] = sg + d[1]*k
		d[2] = sb + d[2]*k
		d[3] = sa + d[3]*k
	case BlendPlus:
		d[0] = min(d[0]+sr, 1)
		d[1] = min(d[1]+sg, 1)
		d[2] = min(d[2]+sb, 1)
		d[3] = min(d[3]+sa, 1)
	case BlendSourceIn:
		da := d[3]
		d[0] = sr * da
		d[1] = sg * da
		d[2] = sb * da
		d[3] = sa * da
	case BlendDestinationIn:
		d[0] *= sa
		d[1] *= sa
		d[2] *= sa
		d[3] *= sa
	case BlendDestinationOut:
		k := 1 - sa
		d[0] *= k
		d[1] *= k
		d[2] *= k
		d[3] *= k
	}
}

// WithClip implements Surface.
func (c *Canvas) WithClip(r rect.Rect, fn func(Surface)) {
	saved := c.clip
	c.clip = c.clip.intersect(r)
	defer func() { c.clip = saved }()
	fn(c)
}

// intersect returns the pixels of b whose centres lie inside r.
func (b box) intersect(r rect.Rect) box {
	pix := func(v float64, lo, hi int) int {
		if math.IsNaN(v) {
			return lo
		}
		return int(math.Round(min(max(v, float64(lo)), float64(hi))))
	}
	out := box{
		x0: pix(r.LLx, b.x0, b.x1),
		y0: pix(r.LLy, b.y0, b.y1),
		x1: pix(r.URx, b.x0, b.x1),
		y1: pix(r.URy, b.y0, b.y1),
	}
	if out.empty() {
		return box{}
	}
	return out
}

// WithBlendMode implements Surface.
func (c *Canvas) WithBlendMode(mode BlendMode, fn func(Surface)) {
	saved := c.blend
	c.blend = mode
	defer func() { c.blend = saved }()
	fn(c)
}

// DrawLayer implements Surface.
func (c *Canvas) DrawLayer(opt LayerOptions, fn func(Surface)) {
	alpha := opt.Alpha
	if alpha == 0 {
		alpha = 1
	}
	alpha = clamp01(alpha)

	savedBlend := c.blend
	c.blend = BlendNormal
	layer := make([]float32, 4*c.w*c.h)
	c.layers = append(c.layers, layer)
	fn(c)
	c.layers = c.layers[:len(c.layers)-1]
	c.blend = savedBlend

	if alpha == 0 || c.clip.empty() {
		return
	}
	if opt.Blur > 0 {
		blurLayer(layer, c.w, c.h, min(opt.Blur, maxSigma))
	}
	compositeLayer(c.top(), layer, c.w, c.clip, alpha, opt.Blend)
}

// compositeLayer blends the premultiplied layer src onto dst inside cb.
func compositeLayer(dst, src []float32, w int, cb box, alpha float32, mode BlendMode) {
	for y := cb.y0; y < cb.y1; y++ {
		for x := cb.x0; x < cb.x1; x++ {
			k := 4 * (y*w + x)
			s := src[k : k+4 : k+4]
			sa := clamp01(s[3] * alpha)
			if sa == 0 && !mode.wholeArea() {
				continue
			}
			sr := min(clamp01(s[0]*alpha), sa)
			sg := min(clamp01(s[1]*alpha), sa)
			sb := min(clamp01(s[2]*alpha), sa)
			blend(dst[k:k+4:k+4], sr, sg, sb, sa, mode)
		}
	}
}

// Image converts the canvas to 8-bit premultiplied RGBA.
func (c *Canvas) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.w, c.h))
	base := c.layers[0]
	to8 := func(v float32) uint8 {
		return uint8(math.Round(float64(v) * 255))
	}
	for i := range c.w * c.h {
		px := base[4*i : 4*i+4 : 4*i+4]
		a := clamp01(px[3])
		img.Pix[4*i] = to8(min(clamp01(px[0]), a))
		img.Pix[4*i+1] = to8(min(clamp01(px[1]), a))
		img.Pix[4*i+2] = to8(min(clamp01(px[2]), a))
		img.Pix[4*i+3] = to8(a)
	}
	return img
}

// At returns the premultiplied RGBA value of the base layer at (x, y).
func (c *Canvas) At(x, y int) [4]float32 {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return [4]float32{}
	}
	k := 4 * (y*c.w + x)
	b := c.layers[0]
	return [4]float32{b[k], b[k+1], b[k+2], b[k+3]}
}
