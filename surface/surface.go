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

// Package surface defines the paint surface the drawing passes write to,
// a raster implementation of it, and a recorder for tests.
//
// All coordinates are device pixels, with the origin in the top left
// corner and y growing downwards. Paths are filled with the nonzero
// winding rule.
package surface

import (
	"fmt"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/pdf/graphics"
)

// Surface is a paint target.
//
// WithClip, WithBlendMode and DrawLayer change the drawing state for the
// duration of fn only. The Surface passed to fn is the receiver itself or
// a view of it; it must not be retained after fn returns.
type Surface interface {
	// Size returns the surface dimensions in device pixels.
	Size() (width, height int)

	// FillPath fills p with the given paint.
	FillPath(p *path.Data, paint Paint)

	// StrokePath strokes p with the given style and paint.
	StrokePath(p *path.Data, style Stroke, paint Paint)

	// WithClip restricts drawing inside fn to the intersection of the
	// current clip rectangle and r.
	WithClip(r rect.Rect, fn func(Surface))

	// WithBlendMode sets the blend mode used by fills and strokes inside fn.
	WithBlendMode(mode BlendMode, fn func(Surface))

	// DrawLayer draws fn into a fresh transparent layer, which is then
	// blurred, scaled by opt.Alpha and composited onto the current layer
	// with opt.Blend.
	DrawLayer(opt LayerOptions, fn func(Surface))
}

// BlendMode describes how source pixels combine with the destination.
// Colours are premultiplied by alpha.
type BlendMode int

// These are the supported blend modes.
const (
	// BlendNormal is source-over.
	BlendNormal BlendMode = iota

	// BlendPlus adds source and destination, saturating at 1.
	BlendPlus

	// BlendSourceIn replaces the destination by the source, scaled by the
	// destination alpha. It affects the whole clip area: where the source
	// is not painted the result is transparent.
	BlendSourceIn

	// BlendDestinationIn scales the destination by the source alpha. Like
	// BlendSourceIn it affects the whole clip area, so drawing a mask
	// shape keeps only the part of the layer under the mask.
	BlendDestinationIn

	// BlendDestinationOut scales the destination by one minus the source
	// alpha.
	BlendDestinationOut
)

func (m BlendMode) String() string {
	switch m {
	case BlendNormal:
		return "normal"
	case BlendPlus:
		return "plus"
	case BlendSourceIn:
		return "source-in"
	case BlendDestinationIn:
		return "destination-in"
	case BlendDestinationOut:
		return "destination-out"
	default:
		return fmt.Sprintf("BlendMode(%d)", int(m))
	}
}

// wholeArea reports whether the mode changes pixels the source does not
// cover.
func (m BlendMode) wholeArea() bool {
	return m == BlendSourceIn || m == BlendDestinationIn
}

// Stroke describes the outline of a stroked path.
type Stroke struct {
	Width float64
	Cap   graphics.LineCapStyle
	Join  graphics.LineJoinStyle
}

// LayerOptions controls how DrawLayer composites the layer.
type LayerOptions struct {
	// Blur is the standard deviation in pixels of the blur applied to the
	// layer before compositing. Zero disables the blur.
	Blur float64

	// Blend is the mode used to composite the layer.
	Blend BlendMode

	// Alpha scales the layer. A zero value means 1.
	Alpha float32
}
