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
	"fmt"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
)

// OpKind identifies a recorded drawing operation.
type OpKind int

// These are the recorded operation kinds.
const (
	OpFill OpKind = iota
	OpStroke
	OpLayer
	OpClip
	OpBlend
)

func (k OpKind) String() string {
	switch k {
	case OpFill:
		return "fill"
	case OpStroke:
		return "stroke"
	case OpLayer:
		return "layer"
	case OpClip:
		return "clip"
	case OpBlend:
		return "blend"
	default:
		return fmt.Sprintf("OpKind(%d)", int(k))
	}
}

// Op is one recorded operation.
type Op struct {
	Kind  OpKind
	Depth int    // nesting level of layers, clips and blend scopes
	Tag   string // innermost tag set with Recorder.Tag

	Path   *path.Data
	Paint  Paint // fills and strokes, as given by the caller
	Stroke Stroke
	Blend  BlendMode // current blend mode for fills and strokes
	Layer  LayerOptions
	Clip   rect.Rect
}

// Recorder is a Surface which records operations instead of drawing.
type Recorder struct {
	Width, Height int
	Ops           []Op

	depth int
	blend BlendMode
	tags  []string
}

var _ Surface = (*Recorder)(nil)

// NewRecorder returns an empty recorder of the given size.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{Width: width, Height: height}
}

// Size implements Surface.
func (r *Recorder) Size() (int, int) {
	return r.Width, r.Height
}

func (r *Recorder) record(op Op) {
	op.Depth = r.depth
	if len(r.tags) > 0 {
		op.Tag = r.tags[len(r.tags)-1]
	}
	r.Ops = append(r.Ops, op)
}

// FillPath implements Surface.
func (r *Recorder) FillPath(p *path.Data, paint Paint) {
	r.record(Op{Kind: OpFill, Path: p, Paint: paint, Blend: r.blend})
}

// StrokePath implements Surface.
func (r *Recorder) StrokePath(p *path.Data, style Stroke, paint Paint) {
	r.record(Op{Kind: OpStroke, Path: p, Paint: paint, Stroke: style, Blend: r.blend})
}

// WithClip implements Surface.
func (r *Recorder) WithClip(c rect.Rect, fn func(Surface)) {
	r.record(Op{Kind: OpClip, Clip: c})
	r.depth++
	fn(r)
	r.depth--
}

// WithBlendMode implements Surface.
func (r *Recorder) WithBlendMode(mode BlendMode, fn func(Surface)) {
	r.record(Op{Kind: OpBlend, Blend: mode})
	saved := r.blend
	r.blend = mode
	r.depth++
	fn(r)
	r.depth--
	r.blend = saved
}

// DrawLayer implements Surface.
func (r *Recorder) DrawLayer(opt LayerOptions, fn func(Surface)) {
	r.record(Op{Kind: OpLayer, Layer: opt})
	saved := r.blend
	r.blend = BlendNormal
	r.depth++
	fn(r)
	r.depth--
	r.blend = saved
}

// Tag labels all operations recorded inside fn.
func (r *Recorder) Tag(tag string, fn func()) {
	r.tags = append(r.tags, tag)
	fn()
	r.tags = r.tags[:len(r.tags)-1]
}

// Count returns the number of recorded operations of the given kind.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Tagged returns the operations carrying the given tag.
func (r *Recorder) Tagged(tag string) []Op {
	var ops []Op
	for _, op := range r.Ops {
		if op.Tag == tag {
			ops = append(ops, op)
		}
	}
	return ops
}

// Tagger is implemented by surfaces which can label groups of operations.
type Tagger interface {
	Tag(tag string, fn func())
}

// Section runs fn, labelling its operations with tag if s is a Tagger.
func Section(s Surface, tag string, fn func()) {
	if t, ok := s.(Tagger); ok {
		t.Tag(tag, fn)
		return
	}
	fn()
}
