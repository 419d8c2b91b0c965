// Package raster turns shapes into screen space primitives and, for the
// software path, fills them into a depth tested pixel buffer.
package raster

import (
	"sort"

	"github.com/thedaneeffect/ebiten-obj-viewer/internal/shape"
)

// Vertex is a screen space vertex. X and Y are pixels with y growing down,
// Z is the normalized device depth. InvW is 1/w from clip space and the
// color channels are already multiplied by it so that interpolating them
// linearly and dividing by the interpolated InvW is perspective correct.
type Vertex struct {
	X, Y, Z    float32
	InvW       float32
	R, G, B, A float32
}

type Triangle struct {
	V [3]Vertex
}

// depth is the mean normalized device depth, larger is farther.
func (t *Triangle) depth() float {
	return (t.V[0].Z + t.V[1].Z + t.V[2].Z) / 3
}

type Segment struct {
	V [2]Vertex
}

type viewport struct {
	w      int
	h      int
	w_half float
	h_half float
}

// Pipeline collects the primitives of one frame. Per-frame buffers are
// kept between frames to reduce allocations.
type Pipeline struct {
	// Cull drops triangles whose corners appear clockwise on screen.
	Cull bool

	viewport viewport

	clip_space_points []clip_vertex
	triangles         []Triangle
	segments          []Segment
	clipper           clipper
}

func (p *Pipeline) SetViewport(w, h int) {
	p.viewport = viewport{
		w:      w,
		h:      h,
		w_half: float(w) / 2,
		h_half: float(h) / 2,
	}
}

func (p *Pipeline) Triangles() []Triangle {
	return p.triangles
}

func (p *Pipeline) Segments() []Segment {
	return p.segments
}

// Reset empties the frame.
func (p *Pipeline) Reset() {
	p.triangles = p.triangles[:0]
	p.segments = p.segments[:0]
}

// SortBackToFront orders triangles for drawing without a depth buffer.
func (p *Pipeline) SortBackToFront() {
	sort.SliceStable(p.triangles, func(i, j int) bool {
		return p.triangles[i].depth() > p.triangles[j].depth()
	})
}

// Push transforms s with its model matrix, the camera view and the
// projection and appends its visible primitives to the frame.
func (p *Pipeline) Push(s *shape.Shape, view, projection mat4) {
	// save us some calculations by doing this here instead of per point
	model_view_project := projection.Mul4(view).Mul4(s.Model())

	// transform all the shape points into clip space
	p.clip_space_points = p.clip_space_points[:0]
	for i, point := range s.Vertices {
		p.clip_space_points = append(p.clip_space_points, clip_vertex{
			pos:  model_view_project.Mul4x1(point),
			rgba: s.Colors[i],
		})
	}

	switch s.Kind {
	case shape.Triangles:
		for i := 0; i+2 < s.Count(); i += 3 {
			p.push_triangle(
				p.clip_space_points[s.Index(i)],
				p.clip_space_points[s.Index(i+1)],
				p.clip_space_points[s.Index(i+2)],
			)
		}
	case shape.Lines:
		for i := 0; i+1 < s.Count(); i += 2 {
			a, b, ok := clip_segment(p.clip_space_points[s.Index(i)], p.clip_space_points[s.Index(i+1)])
			if !ok {
				continue
			}
			p.segments = append(p.segments, Segment{V: [2]Vertex{p.to_screen(a), p.to_screen(b)}})
		}
	}
}

func (p *Pipeline) push_triangle(v1, v2, v3 clip_vertex) {
	if !out_of_bounds(v1.pos) && !out_of_bounds(v2.pos) && !out_of_bounds(v3.pos) {
		p.emit(v1, v2, v3)
		return
	}
	points := p.clipper.sutherland_hodgman(v1, v2, v3)
	for i := 2; i < len(points); i++ {
		p.emit(points[0], points[i-1], points[i])
	}
}

func (p *Pipeline) emit(v1, v2, v3 clip_vertex) {
	t := Triangle{V: [3]Vertex{p.to_screen(v1), p.to_screen(v2), p.to_screen(v3)}}

	if p.Cull {
		// 2d cross product, screen y points down
		dx12 := t.V[1].X - t.V[0].X
		dy12 := t.V[1].Y - t.V[0].Y
		dx13 := t.V[2].X - t.V[0].X
		dy13 := t.V[2].Y - t.V[0].Y
		if dx12*dy13-dx13*dy12 >= 0 {
			return
		}
	}

	p.triangles = append(p.triangles, t)
}

func viewport_transform(ndc, dimension_half float) float {
	return dimension_half*ndc + dimension_half
}

// to_screen performs the perspective divide (clip -> ndc) and maps ndc to
// the viewport.
func (p *Pipeline) to_screen(v clip_vertex) Vertex {
	inv_w := 1.0 / v.pos.W()
	return Vertex{
		X:    viewport_transform(v.pos.X()*inv_w, p.viewport.w_half),
		Y:    float(p.viewport.h) - viewport_transform(v.pos.Y()*inv_w, p.viewport.h_half),
		Z:    v.pos.Z() * inv_w,
		InvW: inv_w,
		R:    v.rgba.X() * inv_w,
		G:    v.rgba.Y() * inv_w,
		B:    v.rgba.Z() * inv_w,
		A:    v.rgba.W() * inv_w,
	}
}
