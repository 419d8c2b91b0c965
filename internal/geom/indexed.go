// Package geom holds the indexed triangle mesh produced by the model loaders.
package geom

import (
	"errors"
	"fmt"
	"math"

	mgl "github.com/go-gl/mathgl/mgl64"
)

var (
	ErrIndexRange   = errors.New("index out of range")
	ErrNotTriangles = errors.New("index count is not a multiple of 3")
)

// Indexed is a triangle list over a vertex array. Vertices keep the order in
// which the source declared them; every three indices form one triangle.
//
// An Indexed value is not mutated after a loader returns it. Helpers in this
// package return new values.
type Indexed struct {
	Vertices []mgl.Vec3
	Indices  []int
}

// Triangles returns the number of triangles in the index list.
func (m *Indexed) Triangles() int {
	return len(m.Indices) / 3
}

// Validate reports whether every index references a vertex and the index
// list forms whole triangles.
func (m *Indexed) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%d indices: %w", len(m.Indices), ErrNotTriangles)
	}
	for i, index := range m.Indices {
		if index < 0 || index >= len(m.Vertices) {
			return fmt.Errorf("indices[%d] = %d with %d vertices: %w", i, index, len(m.Vertices), ErrIndexRange)
		}
	}
	return nil
}

// Bounds returns the axis aligned box around all vertices. An empty mesh has
// zero bounds.
func (m *Indexed) Bounds() (min, max mgl.Vec3) {
	if len(m.Vertices) == 0 {
		return
	}
	min = mgl.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = mgl.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, v := range m.Vertices {
		for axis := range 3 {
			min[axis] = math.Min(min[axis], v[axis])
			max[axis] = math.Max(max[axis], v[axis])
		}
	}
	return min, max
}

// Normalize returns a copy centred on the origin whose largest extent equals
// size. Degenerate meshes (a single point) are only centred.
func (m *Indexed) Normalize(size float64) *Indexed {
	min, max := m.Bounds()
	center := min.Add(max).Mul(0.5)
	extent := max.Sub(min)
	longest := math.Max(extent.X(), math.Max(extent.Y(), extent.Z()))

	scale := 1.0
	if longest > 0 {
		scale = size / longest
	}

	out := &Indexed{
		Vertices: make([]mgl.Vec3, len(m.Vertices)),
		Indices:  append([]int(nil), m.Indices...),
	}
	for i, v := range m.Vertices {
		out.Vertices[i] = v.Sub(center).Mul(scale)
	}
	return out
}
