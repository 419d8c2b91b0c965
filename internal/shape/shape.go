// Package shape builds renderable shapes from vertex positions, per-vertex
// colors and optional indices.
package shape

import (
	"errors"
	"fmt"

	mgl "github.com/go-gl/mathgl/mgl32"

	"github.com/thedaneeffect/ebiten-obj-viewer/internal/geom"
)

var (
	ErrColorCount     = errors.New("color count does not match vertex count")
	ErrIndexRange     = errors.New("index out of range")
	ErrPrimitiveCount = errors.New("element count does not form whole primitives")
)

// Color is RGBA in [0, 1].
type Color = mgl.Vec4

type Kind int

const (
	Triangles Kind = iota
	Lines
)

func (k Kind) String() string {
	switch k {
	case Triangles:
		return "triangles"
	case Lines:
		return "lines"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// per returns the number of elements in one primitive.
func (k Kind) per() int {
	if k == Lines {
		return 2
	}
	return 3
}

// Shape is vertex data ready for the renderer together with its own model
// transform. The vertex data is owned by the shape and never changes after
// Build; only the model matrix moves.
type Shape struct {
	Kind     Kind
	Vertices []mgl.Vec4
	Colors   []Color

	// Indices is nil for shapes whose vertices already form a primitive list.
	Indices []int

	model mgl.Mat4
}

// Build creates a triangle shape. A nil indices slice makes every three
// consecutive vertices one triangle. The slices are owned by the shape
// afterwards.
func Build(vertices []mgl.Vec4, colors []Color, indices []int) (*Shape, error) {
	return build(Triangles, vertices, colors, indices)
}

// BuildLines creates a line shape where every two elements form a segment.
func BuildLines(vertices []mgl.Vec4, colors []Color, indices []int) (*Shape, error) {
	return build(Lines, vertices, colors, indices)
}

func build(kind Kind, vertices []mgl.Vec4, colors []Color, indices []int) (*Shape, error) {
	if len(colors) != len(vertices) {
		return nil, fmt.Errorf("shape: %d colors for %d vertices: %w", len(colors), len(vertices), ErrColorCount)
	}

	count := len(vertices)
	if indices != nil {
		count = len(indices)
		for i, index := range indices {
			if index < 0 || index >= len(vertices) {
				return nil, fmt.Errorf("shape: indices[%d] = %d: %w", i, index, ErrIndexRange)
			}
		}
	}
	if count%kind.per() != 0 {
		return nil, fmt.Errorf("shape: %d elements for %s: %w", count, kind, ErrPrimitiveCount)
	}

	return &Shape{
		Kind:     kind,
		Vertices: vertices,
		Colors:   colors,
		Indices:  indices,
		model:    mgl.Ident4(),
	}, nil
}

// FromIndexed reduces a parsed mesh to homogeneous single precision
// positions (w = 1) and builds a triangle shape from it.
func FromIndexed(m *geom.Indexed, colors []Color) (*Shape, error) {
	vertices := make([]mgl.Vec4, len(m.Vertices))
	for i, v := range m.Vertices {
		vertices[i] = mgl.Vec4{float32(v.X()), float32(v.Y()), float32(v.Z()), 1}
	}
	return Build(vertices, colors, m.Indices)
}

// Count returns the number of elements the renderer walks.
func (s *Shape) Count() int {
	if s.Indices != nil {
		return len(s.Indices)
	}
	return len(s.Vertices)
}

// Index maps element i to a vertex.
func (s *Shape) Index(i int) int {
	if s.Indices != nil {
		return s.Indices[i]
	}
	return i
}

// Primitives returns the number of triangles or segments.
func (s *Shape) Primitives() int {
	return s.Count() / s.Kind.per()
}

func (s *Shape) Translate(v mgl.Vec3) {
	s.model = s.model.Mul4(mgl.Translate3D(v.X(), v.Y(), v.Z()))
}

func (s *Shape) Scale(v mgl.Vec3) {
	s.model = s.model.Mul4(mgl.Scale3D(v.X(), v.Y(), v.Z()))
}

func (s *Shape) Model() mgl.Mat4 {
	return s.model
}
