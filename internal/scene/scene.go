// Package scene owns everything the viewer draws: the shapes, the line
// shapes, the camera and the projection. A Scene is built once by a Loader
// and handed to the renderer by pointer.
package scene

import (
	"github.com/thedaneeffect/ebiten-obj-viewer/internal/camera"
	"github.com/thedaneeffect/ebiten-obj-viewer/internal/raster"
	"github.com/thedaneeffect/ebiten-obj-viewer/internal/shape"
)

type Scene struct {
	Shapes     []*shape.Shape
	Lines      []*shape.Shape
	Camera     *camera.Camera
	Projection camera.Projection
	Clear      shape.Color

	// Cull enables back-face culling for triangle shapes.
	Cull bool
}

// Push hands every shape and line to the pipeline with the current camera.
func (s *Scene) Push(p *raster.Pipeline) {
	view := s.Camera.View()
	projection := s.Projection.Matrix()

	p.Cull = s.Cull
	for _, sh := range s.Shapes {
		p.Push(sh, view, projection)
	}
	for _, l := range s.Lines {
		p.Push(l, view, projection)
	}
}

// Triangles counts the triangles of all shapes.
func (s *Scene) Triangles() int {
	n := 0
	for _, sh := range s.Shapes {
		n += sh.Primitives()
	}
	return n
}
