package geom

import (
	"github.com/fogleman/simplify"
	mgl "github.com/go-gl/mathgl/mgl64"
)

// Simplify decimates the mesh with quadric edge collapse until roughly
// factor of its triangles remain. The result is re-indexed over the unique
// surviving positions. A factor outside (0, 1) returns m itself.
func Simplify(m *Indexed, factor float64) *Indexed {
	if factor <= 0 || factor >= 1 || m.Triangles() == 0 {
		return m
	}

	triangles := make([]*simplify.Triangle, 0, m.Triangles())
	for i := 0; i+2 < len(m.Indices); i += 3 {
		triangles = append(triangles, simplify.NewTriangle(
			to_simplify(m.Vertices[m.Indices[i]]),
			to_simplify(m.Vertices[m.Indices[i+1]]),
			to_simplify(m.Vertices[m.Indices[i+2]]),
		))
	}

	reduced := simplify.NewMesh(triangles).Simplify(factor)

	out := &Indexed{}
	seen := make(map[simplify.Vector]int)
	index_of := func(v simplify.Vector) int {
		if i, ok := seen[v]; ok {
			return i
		}
		i := len(out.Vertices)
		seen[v] = i
		out.Vertices = append(out.Vertices, mgl.Vec3{v.X, v.Y, v.Z})
		return i
	}
	for _, t := range reduced.Triangles {
		out.Indices = append(out.Indices, index_of(t.V1), index_of(t.V2), index_of(t.V3))
	}
	return out
}

func to_simplify(v mgl.Vec3) simplify.Vector {
	return simplify.Vector{X: v.X(), Y: v.Y(), Z: v.Z()}
}
