// Package glb loads the triangle geometry of glTF and GLB files into the same
// indexed mesh the OBJ parser produces.
package glb

import (
	"errors"
	"fmt"
	"io"

	mgl "github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/thedaneeffect/ebiten-obj-viewer/internal/geom"
)

var (
	ErrNoTriangles = errors.New("glb: no triangle primitives found")
	ErrAccessor    = errors.New("glb: accessor index out of range")
)

// Load reads a .gltf or .glb file. External buffers of a .gltf are resolved
// relative to the file.
func Load(path string) (*geom.Indexed, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, err
	}
	return Decode(doc)
}

// Read decodes a self contained document (GLB or glTF with embedded
// buffers) from r.
func Read(r io.Reader) (*geom.Indexed, error) {
	var doc gltf.Document
	if err := gltf.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("glb: decode: %w", err)
	}
	return Decode(&doc)
}

// Decode merges every triangle primitive of every mesh into one indexed
// mesh. Node transforms are not applied.
func Decode(doc *gltf.Document) (*geom.Indexed, error) {
	out := &geom.Indexed{}

	for _, mesh := range doc.Meshes {
		for _, primitive := range mesh.Primitives {
			if primitive.Mode != gltf.PrimitiveTriangles {
				continue
			}

			position_index, ok := primitive.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			position_accessor, err := accessor(doc, mesh.Name, position_index)
			if err != nil {
				return nil, err
			}
			positions, err := modeler.ReadPosition(doc, position_accessor, nil)
			if err != nil {
				return nil, fmt.Errorf("glb: mesh %q positions: %w", mesh.Name, err)
			}

			var indices []uint32
			if primitive.Indices != nil {
				index_accessor, err := accessor(doc, mesh.Name, *primitive.Indices)
				if err != nil {
					return nil, err
				}
				indices, err = modeler.ReadIndices(doc, index_accessor, nil)
				if err != nil {
					return nil, fmt.Errorf("glb: mesh %q indices: %w", mesh.Name, err)
				}
			} else {
				// no index accessor: the positions are the triangle list
				indices = make([]uint32, len(positions))
				for k := range indices {
					indices[k] = uint32(k)
				}
			}

			base := len(out.Vertices)
			for _, p := range positions {
				out.Vertices = append(out.Vertices, mgl.Vec3{float64(p[0]), float64(p[1]), float64(p[2])})
			}
			for i := 0; i+2 < len(indices); i += 3 {
				out.Indices = append(out.Indices,
					base+int(indices[i]),
					base+int(indices[i+1]),
					base+int(indices[i+2]),
				)
			}
		}
	}

	if out.Triangles() == 0 {
		return nil, ErrNoTriangles
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("glb: %w", err)
	}
	return out, nil
}

// Encode writes m as a single mesh, single node document.
func Encode(m *geom.Indexed) *gltf.Document {
	positions := make([][3]float32, len(m.Vertices))
	for i, v := range m.Vertices {
		positions[i] = [3]float32{float32(v.X()), float32(v.Y()), float32(v.Z())}
	}
	indices := make([]uint32, len(m.Indices))
	for i, index := range m.Indices {
		indices[i] = uint32(index)
	}

	doc := gltf.NewDocument()
	position_accessor := modeler.WritePosition(doc, positions)
	index_accessor := modeler.WriteIndices(doc, indices)

	primitive := &gltf.Primitive{
		Attributes: map[string]uint32{
			gltf.POSITION: uint32(position_accessor),
		},
		Indices: gltf.Index(uint32(index_accessor)),
	}
	doc.Meshes = []*gltf.Mesh{{Name: "mesh", Primitives: []*gltf.Primitive{primitive}}}
	doc.Nodes = []*gltf.Node{{Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)
	return doc
}

func accessor(doc *gltf.Document, mesh string, index uint32) (*gltf.Accessor, error) {
	if int(index) >= len(doc.Accessors) || doc.Accessors[index] == nil {
		return nil, fmt.Errorf("glb: mesh %q: accessor %d of %d: %w", mesh, index, len(doc.Accessors), ErrAccessor)
	}
	return doc.Accessors[index], nil
}
