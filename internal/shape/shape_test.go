package shape

import (
	"errors"
	"math/rand/v2"
	"testing"

	mgl "github.com/go-gl/mathgl/mgl32"
	mgl64 "github.com/go-gl/mathgl/mgl64"

	"github.com/thedaneeffect/ebiten-obj-viewer/internal/geom"
)

func triangle() []mgl.Vec4 {
	return []mgl.Vec4{{0, 0, 0, 1}, {1, 0, 0, 1}, {0, 1, 0, 1}}
}

func TestBuildErrors(t *testing.T) {
	tcs := []struct {
		name    string
		colors  int
		indices []int
		want    error
	}{
		{name: "implicit", colors: 3, indices: nil, want: nil},
		{name: "indexed", colors: 3, indices: []int{0, 1, 2, 2, 1, 0}, want: nil},
		{name: "colors", colors: 2, indices: nil, want: ErrColorCount},
		{name: "range", colors: 3, indices: []int{0, 1, 3}, want: ErrIndexRange},
		{name: "partial", colors: 3, indices: []int{0, 1}, want: ErrPrimitiveCount},
	}

	for _, tc := range tcs {
		s, err := Build(triangle(), Solid(tc.colors, Red), tc.indices)
		if !errors.Is(err, tc.want) {
			t.Fatalf("%s: Build err=%v; want %v", tc.name, err, tc.want)
		}
		if err != nil && s != nil {
			t.Fatalf("%s: Build returned a shape with an error", tc.name)
		}
	}
}

func TestImplicitIndices(t *testing.T) {
	s, err := Build(triangle(), Solid(3, Red), nil)
	if err != nil {
		t.Fatal(err)
	}
	if s.Count() != 3 || s.Primitives() != 1 {
		t.Fatalf("Count()=%d Primitives()=%d; want 3 and 1", s.Count(), s.Primitives())
	}
	for i := range 3 {
		if s.Index(i) != i {
			t.Fatalf("Index(%d)=%d; want %d", i, s.Index(i), i)
		}
	}
}

func TestBuildLines(t *testing.T) {
	if _, err := BuildLines(triangle(), Solid(3, Red), nil); !errors.Is(err, ErrPrimitiveCount) {
		t.Fatalf("BuildLines(3 vertices) err=%v; want ErrPrimitiveCount", err)
	}
	s, err := BuildLines(triangle(), Solid(3, Red), []int{0, 1, 1, 2})
	if err != nil {
		t.Fatal(err)
	}
	if s.Kind != Lines || s.Primitives() != 2 {
		t.Fatalf("kind=%v primitives=%d; want lines and 2", s.Kind, s.Primitives())
	}
}

func TestFromIndexed(t *testing.T) {
	m := &geom.Indexed{
		Vertices: []mgl64.Vec3{{0.1, 0.2, 0.3}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0}},
		Indices:  []int{0, 1, 2, 1, 3, 2},
	}
	s, err := FromIndexed(m, RandomColors(4, rand.New(rand.NewPCG(1, 2))))
	if err != nil {
		t.Fatal(err)
	}
	if s.Vertices[0] != (mgl.Vec4{0.1, 0.2, 0.3, 1}) {
		t.Fatalf("vertex=%v; want [0.1 0.2 0.3 1]", s.Vertices[0])
	}
	if s.Primitives() != 2 {
		t.Fatalf("Primitives()=%d; want 2", s.Primitives())
	}
}

func TestRandomColorsOpaque(t *testing.T) {
	for _, c := range RandomColors(64, rand.New(rand.NewPCG(7, 7))) {
		if c.W() != 1 {
			t.Fatalf("alpha=%v; want 1", c.W())
		}
		for i := range 3 {
			if c[i] < 0 || c[i] >= 1 {
				t.Fatalf("channel %d=%v out of [0,1)", i, c[i])
			}
		}
	}
}

func TestCubeFacesPointOutward(t *testing.T) {
	s := Cube(0.2)
	if s.Count() != 36 || s.Indices != nil {
		t.Fatalf("Cube count=%d indices=%v; want 36 and nil", s.Count(), s.Indices)
	}
	for i := 0; i < 36; i += 3 {
		a := s.Vertices[i].Vec3()
		b := s.Vertices[i+1].Vec3()
		c := s.Vertices[i+2].Vec3()
		normal := b.Sub(a).Cross(c.Sub(a))
		centroid := a.Add(b).Add(c).Mul(1.0 / 3)
		if normal.Dot(centroid) <= 0 {
			t.Fatalf("triangle %d faces inward", i/3)
		}
		if s.Colors[i] != s.Colors[i+2] {
			t.Fatalf("triangle %d is not a single color", i/3)
		}
	}
	if s.Colors[0] != Black || s.Colors[35] != Purple {
		t.Fatalf("face colors %v..%v; want black..purple", s.Colors[0], s.Colors[35])
	}
}

func TestCoordinateSystem(t *testing.T) {
	s := CoordinateSystem()
	if s.Kind != Lines || s.Primitives() != 3 {
		t.Fatalf("kind=%v primitives=%d; want lines and 3", s.Kind, s.Primitives())
	}
}

func TestModelTransform(t *testing.T) {
	s := Cube(1)
	if s.Model() != mgl.Ident4() {
		t.Fatalf("new shape model=%v; want identity", s.Model())
	}
	s.Translate(mgl.Vec3{1, 2, 3})
	s.Scale(mgl.Vec3{2, 2, 2})

	got := s.Model().Mul4x1(mgl.Vec4{1, 1, 1, 1})
	want := mgl.Vec4{3, 4, 5, 1}
	if !got.ApproxEqual(want) {
		t.Fatalf("model*(1,1,1)=%v; want %v", got, want)
	}
}
