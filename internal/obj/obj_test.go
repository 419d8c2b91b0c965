package obj

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"testing"

	mgl "github.com/go-gl/mathgl/mgl64"
)

const cube_obj = `# unit cube
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v 0 0 1
v 1 0 1
v 1 1 1
v 0 1 1
f 1 4 3 2
f 5 6 7 8
f 1 2 6 5
f 2 3 7 6
f 3 4 8 7
f 4 1 5 8
`

func TestParseTriangle(t *testing.T) {
	m, err := Parse("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want_vertices := []mgl.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	if !reflect.DeepEqual(m.Vertices, want_vertices) {
		t.Fatalf("vertices=%v; want %v", m.Vertices, want_vertices)
	}
	if !reflect.DeepEqual(m.Indices, []int{0, 1, 2}) {
		t.Fatalf("indices=%v; want [0 1 2]", m.Indices)
	}
}

func TestParseQuadFan(t *testing.T) {
	m, err := Parse("v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3 4\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reflect.DeepEqual(m.Indices, []int{0, 1, 2, 0, 2, 3}) {
		t.Fatalf("indices=%v; want [0 1 2 0 2 3]", m.Indices)
	}
}

func TestParsePolygonFan(t *testing.T) {
	var b strings.Builder
	for i := range 6 {
		b.WriteString("v " + strconv.Itoa(i) + " 0 0\n")
	}
	b.WriteString("f 1 2 3 4 5 6\n")

	m, err := Parse(b.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []int{0, 1, 2, 0, 2, 3, 0, 3, 4, 0, 4, 5}
	if !reflect.DeepEqual(m.Indices, want) {
		t.Fatalf("indices=%v; want %v", m.Indices, want)
	}
}

func TestParseCube(t *testing.T) {
	m, err := Parse(cube_obj)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(m.Vertices) != 8 {
		t.Fatalf("len(vertices)=%d; want 8", len(m.Vertices))
	}
	if m.Triangles() != 12 || len(m.Indices) != 36 {
		t.Fatalf("triangles=%d indices=%d; want 12 and 36", m.Triangles(), len(m.Indices))
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestParseCounts(t *testing.T) {
	tcs := []struct {
		vertices int
		faces    int
	}{
		{3, 1}, {4, 2}, {10, 8}, {50, 48},
	}

	for _, tc := range tcs {
		var b strings.Builder
		for i := range tc.vertices {
			b.WriteString("v " + strconv.Itoa(i) + " " + strconv.Itoa(i*i) + " 0.5\n")
		}
		for i := range tc.faces {
			b.WriteString("f " + strconv.Itoa(i+1) + " " + strconv.Itoa(i+2) + " " + strconv.Itoa(i+3) + "\n")
		}
		m, err := Parse(b.String())
		if err != nil {
			t.Fatalf("Parse(%d v, %d f): %v", tc.vertices, tc.faces, err)
		}
		if len(m.Vertices) != tc.vertices {
			t.Fatalf("len(vertices)=%d; want %d", len(m.Vertices), tc.vertices)
		}
		if len(m.Indices) != 3*tc.faces {
			t.Fatalf("len(indices)=%d; want %d", len(m.Indices), 3*tc.faces)
		}
		for _, index := range m.Indices {
			if index < 0 || index >= len(m.Vertices) {
				t.Fatalf("index %d out of range for %d vertices", index, len(m.Vertices))
			}
		}
	}
}

func TestParseIgnoresOtherStatements(t *testing.T) {
	noisy := `# a comment
mtllib cube.mtl
o Cube

v 0 0 0
vn 0 0 1
vt 0.5 0.5
v 1 0 0   # trailing comment
g side
s off

v 0 1 0
usemtl red
f 1/1/1 2/1/1 3/1/1
l 1 2
`
	plain := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"

	got, err := Parse(noisy)
	if err != nil {
		t.Fatalf("Parse(noisy): %v", err)
	}
	want, err := Parse(plain)
	if err != nil {
		t.Fatalf("Parse(plain): %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Parse(noisy)=%+v; want %+v", got, want)
	}
}

func TestParseFaceCornerFormats(t *testing.T) {
	m, err := Parse("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1//4 2/7 3/1/2\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reflect.DeepEqual(m.Indices, []int{0, 1, 2}) {
		t.Fatalf("indices=%v; want [0 1 2]", m.Indices)
	}
}

func TestParseNegativeIndices(t *testing.T) {
	m, err := Parse("v 0 0 0\nv 1 0 0\nv 0 1 0\nf -3 -2 -1\nv 1 1 0\nf -4 -2 -1\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reflect.DeepEqual(m.Indices, []int{0, 1, 2, 0, 2, 3}) {
		t.Fatalf("indices=%v; want [0 1 2 0 2 3]", m.Indices)
	}
}

func TestParseHomogeneousVertex(t *testing.T) {
	m, err := Parse("v 1 2 3 1\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Vertices[0] != (mgl.Vec3{1, 2, 3}) {
		t.Fatalf("vertex=%v; want [1 2 3]", m.Vertices[0])
	}
}

func TestDecodeSkipsShortStatements(t *testing.T) {
	result, err := Decode(strings.NewReader("v 0 0 0\nv 1 0\nv 1 0 0\nv 0 1 0\nf 1 2\n\nf 1 2 3\n"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !reflect.DeepEqual(result.Skipped, []int{2, 5}) {
		t.Fatalf("skipped=%v; want [2 5]", result.Skipped)
	}
	if len(result.Mesh.Vertices) != 3 || !reflect.DeepEqual(result.Mesh.Indices, []int{0, 1, 2}) {
		t.Fatalf("mesh=%+v", result.Mesh)
	}
}

// The token count is checked before any number is parsed, so a short
// statement is skipped even when its tokens are not numbers.
func TestDecodeSkipsShortStatementsBeforeParsing(t *testing.T) {
	result, err := Decode(strings.NewReader("v 0 0 0\nv 1 abc\nv 1 0 0\nv 0 1 0\nf 1 x\nf 1 2 3\n"))
	if err != nil {
		t.Fatalf("Decode: %v; want the short statements skipped", err)
	}
	if !reflect.DeepEqual(result.Skipped, []int{2, 5}) {
		t.Fatalf("skipped=%v; want [2 5]", result.Skipped)
	}
	if result.Mesh.Triangles() != 1 {
		t.Fatalf("triangles=%d; want 1", result.Mesh.Triangles())
	}
}

func TestParseErrors(t *testing.T) {
	tcs := []struct {
		text    string
		line    int
		content string
		err     error
	}{
		{text: "v 0 0 0\nv 1.0 abc 2.0\n", line: 2, content: "v 1.0 abc 2.0"},
		{text: "v 0 0 0\nv 1 1 nan\n", line: 2, content: "v 1 1 nan", err: ErrNonFinite},
		{text: "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 x 3\n", line: 4, content: "f 1 x 3"},
		{text: "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", line: 4, content: "f 0 1 2", err: ErrZeroIndex},
		{text: "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 9\n", line: 4, content: "f 1 2 9", err: ErrIndexRange},
		{text: "v 0 0 0\nf -1 -2 -3\n", line: 2, content: "f -1 -2 -3", err: ErrIndexRange},
		{text: "v 0 0 0\nv 1 0 0\nv 0 1 0\nf /1 2 3\n", line: 4, content: "f /1 2 3"},
	}

	for _, tc := range tcs {
		m, err := Parse(tc.text)
		if m != nil {
			t.Fatalf("Parse(%q) returned a partial mesh %+v", tc.text, m)
		}
		var perr *ParseError
		if !errors.As(err, &perr) {
			t.Fatalf("Parse(%q) err=%v; want *ParseError", tc.text, err)
		}
		if perr.Line != tc.line || perr.Content != tc.content {
			t.Fatalf("Parse(%q) line=%d content=%q; want %d %q", tc.text, perr.Line, perr.Content, tc.line, tc.content)
		}
		if tc.err != nil && !errors.Is(err, tc.err) {
			t.Fatalf("Parse(%q) err=%v; want %v", tc.text, err, tc.err)
		}
	}
}

func TestParseForwardReference(t *testing.T) {
	m, err := Parse("f 1 2 3\nv 0 0 0\nv 1 0 0\nv 0 1 0\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !reflect.DeepEqual(m.Indices, []int{0, 1, 2}) {
		t.Fatalf("indices=%v; want [0 1 2]", m.Indices)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.obj")
	if err := os.WriteFile(path, []byte(cube_obj), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if m.Triangles() != 12 {
		t.Fatalf("triangles=%d; want 12", m.Triangles())
	}

	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.obj")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("ParseFile(missing) err=%v; want os.ErrNotExist", err)
	}
}
