// Package obj reads Wavefront OBJ text into an indexed triangle mesh.
//
// Only vertex positions (v) and faces (f) are read. Faces with more than
// three corners are fan triangulated around their first corner. Every other
// statement is ignored.
package obj

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	mgl "github.com/go-gl/mathgl/mgl64"

	"github.com/thedaneeffect/ebiten-obj-viewer/internal/geom"
)

var (
	ErrZeroIndex  = errors.New("vertex index 0 is not valid, indices start at 1")
	ErrIndexRange = errors.New("vertex index out of range")
	ErrNonFinite  = errors.New("coordinate is not finite")
)

// max_line_size bounds a single statement. Scanned meshes such as the
// Stanford bunny stay far below it.
const max_line_size = 1 << 20

// ParseError reports a recognized statement whose numeric data could not be
// read. Line is 1-based.
type ParseError struct {
	Line    int
	Content string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("obj: line %d %q: %v", e.Line, e.Content, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Result is the outcome of Decode. Skipped lists the 1-based line numbers of
// v and f statements that had too few or too many fields to be used.
type Result struct {
	Mesh    *geom.Indexed
	Skipped []int
}

// Parse reads OBJ text.
func Parse(text string) (*geom.Indexed, error) {
	return ParseReader(strings.NewReader(text))
}

// ParseFile reads the OBJ file at path.
func ParseFile(path string) (*geom.Indexed, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseReader(file)
}

// ParseReader reads OBJ text from r.
func ParseReader(r io.Reader) (*geom.Indexed, error) {
	result, err := Decode(r)
	if err != nil {
		return nil, err
	}
	return result.Mesh, nil
}

// forward_ref is a face corner that named a vertex not yet declared when the
// face was read. It is checked once the whole file has been seen.
type forward_ref struct {
	line    int
	content string
	index   int
}

// Decode reads OBJ text from r in a single pass. On error no mesh is
// returned.
func Decode(r io.Reader) (*Result, error) {
	mesh := &geom.Indexed{}
	result := &Result{Mesh: mesh}

	var (
		corners  []int
		forwards []forward_ref
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), max_line_size)

	line_number := 0
	for scanner.Scan() {
		line_number++
		line := scanner.Text()

		statement := line
		if i := strings.IndexByte(statement, '#'); i >= 0 {
			statement = statement[:i]
		}
		fields := strings.Fields(statement)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		default:
			// vn, vt, g, o, s, l, usemtl, mtllib, ...
		case "v":
			if len(fields) != 4 && len(fields) != 5 {
				result.Skipped = append(result.Skipped, line_number)
				continue
			}
			v, err := parse_vertex(fields[1:])
			if err != nil {
				return nil, &ParseError{Line: line_number, Content: line, Err: err}
			}
			mesh.Vertices = append(mesh.Vertices, v)
		case "f":
			if len(fields) < 4 {
				result.Skipped = append(result.Skipped, line_number)
				continue
			}
			corners = corners[:0]
			for _, field := range fields[1:] {
				index, err := parse_index(field, len(mesh.Vertices))
				if err != nil {
					return nil, &ParseError{Line: line_number, Content: line, Err: err}
				}
				if index >= len(mesh.Vertices) {
					forwards = append(forwards, forward_ref{line_number, line, index})
				}
				corners = append(corners, index)
			}
			for i := 1; i < len(corners)-1; i++ {
				mesh.Indices = append(mesh.Indices, corners[0], corners[i], corners[i+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("obj: read: %w", err)
	}

	for _, ref := range forwards {
		if ref.index >= len(mesh.Vertices) {
			return nil, &ParseError{
				Line:    ref.line,
				Content: ref.content,
				Err:     fmt.Errorf("%w: %d with %d vertices", ErrIndexRange, ref.index+1, len(mesh.Vertices)),
			}
		}
	}

	return result, nil
}

// parse_vertex reads x y z and an optional w. The weight is checked but not
// kept.
func parse_vertex(fields []string) (v mgl.Vec3, err error) {
	for i, field := range fields {
		f, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return v, fmt.Errorf("bad vertex: %w", err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return v, fmt.Errorf("bad vertex: %w: %s", ErrNonFinite, field)
		}
		if i < 3 {
			v[i] = f
		}
	}
	return v, nil
}

// parse_index reads the position part of a face corner (v, v/t, v//n or
// v/t/n) and returns it 0-based. Negative indices count back from the most
// recently declared vertex.
func parse_index(field string, declared int) (int, error) {
	position, _, _ := strings.Cut(field, "/")
	index, err := strconv.Atoi(position)
	if err != nil {
		return 0, fmt.Errorf("bad face: %w", err)
	}
	switch {
	case index == 0:
		return 0, ErrZeroIndex
	case index < 0:
		if -index > declared {
			return 0, fmt.Errorf("%w: %d with %d vertices", ErrIndexRange, index, declared)
		}
		return declared + index, nil
	}
	return index - 1, nil
}
