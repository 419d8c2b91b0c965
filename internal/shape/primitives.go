package shape

import (
	"math/rand/v2"

	mgl "github.com/go-gl/mathgl/mgl32"
)

var (
	Black  = Color{0, 0, 0, 1}
	Red    = Color{1, 0, 0, 1}
	Green  = Color{0, 1, 0, 1}
	Blue   = Color{0, 0, 1, 1}
	Yellow = Color{1, 1, 0, 1}
	Purple = Color{1, 0, 1, 1}
)

// cube_corners lists two counter-clockwise triangles per face as signs of
// the half extent, in face order front, left, back, bottom, right, top.
var cube_corners = [36][3]float32{
	{1, 1, 1}, {-1, 1, 1}, {1, -1, 1},
	{-1, 1, 1}, {-1, -1, 1}, {1, -1, 1},

	{-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1},
	{-1, -1, -1}, {-1, 1, 1}, {-1, 1, -1},

	{1, 1, -1}, {-1, -1, -1}, {-1, 1, -1},
	{1, 1, -1}, {1, -1, -1}, {-1, -1, -1},

	{1, -1, 1}, {-1, -1, -1}, {1, -1, -1},
	{1, -1, 1}, {-1, -1, 1}, {-1, -1, -1},

	{1, 1, 1}, {1, -1, -1}, {1, 1, -1},
	{1, -1, -1}, {1, 1, 1}, {1, -1, 1},

	{1, 1, 1}, {1, 1, -1}, {-1, 1, -1},
	{1, 1, 1}, {-1, 1, -1}, {-1, 1, 1},
}

var cube_face_colors = [6]Color{Black, Red, Green, Blue, Yellow, Purple}

// Cube returns an axis aligned cube centred on the origin with one solid
// color per face. It carries no indices.
func Cube(half float32) *Shape {
	vertices := make([]mgl.Vec4, len(cube_corners))
	colors := make([]Color, len(cube_corners))
	for i, c := range cube_corners {
		vertices[i] = mgl.Vec4{c[0] * half, c[1] * half, c[2] * half, 1}
		colors[i] = cube_face_colors[i/6]
	}
	s, err := Build(vertices, colors, nil)
	if err != nil {
		panic(err)
	}
	return s
}

// CoordinateSystem returns the x (red), y (green) and z (blue) axes as unit
// length lines through the origin.
func CoordinateSystem() *Shape {
	vertices := []mgl.Vec4{
		{-0.5, 0, 0, 1}, {0.5, 0, 0, 1},
		{0, 0.5, 0, 1}, {0, -0.5, 0, 1},
		{0, 0, 0.5, 1}, {0, 0, -0.5, 1},
	}
	colors := []Color{Red, Red, Green, Green, Blue, Blue}
	s, err := BuildLines(vertices, colors, nil)
	if err != nil {
		panic(err)
	}
	return s
}

// RandomColors returns n opaque colors drawn from rng.
func RandomColors(n int, rng *rand.Rand) []Color {
	colors := make([]Color, n)
	for i := range colors {
		colors[i] = Color{rng.Float32(), rng.Float32(), rng.Float32(), 1}
	}
	return colors
}

// Solid returns n copies of c.
func Solid(n int, c Color) []Color {
	colors := make([]Color, n)
	for i := range colors {
		colors[i] = c
	}
	return colors
}
