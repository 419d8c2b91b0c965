package raster

import (
	mgl "github.com/go-gl/mathgl/mgl32"
)

type (
	float = float32
	vec3  = mgl.Vec3
	vec4  = mgl.Vec4
	mat4  = mgl.Mat4
)

// clip_vertex is a vertex in clip space with the attributes that get
// interpolated across a clipped edge.
type clip_vertex struct {
	pos  vec4
	rgba vec4
}

func lerp_vertex(a, b clip_vertex, t float) clip_vertex {
	return clip_vertex{
		pos:  a.pos.Add(b.pos.Sub(a.pos).Mul(t)),
		rgba: a.rgba.Add(b.rgba.Sub(a.rgba).Mul(t)),
	}
}

type plane struct {
	origin vec4
	normal vec4
}

// test determines if `v` is in front of the plane.
func (p plane) test(v vec4) bool {
	return v.Sub(p.origin).Dot(p.normal) > 0
}

// intersection returns how far along a->b the segment meets the plane.
func (p plane) intersection(a, b vec4) float {
	u := b.Sub(a)
	w := a.Sub(p.origin)
	d := p.normal.Dot(u)
	n := -p.normal.Dot(w)
	return n / d
}

var clip_planes = [...]plane{
	{origin: vec4{1, 0, 0, 1}, normal: vec4{-1, 0, 0, 1}}, // right
	{origin: vec4{-1, 0, 0, 1}, normal: vec4{1, 0, 0, 1}}, // left
	{origin: vec4{0, 1, 0, 1}, normal: vec4{0, -1, 0, 1}}, // bottom
	{origin: vec4{0, -1, 0, 1}, normal: vec4{0, 1, 0, 1}}, // top
	{origin: vec4{0, 0, 1, 1}, normal: vec4{0, 0, -1, 1}}, // front
	{origin: vec4{0, 0, -1, 1}, normal: vec4{0, 0, 1, 1}}, // back
}

func out_of_bounds(a vec4) bool {
	x, y, z, w := a.X(), a.Y(), a.Z(), a.W()
	return x < -w || x > w || y < -w || y > w || z < -w || z > w
}

// clipper owns the scratch polygons used while clipping so that a pipeline
// never shares buffers with another.
type clipper struct {
	scratch1 []clip_vertex
	scratch2 []clip_vertex
}

// https://en.wikipedia.org/wiki/Sutherland-Hodgman_algorithm
// The returned polygon aliases the clipper's scratch space and is valid
// until the next call.
func (c *clipper) sutherland_hodgman(p1, p2, p3 clip_vertex) []clip_vertex {
	output := append(c.scratch2[:0], p1, p2, p3)
	for _, plane := range clip_planes {
		c.scratch1 = append(c.scratch1[:0], output...) // copy output polygon to our input
		input := c.scratch1
		output = c.scratch2[:0] // clear our output polygon
		if len(input) == 0 {
			return nil
		}
		prev_point := input[len(input)-1]
		for _, point := range input {
			if plane.test(point.pos) {
				if !plane.test(prev_point.pos) {
					output = append(output, lerp_vertex(prev_point, point, plane.intersection(prev_point.pos, point.pos)))
				}
				output = append(output, point)
			} else if plane.test(prev_point.pos) {
				output = append(output, lerp_vertex(prev_point, point, plane.intersection(prev_point.pos, point.pos)))
			}
			prev_point = point
		}
		c.scratch2 = output
	}
	return output
}

// clip_segment trims a->b to the clip volume. ok is false when nothing of
// the segment is visible.
func clip_segment(a, b clip_vertex) (clip_vertex, clip_vertex, bool) {
	for _, plane := range clip_planes {
		in_a := plane.test(a.pos)
		in_b := plane.test(b.pos)
		switch {
		case !in_a && !in_b:
			return a, b, false
		case !in_a:
			a = lerp_vertex(a, b, plane.intersection(a.pos, b.pos))
		case !in_b:
			b = lerp_vertex(a, b, plane.intersection(a.pos, b.pos))
		}
	}
	return a, b, true
}
