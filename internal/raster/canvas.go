package raster

import (
	"unsafe"

	"github.com/thedaneeffect/ebiten-obj-viewer/internal/shape"
)

// Canvas is the software rasterizer target. Pixels are packed 0xAABBGGRR so
// that Bytes reads as RGBA on little endian machines. Depth holds the
// interpolated 1/w of the closest fragment; zero is infinitely far.
type Canvas struct {
	Width  int
	Height int
	Pixels []uint32
	Depth  []float32

	pixels_raw  []byte
	left, right int
	top, bottom int
}

func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

// Resize reallocates the buffers when the size changed.
func (c *Canvas) Resize(width, height int) {
	size := width * height
	if c.Pixels == nil || len(c.Pixels) != size {
		c.Pixels = make([]uint32, size)
		c.Depth = make([]float32, size)
		c.pixels_raw = nil
		if size > 0 {
			c.pixels_raw = unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(c.Pixels))), len(c.Pixels)*4)
		}
	}
	c.Width = width
	c.Height = height
	c.left = 0
	c.right = width - 1
	c.top = 0
	c.bottom = height - 1
}

// Bytes views the pixels as RGBA bytes without copying.
func (c *Canvas) Bytes() []byte {
	return c.pixels_raw
}

func (c *Canvas) Clear(color shape.Color) {
	abgr := pack(color.X(), color.Y(), color.Z(), color.W())
	for i := range c.Pixels {
		c.Pixels[i] = abgr
	}
	clear(c.Depth)
}

// At returns the packed pixel at x, y.
func (c *Canvas) At(x, y int) uint32 {
	return c.Pixels[x+y*c.Width]
}

func (c *Canvas) Fill(triangles []Triangle) {
	for i := range triangles {
		c.fill_triangle(&triangles[i])
	}
}

func clamp01(f float) float {
	return min(1, max(0, f))
}

func pack(r, g, b, a float) uint32 {
	return to_byte(a)<<24 | to_byte(b)<<16 | to_byte(g)<<8 | to_byte(r)
}

func to_byte(f float) uint32 {
	return uint32(clamp01(f)*255 + 0.5)
}

// edge_point carries a corner's barycentric weights while walking edges.
type edge_point struct {
	x, y int
	w    vec3
}

// edge walks from a to b one scanline at a time. x is 16.16 fixed point.
type edge struct {
	x      int
	x_step int
	w      vec3
	w_step vec3
}

func new_edge(a, b edge_point) edge {
	e := edge{x: a.x << 16, w: a.w}
	if d := b.y - a.y; d != 0 {
		e.x_step = ((b.x - a.x) << 16) / d
		e.w_step = b.w.Sub(a.w).Mul(1 / float(d))
	}
	return e
}

func (e *edge) advance() {
	e.x += e.x_step
	e.w = e.w.Add(e.w_step)
}

func (c *Canvas) fill_triangle(t *Triangle) {
	p0 := edge_point{int(t.V[0].X), int(t.V[0].Y), vec3{1, 0, 0}}
	p1 := edge_point{int(t.V[1].X), int(t.V[1].Y), vec3{0, 1, 0}}
	p2 := edge_point{int(t.V[2].X), int(t.V[2].Y), vec3{0, 0, 1}}

	if p0.y > p2.y {
		p0, p2 = p2, p0
	}
	if p0.y > p1.y {
		p0, p1 = p1, p0
	}
	if p1.y > p2.y {
		p1, p2 = p2, p1
	}

	if p0.y > c.bottom || p2.y < c.top {
		return
	}

	long := new_edge(p0, p2)
	upper := new_edge(p0, p1)
	lower := new_edge(p1, p2)

	for y := p0.y; y < p1.y; y++ {
		c.scanline(y, &upper, &long, t)
	}
	for y := p1.y; y < p2.y; y++ {
		c.scanline(y, &lower, &long, t)
	}
}

func (c *Canvas) scanline(y int, short, long *edge, t *Triangle) {
	if y >= c.top && y <= c.bottom {
		c.draw_scanline(y, short.x>>16, long.x>>16, short.w, long.w, t)
	}
	short.advance()
	long.advance()
}

func (c *Canvas) draw_scanline(y, x0, x1 int, w0, w1 vec3, t *Triangle) {
	if x0 == x1 {
		return
	}

	if x0 > x1 {
		x0, x1 = x1, x0
		w0, w1 = w1, w0
	}

	step := w1.Sub(w0).Mul(1 / float(x1-x0))

	if trim := c.left - x0; trim > 0 {
		w0 = w0.Add(step.Mul(float(trim)))
		x0 = c.left
	}

	if x1 > c.right+1 {
		x1 = c.right + 1
	}

	a, b, v := &t.V[0], &t.V[1], &t.V[2]
	offset := y*c.Width + x0

	for x := x0; x < x1; x++ {
		depth := w0[0]*a.InvW + w0[1]*b.InvW + w0[2]*v.InvW

		if c.Depth[offset] < depth {
			inv_depth := 1.0 / depth

			r := (w0[0]*a.R + w0[1]*b.R + w0[2]*v.R) * inv_depth
			g := (w0[0]*a.G + w0[1]*b.G + w0[2]*v.G) * inv_depth
			bl := (w0[0]*a.B + w0[1]*b.B + w0[2]*v.B) * inv_depth

			c.Pixels[offset] = pack(r, g, bl, 1)
			c.Depth[offset] = depth
		}
		w0 = w0.Add(step)
		offset++
	}
}

// Line draws a depth tested segment one pixel wide.
func (c *Canvas) Line(s *Segment) {
	a, b := &s.V[0], &s.V[1]
	dx := b.X - a.X
	dy := b.Y - a.Y
	steps := int(max(abs(dx), abs(dy)))
	if steps == 0 {
		steps = 1
	}

	for i := 0; i <= steps; i++ {
		f := float(i) / float(steps)
		x := int(a.X + dx*f)
		y := int(a.Y + dy*f)
		if x < c.left || x > c.right || y < c.top || y > c.bottom {
			continue
		}
		depth := a.InvW + (b.InvW-a.InvW)*f
		offset := x + y*c.Width
		if c.Depth[offset] > depth {
			continue
		}
		inv_depth := 1.0 / depth
		c.Pixels[offset] = pack(
			(a.R+(b.R-a.R)*f)*inv_depth,
			(a.G+(b.G-a.G)*f)*inv_depth,
			(a.B+(b.B-a.B)*f)*inv_depth,
			1,
		)
		c.Depth[offset] = depth
	}
}

func abs(f float) float {
	if f < 0 {
		return -f
	}
	return f
}
