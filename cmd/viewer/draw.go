package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/thedaneeffect/ebiten-obj-viewer/internal/raster"
	"github.com/thedaneeffect/ebiten-obj-viewer/internal/shape"
)

// max_batch_vertices keeps every batch addressable with uint16 indices.
const max_batch_vertices = 65535 / 3 * 3

type render_context struct {
	shader   *ebiten.Shader
	pipeline raster.Pipeline

	// statistics
	drawn_triangles int

	// the following are not required to be stored here,
	// they serve as buffers to reduce overall allocations.

	vertices []ebiten.Vertex
	indices  []uint16

	use_cpu bool
	cpu     *raster.Canvas
	buffer  *ebiten.Image
}

func (ctx *render_context) draw(clear_color shape.Color, target *ebiten.Image) {
	if ctx.use_cpu {
		ctx.draw_cpu(clear_color, target)
	} else {
		ctx.draw_gpu(clear_color, target)
	}
	ctx.drawn_triangles = len(ctx.pipeline.Triangles())
}

func (ctx *render_context) draw_cpu(clear_color shape.Color, target *ebiten.Image) {
	bounds := target.Bounds()
	if ctx.buffer == nil || ctx.buffer.Bounds() != bounds {
		if ctx.buffer != nil {
			ctx.buffer.Deallocate()
		}
		ctx.buffer = ebiten.NewImageWithOptions(bounds, &ebiten.NewImageOptions{
			Unmanaged: true,
		})
	}

	ctx.cpu.Resize(bounds.Dx(), bounds.Dy())
	ctx.cpu.Clear(clear_color)
	ctx.cpu.Fill(ctx.pipeline.Triangles())
	segments := ctx.pipeline.Segments()
	for i := range segments {
		ctx.cpu.Line(&segments[i])
	}

	ctx.buffer.WritePixels(ctx.cpu.Bytes())
	target.DrawImage(ctx.buffer, nil)
}

// draw_gpu has no depth buffer, so triangles are painted back to front.
func (ctx *render_context) draw_gpu(clear_color shape.Color, target *ebiten.Image) {
	target.Fill(to_rgba(clear_color))

	ctx.pipeline.SortBackToFront()

	ctx.vertices = ctx.vertices[:0]
	ctx.indices = ctx.indices[:0]
	for _, t := range ctx.pipeline.Triangles() {
		if len(ctx.vertices)+3 > max_batch_vertices {
			ctx.flush(target)
		}
		first_index := uint16(len(ctx.vertices))
		ctx.vertices = append(ctx.vertices, to_ebiten(t.V[0]), to_ebiten(t.V[1]), to_ebiten(t.V[2]))
		ctx.indices = append(ctx.indices, first_index, first_index+1, first_index+2)
	}
	ctx.flush(target)

	for _, s := range ctx.pipeline.Segments() {
		a, b := s.V[0], s.V[1]
		vector.StrokeLine(target, a.X, a.Y, b.X, b.Y, 1, to_rgba(vertex_color(a)), true)
	}
}

func (ctx *render_context) flush(target *ebiten.Image) {
	if len(ctx.vertices) == 0 {
		return
	}
	target.DrawTrianglesShader(ctx.vertices, ctx.indices, ctx.shader, &ebiten.DrawTrianglesShaderOptions{
		AntiAlias: false,
	})
	ctx.vertices = ctx.vertices[:0]
	ctx.indices = ctx.indices[:0]
}

// to_ebiten keeps the colors multiplied by 1/w; the shader divides by the
// interpolated 1/w in Custom3.
func to_ebiten(v raster.Vertex) ebiten.Vertex {
	return ebiten.Vertex{
		DstX:    v.X,
		DstY:    v.Y,
		ColorR:  v.R,
		ColorG:  v.G,
		ColorB:  v.B,
		ColorA:  v.A,
		Custom3: v.InvW,
	}
}

func vertex_color(v raster.Vertex) shape.Color {
	if v.InvW == 0 {
		return shape.Color{v.R, v.G, v.B, v.A}
	}
	return shape.Color{v.R, v.G, v.B, v.A}.Mul(1 / v.InvW)
}

func to_rgba(c shape.Color) color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.X()) * 255),
		G: uint8(clamp01(c.Y()) * 255),
		B: uint8(clamp01(c.Z()) * 255),
		A: uint8(clamp01(c.W()) * 255),
	}
}

func clamp01(f float) float {
	return min(1, max(0, f))
}
