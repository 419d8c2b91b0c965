package main

import (
	"fmt"
	"image"
	"log"
	"math"
	"runtime"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/thedaneeffect/ebiten-obj-viewer/internal/scene"
	"github.com/thedaneeffect/ebiten-obj-viewer/internal/snapshot"
)

type game struct {
	context    *render_context
	scene      *scene.Scene
	frametime  time.Duration
	move_speed float

	drag_x   int
	drag_y   int
	dragging bool

	take_shot bool
}

func (g *game) Layout(outerWidth, outerHeight int) (int, int) {
	return outerWidth, outerHeight
}

// keys that move the camera, as view space translations per unit of speed
var move_keys = []struct {
	keys []ebiten.Key
	dir  vec3
}{
	{[]ebiten.Key{ebiten.KeyW, ebiten.KeyUp}, vec3{0, 0, 1}},
	{[]ebiten.Key{ebiten.KeyS, ebiten.KeyDown}, vec3{0, 0, -1}},
	{[]ebiten.Key{ebiten.KeyA, ebiten.KeyLeft}, vec3{1, 0, 0}},
	{[]ebiten.Key{ebiten.KeyD, ebiten.KeyRight}, vec3{-1, 0, 0}},
	{[]ebiten.Key{ebiten.KeyQ}, vec3{0, 1, 0}},
	{[]ebiten.Key{ebiten.KeyE}, vec3{0, -1, 0}},
}

func (g *game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.context.use_cpu = !g.context.use_cpu
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.take_shot = true
	}

	if _, yoff := ebiten.Wheel(); yoff != 0 {
		g.move_speed += float(yoff) / 100.0
	}

	if g.move_speed < 0.005 {
		g.move_speed = 0.005
	}

	camera := g.scene.Camera

	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		cx, cy := ebiten.CursorPosition()

		// doing the logic in the next update ensures we don't get some crazy snapping
		if !g.dragging {
			g.dragging = true
		} else {
			dx := float(cx-g.drag_x) / 100.0
			dy := float(cy-g.drag_y) / 100.0
			camera.Orbit(dy, dx)
		}

		g.drag_x = cx
		g.drag_y = cy
	} else {
		g.dragging = false
	}

	for _, m := range move_keys {
		for _, k := range m.keys {
			if ebiten.IsKeyPressed(k) {
				camera.Translate(m.dir.Mul(g.move_speed))
				break
			}
		}
	}

	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	defer func(t time.Time) {
		ft := time.Now().Sub(t)
		if g.frametime == 0 {
			g.frametime = ft
		} else {
			g.frametime += (ft - g.frametime) / 2
		}
	}(time.Now())

	ctx := g.context

	w := screen.Bounds().Dx()
	h := screen.Bounds().Dy()

	ctx.pipeline.SetViewport(w, h)
	g.scene.Projection.Aspect = float(w) / float(h)

	ctx.pipeline.Reset()
	g.scene.Push(&ctx.pipeline)
	ctx.draw(g.scene.Clear, screen)

	if g.take_shot {
		g.take_shot = false
		g.save_shot(screen)
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	pitch, yaw := g.scene.Camera.Angles()

	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("TPS: %.0f", ebiten.ActualTPS()), 0, 0)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.0f CPU: %v", ebiten.ActualFPS(), ctx.use_cpu), 0, 14)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Ft: %v", g.frametime), 0, 28)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Mem: %dkB", mem.Alloc/1024), 0, 42)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Triangles: %d/%d", ctx.drawn_triangles, g.scene.Triangles()), 0, 56)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Pitch: %.1f Yaw: %.1f", pitch*180/math.Pi, yaw*180/math.Pi), 0, 70)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Speed: %.3f", g.move_speed), 0, 84)
}

func (g *game) save_shot(screen *ebiten.Image) {
	img := image.NewRGBA(screen.Bounds())
	screen.ReadPixels(img.Pix)

	path, err := snapshot.Save(*shots_dir, img, *shot_width, time.Now())
	if err != nil {
		log.Printf("screenshot: %v", err)
		return
	}
	log.Printf("screenshot saved to %s", path)
}
