package main

import (
	"context"
	"embed"
	"flag"
	"io/fs"
	"log"
	"os"
	"runtime"
	"runtime/pprof"

	"net/http"
	_ "net/http/pprof"

	mgl "github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/thedaneeffect/ebiten-obj-viewer/internal/raster"
	"github.com/thedaneeffect/ebiten-obj-viewer/internal/scene"
)

const (
	game_width  = 1024
	game_height = 768
	game_aspect = float(game_width) / float(game_height)
)

type (
	float = float32
	vec3  = mgl.Vec3
)

var shader = `
//kage:unit pixels
package main

func Fragment(dst vec4, src vec2, rgba vec4, custom vec4) vec4 {
	// perspective divide
	if custom.w != 0.0 {
		rgba /= custom.w
	}
	return rgba
}
`

var (
	scene_file  = flag.String("scene", "", "scene description `file` (YAML); the built-in scene when empty")
	assets_dir  = flag.String("assets", "", "`directory` model paths are relative to; the embedded samples when empty")
	cpu_profile = flag.String("cpuprofile", "", "write cpu profile to `file`")
	mem_profile = flag.String("memprofile", "", "write memory profile to `file`")
	pprof_addr  = flag.String("pprof", "", "serve net/http/pprof on `addr`, e.g. localhost:6060")
	use_cpu     = flag.Bool("cpu", false, "start with the software rasterizer")
	shots_dir   = flag.String("shots", "screenshots", "`directory` for screenshots taken with P")
	shot_width  = flag.Uint("shot-width", 0, "screenshot width in pixels, 0 keeps the window size")
)

//go:embed assets/*.obj
var assets embed.FS

func main() {
	flag.Parse()
	log.SetPrefix("viewer: ")

	if *cpu_profile != "" {
		f, err := os.Create(*cpu_profile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
	}

	if *mem_profile != "" {
		defer func() {
			f, err := os.Create(*mem_profile)
			if err != nil {
				log.Fatal("could not create memory profile:", err)
			}
			defer f.Close()
			runtime.GC() // get up-to-date statistics
			if err := pprof.WriteHeapProfile(f); err != nil {
				log.Fatal("could not write memory profile:", err)
			}
		}()
	}

	if *pprof_addr != "" {
		go func() {
			log.Println(http.ListenAndServe(*pprof_addr, nil))
		}()
	}

	cfg, err := load_config(*scene_file)
	if err != nil {
		log.Fatal(err)
	}

	files, err := asset_files(*assets_dir)
	if err != nil {
		log.Fatal(err)
	}

	loader := &scene.Loader{
		Files:  scene.FSFetcher{FS: files},
		Remote: scene.HTTPFetcher{},
		Aspect: game_aspect,
	}
	world, errs := loader.Load(context.Background(), cfg)
	if len(errs) > 0 {
		log.Printf("%d of %d models failed to load", len(errs), len(cfg.Models))
	}

	shader, err := ebiten.NewShader([]byte(shader))
	if err != nil {
		log.Fatal(err)
	}

	game := &game{
		scene:      world,
		move_speed: 0.02,
		context: &render_context{
			shader:  shader,
			use_cpu: *use_cpu,
			cpu:     raster.NewCanvas(game_width, game_height),
		},
	}

	ebiten.SetWindowTitle("obj viewer")
	ebiten.SetWindowSize(game_width, game_height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(true)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

func load_config(path string) (*scene.Config, error) {
	if path == "" {
		return scene.DefaultConfig(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return scene.Decode(f)
}

func asset_files(dir string) (fs.FS, error) {
	if dir != "" {
		return os.DirFS(dir), nil
	}
	return fs.Sub(assets, "assets")
}
