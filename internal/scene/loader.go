package scene

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"math/rand/v2"

	mgl "github.com/go-gl/mathgl/mgl32"

	"github.com/thedaneeffect/ebiten-obj-viewer/internal/camera"
	"github.com/thedaneeffect/ebiten-obj-viewer/internal/geom"
	"github.com/thedaneeffect/ebiten-obj-viewer/internal/glb"
	"github.com/thedaneeffect/ebiten-obj-viewer/internal/obj"
	"github.com/thedaneeffect/ebiten-obj-viewer/internal/shape"
)

// ModelError is a model that could not be added to the scene. Err is the
// fetch error, an *obj.ParseError, a glb error or a shape build error.
type ModelError struct {
	Index int
	Path  string
	Err   error
}

func (e *ModelError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("scene: model %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("scene: model %d (%s): %v", e.Index, e.Path, e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// Loader builds scenes. Files serves relative paths, Remote serves http(s)
// URLs. A nil Logger logs to log.Default.
type Loader struct {
	Files  Fetcher
	Remote Fetcher
	Logger *log.Logger

	// Aspect is the width over height of the target.
	Aspect float32
}

func (l *Loader) logf(format string, args ...any) {
	logger := l.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf(format, args...)
}

// Load builds a scene from cfg. Each model is fetched, parsed and built in
// turn; a model that fails at any step is left out and its error returned,
// the others are still loaded. The returned scene is never nil.
func (l *Loader) Load(ctx context.Context, cfg *Config) (*Scene, []error) {
	aspect := l.Aspect
	if aspect == 0 {
		aspect = 1
	}

	s := &Scene{
		Camera: camera.LookAt(
			vec3_or(cfg.Camera.Eye, mgl.Vec3{0, 0, 3}),
			vec3_or(cfg.Camera.Center, mgl.Vec3{}),
			vec3_or(cfg.Camera.Up, mgl.Vec3{0, 1, 0}),
		),
		Projection: camera.Projection{
			FovY:   cfg.Projection.FovY,
			Aspect: aspect,
			Near:   cfg.Projection.Near,
			Far:    cfg.Projection.Far,
		},
		Clear: shape.Color{0, 0, 0, 1},
		Cull:  cfg.Cull,
	}
	if len(cfg.Clear) == 4 {
		s.Clear = shape.Color{cfg.Clear[0], cfg.Clear[1], cfg.Clear[2], cfg.Clear[3]}
	}

	var errs []error
	for i, m := range cfg.Models {
		sh, err := l.build(ctx, m)
		if err != nil {
			err = &ModelError{Index: i, Path: m.Path, Err: err}
			l.logf("skipping model: %v", err)
			errs = append(errs, err)
			continue
		}

		sh.Translate(vec3_or(m.Position, mgl.Vec3{}))
		sh.Scale(vec3_or(m.Scale, mgl.Vec3{1, 1, 1}))

		if sh.Kind == shape.Lines {
			s.Lines = append(s.Lines, sh)
		} else {
			s.Shapes = append(s.Shapes, sh)
		}
	}

	if cfg.AxesScale > 0 {
		axes := shape.CoordinateSystem()
		axes.Scale(mgl.Vec3{cfg.AxesScale, cfg.AxesScale, cfg.AxesScale})
		s.Lines = append(s.Lines, axes)
	}

	return s, errs
}

func (l *Loader) build(ctx context.Context, m ModelConfig) (*shape.Shape, error) {
	switch m.Kind {
	case KindCube:
		return shape.Cube(m.Size), nil
	case KindAxes:
		return shape.CoordinateSystem(), nil
	}

	data, err := l.fetch(ctx, m.Path)
	if err != nil {
		return nil, err
	}

	var mesh *geom.Indexed
	switch m.Kind {
	case KindOBJ:
		result, err := obj.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		if len(result.Skipped) > 0 {
			l.logf("%s: skipped %d malformed statements on lines %v", m.Path, len(result.Skipped), result.Skipped)
		}
		mesh = result.Mesh
	case KindGLTF:
		mesh, err = glb.Read(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown model kind %q: %w", m.Kind, ErrConfig)
	}

	mesh = geom.Simplify(mesh, m.Simplify)
	if m.Fit > 0 {
		mesh = mesh.Normalize(m.Fit)
	}

	rng := rand.New(rand.NewPCG(m.Seed, m.Seed^0x9e3779b97f4a7c15))
	return shape.FromIndexed(mesh, shape.RandomColors(len(mesh.Vertices), rng))
}

func (l *Loader) fetch(ctx context.Context, location string) ([]byte, error) {
	fetcher := l.Files
	if is_remote(location) {
		fetcher = l.Remote
		if fetcher == nil {
			fetcher = HTTPFetcher{}
		}
	}
	if fetcher == nil {
		return nil, fmt.Errorf("no fetcher for %q", location)
	}
	return fetcher.Fetch(ctx, location)
}
