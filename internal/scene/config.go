package scene

import (
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	mgl "github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

var ErrConfig = errors.New("invalid scene config")

const default_axes_scale = 20

type Kind string

const (
	KindOBJ  Kind = "obj"
	KindGLTF Kind = "gltf"
	KindCube Kind = "cube"
	KindAxes Kind = "axes"
)

// Config is the scene description file. AxesScale is 20 when the key is
// absent; zero or a negative value leaves the global axes out.
type Config struct {
	Clear      []float32        `yaml:"clear,omitempty"`
	AxesScale  float32          `yaml:"axes_scale"`
	Cull       bool             `yaml:"cull,omitempty"`
	Camera     CameraConfig     `yaml:"camera"`
	Projection ProjectionConfig `yaml:"projection"`
	Models     []ModelConfig    `yaml:"models"`
}

type CameraConfig struct {
	Eye    []float32 `yaml:"eye"`
	Center []float32 `yaml:"center"`
	Up     []float32 `yaml:"up"`
}

// ProjectionConfig holds the perspective lens. FovY is in degrees; the
// aspect ratio comes from the window.
type ProjectionConfig struct {
	FovY float32 `yaml:"fovy"`
	Near float32 `yaml:"near"`
	Far  float32 `yaml:"far"`
}

// ModelConfig places one shape.
//
// Path is a file path relative to the asset root or an http(s) URL. Kind is
// inferred from the path's extension when empty. Fit, when positive, scales
// a loaded mesh so that its largest extent equals Fit. Simplify in (0, 1)
// decimates loaded meshes to that fraction of their triangles. Seed picks
// the random vertex colors of loaded meshes. Size is the half extent of a
// cube.
type ModelConfig struct {
	Name     string    `yaml:"name,omitempty"`
	Kind     Kind      `yaml:"kind,omitempty"`
	Path     string    `yaml:"path,omitempty"`
	Position []float32 `yaml:"position,omitempty"`
	Scale    []float32 `yaml:"scale,omitempty"`
	Fit      float64   `yaml:"fit,omitempty"`
	Simplify float64   `yaml:"simplify,omitempty"`
	Seed     uint64    `yaml:"seed,omitempty"`
	Size     float32   `yaml:"size,omitempty"`
}

// grid is the 3x3 layout of the default scene.
var grid = [9][]float32{
	{-0.95, 0.7, 0}, {0, 0.7, 0}, {0.95, 0.7, 0},
	{-0.95, 0, 0}, {0, 0, 0}, {0.95, 0, 0},
	{-0.95, -0.7, 0}, {0, -0.7, 0}, {0.95, -0.7, 0},
}

// DefaultConfig lays out three loaded models on the diagonal of a 3x3 grid
// with colored cubes in the remaining cells.
func DefaultConfig() *Config {
	cfg := &Config{
		Clear:     []float32{0.729, 0.764, 0.674, 1},
		AxesScale: default_axes_scale,
		Camera: CameraConfig{
			Eye:    []float32{0, 0, 3},
			Center: []float32{0, 0, 0},
			Up:     []float32{0, 1, 0},
		},
		Projection: ProjectionConfig{FovY: 45, Near: 0.1, Far: 100},
	}
	loaded := map[int]string{0: "box.obj", 4: "tetrahedron.obj", 8: "octahedron.obj"}
	for i, position := range grid {
		m := ModelConfig{Kind: KindCube, Position: position, Size: 0.2}
		if p, ok := loaded[i]; ok {
			m = ModelConfig{Kind: KindOBJ, Path: p, Position: position, Fit: 0.4, Seed: uint64(i + 1)}
		}
		cfg.Models = append(cfg.Models, m)
	}
	return cfg
}

// Decode reads a YAML scene description. Unknown keys are rejected.
func Decode(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	// keys missing from the document keep these values
	cfg := &Config{AxesScale: default_axes_scale}
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("scene: decode: %w", err)
	}
	cfg.defaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) defaults() {
	def := DefaultConfig()
	if c.Clear == nil {
		c.Clear = def.Clear
	}
	if c.Camera.Eye == nil {
		c.Camera.Eye = def.Camera.Eye
	}
	if c.Camera.Center == nil {
		c.Camera.Center = def.Camera.Center
	}
	if c.Camera.Up == nil {
		c.Camera.Up = def.Camera.Up
	}
	if c.Projection.FovY == 0 {
		c.Projection.FovY = def.Projection.FovY
	}
	if c.Projection.Near == 0 {
		c.Projection.Near = def.Projection.Near
	}
	if c.Projection.Far == 0 {
		c.Projection.Far = def.Projection.Far
	}
	for i := range c.Models {
		m := &c.Models[i]
		if m.Kind == "" {
			m.Kind = kind_of(m.Path)
		}
		if m.Kind == KindCube && m.Size == 0 {
			m.Size = 0.2
		}
	}
}

func kind_of(p string) Kind {
	if i := strings.IndexAny(p, "?#"); i >= 0 && is_remote(p) {
		p = p[:i]
	}
	switch strings.ToLower(path.Ext(p)) {
	case ".glb", ".gltf":
		return KindGLTF
	case ".obj":
		return KindOBJ
	}
	return ""
}

// Validate checks vector lengths, the lens and every model entry.
func (c *Config) Validate() error {
	check := func(name string, v []float32, n int) error {
		if v != nil && len(v) != n {
			return fmt.Errorf("scene: %s has %d components, want %d: %w", name, len(v), n, ErrConfig)
		}
		return nil
	}

	errs := []error{
		check("clear", c.Clear, 4),
		check("camera.eye", c.Camera.Eye, 3),
		check("camera.center", c.Camera.Center, 3),
		check("camera.up", c.Camera.Up, 3),
	}
	if c.Projection.Near <= 0 || c.Projection.Far <= c.Projection.Near {
		errs = append(errs, fmt.Errorf("scene: projection near %v far %v: %w", c.Projection.Near, c.Projection.Far, ErrConfig))
	}
	if c.Projection.FovY <= 0 || c.Projection.FovY >= 180 {
		errs = append(errs, fmt.Errorf("scene: projection fovy %v: %w", c.Projection.FovY, ErrConfig))
	}

	for i, m := range c.Models {
		name := fmt.Sprintf("models[%d]", i)
		errs = append(errs,
			check(name+".position", m.Position, 3),
			check(name+".scale", m.Scale, 3),
		)
		switch m.Kind {
		case KindOBJ, KindGLTF:
			if m.Path == "" {
				errs = append(errs, fmt.Errorf("scene: %s: %s model without a path: %w", name, m.Kind, ErrConfig))
			}
		case KindCube, KindAxes:
		default:
			errs = append(errs, fmt.Errorf("scene: %s: unknown kind %q: %w", name, m.Kind, ErrConfig))
		}
		if m.Simplify < 0 || m.Simplify > 1 {
			errs = append(errs, fmt.Errorf("scene: %s: simplify %v outside [0, 1]: %w", name, m.Simplify, ErrConfig))
		}
	}
	return errors.Join(errs...)
}

func vec3_or(v []float32, def mgl.Vec3) mgl.Vec3 {
	if len(v) != 3 {
		return def
	}
	return mgl.Vec3{v[0], v[1], v[2]}
}
