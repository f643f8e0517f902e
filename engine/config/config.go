// Package config holds the application configuration, loadable from TOML
// or YAML.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chewxy/math32"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/spaghettifunk/tessera/engine/core"
	"github.com/spaghettifunk/tessera/engine/geometry"
)

// KnownShaders are the selectable shader variants.
var KnownShaders = []string{"Lambert", "Perlin Noise", "Transform"}

type Config struct {
	Application ApplicationConfig `toml:"application" yaml:"application"`
	Log         LogConfig         `toml:"log" yaml:"log"`
	Renderer    RendererConfig    `toml:"renderer" yaml:"renderer"`
	Camera      CameraConfig      `toml:"camera" yaml:"camera"`
	Controls    ControlsConfig    `toml:"controls" yaml:"controls"`
	Assets      AssetsConfig      `toml:"assets" yaml:"assets"`
}

type ApplicationConfig struct {
	// The application name used in windowing, if applicable.
	Name string `toml:"name" yaml:"name"`
	// Window starting position, if applicable.
	StartPosX int `toml:"x" yaml:"x"`
	StartPosY int `toml:"y" yaml:"y"`
	// Window starting size, if applicable.
	StartWidth  int  `toml:"width" yaml:"width"`
	StartHeight int  `toml:"height" yaml:"height"`
	VSync       bool `toml:"vsync" yaml:"vsync"`
}

type LogConfig struct {
	Level core.LogLevel `toml:"level" yaml:"level"`
}

type RendererConfig struct {
	ClearColor [4]float32 `toml:"clear_color" yaml:"clear_color"`
}

type CameraConfig struct {
	Position [3]float32 `toml:"position" yaml:"position"`
	Target   [3]float32 `toml:"target" yaml:"target"`
	FovY     float32    `toml:"fovy" yaml:"fovy"`
	Near     float32    `toml:"near" yaml:"near"`
	Far      float32    `toml:"far" yaml:"far"`
}

type ControlsConfig struct {
	Tessellation int    `toml:"tessellation" yaml:"tessellation"`
	Color        [3]int `toml:"color" yaml:"color"`
	Shader       string `toml:"shader" yaml:"shader"`
}

type AssetsConfig struct {
	// ShaderDir overrides the embedded shaders when set.
	ShaderDir string `toml:"shader_dir" yaml:"shader_dir"`
	// Watch reloads shaders from ShaderDir when they change on disk.
	Watch bool `toml:"watch" yaml:"watch"`
}

func Default() *Config {
	return &Config{
		Application: ApplicationConfig{
			Name:        "Tessera",
			StartPosX:   100,
			StartPosY:   100,
			StartWidth:  1280,
			StartHeight: 720,
			VSync:       true,
		},
		Log: LogConfig{Level: core.InfoLevel},
		Renderer: RendererConfig{
			ClearColor: [4]float32{0.2, 0.2, 0.2, 1},
		},
		Camera: CameraConfig{
			Position: [3]float32{0, 0, 5},
			Target:   [3]float32{0, 0, 0},
			FovY:     45,
			Near:     0.1,
			Far:      1000,
		},
		Controls: ControlsConfig{
			Tessellation: 5,
			Color:        [3]int{0, 128, 255},
			Shader:       "Lambert",
		},
		Assets: AssetsConfig{
			Watch: true,
		},
	}
}

// Load reads path on top of the defaults. The format follows the file
// extension: .toml, .yaml or .yml.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("%w: config %s: %s", core.ErrInvalidParameter, path, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("%w: config %s: %s", core.ErrInvalidParameter, path, err)
		}
	default:
		return nil, core.InvalidParameter("config %s: unsupported format %q", path, filepath.Ext(path))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Application.StartWidth <= 0 || c.Application.StartHeight <= 0 {
		return core.InvalidParameter("window size %dx%d", c.Application.StartWidth, c.Application.StartHeight)
	}
	if c.Log.Level != "" && !core.ValidLogLevel(c.Log.Level) {
		return core.InvalidParameter("log level %q", c.Log.Level)
	}
	if c.Controls.Tessellation < 0 || c.Controls.Tessellation > geometry.MaxSubdivisions {
		return core.InvalidParameter("tessellation %d outside [0, %d]", c.Controls.Tessellation, geometry.MaxSubdivisions)
	}
	for i, ch := range c.Controls.Color {
		if ch < 0 || ch > 255 {
			return core.InvalidParameter("color channel %d = %d outside [0, 255]", i, ch)
		}
	}
	if !knownShader(c.Controls.Shader) {
		return core.InvalidParameter("unknown shader %q", c.Controls.Shader)
	}
	cam := c.Camera
	if !(cam.Near > 0) || !(cam.Far > cam.Near) || math32.IsInf(cam.Far, 0) {
		return core.InvalidParameter("camera planes near=%v far=%v", cam.Near, cam.Far)
	}
	if !(cam.FovY > 0 && cam.FovY < 180) {
		return core.InvalidParameter("camera fovy %v", cam.FovY)
	}
	if cam.Position == cam.Target {
		return core.InvalidParameter("camera position equals target")
	}
	return nil
}

func knownShader(name string) bool {
	for _, s := range KnownShaders {
		if s == name {
			return true
		}
	}
	return false
}
