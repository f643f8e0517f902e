package testbed

import (
	"github.com/spaghettifunk/tessera/engine/config"
	"github.com/spaghettifunk/tessera/engine/geometry"
	"github.com/spaghettifunk/tessera/engine/math"
)

// ColorStep is how much one key press moves a color channel.
const ColorStep = 32

// Controls is the live-adjustable demo state.
type Controls struct {
	Tessellation int
	Color        [3]int
	Shader       string
}

func NewControls(cfg config.ControlsConfig) *Controls {
	c := &Controls{Shader: cfg.Shader}
	c.SetTessellation(cfg.Tessellation)
	for i, v := range cfg.Color {
		c.SetColorChannel(i, v)
	}
	return c
}

// SetTessellation clamps n to the supported subdivision range.
func (c *Controls) SetTessellation(n int) {
	c.Tessellation = math.Clamp(n, 0, geometry.MaxSubdivisions)
}

func (c *Controls) StepTessellation(delta int) {
	c.SetTessellation(c.Tessellation + delta)
}

func (c *Controls) SetColorChannel(channel, value int) {
	if channel < 0 || channel > 2 {
		return
	}
	c.Color[channel] = math.Clamp(value, 0, 255)
}

// StepColorChannel advances one channel by ColorStep, wrapping past 255.
func (c *Controls) StepColorChannel(channel int) {
	if channel < 0 || channel > 2 {
		return
	}
	c.Color[channel] = math.Wrap(c.Color[channel]+ColorStep, 256)
}
