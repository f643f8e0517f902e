package math

import "github.com/go-gl/mathgl/mgl32"

// ColorFrom255 converts an 8-bit RGB triple into an opaque RGBA vector with
// channels in [0, 1]. Out of range channels are clamped.
func ColorFrom255(rgb [3]int) mgl32.Vec4 {
	return mgl32.Vec4{
		float32(Clamp(rgb[0], 0, 255)) / 255,
		float32(Clamp(rgb[1], 0, 255)) / 255,
		float32(Clamp(rgb[2], 0, 255)) / 255,
		1,
	}
}
