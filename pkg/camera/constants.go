package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Constants is the per-draw uniform payload handed to a renderer.
// It is always derived from State and never written back.
type Constants struct {
	ModelMatrix                  mgl32.Mat4
	ModelViewProjectionMatrix    mgl32.Mat4
	ModelMatrixInverseTransposed mgl32.Mat3
	ViewMatrixInverse            mgl32.Mat4
	Colour                       mgl32.Vec4
}

// DefaultColour is used until a renderer assigns a per-buffer colour
var DefaultColour = mgl32.Vec4{0, 0, 0, 1}

// WithColour returns a copy of the constants for drawing one buffer
func (k Constants) WithColour(colour mgl32.Vec4) Constants {
	k.Colour = colour
	return k
}
