package camera

import (
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// DefaultFieldOfView is the vertical field of view of a fresh view (60°)
	DefaultFieldOfView = 1.047197551196598

	// DefaultNear and DefaultFar bound the perspective frustum in eye space
	DefaultNear = 0.001
	DefaultFar  = 100.0
)

var (
	defaultEye    = mgl64.Vec3{0, 0, 0}
	defaultCentre = mgl64.Vec3{0, 0, -1}
	up            = mgl64.Vec3{0, 1, 0}
)

// State is the authoritative camera state.
//
// The camera itself never moves while interacting: every gesture moves the
// model instead. The model transform is Translation * Rotation * Scaling(),
// where Scaling() folds the accumulated pan Offset behind a true Scale.
type State struct {
	Scale       mgl64.Mat4
	Offset      mgl64.Vec3
	Rotation    mgl64.Mat4
	Translation mgl64.Mat4

	Eye         mgl64.Vec3
	Centre      mgl64.Vec3
	FieldOfView float64

	Width  float64
	Height float64
}

func defaultState(fov, width, height float64) State {
	return State{
		Scale:       mgl64.Ident4(),
		Rotation:    mgl64.Ident4(),
		Translation: mgl64.Translate3D(defaultCentre[0], defaultCentre[1], defaultCentre[2]),
		Eye:         defaultEye,
		Centre:      defaultCentre,
		FieldOfView: fov,
		Width:       width,
		Height:      height,
	}
}

// Scaling returns the scale with the accumulated pan offset applied first
func (s State) Scaling() mgl64.Mat4 {
	return s.Scale.Mul4(mgl64.Translate3D(s.Offset[0], s.Offset[1], s.Offset[2]))
}

// Model returns Translation * Rotation * Scaling()
func (s State) Model() mgl64.Mat4 {
	return s.Translation.Mul4(s.Rotation).Mul4(s.Scaling())
}

// View returns the look-at transform from Eye towards Centre
func (s State) View() mgl64.Mat4 {
	return mgl64.LookAtV(s.Eye, s.Centre, up)
}

// Aspect returns the viewport aspect ratio
func (s State) Aspect() float64 {
	return s.Width / s.Height
}

// Projection returns the perspective transform for the given clip planes
func (s State) Projection(near, far float64) mgl64.Mat4 {
	return mgl64.Perspective(s.FieldOfView, s.Aspect(), near, far)
}

// ObjectToCamera returns View * Model
func (s State) ObjectToCamera() mgl64.Mat4 {
	return s.View().Mul4(s.Model())
}

// ScreenToNDC maps a viewport point (origin top-left, y down) to normalized
// device coordinates (origin centre, y up).
func (s State) ScreenToNDC(x, y float64) (float64, float64) {
	return -1 + 2*x/s.Width, 1 - 2*y/s.Height
}
