package camera

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/philipparndt/planeview/pkg/geometry"
)

// Options tunes a Controller. Zero values fall back to the defaults.
type Options struct {
	// PanSensitivity converts scroll deltas to camera-space motion at a 45° view
	PanSensitivity float64
	// ZoomDragSensitivity converts a vertical drag to a magnification
	ZoomDragSensitivity float64
	// FieldOfView is the vertical field of view restored by Reset, in radians
	FieldOfView float64
	Near        float64
	Far         float64
	Width       float64
	Height      float64
	Logger      *slog.Logger
}

// DefaultOptions returns the options a fresh viewer starts with
func DefaultOptions() Options {
	return Options{
		PanSensitivity:      0.003,
		ZoomDragSensitivity: 0.005,
		FieldOfView:         DefaultFieldOfView,
		Near:                DefaultNear,
		Far:                 DefaultFar,
		Width:               800,
		Height:              600,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.PanSensitivity <= 0 {
		o.PanSensitivity = d.PanSensitivity
	}
	if o.ZoomDragSensitivity <= 0 {
		o.ZoomDragSensitivity = d.ZoomDragSensitivity
	}
	if !validFieldOfView(o.FieldOfView) {
		o.FieldOfView = d.FieldOfView
	}
	if o.Near <= 0 || o.Far <= o.Near {
		o.Near, o.Far = d.Near, d.Far
	}
	if !validSize(o.Width, o.Height) {
		o.Width, o.Height = d.Width, d.Height
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// referenceFieldOfView is the view angle at which PanSensitivity applies as is
const referenceFieldOfView = math.Pi / 4

// Controller turns input gestures into camera state.
//
// Every mutating method either commits a fully recomputed state and returns
// true, meaning a redraw is due, or leaves the state untouched and returns
// false. A Controller is not safe for concurrent use.
type Controller struct {
	opts    Options
	log     *slog.Logger
	state   State
	extents *geometry.Extents

	model          mgl64.Mat4
	view           mgl64.Mat4
	projection     mgl64.Mat4
	objectToCamera mgl64.Mat4
	constants      Constants
}

// NewController creates a controller in the home position
func NewController(opts Options) *Controller {
	opts = opts.withDefaults()
	c := &Controller{
		opts: opts,
		log:  opts.Logger,
	}
	c.state = defaultState(opts.FieldOfView, opts.Width, opts.Height)
	c.constants.Colour = DefaultColour
	if err := c.recompute(); err != nil {
		// The defaults are well-formed for any valid options
		panic(err)
	}
	return c
}

// State returns a copy of the current camera state
func (c *Controller) State() State {
	return c.state
}

// Constants returns the uniform payload for the current state
func (c *Controller) Constants() Constants {
	return c.constants
}

// ModelMatrix returns the current model transform
func (c *Controller) ModelMatrix() mgl64.Mat4 {
	return c.model
}

// ViewMatrix returns the current view transform
func (c *Controller) ViewMatrix() mgl64.Mat4 {
	return c.view
}

// ProjectionMatrix returns the current projection transform
func (c *Controller) ProjectionMatrix() mgl64.Mat4 {
	return c.projection
}

// ObjectToCamera returns View * Model
func (c *Controller) ObjectToCamera() mgl64.Mat4 {
	return c.objectToCamera
}

// Extents returns the dataset extents used for pivot correction, if any
func (c *Controller) Extents() (geometry.Extents, bool) {
	if c.extents == nil {
		return geometry.Extents{}, false
	}
	return *c.extents, true
}

// SetExtents installs the extents of a newly loaded dataset
func (c *Controller) SetExtents(extents geometry.Extents) {
	c.extents = &extents
}

// ClearExtents forgets the dataset; pivot correction stops until new extents arrive
func (c *Controller) ClearExtents() {
	c.extents = nil
}

// DepthAtCentre returns the eye-space depth of the data plane on the optical axis
func (c *Controller) DepthAtCentre(extents geometry.Extents) (float64, error) {
	return DepthAtCentre(c.objectToCamera, extents)
}

// Resize sets the viewport size used for aspect ratio and screen mapping
func (c *Controller) Resize(width, height float64) bool {
	if !validSize(width, height) {
		c.reject("resize", fmt.Errorf("viewport %gx%g: %w", width, height, ErrInvalidParameter))
		return false
	}
	return c.mutate("resize", func(s *State) error {
		s.Width, s.Height = width, height
		return nil
	})
}

// Reset returns to the home view. The viewport size and extents are kept.
func (c *Controller) Reset() bool {
	return c.mutate("reset", func(s *State) error {
		*s = defaultState(c.opts.FieldOfView, s.Width, s.Height)
		return nil
	})
}

// NewDocument resets the view and forgets the current dataset
func (c *Controller) NewDocument() bool {
	c.ClearExtents()
	return c.Reset()
}

// mutate applies fn to a copy of the state and commits it only if every
// derived matrix stays finite.
func (c *Controller) mutate(op string, fn func(s *State) error) bool {
	previous := c.state
	next := c.state
	if err := fn(&next); err != nil {
		c.reject(op, err)
		return false
	}

	c.state = next
	if err := c.recompute(); err != nil {
		c.state = previous
		if restoreErr := c.recompute(); restoreErr != nil {
			// previous was committed, so it recomputed once already
			panic(restoreErr)
		}
		c.reject(op, err)
		return false
	}
	return true
}

func (c *Controller) reject(op string, err error) {
	c.log.Debug("camera update discarded", "op", op, "error", err)
}

// recompute derives every dependent matrix from the state
func (c *Controller) recompute() error {
	s := c.state
	model := s.Model()
	view := s.View()
	projection := s.Projection(c.opts.Near, c.opts.Far)
	objectToCamera := view.Mul4(model)
	mvp := projection.Mul4(objectToCamera)

	modelInverse, err := invert3(model.Mat3())
	if err != nil {
		return fmt.Errorf("model normal matrix: %w", err)
	}
	viewInverse, err := invert4(view)
	if err != nil {
		return fmt.Errorf("view inverse: %w", err)
	}
	if !finiteMat4(mvp) || !finiteMat4(objectToCamera) || !finiteMat3(modelInverse) || !finiteMat4(viewInverse) {
		return fmt.Errorf("derived matrices: %w", ErrNumericDegeneracy)
	}

	c.model = model
	c.view = view
	c.projection = projection
	c.objectToCamera = objectToCamera
	c.constants.ModelMatrix = toMat4f(model)
	c.constants.ModelViewProjectionMatrix = toMat4f(mvp)
	c.constants.ModelMatrixInverseTransposed = toMat3f(modelInverse.Transpose())
	c.constants.ViewMatrixInverse = toMat4f(viewInverse)
	return nil
}

func validSize(width, height float64) bool {
	return finite(width) && finite(height) && width > 0 && height > 0
}

func validFieldOfView(fov float64) bool {
	return finite(fov) && fov > 0 && fov < math.Pi
}
