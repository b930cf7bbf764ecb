package camera

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// minAxisLength is the shortest rotation axis that still has a direction
const minAxisLength = 1e-12

// Pan moves the model parallel to the screen.
//
// Motion scales with the field of view so a gesture covers the same share of
// the visible data at any zoom level. The pivot is re-anchored to the data
// plane afterwards.
func (c *Controller) Pan(dx, dy, sensitivityScale float64) bool {
	if !finite(dx) || !finite(dy) || !finite(sensitivityScale) {
		c.reject("pan", fmt.Errorf("delta (%g, %g) scale %g: %w", dx, dy, sensitivityScale, ErrInvalidParameter))
		return false
	}
	if (dx == 0 && dy == 0) || sensitivityScale == 0 {
		return false
	}
	return c.mutate("pan", func(s *State) error {
		sensitivity := c.opts.PanSensitivity * sensitivityScale * (s.FieldOfView / referenceFieldOfView)
		motion := mgl64.Vec3{dx, -dy, 0}.Mul(sensitivity)

		toObject, err := cameraToObject(s.ObjectToCamera())
		if err != nil {
			return err
		}
		s.Offset = s.Offset.Add(toObject.Mul3x1(motion))

		c.correctPivotDepth(s)
		return nil
	})
}

// Zoom narrows the field of view by a magnification factor.
// A factor of 2 halves the tangent of the half angle.
func (c *Controller) Zoom(factor float64) bool {
	if !finite(factor) || factor <= 0 {
		c.reject("zoom", fmt.Errorf("magnification %g: %w", factor, ErrInvalidParameter))
		return false
	}
	if factor == 1 {
		return false
	}
	return c.mutate("zoom", func(s *State) error {
		fov := 2 * math.Atan(math.Tan(0.5*s.FieldOfView)/factor)
		if !validFieldOfView(fov) {
			return fmt.Errorf("field of view %g: %w", fov, ErrInvalidParameter)
		}
		s.FieldOfView = fov
		return nil
	})
}

// ZoomDrag zooms from a vertical drag distance in pixels
func (c *Controller) ZoomDrag(deltaY float64) bool {
	return c.Zoom(1 + c.opts.ZoomDragSensitivity*deltaY)
}

// Twist rotates the model about the viewing direction
func (c *Controller) Twist(angle float64) bool {
	if !finite(angle) {
		c.reject("twist", fmt.Errorf("angle %g: %w", angle, ErrInvalidParameter))
		return false
	}
	if angle == 0 {
		return false
	}
	return c.mutate("twist", func(s *State) error {
		toObject, err := cameraToObject(s.ObjectToCamera())
		if err != nil {
			return err
		}
		return rotate(s, toObject.Mul3x1(mgl64.Vec3{0, 0, 1}), angle)
	})
}

// Arcball rotates the model as if dragging a virtual trackball between two
// viewport points (pixels, origin top-left).
//
// Points are lifted onto a unit hemisphere facing the viewer. Points outside
// the unit disk land on its rim.
func (c *Controller) Arcball(lastX, lastY, currentX, currentY float64) bool {
	if lastX == currentX && lastY == currentY {
		return false
	}
	last := c.hemisphere(lastX, lastY)
	current := c.hemisphere(currentX, currentY)
	if !finiteVec3(last) || !finiteVec3(current) {
		c.reject("arcball", fmt.Errorf("drag (%g, %g) -> (%g, %g): %w", lastX, lastY, currentX, currentY, ErrInvalidParameter))
		return false
	}
	if last == current {
		return false
	}

	angle := math.Acos(last.Dot(current))
	if math.IsNaN(angle) || angle <= 0 {
		c.reject("arcball", fmt.Errorf("angle %g: %w", angle, ErrDegenerateInput))
		return false
	}
	axis := last.Cross(current)

	return c.mutate("arcball", func(s *State) error {
		toObject, err := cameraToObject(s.ObjectToCamera())
		if err != nil {
			return err
		}
		return rotate(s, toObject.Mul3x1(axis), angle)
	})
}

func (c *Controller) hemisphere(x, y float64) mgl64.Vec3 {
	ndcX, ndcY := c.state.ScreenToNDC(x, y)
	z := math.Sqrt(math.Max(0, 1-(ndcX*ndcX+ndcY*ndcY)))
	return mgl64.Vec3{ndcX, ndcY, z}.Normalize()
}

// ClickPan brings the data point under a viewport point to the centre of the view
func (c *Controller) ClickPan(x, y float64) bool {
	if !finite(x) || !finite(y) {
		c.reject("click pan", fmt.Errorf("point (%g, %g): %w", x, y, ErrInvalidParameter))
		return false
	}
	ndcX, ndcY := c.state.ScreenToNDC(x, y)
	return c.mutate("click pan", func(s *State) error {
		objectToCamera := s.ObjectToCamera()
		clicked, err := c.unprojectState(*s, ndcX, ndcY)
		if err != nil {
			return err
		}

		inCamera := objectToCamera.Mul4x1(clicked.Vec4(1))
		shift := mgl64.Vec3{-inCamera.X(), -inCamera.Y(), 0}

		toObject, err := cameraToObject(objectToCamera)
		if err != nil {
			return err
		}
		s.Offset = s.Offset.Add(toObject.Mul3x1(shift))

		c.correctPivotDepth(s)
		return nil
	})
}

// Pick returns the object-space point on the data plane under a viewport point
func (c *Controller) Pick(x, y float64) (mgl64.Vec3, error) {
	if !finite(x) || !finite(y) {
		return mgl64.Vec3{}, fmt.Errorf("pick (%g, %g): %w", x, y, ErrInvalidParameter)
	}
	ndcX, ndcY := c.state.ScreenToNDC(x, y)
	return c.unprojectState(c.state, ndcX, ndcY)
}

func (c *Controller) unprojectState(s State, ndcX, ndcY float64) (mgl64.Vec3, error) {
	mvp := s.Projection(c.opts.Near, c.opts.Far).Mul4(s.ObjectToCamera())
	inverse, err := invert4(mvp)
	if err != nil {
		return mgl64.Vec3{}, fmt.Errorf("model view projection: %w", err)
	}
	return Unproject(ndcX, ndcY, inverse)
}

// correctPivotDepth shifts the model along the viewing direction so the data
// plane crosses the optical axis at the reference depth again. Without
// extents, or when the depth is not finite, the frame goes uncorrected.
func (c *Controller) correctPivotDepth(s *State) {
	if c.extents == nil {
		return
	}
	objectToCamera := s.ObjectToCamera()
	depth, err := DepthAtCentre(objectToCamera, *c.extents)
	if err != nil {
		c.log.Debug("pivot correction skipped", "error", err)
		return
	}
	toObject, err := cameraToObject(objectToCamera)
	if err != nil {
		c.log.Debug("pivot correction skipped", "error", err)
		return
	}

	// The +1 keeps the reference depth at rest
	correction := mgl64.Vec3{0, 0, -(1 + depth)}
	s.Offset = s.Offset.Add(toObject.Mul3x1(correction))
}

func rotate(s *State, axis mgl64.Vec3, angle float64) error {
	length := axis.Len()
	if !finite(length) || length < minAxisLength {
		return fmt.Errorf("rotation axis %v: %w", axis, ErrDegenerateInput)
	}
	s.Rotation = s.Rotation.Mul4(mgl64.HomogRotate3D(angle, axis.Mul(1/length)))
	return nil
}
