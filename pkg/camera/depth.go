package camera

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/philipparndt/planeview/pkg/geometry"
)

// ReferenceDepth is the eye-space depth of the data plane in a fresh view.
// Pivot correction shifts by 1 + depth, so the reference needs none.
const ReferenceDepth = -1.0

// DepthAtCentre estimates the eye-space depth at which the dataset's plane
// crosses the optical axis.
//
// Three points are laid on the object-space z = 0 plane from the normalized
// extents (left-up, right-up and centre-down), moved to eye space with
// viewModel, and the plane through them is solved for x = y = 0.
func DepthAtCentre(viewModel mgl64.Mat4, extents geometry.Extents) (float64, error) {
	r := extents.MaxRange
	if !finite(r) || r <= 0 {
		return 0, fmt.Errorf("depth at centre: max range %g: %w", r, ErrInvalidParameter)
	}
	lo, mid, hi := extents.Min, extents.Mid, extents.Max

	leftUp := mgl64.Vec4{(lo.X() - mid.X()) / r, (hi.Y() - mid.Y()) / r, 0, 1}
	rightUp := mgl64.Vec4{(hi.X() - mid.X()) / r, (hi.Y() - mid.Y()) / r, 0, 1}
	centreDown := mgl64.Vec4{0, (lo.Y() - mid.Y()) / r, 0, 1}

	leftUp = viewModel.Mul4x1(leftUp)
	rightUp = viewModel.Mul4x1(rightUp)
	centreDown = viewModel.Mul4x1(centreDown)

	// ax + by + cz + d = 0 with (a, b, c) the normal
	normal := leftUp.Vec3().Sub(centreDown.Vec3()).Cross(rightUp.Vec3().Sub(centreDown.Vec3()))
	d := -normal.Dot(centreDown.Vec3().Mul(1 / centreDown.W()))

	depth := -d / normal.Z()
	if !finite(depth) {
		return 0, fmt.Errorf("depth at centre: plane parallel to optical axis: %w", ErrNumericDegeneracy)
	}
	return depth, nil
}
