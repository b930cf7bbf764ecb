package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/philipparndt/planeview/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepthAtCentreIdentity(t *testing.T) {
	// Left-up (-0.5, 0.5), right-up (0.5, 0.5) and centre-down (0, -0.5) all
	// lie on z = 0, so the edge vectors (-0.5, 1, 0) and (0.5, 1, 0) give the
	// normal (0, 0, -1), d = 0 and a depth of 0.
	depth, err := DepthAtCentre(mgl64.Ident4(), unitCubeExtents())
	require.NoError(t, err)
	assert.InDelta(t, 0.0, depth, 1e-12)
}

func TestDepthAtCentreHomeView(t *testing.T) {
	c := newTestController(t)
	depth, err := c.DepthAtCentre(unitCubeExtents())
	require.NoError(t, err)
	assert.InDelta(t, ReferenceDepth, depth, 1e-12)
}

func TestDepthAtCentreTiltedPlane(t *testing.T) {
	// The object origin is on the plane, so any tilt about it keeps the
	// crossing with the optical axis where the origin lands.
	for _, angle := range []float64{0.1, 0.5, -0.7, 1.2} {
		viewModel := mgl64.Translate3D(0, 0, -2).Mul4(mgl64.HomogRotate3DX(angle))
		depth, err := DepthAtCentre(viewModel, unitCubeExtents())
		require.NoError(t, err, "angle %v", angle)
		assert.InDelta(t, -2.0, depth, 1e-12, "angle %v", angle)
	}
}

func TestDepthAtCentreOffCentreData(t *testing.T) {
	extents := geometry.NewExtents(geometry.BoundingBox{
		Min: mgl64.Vec3{100, 200, 5},
		Max: mgl64.Vec3{140, 220, 9},
	})
	viewModel := mgl64.Translate3D(0.1, -0.2, -3)

	depth, err := DepthAtCentre(viewModel, extents)
	require.NoError(t, err)
	assert.InDelta(t, -3.0, depth, 1e-12)
}

func TestDepthAtCentreEdgeOn(t *testing.T) {
	// Rotating the plane a quarter turn about x puts the optical axis inside it
	edgeOn := mgl64.Mat4{
		1, 0, 0, 0,
		0, 0, 1, 0,
		0, -1, 0, 0,
		0, 0, -2, 1,
	}
	_, err := DepthAtCentre(edgeOn, unitCubeExtents())
	assert.ErrorIs(t, err, ErrNumericDegeneracy)
}

func TestDepthAtCentreRejectsEmptyRange(t *testing.T) {
	extents := unitCubeExtents()
	extents.MaxRange = 0

	_, err := DepthAtCentre(mgl64.Ident4(), extents)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}
