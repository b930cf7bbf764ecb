package camera

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Unproject intersects the cursor ray with the z = 0 plane of object space.
//
// ndcX and ndcY are normalized device coordinates and inverseMVP is the
// inverse of projection * view * model. The ray is sampled on the near and far
// clip planes and the two samples are interpolated to where z vanishes, so
// this only works for the plane datasets are laid out on.
func Unproject(ndcX, ndcY float64, inverseMVP mgl64.Mat4) (mgl64.Vec3, error) {
	near := inverseMVP.Mul4x1(mgl64.Vec4{ndcX, ndcY, -1, 1})
	far := inverseMVP.Mul4x1(mgl64.Vec4{ndcX, ndcY, 1, 1})
	if near.W() == 0 || far.W() == 0 {
		return mgl64.Vec3{}, fmt.Errorf("unproject: point at infinity: %w", ErrNumericDegeneracy)
	}

	nearPoint := near.Vec3().Mul(1 / near.W())
	farPoint := far.Vec3().Mul(1 / far.W())

	alpha := -farPoint.Z() / (nearPoint.Z() - farPoint.Z())
	if !finite(alpha) {
		return mgl64.Vec3{}, fmt.Errorf("unproject: ray parallel to data plane: %w", ErrNumericDegeneracy)
	}

	point := mgl64.Vec3{
		alpha*nearPoint.X() + (1-alpha)*farPoint.X(),
		alpha*nearPoint.Y() + (1-alpha)*farPoint.Y(),
		0,
	}
	if !finiteVec3(point) {
		return mgl64.Vec3{}, fmt.Errorf("unproject: %w", ErrNumericDegeneracy)
	}
	return point, nil
}
