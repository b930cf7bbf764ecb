package camera

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// singularThreshold is the smallest determinant treated as invertible
const singularThreshold = 1e-12

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finiteVec3(v mgl64.Vec3) bool {
	return finite(v[0]) && finite(v[1]) && finite(v[2])
}

func finiteMat3(m mgl64.Mat3) bool {
	for _, v := range m {
		if !finite(v) {
			return false
		}
	}
	return true
}

func finiteMat4(m mgl64.Mat4) bool {
	for _, v := range m {
		if !finite(v) {
			return false
		}
	}
	return true
}

func invert4(m mgl64.Mat4) (mgl64.Mat4, error) {
	det := m.Det()
	if !finite(det) || math.Abs(det) < singularThreshold {
		return mgl64.Mat4{}, fmt.Errorf("invert 4x4 (det %g): %w", det, ErrNumericDegeneracy)
	}
	return m.Inv(), nil
}

func invert3(m mgl64.Mat3) (mgl64.Mat3, error) {
	det := m.Det()
	if !finite(det) || math.Abs(det) < singularThreshold {
		return mgl64.Mat3{}, fmt.Errorf("invert 3x3 (det %g): %w", det, ErrNumericDegeneracy)
	}
	return m.Inv(), nil
}

// cameraToObject returns the linear part of the inverse of objectToCamera.
// It maps directions from eye space into object space.
func cameraToObject(objectToCamera mgl64.Mat4) (mgl64.Mat3, error) {
	inv, err := invert3(objectToCamera.Mat3())
	if err != nil {
		return mgl64.Mat3{}, fmt.Errorf("camera to object: %w", err)
	}
	return inv, nil
}

func toMat4f(m mgl64.Mat4) mgl32.Mat4 {
	var out mgl32.Mat4
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}

func toMat3f(m mgl64.Mat3) mgl32.Mat3 {
	var out mgl32.Mat3
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}
