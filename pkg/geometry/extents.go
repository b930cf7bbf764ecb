package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Extents describes where a dataset lives in its own coordinates.
//
// Renderers draw datasets in a normalized object space where Mid maps to the
// origin and the largest axis range maps to a unit length. Extents carries
// what is needed to move between the two.
type Extents struct {
	Min      mgl64.Vec3
	Mid      mgl64.Vec3
	Max      mgl64.Vec3
	MaxRange float64
}

// NewExtents derives extents from a bounding box.
// A box collapsed to a single point gets a MaxRange of 1.
func NewExtents(b BoundingBox) Extents {
	size := b.Size()
	maxRange := math.Max(size.X(), math.Max(size.Y(), size.Z()))
	if maxRange <= 0 || math.IsInf(maxRange, 0) || math.IsNaN(maxRange) {
		maxRange = 1
	}
	return Extents{
		Min:      b.Min,
		Mid:      b.Center(),
		Max:      b.Max,
		MaxRange: maxRange,
	}
}

// Normalize maps a dataset point into object space
func (e Extents) Normalize(p mgl64.Vec3) mgl64.Vec3 {
	return p.Sub(e.Mid).Mul(1 / e.MaxRange)
}

// Denormalize maps an object-space point back to dataset coordinates
func (e Extents) Denormalize(p mgl64.Vec3) mgl64.Vec3 {
	return p.Mul(e.MaxRange).Add(e.Mid)
}

// Bounds returns the extents as a box in object space
func (e Extents) Bounds() BoundingBox {
	return BoundingBox{Min: e.Normalize(e.Min), Max: e.Normalize(e.Max)}
}
