package analysis

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/philipparndt/planeview/pkg/dataset"
	"github.com/philipparndt/planeview/pkg/geometry"
)

// Summary holds measurements of a dataset in its source units
type Summary struct {
	BoundingBox   geometry.BoundingBox
	Dimensions    mgl64.Vec3
	Volume        float64
	SurfaceArea   float64
	TriangleCount int
	EdgeCount     int
	MinEdgeLength float64
	MaxEdgeLength float64
	AvgEdgeLength float64
}

// Summarize measures a dataset.
// Triangles are stored normalized, so lengths scale by MaxRange and areas by its square.
func Summarize(ds *dataset.Dataset) Summary {
	scale := ds.Extents.MaxRange
	result := Summary{
		BoundingBox:   ds.Bounds,
		Dimensions:    ds.Bounds.Size(),
		Volume:        ds.Bounds.Volume(),
		TriangleCount: ds.TriangleCount(),
	}

	minLength := math.MaxFloat64
	maxLength := 0.0
	totalLength := 0.0
	for _, tri := range ds.Triangles {
		a, b, c := tri.V[0], tri.V[1], tri.V[2]
		result.SurfaceArea += 0.5 * b.Sub(a).Cross(c.Sub(a)).Len() * scale * scale

		for i := 0; i < 3; i++ {
			length := tri.V[i].Sub(tri.V[(i+1)%3]).Len() * scale
			totalLength += length
			minLength = math.Min(minLength, length)
			maxLength = math.Max(maxLength, length)
			result.EdgeCount++
		}
	}

	if result.EdgeCount > 0 {
		result.MinEdgeLength = minLength
		result.MaxEdgeLength = maxLength
		result.AvgEdgeLength = totalLength / float64(result.EdgeCount)
	}
	return result
}

// NearestVertex finds the dataset vertex closest to an object-space point.
// Both the vertex and the distance are returned in source units.
func NearestVertex(ds *dataset.Dataset, point mgl64.Vec3) (mgl64.Vec3, float64, bool) {
	var nearest mgl64.Vec3
	minDistance := math.MaxFloat64
	for _, tri := range ds.Triangles {
		for _, v := range tri.V {
			if d := v.Sub(point).Len(); d < minDistance {
				minDistance = d
				nearest = v
			}
		}
	}
	if minDistance == math.MaxFloat64 {
		return mgl64.Vec3{}, 0, false
	}
	return ds.Extents.Denormalize(nearest), minDistance * ds.Extents.MaxRange, true
}
