// Package render draws a dataset off screen with the camera's uniform payload.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/philipparndt/planeview/pkg/camera"
	"github.com/philipparndt/planeview/pkg/dataset"
)

// Options controls what Rasterize draws
type Options struct {
	Edges       bool
	BoundingBox bool
	Background  color.RGBA
	Surface     mgl32.Vec4
	Edge        mgl32.Vec4
	Box         mgl32.Vec4
}

// DefaultOptions returns a light grey model on a dark background
func DefaultOptions() Options {
	return Options{
		Background: color.RGBA{R: 30, G: 30, B: 36, A: 255},
		Surface:    mgl32.Vec4{0.75, 0.78, 0.82, 1},
		Edge:       mgl32.Vec4{0.1, 0.1, 0.1, 1},
		Box:        mgl32.Vec4{1, 0.6, 0.1, 1},
	}
}

const ambient = 0.2

// ErrEmptyFrame is returned for a zero or negative output size
var ErrEmptyFrame = errors.New("frame has no pixels")

// Rasterize draws the dataset's triangles with a depth buffer and a headlight.
func Rasterize(ds *dataset.Dataset, constants camera.Constants, width, height int, opts Options) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("rasterize %dx%d: %w", width, height, ErrEmptyFrame)
	}
	f := newFrame(width, height, opts.Background)
	if ds == nil {
		return f.img, nil
	}

	surface := constants.WithColour(opts.Surface)
	eye := surface.ViewMatrixInverse.Col(3).Vec3()

	for _, tri := range ds.Triangles {
		var projected [3]vertex
		visible := true
		for i, v := range tri.V {
			p, ok := project(surface.ModelViewProjectionMatrix, v32(v), width, height)
			if !ok {
				visible = false
				break
			}
			projected[i] = p
		}
		if !visible {
			continue
		}

		normal := surface.ModelMatrixInverseTransposed.Mul3x1(v32(tri.FaceNormal()))
		centroid := v32(tri.V[0].Add(tri.V[1]).Add(tri.V[2]).Mul(1.0 / 3))
		world := surface.ModelMatrix.Mul4x1(centroid.Vec4(1)).Vec3()
		f.fillTriangle(projected[0], projected[1], projected[2], shade(surface.Colour, normal, eye.Sub(world)))
	}

	if opts.Edges {
		edges := constants.WithColour(opts.Edge)
		col := rgba(edges.Colour, 1)
		for _, tri := range ds.Triangles {
			for i := 0; i < 3; i++ {
				a, okA := project(edges.ModelViewProjectionMatrix, v32(tri.V[i]), width, height)
				b, okB := project(edges.ModelViewProjectionMatrix, v32(tri.V[(i+1)%3]), width, height)
				if okA && okB {
					f.drawLine(a, b, col)
				}
			}
		}
	}

	if opts.BoundingBox {
		box := constants.WithColour(opts.Box)
		col := rgba(box.Colour, 1)
		corners := ds.Extents.Bounds().Corners()
		for _, e := range boxEdges {
			a, okA := project(box.ModelViewProjectionMatrix, v32(corners[e[0]]), width, height)
			b, okB := project(box.ModelViewProjectionMatrix, v32(corners[e[1]]), width, height)
			if okA && okB {
				f.drawLine(a, b, col)
			}
		}
	}

	return f.img, nil
}

// boxEdges indexes BoundingBox.Corners
var boxEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// project maps an object-space point to pixels; points behind the eye or
// outside the depth range are rejected.
func project(mvp mgl32.Mat4, p mgl32.Vec3, width, height int) (vertex, bool) {
	clip := mvp.Mul4x1(p.Vec4(1))
	w := float64(clip.W())
	if w <= 0 || math.IsNaN(w) {
		return vertex{}, false
	}
	ndcX := float64(clip.X()) / w
	ndcY := float64(clip.Y()) / w
	ndcZ := float64(clip.Z()) / w
	if ndcZ < -1 || ndcZ > 1 {
		return vertex{}, false
	}
	return vertex{
		x: (ndcX + 1) / 2 * float64(width),
		y: (1 - ndcY) / 2 * float64(height),
		z: ndcZ,
	}, true
}

// shade lights both faces with a light at the eye
func shade(base mgl32.Vec4, normal, toEye mgl32.Vec3) color.RGBA {
	intensity := float32(ambient)
	if normal.Len() > 0 && toEye.Len() > 0 {
		lambert := normal.Normalize().Dot(toEye.Normalize())
		if lambert < 0 {
			lambert = -lambert
		}
		intensity += (1 - ambient) * lambert
	}
	return rgba(base, intensity)
}

func rgba(c mgl32.Vec4, intensity float32) color.RGBA {
	channel := func(v float32) uint8 {
		return uint8(math.Round(float64(mgl32.Clamp(v*intensity, 0, 1)) * 255))
	}
	return color.RGBA{R: channel(c.X()), G: channel(c.Y()), B: channel(c.Z()), A: uint8(math.Round(float64(mgl32.Clamp(c.W(), 0, 1)) * 255))}
}

func v32(v [3]float64) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}
