package render

import (
	"image"
	"image/color"
	"math"
)

// vertex is a projected point: pixel coordinates plus NDC depth
type vertex struct {
	x, y, z float64
}

// frame is a colour buffer with a matching depth buffer
type frame struct {
	img    *image.RGBA
	depth  []float64
	width  int
	height int
}

func newFrame(width, height int, background color.RGBA) *frame {
	f := &frame{
		img:    image.NewRGBA(image.Rect(0, 0, width, height)),
		depth:  make([]float64, width*height),
		width:  width,
		height: height,
	}
	for i := range f.depth {
		f.depth[i] = math.Inf(1)
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			f.img.SetRGBA(x, y, background)
		}
	}
	return f
}

// fillTriangle scan-converts a triangle, keeping the nearest fragment per pixel
func (f *frame) fillTriangle(a, b, c vertex, col color.RGBA) {
	v := [3]vertex{a, b, c}
	if v[0].y > v[1].y {
		v[0], v[1] = v[1], v[0]
	}
	if v[1].y > v[2].y {
		v[1], v[2] = v[2], v[1]
	}
	if v[0].y > v[1].y {
		v[0], v[1] = v[1], v[0]
	}

	edges := [3][2]vertex{{v[0], v[1]}, {v[1], v[2]}, {v[0], v[2]}}

	yStart := int(math.Max(0, math.Ceil(v[0].y-0.5)))
	yEnd := int(math.Min(float64(f.height-1), math.Floor(v[2].y-0.5)))
	for y := yStart; y <= yEnd; y++ {
		sy := float64(y) + 0.5

		var hits [2]struct{ x, z float64 }
		n := 0
		for _, e := range edges {
			top, bottom := e[0], e[1]
			if top.y == bottom.y || sy < top.y || sy > bottom.y || n == 2 {
				continue
			}
			t := (sy - top.y) / (bottom.y - top.y)
			hits[n].x = top.x + t*(bottom.x-top.x)
			hits[n].z = top.z + t*(bottom.z-top.z)
			n++
		}
		if n < 2 {
			continue
		}
		if hits[0].x > hits[1].x {
			hits[0], hits[1] = hits[1], hits[0]
		}

		xStart := int(math.Max(0, math.Ceil(hits[0].x-0.5)))
		xEnd := int(math.Min(float64(f.width-1), math.Floor(hits[1].x-0.5)))
		span := hits[1].x - hits[0].x
		for x := xStart; x <= xEnd; x++ {
			z := hits[0].z
			if span > 0 {
				z += (float64(x) + 0.5 - hits[0].x) / span * (hits[1].z - hits[0].z)
			}
			idx := y*f.width + x
			if z < f.depth[idx] {
				f.depth[idx] = z
				f.img.SetRGBA(x, y, col)
			}
		}
	}
}

// drawLine draws an overlay line with Bresenham's algorithm, ignoring depth.
// Lines reaching far outside the frame are skipped.
func (f *frame) drawLine(a, b vertex, col color.RGBA) {
	limit := float64(4 * (f.width + f.height))
	for _, p := range []vertex{a, b} {
		if math.Abs(p.x) > limit || math.Abs(p.y) > limit {
			return
		}
	}
	x1, y1 := int(math.Floor(a.x)), int(math.Floor(a.y))
	x2, y2 := int(math.Floor(b.x)), int(math.Floor(b.y))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for {
		if x1 >= 0 && x1 < f.width && y1 >= 0 && y1 < f.height {
			f.img.SetRGBA(x1, y1, col)
		}
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
