package dataset

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/philipparndt/planeview/pkg/geometry"
	"github.com/philipparndt/planeview/pkg/openscad"
)

// Triangle is a single face. Normal may be zero when the source has none.
type Triangle struct {
	Normal mgl64.Vec3
	V      [3]mgl64.Vec3
}

// FaceNormal returns the stored normal, or the winding normal if none was stored
func (t Triangle) FaceNormal() mgl64.Vec3 {
	if t.Normal.Len() > 0 {
		return t.Normal.Normalize()
	}
	n := t.V[1].Sub(t.V[0]).Cross(t.V[2].Sub(t.V[0]))
	if n.Len() == 0 {
		return mgl64.Vec3{0, 0, 1}
	}
	return n.Normalize()
}

// Dataset is a loaded file, ready to draw.
//
// Triangles are stored in normalized object space: Extents maps them back to
// the coordinates of the source file.
type Dataset struct {
	ID        uuid.UUID
	Name      string
	Path      string
	Triangles []Triangle
	Bounds    geometry.BoundingBox
	Extents   geometry.Extents
}

// New builds a dataset from triangles in source coordinates
func New(name string, triangles []Triangle) *Dataset {
	bounds := geometry.NewBoundingBox()
	for _, tri := range triangles {
		for _, v := range tri.V {
			bounds.Extend(v)
		}
	}
	if bounds.Empty() {
		bounds = geometry.BoundingBox{}
	}
	extents := geometry.NewExtents(bounds)

	normalized := make([]Triangle, len(triangles))
	for i, tri := range triangles {
		out := Triangle{Normal: tri.Normal}
		for j, v := range tri.V {
			out.V[j] = extents.Normalize(v)
		}
		normalized[i] = out
	}

	return &Dataset{
		ID:        uuid.New(),
		Name:      name,
		Triangles: normalized,
		Bounds:    bounds,
		Extents:   extents,
	}
}

// TriangleCount returns the number of faces
func (d *Dataset) TriangleCount() int {
	return len(d.Triangles)
}

type reader func(path string) (name string, triangles []Triangle, err error)

var readers = map[string]reader{
	".stl":  readFile(ReadSTL),
	".obj":  readFile(readOBJNamed),
	".scad": readSCAD,
}

func readFile(read func(r io.Reader) (string, []Triangle, error)) reader {
	return func(path string) (string, []Triangle, error) {
		file, err := os.Open(path)
		if err != nil {
			return "", nil, fmt.Errorf("failed to open file: %w", err)
		}
		defer file.Close()
		return read(file)
	}
}

func readOBJNamed(r io.Reader) (string, []Triangle, error) {
	triangles, err := ReadOBJ(r)
	return "", triangles, err
}

// readSCAD renders an OpenSCAD source to a temporary STL and reads that
func readSCAD(path string) (string, []Triangle, error) {
	dir, err := os.MkdirTemp("", "planeview-scad-")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	out := filepath.Join(dir, "model.stl")
	if err := openscad.RenderToSTL(context.Background(), path, out); err != nil {
		return "", nil, err
	}
	_, triangles, err := readFile(ReadSTL)(out)
	return "", triangles, err
}

// Supported reports whether Load can read the file's extension
func Supported(path string) bool {
	_, ok := readers[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Sources returns the files a dataset is built from: the file itself, plus
// every use and include for OpenSCAD sources.
func Sources(path string) ([]string, error) {
	if strings.ToLower(filepath.Ext(path)) == ".scad" {
		return openscad.Dependencies(path)
	}
	return []string{path}, nil
}

// Load reads a dataset, picking the reader by file extension
func Load(path string) (*Dataset, error) {
	ext := strings.ToLower(filepath.Ext(path))
	read, ok := readers[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported file type %q", ext)
	}

	name, triangles, err := read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(triangles) == 0 {
		return nil, fmt.Errorf("no faces in %s", path)
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	ds := New(name, triangles)
	ds.Path = path
	return ds, nil
}
