package dataset

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const asciiCube = `solid plate
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 10 0 0
      vertex 10 20 0
    endloop
  endfacet
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 10 20 0
      vertex 0 20 4
    endloop
  endfacet
endsolid plate
`

func binarySTL(t *testing.T, header string, triangles [][3][3]float32) []byte {
	t.Helper()
	var buf bytes.Buffer
	h := make([]byte, stlHeaderSize)
	copy(h, header)
	buf.Write(h)
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, uint32(len(triangles))))
	for _, tri := range triangles {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, stlRecord{V: tri}))
	}
	return buf.Bytes()
}

func TestReadSTLASCII(t *testing.T) {
	name, triangles, err := ReadSTL(strings.NewReader(asciiCube))
	require.NoError(t, err)
	assert.Equal(t, "plate", name)
	require.Len(t, triangles, 2)
	assert.Equal(t, mgl64.Vec3{10, 20, 0}, triangles[0].V[2])
	assert.Equal(t, mgl64.Vec3{0, 0, 1}, triangles[1].Normal)
}

func TestReadSTLASCIIBrokenFacet(t *testing.T) {
	broken := "solid x\nfacet normal 0 0 1\nouter loop\nvertex 0 0 0\nvertex 1 0 0\nendloop\nendfacet\nendsolid x\n"
	_, _, err := ReadSTL(strings.NewReader(broken))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 vertices")
}

func TestReadSTLBinary(t *testing.T) {
	data := binarySTL(t, "exported part", [][3][3]float32{
		{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		{{0, 0, 1}, {1, 0, 1}, {0, 1, 1}},
	})

	name, triangles, err := ReadSTL(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "exported part", name)
	require.Len(t, triangles, 2)
	assert.Equal(t, mgl64.Vec3{0, 1, 1}, triangles[1].V[2])
}

func TestReadSTLBinaryWithSolidHeader(t *testing.T) {
	data := binarySTL(t, "solid but binary", [][3][3]float32{
		{{0, 0, 0}, {2, 0, 0}, {0, 2, 0}},
	})

	_, triangles, err := ReadSTL(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, triangles, 1)
	assert.Equal(t, mgl64.Vec3{2, 0, 0}, triangles[0].V[1])
}

func TestReadSTLBinaryTruncated(t *testing.T) {
	data := binarySTL(t, "part", [][3][3]float32{{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}})
	_, _, err := ReadSTL(bytes.NewReader(data[:len(data)-10]))
	assert.Error(t, err)
}

func TestReadOBJ(t *testing.T) {
	src := `# quad and triangle
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
f 1/1 2 3 4
f -4 -3 -1
`
	triangles, err := ReadOBJ(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, triangles, 3)
	assert.Equal(t, [3]mgl64.Vec3{{0, 0, 0}, {1, 1, 0}, {0, 1, 0}}, triangles[1].V)
	assert.Equal(t, [3]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, triangles[2].V)
}

func TestReadOBJBadIndex(t *testing.T) {
	_, err := ReadOBJ(strings.NewReader("v 0 0 0\nv 1 0 0\nf 1 2 3\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}

func TestNewNormalizes(t *testing.T) {
	ds := New("plate", []Triangle{
		{V: [3]mgl64.Vec3{{0, 0, 0}, {10, 0, 0}, {10, 20, 0}}},
		{V: [3]mgl64.Vec3{{0, 0, 0}, {10, 20, 0}, {0, 20, 4}}},
	})

	assert.NotEqual(t, uuid.Nil, ds.ID)
	assert.Equal(t, mgl64.Vec3{5, 10, 2}, ds.Extents.Mid)
	assert.Equal(t, 20.0, ds.Extents.MaxRange)
	assert.Equal(t, mgl64.Vec3{-0.25, -0.5, -0.1}, ds.Triangles[0].V[0])
	assert.Equal(t, mgl64.Vec3{0.25, 0.5, -0.1}, ds.Triangles[0].V[2])
	assert.Equal(t, mgl64.Vec3{10, 20, 4}, ds.Bounds.Max)
}

func TestNewAssignsDistinctIDs(t *testing.T) {
	tri := []Triangle{{V: [3]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}}}
	assert.NotEqual(t, New("a", tri).ID, New("a", tri).ID)
}

func TestFaceNormal(t *testing.T) {
	tri := Triangle{V: [3]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}}
	assert.Equal(t, mgl64.Vec3{0, 0, 1}, tri.FaceNormal())

	tri.Normal = mgl64.Vec3{0, 0, -3}
	assert.Equal(t, mgl64.Vec3{0, 0, -1}, tri.FaceNormal())

	flat := Triangle{V: [3]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}}
	assert.Equal(t, mgl64.Vec3{0, 0, 1}, flat.FaceNormal())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Plate.STL")
	require.NoError(t, os.WriteFile(path, []byte(asciiCube), 0o644))

	ds, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "plate", ds.Name)
	assert.Equal(t, path, ds.Path)
	assert.Equal(t, 2, ds.TriangleCount())
}

func TestLoadOBJNamesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bracket.obj")
	require.NoError(t, os.WriteFile(path, []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0o644))

	ds, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "bracket", ds.Name)
}

func TestLoadRejects(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "model.3mf"))
	assert.ErrorContains(t, err, "unsupported")

	_, err = Load(filepath.Join(dir, "missing.stl"))
	assert.ErrorContains(t, err, "failed to open")

	empty := filepath.Join(dir, "empty.obj")
	require.NoError(t, os.WriteFile(empty, []byte("# nothing\n"), 0o644))
	_, err = Load(empty)
	assert.ErrorContains(t, err, "no faces")
}

func TestSupported(t *testing.T) {
	assert.True(t, Supported("a.stl"))
	assert.True(t, Supported("dir/B.OBJ"))
	assert.True(t, Supported("c.scad"))
	assert.False(t, Supported("d.3mf"))
	assert.False(t, Supported("noext"))
}

func TestSources(t *testing.T) {
	dir := t.TempDir()
	main := filepath.Join(dir, "part.scad")
	lib := filepath.Join(dir, "lib.scad")
	require.NoError(t, os.WriteFile(main, []byte("use <lib.scad>\ncube(1);\n"), 0o644))
	require.NoError(t, os.WriteFile(lib, []byte("module m() {}\n"), 0o644))

	sources, err := Sources(main)
	require.NoError(t, err)
	assert.Equal(t, []string{main, lib}, sources)

	sources, err = Sources("plate.stl")
	require.NoError(t, err)
	assert.Equal(t, []string{"plate.stl"}, sources)
}
