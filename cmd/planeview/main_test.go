package main

import (
	"bytes"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/philipparndt/planeview/internal/config"
	"github.com/philipparndt/planeview/pkg/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const plateSTL = `solid plate
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 20 0 0
      vertex 20 10 0
    endloop
  endfacet
  facet normal 0 0 1
    outer loop
      vertex 0 0 0
      vertex 20 10 0
      vertex 0 10 0
    endloop
  endfacet
endsolid plate
`

func loadPlate(t *testing.T) *dataset.Dataset {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plate.stl")
	require.NoError(t, os.WriteFile(path, []byte(plateSTL), 0o644))
	ds, err := dataset.Load(path)
	require.NoError(t, err)
	return ds
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	cfg.Resolve(config.Flags{Width: 64, Height: 48, Supersample: 2})
	return cfg
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInspect(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, inspect(&out, testConfig(t), loadPlate(t), discard()))

	text := out.String()
	assert.Contains(t, text, "Name: plate")
	assert.Contains(t, text, "Triangles: 2")
	assert.Contains(t, text, "Surface Area: 200.000000")
	assert.Contains(t, text, "Max Range: 20.000000")
	assert.Contains(t, text, "Depth at Centre: -1.000000")
	assert.Contains(t, text, "Centre Pick: (10.000000, 5.000000,")
}

func TestSnapshotPNG(t *testing.T) {
	out := filepath.Join(t.TempDir(), "shot.png")
	opts := snapshotOptions{Zoom: 2, Twist: 15, PanX: 5, Edges: true, BoundingBox: true}
	require.NoError(t, snapshot(testConfig(t), loadPlate(t), out, opts, discard()))

	file, err := os.Open(out)
	require.NoError(t, err)
	defer file.Close()
	img, err := png.Decode(file)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())
}

func TestSnapshotWebPByFlag(t *testing.T) {
	out := filepath.Join(t.TempDir(), "shot.img")
	require.NoError(t, snapshot(testConfig(t), loadPlate(t), out, snapshotOptions{Format: "webp", Zoom: 1}, discard()))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Greater(t, len(data), 12)
	assert.Equal(t, "WEBP", string(data[8:12]))
}

func TestSnapshotUnknownFormat(t *testing.T) {
	out := filepath.Join(t.TempDir(), "shot.gif")
	err := snapshot(testConfig(t), loadPlate(t), out, snapshotOptions{Zoom: 1}, discard())
	assert.Error(t, err)
	assert.NoFileExists(t, out)
}

func TestSnapshotUnwritablePath(t *testing.T) {
	out := filepath.Join(t.TempDir(), "missing", "shot.png")
	err := snapshot(testConfig(t), loadPlate(t), out, snapshotOptions{Zoom: 1}, discard())
	assert.ErrorContains(t, err, "failed to create")
}
