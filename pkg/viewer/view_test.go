package viewer

import (
	"io"
	"log/slog"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/philipparndt/planeview/pkg/camera"
	"github.com/philipparndt/planeview/pkg/dataset"
	"github.com/philipparndt/planeview/pkg/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestView(t *testing.T) *View {
	t.Helper()
	test.NewTempApp(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	v := NewView(camera.NewController(camera.Options{Logger: logger}), render.DefaultOptions(), logger)
	v.Resize(fyne.NewSize(400, 300))
	return v
}

func plate(path string) *dataset.Dataset {
	ds := dataset.New("plate", []dataset.Triangle{
		{V: [3]mgl64.Vec3{{0, 0, 0}, {10, 0, 0}, {10, 10, 0}}},
		{V: [3]mgl64.Vec3{{0, 0, 0}, {10, 10, 0}, {0, 10, 0}}},
	})
	ds.Path = path
	return ds
}

func TestResizeReachesController(t *testing.T) {
	v := newTestView(t)
	s := v.Controller().State()
	assert.Equal(t, 400.0, s.Width)
	assert.Equal(t, 300.0, s.Height)
}

func TestScrollPans(t *testing.T) {
	v := newTestView(t)
	v.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.NewDelta(10, 0)})
	assert.Greater(t, v.Controller().State().Offset.X(), 0.0)
}

func TestDragRotates(t *testing.T) {
	v := newTestView(t)
	v.Dragged(&fyne.DragEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(220, 150)},
		Dragged:    fyne.NewDelta(20, 0),
	})
	assert.NotEqual(t, mgl64.Ident4(), v.Controller().State().Rotation)
}

func TestSecondaryDragZooms(t *testing.T) {
	v := newTestView(t)
	before := v.Controller().State().FieldOfView

	v.MouseDown(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(200, 150)}, Button: desktop.MouseButtonSecondary})
	v.MouseMoved(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(200, 190)}})
	assert.Less(t, v.Controller().State().FieldOfView, before)

	// drags while zooming do not rotate
	v.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(220, 190)}, Dragged: fyne.NewDelta(20, 0)})
	assert.Equal(t, mgl64.Ident4(), v.Controller().State().Rotation)

	v.MouseUp(&desktop.MouseEvent{Button: desktop.MouseButtonSecondary})
	zoomed := v.Controller().State().FieldOfView
	v.MouseMoved(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(200, 250)}})
	assert.Equal(t, zoomed, v.Controller().State().FieldOfView)
}

func TestKeys(t *testing.T) {
	v := newTestView(t)

	assert.True(t, v.TypedRune('+'))
	assert.Less(t, v.Controller().State().FieldOfView, camera.DefaultFieldOfView)

	assert.True(t, v.TypedRune(']'))
	assert.NotEqual(t, mgl64.Ident4(), v.Controller().State().Rotation)

	assert.True(t, v.TypedRune('h'))
	assert.Equal(t, camera.DefaultFieldOfView, v.Controller().State().FieldOfView)
	assert.Equal(t, mgl64.Ident4(), v.Controller().State().Rotation)

	assert.True(t, v.TypedRune('e'))
	assert.True(t, v.options.Edges)
	assert.True(t, v.TypedRune('b'))
	assert.True(t, v.options.BoundingBox)

	assert.False(t, v.TypedRune('x'))
}

func TestSetDataset(t *testing.T) {
	v := newTestView(t)
	var status string
	v.SetOnStatus(func(s string) { status = s })

	v.SetDataset(plate("/tmp/plate.stl"))
	extents, ok := v.Controller().Extents()
	require.True(t, ok)
	assert.Equal(t, 10.0, extents.MaxRange)
	assert.Contains(t, status, "depth -1.000")

	// reloading the same file keeps the view
	v.TypedRune('+')
	zoomed := v.Controller().State().FieldOfView
	v.SetDataset(plate("/tmp/plate.stl"))
	assert.Equal(t, zoomed, v.Controller().State().FieldOfView)

	// a different file starts from home
	v.SetDataset(plate("/tmp/other.stl"))
	assert.Equal(t, camera.DefaultFieldOfView, v.Controller().State().FieldOfView)

	assert.True(t, v.TypedRune('n'))
	assert.Nil(t, v.Dataset())
	_, ok = v.Controller().Extents()
	assert.False(t, ok)
	assert.Contains(t, status, "no dataset")
}

func TestTapReportsPick(t *testing.T) {
	v := newTestView(t)
	var status string
	v.SetOnStatus(func(s string) { status = s })
	v.SetDataset(plate("/tmp/plate.stl"))

	v.Tapped(&fyne.PointEvent{Position: fyne.NewPos(200, 150)})
	assert.Contains(t, status, "picked (5.000, 5.000, ")
	assert.Contains(t, status, "nearest vertex (")
}

func TestDoubleTapCentres(t *testing.T) {
	v := newTestView(t)
	v.SetDataset(plate("/tmp/plate.stl"))

	v.DoubleTapped(&fyne.PointEvent{Position: fyne.NewPos(300, 100)})
	picked, err := v.Controller().Pick(200, 150)
	require.NoError(t, err)
	assert.NotEqual(t, 0.0, picked.X())

	depth, err := v.Controller().DepthAtCentre(v.Dataset().Extents)
	require.NoError(t, err)
	assert.InDelta(t, camera.ReferenceDepth, depth, 1e-9)
}

func TestReloadOnlyRefreshesTheShownFile(t *testing.T) {
	v := newTestView(t)

	assert.False(t, v.Reload(plate("/tmp/plate.stl")), "nothing shown yet")
	assert.Nil(t, v.Dataset())

	v.SetDataset(plate("/tmp/plate.stl"))
	v.TypedRune('+')
	zoomed := v.Controller().State().FieldOfView

	fresh := plate("/tmp/plate.stl")
	assert.True(t, v.Reload(fresh))
	assert.Same(t, fresh, v.Dataset())
	assert.Equal(t, zoomed, v.Controller().State().FieldOfView)

	assert.False(t, v.Reload(plate("/tmp/other.stl")))
	assert.Same(t, fresh, v.Dataset())

	// closing the document stops later saves from bringing it back
	v.TypedRune('n')
	assert.False(t, v.Reload(plate("/tmp/plate.stl")))
	assert.Nil(t, v.Dataset())
	_, ok := v.Controller().Extents()
	assert.False(t, ok)
}
