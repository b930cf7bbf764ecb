package viewer

import (
	"fmt"
	"image"
	"log/slog"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/philipparndt/planeview/pkg/analysis"
	"github.com/philipparndt/planeview/pkg/camera"
	"github.com/philipparndt/planeview/pkg/dataset"
	"github.com/philipparndt/planeview/pkg/render"
)

const (
	// twistStep is the rotation applied by one [ or ] key press
	twistStep = math.Pi / 36
	// zoomStep is the magnification applied by one + or - key press
	zoomStep = 1.25
)

// View shows a dataset and turns pointer and key input into camera commands
type View struct {
	widget.BaseWidget

	controller *camera.Controller
	dataset    *dataset.Dataset
	options    render.Options
	raster     *canvas.Raster
	log        *slog.Logger

	zoomDrag  bool
	lastMouse fyne.Position

	onStatus func(status string)
}

var (
	_ fyne.Scrollable        = (*View)(nil)
	_ fyne.Draggable         = (*View)(nil)
	_ fyne.Tappable          = (*View)(nil)
	_ fyne.DoubleTappable    = (*View)(nil)
	_ fyne.SecondaryTappable = (*View)(nil)
	_ desktop.Mouseable      = (*View)(nil)
	_ desktop.Hoverable      = (*View)(nil)
)

// NewView creates a view driven by the given controller
func NewView(controller *camera.Controller, options render.Options, logger *slog.Logger) *View {
	if logger == nil {
		logger = slog.Default()
	}
	v := &View{
		controller: controller,
		options:    options,
		log:        logger,
	}
	v.raster = canvas.NewRaster(v.draw)
	v.ExtendBaseWidget(v)
	return v
}

// SetOnStatus sets the callback that receives a one-line status after each update
func (v *View) SetOnStatus(callback func(status string)) {
	v.onStatus = callback
}

// SetDataset shows a new dataset.
//
// A dataset with a new ID resets the view; a reload of the same file keeps
// the current camera.
func (v *View) SetDataset(ds *dataset.Dataset) {
	same := v.dataset != nil && ds != nil && v.dataset.Path == ds.Path
	v.dataset = ds
	if ds == nil {
		v.apply(camera.NewDocument{})
		return
	}
	v.controller.SetExtents(ds.Extents)
	if !same {
		v.controller.Reset()
	}
	v.log.Info("dataset shown", "id", ds.ID, "name", ds.Name, "triangles", ds.TriangleCount())
	v.redraw()
}

// Reload swaps in a fresh copy of the dataset being shown. It reports false
// and leaves the view alone when nothing is shown or ds is a different file.
func (v *View) Reload(ds *dataset.Dataset) bool {
	if v.dataset == nil || ds == nil || v.dataset.Path != ds.Path {
		return false
	}
	v.SetDataset(ds)
	return true
}

// Dataset returns the dataset being shown, if any
func (v *View) Dataset() *dataset.Dataset {
	return v.dataset
}

// Controller returns the camera controller
func (v *View) Controller() *camera.Controller {
	return v.controller
}

// CreateRenderer creates the renderer for the widget
func (v *View) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.raster)
}

// MinSize keeps the viewport usable in small windows
func (v *View) MinSize() fyne.Size {
	return fyne.NewSize(320, 240)
}

// Resize forwards the new size to the camera
func (v *View) Resize(size fyne.Size) {
	v.BaseWidget.Resize(size)
	v.apply(camera.Resize{Width: float64(size.Width), Height: float64(size.Height)})
}

// Scrolled pans the model
func (v *View) Scrolled(event *fyne.ScrollEvent) {
	v.apply(camera.Pan{DX: float64(event.Scrolled.DX), DY: float64(event.Scrolled.DY)})
}

// Dragged rotates the model with the arcball
func (v *View) Dragged(event *fyne.DragEvent) {
	if v.zoomDrag {
		return
	}
	last := event.Position.Subtract(event.Dragged)
	v.apply(camera.ArcballDrag{
		LastX:    float64(last.X),
		LastY:    float64(last.Y),
		CurrentX: float64(event.Position.X),
		CurrentY: float64(event.Position.Y),
	})
}

// DragEnd is required by fyne.Draggable
func (v *View) DragEnd() {}

// Tapped reports the data point under the pointer
func (v *View) Tapped(event *fyne.PointEvent) {
	v.pick(event.Position)
}

// DoubleTapped centres the view on the data under the pointer
func (v *View) DoubleTapped(event *fyne.PointEvent) {
	v.apply(camera.ClickPan{X: float64(event.Position.X), Y: float64(event.Position.Y)})
}

// TappedSecondary is required by fyne.SecondaryTappable; a secondary click
// without motion does nothing.
func (v *View) TappedSecondary(*fyne.PointEvent) {}

// MouseDown starts a zoom drag for the secondary button
func (v *View) MouseDown(event *desktop.MouseEvent) {
	if event.Button == desktop.MouseButtonSecondary {
		v.zoomDrag = true
		v.lastMouse = event.Position
	}
}

// MouseUp ends a zoom drag
func (v *View) MouseUp(*desktop.MouseEvent) {
	v.zoomDrag = false
}

// MouseIn is required by desktop.Hoverable
func (v *View) MouseIn(*desktop.MouseEvent) {}

// MouseMoved zooms while the secondary button is held
func (v *View) MouseMoved(event *desktop.MouseEvent) {
	if !v.zoomDrag {
		return
	}
	dy := event.Position.Y - v.lastMouse.Y
	v.lastMouse = event.Position
	v.apply(camera.ZoomDrag{DY: float64(dy)})
}

// MouseOut cancels a zoom drag that leaves the view
func (v *View) MouseOut() {
	v.zoomDrag = false
}

// TypedRune handles the keyboard shortcuts and reports whether the rune was used
func (v *View) TypedRune(r rune) bool {
	switch r {
	case '+', '=':
		v.apply(camera.Zoom{Factor: zoomStep})
	case '-':
		v.apply(camera.Zoom{Factor: 1 / zoomStep})
	case '[':
		v.apply(camera.Twist{Angle: -twistStep})
	case ']':
		v.apply(camera.Twist{Angle: twistStep})
	case 'h':
		v.apply(camera.Reset{})
	case 'n':
		v.SetDataset(nil)
	case 'e':
		v.options.Edges = !v.options.Edges
		v.redraw()
	case 'b':
		v.options.BoundingBox = !v.options.BoundingBox
		v.redraw()
	default:
		return false
	}
	return true
}

func (v *View) apply(cmd camera.Command) {
	if v.controller.Apply(cmd) {
		v.redraw()
	}
}

func (v *View) redraw() {
	v.raster.Refresh()
	v.report(v.Status())
}

func (v *View) pick(pos fyne.Position) {
	point, err := v.controller.Pick(float64(pos.X), float64(pos.Y))
	if err != nil {
		v.log.Debug("pick failed", "error", err)
		return
	}
	if v.dataset == nil {
		v.report(fmt.Sprintf("picked %s", formatPoint(point)))
		return
	}
	status := fmt.Sprintf("picked %s", formatPoint(v.dataset.Extents.Denormalize(point)))
	if vertex, distance, ok := analysis.NearestVertex(v.dataset, point); ok {
		status += fmt.Sprintf(" | nearest vertex %s at %.3f", formatPoint(vertex), distance)
	}
	v.report(status)
}

// Status describes the current view in one line
func (v *View) Status() string {
	fov := mgl64.RadToDeg(v.controller.State().FieldOfView)
	if v.dataset == nil {
		return fmt.Sprintf("no dataset | fov %.1f°", fov)
	}
	depth, err := v.controller.DepthAtCentre(v.dataset.Extents)
	if err != nil {
		return fmt.Sprintf("%s | fov %.1f° | depth n/a", v.dataset.Name, fov)
	}
	return fmt.Sprintf("%s | fov %.1f° | depth %.3f", v.dataset.Name, fov, depth)
}

func (v *View) report(status string) {
	if v.onStatus != nil {
		v.onStatus(status)
	}
}

func (v *View) draw(width, height int) image.Image {
	img, err := render.Rasterize(v.dataset, v.controller.Constants(), width, height, v.options)
	if err != nil {
		v.log.Debug("draw skipped", "error", err)
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	return img
}

func formatPoint(p mgl64.Vec3) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", p.X(), p.Y(), p.Z())
}
