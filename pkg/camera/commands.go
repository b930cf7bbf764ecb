package camera

// Command is an input event already mapped to a camera operation.
// Input layers translate toolkit events into commands and hand them to Apply.
type Command interface {
	apply(c *Controller) bool
}

// Pan is a scroll or two-finger swipe, in screen units
type Pan struct {
	DX, DY      float64
	Sensitivity float64
}

// Zoom is a pinch magnification factor; 1 means no change
type Zoom struct {
	Factor float64
}

// ZoomDrag is a vertical secondary-button drag, in pixels
type ZoomDrag struct {
	DY float64
}

// Twist is a rotation gesture about the viewing direction, in radians
type Twist struct {
	Angle float64
}

// ArcballDrag is a primary-button drag between two viewport points
type ArcballDrag struct {
	LastX, LastY       float64
	CurrentX, CurrentY float64
}

// ClickPan recentres the view on the data under a viewport point
type ClickPan struct {
	X, Y float64
}

// Reset returns to the home view
type Reset struct{}

// NewDocument resets the view and drops the current dataset
type NewDocument struct{}

// Resize reports a new viewport size
type Resize struct {
	Width, Height float64
}

func (p Pan) apply(c *Controller) bool {
	sensitivity := p.Sensitivity
	if sensitivity == 0 {
		sensitivity = 1
	}
	return c.Pan(p.DX, p.DY, sensitivity)
}

func (z Zoom) apply(c *Controller) bool { return c.Zoom(z.Factor) }
func (z ZoomDrag) apply(c *Controller) bool { return c.ZoomDrag(z.DY) }
func (t Twist) apply(c *Controller) bool { return c.Twist(t.Angle) }
func (p ClickPan) apply(c *Controller) bool { return c.ClickPan(p.X, p.Y) }
func (Reset) apply(c *Controller) bool { return c.Reset() }
func (NewDocument) apply(c *Controller) bool { return c.NewDocument() }
func (r Resize) apply(c *Controller) bool { return c.Resize(r.Width, r.Height) }

func (a ArcballDrag) apply(c *Controller) bool {
	return c.Arcball(a.LastX, a.LastY, a.CurrentX, a.CurrentY)
}

// Apply runs a command and reports whether a redraw is due
func (c *Controller) Apply(cmd Command) bool {
	if cmd == nil {
		return false
	}
	return cmd.apply(c)
}
