package cube

import (
	"errors"
	"fmt"
	"image"

	"solarcube/internal/models"
	"solarcube/pkg/render"
)

// ErrInvalidStart is returned when a requested start index is negative.
var ErrInvalidStart = errors.New("cube: invalid start index")

// State is the viewer lifecycle state.
type State int

const (
	// Unstarted means no cursor exists yet; the next Advance creates one.
	Unstarted State = iota

	// Active means a cursor exists and has frames left to deliver.
	Active

	// Exhausted means the cursor delivered its last frame; further Advance
	// calls report exhaustion without recreating the cursor.
	Exhausted
)

// String returns the state name for diagnostics.
func (s State) String() string {
	switch s {
	case Unstarted:
		return "unstarted"
	case Active:
		return "active"
	case Exhausted:
		return "exhausted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// cursor is a forward-only pointer into the stack, starting at a fixed frame
// index and advancing exactly one frame per request. It is single-pass and
// cannot be rewound or recreated by the viewer that owns it.
type cursor struct {
	stack models.Stack
	base  int
	pos   int
}

// next delivers the cursor-relative index and frame at the current position,
// or ok=false once the stack is consumed.
func (c *cursor) next() (int, models.Frame, bool) {
	abs := c.base + c.pos
	if abs >= c.stack.Frames {
		return 0, models.Frame{}, false
	}
	i := c.pos
	c.pos++
	return i, c.stack.Frame(abs), true
}

// RenderFunc renders one retrieved frame. Advance invokes it with each frame
// it delivers when supplied through WithRender.
type RenderFunc func(models.Frame) error

// advanceOpts collects the per-call options of Advance.
type advanceOpts struct {
	start    int
	hasStart bool
	render   RenderFunc
}

// AdvanceOption configures a single Advance call.
type AdvanceOption func(*advanceOpts)

// WithStart requests that a fresh cursor begin at frame index i. The request
// is only honored while the viewer is Unstarted: once a cursor exists the
// index is ignored and the cursor continues from its current position. This
// mirrors the reference behavior; restarting requires a new viewer.
func WithStart(i int) AdvanceOption {
	return func(o *advanceOpts) {
		o.start = i
		o.hasStart = true
	}
}

// WithRender supplies a custom renderer for the retrieved frame. Without it,
// Advance renders the frame with the cube's palette and stores the result
// for LastImage.
func WithRender(fn RenderFunc) AdvanceOption {
	return func(o *advanceOpts) { o.render = fn }
}

// Viewer steps through the frames of a cube one Advance call at a time.
// It is not safe for concurrent use; a single caller drives it sequentially.
type Viewer struct {
	cube      *Cube
	state     State
	cur       *cursor
	startAt   int
	lastImage *image.RGBA
}

// NewViewer creates a viewer in the Unstarted state over the cube's data.
func (c *Cube) NewViewer() *Viewer {
	return &Viewer{cube: c}
}

// State reports the viewer's current lifecycle state.
func (v *Viewer) State() State {
	return v.state
}

// LastImage returns the most recent default-render result, or nil if every
// Advance so far used a custom renderer (or none succeeded).
func (v *Viewer) LastImage() *image.RGBA {
	return v.lastImage
}

// Advance retrieves the next frame from the cursor, creating the cursor on
// first use. It returns the frame and ok=true on success; once the cursor is
// exhausted it logs a diagnostic and returns ok=false with a zero frame.
// A start index supplied while a cursor already exists has no effect.
func (v *Viewer) Advance(opts ...AdvanceOption) (models.Frame, bool, error) {
	var o advanceOpts
	for _, opt := range opts {
		opt(&o)
	}

	switch v.state {
	case Exhausted:
		v.cube.logger.Info("frame cursor exhausted")
		return models.Frame{}, false, nil

	case Unstarted:
		start := 0
		if o.hasStart {
			if o.start < 0 {
				return models.Frame{}, false, fmt.Errorf("%w: %d", ErrInvalidStart, o.start)
			}
			start = o.start
		}
		v.startAt = start
		v.cur = &cursor{stack: v.cube.stack, base: start}
		v.state = Active

	case Active:
		if o.hasStart {
			v.cube.logger.Debug("start index ignored; cursor already active",
				"requested", o.start, "start", v.startAt)
		}
	}

	i, frame, ok := v.cur.next()
	if !ok {
		v.state = Exhausted
		v.cube.logger.Info("frame cursor exhausted")
		return models.Frame{}, false, nil
	}

	v.cube.logger.Debug("advanced frame", "internal", i, "start", v.startAt)

	if o.render != nil {
		if err := o.render(frame); err != nil {
			return frame, true, fmt.Errorf("rendering frame %d: %w", i, err)
		}
		return frame, true, nil
	}

	v.lastImage = render.Rasterize(frame, v.cube.palette, render.WindowFromFrame(frame))
	return frame, true, nil
}
