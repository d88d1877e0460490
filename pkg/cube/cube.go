// Package cube wraps a 3D data cube (an ordered sequence of 2D frames) with
// visualization helpers: a montage of every frame and a stateful viewer that
// steps through frames one at a time.
//
// The viewer is a single-threaded, single-consumer object. Its cursor is a
// forward-only, single-pass pointer into the owned data; once exhausted it
// cannot be rewound, and a fresh viewer is required to restart iteration.
package cube

import (
	"image"
	"image/color"

	"github.com/charmbracelet/log"

	"solarcube/internal/models"
	"solarcube/pkg/colormap"
	"solarcube/pkg/layout"
	"solarcube/pkg/render"
)

// Cube owns a stack of equal-shaped frames together with the palette used
// for default rendering. Ownership is exclusive: no other component mutates
// the stack once it is handed to the cube.
type Cube struct {
	stack   models.Stack
	palette color.Palette
	logger  *log.Logger
}

// Option configures a Cube.
type Option func(*Cube)

// WithPalette overrides the default rendering palette.
func WithPalette(pal color.Palette) Option {
	return func(c *Cube) { c.palette = pal }
}

// WithLogger overrides the logger used for viewer diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(c *Cube) { c.logger = l }
}

// New wraps the stack in a Cube. The default palette is the package-wide
// default colormap and diagnostics go to the process default logger.
func New(stack models.Stack, opts ...Option) *Cube {
	c := &Cube{
		stack:   stack,
		palette: colormap.MustGet(colormap.Default),
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Frames returns the number of frames in the cube.
func (c *Cube) Frames() int {
	return c.stack.Frames
}

// Frame returns the i-th frame of the cube.
func (c *Cube) Frame(i int) models.Frame {
	return c.stack.Frame(i)
}

// Montage renders every frame of the cube into a single grid canvas with
// cols columns, a gap-pixel spacing, and the given density.
func (c *Cube) Montage(cols, gap int, dpi float64) (*image.RGBA, error) {
	lay, err := layout.ComputeForStack(c.stack, cols, gap, dpi)
	if err != nil {
		return nil, err
	}
	return render.ComposeGrid(c.stack, lay, render.FixedStyle(c.palette))
}
