// Package aia plots SDO/AIA (Solar Dynamics Observatory / Atmospheric
// Imaging Assembly) image data with the mission color table matching each
// wavelength passband. It composes the grid layout engine and the raster
// surface into single-image plots, passband grids, and frame animations.
package aia

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"solarcube/internal/models"
	"solarcube/pkg/colormap"
	"solarcube/pkg/layout"
	"solarcube/pkg/render"
)

// ErrInvalidInput is returned for unusable plot parameters, such as a label
// count that does not match the image count.
var ErrInvalidInput = errors.New("aia: invalid input")

// Colormap resolves the palette for an AIA passband wavelength (e.g. 171).
// Unknown passbands fail with the colormap package's lookup error.
func Colormap(passband int) (color.Palette, error) {
	return colormap.Get(fmt.Sprintf("sdoaia%d", passband))
}

// plotOpts holds the optional intensity scaling parameters shared by the
// plotting entry points.
type plotOpts struct {
	vmin           *float64
	vmax           *float64
	vmaxPercentile *float64
}

// PlotOption configures intensity scaling for a plot.
type PlotOption func(*plotOpts)

// WithVMin fixes the lower end of the intensity window.
func WithVMin(v float64) PlotOption {
	return func(o *plotOpts) { o.vmin = &v }
}

// WithVMax fixes the display-intensity ceiling explicitly.
func WithVMax(v float64) PlotOption {
	return func(o *plotOpts) { o.vmax = &v }
}

// WithVMaxPercentile derives each image's ceiling from the given percentile
// (0-100) of that image's own pixel values. An explicit WithVMax takes
// precedence.
func WithVMaxPercentile(pct float64) PlotOption {
	return func(o *plotOpts) { o.vmaxPercentile = &pct }
}

// window resolves the intensity window for one frame from the options,
// falling back to the frame's own value range.
func (o *plotOpts) window(f models.Frame) (render.Window, error) {
	w := render.WindowFromFrame(f)
	if o.vmin != nil {
		w.Min = *o.vmin
	}
	switch {
	case o.vmax != nil:
		w.Max = *o.vmax
	case o.vmaxPercentile != nil:
		ceil, err := render.PercentileCeiling(f, *o.vmaxPercentile)
		if err != nil {
			return render.Window{}, err
		}
		w.Max = ceil
	}
	return w, nil
}

// PlotImage renders a single AIA image with the colormap for its passband.
func PlotImage(f models.Frame, passband int, opts ...PlotOption) (*image.RGBA, error) {
	var o plotOpts
	for _, opt := range opts {
		opt(&o)
	}

	pal, err := Colormap(passband)
	if err != nil {
		return nil, err
	}

	w, err := o.window(f)
	if err != nil {
		return nil, err
	}

	return render.Rasterize(f, pal, w), nil
}

// PlotImageGrid renders a stack of AIA images into a row/column grid, one
// cell per image, each styled with the colormap of its own passband. The
// passband list must match the image count.
func PlotImageGrid(s models.Stack, passbands []int, cols, gap int, dpi float64, opts ...PlotOption) (*image.RGBA, error) {
	if len(passbands) != s.Frames {
		return nil, fmt.Errorf("%w: %d passbands for %d images", ErrInvalidInput, len(passbands), s.Frames)
	}

	var o plotOpts
	for _, opt := range opts {
		opt(&o)
	}

	lay, err := layout.ComputeForStack(s, cols, gap, dpi)
	if err != nil {
		return nil, err
	}

	return render.ComposeGrid(s, lay, func(i int, f models.Frame) (render.CellStyle, error) {
		pal, err := Colormap(passbands[i])
		if err != nil {
			return render.CellStyle{}, err
		}
		w, err := o.window(f)
		if err != nil {
			return render.CellStyle{}, err
		}
		return render.CellStyle{Palette: pal, Window: w}, nil
	})
}
