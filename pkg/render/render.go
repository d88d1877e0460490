// Package render is the raster surface for the toolkit. It converts float64
// frames into images through a palette and an intensity window, composites
// grid layouts onto a single canvas, and writes PNG stills and animated GIF
// sequences to disk.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"solarcube/internal/models"
	"solarcube/pkg/layout"
)

// ErrInvalidInput is returned for unusable rendering parameters, such as an
// empty window or an out-of-range percentile.
var ErrInvalidInput = errors.New("render: invalid input")

// Window is the intensity range mapped onto a palette. Values at or below
// Min take the first palette entry, values at or above Max take the last.
type Window struct {
	Min float64
	Max float64
}

// WindowFromFrame derives a window spanning the frame's full value range.
func WindowFromFrame(f models.Frame) Window {
	if len(f.Data) == 0 {
		return Window{}
	}
	return Window{
		Min: floats.Min(f.Data),
		Max: floats.Max(f.Data),
	}
}

// PercentileCeiling returns the display-intensity ceiling at the given
// percentile (0-100) of the frame's own pixel distribution. Values are
// interpolated linearly between order statistics.
func PercentileCeiling(f models.Frame, pct float64) (float64, error) {
	if pct < 0 || pct > 100 {
		return 0, fmt.Errorf("%w: percentile must be in [0,100], got %g", ErrInvalidInput, pct)
	}
	if len(f.Data) == 0 {
		return 0, fmt.Errorf("%w: empty frame", ErrInvalidInput)
	}

	sorted := make([]float64, len(f.Data))
	copy(sorted, f.Data)
	sort.Float64s(sorted)

	return stat.Quantile(pct/100, stat.LinInterp, sorted, nil), nil
}

// index maps a value into a palette index through the window.
func (w Window) index(v float64, n int) int {
	if w.Max <= w.Min {
		return 0
	}
	t := (v - w.Min) / (w.Max - w.Min)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return int(t * float64(n-1))
}

// Rasterize converts a frame to an RGBA image using the palette and window.
// The frame's row 0 is drawn at the bottom of the image, matching the
// lower-origin convention of solar imaging displays.
func Rasterize(f models.Frame, pal color.Palette, w Window) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		dstY := f.Height - 1 - y
		for x := 0; x < f.Width; x++ {
			img.Set(x, dstY, pal[w.index(f.At(y, x), len(pal))])
		}
	}
	return img
}

// RasterizePaletted is the paletted-image counterpart of Rasterize, used for
// GIF animation frames where the palette doubles as the GIF color table.
func RasterizePaletted(f models.Frame, pal color.Palette, w Window) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, f.Width, f.Height), pal)
	for y := 0; y < f.Height; y++ {
		dstY := f.Height - 1 - y
		for x := 0; x < f.Width; x++ {
			img.SetColorIndex(x, dstY, uint8(w.index(f.At(y, x), len(pal))))
		}
	}
	return img
}

// CellStyle is the per-image styling resolved by a StyleFunc: which palette
// to use and which intensity window to apply.
type CellStyle struct {
	Palette color.Palette
	Window  Window
}

// StyleFunc resolves the styling for image index i. It receives the frame so
// resolvers can derive windows from the image's own pixels (e.g. percentile
// ceilings).
type StyleFunc func(i int, f models.Frame) (CellStyle, error)

// FixedStyle returns a StyleFunc that applies one palette to every cell and
// derives each cell's window from its own value range.
func FixedStyle(pal color.Palette) StyleFunc {
	return func(_ int, f models.Frame) (CellStyle, error) {
		return CellStyle{Palette: pal, Window: WindowFromFrame(f)}, nil
	}
}

// ComposeGrid renders every frame of the stack into its layout cell and
// returns the assembled canvas. Gap pixels remain at the background color
// (black). The layout must have been computed for the stack's shape.
func ComposeGrid(s models.Stack, lay *layout.Layout, style StyleFunc) (*image.RGBA, error) {
	if len(lay.Cells) != s.Frames {
		return nil, fmt.Errorf("%w: layout has %d cells for %d frames",
			ErrInvalidInput, len(lay.Cells), s.Frames)
	}
	if lay.CellHeight != s.Height || lay.CellWidth != s.Width {
		return nil, fmt.Errorf("%w: layout cell shape %dx%d does not match frame shape %dx%d",
			ErrInvalidInput, lay.CellHeight, lay.CellWidth, s.Height, s.Width)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, lay.TotalWidthPx, lay.TotalHeightPx))
	for i := 0; i < canvas.Bounds().Dx()*canvas.Bounds().Dy(); i++ {
		canvas.Pix[i*4+3] = 255
	}

	for i := 0; i < s.Frames; i++ {
		frame := s.Frame(i)
		cs, err := style(i, frame)
		if err != nil {
			return nil, fmt.Errorf("resolving style for image %d: %w", i, err)
		}

		cell := Rasterize(frame, cs.Palette, cs.Window)
		x0, y0 := lay.CellOrigin(i)
		for y := 0; y < s.Height; y++ {
			for x := 0; x < s.Width; x++ {
				canvas.Set(x0+x, y0+y, cell.At(x, y))
			}
		}
	}

	return canvas, nil
}
