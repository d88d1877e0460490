// Package layout computes the placement geometry for tiling a sequence of
// equal-shaped images into a row/column grid with a fixed pixel gap.
//
// The computation is purely geometric: given the image shape, a column count,
// a gap and a target density (dots per inch), it produces one placement
// rectangle per image in normalized figure-fraction coordinates plus the
// overall canvas size in pixels and inches. No rendering happens here; the
// result is consumed by a compositor such as pkg/render.
package layout

import (
	"errors"
	"fmt"

	"solarcube/internal/models"
)

// ErrInvalidInput is returned when the layout inputs violate a precondition,
// such as a non-positive column count or mismatched frame shapes.
var ErrInvalidInput = errors.New("layout: invalid input")

// Rect is a placement rectangle in figure-fraction coordinates. All four
// fields are fractions of the total canvas in [0, 1], with Bottom measured
// from the bottom edge so that row 0 of the grid renders at the top.
type Rect struct {
	Left   float64
	Bottom float64
	Width  float64
	Height float64
}

// Layout is the result of a grid computation: the canvas extents and one
// placement rectangle per image, in row-major order (row = i / cols,
// col = i % cols).
type Layout struct {
	// Cols and Rows are the grid dimensions. Rows is ceil(n / cols).
	Cols int
	Rows int

	// CellHeight and CellWidth are the shared image dimensions in pixels.
	CellHeight int
	CellWidth  int

	// Gap is the pixel spacing between adjacent cells.
	Gap int

	// TotalWidthPx and TotalHeightPx are the canvas pixel extents:
	// cols*W + (cols-1)*gap by rows*H + (rows-1)*gap.
	TotalWidthPx  int
	TotalHeightPx int

	// WidthInches and HeightInches are the physical canvas size derived
	// from the pixel extents and the requested density.
	WidthInches  float64
	HeightInches float64

	// Cells holds the placement rectangle for each image index.
	Cells []Rect
}

// Compute builds the grid layout for n images of shape height x width,
// arranged into cols columns with a gap-pixel spacing, at the given density.
//
// When n is not a multiple of cols the final row's trailing cells are simply
// left unplaced; this is expected and not an error.
func Compute(n, height, width, cols, gap int, dpi float64) (*Layout, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: image count must be at least 1, got %d", ErrInvalidInput, n)
	}
	if height < 1 || width < 1 {
		return nil, fmt.Errorf("%w: image shape must be positive, got %dx%d", ErrInvalidInput, height, width)
	}
	if cols < 1 {
		return nil, fmt.Errorf("%w: column count must be positive, got %d", ErrInvalidInput, cols)
	}
	if gap < 0 {
		return nil, fmt.Errorf("%w: gap must be non-negative, got %d", ErrInvalidInput, gap)
	}
	if dpi <= 0 {
		return nil, fmt.Errorf("%w: dpi must be positive, got %g", ErrInvalidInput, dpi)
	}

	rows := (n + cols - 1) / cols
	totalW := cols*width + (cols-1)*gap
	totalH := rows*height + (rows-1)*gap

	lay := &Layout{
		Cols:          cols,
		Rows:          rows,
		CellHeight:    height,
		CellWidth:     width,
		Gap:           gap,
		TotalWidthPx:  totalW,
		TotalHeightPx: totalH,
		WidthInches:   float64(totalW) / dpi,
		HeightInches:  float64(totalH) / dpi,
		Cells:         make([]Rect, n),
	}

	for i := 0; i < n; i++ {
		row := i / cols
		col := i % cols

		// Bottom is flipped so that row 0 sits at the top of the canvas.
		lay.Cells[i] = Rect{
			Left:   float64(col*(width+gap)) / float64(totalW),
			Bottom: 1 - float64((row+1)*height+row*gap)/float64(totalH),
			Width:  float64(width) / float64(totalW),
			Height: float64(height) / float64(totalH),
		}
	}

	return lay, nil
}

// ComputeForStack builds the layout for all frames of a stack. The stack
// carries its shared shape by construction, so only the count and shape
// validations apply.
func ComputeForStack(s models.Stack, cols, gap int, dpi float64) (*Layout, error) {
	return Compute(s.Frames, s.Height, s.Width, cols, gap, dpi)
}

// ComputeForFrames builds the layout for a slice of individual frames,
// verifying that every frame shares the shape of the first. A mismatch is a
// usage error reported as ErrInvalidInput.
func ComputeForFrames(frames []models.Frame, cols, gap int, dpi float64) (*Layout, error) {
	if len(frames) == 0 {
		return nil, fmt.Errorf("%w: image count must be at least 1, got 0", ErrInvalidInput)
	}
	h, w := frames[0].Height, frames[0].Width
	for i, f := range frames {
		if f.Height != h || f.Width != w {
			return nil, fmt.Errorf("%w: frame %d has shape %dx%d, want %dx%d",
				ErrInvalidInput, i, f.Height, f.Width, h, w)
		}
	}
	return Compute(len(frames), h, w, cols, gap, dpi)
}

// CellOrigin returns the top-left pixel position of cell i on a canvas with
// a conventional top-left raster origin. This is the pixel-space counterpart
// of Cells[i] used by compositors.
func (l *Layout) CellOrigin(i int) (x, y int) {
	row := i / l.Cols
	col := i % l.Cols
	return col * (l.CellWidth + l.Gap), row * (l.CellHeight + l.Gap)
}
