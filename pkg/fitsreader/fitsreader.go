// Package fitsreader reads single-image FITS files into in-memory frames.
//
// Each read copies the pixel data into a freshly allocated frame and closes
// the underlying file before returning, on success and on error alike, so
// reading many files in a loop cannot exhaust file descriptors.
package fitsreader

import (
	"errors"
	"fmt"
	"os"

	"github.com/astrogo/fitsio"

	"solarcube/internal/models"
)

// ErrNotImage is returned when the primary HDU of a file does not hold a
// 2D image.
var ErrNotImage = errors.New("fitsreader: primary HDU is not a 2D image")

// ReadImage reads the primary HDU of the FITS file at path and returns its
// pixel data as a float64 frame. Integer pixel formats are converted to
// float64; the caller owns the returned data outright.
func ReadImage(path string) (models.Frame, error) {
	file, err := os.Open(path)
	if err != nil {
		return models.Frame{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer file.Close()

	fit, err := fitsio.Open(file)
	if err != nil {
		return models.Frame{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	defer fit.Close()

	hdu := fit.HDU(0)
	img, ok := hdu.(fitsio.Image)
	if !ok {
		return models.Frame{}, fmt.Errorf("%w: %s", ErrNotImage, path)
	}

	hdr := img.Header()
	axes := hdr.Axes()
	if len(axes) < 2 {
		return models.Frame{}, fmt.Errorf("%w: %s has %d axes", ErrNotImage, path, len(axes))
	}
	// Degenerate trailing axes of length 1 are common in single-image files.
	for _, n := range axes[2:] {
		if n != 1 {
			return models.Frame{}, fmt.Errorf("%w: %s has non-trivial axis of length %d", ErrNotImage, path, n)
		}
	}

	// NAXIS1 is the fastest-varying axis, i.e. the image width.
	width, height := axes[0], axes[1]
	frame := models.NewFrame(height, width)

	n := width * height
	switch hdr.Bitpix() {
	case 8:
		raw := make([]int8, n)
		if err := img.Read(&raw); err != nil {
			return models.Frame{}, fmt.Errorf("reading pixels from %s: %w", path, err)
		}
		for i, v := range raw {
			frame.Data[i] = float64(v)
		}
	case 16:
		raw := make([]int16, n)
		if err := img.Read(&raw); err != nil {
			return models.Frame{}, fmt.Errorf("reading pixels from %s: %w", path, err)
		}
		for i, v := range raw {
			frame.Data[i] = float64(v)
		}
	case 32:
		raw := make([]int32, n)
		if err := img.Read(&raw); err != nil {
			return models.Frame{}, fmt.Errorf("reading pixels from %s: %w", path, err)
		}
		for i, v := range raw {
			frame.Data[i] = float64(v)
		}
	case 64:
		raw := make([]int64, n)
		if err := img.Read(&raw); err != nil {
			return models.Frame{}, fmt.Errorf("reading pixels from %s: %w", path, err)
		}
		for i, v := range raw {
			frame.Data[i] = float64(v)
		}
	case -32:
		raw := make([]float32, n)
		if err := img.Read(&raw); err != nil {
			return models.Frame{}, fmt.Errorf("reading pixels from %s: %w", path, err)
		}
		for i, v := range raw {
			frame.Data[i] = float64(v)
		}
	case -64:
		if err := img.Read(&frame.Data); err != nil {
			return models.Frame{}, fmt.Errorf("reading pixels from %s: %w", path, err)
		}
	default:
		return models.Frame{}, fmt.Errorf("%w: %s has unsupported BITPIX %d", ErrNotImage, path, hdr.Bitpix())
	}

	return frame, nil
}

// ReadImageStack reads one frame from each path, in order, into a single
// stack. Every file must hold the same image shape; the first mismatch fails
// the whole read with the offending path in the error.
func ReadImageStack(paths []string) (models.Stack, error) {
	if len(paths) == 0 {
		return models.Stack{}, fmt.Errorf("fitsreader: no paths given")
	}

	frames := make([]models.Frame, 0, len(paths))
	for _, path := range paths {
		frame, err := ReadImage(path)
		if err != nil {
			return models.Stack{}, err
		}
		if len(frames) > 0 {
			first := frames[0]
			if frame.Height != first.Height || frame.Width != first.Width {
				return models.Stack{}, fmt.Errorf("fitsreader: %s has shape %dx%d, want %dx%d",
					path, frame.Height, frame.Width, first.Height, first.Width)
			}
		}
		frames = append(frames, frame)
	}

	return models.StackFromFrames(frames), nil
}
