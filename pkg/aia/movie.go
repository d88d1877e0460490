package aia

import (
	"fmt"
	"image"
	"math"

	"solarcube/internal/models"
	"solarcube/pkg/render"
)

// movieOpts holds the optional animation parameters.
type movieOpts struct {
	timestamps []string
	aarpID     string
	label      string
	fps        int
	plot       plotOpts
}

// MovieOption configures MakeMovie.
type MovieOption func(*movieOpts)

// WithTimestamps attaches one timestamp string per frame. Timestamps enable
// the per-frame title when an AARP id and label are also supplied.
func WithTimestamps(ts []string) MovieOption {
	return func(o *movieOpts) { o.timestamps = ts }
}

// WithAARPID sets the AARP region identifier shown in frame titles.
func WithAARPID(id string) MovieOption {
	return func(o *movieOpts) { o.aarpID = id }
}

// WithMovieLabel sets the extra label shown in frame titles.
func WithMovieLabel(label string) MovieOption {
	return func(o *movieOpts) { o.label = label }
}

// WithFPS sets the animation frame rate. The default is 1 frame per second.
func WithFPS(fps int) MovieOption {
	return func(o *movieOpts) { o.fps = fps }
}

// WithMovieWindow fixes the display intensity window in the square-root
// scaled domain. Without it the window spans the first frame's scaled range.
func WithMovieWindow(vmin, vmax float64) MovieOption {
	return func(o *movieOpts) {
		o.plot.vmin = &vmin
		o.plot.vmax = &vmax
	}
}

// MakeMovie writes the stack as an animated GIF at path using the passband's
// colormap. Negative values are clamped to zero and intensities are
// square-root scaled for display contrast. All frames share one intensity
// window so brightness is comparable across the sequence.
func MakeMovie(path string, s models.Stack, passband int, opts ...MovieOption) error {
	o := movieOpts{fps: 1}
	for _, opt := range opts {
		opt(&o)
	}

	if s.Frames < 1 {
		return fmt.Errorf("%w: no frames to animate", ErrInvalidInput)
	}
	if o.timestamps != nil && len(o.timestamps) != s.Frames {
		return fmt.Errorf("%w: %d timestamps for %d frames", ErrInvalidInput, len(o.timestamps), s.Frames)
	}

	pal, err := Colormap(passband)
	if err != nil {
		return err
	}

	// Clamp negatives and apply sqrt scaling into a scratch frame reused
	// across the sequence.
	scaled := models.NewFrame(s.Height, s.Width)
	scale := func(i int) models.Frame {
		src := s.Frame(i)
		for j, v := range src.Data {
			if v < 0 {
				v = 0
			}
			scaled.Data[j] = math.Sqrt(v)
		}
		return scaled
	}

	window, err := o.plot.window(scale(0))
	if err != nil {
		return err
	}

	frames := make([]*image.Paletted, s.Frames)
	for i := 0; i < s.Frames; i++ {
		frames[i] = render.RasterizePaletted(scale(i), pal, window)
		if title := o.title(i, passband); title != "" {
			render.Caption(frames[i], title)
		}
	}

	return render.WriteGIF(path, frames, o.fps)
}

// title builds the per-frame title. Matching the reference behavior, a title
// is only produced when timestamps, an AARP id, and a label are all present.
func (o *movieOpts) title(i, passband int) string {
	if o.timestamps == nil || o.aarpID == "" || o.label == "" {
		return ""
	}
	return fmt.Sprintf("%s_AARP_Id:%s_Filter:%d_label:%s", o.timestamps[i], o.aarpID, passband, o.label)
}
