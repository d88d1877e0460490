package models

// Frame represents a single 2D image as float64 pixel values in row-major
// order. Row 0 is the first row of the underlying data; renderers decide
// whether to draw it at the top or bottom of the output.
type Frame struct {
	// Data is the pixel data as a 1D array in row-major order
	Data []float64

	// Height is the number of rows in the frame
	Height int

	// Width is the number of columns in the frame
	Width int
}

// NewFrame allocates a zero-filled frame with the given dimensions.
func NewFrame(height, width int) Frame {
	return Frame{
		Data:   make([]float64, height*width),
		Height: height,
		Width:  width,
	}
}

// At returns the pixel value at row y, column x.
func (f Frame) At(y, x int) float64 {
	return f.Data[y*f.Width+x]
}

// Set assigns the pixel value at row y, column x.
func (f Frame) Set(y, x int, v float64) {
	f.Data[y*f.Width+x] = v
}

// Stack represents an ordered sequence of equal-shaped frames stored as a
// single 1D array, analogous to a [frames, height, width] data cube.
type Stack struct {
	// Data is the cube data as a 1D array in frame-major, row-major order
	Data []float64

	// Frames is the number of frames in the stack
	Frames int

	// Height is the height of each frame in pixels
	Height int

	// Width is the width of each frame in pixels
	Width int
}

// NewStack allocates a zero-filled stack with the given dimensions.
func NewStack(frames, height, width int) Stack {
	return Stack{
		Data:   make([]float64, frames*height*width),
		Frames: frames,
		Height: height,
		Width:  width,
	}
}

// StackFromFrames packs equal-shaped frames into a contiguous stack.
// The frame data is copied, so the stack owns its storage exclusively.
func StackFromFrames(frames []Frame) Stack {
	if len(frames) == 0 {
		return Stack{}
	}
	h, w := frames[0].Height, frames[0].Width
	s := NewStack(len(frames), h, w)
	for i, f := range frames {
		copy(s.Data[i*h*w:(i+1)*h*w], f.Data)
	}
	return s
}

// Frame returns the i-th frame of the stack. The returned frame shares the
// stack's backing array; callers that need an independent copy should use
// FrameCopy.
func (s Stack) Frame(i int) Frame {
	size := s.Height * s.Width
	return Frame{
		Data:   s.Data[i*size : (i+1)*size],
		Height: s.Height,
		Width:  s.Width,
	}
}

// FrameCopy returns an independent copy of the i-th frame.
func (s Stack) FrameCopy(i int) Frame {
	f := NewFrame(s.Height, s.Width)
	copy(f.Data, s.Frame(i).Data)
	return f
}
