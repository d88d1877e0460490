package render

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// SavePNG writes the image to path as a PNG file.
func SavePNG(path string, img image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// WriteGIF writes a sequence of paletted frames to path as an animated GIF
// looping forever, with the frame rate expressed in frames per second.
func WriteGIF(path string, frames []*image.Paletted, fps int) error {
	if len(frames) == 0 {
		return fmt.Errorf("%w: no frames to write", ErrInvalidInput)
	}
	if fps < 1 {
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalidInput, fps)
	}

	// GIF delays are in hundredths of a second per frame.
	delay := 100 / fps
	if delay < 1 {
		delay = 1
	}

	anim := &gif.GIF{
		Image: frames,
		Delay: make([]int, len(frames)),
	}
	for i := range anim.Delay {
		anim.Delay[i] = delay
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return gif.EncodeAll(file, anim)
}

// Caption draws a single line of text near the top-left corner of the image
// using the fixed-width bitmap face. The text is drawn in the palette's
// brightest available approximation of white.
func Caption(img *image.Paletted, text string) {
	if text == "" {
		return
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(2, basicfont.Face7x13.Height),
	}
	d.DrawString(text)
}
