package media

import (
	"image"
	"image/draw"
)

// Frame is a decoded video frame as a tightly packed RGBA byte buffer.
// Alpha is carried but ignored by all heuristics.
type Frame struct {
	Width  int
	Height int
	Pix    []uint8 // RGBA, 4 bytes per pixel, row-major
}

// PixelCount returns the number of pixels in the frame.
func (f *Frame) PixelCount() int {
	if f == nil {
		return 0
	}
	return f.Width * f.Height
}

// RGBAt returns the red, green, and blue components of pixel i.
func (f *Frame) RGBAt(i int) (r, g, b uint8) {
	offset := i * 4
	return f.Pix[offset], f.Pix[offset+1], f.Pix[offset+2]
}

// NewFrame allocates a zeroed (black, opaque) frame.
func NewFrame(width, height int) *Frame {
	f := &Frame{Width: width, Height: height, Pix: make([]uint8, width*height*4)}
	for i := 3; i < len(f.Pix); i += 4 {
		f.Pix[i] = 0xff
	}
	return f
}

// FrameFromImage converts any image into a packed RGBA frame.
func FrameFromImage(img image.Image) *Frame {
	bounds := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	return &Frame{Width: bounds.Dx(), Height: bounds.Dy(), Pix: rgba.Pix}
}
