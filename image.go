package hog

import (
	"image"
	"image/color"
)

// Image is a row-major array of pixel intensities with shape [H, W] for
// grayscale or [H, W, 3] for channel-last RGB. Extract only reads it.
type Image struct {
	Shape []int
	Data  []float64
}

// NewGray wraps height*width intensities. data is not copied.
func NewGray(height, width int, data []float64) Image {
	return Image{Shape: []int{height, width}, Data: data}
}

// NewRGB wraps height*width*3 interleaved R, G, B values. data is not copied.
func NewRGB(height, width int, data []float64) Image {
	return Image{Shape: []int{height, width, 3}, Data: data}
}

// Height returns the number of rows, or 0 for an empty shape.
func (img Image) Height() int {
	if len(img.Shape) == 0 {
		return 0
	}
	return img.Shape[0]
}

// Width returns the number of columns, or 0 if the shape has no second axis.
func (img Image) Width() int {
	if len(img.Shape) < 2 {
		return 0
	}
	return img.Shape[1]
}

// Channels returns 3 for RGB shapes and 1 otherwise.
func (img Image) Channels() int {
	if len(img.Shape) == 3 {
		return img.Shape[2]
	}
	return 1
}

// FromImage converts a decoded image into an Image with values in 0..255.
// Gray images produce a 2-D array, everything else a 3-D RGB array.
// Alpha is ignored.
func FromImage(src image.Image) Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	switch src.(type) {
	case *image.Gray, *image.Gray16:
		data := make([]float64, w*h)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				g := color.Gray16Model.Convert(src.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray16)
				data[y*w+x] = float64(g.Y) / 257
			}
		}
		return NewGray(h, w, data)
	}

	data := make([]float64, w*h*3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := src.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			i := 3 * (y*w + x)
			data[i] = float64(r) / 257
			data[i+1] = float64(g) / 257
			data[i+2] = float64(b) / 257
		}
	}
	return NewRGB(h, w, data)
}
