// Package preprocess validates raw pixel arrays and turns them into
// float64 intensity planes for the gradient stage.
package preprocess

import "math"

// ColorMode selects how a 3-channel image is reduced before gradients are taken.
type ColorMode int

const (
	// ColorMean averages the three channels with equal weights.
	ColorMean ColorMode = iota
	// ColorLuma uses ITU-R BT.601 luma weights.
	ColorLuma
	// ColorMaxGradient keeps all three channels; the gradient stage picks
	// the strongest channel per pixel.
	ColorMaxGradient
)

// BT.601 luma coefficients
const (
	LumaR = 0.299
	LumaG = 0.587
	LumaB = 0.114
)

// Plane is a single channel of Width*Height values stored row-major.
type Plane struct {
	Width  int
	Height int
	Pix    []float64
}

// NewPlane allocates a zeroed plane.
func NewPlane(width, height int) Plane {
	return Plane{Width: width, Height: height, Pix: make([]float64, width*height)}
}

// At returns the value at column x, row y.
func (p Plane) At(x, y int) float64 {
	return p.Pix[y*p.Width+x]
}

// ValidateShape checks that shape describes a [H, W] or [H, W, 3] array
// holding exactly n values.
func ValidateShape(shape []int, n int) error {
	if len(shape) != 2 && len(shape) != 3 {
		return Invalid("shape", "image must have 2 or 3 dimensions, got %d", len(shape))
	}
	if len(shape) == 3 && shape[2] != 3 {
		return Invalid("shape", "RGB images need 3 channels in the last dimension, got %d", shape[2])
	}

	total := 1
	for i, d := range shape {
		if d < 0 {
			return Invalid("shape", "dimension %d is negative (%d)", i, d)
		}
		if d != 0 && total > math.MaxInt/d {
			return Invalid("shape", "shape %v has more elements than fit in an int", shape)
		}
		total *= d
	}
	if total != n {
		return Invalid("data", "shape %v needs %d values, got %d", shape, total, n)
	}
	return nil
}

// Planes validates the array and returns the planes handed to the gradient
// stage: one intensity plane, or three channel planes for ColorMaxGradient.
// data is read-only; the returned planes never alias it.
func Planes(shape []int, data []float64, mode ColorMode) ([]Plane, error) {
	if err := ValidateShape(shape, len(data)); err != nil {
		return nil, err
	}

	height, width := shape[0], shape[1]
	if len(shape) == 2 {
		p := NewPlane(width, height)
		copy(p.Pix, data)
		return []Plane{p}, nil
	}

	if mode == ColorMaxGradient {
		return splitChannels(width, height, data), nil
	}

	p := NewPlane(width, height)
	for i := range p.Pix {
		p.Pix[i] = Intensity(data[3*i], data[3*i+1], data[3*i+2], mode)
	}
	return []Plane{p}, nil
}

// Intensity converts one RGB triple to a single value.
func Intensity(r, g, b float64, mode ColorMode) float64 {
	if mode == ColorLuma {
		return LumaR*r + LumaG*g + LumaB*b
	}
	return (r + g + b) / 3
}

func splitChannels(width, height int, data []float64) []Plane {
	planes := []Plane{
		NewPlane(width, height),
		NewPlane(width, height),
		NewPlane(width, height),
	}
	for i := 0; i < width*height; i++ {
		planes[0].Pix[i] = data[3*i]
		planes[1].Pix[i] = data[3*i+1]
		planes[2].Pix[i] = data[3*i+2]
	}
	return planes
}
