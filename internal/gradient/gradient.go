// Package gradient computes per-pixel gradient magnitude and orientation
// using centered finite differences.
package gradient

import (
	"math"

	"github.com/ivlev/hog/internal/preprocess"
	"github.com/ivlev/hog/internal/system"
)

// Options controls gradient computation.
type Options struct {
	// Unsigned folds orientations into [0, π) instead of [0, 2π).
	Unsigned bool
	// ZeroPad treats neighbors outside the image as 0. Otherwise the
	// nearest edge pixel is replicated.
	ZeroPad bool
	Workers int
}

// Field holds magnitude and orientation for every pixel, row-major.
type Field struct {
	Width    int
	Height   int
	Mag      []float64
	Ori      []float64
	Unsigned bool
}

// Range returns the orientation period: π for unsigned fields, 2π otherwise.
func (f *Field) Range() float64 {
	if f.Unsigned {
		return math.Pi
	}
	return 2 * math.Pi
}

// Release hands the buffers back to the scratch pool. The field must not be
// used afterwards.
func (f *Field) Release() {
	system.PutFloats(f.Mag)
	system.PutFloats(f.Ori)
	f.Mag, f.Ori = nil, nil
}

// Orientation returns atan2(gy, gx) folded into [0, π) when unsigned,
// or [0, 2π) otherwise.
func Orientation(gx, gy float64, unsigned bool) float64 {
	theta := math.Atan2(gy, gx)
	if unsigned {
		if theta < 0 {
			theta += math.Pi
		}
		return math.Mod(theta, math.Pi)
	}
	if theta < 0 {
		theta += 2 * math.Pi
	}
	// -tiny + 2π rounds up to 2π
	if theta >= 2*math.Pi {
		theta = 0
	}
	return theta
}

// Compute derives the gradient field of planes. With several planes the
// channel with the largest magnitude wins at each pixel (ties keep the
// lower channel). All planes must share the same size.
func Compute(planes []preprocess.Plane, opts Options) *Field {
	width, height := planes[0].Width, planes[0].Height
	f := &Field{
		Width:    width,
		Height:   height,
		Mag:      system.GetFloats(width * height),
		Ori:      system.GetFloats(width * height),
		Unsigned: opts.Unsigned,
	}

	system.ParallelFor(height, opts.Workers, func(start, end int) {
		for y := start; y < end; y++ {
			for x := 0; x < width; x++ {
				bestMag, bestGx, bestGy := -1.0, 0.0, 0.0
				for _, p := range planes {
					gx, gy := Differences(p, x, y, opts.ZeroPad)
					mag := math.Hypot(gx, gy)
					if mag > bestMag {
						bestMag, bestGx, bestGy = mag, gx, gy
					}
				}
				i := y*width + x
				f.Mag[i] = bestMag
				f.Ori[i] = Orientation(bestGx, bestGy, opts.Unsigned)
			}
		}
	})

	return f
}

// Differences returns the centered differences I(x+1)-I(x-1) and
// I(y+1)-I(y-1) at (x, y) under the given edge policy.
func Differences(p preprocess.Plane, x, y int, zeroPad bool) (gx, gy float64) {
	gx = sample(p, x+1, y, zeroPad) - sample(p, x-1, y, zeroPad)
	gy = sample(p, x, y+1, zeroPad) - sample(p, x, y-1, zeroPad)
	return gx, gy
}

func sample(p preprocess.Plane, x, y int, zeroPad bool) float64 {
	if x < 0 || x >= p.Width || y < 0 || y >= p.Height {
		if zeroPad {
			return 0
		}
		x = min(max(x, 0), p.Width-1)
		y = min(max(y, 0), p.Height-1)
	}
	return p.At(x, y)
}
