package hog

import (
	"math"

	"github.com/ivlev/hog/internal/normalize"
	"github.com/ivlev/hog/internal/preprocess"
)

// ColorMode selects the RGB reduction rule.
type ColorMode string

const (
	// ColorMean uses (R+G+B)/3. It is invariant to channel permutations.
	ColorMean ColorMode = "mean"
	// ColorLuma uses ITU-R BT.601 weights 0.299, 0.587, 0.114.
	ColorLuma ColorMode = "luma"
	// ColorMaxGradient takes, per pixel, the gradient of the channel with
	// the largest magnitude.
	ColorMaxGradient ColorMode = "max-gradient"
)

// EdgePolicy selects how border pixels find their missing neighbor.
type EdgePolicy string

const (
	// EdgeReplicate reuses the nearest edge pixel. Constant images have zero gradient.
	EdgeReplicate EdgePolicy = "replicate"
	// EdgeZero treats pixels outside the image as 0.
	EdgeZero EdgePolicy = "zero"
)

// DefaultEpsilon is the normalization guard used when Params.Epsilon is 0.
const DefaultEpsilon = normalize.DefaultEpsilon

// Params configures descriptor extraction. Empty ColorMode and EdgePolicy
// mean ColorMean and EdgeReplicate; zero Epsilon means DefaultEpsilon.
type Params struct {
	NbBins       int     `yaml:"nb_bins"`
	CellWidth    int     `yaml:"cell_width"`
	BlockSize    int     `yaml:"block_size"`
	UnsignedDirs bool    `yaml:"unsigned_dirs"`
	ClipVal      float64 `yaml:"clip_val"`

	Epsilon              float64    `yaml:"epsilon,omitempty"`
	ColorMode            ColorMode  `yaml:"color_mode,omitempty"`
	EdgePolicy           EdgePolicy `yaml:"edge_policy,omitempty"`
	SpatialInterpolation bool       `yaml:"spatial_interpolation,omitempty"`

	// Workers bounds data parallelism inside each stage. Values <= 1 run
	// sequentially. The output does not depend on it.
	Workers int `yaml:"workers,omitempty"`
}

// DefaultParams returns 9 unsigned bins, 8 pixel cells, 2x2 cell blocks and a clip of 0.2.
func DefaultParams() Params {
	return Params{
		NbBins:       9,
		CellWidth:    8,
		BlockSize:    2,
		UnsignedDirs: true,
		ClipVal:      0.2,
		Epsilon:      DefaultEpsilon,
		ColorMode:    ColorMean,
		EdgePolicy:   EdgeReplicate,
	}
}

// Validate reports the first parameter that is out of range.
func (p Params) Validate() error {
	if p.NbBins <= 0 {
		return preprocess.Invalid("nb_bins", "must be positive, got %d", p.NbBins)
	}
	if p.CellWidth <= 0 {
		return preprocess.Invalid("cell_width", "must be positive, got %d", p.CellWidth)
	}
	if p.BlockSize <= 0 {
		return preprocess.Invalid("block_size", "must be positive, got %d", p.BlockSize)
	}
	if !(p.ClipVal > 0) {
		return preprocess.Invalid("clip_val", "must be positive, got %v", p.ClipVal)
	}
	if p.Epsilon < 0 || math.IsNaN(p.Epsilon) || math.IsInf(p.Epsilon, 0) {
		return preprocess.Invalid("epsilon", "must be a finite value >= 0, got %v", p.Epsilon)
	}
	switch p.ColorMode {
	case "", ColorMean, ColorLuma, ColorMaxGradient:
	default:
		return preprocess.Invalid("color_mode", "unknown mode %q", p.ColorMode)
	}
	switch p.EdgePolicy {
	case "", EdgeReplicate, EdgeZero:
	default:
		return preprocess.Invalid("edge_policy", "unknown policy %q", p.EdgePolicy)
	}
	return nil
}

func (p Params) colorMode() preprocess.ColorMode {
	switch p.ColorMode {
	case ColorLuma:
		return preprocess.ColorLuma
	case ColorMaxGradient:
		return preprocess.ColorMaxGradient
	default:
		return preprocess.ColorMean
	}
}

func (p Params) epsilon() float64 {
	if p.Epsilon == 0 {
		return DefaultEpsilon
	}
	return p.Epsilon
}
