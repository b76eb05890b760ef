// Package hog computes Histogram-of-Oriented-Gradients descriptors.
//
// Extraction runs four stages: the image is validated and reduced to
// intensity, centered-difference gradients are taken at every pixel, each
// pixel's magnitude is soft-binned by orientation into the histogram of its
// cell, and overlapping blocks of cells are L2-normalized, clipped and
// renormalized into one flat vector.
//
//	desc, err := hog.Extract(hog.NewGray(h, w, pixels), hog.DefaultParams())
package hog

import (
	"github.com/ivlev/hog/internal/binning"
	"github.com/ivlev/hog/internal/gradient"
	"github.com/ivlev/hog/internal/normalize"
	"github.com/ivlev/hog/internal/preprocess"
)

// Extractor runs the pipeline with a fixed, validated set of Params.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	params Params
}

// NewExtractor validates p and returns an Extractor for it.
func NewExtractor(p Params) (*Extractor, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Extractor{params: p}, nil
}

// Params returns the parameters the extractor was built with.
func (e *Extractor) Params() Params {
	return e.params
}

// Extract computes the descriptor of img. The result has DescriptorLen
// elements and is empty when the image is smaller than one block.
func (e *Extractor) Extract(img Image) ([]float64, error) {
	p := e.params

	planes, err := preprocess.Planes(img.Shape, img.Data, p.colorMode())
	if err != nil {
		return nil, err
	}

	field := gradient.Compute(planes, gradient.Options{
		Unsigned: p.UnsignedDirs,
		ZeroPad:  p.EdgePolicy == EdgeZero,
		Workers:  p.Workers,
	})
	grid := binning.Bin(field, binning.Options{
		CellWidth: p.CellWidth,
		Bins:      p.NbBins,
		Spatial:   p.SpatialInterpolation,
		Workers:   p.Workers,
	})
	field.Release()

	return normalize.Descriptor(grid, normalize.Options{
		BlockSize: p.BlockSize,
		Clip:      p.ClipVal,
		Epsilon:   p.epsilon(),
		Workers:   p.Workers,
	}), nil
}

// Extract is a shorthand for NewExtractor(p) followed by Extract(img).
func Extract(img Image, p Params) ([]float64, error) {
	e, err := NewExtractor(p)
	if err != nil {
		return nil, err
	}
	return e.Extract(img)
}

// GridSize returns the number of full cells per column and per row for an
// image of the given size.
func GridSize(height, width int, p Params) (rows, cols int) {
	return binning.GridSize(height, width, p.CellWidth)
}

// BlockCounts returns the number of block positions along each axis.
func BlockCounts(height, width int, p Params) (blocksY, blocksX int) {
	rows, cols := GridSize(height, width, p)
	return normalize.BlockCount(rows, p.BlockSize), normalize.BlockCount(cols, p.BlockSize)
}

// DescriptorLen returns the length of the descriptor Extract produces for an
// image of the given size. p must be valid.
func DescriptorLen(height, width int, p Params) int {
	rows, cols := GridSize(height, width, p)
	return normalize.Len(rows, cols, p.NbBins, p.BlockSize)
}
