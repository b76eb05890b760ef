// Package normalize assembles the final descriptor from overlapping blocks of
// cell histograms.
package normalize

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/ivlev/hog/internal/binning"
	"github.com/ivlev/hog/internal/system"
)

// DefaultEpsilon guards the L2 norm of all-zero blocks.
const DefaultEpsilon = 1e-6

// Options controls block normalization.
type Options struct {
	BlockSize int
	Clip      float64
	Epsilon   float64
	Workers   int
}

// BlockCount returns the number of block positions along an axis of n cells.
func BlockCount(n, blockSize int) int {
	return max(0, n-blockSize+1)
}

// Len returns the descriptor length for a rows x cols grid.
func Len(rows, cols, bins, blockSize int) int {
	return BlockCount(rows, blockSize) * BlockCount(cols, blockSize) * blockSize * blockSize * bins
}

// L2 scales v in place by 1/sqrt(|v|² + eps).
func L2(v []float64, eps float64) {
	n := math.Sqrt(floats.Dot(v, v) + eps)
	floats.Scale(1/n, v)
}

// Clip caps every element of v at limit.
func Clip(v []float64, limit float64) {
	for i := range v {
		v[i] = math.Min(v[i], limit)
	}
}

// Block normalizes, clips and renormalizes one concatenated block vector in place.
func Block(v []float64, clip, eps float64) {
	L2(v, eps)
	Clip(v, clip)
	L2(v, eps)
}

// Descriptor builds the block descriptor of g. Blocks are scanned row-major
// with a stride of one cell; inside a block, cells are concatenated row-major.
// A grid smaller than one block along either axis yields an empty slice.
func Descriptor(g *binning.Grid, opts Options) []float64 {
	blocksY := BlockCount(g.Rows, opts.BlockSize)
	blocksX := BlockCount(g.Cols, opts.BlockSize)
	blockLen := opts.BlockSize * opts.BlockSize * g.Bins
	out := make([]float64, blocksY*blocksX*blockLen)
	if len(out) == 0 {
		return out
	}

	eps := opts.Epsilon
	if eps <= 0 {
		eps = DefaultEpsilon
	}

	system.ParallelFor(blocksY, opts.Workers, func(start, end int) {
		for by := start; by < end; by++ {
			for bx := 0; bx < blocksX; bx++ {
				off := (by*blocksX + bx) * blockLen
				v := out[off : off+blockLen]
				gatherBlock(g, by, bx, opts.BlockSize, v)
				Block(v, opts.Clip, eps)
			}
		}
	})
	return out
}

func gatherBlock(g *binning.Grid, by, bx, size int, dst []float64) {
	n := 0
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			n += copy(dst[n:], g.Cell(by+i, bx+j))
		}
	}
}
