// Package binning accumulates gradient magnitudes into per-cell orientation
// histograms.
//
// Orientation bin k covers [k*w, (k+1)*w) and is centered at (k+0.5)*w, where
// w is the orientation range divided by the number of bins. A pixel's
// magnitude is split linearly between the two nearest bin centers, wrapping
// from the last bin to the first.
package binning

import (
	"math"

	"github.com/ivlev/hog/internal/gradient"
	"github.com/ivlev/hog/internal/system"
)

// Options controls cell binning.
type Options struct {
	CellWidth int
	Bins      int
	// Spatial spreads each pixel bilinearly over the nearest cell centers
	// instead of assigning it to its own cell only.
	Spatial bool
	Workers int
}

// Grid is the cell histogram grid. Hist holds Rows*Cols*Bins values; the
// histogram of cell (r, c) starts at (r*Cols+c)*Bins.
type Grid struct {
	Rows int
	Cols int
	Bins int
	Hist []float64
}

// GridSize returns the number of full cells along each axis.
func GridSize(height, width, cellWidth int) (rows, cols int) {
	return height / cellWidth, width / cellWidth
}

// Cell returns the histogram of cell (r, c). The slice aliases g.Hist.
func (g *Grid) Cell(r, c int) []float64 {
	off := (r*g.Cols + c) * g.Bins
	return g.Hist[off : off+g.Bins]
}

// OrientationWeights maps theta to the two bins sharing its magnitude and
// their weights, which sum to 1.
func OrientationWeights(theta, binWidth float64, bins int) (b0, b1 int, w0, w1 float64) {
	pos := theta/binWidth - 0.5
	lo := math.Floor(pos)
	w1 = pos - lo
	w0 = 1 - w1

	b0 = int(lo) % bins
	if b0 < 0 {
		b0 += bins
	}
	b1 = (b0 + 1) % bins
	return b0, b1, w0, w1
}

// Bin builds the cell grid for f. Pixels past the last full cell in either
// direction are ignored.
//
// Each cell row gathers its own contributions in pixel scan order, so the
// result does not depend on opts.Workers.
func Bin(f *gradient.Field, opts Options) *Grid {
	rows, cols := GridSize(f.Height, f.Width, opts.CellWidth)
	g := &Grid{
		Rows: rows,
		Cols: cols,
		Bins: opts.Bins,
		Hist: make([]float64, rows*cols*opts.Bins),
	}
	if rows == 0 || cols == 0 {
		return g
	}

	binWidth := f.Range() / float64(opts.Bins)
	system.ParallelFor(rows, opts.Workers, func(start, end int) {
		for r := start; r < end; r++ {
			if opts.Spatial {
				g.gatherSpatial(f, r, opts.CellWidth, binWidth)
			} else {
				g.gather(f, r, opts.CellWidth, binWidth)
			}
		}
	})
	return g
}

// gather adds every pixel of cell row r to its own cell.
func (g *Grid) gather(f *gradient.Field, r, cw int, binWidth float64) {
	for y := r * cw; y < (r+1)*cw; y++ {
		for x := 0; x < g.Cols*cw; x++ {
			i := y*f.Width + x
			b0, b1, w0, w1 := OrientationWeights(f.Ori[i], binWidth, g.Bins)
			h := g.Cell(r, x/cw)
			h[b0] += f.Mag[i] * w0
			h[b1] += f.Mag[i] * w1
		}
	}
}

// gatherSpatial adds the share of every nearby pixel that falls into cell
// row r, weighting by distance to cell centers along both axes.
func (g *Grid) gatherSpatial(f *gradient.Field, r, cw int, binWidth float64) {
	yStart := max(0, (r-1)*cw)
	yEnd := min(g.Rows*cw, (r+2)*cw)
	for y := yStart; y < yEnd; y++ {
		r0, fy := cellCoord(y, cw)
		var wy float64
		switch r {
		case r0:
			wy = 1 - fy
		case r0 + 1:
			wy = fy
		default:
			continue
		}

		for x := 0; x < g.Cols*cw; x++ {
			i := y*f.Width + x
			b0, b1, w0, w1 := OrientationWeights(f.Ori[i], binWidth, g.Bins)
			c0, fx := cellCoord(x, cw)
			m := f.Mag[i] * wy
			if c0 >= 0 {
				h := g.Cell(r, c0)
				h[b0] += m * (1 - fx) * w0
				h[b1] += m * (1 - fx) * w1
			}
			if c0+1 < g.Cols {
				h := g.Cell(r, c0+1)
				h[b0] += m * fx * w0
				h[b1] += m * fx * w1
			}
		}
	}
}

// cellCoord returns the cell whose center precedes pixel p and the
// fractional distance from that center.
func cellCoord(p, cw int) (int, float64) {
	pos := (float64(p)+0.5)/float64(cw) - 0.5
	lo := math.Floor(pos)
	return int(lo), pos - lo
}
