// Package preset provides named parameter bundles for common HOG setups.
package preset

import (
	"fmt"
	"sort"

	"github.com/ivlev/hog"
)

var descriptions = map[string]string{
	"dalal-triggs": "9 unsigned bins, 8px cells, 2x2 blocks, clip 0.2",
	"signed":       "18 signed bins over 0..2π, otherwise dalal-triggs",
	"fine":         "4px cells for small windows",
	"coarse":       "16px cells and 3x3 blocks for large images",
	"trilinear":    "spatial interpolation, zero padding, strongest color channel",
}

// New returns the parameters of the named preset. An empty name selects
// dalal-triggs.
func New(variant string) (hog.Params, error) {
	p := hog.DefaultParams()
	switch variant {
	case "dalal-triggs", "":
	case "signed":
		p.NbBins = 18
		p.UnsignedDirs = false
	case "fine":
		p.CellWidth = 4
	case "coarse":
		p.CellWidth = 16
		p.BlockSize = 3
	case "trilinear":
		p.SpatialInterpolation = true
		p.EdgePolicy = hog.EdgeZero
		p.ColorMode = hog.ColorMaxGradient
	default:
		return hog.Params{}, fmt.Errorf("unknown preset: %s", variant)
	}
	return p, nil
}

// Names lists the known presets in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(descriptions))
	for name := range descriptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns a one-line summary of the preset, or "" if it is unknown.
func Describe(variant string) string {
	return descriptions[variant]
}
