// Package report summarizes an extracted descriptor and writes it as YAML.
package report

import (
	"fmt"
	"io"
	"os"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/hog"
)

// Report describes one extraction.
type Report struct {
	Version    string     `yaml:"version"`
	Input      string     `yaml:"input"`
	Page       int        `yaml:"page"`
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Channels   int        `yaml:"channels"`
	Params     hog.Params `yaml:"params"`
	GridRows   int        `yaml:"grid_rows"`
	GridCols   int        `yaml:"grid_cols"`
	BlocksY    int        `yaml:"blocks_y"`
	BlocksX    int        `yaml:"blocks_x"`
	Length     int        `yaml:"length"`
	Stats      Stats      `yaml:"stats"`
	Descriptor []float64  `yaml:"descriptor,omitempty,flow"`
}

// Stats are summary statistics of the descriptor values.
type Stats struct {
	Mean     float64 `yaml:"mean"`
	StdDev   float64 `yaml:"stddev"`
	Min      float64 `yaml:"min"`
	Max      float64 `yaml:"max"`
	NonZero  float64 `yaml:"nonzero_fraction"` // 0.0-1.0
	MaxBlock float64 `yaml:"max_block_norm"`
}

// New builds a report for desc extracted from img with p.
func New(input string, img hog.Image, p hog.Params, desc []float64) *Report {
	rows, cols := hog.GridSize(img.Height(), img.Width(), p)
	by, bx := hog.BlockCounts(img.Height(), img.Width(), p)
	return &Report{
		Version:  "1.0",
		Input:    input,
		Width:    img.Width(),
		Height:   img.Height(),
		Channels: img.Channels(),
		Params:   p,
		GridRows: rows,
		GridCols: cols,
		BlocksY:  by,
		BlocksX:  bx,
		Length:   len(desc),
		Stats:    Summarize(desc, p.BlockSize*p.BlockSize*p.NbBins),
	}
}

// Summarize computes Stats for desc split into blocks of blockLen values.
// An empty descriptor gives zero Stats.
func Summarize(desc []float64, blockLen int) Stats {
	if len(desc) == 0 {
		return Stats{}
	}

	mean, std := stat.MeanStdDev(desc, nil)
	nonZero := 0
	for _, v := range desc {
		if v != 0 {
			nonZero++
		}
	}

	maxBlock := 0.0
	if blockLen > 0 {
		for off := 0; off+blockLen <= len(desc); off += blockLen {
			maxBlock = max(maxBlock, floats.Norm(desc[off:off+blockLen], 2))
		}
	}

	return Stats{
		Mean:     mean,
		StdDev:   std,
		Min:      floats.Min(desc),
		Max:      floats.Max(desc),
		NonZero:  float64(nonZero) / float64(len(desc)),
		MaxBlock: maxBlock,
	}
}

// Write encodes r as YAML.
func (r *Report) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

// WriteFile writes r to path.
func (r *Report) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := r.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Read decodes a report written by Write.
func Read(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, err
	}

	return &r, nil
}

// Distance returns the Euclidean distance between the descriptors of two
// reports. Both must carry descriptor data of the same length.
func Distance(a, b *Report) (float64, error) {
	if len(a.Descriptor) != a.Length || len(b.Descriptor) != b.Length {
		return 0, fmt.Errorf("report has no descriptor data (write it with -data)")
	}
	if a.Length != b.Length {
		return 0, fmt.Errorf("descriptor lengths differ: %d vs %d", a.Length, b.Length)
	}
	if a.Length == 0 {
		return 0, nil
	}
	return floats.Distance(a.Descriptor, b.Descriptor, 2), nil
}
