package hog

import (
	"errors"
	"math"
	"math/rand"
	"testing"
)

func randomImage(rng *rand.Rand, h, w, channels int) Image {
	data := make([]float64, h*w*channels)
	for i := range data {
		data[i] = rng.Float64() * 255
	}
	if channels == 3 {
		return NewRGB(h, w, data)
	}
	return NewGray(h, w, data)
}

func assertClose(t *testing.T, got, want []float64, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Length mismatch: %d vs %d", len(got), len(want))
	}
	for i := range got {
		if math.Abs(got[i]-want[i]) > tol {
			t.Fatalf("Element %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestExtractRejectsInvalidInput(t *testing.T) {
	bad := DefaultParams()
	bad.NbBins = 0

	tests := []struct {
		name string
		img  Image
		p    Params
	}{
		{"rank 1", Image{Shape: []int{16}, Data: make([]float64, 16)}, DefaultParams()},
		{"rank 4", Image{Shape: []int{2, 2, 2, 3}, Data: make([]float64, 24)}, DefaultParams()},
		{"four channels", Image{Shape: []int{4, 4, 4}, Data: make([]float64, 64)}, DefaultParams()},
		{"overflowing gray shape", Image{Shape: []int{1 << 32, 1 << 32}}, DefaultParams()},
		{"overflowing rgb shape", Image{Shape: []int{1 << 62, 4, 3}}, DefaultParams()},
		{"length mismatch", NewGray(4, 4, make([]float64, 15)), DefaultParams()},
		{"bad params", NewGray(16, 16, make([]float64, 256)), bad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc, err := Extract(tt.img, tt.p)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("Expected ErrInvalidInput, got %v", err)
			}
			if desc != nil {
				t.Error("Expected no descriptor on error")
			}
		})
	}
}

func TestDescriptorLength(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	tests := []struct {
		h, w      int
		bins, cw  int
		blockSize int
		want      int
	}{
		{64, 128, 9, 8, 2, 7 * 15 * 4 * 9},
		{16, 16, 9, 8, 2, 36},
		{17, 23, 9, 8, 2, 36},
		{32, 32, 18, 4, 3, 6 * 6 * 9 * 18},
		{15, 64, 9, 8, 2, 0},
		{8, 8, 9, 8, 1, 9},
	}

	for _, tt := range tests {
		p := DefaultParams()
		p.NbBins, p.CellWidth, p.BlockSize = tt.bins, tt.cw, tt.blockSize

		if got := DescriptorLen(tt.h, tt.w, p); got != tt.want {
			t.Errorf("DescriptorLen(%d, %d): expected %d, got %d", tt.h, tt.w, tt.want, got)
		}
		desc, err := Extract(randomImage(rng, tt.h, tt.w, 1), p)
		if err != nil {
			t.Fatalf("Extract failed: %v", err)
		}
		if len(desc) != tt.want {
			t.Errorf("Extract(%dx%d): expected %d values, got %d", tt.h, tt.w, tt.want, len(desc))
		}
	}
}

func TestUniformImageIsZero(t *testing.T) {
	data := make([]float64, 32*32*3)
	for i := range data {
		data[i] = 128
	}
	desc, err := Extract(NewRGB(32, 32, data), DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range desc {
		if v != 0 || math.IsNaN(v) {
			t.Fatalf("Element %d: expected 0, got %v", i, v)
		}
	}
}

func TestHorizontalRamp(t *testing.T) {
	data := make([]float64, 64)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			data[y*8+x] = float64(x) * 255 / 7
		}
	}
	p := DefaultParams()
	p.BlockSize = 1

	desc, err := Extract(NewGray(8, 8, data), p)
	if err != nil {
		t.Fatal(err)
	}
	if len(desc) != 9 {
		t.Fatalf("Expected 9 values, got %d", len(desc))
	}

	// Orientation 0 sits between the centers of the last and first bins.
	want := math.Sqrt(0.5)
	if math.Abs(desc[0]-want) > 1e-5 || math.Abs(desc[8]-want) > 1e-5 {
		t.Errorf("Expected bins 0 and 8 near %v, got %v and %v", want, desc[0], desc[8])
	}
	for b := 1; b < 8; b++ {
		if desc[b] != 0 {
			t.Errorf("Bin %d: expected 0, got %v", b, desc[b])
		}
	}
}

func TestBlockNorms(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	p := DefaultParams()
	desc, err := Extract(randomImage(rng, 40, 48, 3), p)
	if err != nil {
		t.Fatal(err)
	}

	blockLen := p.BlockSize * p.BlockSize * p.NbBins
	for off := 0; off < len(desc); off += blockLen {
		var sum float64
		for _, v := range desc[off : off+blockLen] {
			if v < 0 {
				t.Fatalf("Negative element %v", v)
			}
			sum += v * v
		}
		if math.Abs(math.Sqrt(sum)-1) > 1e-5 {
			t.Errorf("Block at %d: expected unit norm, got %v", off, math.Sqrt(sum))
		}
	}
}

func TestNegatedImage(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	img := randomImage(rng, 24, 24, 1)
	neg := NewGray(24, 24, make([]float64, len(img.Data)))
	for i, v := range img.Data {
		neg.Data[i] = 255 - v
	}

	p := DefaultParams()
	a, _ := Extract(img, p)
	b, _ := Extract(neg, p)
	assertClose(t, a, b, 1e-9)

	p.UnsignedDirs = false
	p.NbBins = 18
	a, _ = Extract(img, p)
	b, _ = Extract(neg, p)
	var diff float64
	for i := range a {
		diff = math.Max(diff, math.Abs(a[i]-b[i]))
	}
	if diff < 1e-3 {
		t.Error("Expected signed descriptors of an image and its negative to differ")
	}
}

func TestChannelRotation(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	img := randomImage(rng, 24, 32, 3)
	rot := NewRGB(24, 32, make([]float64, len(img.Data)))
	for i := 0; i < len(img.Data); i += 3 {
		rot.Data[i], rot.Data[i+1], rot.Data[i+2] = img.Data[i+1], img.Data[i+2], img.Data[i]
	}

	for _, mode := range []ColorMode{ColorMean, ColorMaxGradient} {
		t.Run(string(mode), func(t *testing.T) {
			p := DefaultParams()
			p.ColorMode = mode
			a, _ := Extract(img, p)
			b, _ := Extract(rot, p)
			assertClose(t, a, b, 1e-9)
		})
	}
}

func TestDeterministicAcrossWorkers(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	img := randomImage(rng, 64, 48, 3)

	for _, spatial := range []bool{false, true} {
		p := DefaultParams()
		p.SpatialInterpolation = spatial
		p.Workers = 1
		serial, _ := Extract(img, p)
		again, _ := Extract(img, p)
		p.Workers = 4
		parallel, _ := Extract(img, p)

		for i := range serial {
			if serial[i] != again[i] || serial[i] != parallel[i] {
				t.Fatalf("spatial=%v: element %d differs between runs", spatial, i)
			}
		}
	}
}

func TestImageSmallerThanCell(t *testing.T) {
	desc, err := Extract(NewGray(5, 7, make([]float64, 35)), DefaultParams())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(desc) != 0 {
		t.Errorf("Expected empty descriptor, got %d values", len(desc))
	}
}

func TestSpatialKeepsLength(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	img := randomImage(rng, 33, 41, 1)
	p := DefaultParams()
	hard, _ := Extract(img, p)
	p.SpatialInterpolation = true
	soft, _ := Extract(img, p)
	if len(hard) != len(soft) {
		t.Errorf("Expected equal lengths, got %d and %d", len(hard), len(soft))
	}
}

func TestExtractorMatchesNaive(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	img := randomImage(rng, 30, 37, 1)
	p := DefaultParams()

	got, err := Extract(img, p)
	if err != nil {
		t.Fatal(err)
	}
	assertClose(t, got, naiveHOG(img, p), 1e-9)
}

// naiveHOG is a direct single-threaded rendition of the pipeline for a gray
// image with replicated edges and per-cell assignment.
func naiveHOG(img Image, p Params) []float64 {
	h, w := img.Height(), img.Width()
	at := func(x, y int) float64 {
		x = min(max(x, 0), w-1)
		y = min(max(y, 0), h-1)
		return img.Data[y*w+x]
	}

	rows, cols := h/p.CellWidth, w/p.CellWidth
	binWidth := math.Pi / float64(p.NbBins)
	hist := make([][][]float64, rows)
	for r := range hist {
		hist[r] = make([][]float64, cols)
		for c := range hist[r] {
			hist[r][c] = make([]float64, p.NbBins)
		}
	}

	for y := 0; y < rows*p.CellWidth; y++ {
		for x := 0; x < cols*p.CellWidth; x++ {
			gx := at(x+1, y) - at(x-1, y)
			gy := at(x, y+1) - at(x, y-1)
			mag := math.Hypot(gx, gy)
			theta := math.Atan2(gy, gx)
			if theta < 0 {
				theta += math.Pi
			}
			theta = math.Mod(theta, math.Pi)

			pos := theta/binWidth - 0.5
			lo := math.Floor(pos)
			frac := pos - lo
			b0 := (int(lo) + p.NbBins) % p.NbBins
			b1 := (b0 + 1) % p.NbBins
			cell := hist[y/p.CellWidth][x/p.CellWidth]
			cell[b0] += mag * (1 - frac)
			cell[b1] += mag * frac
		}
	}

	var out []float64
	for by := 0; by+p.BlockSize <= rows; by++ {
		for bx := 0; bx+p.BlockSize <= cols; bx++ {
			var v []float64
			for i := 0; i < p.BlockSize; i++ {
				for j := 0; j < p.BlockSize; j++ {
					v = append(v, hist[by+i][bx+j]...)
				}
			}
			norm := func() {
				var s float64
				for _, e := range v {
					s += e * e
				}
				n := math.Sqrt(s + DefaultEpsilon)
				for k := range v {
					v[k] /= n
				}
			}
			norm()
			for k := range v {
				v[k] = math.Min(v[k], p.ClipVal)
			}
			norm()
			out = append(out, v...)
		}
	}
	return out
}
