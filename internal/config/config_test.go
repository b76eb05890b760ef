package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ivlev/hog"
)

func TestParamsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")

	want := hog.DefaultParams()
	want.NbBins = 12
	want.UnsignedDirs = false
	want.SpatialInterpolation = true
	want.ColorMode = hog.ColorLuma

	if err := WriteParams(want, path); err != nil {
		t.Fatalf("WriteParams failed: %v", err)
	}

	got, err := LoadParams(path, hog.DefaultParams())
	if err != nil {
		t.Fatalf("LoadParams failed: %v", err)
	}
	if got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestLoadParamsKeepsBaseForMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("cell_width: 16\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := LoadParams(path, hog.DefaultParams())
	if err != nil {
		t.Fatalf("LoadParams failed: %v", err)
	}

	want := hog.DefaultParams()
	want.CellWidth = 16
	if got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
}

func TestLoadParamsRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero bins", "nb_bins: 0\n"},
		{"negative cell", "cell_width: -8\n"},
		{"zero clip", "clip_val: 0\n"},
		{"unknown color", "color_mode: hsv\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}

			_, err := LoadParams(path, hog.DefaultParams())
			if !errors.Is(err, hog.ErrInvalidInput) {
				t.Errorf("Expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestLoadParamsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("nb_bins: [1, 2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadParams(path, hog.DefaultParams()); err == nil {
		t.Error("Expected parse error, got nil")
	}
}
