package main

import (
	"testing"

	"github.com/ivlev/hog"
)

func TestParseWindow(t *testing.T) {
	tests := []struct {
		in      string
		w, h    int
		wantErr bool
	}{
		{"", 0, 0, false},
		{"64x128", 64, 128, false},
		{"32X32", 32, 32, false},
		{"64", 0, 0, true},
		{"0x10", 0, 0, true},
		{"axb", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			w, h, err := parseWindow(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if w != tt.w || h != tt.h {
				t.Errorf("Expected %dx%d, got %dx%d", tt.w, tt.h, w, h)
			}
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	fromFile := hog.DefaultParams()
	fromFile.UnsignedDirs = false
	fromFile.SpatialInterpolation = true
	fromFile.Workers = 6

	tests := []struct {
		name  string
		base  hog.Params
		o     overrides
		set   []string
		check func(p hog.Params) bool
	}{
		{
			name: "set flags applied",
			base: hog.DefaultParams(),
			o:    overrides{cell: 4, signed: true, color: "luma", workers: 3},
			set:  []string{"cell", "signed", "color", "workers"},
			check: func(p hog.Params) bool {
				return p.CellWidth == 4 && !p.UnsignedDirs && p.ColorMode == hog.ColorLuma &&
					p.Workers == 3 && p.NbBins == 9 && p.BlockSize == 2 && p.ClipVal == 0.2
			},
		},
		{
			name: "unset flags keep file values",
			base: fromFile,
			o:    overrides{workers: 0},
			check: func(p hog.Params) bool {
				return p.Workers == 6 && !p.UnsignedDirs && p.SpatialInterpolation
			},
		},
		{
			name: "explicit false reverts file values",
			base: fromFile,
			o:    overrides{signed: false, spatial: false},
			set:  []string{"signed", "spatial"},
			check: func(p hog.Params) bool {
				return p.UnsignedDirs && !p.SpatialInterpolation && p.Workers == 6
			},
		},
		{
			name: "zero workers resolved",
			base: hog.DefaultParams(),
			check: func(p hog.Params) bool {
				return p.Workers > 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := make(map[string]bool)
			for _, name := range tt.set {
				set[name] = true
			}
			p := tt.base
			applyOverrides(&p, tt.o, set)
			if !tt.check(p) {
				t.Errorf("Unexpected params: %+v", p)
			}
		})
	}
}
