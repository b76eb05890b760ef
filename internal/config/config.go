package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ivlev/hog"
)

// Config holds everything the command line tool needs for one run.
type Config struct {
	InputPath    string
	Page         int
	DPI          int
	WindowWidth  int
	WindowHeight int
	ParamsPath   string
	Preset       string
	OutputReport string
	DBPath       string
	LogPath      string
	Params       hog.Params
	IncludeData  bool
	BuildVersion string
}

// LoadParams reads a YAML parameter file. Fields missing from the file keep
// their values from base.
func LoadParams(path string, base hog.Params) (hog.Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return hog.Params{}, err
	}

	p := base
	if err := yaml.Unmarshal(data, &p); err != nil {
		return hog.Params{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return hog.Params{}, fmt.Errorf("%s: %w", path, err)
	}

	return p, nil
}

// WriteParams writes p to a YAML file.
func WriteParams(p hog.Params, path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
