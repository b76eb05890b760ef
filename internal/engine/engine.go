// Package engine runs one extraction job for the command line tools:
// render the input page, convert it, extract the descriptor and record it.
package engine

import (
	"fmt"
	"time"

	"github.com/ivlev/hog"
	"github.com/ivlev/hog/internal/config"
	"github.com/ivlev/hog/internal/logging"
	"github.com/ivlev/hog/internal/report"
	"github.com/ivlev/hog/internal/source"
	"github.com/ivlev/hog/internal/store"
)

// Job ties a configuration to its input source and optional descriptor store.
type Job struct {
	Config *config.Config
	Source source.Source
	Store  *store.Store
}

func NewJob(cfg *config.Config, src source.Source, st *store.Store) *Job {
	return &Job{
		Config: cfg,
		Source: src,
		Store:  st,
	}
}

// Run performs the extraction and returns its report. The descriptor values
// are attached to the report when Config.IncludeData is set.
func (j *Job) Run() (*report.Report, error) {
	cfg := j.Config
	startTime := time.Now()

	extractor, err := hog.NewExtractor(cfg.Params)
	if err != nil {
		return nil, err
	}

	pageCount := j.Source.PageCount()
	if cfg.Page < 0 || cfg.Page >= pageCount {
		return nil, fmt.Errorf("page %d out of range (source has %d)", cfg.Page, pageCount)
	}

	img, err := j.Source.Render(cfg.Page, cfg.DPI)
	if err != nil {
		return nil, fmt.Errorf("render page %d: %w", cfg.Page, err)
	}
	logging.Debugf("rendered %s page %d: %v", cfg.InputPath, cfg.Page, img.Bounds())

	if cfg.WindowWidth > 0 && cfg.WindowHeight > 0 {
		img = source.Resize(img, cfg.WindowWidth, cfg.WindowHeight)
		logging.Debugf("resized to %dx%d", cfg.WindowWidth, cfg.WindowHeight)
	}
	renderEnd := time.Now()

	pixels := hog.FromImage(img)
	desc, err := extractor.Extract(pixels)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	extractEnd := time.Now()

	rep := report.New(cfg.InputPath, pixels, cfg.Params, desc)
	rep.Page = cfg.Page
	rep.Version = cfg.BuildVersion
	if cfg.IncludeData {
		rep.Descriptor = desc
	}
	if len(desc) == 0 {
		logging.Warnf("изображение %dx%d меньше одного блока, дескриптор пуст", pixels.Width(), pixels.Height())
	}

	if j.Store != nil {
		id, err := j.Store.Save(store.Record{
			Path:       cfg.InputPath,
			Page:       cfg.Page,
			Width:      pixels.Width(),
			Height:     pixels.Height(),
			Params:     cfg.Params,
			Descriptor: desc,
		})
		if err != nil {
			return nil, err
		}
		logging.Debugf("stored descriptor as row %d", id)
	}

	logging.Debugf("render %v, extract %v, total %v",
		renderEnd.Sub(startTime), extractEnd.Sub(renderEnd), time.Since(startTime))

	return rep, nil
}
