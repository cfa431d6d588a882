package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/fetch"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/model"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/otel"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/store"
)

// openCache opens the SQLite cache, creating its directory if needed.
func openCache(path string) (*store.Store, error) {
	if path != store.Memory {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	return st, nil
}

// newLoader wires the fetcher, the cache and the event log into a Loader.
// The cache is opened only when the catalog comes from it. Close releases
// whatever was opened.
func (a *cliApp) newLoader(events *otel.Logger) (*model.Loader, func(), error) {
	l := &model.Loader{
		Fetcher: fetch.NewFetcher(a.cfg.FetchTimeout, a.cfg.FetchRPS),
		Events:  events,
	}
	if a.cfg.Data != "" {
		return l, func() {}, nil
	}
	cache, err := openCache(a.cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	l.Cache = cache
	return l, func() { cache.Close() }, nil
}

func (a *cliApp) sources() model.Sources {
	return model.Sources{Data: a.cfg.Data, Plates: a.cfg.Plates, Map: a.cfg.Map}
}

// sourceLabel names where the catalog came from; for the cache, the file it
// was imported from.
func sourceLabel(res *model.Result, loader *model.Loader, data string) string {
	if !res.FromCache {
		return data
	}
	if loader.Cache != nil {
		imports, err := loader.Cache.Imports()
		if err == nil {
			for _, imp := range imports {
				if imp.Kind == store.KindRecords {
					return fmt.Sprintf("cache (%s, %s)", imp.Source, humanize.Time(imp.ImportedAt))
				}
			}
		}
	}
	return "cache"
}
