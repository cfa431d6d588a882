package model

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/dataset"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/fetch"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/logging"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/otel"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/store"
)

// ErrNoSource is returned when no catalog path is given and no cache is configured.
var ErrNoSource = errors.New("no dataset source: pass --data or import into the cache first")

// Sources names where each input comes from. Empty Data means the SQLite
// cache; empty Plates or Map means the feature is off.
type Sources struct {
	Data   string
	Plates string
	Map    string
}

// Result is the outcome of one startup load.
type Result struct {
	Store     *Store
	Report    dataset.ParseReport
	FromCache bool
	Warnings  []string
	Elapsed   time.Duration
}

// Loader loads every input concurrently. Cache and Events are optional.
type Loader struct {
	Fetcher *fetch.Fetcher
	Cache   *store.Store
	Events  *otel.Logger
}

// Load reads the catalog, plate points and map geometry in parallel and
// builds the Record Store. Only catalog failures are fatal; plate and map
// failures degrade to warnings.
func (l *Loader) Load(ctx context.Context, src Sources) (*Result, error) {
	start := time.Now()
	log := logging.WithPrefix("load")

	var (
		mu       sync.Mutex
		res      Result
		records  []dataset.Record
		plates   []dataset.PlatePoint
		geometry *dataset.Geometry
	)
	warn := func(what string, err error) {
		msg := fmt.Sprintf("%s unavailable: %v", what, err)
		log.Warn(msg)
		l.Events.Warn(otel.KindDatasetWarn, "model", msg)
		mu.Lock()
		res.Warnings = append(res.Warnings, msg)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if src.Data == "" {
			if l.Cache == nil {
				return ErrNoSource
			}
			cached, err := l.Cache.Records()
			if err != nil {
				return fmt.Errorf("read cache: %w", err)
			}
			records = cached
			res.FromCache = true
			return nil
		}
		parsed, report, err := l.parseRecords(gctx, src.Data)
		if err != nil {
			return err
		}
		records, res.Report = parsed, report
		log.Debug("catalog parsed", "rows", report.Rows, "kept", report.Kept,
			"malformed", report.Malformed, "excluded", report.Excluded)
		return nil
	})

	g.Go(func() error {
		switch {
		case src.Plates != "":
			pts, err := l.parsePlates(gctx, src.Plates)
			if err != nil {
				warn("plate points", err)
				return nil
			}
			plates = pts
		case l.Cache != nil:
			pts, err := l.Cache.Plates()
			if err != nil {
				warn("cached plate points", err)
				return nil
			}
			plates = pts
		}
		return nil
	})

	g.Go(func() error {
		if src.Map == "" {
			return nil
		}
		geom, err := l.parseGeometry(gctx, src.Map)
		if err != nil {
			warn("map geometry", err)
			return nil
		}
		geometry = geom
		return nil
	})

	if err := g.Wait(); err != nil {
		l.Events.DatasetFailed(src.Data, err)
		return nil, err
	}

	st, err := NewStore(records, plates, geometry)
	if err != nil {
		l.Events.DatasetFailed(src.Data, err)
		return nil, err
	}
	res.Store = st
	res.Elapsed = time.Since(start)

	log.Info("dataset loaded", "records", st.Len(), "plates", len(plates),
		"cache", res.FromCache, "elapsed", res.Elapsed)
	l.Events.DatasetLoaded(src.Data, st.Len(), res.Elapsed)
	return &res, nil
}

// Import parses the catalog (and optional plates) and replaces the cache contents.
func (l *Loader) Import(ctx context.Context, dataPath, platesPath string) (dataset.ParseReport, int, error) {
	if l.Cache == nil {
		return dataset.ParseReport{}, 0, errors.New("import: no cache configured")
	}
	records, report, err := l.parseRecords(ctx, dataPath)
	if err != nil {
		return report, 0, err
	}
	if report.Kept == 0 {
		return report, 0, ErrNoRecords
	}
	if err := l.Cache.ReplaceRecords(dataPath, records); err != nil {
		return report, 0, fmt.Errorf("cache records: %w", err)
	}

	if platesPath == "" {
		return report, 0, nil
	}
	plates, err := l.parsePlates(ctx, platesPath)
	if err != nil {
		return report, 0, err
	}
	if err := l.Cache.ReplacePlates(platesPath, plates); err != nil {
		return report, 0, fmt.Errorf("cache plates: %w", err)
	}
	return report, len(plates), nil
}

func (l *Loader) parseRecords(ctx context.Context, src string) ([]dataset.Record, dataset.ParseReport, error) {
	rc, err := l.Fetcher.Open(ctx, src)
	if err != nil {
		return nil, dataset.ParseReport{}, fmt.Errorf("open catalog: %w", err)
	}
	defer rc.Close()
	records, report, err := dataset.ParseRecords(rc)
	if err != nil {
		return nil, report, fmt.Errorf("parse catalog %s: %w", src, err)
	}
	return records, report, nil
}

func (l *Loader) parsePlates(ctx context.Context, src string) ([]dataset.PlatePoint, error) {
	rc, err := l.Fetcher.Open(ctx, src)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return dataset.ParsePlates(rc)
}

func (l *Loader) parseGeometry(ctx context.Context, src string) (*dataset.Geometry, error) {
	rc, err := l.Fetcher.Open(ctx, src)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return dataset.ParseGeometry(rc)
}
