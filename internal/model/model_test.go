package model

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/dataset"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/fetch"
	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/store"
)

const catalog = `Date,Time,Latitude,Longitude,Type,Depth,Magnitude,ID
01/02/1965,13:44:18,19.246,145.616,Earthquake,131.6,6.0,A
01/04/1970,11:29:49,1.863,127.352,Earthquake,80,5.8,B
01/05/1990,18:05:58,-20.579,-173.972,Nuclear Explosion,0,6.2,C
01/05/1990,18:05:58,,-173.972,Earthquake,0,6.2,BAD
`

const plates = `lat,lon,plate
10,20,Pacific
10,20,Pacific
10,21,Pacific
11,20,Pacific
12,22,Pacific
`

const geo = `{"type":"FeatureCollection","features":[
{"type":"Feature","properties":{},"geometry":{"type":"Polygon","coordinates":[[[0,0],[10,0],[10,10],[0,0]]]}}
]}`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestNewStore(t *testing.T) {
	records := []dataset.Record{
		{ID: "a", Latitude: 1, Longitude: 1, Magnitude: 5.5, Year: 1970, Category: "Earthquake"},
		{ID: "b", Latitude: math.NaN(), Longitude: 1, Magnitude: 5.5, Year: 1970, Category: "Earthquake"},
		{ID: "c", Latitude: 1, Longitude: 1, Magnitude: 6.5, Year: 1980, Category: "Rock Burst"},
	}
	st, err := NewStore(records, nil, nil)
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	if st.Len() != 1 {
		t.Errorf("expected 1 admitted record, got %d", st.Len())
	}
	if st.Global().Years.Min != 1970 || st.Global().Years.Max != 1970 {
		t.Errorf("unexpected year extent %+v", st.Global().Years)
	}
	if !st.Density().Empty() {
		t.Error("density grid should be empty without plate points")
	}
}

func TestNewStoreEmpty(t *testing.T) {
	_, err := NewStore(nil, nil, nil)
	if !errors.Is(err, ErrNoRecords) {
		t.Fatalf("expected ErrNoRecords, got %v", err)
	}
}

func TestLoadAllSources(t *testing.T) {
	dir := t.TempDir()
	l := &Loader{Fetcher: fetch.NewFetcher(time.Second, 0)}

	res, err := l.Load(context.Background(), Sources{
		Data:   writeFile(t, dir, "quakes.csv", catalog),
		Plates: writeFile(t, dir, "plates.csv", plates),
		Map:    writeFile(t, dir, "world.geojson", geo),
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if res.Store.Len() != 3 {
		t.Errorf("expected 3 records, got %d", res.Store.Len())
	}
	if res.Report.Malformed != 1 {
		t.Errorf("expected 1 malformed row, got %d", res.Report.Malformed)
	}
	if len(res.Store.Plates()) != 5 || res.Store.Density().Empty() {
		t.Errorf("expected plate points and a density grid")
	}
	if res.Store.Geometry().Empty() {
		t.Error("expected map geometry")
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", res.Warnings)
	}
}

func TestLoadMissingOptionalInputs(t *testing.T) {
	dir := t.TempDir()
	l := &Loader{Fetcher: fetch.NewFetcher(time.Second, 0)}

	res, err := l.Load(context.Background(), Sources{
		Data:   writeFile(t, dir, "quakes.csv", catalog),
		Plates: filepath.Join(dir, "missing-plates.csv"),
		Map:    writeFile(t, dir, "bad.geojson", "{not json"),
	})
	if err != nil {
		t.Fatalf("optional inputs should not be fatal: %v", err)
	}
	if len(res.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", res.Warnings)
	}
	if len(res.Store.Plates()) != 0 || res.Store.Geometry() != nil {
		t.Error("overlay and outline should degrade to nothing")
	}
}

func TestLoadCatalogErrors(t *testing.T) {
	dir := t.TempDir()
	l := &Loader{Fetcher: fetch.NewFetcher(time.Second, 0)}

	if _, err := l.Load(context.Background(), Sources{}); !errors.Is(err, ErrNoSource) {
		t.Errorf("expected ErrNoSource, got %v", err)
	}

	noRows := writeFile(t, dir, "empty.csv", "Date,Latitude,Longitude,Magnitude\n")
	if _, err := l.Load(context.Background(), Sources{Data: noRows}); !errors.Is(err, ErrNoRecords) {
		t.Errorf("expected ErrNoRecords, got %v", err)
	}

	noCols := writeFile(t, dir, "nocols.csv", "a,b\n1,2\n")
	if _, err := l.Load(context.Background(), Sources{Data: noCols}); !errors.Is(err, dataset.ErrMissingColumn) {
		t.Errorf("expected ErrMissingColumn, got %v", err)
	}
}

func TestImportThenLoadFromCache(t *testing.T) {
	dir := t.TempDir()
	cache, err := store.Open(store.Memory)
	if err != nil {
		t.Fatal(err)
	}
	defer cache.Close()

	l := &Loader{Fetcher: fetch.NewFetcher(time.Second, 0), Cache: cache}
	report, nPlates, err := l.Import(context.Background(),
		writeFile(t, dir, "quakes.csv", catalog),
		writeFile(t, dir, "plates.csv", plates))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if report.Kept != 3 || nPlates != 5 {
		t.Errorf("unexpected import result: kept=%d plates=%d", report.Kept, nPlates)
	}

	res, err := l.Load(context.Background(), Sources{})
	if err != nil {
		t.Fatalf("Load from cache failed: %v", err)
	}
	if !res.FromCache || res.Store.Len() != 3 || len(res.Store.Plates()) != 5 {
		t.Errorf("unexpected cached load: cache=%v records=%d plates=%d",
			res.FromCache, res.Store.Len(), len(res.Store.Plates()))
	}
	if got := res.Store.Global().Categories; strings.Join(got, ",") != "Earthquake,Nuclear Explosion" {
		t.Errorf("unexpected categories %v", got)
	}
}
