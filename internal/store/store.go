// Package store provides the SQLite cache for imported catalogs.
//
// The cache holds the dataset only. Selection state is never persisted.
package store

import (
	"database/sql"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/YellowElephantHive/cpsc6030-seismic-analysis/internal/dataset"
	_ "modernc.org/sqlite"
)

// Store is the on-disk catalog cache. Writers hold mu exclusively so a
// replace never interleaves with a read.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Import describes one cached dataset load.
type Import struct {
	Kind       string // "records" or "plates"
	Source     string
	Rows       int
	ImportedAt time.Time
}

const (
	KindRecords = "records"
	KindPlates  = "plates"
)

// Memory opens a private in-memory cache, for tests.
const Memory = ":memory:"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS records (
		seq                 INTEGER PRIMARY KEY,
		id                  TEXT    NOT NULL,
		latitude            REAL    NOT NULL,
		longitude           REAL    NOT NULL,
		magnitude           REAL    NOT NULL,
		depth               REAL,
		depth_alt           REAL,
		horizontal_distance REAL,
		year                INTEGER NOT NULL,
		category            TEXT    NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_records_year ON records(year)`,
	`CREATE TABLE IF NOT EXISTS plates (
		seq       INTEGER PRIMARY KEY,
		latitude  REAL NOT NULL,
		longitude REAL NOT NULL,
		plate     TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS imports (
		kind        TEXT PRIMARY KEY,
		source      TEXT     NOT NULL,
		rows        INTEGER  NOT NULL,
		imported_at DATETIME NOT NULL
	)`,
}

// Open opens (or creates) the cache at path and applies the schema. The
// parent directory must exist.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	setup := schema
	if path == Memory {
		// every pooled connection would see its own empty database
		db.SetMaxOpenConns(1)
	} else {
		setup = append([]string{"PRAGMA journal_mode=WAL", "PRAGMA busy_timeout=5000"}, schema...)
	}
	for _, stmt := range setup {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("prepare cache %s: %w", path, err)
		}
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// replace empties table and refills it with n rows through insert, then
// notes the import, all in one transaction.
func (s *Store) replace(kind, source, table, insert string, n int, args func(i int) []any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin %s import: %w", kind, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM " + table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	stmt, err := tx.Prepare(insert)
	if err != nil {
		return fmt.Errorf("prepare %s insert: %w", table, err)
	}
	defer stmt.Close()
	for i := 0; i < n; i++ {
		if _, err := stmt.Exec(args(i)...); err != nil {
			return fmt.Errorf("insert %s row %d: %w", table, i, err)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO imports (kind, source, rows, imported_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(kind) DO UPDATE SET
			source = excluded.source,
			rows = excluded.rows,
			imported_at = excluded.imported_at
	`, kind, source, n, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("note %s import: %w", kind, err)
	}
	return tx.Commit()
}

// ReplaceRecords swaps the cached catalog for records. Non-finite
// measurements are stored as NULL.
func (s *Store) ReplaceRecords(source string, records []dataset.Record) error {
	return s.replace(KindRecords, source, "records", `
		INSERT INTO records (
			id, latitude, longitude, magnitude, depth, depth_alt,
			horizontal_distance, year, category
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		len(records), func(i int) []any {
			r := records[i]
			return []any{
				r.ID, r.Latitude, r.Longitude, r.Magnitude,
				nullable(r.Depth), nullable(r.DepthAlt), nullable(r.HorizontalDistance),
				r.Year, r.Category,
			}
		})
}

// ReplacePlates swaps the cached plate points.
func (s *Store) ReplacePlates(source string, points []dataset.PlatePoint) error {
	return s.replace(KindPlates, source, "plates",
		"INSERT INTO plates (latitude, longitude, plate) VALUES (?, ?, ?)",
		len(points), func(i int) []any {
			p := points[i]
			return []any{p.Latitude, p.Longitude, p.Plate}
		})
}

// Records returns the cached catalog in import order.
func (s *Store) Records() ([]dataset.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, latitude, longitude, magnitude, depth, depth_alt,
			horizontal_distance, year, category
		FROM records ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []dataset.Record
	for rows.Next() {
		var r dataset.Record
		var depth, depthAlt, hdist sql.NullFloat64
		if err := rows.Scan(
			&r.ID, &r.Latitude, &r.Longitude, &r.Magnitude,
			&depth, &depthAlt, &hdist, &r.Year, &r.Category,
		); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		r.Depth = fromNullable(depth)
		r.DepthAlt = fromNullable(depthAlt)
		r.HorizontalDistance = fromNullable(hdist)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// Plates returns the cached plate points.
func (s *Store) Plates() ([]dataset.PlatePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT latitude, longitude, COALESCE(plate, '') FROM plates ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("query plates: %w", err)
	}
	defer rows.Close()

	var points []dataset.PlatePoint
	for rows.Next() {
		var p dataset.PlatePoint
		if err := rows.Scan(&p.Latitude, &p.Longitude, &p.Plate); err != nil {
			return nil, fmt.Errorf("scan plate point: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// Imports lists the cached loads, most recent first.
func (s *Store) Imports() ([]Import, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query("SELECT kind, source, rows, imported_at FROM imports ORDER BY imported_at DESC, kind")
	if err != nil {
		return nil, fmt.Errorf("query imports: %w", err)
	}
	defer rows.Close()

	var out []Import
	for rows.Next() {
		var imp Import
		if err := rows.Scan(&imp.Kind, &imp.Source, &imp.Rows, &imp.ImportedAt); err != nil {
			return nil, fmt.Errorf("scan import: %w", err)
		}
		out = append(out, imp)
	}
	return out, rows.Err()
}

func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func fromNullable(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
