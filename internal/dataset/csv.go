package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// Column aliases, matched case-insensitively after trimming.
var (
	colLatitude   = []string{"latitude", "lat"}
	colLongitude  = []string{"longitude", "lon", "lng"}
	colMagnitude  = []string{"magnitude", "mag"}
	colDepth      = []string{"depth"}
	colDepthAlt   = []string{"depth1"}
	colHDistAlt   = []string{"horizontal distance1"}
	colHDist      = []string{"horizontal distance"}
	colDate       = []string{"date"}
	colTime       = []string{"time"}
	colType       = []string{"type", "category"}
	colID         = []string{"id"}
	colPlateLat   = []string{"lat", "latitude"}
	colPlateLon   = []string{"lon", "longitude", "lng"}
	colPlateLabel = []string{"plate"}
)

const (
	layoutDateTime = "1/2/2006 15:04:05"
	layoutDate     = "1/2/2006"
)

// header maps normalized column names to their index.
type header map[string]int

func newHeader(row []string) header {
	h := make(header, len(row))
	for i, name := range row {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := h[key]; !dup {
			h[key] = i
		}
	}
	return h
}

// index returns the position of the first alias present, or -1.
func (h header) index(aliases []string) int {
	for _, a := range aliases {
		if i, ok := h[a]; ok {
			return i
		}
	}
	return -1
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// number parses a numeric cell. Blank and non-numeric cells are NaN.
func number(s string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	return reader
}

// ParseRecords reads an event catalog CSV and returns the working dataset.
//
// Latitude, Longitude, Magnitude and Date columns must exist in the header;
// individual rows that lack usable values are skipped and counted in the report.
func ParseRecords(r io.Reader) ([]Record, ParseReport, error) {
	var report ParseReport
	reader := newReader(r)

	first, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, report, fmt.Errorf("read header: %w", ErrMissingColumn)
		}
		return nil, report, fmt.Errorf("read header: %w", err)
	}
	h := newHeader(first)

	idx := struct {
		lat, lon, mag, depth, depthAlt, hdistAlt, hdist, date, time, typ, id int
	}{
		lat:      h.index(colLatitude),
		lon:      h.index(colLongitude),
		mag:      h.index(colMagnitude),
		depth:    h.index(colDepth),
		depthAlt: h.index(colDepthAlt),
		hdistAlt: h.index(colHDistAlt),
		hdist:    h.index(colHDist),
		date:     h.index(colDate),
		time:     h.index(colTime),
		typ:      h.index(colType),
		id:       h.index(colID),
	}
	required := []struct {
		name string
		i    int
	}{{"Latitude", idx.lat}, {"Longitude", idx.lon}, {"Magnitude", idx.mag}, {"Date", idx.date}}
	for _, col := range required {
		if col.i < 0 {
			return nil, report, fmt.Errorf("%w: %s", ErrMissingColumn, col.name)
		}
	}

	var records []Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				report.Rows++
				report.Malformed++
				continue
			}
			return nil, report, fmt.Errorf("read row %d: %w", report.Rows+2, err)
		}
		report.Rows++

		year, ok := parseYear(cell(row, idx.date), cell(row, idx.time))
		category := cell(row, idx.typ)
		if category == "" {
			category = UnknownCategory
		}

		rec := Record{
			Latitude:           number(cell(row, idx.lat)),
			Longitude:          number(cell(row, idx.lon)),
			Magnitude:          number(cell(row, idx.mag)),
			Depth:              number(cell(row, idx.depth)),
			DepthAlt:           firstFinite(number(cell(row, idx.depthAlt)), number(cell(row, idx.depth))),
			HorizontalDistance: firstNonZero(number(cell(row, idx.hdistAlt)), number(cell(row, idx.hdist))),
			Year:               year,
			Category:           category,
		}
		if !ok || !finite(rec.Latitude) || !finite(rec.Longitude) || !finite(rec.Magnitude) {
			report.Malformed++
			continue
		}
		if IsExcludedCategory(rec.Category) {
			report.Excluded++
			continue
		}

		rec.ID = cell(row, idx.id)
		if rec.ID == "" {
			rec.ID = fmt.Sprintf("%g,%g,%d,%g", rec.Latitude, rec.Longitude, rec.Year, rec.Magnitude)
		}
		records = append(records, rec)
	}

	report.Kept = len(records)
	return records, report, nil
}

// ParsePlates reads the plate point CSV ({lat, lon, plate}). Rows without a
// finite position are dropped.
func ParsePlates(r io.Reader) ([]PlatePoint, error) {
	reader := newReader(r)

	first, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	h := newHeader(first)
	latIdx, lonIdx, plateIdx := h.index(colPlateLat), h.index(colPlateLon), h.index(colPlateLabel)
	if latIdx < 0 || lonIdx < 0 {
		return nil, fmt.Errorf("%w: lat/lon", ErrMissingColumn)
	}

	var points []PlatePoint
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				continue
			}
			return nil, fmt.Errorf("read plate row: %w", err)
		}
		p := PlatePoint{
			Latitude:  number(cell(row, latIdx)),
			Longitude: number(cell(row, lonIdx)),
			Plate:     cell(row, plateIdx),
		}
		if finite(p.Latitude) && finite(p.Longitude) {
			points = append(points, p)
		}
	}
	return points, nil
}

// parseYear extracts the UTC year from the Date (and optional Time) cells.
func parseYear(date, clock string) (int, bool) {
	if date == "" {
		return 0, false
	}
	if clock != "" {
		if t, err := time.Parse(layoutDateTime, date+" "+clock); err == nil {
			return t.UTC().Year(), true
		}
	}
	if t, err := time.Parse(layoutDate, date); err == nil {
		return t.UTC().Year(), true
	}
	if t, err := time.Parse(time.RFC3339, date); err == nil {
		return t.UTC().Year(), true
	}
	return 0, false
}

func firstFinite(vals ...float64) float64 {
	for _, v := range vals {
		if finite(v) {
			return v
		}
	}
	return math.NaN()
}

// firstNonZero mirrors the distance column fallback: a zero reading in the
// preferred column defers to the next one.
func firstNonZero(vals ...float64) float64 {
	for _, v := range vals {
		if finite(v) && v != 0 {
			return v
		}
	}
	return math.NaN()
}
