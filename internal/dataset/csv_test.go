package dataset

import (
	"errors"
	"math"
	"strings"
	"testing"
)

const catalogCSV = `Date,Time,Latitude,Longitude,Type,Depth,Depth1,Magnitude,Horizontal Distance,Horizontal Distance1,ID
01/02/1965,13:44:18,19.246,145.616,Earthquake,131.6,,6.0,,,ISCGEM860706
01/04/1965,11:29:49,1.863,127.352,Earthquake,80,82.5,5.8,12.5,0,ISCGEM860737
01/05/1965,18:05:58,-20.579,-173.972,Nuclear Explosion,0,,6.2,,3.3,
03/07/1966,,10,20,,5,,5.5,,,X1
1975-02-23T02:58:41.000Z,02:58:41,8.017,124.075,Earthquake,623,,5.6,,,ISO1
01/09/1965,13:32:50,,-20,Earthquake,5,,5.5,,,BAD1
01/10/1965,13:36:32,-13.405,166.629,Earthquake,35,,abc,,,BAD2
not-a-date,,10,10,Earthquake,5,,5.5,,,BAD3
01/11/1965,10:00:00,1,1,Rock Burst,1,,5.5,,,RB
01/12/1965,10:00:00,1,1,Rock Blast,1,,5.5,,,RBL
`

func TestParseRecords(t *testing.T) {
	records, report, err := ParseRecords(strings.NewReader(catalogCSV))
	if err != nil {
		t.Fatalf("ParseRecords failed: %v", err)
	}

	if report.Rows != 10 {
		t.Errorf("expected 10 rows, got %d", report.Rows)
	}
	if report.Kept != 5 || len(records) != 5 {
		t.Fatalf("expected 5 kept records, got report=%d len=%d", report.Kept, len(records))
	}
	if report.Malformed != 3 {
		t.Errorf("expected 3 malformed rows, got %d", report.Malformed)
	}
	if report.Excluded != 2 {
		t.Errorf("expected 2 excluded rows, got %d", report.Excluded)
	}

	first := records[0]
	if first.ID != "ISCGEM860706" || first.Year != 1965 || first.Category != "Earthquake" {
		t.Errorf("unexpected first record: %+v", first)
	}
	if first.DepthAlt != 131.6 {
		t.Errorf("DepthAlt should fall back to Depth, got %v", first.DepthAlt)
	}
	if !math.IsNaN(first.HorizontalDistance) {
		t.Errorf("HorizontalDistance should be NaN when absent, got %v", first.HorizontalDistance)
	}

	second := records[1]
	if second.DepthAlt != 82.5 {
		t.Errorf("DepthAlt should prefer Depth1, got %v", second.DepthAlt)
	}
	if second.HorizontalDistance != 12.5 {
		t.Errorf("zero Horizontal Distance1 should defer to Horizontal Distance, got %v", second.HorizontalDistance)
	}

	third := records[2]
	if third.HorizontalDistance != 3.3 {
		t.Errorf("expected Horizontal Distance1 = 3.3, got %v", third.HorizontalDistance)
	}
	if third.ID != "-20.579,-173.972,1965,6.2" {
		t.Errorf("expected synthesized ID, got %q", third.ID)
	}

	fourth := records[3]
	if fourth.Category != UnknownCategory {
		t.Errorf("blank Type should become %q, got %q", UnknownCategory, fourth.Category)
	}
	if fourth.Year != 1966 {
		t.Errorf("date without time should still parse, got year %d", fourth.Year)
	}

	if records[4].Year != 1975 {
		t.Errorf("RFC 3339 dates should parse, got year %d", records[4].Year)
	}
}

func TestParseRecordsMissingColumn(t *testing.T) {
	_, _, err := ParseRecords(strings.NewReader("Date,Latitude,Longitude\n01/02/1965,1,2\n"))
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
	if !strings.Contains(err.Error(), "Magnitude") {
		t.Errorf("error should name the missing column, got %v", err)
	}
}

func TestParseRecordsEmptyInput(t *testing.T) {
	_, _, err := ParseRecords(strings.NewReader(""))
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn for empty input, got %v", err)
	}
}

func TestParseRecordsHeaderAliases(t *testing.T) {
	in := " LAT , lng ,mag,date,category\n10,20,4.5,6/1/2001,Explosion\n"
	records, _, err := ParseRecords(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseRecords failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Latitude != 10 || records[0].Longitude != 20 || records[0].Category != "Explosion" {
		t.Errorf("aliases not resolved: %+v", records[0])
	}
}

func TestParsePlates(t *testing.T) {
	in := "lat,lon,plate\n10,20, Pacific \n,5,Nazca\nx,y,z\n-3,4,\n"
	points, err := ParsePlates(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParsePlates failed: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].Plate != "Pacific" {
		t.Errorf("plate label should be trimmed, got %q", points[0].Plate)
	}
}

func TestParsePlatesMissingColumns(t *testing.T) {
	_, err := ParsePlates(strings.NewReader("plate\nPacific\n"))
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
}

func TestRecordValid(t *testing.T) {
	r := Record{Latitude: 1, Longitude: 2, Magnitude: 5, Category: "Earthquake"}
	if !r.Valid() {
		t.Error("expected record to be valid")
	}
	r.Magnitude = math.NaN()
	if r.Valid() {
		t.Error("NaN magnitude should be invalid")
	}
	r.Magnitude = 5
	r.Category = "Rock Blast"
	if r.Valid() {
		t.Error("excluded category should be invalid")
	}
}
