package fetch

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestIsRemote(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"https://example.com/quakes.csv", true},
		{"http://example.com/quakes.csv", true},
		{"data/quakes.csv", false},
		{"/abs/http-cache.csv", false},
	}
	for _, tt := range tests {
		if got := IsRemote(tt.src); got != tt.want {
			t.Errorf("IsRemote(%q) = %v, want %v", tt.src, got, tt.want)
		}
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quakes.csv")
	if err := os.WriteFile(path, []byte("Date,Latitude\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	f := NewFetcher(time.Second, 0)
	rc, err := f.Open(context.Background(), path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "Date,Latitude\n" {
		t.Errorf("unexpected content %q", data)
	}
}

func TestOpenMissingFile(t *testing.T) {
	f := NewFetcher(time.Second, 0)
	if _, err := f.Open(context.Background(), filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestOpenRemote(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("lat,lon,plate\n1,2,Pacific\n"))
	}))
	defer server.Close()

	f := NewFetcher(time.Second, 10)
	rc, err := f.Open(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if !strings.Contains(string(data), "Pacific") {
		t.Errorf("unexpected body %q", data)
	}
	if !strings.HasPrefix(gotUA, "seismic/") {
		t.Errorf("expected seismic user agent, got %q", gotUA)
	}
}

func TestOpenRemoteStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer server.Close()

	f := NewFetcher(time.Second, 0)
	_, err := f.Open(context.Background(), server.URL)
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected HTTP 404 error, got %v", err)
	}
}

func TestOpenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := NewFetcher(time.Second, 0)
	if _, err := f.Open(ctx, "https://example.invalid/x.csv"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
