package goes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"solarcube/internal/models"
)

func quietClient(baseURL string) *Client {
	return NewClient(WithBaseURL(baseURL), WithLogger(log.New(io.Discard)))
}

// xrsCSV builds a CSV data file with n one-minute samples starting at t0.
func xrsCSV(t0 time.Time, n int, flux float64) string {
	body := "time_tag,xrsa_flux,xrsb_flux\n"
	for i := 0; i < n; i++ {
		ts := t0.Add(time.Duration(i) * time.Minute)
		body += fmt.Sprintf("%s,%g,%g\n", ts.Format(time.RFC3339), flux, flux*10)
	}
	return body
}

// TestFetchXRS verifies the happy path: the highest-numbered satellite is
// selected, files concatenate in time order, and the result is truncated to
// the window.
func TestFetchXRS(t *testing.T) {
	t0 := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)

	mux := http.NewServeMux()
	mux.HandleFunc("/index.json", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("instrument"); got != "XRS" {
			t.Errorf("Expected instrument XRS in query, got %q", got)
		}
		fmt.Fprint(w, `{"files":[
			{"satellite":15,"url":"/goes15_a.csv"},
			{"satellite":18,"url":"/goes18_b.csv"},
			{"satellite":18,"url":"/goes18_a.csv"}
		]}`)
	})
	// The two GOES-18 files arrive out of order; concatenation must sort.
	mux.HandleFunc("/goes18_a.csv", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, xrsCSV(t0, 30, 1e-7))
	})
	mux.HandleFunc("/goes18_b.csv", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, xrsCSV(t0.Add(30*time.Minute), 30, 2e-7))
	})
	mux.HandleFunc("/goes15_a.csv", func(w http.ResponseWriter, r *http.Request) {
		t.Error("GOES-15 file should not be downloaded")
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	c := quietClient(server.URL)

	// Window covers minutes 10..49, so 40 of the 60 samples survive.
	start := t0.Add(10 * time.Minute)
	end := t0.Add(49 * time.Minute)
	ts, err := c.FetchXRS(context.Background(), start, end)
	if err != nil {
		t.Fatalf("FetchXRS failed: %v", err)
	}

	if ts.Satellite != 18 {
		t.Errorf("Expected satellite 18, got %d", ts.Satellite)
	}
	if ts.Len() != 40 {
		t.Errorf("Expected 40 samples after truncation, got %d", ts.Len())
	}
	for i := 1; i < ts.Len(); i++ {
		if !ts.Times[i].After(ts.Times[i-1]) {
			t.Fatalf("Samples out of order at index %d", i)
		}
	}
	if !ts.Times[0].Equal(start) {
		t.Errorf("Expected first sample at %v, got %v", start, ts.Times[0])
	}
}

// TestFetchXRSEmptySearch verifies zero search matches surface the generic
// fetch-failure kind rather than an index fault.
func TestFetchXRSEmptySearch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/index.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"files":[]}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := quietClient(server.URL)
	_, err := c.FetchXRS(context.Background(), time.Now().Add(-time.Hour), time.Now())
	if err == nil {
		t.Fatal("Expected error for empty search result, got nil")
	}
	if !errors.Is(err, ErrNoData) {
		t.Errorf("Expected ErrNoData, got %v", err)
	}
	if !errors.Is(err, ErrFetchFailed) {
		t.Errorf("Expected ErrFetchFailed, got %v", err)
	}
}

// TestFetchXRSSearchFailure verifies an index error maps to the search stage.
func TestFetchXRSSearchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := quietClient(server.URL)
	_, err := c.FetchXRS(context.Background(), time.Now().Add(-time.Hour), time.Now())
	if !errors.Is(err, ErrSearch) {
		t.Errorf("Expected ErrSearch, got %v", err)
	}
	if !errors.Is(err, ErrFetchFailed) {
		t.Errorf("Expected ErrFetchFailed, got %v", err)
	}
}

// TestFetchXRSDownloadFailure verifies a missing data file maps to the
// download stage.
func TestFetchXRSDownloadFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/index.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"files":[{"satellite":16,"url":"/missing.csv"}]}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := quietClient(server.URL)
	_, err := c.FetchXRS(context.Background(), time.Now().Add(-time.Hour), time.Now())
	if !errors.Is(err, ErrDownload) {
		t.Errorf("Expected ErrDownload, got %v", err)
	}
	if !errors.Is(err, ErrFetchFailed) {
		t.Errorf("Expected ErrFetchFailed, got %v", err)
	}
}

// TestFetchXRSConcatFailure verifies a malformed data file maps to the
// concatenation stage.
func TestFetchXRSConcatFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/index.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"files":[{"satellite":16,"url":"/bad.csv"}]}`)
	})
	mux.HandleFunc("/bad.csv", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "time_tag,xrsa_flux,xrsb_flux\nnot-a-time,1,2\n")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := quietClient(server.URL)
	_, err := c.FetchXRS(context.Background(), time.Now().Add(-time.Hour), time.Now())
	if !errors.Is(err, ErrConcat) {
		t.Errorf("Expected ErrConcat, got %v", err)
	}
	if !errors.Is(err, ErrFetchFailed) {
		t.Errorf("Expected ErrFetchFailed, got %v", err)
	}
}

// TestFetchXRSInvalidWindow verifies a reversed window fails up front.
func TestFetchXRSInvalidWindow(t *testing.T) {
	c := quietClient("http://unused.invalid")
	_, err := c.FetchXRS(context.Background(), time.Now(), time.Now().Add(-time.Hour))
	if !errors.Is(err, ErrFetchFailed) {
		t.Errorf("Expected ErrFetchFailed, got %v", err)
	}
}

// TestPlotTimeSeries verifies a chart PNG is written to disk.
func TestPlotTimeSeries(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping file I/O test in short mode")
	}

	tempDir, err := os.MkdirTemp("", "goes-plot-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	ts := &models.TimeSeries{Satellite: 16}
	t0 := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 20; i++ {
		ts.Append(t0.Add(time.Duration(i)*time.Minute), 1e-8*float64(i+1), 1e-7*float64(i+1))
	}

	path := filepath.Join(tempDir, "xrs.png")
	if err := PlotTimeSeries(ts, path); err != nil {
		t.Fatalf("PlotTimeSeries failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Saved file does not exist: %s", path)
	}

	// Too few samples is a usage error.
	short := &models.TimeSeries{Satellite: 16}
	short.Append(t0, 1, 2)
	if err := PlotTimeSeries(short, filepath.Join(tempDir, "short.png")); err == nil {
		t.Error("Expected error for single-sample series, got nil")
	}
}
