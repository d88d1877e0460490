package goes

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"solarcube/internal/models"
)

// DefaultBaseURL is the default root of the XRS file index service.
const DefaultBaseURL = "https://services.swpc.noaa.gov/json/goes/xrs"

// Instrument and resolution requested from the index. These identify the
// 1-second full-cadence XRS flux product.
const (
	instrument = "XRS"
	resolution = "flx1s"
)

// Client fetches XRS timeseries files from an HTTP index service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *log.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the index service root.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient overrides the HTTP client, e.g. to set timeouts.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger overrides the logger used for fetch progress messages.
func WithLogger(l *log.Logger) ClientOption {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client against the default service with a 30 second
// request timeout.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    DefaultBaseURL,
		logger:     log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// fileEntry is one matched data file in the index response.
type fileEntry struct {
	Satellite int    `json:"satellite"`
	URL       string `json:"url"`
}

// searchResponse is the JSON shape of the index endpoint.
type searchResponse struct {
	Files []fileEntry `json:"files"`
}

// search queries the file index for the requested window.
func (c *Client) search(ctx context.Context, start, end time.Time) ([]fileEntry, error) {
	q := url.Values{}
	q.Set("instrument", instrument)
	q.Set("resolution", resolution)
	q.Set("start", start.UTC().Format(time.RFC3339))
	q.Set("end", end.UTC().Format(time.RFC3339))

	endpoint := c.baseURL + "/index.json?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", ErrSearch, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: index returned status %d", ErrSearch, resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("%w: decoding index response: %v", ErrSearch, err)
	}

	return sr.Files, nil
}

// download retrieves one data file, resolving index-relative URLs against
// the service root.
func (c *Client) download(ctx context.Context, fileURL string) ([]byte, error) {
	u := fileURL
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = c.baseURL + "/" + strings.TrimLeft(u, "/")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request for %s: %v", ErrDownload, fileURL, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDownload, fileURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrDownload, fileURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrDownload, fileURL, err)
	}
	return body, nil
}

// FetchXRS fetches the XRS flux timeseries for [start, end]. Among the
// matched files it keeps those from the satellite with the highest
// identifying number, concatenates them in time order, and truncates the
// result to the requested window.
func (c *Client) FetchXRS(ctx context.Context, start, end time.Time) (*models.TimeSeries, error) {
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: start %s is not before end %s",
			ErrSearch, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	c.logger.Info("fetching GOES XRS timeseries",
		"start", start.Format(time.RFC3339), "end", end.Format(time.RFC3339))

	entries, err := c.search(ctx, start, end)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %s to %s",
			ErrNoData, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}

	// Keep the files from the highest-numbered satellite among the results.
	best := entries[0].Satellite
	for _, e := range entries[1:] {
		if e.Satellite > best {
			best = e.Satellite
		}
	}
	var matched []fileEntry
	for _, e := range entries {
		if e.Satellite == best {
			matched = append(matched, e)
		}
	}

	c.logger.Debug("selected satellite", "satellite", best, "files", len(matched))

	ts := &models.TimeSeries{Satellite: best}
	for _, e := range matched {
		body, err := c.download(ctx, e.URL)
		if err != nil {
			return nil, err
		}
		if err := appendSamples(ts, body); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrConcat, e.URL, err)
		}
	}

	sortByTime(ts)
	trunc := ts.Truncate(start, end)

	c.logger.Info("GOES data fetched", "satellite", best, "samples", trunc.Len())
	return trunc, nil
}

// appendSamples parses one CSV data file (time_tag, xrsa_flux, xrsb_flux)
// and appends its samples to the series.
func appendSamples(ts *models.TimeSeries, body []byte) error {
	r := csv.NewReader(strings.NewReader(string(body)))
	records, err := r.ReadAll()
	if err != nil {
		return err
	}
	if len(records) < 2 {
		return fmt.Errorf("file has no data rows")
	}

	// First record is the header row.
	for i, rec := range records[1:] {
		if len(rec) != 3 {
			return fmt.Errorf("row %d has %d fields, want 3", i+1, len(rec))
		}
		t, err := time.Parse(time.RFC3339, rec[0])
		if err != nil {
			return fmt.Errorf("row %d: %v", i+1, err)
		}
		short, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return fmt.Errorf("row %d: %v", i+1, err)
		}
		long, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return fmt.Errorf("row %d: %v", i+1, err)
		}
		ts.Append(t, short, long)
	}
	return nil
}

// sortByTime orders the series samples by ascending timestamp.
func sortByTime(ts *models.TimeSeries) {
	idx := make([]int, ts.Len())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return ts.Times[idx[a]].Before(ts.Times[idx[b]])
	})

	times := make([]time.Time, ts.Len())
	short := make([]float64, ts.Len())
	long := make([]float64, ts.Len())
	for i, j := range idx {
		times[i] = ts.Times[j]
		short[i] = ts.ShortFlux[j]
		long[i] = ts.LongFlux[j]
	}
	ts.Times, ts.ShortFlux, ts.LongFlux = times, short, long
}
