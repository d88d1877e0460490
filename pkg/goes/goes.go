// Package goes fetches GOES XRS X-ray flux timeseries data over HTTP.
//
// A fetch runs in fixed stages: search the remote file index for the
// requested window, keep the files from the satellite with the highest
// identifying number, download them, concatenate the samples into one
// time-ordered series, and truncate to the window. Each stage has its own
// error variant so diagnostics keep the triggering cause, and every variant
// matches ErrFetchFailed so callers can treat the pipeline as one opaque
// failure kind.
package goes

import (
	"errors"
	"fmt"
)

// ErrFetchFailed is the umbrella error every fetch-stage failure matches.
var ErrFetchFailed = errors.New("goes: fetch failed")

// Stage-specific variants. Each wraps ErrFetchFailed, so
// errors.Is(err, ErrFetchFailed) holds for all of them.
var (
	// ErrSearch covers failures while querying the remote file index.
	ErrSearch = fmt.Errorf("%w: search", ErrFetchFailed)

	// ErrNoData means the search succeeded but matched no files, including
	// the case where the requested window simply has no observations.
	ErrNoData = fmt.Errorf("%w: no data for requested window", ErrFetchFailed)

	// ErrDownload covers failures while downloading a matched file.
	ErrDownload = fmt.Errorf("%w: download", ErrFetchFailed)

	// ErrConcat covers failures while parsing and concatenating downloaded
	// files into one series.
	ErrConcat = fmt.Errorf("%w: concatenation", ErrFetchFailed)
)
