package models

import "time"

// TimeSeries holds an X-ray flux timeseries from a GOES XRS instrument.
// The two channels are the standard XRS bands: A (0.5-4 angstrom) and
// B (1-8 angstrom). All three slices have equal length and share indices.
type TimeSeries struct {
	// Satellite is the identifying number of the GOES satellite the data
	// was recorded by (e.g. 16 for GOES-16)
	Satellite int

	// Times holds the observation timestamps in ascending order
	Times []time.Time

	// ShortFlux is the XRS-A channel flux in W/m^2
	ShortFlux []float64

	// LongFlux is the XRS-B channel flux in W/m^2
	LongFlux []float64
}

// Len returns the number of samples in the series.
func (ts *TimeSeries) Len() int {
	return len(ts.Times)
}

// Append adds a single sample to the end of the series.
func (ts *TimeSeries) Append(t time.Time, short, long float64) {
	ts.Times = append(ts.Times, t)
	ts.ShortFlux = append(ts.ShortFlux, short)
	ts.LongFlux = append(ts.LongFlux, long)
}

// Truncate returns a copy of the series restricted to samples with
// start <= t <= end. The original series is not modified.
func (ts *TimeSeries) Truncate(start, end time.Time) *TimeSeries {
	out := &TimeSeries{Satellite: ts.Satellite}
	for i, t := range ts.Times {
		if t.Before(start) || t.After(end) {
			continue
		}
		out.Append(t, ts.ShortFlux[i], ts.LongFlux[i])
	}
	return out
}
