package backtest

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gitlab.com/aoterocom/AOBacktester/models"
)

// PriceSeries is an ordered, time-indexed price history together with its
// derived columns: log returns and the two trailing simple moving averages.
// Cells where a column is not yet defined hold NaN; such rows are excluded
// from downstream computation, never zero-filled. After construction only
// the SMA columns are ever recomputed (through SetWindows); Timestamps,
// Prices and LogReturns stay untouched.
type PriceSeries struct {
	Timestamps []time.Time
	Prices     []float64
	LogReturns []float64
	SMAFast    []float64
	SMASlow    []float64
	FastWindow int
	SlowWindow int
}

// NewPriceSeries builds a PriceSeries from raw quotes. Quotes are
// stable-sorted by date first; empty feeds, duplicate dates, non-positive or
// non-finite prices and non-positive windows are rejected with a *DataError.
func NewPriceSeries(quotes []models.Quote, fastWindow int, slowWindow int) (*PriceSeries, error) {
	if len(quotes) == 0 {
		return nil, &DataError{Reason: "empty quote feed"}
	}
	if fastWindow <= 0 || slowWindow <= 0 {
		return nil, &DataError{Reason: fmt.Sprintf("window lengths must be positive, got (%d, %d)", fastWindow, slowWindow)}
	}

	sorted := make([]models.Quote, len(quotes))
	copy(sorted, quotes)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	series := &PriceSeries{
		Timestamps: make([]time.Time, len(sorted)),
		Prices:     make([]float64, len(sorted)),
		LogReturns: make([]float64, len(sorted)),
	}

	for i, quote := range sorted {
		if math.IsNaN(quote.Price) || math.IsInf(quote.Price, 0) || quote.Price <= 0 {
			return nil, &DataError{Reason: fmt.Sprintf("non-positive price %v on %s", quote.Price, quote.Date.Format("2006-01-02"))}
		}
		if i > 0 && !sorted[i-1].Date.Before(quote.Date) {
			return nil, &DataError{Reason: fmt.Sprintf("duplicate timestamp %s", quote.Date.Format("2006-01-02"))}
		}
		series.Timestamps[i] = quote.Date
		series.Prices[i] = quote.Price
	}

	series.LogReturns[0] = math.NaN()
	for i := 1; i < len(series.Prices); i++ {
		series.LogReturns[i] = math.Log(series.Prices[i] / series.Prices[i-1])
	}

	series.SMAFast = rollingMean(series.Prices, fastWindow)
	series.SMASlow = rollingMean(series.Prices, slowWindow)
	series.FastWindow = fastWindow
	series.SlowWindow = slowWindow

	return series, nil
}

// SetWindows recomputes the SMA column(s) whose window changed. A
// non-positive argument leaves that column untouched, so partial updates are
// possible and SetWindows(0, 0) is a no-op. Recomputing is a pure function
// of Prices and the window length, which makes repeated calls with the same
// windows idempotent.
func (ps *PriceSeries) SetWindows(fastWindow int, slowWindow int) {
	if fastWindow > 0 && fastWindow != ps.FastWindow {
		ps.SMAFast = rollingMean(ps.Prices, fastWindow)
		ps.FastWindow = fastWindow
	}
	if slowWindow > 0 && slowWindow != ps.SlowWindow {
		ps.SMASlow = rollingMean(ps.Prices, slowWindow)
		ps.SlowWindow = slowWindow
	}
}

// Copy returns a deep copy of the series. Simulations recompute SMA columns
// on their own copy, so a series held by the caller is never mutated behind
// its back and concurrent grid workers can share the original read-only.
func (ps *PriceSeries) Copy() *PriceSeries {
	clone := &PriceSeries{
		Timestamps: make([]time.Time, len(ps.Timestamps)),
		Prices:     make([]float64, len(ps.Prices)),
		LogReturns: make([]float64, len(ps.LogReturns)),
		SMAFast:    make([]float64, len(ps.SMAFast)),
		SMASlow:    make([]float64, len(ps.SMASlow)),
		FastWindow: ps.FastWindow,
		SlowWindow: ps.SlowWindow,
	}
	copy(clone.Timestamps, ps.Timestamps)
	copy(clone.Prices, ps.Prices)
	copy(clone.LogReturns, ps.LogReturns)
	copy(clone.SMAFast, ps.SMAFast)
	copy(clone.SMASlow, ps.SMASlow)
	return clone
}

// Len returns the number of rows in the series.
func (ps *PriceSeries) Len() int {
	return len(ps.Prices)
}

// rollingMean computes the trailing mean of values over the given window,
// with NaN in the first window-1 slots where the window is not yet full.
func rollingMean(values []float64, window int) []float64 {
	means := make([]float64, len(values))
	sum := 0.0
	for i, value := range values {
		sum += value
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			means[i] = sum / float64(window)
		} else {
			means[i] = math.NaN()
		}
	}
	return means
}
