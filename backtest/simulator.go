package backtest

import (
	"fmt"
	"math"
	"time"

	"gitlab.com/aoterocom/AOBacktester/models/analytics"
)

// SMACrossoverSimulator vectorizes a two-SMA crossover strategy over a
// PriceSeries: long one unit while the fast average is strictly above the
// slow one, short one unit otherwise. Equal averages map to short, the "not
// greater than" side of the comparison; that tie policy is kept on purpose
// because changing it silently changes every backtest.
type SMACrossoverSimulator struct{}

func NewSMACrossoverSimulator() *SMACrossoverSimulator {
	return &SMACrossoverSimulator{}
}

// Run simulates the crossover strategy on the series with the given window
// pair and returns the full result. The series itself is never mutated: the
// simulation recomputes the SMA columns on a private copy, so the caller can
// keep sharing the series across runs and goroutines.
func (s *SMACrossoverSimulator) Run(series *PriceSeries, fastWindow int, slowWindow int) (analytics.StrategySimulationResult, error) {
	if fastWindow <= 0 || slowWindow <= 0 {
		return analytics.StrategySimulationResult{}, &DataError{
			Reason: fmt.Sprintf("window lengths must be positive, got (%d, %d)", fastWindow, slowWindow),
		}
	}

	working := series.Copy()
	working.SetWindows(fastWindow, slowWindow)

	// Rows where the log return and both averages are defined. NaN cells
	// mark the warm-up prefix of each column.
	var valid []int
	for i := range working.Prices {
		if !math.IsNaN(working.LogReturns[i]) && !math.IsNaN(working.SMAFast[i]) && !math.IsNaN(working.SMASlow[i]) {
			valid = append(valid, i)
		}
	}
	if len(valid) < 2 {
		return analytics.StrategySimulationResult{}, &InsufficientDataError{
			FastWindow: fastWindow,
			SlowWindow: slowWindow,
			Rows:       series.Len(),
		}
	}

	positions := make([]int, len(valid))
	for k, i := range valid {
		if working.SMAFast[i] > working.SMASlow[i] {
			positions[k] = 1
		} else {
			positions[k] = -1
		}
	}

	// The first valid row has no prior position to trade on, so it drops
	// out of the result. Each remaining row pays the return of holding the
	// previous row's position, which rules out look-ahead by construction.
	rows := len(valid) - 1
	result := analytics.StrategySimulationResult{
		FastWindow:      fastWindow,
		SlowWindow:      slowWindow,
		Timestamps:      make([]time.Time, rows),
		Positions:       make([]int, rows),
		MarketReturns:   make([]float64, rows),
		StrategyReturns: make([]float64, rows),
		CumMarket:       make([]float64, rows),
		CumStrategy:     make([]float64, rows),
	}

	marketSum := 0.0
	strategySum := 0.0
	for k := 1; k < len(valid); k++ {
		i := valid[k]
		marketReturn := working.LogReturns[i]
		strategyReturn := float64(positions[k-1]) * marketReturn

		marketSum += marketReturn
		strategySum += strategyReturn

		result.Timestamps[k-1] = working.Timestamps[i]
		result.Positions[k-1] = positions[k]
		result.MarketReturns[k-1] = marketReturn
		result.StrategyReturns[k-1] = strategyReturn
		result.CumMarket[k-1] = math.Exp(marketSum)
		result.CumStrategy[k-1] = math.Exp(strategySum)
	}

	aperf := result.CumStrategy[rows-1]
	operf := aperf - result.CumMarket[rows-1]
	result.AbsoluteProfit = round2(aperf)
	result.RelativeProfit = round2(operf)

	return result, nil
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
