package analytics

import "time"

// StrategySimulationResult holds the full outcome of one SMA crossover
// simulation. The slices are aligned 1:1 and cover the restricted timestamp
// domain of the run: rows where the log return and both moving averages were
// defined, minus the leading row that has no prior position. A result is
// recomputed wholesale on every run and never mutated afterwards.
type StrategySimulationResult struct {
	FastWindow      int
	SlowWindow      int
	Timestamps      []time.Time
	Positions       []int
	MarketReturns   []float64
	StrategyReturns []float64
	CumMarket       []float64
	CumStrategy     []float64

	// AbsoluteProfit is the last value of the strategy curve and
	// RelativeProfit is that value minus the last market curve value,
	// both rounded to 2 decimals.
	AbsoluteProfit float64
	RelativeProfit float64
}

func NewStrategySimulationResult() StrategySimulationResult {
	return StrategySimulationResult{}
}

// Rows returns the number of simulated rows.
func (ssr *StrategySimulationResult) Rows() int {
	return len(ssr.StrategyReturns)
}
