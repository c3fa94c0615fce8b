package backtest

import (
	"sync"

	"gitlab.com/aoterocom/AOBacktester/models/analytics"
)

// WindowRange describes the half-open interval [Start, Stop) walked with the
// given step, the candidate window lengths of one grid axis.
type WindowRange struct {
	Start int
	Stop  int
	Step  int
}

// Values expands the range into its candidates. A range that holds none
// (Start >= Stop, or a non-positive Step) fails with *EmptyRangeError.
func (wr WindowRange) Values() ([]int, error) {
	if wr.Step <= 0 || wr.Start >= wr.Stop {
		return nil, &EmptyRangeError{Start: wr.Start, Stop: wr.Stop, Step: wr.Step}
	}
	var values []int
	for value := wr.Start; value < wr.Stop; value += wr.Step {
		values = append(values, value)
	}
	return values, nil
}

// objectiveFunc scores one window pair. It is a pure function of the pair,
// kept apart from the grid enumeration and the reduction so another search
// procedure could drive the same objective.
type objectiveFunc func(fastWindow int, slowWindow int) (float64, error)

type windowPair struct {
	fast int
	slow int
}

// GridOptimizer exhaustively scores every (fast, slow) pair in the Cartesian
// product of two window ranges and keeps the pair with the highest absolute
// performance. Ties keep the first pair in canonical scan order (ascending
// fast outer, ascending slow inner), so repeated runs pick the same winner.
//
// Workers above 1 spreads the grid over that many goroutines. Every
// simulation runs on its own copy of the series and the reduction keeps the
// best score with the smallest canonical index on ties, so the parallel path
// returns exactly the sequential outcome.
type GridOptimizer struct {
	Simulator *SMACrossoverSimulator
	Workers   int
}

func NewGridOptimizer() *GridOptimizer {
	return &GridOptimizer{
		Simulator: NewSMACrossoverSimulator(),
	}
}

// Optimize runs the grid search. A failing grid point aborts the whole
// search and surfaces its error: skipping points would silently shrink the
// search space and corrupt reproducibility.
func (g *GridOptimizer) Optimize(series *PriceSeries, fastRange WindowRange, slowRange WindowRange) (analytics.OptimizationOutcome, error) {
	fastValues, err := fastRange.Values()
	if err != nil {
		return analytics.OptimizationOutcome{}, err
	}
	slowValues, err := slowRange.Values()
	if err != nil {
		return analytics.OptimizationOutcome{}, err
	}

	pairs := make([]windowPair, 0, len(fastValues)*len(slowValues))
	for _, fast := range fastValues {
		for _, slow := range slowValues {
			pairs = append(pairs, windowPair{fast: fast, slow: slow})
		}
	}

	objective := func(fastWindow int, slowWindow int) (float64, error) {
		result, err := g.Simulator.Run(series, fastWindow, slowWindow)
		if err != nil {
			return 0, err
		}
		return result.AbsoluteProfit, nil
	}

	var scores []float64
	if g.Workers > 1 {
		scores, err = evaluateParallel(pairs, objective, g.Workers)
	} else {
		scores, err = evaluateSequential(pairs, objective)
	}
	if err != nil {
		return analytics.OptimizationOutcome{}, err
	}

	bestIndex := 0
	evaluations := make([]analytics.GridEvaluation, len(pairs))
	for index, score := range scores {
		evaluations[index] = analytics.GridEvaluation{
			FastWindow:     pairs[index].fast,
			SlowWindow:     pairs[index].slow,
			AbsoluteProfit: score,
		}
		if score > scores[bestIndex] {
			bestIndex = index
		}
	}

	return analytics.OptimizationOutcome{
		BestFast:           pairs[bestIndex].fast,
		BestSlow:           pairs[bestIndex].slow,
		BestAbsoluteProfit: scores[bestIndex],
		Evaluations:        evaluations,
	}, nil
}

func evaluateSequential(pairs []windowPair, objective objectiveFunc) ([]float64, error) {
	scores := make([]float64, len(pairs))
	for index, pair := range pairs {
		score, err := objective(pair.fast, pair.slow)
		if err != nil {
			return nil, err
		}
		scores[index] = score
	}
	return scores, nil
}

func evaluateParallel(pairs []windowPair, objective objectiveFunc, workers int) ([]float64, error) {
	scores := make([]float64, len(pairs))
	errs := make([]error, len(pairs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for worker := 0; worker < workers; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for index := range jobs {
				scores[index], errs[index] = objective(pairs[index].fast, pairs[index].slow)
			}
		}()
	}
	for index := range pairs {
		jobs <- index
	}
	close(jobs)
	wg.Wait()

	// Surface the error of the earliest failing pair in canonical order,
	// the same one the sequential scan would have stopped at.
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return scores, nil
}
