package analytics

// GridEvaluation is the score of a single (fast, slow) window pair visited
// during a grid search.
type GridEvaluation struct {
	FastWindow     int
	SlowWindow     int
	AbsoluteProfit float64
}

// OptimizationOutcome is the immutable result of one optimizer invocation:
// the winning window pair, its absolute performance and the per-pair scores
// in canonical scan order (ascending fast outer, ascending slow inner).
type OptimizationOutcome struct {
	BestFast           int
	BestSlow           int
	BestAbsoluteProfit float64
	Evaluations        []GridEvaluation
}
