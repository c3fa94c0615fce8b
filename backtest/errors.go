package backtest

import "fmt"

// DataError reports malformed raw input: an empty feed, duplicate
// timestamps, non-positive prices or non-positive window lengths.
type DataError struct {
	Reason string
}

func (e *DataError) Error() string {
	return "data error: " + e.Reason
}

// InsufficientDataError reports a window pair that leaves fewer than two
// rows to simulate on, so no strategy curve can be formed.
type InsufficientDataError struct {
	FastWindow int
	SlowWindow int
	Rows       int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: windows (%d, %d) leave fewer than 2 usable rows in a series of %d prices",
		e.FastWindow, e.SlowWindow, e.Rows)
}

// EmptyRangeError reports a window range that expands to no candidates.
type EmptyRangeError struct {
	Start int
	Stop  int
	Step  int
}

func (e *EmptyRangeError) Error() string {
	return fmt.Sprintf("empty window range: [%d, %d) with step %d holds no candidates", e.Start, e.Stop, e.Step)
}
