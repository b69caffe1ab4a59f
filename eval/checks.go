package eval

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// intEvents checks that the event indicators are 0/1 valued and
// returns them as integers (1 = event observed, 0 = censored).
func intEvents(events []float64) ([]int, error) {

	d := make([]int, len(events))
	for i, e := range events {
		switch e {
		case 0:
		case 1:
			d[i] = 1
		default:
			return nil, fmt.Errorf("eval: event indicator must be 0 or 1, got %v at position %d", e, i)
		}
	}
	return d, nil
}

// checkScoreShapes validates the inputs shared by the pointwise
// scoring functions before any computation begins.
func checkScoreShapes(times []float64, probAlive mat.Matrix, durations, events []float64) error {

	if len(durations) == 0 {
		return fmt.Errorf("eval: no observations")
	}
	if len(durations) != len(events) {
		return fmt.Errorf("eval: durations and events have different lengths (%d and %d)",
			len(durations), len(events))
	}
	r, c := probAlive.Dims()
	if r != len(times) || c != len(durations) {
		return fmt.Errorf("eval: probAlive must have shape %d x %d, got %d x %d",
			len(times), len(durations), r, c)
	}
	return nil
}

// checkIncreasing validates that an integration grid is strictly
// increasing and long enough to integrate over.
func checkIncreasing(grid []float64) error {

	if len(grid) < 2 {
		return fmt.Errorf("eval: time grid must contain at least two points")
	}
	for i := 1; i < len(grid); i++ {
		if grid[i] <= grid[i-1] {
			return fmt.Errorf("eval: time grid must be strictly increasing")
		}
	}
	return nil
}
