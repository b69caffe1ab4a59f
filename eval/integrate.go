package eval

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/mat"
)

// IntegratedBrierScore integrates the Brier scores over a strictly
// increasing time grid and normalizes by the grid span.
//
// Grid points whose score is not finite are dropped, together with
// their times, before integrating; the normalizer is the span of the
// surviving grid.  This guards against censoring weights of zero at
// the grid extremes without raising.
func IntegratedBrierScore(timesGrid []float64, probAlive mat.Matrix, durations, events []float64) (float64, error) {

	if err := checkIncreasing(timesGrid); err != nil {
		return 0, err
	}
	scores, err := BrierScore(timesGrid, probAlive, durations, events)
	if err != nil {
		return 0, err
	}
	return integrateMean(timesGrid, scores)
}

// IntegratedBrierScoreFunc computes the integrated Brier score from a
// prediction function rather than a precomputed matrix.  probAlive
// must return a matrix with one row per requested time and one column
// per subject.  A nil timesGrid builds an equidistant grid spanning
// the observed durations with nGridPoints points; nGridPoints <= 0
// selects 100.
func IntegratedBrierScoreFunc(probAlive func(times []float64) mat.Matrix, durations, events []float64,
	timesGrid []float64, nGridPoints int) (float64, error) {

	if timesGrid == nil {
		if len(durations) == 0 {
			return 0, fmt.Errorf("eval: no observations")
		}
		if nGridPoints <= 0 {
			nGridPoints = 100
		}
		timesGrid = make([]float64, nGridPoints)
		floats.Span(timesGrid, floats.Min(durations), floats.Max(durations))
	}
	return IntegratedBrierScore(timesGrid, probAlive(timesGrid), durations, events)
}

// IntegratedBinomialLogLikelihood integrates the binomial
// log-likelihood over a strictly increasing time grid and normalizes
// by the grid span.  Non-finite scores are dropped the same way as in
// IntegratedBrierScore.
func IntegratedBinomialLogLikelihood(timesGrid []float64, probAlive mat.Matrix, durations, events []float64) (float64, error) {

	if err := checkIncreasing(timesGrid); err != nil {
		return 0, err
	}
	scores, err := BinomialLogLikelihood(timesGrid, probAlive, durations, events, DefaultEps)
	if err != nil {
		return 0, err
	}
	return integrateMean(timesGrid, scores)
}

// integrateMean integrates the finite (time, score) pairs with
// Simpson's rule and divides by the span of the retained grid.  Two
// remaining points fall back to the trapezoid rule; fewer leave
// nothing to integrate.
func integrateMean(grid, scores []float64) (float64, error) {

	xs := make([]float64, 0, len(grid))
	ys := make([]float64, 0, len(scores))
	for i, s := range scores {
		if math.IsInf(s, 0) || math.IsNaN(s) {
			continue
		}
		xs = append(xs, grid[i])
		ys = append(ys, s)
	}

	if len(xs) < 2 {
		return 0, fmt.Errorf("eval: fewer than two finite scores on the time grid")
	}

	var integral float64
	if len(xs) >= 3 {
		integral = integrate.Simpsons(xs, ys)
	} else {
		integral = integrate.Trapezoidal(xs, ys)
	}

	return integral / (xs[len(xs)-1] - xs[0]), nil
}
