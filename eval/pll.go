package eval

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// PartialLogLikelihoodPHSeries computes the Cox partial
// log-likelihood contribution of every subject with an observed
// event, given precomputed log partial hazards (x'beta).  Ties are
// handled in the Breslow manner: all subjects sharing a duration
// share the risk-set denominator accumulated over the whole tie
// group.  The series is ordered by descending duration.
func PartialLogLikelihoodPHSeries(logPartialHazards, durations, events []float64) ([]float64, error) {

	n := len(durations)
	if n == 0 {
		return nil, fmt.Errorf("eval: no observations")
	}
	if len(logPartialHazards) != n || len(events) != n {
		return nil, fmt.Errorf("eval: logPartialHazards, durations and events have different lengths (%d, %d and %d)",
			len(logPartialHazards), n, len(events))
	}
	d, err := intEvents(events)
	if err != nil {
		return nil, err
	}

	ii := make([]int, n)
	td := make([]float64, n)
	copy(td, durations)
	floats.Argsort(td, ii)

	// We can subtract any constant before exponentiating due to
	// invariance in the partial likelihood.
	mx := floats.Max(logPartialHazards)

	// Walk from the latest duration down, accumulating the
	// risk-set sum of exp(lph).  Each tie group is added in full
	// before its shared log denominator is recorded.
	logDenom := make([]float64, n)
	var cum float64
	for i := n - 1; i >= 0; {
		j := i
		for j >= 0 && td[j] == td[i] {
			cum += math.Exp(logPartialHazards[ii[j]] - mx)
			j--
		}
		ld := math.Log(cum) + mx
		for k := i; k > j; k-- {
			logDenom[k] = ld
		}
		i = j
	}

	var pll []float64
	for k := n - 1; k >= 0; k-- {
		if d[ii[k]] == 1 {
			pll = append(pll, logPartialHazards[ii[k]]-logDenom[k])
		}
	}

	return pll, nil
}

// PartialLogLikelihoodPH returns the mean partial log-likelihood over
// the subjects with an observed event.  With no events the mean is
// NaN.
func PartialLogLikelihoodPH(logPartialHazards, durations, events []float64) (float64, error) {

	pll, err := PartialLogLikelihoodPHSeries(logPartialHazards, durations, events)
	if err != nil {
		return 0, err
	}
	if len(pll) == 0 {
		return math.NaN(), nil
	}
	return stat.Mean(pll, nil), nil
}
