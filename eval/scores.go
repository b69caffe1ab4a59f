package eval

import (
	"fmt"
	"math"

	"github.com/kshedden/dstream/dstream"
	"gonum.org/v1/gonum/mat"
)

// DefaultEps is the clipping bound applied to survival probabilities
// before taking logarithms in the binomial log-likelihood.
const DefaultEps = 1e-7

// censorDist fits a Kaplan-Meier estimate of the censoring
// distribution by treating censoring as the event of interest, i.e.
// fitting on reversed status indicators.
func censorDist(durations, events []float64) *KaplanMeier {

	statusr := make([]float64, len(events))
	for i, e := range events {
		statusr[i] = 1 - e
	}

	da := dstream.NewFromArrays([][]interface{}{{durations}, {statusr}},
		[]string{"Time", "Status"})
	return NewKaplanMeier(da, "Time", "Status").Done()
}

// censorWeights fits the censoring distribution once and evaluates it
// at every subject's own duration and at each requested time.
func censorWeights(times, durations, events []float64) (atDur, atTimes []float64) {

	kmc := censorDist(durations, events)
	return kmc.EvalAt(durations), kmc.EvalAt(times)
}

// BrierScore computes the inverse censoring weighted Brier scores for
// survival predictions at the given times.
//
// probAlive must have shape [len(times), len(durations)]; row k holds
// the predicted probability of each subject being alive at times[k].
// durations are the observed event or censoring times and events the
// 0/1 event indicators.  One score per requested time is returned.
//
// Subjects with an observed event at or before a query time
// contribute their squared predicted survival probability, weighted
// by the censoring distribution at their own duration.  Subjects
// still under observation past the query time contribute the squared
// complement, weighted at the query time.  Subjects censored at or
// before the query time contribute to neither part.
func BrierScore(times []float64, probAlive mat.Matrix, durations, events []float64) ([]float64, error) {

	if err := checkScoreShapes(times, probAlive, durations, events); err != nil {
		return nil, err
	}
	d, err := intEvents(events)
	if err != nil {
		return nil, err
	}

	kmAtDur, kmAtTimes := censorWeights(times, durations, events)

	n := len(durations)
	scores := make([]float64, len(times))
	for k, t := range times {
		g := kmAtTimes[k]
		var s float64
		for i := 0; i < n; i++ {
			p := probAlive.At(k, i)
			switch {
			case durations[i] <= t && d[i] == 1:
				s += p * p / kmAtDur[i]
			case durations[i] > t:
				q := 1 - p
				s += q * q / g
			}
		}
		scores[k] = s / float64(n)
	}

	return scores, nil
}

// BrierScoreAt computes the Brier score at a single time.  probAlive
// holds one predicted survival probability per subject, evaluated at
// that time.
func BrierScoreAt(time float64, probAlive, durations, events []float64) (float64, error) {

	if len(probAlive) == 0 {
		return 0, fmt.Errorf("eval: no observations")
	}
	pa := mat.NewDense(1, len(probAlive), probAlive)
	scores, err := BrierScore([]float64{time}, pa, durations, events)
	if err != nil {
		return 0, err
	}
	return scores[0], nil
}

// BinomialLogLikelihood computes the inverse censoring weighted
// binomial log-likelihood for survival predictions at the given
// times.  The weighting scheme is the same as for BrierScore.
//
// Predicted probabilities are clipped to [eps, 1-eps] before taking
// logarithms; eps <= 0 selects DefaultEps.
func BinomialLogLikelihood(times []float64, probAlive mat.Matrix, durations, events []float64, eps float64) ([]float64, error) {

	if err := checkScoreShapes(times, probAlive, durations, events); err != nil {
		return nil, err
	}
	d, err := intEvents(events)
	if err != nil {
		return nil, err
	}
	if eps <= 0 {
		eps = DefaultEps
	}

	kmAtDur, kmAtTimes := censorWeights(times, durations, events)

	n := len(durations)
	scores := make([]float64, len(times))
	for k, t := range times {
		g := kmAtTimes[k]
		var s float64
		for i := 0; i < n; i++ {
			p := clip(probAlive.At(k, i), eps, 1-eps)
			switch {
			case durations[i] <= t && d[i] == 1:
				s += math.Log(1-p) / kmAtDur[i]
			case durations[i] > t:
				s += math.Log(p) / g
			}
		}
		scores[k] = s / float64(n)
	}

	return scores, nil
}

// BinomialLogLikelihoodAt computes the binomial log-likelihood at a
// single time.  probAlive holds one predicted survival probability
// per subject, evaluated at that time.
func BinomialLogLikelihoodAt(time float64, probAlive, durations, events []float64, eps float64) (float64, error) {

	if len(probAlive) == 0 {
		return 0, fmt.Errorf("eval: no observations")
	}
	pa := mat.NewDense(1, len(probAlive), probAlive)
	scores, err := BinomialLogLikelihood([]float64{time}, pa, durations, events, eps)
	if err != nil {
		return 0, err
	}
	return scores[0], nil
}

func clip(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
