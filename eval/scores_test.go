package eval

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// constMatrix returns an r x c matrix filled with v.
func constMatrix(r, c int, v float64) *mat.Dense {

	m := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.Set(i, j, v)
		}
	}
	return m
}

func TestBrierScoreNoCensoring(t *testing.T) {

	// With no censoring all weights are one, so the score at t is
	// the plain mean of squared residuals.
	durations := []float64{1, 2, 3, 4}
	events := []float64{1, 1, 1, 1}

	s, err := BrierScoreAt(2.5, []float64{0.5, 0.5, 0.5, 0.5}, durations, events)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, s, 1e-10)
}

func TestBrierScoreCensoringWeights(t *testing.T) {

	// The censoring curve has a single drop at time 2 with three
	// subjects at risk, so the weight there is 2/3.  The subject
	// censored at 2 contributes to neither partition at t = 2.5.
	durations := []float64{1, 2, 3, 4}
	events := []float64{1, 0, 1, 1}

	// died part: 0.9^2 / 1; survived part: (0.2^2 + 0.3^2) / (2/3)
	s, err := BrierScoreAt(2.5, []float64{0.9, 0.5, 0.8, 0.7}, durations, events)
	require.NoError(t, err)
	assert.InDelta(t, (0.81+1.5*(0.04+0.09))/4, s, 1e-10)
}

func TestBrierScorePerfectPredictions(t *testing.T) {

	durations := []float64{1, 2, 3, 4}
	events := []float64{1, 1, 1, 1}
	times := []float64{1.5, 2.5, 3.5}

	pa := mat.NewDense(len(times), len(durations), nil)
	for k, tt := range times {
		for i, d := range durations {
			if d > tt {
				pa.Set(k, i, 1)
			}
		}
	}

	scores, err := BrierScore(times, pa, durations, events)
	require.NoError(t, err)
	for k := range times {
		assert.InDelta(t, 0.0, scores[k], 1e-12)
	}
}

func TestBrierScoreRange(t *testing.T) {

	src := rand.NewSource(7)
	un := distuv.Uniform{Min: 0, Max: 1, Src: src}

	n := 30
	durations := make([]float64, n)
	events := make([]float64, n)
	for i := 0; i < n; i++ {
		durations[i] = un.Rand() * 10
		events[i] = 1
	}

	times := []float64{1, 3, 5, 7, 9}
	pa := mat.NewDense(len(times), n, nil)
	for k := range times {
		for i := 0; i < n; i++ {
			pa.Set(k, i, un.Rand())
		}
	}

	scores, err := BrierScore(times, pa, durations, events)
	require.NoError(t, err)
	for k, s := range scores {
		assert.GreaterOrEqual(t, s, 0.0, "time %v", times[k])
		assert.LessOrEqual(t, s, 1.0, "time %v", times[k])
	}
}

func TestBrierScoreShapeMismatch(t *testing.T) {

	durations := []float64{1, 2, 3, 4}
	events := []float64{1, 1, 1, 1}

	// Two prediction rows for three requested times.
	_, err := BrierScore([]float64{1, 2, 3}, constMatrix(2, 4, 0.5), durations, events)
	assert.Error(t, err)

	_, err = BrierScore([]float64{1, 2}, constMatrix(2, 3, 0.5), durations, events)
	assert.Error(t, err)

	_, err = BrierScore([]float64{1}, constMatrix(1, 4, 0.5), durations, events[:3])
	assert.Error(t, err)
}

func TestBinomialLogLikelihood(t *testing.T) {

	durations := []float64{1, 2, 3, 4}
	events := []float64{1, 0, 1, 1}

	// One died subject with weight 1, two survivors with weight
	// 2/3, one censored subject excluded: the weighted terms sum
	// to 4*log(0.5).
	s, err := BinomialLogLikelihoodAt(2.5, []float64{0.5, 0.5, 0.5, 0.5}, durations, events, 0)
	require.NoError(t, err)
	assert.InDelta(t, math.Log(0.5), s, 1e-10)
}

func TestBinomialLogLikelihoodClip(t *testing.T) {

	durations := []float64{1, 2}
	events := []float64{1, 1}

	// A predicted survival of one for a subject that died would
	// give log(0) without clipping.  The died term is
	// log(1 - clip(p)), so the expectation is built from the
	// clipped value, not from the epsilon directly.
	// The clipped value is computed through clip so the expectation
	// uses the same float64 rounding as the production code; written
	// as a constant expression, 1-(1-eps) would be folded exactly.
	s, err := BinomialLogLikelihoodAt(1.5, []float64{1, 1}, durations, events, 0)
	require.NoError(t, err)
	assert.False(t, math.IsInf(s, 0))
	p := clip(1, DefaultEps, 1-DefaultEps)
	assert.InDelta(t, (math.Log(1-p)+math.Log(p))/2, s, 1e-10)

	// A caller-provided epsilon replaces the default.
	s, err = BinomialLogLikelihoodAt(1.5, []float64{1, 1}, durations, events, 1e-3)
	require.NoError(t, err)
	p = clip(1, 1e-3, 1-1e-3)
	assert.InDelta(t, (math.Log(1-p)+math.Log(p))/2, s, 1e-10)
}

func TestBinomialLogLikelihoodShapeMismatch(t *testing.T) {

	_, err := BinomialLogLikelihood([]float64{1, 2}, constMatrix(1, 3, 0.5),
		[]float64{1, 2, 3}, []float64{1, 1, 1}, 0)
	assert.Error(t, err)
}
