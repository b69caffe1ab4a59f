// This script demonstrates evaluating survival predictions on a
// simulated cohort.  Event times are exponential with a
// subject-specific hazard and censoring times are uniform; the
// predictions being scored come from the true model, so the metrics
// should look favorable.
package main

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/kgchinthana/pycox/eval"
)

const n = 500

func simulate() (hazard, durations, events []float64) {

	src := rand.NewSource(4242)
	hz := distuv.Uniform{Min: 0.5, Max: 2.5, Src: src}
	cen := distuv.Uniform{Min: 0, Max: 3, Src: src}

	for i := 0; i < n; i++ {
		h := hz.Rand()
		ev := distuv.Exponential{Rate: h, Src: src}.Rand()
		cz := cen.Rand()

		hazard = append(hazard, h)
		if ev <= cz {
			durations = append(durations, ev)
			events = append(events, 1)
		} else {
			durations = append(durations, cz)
			events = append(events, 0)
		}
	}

	return hazard, durations, events
}

func main() {

	hazard, durations, events := simulate()

	// Survival predictions from the true model: S_i(t) = exp(-h_i t).
	probAlive := func(times []float64) mat.Matrix {
		pa := mat.NewDense(len(times), n, nil)
		for k, t := range times {
			for i, h := range hazard {
				pa.Set(k, i, math.Exp(-h*t))
			}
		}
		return pa
	}

	ibs, err := eval.IntegratedBrierScoreFunc(probAlive, durations, events, nil, 100)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Integrated Brier score:     %8.4f\n", ibs)

	// For the concordance, score every subject with the survival
	// curve evaluated at its own duration.
	surv := probAlive(durations)
	survIdx := make([]int, n)
	for i := range survIdx {
		survIdx[i] = i
	}
	ctd, err := eval.ConcordanceTD(durations, events, surv, survIdx, eval.AdjAntolini)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Time-dependent concordance: %8.4f\n", ctd)

	// The log partial hazards of the generating model.
	lph := make([]float64, n)
	for i, h := range hazard {
		lph[i] = math.Log(h)
	}
	pll, err := eval.PartialLogLikelihoodPH(lph, durations, events)
	if err != nil {
		panic(err)
	}
	fmt.Printf("Mean partial log-likelihood:%8.4f\n", pll)

	// Plot the Brier score curve over an equidistant grid.
	grid := make([]float64, 50)
	floats.Span(grid, floats.Min(durations), floats.Max(durations))
	scores, err := eval.BrierScore(grid, probAlive(grid), durations, events)
	if err != nil {
		panic(err)
	}
	eval.NewScorePlotter().AddScores(grid, scores, "Brier score").Plot().Save("brier.png")
}
