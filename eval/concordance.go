package eval

import (
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Method selects the comparability and concordance rules used by
// ConcordanceTD.
type Method string

const (
	// Antolini is the strict rule from Antolini, Boracchi and
	// Biganzoli (2005): a pair is comparable when the earlier
	// subject had an event, or when the times are tied and only
	// the first subject had an event; a comparable pair is
	// concordant only when the first subject's predicted survival
	// is strictly lower.
	Antolini Method = "antolini"

	// AdjAntolini relaxes the tie rules so that a prediction
	// carrying no covariate information (for example the
	// population Kaplan-Meier curve) scores exactly 0.5.  Tied
	// times are comparable when either subject had an event, and
	// tied predictions earn half credit.
	AdjAntolini Method = "adj_antolini"
)

// comparablePair reports whether the ordered pair (i, j) contributes
// to the concordance denominator.  ti, tj are durations and di, dj
// the 0/1 event indicators.
type comparablePair func(ti, tj float64, di, dj int) bool

// concordantPair returns the concordance credit in [0, 1] for an
// ordered pair already known to be comparable.  si and sj are the
// predicted survival probabilities of subjects i and j, both
// evaluated at subject i's own time.
type concordantPair func(si, sj, ti, tj float64, di, dj int) float64

func comparableAntolini(ti, tj float64, di, dj int) bool {
	return (ti < tj && di == 1) || (ti == tj && di == 1 && dj == 0)
}

func comparableAdjAntolini(ti, tj float64, di, dj int) bool {
	return (ti < tj && di == 1) || (ti == tj && (di == 1 || dj == 1))
}

func concordantAntolini(si, sj, ti, tj float64, di, dj int) float64 {
	if si < sj {
		return 1
	}
	return 0
}

func concordantAdjAntolini(si, sj, ti, tj float64, di, dj int) float64 {

	switch {
	case ti < tj:
		return gradedLess(si, sj)
	case ti == tj:
		switch {
		case di == 1 && dj == 1:
			if si != sj {
				return 0.5
			}
			return 1
		case di == 1:
			return gradedLess(si, sj)
		case dj == 1:
			return gradedLess(sj, si)
		}
	}
	return 0
}

// gradedLess gives full credit when a < b and half credit for a tie.
func gradedLess(a, b float64) float64 {
	switch {
	case a < b:
		return 1
	case a == b:
		return 0.5
	}
	return 0
}

// ConcordanceTD computes the time-dependent concordance index of
// Antolini et al. (2005).
//
// surv must have shape [nTimes, n], one row per time point on the
// survival-function grid and one column per subject.  survIdx[i]
// gives the row of surv whose time matches subject i's own duration,
// so each subject is scored with the survival curve evaluated at its
// own event or censoring time.  durations and events are the observed
// times and 0/1 event indicators.
//
// An empty method selects AdjAntolini; see the Method constants for
// the two rule variants.  The result is in [0, 1].  When no pair of
// subjects is comparable the result is NaN.
//
// The pairwise accumulation is O(n^2) and runs in parallel over the
// outer subject index.
func ConcordanceTD(durations, events []float64, surv mat.Matrix, survIdx []int, method Method) (float64, error) {

	n := len(durations)
	if n == 0 {
		return 0, fmt.Errorf("eval: no observations")
	}
	if len(events) != n || len(survIdx) != n {
		return 0, fmt.Errorf("eval: durations, events and survIdx have different lengths (%d, %d and %d)",
			n, len(events), len(survIdx))
	}

	r, c := surv.Dims()
	if c != n {
		return 0, fmt.Errorf("eval: surv must have one column per subject, got %d columns for %d subjects", c, n)
	}
	for i, ix := range survIdx {
		if ix < 0 || ix >= r {
			return 0, fmt.Errorf("eval: survIdx[%d] = %d is outside the %d rows of surv", i, ix, r)
		}
	}

	d, err := intEvents(events)
	if err != nil {
		return 0, err
	}

	var isComp comparablePair
	var isConc concordantPair
	switch method {
	case Antolini:
		isComp = comparableAntolini
		isConc = concordantAntolini
	case AdjAntolini, "":
		isComp = comparableAdjAntolini
		isConc = concordantAdjAntolini
	default:
		return 0, fmt.Errorf("eval: unknown concordance method '%s'", method)
	}

	if r > c {
		os.Stderr.WriteString("eval: surv has more rows than columns; the intended layout is [times, subjects]\n")
	}

	numer, denom := sumPairs(durations, d, surv, survIdx, isComp, isConc)

	return numer / denom, nil
}

// sumPairs accumulates the concordance numerator and comparability
// denominator over all ordered pairs (i, j) with i != j.  The outer
// index is split into one contiguous chunk per worker; each worker
// sums into private accumulators that are reduced after the join.
func sumPairs(t []float64, d []int, surv mat.Matrix, survIdx []int, isComp comparablePair, isConc concordantPair) (numer, denom float64) {

	n := len(t)
	nworker := runtime.GOMAXPROCS(0)
	if nworker > n {
		nworker = n
	}

	numers := make([]float64, nworker)
	denoms := make([]float64, nworker)

	var eg errgroup.Group
	for w := 0; w < nworker; w++ {
		w := w
		lo := w * n / nworker
		hi := (w + 1) * n / nworker
		eg.Go(func() error {
			var nu, de float64
			for i := lo; i < hi; i++ {
				row := survIdx[i]
				si := surv.At(row, i)
				ti := t[i]
				di := d[i]
				for j := 0; j < n; j++ {
					if j == i || !isComp(ti, t[j], di, d[j]) {
						continue
					}
					de++
					nu += isConc(si, surv.At(row, j), ti, t[j], di, d[j])
				}
			}
			numers[w] = nu
			denoms[w] = de
			return nil
		})
	}
	// The workers only accumulate, so Wait never returns an error.
	_ = eg.Wait()

	for w := 0; w < nworker; w++ {
		numer += numers[w]
		denom += denoms[w]
	}
	return numer, denom
}
