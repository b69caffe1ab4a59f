package eval

import (
	"sort"

	"github.com/kshedden/dstream/dstream"
)

// KaplanMeier uses the method of Kaplan and Meier to estimate the
// survival distribution based on (possibly) right censored data.  The
// fitted estimate is a right-continuous step function that can be
// queried at arbitrary time points, with exact values at every
// observed duration.
//
// Within this package the estimator is fit on reversed status
// indicators to obtain the censoring distribution used for inverse
// probability of censoring weighting; see censorDist.
type KaplanMeier struct {

	// The data used to perform the estimation.
	data dstream.Dstream

	// The name of the variable containing the minimum of the
	// event time and censoring time.  The underlying data must
	// have float64 type.
	timeVar string

	// The name of a variable containing the status indicator,
	// which is 1 if the event occurred at the time given by
	// timeVar, and 0 otherwise.
	statusVar string

	// Times at which events occur, sorted.
	times []float64

	// Number of events at each time in times.
	nEvents []float64

	// Number of subjects at risk just before each time in times.
	nRisk []float64

	// The estimated survival function evaluated at each time in times.
	survProb []float64

	events map[float64]float64
	total  map[float64]float64

	timepos   int
	statuspos int
}

// NewKaplanMeier creates a new value for fitting a survival function.
func NewKaplanMeier(data dstream.Dstream, timevar, statusvar string) *KaplanMeier {

	return &KaplanMeier{
		data:      data,
		timeVar:   timevar,
		statusVar: statusvar,
	}
}

// Time returns the times at which the survival function changes.
func (km *KaplanMeier) Time() []float64 {
	return km.times
}

// NumRisk returns the number of subjects at risk at each time point
// where the survival function changes.
func (km *KaplanMeier) NumRisk() []float64 {
	return km.nRisk
}

// SurvProb returns the estimated survival probabilities at the points
// where the survival function changes.
func (km *KaplanMeier) SurvProb() []float64 {
	return km.survProb
}

func (km *KaplanMeier) init() {

	km.events = make(map[float64]float64)
	km.total = make(map[float64]float64)

	km.data.Reset()

	km.timepos = -1
	km.statuspos = -1

	for k, na := range km.data.Names() {
		switch na {
		case km.timeVar:
			km.timepos = k
		case km.statusVar:
			km.statuspos = k
		}
	}

	if km.timepos == -1 {
		panic("Time variable not found")
	}
	if km.statuspos == -1 {
		panic("Status variable not found")
	}
}

func (km *KaplanMeier) scanData() {

	for km.data.Next() {

		time := km.data.GetPos(km.timepos).([]float64)
		status := km.data.GetPos(km.statuspos).([]float64)

		for i, t := range time {
			if status[i] == 1 {
				km.events[t]++
			}
			km.total[t]++
		}
	}
}

func rollback(x []float64) {
	var z float64
	for i := len(x) - 1; i >= 0; i-- {
		z += x[i]
		x[i] = z
	}
}

func (km *KaplanMeier) eventstats() {

	// Get the sorted distinct times (event or censoring)
	km.times = make([]float64, len(km.total))
	var i int
	for t := range km.total {
		km.times[i] = t
		i++
	}
	sort.Float64s(km.times)

	// Get the event count and risk set size at each time point
	// (in the same order as times).
	km.nEvents = make([]float64, len(km.times))
	km.nRisk = make([]float64, len(km.times))
	for i, t := range km.times {
		km.nEvents[i] = km.events[t]
		km.nRisk[i] = km.total[t]
	}
	rollback(km.nRisk)
}

// compress removes times where no events occurred.
func (km *KaplanMeier) compress() {

	var ix []int
	for i := 0; i < len(km.times); i++ {
		// Only retain events, except for the last point,
		// which is retained even if there are no events.
		if km.nEvents[i] > 0 || i == len(km.times)-1 {
			ix = append(ix, i)
		}
	}

	if len(ix) < len(km.times) {
		for i, j := range ix {
			km.times[i] = km.times[j]
			km.nEvents[i] = km.nEvents[j]
			km.nRisk[i] = km.nRisk[j]
		}
		km.times = km.times[0:len(ix)]
		km.nEvents = km.nEvents[0:len(ix)]
		km.nRisk = km.nRisk[0:len(ix)]
	}
}

func (km *KaplanMeier) fit() {

	km.survProb = make([]float64, len(km.times))
	x := float64(1)
	for i := range km.times {
		x *= 1 - km.nEvents[i]/km.nRisk[i]
		km.survProb[i] = x
	}
}

// Done indicates that the survival function has been configured and
// can now be fit.
func (km *KaplanMeier) Done() *KaplanMeier {
	km.init()
	km.scanData()
	km.eventstats()
	km.compress()
	km.fit()
	return km
}

// At returns the estimated survival probability at time t.  The
// estimate is right-continuous: it is 1 before the first retained
// time point and holds its last value past the final one.
func (km *KaplanMeier) At(t float64) float64 {

	ii := sort.SearchFloat64s(km.times, t)
	if ii == len(km.times) || km.times[ii] != t {
		ii--
	}
	if ii < 0 {
		return 1
	}
	return km.survProb[ii]
}

// EvalAt returns the estimated survival probabilities at each of the
// given time points.
func (km *KaplanMeier) EvalAt(times []float64) []float64 {

	pr := make([]float64, len(times))
	for i, t := range times {
		pr[i] = km.At(t)
	}
	return pr
}
