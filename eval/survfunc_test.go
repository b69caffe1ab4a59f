package eval

import (
	"testing"

	"github.com/kshedden/dstream/dstream"
	"github.com/stretchr/testify/assert"
)

func kmFromArrays(time, status []float64) *KaplanMeier {

	da := dstream.NewFromArrays([][]interface{}{{time}, {status}},
		[]string{"Time", "Status"})
	return NewKaplanMeier(da, "Time", "Status").Done()
}

func TestKaplanMeierAllEvents(t *testing.T) {

	var time []float64
	var status []float64
	n := 20

	for i := 0; i < n; i++ {
		time = append(time, float64(i))
		status = append(status, 1)
	}

	km := kmFromArrays(time, status)

	times := km.Time()
	nrisk := km.NumRisk()
	sp := km.SurvProb()
	for i := 0; i < n; i++ {
		assert.Equal(t, float64(i), times[i])
		assert.Equal(t, float64(n-i), nrisk[i])
		assert.InDelta(t, 1-float64(i+1)/float64(n), sp[i], 1e-10)
	}
}

func TestKaplanMeierCensoring(t *testing.T) {

	time := []float64{1, 2, 2, 3, 5}
	status := []float64{1, 0, 1, 1, 1}

	km := kmFromArrays(time, status)

	// S = 4/5, then 4/5 * 3/4, then 3/5 * 1/2, then 0.
	assert.Equal(t, []float64{1, 2, 3, 5}, km.Time())
	want := []float64{0.8, 0.6, 0.3, 0}
	for i, w := range want {
		assert.InDelta(t, w, km.SurvProb()[i], 1e-10)
	}
}

func TestKaplanMeierAt(t *testing.T) {

	time := []float64{1, 2, 2, 3, 5}
	status := []float64{1, 0, 1, 1, 1}

	km := kmFromArrays(time, status)

	cases := []struct {
		t    float64
		want float64
	}{
		{0.5, 1},   // before the first observation
		{1, 0.8},   // exact training point
		{2, 0.6},   // exact training point with a tie
		{2.5, 0.6}, // between steps
		{4, 0.3},   // between steps
		{5, 0},     // last observation
		{100, 0},   // past the last observation
		{-1, 1},    // negative query
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, km.At(c.t), 1e-10, "At(%v)", c.t)
	}

	qs := []float64{0.5, 2, 4}
	pr := km.EvalAt(qs)
	for i, q := range qs {
		assert.Equal(t, km.At(q), pr[i])
	}
}

func TestKaplanMeierNoCensoringEvents(t *testing.T) {

	// Fitting on reversed statuses with no censored subjects must
	// give a curve that is identically one.
	time := []float64{1, 2, 3}
	events := []float64{1, 1, 1}

	km := censorDist(time, events)
	for _, q := range []float64{0, 1, 2.5, 10} {
		assert.Equal(t, 1.0, km.At(q))
	}
}
