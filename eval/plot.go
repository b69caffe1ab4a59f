package eval

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// ScorePlotter plots pointwise scores (for example Brier scores)
// against evaluation time, optionally together with Kaplan-Meier
// curves drawn as step functions.
type ScorePlotter struct {
	plt *plot.Plot

	labels []string
	lines  []*plotter.Line

	width  vg.Length
	height vg.Length
}

// NewScorePlotter returns a default ScorePlotter.
func NewScorePlotter() *ScorePlotter {

	return &ScorePlotter{
		plt:    plot.New(),
		width:  4,
		height: 4,
	}
}

// Width sets the width of the plot in inches.
func (sp *ScorePlotter) Width(w float64) *ScorePlotter {
	sp.width = vg.Length(w)
	return sp
}

// Height sets the height of the plot in inches.
func (sp *ScorePlotter) Height(h float64) *ScorePlotter {
	sp.height = vg.Length(h)
	return sp
}

func (sp *ScorePlotter) addLine(pts plotter.XYs, label string) {

	line, err := plotter.NewLine(pts)
	if err != nil {
		panic(err)
	}
	line.Color = plotutil.Color(len(sp.lines))
	sp.lines = append(sp.lines, line)
	sp.labels = append(sp.labels, label)
}

// AddScores plots a score curve, one point per evaluation time.
func (sp *ScorePlotter) AddScores(times, scores []float64, label string) *ScorePlotter {

	pts := make(plotter.XYs, len(times))
	for i := range times {
		pts[i].X = times[i]
		pts[i].Y = scores[i]
	}
	sp.addLine(pts, label)

	return sp
}

// AddSurvFunc plots a fitted Kaplan-Meier curve as a step function.
func (sp *ScorePlotter) AddSurvFunc(km *KaplanMeier, label string) *ScorePlotter {

	ti := km.Time()
	pr := km.SurvProb()

	pts := make(plotter.XYs, 2*len(ti)+1)

	j := 0
	pts[j].X = 0
	pts[j].Y = 1
	j++

	for i := range ti {
		pts[j].X = ti[i]
		pts[j].Y = pts[j-1].Y
		j++
		pts[j].X = ti[i]
		pts[j].Y = pr[i]
		j++
	}

	sp.addLine(pts, label)

	return sp
}

// Plot constructs the plot.
func (sp *ScorePlotter) Plot() *ScorePlotter {

	sp.plt.X.Label.Text = "Time"
	sp.plt.Y.Label.Text = "Score"

	for i := range sp.lines {
		sp.plt.Add(sp.lines[i])
		sp.plt.Legend.Add(sp.labels[i], sp.lines[i])
	}

	if len(sp.lines) > 1 {
		sp.plt.Legend.Top = true
		sp.plt.Legend.Left = false
	}

	return sp
}

// GetPlotStruct returns the plotting structure for this plot.
func (sp *ScorePlotter) GetPlotStruct() *plot.Plot {
	return sp.plt
}

// Save writes the plot to the given file.
func (sp *ScorePlotter) Save(fname string) {

	if err := sp.plt.Save(sp.width*vg.Inch, sp.height*vg.Inch, fname); err != nil {
		panic(err)
	}
}
