package trace

import (
	"sync"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/katalvlaran/lpcore/simplex"
)

// Recorder accumulates per-pivot iteration records. It implements
// simplex.Observer; install it through Options.Observer.
type Recorder struct {
	mu      sync.Mutex
	records []simplex.IterationRecord
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// ObserveIteration appends one record; called synchronously from the pivot
// loop.
func (r *Recorder) ObserveIteration(rec simplex.IterationRecord) {
	r.mu.Lock()
	r.records = append(r.records, rec)
	r.mu.Unlock()
}

// Len returns the number of recorded pivots.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.records)
}

// Records returns a copy of the recorded pivots in order.
func (r *Recorder) Records() []simplex.IterationRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]simplex.IterationRecord(nil), r.records...)
}

// Reset discards all records so the Recorder can serve another solve.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.records = r.records[:0]
	r.mu.Unlock()
}

// Plot renders objective-vs-iteration convergence to path (format chosen by
// extension, e.g. .png or .svg). Phase-1 pivots additionally contribute an
// infeasibility line, so the feasibility restoration is visible next to the
// objective descent.
//
// Returns ErrNoRecords when nothing was recorded.
func (r *Recorder) Plot(path string) error {
	recs := r.Records()
	if len(recs) == 0 {
		return ErrNoRecords
	}

	objective := make(plotter.XYs, len(recs))
	var infeasibility plotter.XYs
	for k, rec := range recs {
		objective[k].X = float64(rec.Iteration)
		objective[k].Y = rec.Objective
		if rec.Phase == 1 {
			infeasibility = append(infeasibility, plotter.XY{
				X: float64(rec.Iteration),
				Y: rec.Infeasibility,
			})
		}
	}

	p := plot.New()
	p.Title.Text = "simplex convergence"
	p.X.Label.Text = "iteration"
	p.Y.Label.Text = "objective"
	p.Legend.Top = true

	objLine, err := plotter.NewLine(objective)
	if err != nil {
		return err
	}
	p.Add(objLine)
	p.Legend.Add("objective", objLine)

	if len(infeasibility) > 0 {
		infLine, err := plotter.NewLine(infeasibility)
		if err != nil {
			return err
		}
		infLine.LineStyle.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
		p.Add(infLine)
		p.Legend.Add("infeasibility", infLine)
	}

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
