package simplex

// IterationRecord is the per-pivot report handed to an Observer: enough to
// reconstruct the pivot path and plot convergence, cheap enough to emit on
// every iteration.
type IterationRecord struct {
	// Iteration is the 1-based total pivot count across all phases.
	Iteration int

	// Phase is 1 while feasibility is being restored, 2 afterwards.
	Phase int

	// Entering/Leaving are combined variable indices; Leaving is -1 for a
	// bound flip (no basis change).
	Entering int
	Leaving  int

	// Theta is the primal step length taken by the entering variable.
	Theta float64

	// Objective is the true-cost objective c·x after the pivot.
	Objective float64

	// Infeasibility is the summed bound violation of the basic variables
	// after the pivot (zero once phase 2 is reached).
	Infeasibility float64
}

// Observer receives one record per pivot when installed through Options.
// Implementations must not retain the record's backing engine state and must
// return quickly; the engine calls synchronously from the pivot loop.
type Observer interface {
	ObserveIteration(IterationRecord)
}

// notifyObserver emits a record for the pivot just applied. The objective and
// infeasibility sums are only evaluated when someone is listening.
func (e *Engine) notifyObserver(entering, leaving int, theta float64) {
	if e.opts.Observer == nil {
		return
	}
	_, sum, _ := e.primalInfeasibility()
	e.opts.Observer.ObserveIteration(IterationRecord{
		Iteration:     e.totalIterations,
		Phase:         e.phase,
		Entering:      entering,
		Leaving:       leaving,
		Theta:         theta,
		Objective:     e.trueObjective(),
		Infeasibility: sum,
	})
}
