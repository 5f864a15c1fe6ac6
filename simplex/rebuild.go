package simplex

import "fmt"

// rebuild refactorizes the basis from scratch and recomputes every derived
// quantity: the periodic resynchronization that keeps accumulated update and
// saxpy drift bounded. A basis that factorizes singular is backtracked to the
// last snapshot once before giving up.
//
// Returns false after setting a terminal status.
func (e *Engine) rebuild() bool {
	updatesSince := e.fac.Updates()
	for attempt := 0; ; attempt++ {
		err := e.factorizeWithRepair()
		if err == nil {
			break
		}
		if attempt == 0 && e.restoreSnapshot() {
			if e.opts.Verbose {
				fmt.Printf("simplex: singular basis, backtracking to snapshot\n")
			}

			continue
		}
		e.status = StatusSingular

		return false
	}

	if err := e.computePrimal(); err != nil {
		e.status = StatusNumericalDifficulty

		return false
	}
	if err := e.computeDual(); err != nil {
		e.status = StatusNumericalDifficulty

		return false
	}
	if e.weights.NeedReset() {
		e.weights.Reset()
	}

	e.rebuildNeeded = false
	e.numFlipSinceRebuild = 0
	// The factorization and all derived data are exact again: transient
	// trouble is forgiven, only consecutive failures escalate.
	e.troubleRebuilds = 0
	e.st.hasFreshRebuild = true
	e.saveSnapshot()

	if e.opts.Verbose {
		fmt.Printf("simplex: rebuild at iteration %d (%d factor updates since last)\n",
			e.totalIterations, updatesSince)
	}

	return true
}
