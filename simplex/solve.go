package simplex

import (
	"math"
)

// Solve runs the configured algorithm to a terminal status and reports it.
//
// It returns:
//   - *Result : the terminal report (status, values, duals, counters, rays)
//   - err     : ErrNotInitialised before Init, ErrViewMutated when the
//     working LP's generation stamp moved since New
//
// Solve is idempotent: once a terminal status is reached, further calls
// return the same Result without pivoting again.
func (e *Engine) Solve() (*Result, error) {
	if !e.initialised {
		return nil, ErrNotInitialised
	}
	if e.lpv.Generation() != e.gen {
		return nil, ErrViewMutated
	}
	if e.lastResult != nil {
		return e.lastResult, nil
	}

	switch e.opts.Algorithm {
	case AlgorithmDual:
		e.solveDual()
	default:
		e.solvePrimal()
	}

	e.finalRefresh()
	e.lastResult = e.buildResult()

	return e.lastResult, nil
}

// finalRefresh restores exact model costs and recomputes values, multipliers
// and reduced costs at the final basis, so the report never carries synthetic
// or perturbed quantities. Skipped when the factorization is unusable (the
// last consistent incremental state is reported instead).
func (e *Engine) finalRefresh() {
	if !e.st.hasInvert {
		return
	}
	if e.syntheticCosts || e.costsPerturbed {
		e.initialiseCost(false)
		e.st.hasDualValues = false
	}
	if !e.st.hasDualValues || !e.st.hasFreshRebuild {
		_ = e.computePrimal()
		_ = e.computeDual()
	}
	e.st.hasPrimalObjective = e.st.hasPrimalValues
	e.st.hasDualObjective = e.st.hasDualValues
}

// buildResult snapshots the terminal state into a caller-owned Result.
func (e *Engine) buildResult() *Result {
	res := &Result{
		Status:                 e.status,
		PrimalObjective:        math.NaN(),
		DualObjective:          math.NaN(),
		Basis:                  e.basis.Clone(),
		PrimalPhase1Iterations: e.primalPhase1Iterations,
		PrimalPhase2Iterations: e.primalPhase2Iterations,
		DualPhase1Iterations:   e.dualPhase1Iterations,
		DualPhase2Iterations:   e.dualPhase2Iterations,
	}

	if e.st.hasPrimalValues {
		res.PrimalObjective = e.trueObjective()
		res.ColValue = make([]float64, e.numCol)
		for j := 0; j < e.numCol; j++ {
			res.ColValue[j] = e.valueOf(j)
		}
		// Row activity a_i·x is the negated logical value under [A I]·x = 0.
		res.RowValue = make([]float64, e.numRow)
		for i := 0; i < e.numRow; i++ {
			res.RowValue[i] = -e.valueOf(e.numCol + i)
		}
	}
	if e.st.hasDualValues {
		res.DualObjective = e.dualObjectiveValue()
		res.ColDual = append([]float64(nil), e.workDual[:e.numCol]...)
		res.RowDual = append([]float64(nil), e.pi...)
	}

	if e.st.hasDualRay {
		ray := *e.dualRay
		res.dualRay = &ray
	}
	if e.st.hasPrimalRay {
		ray := *e.primalRay
		res.primalRay = &ray
	}

	return res
}

// ObjectiveValue returns the true-cost objective c·x at the current basis.
// It panics when the primal values backing it are not populated.
func (e *Engine) ObjectiveValue() float64 {
	if !e.st.hasPrimalValues {
		panic(panicObjectiveUnset)
	}

	return e.trueObjective()
}

// TotalIterations returns the pivot count across all phases so far.
func (e *Engine) TotalIterations() int { return e.totalIterations }
