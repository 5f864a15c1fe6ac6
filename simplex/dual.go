package simplex

import (
	"fmt"
	"math"
)

// restoreDualFeasibility pushes wrong-signed reduced costs back to their
// feasible side by flipping boxed nonbasics to the opposite bound; each flip
// counts as a dual phase-1 iteration. Returns false when a wrong-signed dual
// sits on a variable with no opposite bound to flip to (a free variable, or
// a one-sided range) — that state needs primal pivoting, not flips.
func (e *Engine) restoreDualFeasibility() bool {
	tol := e.opts.OptimalityTol
	flips := 0
	for j := 0; j < e.numTot; j++ {
		switch e.basis.Flag[j] {
		case NonbasicLower:
			if e.workDual[j] >= -tol {
				continue
			}
			if math.IsInf(e.workUpper[j], 1) {
				return false
			}
			e.basis.Flag[j] = NonbasicUpper
			e.workValue[j] = e.workUpper[j]
			flips++
		case NonbasicUpper:
			if e.workDual[j] <= tol {
				continue
			}
			if math.IsInf(e.workLower[j], -1) {
				return false
			}
			e.basis.Flag[j] = NonbasicLower
			e.workValue[j] = e.workLower[j]
			flips++
		case NonbasicFree:
			if math.Abs(e.workDual[j]) > tol {
				return false
			}
		}
	}
	if flips > 0 {
		e.dualPhase1Iterations += flips
		e.numFlipSinceRebuild += flips
		if err := e.computePrimal(); err != nil {
			e.noteTrouble()
		}
		if e.opts.Verbose {
			fmt.Printf("simplex: dual feasibility restored with %d bound flips\n", flips)
		}
	}

	return true
}

// chooseLeavingRow picks the basic slot with the worst weighted bound
// violation; ties break on the lowest basic variable index. Returns (-1, 0)
// when primal feasible.
func (e *Engine) chooseLeavingRow() (int, float64) {
	tol := e.opts.FeasibilityTol
	devexOn := e.opts.DualEdgeWeight == DevexWeights
	best, bestSigma, bestMeasure := -1, 0.0, 0.0
	for i := 0; i < e.numRow; i++ {
		var infeas, sigma float64
		switch {
		case e.baseValue[i] > e.baseUpper[i]+tol:
			infeas, sigma = e.baseValue[i]-e.baseUpper[i], 1
		case e.baseValue[i] < e.baseLower[i]-tol:
			infeas, sigma = e.baseLower[i]-e.baseValue[i], -1
		default:
			continue
		}
		measure := infeas * infeas
		if devexOn {
			measure /= e.weights.Weight(e.basis.Index[i])
		}
		if measure > bestMeasure ||
			(measure == bestMeasure && best >= 0 && e.basis.Index[i] < e.basis.Index[best]) {
			best, bestSigma, bestMeasure = i, sigma, measure
		}
	}

	return best, bestSigma
}

// solveDual is the dual simplex loop: maintain dual feasibility, drive the
// primal bound violations out one leaving row at a time. Dual unboundedness
// certifies primal infeasibility. States the flip-based restoration cannot
// reach hand over to the primal machine.
func (e *Engine) solveDual() {
	if e.opts.CostPerturbation {
		e.initialiseCost(true)
		e.rebuildNeeded = true
	}

	for e.status == StatusNotSet {
		if !e.checkLimits() {
			return
		}
		if e.rebuildNeeded || !e.st.hasInvert {
			if !e.rebuild() {
				return
			}

			continue
		}
		if e.weights.NeedReset() {
			e.weights.Reset()
		}

		if !e.restoreDualFeasibility() {
			if e.opts.Verbose {
				fmt.Printf("simplex: dual infeasibility not flippable, switching to primal\n")
			}
			e.initialiseCost(false)
			e.rebuildNeeded = true
			e.solvePrimal()

			return
		}

		r, sigma := e.chooseLeavingRow()
		if r < 0 {
			// Primal and dual feasible.
			if e.costsPerturbed {
				e.removePerturbation()

				continue
			}
			if !e.st.hasFreshRebuild {
				e.rebuildNeeded = true

				continue
			}
			e.status = StatusOptimal

			return
		}
		e.phase = 2

		e.dualStep(r, sigma)
	}
}

// dualStep performs one dual pivot on leaving slot r with violation sign
// sigma.
func (e *Engine) dualStep(r int, sigma float64) {
	if err := e.btranUnitRow(r); err != nil {
		e.noteTrouble()

		return
	}
	e.priceRow()

	q := e.dualRatio(sigma)
	if q < 0 {
		// No nonbasic can absorb the dual step: the dual objective is
		// unbounded along this row, so the primal is infeasible. Confirm on
		// exact costs and a fresh factorization before certifying.
		if e.costsPerturbed {
			e.removePerturbation()

			return
		}
		if !e.st.hasFreshRebuild {
			e.rebuildNeeded = true

			return
		}
		e.captureDualRay(r, int(sigma))
		e.status = StatusInfeasible

		return
	}

	if err := e.ftranEntering(q); err != nil {
		e.noteTrouble()

		return
	}
	alpha := e.colAq[r]
	if math.Abs(alpha) <= zeroTol {
		e.noteTrouble()

		return
	}

	// Direction keeps the entering variable on its feasible side: the sign
	// rules in the ratio test guarantee sigma·alpha matches the placement.
	dir := sigma
	if alpha < 0 {
		dir = -sigma
	}
	bound := e.baseUpper[r]
	if sigma < 0 {
		bound = e.baseLower[r]
	}
	theta := (e.baseValue[r] - bound) / (dir * alpha)
	if theta < 0 {
		theta = 0
	}

	// Degenerate stall: the dual runs perturbed from the start when enabled,
	// so a stall here has no second remedy.
	if e.degenerateCount > e.opts.StallIterations {
		e.status = StatusStalled

		return
	}

	p := e.basis.Index[r]
	e.pivot(q, dir, r, theta, sigma > 0)
	e.updateDualWeights(p, q, alpha)
	e.dualPhase2Iterations++
}

// updateDualWeights advances the Devex row weights after a dual pivot: the
// reference weight is the leaving variable's, the touched set is the new
// basic column keyed by the FTRANed pivot column.
func (e *Engine) updateDualWeights(p, q int, alpha float64) {
	if e.opts.DualEdgeWeight != DevexWeights {
		return
	}
	e.weights.Update(p, q, alpha, e.basis.Index, e.colAq)
}
