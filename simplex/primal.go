package simplex

import (
	"fmt"
	"math"
	"sync"
)

// primalEligible reports whether nonbasic j is an attractive entering
// candidate, and the direction (+1/-1) it would move in. Fixed variables
// never enter.
func (e *Engine) primalEligible(j int) (float64, bool) {
	d, tol := e.workDual[j], e.opts.OptimalityTol
	switch e.basis.Flag[j] {
	case NonbasicLower:
		if e.workRange[j] > 0 && d < -tol {
			return 1, true
		}
	case NonbasicUpper:
		if e.workRange[j] > 0 && d > tol {
			return -1, true
		}
	case NonbasicFree:
		if d < -tol {
			return 1, true
		}
		if d > tol {
			return -1, true
		}
	}

	return 0, false
}

// scanEntering finds the best entering candidate in [lo, hi): highest pricing
// measure, ties to the lowest combined index (strict > keeps the first hit).
func (e *Engine) scanEntering(lo, hi int) (int, float64, float64) {
	best, bestDir, bestMeasure := -1, 0.0, 0.0
	devexOn := e.opts.PrimalEdgeWeight == DevexWeights
	for j := lo; j < hi; j++ {
		dir, ok := e.primalEligible(j)
		if !ok {
			continue
		}
		measure := e.workDual[j] * e.workDual[j]
		if devexOn {
			measure /= e.weights.Weight(j)
		}
		if measure > bestMeasure {
			best, bestDir, bestMeasure = j, dir, measure
		}
	}

	return best, bestDir, bestMeasure
}

// chooseEntering prices all nonbasic variables and returns the entering
// combined index and direction, or (-1, 0) when none is attractive.
//
// Large scans split into per-worker chunks merged in chunk order with the
// same strict-improvement rule as the sequential scan, so the chosen pivot
// is identical at any thread count.
func (e *Engine) chooseEntering() (int, float64) {
	if e.numTot < parallelScanThreshold || e.opts.MaxThreads <= 1 {
		j, dir, _ := e.scanEntering(0, e.numTot)

		return j, dir
	}

	workers := e.opts.MaxThreads
	chunk := (e.numTot + workers - 1) / workers
	type candidate struct {
		j            int
		dir, measure float64
	}
	results := make([]candidate, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := min(lo+chunk, e.numTot)
		if lo >= hi {
			results[w] = candidate{j: -1}

			continue
		}
		wg.Add(1)
		go func(w, lo, hi int) {
			defer wg.Done()
			j, dir, m := e.scanEntering(lo, hi)
			results[w] = candidate{j: j, dir: dir, measure: m}
		}(w, lo, hi)
	}
	wg.Wait()

	best := candidate{j: -1}
	for _, c := range results {
		if c.j >= 0 && (best.j < 0 || c.measure > best.measure) {
			best = c
		}
	}

	return best.j, best.dir
}

// ftranEntering scatters the entering column densely into aqDense and solves
// B·colAq = a_q.
func (e *Engine) ftranEntering(q int) error {
	for i := range e.aqDense {
		e.aqDense[i] = 0
	}
	e.lpv.ColScatter(q, 1, e.aqDense)

	return e.fac.SolveVec(e.aqDense, e.colAq)
}

// btranUnitRow solves Bᵀ·rowEp = e_r, the pivotal row of B⁻¹.
func (e *Engine) btranUnitRow(r int) error {
	for i := range e.unitRhs {
		e.unitRhs[i] = 0
	}
	e.unitRhs[r] = 1

	return e.fac.SolveTransVec(e.unitRhs, e.rowEp)
}

// priceRow computes rowAp = rowEpᵀ·[A I] over the combined space. The
// column-wise form dots every nonbasic column against rowEp; the row-wise
// form accumulates through sparse row scans of A. Identical results, chosen
// by Options.Price.
func (e *Engine) priceRow() {
	if e.opts.Price == PriceRowWise {
		for j := range e.rowAp {
			e.rowAp[j] = 0
		}
		a := e.lpv.Matrix()
		for i := 0; i < e.numRow; i++ {
			t := e.rowEp[i]
			if math.Abs(t) <= zeroTol {
				continue
			}
			cols, vals, _ := a.Row(i)
			for k, j := range cols {
				e.rowAp[j] += t * vals[k]
			}
			e.rowAp[e.numCol+i] += t
		}

		return
	}

	for j := 0; j < e.numTot; j++ {
		if e.basis.Flag[j] == Basic {
			e.rowAp[j] = 0

			continue
		}
		e.rowAp[j] = e.lpv.ColDot(j, e.rowEp)
	}
}

// applyFlip moves the entering variable across its own range without a basis
// change: the cheapest possible iteration.
func (e *Engine) applyFlip(q int, dir, theta float64) {
	for i := 0; i < e.numRow; i++ {
		e.baseValue[i] -= theta * dir * e.colAq[i]
	}
	if e.basis.Flag[q] == NonbasicLower {
		e.basis.Flag[q] = NonbasicUpper
		e.workValue[q] = e.workUpper[q]
	} else {
		e.basis.Flag[q] = NonbasicLower
		e.workValue[q] = e.workLower[q]
	}

	e.numFlipSinceRebuild++
	e.totalIterations++
	e.st.hasFreshRebuild = false
	e.st.hasPrimalObjective = false
	e.st.hasDualObjective = false
	e.notifyObserver(q, -1, theta)
}

// pivot applies one full basis change: entering q through row r with step
// theta, leaving variable settling on the bound the ratio test blocked at.
// The pivotal row (rowEp/rowAp) must already be priced.
//
// Primal values, reduced costs and the factorization are updated
// incrementally; a refused factorization update schedules a rebuild instead
// of failing the pivot.
func (e *Engine) pivot(q int, dir float64, r int, theta float64, leavingToUpper bool) {
	p := e.basis.Index[r]
	alpha := e.colAq[r]

	// 1) Basic values move against the step; the entering variable advances.
	for i := 0; i < e.numRow; i++ {
		e.baseValue[i] -= theta * dir * e.colAq[i]
	}
	newXq := e.workValue[q] + dir*theta

	// 2) Reduced costs: one saxpy along the priced pivot row.
	thetaDual := e.workDual[q] / alpha
	for j := 0; j < e.numTot; j++ {
		if e.basis.Flag[j] == Basic || j == q {
			continue
		}
		e.workDual[j] -= thetaDual * e.rowAp[j]
	}
	e.workDual[p] = -thetaDual
	e.workDual[q] = 0

	// 3) Partition bookkeeping.
	if leavingToUpper {
		e.basis.Flag[p] = NonbasicUpper
		e.workValue[p] = e.baseUpper[r]
	} else {
		e.basis.Flag[p] = NonbasicLower
		e.workValue[p] = e.baseLower[r]
	}
	e.basis.Index[r] = q
	e.basis.Flag[q] = Basic
	e.slotOf[p] = -1
	e.slotOf[q] = r
	e.baseValue[r] = newXq
	e.baseLower[r] = e.workLower[q]
	e.baseUpper[r] = e.workUpper[q]

	// 4) Factorization rank-1 update; a refusal leaves the representation
	// behind the basis, so force a rebuild before the next solve with it.
	if err := e.fac.Update(e.aqDense, e.colAq, r); err != nil {
		e.rebuildNeeded = true
		e.st.hasInvert = false
		if e.opts.Verbose {
			fmt.Printf("simplex: factor update refused (%v), rebuilding\n", err)
		}
	}

	// 5) Degeneracy tracking for the stall guard.
	if theta <= e.opts.FeasibilityTol {
		e.degenerateCount++
	} else {
		e.degenerateCount = 0
	}

	e.totalIterations++
	e.st.invalidateAfterPivot()
	e.notifyObserver(q, p, theta)
}

// updatePrimalWeights advances the Devex framework after a primal pivot:
// touched nonbasics are those the priced pivot row reaches.
func (e *Engine) updatePrimalWeights(q, p int, alpha float64) {
	if e.opts.PrimalEdgeWeight != DevexWeights {
		return
	}
	e.touchedIdx = e.touchedIdx[:0]
	e.touchedVal = e.touchedVal[:0]
	for j := 0; j < e.numTot; j++ {
		if e.basis.Flag[j] == Basic || j == q {
			continue
		}
		if a := e.rowAp[j]; math.Abs(a) > zeroTol {
			e.touchedIdx = append(e.touchedIdx, j)
			e.touchedVal = append(e.touchedVal, a)
		}
	}
	e.weights.Update(q, p, alpha, e.touchedIdx, e.touchedVal)
}

// checkLimits enforces the context and iteration caps at an iteration
// boundary; returns false after setting a terminal status.
func (e *Engine) checkLimits() bool {
	if e.opts.Ctx.Err() != nil {
		e.status = StatusTimeLimit

		return false
	}
	if e.totalIterations >= e.opts.IterationLimit {
		e.status = StatusIterationLimit

		return false
	}

	return true
}

// noteTrouble records a numerical failure and schedules a rebuild; repeated
// trouble past the repair budget becomes terminal.
func (e *Engine) noteTrouble() {
	e.troubleRebuilds++
	e.rebuildNeeded = true
	e.st.invalidateFactor()
	if e.troubleRebuilds > e.opts.SingularRepairLimit {
		e.status = StatusNumericalDifficulty
	}
}

// solvePrimal is the primal phase machine: phase 1 drives the basic bound
// violations to zero under a composite infeasibility objective, phase 2
// optimizes the true costs. The phase is re-detected every iteration from
// the measured infeasibility, so feasibility lost to numerics drops back to
// phase 1 automatically.
func (e *Engine) solvePrimal() {
	e.lastInfeasSum = math.Inf(1)
	e.stallCount = 0

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

		num, sum, _ := e.primalInfeasibility()
		if num > 0 {
			e.primalPhase1Step(sum)
		} else {
			e.primalPhase2Step()
		}
	}
}

// primalPhase1Step performs one composite-objective iteration. The synthetic
// costs depend on which basics are violated, so they and the reduced costs
// are recomputed from scratch every step: correctness first, speed second.
func (e *Engine) primalPhase1Step(sum float64) {
	if e.phase != 1 && e.opts.Verbose {
		fmt.Printf("simplex: entering phase 1, infeasibility %.6g\n", sum)
	}
	e.phase = 1

	// Stall guard on the infeasibility measure.
	if sum >= e.lastInfeasSum-e.opts.FeasibilityTol {
		e.stallCount++
	} else {
		e.stallCount = 0
	}
	e.lastInfeasSum = sum
	if e.stallCount > e.opts.StallIterations {
		e.status = StatusStalled

		return
	}

	e.initialisePhase1Cost()
	if err := e.computeDual(); err != nil {
		e.noteTrouble()

		return
	}

	q, dir := e.chooseEntering()
	if q < 0 {
		// No direction reduces the infeasibility sum. Confirm on a fresh
		// rebuild before certifying: stale updates must not decide this.
		if !e.st.hasFreshRebuild {
			e.rebuildNeeded = true

			return
		}
		row, sign := e.mostInfeasibleRow()
		e.captureDualRay(row, sign)
		e.status = StatusInfeasible

		return
	}

	if err := e.ftranEntering(q); err != nil {
		e.noteTrouble()

		return
	}
	res := e.harrisRatio(q, dir)
	switch {
	case res.boundFlip:
		e.applyFlip(q, dir, res.theta)
	case res.unbounded:
		// A genuine infeasibility descent always meets a violated bound;
		// an unblocked ray here is numerical noise.
		e.noteTrouble()

		return
	default:
		p, alpha := e.basis.Index[res.row], e.colAq[res.row]
		if err := e.btranUnitRow(res.row); err != nil {
			e.noteTrouble()

			return
		}
		e.priceRow()
		e.pivot(q, dir, res.row, res.theta, res.leavingToUpper)
		e.updatePrimalWeights(q, p, alpha)
	}
	e.primalPhase1Iterations++
}

// primalPhase2Step performs one true-cost iteration, managing perturbation:
// applied after a degenerate stall, removed again before optimality is
// declared.
func (e *Engine) primalPhase2Step() {
	if e.phase != 2 {
		if e.opts.Verbose {
			fmt.Printf("simplex: entering phase 2\n")
		}
		e.phase = 2
		e.stallCount = 0
	}
	if e.syntheticCosts {
		e.initialiseCost(false)
		if err := e.computeDual(); err != nil {
			e.noteTrouble()

			return
		}
	}

	// Degenerate stall: perturb once, give up the second time.
	if e.degenerateCount > e.opts.StallIterations {
		if e.opts.CostPerturbation && !e.costsPerturbed && !e.perturbationRemoved {
			if e.opts.Verbose {
				fmt.Printf("simplex: degenerate stall, perturbing costs\n")
			}
			e.initialiseCost(true)
			if err := e.computeDual(); err != nil {
				e.noteTrouble()

				return
			}
			e.degenerateCount = 0

			return
		}
		e.status = StatusStalled

		return
	}

	q, dir := e.chooseEntering()
	if q < 0 {
		if e.costsPerturbed {
			// Optimal for the perturbed costs only; strip the perturbation
			// and let the loop clean up any residual dual infeasibility.
			e.removePerturbation()

			return
		}
		if !e.st.hasFreshRebuild {
			e.rebuildNeeded = true

			return
		}
		e.status = StatusOptimal

		return
	}

	if err := e.ftranEntering(q); err != nil {
		e.noteTrouble()

		return
	}
	res := e.harrisRatio(q, dir)
	switch {
	case res.boundFlip:
		e.applyFlip(q, dir, res.theta)
	case res.unbounded:
		if !e.st.hasFreshRebuild {
			e.rebuildNeeded = true

			return
		}
		sign := 1
		if dir < 0 {
			sign = -1
		}
		e.capturePrimalRay(q, sign)
		e.status = StatusUnbounded

		return
	default:
		p, alpha := e.basis.Index[res.row], e.colAq[res.row]
		if err := e.btranUnitRow(res.row); err != nil {
			e.noteTrouble()

			return
		}
		e.priceRow()
		e.pivot(q, dir, res.row, res.theta, res.leavingToUpper)
		e.updatePrimalWeights(q, p, alpha)
	}
	e.primalPhase2Iterations++
}

// removePerturbation restores the exact model costs and recomputes reduced
// costs from them.
func (e *Engine) removePerturbation() {
	if e.opts.Verbose {
		fmt.Printf("simplex: removing cost perturbation\n")
	}
	e.initialiseCost(false)
	e.perturbationRemoved = true
	if err := e.computeDual(); err != nil {
		e.noteTrouble()
	}
}
