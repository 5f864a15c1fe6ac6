package simplex

import "math"

// zeroTol filters negligible pivot-direction entries out of the ratio tests.
const zeroTol = 1e-12

// ratioResult is the outcome of a primal ratio test.
type ratioResult struct {
	// row is the blocking basic slot, or -1.
	row int
	// theta is the step length of the entering variable (≥ 0).
	theta float64
	// boundFlip: the entering variable hit its own opposite bound first.
	boundFlip bool
	// unbounded: nothing blocks and the entering range is infinite.
	unbounded bool
	// leavingToUpper: the blocking variable lands on its upper bound.
	leavingToUpper bool
}

// blockingBound picks the breakpoint a basic variable offers against motion
// with rate t (> 0 means its value decreases). The choice is position-aware
// so the same test serves both phases: a variable outside its bounds blocks
// first at the violated bound it is travelling back towards, which is what
// restores feasibility in phase 1.
//
// Returns (bound, toUpper, ok); ok=false when no finite breakpoint exists in
// the direction of motion.
func (e *Engine) blockingBound(i int, t float64) (float64, bool, bool) {
	v, lo, up := e.baseValue[i], e.baseLower[i], e.baseUpper[i]
	tol := e.opts.FeasibilityTol
	if t > 0 {
		// Value decreasing.
		if v > up+tol && !math.IsInf(up, 1) {
			return up, true, true
		}
		if !math.IsInf(lo, -1) {
			return lo, false, true
		}

		return 0, false, false
	}
	// Value increasing.
	if v < lo-tol && !math.IsInf(lo, -1) {
		return lo, false, true
	}
	if !math.IsInf(up, 1) {
		return up, true, true
	}

	return 0, false, false
}

// harrisRatio runs the two-pass Harris ratio test for entering variable q
// moving in direction dir (±1), against the FTRANed pivot column in colAq.
//
// Pass 1 relaxes every breakpoint by the expanded feasibility tolerance to
// find the admissible step bound θmax; pass 2 re-scans the candidates within
// θmax and keeps the one with the largest |pivot|, preferring numerically
// stable pivots and controlling cycling. Ties break on the lowest basic
// variable index. Steps clamp at zero: degenerate pivots are permitted.
//
// The entering variable's own range caps the step first when finite — that
// is a bound flip, a cheaper move with no basis change.
func (e *Engine) harrisRatio(q int, dir float64) ratioResult {
	expand := e.opts.FeasibilityTol * e.opts.HarrisExpand

	// Pass 1: relaxed minimum ratio.
	thetaMax := math.Inf(1)
	candidates := false
	for i := 0; i < e.numRow; i++ {
		t := dir * e.colAq[i]
		if math.Abs(t) <= zeroTol {
			continue
		}
		bound, _, ok := e.blockingBound(i, t)
		if !ok {
			continue
		}
		candidates = true
		slack := (e.baseValue[i] - bound) / t // signed distance along the step
		ratio := (math.Abs(e.baseValue[i]-bound) + expand) / math.Abs(t)
		if slack < 0 {
			// Already past the breakpoint: only the tolerance remains.
			ratio = expand / math.Abs(t)
		}
		if ratio < thetaMax {
			thetaMax = ratio
		}
	}

	// Entering-range cap: a finite own range may flip before anything blocks.
	if r := e.workRange[q]; !math.IsInf(r, 1) && r <= thetaMax {
		return ratioResult{row: -1, theta: r, boundFlip: true}
	}
	if !candidates {
		return ratioResult{row: -1, unbounded: true}
	}

	// Pass 2: among breakpoints within θmax, prefer the largest |pivot|.
	bestRow, bestToUpper := -1, false
	bestPivot, bestTheta := 0.0, 0.0
	for i := 0; i < e.numRow; i++ {
		t := dir * e.colAq[i]
		if math.Abs(t) <= zeroTol {
			continue
		}
		bound, toUpper, ok := e.blockingBound(i, t)
		if !ok {
			continue
		}
		theta := (e.baseValue[i] - bound) / t
		if theta < 0 {
			theta = 0
		}
		if theta > thetaMax {
			continue
		}
		pivot := math.Abs(t)
		if bestRow < 0 || pivot > bestPivot ||
			(pivot == bestPivot && e.basis.Index[i] < e.basis.Index[bestRow]) {
			bestRow, bestToUpper = i, toUpper
			bestPivot, bestTheta = pivot, theta
		}
	}
	if bestRow < 0 {
		// All candidates sat beyond the relaxed bound; numerically this means
		// an (effectively) unbounded step.
		return ratioResult{row: -1, unbounded: true}
	}

	return ratioResult{row: bestRow, theta: bestTheta, leavingToUpper: bestToUpper}
}

// dualRatio selects the entering variable for a dual pivot on slot r with
// violation sign sigma (+1 above upper, −1 below lower), using the priced
// pivot row in rowAp. Two passes in the Harris style: a relaxed pass bounds
// the dual step, the second keeps the largest |pivot| within it; ties break
// on the lowest combined index.
//
// Returns -1 when no nonbasic variable can absorb the dual step — dual
// unboundedness, which certifies primal infeasibility.
func (e *Engine) dualRatio(sigma float64) int {
	relax := e.opts.OptimalityTol * e.opts.HarrisExpand

	// Pass 1: relaxed minimum dual ratio.
	bound := math.Inf(1)
	for j := 0; j < e.numTot; j++ {
		ahat, ok := e.dualEligible(j, sigma)
		if !ok {
			continue
		}
		ratio := (math.Abs(e.workDual[j]) + relax) / math.Abs(ahat)
		if ratio < bound {
			bound = ratio
		}
	}
	if math.IsInf(bound, 1) {
		return -1
	}

	// Pass 2: largest |pivot| within the bound.
	best, bestPivot := -1, 0.0
	for j := 0; j < e.numTot; j++ {
		ahat, ok := e.dualEligible(j, sigma)
		if !ok {
			continue
		}
		ratio := math.Abs(e.workDual[j]) / math.Abs(ahat)
		if ratio > bound {
			continue
		}
		if pivot := math.Abs(ahat); best < 0 || pivot > bestPivot {
			best, bestPivot = j, pivot
		}
	}

	return best
}

// dualEligible reports whether nonbasic j can enter on a dual pivot with
// violation sign sigma, returning its signed pivot-row coefficient. The sign
// rules keep every reduced cost on its feasible side after the step.
func (e *Engine) dualEligible(j int, sigma float64) (float64, bool) {
	ahat := sigma * e.rowAp[j]
	if math.Abs(ahat) <= zeroTol {
		return 0, false
	}
	switch e.basis.Flag[j] {
	case NonbasicLower:
		// d_j ≥ 0 must stay ≥ 0: the step decreases it only when ahat > 0.
		if e.workRange[j] == 0 {
			// Fixed variables absorb any sign.
			return ahat, true
		}

		return ahat, ahat > zeroTol
	case NonbasicUpper:
		return ahat, ahat < -zeroTol
	case NonbasicFree:
		return ahat, true
	default:
		return 0, false
	}
}
