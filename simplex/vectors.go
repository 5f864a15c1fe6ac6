package simplex

import (
	"math"
	"math/rand"
)

// allocateWorkAndBaseArrays sizes every work and base array exactly once.
// Called from Init only; the hot loop never allocates.
func (e *Engine) allocateWorkAndBaseArrays() {
	tot, m := e.numTot, e.numRow

	e.workCost = make([]float64, tot)
	e.workDual = make([]float64, tot)
	e.workLower = make([]float64, tot)
	e.workUpper = make([]float64, tot)
	e.workRange = make([]float64, tot)
	e.workValue = make([]float64, tot)
	e.randomValue = make([]float64, tot)

	e.baseLower = make([]float64, m)
	e.baseUpper = make([]float64, m)
	e.baseValue = make([]float64, m)

	e.colAq = make([]float64, m)
	e.rowEp = make([]float64, m)
	e.rowAp = make([]float64, tot)
	e.aqDense = make([]float64, m)
	e.pi = make([]float64, m)
	e.unitRhs = make([]float64, m)

	e.touchedIdx = make([]int, 0, tot)
	e.touchedVal = make([]float64, 0, tot)

	e.slotOf = make([]int, tot)
	e.rebuildSlotMap()
}

// rebuildSlotMap refreshes the combined-index → basic-slot map.
func (e *Engine) rebuildSlotMap() {
	for j := range e.slotOf {
		e.slotOf[j] = -1
	}
	for i, j := range e.basis.Index {
		e.slotOf[j] = i
	}
}

// initialiseRandomValue fills one pseudo-random real in [0.5, 1) per combined
// variable from the fixed seed, so perturbation is reproducible.
func (e *Engine) initialiseRandomValue() {
	rng := rand.New(rand.NewSource(e.opts.Seed))
	for j := range e.randomValue {
		e.randomValue[j] = 0.5 + 0.5*rng.Float64()
	}
}

// initialiseCost copies model costs into workCost. With perturb set it adds
// small seeded multiples of the perturbation multiplier, scaled by cost
// magnitude and signed by the nonbasic placement so dual feasibility is
// nudged rather than broken. Pure recomputation; never called in the hot
// loop.
func (e *Engine) initialiseCost(perturb bool) {
	for j := 0; j < e.numTot; j++ {
		e.workCost[j] = e.lpv.Cost(j)
	}
	e.costsPerturbed = false
	e.syntheticCosts = false
	if !perturb || !e.opts.CostPerturbation {
		return
	}

	mult := e.opts.PerturbationMultiplier
	for j := 0; j < e.numTot; j++ {
		delta := mult * e.randomValue[j] * (1 + math.Abs(e.workCost[j]))
		switch e.basis.Flag[j] {
		case NonbasicLower:
			e.workCost[j] += delta
		case NonbasicUpper:
			e.workCost[j] -= delta
		default:
			// Basic and free variables get the smallest nudge.
			e.workCost[j] += mult * e.randomValue[j] * 1e-2
		}
	}
	e.costsPerturbed = true
}

// initialisePhase1Cost installs the synthetic infeasibility-minimizing
// objective: −1 for basic variables below their lower bound, +1 above their
// upper bound, 0 elsewhere. Reduced costs must be recomputed afterwards.
func (e *Engine) initialisePhase1Cost() {
	tol := e.opts.FeasibilityTol
	for j := 0; j < e.numTot; j++ {
		e.workCost[j] = 0
	}
	for i := 0; i < e.numRow; i++ {
		j := e.basis.Index[i]
		switch {
		case e.baseValue[i] < e.baseLower[i]-tol:
			e.workCost[j] = -1
		case e.baseValue[i] > e.baseUpper[i]+tol:
			e.workCost[j] = 1
		}
	}
	e.syntheticCosts = true
	e.st.hasDualValues = false
}

// initialiseBound installs the working bounds for the given phase and
// refreshes the base-array mirrors. Phase 2 restores true model bounds.
// Phase 1 keeps them too: feasibility restoration is driven by the synthetic
// costs plus the position-aware ratio test, which substitutes the violated
// bound as the blocking breakpoint, so no destructive bound replacement is
// needed.
func (e *Engine) initialiseBound(phase int) {
	_ = phase
	for j := 0; j < e.numTot; j++ {
		e.workLower[j] = e.lpv.Lower(j)
		e.workUpper[j] = e.lpv.Upper(j)
		e.workRange[j] = e.workUpper[j] - e.workLower[j]
	}
	for i := 0; i < e.numRow; i++ {
		j := e.basis.Index[i]
		e.baseLower[i] = e.workLower[j]
		e.baseUpper[i] = e.workUpper[j]
	}
}

// initialiseNonbasicWorkValue rests every nonbasic variable on its flagged
// bound; free nonbasics sit at zero until perturbed.
func (e *Engine) initialiseNonbasicWorkValue() {
	for j := 0; j < e.numTot; j++ {
		if e.basis.Flag[j] == Basic {
			continue
		}
		e.workValue[j] = e.nonbasicValue(j)
	}
}

// computePrimal recomputes the basic primal values from scratch:
// B·x_B = −Σ_{nonbasic j} a_j·x_j (the working RHS is identically zero).
func (e *Engine) computePrimal() error {
	rhs := e.aqDense[:e.numRow]
	for i := range rhs {
		rhs[i] = 0
	}
	for j := 0; j < e.numTot; j++ {
		if e.basis.Flag[j] == Basic || e.workValue[j] == 0 {
			continue
		}
		e.lpv.ColScatter(j, -e.workValue[j], rhs)
	}
	if err := e.fac.SolveVec(rhs, e.baseValue); err != nil {
		e.st.hasPrimalValues = false

		return err
	}

	for i := 0; i < e.numRow; i++ {
		j := e.basis.Index[i]
		e.baseLower[i] = e.workLower[j]
		e.baseUpper[i] = e.workUpper[j]
	}
	e.st.hasPrimalValues = true

	return nil
}

// computeDual recomputes the simplex multipliers π (Bᵀπ = c_B) and all
// reduced costs from scratch. Basic reduced costs come out exactly zero.
func (e *Engine) computeDual() error {
	rhs := e.aqDense[:e.numRow]
	for i := 0; i < e.numRow; i++ {
		rhs[i] = e.workCost[e.basis.Index[i]]
	}
	if err := e.fac.SolveTransVec(rhs, e.pi); err != nil {
		e.st.hasDualValues = false

		return err
	}

	for j := 0; j < e.numTot; j++ {
		if e.basis.Flag[j] == Basic {
			e.workDual[j] = 0

			continue
		}
		e.workDual[j] = e.workCost[j] - e.lpv.ColDot(j, e.pi)
	}
	e.st.hasDualValues = true

	return nil
}

// primalInfeasibility measures the basic values against true bounds:
// count, sum and max of violations beyond the feasibility tolerance.
func (e *Engine) primalInfeasibility() (int, float64, float64) {
	tol := e.opts.FeasibilityTol
	num, sum, maxV := 0, 0.0, 0.0
	for i := 0; i < e.numRow; i++ {
		var v float64
		switch {
		case e.baseValue[i] < e.baseLower[i]-tol:
			v = e.baseLower[i] - e.baseValue[i]
		case e.baseValue[i] > e.baseUpper[i]+tol:
			v = e.baseValue[i] - e.baseUpper[i]
		default:
			continue
		}
		num++
		sum += v
		if v > maxV {
			maxV = v
		}
	}

	return num, sum, maxV
}

// mostInfeasibleRow returns the slot with the largest bound violation and
// the violation sign (+1 above upper, −1 below lower); (-1, 0) when primal
// feasible.
func (e *Engine) mostInfeasibleRow() (int, int) {
	tol := e.opts.FeasibilityTol
	row, sign, worst := -1, 0, 0.0
	for i := 0; i < e.numRow; i++ {
		switch {
		case e.baseValue[i] < e.baseLower[i]-tol:
			if v := e.baseLower[i] - e.baseValue[i]; v > worst {
				row, sign, worst = i, -1, v
			}
		case e.baseValue[i] > e.baseUpper[i]+tol:
			if v := e.baseValue[i] - e.baseUpper[i]; v > worst {
				row, sign, worst = i, 1, v
			}
		}
	}

	return row, sign
}

// trueObjective evaluates the model objective c·x at the current values
// (structural costs only; logicals cost nothing).
func (e *Engine) trueObjective() float64 {
	obj := 0.0
	for j := 0; j < e.numCol; j++ {
		obj += e.lpv.Cost(j) * e.valueOf(j)
	}

	return obj
}

// dualObjectiveValue evaluates Σ d_j·x_j over nonbasic variables; with a zero
// working RHS this is the dual objective at the current basis.
func (e *Engine) dualObjectiveValue() float64 {
	obj := 0.0
	for j := 0; j < e.numTot; j++ {
		if e.basis.Flag[j] == Basic {
			continue
		}
		obj += e.workDual[j] * e.workValue[j]
	}

	return obj
}

// valueOf returns the current value of combined variable j from either
// partition.
func (e *Engine) valueOf(j int) float64 {
	if i := e.slotOf[j]; i >= 0 {
		return e.baseValue[i]
	}

	return e.workValue[j]
}
