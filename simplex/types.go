package simplex

import (
	"math"

	"github.com/katalvlaran/lpcore/lp"
)

// VarStatus records where a combined variable sits relative to the basis.
type VarStatus int8

const (
	// Basic marks a variable currently in the basis.
	Basic VarStatus = iota
	// NonbasicLower marks a nonbasic variable held at its lower bound.
	NonbasicLower
	// NonbasicUpper marks a nonbasic variable held at its upper bound.
	NonbasicUpper
	// NonbasicFree marks a nonbasic variable with no finite bound,
	// conventionally at zero until perturbed.
	NonbasicFree
)

// String implements fmt.Stringer for diagnostics.
func (v VarStatus) String() string {
	switch v {
	case Basic:
		return "basic"
	case NonbasicLower:
		return "nonbasic-lower"
	case NonbasicUpper:
		return "nonbasic-upper"
	case NonbasicFree:
		return "nonbasic-free"
	default:
		return "unknown"
	}
}

// Algorithm selects the pivoting strategy.
type Algorithm int8

const (
	// AlgorithmPrimal runs primal phase 1 then primal phase 2.
	AlgorithmPrimal Algorithm = iota
	// AlgorithmDual runs the dual simplex, falling back to the primal path
	// when dual feasibility cannot be restored by bound flips.
	AlgorithmDual
)

// EdgeWeightMode selects the pricing weight scheme.
type EdgeWeightMode int8

const (
	// DevexWeights prices with the Devex reference framework.
	DevexWeights EdgeWeightMode = iota
	// UnitWeights prices with constant weights (Dantzig-style).
	UnitWeights
)

// PriceStrategy hints how the pivotal row is priced against nonbasic columns.
type PriceStrategy int8

const (
	// PriceColWise walks nonbasic columns and dots each against row_ep.
	PriceColWise PriceStrategy = iota
	// PriceRowWise accumulates row_ap through row-wise scans of A.
	PriceRowWise
)

// ModelStatus is the terminal outcome of a solve.
type ModelStatus int8

const (
	// StatusNotSet: Solve has not run to a terminal state.
	StatusNotSet ModelStatus = iota
	// StatusOptimal: an optimal basic feasible solution was found.
	StatusOptimal
	// StatusInfeasible: phase 1 proved primal infeasibility; a dual ray is
	// populated.
	StatusInfeasible
	// StatusUnbounded: the objective is unbounded below; a primal ray is
	// populated.
	StatusUnbounded
	// StatusIterationLimit: the iteration cap was reached.
	StatusIterationLimit
	// StatusTimeLimit: the context deadline or cancellation fired at an
	// iteration boundary.
	StatusTimeLimit
	// StatusSingular: the basis stayed singular after bounded repair
	// attempts.
	StatusSingular
	// StatusNumericalDifficulty: instability recurred past the rebuild
	// escape hatch.
	StatusNumericalDifficulty
	// StatusStalled: repeated degenerate pivots without progress survived
	// cost perturbation.
	StatusStalled
)

// String implements fmt.Stringer.
func (m ModelStatus) String() string {
	switch m {
	case StatusNotSet:
		return "not-set"
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusIterationLimit:
		return "iteration-limit"
	case StatusTimeLimit:
		return "time-limit"
	case StatusSingular:
		return "singular-basis"
	case StatusNumericalDifficulty:
		return "numerical-difficulty"
	case StatusStalled:
		return "stalled"
	default:
		return "unknown"
	}
}

// Basis is the basic/nonbasic partition: Index holds the m basic combined
// variables in row-slot order; Flag classifies every combined variable.
type Basis struct {
	Index []int
	Flag  []VarStatus
}

// Clone deep-copies the basis (used by snapshots and result extraction).
func (b Basis) Clone() Basis {
	return Basis{
		Index: append([]int(nil), b.Index...),
		Flag:  append([]VarStatus(nil), b.Flag...),
	}
}

// SlackBasis builds the all-logical starting basis for a working LP: every
// logical basic, every structural nonbasic at its preferred bound (finite
// lower, else finite upper, else free at zero).
func SlackBasis(w *lp.WorkingLP) Basis {
	n, m := w.NumCol(), w.NumRow()
	b := Basis{
		Index: make([]int, m),
		Flag:  make([]VarStatus, n+m),
	}
	for i := 0; i < m; i++ {
		b.Index[i] = n + i
		b.Flag[n+i] = Basic
	}
	for j := 0; j < n; j++ {
		switch {
		case !math.IsInf(w.Lower(j), -1):
			b.Flag[j] = NonbasicLower
		case !math.IsInf(w.Upper(j), 1):
			b.Flag[j] = NonbasicUpper
		default:
			b.Flag[j] = NonbasicFree
		}
	}

	return b
}

// Result is the terminal report of a solve.
type Result struct {
	Status ModelStatus

	// PrimalObjective is the true-cost objective c·x at the final basis;
	// DualObjective is its dual counterpart. Both are NaN unless the solve
	// reached a state where they are defined.
	PrimalObjective float64
	DualObjective   float64

	// ColValue/ColDual are indexed by structural column; RowValue is the row
	// activity a_i·x and RowDual the simplex multiplier π_i.
	ColValue []float64
	ColDual  []float64
	RowValue []float64
	RowDual  []float64

	// Basis is the final partition.
	Basis Basis

	// Per-phase iteration counters.
	PrimalPhase1Iterations int
	PrimalPhase2Iterations int
	DualPhase1Iterations   int
	DualPhase2Iterations   int

	dualRay   *DualRay
	primalRay *PrimalRay
}

// HasDualRay reports whether an infeasibility certificate is populated.
func (r *Result) HasDualRay() bool { return r.dualRay != nil }

// DualRayCertificate returns the dual ray; it panics when no ray is
// populated — check HasDualRay first.
func (r *Result) DualRayCertificate() DualRay {
	if r.dualRay == nil {
		panic(panicDualRayUnset)
	}

	return *r.dualRay
}

// HasPrimalRay reports whether an unboundedness certificate is populated.
func (r *Result) HasPrimalRay() bool { return r.primalRay != nil }

// PrimalRayCertificate returns the primal ray; it panics when no ray is
// populated — check HasPrimalRay first.
func (r *Result) PrimalRayCertificate() PrimalRay {
	if r.primalRay == nil {
		panic(panicPrimalRayUnset)
	}

	return *r.primalRay
}
