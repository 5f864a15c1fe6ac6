package simplex

import (
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/lpcore/devex"
	"github.com/katalvlaran/lpcore/factor"
	"github.com/katalvlaran/lpcore/lp"
)

// Engine owns all mutable solve state for one working LP + initial basis.
// It is not safe for concurrent use; run concurrent solves on separate
// engines.
type Engine struct {
	lpv  *lp.WorkingLP
	opts Options
	gen  uint64 // lp generation snapshot taken at New

	numCol, numRow, numTot int

	basis  Basis
	slotOf []int // combined index → basic slot, -1 when nonbasic
	st     state
	status ModelStatus

	fac     *factor.Factorization
	weights *devex.Weights

	// Work arrays over the combined space n+m.
	workCost  []float64
	workDual  []float64
	workLower []float64
	workUpper []float64
	workRange []float64
	workValue []float64

	// randomValue carries one seeded pseudo-random real per combined
	// variable for reproducible cost perturbation.
	randomValue []float64

	// Base arrays over the m basic slots.
	baseLower []float64
	baseUpper []float64
	baseValue []float64

	// Solve buffers, reused across iterations to avoid reallocation.
	colAq   []float64 // FTRANed pivot column B⁻¹·a_q
	rowEp   []float64 // BTRANed unit row B⁻ᵀ·e_r
	rowAp   []float64 // priced pivot row over the combined space
	aqDense []float64 // dense scatter of the entering column
	pi      []float64 // simplex multipliers from the last computeDual
	unitRhs []float64 // unit right-hand side for BTRAN

	// Scratch for Devex updates.
	touchedIdx []int
	touchedVal []float64

	// Counters and runtime flags.
	primalPhase1Iterations int
	primalPhase2Iterations int
	dualPhase1Iterations   int
	dualPhase2Iterations   int
	totalIterations        int

	numFlipSinceRebuild int
	degenerateCount     int
	costsPerturbed      bool
	perturbationRemoved bool
	rebuildNeeded       bool
	troubleRebuilds     int

	// Stall detection over a window of non-improving pivots.
	stallCount     int
	lastInfeasSum  float64
	syntheticCosts bool // phase-1 objective currently installed

	phase int // 1 or 2 while a solve is running

	dualRay   *DualRay
	primalRay *PrimalRay

	snapshot *basisSnapshot

	initialised bool
	lastResult  *Result
}

// basisSnapshot is the saved state for backtracking after singular pivots:
// basis partition, nonbasic values, pricing weights and perturbation flag.
type basisSnapshot struct {
	basis          Basis
	workValue      []float64
	weightValues   []float64
	costsPerturbed bool
}

// New validates the inputs and binds an engine to a working LP view.
//
// It returns:
//   - ErrNilLP when the view is nil
//   - ErrBadBasis when the partition is malformed: wrong index count, an
//     index outside the combined space, flags disagreeing with the index
//     set, or a nonbasic flag pointing at an infinite bound
//
// The basis is deep-copied; the view is shared and assumed immutable (its
// generation stamp is re-checked at Solve).
func New(lpv *lp.WorkingLP, basis Basis, opts Options) (*Engine, error) {
	if lpv == nil {
		return nil, ErrNilLP
	}
	opts.normalize()

	n, m := lpv.NumCol(), lpv.NumRow()
	tot := n + m
	if len(basis.Index) != m || len(basis.Flag) != tot {
		return nil, ErrBadBasis
	}
	seen := make([]bool, tot)
	for _, j := range basis.Index {
		if j < 0 || j >= tot || seen[j] || basis.Flag[j] != Basic {
			return nil, ErrBadBasis
		}
		seen[j] = true
	}
	basicCount := 0
	for j, f := range basis.Flag {
		switch f {
		case Basic:
			basicCount++
		case NonbasicLower:
			if math.IsInf(lpv.Lower(j), -1) {
				return nil, ErrBadBasis
			}
		case NonbasicUpper:
			if math.IsInf(lpv.Upper(j), 1) {
				return nil, ErrBadBasis
			}
		case NonbasicFree:
			// Always placeable.
		default:
			return nil, ErrBadBasis
		}
	}
	if basicCount != m {
		return nil, ErrBadBasis
	}

	e := &Engine{
		lpv:    lpv,
		opts:   opts,
		gen:    lpv.Generation(),
		numCol: n,
		numRow: m,
		numTot: tot,
		basis:  basis.Clone(),
		status: StatusNotSet,
		fac:    factor.New(opts.UpdateLimit, opts.FactorPivotThreshold),
	}
	e.st.hasBasis = true

	return e, nil
}

// Init prepares arrays from the model and basis: allocation, cost and bound
// initialization, nonbasic values, factorization (with bounded
// singular-basis repair), primal and dual recomputation, and the pricing
// reference framework.
//
// Returns factor.ErrSingularBasis (and sets StatusSingular) when the basis
// remains singular after the repair budget.
func (e *Engine) Init() error {
	e.allocateWorkAndBaseArrays()
	e.initialiseRandomValue()
	e.initialiseCost(false)
	e.initialiseBound(2)
	e.initialiseNonbasicWorkValue()

	e.weights = devex.New(e.numTot, e.opts.DevexResetInterval, e.opts.MaxBadDevexWeights)
	e.st.hasEdgeWeights = true

	if err := e.factorizeWithRepair(); err != nil {
		e.status = StatusSingular

		return err
	}
	if err := e.computePrimal(); err != nil {
		return err
	}
	if err := e.computeDual(); err != nil {
		return err
	}
	e.st.hasFreshRebuild = true

	e.saveSnapshot()
	e.initialised = true

	return nil
}

// factorizeWithRepair factorizes the current basis; on singularity it
// substitutes logical columns for structural basic variables, one slot per
// retry in deterministic slot order, up to the repair budget.
func (e *Engine) factorizeWithRepair() error {
	err := e.fac.Factorize(e.lpv, e.basis.Index)
	if err == nil {
		e.st.hasInvert = true
		e.st.hasFreshInvert = true

		return nil
	}
	if !errors.Is(err, factor.ErrSingularBasis) {
		return err
	}

	repaired := 0
	for slot := 0; slot < e.numRow && repaired < e.opts.SingularRepairLimit; slot++ {
		j := e.basis.Index[slot]
		logical := e.numCol + slot
		if j == logical || e.basis.Flag[logical] == Basic {
			continue
		}

		// Push the structural variable out to its preferred bound and seat
		// the row's logical in its place.
		e.basis.Flag[j] = e.preferredNonbasic(j)
		e.workValue[j] = e.nonbasicValue(j)
		e.basis.Index[slot] = logical
		e.basis.Flag[logical] = Basic
		e.rebuildSlotMap()
		repaired++

		if e.opts.Verbose {
			fmt.Printf("simplex: singular basis, substituted logical for column %d in slot %d\n", j, slot)
		}
		if err = e.fac.Factorize(e.lpv, e.basis.Index); err == nil {
			e.st.hasInvert = true
			e.st.hasFreshInvert = true
			e.st.hasDualValues = false
			e.st.hasPrimalValues = false

			return nil
		}
		if !errors.Is(err, factor.ErrSingularBasis) {
			return err
		}
	}

	e.st.invalidateFactor()

	return factor.ErrSingularBasis
}

// preferredNonbasic returns the placement flag for a variable forced out of
// the basis: finite lower, else finite upper, else free.
func (e *Engine) preferredNonbasic(j int) VarStatus {
	switch {
	case !math.IsInf(e.workLower[j], -1):
		return NonbasicLower
	case !math.IsInf(e.workUpper[j], 1):
		return NonbasicUpper
	default:
		return NonbasicFree
	}
}

// nonbasicValue returns the working value a nonbasic variable rests at.
func (e *Engine) nonbasicValue(j int) float64 {
	switch e.basis.Flag[j] {
	case NonbasicLower:
		return e.workLower[j]
	case NonbasicUpper:
		return e.workUpper[j]
	default:
		return 0
	}
}

// saveSnapshot stores the basis/weights state for backtracking.
func (e *Engine) saveSnapshot() {
	weightCopy := make([]float64, e.numTot)
	for j := 0; j < e.numTot; j++ {
		weightCopy[j] = e.weights.Weight(j)
	}
	e.snapshot = &basisSnapshot{
		basis:          e.basis.Clone(),
		workValue:      append([]float64(nil), e.workValue...),
		weightValues:   weightCopy,
		costsPerturbed: e.costsPerturbed,
	}
}

// restoreSnapshot rolls the basis/weight state back to the last snapshot and
// schedules a rebuild. Returns false when no snapshot exists.
func (e *Engine) restoreSnapshot() bool {
	if e.snapshot == nil {
		return false
	}
	e.basis = e.snapshot.basis.Clone()
	e.rebuildSlotMap()
	copy(e.workValue, e.snapshot.workValue)
	e.costsPerturbed = e.snapshot.costsPerturbed
	e.weights.Reset()
	e.rebuildNeeded = true
	e.st.invalidateFactor()

	return true
}

// Status returns the current terminal status (StatusNotSet while running).
func (e *Engine) Status() ModelStatus { return e.status }

// CurrentBasis returns a deep copy of the current partition.
func (e *Engine) CurrentBasis() Basis { return e.basis.Clone() }

// DualValues returns the reduced costs over the combined space. It panics
// when the validity bit is unset.
func (e *Engine) DualValues() []float64 {
	if !e.st.hasDualValues {
		panic(panicDualValuesUnset)
	}

	return append([]float64(nil), e.workDual...)
}

// BasicValues returns the values of the basic variables in slot order. It
// panics when the validity bit is unset.
func (e *Engine) BasicValues() []float64 {
	if !e.st.hasPrimalValues {
		panic(panicPrimalValuesUnset)
	}

	return append([]float64(nil), e.baseValue...)
}
