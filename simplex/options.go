package simplex

import (
	"context"
	"runtime"

	"github.com/katalvlaran/lpcore/devex"
	"github.com/katalvlaran/lpcore/factor"
)

// Defaults — single source of truth; DefaultOptions and normalize MUST agree
// with these constants.
const (
	// DefaultFeasibilityTol is the primal feasibility tolerance.
	DefaultFeasibilityTol = 1e-7

	// DefaultOptimalityTol is the dual feasibility (reduced cost) tolerance.
	DefaultOptimalityTol = 1e-9

	// DefaultHarrisExpand scales the feasibility tolerance in the first pass
	// of the two-pass Harris ratio test.
	DefaultHarrisExpand = 10.0

	// DefaultUpdateLimit bounds factorization updates between rebuilds.
	DefaultUpdateLimit = factor.DefaultUpdateLimit

	// DefaultFactorPivotThreshold gates incremental-update stability.
	DefaultFactorPivotThreshold = factor.DefaultPivotThreshold

	// DefaultPerturbationMultiplier scales anti-cycling cost perturbation
	// (the dual simplex cost perturbation multiplier).
	DefaultPerturbationMultiplier = 5e-7

	// DefaultStallIterations is the window of degenerate, non-improving
	// pivots tolerated before anti-cycling measures kick in.
	DefaultStallIterations = 200

	// DefaultSingularRepairLimit bounds logical-substitution retries after a
	// singular factorization.
	DefaultSingularRepairLimit = 10

	// DefaultIterationLimit caps total pivots across all phases.
	DefaultIterationLimit = 100000

	// parallelScanThreshold is the candidate count under which pricing scans
	// stay sequential regardless of the thread bounds.
	parallelScanThreshold = 2048
)

// Options configures one engine instance. Construct with DefaultOptions and
// override fields; zero values are repaired by normalize.
type Options struct {
	// Algorithm selects primal or dual pivoting (simplex strategy).
	Algorithm Algorithm

	// PrimalEdgeWeight / DualEdgeWeight select the pricing weight scheme for
	// the respective algorithm.
	PrimalEdgeWeight EdgeWeightMode
	DualEdgeWeight   EdgeWeightMode

	// Price hints the PRICE implementation; results are identical either way.
	Price PriceStrategy

	// FeasibilityTol / OptimalityTol are the primal and dual tolerances.
	FeasibilityTol float64
	OptimalityTol  float64

	// HarrisExpand scales FeasibilityTol in the relaxed first ratio-test
	// pass. Must be ≥ 1.
	HarrisExpand float64

	// UpdateLimit forces a rebuild after this many factorization updates.
	UpdateLimit int

	// FactorPivotThreshold is the relative pivot magnitude under which an
	// incremental factorization update is refused.
	FactorPivotThreshold float64

	// CostPerturbation enables anti-cycling cost perturbation;
	// PerturbationMultiplier scales it; Seed fixes the pseudo-random stream
	// so solves are reproducible.
	CostPerturbation       bool
	PerturbationMultiplier float64
	Seed                   int64

	// DevexResetInterval / MaxBadDevexWeights bound pricing-weight drift.
	DevexResetInterval int
	MaxBadDevexWeights int

	// StallIterations is the degenerate-pivot window before perturbation
	// restarts (and, in phase 1, before declaring infeasibility on a flat
	// infeasibility measure).
	StallIterations int

	// SingularRepairLimit bounds singular-basis repair retries.
	SingularRepairLimit int

	// MinThreads/MaxThreads bound internal kernel parallelism. Threads never
	// change pivot decisions: results are bit-reproducible at any setting.
	MinThreads int
	MaxThreads int

	// IterationLimit caps pivots; Ctx is checked at iteration boundaries
	// only and yields StatusTimeLimit with the last consistent state.
	IterationLimit int
	Ctx            context.Context

	// Observer, when non-nil, receives one IterationRecord per pivot.
	Observer Observer

	// Verbose logs phase transitions and rebuilds.
	Verbose bool
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Algorithm:              AlgorithmPrimal,
		PrimalEdgeWeight:       DevexWeights,
		DualEdgeWeight:         DevexWeights,
		Price:                  PriceColWise,
		FeasibilityTol:         DefaultFeasibilityTol,
		OptimalityTol:          DefaultOptimalityTol,
		HarrisExpand:           DefaultHarrisExpand,
		UpdateLimit:            DefaultUpdateLimit,
		FactorPivotThreshold:   DefaultFactorPivotThreshold,
		CostPerturbation:       true,
		PerturbationMultiplier: DefaultPerturbationMultiplier,
		Seed:                   1,
		DevexResetInterval:     devex.DefaultResetInterval,
		MaxBadDevexWeights:     devex.DefaultMaxBadWeights,
		StallIterations:        DefaultStallIterations,
		SingularRepairLimit:    DefaultSingularRepairLimit,
		MinThreads:             1,
		MaxThreads:             1,
		IterationLimit:         DefaultIterationLimit,
		Ctx:                    context.Background(),
		Verbose:                false,
	}
}

// normalize repairs zero values and clamps nonsensical settings in one place,
// so every entry point sees a coherent configuration.
func (o *Options) normalize() {
	if o.FeasibilityTol <= 0 {
		o.FeasibilityTol = DefaultFeasibilityTol
	}
	if o.OptimalityTol <= 0 {
		o.OptimalityTol = DefaultOptimalityTol
	}
	if o.HarrisExpand < 1 {
		o.HarrisExpand = DefaultHarrisExpand
	}
	if o.UpdateLimit <= 0 {
		o.UpdateLimit = DefaultUpdateLimit
	}
	if o.FactorPivotThreshold <= 0 || o.FactorPivotThreshold > 0.5 {
		o.FactorPivotThreshold = DefaultFactorPivotThreshold
	}
	if o.PerturbationMultiplier <= 0 {
		o.PerturbationMultiplier = DefaultPerturbationMultiplier
	}
	if o.DevexResetInterval <= 0 {
		o.DevexResetInterval = devex.DefaultResetInterval
	}
	if o.MaxBadDevexWeights <= 0 {
		o.MaxBadDevexWeights = devex.DefaultMaxBadWeights
	}
	if o.StallIterations <= 0 {
		o.StallIterations = DefaultStallIterations
	}
	if o.SingularRepairLimit <= 0 {
		o.SingularRepairLimit = DefaultSingularRepairLimit
	}
	if o.MinThreads <= 0 {
		o.MinThreads = 1
	}
	if o.MaxThreads < o.MinThreads {
		o.MaxThreads = o.MinThreads
	}
	if o.MaxThreads > runtime.NumCPU() {
		o.MaxThreads = max(runtime.NumCPU(), o.MinThreads)
	}
	if o.IterationLimit <= 0 {
		o.IterationLimit = DefaultIterationLimit
	}
	if o.Ctx == nil {
		o.Ctx = context.Background()
	}
}
