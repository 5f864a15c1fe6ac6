package simplex_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/lpcore/lp"
	"github.com/katalvlaran/lpcore/simplex"
)

// ScenarioSuite runs full solves end to end: optimality, infeasibility,
// unboundedness, limits and reproducibility.
type ScenarioSuite struct {
	suite.Suite
}

func (s *ScenarioSuite) solve(w *lp.WorkingLP, opts simplex.Options) *simplex.Result {
	eng, err := simplex.New(w, simplex.SlackBasis(w), opts)
	require.NoError(s.T(), err)
	require.NoError(s.T(), eng.Init())
	res, err := eng.Solve()
	require.NoError(s.T(), err)

	return res
}

// knapsack: min −x−y subject to x+y ≤ 4, x,y ≥ 0. Optimum −4.
func (s *ScenarioSuite) knapsack() *lp.WorkingLP {
	a, err := lp.NewMatrix(1, 2, []int{0, 1, 2}, []int{0, 0}, []float64{1, 1})
	require.NoError(s.T(), err)

	inf := math.Inf(1)
	w, err := lp.NewWorkingLP(a,
		[]float64{-1, -1},
		[]float64{0, 0}, []float64{inf, inf},
		[]float64{-inf}, []float64{4},
	)
	require.NoError(s.T(), err)

	return w
}

// twoRow: min −x−y subject to x+2y ≤ 4, 2x+y ≤ 4, x,y ≥ 0.
// Optimum x = y = 4/3, objective −8/3; needs two full pivots.
func (s *ScenarioSuite) twoRow() *lp.WorkingLP {
	a, err := lp.NewMatrix(2, 2,
		[]int{0, 2, 4},
		[]int{0, 1, 0, 1},
		[]float64{1, 2, 2, 1},
	)
	require.NoError(s.T(), err)

	inf := math.Inf(1)
	w, err := lp.NewWorkingLP(a,
		[]float64{-1, -1},
		[]float64{0, 0}, []float64{inf, inf},
		[]float64{-inf, -inf}, []float64{4, 4},
	)
	require.NoError(s.T(), err)

	return w
}

// infeasibleLP: x ≥ 5 by row, x ≤ 3 by column bound.
func (s *ScenarioSuite) infeasibleLP() *lp.WorkingLP {
	a, err := lp.NewMatrix(1, 1, []int{0, 1}, []int{0}, []float64{1})
	require.NoError(s.T(), err)

	inf := math.Inf(1)
	w, err := lp.NewWorkingLP(a,
		[]float64{0},
		[]float64{0}, []float64{3},
		[]float64{5}, []float64{inf},
	)
	require.NoError(s.T(), err)

	return w
}

// unboundedLP: min −x with x ≥ 0 and a free row, nothing blocks growth.
func (s *ScenarioSuite) unboundedLP() *lp.WorkingLP {
	a, err := lp.NewMatrix(1, 1, []int{0, 1}, []int{0}, []float64{1})
	require.NoError(s.T(), err)

	inf := math.Inf(1)
	w, err := lp.NewWorkingLP(a,
		[]float64{-1},
		[]float64{0}, []float64{inf},
		[]float64{-inf}, []float64{inf},
	)
	require.NoError(s.T(), err)

	return w
}

// coverLP: min x+y subject to x+y ≥ 2, 0 ≤ x,y ≤ 10. Optimum 2, dual
// feasible from the slack basis, so the dual algorithm solves it natively.
func (s *ScenarioSuite) coverLP() *lp.WorkingLP {
	a, err := lp.NewMatrix(1, 2, []int{0, 1, 2}, []int{0, 0}, []float64{1, 1})
	require.NoError(s.T(), err)

	inf := math.Inf(1)
	w, err := lp.NewWorkingLP(a,
		[]float64{1, 1},
		[]float64{0, 0}, []float64{10, 10},
		[]float64{2}, []float64{inf},
	)
	require.NoError(s.T(), err)

	return w
}

// TestOptimalKnapsack: one pivot brings x in against the slack, objective −4,
// duals consistent (row dual −1, reduced costs ≥ −tol at the optimum).
func (s *ScenarioSuite) TestOptimalKnapsack() {
	res := s.solve(s.knapsack(), simplex.DefaultOptions())

	require.Equal(s.T(), simplex.StatusOptimal, res.Status)
	require.InDelta(s.T(), -4, res.PrimalObjective, 1e-9)
	require.LessOrEqual(s.T(), res.PrimalPhase2Iterations, 2)
	require.Zero(s.T(), res.PrimalPhase1Iterations)

	require.InDelta(s.T(), 4, res.ColValue[0]+res.ColValue[1], 1e-9)
	require.InDelta(s.T(), 4, res.RowValue[0], 1e-9)
	require.InDelta(s.T(), -1, res.RowDual[0], 1e-9)
	require.False(s.T(), res.HasDualRay())
	require.False(s.T(), res.HasPrimalRay())
}

func (s *ScenarioSuite) TestOptimalTwoRow() {
	res := s.solve(s.twoRow(), simplex.DefaultOptions())

	require.Equal(s.T(), simplex.StatusOptimal, res.Status)
	require.InDelta(s.T(), -8.0/3.0, res.PrimalObjective, 1e-9)
	require.InDelta(s.T(), 4.0/3.0, res.ColValue[0], 1e-9)
	require.InDelta(s.T(), 4.0/3.0, res.ColValue[1], 1e-9)
	require.Equal(s.T(), 2, res.PrimalPhase2Iterations)
}

// TestInfeasibleWithDualRay: phase 1 stalls at positive infeasibility with no
// descent direction; the certificate names the violated row.
func (s *ScenarioSuite) TestInfeasibleWithDualRay() {
	res := s.solve(s.infeasibleLP(), simplex.DefaultOptions())

	require.Equal(s.T(), simplex.StatusInfeasible, res.Status)
	require.True(s.T(), res.HasDualRay())
	ray := res.DualRayCertificate()
	require.Equal(s.T(), 0, ray.Row)
	require.Equal(s.T(), 1, ray.Sign)
	// The bound flip that exhausted x's range counts as a phase-1 iteration.
	require.GreaterOrEqual(s.T(), res.PrimalPhase1Iterations, 1)
}

// TestUnboundedWithPrimalRay: the entering column meets no blocking bound and
// has infinite range; the certificate names it with its direction.
func (s *ScenarioSuite) TestUnboundedWithPrimalRay() {
	res := s.solve(s.unboundedLP(), simplex.DefaultOptions())

	require.Equal(s.T(), simplex.StatusUnbounded, res.Status)
	require.True(s.T(), res.HasPrimalRay())
	ray := res.PrimalRayCertificate()
	require.Equal(s.T(), 0, ray.Col)
	require.Equal(s.T(), 1, ray.Sign)
}

// TestRebuildFrequencyInvariance: update_limit=1 forces a refactorization
// after every pivot; the final values must match the update_limit=1000 run.
func (s *ScenarioSuite) TestRebuildFrequencyInvariance() {
	eager := simplex.DefaultOptions()
	eager.UpdateLimit = 1
	lazy := simplex.DefaultOptions()
	lazy.UpdateLimit = 1000

	a := s.solve(s.twoRow(), eager)
	b := s.solve(s.twoRow(), lazy)

	require.Equal(s.T(), b.Status, a.Status)
	require.InDelta(s.T(), b.PrimalObjective, a.PrimalObjective, 1e-9)
	for j := range a.ColValue {
		require.InDelta(s.T(), b.ColValue[j], a.ColValue[j], 1e-9)
	}
}

// TestSolveIdempotent: a second Solve performs zero pivots and returns the
// cached result.
func (s *ScenarioSuite) TestSolveIdempotent() {
	w := s.knapsack()
	eng, err := simplex.New(w, simplex.SlackBasis(w), simplex.DefaultOptions())
	require.NoError(s.T(), err)
	require.NoError(s.T(), eng.Init())

	first, err := eng.Solve()
	require.NoError(s.T(), err)
	iters := eng.TotalIterations()

	second, err := eng.Solve()
	require.NoError(s.T(), err)
	require.Same(s.T(), first, second)
	require.Equal(s.T(), iters, eng.TotalIterations())
}

// TestSeedReproducibility: identical seeds give bit-identical solutions.
func (s *ScenarioSuite) TestSeedReproducibility() {
	opts := simplex.DefaultOptions()
	opts.Seed = 42

	a := s.solve(s.twoRow(), opts)
	b := s.solve(s.twoRow(), opts)

	require.Equal(s.T(), a.Status, b.Status)
	require.Equal(s.T(), a.ColValue, b.ColValue)
	require.Equal(s.T(), a.ColDual, b.ColDual)
	require.Equal(s.T(), a.PrimalPhase2Iterations, b.PrimalPhase2Iterations)
}

// TestThreadCountInvariance: results are bit-identical at any thread bound.
func (s *ScenarioSuite) TestThreadCountInvariance() {
	single := simplex.DefaultOptions()
	wide := simplex.DefaultOptions()
	wide.MaxThreads = 8

	a := s.solve(s.twoRow(), single)
	b := s.solve(s.twoRow(), wide)

	require.Equal(s.T(), a.Status, b.Status)
	require.Equal(s.T(), a.ColValue, b.ColValue)
}

// TestPhaseTransition: a slack start violating a row bound runs phase 1 to
// feasibility, then phase 2 to the optimum.
func (s *ScenarioSuite) TestPhaseTransition() {
	// min x subject to x ≥ 1, 0 ≤ x ≤ 10.
	a, err := lp.NewMatrix(1, 1, []int{0, 1}, []int{0}, []float64{1})
	require.NoError(s.T(), err)
	inf := math.Inf(1)
	w, err := lp.NewWorkingLP(a,
		[]float64{1},
		[]float64{0}, []float64{10},
		[]float64{1}, []float64{inf},
	)
	require.NoError(s.T(), err)

	res := s.solve(w, simplex.DefaultOptions())
	require.Equal(s.T(), simplex.StatusOptimal, res.Status)
	require.InDelta(s.T(), 1, res.PrimalObjective, 1e-9)
	require.InDelta(s.T(), 1, res.ColValue[0], 1e-9)
	require.GreaterOrEqual(s.T(), res.PrimalPhase1Iterations, 1)
}

// TestDualAlgorithmNative: dual-feasible start, one dual pivot to the
// optimum.
func (s *ScenarioSuite) TestDualAlgorithmNative() {
	opts := simplex.DefaultOptions()
	opts.Algorithm = simplex.AlgorithmDual
	opts.CostPerturbation = false

	res := s.solve(s.coverLP(), opts)
	require.Equal(s.T(), simplex.StatusOptimal, res.Status)
	require.InDelta(s.T(), 2, res.PrimalObjective, 1e-9)
	require.Equal(s.T(), 1, res.DualPhase2Iterations)
}

// TestDualAgreesWithPrimal: both algorithms reach the same objective.
func (s *ScenarioSuite) TestDualAgreesWithPrimal() {
	primal := simplex.DefaultOptions()
	dual := simplex.DefaultOptions()
	dual.Algorithm = simplex.AlgorithmDual

	a := s.solve(s.coverLP(), primal)
	b := s.solve(s.coverLP(), dual)

	require.Equal(s.T(), simplex.StatusOptimal, a.Status)
	require.Equal(s.T(), simplex.StatusOptimal, b.Status)
	require.InDelta(s.T(), a.PrimalObjective, b.PrimalObjective, 1e-6)
}

// TestDualDetectsInfeasibility: dual unboundedness certifies primal
// infeasibility with the same ray shape as the primal path.
func (s *ScenarioSuite) TestDualDetectsInfeasibility() {
	opts := simplex.DefaultOptions()
	opts.Algorithm = simplex.AlgorithmDual
	opts.CostPerturbation = false

	res := s.solve(s.infeasibleLP(), opts)
	require.Equal(s.T(), simplex.StatusInfeasible, res.Status)
	require.True(s.T(), res.HasDualRay())
	require.Equal(s.T(), 0, res.DualRayCertificate().Row)
}

// TestDualFallsBackToPrimal: a dual-infeasible free direction cannot be
// flipped; the engine hands over to the primal machine and still optimizes.
func (s *ScenarioSuite) TestDualFallsBackToPrimal() {
	opts := simplex.DefaultOptions()
	opts.Algorithm = simplex.AlgorithmDual

	res := s.solve(s.knapsack(), opts)
	require.Equal(s.T(), simplex.StatusOptimal, res.Status)
	require.InDelta(s.T(), -4, res.PrimalObjective, 1e-9)
}

// TestContextCancellation: a cancelled context stops at the first iteration
// boundary with the last consistent state, as a status, not an error.
func (s *ScenarioSuite) TestContextCancellation() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := simplex.DefaultOptions()
	opts.Ctx = ctx

	res := s.solve(s.twoRow(), opts)
	require.Equal(s.T(), simplex.StatusTimeLimit, res.Status)
	require.Zero(s.T(), res.PrimalPhase2Iterations)
}

// TestIterationLimit: the cap is enforced at iteration boundaries.
func (s *ScenarioSuite) TestIterationLimit() {
	opts := simplex.DefaultOptions()
	opts.IterationLimit = 1

	res := s.solve(s.twoRow(), opts)
	require.Equal(s.T(), simplex.StatusIterationLimit, res.Status)
	require.Equal(s.T(), 1, res.PrimalPhase2Iterations)
}

// TestUnitWeightsSameOptimum: Dantzig pricing may pivot differently but lands
// on the same objective.
func (s *ScenarioSuite) TestUnitWeightsSameOptimum() {
	opts := simplex.DefaultOptions()
	opts.PrimalEdgeWeight = simplex.UnitWeights

	res := s.solve(s.twoRow(), opts)
	require.Equal(s.T(), simplex.StatusOptimal, res.Status)
	require.InDelta(s.T(), -8.0/3.0, res.PrimalObjective, 1e-9)
}

// TestRowWisePriceSameAnswer: PRICE strategy changes the scan, not the
// result.
func (s *ScenarioSuite) TestRowWisePriceSameAnswer() {
	colWise := simplex.DefaultOptions()
	rowWise := simplex.DefaultOptions()
	rowWise.Price = simplex.PriceRowWise

	a := s.solve(s.twoRow(), colWise)
	b := s.solve(s.twoRow(), rowWise)

	require.Equal(s.T(), a.Status, b.Status)
	for j := range a.ColValue {
		require.InDelta(s.T(), a.ColValue[j], b.ColValue[j], 1e-12)
	}
}

// recorder collects iteration records for observer tests.
type recorder struct {
	records []simplex.IterationRecord
}

func (r *recorder) ObserveIteration(rec simplex.IterationRecord) {
	r.records = append(r.records, rec)
}

// TestObserverSeesEveryPivot: the observer receives monotone iteration
// numbers and the final record's objective matches the result.
func (s *ScenarioSuite) TestObserverSeesEveryPivot() {
	rec := &recorder{}
	opts := simplex.DefaultOptions()
	opts.Observer = rec

	res := s.solve(s.twoRow(), opts)
	require.Equal(s.T(), simplex.StatusOptimal, res.Status)
	require.NotEmpty(s.T(), rec.records)
	for k := 1; k < len(rec.records); k++ {
		require.Greater(s.T(), rec.records[k].Iteration, rec.records[k-1].Iteration)
	}
	last := rec.records[len(rec.records)-1]
	require.InDelta(s.T(), res.PrimalObjective, last.Objective, 1e-9)
}

func TestScenarioSuite(t *testing.T) {
	suite.Run(t, new(ScenarioSuite))
}
