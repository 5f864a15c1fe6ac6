package simplex_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/lpcore/lp"
	"github.com/katalvlaran/lpcore/simplex"
)

// EngineSuite exercises construction, initialization and the loud-accessor
// contract of the engine.
type EngineSuite struct {
	suite.Suite
}

// knapsackLP builds min −x−y subject to x+y ≤ 4, x,y ≥ 0: one row, two
// structural columns, optimum −4.
func (s *EngineSuite) knapsackLP() *lp.WorkingLP {
	a, err := lp.NewMatrix(1, 2,
		[]int{0, 1, 2},
		[]int{0, 0},
		[]float64{1, 1},
	)
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

func (s *EngineSuite) TestNewNilLP() {
	_, err := simplex.New(nil, simplex.Basis{}, simplex.DefaultOptions())
	require.ErrorIs(s.T(), err, simplex.ErrNilLP)
}

func (s *EngineSuite) TestNewRejectsMalformedBasis() {
	w := s.knapsackLP()
	good := simplex.SlackBasis(w)

	// Wrong basic index count.
	bad := good.Clone()
	bad.Index = bad.Index[:0]
	_, err := simplex.New(w, bad, simplex.DefaultOptions())
	require.ErrorIs(s.T(), err, simplex.ErrBadBasis)

	// Index outside the combined space.
	bad = good.Clone()
	bad.Index[0] = 99
	_, err = simplex.New(w, bad, simplex.DefaultOptions())
	require.ErrorIs(s.T(), err, simplex.ErrBadBasis)

	// Flag disagreeing with the index set.
	bad = good.Clone()
	bad.Flag[bad.Index[0]] = simplex.NonbasicLower
	_, err = simplex.New(w, bad, simplex.DefaultOptions())
	require.ErrorIs(s.T(), err, simplex.ErrBadBasis)

	// Nonbasic parked on an infinite bound.
	bad = good.Clone()
	bad.Flag[0] = simplex.NonbasicUpper // column 0 has upper = +inf
	_, err = simplex.New(w, bad, simplex.DefaultOptions())
	require.ErrorIs(s.T(), err, simplex.ErrBadBasis)
}

// TestSlackBasisShape: the all-logical starting basis marks every logical
// basic and every structural at its preferred bound.
func (s *EngineSuite) TestSlackBasisShape() {
	w := s.knapsackLP()
	b := simplex.SlackBasis(w)

	require.Equal(s.T(), []int{2}, b.Index)
	require.Equal(s.T(), simplex.NonbasicLower, b.Flag[0])
	require.Equal(s.T(), simplex.NonbasicLower, b.Flag[1])
	require.Equal(s.T(), simplex.Basic, b.Flag[2])
}

// TestInitPopulatesValues: after Init the primal and dual arrays are
// readable, reduced costs of basic variables are exactly zero, and the
// partition invariant (exactly m basic) holds.
func (s *EngineSuite) TestInitPopulatesValues() {
	w := s.knapsackLP()
	eng, err := simplex.New(w, simplex.SlackBasis(w), simplex.DefaultOptions())
	require.NoError(s.T(), err)
	require.NoError(s.T(), eng.Init())

	duals := eng.DualValues()
	require.Len(s.T(), duals, 3)
	require.Zero(s.T(), duals[2]) // basic logical: exactly zero
	require.InDelta(s.T(), -1, duals[0], 1e-12)
	require.InDelta(s.T(), -1, duals[1], 1e-12)

	values := eng.BasicValues()
	require.Len(s.T(), values, 1)
	require.Zero(s.T(), values[0])

	b := eng.CurrentBasis()
	basic := 0
	for _, f := range b.Flag {
		if f == simplex.Basic {
			basic++
		}
	}
	require.Equal(s.T(), w.NumRow(), basic)
}

// TestAccessorsPanicBeforeInit: guarded reads fail loudly, not with stale
// zeros.
func (s *EngineSuite) TestAccessorsPanicBeforeInit() {
	w := s.knapsackLP()
	eng, err := simplex.New(w, simplex.SlackBasis(w), simplex.DefaultOptions())
	require.NoError(s.T(), err)

	require.PanicsWithValue(s.T(), "simplex: dual values read before computed", func() {
		eng.DualValues()
	})
	require.PanicsWithValue(s.T(), "simplex: basic primal values read before computed", func() {
		eng.BasicValues()
	})
	require.PanicsWithValue(s.T(), "simplex: objective read before computed", func() {
		eng.ObjectiveValue()
	})
	require.PanicsWithValue(s.T(), "simplex: dual ray read but not populated", func() {
		eng.DualRayCertificate()
	})
	require.PanicsWithValue(s.T(), "simplex: primal ray read but not populated", func() {
		eng.PrimalRayCertificate()
	})
}

func (s *EngineSuite) TestSolveBeforeInit() {
	w := s.knapsackLP()
	eng, err := simplex.New(w, simplex.SlackBasis(w), simplex.DefaultOptions())
	require.NoError(s.T(), err)

	_, err = eng.Solve()
	require.ErrorIs(s.T(), err, simplex.ErrNotInitialised)
}

// TestViewMutationDetected: editing the working LP between Init and Solve
// bumps the generation stamp and the engine refuses to keep going.
func (s *EngineSuite) TestViewMutationDetected() {
	w := s.knapsackLP()
	eng, err := simplex.New(w, simplex.SlackBasis(w), simplex.DefaultOptions())
	require.NoError(s.T(), err)
	require.NoError(s.T(), eng.Init())

	require.NoError(s.T(), w.SetCost(0, 5))
	_, err = eng.Solve()
	require.ErrorIs(s.T(), err, simplex.ErrViewMutated)
}

// TestSingularBasisRepair: a starting basis of two identical structural
// columns is singular; Init substitutes logicals slot by slot until the
// factorization succeeds.
func (s *EngineSuite) TestSingularBasisRepair() {
	// Two rows, two identical columns [1, 0].
	a, err := lp.NewMatrix(2, 2,
		[]int{0, 1, 2},
		[]int{0, 0},
		[]float64{1, 1},
	)
	require.NoError(s.T(), err)

	w, err := lp.NewWorkingLP(a,
		[]float64{1, 1},
		[]float64{0, 0}, []float64{10, 10},
		[]float64{-10, -10}, []float64{10, 10},
	)
	require.NoError(s.T(), err)

	basis := simplex.Basis{
		Index: []int{0, 1},
		Flag: []simplex.VarStatus{
			simplex.Basic, simplex.Basic,
			simplex.NonbasicLower, simplex.NonbasicLower,
		},
	}
	eng, err := simplex.New(w, basis, simplex.DefaultOptions())
	require.NoError(s.T(), err)
	require.NoError(s.T(), eng.Init())

	// Both slots were repaired to the identity (logical) columns.
	require.Equal(s.T(), []int{2, 3}, eng.CurrentBasis().Index)
	require.Equal(s.T(), simplex.StatusNotSet, eng.Status())
}

func (s *EngineSuite) TestDefaultOptions() {
	o := simplex.DefaultOptions()
	require.Equal(s.T(), simplex.AlgorithmPrimal, o.Algorithm)
	require.Equal(s.T(), simplex.DevexWeights, o.PrimalEdgeWeight)
	require.InEpsilon(s.T(), 1e-7, o.FeasibilityTol, 1e-15)
	require.InEpsilon(s.T(), 1e-9, o.OptimalityTol, 1e-15)
	require.Equal(s.T(), 5000, o.UpdateLimit)
	require.True(s.T(), o.CostPerturbation)
	require.NotNil(s.T(), o.Ctx)
}

func (s *EngineSuite) TestStatusStrings() {
	require.Equal(s.T(), "optimal", simplex.StatusOptimal.String())
	require.Equal(s.T(), "infeasible", simplex.StatusInfeasible.String())
	require.Equal(s.T(), "unbounded", simplex.StatusUnbounded.String())
	require.Equal(s.T(), "nonbasic-lower", simplex.NonbasicLower.String())
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}
