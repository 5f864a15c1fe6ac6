package devex_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/lpcore/devex"
)

// DevexSuite exercises the reference-weight recurrence and reset policy.
type DevexSuite struct {
	suite.Suite
}

// TestUnitAfterNew: a fresh framework is all-ones.
func (s *DevexSuite) TestUnitAfterNew() {
	d := devex.New(4, 0, 0)
	for j := 0; j < d.Len(); j++ {
		require.Equal(s.T(), 1.0, d.Weight(j))
	}
	require.False(s.T(), d.NeedReset())
}

// TestFloor: weights never read below the positive floor.
func (s *DevexSuite) TestFloor() {
	d := devex.New(2, 0, 0)
	require.GreaterOrEqual(s.T(), d.Weight(0), devex.MinWeight)
}

// TestRecurrenceGrowsTouchedWeights: w_j' = max(w_j, (α_j/α_q)²·w_q).
func (s *DevexSuite) TestRecurrenceGrowsTouchedWeights() {
	d := devex.New(4, 0, 0)

	// Pivot: column 0 enters with α_q = 0.5, column 3 leaves; column 1 is
	// touched with α_1 = 2 ⇒ w_1 = max(1, 4·(1/0.25)) = 16.
	d.Update(0, 3, 0.5, []int{1}, []float64{2})
	require.InDelta(s.T(), 16.0, d.Weight(1), 1e-12)

	// An untouched weight stays put.
	require.Equal(s.T(), 1.0, d.Weight(2))

	// The leaving variable is re-seeded from the pivot: max(1/0.25, 1) = 4.
	require.InDelta(s.T(), 4.0, d.Weight(3), 1e-12)

	// A later smaller α must not shrink the weight back.
	d.Update(0, 3, 1.0, []int{1}, []float64{0.1})
	require.InDelta(s.T(), 16.0, d.Weight(1), 1e-12)
}

// TestResetRestoresUnity after drift.
func (s *DevexSuite) TestResetRestoresUnity() {
	d := devex.New(3, 0, 0)
	d.Update(0, 2, 0.5, []int{1}, []float64{3})
	require.Greater(s.T(), d.Weight(1), 1.0)

	d.Reset()
	for j := 0; j < d.Len(); j++ {
		require.Equal(s.T(), 1.0, d.Weight(j))
	}
	require.Equal(s.T(), 0, d.Iterations())
	require.Equal(s.T(), 0, d.BadUpdates())
}

// TestIterationIntervalTriggersReset.
func (s *DevexSuite) TestIterationIntervalTriggersReset() {
	d := devex.New(3, 2, 0)
	d.Update(0, 2, 1, nil, nil)
	require.False(s.T(), d.NeedReset())
	d.Update(1, 0, 1, nil, nil)
	require.True(s.T(), d.NeedReset())
}

// TestBadUpdatesTriggerReset: a tiny pivot over-grows the seed and counts as
// a bad update.
func (s *DevexSuite) TestBadUpdatesTriggerReset() {
	d := devex.New(3, 0, 1)
	d.Update(0, 2, 1e-4, nil, nil) // seed = 1e8 ≫ growth bound
	require.Equal(s.T(), 1, d.BadUpdates())
	require.True(s.T(), d.NeedReset())
}

func TestDevexSuite(t *testing.T) {
	suite.Run(t, new(DevexSuite))
}
