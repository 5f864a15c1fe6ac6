// Package simplex: sentinel error set. Terminal solve outcomes (optimal,
// infeasible, unbounded, limits, numerical failure) are ModelStatus values,
// not errors; the sentinels below cover caller misuse only.

package simplex

import "errors"

var (
	// ErrNilLP is returned by New when the working LP view is nil.
	ErrNilLP = errors.New("simplex: nil working LP")

	// ErrBadBasis is returned by New when the initial basis does not name
	// exactly one basic variable per row, flags disagree with the index set,
	// or an index is outside the combined space.
	ErrBadBasis = errors.New("simplex: invalid initial basis")

	// ErrNotInitialised is returned by Solve when Init has not succeeded.
	ErrNotInitialised = errors.New("simplex: engine not initialised")

	// ErrViewMutated is returned when the working LP generation stamp
	// observed at Init no longer matches at Solve.
	ErrViewMutated = errors.New("simplex: working LP changed between Init and Solve")
)

// Panic messages for programmer errors (reading values whose validity bit is
// unset). Kept as constants so tests can assert them.
const (
	panicDualValuesUnset   = "simplex: dual values read before computed"
	panicPrimalValuesUnset = "simplex: basic primal values read before computed"
	panicObjectiveUnset    = "simplex: objective read before computed"
	panicDualRayUnset      = "simplex: dual ray read but not populated"
	panicPrimalRayUnset    = "simplex: primal ray read but not populated"
)
