// Package factor: sentinel error set, matched via errors.Is.

package factor

import "errors"

var (
	// ErrSingularBasis is returned by Factorize when the basis matrix is
	// numerically singular. The caller recovers by substituting a logical
	// column for an offending basic variable and retrying.
	ErrSingularBasis = errors.New("factor: singular basis matrix")

	// ErrNumericalTrouble is returned by Update when the incremental update's
	// conditioning crosses the pivot threshold, and by the solves when the
	// maintained representation has degraded. The caller recovers by forcing
	// a full refactorization.
	ErrNumericalTrouble = errors.New("factor: numerical trouble, refactorization needed")

	// ErrUpdateLimit is returned by Update once the cumulative update count
	// since the last Factorize reaches the update limit.
	ErrUpdateLimit = errors.New("factor: update limit reached")

	// ErrNotFactorized is returned by solves and updates invoked before a
	// successful Factorize.
	ErrNotFactorized = errors.New("factor: basis not factorized")

	// ErrBadDim signals a right-hand side or pivot column whose length does
	// not match the basis dimension.
	ErrBadDim = errors.New("factor: dimension mismatch")
)
