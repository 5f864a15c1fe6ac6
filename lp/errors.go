// Package lp: sentinel error set.
// All constructors MUST return these sentinels and tests MUST check them via
// errors.Is. No routine in this package panics on user-triggered conditions.

package lp

import "errors"

var (
	// ErrBadShape is returned when a requested shape is invalid (numRow or
	// numCol negative, or slice lengths disagreeing with the declared shape).
	ErrBadShape = errors.New("lp: invalid shape")

	// ErrBadColPointers is returned when the CSC column-pointer array is not
	// monotonically non-decreasing, does not start at 0, or does not end at
	// the number of stored entries.
	ErrBadColPointers = errors.New("lp: invalid column pointers")

	// ErrBadRowIndex is returned when a stored row index is out of range or
	// row indices within a column are not strictly increasing.
	ErrBadRowIndex = errors.New("lp: invalid row index")

	// ErrIndexOutOfRange indicates a column or row argument outside the valid
	// combined-variable or row range.
	ErrIndexOutOfRange = errors.New("lp: index out of range")

	// ErrNotFinite signals a NaN coefficient or cost, or a NaN bound.
	// Bounds may be ±Inf; coefficients and costs must be finite.
	ErrNotFinite = errors.New("lp: non-finite value")

	// ErrBadBounds is returned when some lower bound exceeds its upper bound.
	// The engine never repairs crossed bounds; this is a caller error.
	ErrBadBounds = errors.New("lp: lower bound exceeds upper bound")
)
