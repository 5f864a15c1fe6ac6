// Package lp holds the read-only working form of a linear program as the
// simplex engine consumes it: an immutable sparse constraint matrix with both
// column-wise and row-wise access, plus cost and bound vectors over the
// combined variable space.
//
// # Combined variable space
//
// A working LP with n structural columns and m rows exposes numTot = n + m
// combined variables. Indices 0..n-1 are the structural columns of A; indices
// n..n+m-1 are the logical (slack) columns, one per row. The engine works on
// the square system
//
//	[A I] · (x, s) = 0
//
// so the logical variable of row i carries bounds [-rowUpper_i, -rowLower_i]
// and zero cost. Row activity a_i·x equals -s_i at any basic solution.
//
// # Immutability
//
// Matrix and WorkingLP never change after construction. Construction validates
// shape, index ordering, finite coefficients and lower ≤ upper on every bound
// pair; violations are caller errors reported as sentinel errors from this
// package. The Generation counter lets a long-lived engine assert that the
// view it captured at Init has not been swapped underneath it.
//
// Parsing, presolve, scaling and standard-form conversion happen upstream;
// this package performs no I/O.
package lp
