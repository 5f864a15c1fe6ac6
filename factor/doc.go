// Package factor maintains an invertible representation of the simplex basis
// matrix B and amortizes the cost of full factorization across many pivots.
//
// The representation is an LU factorization (gonum mat.LU, partial pivoting)
// refreshed by Factorize and advanced between refreshes by rank-1 column
// replacements: a pivot that brings combined column a_q into basis slot r is
//
//	B' = B + (a_q − B·e_r)·e_rᵀ
//
// applied directly to the LU factors. Accuracy degrades as updates accumulate,
// so the factorization refuses updates past its update limit and reports a
// numerical-trouble condition whenever the pivot magnitude of an update falls
// under the pivot threshold; the engine answers either with a full rebuild.
//
// Solve and SolveTrans answer Bx = b and Bᵀx = b against the maintained
// representation. All entry points are sequential and deterministic; a
// Factorization is owned by exactly one engine instance.
package factor
