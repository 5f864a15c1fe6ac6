// Package lpcore is the iterative engine of a revised-simplex linear
// programming solver: it takes a working LP and an initial basis and drives
// bounded pivoting to an optimal basic feasible solution, or to an explicit
// infeasibility / unboundedness certificate.
//
// 🚀 What is lpcore?
//
//	A focused, deterministic simplex iteration core that brings together:
//		• Working LP view: immutable column- and row-wise sparse constraint matrix
//		• Basis factorization: LU of B with rank-1 updates and periodic refactorization
//		• Devex pricing: cheap steepest-edge weights with drift-bounded resets
//		• Pivot loop: primal/dual phases, Harris ratio test, bound flips,
//		  anti-cycling cost perturbation
//		• Ray certificates: primal and dual rays for UNBOUNDED / INFEASIBLE outcomes
//
// ✨ Why choose lpcore?
//
//   - Deterministic – fixed seed in, identical pivot path out, at any thread count
//   - Honest caching – every derived quantity carries a validity bit; stale reads fail loudly
//   - Library-level contract – no I/O, no globals; one engine instance per concurrent solve
//
// Everything is organized under five subpackages:
//
//	lp/      — working LP: costs, bounds, sparse constraint matrix over the combined space
//	factor/  — invertible representation of the basis matrix B (solve, transpose solve, update)
//	devex/   — approximate steepest-edge reference weights
//	simplex/ — the pivot loop, phase state machine, options, statuses and rays
//	trace/   — optional per-iteration instrumentation and convergence plotting
//
// Parsing, presolve, scaling, crash bases and driver orchestration are external
// collaborators: they hand this module a well-formed working LP plus an initial
// basis, and consume the final basis, solution vectors and status.
//
//	go get github.com/katalvlaran/lpcore
package lpcore
