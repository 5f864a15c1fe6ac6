// Package simplex drives the revised-simplex pivot loop: given a working LP
// (lp.WorkingLP) and an initial basis it iterates — pricing, ratio test,
// basis update, periodic rebuild — until it reaches a terminal status:
// optimal, infeasible (with a dual ray), unbounded (with a primal ray), an
// iteration/time limit, or a numerical failure.
//
// # Convention
//
// The engine minimizes. It works on the square system [A I]·(x,s) = 0 over
// the combined variable space (structural columns first, then one logical per
// row), so a maximizing caller negates costs and the reported objective.
//
// # Lifecycle
//
//	eng, err := simplex.New(view, basis, opts) // validate, snapshot generation
//	err = eng.Init()                           // arrays, factorization, values
//	res, err := eng.Solve()                    // pivot to a terminal status
//
// Solve is idempotent: on an already-optimal engine with unchanged inputs it
// performs zero pivots and returns the same result.
//
// # Phases
//
// A primal solve runs phase 1 (synthetic infeasibility-minimizing costs)
// until primal feasible, then phase 2 with true costs. The dual algorithm is
// the same machinery with primal/dual roles swapped: bound flips restore dual
// feasibility, the ratio test runs over reduced costs, and detecting dual
// unboundedness certifies primal infeasibility.
//
// # Determinism and caching
//
// Every derived quantity (factorization, primal values, dual values,
// objectives, rays) carries a validity bit; accessors fail loudly when read
// before computed. All tie-breaks favor the lowest combined index, pivots are
// bit-reproducible for a fixed seed at any thread count, and all shared state
// is owned by exactly one engine instance — concurrent solves use separate
// instances.
package simplex
