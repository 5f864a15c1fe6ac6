// Package devex maintains the approximate steepest-edge reference weights used
// by simplex pricing.
//
// One positive weight per combined variable approximates the squared norm of
// that column under the current basis. Pricing selects the candidate with the
// best reduced-cost-to-√weight ratio, which proxies the true steepest-edge
// direction at a fraction of its cost. After each pivot the weights of the
// variables touched by the pivot row are advanced with the standard Devex
// recurrence
//
//	w_j' = max(w_j, (α_j/α_q)² · w_q)
//
// and the weight of the leaving variable is re-seeded from the pivot. The
// recurrence only ever grows weights, so the approximation drifts; the package
// counts iterations and bad (over-grown) updates and reports when a reset to
// the unit reference framework is due. Determinism: no randomness, no global
// state; ties are broken by the engine's lowest-index scan order.
package devex
