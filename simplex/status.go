package simplex

// state is the authoritative cache-invalidation record: one validity bit per
// derived quantity. Every mutating operation updates exactly the bits whose
// underlying data it touched. All bits start false and are progressively set
// as pivots and rebuilds populate each piece; a refactorization or basis
// change clears the bits it invalidates.
//
// Raw reads of unset data are programmer errors: the engine accessors that
// expose guarded arrays panic with a stable message instead of returning
// stale values.
type state struct {
	hasBasis            bool // basis partition validated
	hasInvert           bool // factorization corresponds to the current basis
	hasFreshInvert      bool // ... and carries zero updates
	hasFreshRebuild     bool // all derived data recomputed since last basis change
	hasDualValues       bool // workDual valid (has_nonbasic_dual_values)
	hasPrimalValues     bool // baseValue valid (has_basic_primal_values)
	hasPrimalObjective  bool
	hasDualObjective    bool
	hasEdgeWeights      bool // pricing weights match the reference framework
	hasDualRay          bool
	hasPrimalRay        bool
}

// invalidateAfterPivot clears exactly what a basis change invalidates: the
// factorization freshness and the wholesale-recomputed quantities. The
// incremental updates the pivot itself performed (values, duals, weights)
// keep their bits.
func (st *state) invalidateAfterPivot() {
	st.hasFreshInvert = false
	st.hasFreshRebuild = false
	st.hasPrimalObjective = false
	st.hasDualObjective = false
}

// invalidateFactor clears everything that depends on the representation of
// B⁻¹; used when numerical trouble forces a rebuild.
func (st *state) invalidateFactor() {
	st.hasInvert = false
	st.hasFreshInvert = false
	st.hasFreshRebuild = false
	st.hasDualValues = false
	st.hasPrimalValues = false
	st.hasPrimalObjective = false
	st.hasDualObjective = false
}
