package simplex

// DualRay certifies primal infeasibility: the row whose feasibility
// restoration failed plus the sign of the corresponding dual direction.
// Advisory for the caller (Farkas-type proof); not re-validated here.
type DualRay struct {
	Row  int
	Sign int
}

// PrimalRay certifies unboundedness: the entering combined column and the
// sign of its unbounded direction of motion.
type PrimalRay struct {
	Col  int
	Sign int
}

// captureDualRay records the infeasibility certificate and its validity bit.
func (e *Engine) captureDualRay(row, sign int) {
	e.dualRay = &DualRay{Row: row, Sign: sign}
	e.st.hasDualRay = true
}

// capturePrimalRay records the unboundedness certificate and its validity bit.
func (e *Engine) capturePrimalRay(col, sign int) {
	e.primalRay = &PrimalRay{Col: col, Sign: sign}
	e.st.hasPrimalRay = true
}

// DualRayCertificate returns the dual ray; it panics when the validity bit is
// unset (read-before-computed is a programmer error).
func (e *Engine) DualRayCertificate() DualRay {
	if !e.st.hasDualRay {
		panic(panicDualRayUnset)
	}

	return *e.dualRay
}

// PrimalRayCertificate returns the primal ray; it panics when the validity
// bit is unset.
func (e *Engine) PrimalRayCertificate() PrimalRay {
	if !e.st.hasPrimalRay {
		panic(panicPrimalRayUnset)
	}

	return *e.primalRay
}

// HasDualRay reports whether a dual ray is populated.
func (e *Engine) HasDualRay() bool { return e.st.hasDualRay }

// HasPrimalRay reports whether a primal ray is populated.
func (e *Engine) HasPrimalRay() bool { return e.st.hasPrimalRay }
