package devex

import "math"

// Defaults — single source of truth for the reset policy. The interval and
// bad-update bound follow the literature-standard Devex practice; both are
// tunable through the engine options.
const (
	// MinWeight is the positive floor every weight is clamped to.
	MinWeight = 1e-10

	// DefaultResetInterval is the iteration count after which the reference
	// framework is rebuilt regardless of quality.
	DefaultResetInterval = 300

	// DefaultMaxBadWeights is the number of over-grown updates tolerated
	// before a reset is requested.
	DefaultMaxBadWeights = 25

	// badGrowthRatio marks an update as "bad": the pivot re-seeds a weight
	// more than this factor above the reference frame.
	badGrowthRatio = 1e3
)

// Weights is the Devex reference framework for one engine instance.
type Weights struct {
	w []float64

	iterations int // pivots since the last Reset
	bad        int // over-grown updates since the last Reset

	resetInterval int
	maxBad        int
}

// New allocates unit weights for numTot combined variables. Non-positive
// policy arguments fall back to the defaults.
func New(numTot, resetInterval, maxBad int) *Weights {
	if resetInterval <= 0 {
		resetInterval = DefaultResetInterval
	}
	if maxBad <= 0 {
		maxBad = DefaultMaxBadWeights
	}
	d := &Weights{
		w:             make([]float64, numTot),
		resetInterval: resetInterval,
		maxBad:        maxBad,
	}
	d.Reset()

	return d
}

// Reset restores the unit reference framework: all weights 1, counters zero.
func (d *Weights) Reset() {
	for j := range d.w {
		d.w[j] = 1
	}
	d.iterations = 0
	d.bad = 0
}

// Len returns the number of tracked weights.
func (d *Weights) Len() int { return len(d.w) }

// Weight returns w_j, clamped to the MinWeight floor.
func (d *Weights) Weight(j int) float64 {
	return math.Max(d.w[j], MinWeight)
}

// Update advances the framework after a pivot in which combined variable
// entering entered the basis through pivot element alphaQ and combined
// variable leaving left it. indices/alphas list the nonbasic variables touched
// by the pivot row together with their pivot-row coefficients α_j.
//
// The recurrence is w_j' = max(w_j, (α_j/α_q)²·w_q); the leaving variable is
// re-seeded with max(w_q/α_q², 1). Updates that over-grow the frame are
// counted as bad.
func (d *Weights) Update(entering, leaving int, alphaQ float64, indices []int, alphas []float64) {
	wq := d.Weight(entering)
	pivotRatio := wq / (alphaQ * alphaQ)

	for k, j := range indices {
		if j == entering {
			continue
		}
		if cand := alphas[k] * alphas[k] * pivotRatio; cand > d.w[j] {
			d.w[j] = cand
		}
	}

	// The leaving variable becomes nonbasic with a weight seeded from the
	// pivot; the entering variable's weight is frozen while basic.
	seed := math.Max(pivotRatio, 1)
	d.w[leaving] = seed
	if seed > badGrowthRatio {
		d.bad++
	}

	d.iterations++
}

// NeedReset reports whether drift control demands a rebuild of the reference
// framework: too many pivots since the last reset, or too many bad updates.
func (d *Weights) NeedReset() bool {
	return d.iterations >= d.resetInterval || d.bad >= d.maxBad
}

// BadUpdates returns the bad-update count since the last Reset.
func (d *Weights) BadUpdates() int { return d.bad }

// Iterations returns the pivot count since the last Reset.
func (d *Weights) Iterations() int { return d.iterations }
