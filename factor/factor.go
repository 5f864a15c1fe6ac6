package factor

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/lpcore/lp"
)

// Defaults — single source of truth; the engine forwards its options here.
const (
	// DefaultUpdateLimit bounds rank-1 updates between full factorizations.
	DefaultUpdateLimit = 5000

	// DefaultPivotThreshold is the relative pivot magnitude under which an
	// incremental update is declared numerically troubled.
	DefaultPivotThreshold = 0.1

	// maxCondition is the condition-number estimate above which a freshly
	// factorized basis is treated as singular.
	maxCondition = 1e14
)

// Factorization holds the invertible representation of B for one engine
// instance. The zero value is unusable; construct with New.
type Factorization struct {
	lu    mat.LU
	basis *mat.Dense // current basis matrix, kept in sync with updates
	dim   int

	updateLimit    int
	pivotThreshold float64

	updates int
	trouble float64 // largest relative instability seen since last Factorize
	valid   bool
}

// New returns a Factorization with the given update limit and pivot
// threshold. Non-positive limit or threshold fall back to the defaults.
func New(updateLimit int, pivotThreshold float64) *Factorization {
	if updateLimit <= 0 {
		updateLimit = DefaultUpdateLimit
	}
	if pivotThreshold <= 0 || pivotThreshold > 0.5 {
		pivotThreshold = DefaultPivotThreshold
	}

	return &Factorization{updateLimit: updateLimit, pivotThreshold: pivotThreshold}
}

// Factorize consumes the current basic index set and the working LP and
// produces a fresh LU of B.
//
// It returns ErrSingularBasis when the basis matrix is numerically singular;
// the caller must substitute a logical (identity) column for an offending
// basic variable and retry. On failure the previous representation is
// invalidated.
//
// Complexity: O(m³) dense; the whole point of Update is to amortize this.
func (f *Factorization) Factorize(w *lp.WorkingLP, basis []int) error {
	m := w.NumRow()
	if len(basis) != m {
		return ErrBadDim
	}

	// Assemble B column by column from the combined matrix [A I].
	b := mat.NewDense(m, m, nil)
	col := make([]float64, m)
	for k, j := range basis {
		for i := range col {
			col[i] = 0
		}
		w.ColScatter(j, 1, col)
		b.SetCol(k, col)
	}

	f.lu.Factorize(b)
	if cond := f.lu.Cond(); math.IsNaN(cond) || cond > maxCondition {
		f.valid = false

		return ErrSingularBasis
	}

	f.basis = b
	f.dim = m
	f.updates = 0
	f.trouble = 0
	f.valid = true

	return nil
}

// SolveVec solves B·x = rhs into x (both length m).
func (f *Factorization) SolveVec(rhs, x []float64) error {
	return f.solve(rhs, x, false)
}

// SolveTransVec solves Bᵀ·x = rhs into x (both length m).
func (f *Factorization) SolveTransVec(rhs, x []float64) error {
	return f.solve(rhs, x, true)
}

func (f *Factorization) solve(rhs, x []float64, trans bool) error {
	if !f.valid {
		return ErrNotFactorized
	}
	if len(rhs) != f.dim || len(x) != f.dim {
		return ErrBadDim
	}

	dst := mat.NewVecDense(f.dim, x)
	if err := f.lu.SolveVecTo(dst, trans, mat.NewVecDense(f.dim, rhs)); err != nil {
		// gonum reports ill-conditioning as a mat.Condition error; the solve
		// result is still populated, but the caller must rebuild.
		return ErrNumericalTrouble
	}

	return nil
}

// Update applies the rank-1 column replacement after a pivot: combined column
// aq (dense, length m) enters basis slot leavingRow. ftranAq must hold
// d = B⁻¹·aq from the pivot's FTRAN; its leavingRow entry is the pivot α.
//
// Returns:
//   - ErrUpdateLimit when the cumulative update budget is spent,
//   - ErrNumericalTrouble when |α| is below the pivot threshold relative to
//     the column magnitude (the update would poison the factors),
//   - nil on success, with the LU advanced in place.
func (f *Factorization) Update(aq, ftranAq []float64, leavingRow int) error {
	if !f.valid {
		return ErrNotFactorized
	}
	if len(aq) != f.dim || len(ftranAq) != f.dim || leavingRow < 0 || leavingRow >= f.dim {
		return ErrBadDim
	}
	if f.updates >= f.updateLimit {
		return ErrUpdateLimit
	}

	// Stability gate: the pivot must not be tiny relative to the FTRANed
	// column, otherwise E⁻¹ amplifies error unboundedly.
	alpha := ftranAq[leavingRow]
	norm := floats.Norm(ftranAq, math.Inf(1))
	if norm == 0 || math.Abs(alpha) < f.pivotThreshold*norm {
		if t := norm / math.Max(math.Abs(alpha), math.SmallestNonzeroFloat64); t > f.trouble {
			f.trouble = t
		}

		return ErrNumericalTrouble
	}
	if t := norm / math.Abs(alpha); t > f.trouble {
		f.trouble = t
	}

	// B' = B + (aq − B·e_r)·e_rᵀ applied to the LU factors in place.
	x := make([]float64, f.dim)
	for i := range x {
		x[i] = aq[i] - f.basis.At(i, leavingRow)
	}
	y := make([]float64, f.dim)
	y[leavingRow] = 1

	f.lu.RankOne(&f.lu, 1, mat.NewVecDense(f.dim, x), mat.NewVecDense(f.dim, y))
	f.basis.SetCol(leavingRow, aq)
	f.updates++

	return nil
}

// Updates returns the number of rank-1 updates since the last Factorize.
func (f *Factorization) Updates() int { return f.updates }

// Fresh reports whether the representation corresponds to the current basis
// with zero accumulated updates.
func (f *Factorization) Fresh() bool { return f.valid && f.updates == 0 }

// Valid reports whether a successful Factorize backs the representation.
func (f *Factorization) Valid() bool { return f.valid }

// NumericalTrouble returns the largest relative instability measure seen
// since the last Factorize (0 when pristine).
func (f *Factorization) NumericalTrouble() float64 { return f.trouble }

// MulBasisVec computes y = B·x against the tracked basis matrix. Used by
// rebuild verification probes and tests.
func (f *Factorization) MulBasisVec(x, y []float64) error {
	if !f.valid {
		return ErrNotFactorized
	}
	if len(x) != f.dim || len(y) != f.dim {
		return ErrBadDim
	}

	dst := mat.NewVecDense(f.dim, y)
	dst.MulVec(f.basis, mat.NewVecDense(f.dim, x))

	return nil
}
