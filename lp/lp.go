package lp

import (
	"math"
	"sync/atomic"
)

// generationCounter hands every WorkingLP a distinct generation stamp.
// A long-lived engine snapshots the stamp at Init and asserts it unchanged at
// Solve, so a caller swapping the view between the two is caught loudly.
var generationCounter atomic.Uint64

// WorkingLP is the working LP handed to the simplex engine: the structural
// matrix A plus costs and bounds, addressed over the combined variable space
// (structural columns first, then one logical per row). The matrix is
// immutable; costs and bounds may be edited between solves through the
// Set* methods, each of which bumps the generation stamp.
type WorkingLP struct {
	a *Matrix

	colCost  []float64 // len numCol
	colLower []float64 // len numCol
	colUpper []float64 // len numCol
	rowLower []float64 // len numRow
	rowUpper []float64 // len numRow

	numCol, numRow int
	gen            uint64
}

// NewWorkingLP validates and captures a working LP.
//
// Bounds may be ±Inf (free directions); costs and matrix coefficients must be
// finite. Every bound pair must satisfy lower ≤ upper — crossed bounds are a
// caller error (ErrBadBounds), never repaired here.
//
// The bound and cost slices are copied; the matrix is shared (it is immutable).
func NewWorkingLP(a *Matrix, colCost, colLower, colUpper, rowLower, rowUpper []float64) (*WorkingLP, error) {
	if a == nil {
		return nil, ErrBadShape
	}
	numRow, numCol := a.Dims()
	if len(colCost) != numCol || len(colLower) != numCol || len(colUpper) != numCol {
		return nil, ErrBadShape
	}
	if len(rowLower) != numRow || len(rowUpper) != numRow {
		return nil, ErrBadShape
	}
	for j := 0; j < numCol; j++ {
		if math.IsNaN(colCost[j]) || math.IsInf(colCost[j], 0) {
			return nil, ErrNotFinite
		}
		if math.IsNaN(colLower[j]) || math.IsNaN(colUpper[j]) {
			return nil, ErrNotFinite
		}
		if colLower[j] > colUpper[j] {
			return nil, ErrBadBounds
		}
	}
	for i := 0; i < numRow; i++ {
		if math.IsNaN(rowLower[i]) || math.IsNaN(rowUpper[i]) {
			return nil, ErrNotFinite
		}
		if rowLower[i] > rowUpper[i] {
			return nil, ErrBadBounds
		}
	}

	return &WorkingLP{
		a:        a,
		colCost:  append([]float64(nil), colCost...),
		colLower: append([]float64(nil), colLower...),
		colUpper: append([]float64(nil), colUpper...),
		rowLower: append([]float64(nil), rowLower...),
		rowUpper: append([]float64(nil), rowUpper...),
		numCol:   numCol,
		numRow:   numRow,
		gen:      generationCounter.Add(1),
	}, nil
}

// NumCol returns the number of structural columns n.
func (w *WorkingLP) NumCol() int { return w.numCol }

// NumRow returns the number of rows m.
func (w *WorkingLP) NumRow() int { return w.numRow }

// NumTot returns the combined variable count n + m.
func (w *WorkingLP) NumTot() int { return w.numCol + w.numRow }

// Matrix returns the shared structural matrix A.
func (w *WorkingLP) Matrix() *Matrix { return w.a }

// Generation returns the view's generation stamp.
func (w *WorkingLP) Generation() uint64 { return w.gen }

// IsLogical reports whether combined index j addresses a logical column.
func (w *WorkingLP) IsLogical(j int) bool { return j >= w.numCol }

// Cost returns the model cost of combined variable j; logicals cost zero.
func (w *WorkingLP) Cost(j int) float64 {
	if j >= w.numCol {
		return 0
	}

	return w.colCost[j]
}

// Lower returns the lower bound of combined variable j. For the logical of
// row i this is -rowUpper_i per the [A I]·(x,s)=0 convention.
func (w *WorkingLP) Lower(j int) float64 {
	if j >= w.numCol {
		return -w.rowUpper[j-w.numCol]
	}

	return w.colLower[j]
}

// Upper returns the upper bound of combined variable j (logical: -rowLower_i).
func (w *WorkingLP) Upper(j int) float64 {
	if j >= w.numCol {
		return -w.rowLower[j-w.numCol]
	}

	return w.colUpper[j]
}

// RowBounds returns the original (rowLower_i, rowUpper_i) of row i.
func (w *WorkingLP) RowBounds(i int) (float64, float64) {
	return w.rowLower[i], w.rowUpper[i]
}

// SetCost replaces the cost of structural column j and bumps the generation
// stamp; engines bound to the previous stamp refuse to keep solving.
//
// Returns ErrIndexOutOfRange for a bad index and ErrNotFinite for a
// non-finite cost.
func (w *WorkingLP) SetCost(j int, cost float64) error {
	if j < 0 || j >= w.numCol {
		return ErrIndexOutOfRange
	}
	if math.IsNaN(cost) || math.IsInf(cost, 0) {
		return ErrNotFinite
	}
	w.colCost[j] = cost
	w.gen = generationCounter.Add(1)

	return nil
}

// SetColBounds replaces the bounds of structural column j and bumps the
// generation stamp. Crossed or NaN bounds are rejected, never repaired.
func (w *WorkingLP) SetColBounds(j int, lower, upper float64) error {
	if j < 0 || j >= w.numCol {
		return ErrIndexOutOfRange
	}
	if math.IsNaN(lower) || math.IsNaN(upper) {
		return ErrNotFinite
	}
	if lower > upper {
		return ErrBadBounds
	}
	w.colLower[j], w.colUpper[j] = lower, upper
	w.gen = generationCounter.Add(1)

	return nil
}

// SetRowBounds replaces the bounds of row i and bumps the generation stamp.
func (w *WorkingLP) SetRowBounds(i int, lower, upper float64) error {
	if i < 0 || i >= w.numRow {
		return ErrIndexOutOfRange
	}
	if math.IsNaN(lower) || math.IsNaN(upper) {
		return ErrNotFinite
	}
	if lower > upper {
		return ErrBadBounds
	}
	w.rowLower[i], w.rowUpper[i] = lower, upper
	w.gen = generationCounter.Add(1)

	return nil
}

// ColScatter adds scale times combined column j of [A I] into dst (len m).
// Logical columns are implicit unit columns.
func (w *WorkingLP) ColScatter(j int, scale float64, dst []float64) {
	if j >= w.numCol {
		dst[j-w.numCol] += scale

		return
	}
	w.a.ColScatter(j, scale, dst)
}

// ColDot returns the dot product of combined column j of [A I] with v (len m).
func (w *WorkingLP) ColDot(j int, v []float64) float64 {
	if j >= w.numCol {
		return v[j-w.numCol]
	}

	return w.a.ColDot(j, v)
}
