package lp

import "math"

// Matrix is an immutable sparse view of the constraint matrix A (numRow ×
// numCol), stored column-wise (CSC) with a row-wise (CSR) mirror built once at
// construction. The column form feeds FTRAN and column extraction; the row
// form feeds row-wise PRICE scans.
type Matrix struct {
	numRow, numCol int

	// Column-wise storage: entries of column j live in
	// rowIdx[colPtr[j]:colPtr[j+1]] / value[colPtr[j]:colPtr[j+1]],
	// with strictly increasing row indices inside each column.
	colPtr []int
	rowIdx []int
	value  []float64

	// Row-wise mirror, same entries regrouped by row.
	rowPtr []int
	colIdx []int
	rowVal []float64
}

// NewMatrix builds an immutable Matrix from CSC arrays.
//
// It returns:
//   - *Matrix : the validated view
//   - err     : ErrBadShape, ErrBadColPointers, ErrBadRowIndex or ErrNotFinite
//
// Steps:
//  1. Validate shape and array lengths (O(1)).
//  2. Validate column pointers and per-column row ordering (O(nnz)).
//  3. Build the row-wise mirror by a two-pass counting transpose (O(nnz)).
//
// The input slices are copied; callers may reuse them afterwards.
func NewMatrix(numRow, numCol int, colPtr, rowIdx []int, value []float64) (*Matrix, error) {
	// 1) Shape checks.
	if numRow < 0 || numCol < 0 {
		return nil, ErrBadShape
	}
	if len(colPtr) != numCol+1 {
		return nil, ErrBadShape
	}
	if len(rowIdx) != len(value) {
		return nil, ErrBadShape
	}

	// 2) Column pointers: start at 0, non-decreasing, end at nnz.
	if colPtr[0] != 0 || colPtr[numCol] != len(rowIdx) {
		return nil, ErrBadColPointers
	}
	for j := 0; j < numCol; j++ {
		if colPtr[j+1] < colPtr[j] {
			return nil, ErrBadColPointers
		}
		// Row indices strictly increasing within the column.
		for k := colPtr[j]; k < colPtr[j+1]; k++ {
			if rowIdx[k] < 0 || rowIdx[k] >= numRow {
				return nil, ErrBadRowIndex
			}
			if k > colPtr[j] && rowIdx[k] <= rowIdx[k-1] {
				return nil, ErrBadRowIndex
			}
			if math.IsNaN(value[k]) || math.IsInf(value[k], 0) {
				return nil, ErrNotFinite
			}
		}
	}

	a := &Matrix{
		numRow: numRow,
		numCol: numCol,
		colPtr: append([]int(nil), colPtr...),
		rowIdx: append([]int(nil), rowIdx...),
		value:  append([]float64(nil), value...),
	}
	a.buildRowWise()

	return a, nil
}

// buildRowWise constructs the CSR mirror with a counting transpose.
// Column indices come out increasing within each row because the outer walk
// is in column order; that keeps row scans deterministic.
func (a *Matrix) buildRowWise() {
	nnz := len(a.rowIdx)
	a.rowPtr = make([]int, a.numRow+1)
	a.colIdx = make([]int, nnz)
	a.rowVal = make([]float64, nnz)

	// Pass 1: count entries per row.
	for _, i := range a.rowIdx {
		a.rowPtr[i+1]++
	}
	for i := 0; i < a.numRow; i++ {
		a.rowPtr[i+1] += a.rowPtr[i]
	}

	// Pass 2: scatter, tracking a moving fill cursor per row.
	next := append([]int(nil), a.rowPtr...)
	for j := 0; j < a.numCol; j++ {
		for k := a.colPtr[j]; k < a.colPtr[j+1]; k++ {
			i := a.rowIdx[k]
			a.colIdx[next[i]] = j
			a.rowVal[next[i]] = a.value[k]
			next[i]++
		}
	}
}

// Dims returns (numRow, numCol) of the structural matrix A.
func (a *Matrix) Dims() (int, int) { return a.numRow, a.numCol }

// NumNonZero returns the number of stored entries.
func (a *Matrix) NumNonZero() int { return len(a.rowIdx) }

// Col returns the sparse entries of structural column j as (row indices,
// values) slice views into internal storage. Callers MUST NOT mutate them.
// Returns ErrIndexOutOfRange for j outside 0..numCol-1.
func (a *Matrix) Col(j int) ([]int, []float64, error) {
	if j < 0 || j >= a.numCol {
		return nil, nil, ErrIndexOutOfRange
	}

	return a.rowIdx[a.colPtr[j]:a.colPtr[j+1]], a.value[a.colPtr[j]:a.colPtr[j+1]], nil
}

// Row returns the sparse entries of row i as (column indices, values) slice
// views into internal storage, column indices increasing. Callers MUST NOT
// mutate them. Returns ErrIndexOutOfRange for i outside 0..numRow-1.
func (a *Matrix) Row(i int) ([]int, []float64, error) {
	if i < 0 || i >= a.numRow {
		return nil, nil, ErrIndexOutOfRange
	}

	return a.colIdx[a.rowPtr[i]:a.rowPtr[i+1]], a.rowVal[a.rowPtr[i]:a.rowPtr[i+1]], nil
}

// ColScatter adds scale times structural column j into the dense vector dst
// (len numRow). It is the hot path of FTRAN right-hand-side assembly, so no
// error return: out-of-range j panics via slice indexing (programmer error).
func (a *Matrix) ColScatter(j int, scale float64, dst []float64) {
	for k := a.colPtr[j]; k < a.colPtr[j+1]; k++ {
		dst[a.rowIdx[k]] += scale * a.value[k]
	}
}

// ColDot returns the dot product of structural column j with the dense vector
// v (len numRow). Used by BTRAN-based pricing (row_ap assembly).
func (a *Matrix) ColDot(j int, v []float64) float64 {
	var sum float64
	for k := a.colPtr[j]; k < a.colPtr[j+1]; k++ {
		sum += a.value[k] * v[a.rowIdx[k]]
	}

	return sum
}
