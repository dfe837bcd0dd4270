// SPDX-License-Identifier: MIT
// Dense is the row-major block type, storing elements in a flat slice for
// performance and cache friendliness.

package matrix

import (
	"fmt"
	"strings"
)

// Dense is a row-major matrix of float64 values.
// r is rows, c is columns, and data holds r*c elements in row-major order.
type Dense struct {
	r, c int       // number of rows and columns
	data []float64 // flat backing storage, length == r*c
}

// NewDense creates an r×c Dense matrix initialized to zeros.
// Stage 1 (Validate): ensure rows and cols > 0.
// Stage 2 (Prepare): allocate flat backing slice.
// Complexity: O(r*c) time and memory.
func NewDense(rows, cols int) (*Dense, error) {
	if rows <= 0 || cols <= 0 {
		return nil, matrixErrorf("NewDense", ErrInvalidDimensions)
	}

	return &Dense{r: rows, c: cols, data: make([]float64, rows*cols)}, nil
}

// NewDenseFrom creates an r×c Dense holding a copy of data (row-major).
// Returns ErrDimensionMismatch if len(data) != rows*cols.
// Complexity: O(r*c).
func NewDenseFrom(rows, cols int, data []float64) (*Dense, error) {
	m, err := NewDense(rows, cols)
	if err != nil {
		return nil, err
	}
	if len(data) != rows*cols {
		return nil, matrixErrorf("NewDenseFrom", ErrDimensionMismatch)
	}
	copy(m.data, data)

	return m, nil
}

// FromRows builds a Dense from a rectangular [][]float64 (deep copy).
// Returns ErrInvalidDimensions for an empty input and ErrDimensionMismatch
// for ragged rows.
// Complexity: O(r*c).
func FromRows(rows [][]float64) (*Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, matrixErrorf("FromRows", ErrInvalidDimensions)
	}
	r, c := len(rows), len(rows[0])
	m := &Dense{r: r, c: c, data: make([]float64, r*c)}
	for i, row := range rows {
		if len(row) != c {
			return nil, matrixErrorf("FromRows", ErrDimensionMismatch)
		}
		copy(m.data[i*c:(i+1)*c], row) // one row per copy
	}

	return m, nil
}

// Rows returns the number of rows in the matrix.
// Complexity: O(1).
func (m *Dense) Rows() int {
	return m.r
}

// Cols returns the number of columns in the matrix.
// Complexity: O(1).
func (m *Dense) Cols() int {
	return m.c
}

// Len returns the number of stored elements (rows*cols).
func (m *Dense) Len() int {
	return len(m.data)
}

// indexOf computes the flat index for (row, col) or returns ErrOutOfRange.
// Complexity: O(1).
func (m *Dense) indexOf(method string, row, col int) (int, error) {
	if row < 0 || row >= m.r || col < 0 || col >= m.c {
		return 0, denseErrorf(method, row, col, ErrOutOfRange)
	}

	return row*m.c + col, nil
}

// At retrieves the element at (row, col).
// Complexity: O(1).
func (m *Dense) At(row, col int) (float64, error) {
	idx, err := m.indexOf("At", row, col)
	if err != nil {
		return 0, err
	}

	return m.data[idx], nil
}

// Set assigns value v at (row, col).
// Complexity: O(1).
func (m *Dense) Set(row, col int, v float64) error {
	idx, err := m.indexOf("Set", row, col)
	if err != nil {
		return err
	}
	m.data[idx] = v

	return nil
}

// Values returns a copy of the flat row-major buffer.
// Complexity: O(r*c).
func (m *Dense) Values() []float64 {
	out := make([]float64, len(m.data))
	copy(out, m.data)

	return out
}

// Clone returns a deep copy of the Dense matrix.
// The returned matrix shares no storage with m.
// Complexity: O(r*c) time and memory.
func (m *Dense) Clone() *Dense {
	copyData := make([]float64, len(m.data))
	copy(copyData, m.data)

	return &Dense{r: m.r, c: m.c, data: copyData}
}

// Equal reports whether m and o have the same shape and bit-identical
// elements. NaN entries never compare equal.
// Complexity: O(r*c).
func (m *Dense) Equal(o *Dense) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.r != o.r || m.c != o.c {
		return false
	}
	for k := range m.data {
		if m.data[k] != o.data[k] {
			return false
		}
	}

	return true
}

// String implements fmt.Stringer for easy debugging.
// Complexity: O(r*c) for string construction.
func (m *Dense) String() string {
	var sb strings.Builder
	for i := 0; i < m.r; i++ {
		sb.WriteString("[")
		for j := 0; j < m.c; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "%g", m.data[i*m.c+j])
		}
		sb.WriteString("]\n")
	}

	return sb.String()
}
