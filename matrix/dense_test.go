// SPDX-License-Identifier: MIT

// Package matrix_test contains unit tests for the Dense block type.
package matrix_test

import (
	"testing"

	"github.com/katalvlaran/digitile/matrix"
	"github.com/stretchr/testify/require"
)

// TestNewDenseInvalidDimensions ensures that NewDense rejects non-positive dimensions.
func TestNewDenseInvalidDimensions(t *testing.T) {
	_, err := matrix.NewDense(0, 5)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	_, err = matrix.NewDense(5, -1)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

// TestRowsCols verifies that Rows() and Cols() return correct dimension values.
func TestRowsCols(t *testing.T) {
	m, err := matrix.NewDense(3, 4)
	require.NoError(t, err)

	require.Equal(t, 3, m.Rows())
	require.Equal(t, 4, m.Cols())
	require.Equal(t, 12, m.Len())
}

// TestAtSetOutOfBounds ensures At() and Set() return ErrOutOfRange on invalid access.
func TestAtSetOutOfBounds(t *testing.T) {
	m, err := matrix.NewDense(2, 2)
	require.NoError(t, err)

	_, err = m.At(-1, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)

	_, err = m.At(0, 2)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)

	err = m.Set(2, 0, 1.23)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
}

// TestSetGet validates Set() followed by At() on valid indices.
func TestSetGet(t *testing.T) {
	m, err := matrix.NewDense(2, 3)
	require.NoError(t, err)

	require.NoError(t, m.Set(1, 2, 7.89))
	val, err := m.At(1, 2)
	require.NoError(t, err)
	require.Equal(t, 7.89, val)
}

// TestFromRows covers the rectangular and ragged cases.
func TestFromRows(t *testing.T) {
	m, err := matrix.FromRows([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	require.Equal(t, []float64{1, 2, 3, 4}, m.Values())

	_, err = matrix.FromRows([][]float64{{1, 2}, {3}})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = matrix.FromRows(nil)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	_, err = matrix.NewDenseFrom(2, 2, []float64{1, 2, 3})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

// TestCloneIndependence checks that a clone shares no storage with its source.
func TestCloneIndependence(t *testing.T) {
	m, err := matrix.FromRows([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)

	c := m.Clone()
	require.True(t, m.Equal(c))

	require.NoError(t, c.Set(0, 0, 100))
	v, _ := m.At(0, 0)
	require.Equal(t, 1.0, v)
	require.False(t, m.Equal(c))

	vals := m.Values()
	vals[3] = -1
	v, _ = m.At(1, 1)
	require.Equal(t, 4.0, v)
}

// TestString renders one bracketed line per row.
func TestString(t *testing.T) {
	m, err := matrix.FromRows([][]float64{{1, 2.5}, {0, -3}})
	require.NoError(t, err)
	require.Equal(t, "[1, 2.5]\n[0, -3]\n", m.String())
}
