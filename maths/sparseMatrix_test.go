package maths

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSparseMatrixPattern 验证模式在清零后保持不变
func TestSparseMatrixPattern(t *testing.T) {
	m := NewSparseMatrix[complex128](3, 3)
	m.Increment(0, 2, 1+1i)
	m.Increment(0, 0, 2)
	m.Increment(0, 2, 1)
	m.Increment(1, 1, 0)
	m.Increment(2, 0, 0) // 显式插入零元素

	assert.Equal(t, 4, m.NonZeroCount())
	assert.Equal(t, 2+1i, m.Get(0, 2))
	assert.Equal(t, complex128(0), m.Get(1, 2))

	cols, _ := m.Row(0)
	assert.Equal(t, []int{0, 2}, cols)

	m.Zero()
	assert.Equal(t, 4, m.NonZeroCount())
	assert.Equal(t, complex128(0), m.Get(0, 2))
}

func TestSparseMatrixMulVec(t *testing.T) {
	m := sparseOf([][]float64{{1, 2, 0}, {0, 3, 4}})
	assert.Equal(t, []float64{5, 18}, m.MulVec([]float64{1, 2, 3}))
	assert.Equal(t, []float64{1, 8, 8}, m.MulVecTrans([]float64{1, 2}))
	assert.Equal(t, 4.0, m.MaxAbs())
	assert.True(t, m.IsFinite())

	c := m.Copy()
	c.Set(0, 0, 10)
	assert.Equal(t, 1.0, m.Get(0, 0))
	assert.Equal(t, [][]float64{{10, 2, 0}, {0, 3, 4}}, c.ToDense())
}

func TestSparseMatrixOutOfRange(t *testing.T) {
	m := NewSparseMatrix[float64](2, 2)
	assert.Panics(t, func() { m.Get(2, 0) })
	assert.Panics(t, func() { m.Set(0, -1, 1) })
}

func TestNormalEquations(t *testing.T) {
	j := sparseOf([][]float64{{1, 2}, {3, 4}, {0, 1}})
	a := NormalEquations(j, 0.5)
	// J^T J = [[10, 14], [14, 21]]
	require.Equal(t, 2, a.SymmetricDim())
	assert.InDelta(t, 10.5, a.At(0, 0), 1e-15)
	assert.InDelta(t, 14.0, a.At(0, 1), 1e-15)
	assert.InDelta(t, 21.5, a.At(1, 1), 1e-15)
}
