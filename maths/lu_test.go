package maths

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// sparseOf 由稠密二维数组构造稀疏矩阵
func sparseOf(rows [][]float64) *SparseMatrix[float64] {
	m := NewSparseMatrix[float64](len(rows), len(rows[0]))
	for i, row := range rows {
		for j, v := range row {
			if v != 0 {
				m.Set(i, j, v)
			}
		}
	}
	return m
}

// solveSparse 一次性分解并求解 Ax=b
func solveSparse(a *SparseMatrix[float64], b []float64) ([]float64, error) {
	lu := NewSparseLU()
	if err := lu.Decompose(a); err != nil {
		return nil, err
	}
	x := make([]float64, len(b))
	if err := lu.Solve(b, x); err != nil {
		return nil, err
	}
	return x, nil
}

// denseOf 转换为 gonum 稠密矩阵，作为对照
func denseOf(m *SparseMatrix[float64]) *mat.Dense {
	d := mat.NewDense(m.Rows(), m.Cols(), nil)
	for i, row := range m.ToDense() {
		d.SetRow(i, row)
	}
	return d
}

// TestSparseLUSolve 验证3x3方程组的求解结果
func TestSparseLUSolve(t *testing.T) {
	// A = [[2, 3, 1], [1, 2, 3], [3, 1, 2]], b = [9, 6, 8]
	a := sparseOf([][]float64{{2, 3, 1}, {1, 2, 3}, {3, 1, 2}})
	x, err := solveSparse(a, []float64{9, 6, 8})
	require.NoError(t, err)
	expected := []float64{35.0 / 18.0, 29.0 / 18.0, 5.0 / 18.0}
	assert.InDeltaSlice(t, expected, x, 1e-12)
}

// TestSparseLUPivoting 对角线为零时需要行交换
func TestSparseLUPivoting(t *testing.T) {
	a := sparseOf([][]float64{{0, 1}, {1, 0}})
	x, err := solveSparse(a, []float64{2, 3})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{3, 2}, x, 1e-15)
}

// TestSparseLUSingular 奇异矩阵返回 ErrSingular
func TestSparseLUSingular(t *testing.T) {
	cases := map[string][][]float64{
		"duplicate rows": {{1, 2}, {2, 4}},
		"zero column":    {{1, 0}, {1, 0}},
		"zero matrix":    {{0, 0}, {0, 0}},
		"nan entry":      {{math.NaN(), 1}, {1, 1}},
	}
	for name, rows := range cases {
		t.Run(name, func(t *testing.T) {
			err := NewSparseLU().Decompose(sparseOf(rows))
			assert.ErrorIs(t, err, ErrSingular)
		})
	}
}

func TestSparseLUNonSquare(t *testing.T) {
	err := NewSparseLU().Decompose(NewSparseMatrix[float64](2, 3))
	assert.ErrorIs(t, err, ErrNonSquare)
}

func TestSparseLUSolveDimension(t *testing.T) {
	lu := NewSparseLU()
	require.NoError(t, lu.Decompose(sparseOf([][]float64{{1, 0}, {0, 1}})))
	err := lu.Solve([]float64{1}, make([]float64, 2))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

// TestSparseLUAgainstGonum 随机稀疏矩阵与 gonum 稠密求解比较
func TestSparseLUAgainstGonum(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 20; trial++ {
		n := 5 + rng.Intn(20)
		a := NewSparseMatrix[float64](n, n)
		for i := 0; i < n; i++ {
			a.Set(i, i, 4+rng.Float64()) // 对角占优保证非奇异
			for k := 0; k < 3; k++ {
				j := rng.Intn(n)
				if j != i {
					a.Set(i, j, rng.Float64()-0.5)
				}
			}
		}
		b := make([]float64, n)
		for i := range b {
			b[i] = rng.NormFloat64()
		}

		x, err := solveSparse(a, b)
		require.NoError(t, err)

		var want mat.VecDense
		require.NoError(t, want.SolveVec(denseOf(a), mat.NewVecDense(n, b)))
		assert.InDeltaSlice(t, want.RawVector().Data, x, 1e-10, "trial %d", trial)
	}
}

// TestSparseLUReuse 同一分解可用于多个右端项
func TestSparseLUReuse(t *testing.T) {
	a := sparseOf([][]float64{{4, 1, 0}, {1, 4, 1}, {0, 1, 4}})
	lu := NewSparseLU()
	require.NoError(t, lu.Decompose(a))
	assert.Equal(t, 3, lu.Dim())
	for _, b := range [][]float64{{1, 0, 0}, {0, 1, 0}, {5, 6, 5}} {
		x := make([]float64, 3)
		require.NoError(t, lu.Solve(b, x))
		assert.InDeltaSlice(t, b, a.MulVec(x), 1e-12)
	}
}
