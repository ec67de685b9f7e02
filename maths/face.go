package maths

import (
	"errors"
	"math"
	"math/cmplx"
)

// Epsilon 主元相对阈值（相对于矩阵最大元素）
const Epsilon = 1e-14

// 错误定义
var (
	// ErrSingular 分解时遇到零主元或求解结果非有限
	ErrSingular = errors.New("maths: singular matrix")
	// ErrNonSquare 需要方阵
	ErrNonSquare = errors.New("maths: matrix is not square")
	// ErrDimensionMismatch 维度不匹配
	ErrDimensionMismatch = errors.New("maths: dimension mismatch")
)

// Number 是一个约束，允许实数或复数类型
type Number interface {
	~float64 | ~complex128
}

// abs 是一个泛型函数，返回任何支持的 Number 类型的绝对值。
func abs[T Number](v T) float64 {
	switch x := any(v).(type) {
	case float64:
		return math.Abs(x)
	case complex128:
		return cmplx.Abs(x)
	}
	return 0
}

// isFinite 判断数值是否有限
func isFinite[T Number](v T) bool {
	switch x := any(v).(type) {
	case float64:
		return !math.IsNaN(x) && !math.IsInf(x, 0)
	case complex128:
		return !cmplx.IsNaN(x) && !cmplx.IsInf(x)
	}
	return true
}

// LU 接口定义了 LU 分解和求解线性方程组的操作。
type LU interface {
	Decompose(a *SparseMatrix[float64]) error // 对输入方阵执行LU分解（PA=LU）
	Solve(b, x []float64) error               // 利用分解结果求解Ax=b
}
