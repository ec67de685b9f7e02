package maths

import "math"

// NormInf 向量无穷范数
func NormInf(x []float64) float64 {
	var mx float64
	for _, v := range x {
		if math.IsNaN(v) {
			return math.NaN()
		}
		mx = max(mx, math.Abs(v))
	}
	return mx
}

// Norm2 向量2范数
func Norm2(x []float64) float64 {
	return math.Sqrt(Dot(x, x))
}

// Dot 点积
func Dot(x, y []float64) float64 {
	if len(x) != len(y) {
		panic("vector dimension mismatch")
	}
	var sum float64
	for i := range x {
		sum += x[i] * y[i]
	}
	return sum
}

// Axpy y += alpha*x
func Axpy(alpha float64, x, y []float64) {
	if len(x) != len(y) {
		panic("vector dimension mismatch")
	}
	for i := range x {
		y[i] += alpha * x[i]
	}
}

// Scale 向量缩放（所有元素乘scalar），返回新向量
func Scale(scalar float64, x []float64) []float64 {
	dst := make([]float64, len(x))
	for i, v := range x {
		dst[i] = scalar * v
	}
	return dst
}

// AllFinite 所有元素是否为有限值
func AllFinite(x []float64) bool {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// AllFiniteComplex 所有复数元素是否为有限值
func AllFiniteComplex(x []complex128) bool {
	for _, v := range x {
		if !isFinite(v) {
			return false
		}
	}
	return true
}
