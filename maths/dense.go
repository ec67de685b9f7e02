package maths

import "gonum.org/v1/gonum/mat"

// NormalEquations 计算 J^T*J + lambda*I（对称矩阵）
func NormalEquations(j *SparseMatrix[float64], lambda float64) *mat.SymDense {
	n := j.cols
	a := mat.NewSymDense(max(n, 1), nil)
	// 按行累加外积：J^T J = Σ_i row_i^T row_i
	for i := 0; i < j.rows; i++ {
		cols, vals := j.Row(i)
		for p, c1 := range cols {
			for q := p; q < len(cols); q++ {
				c2 := cols[q]
				r, c := c1, c2
				if r > c {
					r, c = c, r
				}
				a.SetSym(r, c, a.At(r, c)+vals[p]*vals[q])
			}
		}
	}
	for i := 0; i < n; i++ {
		a.SetSym(i, i, a.At(i, i)+lambda)
	}
	return a
}
