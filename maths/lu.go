package maths

import (
	"fmt"
	"math"
	"sort"
)

// sparseRow 消元过程中的稀疏行（列索引 → 值）
type sparseRow map[int]float64

// SparseLU 稀疏矩阵LU分解实现（PA=LU，带部分主元）
//
//	P - 置换向量，perm[i] 为分解后第i行对应的原始行索引
//	L - 单位下三角矩阵（对角线为1，不存储）
//	U - 上三角矩阵
type SparseLU struct {
	n     int
	perm  []int       // 置换向量
	lCols [][]int     // L 每行非零列（严格下三角）
	lVals [][]float64 // L 每行非零值
	uCols [][]int     // U 每行非零列（严格上三角）
	uVals [][]float64 // U 每行非零值
	uDiag []float64   // U 对角线（主元）
	y     []float64   // 中间变量：前向替换结果
}

var _ LU = (*SparseLU)(nil)

// NewSparseLU 创建稀疏LU分解器
func NewSparseLU() *SparseLU {
	return &SparseLU{}
}

// Dim 获取矩阵维度
func (lu *SparseLU) Dim() int {
	return lu.n
}

// Decompose 执行稀疏矩阵LU分解
//
// 稀疏优化:
//  1. 只保存非零元素，按列维护行集合以快速查找主元候选
//  2. 消元只遍历主元行的非零列
//  3. 主元阈值相对于矩阵最大元素，零主元返回 ErrSingular
func (lu *SparseLU) Decompose(a *SparseMatrix[float64]) error {
	// 1. 输入合法性校验
	if !a.IsSquare() {
		return fmt.Errorf("lu sparse decompose: %dx%d: %w", a.Rows(), a.Cols(), ErrNonSquare)
	}
	if !a.IsFinite() {
		return fmt.Errorf("lu sparse decompose: non-finite entry: %w", ErrSingular)
	}
	n := a.Rows()
	lu.n = n
	scale := a.MaxAbs()

	// 2. 初始化：复制矩阵到工作行，建立列索引
	u := make([]sparseRow, n)
	l := make([]sparseRow, n)
	cols := make([]map[int]struct{}, n)
	for j := range cols {
		cols[j] = map[int]struct{}{}
	}
	for i := 0; i < n; i++ {
		u[i], l[i] = sparseRow{}, sparseRow{}
		ci, vi := a.Row(i)
		for k, j := range ci {
			if v := vi[k]; v != 0 {
				u[i][j] = v
				cols[j][i] = struct{}{}
			}
		}
	}
	lu.perm = make([]int, n)
	for i := range lu.perm {
		lu.perm[i] = i
	}
	if n == 0 {
		lu.freeze(u, l)
		return nil
	}
	if scale == 0 {
		return fmt.Errorf("lu sparse decompose: zero matrix: %w", ErrSingular)
	}
	tol := Epsilon * scale

	// 3. 逐列执行高斯消元
	for k := 0; k < n; k++ {
		// 步骤1：部分主元选择，并列时取行号最小者
		best, pivot := -1, 0.0
		for r := range cols[k] {
			if r < k {
				continue
			}
			v := math.Abs(u[r][k])
			if v > pivot || (v == pivot && best >= 0 && r < best) {
				best, pivot = r, v
			}
		}
		if best < 0 || pivot <= tol {
			return fmt.Errorf("lu sparse decompose: zero pivot at column %d: %w", k, ErrSingular)
		}

		// 步骤2：行交换
		if best != k {
			lu.swapRows(u, l, cols, k, best)
		}

		// 步骤3：稀疏消元
		pivotVal := u[k][k]
		targets := make([]int, 0, len(cols[k]))
		for r := range cols[k] {
			if r > k {
				targets = append(targets, r)
			}
		}
		sort.Ints(targets)
		for _, r := range targets {
			factor := u[r][k] / pivotVal
			l[r][k] = factor
			delete(u[r], k)
			delete(cols[k], r)
			for j, v := range u[k] {
				if j <= k {
					continue
				}
				if _, ok := u[r][j]; !ok {
					cols[j][r] = struct{}{} // 填充元
				}
				u[r][j] -= factor * v
			}
		}
	}
	lu.freeze(u, l)
	return nil
}

// swapRows 交换工作行并同步列索引与置换向量
func (lu *SparseLU) swapRows(u, l []sparseRow, cols []map[int]struct{}, a, b int) {
	for j := range u[a] {
		delete(cols[j], a)
	}
	for j := range u[b] {
		delete(cols[j], b)
	}
	u[a], u[b] = u[b], u[a]
	l[a], l[b] = l[b], l[a] // L 只含已消元的列，整行交换是安全的
	lu.perm[a], lu.perm[b] = lu.perm[b], lu.perm[a]
	for j := range u[a] {
		cols[j][a] = struct{}{}
	}
	for j := range u[b] {
		cols[j][b] = struct{}{}
	}
}

// freeze 将消元结果整理为按列排序的紧凑行
func (lu *SparseLU) freeze(u, l []sparseRow) {
	n := lu.n
	lu.lCols, lu.lVals = make([][]int, n), make([][]float64, n)
	lu.uCols, lu.uVals = make([][]int, n), make([][]float64, n)
	lu.uDiag = make([]float64, n)
	lu.y = make([]float64, n)
	for i := 0; i < n; i++ {
		lu.lCols[i], lu.lVals[i] = sortedRow(l[i], func(j int) bool { return j < i })
		lu.uCols[i], lu.uVals[i] = sortedRow(u[i], func(j int) bool { return j > i })
		lu.uDiag[i] = u[i][i]
	}
}

// sortedRow 提取满足条件的列并排序
func sortedRow(row sparseRow, keep func(int) bool) ([]int, []float64) {
	cols := make([]int, 0, len(row))
	for j := range row {
		if keep(j) {
			cols = append(cols, j)
		}
	}
	sort.Ints(cols)
	vals := make([]float64, len(cols))
	for k, j := range cols {
		vals[k] = row[j]
	}
	return cols, vals
}

// Solve 利用分解结果求解Ax=b
//
// 数学步骤:
//  1. 前向替换：求解Ly = Pb
//  2. 后向替换：求解Ux = y
func (lu *SparseLU) Solve(b, x []float64) error {
	if len(b) != lu.n || len(x) != lu.n {
		return fmt.Errorf("lu sparse solve: vector length %d/%d, want %d: %w", len(b), len(x), lu.n, ErrDimensionMismatch)
	}
	for i := 0; i < lu.n; i++ {
		sum := b[lu.perm[i]]
		for k, j := range lu.lCols[i] {
			sum -= lu.lVals[i][k] * lu.y[j]
		}
		lu.y[i] = sum
	}
	for i := lu.n - 1; i >= 0; i-- {
		sum := lu.y[i]
		for k, j := range lu.uCols[i] {
			sum -= lu.uVals[i][k] * x[j]
		}
		x[i] = sum / lu.uDiag[i]
	}
	if !AllFinite(x) {
		return fmt.Errorf("lu sparse solve: non-finite solution: %w", ErrSingular)
	}
	return nil
}
