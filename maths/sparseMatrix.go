package maths

import (
	"fmt"
	"sort"
	"strings"
)

// SparseMatrix 稀疏矩阵数据结构
// 使用CSR (Compressed Sparse Row) 格式存储。
// 已插入的位置即使值为零也保留，构成固定的稀疏结构，重复填值时不再分配内存。
type SparseMatrix[T Number] struct {
	rows, cols int
	rowPtr     []int // 行指针数组
	colInd     []int // 列索引数组
	values     []T   // 非零元素值数组
}

// NewSparseMatrix 创建新的稀疏矩阵
func NewSparseMatrix[T Number](rows, cols int) *SparseMatrix[T] {
	return &SparseMatrix[T]{
		rows:   rows,
		cols:   cols,
		rowPtr: make([]int, rows+1), // 多一个元素用于存储结束位置
		colInd: make([]int, 0),
		values: make([]T, 0),
	}
}

// Rows 返回行数
func (m *SparseMatrix[T]) Rows() int { return m.rows }

// Cols 返回列数
func (m *SparseMatrix[T]) Cols() int { return m.cols }

// NonZeroCount 返回结构非零元素数量
func (m *SparseMatrix[T]) NonZeroCount() int { return len(m.values) }

// IsSquare 检查是否为方阵
func (m *SparseMatrix[T]) IsSquare() bool { return m.rows == m.cols }

// find 二分查找元素位置
func (m *SparseMatrix[T]) find(row, col int) (int, bool) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		panic(fmt.Sprintf("index out of range: (%d,%d) in %dx%d", row, col, m.rows, m.cols))
	}
	start, end := m.rowPtr[row], m.rowPtr[row+1]
	pos := sort.Search(end-start, func(i int) bool {
		return m.colInd[start+i] >= col
	}) + start
	return pos, pos < end && m.colInd[pos] == col
}

// insertElement 在指定位置插入元素
func (m *SparseMatrix[T]) insertElement(row, col int, value T, pos int) {
	m.colInd = append(m.colInd, 0)
	copy(m.colInd[pos+1:], m.colInd[pos:])
	m.colInd[pos] = col
	var zero T
	m.values = append(m.values, zero)
	copy(m.values[pos+1:], m.values[pos:])
	m.values[pos] = value
	// 更新后续行的指针
	for i := row + 1; i <= m.rows; i++ {
		m.rowPtr[i]++
	}
}

// Get 获取矩阵元素
func (m *SparseMatrix[T]) Get(row, col int) T {
	if pos, ok := m.find(row, col); ok {
		return m.values[pos]
	}
	var zero T
	return zero
}

// Set 设置矩阵元素，不存在时插入
func (m *SparseMatrix[T]) Set(row, col int, value T) {
	pos, ok := m.find(row, col)
	if ok {
		m.values[pos] = value
		return
	}
	m.insertElement(row, col, value, pos)
}

// Increment 增量设置矩阵元素，不存在时插入
func (m *SparseMatrix[T]) Increment(row, col int, value T) {
	pos, ok := m.find(row, col)
	if ok {
		m.values[pos] += value
		return
	}
	m.insertElement(row, col, value, pos)
}

// Zero 清零所有值，保留稀疏结构
func (m *SparseMatrix[T]) Zero() {
	clear(m.values)
}

// Row 获取指定行的列索引与值（直接引用底层数据）
func (m *SparseMatrix[T]) Row(row int) ([]int, []T) {
	if row < 0 || row >= m.rows {
		panic("row index out of range")
	}
	start, end := m.rowPtr[row], m.rowPtr[row+1]
	return m.colInd[start:end], m.values[start:end]
}

// MulVec 矩阵向量乘法 A*x
func (m *SparseMatrix[T]) MulVec(x []T) []T {
	dst := make([]T, m.rows)
	m.MulVecTo(dst, x)
	return dst
}

// MulVecTo 矩阵向量乘法，结果写入dst
func (m *SparseMatrix[T]) MulVecTo(dst, x []T) {
	if len(x) != m.cols || len(dst) != m.rows {
		panic("vector dimension mismatch")
	}
	for i := 0; i < m.rows; i++ {
		var sum T
		for j := m.rowPtr[i]; j < m.rowPtr[i+1]; j++ {
			sum += m.values[j] * x[m.colInd[j]]
		}
		dst[i] = sum
	}
}

// MulVecTrans 转置矩阵向量乘法 A^T*x
func (m *SparseMatrix[T]) MulVecTrans(x []T) []T {
	if len(x) != m.rows {
		panic("vector dimension mismatch")
	}
	dst := make([]T, m.cols)
	for i := 0; i < m.rows; i++ {
		for j := m.rowPtr[i]; j < m.rowPtr[i+1]; j++ {
			dst[m.colInd[j]] += m.values[j] * x[i]
		}
	}
	return dst
}

// Copy 复制矩阵（结构与值）
func (m *SparseMatrix[T]) Copy() *SparseMatrix[T] {
	return &SparseMatrix[T]{
		rows:   m.rows,
		cols:   m.cols,
		rowPtr: append([]int(nil), m.rowPtr...),
		colInd: append([]int(nil), m.colInd...),
		values: append([]T(nil), m.values...),
	}
}

// IsFinite 检查所有元素是否为有限值
func (m *SparseMatrix[T]) IsFinite() bool {
	for _, v := range m.values {
		if !isFinite(v) {
			return false
		}
	}
	return true
}

// MaxAbs 返回元素绝对值最大值
func (m *SparseMatrix[T]) MaxAbs() float64 {
	var mx float64
	for _, v := range m.values {
		mx = max(mx, abs(v))
	}
	return mx
}

// ToDense 转换为稠密矩阵
func (m *SparseMatrix[T]) ToDense() [][]T {
	dense := make([][]T, m.rows)
	for i := range dense {
		dense[i] = make([]T, m.cols)
		for j := m.rowPtr[i]; j < m.rowPtr[i+1]; j++ {
			dense[i][m.colInd[j]] = m.values[j]
		}
	}
	return dense
}

// String 字符串表示
func (m *SparseMatrix[T]) String() string {
	var sb strings.Builder
	for _, row := range m.ToDense() {
		for _, v := range row {
			fmt.Fprintf(&sb, "%10.4v ", v)
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
