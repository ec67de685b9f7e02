package graph

import "sort"

// Triple 支路连接（起点, 终点, 是否投运）
type Triple struct {
	From, To int
	Active   bool
}

// Builder 母线邻接关系构造器
// 按元件类别（线路、变压器、开关、直流等）分组收集连接
type Builder struct {
	nbus   int
	groups map[string][]Triple
	order  []string // 类别插入顺序
}

// NewBuilder 创建邻接构造器
func NewBuilder(nbus int) *Builder {
	return &Builder{nbus: nbus, groups: map[string][]Triple{}}
}

// AddElements 添加一类元件的连接
func (b *Builder) AddElements(kind string, triples []Triple) *Builder {
	if _, ok := b.groups[kind]; !ok {
		b.order = append(b.order, kind)
	}
	b.groups[kind] = append(b.groups[kind], triples...)
	return b
}

// Build 生成CSR格式的母线-母线邻接矩阵
// 停运元件、停运母线、越界索引与自环均被忽略；邻居有序且去重
func (b *Builder) Build(active []bool) *Adjacency {
	isActive := func(i int) bool {
		return i >= 0 && i < b.nbus && (active == nil || active[i])
	}
	neighbours := make([][]int, b.nbus)
	for _, kind := range b.order {
		for _, t := range b.groups[kind] {
			if !t.Active || t.From == t.To || !isActive(t.From) || !isActive(t.To) {
				continue
			}
			neighbours[t.From] = append(neighbours[t.From], t.To)
			neighbours[t.To] = append(neighbours[t.To], t.From)
		}
	}
	adj := &Adjacency{
		rowPtr: make([]int, b.nbus+1),
		active: make([]bool, b.nbus),
	}
	for i := 0; i < b.nbus; i++ {
		adj.active[i] = isActive(i)
		row := neighbours[i]
		sort.Ints(row)
		for k, j := range row {
			if k > 0 && row[k-1] == j {
				continue
			}
			adj.colInd = append(adj.colInd, j)
		}
		adj.rowPtr[i+1] = len(adj.colInd)
	}
	return adj
}

// Adjacency 母线邻接关系（CSR压缩存储）
type Adjacency struct {
	rowPtr []int
	colInd []int
	active []bool
}

// Size 母线数量
func (a *Adjacency) Size() int { return len(a.active) }

// Neighbours 母线的相邻母线（有序）
func (a *Adjacency) Neighbours(bus int) []int {
	return a.colInd[a.rowPtr[bus]:a.rowPtr[bus+1]]
}

// Active 母线是否投运
func (a *Adjacency) Active(bus int) bool { return a.active[bus] }
