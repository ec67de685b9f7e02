package graph

import "sort"

// Island 电气岛：互相连通的母线集合
type Island struct {
	Index  int   // 岛序号
	Buses  []int // 全局母线索引（升序）
	Active bool  // 是否为投运母线构成的岛
}

// Size 岛内母线数量
func (is Island) Size() int { return len(is.Buses) }

// Islands 计算连通分量
// 使用显式栈的深度优先搜索，每条母线仅访问一次，复杂度 O(V+E)。
// 结果按各岛最小母线索引排序；停运或孤立母线各自成为单母线岛。
func (a *Adjacency) Islands() []Island {
	n := a.Size()
	visited := make([]bool, n)
	stack := make([]int, 0, n)
	var islands []Island
	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}
		visited[start] = true
		stack = append(stack[:0], start)
		buses := []int{}
		for len(stack) > 0 {
			bus := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			buses = append(buses, bus)
			for _, nb := range a.Neighbours(bus) {
				if !visited[nb] {
					visited[nb] = true
					stack = append(stack, nb)
				}
			}
		}
		sort.Ints(buses)
		islands = append(islands, Island{
			Index:  len(islands),
			Buses:  buses,
			Active: a.Active(start),
		})
	}
	return islands
}

// FindIslands 一步完成邻接构造与岛划分
func FindIslands(nbus int, active []bool, triples ...[]Triple) []Island {
	b := NewBuilder(nbus)
	for _, t := range triples {
		b.AddElements("branch", t)
	}
	return b.Build(active).Islands()
}
