package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDeduplicatesAndSorts(t *testing.T) {
	adj := NewBuilder(4).
		AddElements("line", []Triple{{0, 2, true}, {0, 1, true}, {2, 0, true}}).
		AddElements("switch", []Triple{{1, 0, true}, {3, 3, true}, {1, 3, false}}).
		Build(nil)

	assert.Equal(t, []int{1, 2}, adj.Neighbours(0))
	assert.Equal(t, []int{0}, adj.Neighbours(1))
	assert.Empty(t, adj.Neighbours(3), "self loop and inactive element are ignored")
	assert.Equal(t, 4, adj.Size())
}

func TestBuildSkipsInactiveBuses(t *testing.T) {
	adj := NewBuilder(3).
		AddElements("line", []Triple{{0, 1, true}, {1, 2, true}}).
		Build([]bool{true, false, true})

	assert.Empty(t, adj.Neighbours(0))
	assert.False(t, adj.Active(1))
	islands := adj.Islands()
	require.Len(t, islands, 3)
	assert.False(t, islands[1].Active)
}

// TestIslandsTwoSubnetworks 两个互不相连的子网络形成两个岛
func TestIslandsTwoSubnetworks(t *testing.T) {
	lines := []Triple{{0, 3, true}, {3, 5, true}, {1, 2, true}, {2, 4, true}}
	islands := FindIslands(6, nil, lines)
	require.Len(t, islands, 2)

	assert.Equal(t, []int{0, 3, 5}, islands[0].Buses)
	assert.Equal(t, []int{1, 2, 4}, islands[1].Buses)
	assert.Equal(t, 1, islands[1].Index)

	// 覆盖所有母线且互不相交
	seen := map[int]int{}
	for _, is := range islands {
		for _, b := range is.Buses {
			seen[b]++
		}
	}
	assert.Len(t, seen, 6)
	for b, c := range seen {
		assert.Equal(t, 1, c, "bus %d", b)
	}
}

func TestIslandsLongChain(t *testing.T) {
	// 长链不会因递归深度失败
	const n = 100000
	lines := make([]Triple, n-1)
	for i := range lines {
		lines[i] = Triple{i, i + 1, true}
	}
	islands := FindIslands(n, nil, lines)
	require.Len(t, islands, 1)
	assert.Equal(t, n, islands[0].Size())
}

// TestElementGroups 同一类别多次添加时连接累加
func TestElementGroups(t *testing.T) {
	adj := NewBuilder(3).
		AddElements("line", []Triple{{0, 1, true}}).
		AddElements("trafo", nil).
		AddElements("line", []Triple{{1, 2, true}}).
		Build(nil)
	assert.Equal(t, []int{0, 2}, adj.Neighbours(1))
	require.Len(t, adj.Islands(), 1)
}
