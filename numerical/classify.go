package numerical

import (
	"fmt"

	"github.com/SanPen/GridCal-sub027/types"
)

// BusTypes 节点分类结果
// Ref、Pq、Pv、PqPv 均为升序且互不相交（PqPv 为 Pq 与 Pv 的并集）
type BusTypes struct {
	Types []types.BusMode // 每个母线的实际类型
	Ref   []int           // 平衡节点
	Pq    []int           // PQ节点
	Pv    []int           // PV节点
	PqPv  []int           // PQ+PV节点
}

// Classify 根据请求类型与注入功率确定节点类型
//
//   - 多个平衡节点：索引最小者保留，其余转为PV
//   - 无平衡节点：有功注入最大的PV节点升级为平衡节点（并列取索引最小者）
//   - 既无平衡节点也无PV节点：返回 ErrTopology
func Classify(modes []types.BusMode, s0 []complex128) (*BusTypes, error) {
	bt := &BusTypes{Types: append([]types.BusMode(nil), modes...)}
	ref := -1
	for i, m := range bt.Types {
		if m != types.BusSlack {
			continue
		}
		if ref < 0 {
			ref = i
			continue
		}
		bt.Types[i] = types.BusPV
	}
	if ref < 0 {
		best := -1
		for i, m := range bt.Types {
			if m == types.BusPV && (best < 0 || real(s0[i]) > real(s0[best])) {
				best = i
			}
		}
		if best < 0 {
			return nil, fmt.Errorf("%d buses without slack or pv: %w", len(modes), types.ErrTopology)
		}
		bt.Types[best] = types.BusSlack
	}
	bt.Rebuild()
	return bt, nil
}

// SetMode 修改母线类型，需随后调用 Rebuild
func (bt *BusTypes) SetMode(i int, mode types.BusMode) {
	bt.Types[i] = mode
}

// Rebuild 重建索引集合
func (bt *BusTypes) Rebuild() {
	bt.Ref, bt.Pq, bt.Pv, bt.PqPv = bt.Ref[:0], bt.Pq[:0], bt.Pv[:0], bt.PqPv[:0]
	for i, m := range bt.Types {
		switch m {
		case types.BusSlack:
			bt.Ref = append(bt.Ref, i)
		case types.BusPV:
			bt.Pv = append(bt.Pv, i)
			bt.PqPv = append(bt.PqPv, i)
		default:
			bt.Pq = append(bt.Pq, i)
			bt.PqPv = append(bt.PqPv, i)
		}
	}
}

// Copy 深拷贝
func (bt *BusTypes) Copy() *BusTypes {
	c := &BusTypes{Types: append([]types.BusMode(nil), bt.Types...)}
	c.Rebuild()
	return c
}

// Trivial 无需迭代求解（仅有平衡节点）
func (bt *BusTypes) Trivial() bool {
	return len(bt.PqPv) == 0
}
