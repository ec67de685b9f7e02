package results

import (
	"math/cmplx"
	"slices"
	"sync"

	"github.com/SanPen/GridCal-sub027/solver"
	"github.com/SanPen/GridCal-sub027/types"
)

// Assembler 将各孤岛结果写入全局数组
// 各孤岛的母线与支路集合互不相交，Scatter 可并发调用
type Assembler struct {
	net     *types.NetworkDescription
	result  *PowerFlowResult
	mu      sync.Mutex
	reports map[int][]types.ConvergenceReport // 孤岛编号 → 报告
	solved  map[int]bool                      // 孤岛编号 → 是否收敛
}

// NewAssembler 按网络规模预分配全局数组
func NewAssembler(net *types.NetworkDescription, runID string) *Assembler {
	nbus, nbr, nhvdc := len(net.Buses), len(net.Branches), len(net.Hvdc)
	r := &PowerFlowResult{
		RunID:     runID,
		Voltage:   make([]complex128, nbus),
		Sbus:      make([]complex128, nbus),
		Mismatch:  make([]complex128, nbus),
		Sf:        make([]complex128, nbr),
		St:        make([]complex128, nbr),
		If:        make([]complex128, nbr),
		It:        make([]complex128, nbr),
		Loading:   make([]float64, nbr),
		Losses:    make([]complex128, nbr),
		TapModule: make([]float64, nbr),
		TapAngle:  make([]float64, nbr),
		Beq:       make([]float64, nbr),
		BusModes:  make([]types.BusMode, nbus),
		BusIsland: make([]int, nbus),
		HvdcP:     make([]float64, nhvdc),
		HvdcLoss:  make([]float64, nhvdc),
	}
	for i := range net.Buses {
		r.BusModes[i] = net.Buses[i].Mode
		r.BusIsland[i] = types.NoIndex
	}
	for k := range net.Branches {
		r.TapModule[k] = net.Branches[k].Module()
		r.TapAngle[k] = net.Branches[k].TapAngle
		r.Beq[k] = net.Branches[k].Beq
	}
	return &Assembler{
		net:     net,
		result:  r,
		reports: map[int][]types.ConvergenceReport{},
		solved:  map[int]bool{},
	}
}

// Scatter 写入一个孤岛的结果
// 未收敛孤岛只记录报告、节点类型与孤岛编号，电压、功率、损耗与负载率保持为零
func (a *Assembler) Scatter(ir *solver.IslandResult) {
	nc := ir.Circuit
	r := a.result
	for i, g := range nc.BusIndex {
		r.BusModes[g] = ir.Modes[i]
		r.BusIsland[g] = nc.Island
	}
	if ir.Converged {
		for i, g := range nc.BusIndex {
			r.Voltage[g] = ir.Voltage[i]
			r.Sbus[g] = ir.Sbus[i]
			r.Mismatch[g] = ir.Mismatch[i]
		}
		for k, g := range nc.BranchIndex {
			r.Sf[g], r.St[g] = ir.Sf[k], ir.St[k]
			r.If[g], r.It[g] = ir.If[k], ir.It[k]
			r.Losses[g] = ir.Sf[k] + ir.St[k]
			r.TapModule[g] = ir.TapModule[k]
			r.TapAngle[g] = ir.TapAngle[k]
			r.Beq[g] = ir.Beq[k]
			if rate := a.net.Branches[g].Rate; rate > 0 {
				r.Loading[g] = cmplx.Abs(ir.Sf[k]) / rate
			}
		}
	}
	a.mu.Lock()
	a.reports[nc.Island] = ir.Reports
	a.solved[nc.Island] = ir.Converged
	a.mu.Unlock()
}

// Cancel 记录被取消而未求解的孤岛
func (a *Assembler) Cancel(island int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reports[island] = []types.ConvergenceReport{{Island: island, Reason: types.ReasonCanceled}}
	a.solved[island] = false
}

// Result 汇总结果，报告按孤岛编号排序
func (a *Assembler) Result() *PowerFlowResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	r := a.result
	islands := make([]int, 0, len(a.reports))
	for is := range a.reports {
		islands = append(islands, is)
	}
	slices.Sort(islands)
	r.Reports = r.Reports[:0]
	r.Converged = true
	for _, is := range islands {
		r.Reports = append(r.Reports, a.reports[is]...)
		r.Converged = r.Converged && a.solved[is]
	}
	for k := range a.net.Hvdc {
		h := &a.net.Hvdc[k]
		if !h.Active {
			continue
		}
		r.HvdcP[k] = h.Pset
		r.HvdcLoss[k] = h.Pset - h.Received()
	}
	return r
}
