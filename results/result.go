package results

import (
	"math"
	"math/cmplx"
	"time"

	"github.com/SanPen/GridCal-sub027/types"
)

// PowerFlowResult 潮流计算结果（全局索引）
type PowerFlowResult struct {
	RunID     string                    `json:"run_id"`     // 计算编号
	Converged bool                      `json:"converged"`  // 所有孤岛均收敛
	Voltage   []complex128              `json:"-"`          // 母线电压(p.u.)
	Sbus      []complex128              `json:"-"`          // 母线注入功率(p.u.)
	Mismatch  []complex128              `json:"-"`          // 母线功率失配(p.u.)
	Sf        []complex128              `json:"-"`          // 支路首端功率
	St        []complex128              `json:"-"`          // 支路末端功率
	If        []complex128              `json:"-"`          // 支路首端电流
	It        []complex128              `json:"-"`          // 支路末端电流
	Loading   []float64                 `json:"loading"`    // 负载率 |Sf|/Rate
	Losses    []complex128              `json:"-"`          // 支路损耗 Sf+St
	TapModule []float64                 `json:"tap_module"` // 变比幅值
	TapAngle  []float64                 `json:"tap_angle"`  // 变比相角
	Beq       []float64                 `json:"beq"`        // 等效电纳
	BusModes  []types.BusMode           `json:"bus_modes"`  // 求解结束时的节点类型
	BusIsland []int                     `json:"bus_island"` // 母线所属孤岛，未求解为 NoIndex
	HvdcP     []float64                 `json:"hvdc_p"`     // 直流线路首端有功
	HvdcLoss  []float64                 `json:"hvdc_loss"`  // 直流线路损耗
	Reports   []types.ConvergenceReport `json:"reports"`    // 按孤岛顺序的收敛报告
	Elapsed   time.Duration             `json:"elapsed"`    // 总耗时
}

// TotalLosses 全网损耗（交流支路 + 直流线路）
func (r *PowerFlowResult) TotalLosses() complex128 {
	var total complex128
	for _, l := range r.Losses {
		total += l
	}
	for _, l := range r.HvdcLoss {
		total += complex(l, 0)
	}
	return total
}

// MaxMismatch 最大母线功率失配（复数模）
func (r *PowerFlowResult) MaxMismatch() float64 {
	var mx float64
	for _, m := range r.Mismatch {
		mx = math.Max(mx, cmplx.Abs(m))
	}
	return mx
}

// VoltageMagnitude 母线电压幅值
func (r *PowerFlowResult) VoltageMagnitude() []float64 {
	vm := make([]float64, len(r.Voltage))
	for i, v := range r.Voltage {
		vm[i] = cmplx.Abs(v)
	}
	return vm
}

// Overloaded 负载率超过1的支路
func (r *PowerFlowResult) Overloaded() []int {
	var idx []int
	for k, l := range r.Loading {
		if l > 1 {
			idx = append(idx, k)
		}
	}
	return idx
}
