package solver

import (
	"math"
	"math/cmplx"

	"github.com/SanPen/GridCal-sub027/types"
)

// 无功限值状态
const (
	qFree  = 0  // 未越限
	qAtMax = 1  // 固定在上限
	qAtMin = -1 // 固定在下限
)

// qLimiter 无功越限控制器状态
type qLimiter struct {
	state []int     // 每个母线的限值状态
	q0    []float64 // 原始给定无功 Im(S0)
	cand  []bool    // 是否参与无功限值检查
}

// newQLimiter 候选母线：分类后的PV节点且给定了限值
// Qmin = Qmax = 0 表示未设定；相等的非零限值即固定无功
func newQLimiter(p *Problem) *qLimiter {
	n := p.nc.NBus()
	lim := &qLimiter{
		state: make([]int, n),
		q0:    make([]float64, n),
		cand:  make([]bool, n),
	}
	for _, i := range p.bt.Pv {
		lim.cand[i] = p.nc.Qmin[i] != 0 || p.nc.Qmax[i] != 0
	}
	for i := range lim.q0 {
		lim.q0[i] = imag(p.s0[i])
	}
	return lim
}

// generation 母线发电无功 Qgen = Im(Scalc − Sload(V))
func (p *Problem) generation(i int) float64 {
	vm := complex(p.vm[i], 0)
	load := p.nc.S0Load[i] + p.i0[i]*vm + p.y0[i]*vm*vm
	return imag(p.scalc[i] - load)
}

// applyQLimits 检查无功限值并切换节点类型，返回切换的母线数量
//
//	PV 且越限：固定无功于限值，转为 PQ
//	PQ 且固定于上限而电压高于设定值（或固定于下限而电压低于设定值）超过 band：恢复 PV
func (p *Problem) applyQLimits(lim *qLimiter, band float64) int {
	changed := 0
	for i, ok := range lim.cand {
		if !ok {
			continue
		}
		vset := p.nc.Vset[i]
		switch lim.state[i] {
		case qFree:
			q := p.generation(i)
			bound, state := 0.0, qFree
			switch {
			case q > p.nc.Qmax[i]:
				bound, state = p.nc.Qmax[i], qAtMax
			case q < p.nc.Qmin[i]:
				bound, state = p.nc.Qmin[i], qAtMin
			default:
				continue
			}
			lim.state[i] = state
			p.s0[i] = complex(real(p.s0[i]), bound+imag(p.nc.S0Load[i]))
			p.bt.SetMode(i, types.BusPQ)
			p.logger.Debug("bus reactive limit reached, switching to PQ",
				"bus", p.nc.BusIndex[i], "q", q, "limit", bound)
			changed++
		case qAtMax, qAtMin:
			vm := p.vm[i]
			if (lim.state[i] == qAtMax && vm > vset+band) || (lim.state[i] == qAtMin && vm < vset-band) {
				lim.state[i] = qFree
				p.s0[i] = complex(real(p.s0[i]), lim.q0[i])
				p.bt.SetMode(i, types.BusPV)
				p.v[i] = cmplx.Rect(vset, p.va[i])
				p.logger.Debug("bus voltage back inside band, switching to PV",
					"bus", p.nc.BusIndex[i], "vm", vm, "vset", vset)
				changed++
			}
		}
	}
	if changed > 0 {
		p.bt.Rebuild()
		p.reindex()
		p.SetVoltage(append([]complex128(nil), p.v...))
	}
	return changed
}

// distributeSlack 将平衡节点的有功失配按参与因子分摊到可控注入
// 返回失配量是否超过容差并已分摊
func (p *Problem) distributeSlack(tol float64) bool {
	if len(p.bt.Ref) == 0 {
		return false
	}
	ref := p.bt.Ref[0]
	dp := real(p.scalc[ref] - p.Specified(ref))
	if math.Abs(dp) < tol {
		return false
	}
	var total float64
	for _, w := range p.nc.Participation {
		total += w
	}
	if total == 0 {
		return false
	}
	for i, w := range p.nc.Participation {
		if w != 0 {
			p.s0[i] += complex(dp*w/total, 0)
		}
	}
	p.logger.Debug("slack imbalance distributed", "island", p.nc.Island, "dp", dp)
	return true
}
