package solver

import (
	"log/slog"
	"math"
	"math/cmplx"

	"github.com/SanPen/GridCal-sub027/maths"
	"github.com/SanPen/GridCal-sub027/numerical"
	"github.com/SanPen/GridCal-sub027/types"
)

// Problem 一个电气岛的潮流问题
// 持有求解过程中全部可变状态，编译结果 NumericalCircuit 保持不变
type Problem struct {
	nc     *numerical.NumericalCircuit
	bt     *numerical.BusTypes
	cs     *numerical.ControlSet
	adm    *numerical.Admittances
	logger *slog.Logger

	// 给定注入（无功越限、分布式平衡会修改 s0）
	s0, i0, y0 []complex128

	// 状态
	va, vm        []float64
	v             []complex128
	m, theta, beq []float64
	scalc         []complex128
	jac           *maths.SparseMatrix[float64]
	vaPos, vmPos  []int // 母线 → 未知量列
	pRow, qRow    []int // 母线 → 方程行
	nVar, nBusEq  int
	ctrlOff       int  // 控制变量起始列
	dropped       bool // 已记录丢弃的控制方程
}

// NewProblem 创建潮流问题，初始为平启动
func NewProblem(nc *numerical.NumericalCircuit, bt *numerical.BusTypes, logger *slog.Logger) *Problem {
	if logger == nil {
		logger = slog.Default()
	}
	n := nc.NBus()
	p := &Problem{
		nc:     nc,
		bt:     bt,
		adm:    nc.Admittances(),
		logger: logger,
		s0:     append([]complex128(nil), nc.S0...),
		i0:     append([]complex128(nil), nc.I0...),
		y0:     append([]complex128(nil), nc.Y0...),
		va:     make([]float64, n),
		vm:     make([]float64, n),
		m:      append([]float64(nil), nc.TapModule...),
		theta:  append([]float64(nil), nc.TapAngle...),
		beq:    append([]float64(nil), nc.Beq...),
	}
	p.SetVoltage(nc.InitialVoltage(bt))
	p.reindex()
	return p
}

// reindex 节点类型或控制方程变化后重建未知量与方程索引
func (p *Problem) reindex() {
	p.cs = numerical.NewControlSet(p.nc, p.bt)
	if !p.dropped && len(p.cs.Dropped) > 0 {
		p.dropped = true
		for _, eq := range p.cs.Dropped {
			p.logger.Warn("control equation dropped, controlled bus is not PQ",
				"island", p.nc.Island,
				"branch", p.nc.BranchIndex[eq.Branch],
				"equation", eq.Kind.String())
		}
	}
	n := p.nc.NBus()
	p.vaPos, p.vmPos = fill(n, types.NoIndex), fill(n, types.NoIndex)
	p.pRow, p.qRow = fill(n, types.NoIndex), fill(n, types.NoIndex)
	for k, i := range p.bt.PqPv {
		p.vaPos[i], p.pRow[i] = k, k
	}
	off := len(p.bt.PqPv)
	for k, i := range p.bt.Pq {
		p.vmPos[i], p.qRow[i] = off+k, off+k
	}
	p.nBusEq = off + len(p.bt.Pq)
	p.ctrlOff = p.nBusEq
	p.nVar = p.nBusEq + p.cs.Len()
	p.jac = nil // 结构改变
}

func fill(n, v int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = v
	}
	return s
}

// Dim 未知量个数（与方程个数相同）
func (p *Problem) Dim() int { return p.nVar }

// Circuit 数值模型
func (p *Problem) Circuit() *numerical.NumericalCircuit { return p.nc }

// BusTypes 当前节点分类
func (p *Problem) BusTypes() *numerical.BusTypes { return p.bt }

// Controls 当前控制方程
func (p *Problem) Controls() *numerical.ControlSet { return p.cs }

// Voltage 当前复数电压
func (p *Problem) Voltage() []complex128 { return p.v }

// SetVoltage 设置电压并更新注入功率
func (p *Problem) SetVoltage(v []complex128) {
	p.v = append(p.v[:0], v...)
	for i, x := range v {
		p.vm[i], p.va[i] = cmplx.Abs(x), cmplx.Phase(x)
	}
	p.scalc = p.adm.Injections(p.v)
}

// X 打包未知量 x = [Va(pqpv), Vm(pq), m, θ, Beq]
func (p *Problem) X() []float64 {
	x := make([]float64, p.nVar)
	for _, i := range p.bt.PqPv {
		x[p.vaPos[i]] = p.va[i]
	}
	for _, i := range p.bt.Pq {
		x[p.vmPos[i]] = p.vm[i]
	}
	for k, eq := range p.cs.Equations() {
		x[p.ctrlOff+k] = *p.variable(eq)
	}
	return x
}

// variable 控制方程对应的状态变量
func (p *Problem) variable(eq numerical.ControlEquation) *float64 {
	switch eq.Var {
	case numerical.VarModule:
		return &p.m[eq.Branch]
	case numerical.VarAngle:
		return &p.theta[eq.Branch]
	default:
		return &p.beq[eq.Branch]
	}
}

// Update 写入未知量并重新计算电压、导纳与注入功率
func (p *Problem) Update(x []float64) {
	for _, i := range p.bt.PqPv {
		p.va[i] = x[p.vaPos[i]]
	}
	for _, i := range p.bt.Pq {
		p.vm[i] = x[p.vmPos[i]]
	}
	for i := range p.v {
		p.v[i] = complex(p.vm[i]*math.Cos(p.va[i]), p.vm[i]*math.Sin(p.va[i]))
	}
	if p.cs.Len() > 0 {
		for k, eq := range p.cs.Equations() {
			*p.variable(eq) = x[p.ctrlOff+k]
		}
		p.adm.Refill(p.m, p.theta, p.beq)
	}
	p.scalc = p.adm.Injections(p.v)
}

// state 可恢复的求解状态
type state struct {
	v             []complex128
	s0            []complex128
	m, theta, beq []float64
	types         []types.BusMode
}

// snapshot 保存当前状态，供备用算法从同一初值出发
func (p *Problem) snapshot() state {
	return state{
		v:     append([]complex128(nil), p.v...),
		s0:    append([]complex128(nil), p.s0...),
		m:     append([]float64(nil), p.m...),
		theta: append([]float64(nil), p.theta...),
		beq:   append([]float64(nil), p.beq...),
		types: append([]types.BusMode(nil), p.bt.Types...),
	}
}

// restore 恢复状态
func (p *Problem) restore(s state) {
	copy(p.s0, s.s0)
	copy(p.m, s.m)
	copy(p.theta, s.theta)
	copy(p.beq, s.beq)
	changed := false
	for i, t := range s.types {
		if p.bt.Types[i] != t {
			p.bt.SetMode(i, t)
			changed = true
		}
	}
	if changed {
		p.bt.Rebuild()
		p.reindex()
	}
	p.adm.Refill(p.m, p.theta, p.beq)
	p.SetVoltage(s.v)
}

// Specified 给定注入 Sspec = S0 + I0·|V| + Y0·|V|²
func (p *Problem) Specified(i int) complex128 {
	vm := complex(p.vm[i], 0)
	return p.s0[i] + p.i0[i]*vm + p.y0[i]*vm*vm
}

// Flows 当前支路功率与电流
func (p *Problem) Flows() (sf, st, cf, ct []complex128) {
	return p.adm.Flows(p.v)
}
