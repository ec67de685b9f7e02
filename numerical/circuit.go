package numerical

import (
	"math"

	"github.com/SanPen/GridCal-sub027/graph"
	"github.com/SanPen/GridCal-sub027/types"
)

// NumericalCircuit 单个电气岛的数值模型
// 编译后不可修改，求解过程中的可变状态由求解器持有
type NumericalCircuit struct {
	Island int    // 孤岛编号
	Name   string // 网络名称

	// 局部 ↔ 全局索引
	BusIndex    []int // 局部母线 → 全局母线
	BranchIndex []int // 局部支路 → 全局支路
	HvdcIndex   []int // 与本岛相关的直流线路（全局索引）
	busLocal    map[int]int

	// 母线数据
	Modes []types.BusMode // 请求的节点类型
	Vset  []float64       // 电压幅值设定值
	Angle []float64       // 平衡节点相角
	Qmin  []float64
	Qmax  []float64
	Shunt []complex128 // 母线对地导纳

	// 支路数据
	Branches  []types.Branch // 支路参数副本
	F, T      []int          // 局部首末端母线
	TapModule []float64      // 初始变比幅值
	TapAngle  []float64      // 初始变比相角
	Beq       []float64      // 初始等效电纳

	// ZIP 注入
	S0            []complex128 // 恒功率
	I0            []complex128 // 恒电流
	Y0            []complex128 // 恒阻抗
	S0Load        []complex128 // 恒功率中不可控部分（负荷、直流注入）
	Participation []float64    // 分布式平衡参与因子

	adm *Admittances // 初始导纳矩阵
}

// NBus 母线数量
func (nc *NumericalCircuit) NBus() int { return len(nc.BusIndex) }

// NBranch 支路数量
func (nc *NumericalCircuit) NBranch() int { return len(nc.BranchIndex) }

// Local 全局母线索引转换为局部索引
func (nc *NumericalCircuit) Local(bus int) (int, bool) {
	i, ok := nc.busLocal[bus]
	return i, ok
}

// Admittances 返回初始导纳矩阵的独立副本
func (nc *NumericalCircuit) Admittances() *Admittances {
	return nc.adm.Copy()
}

// Compile 为一个电气岛编译数值模型
func Compile(net *types.NetworkDescription, island graph.Island) *NumericalCircuit {
	nb := len(island.Buses)
	nc := &NumericalCircuit{
		Island:   island.Index,
		Name:     net.Name,
		BusIndex: append([]int(nil), island.Buses...),
		busLocal: make(map[int]int, nb),
		Modes:    make([]types.BusMode, nb),
		Vset:     make([]float64, nb),
		Angle:    make([]float64, nb),
		Qmin:     make([]float64, nb),
		Qmax:     make([]float64, nb),
		Shunt:    make([]complex128, nb),
		S0:       make([]complex128, nb),
		I0:       make([]complex128, nb),
		Y0:       make([]complex128, nb),
		S0Load:   make([]complex128, nb),

		Participation: make([]float64, nb),
	}
	for i, g := range island.Buses {
		nc.busLocal[g] = i
		b := &net.Buses[g]
		nc.Modes[i] = b.Mode
		nc.Vset[i] = b.SetPoint()
		nc.Angle[i] = b.Angle
		nc.Qmin[i], nc.Qmax[i] = b.Qmin, b.Qmax
		nc.Shunt[i] = b.Shunt
	}

	// 支路：投运且两端均在本岛
	for k := range net.Branches {
		br := net.Branches[k]
		f, okF := nc.busLocal[br.From]
		t, okT := nc.busLocal[br.To]
		if !br.Active || !okF || !okT {
			continue
		}
		nc.BranchIndex = append(nc.BranchIndex, k)
		nc.Branches = append(nc.Branches, br)
		nc.F = append(nc.F, f)
		nc.T = append(nc.T, t)
		nc.TapModule = append(nc.TapModule, br.Module())
		nc.TapAngle = append(nc.TapAngle, br.TapAngle)
		nc.Beq = append(nc.Beq, br.Beq)
	}

	// ZIP 注入
	fallback := make([]float64, nb)
	for k := range net.Injections {
		in := &net.Injections[k]
		i, ok := nc.busLocal[in.Bus]
		if !in.Active || !ok {
			continue
		}
		nc.S0[i] += in.Power()
		nc.I0[i] += in.Current()
		nc.Y0[i] += in.Admittance()
		if !in.Controllable {
			nc.S0Load[i] += in.Power()
			continue
		}
		nc.Participation[i] += in.Participation
		fallback[i] += math.Abs(in.P)
	}
	if sum(nc.Participation) == 0 {
		copy(nc.Participation, fallback)
	}

	// 直流线路按功率注入处理
	for k := range net.Hvdc {
		h := &net.Hvdc[k]
		if !h.Active {
			continue
		}
		f, okF := nc.busLocal[h.From]
		t, okT := nc.busLocal[h.To]
		if okF {
			nc.S0[f] -= complex(h.Pset, 0)
			nc.S0Load[f] -= complex(h.Pset, 0)
		}
		if okT {
			nc.S0[t] += complex(h.Received(), 0)
			nc.S0Load[t] += complex(h.Received(), 0)
		}
		if okF || okT {
			nc.HvdcIndex = append(nc.HvdcIndex, k)
		}
	}

	nc.adm = newAdmittances(nc)
	return nc
}

// InitialVoltage 平启动电压：PV/平衡节点取设定幅值，相角取平衡节点相角
func (nc *NumericalCircuit) InitialVoltage(bt *BusTypes) []complex128 {
	angle := 0.0
	if len(bt.Ref) > 0 {
		angle = nc.Angle[bt.Ref[0]]
	}
	v := make([]complex128, nc.NBus())
	for i := range v {
		vm := 1.0
		if bt.Types[i] != types.BusPQ {
			vm = nc.Vset[i]
		}
		v[i] = polar(vm, angle)
	}
	return v
}

func sum(x []float64) float64 {
	var s float64
	for _, v := range x {
		s += v
	}
	return s
}
