package numerical

import "github.com/SanPen/GridCal-sub027/types"

// EquationKind 控制方程类型
type EquationKind int

// 控制方程类型常量定义
const (
	EqVf      EquationKind = iota // |Vf| - Vset
	EqVt                          // |Vt| - Vset
	EqPf                          // Pf - Pset
	EqQf                          // Qf - Qset
	EqQt                          // Qt - Qset
	EqPfDroop                     // -Pf + Pset + Kdp·(|Vf| - Vset)
)

var equationKindString = [...]string{"Vf", "Vt", "Pf", "Qf", "Qt", "PfDroop"}

func (k EquationKind) String() string { return equationKindString[k] }

// Variable 控制变量类型
type Variable int

// 控制变量类型常量定义
const (
	VarModule Variable = iota // 变比幅值 m
	VarAngle                  // 变比相角 θ
	VarBeq                    // 等效电纳 Beq
)

// ControlEquation 一个控制方程及其对应的自由变量
type ControlEquation struct {
	Branch int          // 局部支路索引
	Kind   EquationKind // 方程类型
	Var    Variable     // 自由变量
}

// Voltage 是否为电压幅值方程
func (e ControlEquation) Voltage() bool {
	return e.Kind == EqVf || e.Kind == EqVt
}

// controlTable 控制方式 → 方程表
// Beq 调节 Qf 或 |Vf|，m 调节 Qt 或 |Vt|，θ 调节 Pf 或下垂
var controlTable = map[types.ControlMode][]ControlEquation{
	types.ControlFixed:   nil,
	types.ControlVf:      {{Kind: EqVf, Var: VarBeq}},
	types.ControlVt:      {{Kind: EqVt, Var: VarModule}},
	types.ControlPf:      {{Kind: EqPf, Var: VarAngle}},
	types.ControlQf:      {{Kind: EqQf, Var: VarBeq}},
	types.ControlQt:      {{Kind: EqQt, Var: VarModule}},
	types.ControlPfDroop: {{Kind: EqPfDroop, Var: VarAngle}},
	types.ControlPfVt:    {{Kind: EqPf, Var: VarAngle}, {Kind: EqVt, Var: VarModule}},
	types.ControlPfQt:    {{Kind: EqPf, Var: VarAngle}, {Kind: EqQt, Var: VarModule}},
}

// ControlSet 控制方程集合
// 方程按变量分组（m、θ、Beq），组内按支路顺序，方程与变量一一对应
type ControlSet struct {
	Module  []ControlEquation // 以 m 为变量的方程
	Angle   []ControlEquation // 以 θ 为变量的方程
	Beq     []ControlEquation // 以 Beq 为变量的方程
	Dropped []ControlEquation // 被控母线不是PQ节点而丢弃的电压方程
}

// NewControlSet 根据支路控制方式与节点类型建立控制方程
func NewControlSet(nc *NumericalCircuit, bt *BusTypes) *ControlSet {
	cs := &ControlSet{}
	for k := range nc.Branches {
		for _, eq := range controlTable[nc.Branches[k].Control] {
			eq.Branch = k
			if eq.Voltage() && bt.Types[cs.controlledBus(nc, eq)] != types.BusPQ {
				cs.Dropped = append(cs.Dropped, eq)
				continue
			}
			switch eq.Var {
			case VarModule:
				cs.Module = append(cs.Module, eq)
			case VarAngle:
				cs.Angle = append(cs.Angle, eq)
			case VarBeq:
				cs.Beq = append(cs.Beq, eq)
			}
		}
	}
	return cs
}

// controlledBus 电压方程控制的母线
func (cs *ControlSet) controlledBus(nc *NumericalCircuit, eq ControlEquation) int {
	if eq.Kind == EqVf {
		return nc.F[eq.Branch]
	}
	return nc.T[eq.Branch]
}

// Len 控制方程总数
func (cs *ControlSet) Len() int {
	return len(cs.Module) + len(cs.Angle) + len(cs.Beq)
}

// Equations 按未知量顺序排列的全部方程
func (cs *ControlSet) Equations() []ControlEquation {
	eqs := make([]ControlEquation, 0, cs.Len())
	eqs = append(eqs, cs.Module...)
	eqs = append(eqs, cs.Angle...)
	return append(eqs, cs.Beq...)
}
