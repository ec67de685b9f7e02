// Package cases 提供小型参考网络，用于测试与演示
package cases

import (
	"fmt"
	"sort"

	"github.com/SanPen/GridCal-sub027/types"
)

// registry 名称 → 构造函数
var registry = map[string]func() *types.NetworkDescription{
	"two-bus":          TwoBus,
	"pv-qlimit":        PVQLimit,
	"zero-impedance":   ZeroImpedance,
	"two-islands":      TwoIslands,
	"five-bus":         FiveBus,
	"controlled-trafo": ControlledTransformer,
	"phase-shifter":    PhaseShifter,
	"hvdc":             Hvdc,
}

// Names 可用的参考网络名称
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Get 按名称获取参考网络
func Get(name string) (*types.NetworkDescription, error) {
	build, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown case %q (available: %v)", name, Names())
	}
	return build(), nil
}

func slack(id string) types.Bus {
	return types.Bus{ID: id, Vnom: 110, Mode: types.BusSlack, Active: true, Vset: 1.0}
}

func pq(id string) types.Bus {
	return types.Bus{ID: id, Vnom: 110, Mode: types.BusPQ, Active: true}
}

func pv(id string, vset, qmin, qmax float64) types.Bus {
	return types.Bus{ID: id, Vnom: 110, Mode: types.BusPV, Active: true, Vset: vset, Qmin: qmin, Qmax: qmax}
}

func line(id string, from, to int, r, x, b float64) types.Branch {
	return types.Branch{ID: id, From: from, To: to, R: r, X: x, B: b, Rate: 1, Active: true, Monitor: true}
}

func load(id string, bus int, p, q float64) types.Injection {
	return types.Injection{ID: id, Bus: bus, P: -p, Q: -q, Active: true}
}

func gen(id string, bus int, p float64) types.Injection {
	return types.Injection{ID: id, Bus: bus, P: p, Active: true, Controllable: true}
}

// TwoBus 平衡节点 1.0∠0 经 R=0.01、X=0.05 线路向 PQ 负荷 0.5+j0.2 供电
func TwoBus() *types.NetworkDescription {
	return &types.NetworkDescription{
		Name:       "two-bus",
		Buses:      []types.Bus{slack("A"), pq("B")},
		Branches:   []types.Branch{line("A-B", 0, 1, 0.01, 0.05, 0)},
		Injections: []types.Injection{load("load-B", 1, 0.5, 0.2)},
	}
}

// PVQLimit PV 母线（Vset=1.0，Qmax=0.3）带 0.5 无功负荷，发电有功为零
func PVQLimit() *types.NetworkDescription {
	return &types.NetworkDescription{
		Name:     "pv-qlimit",
		Buses:    []types.Bus{slack("A"), pv("B", 1.0, -0.3, 0.3)},
		Branches: []types.Branch{line("A-B", 0, 1, 0.01, 0.1, 0)},
		Injections: []types.Injection{
			load("load-B", 1, 0, 0.5),
			gen("gen-B", 1, 0),
		},
	}
}

// ZeroImpedance 含 R=X=0 的母联开关，另有并联通路
func ZeroImpedance() *types.NetworkDescription {
	coupler := types.Branch{ID: "coupler", From: 1, To: 2, Kind: types.KindSwitch, Active: true}
	return &types.NetworkDescription{
		Name:  "zero-impedance",
		Buses: []types.Bus{slack("A"), pq("B1"), pq("B2")},
		Branches: []types.Branch{
			line("A-B1", 0, 1, 0.01, 0.05, 0.01),
			line("A-B2", 0, 2, 0.02, 0.08, 0.01),
			coupler,
		},
		Injections: []types.Injection{
			load("load-B1", 1, 0.3, 0.1),
			load("load-B2", 2, 0.2, 0.05),
		},
	}
}

// TwoIslands 两个互不相连的两母线系统
func TwoIslands() *types.NetworkDescription {
	return &types.NetworkDescription{
		Name:  "two-islands",
		Buses: []types.Bus{slack("A1"), slack("A2"), pq("B1"), pq("B2")},
		Branches: []types.Branch{
			line("A1-B1", 0, 2, 0.01, 0.05, 0),
			line("A2-B2", 1, 3, 0.02, 0.06, 0),
		},
		Injections: []types.Injection{
			load("load-B1", 2, 0.5, 0.2),
			load("load-B2", 3, 0.3, 0.1),
		},
	}
}

// FiveBus 五母线环网，两台PV发电机
func FiveBus() *types.NetworkDescription {
	buses := []types.Bus{
		slack("N1"),
		pv("N2", 1.02, -0.5, 0.8),
		pq("N3"),
		pv("N4", 1.01, -0.4, 0.6),
		pq("N5"),
	}
	buses[0].Vset = 1.04
	return &types.NetworkDescription{
		Name:  "five-bus",
		Buses: buses,
		Branches: []types.Branch{
			line("L12", 0, 1, 0.02, 0.06, 0.06),
			line("L13", 0, 2, 0.08, 0.24, 0.05),
			line("L23", 1, 2, 0.06, 0.18, 0.04),
			line("L24", 1, 3, 0.06, 0.18, 0.04),
			line("L25", 1, 4, 0.04, 0.12, 0.03),
			line("L34", 2, 3, 0.01, 0.03, 0.02),
			line("L45", 3, 4, 0.08, 0.24, 0.05),
		},
		Injections: []types.Injection{
			gen("G1", 0, 0.6),
			gen("G2", 1, 0.4),
			gen("G4", 3, 0.3),
			load("D2", 1, 0.2, 0.1),
			load("D3", 2, 0.45, 0.15),
			load("D4", 3, 0.4, 0.05),
			load("D5", 4, 0.6, 0.1),
		},
	}
}

// ControlledTransformer 调压变压器控制末端母线电压为 1.0
func ControlledTransformer() *types.NetworkDescription {
	trafo := types.Branch{
		ID: "T12", From: 1, To: 2, R: 0.002, X: 0.08, TapModule: 1,
		Kind: types.KindTransformer, Control: types.ControlVt, Vset: 1.0,
		Rate: 1, Active: true,
	}
	return &types.NetworkDescription{
		Name:     "controlled-trafo",
		Buses:    []types.Bus{slack("A"), pq("B"), pq("C")},
		Branches: []types.Branch{line("A-B", 0, 1, 0.01, 0.05, 0.02), trafo},
		Injections: []types.Injection{
			load("load-C", 2, 0.6, 0.3),
		},
	}
}

// PhaseShifter 移相变压器控制首端有功，与线路并联
func PhaseShifter() *types.NetworkDescription {
	pst := types.Branch{
		ID: "PST", From: 0, To: 1, R: 0.005, X: 0.1, TapModule: 1,
		Kind: types.KindTransformer, Control: types.ControlPf, Pset: 0.3,
		Rate: 1, Active: true,
	}
	return &types.NetworkDescription{
		Name:     "phase-shifter",
		Buses:    []types.Bus{slack("A"), pq("B")},
		Branches: []types.Branch{line("A-B", 0, 1, 0.01, 0.1, 0), pst},
		Injections: []types.Injection{
			load("load-B", 1, 0.8, 0.2),
		},
	}
}

// Hvdc 两个交流系统经直流线路相连，直流不合并交流孤岛
func Hvdc() *types.NetworkDescription {
	net := TwoIslands()
	net.Name = "hvdc"
	net.Hvdc = []types.HvdcLine{{ID: "DC", From: 2, To: 3, Pset: 0.1, LossFactor: 0.02, Active: true}}
	return net
}
