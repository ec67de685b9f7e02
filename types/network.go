package types

import (
	"fmt"
	"math"
	"math/cmplx"
)

// NetworkDescription 网络描述，由外部加载器或界面提供
type NetworkDescription struct {
	Name       string      `json:"name" yaml:"name"`
	Buses      []Bus       `json:"buses" yaml:"buses"`
	Branches   []Branch    `json:"branches" yaml:"branches"`
	Injections []Injection `json:"injections" yaml:"injections"`
	Hvdc       []HvdcLine  `json:"hvdc" yaml:"hvdc"`
}

// BusCount 母线数量
func (n *NetworkDescription) BusCount() int { return len(n.Buses) }

// BranchCount 支路数量
func (n *NetworkDescription) BranchCount() int { return len(n.Branches) }

// ActiveBuses 母线投运标记
func (n *NetworkDescription) ActiveBuses() []bool {
	active := make([]bool, len(n.Buses))
	for i := range n.Buses {
		active[i] = n.Buses[i].Active
	}
	return active
}

// Validate 校验网络描述，错误包装 ErrInvalidNetwork
func (n *NetworkDescription) Validate() error {
	nbus := len(n.Buses)
	inRange := func(i int) bool { return i >= 0 && i < nbus }
	for i := range n.Buses {
		b := &n.Buses[i]
		if !finite(b.Vset, b.Angle, b.Qmin, b.Qmax) || cmplx.IsNaN(b.Shunt) || cmplx.IsInf(b.Shunt) {
			return fmt.Errorf("bus %d (%s): non-finite value: %w", i, b.ID, ErrInvalidNetwork)
		}
		if b.Vset < 0 {
			return fmt.Errorf("bus %d (%s): negative voltage set point: %w", i, b.ID, ErrInvalidNetwork)
		}
		if b.Qmin > b.Qmax {
			return fmt.Errorf("bus %d (%s): qmin %g above qmax %g: %w", i, b.ID, b.Qmin, b.Qmax, ErrInvalidNetwork)
		}
		if _, ok := busModeString[b.Mode]; !ok {
			return fmt.Errorf("bus %d (%s): unknown mode %d: %w", i, b.ID, b.Mode, ErrInvalidNetwork)
		}
	}
	for k := range n.Branches {
		br := &n.Branches[k]
		if !inRange(br.From) || !inRange(br.To) {
			return fmt.Errorf("branch %d (%s): bus index out of range: %w", k, br.ID, ErrInvalidNetwork)
		}
		if br.From == br.To {
			return fmt.Errorf("branch %d (%s): from and to bus are equal: %w", k, br.ID, ErrInvalidNetwork)
		}
		if !finite(br.R, br.X, br.G, br.B, br.TapModule, br.TapAngle, br.K2, br.Beq, br.Rate, br.Pset, br.Qset, br.Vset, br.Kdp) {
			return fmt.Errorf("branch %d (%s): non-finite value: %w", k, br.ID, ErrInvalidNetwork)
		}
		if br.TapModule < 0 || br.K2 < 0 {
			return fmt.Errorf("branch %d (%s): negative tap module: %w", k, br.ID, ErrInvalidNetwork)
		}
		if !br.Control.Valid() {
			return fmt.Errorf("branch %d (%s): unknown control mode %d: %w", k, br.ID, br.Control, ErrInvalidNetwork)
		}
	}
	for k := range n.Injections {
		in := &n.Injections[k]
		if !inRange(in.Bus) {
			return fmt.Errorf("injection %d (%s): bus index out of range: %w", k, in.ID, ErrInvalidNetwork)
		}
		if !finite(in.P, in.Q, in.IRe, in.IIm, in.G, in.B, in.Participation) {
			return fmt.Errorf("injection %d (%s): non-finite value: %w", k, in.ID, ErrInvalidNetwork)
		}
	}
	for k := range n.Hvdc {
		h := &n.Hvdc[k]
		if !inRange(h.From) || !inRange(h.To) || h.From == h.To {
			return fmt.Errorf("hvdc %d (%s): invalid terminals: %w", k, h.ID, ErrInvalidNetwork)
		}
		if !finite(h.Pset, h.LossFactor) || h.LossFactor < 0 || h.LossFactor >= 1 {
			return fmt.Errorf("hvdc %d (%s): invalid set point or loss factor: %w", k, h.ID, ErrInvalidNetwork)
		}
	}
	return nil
}

// finite 判断所有数值均为有限值
func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
