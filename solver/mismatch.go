package solver

import (
	"math/cmplx"

	"github.com/SanPen/GridCal-sub027/numerical"
)

// Mismatch 节点功率失配 F = V⊙conj(Ybus·V) − (S0 + I0·|V| + Y0·|V|²)
func (p *Problem) Mismatch() []complex128 {
	f := make([]complex128, len(p.v))
	for i := range f {
		f[i] = p.scalc[i] - p.Specified(i)
	}
	return f
}

// BusMismatch 只保留参与方程的分量：平衡节点为零，PV节点只有有功
func (p *Problem) BusMismatch() []complex128 {
	f := p.Mismatch()
	for _, i := range p.bt.Ref {
		f[i] = 0
	}
	for _, i := range p.bt.Pv {
		f[i] = complex(real(f[i]), 0)
	}
	return f
}

// Residual 失配向量 g = [Re F(pqpv), Im F(pq), 控制方程残差]
func (p *Problem) Residual() []float64 {
	g := make([]float64, p.nVar)
	for _, i := range p.bt.PqPv {
		g[p.pRow[i]] = real(p.scalc[i] - p.Specified(i))
	}
	for _, i := range p.bt.Pq {
		g[p.qRow[i]] = imag(p.scalc[i] - p.Specified(i))
	}
	for k, eq := range p.cs.Equations() {
		g[p.ctrlOff+k] = p.controlResidual(eq)
	}
	return g
}

// branchPower 支路首末端功率
func (p *Problem) branchPower(k int) (sf, st complex128) {
	y := p.adm.Prim[k]
	vf, vt := p.v[p.nc.F[k]], p.v[p.nc.T[k]]
	sf = vf * cmplx.Conj(y.Yff*vf+y.Yft*vt)
	st = vt * cmplx.Conj(y.Ytf*vf+y.Ytt*vt)
	return sf, st
}

// controlResidual 控制方程残差
func (p *Problem) controlResidual(eq numerical.ControlEquation) float64 {
	br := &p.nc.Branches[eq.Branch]
	f, t := p.nc.F[eq.Branch], p.nc.T[eq.Branch]
	sf, st := p.branchPower(eq.Branch)
	switch eq.Kind {
	case numerical.EqVf:
		return p.vm[f] - br.VoltageSetPoint()
	case numerical.EqVt:
		return p.vm[t] - br.VoltageSetPoint()
	case numerical.EqPf:
		return real(sf) - br.Pset
	case numerical.EqQf:
		return imag(sf) - br.Qset
	case numerical.EqQt:
		return imag(st) - br.Qset
	case numerical.EqPfDroop:
		return -real(sf) + br.Pset + br.Kdp*(p.vm[f]-br.VoltageSetPoint())
	}
	return 0
}
