package solver

import (
	"math/cmplx"

	"github.com/SanPen/GridCal-sub027/maths"
	"github.com/SanPen/GridCal-sub027/numerical"
)

// flowGrad 支路功率对两端电压的偏导
type flowGrad struct {
	vaf, vat, vmf, vmt complex128
}

// Jacobian 计算雅可比矩阵 ∂g/∂x
// 稀疏结构由首次填充确定（拓扑与控制方程），之后只清零重填数值
func (p *Problem) Jacobian() *maths.SparseMatrix[float64] {
	if p.jac == nil {
		p.jac = maths.NewSparseMatrix[float64](p.nVar, p.nVar)
	} else {
		p.jac.Zero()
	}
	ybus := p.adm.Ybus
	ibus := ybus.MulVec(p.v)

	// 节点功率方程对电压的偏导
	for _, i := range p.bt.PqPv {
		vi := p.v[i]
		cols, vals := ybus.Row(i)
		for c, k := range cols {
			yv := vals[c] * p.v[k]
			dVa := 1i * vi * cmplx.Conj(-yv)
			dVm := vi * cmplx.Conj(yv/complex(p.vm[k], 0))
			if k == i {
				vm := complex(p.vm[i], 0)
				dVa += 1i * vi * cmplx.Conj(ibus[i])
				dVm += cmplx.Conj(ibus[i]) * vi / vm
				dVm -= p.i0[i] + 2*p.y0[i]*vm // ZIP 负荷
			}
			p.stampBus(i, k, dVa, dVm)
		}
	}

	eqs := p.cs.Equations()
	// 节点功率方程对控制变量的偏导
	for c, eq := range eqs {
		col := p.ctrlOff + c
		dsf, dst := p.branchVarGrad(eq.Branch, eq.Var)
		p.stampBusVar(p.nc.F[eq.Branch], col, dsf)
		p.stampBusVar(p.nc.T[eq.Branch], col, dst)
	}

	// 控制方程
	for r, eq := range eqs {
		p.stampControl(p.ctrlOff+r, eq, eqs)
	}
	return p.jac
}

// stampBus 写入母线i功率对母线k电压的偏导
func (p *Problem) stampBus(i, k int, dVa, dVm complex128) {
	if col := p.vaPos[k]; col >= 0 {
		p.jac.Increment(p.pRow[i], col, real(dVa))
		if row := p.qRow[i]; row >= 0 {
			p.jac.Increment(row, col, imag(dVa))
		}
	}
	if col := p.vmPos[k]; col >= 0 {
		p.jac.Increment(p.pRow[i], col, real(dVm))
		if row := p.qRow[i]; row >= 0 {
			p.jac.Increment(row, col, imag(dVm))
		}
	}
}

// stampBusVar 写入母线功率对控制变量的偏导
func (p *Problem) stampBusVar(bus, col int, ds complex128) {
	if row := p.pRow[bus]; row >= 0 {
		p.jac.Increment(row, col, real(ds))
	}
	if row := p.qRow[bus]; row >= 0 {
		p.jac.Increment(row, col, imag(ds))
	}
}

// flowGradients 支路首末端功率对电压幅值相角的偏导
//
//	Sf = conj(Yff)·Vmf² + conj(Yft)·Vf·conj(Vt)
//	St = conj(Ytt)·Vmt² + conj(Ytf)·Vt·conj(Vf)
func (p *Problem) flowGradients(k int) (gf, gt flowGrad) {
	y := p.adm.Prim[k]
	f, t := p.nc.F[k], p.nc.T[k]
	vf, vt := p.v[f], p.v[t]
	vmf, vmt := complex(p.vm[f], 0), complex(p.vm[t], 0)

	cf := cmplx.Conj(y.Yft) * vf * cmplx.Conj(vt)
	gf = flowGrad{
		vaf: 1i * cf,
		vat: -1i * cf,
		vmf: 2*cmplx.Conj(y.Yff)*vmf + cf/vmf,
		vmt: cf / vmt,
	}
	ct := cmplx.Conj(y.Ytf) * vt * cmplx.Conj(vf)
	gt = flowGrad{
		vaf: -1i * ct,
		vat: 1i * ct,
		vmf: ct / vmf,
		vmt: 2*cmplx.Conj(y.Ytt)*vmt + ct/vmt,
	}
	return gf, gt
}

// branchVarGrad 支路首末端功率对控制变量的偏导
//
//	m:   dYff = -2Yff/m, dYft = -Yft/m, dYtf = -Ytf/m
//	θ:   dYft = jYft, dYtf = -jYtf
//	Beq: dYff = j/mp²
func (p *Problem) branchVarGrad(k int, v numerical.Variable) (dsf, dst complex128) {
	y := p.adm.Prim[k]
	vf, vt := p.v[p.nc.F[k]], p.v[p.nc.T[k]]
	var dyff, dyft, dytf complex128
	switch v {
	case numerical.VarModule:
		m := complex(p.m[k], 0)
		dyff, dyft, dytf = -2*y.Yff/m, -y.Yft/m, -y.Ytf/m
	case numerical.VarAngle:
		dyft, dytf = 1i*y.Yft, -1i*y.Ytf
	case numerical.VarBeq:
		mp := p.adm.Modulation(k, p.m[k])
		dyff = complex(0, 1/(mp*mp))
	}
	dsf = vf * cmplx.Conj(dyff*vf+dyft*vt)
	dst = vt * cmplx.Conj(dytf*vf)
	return dsf, dst
}

// pick 从支路功率偏导中取出控制方程需要的分量
func pick(kind numerical.EquationKind, dsf, dst complex128) float64 {
	switch kind {
	case numerical.EqPf:
		return real(dsf)
	case numerical.EqQf:
		return imag(dsf)
	case numerical.EqQt:
		return imag(dst)
	case numerical.EqPfDroop:
		return -real(dsf)
	}
	return 0
}

// stampControl 写入一行控制方程的偏导
func (p *Problem) stampControl(row int, eq numerical.ControlEquation, eqs []numerical.ControlEquation) {
	k := eq.Branch
	f, t := p.nc.F[k], p.nc.T[k]
	gf, gt := p.flowGradients(k)
	kind := eq.Kind

	if col := p.vaPos[f]; col >= 0 {
		p.jac.Increment(row, col, pick(kind, gf.vaf, gt.vaf))
	}
	if col := p.vaPos[t]; col >= 0 {
		p.jac.Increment(row, col, pick(kind, gf.vat, gt.vat))
	}
	if col := p.vmPos[f]; col >= 0 {
		d := pick(kind, gf.vmf, gt.vmf)
		switch kind {
		case numerical.EqVf:
			d = 1
		case numerical.EqPfDroop:
			d += p.nc.Branches[k].Kdp
		}
		p.jac.Increment(row, col, d)
	}
	if col := p.vmPos[t]; col >= 0 {
		d := pick(kind, gf.vmt, gt.vmt)
		if kind == numerical.EqVt {
			d = 1
		}
		p.jac.Increment(row, col, d)
	}
	// 同一支路上的控制变量
	for c, other := range eqs {
		if other.Branch != k {
			continue
		}
		dsf, dst := p.branchVarGrad(k, other.Var)
		p.jac.Increment(row, p.ctrlOff+c, pick(kind, dsf, dst))
	}
}
