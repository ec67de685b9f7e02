package numerical

import (
	"math"
	"math/cmplx"

	"github.com/SanPen/GridCal-sub027/maths"
	"github.com/SanPen/GridCal-sub027/types"
)

// Primitive 支路原始导纳（π型等值）
type Primitive struct {
	Yff, Yft, Ytf, Ytt complex128
}

// seriesAdmittance 串联导纳，零阻抗时附加微小电抗避免除零
func seriesAdmittance(r, x float64) complex128 {
	z := complex(r, x)
	if cmplx.Abs(z) < types.ZeroImpedance {
		z += complex(0, types.ZeroImpedance)
	}
	return 1 / z
}

// branchPrimitive 计算支路原始导纳
//
//	mp  = k2 * m
//	Yff = (ys + ysh/2 + jBeq) / mp²
//	Yft = -ys / (mp * e^{-jθ})
//	Ytf = -ys / (mp * e^{jθ})
//	Ytt = ys + ysh/2
func branchPrimitive(ys, ysh complex128, m, k2, theta, beq float64) Primitive {
	mp := complex(k2*m, 0)
	return Primitive{
		Yff: (ys + ysh/2 + complex(0, beq)) / (mp * mp),
		Yft: -ys / (mp * cmplx.Exp(complex(0, -theta))),
		Ytf: -ys / (mp * cmplx.Exp(complex(0, theta))),
		Ytt: ys + ysh/2,
	}
}

// Admittances 导纳矩阵组
// 稀疏结构在编译时确定，控制变量变化时只重填数值
type Admittances struct {
	Ybus *maths.SparseMatrix[complex128] // 节点导纳矩阵 nbus×nbus
	Yf   *maths.SparseMatrix[complex128] // 首端支路导纳矩阵 nbr×nbus
	Yt   *maths.SparseMatrix[complex128] // 末端支路导纳矩阵 nbr×nbus
	Prim []Primitive                      // 支路原始导纳

	f, t   []int
	ys     []complex128 // 串联导纳
	ysh    []complex128 // 并联导纳
	k2     []float64
	shunts []complex128 // 母线对地导纳
}

// newAdmittances 构造导纳矩阵
func newAdmittances(nc *NumericalCircuit) *Admittances {
	nbr := nc.NBranch()
	a := &Admittances{
		Ybus:   maths.NewSparseMatrix[complex128](nc.NBus(), nc.NBus()),
		Yf:     maths.NewSparseMatrix[complex128](nbr, nc.NBus()),
		Yt:     maths.NewSparseMatrix[complex128](nbr, nc.NBus()),
		Prim:   make([]Primitive, nbr),
		f:      nc.F,
		t:      nc.T,
		ys:     make([]complex128, nbr),
		ysh:    make([]complex128, nbr),
		k2:     make([]float64, nbr),
		shunts: nc.Shunt,
	}
	for k := range nc.Branches {
		br := &nc.Branches[k]
		a.ys[k] = seriesAdmittance(br.R, br.X)
		a.ysh[k] = complex(br.G, br.B)
		a.k2[k] = br.Modulation()
	}
	a.Refill(nc.TapModule, nc.TapAngle, nc.Beq)
	return a
}

// Refill 按控制变量重新计算原始导纳并填入固定结构
func (a *Admittances) Refill(m, theta, beq []float64) {
	a.Ybus.Zero()
	a.Yf.Zero()
	a.Yt.Zero()
	// 对角线始终在结构内
	for i, y := range a.shunts {
		a.Ybus.Increment(i, i, y)
	}
	for k := range a.Prim {
		p := branchPrimitive(a.ys[k], a.ysh[k], m[k], a.k2[k], theta[k], beq[k])
		a.Prim[k] = p
		f, t := a.f[k], a.t[k]
		a.Ybus.Increment(f, f, p.Yff)
		a.Ybus.Increment(f, t, p.Yft)
		a.Ybus.Increment(t, f, p.Ytf)
		a.Ybus.Increment(t, t, p.Ytt)
		a.Yf.Increment(k, f, p.Yff)
		a.Yf.Increment(k, t, p.Yft)
		a.Yt.Increment(k, f, p.Ytf)
		a.Yt.Increment(k, t, p.Ytt)
	}
}

// Copy 深拷贝，供每次求解独立修改
func (a *Admittances) Copy() *Admittances {
	c := *a
	c.Ybus, c.Yf, c.Yt = a.Ybus.Copy(), a.Yf.Copy(), a.Yt.Copy()
	c.Prim = append([]Primitive(nil), a.Prim...)
	return &c
}

// Modulation 支路的 mp = k2*m
func (a *Admittances) Modulation(k int, m float64) float64 {
	return a.k2[k] * m
}

// Flows 计算支路首末端功率与电流 Sf = Vf·conj(If), St = Vt·conj(It)
func (a *Admittances) Flows(v []complex128) (sf, st, cf, ct []complex128) {
	cf, ct = a.Yf.MulVec(v), a.Yt.MulVec(v)
	sf, st = make([]complex128, len(cf)), make([]complex128, len(ct))
	for k := range cf {
		sf[k] = v[a.f[k]] * cmplx.Conj(cf[k])
		st[k] = v[a.t[k]] * cmplx.Conj(ct[k])
	}
	return sf, st, cf, ct
}

// Injections 计算节点注入功率 S = V⊙conj(Ybus·V)
func (a *Admittances) Injections(v []complex128) []complex128 {
	s := a.Ybus.MulVec(v)
	for i := range s {
		s[i] = v[i] * cmplx.Conj(s[i])
	}
	return s
}

// polar 由幅值相角得到复数电压
func polar(vm, va float64) complex128 {
	return complex(vm*math.Cos(va), vm*math.Sin(va))
}
