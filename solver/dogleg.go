package solver

import (
	"context"
	"math"
	"time"

	"github.com/SanPen/GridCal-sub027/maths"
	"github.com/SanPen/GridCal-sub027/types"
)

// PowellDogLeg Powell 狗腿信赖域法
// 在信赖域内组合牛顿步与最速下降（Cauchy）步
type PowellDogLeg struct{}

// 信赖域参数
const (
	initialRadius = 1.0
	minRadius     = 1e-14
)

// Solve 迭代求解
func (PowellDogLeg) Solve(ctx context.Context, p *Problem, opts *types.PowerFlowOptions) (report types.ConvergenceReport) {
	start := time.Now()
	report.Method = types.SolverPowellDogLeg
	defer func() { report.Elapsed = time.Since(start) }()

	lu := maths.NewSparseLU()
	radius := initialRadius
	x := p.X()
	g := p.Residual()
	xNew := make([]float64, len(x))
	if evaluate(g, &report, opts.Tolerance) {
		return report
	}
	for !stop(ctx, &report, opts.MaxIterations) {
		report.Iterations++
		jac := p.Jacobian()

		// 牛顿步（奇异时只使用 Cauchy 步）
		var hN []float64
		if err := lu.Decompose(jac); err != nil {
			p.logger.Debug("dogleg newton step unavailable", "iteration", report.Iterations, "error", numeric(err))
		} else {
			hN = make([]float64, len(g))
			if lu.Solve(maths.Scale(-1, g), hN) != nil {
				hN = nil
			}
		}
		// Cauchy 步 hSD = −α·grad，α = |grad|² / |J·grad|²
		grad := jac.MulVecTrans(g)
		jg := jac.MulVec(grad)
		if maths.Dot(jg, jg) == 0 && hN == nil {
			report.Reason = types.ReasonSingular
			return report
		}
		var hSD []float64
		if d := maths.Dot(jg, jg); d > 0 {
			hSD = maths.Scale(-maths.Dot(grad, grad)/d, grad)
		}
		h := doglegStep(hN, hSD, radius)

		// 线性模型预测下降与实际下降
		jh := jac.MulVec(h)
		maths.Axpy(1, g, jh)
		predicted := 0.5 * (maths.Dot(g, g) - maths.Dot(jh, jh))
		copy(xNew, x)
		maths.Axpy(1, h, xNew)
		p.Update(xNew)
		gNew := p.Residual()
		actual := 0.5 * (maths.Dot(g, g) - maths.Dot(gNew, gNew))

		rho := actual / predicted
		hNorm := maths.Norm2(h)
		switch {
		case !(rho >= 0.25):
			radius = 0.25 * hNorm
		case rho > 0.75 && hNorm >= 0.99*radius:
			radius = 2 * radius
		}
		if predicted > 0 && rho > 0 && maths.AllFinite(gNew) {
			copy(x, xNew)
			g = gNew
			if evaluate(g, &report, opts.Tolerance) {
				return report
			}
		} else {
			p.Update(x)
		}
		if radius < minRadius {
			report.Reason = types.ReasonDiverged
			return report
		}
	}
	return report
}

// doglegStep 在信赖域半径内选择步长
func doglegStep(hN, hSD []float64, radius float64) []float64 {
	if hN != nil && maths.Norm2(hN) <= radius {
		return hN
	}
	if hSD == nil {
		return maths.Scale(radius/maths.Norm2(hN), hN)
	}
	sdNorm := maths.Norm2(hSD)
	if sdNorm >= radius {
		return maths.Scale(radius/sdNorm, hSD)
	}
	if hN == nil {
		return hSD
	}
	// hSD + β(hN − hSD)，β 使步长恰好落在信赖域边界
	d := make([]float64, len(hN))
	copy(d, hN)
	maths.Axpy(-1, hSD, d)
	a := maths.Dot(d, d)
	b := 2 * maths.Dot(hSD, d)
	c := sdNorm*sdNorm - radius*radius
	beta := (-b + math.Sqrt(b*b-4*a*c)) / (2 * a)
	h := append([]float64(nil), hSD...)
	maths.Axpy(beta, d, h)
	return h
}
