package solver

import (
	"context"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/SanPen/GridCal-sub027/maths"
	"github.com/SanPen/GridCal-sub027/types"
)

// LevenbergMarquardt 阻尼最小二乘法
// 求解 (JᵀJ + λI)·Δx = −Jᵀg，λ 按增益比更新（Nielsen 规则）
type LevenbergMarquardt struct{}

// Solve 迭代求解
func (LevenbergMarquardt) Solve(ctx context.Context, p *Problem, opts *types.PowerFlowOptions) (report types.ConvergenceReport) {
	start := time.Now()
	report.Method = types.SolverLM
	defer func() { report.Elapsed = time.Since(start) }()

	x := p.X()
	g := p.Residual()
	if evaluate(g, &report, opts.Tolerance) {
		return report
	}
	jac := p.Jacobian()
	lambda := 1e-3 * maxColumnNorm(jac)
	nu := 2.0
	xNew := make([]float64, len(x))
	for !stop(ctx, &report, opts.MaxIterations) {
		report.Iterations++
		grad := jac.MulVecTrans(g)
		h, err := dampedStep(jac, grad, lambda)
		if err != nil {
			p.logger.Debug("levenberg-marquardt step failed", "iteration", report.Iterations, "error", numeric(err))
			report.Reason = types.ReasonSingular
			return report
		}
		copy(xNew, x)
		maths.Axpy(1, h, xNew)
		p.Update(xNew)
		gNew := p.Residual()

		// 增益比 ρ = 实际下降 / 线性模型预测下降
		actual := 0.5 * (maths.Dot(g, g) - maths.Dot(gNew, gNew))
		predicted := 0.5 * (lambda*maths.Dot(h, h) - maths.Dot(h, grad))
		rho := actual / predicted
		if predicted > 0 && rho > 0 && maths.AllFinite(gNew) {
			copy(x, xNew)
			g = gNew
			if evaluate(g, &report, opts.Tolerance) {
				return report
			}
			jac = p.Jacobian()
			lambda *= math.Max(1.0/3.0, 1-math.Pow(2*rho-1, 3))
			nu = 2
			continue
		}
		// 拒绝步长，恢复状态并增大阻尼
		p.Update(x)
		lambda *= nu
		nu *= 2
		if math.IsInf(lambda, 0) {
			report.Reason = types.ReasonDiverged
			return report
		}
	}
	return report
}

// maxColumnNorm JᵀJ 对角线最大值
func maxColumnNorm(j *maths.SparseMatrix[float64]) float64 {
	diag := make([]float64, j.Cols())
	for i := 0; i < j.Rows(); i++ {
		cols, vals := j.Row(i)
		for k, c := range cols {
			diag[c] += vals[k] * vals[k]
		}
	}
	var mx float64
	for _, d := range diag {
		mx = math.Max(mx, d)
	}
	if mx == 0 {
		return 1
	}
	return mx
}

// dampedStep 求解阻尼法方程，优先 Cholesky 分解，失败时退回 LU
func dampedStep(j *maths.SparseMatrix[float64], grad []float64, lambda float64) ([]float64, error) {
	n := len(grad)
	a := maths.NormalEquations(j, lambda)
	b := mat.NewVecDense(n, maths.Scale(-1, grad))
	var h mat.VecDense
	var chol mat.Cholesky
	if chol.Factorize(a) {
		if err := chol.SolveVecTo(&h, b); err == nil {
			return h.RawVector().Data, nil
		}
	}
	if err := h.SolveVec(a, b); err != nil {
		return nil, err
	}
	return h.RawVector().Data, nil
}
