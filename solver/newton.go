package solver

import (
	"context"
	"time"

	"github.com/SanPen/GridCal-sub027/maths"
	"github.com/SanPen/GridCal-sub027/types"
)

// NewtonRaphson 牛顿-拉夫逊法，全步长
type NewtonRaphson struct{}

// Solve 求解 J·Δx = −g 并迭代至收敛、发散或达到最大迭代次数
func (NewtonRaphson) Solve(ctx context.Context, p *Problem, opts *types.PowerFlowOptions) (report types.ConvergenceReport) {
	start := time.Now()
	report.Method = types.SolverNR
	defer func() { report.Elapsed = time.Since(start) }()

	lu := maths.NewSparseLU()
	x := p.X()
	g := p.Residual()
	dx := make([]float64, len(x))
	for {
		if evaluate(g, &report, opts.Tolerance) || stop(ctx, &report, opts.MaxIterations) {
			return report
		}
		if err := lu.Decompose(p.Jacobian()); err != nil {
			p.logger.Debug("newton jacobian factorization failed", "iteration", report.Iterations, "error", numeric(err))
			report.Reason = types.ReasonSingular
			return report
		}
		if err := lu.Solve(maths.Scale(-1, g), dx); err != nil {
			report.Reason = types.ReasonSingular
			return report
		}
		maths.Axpy(1, dx, x)
		p.Update(x)
		g = p.Residual()
		report.Iterations++
	}
}
