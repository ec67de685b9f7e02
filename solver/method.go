package solver

import (
	"context"
	"fmt"
	"math"

	"github.com/SanPen/GridCal-sub027/maths"
	"github.com/SanPen/GridCal-sub027/types"
)

// Method 非线性方程组求解算法
// 从问题的当前状态出发迭代，结束时问题保留最后一次接受的状态
type Method interface {
	Solve(ctx context.Context, p *Problem, opts *types.PowerFlowOptions) types.ConvergenceReport
}

// methods 算法注册表
var methods = map[types.SolverType]Method{
	types.SolverNR:           NewtonRaphson{},
	types.SolverLM:           LevenbergMarquardt{},
	types.SolverPowellDogLeg: PowellDogLeg{},
}

// evaluate 记录失配量并判断是否结束
func evaluate(g []float64, report *types.ConvergenceReport, tol float64) bool {
	norm := maths.NormInf(g)
	report.Error = norm
	report.Trace = append(report.Trace, norm)
	switch {
	case math.IsNaN(norm) || math.IsInf(norm, 0) || norm > types.DivergenceLimit:
		report.Reason = types.ReasonDiverged
		return true
	case norm < tol:
		report.Converged = true
		return true
	}
	return false
}

// stop 迭代次数与取消检查
func stop(ctx context.Context, report *types.ConvergenceReport, maxIter int) bool {
	if ctx.Err() != nil {
		report.Reason = types.ReasonCanceled
		return true
	}
	if report.Iterations >= maxIter {
		report.Reason = types.ReasonMaxIterations
		return true
	}
	return false
}

// numeric 线性求解失败统一包装为 ErrNumeric，保留原始原因
func numeric(err error) error {
	return fmt.Errorf("%w: %w", types.ErrNumeric, err)
}
