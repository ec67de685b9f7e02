package solver

import (
	"context"
	"log/slog"

	"github.com/SanPen/GridCal-sub027/maths"
	"github.com/SanPen/GridCal-sub027/numerical"
	"github.com/SanPen/GridCal-sub027/types"
)

// IslandResult 单个电气岛的求解结果（局部索引）
type IslandResult struct {
	Circuit   *numerical.NumericalCircuit
	Converged bool
	Voltage   []complex128 // 母线电压
	Sbus      []complex128 // 母线注入功率 V⊙conj(Ybus·V)
	Mismatch  []complex128 // 母线功率失配（平衡节点为零，PV节点只有有功）
	Sf, St    []complex128 // 支路首末端功率
	If, It    []complex128 // 支路首末端电流
	TapModule []float64
	TapAngle  []float64
	Beq       []float64
	Modes     []types.BusMode // 求解结束时的节点类型
	Reports   []types.ConvergenceReport
}

// Solve 求解一个电气岛
//
// 流程：节点分类 → 主算法（失败时按顺序尝试备用算法）→ 外层控制循环
// （无功越限、分布式平衡）直至无变化或达到 max_outer_loops。
// 不收敛以结果返回，不作为错误。
func Solve(ctx context.Context, nc *numerical.NumericalCircuit, opts *types.PowerFlowOptions, logger *slog.Logger) *IslandResult {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("island", nc.Island)
	bt, err := numerical.Classify(nc.Modes, nc.S0)
	if err != nil {
		logger.Warn("island is not solvable", "buses", nc.NBus(), "error", err)
		return unsolvable(nc)
	}

	p := NewProblem(nc, bt, logger)
	if bt.Trivial() && p.Dim() == 0 {
		// 只有平衡节点且无受控变量，电压即给定值
		report := types.ConvergenceReport{Island: nc.Island, Method: opts.SolverType, Converged: true}
		logger.Debug("island has no unknowns")
		return p.result(true, []types.ConvergenceReport{report})
	}
	lim := newQLimiter(p)
	var reports []types.ConvergenceReport
	converged := false
	outer := 0
	for {
		attempts, ok := solveChain(ctx, p, opts)
		reports = append(reports, attempts...)
		converged = ok
		if !ok || outer >= opts.MaxOuterLoops {
			break
		}
		changed := false
		if opts.EnforceReactivePowerLimits && p.applyQLimits(lim, opts.QLimitBand) > 0 {
			changed = true
		}
		if opts.DistributedSlack && p.distributeSlack(opts.Tolerance) {
			changed = true
		}
		if !changed {
			break
		}
		outer++
	}
	outerLoops.Observe(float64(outer))
	for i := range reports {
		reports[i].Island = nc.Island
	}
	logger.Debug("island solved", "converged", converged, "attempts", len(reports), "outer_loops", outer)
	return p.result(converged, reports)
}

// solveChain 依次尝试主算法与备用算法，每次从同一初值出发
func solveChain(ctx context.Context, p *Problem, opts *types.PowerFlowOptions) ([]types.ConvergenceReport, bool) {
	start := p.snapshot()
	var reports []types.ConvergenceReport
	for n, t := range opts.Methods() {
		if n > 0 {
			p.restore(start)
			p.logger.Info("retrying island with another method", "method", t)
		}
		r := methods[t].Solve(ctx, p, opts)
		r.Method = t
		observe(r)
		reports = append(reports, r)
		if r.Converged {
			return reports, true
		}
		if r.Reason == types.ReasonCanceled {
			break
		}
	}
	return reports, false
}

// result 整理求解结果
func (p *Problem) result(converged bool, reports []types.ConvergenceReport) *IslandResult {
	sf, st, cf, ct := p.Flows()
	if converged && !maths.AllFiniteComplex(p.v) {
		p.logger.Warn("converged state holds non-finite voltages")
		converged = false
	}
	return &IslandResult{
		Circuit:   p.nc,
		Converged: converged,
		Voltage:   append([]complex128(nil), p.v...),
		Sbus:      append([]complex128(nil), p.scalc...),
		Mismatch:  p.BusMismatch(),
		Sf:        sf,
		St:        st,
		If:        cf,
		It:        ct,
		TapModule: append([]float64(nil), p.m...),
		TapAngle:  append([]float64(nil), p.theta...),
		Beq:       append([]float64(nil), p.beq...),
		Modes:     append([]types.BusMode(nil), p.bt.Types...),
		Reports:   reports,
	}
}

// unsolvable 无平衡节点候选的孤岛按零结果处理，视为已收敛
func unsolvable(nc *numerical.NumericalCircuit) *IslandResult {
	nb, nbr := nc.NBus(), nc.NBranch()
	return &IslandResult{
		Circuit:   nc,
		Converged: true,
		Voltage:   make([]complex128, nb),
		Sbus:      make([]complex128, nb),
		Mismatch:  make([]complex128, nb),
		Sf:        make([]complex128, nbr),
		St:        make([]complex128, nbr),
		If:        make([]complex128, nbr),
		It:        make([]complex128, nbr),
		TapModule: append([]float64(nil), nc.TapModule...),
		TapAngle:  append([]float64(nil), nc.TapAngle...),
		Beq:       append([]float64(nil), nc.Beq...),
		Modes:     append([]types.BusMode(nil), nc.Modes...),
		Reports: []types.ConvergenceReport{{
			Island:    nc.Island,
			Converged: true,
			Reason:    types.ReasonUnsolvable,
		}},
	}
}
