// Package gridcal 交流潮流计算
//
// 计算流程：校验网络 → 划分电气岛 → 各岛编译数值模型与节点分类 →
// 并发求解（牛顿法及备用算法、无功越限、分布式平衡）→ 汇总结果。
package gridcal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/SanPen/GridCal-sub027/graph"
	"github.com/SanPen/GridCal-sub027/numerical"
	"github.com/SanPen/GridCal-sub027/results"
	"github.com/SanPen/GridCal-sub027/solver"
	"github.com/SanPen/GridCal-sub027/types"
)

// PowerFlow 潮流计算器，可重复用于多个网络，并发安全
type PowerFlow struct {
	opts   types.PowerFlowOptions
	logger *slog.Logger
	tracer trace.Tracer
}

// Option 计算器选项
type Option func(*PowerFlow)

// WithLogger 设置日志
func WithLogger(logger *slog.Logger) Option {
	return func(pf *PowerFlow) { pf.logger = logger }
}

// WithTracer 设置链路追踪
func WithTracer(tracer trace.Tracer) Option {
	return func(pf *PowerFlow) { pf.tracer = tracer }
}

// NewPowerFlow 创建潮流计算器，参数非法时返回 ErrConfiguration
func NewPowerFlow(opts types.PowerFlowOptions, options ...Option) (*PowerFlow, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	pf := &PowerFlow{
		opts:   opts,
		logger: slog.Default(),
		tracer: otel.Tracer("gridcal.powerflow"),
	}
	for _, o := range options {
		o(pf)
	}
	return pf, nil
}

// Options 计算参数
func (pf *PowerFlow) Options() types.PowerFlowOptions { return pf.opts }

// Islands 按交流支路与开关划分电气岛，直流线路不连接孤岛
func Islands(net *types.NetworkDescription) []graph.Island {
	b := graph.NewBuilder(net.BusCount())
	groups := map[types.BranchKind][]graph.Triple{}
	var kinds []types.BranchKind
	for k := range net.Branches {
		br := &net.Branches[k]
		if _, ok := groups[br.Kind]; !ok {
			kinds = append(kinds, br.Kind)
		}
		groups[br.Kind] = append(groups[br.Kind], graph.Triple{From: br.From, To: br.To, Active: br.Active})
	}
	for _, kind := range kinds {
		b.AddElements(kind.String(), groups[kind])
	}
	return b.Build(net.ActiveBuses()).Islands()
}

// Run 计算潮流
//
// 网络非法时返回 ErrInvalidNetwork。孤岛不收敛不是错误，见结果中的收敛报告。
// ctx 取消时返回已完成孤岛的部分结果与 ctx.Err()。
func (pf *PowerFlow) Run(ctx context.Context, net *types.NetworkDescription) (*results.PowerFlowResult, error) {
	if net == nil {
		return nil, fmt.Errorf("nil network: %w", types.ErrInvalidNetwork)
	}
	start := time.Now()
	runID := uuid.NewString()
	logger := pf.logger.With("run_id", runID, "network", net.Name)

	ctx, span := pf.tracer.Start(ctx, "gridcal.PowerFlow.Run",
		trace.WithAttributes(
			attribute.String("run_id", runID),
			attribute.String("network", net.Name),
			attribute.Int("buses", net.BusCount()),
			attribute.Int("branches", net.BranchCount()),
			attribute.String("solver_type", string(pf.opts.SolverType)),
		),
	)
	defer span.End()

	if err := net.Validate(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid network")
		return nil, err
	}

	islands := Islands(net)
	asm := results.NewAssembler(net, runID)
	var g errgroup.Group
	if pf.opts.Workers > 0 {
		g.SetLimit(pf.opts.Workers)
	}
	solved := 0
	for _, is := range islands {
		if !is.Active {
			continue
		}
		solved++
		g.Go(func() error {
			if ctx.Err() != nil {
				asm.Cancel(is.Index)
				return nil
			}
			pf.solveIsland(ctx, net, is, asm, logger)
			return nil
		})
	}
	_ = g.Wait() // 孤岛失败不终止其他孤岛

	res := asm.Result()
	res.Elapsed = time.Since(start)
	span.SetAttributes(
		attribute.Int("islands", solved),
		attribute.Bool("converged", res.Converged),
	)
	if err := ctx.Err(); err != nil {
		span.SetStatus(codes.Error, "canceled")
		logger.Warn("power flow canceled", "elapsed", res.Elapsed, "error", err)
		return res, err
	}
	logger.Info("power flow finished",
		"islands", solved,
		"converged", res.Converged,
		"max_mismatch", res.MaxMismatch(),
		"elapsed", res.Elapsed)
	return res, nil
}

// solveIsland 编译并求解一个电气岛
func (pf *PowerFlow) solveIsland(ctx context.Context, net *types.NetworkDescription, is graph.Island, asm *results.Assembler, logger *slog.Logger) {
	ctx, span := pf.tracer.Start(ctx, "gridcal.PowerFlow.island",
		trace.WithAttributes(
			attribute.Int("island", is.Index),
			attribute.Int("buses", is.Size()),
		),
	)
	defer span.End()

	nc := numerical.Compile(net, is)
	ir := solver.Solve(ctx, nc, &pf.opts, logger)
	asm.Scatter(ir)

	iterations := 0
	for _, r := range ir.Reports {
		iterations += r.Iterations
	}
	span.SetAttributes(
		attribute.Bool("converged", ir.Converged),
		attribute.Int("attempts", len(ir.Reports)),
		attribute.Int("iterations", iterations),
	)
	if !ir.Converged {
		span.SetStatus(codes.Error, "not converged")
		last := ir.Reports[len(ir.Reports)-1]
		logger.Warn("island did not converge",
			"island", is.Index,
			"method", last.Method,
			"reason", last.Reason,
			"error", last.Error)
	}
}
