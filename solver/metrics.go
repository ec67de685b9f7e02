package solver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/SanPen/GridCal-sub027/types"
)

var (
	// solveTotal 按算法与结果统计求解次数
	solveTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gridcal_powerflow_solve_total",
		Help: "Total island solve attempts by method and outcome",
	}, []string{"method", "outcome"})

	// solveDuration 单次求解耗时
	solveDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gridcal_powerflow_solve_duration_seconds",
		Help:    "Island solve attempt duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs ~ 2.6s
	}, []string{"method"})

	// solveIterations 单次求解迭代次数
	solveIterations = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gridcal_powerflow_solve_iterations",
		Help:    "Iterations per island solve attempt",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34, 55},
	}, []string{"method"})

	// outerLoops 外层控制循环次数（无功越限、分布式平衡）
	outerLoops = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gridcal_powerflow_outer_loops",
		Help:    "Outer control loop passes per island",
		Buckets: []float64{0, 1, 2, 3, 5, 10, 20},
	})
)

// observe 记录一次求解
func observe(r types.ConvergenceReport) {
	outcome := "converged"
	if !r.Converged {
		outcome = string(r.Reason)
	}
	method := string(r.Method)
	solveTotal.WithLabelValues(method, outcome).Inc()
	solveDuration.WithLabelValues(method).Observe(r.Elapsed.Seconds())
	solveIterations.WithLabelValues(method).Observe(float64(r.Iterations))
}
