package types

import (
	"fmt"
	"time"
)

// Reason 求解结束原因
type Reason string

// 求解结束原因常量定义
const (
	ReasonNone          Reason = ""               // 正常收敛
	ReasonUnsolvable    Reason = "unsolvable"     // 孤岛无平衡节点候选
	ReasonSingular      Reason = "singular"       // 雅可比矩阵奇异
	ReasonMaxIterations Reason = "max_iterations" // 迭代次数用尽
	ReasonDiverged      Reason = "diverged"       // 失配量发散或出现NaN
	ReasonCanceled      Reason = "canceled"       // 被调用方取消
)

// ConvergenceReport 单次求解的收敛报告
type ConvergenceReport struct {
	Island     int           `json:"island"`     // 孤岛编号
	Method     SolverType    `json:"method"`     // 求解算法
	Converged  bool          `json:"converged"`  // 是否收敛
	Iterations int           `json:"iterations"` // 迭代次数
	Error      float64       `json:"error"`      // 失配量无穷范数
	Elapsed    time.Duration `json:"elapsed"`    // 耗时
	Trace      []float64     `json:"trace"`      // 每次迭代的失配量
	Reason     Reason        `json:"reason"`     // 结束原因
}

// String 格式化输出
func (r ConvergenceReport) String() string {
	return fmt.Sprintf("island=%d method=%s converged=%t iterations=%d error=%.3e elapsed=%s reason=%q",
		r.Island, r.Method, r.Converged, r.Iterations, r.Error, r.Elapsed, r.Reason)
}
