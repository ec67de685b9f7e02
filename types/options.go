package types

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// SolverType 求解算法
type SolverType string

// 求解算法常量定义
const (
	SolverNR           SolverType = "NR"           // 牛顿-拉夫逊法
	SolverLM           SolverType = "LM"           // Levenberg-Marquardt
	SolverPowellDogLeg SolverType = "PowellDogLeg" // Powell 狗腿信赖域法
)

// fallbackOrder 备用算法顺序
var fallbackOrder = []SolverType{SolverNR, SolverLM, SolverPowellDogLeg}

// validate 结构体校验器（并发安全，缓存结构体信息）
var validate = validator.New()

// PowerFlowOptions 潮流计算参数
type PowerFlowOptions struct {
	SolverType                 SolverType `json:"solver_type" yaml:"solver_type" validate:"oneof=NR LM PowellDogLeg"`
	Tolerance                  float64    `json:"tolerance" yaml:"tolerance" validate:"gt=0,lt=1"`
	MaxIterations              int        `json:"max_iterations" yaml:"max_iterations" validate:"gt=0"`
	EnforceReactivePowerLimits bool       `json:"enforce_reactive_power_limits" yaml:"enforce_reactive_power_limits"`
	RetryWithOtherMethods      bool       `json:"retry_with_other_methods" yaml:"retry_with_other_methods"`
	DistributedSlack           bool       `json:"distributed_slack" yaml:"distributed_slack"`
	MaxOuterLoops              int        `json:"max_outer_loops" yaml:"max_outer_loops" validate:"gt=0"`
	QLimitBand                 float64    `json:"q_limit_band" yaml:"q_limit_band" validate:"gte=0"`
	Workers                    int        `json:"workers" yaml:"workers" validate:"gte=0"`
}

// DefaultOptions 默认参数
func DefaultOptions() PowerFlowOptions {
	return PowerFlowOptions{
		SolverType:                 SolverNR,
		Tolerance:                  Tolerance,
		MaxIterations:              MaxIterations,
		EnforceReactivePowerLimits: false,
		RetryWithOtherMethods:      true,
		DistributedSlack:           false,
		MaxOuterLoops:              MaxOuterLoops,
		QLimitBand:                 QLimitBand,
		Workers:                    Workers,
	}
}

// Validate 校验参数，错误包装 ErrConfiguration
func (o *PowerFlowOptions) Validate() error {
	if math.IsNaN(o.Tolerance) || math.IsNaN(o.QLimitBand) {
		return fmt.Errorf("NaN option value: %w", ErrConfiguration)
	}
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("%v: %w", err, ErrConfiguration)
	}
	return nil
}

// Methods 返回尝试顺序：主算法在前，允许重试时追加其余算法
func (o *PowerFlowOptions) Methods() []SolverType {
	methods := []SolverType{o.SolverType}
	if !o.RetryWithOtherMethods {
		return methods
	}
	for _, m := range fallbackOrder {
		if m != o.SolverType {
			methods = append(methods, m)
		}
	}
	return methods
}
