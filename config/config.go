// Package config 加载潮流计算参数
//
// 优先级：环境变量 > 配置文件 > 默认值，加载后立即校验。
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/SanPen/GridCal-sub027/types"
)

// 环境变量名称
const (
	EnvSolverType    = "GRIDCAL_SOLVER_TYPE"
	EnvTolerance     = "GRIDCAL_TOLERANCE"
	EnvMaxIterations = "GRIDCAL_MAX_ITERATIONS"
	EnvWorkers       = "GRIDCAL_WORKERS"
)

// Load 从YAML文件加载参数，path 为空时只使用默认值与环境变量
func Load(path string) (types.PowerFlowOptions, error) {
	opts := types.DefaultOptions()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return opts, fmt.Errorf("read options %s: %w", path, err)
		}
		if err := decode(data, &opts); err != nil {
			return opts, err
		}
	}
	if err := fromEnv(&opts); err != nil {
		return opts, err
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// Parse 在默认值基础上解析YAML参数并校验
func Parse(data []byte) (types.PowerFlowOptions, error) {
	opts := types.DefaultOptions()
	if err := decode(data, &opts); err != nil {
		return opts, err
	}
	if err := opts.Validate(); err != nil {
		return opts, err
	}
	return opts, nil
}

// decode 严格解析，未知的参数名视为配置错误
func decode(data []byte, opts *types.PowerFlowOptions) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(opts); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse options: %v: %w", err, types.ErrConfiguration)
	}
	return nil
}

// fromEnv 环境变量覆盖
func fromEnv(opts *types.PowerFlowOptions) error {
	if v := os.Getenv(EnvSolverType); v != "" {
		opts.SolverType = types.SolverType(v)
	}
	if v := os.Getenv(EnvTolerance); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvTolerance, v, types.ErrConfiguration)
		}
		opts.Tolerance = f
	}
	if v := os.Getenv(EnvMaxIterations); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvMaxIterations, v, types.ErrConfiguration)
		}
		opts.MaxIterations = i
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvWorkers, v, types.ErrConfiguration)
		}
		opts.Workers = i
	}
	return nil
}

// Marshal 输出YAML格式参数
func Marshal(opts types.PowerFlowOptions) ([]byte, error) {
	return yaml.Marshal(opts)
}
