package gridcal

import (
	"bytes"
	"context"
	"log/slog"
	"math/cmplx"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SanPen/GridCal-sub027/cases"
	"github.com/SanPen/GridCal-sub027/types"
)

func newPowerFlow(t *testing.T, mutate func(*types.PowerFlowOptions)) *PowerFlow {
	t.Helper()
	opts := types.DefaultOptions()
	if mutate != nil {
		mutate(&opts)
	}
	pf, err := NewPowerFlow(opts, WithLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))))
	require.NoError(t, err)
	return pf
}

func TestNewPowerFlowRejectsOptions(t *testing.T) {
	opts := types.DefaultOptions()
	opts.SolverType = "HELM"
	_, err := NewPowerFlow(opts)
	assert.ErrorIs(t, err, types.ErrConfiguration)

	opts = types.DefaultOptions()
	opts.MaxIterations = -1
	_, err = NewPowerFlow(opts)
	assert.ErrorIs(t, err, types.ErrConfiguration)
}

func TestRunRejectsNetwork(t *testing.T) {
	pf := newPowerFlow(t, nil)
	net := cases.TwoBus()
	net.Branches[0].To = 7
	res, err := pf.Run(context.Background(), net)
	assert.ErrorIs(t, err, types.ErrInvalidNetwork)
	assert.Nil(t, res)

	_, err = pf.Run(context.Background(), nil)
	assert.ErrorIs(t, err, types.ErrInvalidNetwork)
}

func TestRunTwoBus(t *testing.T) {
	pf := newPowerFlow(t, nil)
	res, err := pf.Run(context.Background(), cases.TwoBus())
	require.NoError(t, err)

	_, err = uuid.Parse(res.RunID)
	assert.NoError(t, err)
	assert.True(t, res.Converged)
	require.Len(t, res.Reports, 1)
	assert.Less(t, res.Reports[0].Iterations, 10)
	assert.Less(t, res.Reports[0].Error, 1e-8)
	assert.Less(t, cmplx.Abs(res.Voltage[1]), 1.0)
	assert.Positive(t, res.Elapsed)

	// 平衡节点出力 = 负荷 + 损耗
	losses := res.TotalLosses()
	assert.InDelta(t, 0.5+real(losses), real(res.Sbus[0]), 1e-8)
	assert.InDelta(t, 0.2+imag(losses), imag(res.Sbus[0]), 1e-8)
}

// TestRunTwoIslands 两个独立子网分别求解
func TestRunTwoIslands(t *testing.T) {
	pf := newPowerFlow(t, nil)
	net := cases.TwoIslands()
	islands := Islands(net)
	require.Len(t, islands, 2)
	assert.Equal(t, []int{0, 2}, islands[0].Buses)
	assert.Equal(t, []int{1, 3}, islands[1].Buses)

	res, err := pf.Run(context.Background(), net)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	require.Len(t, res.Reports, 2)
	assert.Equal(t, 0, res.Reports[0].Island)
	assert.Equal(t, 1, res.Reports[1].Island)
	assert.Equal(t, types.BusSlack, res.BusModes[0])
	assert.Equal(t, types.BusSlack, res.BusModes[1])
}

// TestRunHvdc 直流线路按功率注入处理，不合并孤岛
func TestRunHvdc(t *testing.T) {
	pf := newPowerFlow(t, nil)
	net := cases.Hvdc()
	require.Len(t, Islands(net), 2)

	res, err := pf.Run(context.Background(), net)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.InDelta(t, -0.5-0.1, real(res.Sbus[2]), 1e-8)
	assert.InDelta(t, -0.3+0.098, real(res.Sbus[3]), 1e-8)
	assert.Equal(t, []float64{0.1}, res.HvdcP)
}

func TestRunWorkersLimit(t *testing.T) {
	net := cases.TwoIslands()
	serial, err := newPowerFlow(t, func(o *types.PowerFlowOptions) { o.Workers = 1 }).Run(context.Background(), net)
	require.NoError(t, err)
	parallel, err := newPowerFlow(t, nil).Run(context.Background(), net)
	require.NoError(t, err)
	assert.Equal(t, serial.Voltage, parallel.Voltage)
	assert.NotEqual(t, serial.RunID, parallel.RunID)
}

// TestRunCanceled 取消时返回部分结果与 ctx.Err()
func TestRunCanceled(t *testing.T) {
	pf := newPowerFlow(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := pf.Run(ctx, cases.TwoIslands())
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.False(t, res.Converged)
	require.Len(t, res.Reports, 2)
	for _, r := range res.Reports {
		assert.Equal(t, types.ReasonCanceled, r.Reason)
	}
}

// TestRunUnsolvableIsland 无平衡节点候选的孤岛零结果，不影响其他孤岛
func TestRunUnsolvableIsland(t *testing.T) {
	var logs bytes.Buffer
	opts := types.DefaultOptions()
	pf, err := NewPowerFlow(opts, WithLogger(slog.New(slog.NewTextHandler(&logs, nil))))
	require.NoError(t, err)

	net := cases.TwoBus()
	net.Buses = append(net.Buses,
		types.Bus{ID: "C", Mode: types.BusPQ, Active: true},
		types.Bus{ID: "D", Mode: types.BusPQ, Active: false},
	)
	net.Injections = append(net.Injections, types.Injection{ID: "load-C", Bus: 2, P: -0.1, Active: true})

	res, err := pf.Run(context.Background(), net)
	require.NoError(t, err)
	assert.True(t, res.Converged)
	require.Len(t, res.Reports, 2)
	assert.Equal(t, types.ReasonUnsolvable, res.Reports[1].Reason)
	assert.Equal(t, complex128(0), res.Voltage[2])
	assert.Equal(t, types.NoIndex, res.BusIsland[3], "inactive bus is not solved")
	assert.Contains(t, logs.String(), "island is not solvable")
}

// TestRunQLimitsAndZeroImpedance 组合场景
func TestRunQLimitsAndZeroImpedance(t *testing.T) {
	pf := newPowerFlow(t, func(o *types.PowerFlowOptions) { o.EnforceReactivePowerLimits = true })
	res, err := pf.Run(context.Background(), cases.PVQLimit())
	require.NoError(t, err)
	assert.True(t, res.Converged)
	assert.Equal(t, types.BusPQ, res.BusModes[1])
	assert.Less(t, cmplx.Abs(res.Voltage[1]), 1.0)

	pf = newPowerFlow(t, func(o *types.PowerFlowOptions) { o.Tolerance = 1e-6 })
	res, err = pf.Run(context.Background(), cases.ZeroImpedance())
	require.NoError(t, err)
	assert.True(t, res.Converged)
	for _, v := range res.Voltage {
		assert.False(t, cmplx.IsNaN(v))
	}
}
