package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validNetwork() *NetworkDescription {
	return &NetworkDescription{
		Name: "two-bus",
		Buses: []Bus{
			{ID: "A", Mode: BusSlack, Active: true, Vset: 1.0},
			{ID: "B", Mode: BusPQ, Active: true},
		},
		Branches:   []Branch{{ID: "L1", From: 0, To: 1, R: 0.01, X: 0.05, Active: true}},
		Injections: []Injection{{ID: "load", Bus: 1, P: -0.5, Q: -0.2, Active: true}},
	}
}

func TestNetworkValidate(t *testing.T) {
	require.NoError(t, validNetwork().Validate())

	tests := []struct {
		name   string
		mutate func(n *NetworkDescription)
	}{
		{"branch out of range", func(n *NetworkDescription) { n.Branches[0].To = 5 }},
		{"self loop", func(n *NetworkDescription) { n.Branches[0].To = 0 }},
		{"nan resistance", func(n *NetworkDescription) { n.Branches[0].R = math.NaN() }},
		{"negative tap", func(n *NetworkDescription) { n.Branches[0].TapModule = -1 }},
		{"unknown control", func(n *NetworkDescription) { n.Branches[0].Control = ControlMode(42) }},
		{"unknown bus mode", func(n *NetworkDescription) { n.Buses[1].Mode = BusMode(7) }},
		{"qmin above qmax", func(n *NetworkDescription) { n.Buses[1].Qmin, n.Buses[1].Qmax = 1, -1 }},
		{"injection bus", func(n *NetworkDescription) { n.Injections[0].Bus = -1 }},
		{"infinite load", func(n *NetworkDescription) { n.Injections[0].P = math.Inf(-1) }},
		{"hvdc loss", func(n *NetworkDescription) {
			n.Hvdc = []HvdcLine{{ID: "dc", From: 0, To: 1, Pset: 0.1, LossFactor: 1, Active: true}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := validNetwork()
			tt.mutate(n)
			assert.ErrorIs(t, n.Validate(), ErrInvalidNetwork)
		})
	}
}

func TestOptionsValidate(t *testing.T) {
	opts := DefaultOptions()
	require.NoError(t, opts.Validate())

	tests := []struct {
		name   string
		mutate func(o *PowerFlowOptions)
	}{
		{"negative tolerance", func(o *PowerFlowOptions) { o.Tolerance = -1e-6 }},
		{"nan tolerance", func(o *PowerFlowOptions) { o.Tolerance = math.NaN() }},
		{"zero iterations", func(o *PowerFlowOptions) { o.MaxIterations = 0 }},
		{"unknown solver", func(o *PowerFlowOptions) { o.SolverType = "HELM" }},
		{"negative workers", func(o *PowerFlowOptions) { o.Workers = -2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOptions()
			tt.mutate(&o)
			assert.ErrorIs(t, o.Validate(), ErrConfiguration)
		})
	}
}

func TestMethodsOrder(t *testing.T) {
	opts := DefaultOptions()
	opts.SolverType = SolverLM
	assert.Equal(t, []SolverType{SolverLM, SolverNR, SolverPowellDogLeg}, opts.Methods())

	opts.RetryWithOtherMethods = false
	assert.Equal(t, []SolverType{SolverLM}, opts.Methods())
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, 1.0, (&Bus{}).SetPoint())
	assert.Equal(t, 1.0, (&Branch{}).Module())
	assert.Equal(t, 1.0, (&Branch{}).Modulation())
	assert.InDelta(t, 0.098, (&HvdcLine{Pset: 0.1, LossFactor: 0.02}).Received(), 1e-12)
	assert.Equal(t, "PfVt", ControlPfVt.String())
	assert.Equal(t, "Unknown", BranchKind(9).String())
}
