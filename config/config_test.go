package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SanPen/GridCal-sub027/types"
)

func TestParseOverDefaults(t *testing.T) {
	opts, err := Parse([]byte(`
solver_type: LM
tolerance: 1.0e-6
enforce_reactive_power_limits: true
retry_with_other_methods: false
`))
	require.NoError(t, err)
	assert.Equal(t, types.SolverLM, opts.SolverType)
	assert.Equal(t, 1e-6, opts.Tolerance)
	assert.True(t, opts.EnforceReactivePowerLimits)
	assert.False(t, opts.RetryWithOtherMethods)
	assert.Equal(t, types.MaxIterations, opts.MaxIterations, "unset fields keep defaults")
}

func TestParseEmpty(t *testing.T) {
	opts, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultOptions(), opts)
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"unknown method": "solver_type: HELM",
		"zero tolerance": "tolerance: 0",
		"huge tolerance": "tolerance: 2",
		"no iterations":  "max_iterations: 0",
		"unknown field":  "tolerence: 1e-6",
		"bad yaml":       "tolerance: [1",
		"negative band":  "q_limit_band: -1",
		"no outer loops": "max_outer_loops: 0",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.ErrorIs(t, err, types.ErrConfiguration)
		})
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "options.yaml")
	require.NoError(t, os.WriteFile(path, []byte("solver_type: PowellDogLeg\nmax_iterations: 40\n"), 0o600))

	t.Setenv(EnvMaxIterations, "12")
	t.Setenv(EnvWorkers, "3")
	opts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, types.SolverPowellDogLeg, opts.SolverType)
	assert.Equal(t, 12, opts.MaxIterations)
	assert.Equal(t, 3, opts.Workers)

	t.Setenv(EnvTolerance, "abc")
	_, err = Load(path)
	assert.ErrorIs(t, err, types.ErrConfiguration)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMarshalRoundTrip(t *testing.T) {
	opts := types.DefaultOptions()
	opts.DistributedSlack = true
	data, err := Marshal(opts)
	require.NoError(t, err)
	assert.Contains(t, string(data), "distributed_slack: true")
	back, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, opts, back)
}
