package debug

import (
	"bytes"
	"encoding/json"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SanPen/GridCal-sub027/types"
)

func sampleRecord() *Record {
	r := NewRecord("run-1", "two-bus")
	r.Update(
		types.ConvergenceReport{Island: 0, Method: types.SolverNR, Iterations: 3, Converged: true, Trace: []float64{0.5, 1e-3, 1e-7, 1e-13}},
		types.ConvergenceReport{Island: 1, Method: types.SolverLM, Iterations: 2, Trace: []float64{1, 0, math.Inf(1)}, Reason: types.ReasonDiverged},
	)
	return r
}

func TestRecordRender(t *testing.T) {
	r := sampleRecord()
	assert.Equal(t, 5, r.Iterations())

	var buf bytes.Buffer
	// +Inf 不能编码为JSON
	require.Error(t, r.Render(&buf))

	r.Reports[1].Trace = []float64{1, 0.1}
	buf.Reset()
	require.NoError(t, r.Render(&buf))
	var back Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, "run-1", back.RunID)
	assert.Len(t, back.Reports, 2)
	assert.Equal(t, types.SolverLM, back.Reports[1].Method)
}

func TestChartsRender(t *testing.T) {
	c := NewCharts(sampleRecord())
	var buf bytes.Buffer
	require.NoError(t, c.Render(&buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestChartsEmpty(t *testing.T) {
	c := NewCharts(NewRecord("run-2", "empty"))
	path := filepath.Join(t.TempDir(), "empty.svg")
	require.NoError(t, c.Save(path))
	assert.FileExists(t, path)
}
