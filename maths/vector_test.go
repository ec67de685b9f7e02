package maths

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNorms(t *testing.T) {
	x := []float64{3, -4}
	assert.Equal(t, 4.0, NormInf(x))
	assert.Equal(t, 5.0, Norm2(x))
	assert.Equal(t, 0.0, NormInf(nil))
	assert.True(t, math.IsNaN(NormInf([]float64{1, math.NaN()})))
}

func TestAxpy(t *testing.T) {
	y := []float64{1, 1}
	Axpy(2, []float64{1, 2}, y)
	assert.Equal(t, []float64{3, 5}, y)
	assert.Panics(t, func() { Axpy(1, []float64{1}, y) })
	assert.Equal(t, []float64{-3, -5}, Scale(-1, y))
}

func TestAllFinite(t *testing.T) {
	assert.True(t, AllFinite([]float64{0, 1e300}))
	assert.False(t, AllFinite([]float64{math.Inf(1)}))
	assert.True(t, AllFiniteComplex([]complex128{1 + 1i}))
	assert.False(t, AllFiniteComplex([]complex128{complex(0, math.NaN())}))
}
