package index

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity_Identical(t *testing.T) {
	v := []float32{0.1, 0.2, 0.3}
	assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)
}

func TestCosineSimilarity_Opposite(t *testing.T) {
	a := []float32{1, 0, 0}
	b := []float32{-1, 0, 0}
	assert.InDelta(t, -1.0, CosineSimilarity(a, b), 1e-9)
}

func TestCosineSimilarity_Orthogonal(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{0, 1}
	assert.InDelta(t, 0.0, CosineSimilarity(a, b), 1e-9)
}

func TestCosineSimilarity_ZeroNorm(t *testing.T) {
	a := []float32{0, 0, 0}
	b := []float32{1, 2, 3}
	assert.Equal(t, 0.0, CosineSimilarity(a, b))
	assert.Equal(t, 0.0, CosineSimilarity(b, a))
	assert.Equal(t, 0.0, CosineSimilarity(a, a))
}

func TestCosineSimilarity_MismatchedOrEmpty(t *testing.T) {
	assert.Equal(t, 0.0, CosineSimilarity(nil, nil))
	assert.Equal(t, 0.0, CosineSimilarity([]float32{1}, nil))
	assert.Equal(t, 0.0, CosineSimilarity([]float32{1, 2}, []float32{1}))
}

func TestCosineSimilarity_NonFiniteInputs(t *testing.T) {
	a := []float32{float32(math.Inf(1)), 1}
	b := []float32{1, 1}
	got := CosineSimilarity(a, b)
	assert.False(t, math.IsNaN(got))
	assert.False(t, math.IsInf(got, 0))
	assert.True(t, got >= -1 && got <= 1)
}

func TestCosineSimilarity_Clamped(t *testing.T) {
	// Large parallel vectors can drift past 1.0 in float arithmetic; the
	// result must stay within [-1, 1].
	a := make([]float32, 768)
	for i := range a {
		a[i] = 1e18
	}
	got := CosineSimilarity(a, a)
	assert.True(t, got >= -1 && got <= 1)
}
