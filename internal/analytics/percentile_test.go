package analytics

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentileEmpty(t *testing.T) {
	for _, p := range []float64{0, 0.5, 0.95, 1} {
		assert.Nil(t, Percentile(nil, p))
		assert.Nil(t, Percentile([]float64{}, p))
	}
}

func TestPercentileBounds(t *testing.T) {
	values := []float64{42, 3, 17, 99, 1, 56}

	p0 := Percentile(values, 0)
	p1 := Percentile(values, 1)
	require.NotNil(t, p0)
	require.NotNil(t, p1)
	assert.Equal(t, 1.0, *p0)
	assert.Equal(t, 99.0, *p1)
}

func TestPercentileInterpolation(t *testing.T) {
	values := []float64{10, 20, 30, 40}

	// index = (n-1)*p = 3*0.5 = 1.5 -> midway between 20 and 30
	med := Percentile(values, 0.5)
	require.NotNil(t, med)
	assert.Equal(t, 25.0, *med)

	// index = 3*0.25 = 0.75 -> 10 + 0.75*(20-10)
	q1 := Percentile(values, 0.25)
	require.NotNil(t, q1)
	assert.InDelta(t, 17.5, *q1, 1e-9)
}

func TestPercentileSingleValue(t *testing.T) {
	for _, p := range []float64{0, 0.5, 1} {
		v := Percentile([]float64{7}, p)
		require.NotNil(t, v)
		assert.Equal(t, 7.0, *v)
	}
}

func TestPercentileMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	values := make([]float64, 100)
	for i := range values {
		values[i] = rng.Float64() * 1000
	}

	prev := Percentile(values, 0)
	require.NotNil(t, prev)
	for p := 0.01; p <= 1.0; p += 0.01 {
		cur := Percentile(values, p)
		require.NotNil(t, cur)
		assert.GreaterOrEqual(t, *cur, *prev, "percentile must be non-decreasing in p")
		prev = cur
	}
}

func TestPercentileDoesNotMutateInput(t *testing.T) {
	values := []float64{3, 1, 2}
	Percentile(values, 0.5)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestMedian(t *testing.T) {
	m := Median([]float64{1, 2, 3, 4, 5})
	require.NotNil(t, m)
	assert.Equal(t, 3.0, *m)
}
