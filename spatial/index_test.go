package spatial

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func greatCircle(a, b []float64) float64 {
	// Vincenty's formula, which is stable at all separations.
	dRA := b[1] - a[1]
	sa, ca := math.Sincos(a[0])
	sb, cb := math.Sincos(b[0])
	sd, cd := math.Sincos(dRA)
	y := math.Hypot(cb*sd, ca*sb-sa*cb*cd)
	x := sa*sb + ca*cb*cd
	return math.Atan2(y, x)
}

func euclid(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += (a[i] - b[i]) * (a[i] - b[i])
	}
	return math.Sqrt(sum)
}

func TestParseMetric(t *testing.T) {
	m, err := ParseMetric("haversine")
	require.NoError(t, err)
	assert.Equal(t, Haversine, m)
	m, err = ParseMetric(" Euclidean ")
	require.NoError(t, err)
	assert.Equal(t, Euclidean, m)

	_, err = ParseMetric("manhattan")
	assert.True(t, errors.Is(err, ErrMetric))
}

func TestBuildErrors(t *testing.T) {
	_, err := Build([][]float64{{0, 0, 0}}, Haversine)
	assert.True(t, errors.Is(err, ErrMetric))
	_, err = Build([][]float64{{0, 0, 0, 0}}, Euclidean)
	assert.True(t, errors.Is(err, ErrMetric))

	idx, err := Build(nil, Haversine)
	require.NoError(t, err)
	ids, dists := idx.QueryRadius([]float64{0, 0}, 1)
	assert.Empty(t, ids)
	assert.Empty(t, dists)
}

func TestQueryRadiusHaversine(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	coords := make([][]float64, 500)
	for i := range coords {
		dec := math.Asin(0.5 * (2*rng.Float64() - 1))
		ra := 2 * rng.Float64()
		coords[i] = []float64{dec, ra}
	}

	idx, err := Build(coords, Haversine)
	require.NoError(t, err)
	assert.Equal(t, 500, idx.Len())

	r := 0.15
	for _, q := range coords[:40] {
		ids, dists := idx.QueryRadius(q, r)

		want := []int{}
		for j, c := range coords {
			if greatCircle(q, c) <= r { want = append(want, j) }
		}
		assert.Equal(t, want, ids)
		for k, j := range ids {
			assert.InDelta(t, greatCircle(q, coords[j]), dists[k], 1e-9)
		}
	}
}

func TestQueryRadiusSelf(t *testing.T) {
	coords := [][]float64{{0.1, 0.2}, {0.1, 0.2}, {0.3, 0.2}}
	idx, _ := Build(coords, Haversine)
	ids, dists := idx.QueryRadius(coords[0], 0.1)
	assert.Equal(t, []int{0, 1}, ids)
	assert.Equal(t, []float64{0, 0}, dists)

	// A radius of pi or more covers the whole sphere.
	ids, _ = idx.QueryRadius([]float64{-1.5, 3}, math.Pi)
	assert.Equal(t, []int{0, 1, 2}, ids)
}

func TestQueryRadiusEuclidean(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	coords := make([][]float64, 400)
	for i := range coords {
		coords[i] = []float64{
			100 * rng.Float64(), 100 * rng.Float64(), 100 * rng.Float64(),
		}
	}
	idx, err := Build(coords, Euclidean)
	require.NoError(t, err)
	assert.Equal(t, Euclidean, idx.Metric())

	r := 12.0
	for _, q := range coords[:30] {
		ids, dists := idx.QueryRadius(q, r)
		want := []int{}
		for j, c := range coords {
			if euclid(q, c) <= r { want = append(want, j) }
		}
		assert.Equal(t, want, ids)
		for k, j := range ids {
			assert.InDelta(t, euclid(q, coords[j]), dists[k], 1e-9)
		}
	}
}

func TestQueryRadiusBadQuery(t *testing.T) {
	idx, err := Build([][]float64{{0, 0}, {0.1, 0.1}}, Haversine)
	require.NoError(t, err)
	assert.Panics(t, func() { idx.QueryRadius([]float64{0, 0, 0}, 1) })
	assert.Panics(t, func() { idx.QueryRadius([]float64{0}, 1) })

	idx, err = Build([][]float64{{1, 2, 3}}, Euclidean)
	require.NoError(t, err)
	assert.Panics(t, func() { idx.QueryRadius([]float64{1, 2, 3, 4}, 1) })
	assert.NotPanics(t, func() { idx.QueryRadius([]float64{1, 2, 3}, 1) })
}
