package correlation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/tpcf/bins"
	"github.com/phil-mansfield/tpcf/paircount"
)

func TestPoissonError(t *testing.T) {
	h := paircount.Hist{{8, 3, 0}, {4, 0, 9}}
	err := PoissonError(h)
	assert.Equal(t, []float64{2, 0, 3}, err[paircount.Unweighted])
	assert.Equal(t, []float64{4, 0, 0}, err[paircount.Weighted])
}

func TestNormalize(t *testing.T) {
	raw := Counts{
		OneD: paircount.Hist{{8, 2}, {4, 1}},
		TwoD: paircount.Hist{{1, 0, 0, 0}, {1, 0, 0, 0}},
	}
	st := Normalize(raw, [2]float64{2, 4})
	assert.Equal(t, []float64{4, 1}, st.OneD[paircount.Weighted])
	assert.Equal(t, []float64{1, 0.25}, st.OneD[paircount.Unweighted])
	assert.Equal(t, []float64{2, 1}, st.OneDErr[paircount.Weighted])
	assert.Equal(t, []float64{0.5, 0.25}, st.OneDErr[paircount.Unweighted])
	// The raw counts are left alone.
	assert.Equal(t, []float64{8, 2}, raw.OneD[paircount.Weighted])

	zero := Normalize(raw, [2]float64{0, 4})
	assert.Equal(t, []float64{0, 0}, zero.OneD[paircount.Weighted])
}

func TestXiRoundTrip(t *testing.T) {
	counts := Counts{
		OneD: paircount.Hist{{5, 0, 2.5, 1}, {10, 0, 4, 1}},
		TwoD: paircount.Hist{{1, 2, 0, 4}, {1, 2, 0, 4}},
	}
	norm := [2]float64{10, 20}
	norms := paircount.Norms{DD: norm, D1R2: norm, D2R1: norm, RR: norm}
	edges := []float64{0, 1, 2, 3, 4}

	res := NewResult(testModel, edges, counts, counts, counts, counts, norms)
	for ch := 0; ch < 2; ch++ {
		assert.Equal(t, []float64{0, 0, 0, 0}, res.Xi[ch])
		assert.Equal(t, []float64{0, 0, 0, 0}, res.XiS2[ch])
		assert.Equal(t, []float64{0, 0, 0, 0}, res.Xi2D[ch])
	}

	// The error is DD_err / RR, and empty RR bins give zero.
	ddErr := res.DD.OneDErr[paircount.Unweighted][0]
	rr := res.RR.OneD[paircount.Unweighted][0]
	assert.InDelta(t, ddErr/rr, res.XiErr[paircount.Unweighted][0], 1e-12)
	assert.Equal(t, 0.0, res.XiErr[paircount.Unweighted][1])
	assert.InDelta(t, res.XiErr[paircount.Unweighted][2]*2.5*2.5,
		res.XiS2Err[paircount.Unweighted][2], 1e-12)
}

func TestXi(t *testing.T) {
	dd := paircount.Hist{{3, 1}, {3, 1}}
	dr := paircount.Hist{{1, 1}, {1, 1}}
	rr := paircount.Hist{{2, 0}, {2, 0}}
	ddErr := paircount.Hist{{1, 1}, {1, 1}}

	xi, xiErr := Xi(dd, dr, dr, rr, ddErr)
	assert.Equal(t, []float64{(3 - 1 - 1 + 2) / 2.0, 0}, xi[0])
	assert.Equal(t, []float64{0.5, 0}, xiErr[1])
}

func TestEstimate(t *testing.T) {
	acc := testAccumulator(150, 4, 6)
	for ch := 0; ch < 2; ch++ {
		for i := range acc.FTheta[ch] {
			acc.FTheta[ch][i] = 100
		}
		for i := range acc.ZThetaD1R2[ch] {
			acc.ZThetaD1R2[ch][i] = 10
		}
		for i := range acc.ZZTheta[ch] {
			acc.ZZTheta[ch][i] = 1
		}
		for i := range acc.Z1Distr[ch] {
			acc.Z1Distr[ch][i] = 1.0 / 6
		}
	}
	acc.DirectDD = paircount.NewHist(acc.Scheme.NumBins(bins.S))
	acc.Norms = paircount.Norms{
		DD: [2]float64{1, 1}, D1R2: [2]float64{1, 1},
		D2R1: [2]float64{1, 1}, RR: [2]float64{1, 1},
	}

	res, err := Estimate(acc, nil)
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Len(t, res[0].SEdges, 11)
	assert.Len(t, res[0].Xi[0], 10)
	assert.Len(t, res[0].Xi2D[0], 100)
	require.NotNil(t, res[0].Direct)
	assert.Len(t, res[0].XiDirect[0], 10)

	for _, x := range res[0].Xi[1] {
		assert.False(t, math.IsNaN(x))
	}

	acc.JobTotal = 2
	_, err = Estimate(acc, nil)
	assert.Error(t, err)
}
