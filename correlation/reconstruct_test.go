package correlation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/tpcf/bins"
	"github.com/phil-mansfield/tpcf/cosmo"
	"github.com/phil-mansfield/tpcf/paircount"
)

var testModel = cosmo.Model{H0: 70, OmegaM: 0.3, OmegaL: 0.7}

// testAccumulator returns an empty, complete accumulator with nTheta theta
// bins and nz redshift bins.
func testAccumulator(sMax float64, nTheta, nz int) *paircount.Accumulator {
	acc := &paircount.Accumulator{
		Models: []cosmo.Model{testModel}, Jobs: []int{0}, JobTotal: 1,
	}
	acc.Scheme.Dims[bins.S] = bins.Uniform{Min: 0, Max: sMax, N: 10}
	acc.Scheme.Dims[bins.Theta] = bins.Uniform{Min: 0, Max: 0.04, N: nTheta}
	acc.Scheme.Dims[bins.Z] = bins.Uniform{Min: 0.4, Max: 0.6, N: nz}
	acc.Scheme.Dims[bins.RA] = bins.Uniform{Min: 0, Max: 1, N: 1}
	acc.Scheme.Dims[bins.Dec] = bins.Uniform{Min: 0, Max: 1, N: 1}

	acc.FTheta = paircount.NewHist(nTheta)
	acc.ZThetaD1R2 = paircount.NewHist(nTheta * nz)
	acc.ZZTheta = paircount.NewHist(nTheta * nz * nz)
	acc.Z1Distr = [2][]float64{make([]float64, nz), make([]float64, nz)}
	acc.Z2Distr = acc.Z1Distr
	return acc
}

func TestDDSinglePair(t *testing.T) {
	acc := testAccumulator(200, 2, 4)
	nz := 4
	// theta bin 1, query z bin 1, neighbor z bin 2.
	acc.ZZTheta[paircount.Weighted][(1*nz+1)*nz+2] = 2.5
	acc.ZZTheta[paircount.Unweighted][(1*nz+1)*nz+2] = 1

	edges := acc.Scheme.DistanceEdges(testModel)
	r1, r2 := (edges[1]+edges[2])/2, (edges[2]+edges[3])/2
	theta := acc.Scheme.Centers(bins.Theta)[1]
	s := math.Sqrt(r1*r1 + r2*r2 - 2*r1*r2*math.Cos(theta))
	is, ok := acc.Scheme.Index(bins.S, s)
	require.True(t, ok)
	sigma := math.Sin(theta/2) * (r1 + r2)
	pi := math.Cos(theta/2) * math.Abs(r1-r2)
	isig, ok1 := acc.Scheme.Index(bins.S, sigma)
	ipi, ok2 := acc.Scheme.Index(bins.S, pi)
	require.True(t, ok1 && ok2)

	dd := Reconstructor{Acc: acc}.DD()
	require.Len(t, dd, 1)
	for ch, w := range []float64{2.5, 1} {
		assert.Equal(t, w, dd[0].OneD.Sum()[ch])
		assert.Equal(t, w, dd[0].OneD[ch][is])
		assert.Equal(t, w, dd[0].TwoD[ch][isig*10+ipi])
	}
}

func TestReconstructionConservesPairs(t *testing.T) {
	// Every separation fits inside a huge s range, so no pairs are lost.
	nTheta, nz := 3, 5
	acc := testAccumulator(1e5, nTheta, nz)
	for ch := 0; ch < 2; ch++ {
		for i := range acc.FTheta[ch] {
			acc.FTheta[ch][i] = float64(10*ch + i + 1)
		}
		for i := range acc.ZThetaD1R2[ch] {
			acc.ZThetaD1R2[ch][i] = float64((i*7)%5 + ch)
		}
		for i := range acc.ZZTheta[ch] {
			acc.ZZTheta[ch][i] = float64((i*3)%4 + ch)
		}
		for i := 0; i < nz; i++ {
			acc.Z1Distr[ch][i] = 0.1 * float64(i+ch+1)
		}
	}

	rc := Reconstructor{Acc: acc}
	dd, dr, rr := rc.DD()[0], rc.DR(D1R2)[0], rc.RR()[0]
	drSame := rc.DR(D2R1)[0]

	for ch := 0; ch < 2; ch++ {
		zSum := 0.0
		for _, p := range acc.Z1Distr[ch] {
			zSum += p
		}
		ztSum := acc.ZThetaD1R2.Sum()[ch]
		fSum := acc.FTheta.Sum()[paircount.Weighted]

		assert.InDelta(t, acc.ZZTheta.Sum()[ch], dd.OneD.Sum()[ch], 1e-9)
		assert.InDelta(t, ztSum*zSum, dr.OneD.Sum()[ch], 1e-9)
		assert.InDelta(t, fSum*zSum*zSum, rr.OneD.Sum()[ch], 1e-9)
		assert.InDelta(t, acc.ZZTheta.Sum()[ch], dd.TwoD.Sum()[ch], 1e-9)
		assert.Equal(t, dr.OneD, drSame.OneD)
	}
}

func TestDRUsesMatchingRandoms(t *testing.T) {
	nTheta, nz := 1, 2
	acc := testAccumulator(1e5, nTheta, nz)
	acc.ZThetaD1R2[paircount.Unweighted][0] = 1
	acc.ZThetaD2R1 = paircount.NewHist(nTheta * nz)
	acc.ZThetaD2R1[paircount.Unweighted][1] = 1
	acc.Z1Distr = [2][]float64{{0, 0}, {3, 0}}
	acc.Z2Distr = [2][]float64{{0, 0}, {0, 5}}

	rc := Reconstructor{Acc: acc}
	d1r2, d2r1 := rc.DR(D1R2)[0], rc.DR(D2R1)[0]
	assert.InDelta(t, 5, d1r2.OneD.Sum()[paircount.Unweighted], 1e-12)
	assert.InDelta(t, 3, d2r1.OneD.Sum()[paircount.Unweighted], 1e-12)
}
