package store

import (
	"encoding/gob"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/tpcf/bins"
	"github.com/phil-mansfield/tpcf/catalog"
	"github.com/phil-mansfield/tpcf/correlation"
	"github.com/phil-mansfield/tpcf/cosmo"
	"github.com/phil-mansfield/tpcf/paircount"
)

func testScheme() bins.Scheme {
	sc := bins.Scheme{}
	sc.Dims[bins.S] = bins.Uniform{Min: 0, Max: 50, N: 2}
	sc.Dims[bins.Theta] = bins.Uniform{Min: 0, Max: 0.1, N: 2}
	sc.Dims[bins.Z] = bins.Uniform{Min: 0.1, Max: 0.3, N: 2}
	sc.Dims[bins.RA] = bins.Uniform{Min: 0, Max: 1, N: 1}
	sc.Dims[bins.Dec] = bins.Uniform{Min: -0.5, Max: 0.5, N: 1}
	return sc
}

func testAccumulator(job, total int) *paircount.Accumulator {
	hist := func(n int, x float64) paircount.Hist {
		h := paircount.NewHist(n)
		for i := 0; i < n; i++ {
			h[paircount.Weighted][i] = x
			h[paircount.Unweighted][i] = 2 * x
		}
		return h
	}

	return &paircount.Accumulator{
		Scheme:     testScheme(),
		Models:     []cosmo.Model{{H0: 70, OmegaM: 0.3, OmegaL: 0.7}},
		Z1Distr:    [2][]float64{{0.5, 0.5}, {0.25, 0.75}},
		Z2Distr:    [2][]float64{{0.5, 0.5}, {0.25, 0.75}},
		Norms:      paircount.Norms{DD: [2]float64{1, 2}, RR: [2]float64{3, 4}},
		FTheta:     hist(2, 1),
		ZThetaD1R2: hist(4, float64(job)+1),
		ZZTheta:    hist(8, 3),
		Jobs:       []int{job},
		JobTotal:   total,
	}
}

func TestPreprocessedRoundTrip(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "run")
	p := &Preprocessed{
		Scheme: testScheme(),
		Models: []cosmo.Model{
			{H0: 70, OmegaM: 0.3, OmegaL: 0.7},
			{H0: 67.7, OmegaM: 0.31, OmegaL: 0.69},
		},
		Data1: &catalog.DataCatalog{Pts: []catalog.Point{
			{Dec: 0.1, RA: 0.2, Z: 0.15, W: 1},
			{Dec: -0.1, RA: 0.4, Z: 0.25, W: 2},
		}},
		Rand1: &catalog.RandomCatalog{
			NGals: 2, SumW: 3, SumW2: 5,
			ZDistr:  [2][]float64{{1.5, 1.5}, {1, 1}},
			Angular: []catalog.Point{{Dec: 0, RA: 0.5, W: 2}},
			ZBins:   bins.Uniform{Min: 0.1, Max: 0.3, N: 2},
			DecBins: bins.Uniform{Min: -0.5, Max: 0.5, N: 1},
			RABins:  bins.Uniform{Min: 0, Max: 1, N: 1},
		},
		Config: "[nbins]\nS = 2\n",
	}

	require.NoError(t, SavePreprocessed(prefix, p))
	out, err := LoadPreprocessed(prefix)
	require.NoError(t, err)
	assert.Equal(t, p, out)
	assert.Nil(t, out.Data2)
	assert.Nil(t, out.Rand2)

	in := out.Input(true)
	assert.True(t, in.Direct)
	assert.False(t, in.Cross())
	assert.True(t, in.Scheme.Equal(&p.Scheme))

	_, err = LoadPreprocessed(filepath.Join(t.TempDir(), "none"))
	assert.Error(t, err)
}

func TestPartitions(t *testing.T) {
	dir := t.TempDir()
	prefix := filepath.Join(dir, "run")

	for _, job := range []int{2, 0} {
		require.NoError(t, SavePartition(prefix, testAccumulator(job, 3)))
	}
	require.NoError(t, SavePartition(filepath.Join(dir, "run2"),
		testAccumulator(1, 3)))

	files, err := Partitions(prefix)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, PartitionFile{PartitionName(prefix, 0, 3), 0, 3}, files[0])
	assert.Equal(t, PartitionFile{PartitionName(prefix, 2, 3), 2, 3}, files[1])
	assert.Equal(t, []int{1}, MissingJobs(files, 3))

	acc, err := LoadPartition(files[1].Name)
	require.NoError(t, err)
	assert.Equal(t, testAccumulator(2, 3), acc)

	require.NoError(t, SavePartition(prefix, testAccumulator(1, 4)))
	_, err = Partitions(prefix)
	assert.Error(t, err)

	none, err := Partitions(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSavePartitionErrors(t *testing.T) {
	acc := testAccumulator(0, 2)
	acc.Jobs = []int{0, 1}
	assert.Error(t, SavePartition(filepath.Join(t.TempDir(), "run"), acc))
}

func TestOutputRoundTrip(t *testing.T) {
	fname := OutputName(filepath.Join(t.TempDir(), "run"))
	dd := paircount.NewHist(2)
	dd[paircount.Weighted][0] = 4

	results := []correlation.Result{{
		Model:  cosmo.Model{H0: 70, OmegaM: 0.3, OmegaL: 0.7},
		SEdges: []float64{0, 25, 50},
		DD: correlation.Stat{
			Counts:  correlation.Counts{OneD: dd, TwoD: paircount.NewHist(4)},
			OneDErr: paircount.NewHist(2), TwoDErr: paircount.NewHist(4),
		},
		Xi: dd,
	}}

	require.NoError(t, SaveOutput(fname, results))
	out, err := LoadOutput(fname)
	require.NoError(t, err)
	assert.Equal(t, results, out)
}

func TestIncompatibleVersion(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "old.gob")
	f, err := os.Create(fname)
	require.NoError(t, err)
	enc := gob.NewEncoder(f)
	require.NoError(t, enc.Encode("99.0.0"))
	require.NoError(t, enc.Encode(testAccumulator(0, 1)))
	require.NoError(t, f.Close())

	_, err = LoadPartition(fname)
	assert.Error(t, err)
}
