package paircount

import (
	"errors"
	"fmt"
	"slices"

	"github.com/phil-mansfield/tpcf/bins"
	"github.com/phil-mansfield/tpcf/catalog"
	"github.com/phil-mansfield/tpcf/cosmo"
	"github.com/phil-mansfield/tpcf/logging"
	"github.com/phil-mansfield/tpcf/spatial"
)

// ErrMerge is wrapped by every error caused by merging incompatible
// accumulators.
var ErrMerge = errors.New("incompatible accumulators")

// Norms are the weighted and unweighted total pair counts used to
// normalize each pair count.
type Norms struct {
	DD, D1R2, D2R1, RR [2]float64
}

// Accumulator holds every histogram counted by one or more jobs, along
// with everything needed to reconstruct correlation functions from them.
// An Accumulator is owned by a single job until it's merged.
type Accumulator struct {
	Scheme bins.Scheme
	Models []cosmo.Model

	// Z1Distr and Z2Distr are the redshift marginals of the two random
	// catalogs. They're identical when there's only one.
	Z1Distr, Z2Distr [2][]float64
	Norms            Norms

	FTheta     Hist
	ZThetaD1R2 Hist
	// ZThetaD2R1 is empty when there's only one catalog pair.
	ZThetaD2R1 Hist
	ZZTheta    Hist
	// DirectDD is empty unless direct counting was requested. It's binned
	// in s under Models[0].
	DirectDD Hist

	Jobs     []int
	JobTotal int
}

// Input is everything a counting job needs. Data2 and Rand2 are nil when
// the correlation function of a single catalog pair is measured.
type Input struct {
	Scheme       *bins.Scheme
	Models       []cosmo.Model
	Data1, Data2 *catalog.DataCatalog
	Rand1, Rand2 *catalog.RandomCatalog
	// Direct requests an additional brute-force DD(s) count under the
	// first model.
	Direct bool
}

// Cross returns true if two distinct catalog pairs were given.
func (in *Input) Cross() bool { return in.Data2 != nil }

func (in *Input) validate() error {
	switch {
	case in.Scheme == nil:
		return fmt.Errorf("No binning scheme was given.")
	case len(in.Models) == 0:
		return fmt.Errorf("No cosmology models were given.")
	case in.Data1 == nil || in.Rand1 == nil:
		return fmt.Errorf("The first data and random catalogs are required.")
	case (in.Data2 == nil) != (in.Rand2 == nil):
		return fmt.Errorf("A second data catalog needs a second random " +
			"catalog and vice versa.")
	}

	zBins := in.Scheme.Dims[bins.Z]
	for _, r := range []*catalog.RandomCatalog{in.Rand1, in.Rand2} {
		if r != nil && r.ZBins != zBins {
			return fmt.Errorf("A random catalog was binned over %+v, but the "+
				"redshift bins are %+v.", r.ZBins, zBins)
		}
	}
	return nil
}

// Count runs every counting pass for one job and returns its accumulator.
func Count(in Input, opt Options) (*Accumulator, error) {
	if err := in.validate(); err != nil { return nil, err }
	p := opt.partition()
	if err := p.Validate(); err != nil { return nil, err }
	opt.Partition = p
	log := logging.Or(opt.Logger)

	data1, data2 := in.Data1, in.Data2
	rand1, rand2 := in.Rand1, in.Rand2
	cross := in.Cross()
	if !cross { data2, rand2 = data1, rand1 }

	acc := &Accumulator{
		Scheme: *in.Scheme,
		Models: slices.Clone(in.Models),
		Z1Distr: rand1.ZDistr, Z2Distr: rand2.ZDistr,
		Jobs: []int{p.Current}, JobTotal: p.Total,
	}
	if cross {
		acc.Norms.DD = catalog.CrossNorm(data1, data2)
		acc.Norms.RR = catalog.CrossNorm(rand1, rand2)
		acc.Norms.D2R1 = catalog.CrossNorm(data2, rand1)
	} else {
		acc.Norms.DD = data1.Norm()
		acc.Norms.RR = rand1.Norm()
		acc.Norms.D2R1 = catalog.CrossNorm(data1, rand1)
	}
	acc.Norms.D1R2 = catalog.CrossNorm(data1, rand2)

	same := opt
	same.Same = !cross
	distinct := opt
	distinct.Same = false

	log.Info("Building angular indices", "cross", cross)
	idxRand2, err := angularIndex(rand2)
	if err != nil { return nil, err }
	idxData2, err := angularIndex(data2)
	if err != nil { return nil, err }

	cells := same
	cells.Cells = true
	acc.FTheta = CountFTheta(rand1.Points(), rand2.Points(), idxRand2,
		in.Scheme, cells)
	acc.ZThetaD1R2 = CountZTheta(data1.Points(), rand2.Points(), idxRand2,
		in.Scheme, distinct)
	if cross {
		idxRand1, err := angularIndex(rand1)
		if err != nil { return nil, err }
		acc.ZThetaD2R1 = CountZTheta(data2.Points(), rand1.Points(), idxRand1,
			in.Scheme, distinct)
	}
	acc.ZZTheta = CountZZTheta(data1.Points(), data2.Points(), idxData2,
		in.Scheme, same)

	if in.Direct {
		log.Info("Building comoving index", "model", in.Models[0].String())
		xyz2 := data2.Cartesian(in.Models[0])
		idx, err := spatial.Build(xyz2, spatial.Euclidean)
		if err != nil { return nil, err }
		xyz1 := xyz2
		if cross { xyz1 = data1.Cartesian(in.Models[0]) }
		acc.DirectDD = CountDirect(data1.Points(), data2.Points(), xyz1, idx,
			in.Scheme, same)
	}

	return acc, nil
}

func angularIndex(c catalog.Catalog) (*spatial.Index, error) {
	return spatial.Build(catalog.AngularCoords(c.Points()), spatial.Haversine)
}

// Cross returns true if the accumulator holds two distinct catalog pairs.
func (acc *Accumulator) Cross() bool { return !acc.ZThetaD2R1.Empty() }

// Complete returns true if every job has been merged into acc.
func (acc *Accumulator) Complete() bool {
	return acc.JobTotal > 0 && len(acc.Jobs) == acc.JobTotal
}

// Missing returns the indices of jobs which haven't been merged.
func (acc *Accumulator) Missing() []int {
	out := []int{}
	for i := 0; i < acc.JobTotal; i++ {
		if !slices.Contains(acc.Jobs, i) { out = append(out, i) }
	}
	return out
}

// Merge adds the histograms of other into acc. Merging is associative and
// commutative. An error wrapping ErrMerge is returned and acc is left
// unchanged if the two weren't counted from the same preprocessed input or
// if they share a job.
func (acc *Accumulator) Merge(other *Accumulator) error {
	if err := acc.compatible(other); err != nil { return err }

	for _, pair := range [][2]Hist{
		{acc.FTheta, other.FTheta},
		{acc.ZThetaD1R2, other.ZThetaD1R2},
		{acc.ZThetaD2R1, other.ZThetaD2R1},
		{acc.ZZTheta, other.ZZTheta},
		{acc.DirectDD, other.DirectDD},
	} {
		pair[0].Add(pair[1])
	}

	acc.Jobs = append(acc.Jobs, other.Jobs...)
	slices.Sort(acc.Jobs)
	return nil
}

func (acc *Accumulator) compatible(other *Accumulator) error {
	switch {
	case acc.JobTotal != other.JobTotal:
		return fmt.Errorf("%w: one accumulator was split into %d jobs and "+
			"the other into %d.", ErrMerge, acc.JobTotal, other.JobTotal)
	case !acc.Scheme.Equal(&other.Scheme):
		return fmt.Errorf("%w: the binning schemes are different.", ErrMerge)
	case !slices.Equal(acc.Models, other.Models):
		return fmt.Errorf("%w: the cosmology models are different.", ErrMerge)
	case acc.Norms != other.Norms:
		return fmt.Errorf("%w: the catalog normalizations are different.",
			ErrMerge)
	case !distrEqual(acc.Z1Distr, other.Z1Distr) ||
		!distrEqual(acc.Z2Distr, other.Z2Distr):
		return fmt.Errorf("%w: the random redshift distributions are "+
			"different.", ErrMerge)
	case !acc.FTheta.sameShape(other.FTheta) ||
		!acc.ZThetaD1R2.sameShape(other.ZThetaD1R2) ||
		!acc.ZThetaD2R1.sameShape(other.ZThetaD2R1) ||
		!acc.ZZTheta.sameShape(other.ZZTheta) ||
		!acc.DirectDD.sameShape(other.DirectDD):
		return fmt.Errorf("%w: the histograms have different shapes.",
			ErrMerge)
	}

	for _, j := range other.Jobs {
		if slices.Contains(acc.Jobs, j) {
			return fmt.Errorf("%w: job %d was merged twice.", ErrMerge, j)
		}
	}
	return nil
}

func distrEqual(a, b [2][]float64) bool {
	return slices.Equal(a[0], b[0]) && slices.Equal(a[1], b[1])
}

// Clone returns a deep copy of acc.
func (acc *Accumulator) Clone() *Accumulator {
	out := *acc
	out.Models = slices.Clone(acc.Models)
	out.Jobs = slices.Clone(acc.Jobs)
	out.FTheta = acc.FTheta.Clone()
	out.ZThetaD1R2 = acc.ZThetaD1R2.Clone()
	out.ZThetaD2R1 = acc.ZThetaD2R1.Clone()
	out.ZZTheta = acc.ZZTheta.Clone()
	out.DirectDD = acc.DirectDD.Clone()
	return &out
}
