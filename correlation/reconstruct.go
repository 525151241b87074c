/*package correlation reconstructs separation-binned pair counts from the
angular and redshift histograms of an Accumulator and turns them into
correlation function estimates.

Each reconstruction loops over every theta bin and every pair of redshift
bins, so its cost is O(n_theta * n_z^2) per channel per model.*/
package correlation

import (
	"log/slog"
	"math"

	"github.com/phil-mansfield/tpcf/bins"
	"github.com/phil-mansfield/tpcf/cosmo"
	"github.com/phil-mansfield/tpcf/logging"
	"github.com/phil-mansfield/tpcf/paircount"
)

// Counts are separation-binned pair counts for a single model. OneD is
// binned in s. TwoD is binned in (sigma, pi) with both axes using the s
// bins; bin (i, j) is at index i*ns + j.
type Counts struct {
	OneD, TwoD paircount.Hist
}

func newCounts(ns int) Counts {
	return Counts{OneD: paircount.NewHist(ns), TwoD: paircount.NewHist(ns * ns)}
}

// DRMode selects which data-random cross term is reconstructed.
type DRMode int

const (
	// D1R2 pairs the first data catalog with the second random catalog.
	D1R2 DRMode = iota
	// D2R1 pairs the second data catalog with the first random catalog.
	// It falls back to D1R2 when there's only one catalog pair.
	D2R1
)

// Reconstructor converts the histograms of a complete Accumulator into
// pair counts for each of its models.
type Reconstructor struct {
	Acc    *paircount.Accumulator
	Logger *slog.Logger
}

// geometry is the per-model binning used by every reconstruction.
type geometry struct {
	s          bins.Uniform
	r          []float64
	cos        []float64
	sinHalf    []float64
	cosHalf    []float64
	nTheta, nz int
}

func newGeometry(sc *bins.Scheme, model cosmo.Model) *geometry {
	edges := sc.DistanceEdges(model)
	r := make([]float64, len(edges)-1)
	for i := range r {
		r[i] = (edges[i] + edges[i+1]) / 2
	}

	theta := sc.Centers(bins.Theta)
	g := &geometry{
		s: sc.Dims[bins.S], r: r,
		cos:     make([]float64, len(theta)),
		sinHalf: make([]float64, len(theta)),
		cosHalf: make([]float64, len(theta)),
		nTheta:  len(theta), nz: len(r),
	}
	for i, th := range theta {
		g.cos[i] = math.Cos(th)
		g.sinHalf[i], g.cosHalf[i] = math.Sincos(th / 2)
	}
	return g
}

// fill adds w to the bins of a pair at distances r1 and r2 separated by
// theta bin it.
func (g *geometry) fill(c *Counts, ch, it int, r1, r2, w float64) {
	if w == 0 { return }

	s2 := r1*r1 + r2*r2 - 2*r1*r2*g.cos[it]
	if s2 < 0 { s2 = 0 }
	if is, ok := g.s.Index(math.Sqrt(s2)); ok {
		c.OneD[ch][is] += w
	}

	sigma := g.sinHalf[it] * (r1 + r2)
	pi := g.cosHalf[it] * math.Abs(r1-r2)
	isig, okSig := g.s.Index(sigma)
	ipi, okPi := g.s.Index(pi)
	if okSig && okPi {
		c.TwoD[ch][isig*g.s.N+ipi] += w
	}
}

func (rc Reconstructor) each(name string, f func(g *geometry) Counts) []Counts {
	log := logging.Or(rc.Logger)
	out := make([]Counts, len(rc.Acc.Models))
	for i, m := range rc.Acc.Models {
		log.Debug("Reconstructing", "counts", name, "model", m.String())
		out[i] = f(newGeometry(&rc.Acc.Scheme, m))
	}
	return out
}

// DD reconstructs data-data counts from the z-z-theta histogram.
func (rc Reconstructor) DD() []Counts {
	zz := rc.Acc.ZZTheta
	return rc.each("DD", func(g *geometry) Counts {
		c := newCounts(g.s.N)
		nz := g.nz
		for ch := 0; ch < 2; ch++ {
			for it := 0; it < g.nTheta; it++ {
				for iz := 0; iz < nz; iz++ {
					row := zz[ch][(it*nz+iz)*nz : (it*nz+iz+1)*nz]
					for jz, w := range row {
						g.fill(&c, ch, it, g.r[iz], g.r[jz], w)
					}
				}
			}
		}
		return c
	})
}

// DR reconstructs data-random counts from a z-theta histogram and the
// redshift marginal of the matching random catalog.
func (rc Reconstructor) DR(mode DRMode) []Counts {
	zt, zDistr := rc.Acc.ZThetaD1R2, rc.Acc.Z2Distr
	if mode == D2R1 && rc.Acc.Cross() {
		zt, zDistr = rc.Acc.ZThetaD2R1, rc.Acc.Z1Distr
	}

	return rc.each("DR", func(g *geometry) Counts {
		c := newCounts(g.s.N)
		nz := g.nz
		for ch := 0; ch < 2; ch++ {
			for kz := 0; kz < nz; kz++ {
				pz := zDistr[ch][kz]
				if pz == 0 { continue }
				for it := 0; it < g.nTheta; it++ {
					row := zt[ch][it*nz : (it+1)*nz]
					for iz, w := range row {
						g.fill(&c, ch, it, g.r[kz], g.r[iz], w*pz)
					}
				}
			}
		}
		return c
	})
}

// RR reconstructs random-random counts from f(theta) and the redshift
// marginals of the random catalogs. The weighted channel of f(theta) is the
// number of random galaxy pairs, so it's used for both output channels.
func (rc Reconstructor) RR() []Counts {
	f := rc.Acc.FTheta[paircount.Weighted]
	z1, z2 := rc.Acc.Z1Distr, rc.Acc.Z2Distr

	return rc.each("RR", func(g *geometry) Counts {
		c := newCounts(g.s.N)
		nz := g.nz
		for ch := 0; ch < 2; ch++ {
			for kz := 0; kz < nz; kz++ {
				p2 := z2[ch][kz]
				if p2 == 0 { continue }
				for it := 0; it < g.nTheta; it++ {
					for iz := 0; iz < nz; iz++ {
						g.fill(&c, ch, it, g.r[kz], g.r[iz], f[it]*z1[ch][iz]*p2)
					}
				}
			}
		}
		return c
	})
}
