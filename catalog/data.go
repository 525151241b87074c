package catalog

import (
	"github.com/phil-mansfield/tpcf/bins"
	"github.com/phil-mansfield/tpcf/cosmo"
)

// DataCatalog is a catalog of explicit galaxies.
type DataCatalog struct {
	Pts []Point
}

// NewData returns a catalog containing the points which lie within b.
// points is not modified.
func NewData(points []Point, b Bounds) *DataCatalog {
	pts := make([]Point, 0, len(points))
	for _, p := range points {
		if b.Contains(p) { pts = append(pts, p) }
	}
	return &DataCatalog{Pts: pts}
}

func (c *DataCatalog) Points() []Point { return c.Pts }
func (c *DataCatalog) Count() int { return len(c.Pts) }

func (c *DataCatalog) WeightSum() float64 {
	sum, _ := weightSums(c.Pts)
	return sum
}

func (c *DataCatalog) WeightSqSum() float64 {
	_, sqSum := weightSums(c.Pts)
	return sqSum
}

// Norm returns the weighted and unweighted number of distinct pairs.
func (c *DataCatalog) Norm() [2]float64 { return SelfNorm(c) }

// Cartesian returns the comoving positions of the catalog under model.
func (c *DataCatalog) Cartesian(model cosmo.Model) [][]float64 {
	return Cartesian(c.Pts, model)
}

// RedshiftDistr histograms the catalog's redshifts and divides by the
// number of galaxies. If weighted is set, each galaxy contributes its
// weight instead of one.
func (c *DataCatalog) RedshiftDistr(zBins bins.Uniform, weighted bool) []float64 {
	out := make([]float64, zBins.N)
	for _, p := range c.Pts {
		i, ok := zBins.Index(p.Z)
		if !ok { continue }
		if weighted {
			out[i] += p.W
		} else {
			out[i]++
		}
	}

	if n := len(c.Pts); n > 0 {
		for i := range out {
			out[i] /= float64(n)
		}
	}
	return out
}

// AngularDistr returns the unweighted number of galaxies in each cell of a
// dec x ra grid. Cell (i, j) is at index i*ra.N + j.
func (c *DataCatalog) AngularDistr(dec, ra bins.Uniform) []float64 {
	out := make([]float64, dec.N*ra.N)
	for _, p := range c.Pts {
		i, okDec := dec.Index(p.Dec)
		j, okRA := ra.Index(p.RA)
		if okDec && okRA { out[i*ra.N+j]++ }
	}
	return out
}

// ToRandom reduces the catalog to its redshift and angular marginals using
// the binning of sc.
func (c *DataCatalog) ToRandom(sc *bins.Scheme) *RandomCatalog {
	zBins, dec, ra := sc.Dims[bins.Z], sc.Dims[bins.Dec], sc.Dims[bins.RA]
	sum, sqSum := weightSums(c.Pts)

	r := &RandomCatalog{
		NGals: len(c.Pts), SumW: sum, SumW2: sqSum,
		ZDistr: [2][]float64{
			c.RedshiftDistr(zBins, true), c.RedshiftDistr(zBins, false),
		},
		ZBins: zBins, DecBins: dec, RABins: ra,
	}

	hist := c.AngularDistr(dec, ra)
	decs, ras := dec.Centers(), ra.Centers()
	for i := range decs {
		for j := range ras {
			n := hist[i*ra.N+j]
			if n == 0 { continue }
			r.Angular = append(r.Angular, Point{Dec: decs[i], RA: ras[j], W: n})
		}
	}

	return r
}
