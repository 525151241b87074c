/*package catalog contains the galaxy and random catalogs which pairs are
counted between. Data catalogs hold every galaxy explicitly. Random catalogs
are large, so they are reduced to a redshift histogram and an angular
histogram on the assumption that the two are separable.*/
package catalog

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/phil-mansfield/tpcf/bins"
	"github.com/phil-mansfield/tpcf/cosmo"
)

// ErrData is wrapped by every error caused by a malformed input catalog.
var ErrData = errors.New("invalid catalog")

// Point is a single galaxy. Angles are in radians. For the angular points of
// a RandomCatalog, W is the number of galaxies in the cell and Z is unused.
type Point struct {
	Dec, RA, Z, W float64
}

// Catalog is the capability shared by data and random catalogs.
type Catalog interface {
	// Points returns the points which pairs are counted between.
	Points() []Point
	// Count returns the number of galaxies the catalog represents.
	Count() int
	WeightSum() float64
	WeightSqSum() float64
}

// Bounds is an inclusive box in (ra, dec, z). Angles are in radians.
type Bounds struct {
	RAMin, RAMax, DecMin, DecMax, ZMin, ZMax float64
}

// SchemeBounds returns the bounds covered by a binning scheme.
func SchemeBounds(sc *bins.Scheme) Bounds {
	return Bounds{
		RAMin: sc.Min(bins.RA), RAMax: sc.Max(bins.RA),
		DecMin: sc.Min(bins.Dec), DecMax: sc.Max(bins.Dec),
		ZMin: sc.Min(bins.Z), ZMax: sc.Max(bins.Z),
	}
}

func (b Bounds) Contains(p Point) bool {
	return p.RA >= b.RAMin && p.RA <= b.RAMax &&
		p.Dec >= b.DecMin && p.Dec <= b.DecMax &&
		p.Z >= b.ZMin && p.Z <= b.ZMax
}

// SelfNorm returns the number of distinct pairs within c, weighted and
// unweighted: 0.5 ((sum w)^2 - sum w^2) and 0.5 (N^2 - N).
func SelfNorm(c Catalog) [2]float64 {
	sw, n := c.WeightSum(), float64(c.Count())
	return [2]float64{0.5 * (sw*sw - c.WeightSqSum()), 0.5 * (n*n - n)}
}

// CrossNorm returns the number of pairs between a and b, weighted and
// unweighted.
func CrossNorm(a, b Catalog) [2]float64 {
	return [2]float64{
		a.WeightSum() * b.WeightSum(),
		float64(a.Count()) * float64(b.Count()),
	}
}

// AngularCoords returns the (dec, ra) pairs of pts, which is the layout
// expected by haversine indices.
func AngularCoords(pts []Point) [][]float64 {
	out := make([][]float64, len(pts))
	for i, p := range pts {
		out[i] = []float64{p.Dec, p.RA}
	}
	return out
}

// Cartesian returns the comoving (x, y, z) positions of pts under model.
func Cartesian(pts []Point, model cosmo.Model) [][]float64 {
	zs := make([]float64, len(pts))
	for i := range pts {
		zs[i] = pts[i].Z
	}
	rs := model.ZsToDistances(zs)

	out := make([][]float64, len(pts))
	for i, p := range pts {
		sinDec, cosDec := math.Sincos(p.Dec)
		sinRA, cosRA := math.Sincos(p.RA)
		out[i] = []float64{
			rs[i] * cosDec * cosRA, rs[i] * cosDec * sinRA, rs[i] * sinDec,
		}
	}
	return out
}

func weights(pts []Point) []float64 {
	w := make([]float64, len(pts))
	for i := range pts {
		w[i] = pts[i].W
	}
	return w
}

func weightSums(pts []Point) (sum, sqSum float64) {
	w := weights(pts)
	sum = floats.Sum(w)
	return sum, floats.Dot(w, w)
}
