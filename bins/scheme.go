/*package bins defines the uniform histograms that every pair count is
accumulated into. A Scheme is built once during preprocessing and must be
identical across every job that is later merged.*/
package bins

import (
	"errors"
	"fmt"
	"math"

	"github.com/soniakeys/unit"

	"github.com/phil-mansfield/tpcf/cosmo"
)

// ErrConfig is wrapped by every error caused by invalid limits or bin counts.
var ErrConfig = errors.New("invalid binning")

// Dim identifies one of the binned quantities.
type Dim int

const (
	S Dim = iota
	Theta
	Z
	RA
	Dec
	NumDims
)

func (d Dim) String() string {
	switch d {
	case S: return "s"
	case Theta: return "theta"
	case Z: return "z"
	case RA: return "ra"
	case Dec: return "dec"
	}
	return fmt.Sprintf("Dim(%d)", int(d))
}

// Limits are the survey bounds as they appear in a config file. Angles are in
// Unit, which is either "deg" or "rad".
type Limits struct {
	SMax           float64
	RAMin, RAMax   float64
	DecMin, DecMax float64
	ZMin, ZMax     float64
	Unit           string
}

// Radians returns the angular limits in radians.
func (lim Limits) Radians() (raMin, raMax, decMin, decMax float64, err error) {
	switch lim.Unit {
	case "rad":
		return lim.RAMin, lim.RAMax, lim.DecMin, lim.DecMax, nil
	case "deg":
		return unit.AngleFromDeg(lim.RAMin).Rad(),
			unit.AngleFromDeg(lim.RAMax).Rad(),
			unit.AngleFromDeg(lim.DecMin).Rad(),
			unit.AngleFromDeg(lim.DecMax).Rad(), nil
	}
	return 0, 0, 0, 0, fmt.Errorf("%w: the angular unit '%s' isn't "+
		"recognized. Use deg or rad.", ErrConfig, lim.Unit)
}

// NBins are the requested bin counts. If Auto is set, only S (or BinWidthS,
// when it's positive) is used and the other counts are derived from it.
type NBins struct {
	S, Theta, Z, RA, Dec int
	Auto                 bool
	BinWidthS            float64
}

// Scheme is the full set of histograms for one redshift slice.
type Scheme struct {
	Dims [NumDims]Uniform
}

// New creates the Scheme for redshift slice islice out of nslice. models is
// the set of cosmologies the counts will be reconstructed under.
func New(
	lim Limits, nb NBins, models []cosmo.Model, islice, nslice int,
) (*Scheme, error) {
	raMin, raMax, decMin, decMax, err := lim.Radians()
	if err != nil { return nil, err }

	switch {
	case len(models) == 0:
		return nil, fmt.Errorf("%w: no cosmology models were given.",
			ErrConfig)
	case nslice <= 0:
		return nil, fmt.Errorf("%w: the number of redshift slices is %d, "+
			"but it must be positive.", ErrConfig, nslice)
	case islice < 0 || islice >= nslice:
		return nil, fmt.Errorf("%w: the redshift slice index is %d, but it "+
			"must be in the range [0, %d).", ErrConfig, islice, nslice)
	case !(lim.SMax > 0):
		return nil, fmt.Errorf("%w: s_max = %g, but it must be positive.",
			ErrConfig, lim.SMax)
	case !(raMax > raMin):
		return nil, fmt.Errorf("%w: the ra limits [%g, %g] are inverted.",
			ErrConfig, lim.RAMin, lim.RAMax)
	case !(decMax > decMin):
		return nil, fmt.Errorf("%w: the dec limits [%g, %g] are inverted.",
			ErrConfig, lim.DecMin, lim.DecMax)
	case !(lim.ZMax > lim.ZMin) || lim.ZMin < 0:
		return nil, fmt.Errorf("%w: the redshift limits [%g, %g] must be "+
			"non-negative and increasing.", ErrConfig, lim.ZMin, lim.ZMax)
	}

	near := cosmo.Nearest(models, lim.ZMin)
	zlo, zhi := zSlice(lim.ZMin, lim.ZMax, lim.SMax, islice, nslice, near)

	sc := &Scheme{}
	sc.Dims[S] = Uniform{0, lim.SMax, nb.S}
	sc.Dims[Theta] = Uniform{0, MaxAngle(lim.SMax, near.ZToDistance(lim.ZMin)),
		nb.Theta}
	sc.Dims[Z] = Uniform{zlo, zhi, nb.Z}
	sc.Dims[RA] = Uniform{raMin, raMax, nb.RA}
	sc.Dims[Dec] = Uniform{decMin, decMax, nb.Dec}

	if nb.Auto {
		if nb.BinWidthS > 0 {
			sc.Dims[S].N = int(math.Ceil(lim.SMax / nb.BinWidthS))
		}
		if sc.Dims[S].N <= 0 {
			return nil, fmt.Errorf("%w: automatic binning needs either a "+
				"positive s bin count or a positive s bin width.", ErrConfig)
		}
		sc.autoBins(cosmo.Farthest(models, zhi))
	}

	for d := Dim(0); d < NumDims; d++ {
		if sc.Dims[d].N <= 0 {
			return nil, fmt.Errorf("%w: the number of %s bins is %d, but it "+
				"must be positive.", ErrConfig, d, sc.Dims[d].N)
		}
	}

	return sc, nil
}

// MaxAngle returns the largest angle two points at comoving distance r or
// farther can be separated by while staying within a distance of sMax.
func MaxAngle(sMax, r float64) float64 {
	c := 1 - sMax*sMax/(2*r*r)
	if c < -1 || math.IsNaN(c) { return math.Pi }
	return math.Acos(c)
}

func zSlice(
	zmin, zmax, sMax float64, index, total int, model cosmo.Model,
) (lo, hi float64) {
	diff := (zmax - zmin) / float64(total)
	lo = zmin + diff*float64(index)
	hi = lo + diff + model.DelSToDelZ(sMax, lo)
	return lo, math.Min(hi, zmax)
}

// autoBins derives the z and angular bin counts from the s bin count. z bins
// are half as wide as s bins in comoving distance, and angular bins subtend
// that same width at the far edge of the slice.
func (sc *Scheme) autoBins(model cosmo.Model) {
	binwS := sc.BinWidth(S)
	binwR := binwS / 2

	rlo := model.ZToDistance(sc.Min(Z))
	rhi := model.ZToDistance(sc.Max(Z))
	sc.Dims[Z].N = ceilBins(rhi-rlo, binwR)
	binwR = (rhi - rlo) / float64(sc.Dims[Z].N)

	binwAngle := binwR / rhi
	for _, d := range []Dim{Dec, RA, Theta} {
		sc.Dims[d].N = ceilBins(sc.Max(d)-sc.Min(d), binwAngle)
	}
}

func ceilBins(width, binw float64) int {
	n := int(math.Ceil(width / binw))
	if n < 1 { return 1 }
	return n
}

func (sc *Scheme) Min(d Dim) float64 { return sc.Dims[d].Min }
func (sc *Scheme) Max(d Dim) float64 { return sc.Dims[d].Max }
func (sc *Scheme) NumBins(d Dim) int { return sc.Dims[d].N }
func (sc *Scheme) BinWidth(d Dim) float64 { return sc.Dims[d].Width() }

// Edges returns the NumBins(d)+1 edges of dimension d.
func (sc *Scheme) Edges(d Dim) []float64 { return sc.Dims[d].Edges() }

// Centers returns the bin centers of dimension d.
func (sc *Scheme) Centers(d Dim) []float64 { return sc.Dims[d].Centers() }

// Index returns the bin of dimension d which contains x.
func (sc *Scheme) Index(d Dim, x float64) (int, bool) {
	return sc.Dims[d].Index(x)
}

// DistanceEdges returns the redshift edges converted to comoving distances
// under the given model.
func (sc *Scheme) DistanceEdges(model cosmo.Model) []float64 {
	edges := sc.Edges(Z)
	for i := range edges {
		edges[i] = model.ZToDistance(edges[i])
	}
	return edges
}

// ZSlice splits the scheme's redshift range into total slices and returns
// the bounds of slice index, widened by the redshift interval which covers
// the maximum separation under model.
func (sc *Scheme) ZSlice(index, total int, model cosmo.Model) (lo, hi float64) {
	return zSlice(sc.Min(Z), sc.Max(Z), sc.Max(S), index, total, model)
}

// Equal returns true if two schemes have identical limits and bin counts.
func (sc *Scheme) Equal(other *Scheme) bool {
	if sc == nil || other == nil { return sc == other }
	return sc.Dims == other.Dims
}

// Info returns a human-readable description of every dimension.
func (sc *Scheme) Info() []string {
	out := make([]string, NumDims)
	for d := Dim(0); d < NumDims; d++ {
		out[d] = fmt.Sprintf("%6s: [%.5f, %.5f], %4d bins",
			d, sc.Min(d), sc.Max(d), sc.NumBins(d))
	}
	return out
}
