package cosmo

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/phil-mansfield/tpcf/math/interpolate"
)

const (
	quadPoints  = 64
	tablePoints = 1024
	newtonSteps = 50
	newtonTol   = 1e-12
)

// ZToDistance returns the comoving distance to redshift z in Mpc.
func (m Model) ZToDistance(z float64) float64 {
	if z == 0 { return 0 }
	if z < 0 { return -m.integrate(z, 0) }
	return m.integrate(0, z)
}

func (m Model) integrate(lo, hi float64) float64 {
	f := func(z float64) float64 { return 1 / m.E(z) }
	return m.HubbleDistance() * quad.Fixed(f, lo, hi, quadPoints,
		quad.Legendre{}, 0)
}

// ZsToDistances computes the comoving distance of every redshift in zs. An
// optional output array can be supplied to prevent unneeded heap
// allocations.
//
// 1/E(z) is tabulated once over the range of zs and integrated through a
// cubic spline, so this is much faster than repeated calls to ZToDistance
// for long arrays.
func (m Model) ZsToDistances(zs []float64, out ...[]float64) []float64 {
	if len(out) == 0 {
		out = [][]float64{make([]float64, len(zs))}
	}
	rs := out[0][:len(zs)]
	if len(zs) == 0 { return rs }

	lo, hi := 0.0, 0.0
	for _, z := range zs {
		lo, hi = math.Min(lo, z), math.Max(hi, z)
	}
	if lo == hi {
		for i := range rs { rs[i] = 0 }
		return rs
	}

	xs, ys := make([]float64, tablePoints), make([]float64, tablePoints)
	dz := (hi - lo) / float64(tablePoints-1)
	for i := range xs {
		xs[i] = lo + dz*float64(i)
		ys[i] = 1 / m.E(xs[i])
	}
	xs[len(xs)-1] = hi

	cum := interpolate.NewSpline(xs, ys).Cumulative(nil)
	dist := interpolate.NewSpline(xs, cum)
	zero := dist.Eval(0)

	c := m.HubbleDistance()
	for i, z := range zs {
		rs[i] = c * (dist.Eval(z) - zero)
	}
	return rs
}

// DistanceToZ inverts ZToDistance with Newton's method.
func (m Model) DistanceToZ(r float64) float64 {
	if r == 0 { return 0 }
	c := m.HubbleDistance()
	z := r / c
	for i := 0; i < newtonSteps; i++ {
		// dr/dz = c / H(z)
		step := (m.ZToDistance(z) - r) * m.E(z) / c
		z -= step
		if z <= -1 { z = -0.5 }
		if math.Abs(step) <= newtonTol*math.Max(1, math.Abs(z)) { break }
	}
	return z
}

// DelSToDelZ returns the redshift interval dz such that moving from z to
// z + dz covers a comoving distance of ds.
func (m Model) DelSToDelZ(ds, z float64) float64 {
	return m.DistanceToZ(m.ZToDistance(z)+ds) - z
}
