/*package interpolate provides cubic splines through tabulated functions. tpcf
uses them to tabulate the distance-redshift integrand so that large batches of
redshifts can be converted with a single pass over the table.
*/
package interpolate

import (
	"fmt"
)

type splineCoeff struct {
	a, b, c, d float64
}

// Spline represents a 1D natural cubic spline which can be used to
// interpolate between points.
type Spline struct {
	xs, ys, y2s []float64
	coeffs      []splineCoeff

	incr bool
	// Usually the input data is uniform. This is our estimate of the point
	// spacing.
	dx float64
}

// NewSpline creates a spline based off a table of x and y values. The values
// must be sorted in increasing or decreasing order in x.
func NewSpline(xs, ys []float64) *Spline {
	if len(xs) != len(ys) {
		panic(fmt.Sprintf("Table given to NewSpline() has len(xs) = %d "+
			"but len(ys) = %d.", len(xs), len(ys)))
	} else if len(xs) <= 2 {
		panic(fmt.Sprintf("Table given to NewSpline() has "+
			"length of %d.", len(xs)))
	}

	sp := &Spline{
		xs: xs, ys: ys,
		y2s:    make([]float64, len(xs)),
		coeffs: make([]splineCoeff, len(xs)-1),
	}

	sp.incr = xs[0] < xs[1]
	for i := 0; i < len(xs)-1; i++ {
		if (xs[i+1] <= xs[i]) == sp.incr {
			panic("Table given to NewSpline() not strictly sorted.")
		}
	}

	sp.dx = (xs[len(xs)-1] - xs[0]) / float64(len(xs)-1)
	sp.calcY2s()
	sp.calcCoeffs()

	return sp
}

// Range returns the smallest and largest x values in the table.
func (sp *Spline) Range() (lo, hi float64) {
	lo, hi = sp.xs[0], sp.xs[len(sp.xs)-1]
	if !sp.incr { lo, hi = hi, lo }
	return lo, hi
}

func (sp *Spline) inRange(x float64) bool {
	lo, hi := sp.Range()
	return x >= lo && x <= hi
}

// Eval computes the value of the spline at the given point.
//
// x must be within the range of x values given to NewSpline().
func (sp *Spline) Eval(x float64) float64 {
	if !sp.inRange(x) {
		lo, hi := sp.Range()
		panic(fmt.Sprintf("Point %g given to Spline.Eval() out of bounds "+
			"[%g, %g].", x, lo, hi))
	}

	i := sp.bsearch(x)
	dx := x - sp.xs[i]
	c := &sp.coeffs[i]
	return c.a*dx*dx*dx + c.b*dx*dx + c.c*dx + c.d
}

// EvalAll evaluates a sequence of values and returns the result. An optional
// output array can be supplied to prevent unneeded heap allocations.
func (sp *Spline) EvalAll(xs []float64, out ...[]float64) []float64 {
	if len(out) == 0 {
		out = [][]float64{make([]float64, len(xs))}
	}

	for i := range xs {
		out[0][i] = sp.Eval(xs[i])
	}

	return out[0]
}

// Integrate integrates the spline from lo to hi.
func (sp *Spline) Integrate(lo, hi float64) float64 {
	if lo > hi { return -sp.Integrate(hi, lo) }
	if !sp.inRange(lo) {
		panic(fmt.Sprintf("Low bound %g in Spline.Integrate() "+
			"out of bounds.", lo))
	} else if !sp.inRange(hi) {
		panic(fmt.Sprintf("High bound %g in Spline.Integrate() "+
			"out of bounds.", hi))
	}

	iLo, iHi := sp.bsearch(lo), sp.bsearch(hi)
	if iLo == iHi {
		return sp.integTerm(iLo, lo, hi)
	}
	if iLo > iHi {
		iLo, iHi = iHi, iLo
	}

	sum := 0.0
	for i := iLo; i <= iHi; i++ {
		x0, x1 := sp.xs[i], sp.xs[i+1]
		if x0 > x1 { x0, x1 = x1, x0 }
		if x0 < lo { x0 = lo }
		if x1 > hi { x1 = hi }
		if x1 > x0 { sum += sp.integTerm(i, x0, x1) }
	}
	return sum
}

// Cumulative writes the integral of the spline from the first table point to
// every table point into out and returns it. out may be nil.
func (sp *Spline) Cumulative(out []float64) []float64 {
	if out == nil { out = make([]float64, len(sp.xs)) }
	if len(out) != len(sp.xs) {
		panic(fmt.Sprintf("len(out) = %d, but the table has %d points.",
			len(out), len(sp.xs)))
	}

	out[0] = 0
	for i := range sp.coeffs {
		dx := sp.xs[i+1] - sp.xs[i]
		out[i+1] = out[i] + sp.integFromNode(i, dx)
	}
	return out
}

// integTerm integrates segment i between two points inside of it.
func (sp *Spline) integTerm(i int, lo, hi float64) float64 {
	x0 := sp.xs[i]
	return sp.integFromNode(i, hi-x0) - sp.integFromNode(i, lo-x0)
}

// integFromNode integrates segment i from its left node to left node + dx.
func (sp *Spline) integFromNode(i int, dx float64) float64 {
	c := &sp.coeffs[i]
	return c.a*dx*dx*dx*dx/4 + c.b*dx*dx*dx/3 + c.c*dx*dx/2 + c.d*dx
}

// bsearch returns the index of the segment containing x.
func (sp *Spline) bsearch(x float64) int {
	// Guess under the assumption of uniform spacing.
	guess := int((x - sp.xs[0]) / sp.dx)
	if guess >= 0 && guess < len(sp.xs)-1 &&
		(sp.xs[guess] <= x == sp.incr) &&
		(sp.xs[guess+1] >= x == sp.incr) {

		return guess
	}

	// Binary search.
	lo, hi := 0, len(sp.xs)-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if sp.incr == (x >= sp.xs[mid]) {
			lo = mid
		} else {
			hi = mid
		}
	}

	return lo
}

// calcY2s computes the second derivative at every point in the table given
// in NewSpline. The boundaries are natural (zero curvature).
func (sp *Spline) calcY2s() {
	n := len(sp.xs)
	as, bs := make([]float64, n-2), make([]float64, n-2)
	cs, rs := make([]float64, n-2), make([]float64, n-2)
	sp.y2s[0], sp.y2s[n-1] = 0, 0

	xs, ys := sp.xs, sp.ys
	for i := range rs {
		// j indexes into xs and ys.
		j := i + 1

		as[i] = (xs[j] - xs[j-1]) / 6
		bs[i] = (xs[j+1] - xs[j-1]) / 3
		cs[i] = (xs[j+1] - xs[j]) / 6
		rs[i] = ((ys[j+1] - ys[j]) / (xs[j+1] - xs[j])) -
			((ys[j] - ys[j-1]) / (xs[j] - xs[j-1]))
	}

	TriDiagAt(as, bs, cs, rs, sp.y2s[1:n-1])
}

func (sp *Spline) calcCoeffs() {
	coeffs, xs, ys, y2s := sp.coeffs, sp.xs, sp.ys, sp.y2s
	for i := range sp.coeffs {
		dx := xs[i+1] - xs[i]
		coeffs[i].a = (-y2s[i]/6 + y2s[i+1]/6) / dx
		coeffs[i].b = y2s[i] / 2
		coeffs[i].c = (ys[i+1]-ys[i])/dx + dx*(-y2s[i]/3-y2s[i+1]/6)
		coeffs[i].d = ys[i]
	}
}

// TriDiagAt solves the system of equations
//
// | b0 c0 ..    |   | out0 |   | r0 |
// | a1 b1 c1 .. |   | out1 |   | r1 |
// | ..          | * | ..   | = | .. |
// | ..    an bn |   | outn |   | rn |
//
// For out0 .. outn in place in the given slice.
func TriDiagAt(as, bs, cs, rs, out []float64) {
	if len(as) != len(bs) || len(as) != len(cs) ||
		len(as) != len(out) || len(as) != len(rs) {

		panic("Length of arugments to TriDiagAt are unequal.")
	}

	tmp := make([]float64, len(as))

	beta := bs[0]
	if beta == 0 {
		panic("TriDiagAt cannot solve given system.")
	}
	out[0] = rs[0] / beta

	for i := 1; i < len(out); i++ {
		tmp[i] = cs[i-1] / beta
		beta = bs[i] - as[i]*tmp[i]
		if beta == 0 {
			panic("TriDiagAt cannot solve given system")
		}
		out[i] = (rs[i] - as[i]*out[i-1]) / beta
	}

	for i := len(out) - 2; i >= 0; i-- {
		out[i] -= tmp[i+1] * out[i+1]
	}
}
