package bins

import (
	"gonum.org/v1/gonum/floats"
)

// Uniform is a linearly spaced histogram over [Min, Max] with N bins.
type Uniform struct {
	Min, Max float64
	N        int
}

// Width returns the width of a single bin.
func (u Uniform) Width() float64 {
	return (u.Max - u.Min) / float64(u.N)
}

// Edges returns the N+1 bin edges. The first and last edges are exactly Min
// and Max.
func (u Uniform) Edges() []float64 {
	return floats.Span(make([]float64, u.N+1), u.Min, u.Max)
}

// Centers returns the N bin midpoints.
func (u Uniform) Centers() []float64 {
	edges, out := u.Edges(), make([]float64, u.N)
	for i := range out {
		out[i] = (edges[i] + edges[i+1]) / 2
	}
	return out
}

// Index returns the bin containing x. Bins are closed on the left, except for
// the last bin, which also contains Max. ok is false if x is outside the
// histogram.
func (u Uniform) Index(x float64) (i int, ok bool) {
	if !(x >= u.Min && x <= u.Max) { return -1, false }
	i = int(float64(u.N) * (x - u.Min) / (u.Max - u.Min))
	if i >= u.N { i = u.N - 1 }
	return i, true
}
