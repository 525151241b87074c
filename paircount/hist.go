/*package paircount accumulates the angular and redshift pair-count
histograms which correlation functions are reconstructed from. Counting is
independent of cosmology, so a single pass can be reused for every model.

Every histogram has two channels: channel 0 is weighted and channel 1 is
unweighted.*/
package paircount

import (
	"gonum.org/v1/gonum/floats"
)

const (
	Weighted   = 0
	Unweighted = 1
)

// Hist is a two-channel histogram stored as flat arrays. The meaning of the
// flat index depends on the histogram:
//
//	f(theta):     theta
//	z-theta:      theta*nz + z
//	z-z-theta:    (theta*nz + zQuery)*nz + zNeighbor
//	direct:       s
type Hist [2][]float64

// NewHist returns an empty histogram with n bins per channel.
func NewHist(n int) Hist {
	return Hist{make([]float64, n), make([]float64, n)}
}

// Len returns the number of bins per channel.
func (h Hist) Len() int { return len(h[0]) }

// Empty returns true if the histogram was never allocated.
func (h Hist) Empty() bool { return h[0] == nil && h[1] == nil }

// Add adds other to h bin by bin. The two must have the same shape.
func (h Hist) Add(other Hist) {
	floats.Add(h[Weighted], other[Weighted])
	floats.Add(h[Unweighted], other[Unweighted])
}

// Scale multiplies every bin by c.
func (h Hist) Scale(c float64) {
	floats.Scale(c, h[Weighted])
	floats.Scale(c, h[Unweighted])
}

// Sum returns the total of each channel.
func (h Hist) Sum() [2]float64 {
	return [2]float64{floats.Sum(h[Weighted]), floats.Sum(h[Unweighted])}
}

// Clone returns a deep copy of h.
func (h Hist) Clone() Hist {
	if h.Empty() { return Hist{} }
	out := NewHist(h.Len())
	copy(out[Weighted], h[Weighted])
	copy(out[Unweighted], h[Unweighted])
	return out
}

func (h Hist) sameShape(other Hist) bool {
	return len(h[0]) == len(other[0]) && len(h[1]) == len(other[1]) &&
		h.Empty() == other.Empty()
}
