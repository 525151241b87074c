/*package spatial provides radius queries over point sets with either an
angular (great-circle) or a Euclidean metric. Both are backed by a k-d tree.
Angular points are embedded on the unit sphere, where the chord length is a
monotonic function of the great-circle angle.*/
package spatial

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrMetric is wrapped by errors caused by unknown metric names or by
// coordinates which don't match their metric.
var ErrMetric = errors.New("invalid metric")

type Metric int

const (
	// Haversine points are (dec, ra) pairs in radians and distances are
	// great-circle angles in radians.
	Haversine Metric = iota
	// Euclidean points are (x, y, z) triples. Fewer coordinates are allowed
	// and the missing ones are treated as zero.
	Euclidean
)

// ParseMetric converts a metric name into a Metric.
func ParseMetric(name string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "haversine", "angular": return Haversine, nil
	case "euclidean": return Euclidean, nil
	}
	return 0, fmt.Errorf("%w: the metric '%s' isn't recognized. Use "+
		"haversine or euclidean.", ErrMetric, name)
}

func (m Metric) String() string {
	switch m {
	case Haversine: return "haversine"
	case Euclidean: return "euclidean"
	}
	return fmt.Sprintf("Metric(%d)", int(m))
}

// embed converts coordinates into the space the tree is built in.
func (m Metric) embed(c []float64) ([3]float64, error) {
	var x [3]float64
	switch m {
	case Haversine:
		if len(c) != 2 {
			return x, fmt.Errorf("%w: haversine points need 2 coordinates, "+
				"but %d were given.", ErrMetric, len(c))
		}
		sinDec, cosDec := math.Sincos(c[0])
		sinRA, cosRA := math.Sincos(c[1])
		x = [3]float64{cosDec * cosRA, cosDec * sinRA, sinDec}
	case Euclidean:
		if len(c) == 0 || len(c) > 3 {
			return x, fmt.Errorf("%w: euclidean points need 1 to 3 "+
				"coordinates, but %d were given.", ErrMetric, len(c))
		}
		copy(x[:], c)
	default:
		return x, fmt.Errorf("%w: %s", ErrMetric, m)
	}
	return x, nil
}

// chordSq converts a query radius into a squared distance in the embedding
// space.
func (m Metric) chordSq(r float64) float64 {
	if m == Haversine {
		if r >= math.Pi { return 4 }
		c := 2 * math.Sin(r/2)
		return c * c
	}
	return r * r
}

// distance converts a squared embedding distance back into the metric.
func (m Metric) distance(dSq float64) float64 {
	d := math.Sqrt(dSq)
	if m == Haversine {
		return 2 * math.Asin(math.Min(1, d/2))
	}
	return d
}
