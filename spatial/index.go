package spatial

import (
	"slices"

	"gonum.org/v1/gonum/spatial/kdtree"
)

// point is a tree node which remembers its position in the build slice.
type point struct {
	X     [3]float64
	Index int
}

func (p point) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return p.X[d] - c.(point).X[d]
}

func (p point) Dims() int { return 3 }

// Distance returns the squared distance between two points.
func (p point) Distance(c kdtree.Comparable) float64 {
	q := c.(point)
	dx, dy, dz := p.X[0]-q.X[0], p.X[1]-q.X[1], p.X[2]-q.X[2]
	return dx*dx + dy*dy + dz*dz
}

type points []point

func (p points) Index(i int) kdtree.Comparable { return p[i] }
func (p points) Len() int { return len(p) }
func (p points) Slice(start, end int) kdtree.Interface { return p[start:end] }

func (p points) Pivot(d kdtree.Dim) int {
	pl := plane{points: p, Dim: d}
	return kdtree.Partition(pl, kdtree.MedianOfRandoms(pl, 100))
}

type plane struct {
	points
	kdtree.Dim
}

func (p plane) Less(i, j int) bool {
	return p.points[i].X[p.Dim] < p.points[j].X[p.Dim]
}

func (p plane) Slice(start, end int) kdtree.SortSlicer {
	return plane{points: p.points[start:end], Dim: p.Dim}
}

func (p plane) Swap(i, j int) {
	p.points[i], p.points[j] = p.points[j], p.points[i]
}

// Index answers radius queries over a fixed set of points. It is read-only
// after Build and may be shared between goroutines.
type Index struct {
	tree   *kdtree.Tree
	metric Metric
	n      int
}

// Build creates an Index over coords. The indices returned by queries refer
// to positions in coords.
func Build(coords [][]float64, metric Metric) (*Index, error) {
	pts := make(points, len(coords))
	for i := range coords {
		x, err := metric.embed(coords[i])
		if err != nil { return nil, err }
		pts[i] = point{X: x, Index: i}
	}

	idx := &Index{metric: metric, n: len(coords)}
	if len(pts) > 0 {
		// New reorders pts, which is why each point carries its index.
		idx.tree = kdtree.New(pts, false)
	}
	return idx, nil
}

func (idx *Index) Len() int { return idx.n }
func (idx *Index) Metric() Metric { return idx.metric }

// QueryRadius returns every point within a distance r of q, inclusive,
// along with the distances to those points. Results are sorted by index.
// It panics if the metric cannot embed q, e.g. a haversine query without
// exactly two coordinates.
func (idx *Index) QueryRadius(q []float64, r float64) ([]int, []float64) {
	if idx.tree == nil || r < 0 { return nil, nil }
	x, err := idx.metric.embed(q)
	if err != nil { panic(err.Error()) }

	maxSq := idx.metric.chordSq(r)
	keep := kdtree.NewDistKeeper(maxSq)
	idx.tree.NearestSet(keep, point{X: x, Index: -1})

	found := make([]kdtree.ComparableDist, 0, len(keep.Heap))
	for _, c := range keep.Heap {
		if c.Comparable == nil || c.Dist > maxSq { continue }
		found = append(found, c)
	}
	slices.SortFunc(found, func(a, b kdtree.ComparableDist) int {
		return a.Comparable.(point).Index - b.Comparable.(point).Index
	})

	indices, dists := make([]int, len(found)), make([]float64, len(found))
	for i, c := range found {
		indices[i] = c.Comparable.(point).Index
		dists[i] = idx.metric.distance(c.Dist)
	}
	return indices, dists
}
