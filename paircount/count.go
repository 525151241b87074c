package paircount

import (
	"github.com/phil-mansfield/tpcf/bins"
	"github.com/phil-mansfield/tpcf/catalog"
	"github.com/phil-mansfield/tpcf/spatial"
)

// CountFTheta histograms the angular separations between pair points and
// tree points out to the scheme's maximum angle. The weighted channel adds
// the product of the two weights and the unweighted channel adds one per
// pair. idx must be a haversine index built over tree. Random catalogs are
// counted with opt.Cells set.
func CountFTheta(
	pair, tree []catalog.Point, idx *spatial.Index,
	sc *bins.Scheme, opt Options,
) Hist {
	h := NewHist(sc.NumBins(bins.Theta))
	thetaMax := sc.Max(bins.Theta)

	opt.each("f(theta)", len(pair), func(i int) {
		p := pair[i]
		ids, dists := idx.QueryRadius([]float64{p.Dec, p.RA}, thetaMax)
		for k, j := range ids {
			it, ok := sc.Index(bins.Theta, dists[k])
			if !ok { continue }
			h[Weighted][it] += p.W * tree[j].W
			h[Unweighted][it]++
		}
		if opt.Same {
			h[Weighted][0] -= opt.selfWeight(p)
			h[Unweighted][0]--
		}
	})

	if opt.Same { h.Scale(0.5) }
	return h
}

// CountZTheta histograms the angular separations between pair points and
// tree points against the redshift of the pair point. The unweighted
// channel adds the tree point's weight and the weighted channel multiplies
// that by the pair point's weight. Pair points outside the scheme's
// redshift range are skipped. The pair and tree catalogs are always
// distinct, so Same is ignored.
func CountZTheta(
	pair, tree []catalog.Point, idx *spatial.Index,
	sc *bins.Scheme, opt Options,
) Hist {
	nz := sc.NumBins(bins.Z)
	h := NewHist(sc.NumBins(bins.Theta) * nz)
	thetaMax := sc.Max(bins.Theta)

	opt.each("z-theta", len(pair), func(i int) {
		p := pair[i]
		iz, ok := sc.Index(bins.Z, p.Z)
		if !ok { return }

		ids, dists := idx.QueryRadius([]float64{p.Dec, p.RA}, thetaMax)
		for k, j := range ids {
			it, ok := sc.Index(bins.Theta, dists[k])
			if !ok { continue }
			w := tree[j].W
			h[Unweighted][it*nz+iz] += w
			h[Weighted][it*nz+iz] += w * p.W
		}
	})

	return h
}

// CountZZTheta histograms the angular separations between pair points and
// tree points against the redshifts of both points. Weights are handled as
// in CountFTheta.
func CountZZTheta(
	pair, tree []catalog.Point, idx *spatial.Index,
	sc *bins.Scheme, opt Options,
) Hist {
	nz := sc.NumBins(bins.Z)
	h := NewHist(sc.NumBins(bins.Theta) * nz * nz)
	thetaMax := sc.Max(bins.Theta)

	opt.each("z-z-theta", len(pair), func(i int) {
		p := pair[i]
		iz, ok := sc.Index(bins.Z, p.Z)
		if !ok { return }

		ids, dists := idx.QueryRadius([]float64{p.Dec, p.RA}, thetaMax)
		for k, j := range ids {
			it, ok := sc.Index(bins.Theta, dists[k])
			if !ok { continue }
			jz, ok := sc.Index(bins.Z, tree[j].Z)
			if !ok { continue }

			bin := (it*nz+iz)*nz + jz
			h[Weighted][bin] += p.W * tree[j].W
			h[Unweighted][bin]++
		}
		if opt.Same {
			self := iz*nz + iz
			h[Weighted][self] -= opt.selfWeight(p)
			h[Unweighted][self]--
		}
	})

	if opt.Same { h.Scale(0.5) }
	return h
}

// CountDirect histograms the comoving separations between pair points and
// tree points. pairXYZ holds the comoving positions of pair and idx must be
// a euclidean index over the comoving positions of tree.
func CountDirect(
	pair, tree []catalog.Point, pairXYZ [][]float64, idx *spatial.Index,
	sc *bins.Scheme, opt Options,
) Hist {
	h := NewHist(sc.NumBins(bins.S))
	sMax := sc.Max(bins.S)

	opt.each("direct", len(pair), func(i int) {
		p := pair[i]
		ids, dists := idx.QueryRadius(pairXYZ[i], sMax)
		for k, j := range ids {
			is, ok := sc.Index(bins.S, dists[k])
			if !ok { continue }
			h[Weighted][is] += p.W * tree[j].W
			h[Unweighted][is]++
		}
		if opt.Same {
			h[Weighted][0] -= opt.selfWeight(p)
			h[Unweighted][0]--
		}
	})

	if opt.Same { h.Scale(0.5) }
	return h
}
