package catalog

import (
	"github.com/phil-mansfield/tpcf/bins"
)

// RandomCatalog is a random catalog reduced to separable marginals.
type RandomCatalog struct {
	NGals       int
	SumW, SumW2 float64
	// ZDistr holds the weighted (0) and unweighted (1) redshift
	// histograms, each divided by NGals.
	ZDistr [2][]float64
	// Angular holds one point per non-empty dec x ra cell, located at the
	// cell center and weighted by the number of galaxies in the cell.
	Angular []Point

	ZBins, DecBins, RABins bins.Uniform
}

func (r *RandomCatalog) Points() []Point { return r.Angular }
func (r *RandomCatalog) Count() int { return r.NGals }
func (r *RandomCatalog) WeightSum() float64 { return r.SumW }
func (r *RandomCatalog) WeightSqSum() float64 { return r.SumW2 }

// Norm returns the weighted and unweighted number of distinct pairs.
func (r *RandomCatalog) Norm() [2]float64 { return SelfNorm(r) }
