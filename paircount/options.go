package paircount

import (
	"log/slog"

	"github.com/phil-mansfield/tpcf/catalog"
	"github.com/phil-mansfield/tpcf/job"
	"github.com/phil-mansfield/tpcf/logging"
)

// DefaultCheckpoint is the number of points between progress reports.
const DefaultCheckpoint = 10000

// Options control a single counting pass.
type Options struct {
	// Partition selects the range of pair catalog points counted. The zero
	// value counts every point.
	Partition job.Partition
	// Same must be set when the pair and tree catalogs are the same slice.
	// Each query point's zero-distance match with itself is removed and the
	// result is halved so every distinct pair is counted once.
	Same bool
	// Cells marks pair and tree points as angular cells whose W is the
	// number of galaxies in the cell. With Same, the weighted self term is
	// then W (each galaxy with itself) rather than W*W, so pairs of
	// distinct galaxies in one cell are kept. The unweighted channel counts
	// pairs of distinct cells.
	Cells bool
	// Checkpoint is the number of points between progress logs. Values of
	// zero or less disable them.
	Checkpoint int
	Logger     *slog.Logger
}

// selfWeight is the weighted contribution of p paired with itself.
func (opt Options) selfWeight(p catalog.Point) float64 {
	if opt.Cells { return p.W }
	return p.W * p.W
}

func (opt Options) partition() job.Partition {
	if opt.Partition.Total <= 0 { return job.Partition{Total: 1} }
	return opt.Partition
}

// each calls f for every index in the partition's share of n points.
func (opt Options) each(name string, n int, f func(i int)) {
	start, end := opt.partition().IndexRange(n)
	log := logging.Or(opt.Logger)
	log.Info("Counting pairs", "histogram", name,
		"start", start, "end", end, "job", opt.partition().String())

	for i := start; i < end; i++ {
		if opt.Checkpoint > 0 && (i-start)%opt.Checkpoint == 0 {
			log.Info("Checkpoint", "histogram", name,
				"index", i-start, "of", end-start)
		}
		f(i)
	}
	log.Debug("Finished counting", "histogram", name,
		"memory", logging.MemString())
}
