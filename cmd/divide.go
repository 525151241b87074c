package cmd

import (
	"context"
	"log/slog"

	"github.com/phil-mansfield/tpcf/job"
	"github.com/phil-mansfield/tpcf/logging"
	"github.com/phil-mansfield/tpcf/paircount"
	"github.com/phil-mansfield/tpcf/store"
)

// DivideMode counts the pairs of a single job and writes them to a
// partition snapshot. Every job of a run reads the same preprocess
// snapshot and can run as a separate process.
type DivideMode struct {
	Prefix     string
	IJob, NJob int
	// Direct also counts DD in comoving space under the first model.
	Direct     bool
	Checkpoint int

	Logger *slog.Logger
}

func (m *DivideMode) Run(ctx context.Context) error {
	p, err := job.At(m.IJob, m.NJob)
	if err != nil { return err }
	log := modeLogger(m.Logger, "divide").With("job", p.String())

	pre, err := store.LoadPreprocessed(m.Prefix)
	if err != nil { return err }
	if err = ctx.Err(); err != nil { return err }

	acc, err := paircount.Count(pre.Input(m.Direct), paircount.Options{
		Partition: p, Checkpoint: m.Checkpoint, Logger: log,
	})
	if err != nil { return err }
	log.Debug("Counted pairs", "memory", logging.MemString())

	if err = store.SavePartition(m.Prefix, acc); err != nil { return err }
	log.Info("Wrote snapshot",
		"file", store.PartitionName(m.Prefix, p.Current, p.Total))
	return nil
}
