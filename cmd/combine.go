package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	txt "github.com/phil-mansfield/tpcf/cmd/catalog"
	"github.com/phil-mansfield/tpcf/correlation"
	"github.com/phil-mansfield/tpcf/paircount"
	"github.com/phil-mansfield/tpcf/store"
)

// CombineMode merges every partition snapshot of a run, reconstructs the
// pair counts under each cosmology model, and writes the correlation
// functions.
type CombineMode struct {
	Prefix string
	// Output defaults to {Prefix}_output.gob.
	Output string
	// Table is an optional text table of the results.
	Table string

	Logger *slog.Logger
}

func (m *CombineMode) Run(ctx context.Context) error {
	log := modeLogger(m.Logger, "combine")

	acc, err := m.merge(ctx, log)
	if err != nil { return err }

	results, err := correlation.Estimate(acc, log)
	if err != nil { return err }

	out := m.Output
	if out == "" { out = store.OutputName(m.Prefix) }
	if err = store.SaveOutput(out, results); err != nil { return err }
	log.Info("Wrote snapshot", "file", out)

	if m.Table == "" { return nil }
	if err = WriteResults(m.Table, results); err != nil { return err }
	log.Info("Wrote table", "file", m.Table)
	return nil
}

// merge loads every partition snapshot concurrently and merges them in
// order of job index.
func (m *CombineMode) merge(
	ctx context.Context, log *slog.Logger,
) (*paircount.Accumulator, error) {
	files, err := store.Partitions(m.Prefix)
	if err != nil { return nil, err }
	if len(files) == 0 {
		return nil, fmt.Errorf("There are no partition snapshots with the "+
			"prefix %s.", m.Prefix)
	}
	total := files[0].Total
	if missing := store.MissingJobs(files, total); len(missing) > 0 {
		return nil, fmt.Errorf("The partition snapshots for jobs %v out of "+
			"%d are missing.", missing, total)
	}

	accs := make([]*paircount.Accumulator, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil { return err }
			acc, err := store.LoadPartition(files[i].Name)
			if err != nil { return err }
			log.Info("Read snapshot", "file", files[i].Name)
			accs[i] = acc
			return nil
		})
	}
	if err = g.Wait(); err != nil { return nil, err }

	acc := accs[0]
	for i := 1; i < len(accs); i++ {
		if err = acc.Merge(accs[i]); err != nil {
			return nil, fmt.Errorf("Could not merge %s: %w",
				files[i].Name, err)
		}
	}
	return acc, nil
}

var channelNames = [2]string{"w", "u"}

// ResultTable lays out results as named columns. The first column is the
// center of each s bin and the rest are the normalized pair counts and
// correlation functions of each model and channel.
func ResultTable(results []correlation.Result) ([]string, [][]float64) {
	if len(results) == 0 { return nil, nil }

	edges := results[0].SEdges
	s := make([]float64, len(edges)-1)
	for i := range s { s[i] = (edges[i] + edges[i+1]) / 2 }

	names, cols := []string{"s"}, [][]float64{s}
	for i, res := range results {
		for ch, chName := range channelNames {
			for _, q := range []struct {
				name string
				col  paircount.Hist
			}{
				{"dd", res.DD.OneD}, {"d1r2", res.D1R2.OneD},
				{"d2r1", res.D2R1.OneD}, {"rr", res.RR.OneD},
				{"xi", res.Xi}, {"xi_err", res.XiErr},
				{"xis2", res.XiS2}, {"xis2_err", res.XiS2Err},
			} {
				names = append(names,
					fmt.Sprintf("%s_%s_%d", q.name, chName, i))
				cols = append(cols, q.col[ch])
			}
		}
	}
	return names, cols
}

// WriteResults writes the text table of results to fname.
func WriteResults(fname string, results []correlation.Result) error {
	f, err := os.Create(fname)
	if err != nil { return err }
	names, cols := ResultTable(results)
	err = txt.WriteTable(f, names, cols)
	if cerr := f.Close(); err == nil { err = cerr }
	return err
}
