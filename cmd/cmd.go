/*package cmd contains code for running tpcf in its various command line
modes. preprocess reads catalogs and bins them, divide counts pairs for one
job, and combine merges every job and computes correlation functions.*/
package cmd

import (
	"context"
	"log/slog"

	"github.com/phil-mansfield/tpcf/logging"
)

// Mode represents the interface used by the main binary when interacting with
// a given command line mode. Command line flags are bound directly to the
// fields of each Mode.
type Mode interface {
	// Run executes the mode.
	Run(ctx context.Context) error
}

var (
	_ Mode = &PreprocessMode{}
	_ Mode = &DivideMode{}
	_ Mode = &CombineMode{}
)

func modeLogger(l *slog.Logger, mode string) *slog.Logger {
	return logging.Or(l).With("mode", mode)
}
