/*tpcf measures two-point correlation functions of galaxy surveys by counting
pairs in angle and redshift once and then converting the counts to comoving
separations under any number of cosmologies.

A run is split into three modes:

	tpcf preprocess --config tpcf.config --prefix run
	tpcf divide --prefix run --ijob 0 --njob 4   # once per job
	tpcf combine --prefix run --table xi.txt
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/soniakeys/exit"
	"github.com/spf13/cobra"

	"github.com/phil-mansfield/tpcf/cmd"
	"github.com/phil-mansfield/tpcf/logging"
	"github.com/phil-mansfield/tpcf/paircount"
	"github.com/phil-mansfield/tpcf/version"
)

func main() {
	defer exit.Handler()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCommand().ExecuteContext(ctx); err != nil {
		exit.Log(err)
	}
}

func rootCommand() *cobra.Command {
	var logMode string
	root := &cobra.Command{
		Use:   "tpcf",
		Short: "Two-point correlation functions from angular pair counts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(c *cobra.Command, args []string) error {
			flag, err := logging.ParseFlag(logMode)
			if err != nil { return err }
			logging.SetMode(flag)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&logMode, "log", "performance",
		"logging mode: nil, performance, or debug")

	root.AddCommand(
		preprocessCommand(), divideCommand(), combineCommand(),
		exampleConfigCommand(), versionCommand(),
	)
	return root
}

func runMode(m cmd.Mode) func(*cobra.Command, []string) error {
	return func(c *cobra.Command, args []string) error {
		return m.Run(c.Context())
	}
}

func preprocessCommand() *cobra.Command {
	m := &cmd.PreprocessMode{}
	c := &cobra.Command{
		Use:   "preprocess",
		Short: "Read and bin the catalogs named in a config file",
		Args:  cobra.NoArgs,
		RunE:  runMode(m),
	}
	f := c.Flags()
	f.StringVarP(&m.ConfigFile, "config", "c", "", "config file to read")
	f.StringVarP(&m.Prefix, "prefix", "p", "", "output prefix")
	f.IntVarP(&m.ISlice, "islice", "i", 0, "redshift slice index")
	f.IntVarP(&m.NSlice, "nslice", "n", 1, "number of redshift slices")
	f.BoolVarP(&m.Auto, "auto", "a", false, "derive bin counts from --binw")
	f.Float64VarP(&m.BinWidthS, "binw", "b", cmd.DefaultBinWidthS,
		"width of s bins in Mpc when --auto is set")
	c.MarkFlagRequired("config")
	c.MarkFlagRequired("prefix")
	return c
}

func divideCommand() *cobra.Command {
	m := &cmd.DivideMode{}
	c := &cobra.Command{
		Use:   "divide",
		Short: "Count the pairs of one job",
		Args:  cobra.NoArgs,
		RunE:  runMode(m),
	}
	f := c.Flags()
	f.StringVarP(&m.Prefix, "prefix", "p", "", "prefix of the preprocess snapshot")
	f.IntVarP(&m.IJob, "ijob", "i", 0, "job index")
	f.IntVarP(&m.NJob, "njob", "n", 1, "number of jobs")
	f.BoolVar(&m.Direct, "direct", false,
		"also count DD in comoving space under the first model")
	f.IntVar(&m.Checkpoint, "checkpoint", paircount.DefaultCheckpoint,
		"number of points between progress logs")
	c.MarkFlagRequired("prefix")
	return c
}

func combineCommand() *cobra.Command {
	m := &cmd.CombineMode{}
	c := &cobra.Command{
		Use:   "combine",
		Short: "Merge every job and compute correlation functions",
		Args:  cobra.NoArgs,
		RunE:  runMode(m),
	}
	f := c.Flags()
	f.StringVarP(&m.Prefix, "prefix", "p", "", "prefix of the job snapshots")
	f.StringVarP(&m.Output, "output", "o", "",
		"output snapshot (default {prefix}_output.gob)")
	f.StringVarP(&m.Table, "table", "t", "", "optional text table of results")
	c.MarkFlagRequired("prefix")
	return c
}

func exampleConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "example-config",
		Short: "Print an example config file",
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, args []string) {
			fmt.Fprintln(c.OutOrStdout(), new(cmd.Config).ExampleConfig())
		},
	}
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of tpcf",
		Args:  cobra.NoArgs,
		Run: func(c *cobra.Command, args []string) {
			fmt.Fprintf(c.OutOrStdout(), "tpcf version %s\n",
				version.SourceVersion)
		},
	}
}
