// Package cli wires the stellagc demo commands together with Cobra.
package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/netos23/stella-gc/internal/gc"
)

var (
	fromSpaceSize uint
	toSpaceSize   uint
	verbose       bool
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stellagc",
		Short: "Exercise the Stella semi-space copying collector",
		Long: "stellagc drives the incremental Baker/Cheney-with-chase collector " +
			"in internal/gc with synthetic allocation patterns. It is a demo " +
			"harness, not the Stella interpreter.",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().UintVar(&fromSpaceSize, "from-space-size", 1<<16, "size in bytes of each semi-space")
	cmd.PersistentFlags().UintVar(&toSpaceSize, "to-space-size", 1<<16, "size in bytes of each semi-space (must equal --from-space-size)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug-level collector logging")

	cmd.AddCommand(newDemoCmd())
	cmd.AddCommand(newStatsCmd())

	return cmd
}

// Execute runs the stellagc root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		cfg := zap.NewDevelopmentConfig()
		return cfg.Build()
	}
	return zap.NewProduction()
}

func newCollector() (*gc.Collector, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, err
	}
	return gc.NewCollector(gc.Config{
		FromSpaceSize: fromSpaceSize,
		ToSpaceSize:   toSpaceSize,
	}, logger)
}
