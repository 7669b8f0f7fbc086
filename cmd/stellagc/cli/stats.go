package cli

import (
	"github.com/spf13/cobra"

	"github.com/netos23/stella-gc/internal/gc"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Allocate a handful of objects and print a one-shot stats report",
		RunE:  runStats,
	}
}

func runStats(cmd *cobra.Command, _ []string) error {
	c, err := newCollector()
	if err != nil {
		return err
	}

	for i := 0; i < 16; i++ {
		c.AllocObject(gc.TagRef, uintptr(i))
	}

	c.PrintAllocStats()
	return nil
}
