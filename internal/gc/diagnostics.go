package gc

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"
)

// PrintAllocStats dumps the allocation and barrier counters to standard
// output. Invoked automatically on out-of-memory exit, and available to
// the mutator for debugging.
func (c *Collector) PrintAllocStats() {
	s := c.stats
	fmt.Println("gc alloc stats:")
	fmt.Printf("  total allocated:   %d bytes, %d objects\n", s.TotalBytesAllocated, s.TotalObjectsAllocated)
	fmt.Printf("  current residency: %d bytes, %d objects\n", s.ResidencyBytes, s.ResidencyObjects)
	fmt.Printf("  max residency:     %d bytes, %d objects\n", s.MaxResidencyBytes, s.MaxResidencyObjects)
	fmt.Printf("  managed reads:     %d (barrier hits %d)\n", s.ManagedReads, s.ReadBarrierHits)
	fmt.Printf("  managed writes:    %d (barrier hits %d)\n", s.ManagedWrites, s.WriteBarrierHits)
	fmt.Printf("  cycles completed:  %d\n", s.CyclesCompleted)

	c.logger.Info("gc: alloc stats",
		zap.Uint64("total_bytes", s.TotalBytesAllocated),
		zap.Uint64("total_objects", s.TotalObjectsAllocated),
		zap.Uint64("residency_bytes", s.ResidencyBytes),
		zap.Uint64("max_residency_bytes", s.MaxResidencyBytes),
		zap.Uint64("cycles_completed", s.CyclesCompleted),
	)
}

// PrintState dumps the collector's cursor and semi-space state to
// standard output.
func (c *Collector) PrintState() {
	fmt.Println("gc state:")
	fmt.Printf("  gc_running: %v\n", c.gcRunning)
	fmt.Printf("  from-space: base=%#x size=%d\n", c.from.base, c.from.size)
	fmt.Printf("  to-space:   base=%#x size=%d\n", c.to.base, c.to.size)
	fmt.Printf("  next=%#x scan=%#x limit=%#x\n", c.next, c.scan, c.limit)
}

// PrintRoots dumps the root registry as an ASCII table with columns
// (index, node-addr, prev, next, slot-addr, *slot).
func (c *Collector) PrintRoots() {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"index", "node", "prev", "next", "slot", "*slot"})

	i := 0
	for n := c.roots.head; n != nil; n = n.next {
		var prevAddr, nextAddr string
		if n.prev != nil {
			prevAddr = fmt.Sprintf("%p", n.prev)
		}
		if n.next != nil {
			nextAddr = fmt.Sprintf("%p", n.next)
		}
		table.Append([]string{
			strconv.Itoa(i),
			fmt.Sprintf("%p", n),
			prevAddr,
			nextAddr,
			fmt.Sprintf("%p", n.slot),
			fmt.Sprintf("%#x", *n.slot),
		})
		i++
	}

	table.Render()
}
