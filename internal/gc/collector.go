package gc

import (
	"os"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Collector is a collector handle: one heap (the two semi-spaces and
// their shared cursors), one root registry, one stats block. A handle
// instead of package-level state so multiple independent heaps can
// coexist and so tests can swap out exit for a double.
//
// Cursor model: next, scan, and limit are not per-semi-space state. They
// describe whichever region is currently being bump-allocated into.
// Normal (non-cycle) allocation bumps next up through from-space. Once a
// cycle starts, the same three cursors describe to-space instead:
// evacuation bumps next up from the bottom, scan chases it from below,
// and scan-and-alloc reservations bump limit down from the top. At cycle
// end, from and to are swapped by relabeling their extents (base/size);
// collectGarbage then resets the cursors for the freshly labeled
// to-space, since the values left over from the just-finished cycle
// describe the wrong region.
type Collector struct {
	cfg    Config
	logger *zap.Logger

	from, to extent

	next, scan, limit uintptr
	gcRunning         bool

	roots rootRegistry
	stats Stats

	exit func(code int)
}

// NewCollector constructs a collector with the given configuration. The
// semi-spaces are not allocated yet; both are lazily allocated on first
// use, from-space on the first Alloc, to-space on the first collection
// cycle.
func NewCollector(cfg Config, logger *zap.Logger) (*Collector, error) {
	if err := cfg.validate(); err != nil {
		return nil, errors.Wrap(err, "gc: invalid configuration")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{
		cfg:    cfg,
		logger: logger,
		exit:   os.Exit,
	}, nil
}

func (c *Collector) initFromSpace() {
	c.from = newExtent(uintptr(c.cfg.FromSpaceSize))
	c.next = c.from.base
	c.limit = c.from.end()
}

func (c *Collector) initToSpace() {
	if c.to.mem == nil {
		c.to = newExtent(uintptr(c.cfg.ToSpaceSize))
	}
}

// Alloc reserves sizeInBytes bytes for a fresh, uninitialized object and
// returns its address. The caller must write the object's header and
// fields before the next call to Alloc or to any read barrier.
func (c *Collector) Alloc(sizeInBytes uintptr) uintptr {
	if c.from.mem == nil {
		c.initFromSpace()
	}

	if c.gcRunning {
		return c.scanAndAlloc(sizeInBytes)
	}

	if c.next+sizeInBytes < c.limit {
		p := c.next
		c.next += sizeInBytes
		c.stats.recordAlloc(sizeInBytes)
		return p
	}

	c.collectGarbage()
	return c.scanAndAlloc(sizeInBytes)
}

// AllocObject is a convenience wrapper over Alloc for exercising the
// collector without hand-rolling header/field pokes: it reserves space
// for an object with the given tag and field values and initializes it
// in place before returning its address.
func (c *Collector) AllocObject(tag Tag, fields ...uintptr) uintptr {
	h := NewHeader(tag, len(fields))
	addr := c.Alloc(ObjectSize(h))
	writeHeader(addr, h)
	for i, f := range fields {
		writeField(addr, i, f)
	}
	return addr
}

// collectGarbage begins a new collection cycle: it marks a cycle in
// progress, makes sure to-space is allocated, resets the cursors to
// describe to-space fresh (next/scan at the bottom, limit at the top,
// regardless of whatever values they held from the previous cycle), and
// seeds the copy by forwarding every registered root. From this point
// on, scanning is driven entirely by the allocations that follow; the
// very next Alloc call must dispatch to scanAndAlloc, which it does
// via c.gcRunning.
func (c *Collector) collectGarbage() {
	c.gcRunning = true
	c.initToSpace()
	c.next = c.to.base
	c.scan = c.to.base
	c.limit = c.to.end()

	c.logger.Debug("gc: cycle start",
		zap.Uint64("residency_bytes", c.stats.ResidencyBytes),
		zap.Int("roots", c.roots.size),
	)

	c.roots.forEach(func(slot *uintptr) {
		*slot = c.forward(*slot)
	})
}

// scanAndAlloc interleaves to-space scanning with the allocation that
// triggered it: it scans at least sizeInBytes worth of to-space, or up
// to the bump cursor if that comes first, checks
// for heap exhaustion, reserves the new object at the top of to-space,
// and, if the scan cursor has caught the bump cursor, completes the
// cycle by swapping the semi-spaces.
func (c *Collector) scanAndAlloc(sizeInBytes uintptr) uintptr {
	var scanned uintptr
	for scanned < sizeInBytes && c.scan < c.next {
		obj := c.scan
		h := readHeader(obj)
		n := h.FieldCount()
		for i := 0; i < n; i++ {
			field := readField(obj, i)
			if c.from.contains(field) {
				writeField(obj, i, c.forward(field))
			}
		}
		sz := ObjectSize(h)
		c.scan += sz
		scanned += sz
	}

	// Checked before limit is shrunk for this request, with the same
	// strict margin Alloc's fast path requires (next+sizeInBytes <
	// limit there): the reservation is refused if it would leave next
	// and limit meeting or crossing.
	if c.next+sizeInBytes >= c.limit {
		c.outOfMemory(sizeInBytes)
	}

	if c.scan >= c.next {
		c.gcRunning = false
		c.from, c.to = c.to, c.from
		c.stats.CyclesCompleted++
		c.stats.resetResidency()
		c.logger.Debug("gc: cycle complete", zap.Uint64("cycles", c.stats.CyclesCompleted))
	}

	c.limit -= sizeInBytes
	c.stats.recordAlloc(sizeInBytes)
	return c.limit
}

func (c *Collector) outOfMemory(requested uintptr) {
	err := errors.Errorf("gc: out of memory, requested %d bytes with %d resident", requested, c.stats.ResidencyBytes)
	c.logger.Error("gc: out of memory", zap.Error(err))
	c.PrintAllocStats()
	c.PrintRoots()
	c.PrintState()
	c.exit(1)
}

// PushRoot registers a root slot. A nil slot is a no-op.
func (c *Collector) PushRoot(slot *uintptr) {
	c.roots.push(slot)
}

// PopRoot unregisters the most-recently pushed matching root slot.
// Popping an unregistered slot is a silent no-op.
func (c *Collector) PopRoot(slot *uintptr) {
	c.roots.pop(slot)
}

// Stats returns a snapshot of the collector's allocation and barrier
// counters.
func (c *Collector) Stats() Stats {
	return c.stats
}
