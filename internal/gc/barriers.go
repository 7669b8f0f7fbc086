package gc

// ReadBarrier must be invoked by the mutator before every managed-field
// load. If a cycle is in progress and the field currently holds a
// from-space pointer, it is healed in place to the forwarded to-space
// address and returned; otherwise the field's current value is returned
// unchanged. Outside a cycle this is a no-op beyond the stats
// increment.
func (c *Collector) ReadBarrier(obj uintptr, i int) uintptr {
	c.stats.ManagedReads++

	v := readField(obj, i)
	if !c.gcRunning || !c.from.contains(v) {
		return v
	}

	fwd := c.forward(v)
	writeField(obj, i, fwd)
	c.stats.ReadBarrierHits++
	return fwd
}

// WriteBarrier is a call site reserved for future extension: incremental
// copying needs no generational or remembered-set write barrier, so this
// only stores the value and updates stats.
func (c *Collector) WriteBarrier(obj uintptr, i int, v uintptr) {
	writeField(obj, i, v)
	c.stats.ManagedWrites++
	if c.gcRunning {
		c.stats.WriteBarrierHits++
	}
}
