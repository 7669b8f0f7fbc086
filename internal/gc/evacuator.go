package gc

// forward returns the canonical to-space location of the object p points
// at. Non-managed pointers, pointers already in to-space, and pointers to
// scalar-like objects are returned unchanged.
//
// An object whose first field reads as null is treated as "not yet
// forwarded this cycle" and is returned as-is rather than copied. This
// is deliberately kept even though it means an object whose first field
// is legitimately null (see Placeholder) would never be relocated; every
// record-like object is required to carry a non-null value there for
// exactly this reason.
func (c *Collector) forward(p uintptr) uintptr {
	if !c.from.contains(p) {
		return p
	}
	if !readHeader(p).Tag().IsRecordLike() {
		return p
	}

	f1 := firstField(p)
	if f1 == 0 {
		return p
	}
	if c.to.contains(f1) {
		return f1
	}

	c.chase(p)
	return firstField(p)
}

// chase copies p to to-space and iteratively follows one un-evacuated
// child per step, trading recursion for a bounded loop. Only the last
// un-forwarded child discovered each step is pursued directly; the rest
// are left for the scan-and-allocate driver to pick up later, which is
// sound because the copy below runs before the forwarding pointer is
// installed, so the freshly copied object still holds the original,
// unforwarded child pointers for the scan phase to find.
func (c *Collector) chase(p uintptr) {
	for {
		h := readHeader(p)
		n := h.FieldCount()
		sz := ObjectSize(h)

		q := c.next
		c.next += sz
		copy(c.to.mem[q-c.to.base:q-c.to.base+sz], c.from.mem[p-c.from.base:p-c.from.base+sz])

		var successor uintptr
		for i := 0; i < n; i++ {
			child := readField(p, i)
			if !c.from.contains(child) || !readHeader(child).Tag().IsRecordLike() {
				continue
			}
			childFirst := firstField(child)
			if childFirst == 0 || !c.to.contains(childFirst) {
				// Not yet forwarded: a candidate chase successor. Only
				// the last one found survives; earlier candidates are
				// recovered later when the scan driver reaches q.
				successor = child
			}
		}

		setFirstField(p, q)

		if successor == 0 {
			return
		}
		p = successor
	}
}
