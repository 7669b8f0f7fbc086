package gc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCollector(t *testing.T, spaceSize uint) *Collector {
	t.Helper()
	c, err := NewCollector(Config{FromSpaceSize: spaceSize, ToSpaceSize: spaceSize}, zap.NewNop())
	require.NoError(t, err)
	return c
}

// A single cons cell rooted and collected. The root's value must
// change, point into the cycle's to-space (from-space once the cycle
// has swapped the semi-spaces), and its fields must survive
// (head=42, tail=empty in that same space).
func TestCollector_SingleConsCellSurvivesCycle(t *testing.T) {
	c := newTestCollector(t, 4096)

	empty := c.AllocObject(TagEmptyList, Placeholder)
	cons := c.AllocObject(TagCons, 42, empty)

	root := cons
	c.PushRoot(&root)
	defer c.PopRoot(&root)

	c.forceCycle(t)

	assert.NotEqual(t, cons, root, "root must be relocated")
	assert.True(t, c.from.contains(root), "relocated root should land in the (new) from-space after the cycle completes")
	assert.Equal(t, uintptr(42), readField(root, 0))

	tail := readField(root, 1)
	assert.True(t, c.from.contains(tail), "tail should now live in the (post-swap) from-space")
	assert.Equal(t, TagEmptyList, readHeader(tail).Tag())
}

// A 1000-element cons list rooted at its head survives a cycle intact.
func TestCollector_LongListSurvivesCycle(t *testing.T) {
	c := newTestCollector(t, 1<<20)

	const length = 1000
	head := c.AllocObject(TagEmptyList, Placeholder)
	for i := 0; i < length; i++ {
		head = c.AllocObject(TagCons, uintptr(i), head)
	}

	root := head
	c.PushRoot(&root)
	defer c.PopRoot(&root)

	c.forceCycle(t)

	count := 0
	cur := root
	for readHeader(cur).Tag() == TagCons {
		assert.True(t, c.from.contains(cur), "every surviving node should be in the (post-swap) from-space")
		cur = readField(cur, 1)
		count++
	}
	assert.Equal(t, length, count)
	assert.Equal(t, TagEmptyList, readHeader(cur).Tag())
}

// A rooted cons list must survive not just one collection cycle but
// several in a row: the cursors collectGarbage resets for a fresh
// to-space must not be left over from whatever the previous cycle's
// from-space cursor values happened to be.
func TestCollector_SurvivesMultipleConsecutiveCycles(t *testing.T) {
	c := newTestCollector(t, 4096)

	empty := c.AllocObject(TagEmptyList, Placeholder)
	cons := c.AllocObject(TagCons, 7, empty)

	root := cons
	c.PushRoot(&root)
	defer c.PopRoot(&root)

	const cycles = 3
	for i := 0; i < cycles; i++ {
		before := c.stats.CyclesCompleted
		c.forceCycle(t)
		assert.Equal(t, before+1, c.stats.CyclesCompleted)

		assert.True(t, c.from.contains(root), "root must land in the (new) from-space after every cycle")
		assert.Equal(t, uintptr(7), readField(root, 0))

		tail := readField(root, 1)
		assert.True(t, c.from.contains(tail), "tail must land in the (new) from-space after every cycle")
		assert.Equal(t, TagEmptyList, readHeader(tail).Tag())
	}
}

// Push a root, allocate until the first cycle completes, then request
// an object larger than half the space: that request can never fit
// alongside the surviving root, so it must take the fatal out-of-memory
// path.
func TestCollector_OutOfMemoryIsFatal(t *testing.T) {
	const spaceSize = 512
	c := newTestCollector(t, spaceSize)

	root := c.AllocObject(TagTuple, 1, 2)
	c.PushRoot(&root)
	defer c.PopRoot(&root)

	c.forceCycle(t)

	var exitCode int
	exited := false
	c.exit = func(code int) {
		exited = true
		exitCode = code
		panic("simulated process exit")
	}

	func() {
		defer func() {
			_ = recover()
		}()
		h := NewHeader(TagTuple, int(spaceSize/SlotSize))
		c.Alloc(ObjectSize(h))
	}()

	require.True(t, exited, "expected the collector to take the OOM path")
	assert.Equal(t, 1, exitCode)
}

// forceCycle drives enough allocation to push the collector through a
// full collection cycle, the way a real mutator would simply by
// continuing to allocate after collectGarbage has been triggered.
func (c *Collector) forceCycle(t *testing.T) {
	t.Helper()
	c.collectGarbage()
	for c.gcRunning {
		c.AllocObject(TagUnit, Placeholder)
	}
}
