// Package gc implements the Stella runtime's semi-space copying collector:
// an incremental Baker/Cheney-with-chase collector where every allocation
// performed while a cycle is in progress also performs a bounded amount of
// to-space scanning (see Collector.scanAndAlloc).
//
// The mutator (an interpreter or compiled-code emitter), the source
// language's AST, and its evaluation rules are out of scope. This
// package only assumes the object layout described below, which it
// owns as the minimal contract it needs to decode headers; everything
// else about the source language is opaque to it.
package gc

import "unsafe"

// Tag identifies a managed object's constructor. The low bits of every
// object's header carry one of these.
type Tag uint8

const (
	TagZero Tag = iota
	TagSucc
	TagFalse
	TagTrue

	TagClosure
	TagRef
	TagUnit
	TagTuple
	TagInl
	TagInr
	TagEmptyList
	TagCons
)

func (t Tag) String() string {
	switch t {
	case TagZero:
		return "zero"
	case TagSucc:
		return "succ"
	case TagFalse:
		return "false"
	case TagTrue:
		return "true"
	case TagClosure:
		return "closure"
	case TagRef:
		return "ref"
	case TagUnit:
		return "unit"
	case TagTuple:
		return "tuple"
	case TagInl:
		return "inl"
	case TagInr:
		return "inr"
	case TagEmptyList:
		return "empty-list"
	case TagCons:
		return "cons"
	default:
		return "unknown"
	}
}

// IsRecordLike reports whether objects of this constructor may hold
// managed pointers in their fields and therefore participate in tracing.
// Successor is deliberately classified as scalar-like: chains of
// successors are never traced through, a design choice of the original
// runtime this collector preserves rather than "fixes".
func (t Tag) IsRecordLike() bool {
	switch t {
	case TagClosure, TagRef, TagUnit, TagTuple, TagInl, TagInr, TagEmptyList, TagCons:
		return true
	default:
		return false
	}
}

// Header is the single pointer-sized word at the front of every managed
// object: the low tagBits bits hold the Tag, the rest hold the field
// count. This is the canonical encoding this package requires to operate;
// a mutator is free to pack whatever additional metadata it likes
// elsewhere, but any object it hands to Collector.Alloc must carry a
// Header matching this layout as its first word.
type Header uintptr

const tagBits = 8

// NewHeader packs a tag and field count into a Header.
func NewHeader(tag Tag, fieldCount int) Header {
	return Header(uintptr(tag) | uintptr(fieldCount)<<tagBits)
}

// Tag returns the constructor tag encoded in the header.
func (h Header) Tag() Tag {
	return Tag(h & 0xFF)
}

// FieldCount returns the number of pointer-sized field slots following
// the header.
func (h Header) FieldCount() int {
	return int(h >> tagBits)
}

const (
	// HeaderSize is the size in bytes of the header word.
	HeaderSize = unsafe.Sizeof(uintptr(0))
	// SlotSize is the size in bytes of one field slot.
	SlotSize = unsafe.Sizeof(uintptr(0))
)

// ObjectSize returns the total size in bytes of an object with this
// header: the header word plus one slot per field.
func ObjectSize(h Header) uintptr {
	return HeaderSize + uintptr(h.FieldCount())*SlotSize
}

func readHeader(addr uintptr) Header {
	return *(*Header)(unsafe.Pointer(addr)) //nolint:govet
}

func writeHeader(addr uintptr, h Header) {
	*(*Header)(unsafe.Pointer(addr)) = h //nolint:govet
}

func fieldAddr(addr uintptr, i int) uintptr {
	return addr + HeaderSize + uintptr(i)*SlotSize
}

func readField(addr uintptr, i int) uintptr {
	return *(*uintptr)(unsafe.Pointer(fieldAddr(addr, i))) //nolint:govet
}

func writeField(addr uintptr, i int, v uintptr) {
	*(*uintptr)(unsafe.Pointer(fieldAddr(addr, i))) = v //nolint:govet
}

// firstField reads field 0, the slot doubling as the forwarding-pointer
// home. Returns 0 rather than reading out of bounds when an object
// declares zero fields.
func firstField(addr uintptr) uintptr {
	if readHeader(addr).FieldCount() <= 0 {
		return 0
	}
	return readField(addr, 0)
}

// setFirstField installs a value into field 0, the forwarding-pointer
// slot. A no-op on a zero-field object rather than writing out of
// bounds.
func setFirstField(addr uintptr, v uintptr) {
	if readHeader(addr).FieldCount() <= 0 {
		return
	}
	writeField(addr, 0, v)
}

// Placeholder is the reserved, non-pointer value a record-like object
// with no real payload (Unit, the empty list) carries in its single
// field slot. Every record-like tag requires at least one field so the
// forwarding-pointer overload of field 0 is always available;
// Placeholder is what the mutator puts there instead of a child
// pointer. It is deliberately non-zero: a zero first field is read by
// forward as "not yet forwarded", which would leave a zero-field
// object stuck in from-space forever.
const Placeholder uintptr = 1
