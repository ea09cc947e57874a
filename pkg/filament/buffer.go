// Package filament provides a small-string-optimized (SSO) growable
// byte buffer for allocation-sensitive string building.
package filament

import "fmt"

// Capacity constants
const (
	// InitialCapacity is the inline storage size in bytes. Content up
	// to InitialCapacity-1 bytes (one slot is reserved for the
	// terminator) never touches the heap. Fixed per build, not per
	// instance.
	InitialCapacity = 256

	// MaxCapacity caps a single buffer's storage at 1GB. A growth
	// request past it fails with ErrAllocationFailure and leaves the
	// buffer untouched.
	MaxCapacity = 1 << 30

	// validityTag marks a constructed Buffer. Operations on a value
	// without it fail closed.
	validityTag uint32 = 0xF17AB0FF
)

// allocBytes backs every heap growth. Tests swap it to exercise the
// allocation-failure paths.
var allocBytes = func(n int) ([]byte, error) {
	return make([]byte, n), nil
}

// Buffer is a small-string-optimized growable byte buffer.
//
// Content lives in a fixed inline array until it outgrows
// InitialCapacity, then moves to a dedicated heap block whose capacity
// doubles as needed. The byte at offset Len() in active storage is
// always 0, so views handed out by Bytes and UnsafeString are always
// terminated in storage.
//
// The zero value is not usable: call Init first, or construct with
// New. Every operation verifies the validity tag set by Init and
// fails closed with ErrInvalidState when it is absent, so stray zero
// values and closed buffers are caught at the call site instead of
// corrupting memory. Probe foreign values with IsValid.
//
// A Buffer owns its heap block exclusively. Do not copy a Buffer by
// assignment after Init (the two copies would alias one heap block);
// duplicate with CopyTo or Clone instead. A Buffer is single-owner
// and not safe for concurrent mutation; see Pool for safe reuse
// across goroutines.
//
// Performance: 0 allocs/op for content up to InitialCapacity-1 bytes
type Buffer struct {
	tag    uint32
	length int
	heap   []byte // nil in inline mode, active storage otherwise
	inline [InitialCapacity]byte
}

// New allocates and constructs an empty Buffer in inline mode.
//
// Allocation behavior: 1 alloc/op (the Buffer value itself)
func New() *Buffer {
	return &Buffer{tag: validityTag}
}

// Init constructs the buffer in place: validity tag set, length zero,
// inline storage active, capacity InitialCapacity, terminator at
// offset 0. Returns ErrInvalidArgument on a nil receiver.
//
// Init on an already-constructed buffer re-initializes it; a heap
// block the buffer held is released.
//
// Allocation behavior: 0 allocs/op
func (b *Buffer) Init() error {
	if b == nil {
		reportMisuse("Init", ErrInvalidArgument)
		return ErrInvalidArgument
	}
	b.tag = validityTag
	b.reset()
	return nil
}

// IsValid reports whether b was constructed and not closed. Nil-safe,
// no side effects, usable to probe foreign or zero values.
//
// Len returns 0 for both invalid and genuinely empty buffers; callers
// needing the distinction check IsValid first.
func (b *Buffer) IsValid() bool {
	return b != nil && b.tag == validityTag
}

// valid is the guard behind every operation: IsValid plus a report to
// the diagnostic hook on failure.
func (b *Buffer) valid(op string) bool {
	if b == nil || b.tag != validityTag {
		reportMisuse(op, ErrInvalidState)
		return false
	}
	return true
}

// active returns whichever storage currently backs the content.
//
//go:inline
func (b *Buffer) active() []byte {
	if b.heap != nil {
		return b.heap
	}
	return b.inline[:]
}

// capacity returns the usable size of the active storage, terminator
// slot included.
//
//go:inline
func (b *Buffer) capacity() int {
	if b.heap != nil {
		return len(b.heap)
	}
	return InitialCapacity
}

// reset returns the buffer to the empty inline state. Dropping the
// heap reference releases the block to the collector.
func (b *Buffer) reset() {
	b.heap = nil
	b.length = 0
	b.inline[0] = 0
}

// grow makes room for n more content bytes plus the terminator.
// Capacity doubles from its current value until it exceeds
// length+n+1, trading memory slack for fewer reallocations under
// repeated appends. The new block is allocated and filled before any
// field changes, so a failed growth leaves the buffer untouched.
func (b *Buffer) grow(n int) error {
	if n > MaxCapacity-b.length-1 {
		return ErrAllocationFailure
	}
	required := b.length + n + 1
	newCap := b.capacity()
	for newCap <= required {
		if newCap > MaxCapacity/2 {
			newCap = MaxCapacity
			break
		}
		newCap *= 2
	}
	block, err := allocBytes(newCap)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAllocationFailure, err)
	}
	copy(block, b.active()[:b.length])
	b.heap = block
	return nil
}

// Append adds p at the current end of the content and rewrites the
// terminator. Appending an empty slice on a valid buffer succeeds.
//
// If the active storage cannot hold the result plus its terminator,
// capacity grows per the doubling policy; the first growth migrates
// content from the inline array into a fresh heap block. A failed
// growth returns ErrAllocationFailure with the buffer untouched,
// never a truncated append.
//
// Growth may relocate storage: re-fetch any view taken with Bytes or
// UnsafeString after every append.
//
// Allocation behavior: 0 allocs/op while content stays inline,
// 1 alloc/op on growth
func (b *Buffer) Append(p []byte) error {
	if !b.valid("Append") {
		return ErrInvalidState
	}
	if len(p) >= b.capacity()-b.length {
		if err := b.grow(len(p)); err != nil {
			return err
		}
	}
	dst := b.active()
	copy(dst[b.length:], p)
	b.length += len(p)
	dst[b.length] = 0
	return nil
}

// AppendString adds s at the current end of the content. Identical to
// Append without converting s to a byte slice first.
//
// Allocation behavior: 0 allocs/op while content stays inline,
// 1 alloc/op on growth
func (b *Buffer) AppendString(s string) error {
	if !b.valid("AppendString") {
		return ErrInvalidState
	}
	if len(s) >= b.capacity()-b.length {
		if err := b.grow(len(s)); err != nil {
			return err
		}
	}
	dst := b.active()
	copy(dst[b.length:], s)
	b.length += len(s)
	dst[b.length] = 0
	return nil
}

// AppendByte adds the single byte c at the current end of the content.
//
// Allocation behavior: 0 allocs/op while content stays inline,
// 1 alloc/op on growth
func (b *Buffer) AppendByte(c byte) error {
	if !b.valid("AppendByte") {
		return ErrInvalidState
	}
	if b.capacity()-b.length <= 1 {
		if err := b.grow(1); err != nil {
			return err
		}
	}
	dst := b.active()
	dst[b.length] = c
	b.length++
	dst[b.length] = 0
	return nil
}

// Bytes returns the content as a view over the active storage, or nil
// if the buffer is not valid.
//
// The view is read-only by contract and valid only until the next
// mutating call on b; growth may relocate storage, so re-fetch after
// every append. Use String or Clone for a stable copy.
//
// Allocation behavior: 0 allocs/op
func (b *Buffer) Bytes() []byte {
	if !b.valid("Bytes") {
		return nil
	}
	return b.active()[:b.length]
}

// String returns a copy of the content, or "" if the buffer is not
// valid. The copy stays valid across later mutations; UnsafeString
// avoids the copy when the caller controls the lifetime.
//
// Allocation behavior: 1 alloc/op (the copy)
func (b *Buffer) String() string {
	if !b.valid("String") {
		return ""
	}
	return string(b.active()[:b.length])
}

// Len returns the content length in bytes, excluding the terminator.
// Returns 0 for an invalid buffer, indistinguishable from a valid
// empty one; check IsValid first when that matters.
func (b *Buffer) Len() int {
	if !b.valid("Len") {
		return 0
	}
	return b.length
}

// Cap returns the total capacity of the active storage in bytes,
// terminator slot included. Returns 0 for an invalid buffer.
func (b *Buffer) Cap() int {
	if !b.IsValid() {
		return 0
	}
	return b.capacity()
}

// Available returns how many more content bytes fit before the next
// growth. Returns 0 for an invalid buffer.
func (b *Buffer) Available() int {
	if !b.IsValid() {
		return 0
	}
	return b.capacity() - b.length - 1
}

// IsInline reports whether content currently lives in the inline
// array rather than a heap block. False for an invalid buffer.
func (b *Buffer) IsInline() bool {
	return b.IsValid() && b.heap == nil
}

// Clear drops the content but keeps the current storage and capacity,
// heap or inline. Designed for reuse in tight loops where repeated
// allocation would dominate; use Reset to release the heap block.
//
// Allocation behavior: 0 allocs/op
func (b *Buffer) Clear() error {
	if !b.valid("Clear") {
		return ErrInvalidState
	}
	b.length = 0
	b.active()[0] = 0
	return nil
}

// Reset returns the buffer to its just-constructed state: empty,
// inline mode, capacity InitialCapacity. Any heap block is released.
// The buffer remains valid and reusable without another Init.
//
// Allocation behavior: 0 allocs/op
func (b *Buffer) Reset() error {
	if !b.valid("Reset") {
		return ErrInvalidState
	}
	b.reset()
	return nil
}

// Close tears the buffer down: any heap block is released and the
// validity tag is cleared, so every later operation fails with
// ErrInvalidState until Init constructs the value again. Use Reset
// instead when the buffer should stay usable.
//
// Closing an already-closed buffer returns ErrInvalidState.
func (b *Buffer) Close() error {
	if !b.valid("Close") {
		return ErrInvalidState
	}
	b.reset()
	b.tag = 0
	return nil
}

// CopyTo replaces dst's content with a byte-for-byte duplicate of
// b's. dst is hard-reset first and the content re-appended through
// the normal growth path, so dst ends with its own storage, inline or
// heap, never aliasing b's.
//
// Fails with ErrInvalidState if b is not valid, and with
// ErrInvalidArgument if dst is nil or was never constructed; CopyTo
// does not construct destinations. On allocation failure dst is left
// just-reset and empty. Copying a buffer onto itself is a no-op.
func (b *Buffer) CopyTo(dst *Buffer) error {
	if !b.valid("CopyTo") {
		return ErrInvalidState
	}
	if !dst.IsValid() {
		reportMisuse("CopyTo", ErrInvalidArgument)
		return ErrInvalidArgument
	}
	if dst == b {
		return nil
	}
	dst.reset()
	return dst.Append(b.active()[:b.length])
}

// Clone returns a new independent buffer holding a copy of b's
// content.
//
// Allocation behavior: 1 alloc/op inline, 2 allocs/op when the
// content requires a heap block
func (b *Buffer) Clone() (*Buffer, error) {
	if !b.valid("Clone") {
		return nil, ErrInvalidState
	}
	dst := New()
	if err := dst.Append(b.active()[:b.length]); err != nil {
		return nil, err
	}
	return dst, nil
}
