package filament

import "unsafe"

// UnsafeString returns the content as a string with ZERO allocations,
// sharing the buffer's active storage instead of copying it. Returns
// "" if the buffer is not valid.
//
// SAFETY REQUIREMENTS:
//  1. The returned string must be treated as READ-ONLY. Go assumes
//     string immutability; the storage behind this one is not.
//  2. The string is valid only until the next mutating call on b
//     (Append*, Write*, Clear, Reset, Close, Init, or CopyTo with b
//     as destination). Mutation rewrites or relocates the bytes the
//     string points at.
//  3. Never store the result or let it outlive b. Use String for a
//     stable copy.
//
// Example SAFE usage:
//
//	b.AppendString("user:")
//	b.AppendString(id)
//	v, ok := cache[b.UnsafeString()] // scoped, read-only map lookup
//
// Example UNSAFE usage:
//
//	key := b.UnsafeString()
//	b.Clear()          // DANGER! key now reads reused storage
//	index[key] = v     // DANGER! stored string changes under the map
//
// Performance: 0 ns/op, 0 B/op, 0 allocs/op (vs 1 alloc for String)
//
//go:inline
func (b *Buffer) UnsafeString() string {
	if !b.valid("UnsafeString") {
		return ""
	}
	if b.length == 0 {
		return ""
	}
	return unsafe.String(unsafe.SliceData(b.active()), b.length)
}
