package filament

import "errors"

// Buffer lifecycle errors - Pre-allocated for zero runtime allocation
var (
	// ErrInvalidArgument indicates a required reference was absent.
	// Returned by Init on a nil receiver and by CopyTo when the
	// destination is nil or was never constructed.
	ErrInvalidArgument = errors.New("filament: invalid argument")

	// ErrInvalidState indicates the target failed its validity check:
	// the buffer was never constructed, was closed, or its tag was
	// corrupted. Signals misuse at the call site, not a transient
	// condition. The buffer is left untouched.
	ErrInvalidState = errors.New("filament: buffer not constructed or already closed")

	// ErrAllocationFailure indicates a growth request could not be
	// satisfied. The buffer keeps its last known-good state so the
	// caller may retry or propagate; the append is never silently
	// truncated. Not retried internally.
	ErrAllocationFailure = errors.New("filament: allocation failure")
)

// IsMisuse returns true if err reports API misuse (an invalid argument
// or an unconstructed/closed buffer) rather than resource exhaustion.
//
// Example:
//
//	if err := b.Append(data); filament.IsMisuse(err) {
//	    panic(err) // programming error, not a runtime condition
//	}
func IsMisuse(err error) bool {
	return errors.Is(err, ErrInvalidArgument) || errors.Is(err, ErrInvalidState)
}

// IsAllocationFailure returns true if err is or wraps
// ErrAllocationFailure.
func IsAllocationFailure(err error) bool {
	return errors.Is(err, ErrAllocationFailure)
}
