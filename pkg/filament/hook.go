package filament

import "sync/atomic"

// DiagnosticFunc receives misuse reports from validity guards: op is
// the operation that rejected the call ("Append", "CopyTo", ...) and
// err the sentinel it returned.
//
// Misuse usually means a programming error at the call site, so a
// typical hook logs or panics in development builds. The hook runs
// synchronously on the calling goroutine and must not call back into
// the buffer that triggered it.
type DiagnosticFunc func(op string, err error)

// diagnosticHook is nil by default: guard failures stay silent and
// surface only through the returned error.
var diagnosticHook atomic.Pointer[DiagnosticFunc]

// SetDiagnosticHook installs fn as the process-wide misuse reporter.
// Passing nil restores the default silent behavior. Safe for
// concurrent use.
//
// Example:
//
//	filament.SetDiagnosticHook(func(op string, err error) {
//	    log.Printf("filament misuse in %s: %v", op, err)
//	})
func SetDiagnosticHook(fn DiagnosticFunc) {
	if fn == nil {
		diagnosticHook.Store(nil)
		return
	}
	diagnosticHook.Store(&fn)
}

// DiagnosticHook returns the currently installed misuse reporter, or
// nil when reporting is silent. Callers replacing the hook temporarily
// can stash the previous one and restore it after.
func DiagnosticHook() DiagnosticFunc {
	if fn := diagnosticHook.Load(); fn != nil {
		return *fn
	}
	return nil
}

// reportMisuse forwards a guard failure to the hook, if one is set.
//
//go:inline
func reportMisuse(op string, err error) {
	if fn := diagnosticHook.Load(); fn != nil {
		(*fn)(op, err)
	}
}
