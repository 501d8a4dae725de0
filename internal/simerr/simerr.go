// Package simerr defines the sentinel error taxonomy shared by every
// core package. Wrap these with fmt.Errorf("...: %w", err) at call
// sites so callers can still errors.Is against the kind.
package simerr

import "errors"

var (
	// ErrInvalidArgument marks an out-of-domain input to a runtime helper
	// (bool(p) with p outside [0,1], int(min>=max), empty pick, ...).
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidConfig marks a bad constructor-time configuration value
	// (non-positive tile dimensions, zero cache capacity, out-of-range
	// real tick interval, ...).
	ErrInvalidConfig = errors.New("invalid config")

	// ErrDuplicateName marks re-registration under a name that must be
	// unique (a handler, a subsystem, a memoized stream).
	ErrDuplicateName = errors.New("duplicate name")

	// ErrStateMismatch marks a restore whose embedded seed/originalSeed
	// does not match the target manager/stream.
	ErrStateMismatch = errors.New("state mismatch")

	// ErrAlreadyInitialized marks a second init of a process singleton.
	ErrAlreadyInitialized = errors.New("already initialized")

	// ErrNotInitialized marks use of a singleton before init or after
	// teardown.
	ErrNotInitialized = errors.New("not initialized")
)
