package digestprov

import (
	"github.com/cockroachdb/errors"
)

// Errors returned by providers, session stores and the server.
// Callers match them with errors.Is; wrapped variants carry extra detail.
var (
	// ErrTooManySessions is returned when the session store is at capacity
	// or no backend device can be leased for a new session.
	ErrTooManySessions = errors.New("digest: too many sessions")

	// ErrInvalidSession is returned for a handle that does not name a live
	// session, or when a finalize variant does not match the session algorithm.
	ErrInvalidSession = errors.New("digest: invalid session")

	// ErrUnsupportedAlgorithm is returned for algorithms the service
	// does not implement.
	ErrUnsupportedAlgorithm = errors.New("digest: unsupported algorithm")

	// ErrInvalidKeyLength is returned when a MAC key exceeds the
	// block size of the underlying hash.
	ErrInvalidKeyLength = errors.New("digest: invalid key length")

	// ErrKeyRequired is returned when a MAC operation is attempted
	// without a key.
	ErrKeyRequired = errors.New("digest: key required")

	// ErrInvalidInputLength is returned when a data slice exceeds the
	// limit for a single call.
	ErrInvalidInputLength = errors.New("digest: invalid input length")

	// ErrHardwareFailure is returned when the backend device fails;
	// the affected session is torn down.
	ErrHardwareFailure = errors.New("digest: hardware failure")

	// ErrBusy is returned when no backend device is free for a
	// one-shot computation.
	ErrBusy = errors.New("digest: device busy")
)

var knownErrors = []error{
	ErrTooManySessions,
	ErrInvalidSession,
	ErrUnsupportedAlgorithm,
	ErrInvalidKeyLength,
	ErrKeyRequired,
	ErrInvalidInputLength,
	ErrHardwareFailure,
	ErrBusy,
}

// KnownError reports whether err maps to one of the public errors above.
// Backend failures that do not are surfaced as ErrHardwareFailure.
func KnownError(err error) bool {
	for _, known := range knownErrors {
		if errors.Is(err, known) {
			return true
		}
	}
	return false
}
