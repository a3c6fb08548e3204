package domain

import (
	"errors"
)

var (
	// ErrPeerUnavailable: target not registered. Expected and frequent,
	// reported to the sender only.
	ErrPeerUnavailable = errors.New("peer unavailable")

	// ErrSessionMismatch: event does not match the current (or absent)
	// session state. Protocol misuse or stale client state; no state change.
	ErrSessionMismatch = errors.New("session mismatch")

	// ErrInternal: registry/table corruption. Fatal to the affected
	// session only, never to the process.
	ErrInternal = errors.New("internal error")
)

// ErrorCode maps an error to its wire code for the error envelope sent
// back to the requesting peer.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrPeerUnavailable):
		return "peer-unavailable"
	case errors.Is(err, ErrSessionMismatch):
		return "session-mismatch"
	default:
		return "internal"
	}
}
