package port

import "github.com/peerline/peerline/internal/core/domain"

// SessionTable tracks call state per unordered peer pair and enforces
// the legal transitions. Every method either applies the transition and
// returns nil, or leaves the table unchanged and returns
// domain.ErrSessionMismatch.
type SessionTable interface {
	// Initiate creates a RINGING session for {caller, callee}. Fails if a
	// non-terminal session already exists for the pair.
	Initiate(caller, callee domain.PeerID) error

	// Accept moves RINGING to ACTIVE. The sender must be the designated
	// callee of the ringing session.
	Accept(callee, caller domain.PeerID) error

	// Decline ends a RINGING session and evicts the row. The sender must
	// be the designated callee.
	Decline(callee, caller domain.PeerID) error

	// End terminates any non-terminal session involving sender for the
	// pair {sender, other} and evicts the row. Returns the evicted
	// session so the caller can notify the counterpart.
	End(sender, other domain.PeerID) (domain.Session, error)

	// Relayable reports whether a RINGING or ACTIVE session involving
	// sender exists for the pair. Never mutates state.
	Relayable(sender, other domain.PeerID) error

	// SweepPeer evicts every non-terminal session referencing id and
	// returns them, each exactly once.
	SweepPeer(id domain.PeerID) []domain.Session

	Count() int
}
