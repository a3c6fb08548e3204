package domain

import (
	"time"
)

type CallState string

const (
	StateRinging CallState = "ringing"
	StateActive  CallState = "active"
	StateEnded   CallState = "ended"
)

// PairKey identifies the unordered peer pair a session belongs to.
// At most one non-terminal session may exist per pair.
type PairKey struct {
	Low, High PeerID
}

func NewPairKey(a, b PeerID) PairKey {
	if b < a {
		a, b = b, a
	}
	return PairKey{Low: a, High: b}
}

// Session is the signaling-level representation of one call attempt.
// Caller placed the call; Callee is the side that may accept or decline.
type Session struct {
	Caller    PeerID
	Callee    PeerID
	State     CallState
	CreatedAt time.Time
}

func (s Session) Key() PairKey {
	return NewPairKey(s.Caller, s.Callee)
}

// Involves reports whether id is one of the two participants.
func (s Session) Involves(id PeerID) bool {
	return s.Caller == id || s.Callee == id
}

// Other returns the counterpart of id in the session. Callers must have
// checked Involves first.
func (s Session) Other(id PeerID) PeerID {
	if s.Caller == id {
		return s.Callee
	}
	return s.Caller
}

func (s Session) Terminal() bool {
	return s.State == StateEnded
}
