package domain

import (
	"github.com/google/uuid"
)

// PeerID identifies one live connection. Assigned by the transport
// adapter at connect time, never reused while the connection is open.
type PeerID string

func NewPeerID() PeerID {
	return PeerID(uuid.New().String())
}

func (id PeerID) String() string {
	return string(id)
}
