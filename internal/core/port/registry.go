package port

import "github.com/peerline/peerline/internal/core/domain"

// Registry maps live peer ids to their outbound channels. A missing id
// is the normal "peer offline" signal, not an error.
type Registry interface {
	// Register inserts the mapping. A duplicate id silently supersedes
	// the old channel; Register reports whether one was replaced.
	Register(c Client) (replaced bool)
	Lookup(id domain.PeerID) (Client, bool)
	Unregister(id domain.PeerID)
	SetStatus(id domain.PeerID, status string)
	Status(id domain.PeerID) (string, bool)
	Count() int
}
