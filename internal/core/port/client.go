package port

import "github.com/peerline/peerline/internal/core/domain"

// Client is one peer's outbound channel. Send must not block: the
// transport adapter owns buffering, and a send that cannot be queued is
// dropped, not retried.
type Client interface {
	ID() domain.PeerID
	Send(ev domain.Event) error
	Close() error
}
