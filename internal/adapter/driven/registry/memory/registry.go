package memory

import (
	"sync"

	"github.com/peerline/peerline/internal/core/domain"
	"github.com/peerline/peerline/internal/core/port"
	"github.com/rs/zerolog/log"
)

type entry struct {
	client port.Client
	status string
}

// Registry is the in-memory connection registry. One mutex guards the
// map so register/lookup/unregister for the same id are linearizable.
type Registry struct {
	mu    sync.RWMutex
	peers map[domain.PeerID]*entry
}

func NewRegistry() *Registry {
	return &Registry{
		peers: make(map[domain.PeerID]*entry),
	}
}

func (r *Registry) Register(c port.Client) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, replaced := r.peers[c.ID()]
	if replaced {
		// Transport-assigned ids make duplicates impossible by
		// construction; if one shows up anyway the new channel wins.
		log.Warn().Str("peer_id", c.ID().String()).Msg("Duplicate peer id, superseding old channel")
		old.client.Close()
	}
	r.peers[c.ID()] = &entry{client: c}
	return replaced
}

func (r *Registry) Lookup(id domain.PeerID) (port.Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.peers[id]
	if !ok {
		return nil, false
	}
	return e.client, true
}

func (r *Registry) Unregister(id domain.PeerID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.peers, id)
}

func (r *Registry) SetStatus(id domain.PeerID, status string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e, ok := r.peers[id]; ok {
		e.status = status
	}
}

func (r *Registry) Status(id domain.PeerID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.peers[id]
	if !ok {
		return "", false
	}
	return e.status, true
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.peers)
}
