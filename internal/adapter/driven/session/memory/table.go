package memory

import (
	"fmt"
	"sync"
	"time"

	"github.com/peerline/peerline/internal/core/domain"
)

// Table is the in-memory call session table. Rows exist only in the
// RINGING and ACTIVE states: a terminal transition evicts the row under
// the same lock, so a stale message for an ended call finds no row and
// fails with a session mismatch instead of touching a newer session for
// the same pair.
type Table struct {
	mu       sync.Mutex
	sessions map[domain.PairKey]*domain.Session
}

func NewTable() *Table {
	return &Table{
		sessions: make(map[domain.PairKey]*domain.Session),
	}
}

func (t *Table) Initiate(caller, callee domain.PeerID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if caller == callee {
		return fmt.Errorf("peer cannot call itself: %w", domain.ErrSessionMismatch)
	}

	key := domain.NewPairKey(caller, callee)
	if s, ok := t.sessions[key]; ok {
		return fmt.Errorf("pair already has a %s session: %w", s.State, domain.ErrSessionMismatch)
	}

	t.sessions[key] = &domain.Session{
		Caller:    caller,
		Callee:    callee,
		State:     domain.StateRinging,
		CreatedAt: time.Now(),
	}
	return nil
}

func (t *Table) Accept(callee, caller domain.PeerID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, err := t.ringing(callee, caller)
	if err != nil {
		return err
	}
	s.State = domain.StateActive
	return nil
}

func (t *Table) Decline(callee, caller domain.PeerID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, err := t.ringing(callee, caller)
	if err != nil {
		return err
	}
	s.State = domain.StateEnded
	delete(t.sessions, s.Key())
	return nil
}

// ringing returns the RINGING session for {callee, caller} with callee
// as the designated target. Caller must hold t.mu.
func (t *Table) ringing(callee, caller domain.PeerID) (*domain.Session, error) {
	s, ok := t.sessions[domain.NewPairKey(callee, caller)]
	if !ok {
		return nil, fmt.Errorf("no session for pair: %w", domain.ErrSessionMismatch)
	}
	if s.State != domain.StateRinging {
		return nil, fmt.Errorf("session is %s, not ringing: %w", s.State, domain.ErrSessionMismatch)
	}
	if s.Callee != callee {
		return nil, fmt.Errorf("responder is not the called party: %w", domain.ErrSessionMismatch)
	}
	return s, nil
}

func (t *Table) End(sender, other domain.PeerID) (domain.Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	key := domain.NewPairKey(sender, other)
	s, ok := t.sessions[key]
	if !ok {
		return domain.Session{}, fmt.Errorf("no session for pair: %w", domain.ErrSessionMismatch)
	}
	if !s.Involves(sender) {
		return domain.Session{}, fmt.Errorf("sender not in session: %w", domain.ErrSessionMismatch)
	}

	s.State = domain.StateEnded
	delete(t.sessions, key)
	return *s, nil
}

func (t *Table) Relayable(sender, other domain.PeerID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[domain.NewPairKey(sender, other)]
	if !ok {
		return fmt.Errorf("no session for pair: %w", domain.ErrSessionMismatch)
	}
	if !s.Involves(sender) {
		return fmt.Errorf("sender not in session: %w", domain.ErrSessionMismatch)
	}
	// Rows only exist as RINGING or ACTIVE, both relayable.
	return nil
}

func (t *Table) SweepPeer(id domain.PeerID) []domain.Session {
	t.mu.Lock()
	defer t.mu.Unlock()

	var swept []domain.Session
	for key, s := range t.sessions {
		if !s.Involves(id) {
			continue
		}
		s.State = domain.StateEnded
		swept = append(swept, *s)
		delete(t.sessions, key)
	}
	return swept
}

func (t *Table) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sessions)
}
