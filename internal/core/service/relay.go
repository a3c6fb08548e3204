package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/peerline/peerline/internal/core/domain"
	"github.com/peerline/peerline/internal/core/port"
	"github.com/rs/zerolog/log"
)

// RelayService validates each signaling message against the session
// table and forwards it to the other participant. Side effects per
// operation: one session-table mutation plus at most one fire-and-forget
// send to exactly one other peer. Errors go back to the sender only.
type RelayService struct {
	registry port.Registry
	sessions port.SessionTable
}

func NewRelayService(registry port.Registry, sessions port.SessionTable) *RelayService {
	return &RelayService{
		registry: registry,
		sessions: sessions,
	}
}

// Connect registers the peer's channel. If the id already owned a
// channel (reconnect before the old connection was reaped), the old
// channel is superseded and any sessions of the previous incarnation
// are swept: the reconnecting peer is treated as a fresh peer.
func (s *RelayService) Connect(ctx context.Context, c port.Client) {
	if replaced := s.registry.Register(c); replaced {
		s.sweep(ctx, c.ID())
	}
}

// Disconnect removes the peer and synthesizes call-ended events for
// every session it was part of. Runs synchronously so no non-terminal
// session can outlive its peer.
func (s *RelayService) Disconnect(ctx context.Context, id domain.PeerID) {
	s.registry.Unregister(id)
	s.sweep(ctx, id)
}

// CheckPeer reports whether the peer is reachable, with its last-known
// status label. Registry query only, no session effect.
func (s *RelayService) CheckPeer(ctx context.Context, id domain.PeerID) (online bool, status string) {
	status, online = s.registry.Status(id)
	return online, status
}

// SetStatus updates the sender's status label.
func (s *RelayService) SetStatus(ctx context.Context, id domain.PeerID, status string) {
	s.registry.SetStatus(id, status)
}

// Initiate places a call: creates the RINGING session and rings the
// target with the opaque offer. If the target is offline no session is
// created and the sender alone sees the failure.
func (s *RelayService) Initiate(ctx context.Context, from, to domain.PeerID, offer json.RawMessage) error {
	target, ok := s.registry.Lookup(to)
	if !ok {
		return fmt.Errorf("initiate to %s: %w", to, domain.ErrPeerUnavailable)
	}

	if err := s.sessions.Initiate(from, to); err != nil {
		return err
	}

	s.deliver(target, domain.Event{
		Kind:    domain.EventIncomingCall,
		From:    from,
		Payload: offer,
	})
	return nil
}

// Answer accepts a ringing call: RINGING to ACTIVE, answer forwarded to
// the initiator.
func (s *RelayService) Answer(ctx context.Context, from, to domain.PeerID, answer json.RawMessage) error {
	if err := s.sessions.Accept(from, to); err != nil {
		return err
	}

	s.forward(to, domain.Event{
		Kind:    domain.EventCallAnswer,
		From:    from,
		Payload: answer,
	})
	return nil
}

// Decline rejects a ringing call: session ends, decline notice forwarded
// to the initiator.
func (s *RelayService) Decline(ctx context.Context, from, to domain.PeerID) error {
	if err := s.sessions.Decline(from, to); err != nil {
		return err
	}

	s.forward(to, domain.Event{
		Kind: domain.EventCallDeclined,
		From: from,
	})
	return nil
}

// RelayCandidate forwards an opaque ICE candidate to the other party of
// a ringing or active session. Never mutates session state.
func (s *RelayService) RelayCandidate(ctx context.Context, from, to domain.PeerID, candidate json.RawMessage) error {
	if err := s.sessions.Relayable(from, to); err != nil {
		return err
	}

	s.forward(to, domain.Event{
		Kind:    domain.EventICECandidate,
		From:    from,
		Payload: candidate,
	})
	return nil
}

// Terminate hangs up a non-terminal session involving the sender and
// notifies the other party with the given reason. Terminating an already
// ended (evicted) session is a safe no-op so client retries are harmless.
func (s *RelayService) Terminate(ctx context.Context, from, to domain.PeerID, reason string) error {
	session, err := s.sessions.End(from, to)
	if err != nil {
		if errors.Is(err, domain.ErrSessionMismatch) {
			log.Debug().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Terminate for absent session, ignoring")
			return nil
		}
		return err
	}

	s.forward(session.Other(from), domain.Event{
		Kind:   domain.EventCallEnded,
		From:   from,
		Reason: reason,
	})
	return nil
}

// sweep ends every session involving id and tells each survivor the
// call is over. Best effort: a survivor we cannot reach will learn of
// the absence through its own failed lookups.
func (s *RelayService) sweep(ctx context.Context, id domain.PeerID) {
	for _, session := range s.sessions.SweepPeer(id) {
		log.Info().
			Str("peer_id", id.String()).
			Str("other", session.Other(id).String()).
			Msg("Ending call on disconnect")

		s.forward(session.Other(id), domain.Event{
			Kind:   domain.EventCallEnded,
			From:   id,
			Reason: domain.ReasonDisconnected,
		})
	}
}

// forward sends to the peer if it is still registered. Absence here is
// not an error: the sender's operation already succeeded.
func (s *RelayService) forward(to domain.PeerID, ev domain.Event) {
	target, ok := s.registry.Lookup(to)
	if !ok {
		log.Debug().Str("to", to.String()).Str("kind", string(ev.Kind)).Msg("Target gone, dropping event")
		return
	}
	s.deliver(target, ev)
}

func (s *RelayService) deliver(target port.Client, ev domain.Event) {
	if err := target.Send(ev); err != nil {
		log.Error().Err(err).
			Str("to", target.ID().String()).
			Str("kind", string(ev.Kind)).
			Msg("Failed to deliver event")
	}
}
