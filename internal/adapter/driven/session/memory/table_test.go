package memory

import (
	"errors"
	"testing"

	"github.com/peerline/peerline/internal/core/domain"
)

const (
	peerA = domain.PeerID("peer-a")
	peerB = domain.PeerID("peer-b")
	peerC = domain.PeerID("peer-c")
)

func TestInitiate_CreatesSingleRingingSession(t *testing.T) {
	tbl := NewTable()

	if err := tbl.Initiate(peerA, peerB); err != nil {
		t.Fatalf("initiate failed: %v", err)
	}
	if got := tbl.Count(); got != 1 {
		t.Fatalf("expected 1 session, got %d", got)
	}

	// Second initiate for the same pair, either direction, must be
	// rejected without creating a second row.
	if err := tbl.Initiate(peerA, peerB); !errors.Is(err, domain.ErrSessionMismatch) {
		t.Fatalf("expected session mismatch, got %v", err)
	}
	if err := tbl.Initiate(peerB, peerA); !errors.Is(err, domain.ErrSessionMismatch) {
		t.Fatalf("expected session mismatch on glare, got %v", err)
	}
	if got := tbl.Count(); got != 1 {
		t.Fatalf("expected 1 session after rejections, got %d", got)
	}
}

func TestInitiate_RejectsSelfCall(t *testing.T) {
	tbl := NewTable()

	if err := tbl.Initiate(peerA, peerA); !errors.Is(err, domain.ErrSessionMismatch) {
		t.Fatalf("expected session mismatch, got %v", err)
	}
	if got := tbl.Count(); got != 0 {
		t.Fatalf("expected empty table, got %d sessions", got)
	}
}

func TestAccept_OnlyByDesignatedCallee(t *testing.T) {
	tbl := NewTable()
	mustInitiate(t, tbl, peerA, peerB)

	// The caller cannot accept its own call.
	if err := tbl.Accept(peerA, peerB); !errors.Is(err, domain.ErrSessionMismatch) {
		t.Fatalf("expected session mismatch, got %v", err)
	}

	if err := tbl.Accept(peerB, peerA); err != nil {
		t.Fatalf("accept by callee failed: %v", err)
	}

	// Session is now ACTIVE, a second accept no longer matches.
	if err := tbl.Accept(peerB, peerA); !errors.Is(err, domain.ErrSessionMismatch) {
		t.Fatalf("expected session mismatch on double accept, got %v", err)
	}
}

func TestAccept_NoSession(t *testing.T) {
	tbl := NewTable()

	if err := tbl.Accept(peerB, peerA); !errors.Is(err, domain.ErrSessionMismatch) {
		t.Fatalf("expected session mismatch, got %v", err)
	}
}

func TestDecline_EvictsAndAllowsNewCall(t *testing.T) {
	tbl := NewTable()
	mustInitiate(t, tbl, peerA, peerB)

	if err := tbl.Decline(peerB, peerA); err != nil {
		t.Fatalf("decline failed: %v", err)
	}
	if got := tbl.Count(); got != 0 {
		t.Fatalf("expected row evicted, got %d sessions", got)
	}

	// The pair is free again.
	if err := tbl.Initiate(peerB, peerA); err != nil {
		t.Fatalf("initiate after decline failed: %v", err)
	}
}

func TestDecline_OnlyWhileRinging(t *testing.T) {
	tbl := NewTable()
	mustInitiate(t, tbl, peerA, peerB)
	if err := tbl.Accept(peerB, peerA); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	if err := tbl.Decline(peerB, peerA); !errors.Is(err, domain.ErrSessionMismatch) {
		t.Fatalf("expected session mismatch declining active call, got %v", err)
	}
}

func TestEnd_FromRingingAndActive(t *testing.T) {
	for _, accept := range []bool{false, true} {
		tbl := NewTable()
		mustInitiate(t, tbl, peerA, peerB)
		if accept {
			if err := tbl.Accept(peerB, peerA); err != nil {
				t.Fatalf("accept failed: %v", err)
			}
		}

		s, err := tbl.End(peerA, peerB)
		if err != nil {
			t.Fatalf("end failed (accept=%v): %v", accept, err)
		}
		if s.Other(peerA) != peerB {
			t.Fatalf("unexpected counterpart %s", s.Other(peerA))
		}
		if got := tbl.Count(); got != 0 {
			t.Fatalf("expected row evicted, got %d sessions", got)
		}

		// Row is gone: a repeat end no longer matches.
		if _, err := tbl.End(peerA, peerB); !errors.Is(err, domain.ErrSessionMismatch) {
			t.Fatalf("expected session mismatch on repeated end, got %v", err)
		}
	}
}

func TestRelayable_RequiresLiveSession(t *testing.T) {
	tbl := NewTable()

	if err := tbl.Relayable(peerA, peerB); !errors.Is(err, domain.ErrSessionMismatch) {
		t.Fatalf("expected session mismatch before initiate, got %v", err)
	}

	mustInitiate(t, tbl, peerA, peerB)
	if err := tbl.Relayable(peerA, peerB); err != nil {
		t.Fatalf("relay during ringing rejected: %v", err)
	}
	if err := tbl.Relayable(peerB, peerA); err != nil {
		t.Fatalf("relay from callee rejected: %v", err)
	}

	if err := tbl.Accept(peerB, peerA); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if err := tbl.Relayable(peerA, peerB); err != nil {
		t.Fatalf("relay during active call rejected: %v", err)
	}

	if _, err := tbl.End(peerA, peerB); err != nil {
		t.Fatalf("end failed: %v", err)
	}
	if err := tbl.Relayable(peerA, peerB); !errors.Is(err, domain.ErrSessionMismatch) {
		t.Fatalf("expected session mismatch after end, got %v", err)
	}
}

func TestSweepPeer_VisitsEachSessionOnce(t *testing.T) {
	tbl := NewTable()
	mustInitiate(t, tbl, peerA, peerB)
	mustInitiate(t, tbl, peerC, peerA)

	swept := tbl.SweepPeer(peerA)
	if len(swept) != 2 {
		t.Fatalf("expected 2 swept sessions, got %d", len(swept))
	}
	for _, s := range swept {
		if !s.Terminal() {
			t.Fatalf("swept session not terminal: %v", s.State)
		}
		if !s.Involves(peerA) {
			t.Fatalf("swept session does not involve peer: %+v", s)
		}
	}
	if got := tbl.Count(); got != 0 {
		t.Fatalf("expected empty table after sweep, got %d", got)
	}

	if swept := tbl.SweepPeer(peerA); len(swept) != 0 {
		t.Fatalf("second sweep returned %d sessions", len(swept))
	}
}

func TestSweepPeer_LeavesUnrelatedSessions(t *testing.T) {
	tbl := NewTable()
	mustInitiate(t, tbl, peerA, peerB)
	mustInitiate(t, tbl, peerB, peerC)

	swept := tbl.SweepPeer(peerA)
	if len(swept) != 1 {
		t.Fatalf("expected 1 swept session, got %d", len(swept))
	}
	if err := tbl.Relayable(peerB, peerC); err != nil {
		t.Fatalf("unrelated session was disturbed: %v", err)
	}
}

func mustInitiate(t *testing.T, tbl *Table, caller, callee domain.PeerID) {
	t.Helper()
	if err := tbl.Initiate(caller, callee); err != nil {
		t.Fatalf("initiate %s -> %s failed: %v", caller, callee, err)
	}
}
