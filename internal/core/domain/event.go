package domain

import (
	"encoding/json"
)

type EventKind string

const (
	EventIncomingCall EventKind = "incoming-call"
	EventCallAnswer   EventKind = "call-answer"
	EventCallDeclined EventKind = "call-declined"
	EventICECandidate EventKind = "ice-candidate"
	EventCallEnded    EventKind = "call-ended"
)

// ReasonDisconnected is the end reason synthesized when a participant's
// connection goes away mid-call.
const ReasonDisconnected = "disconnected"

// Event is one outbound notification to a single peer. Payload carries
// the opaque SDP/ICE blob; the relay never inspects it.
type Event struct {
	Kind    EventKind
	From    PeerID
	Payload json.RawMessage
	Reason  string
}
