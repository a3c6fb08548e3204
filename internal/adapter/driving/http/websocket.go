package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/peerline/peerline/internal/core/domain"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// TODO: only for dev
	CheckOrigin: func(r *http.Request) bool { return true },
}

// envelope is the tagged wire message, both directions. Unused fields
// stay empty; offer/answer/candidate blobs are relayed verbatim.
type envelope struct {
	Type      string          `json:"type"`
	From      string          `json:"from,omitempty"`
	To        string          `json:"to,omitempty"`
	PeerID    string          `json:"peerId,omitempty"`
	Online    *bool           `json:"online,omitempty"`
	Status    string          `json:"status,omitempty"`
	Offer     json.RawMessage `json:"offer,omitempty"`
	Answer    json.RawMessage `json:"answer,omitempty"`
	Candidate json.RawMessage `json:"candidate,omitempty"`
	Reason    string          `json:"reason,omitempty"`
	Code      string          `json:"code,omitempty"`
	Message   string          `json:"message,omitempty"`
}

type WSClient struct {
	id   domain.PeerID
	conn *websocket.Conn

	// Outbound queue drained by writePump. Sends never block the relay:
	// a full queue drops the message.
	queue chan envelope
	done  chan struct{}
	once  sync.Once
}

func newWSClient(id domain.PeerID, conn *websocket.Conn, queueSize int) *WSClient {
	return &WSClient{
		id:    id,
		conn:  conn,
		queue: make(chan envelope, queueSize),
		done:  make(chan struct{}),
	}
}

func (c *WSClient) ID() domain.PeerID {
	return c.id
}

func (c *WSClient) Send(ev domain.Event) error {
	env := envelope{
		Type:   string(ev.Kind),
		From:   ev.From.String(),
		Reason: ev.Reason,
	}

	switch ev.Kind {
	case domain.EventIncomingCall:
		env.Offer = ev.Payload
	case domain.EventCallAnswer:
		env.Answer = ev.Payload
	case domain.EventICECandidate:
		env.Candidate = ev.Payload
	}

	return c.enqueue(env)
}

func (c *WSClient) enqueue(env envelope) error {
	select {
	case c.queue <- env:
		return nil
	case <-c.done:
		return websocket.ErrCloseSent
	default:
		log.Warn().Str("client_id", c.id.String()).Str("type", env.Type).Msg("Send queue full, dropping message")
		return nil
	}
}

func (c *WSClient) writePump() {
	for {
		select {
		case <-c.done:
			return
		case env := <-c.queue:
			if err := c.conn.WriteJSON(env); err != nil {
				log.Debug().Err(err).Str("client_id", c.id.String()).Msg("Write failed")
				return
			}
		}
	}
}

func (c *WSClient) Close() error {
	c.once.Do(func() {
		close(c.done)
	})
	return c.conn.Close()
}

func (c *WSClient) sendError(err error) {
	c.enqueue(envelope{
		Type:    "error",
		Code:    domain.ErrorCode(err),
		Message: err.Error(),
	})
}

// HTTP handler
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Error while upgrading ws")
		return
	}
	conn.SetReadLimit(h.Cfg.MaxMessageBytes)

	clientID := domain.NewPeerID()
	client := newWSClient(clientID, conn, h.Cfg.SendQueueSize)

	l := log.With().Str("client_id", clientID.String()).Logger()
	l.Info().Msg("New client connected")

	go client.writePump()
	h.Relay.Connect(r.Context(), client)

	defer func() {
		l.Info().Msg("Client disconnected")
		h.Relay.Disconnect(r.Context(), clientID)
		client.Close()
	}()

	// The client only learns its transport-assigned id from us.
	client.enqueue(envelope{Type: "registered", PeerID: clientID.String()})

	for {
		var req envelope
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				l.Error().Err(err).Msg("Unexpected close error")
			}
			break
		}

		if err := h.dispatch(r.Context(), client, req); err != nil {
			l.Debug().Err(err).Str("type", req.Type).Msg("Rejected message")
			client.sendError(err)
		}
	}
}

func (h *Handler) dispatch(ctx context.Context, client *WSClient, req envelope) error {
	from := client.ID()
	to := domain.PeerID(req.To)

	switch req.Type {
	case "check-peer":
		online, status := h.Relay.CheckPeer(ctx, domain.PeerID(req.PeerID))
		return client.enqueue(envelope{
			Type:   "peer-status",
			PeerID: req.PeerID,
			Online: &online,
			Status: status,
		})

	case "status":
		h.Relay.SetStatus(ctx, from, req.Status)
		return nil

	case "call-offer":
		return h.Relay.Initiate(ctx, from, to, req.Offer)

	case "call-answer":
		return h.Relay.Answer(ctx, from, to, req.Answer)

	case "decline-call":
		return h.Relay.Decline(ctx, from, to)

	case "ice-candidate":
		return h.Relay.RelayCandidate(ctx, from, to, req.Candidate)

	case "end-call":
		return h.Relay.Terminate(ctx, from, to, req.Reason)

	default:
		log.Warn().Str("type", req.Type).Msg("Unknown message type, ignoring")
		return nil
	}
}
