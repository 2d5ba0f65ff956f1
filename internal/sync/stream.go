package sync

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/hivesocial/chatmirror/internal/config"
	"github.com/hivesocial/chatmirror/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 4096

	maxBackoff = 30 * time.Second
)

// Stream listens to the backend's realtime socket and turns push events into
// targeted mirror refreshes, so the cache stays warm between poll ticks.
type Stream struct {
	url    string
	token  string
	syncer *Syncer
}

func NewStream(cfg config.APIConfig, syncer *Syncer) *Stream {
	return &Stream{url: cfg.WSURL, token: cfg.Token, syncer: syncer}
}

// Listen dials the socket and consumes events until the context is
// cancelled, reconnecting with capped exponential backoff on any failure.
func (s *Stream) Listen(ctx context.Context) {
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url+"?token="+s.token, nil)
		if err != nil {
			log.Warn().Err(err).Dur("retry_in", backoff).Msg("event stream dial failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			if backoff *= 2; backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}

		backoff = time.Second
		s.readPump(ctx, conn)
		conn.Close()
	}
}

// readPump consumes events from one connection until it breaks
func (s *Stream) readPump(ctx context.Context, conn *websocket.Conn) {
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	done := make(chan struct{})
	defer close(done)
	go s.pingLoop(ctx, conn, done)

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Msg("event stream closed unexpectedly")
			}
			return
		}

		var event model.Event
		if err := json.Unmarshal(payload, &event); err != nil {
			log.Warn().Err(err).Msg("unparseable stream event")
			continue
		}
		s.dispatch(ctx, event)
	}
}

func (s *Stream) pingLoop(ctx context.Context, conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case <-done:
			return
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Stream) dispatch(ctx context.Context, event model.Event) {
	switch event.Type {
	case model.EventNewMessage:
		var p model.NewMessagePayload
		if err := json.Unmarshal(event.Payload, &p); err != nil || p.ConversationID == "" {
			log.Warn().Err(err).Msg("malformed new_message payload")
			return
		}
		if _, err := s.syncer.RefreshMessages(ctx, p.ConversationID); err != nil {
			log.Warn().Err(err).Str("conversation", p.ConversationID).Msg("push-triggered message refresh failed")
		}
	case model.EventConversationUpdated, model.EventMessageRead:
		if _, err := s.syncer.RefreshConversations(ctx); err != nil {
			log.Warn().Err(err).Msg("push-triggered conversation refresh failed")
		}
	default:
		log.Debug().Str("type", event.Type).Msg("ignoring stream event")
	}
}
