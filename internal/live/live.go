// Package live keeps a server-side mirror of an open ratio page in sync with
// the browser over a websocket.
//
// The browser forwards every native change event as a ChangeMessage. The
// server applies it to the mounted form and answers with a StateMessage
// holding the mirrored state and the recomputed result. Closing the socket
// unmounts the form.
package live

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"brewratio/internal/cache"
	"brewratio/internal/metrics"
	"brewratio/internal/page"
	"brewratio/internal/tracing"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Message types sent by the server.
const (
	MessageState = "state"
	MessageError = "error"
)

// ChangeMessage is a change event forwarded by the browser.
type ChangeMessage struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// StateMessage carries the mirrored state after mount or a change.
type StateMessage struct {
	Type    string            `json:"type"`
	State   map[string]string `json:"state,omitempty"`
	Result  string            `json:"result,omitempty"`
	Share   string            `json:"share,omitempty"`
	Initial bool              `json:"initial,omitempty"`
	Error   string            `json:"error,omitempty"`
}

func newStateMessage(v page.View, initial bool) StateMessage {
	return StateMessage{
		Type:    MessageState,
		State:   v.Values,
		Result:  v.Display,
		Share:   v.ShareURL,
		Initial: initial,
	}
}

// Hub tracks open sessions.
type Hub struct {
	provider cache.Provider
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[*session]struct{}
}

// NewHub returns a hub whose sessions cache values in provider. A nil
// provider disables caching.
func NewHub(provider cache.Provider) *Hub {
	return &Hub{
		provider: provider,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		sessions: make(map[*session]struct{}),
	}
}

// Count returns the number of open sessions.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// CloseAll closes every open session. Each session unmounts its form as its
// read loop exits.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	sessions := make([]*session, 0, len(h.sessions))
	for s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.Unlock()

	for _, s := range sessions {
		s.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		s.conn.Close()
	}
}

// Serve upgrades the request and runs a session for visitor until the
// connection closes.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, visitor string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an error response
		log.Warn().Err(err).Msg("live: websocket upgrade failed")
		return
	}

	s := &session{
		conn:    conn,
		visitor: visitor,
		page:    page.New(cache.ForVisitor(h.provider, visitor)),
	}

	h.add(s)
	defer h.remove(s)

	s.run(r.Context())
}

func (h *Hub) add(s *session) {
	h.mu.Lock()
	h.sessions[s] = struct{}{}
	h.mu.Unlock()
	metrics.LiveSessionsActive.Inc()
}

func (h *Hub) remove(s *session) {
	h.mu.Lock()
	delete(h.sessions, s)
	h.mu.Unlock()
	metrics.LiveSessionsActive.Dec()
}

type session struct {
	conn     *websocket.Conn
	visitor  string
	page     *page.Page
	writeErr error
}

func (s *session) run(ctx context.Context) {
	defer s.conn.Close()
	defer s.page.Close()

	logger := log.With().Str("visitor", s.visitor).Logger()
	logger.Debug().Msg("live: session opened")

	if err := s.write(newStateMessage(s.page.View(), true)); err != nil {
		logger.Debug().Err(err).Msg("live: failed to send initial state")
		return
	}

	unsubscribe := s.page.Subscribe(func(v page.View) {
		if s.writeErr != nil {
			return
		}
		s.writeErr = s.write(newStateMessage(v, false))
	})
	defer unsubscribe()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	stop := make(chan struct{})
	defer close(stop)
	go s.ping(stop)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn().Err(err).Msg("live: read error")
			}
			break
		}
		metrics.LiveMessagesTotal.WithLabelValues("in").Inc()

		var msg ChangeMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Debug().Err(err).Msg("live: malformed message")
			if err := s.write(StateMessage{Type: MessageError, Error: "malformed message"}); err != nil {
				break
			}
			continue
		}

		_, span := tracing.RatioSpan(ctx, "live", s.page.State().Version())
		applied := s.page.Change(msg.Name, msg.Value)
		tracing.EndWithError(span, s.writeErr)
		span.End()

		if !applied {
			logger.Debug().Str("field", msg.Name).Msg("live: change for unknown field ignored")
		}
		if s.writeErr != nil {
			logger.Debug().Err(s.writeErr).Msg("live: write failed")
			break
		}
	}

	logger.Debug().Msg("live: session closed")
}

func (s *session) write(msg StateMessage) error {
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(msg); err != nil {
		return err
	}
	metrics.LiveMessagesTotal.WithLabelValues("out").Inc()
	return nil
}

func (s *session) ping(stop <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
			if err != nil && !errors.Is(err, websocket.ErrCloseSent) {
				return
			}
		}
	}
}
