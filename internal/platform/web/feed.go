package web

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/voice-arcade/internal/sound"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 25 * time.Second
	maxMessageSize = 1 << 16
)

// FeedHub holds one capture gate per player. A browser tab streams a
// player's microphone into the hub while the same player plays elsewhere,
// e.g. over SSH.
type FeedHub struct {
	mu    sync.Mutex
	gates map[string]*sound.Gate
}

// NewFeedHub creates an empty hub.
func NewFeedHub() *FeedHub {
	return &FeedHub{gates: make(map[string]*sound.Gate)}
}

// Gate returns the gate for a player, creating it on first use.
func (h *FeedHub) Gate(player string) *sound.Gate {
	h.mu.Lock()
	defer h.mu.Unlock()

	g, ok := h.gates[player]
	if !ok {
		g = sound.NewGate()
		h.gates[player] = g
	}
	return g
}

// Source returns the player's feed as a sample source.
func (h *FeedHub) Source(player string) sound.Source {
	return h.Gate(player)
}

// feed accepts capture messages for ?player= and applies them to its gate.
// The gate is revoked when the socket closes.
func (s *Server) feed(w http.ResponseWriter, r *http.Request) {
	player := r.URL.Query().Get("player")
	if player == "" {
		http.Error(w, "player is required", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer conn.Close()

	gate := s.feeds.Gate(player)
	defer gate.Revoke()

	logger := s.logger.With("player", player, "remote", r.RemoteAddr)
	logger.Info("feed connected")
	defer logger.Info("feed disconnected")

	conn.SetReadLimit(maxMessageSize)
	for {
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("feed read error", "error", err)
			}
			return
		}

		var msg sound.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Debug("ignoring malformed feed message", "error", err)
			continue
		}
		if err := msg.Apply(gate); err != nil {
			logger.Debug("ignoring feed message", "type", msg.Type, "error", err)
		}
	}
}
