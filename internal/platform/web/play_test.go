package web

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/voice-arcade/internal/sound"
)

func dial(t *testing.T, ts *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+path, nil)
	if err != nil {
		t.Fatalf("Dial(%s) failed: %v", path, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

type frame struct {
	Type     string          `json:"type"`
	Error    string          `json:"error"`
	Session  string          `json:"session"`
	Score    int             `json:"score"`
	Cause    string          `json:"cause"`
	Snapshot json.RawMessage `json:"snapshot"`
}

// readUntil reads frames until match returns true or the deadline passes.
func readUntil(t *testing.T, conn *websocket.Conn, timeout time.Duration, match func(frame) bool) frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(timeout))
	for {
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("ReadJSON failed: %v", err)
		}
		if match(f) {
			return f
		}
	}
}

func phaseOf(f frame) string {
	var snap struct {
		Phase string `json:"phase"`
	}
	json.Unmarshal(f.Snapshot, &snap) //nolint:errcheck // empty for non-snapshot frames
	return snap.Phase
}

func TestPlaySessionRunsToGameOver(t *testing.T) {
	srv, store := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn := dial(t, ts, "/ws/play?game=flappy&player=ana")

	hello := readUntil(t, conn, 5*time.Second, func(f frame) bool { return f.Type == "hello" })
	if hello.Session == "" {
		t.Fatal("Expected a session id")
	}

	// Start before the microphone is granted is refused.
	conn.WriteJSON(sound.Message{Type: "start"})
	readUntil(t, conn, 5*time.Second, func(f frame) bool { return f.Type == "error" })

	conn.WriteJSON(sound.Message{Type: sound.MsgReady})
	loud := 200.0
	conn.WriteJSON(sound.Message{Type: sound.MsgSample, Intensity: &loud})
	quiet := 0.0
	conn.WriteJSON(sound.Message{Type: sound.MsgSample, Intensity: &quiet})
	conn.WriteJSON(sound.Message{Type: "start"})

	readUntil(t, conn, 5*time.Second, func(f frame) bool {
		return f.Type == "snapshot" && phaseOf(f) == "running"
	})

	// Silence lets the bird drop to the floor.
	result := readUntil(t, conn, 15*time.Second, func(f frame) bool { return f.Type == "result" })
	if result.Cause != "floor" && result.Cause != "pipe" {
		t.Errorf("Unexpected cause %q", result.Cause)
	}

	runs, err := store.RecentPlaySessions("flappy", 10)
	if err != nil {
		t.Fatalf("RecentPlaySessions() failed: %v", err)
	}
	if len(runs) != 1 || runs[0].PlayerName != "ana" || runs[0].Score != result.Score {
		t.Errorf("Unexpected recorded runs %+v", runs)
	}
	if !strings.HasPrefix(runs[0].SessionID, hello.Session) {
		t.Errorf("Run id %q does not belong to session %q", runs[0].SessionID, hello.Session)
	}

	// Reset goes straight back to running.
	conn.WriteJSON(sound.Message{Type: "reset"})
	readUntil(t, conn, 5*time.Second, func(f frame) bool {
		return f.Type == "snapshot" && phaseOf(f) == "running"
	})
}

func TestPlayRejectsUnknownGame(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws/play?game=tetris", nil)
	if err == nil {
		t.Fatal("Expected dial to fail")
	}
	if resp == nil || resp.StatusCode != 400 {
		t.Errorf("Expected 400 response, got %v", resp)
	}
}
