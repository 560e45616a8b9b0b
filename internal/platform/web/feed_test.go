package web

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vovakirdan/voice-arcade/internal/sound"
)

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("Timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestFeedHubGateIsPerPlayer(t *testing.T) {
	hub := NewFeedHub()

	if hub.Gate("ana") != hub.Gate("ana") {
		t.Error("Expected the same gate for the same player")
	}
	if hub.Gate("ana") == hub.Gate("bo") {
		t.Error("Expected separate gates for different players")
	}
}

func TestFeedStreamsSamples(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn := dial(t, ts, "/ws/feed?player=ana")
	src := srv.Feeds().Source("ana")

	// Samples before ready are dropped.
	early := 90.0
	conn.WriteJSON(sound.Message{Type: sound.MsgSample, Intensity: &early})

	conn.WriteJSON(sound.Message{Type: sound.MsgReady})
	conn.WriteJSON(sound.Message{Type: sound.MsgSample, Bins: []int{100, 200}})
	waitFor(t, "binned sample", func() bool { return src.Poll() == 150 })

	gate := srv.Feeds().Gate("ana")
	conn.Close()
	waitFor(t, "revoke on close", func() bool { return gate.State() == sound.AwaitingPermission })
	if src.Poll() != 0 {
		t.Error("Expected a revoked feed to read 0")
	}
}
