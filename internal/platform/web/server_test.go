package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/voice-arcade/internal/config"
	"github.com/vovakirdan/voice-arcade/internal/storage"
)

func newTestServer(t *testing.T) (*Server, *storage.Store) {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	srv, err := NewServer(Config{
		Store: store,
		Load: func(gameID string) (config.GameConfig, error) {
			cfg, _ := config.Default(gameID)
			return cfg, nil
		},
	})
	if err != nil {
		t.Fatalf("NewServer() failed: %v", err)
	}
	return srv, store
}

func postScore(t *testing.T, h http.Handler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/update_score/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestUpdateScoreRejectsGet(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/update_score/", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	var resp errorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if resp.Error != "Invalid request" {
		t.Errorf("Unexpected error message %q", resp.Error)
	}
}

func TestUpdateScoreStoresOnlyHighScores(t *testing.T) {
	srv, store := newTestServer(t)
	h := srv.Handler()

	tests := []struct {
		score  string
		player string
		stored bool
	}{
		{"10", "ana", true},
		{"7", "bo", false},
		{"10", "cy", false},
		{"12", "", true},
	}

	for _, tc := range tests {
		rec := postScore(t, h, url.Values{"score": {tc.score}, "player_name": {tc.player}})
		if rec.Code != http.StatusOK {
			t.Fatalf("score %s: expected 200, got %d", tc.score, rec.Code)
		}
		var resp messageResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if resp.Message != "Score updated successfully" {
			t.Errorf("Unexpected message %q", resp.Message)
		}
		if resp.Stored != tc.stored {
			t.Errorf("score %s: stored = %v, expected %v", tc.score, resp.Stored, tc.stored)
		}
	}

	best, err := store.Best("flappy")
	if err != nil {
		t.Fatalf("Best() failed: %v", err)
	}
	if best.Score != 12 || best.PlayerName != storage.DefaultPlayer {
		t.Errorf("Unexpected best score %+v", best)
	}
}

func TestUpdateScoreValidation(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Handler()

	tests := []struct {
		name string
		form url.Values
	}{
		{"missing score", url.Values{}},
		{"not a number", url.Values{"score": {"lots"}}},
		{"negative", url.Values{"score": {"-1"}}},
		{"unknown game", url.Values{"score": {"1"}, "game": {"tetris"}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if rec := postScore(t, h, tc.form); rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestHighScore(t *testing.T) {
	srv, store := newTestServer(t)
	store.SaveScore("runner", "ana", 4)
	store.SaveScore("runner", "bo", 9)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/high_score?game=runner", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	var resp scoreResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if resp.Game != "runner" || resp.Score != 9 || resp.PlayerName != "bo" {
		t.Errorf("Unexpected high score %+v", resp)
	}
}

func TestTopScores(t *testing.T) {
	srv, store := newTestServer(t)
	for i := 1; i <= 5; i++ {
		store.SaveScore("flappy", "p", i)
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scores?limit=3", nil))

	var resp []scoreResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(resp) != 3 || resp[0].Score != 5 || resp[2].Score != 3 {
		t.Errorf("Unexpected leaderboard %+v", resp)
	}
}

func TestIndex(t *testing.T) {
	srv, store := newTestServer(t)
	store.SaveScore("flappy", "ana", 31)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Voice Arcade") || !strings.Contains(body, "best 31") {
		t.Errorf("Index is missing title or high score")
	}

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown path, got %d", rec.Code)
	}
}

func TestLoadGame(t *testing.T) {
	srv, _ := newTestServer(t)

	cfg, err := srv.loadGame("flappy", "hard")
	if err != nil {
		t.Fatalf("loadGame() failed: %v", err)
	}
	if !cfg.Difficulty.Enabled || cfg.Difficulty.InitialLevel != 0.7 {
		t.Errorf("Expected hard preset, got %+v", cfg.Difficulty)
	}

	if _, err := srv.loadGame("tetris", ""); err == nil {
		t.Error("Expected unknown game to fail")
	}
	if _, err := srv.loadGame("runner", "insane"); err == nil {
		t.Error("Expected unknown difficulty to fail")
	}
}
