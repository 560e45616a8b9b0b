package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/vovakirdan/voice-arcade/internal/config"
	"github.com/vovakirdan/voice-arcade/internal/storage"
)

const defaultGame = "flappy"

type messageResponse struct {
	Message string `json:"message"`
	Stored  bool   `json:"stored"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type scoreResponse struct {
	Game       string    `json:"game"`
	PlayerName string    `json:"player_name,omitempty"`
	Score      int       `json:"score"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may be gone
}

// gameParam returns the game id from a request, defaulting to flappy.
func gameParam(v string) (string, bool) {
	if v == "" {
		v = defaultGame
	}
	_, ok := config.Default(v)
	return v, ok
}

// updateScore stores a submitted score when it beats the current high score.
// Form fields: score, player_name (default Anonymous) and game (default flappy).
func (s *Server) updateScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request"})
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request"})
		return
	}

	score, err := strconv.Atoi(r.PostForm.Get("score"))
	if err != nil || score < 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid score"})
		return
	}
	gameID, ok := gameParam(r.PostForm.Get("game"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Unknown game"})
		return
	}
	if s.store == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "Scores unavailable"})
		return
	}

	player := r.PostForm.Get("player_name")
	stored, err := s.store.SubmitScore(gameID, player, score)
	if err != nil {
		s.logger.Error("could not submit score", "game", gameID, "player", player, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Could not save score"})
		return
	}
	if stored {
		s.logger.Info("new high score", "game", gameID, "player", player, "score", score)
	}

	writeJSON(w, http.StatusOK, messageResponse{Message: "Score updated successfully", Stored: stored})
}

// highScore returns the best score of a game.
func (s *Server) highScore(w http.ResponseWriter, r *http.Request) {
	gameID, ok := gameParam(r.URL.Query().Get("game"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Unknown game"})
		return
	}

	resp := scoreResponse{Game: gameID}
	if s.store != nil {
		best, err := s.store.Best(gameID)
		if err != nil {
			s.logger.Error("could not load high score", "game", gameID, "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Could not load score"})
			return
		}
		resp.PlayerName = best.PlayerName
		resp.Score = best.Score
		resp.CreatedAt = best.CreatedAt
	}
	writeJSON(w, http.StatusOK, resp)
}

// topScores returns the leaderboard of a game. Query: game, limit (default 10).
func (s *Server) topScores(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	gameID, ok := gameParam(q.Get("game"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Unknown game"})
		return
	}
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit <= 0 || limit > 100 {
		limit = 10
	}

	resp := []scoreResponse{}
	if s.store != nil {
		var entries []storage.ScoreEntry
		entries, err = s.store.TopScores(gameID, limit)
		if err != nil {
			s.logger.Error("could not load scores", "game", gameID, "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Could not load scores"})
			return
		}
		for _, e := range entries {
			resp = append(resp, scoreResponse{Game: gameID, PlayerName: e.PlayerName, Score: e.Score, CreatedAt: e.CreatedAt})
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
