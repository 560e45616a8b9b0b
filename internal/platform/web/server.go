// Package web hosts the arcade over HTTP: the score endpoints, a microphone
// feed for terminal players and browser play sessions over websockets.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/voice-arcade/internal/config"
	"github.com/vovakirdan/voice-arcade/internal/storage"
)

var (
	//go:embed templates
	templatesFS embed.FS

	upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
)

// Config holds configuration for the HTTP server.
type Config struct {
	// Address is the host:port to listen on (e.g., ":8080").
	Address string

	// Store receives scores and play sessions. Nil disables persistence.
	Store *storage.Store

	Logger *log.Logger

	// Load returns the game config for a play session. Defaults to config.Load
	// with no custom path.
	Load func(gameID string) (config.GameConfig, error)
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Address: ":8080",
	}
}

// Server serves the web endpoints.
type Server struct {
	config    Config
	store     *storage.Store
	feeds     *FeedHub
	logger    *log.Logger
	templates *template.Template
	server    *http.Server
}

// NewServer creates a server. It does not start listening.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Load == nil {
		cfg.Load = func(gameID string) (config.GameConfig, error) {
			return config.Load(gameID, "")
		}
	}

	templates, err := template.ParseFS(templatesFS, "templates/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("web: cannot parse templates: %w", err)
	}

	return &Server{
		config:    cfg,
		store:     cfg.Store,
		feeds:     NewFeedHub(),
		logger:    cfg.Logger,
		templates: templates,
	}, nil
}

// Feeds returns the hub holding microphone feeds by player name.
func (s *Server) Feeds() *FeedHub {
	return s.feeds
}

// Handler returns the HTTP handler with every route mounted.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.index)
	mux.HandleFunc("/update_score/", s.updateScore)
	mux.HandleFunc("/high_score", s.highScore)
	mux.HandleFunc("/scores", s.topScores)
	mux.HandleFunc("/ws/feed", s.feed)
	mux.HandleFunc("/ws/play", s.play)
	return s.loggingMiddleware(mux)
}

// loggingMiddleware logs each request at debug level.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
			"took", time.Since(start),
		)
	})
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
// Websocket sessions inherit ctx and end with it.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              s.config.Address,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	s.logger.Info("starting HTTP server", "address", s.config.Address)

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(shutdownCtx)
}

// Addr returns the server's listen address string.
func (s *Server) Addr() string {
	return s.config.Address
}

// loadGame resolves the config for a game and applies a difficulty preset.
func (s *Server) loadGame(gameID, difficulty string) (config.GameConfig, error) {
	if _, ok := config.Default(gameID); !ok {
		return config.GameConfig{}, fmt.Errorf("unknown game %q", gameID)
	}
	preset, err := config.ParsePreset(difficulty)
	if err != nil {
		return config.GameConfig{}, err
	}
	cfg, err := s.config.Load(gameID)
	if err != nil {
		return config.GameConfig{}, err
	}
	config.ApplyPreset(&cfg, preset)
	return cfg, nil
}

type indexGame struct {
	ID        string
	HighScore int
}

// index renders the browser client with the current high scores.
func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	games := []indexGame{{ID: "flappy"}, {ID: "runner"}}
	if s.store != nil {
		for i := range games {
			if high, err := s.store.HighScore(games[i].ID); err == nil {
				games[i].HighScore = high
			}
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.gohtml", games); err != nil {
		s.logger.Error("Failed to render index template", "error", err)
	}
}
