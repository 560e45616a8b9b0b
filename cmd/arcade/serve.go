package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/voice-arcade/internal/platform/tui"
	"github.com/vovakirdan/voice-arcade/internal/platform/web"
	"github.com/vovakirdan/voice-arcade/internal/sound"
	"github.com/vovakirdan/voice-arcade/internal/storage"
)

var (
	flagSSHAddr     string
	flagHTTPAddr    string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the arcade SSH and HTTP servers",
	Long: `Start an SSH server for terminal play and an HTTP server for browser play.

Each SSH connection gets their own session with a game picker menu; the SSH
user name is the player name. The HTTP server hosts the browser client, the
score endpoints and the microphone feed: a browser streaming for player "ana"
drives the games of SSH user "ana".
Scores are stored per-server (all users share the same leaderboard).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.arcade/host_key

Examples:
  arcade serve                           # SSH on :23234, HTTP on :8080
  arcade serve --ssh :2222               # Listen on port 2222
  arcade serve --http ""                 # SSH only
  arcade serve --ssh "" --http :9000     # HTTP only
  arcade serve --host-key ./my_host_key  # Use specific host key
  arcade serve --db ./scores.db          # Use specific database

Users can connect with:
  ssh localhost -p 23234
  http://localhost:8080/`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port, empty disables)")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", ":8080", "HTTP server address (host:port, empty disables)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) error {
	if flagSSHAddr == "" && flagHTTPAddr == "" {
		return errors.New("nothing to serve: both --ssh and --http are empty")
	}

	logger, closeLog, err := newLogger(os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	configureGames("", "", logger)

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database", "error", err)
		// Continue without storage
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	var feeds func(user string) sound.Source
	if flagHTTPAddr != "" {
		srv, err := web.NewServer(web.Config{
			Address: flagHTTPAddr,
			Store:   store,
			Logger:  logger.WithPrefix("arcade-http"),
		})
		if err != nil {
			return err
		}
		feeds = srv.Feeds().Source
		g.Go(func() error {
			return srv.ListenAndServe(ctx)
		})
	}

	if flagSSHAddr != "" {
		server, err := tui.NewSSHServer(tui.SSHServerConfig{
			Address:     flagSSHAddr,
			HostKeyPath: flagHostKey,
			Store:       store,
			IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
			Feeds:       feeds,
			Logger:      logger.WithPrefix("arcade-ssh"),
		})
		if err != nil {
			return fmt.Errorf("creating SSH server: %w", err)
		}
		g.Go(func() error {
			return server.ListenAndServe(ctx)
		})
	}

	logger.Info("arcade is up, press Ctrl+C to stop", "ssh", flagSSHAddr, "http", flagHTTPAddr)
	return g.Wait()
}
