package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/voice-arcade/internal/config"
	"github.com/vovakirdan/voice-arcade/internal/sim"
	"github.com/vovakirdan/voice-arcade/internal/sound"
	"github.com/vovakirdan/voice-arcade/internal/storage"
)

// Client commands on the play socket, next to the sound.Message types.
const (
	msgStart = "start"
	msgReset = "reset"
)

// causeDisconnect marks a run that was still going when the client left.
const causeDisconnect = "disconnect"

var errClientGone = errors.New("web: client disconnected")

type helloMessage struct {
	Type    string `json:"type"`
	Session string `json:"session"`
	Game    string `json:"game"`
	Player  string `json:"player"`
}

type snapshotMessage struct {
	Type     string       `json:"type"`
	Snapshot sim.Snapshot `json:"snapshot"`
}

type resultMessage struct {
	Type         string `json:"type"`
	Score        int    `json:"score"`
	Cause        string `json:"cause"`
	HighScore    int    `json:"high_score"`
	NewHighScore bool   `json:"new_high_score"`
}

type errorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// playSession is one browser-hosted game: capture messages come in, the
// simulation runs server side and snapshots go out.
type playSession struct {
	id      string
	gameID  string
	player  string
	conn    *websocket.Conn
	gate    *sound.Gate
	driver  *sim.Driver
	store   *storage.Store
	logger  *log.Logger
	runs    int
	cmds    chan sim.Command
	updates chan sim.Snapshot
	results chan sim.Snapshot
	out     chan any
}

// play upgrades ?game=&player=&difficulty= to a play session.
func (s *Server) play(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	gameID, ok := gameParam(q.Get("game"))
	if !ok {
		http.Error(w, "unknown game", http.StatusBadRequest)
		return
	}
	cfg, err := s.loadGame(gameID, q.Get("difficulty"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}

	player := q.Get("player")
	if player == "" {
		player = storage.DefaultPlayer
	}

	p, err := s.newPlaySession(conn, cfg, gameID, player)
	if err != nil {
		s.logger.Error("could not create play session", "game", gameID, "error", err)
		conn.Close()
		return
	}
	if err := p.run(r.Context()); err != nil {
		p.logger.Error("play session failed", "error", err)
	}
}

func (s *Server) newPlaySession(conn *websocket.Conn, cfg config.GameConfig, gameID, player string) (*playSession, error) {
	id := uuid.New().String()
	p := &playSession{
		id:      id,
		gameID:  gameID,
		player:  player,
		conn:    conn,
		gate:    sound.NewGate(),
		store:   s.store,
		logger:  s.logger.With("session", id, "game", gameID, "player", player),
		cmds:    make(chan sim.Command, 4),
		updates: make(chan sim.Snapshot, 1),
		results: make(chan sim.Snapshot, 4),
		out:     make(chan any, 8),
	}

	session, err := sim.New(cfg, time.Now().UnixNano(),
		sim.WithLogger(p.logger),
		sim.WithGameOverHook(p.gameOver),
	)
	if err != nil {
		return nil, err
	}
	p.driver = sim.NewDriver(session, p.gate)
	return p, nil
}

// run serves the session until the client leaves or ctx ends.
func (p *playSession) run(ctx context.Context) error {
	defer p.conn.Close()

	p.logger.Info("play session started")
	p.out <- helloMessage{Type: "hello", Session: p.id, Game: p.gameID, Player: p.player}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return p.readLoop(ctx)
	})
	g.Go(func() error {
		return p.driver.Run(ctx, p.cmds, 0, p.notify)
	})
	g.Go(func() error {
		return p.recordLoop(ctx)
	})
	g.Go(func() error {
		return p.writeLoop(ctx)
	})
	err := g.Wait()

	// Every goroutine has stopped; the session is ours again.
	p.flush()
	p.logger.Info("play session ended", "runs", p.runs)

	if errors.Is(err, errClientGone) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// gameOver runs on the driver goroutine inside Tick.
func (p *playSession) gameOver(int) {
	snap := p.driver.Session().Snapshot()
	select {
	case p.results <- snap:
	default:
		p.logger.Warn("result queue full, dropping run", "score", snap.Score)
	}
}

// notify keeps only the newest snapshot for the writer.
func (p *playSession) notify(snap sim.Snapshot) {
	select {
	case p.updates <- snap:
		return
	default:
	}
	select {
	case <-p.updates:
	default:
	}
	select {
	case p.updates <- snap:
	default:
	}
}

func (p *playSession) readLoop(ctx context.Context) error {
	p.conn.SetReadLimit(maxMessageSize)
	_ = p.conn.SetReadDeadline(time.Now().Add(pongWait))
	p.conn.SetPongHandler(func(string) error {
		return p.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				p.logger.Warn("websocket read error", "error", err)
			}
			return errClientGone
		}
		_ = p.conn.SetReadDeadline(time.Now().Add(pongWait))

		var msg sound.Message
		if err := json.Unmarshal(data, &msg); err != nil {
			p.logger.Debug("ignoring malformed message", "error", err)
			continue
		}

		switch msg.Type {
		case msgStart:
			if p.gate.State() != sound.Ready {
				p.emit(ctx, errorMessage{Type: "error", Error: "microphone not ready"})
				continue
			}
			p.command(ctx, sim.CmdStart)
		case msgReset:
			p.command(ctx, sim.CmdReset)
		default:
			if err := msg.Apply(p.gate); err != nil {
				p.logger.Debug("ignoring message", "type", msg.Type, "error", err)
			}
		}
	}
}

func (p *playSession) writeLoop(ctx context.Context) error {
	ping := time.NewTicker(pingPeriod)
	defer func() {
		ping.Stop()
		_ = p.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		// Unblocks the reader.
		p.conn.Close()
	}()

	var last sim.Snapshot
	sent := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case snap := <-p.updates:
			// Idle and game over frames repeat; send each state once.
			if sent && snap.Tick == last.Tick && snap.Phase == last.Phase {
				continue
			}
			last, sent = snap, true
			if err := p.write(snapshotMessage{Type: "snapshot", Snapshot: snap}); err != nil {
				return err
			}

		case msg := <-p.out:
			if err := p.write(msg); err != nil {
				return err
			}

		case <-ping.C:
			if err := p.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return errClientGone
			}
		}
	}
}

func (p *playSession) write(v any) error {
	_ = p.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := p.conn.WriteJSON(v); err != nil {
		p.logger.Debug("websocket write failed", "error", err)
		return errClientGone
	}
	return nil
}

func (p *playSession) recordLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snap := <-p.results:
			p.emit(ctx, p.record(snap, snap.Cause.String()))
		}
	}
}

// record persists a finished run and builds the result for the client.
func (p *playSession) record(snap sim.Snapshot, cause string) resultMessage {
	p.runs++
	res := resultMessage{Type: "result", Score: snap.Score, Cause: cause}
	p.logger.Info("run ended", "score", snap.Score, "cause", cause, "ticks", snap.Tick)

	if p.store == nil {
		return res
	}

	if cause != causeDisconnect {
		stored, err := p.store.SubmitScore(p.gameID, p.player, snap.Score)
		if err != nil {
			p.logger.Error("could not submit score", "error", err)
		}
		res.NewHighScore = stored
	}
	if high, err := p.store.HighScore(p.gameID); err == nil {
		res.HighScore = high
	}

	rate := p.driver.Session().Config().StepsPerSecond()
	_, err := p.store.SavePlaySession(storage.PlaySession{
		SessionID:  fmt.Sprintf("%s/%d", p.id, p.runs),
		GameID:     p.gameID,
		PlayerName: p.player,
		Score:      snap.Score,
		Cause:      cause,
		Ticks:      int(snap.Tick),
		Duration:   int(snap.Tick) / rate,
	})
	if err != nil {
		p.logger.Error("could not save play session", "error", err)
	}
	return res
}

// flush records results the record loop never got to, and a run abandoned
// mid-flight.
func (p *playSession) flush() {
	for len(p.results) > 0 {
		snap := <-p.results
		p.record(snap, snap.Cause.String())
	}

	if snap := p.driver.Session().Snapshot(); snap.Phase == sim.PhaseRunning {
		p.record(snap, causeDisconnect)
	}
}

func (p *playSession) emit(ctx context.Context, msg any) {
	select {
	case p.out <- msg:
	case <-ctx.Done():
	}
}

func (p *playSession) command(ctx context.Context, cmd sim.Command) {
	select {
	case p.cmds <- cmd:
	case <-ctx.Done():
	}
}
