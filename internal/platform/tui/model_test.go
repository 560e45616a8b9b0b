package tui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/voice-arcade/internal/core"
	"github.com/vovakirdan/voice-arcade/internal/games/flappy"
	"github.com/vovakirdan/voice-arcade/internal/storage"
)

func newTestModel(t *testing.T, store *storage.Store, opts ...Option) Model {
	t.Helper()
	cfg := core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1}
	return NewModel(flappy.New(), store, cfg, opts...)
}

func press(m Model, key rune) Model {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{key}})
	return next.(Model)
}

func tick(m Model, at time.Time) Model {
	next, _ := m.Update(TickMsg(at))
	return next.(Model)
}

func TestModelShoutStartsGame(t *testing.T) {
	m := newTestModel(t, nil)
	if !m.State().Waiting {
		t.Fatal("Expected a new model to wait for the first shout")
	}

	m = tick(m, time.Now())
	if !m.State().Waiting {
		t.Fatal("Expected silence to keep the game waiting")
	}

	m = press(m, 'w')
	m = tick(m, time.Now())
	if m.State().Waiting {
		t.Error("Expected a shout to start the game")
	}
	if m.State().Level <= 0 {
		t.Error("Expected the meter to show the shout")
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t, nil)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if !next.(Model).IsQuitting() {
		t.Error("Expected q to quit")
	}
	if cmd == nil {
		t.Error("Expected a quit command")
	}
	if next.(Model).View() != "" {
		t.Error("Expected an empty view after quitting")
	}
}

func TestModelBackToMenuOnlyWhenPaused(t *testing.T) {
	m := newTestModel(t, nil)
	start := time.Now()

	m = press(m, 'w')
	m = tick(m, start)

	m = press(m, 'b')
	if m.BackToMenu() {
		t.Fatal("Expected back to be ignored while running")
	}

	m = press(m, 'p')
	m = tick(m, start.Add(17*time.Millisecond))
	if !m.State().Paused {
		t.Fatal("Expected p to pause the game")
	}

	m = press(m, 'b')
	if !m.BackToMenu() {
		t.Error("Expected back to work while paused")
	}
}

func TestModelSavesScoreOnce(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	m := newTestModel(t, store, WithPlayer("tester"))
	now := time.Now()

	m = press(m, 'w')
	m = tick(m, now)

	// Without further shouts the bird falls to the floor.
	for i := 0; i < 600; i++ {
		now = now.Add(17 * time.Millisecond)
		m = tick(m, now)
	}

	if !m.State().GameOver {
		t.Fatal("Expected the run to end without input")
	}

	scores, err := store.TopScores(flappy.ID, 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("Expected exactly one saved score, got %d", len(scores))
	}
	if scores[0].PlayerName != "tester" || scores[0].Score != m.State().Score {
		t.Errorf("Unexpected saved score: %+v", scores[0])
	}

	// Restart clears the game over state.
	m = press(m, 'r')
	m = tick(m, now.Add(17*time.Millisecond))
	if m.State().GameOver {
		t.Error("Expected r to restart after game over")
	}
}

func TestModelResizeKeepsRun(t *testing.T) {
	m := newTestModel(t, nil)
	m = press(m, 'w')
	m = tick(m, time.Now())

	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m = next.(Model)
	if m.State().Waiting {
		t.Error("Expected resize to keep the current run")
	}
	if m.View() == "" {
		t.Error("Expected a rendered view")
	}
}
