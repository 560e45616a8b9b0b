package runner

import (
	"strings"
	"testing"

	"github.com/vovakirdan/voice-arcade/internal/core"
	"github.com/vovakirdan/voice-arcade/internal/registry"
)

func TestRegistered(t *testing.T) {
	g, err := registry.Create(ID)
	if err != nil {
		t.Fatalf("runner not registered: %v", err)
	}
	if g.Title() != "Voice Runner" {
		t.Errorf("unexpected title %q", g.Title())
	}
	if g.StepRate() != 60 {
		t.Errorf("step rate = %d, expected 60", g.StepRate())
	}
}

func TestRollsAlongTheGround(t *testing.T) {
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 81, ScreenH: 24, Seed: 3})

	start := core.NewInputFrame()
	start.Set(core.ActionShout)
	g.Step(start)

	for i := 0; i < 30; i++ {
		g.Step(core.NewInputFrame())
	}

	snap := g.Snapshot()
	if snap.Entity.X <= g.Snapshot().World.Width/2 {
		t.Errorf("ball should have moved right, x = %v", snap.Entity.X)
	}
	if snap.Distance <= 0 {
		t.Error("expected distance to grow")
	}
	if g.State().Score != 0 {
		t.Errorf("no platform landed yet, score = %d", g.State().Score)
	}
}

func TestRenderDrawsWorld(t *testing.T) {
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 81, ScreenH: 24, Seed: 3})

	start := core.NewInputFrame()
	start.Set(core.ActionShout)
	g.Step(start)

	scr := core.NewScreen(81, 24)
	g.Render(scr)
	out := scr.String()

	if !strings.ContainsRune(out, BallChar) {
		t.Error("expected the ball on screen")
	}
	if !strings.ContainsRune(out, GroundChar) {
		t.Error("expected the starting ground strip")
	}
	if !strings.ContainsRune(out, PlatformChar) && !strings.ContainsRune(out, MovingChar) {
		t.Error("expected at least one platform on screen")
	}
}
