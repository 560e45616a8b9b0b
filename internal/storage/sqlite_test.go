package storage

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	for _, s := range []int{100, 50, 200} {
		if _, err := store.SaveScore("flappy", "ana", s); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}

	// Different game
	if _, err := store.SaveScore("runner", "", 5); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores("flappy", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending
	if scores[0].Score != 200 || scores[1].Score != 100 || scores[2].Score != 50 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
	if scores[0].PlayerName != "ana" {
		t.Errorf("Expected player ana, got %q", scores[0].PlayerName)
	}

	runnerScores, err := store.TopScores("runner", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(runnerScores) != 1 {
		t.Fatalf("Expected 1 runner score, got %d", len(runnerScores))
	}
	if runnerScores[0].PlayerName != DefaultPlayer {
		t.Errorf("Expected empty name to default to %q, got %q", DefaultPlayer, runnerScores[0].PlayerName)
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 5; i++ {
		store.SaveScore("test", "p", (i+1)*100)
	}

	scores, err := store.TopScores("test", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}

	// Should be 500, 400, 300 (top 3)
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("flappy")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty game, got %d", high)
	}

	store.SaveScore("flappy", "a", 100)
	store.SaveScore("flappy", "b", 300)
	store.SaveScore("flappy", "c", 200)

	best, err := store.Best("flappy")
	if err != nil {
		t.Fatalf("Best() failed: %v", err)
	}
	if best.Score != 300 || best.PlayerName != "b" {
		t.Errorf("Expected b with 300, got %+v", best)
	}
}

func TestStoreSubmitScore(t *testing.T) {
	store := openTestStore(t)

	tests := []struct {
		player string
		score  int
		stored bool
	}{
		{"first", 10, true},
		{"lower", 5, false},
		{"equal", 10, false},
		{"higher", 11, true},
	}

	for _, tc := range tests {
		stored, err := store.SubmitScore("flappy", tc.player, tc.score)
		if err != nil {
			t.Fatalf("SubmitScore(%s) failed: %v", tc.player, err)
		}
		if stored != tc.stored {
			t.Errorf("SubmitScore(%s, %d) stored = %v, expected %v", tc.player, tc.score, stored, tc.stored)
		}
	}

	all, _ := store.AllScores("flappy")
	if len(all) != 2 {
		t.Errorf("Expected 2 stored scores, got %d", len(all))
	}
}

func TestStoreSubmitScoreConcurrent(t *testing.T) {
	store := openTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.SubmitScore("runner", "racer", 42) //nolint:errcheck // busy errors are acceptable here
		}()
	}
	wg.Wait()

	all, err := store.AllScores("runner")
	if err != nil {
		t.Fatalf("AllScores() failed: %v", err)
	}
	if len(all) > 1 {
		t.Errorf("Equal concurrent submissions should store at most once, got %d", len(all))
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("flappy", "", 100)
	store.SaveScore("flappy", "", 200)
	store.SaveScore("runner", "", 300)

	if err := store.ClearScores("flappy"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	flappyScores, _ := store.TopScores("flappy", 10)
	if len(flappyScores) != 0 {
		t.Errorf("Expected 0 flappy scores after clear, got %d", len(flappyScores))
	}

	runnerScores, _ := store.TopScores("runner", 10)
	if len(runnerScores) != 1 {
		t.Errorf("Runner scores should not be affected by clearing flappy")
	}
}

func TestStoreAllScores(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 20; i++ {
		store.SaveScore("test", "", i*10)
	}

	scores, err := store.AllScores("test")
	if err != nil {
		t.Fatalf("AllScores() failed: %v", err)
	}

	if len(scores) != 20 {
		t.Errorf("Expected 20 scores, got %d", len(scores))
	}
}

func TestStorePlaySessions(t *testing.T) {
	store := openTestStore(t)

	for i, id := range []string{"a", "b", "c"} {
		_, err := store.SavePlaySession(PlaySession{
			SessionID: id,
			GameID:    "runner",
			Score:     i,
			Cause:     "fell",
			Ticks:     100 * i,
		})
		if err != nil {
			t.Fatalf("SavePlaySession(%s) failed: %v", id, err)
		}
	}

	// Session ids are unique.
	if _, err := store.SavePlaySession(PlaySession{SessionID: "a", GameID: "runner", Cause: "fell"}); err == nil {
		t.Error("Expected duplicate session id to be rejected")
	}

	recent, err := store.RecentPlaySessions("runner", 2)
	if err != nil {
		t.Fatalf("RecentPlaySessions() failed: %v", err)
	}
	if len(recent) != 2 || recent[0].SessionID != "c" || recent[1].SessionID != "b" {
		t.Errorf("Expected c then b, got %+v", recent)
	}
	if recent[0].PlayerName != DefaultPlayer {
		t.Errorf("Expected default player name, got %q", recent[0].PlayerName)
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("flappy", "", 10)
	store.SaveScore("flappy", "", 30)

	stats, err := store.GetGameStats("flappy")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 30 || stats.AvgScore != 20 || stats.TotalScore != 40 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
