package storage

import (
	"os"
	"path/filepath"
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
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreReopenKeepsRanks(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := store.PutRank("ann", 42, 3, 7); err != nil {
		t.Fatalf("PutRank() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	high, err := store.HighScore()
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 42 {
		t.Errorf("HighScore() = %d after reopen, expected 42", high)
	}
}

func TestStorePutAndRanks(t *testing.T) {
	store := openTestStore(t)

	submissions := []struct {
		name  string
		score int
	}{
		{"ann", 100},
		{"bob", 50},
		{"cid", 200},
		{"dee", 100},
	}
	for _, s := range submissions {
		if _, err := store.PutRank(s.name, s.score, 2, 4); err != nil {
			t.Fatalf("PutRank(%q) failed: %v", s.name, err)
		}
	}

	ranks, err := store.Ranks(10)
	if err != nil {
		t.Fatalf("Ranks() failed: %v", err)
	}

	want := []string{"cid", "ann", "dee", "bob"}
	if len(ranks) != len(want) {
		t.Fatalf("Expected %d ranks, got %d", len(want), len(ranks))
	}
	for i, name := range want {
		if ranks[i].Name != name {
			t.Errorf("rank %d = %q, expected %q (ties keep submission order)", i, ranks[i].Name, name)
		}
	}
	if ranks[0].Round != 2 || ranks[0].Lines != 4 {
		t.Errorf("round/lines not stored: %+v", ranks[0])
	}
	if ranks[0].CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestStoreRanksLimit(t *testing.T) {
	store := openTestStore(t)

	for i := range 15 {
		if _, err := store.PutRank("p", i*10, 1, 0); err != nil {
			t.Fatalf("PutRank() failed: %v", err)
		}
	}

	tests := []struct {
		limit    int
		expected int
	}{
		{5, 5},
		{0, 10}, // default
		{-3, 10},
		{100, 15},
	}

	for _, tc := range tests {
		ranks, err := store.Ranks(tc.limit)
		if err != nil {
			t.Fatalf("Ranks(%d) failed: %v", tc.limit, err)
		}
		if len(ranks) != tc.expected {
			t.Errorf("Ranks(%d) returned %d, expected %d", tc.limit, len(ranks), tc.expected)
		}
	}
}

func TestStoreNameNormalization(t *testing.T) {
	store := openTestStore(t)

	tests := []struct {
		in       string
		expected string
	}{
		{"", DefaultPlayerName},
		{"   ", DefaultPlayerName},
		{"  zoe ", "zoe"},
		{"abcdefghijklmnopqrstuvwxyz", "abcdefghijklmnop"},
		{"ёжикёжикёжикёжикёжик", "ёжикёжикёжикёжик"},
	}

	for _, tc := range tests {
		if err := store.ClearRanks(); err != nil {
			t.Fatalf("ClearRanks() failed: %v", err)
		}
		if _, err := store.PutRank(tc.in, 1, 1, 0); err != nil {
			t.Fatalf("PutRank(%q) failed: %v", tc.in, err)
		}
		ranks, err := store.Ranks(1)
		if err != nil || len(ranks) != 1 {
			t.Fatalf("Ranks() = %v, %v", ranks, err)
		}
		if ranks[0].Name != tc.expected {
			t.Errorf("PutRank(%q) stored %q, expected %q", tc.in, ranks[0].Name, tc.expected)
		}
	}
}

func TestStoreRejectsNegativeScore(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.PutRank("ann", -1, 1, 0); err == nil {
		t.Error("negative score should be rejected")
	}
}

func TestStoreHighScoreAndPlayerBest(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore()
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("empty table high score = %d, expected 0", high)
	}

	store.PutRank("ann", 30, 1, 0)
	store.PutRank("ann", 70, 1, 0)
	store.PutRank("bob", 90, 1, 0)

	if high, _ := store.HighScore(); high != 90 {
		t.Errorf("HighScore() = %d, expected 90", high)
	}
	if best, _ := store.PlayerBest("ann"); best != 70 {
		t.Errorf("PlayerBest(ann) = %d, expected 70", best)
	}
	if best, _ := store.PlayerBest("nobody"); best != 0 {
		t.Errorf("PlayerBest(nobody) = %d, expected 0", best)
	}
}

func TestStorePosition(t *testing.T) {
	store := openTestStore(t)

	store.PutRank("a", 100, 1, 0)
	store.PutRank("b", 50, 1, 0)

	tests := []struct {
		score    int
		expected int
	}{
		{200, 1},
		{100, 2}, // ties rank behind existing entries
		{75, 2},
		{10, 3},
	}

	for _, tc := range tests {
		pos, err := store.Position(tc.score)
		if err != nil {
			t.Fatalf("Position(%d) failed: %v", tc.score, err)
		}
		if pos != tc.expected {
			t.Errorf("Position(%d) = %d, expected %d", tc.score, pos, tc.expected)
		}
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Games != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("empty stats = %+v", stats)
	}

	store.PutRank("a", 10, 2, 3)
	store.PutRank("b", 30, 5, 9)

	stats, err = store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Games != 2 {
		t.Errorf("Games = %d, expected 2", stats.Games)
	}
	if stats.HighScore != 30 {
		t.Errorf("HighScore = %d, expected 30", stats.HighScore)
	}
	if stats.AvgScore != 20 {
		t.Errorf("AvgScore = %v, expected 20", stats.AvgScore)
	}
	if stats.TotalScore != 40 {
		t.Errorf("TotalScore = %d, expected 40", stats.TotalScore)
	}
	if stats.BestRound != 5 {
		t.Errorf("BestRound = %d, expected 5", stats.BestRound)
	}
	if stats.TotalLines != 12 {
		t.Errorf("TotalLines = %d, expected 12", stats.TotalLines)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed should be set")
	}
}

func TestStoreClearRanks(t *testing.T) {
	store := openTestStore(t)

	store.PutRank("a", 10, 1, 0)
	if err := store.ClearRanks(); err != nil {
		t.Fatalf("ClearRanks() failed: %v", err)
	}

	ranks, err := store.Ranks(10)
	if err != nil {
		t.Fatalf("Ranks() failed: %v", err)
	}
	if len(ranks) != 0 {
		t.Errorf("Expected no ranks after clear, got %d", len(ranks))
	}
}
