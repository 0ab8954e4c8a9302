package stack

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-stage/internal/config"
	"github.com/vovakirdan/tui-stage/internal/core"
	"github.com/vovakirdan/tui-stage/internal/registry"
	"github.com/vovakirdan/tui-stage/internal/stage"
)

const noObstacles = "rules:\n  fill_threshold: 10\n"

// useConfig points the package at a temporary config file for one test.
func useConfig(t *testing.T, yaml string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stage.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	SetConfigPath(path)
	t.Cleanup(func() { SetConfigPath("") })
}

func newTestGame(t *testing.T, yaml string, seed int64) *Game {
	t.Helper()
	useConfig(t, yaml)
	g := New()
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: seed})
	return g
}

func input(actions ...core.Action) core.InputFrame {
	f := core.NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

// startRound steps until the first piece is falling.
func startRound(t *testing.T, g *Game) {
	t.Helper()
	for range 2 {
		g.Step(input())
	}
	if s := g.Snapshot(); s.Phase != stage.PhaseFalling || !s.Falling {
		t.Fatalf("round did not start: %+v", s)
	}
}

func TestRegistered(t *testing.T) {
	g, err := registry.Create(GameID)
	if err != nil {
		t.Fatalf("game %q should be registered: %v", GameID, err)
	}
	if g.Title() != "Stage" {
		t.Errorf("Title() = %q", g.Title())
	}
}

func TestRoundStartsOnceBannerIsLoaded(t *testing.T) {
	g := newTestGame(t, noObstacles, 1)

	s := g.Snapshot()
	if s.Phase != stage.PhaseRestarting || s.Falling {
		t.Fatalf("before the first tick the round should wait for the banner, got %+v", s)
	}
	if s.Round != 1 {
		t.Errorf("Round = %d, expected 1", s.Round)
	}

	g.Step(input())
	if g.Snapshot().Phase != stage.PhaseRestarting {
		t.Error("banner is not loaded during the first tick")
	}

	g.Step(input())
	s = g.Snapshot()
	if s.Phase != stage.PhaseFalling || !s.Falling {
		t.Errorf("second tick should start the round, got %+v", s)
	}
	if got := g.hud.visibleBanner(); got != "ROUND 1" {
		t.Errorf("banner = %q, expected ROUND 1", got)
	}
	if g.hud.remainingText != "1" {
		t.Errorf("remaining = %q, expected 1", g.hud.remainingText)
	}
}

func TestHardDropSettlesOnFloor(t *testing.T) {
	g := newTestGame(t, noObstacles, 7)
	startRound(t, g)

	g.Step(input(core.ActionDrop))

	s := g.Snapshot()
	if s.Settled != 4 {
		t.Fatalf("Settled = %d, expected 4", s.Settled)
	}
	if !s.Falling {
		t.Error("a new piece should spawn after the freeze")
	}
	if s.Sprites != 8 {
		t.Errorf("Sprites = %d, expected 4 settled + 4 falling", s.Sprites)
	}

	onFloor := false
	g.ctrl.Grid().Each(func(c stage.CellIndex, id stage.OccupantID) {
		if c.Row < 1 {
			t.Errorf("settled cell %v below the floor", c)
		}
		if c.Row == 1 {
			onFloor = true
		}
		if _, ok := g.spr.get(id); !ok {
			t.Errorf("settled occupant %d has no sprite", id)
		}
	})
	if !onFloor {
		t.Error("dropped piece should rest on row 1")
	}
	if len(g.spr.effects) != 1 {
		t.Errorf("effects = %d, expected one landing effect", len(g.spr.effects))
	}
}

func TestGravityMovesPieceDown(t *testing.T) {
	g := newTestGame(t, noObstacles, 3)
	startRound(t, g)

	row := g.Snapshot().Row
	for range 60 {
		g.Step(input())
	}

	// 0.9s per row after the first round speed-up.
	if got := g.Snapshot().Row; got != row-1 {
		t.Errorf("Row = %d after one second, expected %d", got, row-1)
	}
}

func TestSoftDropMovesOneRow(t *testing.T) {
	g := newTestGame(t, noObstacles, 3)
	startRound(t, g)

	row := g.Snapshot().Row
	g.Step(input(core.ActionDown))
	if got := g.Snapshot().Row; got != row-1 {
		t.Errorf("Row = %d, expected %d", got, row-1)
	}
}

func TestWallsBlockSideMoves(t *testing.T) {
	g := newTestGame(t, noObstacles, 5)
	startRound(t, g)

	for range 20 {
		g.Step(input(core.ActionLeft))
	}
	minCol := 99
	for _, c := range g.spawn.active.cells() {
		minCol = min(minCol, c.Col)
	}
	if minCol != 0 {
		t.Errorf("leftmost column = %d, expected 0", minCol)
	}

	for range 20 {
		g.Step(input(core.ActionRight))
	}
	maxCol := -1
	for _, c := range g.spawn.active.cells() {
		maxCol = max(maxCol, c.Col)
	}
	if maxCol != g.cfg.Field.FloorWidth-1 {
		t.Errorf("rightmost column = %d, expected %d", maxCol, g.cfg.Field.FloorWidth-1)
	}
}

func TestRotateKeepsPieceInside(t *testing.T) {
	g := newTestGame(t, noObstacles, 9)
	startRound(t, g)

	for range 20 {
		g.Step(input(core.ActionLeft))
	}
	for range 4 {
		g.Step(input(core.ActionRotate))
		for _, c := range g.spawn.active.cells() {
			if c.Col < 0 || c.Col >= g.cfg.Field.FloorWidth {
				t.Fatalf("rotation pushed cell %v outside the walls", c)
			}
		}
	}
}

func TestPauseStopsTime(t *testing.T) {
	g := newTestGame(t, noObstacles, 11)
	startRound(t, g)

	g.Step(input(core.ActionPause))
	if !g.State().Paused {
		t.Fatal("game should be paused")
	}

	row := g.Snapshot().Row
	for range 120 {
		g.Step(input(core.ActionDrop))
	}
	if got := g.Snapshot(); got.Row != row || got.Settled != 0 {
		t.Errorf("paused game changed: %+v", got)
	}

	g.Step(input(core.ActionPause))
	if g.State().Paused {
		t.Error("second pause should resume")
	}
}

func TestObstaclesFillFirstRow(t *testing.T) {
	g := newTestGame(t, "field:\n  floor_width: 12\n", 21)
	startRound(t, g)

	s := g.Snapshot()
	if s.Sprites != s.Settled+4 {
		t.Errorf("Sprites = %d, expected %d obstacles + 4 falling", s.Sprites, s.Settled)
	}
	g.ctrl.Grid().Each(func(c stage.CellIndex, _ stage.OccupantID) {
		if c.Row != 1 {
			t.Errorf("round one obstacle at %v, expected row 1", c)
		}
	})
}

func TestGameOverReturnsToTitle(t *testing.T) {
	g := newTestGame(t, "field:\n  floor_width: 4\n  visible_rows: 4\nrules:\n  fill_threshold: 10\n  base_lines: 50\n", 13)
	startRound(t, g)

	for range 5000 {
		if g.State().GameOver {
			break
		}
		g.Step(input(core.ActionDrop))
	}

	st := g.State()
	if !st.GameOver {
		t.Fatal("stacking in a 4x4 field should end the game")
	}
	if st.ToTitle {
		t.Error("title should wait for the delay")
	}
	if g.spawn.active != nil || g.spawn.parked != 1 {
		t.Errorf("blocked piece should be parked: active=%v parked=%d", g.spawn.active, g.spawn.parked)
	}
	if got := g.hud.visibleBanner(); got != "GAME OVER" {
		t.Errorf("banner = %q, expected GAME OVER", got)
	}

	settled := g.Snapshot().Settled
	for range 200 {
		g.Step(input(core.ActionDrop))
	}
	if !g.State().ToTitle {
		t.Error("game should ask for the title screen after the delay")
	}
	if g.Snapshot().Settled != settled {
		t.Error("input after game over must not change the grid")
	}

	g.Step(input(core.ActionRestart))
	st = g.State()
	if st.GameOver || st.ToTitle || st.Round != 1 || st.Score != 0 {
		t.Errorf("restart should begin a new session, got %+v", st)
	}
}

func TestDeterminism(t *testing.T) {
	useConfig(t, "field:\n  floor_width: 10\n")
	cfg := core.RuntimeConfig{Seed: 12345, ScreenW: 80, ScreenH: 24, TickRate: 60}

	g1 := New()
	g1.Reset(cfg)
	g2 := New()
	g2.Reset(cfg)

	for i := range 1500 {
		in := core.NewInputFrame()
		if i%7 == 0 {
			in.Set(core.ActionLeft)
		}
		if i%11 == 0 {
			in.Set(core.ActionRotate)
		}
		if i%30 == 0 {
			in.Set(core.ActionDrop)
		}

		g1.Step(in)
		g2.Step(in)
	}

	if s1, s2 := g1.Snapshot(), g2.Snapshot(); s1 != s2 {
		t.Errorf("snapshots differ:\n%+v\n%+v", s1, s2)
	}
}

func TestRender(t *testing.T) {
	g := newTestGame(t, noObstacles, 17)
	startRound(t, g)

	screen := core.NewScreen(80, 24)
	g.Render(screen)

	text := screen.String()
	for _, want := range []string{"┌", "SCORE", "ROUND", "NEXT", "█"} {
		if !strings.Contains(text, want) {
			t.Errorf("rendered screen should contain %q", want)
		}
	}

	g.Resize(20, 10)
	small := core.NewScreen(20, 10)
	g.Render(small)
	if !strings.Contains(small.String(), "Window too small") {
		t.Error("small window should show a resize hint")
	}
}

func TestSettingsFromConfig(t *testing.T) {
	s := Settings(config.DefaultStageConfig())

	if s.Mapper.Anchor != (stage.Vec2{X: 0.5, Y: -0.5}) {
		t.Errorf("anchor = %+v, expected (0.5, -0.5)", s.Mapper.Anchor)
	}
	if s.SpawnY != 20 {
		t.Errorf("SpawnY = %v, expected 20", s.SpawnY)
	}
	if s.PaletteSize != ShapeCount() {
		t.Errorf("palette %d should match shape count %d", s.PaletteSize, ShapeCount())
	}
	if s.TitleDelay != 3*time.Second {
		t.Errorf("TitleDelay = %v", s.TitleDelay)
	}
}

func TestPresetPerGame(t *testing.T) {
	useConfig(t, noObstacles)

	g := NewWithPreset(config.DifficultyHard)
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1})
	startRound(t, g)

	if g.Preset() != config.DifficultyHard {
		t.Errorf("Preset() = %s, expected hard", g.Preset())
	}
	// Hard adds two lines to every round target.
	if got := g.Snapshot().Remaining; got != 3 {
		t.Errorf("Remaining = %d, expected 3", got)
	}
	if New().Preset() != DifficultyPreset() {
		t.Error("New should use the package preset")
	}
}
