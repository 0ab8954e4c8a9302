// Package stack is the playable falling-block stage for the terminal.
// It drives a stage.Controller and provides every collaborator the
// controller needs: piece spawner, sprite table, banner and HUD.
package stack

import (
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-stage/internal/config"
	"github.com/vovakirdan/tui-stage/internal/core"
	"github.com/vovakirdan/tui-stage/internal/registry"
	"github.com/vovakirdan/tui-stage/internal/stage"
)

// GameID is the registry ID of the stage.
const GameID = "stage"

var (
	// configPath stores the custom config path set via CLI
	configPath string

	// difficultyPreset stores the difficulty preset set via CLI or menu
	difficultyPreset = config.DifficultyNormal

	logger = log.New(io.Discard)
)

// SetConfigPath sets a custom config file path.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset of games created by New.
func SetDifficultyPreset(preset config.DifficultyPreset) {
	difficultyPreset = preset
}

// DifficultyPreset returns the preset of games created by New.
func DifficultyPreset() config.DifficultyPreset {
	return difficultyPreset
}

// SetLogger sets the logger handed to new sessions. Nil discards output.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

func init() {
	registry.Register(GameID, func() registry.Game {
		return New()
	})
}

// Game implements registry.Game on top of stage.Controller.
type Game struct {
	preset config.DifficultyPreset
	cfg    config.StageConfig
	ctrl   *stage.Controller
	spr    *sprites
	spawn  *spawner
	hud    *hud
	logger *log.Logger

	seed     int64
	tickRate int
	tickDur  time.Duration
	tick     uint64

	screenW  int
	screenH  int
	paused   bool
	tooSmall bool
}

// New creates a stage game using the package difficulty preset.
// Call Reset before stepping it.
func New() *Game {
	return NewWithPreset(difficultyPreset)
}

// NewWithPreset creates a stage game with its own difficulty preset. SSH
// sessions use it so players do not share the package setting.
func NewWithPreset(preset config.DifficultyPreset) *Game {
	return &Game{preset: preset}
}

// ID returns the game identifier.
func (g *Game) ID() string {
	return GameID
}

// Title returns the display name.
func (g *Game) Title() string {
	return "Stage"
}

// Reset starts a new session: config is reloaded, the grid is emptied and
// the first round begins.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.cfg = loadConfig(g.preset)
	g.logger = logger.WithPrefix("stage")

	g.seed = rc.Seed
	g.tickRate = rc.TickRate
	if g.tickRate <= 0 {
		g.tickRate = 60
	}
	g.tickDur = time.Second / time.Duration(g.tickRate)
	g.tick = 0
	g.paused = false

	settings := Settings(g.cfg)

	g.spr = newSprites(g.cfg.Timing.EffectDuration)
	g.hud = newHUD(g.cfg.Timing.BannerDuration, func() int { return g.ctrl.Round() })
	g.spawn = newSpawner(
		rand.New(rand.NewSource(rc.Seed+1)),
		g.spr,
		settings.Mapper,
		g.cfg.Field.FloorWidth,
		g.cfg.Field.VisibleRows,
		time.Duration(g.cfg.Rules.MinFallInterval*float64(time.Second)),
	)

	g.ctrl = stage.NewController(settings, stage.Collaborators{
		Spawner:   g.spawn,
		Renderer:  g.spr,
		Announcer: g.hud,
		Display:   g.hud,
		Session:   g.hud,
	}, rand.New(rand.NewSource(rc.Seed)), g.logger)

	g.Resize(rc.ScreenW, rc.ScreenH)
	g.logger.Info("session started",
		"seed", rc.Seed,
		"difficulty", g.preset,
		"floor_width", g.cfg.Field.FloorWidth,
	)
	g.ctrl.Start()
}

// Resize updates the screen size without restarting the session.
func (g *Game) Resize(w, h int) {
	g.screenW = w
	g.screenH = h
	reqW, reqH := g.requiredSize()
	g.tooSmall = w < reqW || h < reqH
}

// loadConfig resolves the stage config, falling back to the built-in
// defaults when the configured file is unusable.
func loadConfig(preset config.DifficultyPreset) config.StageConfig {
	cfg, err := config.Load(configPath, preset)
	if err != nil {
		logger.Warn("using default stage config", "error", err)
		cfg = config.DefaultStageConfig()
		config.ApplyPreset(&cfg, preset)
	}
	return cfg
}

// Settings converts a stage config into controller settings. The world
// uses unit cells with the left wall at x=0 and the floor top at y=0.
func Settings(cfg config.StageConfig) stage.Settings {
	cell := stage.Size{W: 1, H: 1}
	return stage.Settings{
		FloorWidth:        cfg.Field.FloorWidth,
		Mapper:            stage.Mapper{Anchor: stage.ComputeAnchor(0, 0, cell), Cell: cell},
		FloorY:            0,
		SpawnY:            float64(cfg.Field.VisibleRows) * cell.H,
		BaseLines:         cfg.Rules.BaseLines,
		InitialFreezeTime: cfg.Rules.InitialFreezeTime,
		FreezeDecrement:   cfg.Rules.FreezeDecrement,
		FillRange:         cfg.Rules.FillRange,
		FillThreshold:     cfg.Rules.FillThreshold,
		PaletteSize:       core.PaletteSize,
		TitleDelay:        cfg.Timing.TitleDelay,
		LineStockInterval: cfg.Timing.LineStockInterval,
		AnnouncerPoll:     cfg.Timing.AnnouncerPoll,
		AnnouncerMaxPolls: cfg.Timing.AnnouncerMaxPolls,
	}
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if in.Has(core.ActionRestart) && g.ctrl.GameOver() {
		g.ctrl.Abort()
		g.Reset(core.RuntimeConfig{
			Seed:     g.seed + 1,
			ScreenW:  g.screenW,
			ScreenH:  g.screenH,
			TickRate: g.tickRate,
		})
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) && !g.ctrl.GameOver() {
		g.paused = !g.paused
	}
	if g.paused || g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	g.ctrl.Advance(g.tickDur)
	g.spr.tick(g.tickDur)
	g.hud.tick(g.tickDur)

	if !g.ctrl.GameOver() && g.ctrl.Phase() == stage.PhaseFalling && g.spawn.active != nil {
		g.handleInput(in)
		g.applyGravity()
	}

	g.hud.loaded = true
	return core.StepResult{State: g.State()}
}

// handleInput applies player moves to the falling piece.
func (g *Game) handleInput(in core.InputFrame) {
	switch {
	case in.Has(core.ActionLeft):
		g.tryMove(-1, 0, 0)
	case in.Has(core.ActionRight):
		g.tryMove(1, 0, 0)
	}

	if in.Has(core.ActionRotate) {
		g.tryRotate()
	}

	switch {
	case in.Has(core.ActionDrop):
		for g.tryMove(0, -1, 0) {
		}
		g.freeze()
	case in.Has(core.ActionDown):
		if g.tryMove(0, -1, 0) {
			g.spawn.active.acc = 0
		} else {
			g.freeze()
		}
	}
}

// applyGravity moves the piece down one row per fall interval and freezes
// it when it cannot move further.
func (g *Game) applyGravity() {
	f := g.spawn.active
	if f == nil {
		return
	}
	f.acc += g.tickDur
	if f.acc < f.interval {
		return
	}
	f.acc -= f.interval
	if !g.tryMove(0, -1, 0) {
		g.freeze()
	}
}

// tryMove shifts and turns the active piece if the result is free.
func (g *Game) tryMove(dc, dr, drot int) bool {
	f := g.spawn.active
	if f == nil {
		return false
	}
	next := moved(f, dc, dr, drot)
	if g.ctrl.Collides(g.spawn.piece(next).Blocks) {
		return false
	}
	*f = *next
	g.spawn.sync()
	return true
}

// tryRotate turns the piece clockwise, nudging it one column sideways when
// the plain rotation hits a wall or a block.
func (g *Game) tryRotate() {
	for _, kick := range []int{0, -1, 1, -2, 2} {
		if g.tryMove(kick, 0, 1) {
			return
		}
	}
}

// freeze hands the active piece to the controller, which spawns the next one.
func (g *Game) freeze() {
	f := g.spawn.active
	if f == nil {
		return
	}
	g.spawn.active = nil
	if err := g.ctrl.FreezeBlock(g.spawn.piece(f)); err != nil {
		g.logger.Error("freeze failed", "error", err)
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.ctrl == nil {
		return core.GameState{}
	}
	return core.GameState{
		Score:    g.ctrl.TotalScore(),
		Round:    g.ctrl.Round(),
		Lines:    g.ctrl.ClearedLines(),
		GameOver: g.ctrl.GameOver(),
		Paused:   g.paused,
		ToTitle:  g.hud.toTitle,
	}
}

// Close cancels pending sequences when the platform drops the game.
func (g *Game) Close() {
	if g.ctrl != nil {
		g.ctrl.Abort()
	}
}

// Preset returns the difficulty preset of this game.
func (g *Game) Preset() config.DifficultyPreset {
	return g.preset
}
