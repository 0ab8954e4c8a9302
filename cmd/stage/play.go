package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-stage/internal/core"
	"github.com/vovakirdan/tui-stage/internal/games/stack"
	"github.com/vovakirdan/tui-stage/internal/platform/tui"
	"github.com/vovakirdan/tui-stage/internal/registry"
	"github.com/vovakirdan/tui-stage/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a session",
	Long: `Start playing immediately, skipping the title menu.

Controls:
  Left/Right, A/D  - Move the piece
  Up/W             - Rotate clockwise
  Down/S           - Soft drop one row
  Space            - Hard drop
  P                - Pause
  R                - Restart (after game over)
  B/Esc            - Leave (when paused or game over)
  Ctrl+S           - Save a text screenshot
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Slower start, slower speed-up
  normal - Default rules
  hard   - Faster start, two more lines per round
  fixed  - Speed never increases

Examples:
  stage play
  stage play --difficulty hard
  stage play --seed 42 --fps 30
  stage play --config ./my-stage.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func runPlay(_ *cobra.Command, _ []string) error {
	game, err := registry.Create(stack.GameID)
	if err != nil {
		return fmt.Errorf("create game: %w", err)
	}

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	if _, err := tui.Run(game, store, runtimeConfig(), flagPlayer, logger); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}

// runtimeConfig builds the runtime config from the terminal size and flags.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStore opens the ranking database. The game still runs without one.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open ranking database: %v\n", err)
		logger.Warn("ranking disabled", "db", flagDBPath, "error", err)
		return nil
	}
	return store
}
