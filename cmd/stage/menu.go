package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-stage/internal/games/stack"
	"github.com/vovakirdan/tui-stage/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with the title menu",
	Long: `Start in interactive menu mode.

Pick a difficulty, view the ranking or start a session. When a game ends
you return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Left/Right   - Change difficulty
  Enter/Space  - Select
  Tab          - Ranking
  Q            - Quit

Examples:
  stage menu
  stage menu --fps 30
  stage menu --db ./ranks.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	store := openStore()
	if store != nil {
		defer store.Close()
	}

	cfg := runtimeConfig()
	preset := difficulty

	for {
		menuResult, err := tui.RunMenu(store, cfg, preset, flagPlayer)
		if err != nil {
			return fmt.Errorf("menu: %w", err)
		}
		cfg = menuResult.Config
		preset = menuResult.Difficulty

		switch {
		case menuResult.Quit:
			return nil

		case menuResult.WantsScoreboard:
			goBack, err := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if err != nil {
				return fmt.Errorf("ranking: %w", err)
			}
			if !goBack {
				return nil
			}

		case menuResult.Start:
			// A fixed --seed replays the same session every time.
			if flagSeed == 0 {
				cfg.Seed = time.Now().UnixNano()
			}

			logger.Info("game started", "difficulty", preset)
			backToMenu, err := tui.Run(stack.NewWithPreset(preset), store, cfg, flagPlayer, logger)
			if err != nil {
				return fmt.Errorf("run game: %w", err)
			}
			if !backToMenu {
				return nil
			}
		}
	}
}
