package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-stage/internal/config"
	"github.com/vovakirdan/tui-stage/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List games and difficulty presets",
	Long: `Shows the registered games and the round rules each difficulty preset
resolves to with the current config file and STAGE_* overrides.`,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	printGames(os.Stdout, registry.List())
	return printPresets(os.Stdout, flagConfig, difficulty)
}

func printGames(w io.Writer, games []registry.GameInfo) {
	if len(games) == 0 {
		fmt.Fprintln(w, "No games available.")
		return
	}

	fmt.Fprintln(w, "Games:")
	for _, g := range games {
		fmt.Fprintf(w, "  %-8s %s\n", g.ID, g.Title)
	}
	fmt.Fprintln(w)
}

// printPresets loads the stage config once per preset and prints the
// first round's seconds per row, its line target and the obstacle chance.
func printPresets(w io.Writer, configPath string, current config.DifficultyPreset) error {
	fmt.Fprintln(w, "Difficulty:")
	fmt.Fprintf(w, "  %-8s %-10s %-8s %-10s %s\n", "PRESET", "SPEED", "LINES", "OBSTACLES", "NOTE")
	for _, p := range config.Presets {
		cfg, err := config.Load(configPath, p)
		if err != nil {
			return fmt.Errorf("load %s preset: %w", p, err)
		}

		marker := " "
		if p == current {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %-8s %-10s %-8d %-10s %s\n",
			marker,
			p,
			fmt.Sprintf("%.2fs", cfg.Rules.InitialFreezeTime-cfg.Rules.FreezeDecrement),
			cfg.Rules.BaseLines+1,
			fmt.Sprintf("%.0f%%", cfg.Rules.FillProbability()*100),
			p.Description(),
		)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'stage play --difficulty <preset>' to start a session.")
	return nil
}
