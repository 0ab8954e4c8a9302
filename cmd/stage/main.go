// stage is a falling-block puzzle game for the terminal.
//
// Usage:
//
//	stage list              - List available games
//	stage play              - Play a session directly
//	stage menu              - Start the title menu
//	stage serve             - Start SSH server for remote play
//	stage scores            - Show the ranking
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible gameplay
//	--db <path>           - Set database path (default: ~/.stage/ranks.db)
//	--config <path>       - Use a custom stage config YAML
//	--difficulty <preset> - easy, normal, hard or fixed
//	--player <name>       - Name saved with ranks
//	--log-level <level>   - debug, info, warn or error
//	--log-file <path>     - Log destination (default: ~/.stage/stage.log)
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-stage/internal/config"
	"github.com/vovakirdan/tui-stage/internal/games/stack"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagPlayer     string
	flagLogLevel   string
	flagLogFile    string

	// Set up by the root command before any subcommand runs
	logger     = log.New(io.Discard)
	logCloser  io.Closer
	difficulty = config.DifficultyNormal
)

func main() {
	err := rootCmd.Execute()
	if logCloser != nil {
		logCloser.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stage",
	Short: "Stage - clear the lines before the stack reaches the top",
	Long: `Stage is a falling-block puzzle game that runs in your terminal.

Each round asks you to clear a number of lines. Finish them and the next
round starts faster with one more row of obstacles. The game ends when a
new piece has no room to spawn.

Available commands:
  list     - Show all available games
  play     - Start a session directly
  menu     - Title menu with difficulty and ranking
  serve    - Start SSH server for remote play
  scores   - View the ranking

Examples:
  stage play
  stage play --difficulty hard --seed 42
  stage menu
  stage serve --ssh :2222
  stage scores`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.stage/ranks.db", "Path to ranking database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom stage config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", defaultPlayer(), "Player name saved with ranks")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "~/.stage/stage.log", "Log file (serve logs to stderr unless set)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}

// setup validates global flags, opens the log and configures the game.
func setup(cmd *cobra.Command, _ []string) error {
	if flagFPS <= 0 {
		return fmt.Errorf("--fps must be positive, got %d", flagFPS)
	}

	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return err
	}
	difficulty = preset

	// The SSH server has no TUI of its own, so it logs to stderr by default.
	toStderr := cmd.Name() == "serve" && !cmd.Flags().Changed("log-file")
	if err := setupLogger(toStderr); err != nil {
		return err
	}

	stack.SetConfigPath(flagConfig)
	stack.SetDifficultyPreset(difficulty)
	stack.SetLogger(logger)

	logger.Debug("starting", "command", cmd.Name(), "difficulty", difficulty, "fps", flagFPS)
	return nil
}

// setupLogger builds the process logger from --log-level and --log-file.
func setupLogger(toStderr bool) error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("--log-level: %w", err)
	}

	var w io.Writer = os.Stderr
	if !toStderr {
		path, err := expandHome(flagLogFile)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		w = f
		logCloser = f
	}

	logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
	return nil
}

// expandHome replaces a leading ~ with the user's home directory.
func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot expand home directory: %w", err)
	}
	return filepath.Join(home, path[1:]), nil
}

// defaultPlayer returns the login name, or "player".
func defaultPlayer() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "player"
}
