package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-stage/internal/config"
	"github.com/vovakirdan/tui-stage/internal/core"
	"github.com/vovakirdan/tui-stage/internal/storage"
)

// menuEntry is one line of the title menu.
type menuEntry int

const (
	entryPlay menuEntry = iota
	entryDifficulty
	entryRanking
	entryQuit
)

var menuEntries = []menuEntry{entryPlay, entryDifficulty, entryRanking, entryQuit}

// MenuModel is the Bubble Tea model for the title menu.
type MenuModel struct {
	cursor     int
	width      int
	height     int
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	difficulty config.DifficultyPreset
	best       int
	player     string
	quitting   bool
	start      bool
	scoreboard bool
}

// NewMenuModel creates the title menu. The best score is read once from
// store; a nil store shows none.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig, preset config.DifficultyPreset, player string) MenuModel {
	best := 0
	if store != nil {
		if hs, err := store.HighScore(); err == nil {
			best = hs
		}
	}
	if preset == "" {
		preset = config.DifficultyNormal
	}

	return MenuModel{
		width:      cfg.ScreenW,
		height:     cfg.ScreenH,
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		difficulty: preset,
		best:       best,
		player:     player,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(menuEntries)-1 {
			m.cursor++
		}

	case MenuActionLeft:
		if menuEntries[m.cursor] == entryDifficulty {
			m.difficulty = cyclePreset(m.difficulty, -1)
		}

	case MenuActionRight:
		if menuEntries[m.cursor] == entryDifficulty {
			m.difficulty = cyclePreset(m.difficulty, 1)
		}

	case MenuActionScoreboard:
		m.scoreboard = true
		return m, tea.Quit

	case MenuActionSelect:
		switch menuEntries[m.cursor] {
		case entryPlay:
			m.start = true
			return m, tea.Quit
		case entryDifficulty:
			m.difficulty = cyclePreset(m.difficulty, 1)
		case entryRanking:
			m.scoreboard = true
			return m, tea.Quit
		case entryQuit:
			m.quitting = true
			return m, tea.Quit
		}
	}

	return m, nil
}

// cyclePreset returns the preset step positions away from p, wrapping.
func cyclePreset(p config.DifficultyPreset, step int) config.DifficultyPreset {
	n := len(config.Presets)
	for i, preset := range config.Presets {
		if preset == p {
			return config.Presets[((i+step)%n+n)%n]
		}
	}
	return config.DifficultyNormal
}

func (m MenuModel) entryLabel(e menuEntry) string {
	switch e {
	case entryPlay:
		return "Play"
	case entryDifficulty:
		return fmt.Sprintf("Difficulty: < %s >", m.difficulty)
	case entryRanking:
		return "Ranking"
	case entryQuit:
		return "Quit"
	}
	return ""
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(bannerStyle.Render(centerText("  S T A G E  ", m.width)))
	b.WriteString("\n\n")

	subtitle := "Clear the lines before the stack reaches the top"
	if m.best > 0 {
		subtitle = fmt.Sprintf("Best score: %d", m.best)
	}
	b.WriteString(centerText(subtitle, m.width))
	b.WriteString("\n")
	if m.player != "" {
		b.WriteString(centerText("Player: "+m.player, m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	for i, e := range menuEntries {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(cursor+m.entryLabel(e), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render(centerText(m.difficulty.Description(), m.width)))
	b.WriteString("\n\n")
	controls := "Up/Down: Navigate  |  Left/Right: Difficulty  |  Enter: Select  |  Tab: Ranking  |  Q: Quit"
	b.WriteString(hintStyle.Render(centerText(controls, m.width)))
	b.WriteString("\n")

	return b.String()
}

// Difficulty returns the chosen difficulty preset.
func (m MenuModel) Difficulty() config.DifficultyPreset {
	return m.difficulty
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsStart returns true if the user chose Play.
func (m MenuModel) WantsStart() bool {
	return m.start
}

// WantsScoreboard returns true if user requested the ranking.
func (m MenuModel) WantsScoreboard() bool {
	return m.scoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	n := len([]rune(text))
	if n >= width {
		return text
	}
	padding := (width - n) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	Start           bool
	Difficulty      config.DifficultyPreset
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the title menu and returns the selection result.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig, preset config.DifficultyPreset, player string) (MenuResult, error) {
	model := NewMenuModel(store, cfg, preset, player)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg, Difficulty: preset}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Difficulty: preset, Quit: true}, nil
	}

	result := MenuResult{
		Config:     m.Config(),
		Difficulty: m.Difficulty(),
	}
	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.WantsStart():
		result.Start = true
	default:
		result.Quit = true
	}
	return result, nil
}
