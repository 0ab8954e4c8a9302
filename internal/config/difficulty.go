package config

import (
	"fmt"
	"strings"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// Presets lists every preset in menu order.
var Presets = []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed}

// ParsePreset converts a flag value into a preset. Empty means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	if s == "" {
		return DifficultyNormal, nil
	}
	p := DifficultyPreset(strings.ToLower(s))
	for _, known := range Presets {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal, hard or fixed)", s)
}

// Description returns a short menu hint for the preset.
func (p DifficultyPreset) Description() string {
	switch p {
	case DifficultyEasy:
		return "slow start, gentle speed-up"
	case DifficultyNormal:
		return "standard pace"
	case DifficultyHard:
		return "fast start, more lines per round"
	case DifficultyFixed:
		return "speed never changes"
	default:
		return ""
	}
}

// ApplyPreset adjusts the round rules for a difficulty preset.
// Normal leaves the loaded values untouched.
func ApplyPreset(cfg *StageConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Rules.InitialFreezeTime *= 1.3
		cfg.Rules.FreezeDecrement /= 2
	case DifficultyHard:
		cfg.Rules.InitialFreezeTime *= 0.7
		cfg.Rules.BaseLines += 2
	case DifficultyFixed:
		cfg.Rules.FreezeDecrement = 0
	}
}
