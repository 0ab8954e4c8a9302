// Package config provides YAML-based stage configuration loading,
// environment overrides and difficulty presets.
package config

import (
	"errors"
	"fmt"
	"time"
)

// StageConfig contains all configuration for the falling-block stage.
type StageConfig struct {
	Field  FieldConfig  `yaml:"field"`
	Rules  RulesConfig  `yaml:"rules"`
	Timing TimingConfig `yaml:"timing"`
}

// FieldConfig defines the playfield geometry.
type FieldConfig struct {
	FloorWidth  int `yaml:"floor_width"  env:"STAGE_FLOOR_WIDTH"`
	VisibleRows int `yaml:"visible_rows" env:"STAGE_VISIBLE_ROWS"`
	CellWidth   int `yaml:"cell_width"   env:"STAGE_CELL_WIDTH"`  // Terminal columns per cell
	CellHeight  int `yaml:"cell_height"  env:"STAGE_CELL_HEIGHT"` // Terminal rows per cell
}

// RulesConfig defines round progression and obstacle generation.
type RulesConfig struct {
	BaseLines         int     `yaml:"base_lines"          env:"STAGE_BASE_LINES"`
	InitialFreezeTime float64 `yaml:"initial_freeze_time" env:"STAGE_INITIAL_FREEZE_TIME"` // Seconds per row before the first round speed-up
	FreezeDecrement   float64 `yaml:"freeze_decrement"    env:"STAGE_FREEZE_DECREMENT"`
	MinFallInterval   float64 `yaml:"min_fall_interval"   env:"STAGE_MIN_FALL_INTERVAL"` // Fastest gravity the game will run
	FillRange         int     `yaml:"fill_range"          env:"STAGE_FILL_RANGE"`
	FillThreshold     int     `yaml:"fill_threshold"      env:"STAGE_FILL_THRESHOLD"` // Cell present when roll > threshold
}

// TimingConfig defines the delays of banners and phase sequences.
type TimingConfig struct {
	TitleDelay        time.Duration `yaml:"title_delay"         env:"STAGE_TITLE_DELAY"`
	LineStockInterval time.Duration `yaml:"line_stock_interval" env:"STAGE_LINE_STOCK_INTERVAL"`
	AnnouncerPoll     time.Duration `yaml:"announcer_poll"      env:"STAGE_ANNOUNCER_POLL"`
	AnnouncerMaxPolls int           `yaml:"announcer_max_polls" env:"STAGE_ANNOUNCER_MAX_POLLS"`
	BannerDuration    time.Duration `yaml:"banner_duration"     env:"STAGE_BANNER_DURATION"`
	EffectDuration    time.Duration `yaml:"effect_duration"     env:"STAGE_EFFECT_DURATION"`
}

// ErrInvalidConfig is returned by Validate for values the stage cannot run with.
var ErrInvalidConfig = errors.New("config: invalid stage config")

// Validate checks that the config describes a playable stage.
func (c StageConfig) Validate() error {
	switch {
	case c.Field.FloorWidth < 4:
		return fmt.Errorf("%w: floor_width %d is below 4", ErrInvalidConfig, c.Field.FloorWidth)
	case c.Field.VisibleRows < 4:
		return fmt.Errorf("%w: visible_rows %d is below 4", ErrInvalidConfig, c.Field.VisibleRows)
	case c.Field.CellWidth <= 0 || c.Field.CellHeight <= 0:
		return fmt.Errorf("%w: cell size %dx%d", ErrInvalidConfig, c.Field.CellWidth, c.Field.CellHeight)
	case c.Rules.BaseLines < 0:
		return fmt.Errorf("%w: base_lines %d is negative", ErrInvalidConfig, c.Rules.BaseLines)
	case c.Rules.FillRange <= 0:
		return fmt.Errorf("%w: fill_range must be positive", ErrInvalidConfig)
	case c.Rules.MinFallInterval <= 0:
		return fmt.Errorf("%w: min_fall_interval must be positive", ErrInvalidConfig)
	case c.Timing.AnnouncerMaxPolls < 0:
		return fmt.Errorf("%w: announcer_max_polls is negative", ErrInvalidConfig)
	}
	return nil
}

// FillProbability returns the chance that an obstacle cell is present.
func (r RulesConfig) FillProbability() float64 {
	if r.FillRange <= 0 {
		return 0
	}
	present := r.FillRange - 1 - r.FillThreshold
	if present < 0 {
		present = 0
	}
	return float64(present) / float64(r.FillRange)
}
