package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/stage.yaml
var defaultStageYAML []byte

// DefaultStageConfig returns the built-in stage configuration.
// It matches defaults/stage.yaml and is used when the embedded file cannot be parsed.
func DefaultStageConfig() StageConfig {
	return StageConfig{
		Field: FieldConfig{
			FloorWidth:  12,
			VisibleRows: 20,
			CellWidth:   2,
			CellHeight:  1,
		},
		Rules: RulesConfig{
			BaseLines:         0,
			InitialFreezeTime: 1.0,
			FreezeDecrement:   0.1,
			MinFallInterval:   0.05,
			FillRange:         10,
			FillThreshold:     5,
		},
		Timing: TimingConfig{
			TitleDelay:        3 * time.Second,
			LineStockInterval: 50 * time.Millisecond,
			AnnouncerPoll:     100 * time.Millisecond,
			AnnouncerMaxPolls: 50,
			BannerDuration:    1500 * time.Millisecond,
			EffectDuration:    150 * time.Millisecond,
		},
	}
}

// DefaultYAML returns the embedded default stage YAML.
func DefaultYAML() []byte {
	return defaultStageYAML
}
