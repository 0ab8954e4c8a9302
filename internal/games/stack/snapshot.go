package stack

import "github.com/vovakirdan/tui-stage/internal/stage"

// Snapshot captures the game state for determinism testing and debugging.
type Snapshot struct {
	Tick       uint64
	Phase      stage.Phase
	Round      int
	Remaining  int
	Score      int // Last clear
	TotalScore int
	Lines      int
	GameOver   bool
	Settled    int // Occupied grid cells
	Sprites    int
	FreezeTime float64

	Falling bool
	Shape   string
	Rot     int
	Col     int
	Row     int
	Next    string
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Tick:       g.tick,
		Phase:      g.ctrl.Phase(),
		Round:      g.ctrl.Round(),
		Remaining:  g.ctrl.Remaining(),
		Score:      g.ctrl.Score(),
		TotalScore: g.ctrl.TotalScore(),
		Lines:      g.ctrl.ClearedLines(),
		GameOver:   g.ctrl.GameOver(),
		Settled:    g.ctrl.Grid().Count(),
		Sprites:    g.spr.len(),
		FreezeTime: g.ctrl.FreezeTime(),
		Next:       shapes[g.spawn.next].name,
	}
	if f := g.spawn.active; f != nil {
		s.Falling = true
		s.Shape = shapes[f.shape].name
		s.Rot = f.rot
		s.Col = f.col
		s.Row = f.row
	}
	return s
}
