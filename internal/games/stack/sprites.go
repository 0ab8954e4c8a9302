package stack

import (
	"time"

	"github.com/kamstrup/intmap"

	"github.com/vovakirdan/tui-stage/internal/stage"
)

// sprite is the visual of one block: falling, settled or parked.
type sprite struct {
	pos     stage.Vec2
	variant int
	ghost   bool
}

type effect struct {
	pos  stage.Vec2
	left time.Duration
}

type stockLine struct {
	y       float64
	variant int
}

// sprites owns every block visual, keyed by the occupant IDs the grid stores.
// It implements stage.Renderer.
type sprites struct {
	table          *intmap.Map[stage.OccupantID, *sprite]
	nextID         stage.OccupantID
	effects        []effect
	stock          []stockLine
	effectDuration time.Duration
}

func newSprites(effectDuration time.Duration) *sprites {
	return &sprites{
		table:          intmap.New[stage.OccupantID, *sprite](256),
		effectDuration: effectDuration,
	}
}

// add registers a new sprite and returns its ID. IDs are never reused.
func (s *sprites) add(pos stage.Vec2, variant int) stage.OccupantID {
	s.nextID++
	s.table.Put(s.nextID, &sprite{pos: pos, variant: variant})
	return s.nextID
}

func (s *sprites) moveTo(id stage.OccupantID, pos stage.Vec2) {
	if sp, ok := s.table.Get(id); ok {
		sp.pos = pos
	}
}

func (s *sprites) park(id stage.OccupantID, lift float64) {
	if sp, ok := s.table.Get(id); ok {
		sp.pos = sp.pos.Add(0, lift)
		sp.ghost = true
	}
}

func (s *sprites) get(id stage.OccupantID) (sprite, bool) {
	sp, ok := s.table.Get(id)
	if !ok {
		return sprite{}, false
	}
	return *sp, true
}

func (s *sprites) len() int {
	return s.table.Len()
}

// each visits every sprite in unspecified order.
func (s *sprites) each(fn func(stage.OccupantID, sprite)) {
	s.table.ForEach(func(id stage.OccupantID, sp *sprite) bool {
		fn(id, *sp)
		return true
	})
}

// Destroy removes a sprite. Unknown IDs are ignored.
func (s *sprites) Destroy(id stage.OccupantID) {
	s.table.Del(id)
}

// Relocate moves a sprite vertically by dy world units.
func (s *sprites) Relocate(id stage.OccupantID, dy float64) {
	if sp, ok := s.table.Get(id); ok {
		sp.pos = sp.pos.Add(0, dy)
	}
}

// PlaceEffectAt flashes a landing effect at pos.
func (s *sprites) PlaceEffectAt(pos stage.Vec2) {
	s.effects = append(s.effects, effect{pos: pos, left: s.effectDuration})
}

// SpawnCell creates the visual of a generated obstacle.
func (s *sprites) SpawnCell(pos stage.Vec2, variant int) stage.OccupantID {
	return s.add(pos, variant)
}

// SpawnStockLine adds a decorative full-width line at height y.
func (s *sprites) SpawnStockLine(y float64, variant int) {
	s.stock = append(s.stock, stockLine{y: y, variant: variant})
}

// ClearLineStock removes every decorative line.
func (s *sprites) ClearLineStock() {
	s.stock = nil
}

// tick expires effects.
func (s *sprites) tick(dt time.Duration) {
	kept := s.effects[:0]
	for _, e := range s.effects {
		e.left -= dt
		if e.left > 0 {
			kept = append(kept, e)
		}
	}
	s.effects = kept
}
