package stack

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-stage/internal/stage"
)

// offset is a block position relative to the piece pivot, Y up.
type offset struct {
	dx, dy int
}

// shape is one tetromino with its four clockwise rotation states.
type shape struct {
	name      string
	rotations [4][4]offset
}

// baseShapes lists the spawn orientation of each tetromino. The index is
// also the block variant, so colors line up with the obstacle palette.
var baseShapes = []struct {
	name   string
	blocks [4]offset
}{
	{"I", [4]offset{{-1, 0}, {0, 0}, {1, 0}, {2, 0}}},
	{"J", [4]offset{{-1, 1}, {-1, 0}, {0, 0}, {1, 0}}},
	{"L", [4]offset{{1, 1}, {-1, 0}, {0, 0}, {1, 0}}},
	{"O", [4]offset{{0, 0}, {1, 0}, {0, 1}, {1, 1}}},
	{"S", [4]offset{{-1, 0}, {0, 0}, {0, 1}, {1, 1}}},
	{"T", [4]offset{{0, 1}, {-1, 0}, {0, 0}, {1, 0}}},
	{"Z", [4]offset{{-1, 1}, {0, 1}, {0, 0}, {1, 0}}},
}

var shapes = buildShapes()

func buildShapes() []shape {
	out := make([]shape, len(baseShapes))
	for i, base := range baseShapes {
		s := shape{name: base.name}
		s.rotations[0] = base.blocks
		for r := 1; r < 4; r++ {
			for b, o := range s.rotations[r-1] {
				// Clockwise with Y up: (x, y) -> (y, -x). O keeps its spawn state.
				if base.name == "O" {
					s.rotations[r][b] = o
					continue
				}
				s.rotations[r][b] = offset{dx: o.dy, dy: -o.dx}
			}
		}
		out[i] = s
	}
	return out
}

// ShapeCount is the number of distinct piece shapes.
func ShapeCount() int {
	return len(shapes)
}

// topOffset returns the highest dy of a rotation state.
func (s shape) topOffset(rot int) int {
	top := s.rotations[rot][0].dy
	for _, o := range s.rotations[rot][1:] {
		top = max(top, o.dy)
	}
	return top
}

// falling is the piece the player controls.
type falling struct {
	shape    int
	rot      int
	col, row int // Pivot cell
	ids      [4]stage.OccupantID
	interval time.Duration // Gravity step
	acc      time.Duration
}

// cells returns the grid cells covered by the piece.
func (f *falling) cells() [4]stage.CellIndex {
	var out [4]stage.CellIndex
	for i, o := range shapes[f.shape].rotations[f.rot] {
		out[i] = stage.CellIndex{Col: f.col + o.dx, Row: f.row + o.dy}
	}
	return out
}

// spawner creates pieces at the top centre of the field and keeps the one
// currently falling.
type spawner struct {
	rng      *rand.Rand
	sprites  *sprites
	mapper   stage.Mapper
	spawnCol int
	topRow   int
	minFall  time.Duration

	active *falling
	next   int
	parked int
}

// parkLift is how many rows a parked piece is moved up, off the stack.
const parkLift = 2

func newSpawner(rng *rand.Rand, sp *sprites, mapper stage.Mapper, floorWidth, visibleRows int, minFall time.Duration) *spawner {
	return &spawner{
		rng:      rng,
		sprites:  sp,
		mapper:   mapper,
		spawnCol: (floorWidth - 1) / 2,
		topRow:   visibleRows,
		minFall:  minFall,
		next:     rng.Intn(len(shapes)),
	}
}

// NextPiece spawns the queued shape and draws the one after it.
// freezeTime is the seconds per row; it never goes below minFall.
func (s *spawner) NextPiece(freezeTime float64) stage.Piece {
	interval := max(time.Duration(freezeTime*float64(time.Second)), s.minFall)

	f := &falling{
		shape:    s.next,
		col:      s.spawnCol,
		row:      s.topRow - shapes[s.next].topOffset(0),
		interval: interval,
	}
	s.next = s.rng.Intn(len(shapes))

	for i, c := range f.cells() {
		f.ids[i] = s.sprites.add(s.mapper.PositionOf(c), f.shape)
	}
	s.active = f
	return s.piece(f)
}

// Park turns a piece that could not be placed into a grey placeholder
// lifted above the stack. It no longer responds to input or gravity.
func (s *spawner) Park(p stage.Piece) {
	for _, b := range p.Blocks {
		s.sprites.park(b.ID, float64(parkLift)*s.mapper.Cell.H)
	}
	s.active = nil
	s.parked++
}

// piece describes f as blocks in world space.
func (s *spawner) piece(f *falling) stage.Piece {
	p := stage.Piece{
		Origin: s.mapper.PositionOf(stage.CellIndex{Col: f.col, Row: f.row}),
		Blocks: make([]stage.Block, 0, len(f.ids)),
	}
	for i, c := range f.cells() {
		p.Blocks = append(p.Blocks, stage.Block{ID: f.ids[i], Pos: s.mapper.PositionOf(c)})
	}
	return p
}

// moved returns a copy of f shifted by (dc, dr) and turned by drot.
func moved(f *falling, dc, dr, drot int) *falling {
	c := *f
	c.col += dc
	c.row += dr
	c.rot = (c.rot + drot + 4) % 4
	return &c
}

// sync copies the active piece's cell positions into its sprites.
func (s *spawner) sync() {
	if s.active == nil {
		return
	}
	for i, c := range s.active.cells() {
		s.sprites.moveTo(s.active.ids[i], s.mapper.PositionOf(c))
	}
}
