package stage

import (
	"errors"
	"fmt"
	"slices"
)

// OccupantID is an opaque handle to a settled cell's visual.
// The grid only tracks logical occupancy; the renderer owns the visual.
type OccupantID uint32

// NoOccupant marks an empty slot.
const NoOccupant OccupantID = 0

var (
	// ErrRowNotReserved is returned when writing to a row that was never reserved.
	ErrRowNotReserved = errors.New("stage: row not reserved")

	// ErrColumnOutOfRange is returned when a column falls outside [0, width).
	ErrColumnOutOfRange = errors.New("stage: column out of range")
)

// Grid is the ordered sequence of settled rows, row 0 at the floor.
// Every row has exactly Width() slots.
type Grid struct {
	width int
	rows  [][]OccupantID
}

// NewGrid creates an empty grid whose rows are width slots wide.
func NewGrid(width int) *Grid {
	if width <= 0 {
		panic(fmt.Sprintf("stage: grid width must be positive, got %d", width))
	}
	return &Grid{width: width}
}

// Width returns the number of slots per row.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of rows currently grown.
func (g *Grid) Height() int {
	return len(g.rows)
}

// Reserve appends empty rows until row exists. It never shrinks the grid.
func (g *Grid) Reserve(row int) {
	for len(g.rows) <= row {
		g.rows = append(g.rows, make([]OccupantID, g.width))
	}
}

// Set writes an occupant into a reserved slot.
func (g *Grid) Set(col, row int, id OccupantID) error {
	if row < 0 || row >= len(g.rows) {
		return fmt.Errorf("%w: row %d (height %d)", ErrRowNotReserved, row, len(g.rows))
	}
	if col < 0 || col >= g.width {
		return fmt.Errorf("%w: column %d (width %d)", ErrColumnOutOfRange, col, g.width)
	}
	g.rows[row][col] = id
	return nil
}

// Get returns the occupant at (col, row). The second result is false when the
// row has not been grown yet or the column is outside the grid, which callers
// treat as free space; an empty slot inside the grid returns (NoOccupant, true).
func (g *Grid) Get(col, row int) (OccupantID, bool) {
	if row < 0 || row >= len(g.rows) || col < 0 || col >= g.width {
		return NoOccupant, false
	}
	return g.rows[row][col], true
}

// Occupied reports whether (col, row) holds an occupant.
func (g *Grid) Occupied(col, row int) bool {
	id, ok := g.Get(col, row)
	return ok && id != NoOccupant
}

// IsRowFilled reports whether every slot of row is occupied.
// Asking about a row that was never reserved is a programming error.
func (g *Grid) IsRowFilled(row int) bool {
	g.mustHaveRow(row)
	for _, id := range g.rows[row] {
		if id == NoOccupant {
			return false
		}
	}
	return true
}

// Row returns a copy of the occupants in row.
func (g *Grid) Row(row int) []OccupantID {
	g.mustHaveRow(row)
	return slices.Clone(g.rows[row])
}

// RemoveRows deletes the given rows and compacts the rows above them
// downward. Rows are removed from highest to lowest so earlier deletions do
// not shift the indices of later ones. Duplicates are ignored.
func (g *Grid) RemoveRows(rows []int) {
	ordered := slices.Clone(rows)
	slices.Sort(ordered)
	ordered = slices.Compact(ordered)

	for i := len(ordered) - 1; i >= 0; i-- {
		row := ordered[i]
		g.mustHaveRow(row)
		g.rows = slices.Delete(g.rows, row, row+1)
	}
}

// ClearAll empties the grid, handing each occupant to visit first so the
// renderer can release its visual.
func (g *Grid) ClearAll(visit func(OccupantID)) {
	if visit != nil {
		g.Each(func(_ CellIndex, id OccupantID) {
			visit(id)
		})
	}
	g.rows = nil
}

// Each calls fn for every occupied slot, bottom row first, left to right.
func (g *Grid) Each(fn func(CellIndex, OccupantID)) {
	for row, slots := range g.rows {
		for col, id := range slots {
			if id != NoOccupant {
				fn(CellIndex{Col: col, Row: row}, id)
			}
		}
	}
}

// Count returns the number of occupied slots.
func (g *Grid) Count() int {
	n := 0
	g.Each(func(CellIndex, OccupantID) { n++ })
	return n
}

func (g *Grid) mustHaveRow(row int) {
	if row < 0 || row >= len(g.rows) {
		panic(fmt.Sprintf("stage: row %d not reserved (height %d)", row, len(g.rows)))
	}
}
