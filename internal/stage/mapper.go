// Package stage holds the playfield logic of the falling-block game: the grid of
// settled cells, collision tests, row clearing and the round state machine.
// It has no terminal or Bubble Tea dependencies; presentation is reached only
// through the collaborator interfaces in collaborators.go.
package stage

import (
	"fmt"
	"math"
)

// Vec2 is a position in continuous world space. Y grows upward.
type Vec2 struct {
	X, Y float64
}

// Add returns v offset by (dx, dy).
func (v Vec2) Add(dx, dy float64) Vec2 {
	return Vec2{X: v.X + dx, Y: v.Y + dy}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Size is the fixed world-space extent of one cell.
type Size struct {
	W, H float64
}

// CellIndex addresses one grid slot. Row 0 is the floor row.
type CellIndex struct {
	Col int
	Row int
}

// String returns a string representation of the index.
func (c CellIndex) String() string {
	return fmt.Sprintf("(%d,%d)", c.Col, c.Row)
}

// CellIndexOf maps a continuous position to the cell containing it.
// Division results are floored, so positions left of or below the anchor
// produce negative indices instead of collapsing onto column/row 0.
func CellIndexOf(pos, anchor Vec2, cell Size) CellIndex {
	local := pos.Sub(anchor)
	return CellIndex{
		Col: int(math.Floor(local.X / cell.W)),
		Row: int(math.Floor(local.Y / cell.H)),
	}
}

// ComputeAnchor derives the world position of cell (0, 0) from the inner edge
// of the left wall and the top of the floor slab.
func ComputeAnchor(leftWallInnerX, floorTopY float64, cell Size) Vec2 {
	return Vec2{
		X: leftWallInnerX + cell.W/2,
		Y: floorTopY - cell.H/2,
	}
}

// Mapper bundles the session-invariant anchor and cell size.
type Mapper struct {
	Anchor Vec2
	Cell   Size
}

// IndexOf returns the cell index for a world position.
func (m Mapper) IndexOf(pos Vec2) CellIndex {
	return CellIndexOf(pos, m.Anchor, m.Cell)
}

// PositionOf returns the world position whose index is c.
func (m Mapper) PositionOf(c CellIndex) Vec2 {
	return Vec2{
		X: m.Anchor.X + m.Cell.W*float64(c.Col),
		Y: m.Anchor.Y + m.Cell.H*float64(c.Row),
	}
}

// IndicesOf maps every block of a piece to its cell index.
func (m Mapper) IndicesOf(blocks []Block) []CellIndex {
	cells := make([]CellIndex, len(blocks))
	for i, b := range blocks {
		cells[i] = m.IndexOf(b.Pos)
	}
	return cells
}
