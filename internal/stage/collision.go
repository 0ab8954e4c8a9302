package stage

// Collides reports whether any of the cells is outside the side walls, at or
// below the floor row, or on an occupied slot.
//
// Row 0 counts as a collision even though the grid keeps a row 0: it is the
// floor slab row, and a block resting on the floor maps to row 1.
func Collides(cells []CellIndex, g *Grid, floorWidth int) bool {
	for _, c := range cells {
		switch {
		case c.Col < 0 || c.Col >= floorWidth:
			return true
		case c.Row <= 0:
			return true
		case g.Occupied(c.Col, c.Row):
			return true
		}
	}
	return false
}
