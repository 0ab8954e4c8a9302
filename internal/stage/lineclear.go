package stage

import "slices"

// DetectFilled returns the candidate rows that are completely filled,
// in ascending order without duplicates.
func DetectFilled(candidates []int, g *Grid) []int {
	rows := slices.Clone(candidates)
	slices.Sort(rows)
	rows = slices.Compact(rows)

	filled := make([]int, 0, len(rows))
	for _, row := range rows {
		if g.IsRowFilled(row) {
			filled = append(filled, row)
		}
	}
	return filled
}

// ClearRows destroys the occupants of the filled rows, moves every occupant
// above a cleared row down by one cell height per cleared row beneath it, and
// removes the cleared rows from the grid.
//
// The walk starts at the lowest cleared row and goes up to the top of the
// grid, so the offset has accumulated all cleared rows below a row by the
// time that row is relocated.
func ClearRows(g *Grid, filled []int, cellHeight float64, r Renderer) {
	if len(filled) == 0 {
		return
	}

	rows := slices.Clone(filled)
	slices.Sort(rows)
	rows = slices.Compact(rows)

	cleared := make(map[int]struct{}, len(rows))
	for _, row := range rows {
		cleared[row] = struct{}{}
	}

	offset := 0.0
	for row := rows[0]; row < g.Height(); row++ {
		slots := g.rows[row]

		if _, ok := cleared[row]; ok {
			for _, id := range slots {
				if id != NoOccupant {
					r.Destroy(id)
				}
			}
			offset -= cellHeight
			continue
		}

		if offset == 0 {
			continue
		}
		for _, id := range slots {
			if id != NoOccupant {
				r.Relocate(id, offset)
			}
		}
	}

	g.RemoveRows(rows)
}
