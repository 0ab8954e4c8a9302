package stack

import (
	"fmt"

	"github.com/vovakirdan/tui-stage/internal/core"
	"github.com/vovakirdan/tui-stage/internal/stage"
)

const panelWidth = 18

// requiredSize returns the smallest screen that fits the field and panel.
func (g *Game) requiredSize() (int, int) {
	fw, fh := g.fieldSize()
	return fw + 1 + panelWidth, fh
}

// fieldSize returns the field box size including walls and floor.
func (g *Game) fieldSize() (int, int) {
	return g.cfg.Field.FloorWidth*g.cfg.Field.CellWidth + 2,
		g.cfg.Field.VisibleRows*g.cfg.Field.CellHeight + 2
}

// fieldRect returns the screen rectangle of the field box.
func (g *Game) fieldRect() core.Rect {
	reqW, reqH := g.requiredSize()
	fw, fh := g.fieldSize()
	return core.NewRect((g.screenW-reqW)/2, (g.screenH-reqH)/2, fw, fh)
}

// cellRect maps a grid cell to its screen area inside the field walls.
// ok is false for cells outside the walls or the visible rows; row 0 is
// the floor slab and never drawn as a cell.
func (g *Game) cellRect(field core.Rect, c stage.CellIndex) (core.Rect, bool) {
	f := g.cfg.Field
	well := field.Inset(1)
	r := core.NewRect(
		well.X+c.Col*f.CellWidth,
		well.Y+(f.VisibleRows-c.Row)*f.CellHeight,
		f.CellWidth,
		f.CellHeight,
	)
	if !well.Contains(r.X, r.Y) {
		return core.Rect{}, false
	}
	return r, true
}

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.ctrl == nil {
		return
	}

	if g.tooSmall {
		reqW, reqH := g.requiredSize()
		dst.DrawTextCentered(dst.Height()/2-1, "Window too small", core.ColorBrightRed)
		dst.DrawTextCentered(dst.Height()/2+1, fmt.Sprintf("Need %dx%d", reqW, reqH), core.ColorGray)
		return
	}

	field := g.fieldRect()
	dst.DrawBox(field, core.ColorGray)

	g.renderStock(dst, field)
	g.renderSprites(dst, field)
	g.renderEffects(dst, field)
	g.renderPanel(dst, field)
	g.renderBanner(dst, field)
}

func (g *Game) renderStock(dst *core.Screen, field core.Rect) {
	mapper := g.ctrl.Mapper()
	for _, line := range g.spr.stock {
		row := mapper.IndexOf(stage.Vec2{X: mapper.Anchor.X, Y: line.y}).Row
		for col := 0; col < g.cfg.Field.FloorWidth; col++ {
			if r, ok := g.cellRect(field, stage.CellIndex{Col: col, Row: row}); ok {
				dst.DrawRect(r, '▒', core.VariantColor(line.variant))
			}
		}
	}
}

func (g *Game) renderSprites(dst *core.Screen, field core.Rect) {
	mapper := g.ctrl.Mapper()
	g.spr.each(func(_ stage.OccupantID, sp sprite) {
		r, ok := g.cellRect(field, mapper.IndexOf(sp.pos))
		if !ok {
			return
		}
		if sp.ghost {
			dst.DrawRect(r, '░', core.ColorGray)
			return
		}
		dst.DrawRect(r, '█', core.VariantColor(sp.variant))
	})
}

func (g *Game) renderEffects(dst *core.Screen, field core.Rect) {
	mapper := g.ctrl.Mapper()
	for _, e := range g.spr.effects {
		if r, ok := g.cellRect(field, mapper.IndexOf(e.pos)); ok {
			dst.DrawRect(r, '✦', core.ColorBrightWhite)
		}
	}
}

func (g *Game) renderPanel(dst *core.Screen, field core.Rect) {
	x := field.Right() + 1
	y := field.Y

	label := func(dy int, text string) {
		dst.DrawTextColor(x, y+dy, text, core.ColorGray)
	}
	value := func(dy int, text string, c core.Color) {
		dst.DrawTextColor(x+1, y+dy, text, c)
	}

	dst.DrawTextColor(x, y, "S T A G E", core.ColorBrightCyan)
	label(2, "SCORE")
	value(3, g.hud.scoreText, core.ColorBrightYellow)
	label(5, "TOTAL")
	value(6, fmt.Sprintf("%d", g.ctrl.TotalScore()), core.ColorWhite)
	label(8, "ROUND")
	value(9, fmt.Sprintf("%d", g.ctrl.Round()), core.ColorWhite)
	label(11, "LINES")
	value(12, g.hud.remainingText, core.ColorBrightGreen)
	label(14, "NEXT")
	g.renderPreview(dst, x+1, y+16)

	dst.DrawTextColor(x, field.Bottom()-1, "P pause  Q quit", core.ColorGray)
}

// renderPreview draws the queued shape with its pivot at (x, y).
func (g *Game) renderPreview(dst *core.Screen, x, y int) {
	next := g.spawn.next
	for _, o := range shapes[next].rotations[0] {
		px := x + (o.dx+1)*2
		py := y - o.dy
		dst.SetColor(px, py, '█', core.VariantColor(next))
		dst.SetColor(px+1, py, '█', core.VariantColor(next))
	}
}

func (g *Game) renderBanner(dst *core.Screen, field core.Rect) {
	text := g.hud.visibleBanner()
	hint := ""
	switch {
	case g.paused:
		text, hint = "PAUSED", "P to resume"
	case g.ctrl.GameOver():
		hint = "R to restart"
	}
	if text == "" {
		return
	}

	mid := field.Y + field.H/2
	padded := " " + text + " "
	x := field.X + (field.W-len([]rune(padded)))/2
	dst.DrawTextColor(x, mid, padded, core.ColorBrightWhite)
	if hint != "" {
		x = field.X + (field.W-len(hint))/2
		dst.DrawTextColor(x, mid+2, hint, core.ColorGray)
	}
}
