package linksame

import (
	"fmt"

	platformcore "github.com/vovakirdan/linksame/internal/core"
	"github.com/vovakirdan/linksame/internal/games/linksame/core"
)

const (
	cellWidth    = 3 // bracket, glyph, bracket
	hudHeight    = 4
	footerHeight = 1
)

// boardScreenSize returns the size of the framed board, including the empty
// ring around it where paths may run.
func boardScreenSize(w, h int) (int, int) {
	return (w+2)*cellWidth + 2, h + 4
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *platformcore.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}
	if g.err != nil {
		dst.DrawTextCentered(dst.Height()/2, "Cannot start game")
		dst.DrawTextCentered(dst.Height()/2+1, g.err.Error())
		return
	}

	boardW, boardH := boardScreenSize(g.size.Width, g.size.Height)
	boardX := (dst.Width() - boardW) / 2
	boardY := hudHeight
	if boardX < 0 {
		boardX = 0
	}

	g.renderHUD(dst)
	dst.DrawBox(platformcore.NewRect(boardX, boardY, boardW, boardH), platformcore.ColorGray)
	g.renderBoard(dst, boardX+1, boardY+1)
	g.renderPath(dst, boardX+1, boardY+1)
	g.renderFooter(dst, boardY+boardH)
	g.renderOverlay(dst, boardX, boardY, boardW, boardH)
}

func (g *Game) renderTooSmall(dst *platformcore.Screen) {
	y := dst.Height() / 2
	dst.DrawTextCentered(y, "Window too small")
	w, h := boardScreenSize(g.size.Width, g.size.Height)
	dst.DrawTextCentered(y+1, fmt.Sprintf("Need %dx%d", w, h+hudHeight+footerHeight))
}

func (g *Game) renderHUD(dst *platformcore.Screen) {
	dst.DrawTextColor(centerX(dst, g.Title()), 0, g.Title(), platformcore.ColorBrightCyan)

	stage := fmt.Sprintf("Stage %d/%d  Gravity: %s", g.stage+1, g.lastStage+1, g.engine.Gravity())
	dst.DrawText(centerX(dst, stage), 1, stage)

	status := fmt.Sprintf("Pairs: %d", g.engine.RemainingPairs())
	if g.mode == ModeTimed {
		status = fmt.Sprintf("Score: %d  %s", g.Score(), status)
	}
	scoreColor := platformcore.ColorDefault
	if g.mode == ModeTimed && g.score.Penalized() {
		scoreColor = platformcore.ColorBrightRed
	}
	dst.DrawTextColor(centerX(dst, status), 2, status, scoreColor)

	if g.message != "" {
		dst.DrawTextColor(centerX(dst, g.message), 3, g.message, platformcore.ColorYellow)
	}
}

func centerX(dst *platformcore.Screen, text string) int {
	return max(0, (dst.Width()-len([]rune(text)))/2)
}

// cellOrigin returns the screen column and row of the left bracket of
// board cell c. Ring cells (x or y of -1, W or H) are addressable too.
func cellOrigin(originX, originY int, c core.Coord) (int, int) {
	return originX + (c.X+1)*cellWidth, originY + c.Y + 1
}

func (g *Game) renderBoard(dst *platformcore.Screen, originX, originY int) {
	sel, hasSel := g.engine.Selected()
	hl, hasHL := g.engine.Highlight()

	for y := 0; y < g.size.Height; y++ {
		for x := 0; x < g.size.Width; x++ {
			c := core.C(x, y)
			sx, sy := cellOrigin(originX, originY, c)

			bg := platformcore.ColorDefault
			switch {
			case hasSel && sel == c:
				bg = platformcore.ColorYellow
			case hasHL && (hl.A == c || hl.B == c):
				bg = platformcore.ColorGreen
			}

			if k, ok := g.engine.KindAt(c); ok {
				dst.SetCell(sx+1, sy, platformcore.Cell{Rune: glyph(k), Fg: g.tileColor(k), Bg: bg})
			} else {
				dst.SetCell(sx+1, sy, platformcore.Cell{Rune: '·', Fg: platformcore.ColorDarkGray, Bg: bg})
			}

			if c == g.cursor && g.phase == PhasePlaying {
				dst.SetColor(sx, sy, '[', platformcore.ColorBrightWhite)
				dst.SetColor(sx+2, sy, ']', platformcore.ColorBrightWhite)
			}
		}
	}
}

func glyph(k core.Kind) rune {
	for _, r := range string(k) {
		return r
	}
	return ' '
}

func (g *Game) tileColor(k core.Kind) platformcore.Color {
	i, ok := g.glyphs[k]
	if !ok {
		return platformcore.ColorWhite
	}
	return platformcore.TilePalette[i%len(platformcore.TilePalette)]
}

// renderPath draws the last removal path. Interior cells get line or corner
// glyphs; horizontal steps also fill the bracket columns between cells.
func (g *Game) renderPath(dst *platformcore.Screen, originX, originY int) {
	if len(g.path) < 2 {
		return
	}
	fg := platformcore.ColorBrightYellow

	for i := 1; i < len(g.path); i++ {
		a, b := g.path[i-1], g.path[i]
		if a.Y != b.Y {
			continue
		}
		left := a
		if b.X < a.X {
			left = b
		}
		sx, sy := cellOrigin(originX, originY, left)
		dst.SetColor(sx+2, sy, '─', fg)
		dst.SetColor(sx+3, sy, '─', fg)
	}

	for i := 1; i < len(g.path)-1; i++ {
		sx, sy := cellOrigin(originX, originY, g.path[i])
		dst.SetColor(sx+1, sy, pathGlyph(g.path[i-1], g.path[i], g.path[i+1]), fg)
	}
}

// pathGlyph picks the box-drawing rune for cell at, entered from prev and
// left towards next.
func pathGlyph(prev, at, next core.Coord) rune {
	var up, down, left, right bool
	for _, n := range [2]core.Coord{prev, next} {
		switch {
		case n.Y < at.Y:
			up = true
		case n.Y > at.Y:
			down = true
		case n.X < at.X:
			left = true
		case n.X > at.X:
			right = true
		}
	}
	switch {
	case up && down:
		return '│'
	case left && right:
		return '─'
	case down && right:
		return '┌'
	case down && left:
		return '┐'
	case up && right:
		return '└'
	case up && left:
		return '┘'
	}
	return '·'
}

func (g *Game) renderFooter(dst *platformcore.Screen, y int) {
	help := "arrows move  enter tap  h hint  x shuffle  r restart  s save  p pause  q quit"
	dst.DrawTextColor(centerX(dst, help), y, help, platformcore.ColorGray)
}

func (g *Game) renderOverlay(dst *platformcore.Screen, boardX, boardY, boardW, boardH int) {
	var lines []string
	switch {
	case g.paused:
		lines = []string{"PAUSED", "p to resume"}
	case g.phase == PhaseStageCleared:
		lines = []string{fmt.Sprintf("STAGE %d CLEARED", g.stage+1), "enter to continue"}
	case g.phase == PhaseWon:
		lines = []string{"ALL STAGES CLEARED"}
		if g.mode == ModeTimed {
			lines = append(lines, fmt.Sprintf("Final score: %d", g.Score()))
		}
		lines = append(lines, "q to leave")
	default:
		return
	}

	w := 0
	for _, l := range lines {
		w = max(w, len([]rune(l)))
	}
	w += 4
	h := len(lines) + 2
	x := boardX + (boardW-w)/2
	y := boardY + (boardH-h)/2

	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			dst.SetCell(xx, yy, platformcore.Cell{Rune: ' '})
		}
	}
	dst.DrawBox(platformcore.NewRect(x, y, w, h), platformcore.ColorBrightWhite)
	for i, l := range lines {
		dst.DrawTextColor(x+(w-len([]rune(l)))/2, y+1+i, l, platformcore.ColorBrightWhite)
	}
}
