package core

import "fmt"

// Gravity selects how tiles close up after a pair is removed. Each stage of a
// game uses the gravity whose number equals the stage number.
type Gravity int

const (
	GravityNone Gravity = iota
	GravityDown
	GravityRight
	GravityTowardHorizontalCenter
	GravityTowardVerticalCenter
	GravityAwayFromHorizontalCenter
	GravityAwayFromVerticalCenter
	GravitySplitColumns // down on the left half, up on the right half
	GravitySplitRows    // right on the top half, left on the bottom half
)

// GravityCount is the number of distinct gravity rules.
const GravityCount = 9

// String returns a short description of the gravity rule.
func (g Gravity) String() string {
	switch g {
	case GravityNone:
		return "still"
	case GravityDown:
		return "down"
	case GravityRight:
		return "right"
	case GravityTowardHorizontalCenter:
		return "to middle row"
	case GravityTowardVerticalCenter:
		return "to middle column"
	case GravityAwayFromHorizontalCenter:
		return "from middle row"
	case GravityAwayFromVerticalCenter:
		return "from middle column"
	case GravitySplitColumns:
		return "down/up"
	case GravitySplitRows:
		return "right/left"
	default:
		return fmt.Sprintf("gravity(%d)", int(g))
	}
}

// GravityForStage maps a stage number onto its gravity rule.
func GravityForStage(stage int) Gravity {
	if stage < 0 {
		return GravityNone
	}
	return Gravity(stage % GravityCount)
}

// Move records one tile sliding from From to To.
type Move struct {
	From Coord `json:"from"`
	To   Coord `json:"to"`
}

// Apply closes up the grid under this gravity rule and returns the moves made.
func (gr Gravity) Apply(g *Grid) []Move {
	var moves []Move
	column := func(x, from, to int) []Coord { return span(x, from, to, true) }
	row := func(y, from, to int) []Coord { return span(y, from, to, false) }

	switch gr {
	case GravityDown:
		for x := 0; x < g.W; x++ {
			moves = compact(g, column(x, g.H-1, 0), moves)
		}
	case GravityRight:
		for y := 0; y < g.H; y++ {
			moves = compact(g, row(y, g.W-1, 0), moves)
		}
	case GravityTowardHorizontalCenter:
		center := g.H / 2
		for x := 0; x < g.W; x++ {
			moves = compact(g, column(x, center-1, 0), moves)
			moves = compact(g, column(x, center, g.H-1), moves)
		}
	case GravityTowardVerticalCenter:
		center := g.W / 2
		for y := 0; y < g.H; y++ {
			moves = compact(g, row(y, center-1, 0), moves)
			moves = compact(g, row(y, center, g.W-1), moves)
		}
	case GravityAwayFromHorizontalCenter:
		center := g.H / 2
		for x := 0; x < g.W; x++ {
			moves = compact(g, column(x, g.H-1, center), moves)
			moves = compact(g, column(x, 0, center-1), moves)
		}
	case GravityAwayFromVerticalCenter:
		center := g.W / 2
		for y := 0; y < g.H; y++ {
			moves = compact(g, row(y, g.W-1, center), moves)
			moves = compact(g, row(y, 0, center-1), moves)
		}
	case GravitySplitColumns:
		center := g.W / 2
		for x := 0; x < g.W; x++ {
			if x < center {
				moves = compact(g, column(x, g.H-1, 0), moves)
			} else {
				moves = compact(g, column(x, 0, g.H-1), moves)
			}
		}
	case GravitySplitRows:
		center := g.H / 2
		for y := 0; y < g.H; y++ {
			if y < center {
				moves = compact(g, row(y, g.W-1, 0), moves)
			} else {
				moves = compact(g, row(y, 0, g.W-1), moves)
			}
		}
	}
	return moves
}

// span lists the cells of one line from index from to index to inclusive,
// in walking order. A negative bound means the half is empty.
func span(fixed, from, to int, vertical bool) []Coord {
	if from < 0 || to < 0 {
		return nil
	}
	step := 1
	if to < from {
		step = -1
	}
	var out []Coord
	for i := from; ; i += step {
		if vertical {
			out = append(out, C(fixed, i))
		} else {
			out = append(out, C(i, fixed))
		}
		if i == to {
			break
		}
	}
	return out
}

// compact slides the tiles of line toward its first cell, keeping their order.
func compact(g *Grid, line []Coord, moves []Move) []Move {
	next := 0
	for _, c := range line {
		k, ok := g.Get(c)
		if !ok {
			continue
		}
		dst := line[next]
		next++
		if dst == c {
			continue
		}
		g.Clear(c)
		g.Set(dst, k)
		moves = append(moves, Move{From: c, To: dst})
	}
	return moves
}
