// Package core provides the board engine for the LinkSame tile-matching puzzle.
// It is UI-agnostic and deterministic for a given seed: grid storage, the
// two-turn connectivity search, the tap state machine, hint search, dealing,
// reshuffling and stage gravity.
package core

import "fmt"

// Coord is a cell position. X grows to the right, Y grows downward.
// Path coordinates may lie one cell outside the grid on any side.
type Coord struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// C is a convenience constructor for Coord.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// String returns a string representation of the coordinate.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Step returns the neighbouring coordinate in direction d.
func (c Coord) Step(d Dir) Coord {
	dx, dy := d.Delta()
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// Adjacent reports whether two coordinates share an edge.
func (c Coord) Adjacent(other Coord) bool {
	dx := c.X - other.X
	dy := c.Y - other.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx+dy == 1
}

// Dir is a direction of travel along a path.
type Dir uint8

// Directions in expansion order. The path search always tries them in this
// order, which keeps its results reproducible.
const (
	DirUp Dir = iota
	DirRight
	DirDown
	DirLeft
)

// Dirs lists all directions in expansion order.
var Dirs = [4]Dir{DirUp, DirRight, DirDown, DirLeft}

// String returns the name of the direction.
func (d Dir) String() string {
	switch d {
	case DirUp:
		return "Up"
	case DirRight:
		return "Right"
	case DirDown:
		return "Down"
	case DirLeft:
		return "Left"
	default:
		return "Unknown"
	}
}

// Delta returns the (dx, dy) offset for one step in this direction.
func (d Dir) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirRight:
		return 1, 0
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	default:
		return 0, 0
	}
}

// Opposite returns the reverse direction.
func (d Dir) Opposite() Dir {
	return (d + 2) % 4
}

// dirBetween returns the direction of a single step from a to b.
func dirBetween(a, b Coord) (Dir, bool) {
	for _, d := range Dirs {
		if a.Step(d) == b {
			return d, true
		}
	}
	return 0, false
}
