package core

import "strings"

// Kind identifies a tile. Two tiles match when their kinds are equal.
// The zero value means "no tile".
type Kind string

// Empty is the kind stored in unoccupied cells.
const Empty Kind = ""

// Grid is the board: a rectangle of cells stored in row-major order,
// index = y*W + x.
type Grid struct {
	W     int
	H     int
	Cells []Kind
}

// NewGrid creates an empty grid with the given dimensions.
func NewGrid(w, h int) *Grid {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Grid{W: w, H: h, Cells: make([]Kind, w*h)}
}

// ParseGrid builds a grid from rows of single-rune kinds, '.' being empty.
// Rows shorter than the first are padded with empty cells. Used by tests and
// the solve command to describe boards compactly.
func ParseGrid(rows ...string) *Grid {
	if len(rows) == 0 {
		return NewGrid(0, 0)
	}
	w := len([]rune(rows[0]))
	g := NewGrid(w, len(rows))
	for y, row := range rows {
		for x, r := range []rune(row) {
			if x >= w {
				break
			}
			if r != '.' && r != ' ' {
				g.Set(C(x, y), Kind(string(r)))
			}
		}
	}
	return g
}

func (g *Grid) index(c Coord) int {
	return c.Y*g.W + c.X
}

// InBounds reports whether c lies on the board proper.
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.W && c.Y >= 0 && c.Y < g.H
}

// InExtended reports whether c lies on the board or the one-cell ring around it.
func (g *Grid) InExtended(c Coord) bool {
	return c.X >= -1 && c.X <= g.W && c.Y >= -1 && c.Y <= g.H
}

// Get returns the kind at c and whether the cell is occupied.
// Cells outside the board read as empty.
func (g *Grid) Get(c Coord) (Kind, bool) {
	if !g.InBounds(c) {
		return Empty, false
	}
	k := g.Cells[g.index(c)]
	return k, k != Empty
}

// IsEmpty reports whether c holds no tile. Off-board cells are empty.
func (g *Grid) IsEmpty(c Coord) bool {
	_, ok := g.Get(c)
	return !ok
}

// Set places kind k at c. Out-of-bounds writes are ignored.
func (g *Grid) Set(c Coord, k Kind) {
	if g.InBounds(c) {
		g.Cells[g.index(c)] = k
	}
}

// Clear empties the cell at c.
func (g *Grid) Clear(c Coord) {
	g.Set(c, Empty)
}

// OccupiedCount returns the number of tiles on the board.
func (g *Grid) OccupiedCount() int {
	n := 0
	for _, k := range g.Cells {
		if k != Empty {
			n++
		}
	}
	return n
}

// Occupied returns the occupied coordinates in row-major order.
func (g *Grid) Occupied() []Coord {
	out := make([]Coord, 0, len(g.Cells))
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			if g.Cells[y*g.W+x] != Empty {
				out = append(out, C(x, y))
			}
		}
	}
	return out
}

// KindCounts returns the multiset of kinds on the board.
func (g *Grid) KindCounts() map[Kind]int {
	counts := make(map[Kind]int)
	for _, k := range g.Cells {
		if k != Empty {
			counts[k]++
		}
	}
	return counts
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]Kind, len(g.Cells))
	copy(cells, g.Cells)
	return &Grid{W: g.W, H: g.H, Cells: cells}
}

// Equal reports whether two grids have the same size and contents.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.W != other.W || g.H != other.H || len(g.Cells) != len(other.Cells) {
		return false
	}
	for i := range g.Cells {
		if g.Cells[i] != other.Cells[i] {
			return false
		}
	}
	return true
}

// String renders the grid one row per line, using the first rune of each
// kind and '.' for empty cells.
func (g *Grid) String() string {
	var sb strings.Builder
	for y := 0; y < g.H; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < g.W; x++ {
			k := g.Cells[y*g.W+x]
			if k == Empty {
				sb.WriteByte('.')
				continue
			}
			sb.WriteRune([]rune(string(k))[0])
		}
	}
	return sb.String()
}
