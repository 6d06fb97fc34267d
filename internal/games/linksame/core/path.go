package core

// MaxTurns is the number of direction changes a connecting path may make.
const MaxTurns = 2

// Path is the ordered list of cells from one tile to its partner, both
// endpoints included. Interior cells may lie on the ring around the board.
type Path []Coord

// Turns returns the number of direction changes along the path.
func (p Path) Turns() int {
	turns := 0
	var prev Dir
	for i := 1; i < len(p); i++ {
		d, ok := dirBetween(p[i-1], p[i])
		if !ok {
			continue
		}
		if i > 1 && d != prev {
			turns++
		}
		prev = d
	}
	return turns
}

// Corners returns the endpoints and every cell where the path bends.
func (p Path) Corners() []Coord {
	if len(p) == 0 {
		return nil
	}
	out := []Coord{p[0]}
	for i := 1; i < len(p)-1; i++ {
		d1, _ := dirBetween(p[i-1], p[i])
		d2, _ := dirBetween(p[i], p[i+1])
		if d1 != d2 {
			out = append(out, p[i])
		}
	}
	if len(p) > 1 {
		out = append(out, p[len(p)-1])
	}
	return out
}

// Reverse returns the path walked from the other end.
func (p Path) Reverse() Path {
	out := make(Path, len(p))
	for i, c := range p {
		out[len(p)-1-i] = c
	}
	return out
}

// searchState is one BFS node: a cell entered while travelling dir, having
// used turns direction changes so far.
type searchState struct {
	at    Coord
	dir   Dir
	turns int
}

// stateSpace indexes BFS states over the extended board.
type stateSpace struct {
	w, h int // extended dimensions
}

func (s stateSpace) size() int {
	return s.w * s.h * 4 * (MaxTurns + 1)
}

func (s stateSpace) index(st searchState) int {
	cell := (st.at.Y+1)*s.w + (st.at.X + 1)
	return (cell*4+int(st.dir))*(MaxTurns+1) + st.turns
}

// FindPath searches for a legal connection between the tiles at a and b:
// straight segments with at most MaxTurns bends through empty cells, possibly
// crossing the ring around the board. Directions are expanded in the order
// up, right, down, left, so identical inputs always yield the same path.
//
// Returns ErrInvalidSelection if a and b are the same cell, either is empty
// or off the board, or the kinds differ; ErrNoPathFound if no path exists.
func FindPath(g *Grid, a, b Coord) (Path, error) {
	if a == b {
		return nil, ErrInvalidSelection
	}
	ka, okA := g.Get(a)
	kb, okB := g.Get(b)
	if !okA || !okB || ka != kb {
		return nil, ErrInvalidSelection
	}

	space := stateSpace{w: g.W + 2, h: g.H + 2}
	visited := make([]bool, space.size())
	parent := make([]int, space.size())
	states := make([]searchState, space.size())

	passable := func(c Coord) bool {
		if c == b {
			return true
		}
		return g.InExtended(c) && g.IsEmpty(c)
	}

	queue := make([]int, 0, 64)
	for _, d := range Dirs {
		next := a.Step(d)
		if !passable(next) {
			continue
		}
		st := searchState{at: next, dir: d}
		idx := space.index(st)
		visited[idx] = true
		parent[idx] = -1
		states[idx] = st
		queue = append(queue, idx)
	}

	for head := 0; head < len(queue); head++ {
		idx := queue[head]
		cur := states[idx]
		if cur.at == b {
			return rebuildPath(a, idx, parent, states), nil
		}
		for _, d := range Dirs {
			if d == cur.dir.Opposite() {
				continue
			}
			turns := cur.turns
			if d != cur.dir {
				turns++
			}
			if turns > MaxTurns {
				continue
			}
			next := cur.at.Step(d)
			if !passable(next) {
				continue
			}
			st := searchState{at: next, dir: d, turns: turns}
			nidx := space.index(st)
			if visited[nidx] {
				continue
			}
			visited[nidx] = true
			parent[nidx] = idx
			states[nidx] = st
			queue = append(queue, nidx)
		}
	}
	return nil, ErrNoPathFound
}

func rebuildPath(start Coord, idx int, parent []int, states []searchState) Path {
	var rev Path
	for idx != -1 {
		rev = append(rev, states[idx].at)
		idx = parent[idx]
	}
	rev = append(rev, start)
	return rev.Reverse()
}

// CanConnect reports whether the tiles at a and b can be removed together.
func CanConnect(g *Grid, a, b Coord) bool {
	_, err := FindPath(g, a, b)
	return err == nil
}
