package core

// Pair names two cells holding the same kind.
type Pair struct {
	A Coord `json:"a"`
	B Coord `json:"b"`
}

// TapKind is the outcome class of a tap.
type TapKind int

const (
	TapNone     TapKind = iota // nothing selected afterwards, or tap ignored
	TapSelected                // Cell is now the selected tile
	TapRemoved                 // Pair was removed along Path
	TapRejected                // Pair matched in kind but could not be connected
)

// String returns the name of the tap outcome.
func (k TapKind) String() string {
	switch k {
	case TapNone:
		return "none"
	case TapSelected:
		return "selected"
	case TapRemoved:
		return "removed"
	case TapRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// TapResult describes what a tap did.
type TapResult struct {
	Kind  TapKind
	Cell  Coord  // TapSelected: the selected cell
	Pair  Pair   // TapRemoved, TapRejected: the two cells involved
	Path  Path   // TapRemoved: the connecting path
	Moves []Move // TapRemoved: tiles moved by gravity afterwards
	Won   bool   // TapRemoved: the board is now empty
	Err   error  // ErrInvalidSelection for ignored taps, ErrNoPathFound for rejections
}

// HintResult is either a connectable pair with its path, or nothing.
type HintResult struct {
	Found bool
	Pair  Pair
	Path  Path
	Err   error // ErrNoHintAvailable when tiles remain but none connect
}

// Engine runs one board: selection, removal, hints and reshuffles.
// It is not safe for concurrent use.
type Engine struct {
	grid      *Grid
	dealer    *Dealer
	gravity   Gravity
	selected  Coord
	hasSel    bool
	highlight Pair
	hasHint   bool
}

// NewGame deals a fresh w×h board from pool with a dealer seeded by seed.
func NewGame(w, h int, pool []Kind, seed int64) (*Engine, error) {
	dealer := NewDealer(seed)
	g, err := dealer.Deal(w, h, pool)
	if err != nil {
		return nil, err
	}
	return NewEngine(g, dealer), nil
}

// NewEngine wraps an existing grid. The engine takes ownership of g.
// A nil dealer gets one seeded with zero.
func NewEngine(g *Grid, dealer *Dealer) *Engine {
	if dealer == nil {
		dealer = NewDealer(0)
	}
	return &Engine{grid: g, dealer: dealer}
}

// SetGravity selects the rule applied after each removal.
func (e *Engine) SetGravity(gr Gravity) {
	e.gravity = gr
}

// Gravity returns the active gravity rule.
func (e *Engine) Gravity() Gravity {
	return e.gravity
}

// Grid returns a copy of the board.
func (e *Engine) Grid() *Grid {
	return e.grid.Clone()
}

// Width returns the board width.
func (e *Engine) Width() int { return e.grid.W }

// Height returns the board height.
func (e *Engine) Height() int { return e.grid.H }

// KindAt returns the tile at c, if any.
func (e *Engine) KindAt(c Coord) (Kind, bool) {
	return e.grid.Get(c)
}

// Selected returns the selected cell, if one is selected.
func (e *Engine) Selected() (Coord, bool) {
	return e.selected, e.hasSel
}

// Highlight returns the pair shown by the last hint, if still shown.
func (e *Engine) Highlight() (Pair, bool) {
	return e.highlight, e.hasHint
}

// ClearSelection returns the engine to the idle state.
func (e *Engine) ClearSelection() {
	e.hasSel = false
	e.hasHint = false
}

// ClearHighlight hides the hint pair, keeping any selection.
func (e *Engine) ClearHighlight() {
	e.hasHint = false
}

// Tap handles a tap on cell c.
func (e *Engine) Tap(c Coord) TapResult {
	e.hasHint = false

	if !e.grid.InBounds(c) {
		return TapResult{Kind: TapNone, Err: ErrInvalidSelection}
	}
	kind, occupied := e.grid.Get(c)

	if !e.hasSel {
		if !occupied {
			return TapResult{Kind: TapNone}
		}
		e.selected, e.hasSel = c, true
		return TapResult{Kind: TapSelected, Cell: c}
	}

	first := e.selected
	if c == first {
		e.hasSel = false
		return TapResult{Kind: TapNone}
	}
	if !occupied {
		return TapResult{Kind: TapNone, Err: ErrInvalidSelection}
	}
	firstKind, _ := e.grid.Get(first)
	if firstKind != kind {
		e.selected = c
		return TapResult{Kind: TapSelected, Cell: c}
	}

	e.hasSel = false
	pair := Pair{A: first, B: c}
	path, err := FindPath(e.grid, first, c)
	if err != nil {
		return TapResult{Kind: TapRejected, Pair: pair, Err: err}
	}

	e.grid.Clear(first)
	e.grid.Clear(c)
	moves := e.gravity.Apply(e.grid)
	return TapResult{
		Kind:  TapRemoved,
		Pair:  pair,
		Path:  path,
		Moves: moves,
		Won:   e.grid.OccupiedCount() == 0,
	}
}

// FindAnyPair scans the board for a connectable pair. Cells are taken in
// row-major order as the first pick, and each is tried against the later
// cells of the same kind in row-major order.
func FindAnyPair(g *Grid) (Pair, Path, bool) {
	cells := g.Occupied()
	for i, a := range cells {
		ka, _ := g.Get(a)
		for _, b := range cells[i+1:] {
			if kb, _ := g.Get(b); kb != ka {
				continue
			}
			if path, err := FindPath(g, a, b); err == nil {
				return Pair{A: a, B: b}, path, true
			}
		}
	}
	return Pair{}, nil, false
}

// OpenPairs counts the pairs of same-kind tiles that could be removed now.
func OpenPairs(g *Grid) int {
	cells := g.Occupied()
	n := 0
	for i, a := range cells {
		ka, _ := g.Get(a)
		for _, b := range cells[i+1:] {
			if kb, _ := g.Get(b); kb == ka && CanConnect(g, a, b) {
				n++
			}
		}
	}
	return n
}

// Hint finds a removable pair without changing the board and highlights it.
// An empty board yields no pair and no error.
func (e *Engine) Hint() HintResult {
	if e.grid.OccupiedCount() == 0 {
		e.hasHint = false
		return HintResult{}
	}
	pair, path, ok := FindAnyPair(e.grid)
	if !ok {
		e.hasHint = false
		return HintResult{Err: ErrNoHintAvailable}
	}
	e.highlight, e.hasHint = pair, true
	return HintResult{Found: true, Pair: pair, Path: path}
}

// Reshuffle moves the remaining tiles to random occupied positions and
// clears any selection.
func (e *Engine) Reshuffle() {
	e.dealer.Reshuffle(e.grid)
	e.ClearSelection()
}

// Redeal reshuffles until a move exists, within the dealer's attempt limit.
func (e *Engine) Redeal() bool {
	e.ClearSelection()
	return e.dealer.Redeal(e.grid)
}

// IsWon reports whether every tile has been removed.
func (e *Engine) IsWon() bool {
	return e.grid.OccupiedCount() == 0
}

// RemainingPairs returns the number of pairs still on the board.
func (e *Engine) RemainingPairs() int {
	return e.grid.OccupiedCount() / 2
}

// IsStuck reports whether tiles remain but no pair can be connected.
func (e *Engine) IsStuck() bool {
	if e.IsWon() {
		return false
	}
	_, _, ok := FindAnyPair(e.grid)
	return !ok
}
