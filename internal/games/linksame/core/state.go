package core

import (
	"fmt"
	"math"
)

// SavedState is the persisted form of a board: dimensions, the flat cell
// array in row-major order ("" for empty), up to two selected coordinates
// and counters owned by the caller (score, elapsed time and so on).
//
// One selected coordinate is a pending first pick. Two are a highlighted
// hint pair.
type SavedState struct {
	Width     int            `yaml:"width" json:"width"`
	Height    int            `yaml:"height" json:"height"`
	Cells     []Kind         `yaml:"cells" json:"cells"`
	Selection []Coord        `yaml:"selection,omitempty" json:"selection,omitempty"`
	Gravity   Gravity        `yaml:"gravity,omitempty" json:"gravity,omitempty"`
	Counters  map[string]int `yaml:"counters,omitempty" json:"counters,omitempty"`
}

// Save captures the engine's board and selection.
func (e *Engine) Save() SavedState {
	cells := make([]Kind, len(e.grid.Cells))
	copy(cells, e.grid.Cells)
	st := SavedState{
		Width:   e.grid.W,
		Height:  e.grid.H,
		Cells:   cells,
		Gravity: e.gravity,
	}
	switch {
	case e.hasSel:
		st.Selection = []Coord{e.selected}
	case e.hasHint:
		st.Selection = []Coord{e.highlight.A, e.highlight.B}
	}
	return st
}

// Validate checks a saved state for consistency. Every failure wraps
// ErrCorruptState.
func (s SavedState) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrCorruptState, s.Width, s.Height)
	}
	if s.Width > math.MaxInt/s.Height {
		return fmt.Errorf("%w: dimensions %dx%d overflow", ErrCorruptState, s.Width, s.Height)
	}
	if len(s.Cells) != s.Width*s.Height {
		return fmt.Errorf("%w: %d cells for a %dx%d board", ErrCorruptState, len(s.Cells), s.Width, s.Height)
	}
	if s.Gravity < 0 || int(s.Gravity) >= GravityCount {
		return fmt.Errorf("%w: unknown gravity %d", ErrCorruptState, s.Gravity)
	}
	occupied := 0
	for _, k := range s.Cells {
		if k != Empty {
			occupied++
		}
	}
	if occupied%2 != 0 {
		return fmt.Errorf("%w: odd tile count %d", ErrCorruptState, occupied)
	}
	if len(s.Selection) > 2 {
		return fmt.Errorf("%w: %d selected cells", ErrCorruptState, len(s.Selection))
	}
	for _, c := range s.Selection {
		if c.X < 0 || c.X >= s.Width || c.Y < 0 || c.Y >= s.Height {
			return fmt.Errorf("%w: selection %s off the board", ErrCorruptState, c)
		}
		if s.Cells[c.Y*s.Width+c.X] == Empty {
			return fmt.Errorf("%w: selection %s is empty", ErrCorruptState, c)
		}
	}
	if len(s.Selection) == 2 && s.Selection[0] == s.Selection[1] {
		return fmt.Errorf("%w: duplicate selection %s", ErrCorruptState, s.Selection[0])
	}
	return nil
}

// Restore rebuilds an engine from a saved state. The dealer provides
// randomness for later reshuffles; nil means a zero-seeded dealer.
func Restore(s SavedState, dealer *Dealer) (*Engine, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	g := NewGrid(s.Width, s.Height)
	copy(g.Cells, s.Cells)
	e := NewEngine(g, dealer)
	e.gravity = s.Gravity
	switch len(s.Selection) {
	case 1:
		e.selected, e.hasSel = s.Selection[0], true
	case 2:
		e.highlight, e.hasHint = Pair{A: s.Selection[0], B: s.Selection[1]}, true
	}
	return e, nil
}
