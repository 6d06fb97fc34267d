package linksame

import (
	"github.com/vovakirdan/linksame/internal/games/linksame/core"
)

// Snapshot captures the game state for determinism testing.
type Snapshot struct {
	Tick     uint64
	Mode     Mode
	Stage    int
	Gravity  core.Gravity
	Score    int
	Board    string
	Cursor   core.Coord
	Selected *core.Coord
	Pairs    int
	Phase    Phase
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Tick:   g.tick,
		Mode:   g.mode,
		Stage:  g.stage,
		Score:  g.Score(),
		Cursor: g.cursor,
		Phase:  g.Phase(),
	}
	if g.engine != nil {
		s.Gravity = g.engine.Gravity()
		s.Board = g.engine.Grid().String()
		s.Pairs = g.engine.RemainingPairs()
		if c, ok := g.engine.Selected(); ok {
			s.Selected = &c
		}
	}
	return s
}
