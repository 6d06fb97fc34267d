package core_test

import (
	"errors"
	"testing"

	"github.com/vovakirdan/linksame/internal/games/linksame/core"
)

func TestTapRemovesAdjacentPair(t *testing.T) {
	e := core.NewEngine(core.ParseGrid(
		"AA",
		"BB",
	), nil)

	if e.RemainingPairs() != 2 {
		t.Fatalf("RemainingPairs() = %d, expected 2", e.RemainingPairs())
	}

	res := e.Tap(core.C(0, 0))
	if res.Kind != core.TapSelected || res.Cell != core.C(0, 0) {
		t.Fatalf("first tap = %+v, expected selected (0,0)", res)
	}

	res = e.Tap(core.C(1, 0))
	if res.Kind != core.TapRemoved {
		t.Fatalf("second tap = %v, expected removed", res.Kind)
	}
	if res.Path.Turns() != 0 || len(res.Path) != 2 {
		t.Errorf("expected a 0-turn two-cell path, got %v", res.Path)
	}
	if e.RemainingPairs() != 1 {
		t.Errorf("RemainingPairs() = %d, expected 1", e.RemainingPairs())
	}
	if _, ok := e.KindAt(core.C(0, 0)); ok {
		t.Error("(0,0) should be empty after removal")
	}
	if _, ok := e.KindAt(core.C(1, 0)); ok {
		t.Error("(1,0) should be empty after removal")
	}
	if _, ok := e.Selected(); ok {
		t.Error("selection should be cleared after removal")
	}
	if res.Won {
		t.Error("board is not empty yet")
	}
}

func TestTapSequenceWins(t *testing.T) {
	e := core.NewEngine(core.ParseGrid(
		"AA",
		"BB",
	), nil)

	e.Tap(core.C(1, 1))
	e.Tap(core.C(0, 1))
	e.Tap(core.C(0, 0))
	res := e.Tap(core.C(1, 0))

	if res.Kind != core.TapRemoved || !res.Won {
		t.Fatalf("last tap = %+v, expected a winning removal", res)
	}
	if !e.IsWon() || e.RemainingPairs() != 0 {
		t.Error("engine should report the board as won")
	}
	if e.IsStuck() {
		t.Error("a won board is not stuck")
	}
}

func TestTapStateMachine(t *testing.T) {
	t.Run("tap same cell deselects", func(t *testing.T) {
		e := core.NewEngine(core.ParseGrid("AB", "BA"), nil)
		e.Tap(core.C(0, 0))
		res := e.Tap(core.C(0, 0))
		if res.Kind != core.TapNone {
			t.Errorf("expected none, got %v", res.Kind)
		}
		if _, ok := e.Selected(); ok {
			t.Error("selection should be cleared")
		}
	})

	t.Run("different kind replaces selection", func(t *testing.T) {
		e := core.NewEngine(core.ParseGrid("AB", "BA"), nil)
		e.Tap(core.C(0, 0))
		res := e.Tap(core.C(1, 0))
		if res.Kind != core.TapSelected || res.Cell != core.C(1, 0) {
			t.Errorf("expected selected (1,0), got %+v", res)
		}
		if c, ok := e.Selected(); !ok || c != core.C(1, 0) {
			t.Errorf("Selected() = %v, %v", c, ok)
		}
	})

	t.Run("empty cell while selected is ignored", func(t *testing.T) {
		e := core.NewEngine(core.ParseGrid("A.", ".A"), nil)
		e.Tap(core.C(0, 0))
		res := e.Tap(core.C(1, 0))
		if res.Kind != core.TapNone || !errors.Is(res.Err, core.ErrInvalidSelection) {
			t.Errorf("expected ignored tap with ErrInvalidSelection, got %+v", res)
		}
		if c, ok := e.Selected(); !ok || c != core.C(0, 0) {
			t.Errorf("prior selection should be kept, got %v, %v", c, ok)
		}
	})

	t.Run("empty cell while idle", func(t *testing.T) {
		e := core.NewEngine(core.ParseGrid("A.", ".A"), nil)
		res := e.Tap(core.C(1, 0))
		if res.Kind != core.TapNone || res.Err != nil {
			t.Errorf("expected silent none, got %+v", res)
		}
	})

	t.Run("out of bounds", func(t *testing.T) {
		e := core.NewEngine(core.ParseGrid("AA"), nil)
		e.Tap(core.C(0, 0))
		res := e.Tap(core.C(7, 7))
		if res.Kind != core.TapNone {
			t.Errorf("expected none, got %v", res.Kind)
		}
		if _, ok := e.Selected(); !ok {
			t.Error("selection should survive an off-board tap")
		}
	})

	t.Run("unconnectable pair is rejected", func(t *testing.T) {
		e := core.NewEngine(core.ParseGrid("AB", "BA"), nil)
		e.Tap(core.C(0, 0))
		res := e.Tap(core.C(1, 1))
		if res.Kind != core.TapRejected || !errors.Is(res.Err, core.ErrNoPathFound) {
			t.Errorf("expected rejection with ErrNoPathFound, got %+v", res)
		}
		if e.RemainingPairs() != 2 {
			t.Error("rejection must not change the board")
		}
		if _, ok := e.Selected(); ok {
			t.Error("rejection should clear the selection")
		}
	})
}

func TestTapAppliesGravity(t *testing.T) {
	e := core.NewEngine(core.ParseGrid(
		"A.",
		"BB",
		"A.",
	), nil)
	e.SetGravity(core.GravityDown)

	e.Tap(core.C(0, 1))
	res := e.Tap(core.C(1, 1))
	if res.Kind != core.TapRemoved {
		t.Fatalf("expected removal, got %v", res.Kind)
	}
	if len(res.Moves) != 1 || res.Moves[0] != (core.Move{From: core.C(0, 0), To: core.C(0, 1)}) {
		t.Errorf("Moves = %v", res.Moves)
	}
	expected := core.ParseGrid(
		"..",
		"A.",
		"A.",
	)
	if !e.Grid().Equal(expected) {
		t.Errorf("grid after gravity:\n%s\nexpected:\n%s", e.Grid(), expected)
	}
}

func TestHint(t *testing.T) {
	t.Run("empty board", func(t *testing.T) {
		e := core.NewEngine(core.NewGrid(4, 4), nil)
		res := e.Hint()
		if res.Found || res.Err != nil {
			t.Errorf("expected no pair and no error, got %+v", res)
		}
	})

	t.Run("stuck board", func(t *testing.T) {
		e := core.NewEngine(core.ParseGrid("AB", "BA"), nil)
		res := e.Hint()
		if res.Found || !errors.Is(res.Err, core.ErrNoHintAvailable) {
			t.Errorf("expected ErrNoHintAvailable, got %+v", res)
		}
		if !e.IsStuck() {
			t.Error("IsStuck() should be true")
		}
	})

	t.Run("row-major first pick", func(t *testing.T) {
		e := core.NewEngine(core.ParseGrid("ABBA"), nil)
		before := e.Grid()

		res := e.Hint()
		if !res.Found {
			t.Fatalf("expected a pair, got %+v", res)
		}
		if res.Pair != (core.Pair{A: core.C(0, 0), B: core.C(3, 0)}) {
			t.Errorf("Pair = %+v, expected the two A tiles", res.Pair)
		}
		if res.Path[0] != res.Pair.A || res.Path[len(res.Path)-1] != res.Pair.B || res.Path.Turns() > 2 {
			t.Errorf("bad hint path %v", res.Path)
		}
		if !e.Grid().Equal(before) {
			t.Error("Hint must not change the board")
		}
		if hl, ok := e.Highlight(); !ok || hl != res.Pair {
			t.Errorf("Highlight() = %v, %v", hl, ok)
		}

		e.Tap(core.C(1, 0))
		if _, ok := e.Highlight(); ok {
			t.Error("a tap should clear the hint highlight")
		}
	})
}

func TestReshufflePreservesMultiset(t *testing.T) {
	pool := []core.Kind{"A", "B", "C", "D", "E", "F"}
	for seed := int64(1); seed <= 10; seed++ {
		e, err := core.NewGame(8, 6, pool, seed)
		if err != nil {
			t.Fatalf("NewGame failed: %v", err)
		}
		for i := 0; i < 6; i++ {
			if h := e.Hint(); h.Found {
				e.Tap(h.Pair.A)
				e.Tap(h.Pair.B)
			}
		}

		before := e.Grid()
		e.Tap(before.Occupied()[0])
		e.Reshuffle()
		after := e.Grid()

		if _, ok := e.Selected(); ok {
			t.Error("Reshuffle should clear the selection")
		}
		if after.OccupiedCount()%2 != 0 {
			t.Errorf("seed %d: odd occupied count %d", seed, after.OccupiedCount())
		}
		bc, ac := before.KindCounts(), after.KindCounts()
		if len(bc) != len(ac) {
			t.Fatalf("seed %d: kinds changed: %v -> %v", seed, bc, ac)
		}
		for k, n := range bc {
			if ac[k] != n {
				t.Errorf("seed %d: kind %q count %d -> %d", seed, k, n, ac[k])
			}
		}
		for i := range before.Cells {
			if (before.Cells[i] == core.Empty) != (after.Cells[i] == core.Empty) {
				t.Errorf("seed %d: occupancy of cell %d changed", seed, i)
			}
		}
	}
}

func TestNewGameRejectsOddBoards(t *testing.T) {
	_, err := core.NewGame(3, 3, []core.Kind{"A"}, 1)
	if !errors.Is(err, core.ErrInvalidDimensions) {
		t.Errorf("expected ErrInvalidDimensions, got %v", err)
	}
}

func TestOpenPairs(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		want int
	}{
		{"two adjacent pairs", []string{"AA", "BB"}, 2},
		{"pair over the border", []string{"ABA", "CDC"}, 2},
		{"stuck", []string{"AB", "BA"}, 0},
		{"empty board", []string{"..", ".."}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := core.OpenPairs(core.ParseGrid(tt.rows...)); got != tt.want {
				t.Errorf("OpenPairs() = %d, expected %d", got, tt.want)
			}
		})
	}
}
