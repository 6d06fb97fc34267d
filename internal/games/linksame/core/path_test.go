package core_test

import (
	"errors"
	"testing"

	"github.com/vovakirdan/linksame/internal/games/linksame/core"
)

// checkPath verifies the shape rules every returned path must follow.
func checkPath(t *testing.T, g *core.Grid, a, b core.Coord, p core.Path) {
	t.Helper()

	if len(p) < 2 {
		t.Fatalf("path %v too short", p)
	}
	if p[0] != a || p[len(p)-1] != b {
		t.Fatalf("path %v should run from %v to %v", p, a, b)
	}
	seen := make(map[core.Coord]bool)
	for i, c := range p {
		if seen[c] {
			t.Errorf("path %v revisits %v", p, c)
		}
		seen[c] = true
		if i > 0 && !p[i-1].Adjacent(c) {
			t.Errorf("path %v jumps from %v to %v", p, p[i-1], c)
		}
		if !g.InExtended(c) {
			t.Errorf("path %v leaves the extended board at %v", p, c)
		}
		if i > 0 && i < len(p)-1 && !g.IsEmpty(c) {
			t.Errorf("path %v crosses occupied cell %v", p, c)
		}
	}
	if p.Turns() > core.MaxTurns {
		t.Errorf("path %v has %d turns", p, p.Turns())
	}
}

func TestFindPathAdjacent(t *testing.T) {
	g := core.ParseGrid(
		"AA",
		"BB",
	)

	p, err := core.FindPath(g, core.C(0, 0), core.C(1, 0))
	if err != nil {
		t.Fatalf("FindPath failed: %v", err)
	}
	if len(p) != 2 || p.Turns() != 0 {
		t.Errorf("expected a two-cell straight path, got %v (%d turns)", p, p.Turns())
	}
}

func TestFindPathShapes(t *testing.T) {
	tests := []struct {
		name  string
		rows  []string
		a, b  core.Coord
		turns int
		cells int
	}{
		{
			name:  "straight line through gap",
			rows:  []string{"A..A", "BCCB"},
			a:     core.C(0, 0),
			b:     core.C(3, 0),
			turns: 0,
			cells: 4,
		},
		{
			name:  "one corner",
			rows:  []string{"A..", "XXA", "XXX"},
			a:     core.C(0, 0),
			b:     core.C(2, 1),
			turns: 1,
			cells: 4,
		},
		{
			name:  "two corners inside the board",
			rows:  []string{"ZZZZZ", "ZA.ZZ", "ZZ.ZZ", "ZZ.AZ", "ZZZZZ"},
			a:     core.C(1, 1),
			b:     core.C(3, 3),
			turns: 2,
			cells: 5,
		},
		{
			name:  "detour over the top border",
			rows:  []string{"ABA", "CBC"},
			a:     core.C(0, 0),
			b:     core.C(2, 0),
			turns: 2,
			cells: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := core.ParseGrid(tt.rows...)
			p, err := core.FindPath(g, tt.a, tt.b)
			if err != nil {
				t.Fatalf("FindPath failed: %v", err)
			}
			checkPath(t, g, tt.a, tt.b, p)
			if p.Turns() != tt.turns {
				t.Errorf("turns = %d, expected %d (path %v)", p.Turns(), tt.turns, p)
			}
			if len(p) != tt.cells {
				t.Errorf("path length = %d, expected %d (path %v)", len(p), tt.cells, p)
			}
		})
	}
}

func TestFindPathBorderDetourExact(t *testing.T) {
	g := core.ParseGrid(
		"ABA",
		"CBC",
	)

	p, err := core.FindPath(g, core.C(0, 0), core.C(2, 0))
	if err != nil {
		t.Fatalf("FindPath failed: %v", err)
	}
	expected := core.Path{core.C(0, 0), core.C(0, -1), core.C(1, -1), core.C(2, -1), core.C(2, 0)}
	if len(p) != len(expected) {
		t.Fatalf("path = %v, expected %v", p, expected)
	}
	for i := range expected {
		if p[i] != expected[i] {
			t.Fatalf("path = %v, expected %v", p, expected)
		}
	}
}

func TestFindPathNotFound(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		a, b core.Coord
	}{
		{
			name: "walled in",
			rows: []string{"XXXX", "XAYX", "XYAX", "XXXX"},
			a:    core.C(1, 1),
			b:    core.C(2, 2),
		},
		{
			name: "needs three turns",
			rows: []string{"ZZZZZZ", "ZA.ZZZ", "ZZ.ZZZ", "ZZ..ZZ", "ZZZAZZ", "ZZZZZZ"},
			a:    core.C(1, 1),
			b:    core.C(3, 4),
		},
		{
			name: "diagonal pair in a full 2x2",
			rows: []string{"AB", "BA"},
			a:    core.C(0, 0),
			b:    core.C(1, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := core.ParseGrid(tt.rows...)
			_, err := core.FindPath(g, tt.a, tt.b)
			if !errors.Is(err, core.ErrNoPathFound) {
				t.Errorf("expected ErrNoPathFound, got %v", err)
			}
		})
	}
}

func TestFindPathInvalidInput(t *testing.T) {
	g := core.ParseGrid(
		"AB.",
		"BA.",
	)

	tests := []struct {
		name string
		a, b core.Coord
	}{
		{"same cell", core.C(0, 0), core.C(0, 0)},
		{"empty endpoint", core.C(0, 0), core.C(2, 0)},
		{"off board", core.C(0, 0), core.C(-1, 0)},
		{"different kinds", core.C(0, 0), core.C(1, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := core.FindPath(g, tt.a, tt.b)
			if !errors.Is(err, core.ErrInvalidSelection) {
				t.Errorf("expected ErrInvalidSelection, got %v", err)
			}
		})
	}
}

func TestFindPathDeterministic(t *testing.T) {
	g := core.ParseGrid(
		"A..",
		"...",
		"..A",
	)

	first, err := core.FindPath(g, core.C(0, 0), core.C(2, 2))
	if err != nil {
		t.Fatalf("FindPath failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		p, _ := core.FindPath(g, core.C(0, 0), core.C(2, 2))
		if len(p) != len(first) {
			t.Fatalf("run %d returned %v, first run %v", i, p, first)
		}
		for j := range p {
			if p[j] != first[j] {
				t.Fatalf("run %d returned %v, first run %v", i, p, first)
			}
		}
	}
}

func TestFindPathSymmetricOnDealtBoards(t *testing.T) {
	pool := []core.Kind{"A", "B", "C", "D", "E"}

	for seed := int64(1); seed <= 20; seed++ {
		dealer := core.NewDealer(seed)
		g, err := dealer.Deal(6, 4, pool)
		if err != nil {
			t.Fatalf("Deal failed: %v", err)
		}
		// Thin the board so longer paths appear.
		for i, c := range g.Occupied() {
			if i%3 == 0 {
				g.Clear(c)
			}
		}

		cells := g.Occupied()
		for i, a := range cells {
			for _, b := range cells[i+1:] {
				ka, _ := g.Get(a)
				kb, _ := g.Get(b)
				if ka != kb {
					continue
				}
				pab, errAB := core.FindPath(g, a, b)
				pba, errBA := core.FindPath(g, b, a)
				if (errAB == nil) != (errBA == nil) {
					t.Fatalf("seed %d: asymmetric result for %v-%v: %v vs %v\n%s", seed, a, b, errAB, errBA, g)
				}
				if errAB == nil {
					checkPath(t, g, a, b, pab)
					checkPath(t, g, b, a, pba)
				}
			}
		}
	}
}

func TestPathCorners(t *testing.T) {
	p := core.Path{core.C(0, 0), core.C(0, -1), core.C(1, -1), core.C(2, -1), core.C(2, 0)}

	corners := p.Corners()
	expected := []core.Coord{core.C(0, 0), core.C(0, -1), core.C(2, -1), core.C(2, 0)}
	if len(corners) != len(expected) {
		t.Fatalf("Corners() = %v, expected %v", corners, expected)
	}
	for i := range expected {
		if corners[i] != expected[i] {
			t.Errorf("Corners()[%d] = %v, expected %v", i, corners[i], expected[i])
		}
	}
	if p.Turns() != 2 {
		t.Errorf("Turns() = %d, expected 2", p.Turns())
	}
	if r := p.Reverse(); r[0] != p[len(p)-1] || r[len(r)-1] != p[0] {
		t.Errorf("Reverse() = %v", r)
	}
}

func TestCanConnect(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		a, b core.Coord
		want bool
	}{
		{"neighbours", []string{"AA"}, core.C(0, 0), core.C(1, 0), true},
		{"over the top border", []string{"ABA"}, core.C(0, 0), core.C(2, 0), true},
		{"blocked diagonal", []string{"AB", "BA"}, core.C(0, 0), core.C(1, 1), false},
		{"different kinds", []string{"AB"}, core.C(0, 0), core.C(1, 0), false},
		{"empty cell", []string{"A.A"}, core.C(0, 0), core.C(1, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := core.ParseGrid(tt.rows...)
			if got := core.CanConnect(g, tt.a, tt.b); got != tt.want {
				t.Errorf("CanConnect(%v, %v) = %v, expected %v", tt.a, tt.b, got, tt.want)
			}
			if got := core.CanConnect(g, tt.b, tt.a); got != tt.want {
				t.Errorf("CanConnect(%v, %v) = %v, expected %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}
