package core_test

import (
	"testing"

	"github.com/vovakirdan/linksame/internal/games/linksame/core"
)

func TestGravityRules(t *testing.T) {
	tests := []struct {
		name     string
		gravity  core.Gravity
		input    []string
		expected []string
	}{
		{
			name:     "none",
			gravity:  core.GravityNone,
			input:    []string{"A.B", ".C.", "..."},
			expected: []string{"A.B", ".C.", "..."},
		},
		{
			name:     "down",
			gravity:  core.GravityDown,
			input:    []string{"A.B", ".C.", "..."},
			expected: []string{"...", "...", "ACB"},
		},
		{
			name:     "right",
			gravity:  core.GravityRight,
			input:    []string{"A.B", ".C.", "D.."},
			expected: []string{".AB", "..C", "..D"},
		},
		{
			name:     "toward middle row",
			gravity:  core.GravityTowardHorizontalCenter,
			input:    []string{"A", ".", ".", "B"},
			expected: []string{".", "A", "B", "."},
		},
		{
			name:     "toward middle column",
			gravity:  core.GravityTowardVerticalCenter,
			input:    []string{"A..B"},
			expected: []string{".AB."},
		},
		{
			name:     "away from middle row",
			gravity:  core.GravityAwayFromHorizontalCenter,
			input:    []string{".", "A", "B", "."},
			expected: []string{"A", ".", ".", "B"},
		},
		{
			name:     "away from middle column",
			gravity:  core.GravityAwayFromVerticalCenter,
			input:    []string{".AB."},
			expected: []string{"A..B"},
		},
		{
			name:     "split columns",
			gravity:  core.GravitySplitColumns,
			input:    []string{"..", "AB", ".."},
			expected: []string{".B", "..", "A."},
		},
		{
			name:     "split rows",
			gravity:  core.GravitySplitRows,
			input:    []string{".A.", ".B."},
			expected: []string{"..A", "B.."},
		},
		{
			name:     "down keeps order in a column",
			gravity:  core.GravityDown,
			input:    []string{"A", ".", "B", "."},
			expected: []string{".", ".", "A", "B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := core.ParseGrid(tt.input...)
			before := g.KindCounts()

			moves := tt.gravity.Apply(g)

			want := core.ParseGrid(tt.expected...)
			if !g.Equal(want) {
				t.Errorf("got:\n%s\nexpected:\n%s", g, want)
			}
			after := g.KindCounts()
			for k, n := range before {
				if after[k] != n {
					t.Errorf("kind %q count changed %d -> %d", k, n, after[k])
				}
			}
			if tt.gravity == core.GravityNone && len(moves) != 0 {
				t.Errorf("no gravity should not move tiles, got %v", moves)
			}
		})
	}
}

func TestGravityMovesReplay(t *testing.T) {
	g := core.ParseGrid(
		"AB.C",
		"....",
		"C..B",
		".A..",
	)
	start := g.Clone()

	moves := core.GravityDown.Apply(g)

	// Replaying the reported moves on the original board must give the result.
	for _, m := range moves {
		k, ok := start.Get(m.From)
		if !ok {
			t.Fatalf("move %v starts on an empty cell", m)
		}
		start.Clear(m.From)
		start.Set(m.To, k)
	}
	if !start.Equal(g) {
		t.Errorf("replayed moves give:\n%s\nexpected:\n%s", start, g)
	}
}

func TestGravityForStage(t *testing.T) {
	if core.GravityForStage(0) != core.GravityNone {
		t.Error("stage 0 has no gravity")
	}
	if core.GravityForStage(8) != core.GravitySplitRows {
		t.Error("stage 8 splits rows")
	}
	if core.GravityForStage(10) != core.GravityDown {
		t.Error("stages wrap after the last rule")
	}
	if core.GravityForStage(-3) != core.GravityNone {
		t.Error("negative stages have no gravity")
	}
}
