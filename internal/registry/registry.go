// Package registry keeps the set of playable game variants. Variants register
// themselves in init() functions so front ends can list and create them by ID
// without importing game packages directly.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/linksame/internal/core"
)

// Game is what every front end drives. Implementations hold pure logic:
// the platform owns timing, key mapping and terminal output.
type Game interface {
	// ID returns the variant identifier used by the CLI and score storage.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset starts a new game with the given screen size and seed.
	Reset(cfg core.RuntimeConfig)

	// Step advances the game by one fixed tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current state into a pre-cleared screen.
	Render(dst *core.Screen)

	// State returns the current score and status.
	State() core.GameState
}

// Saveable is implemented by games that can persist a game in progress.
type Saveable interface {
	SaveDocument() ([]byte, error)
	LoadDocument(data []byte) error
}

// Resizable is implemented by games that can adapt to a new screen size
// without starting over.
type Resizable interface {
	Resize(width, height int)
}

// ScoreKeyed is implemented by games whose high scores are grouped by
// settings, for example board size and stage count.
type ScoreKeyed interface {
	ScoreKey() string
}

// GameInfo describes a registered variant.
type GameInfo struct {
	ID          string
	Title       string
	Description string
}

// Factory creates a fresh, not yet Reset, instance of a variant.
type Factory func() Game

type entry struct {
	info    GameInfo
	factory Factory
}

var (
	entries = make(map[string]entry)
	mu      sync.RWMutex
)

// Register adds a variant. Title defaults to the one reported by the game.
// Panics if the ID is taken.
func Register(info GameInfo, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := entries[info.ID]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", info.ID))
	}
	if info.Title == "" {
		info.Title = f().Title()
	}
	entries[info.ID] = entry{info: info, factory: f}
}

// List returns all registered variants sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.info)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Create instantiates a variant by ID.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := entries[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return e.factory(), nil
}

// Info returns the description of a variant.
func Info(id string) (GameInfo, bool) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := entries[id]
	return e.info, ok
}

// Exists reports whether a variant with the given ID is registered.
func Exists(id string) bool {
	_, ok := Info(id)
	return ok
}
