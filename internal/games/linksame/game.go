// Package linksame provides the LinkSame tile-matching game for the platform.
// It wraps the board engine with a cursor, stages with gravity, timed-mode
// scoring and save/restore.
package linksame

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"

	"github.com/vovakirdan/linksame/internal/config"
	platformcore "github.com/vovakirdan/linksame/internal/core"
	"github.com/vovakirdan/linksame/internal/games/linksame/core"
	"github.com/vovakirdan/linksame/internal/registry"
)

// Mode selects timed or practice play.
type Mode string

const (
	ModeTimed    Mode = "timed"
	ModePractice Mode = "practice"
)

// Variant IDs.
const (
	IDTimed    = "linksame"
	IDPractice = "linksame_practice"
)

// Phase is where the game is in its stage cycle.
type Phase string

const (
	PhasePlaying      Phase = "playing"
	PhaseStageCleared Phase = "stage_cleared"
	PhaseWon          Phase = "won"
	PhaseTooSmall     Phase = "too_small"
)

// stageClearSeconds is how long the "stage cleared" banner stays up.
const stageClearSeconds = 2

// Options choose the board for new games.
type Options struct {
	Size       string // key into config sizes
	Style      string // key into config styles
	StartStage int
	LastStage  int // -1 uses the configured last stage
}

var (
	defaultsMu     sync.RWMutex
	defaultConfig  = config.DefaultLinkSameConfig()
	defaultOptions = Options{Size: string(config.SizeNormal), Style: "letters", LastStage: -1}
)

// SetConfig replaces the configuration used by newly created games.
func SetConfig(cfg config.LinkSameConfig) {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	defaultConfig = cfg
}

// SetOptions replaces the options used by newly created games.
func SetOptions(o Options) {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	defaultOptions = o
}

// DefaultOptions returns the options new games start with.
func DefaultOptions() Options {
	defaultsMu.RLock()
	defer defaultsMu.RUnlock()
	return defaultOptions
}

func currentDefaults() (config.LinkSameConfig, Options) {
	defaultsMu.RLock()
	defer defaultsMu.RUnlock()
	return defaultConfig, defaultOptions
}

// Game implements registry.Game for LinkSame.
type Game struct {
	mode Mode
	cfg  config.LinkSameConfig
	opts Options

	size      config.SizeConfig
	style     config.StyleConfig
	glyphs    map[core.Kind]int // kind -> index within the style, for colours
	lastStage int

	rng        *rand.Rand
	dealer     *core.Dealer
	engine     *core.Engine
	stageStart *core.Grid
	score      *ScoreKeeper

	tick     uint64
	tickRate int
	stage    int
	phase    Phase
	paused   bool
	cursor   core.Coord

	// transient marks
	path       core.Path
	pathTicks  int
	hintTicks  int
	clearTicks int
	message    string
	msgTicks   int

	// counters
	removed      int
	hintsUsed    int
	shuffles     int
	autoShuffles int

	screenW  int
	screenH  int
	tooSmall bool
	err      error
}

// New creates a timed game with the package defaults.
func New() *Game {
	return newGame(ModeTimed)
}

// NewPractice creates an untimed game with no scoring.
func NewPractice() *Game {
	return newGame(ModePractice)
}

func newGame(mode Mode) *Game {
	cfg, opts := currentDefaults()
	return &Game{mode: mode, cfg: cfg, opts: opts, tickRate: 30}
}

func init() {
	registry.Register(registry.GameInfo{
		ID:          IDTimed,
		Title:       "LinkSame",
		Description: "Clear the board pair by pair; speed earns bonus points",
	}, func() registry.Game { return New() })
	registry.Register(registry.GameInfo{
		ID:          IDPractice,
		Title:       "LinkSame (Practice)",
		Description: "No clock, no score",
	}, func() registry.Game { return NewPractice() })
}

// Configure sets the board options for this instance. It takes effect on
// the next Reset.
func (g *Game) Configure(o Options) {
	g.opts = o
}

// UseConfig sets the configuration for this instance.
func (g *Game) UseConfig(cfg config.LinkSameConfig) {
	g.cfg = cfg
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModePractice {
		return IDPractice
	}
	return IDTimed
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModePractice {
		return "LinkSame (Practice)"
	}
	return "LinkSame"
}

// Mode returns the play mode.
func (g *Game) Mode() Mode {
	return g.mode
}

// ScoreKey groups high scores by board size and number of stages.
// Practice games are not ranked and return "".
func (g *Game) ScoreKey() string {
	if g.mode == ModePractice {
		return ""
	}
	return fmt.Sprintf("%s/%d", g.opts.Size, g.lastStage+1)
}

// Err returns the error from the last Reset or Load, if the board could not
// be built.
func (g *Game) Err() error {
	return g.err
}

// Reset starts a new game from the first stage.
func (g *Game) Reset(cfg platformcore.RuntimeConfig) {
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.dealer = core.NewDealerWithRand(g.rng)
	g.tick = 0
	if cfg.TickRate > 0 {
		g.tickRate = cfg.TickRate
	}
	g.screenW = cfg.ScreenW
	g.screenH = cfg.ScreenH
	g.paused = false
	g.removed, g.hintsUsed, g.shuffles, g.autoShuffles = 0, 0, 0, 0
	g.score = NewScoreKeeper(g.cfg.Scoring, g.tickRate, 0)
	g.err = g.applyOptions()
	if g.err != nil {
		g.engine = core.NewEngine(core.NewGrid(0, 0), g.dealer)
		g.phase = PhaseWon
		return
	}
	g.stage = g.opts.StartStage
	if g.stage < 0 || g.stage > g.lastStage {
		g.stage = 0
	}
	if err := g.dealStage(); err != nil {
		g.err = err
		g.phase = PhaseWon
	}
	g.checkScreenSize()
}

// applyOptions resolves size, style and stage limits from the config.
func (g *Game) applyOptions() error {
	g.dealer.MaxRedeals = g.cfg.Dealer.MaxRedeals
	size, err := g.cfg.Size(g.opts.Size)
	if err != nil {
		return err
	}
	style, err := g.cfg.Style(g.opts.Style)
	if err != nil {
		return err
	}
	g.size, g.style = size, style
	g.glyphs = make(map[core.Kind]int, style.Kinds())
	for i, s := range append(append([]string{}, style.Basic...), style.Additional...) {
		g.glyphs[core.Kind(s)] = i
	}
	g.lastStage = g.cfg.Stages.Last
	if g.opts.LastStage >= 0 && g.opts.LastStage < core.GravityCount {
		g.lastStage = g.opts.LastStage
	}
	return nil
}

// dealStage deals a fresh board for the current stage.
func (g *Game) dealStage() error {
	deck, err := core.BuildDeck(g.size.Width, g.size.Height, kinds(g.style.Basic), kinds(g.style.Additional))
	if err != nil {
		return err
	}
	grid, err := g.dealer.DealDeck(g.size.Width, g.size.Height, deck)
	if err != nil {
		return err
	}
	g.startStage(grid)
	g.score.StartStage()
	return nil
}

// startStage installs grid as the current stage's board and remembers its
// layout for restarts.
func (g *Game) startStage(grid *core.Grid) {
	g.engine = core.NewEngine(grid, g.dealer)
	g.engine.SetGravity(core.GravityForStage(g.stage))
	if g.engine.IsStuck() {
		g.engine.Redeal()
	}
	g.stageStart = g.engine.Grid()
	g.phase = PhasePlaying
	g.cursor = core.C(0, 0)
	g.clearMarks()
}

func (g *Game) clearMarks() {
	g.path = nil
	g.pathTicks = 0
	g.hintTicks = 0
	g.clearTicks = 0
}

func kinds(ss []string) []core.Kind {
	out := make([]core.Kind, len(ss))
	for i, s := range ss {
		out[i] = core.Kind(s)
	}
	return out
}

// Resize adapts to a new screen size, keeping the game in progress.
func (g *Game) Resize(width, height int) {
	g.screenW, g.screenH = width, height
	g.checkScreenSize()
}

// checkScreenSize checks if the screen can hold the board and HUD.
func (g *Game) checkScreenSize() {
	minW, minH := boardScreenSize(g.size.Width, g.size.Height)
	minH += hudHeight + footerHeight
	g.tooSmall = g.screenW < minW || g.screenH < minH
}

// Step advances the game by one tick.
func (g *Game) Step(in platformcore.InputFrame) platformcore.StepResult {
	if g.err != nil || g.tooSmall {
		return platformcore.StepResult{State: g.State()}
	}
	if in.Has(platformcore.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return platformcore.StepResult{State: g.State()}
	}

	g.tick++
	g.advanceTimers()

	switch g.phase {
	case PhaseStageCleared:
		if in.Has(platformcore.ActionConfirm) {
			g.nextStage()
		}
		return platformcore.StepResult{State: g.State()}
	case PhaseWon:
		return platformcore.StepResult{State: g.State()}
	}

	switch {
	case in.Has(platformcore.ActionUp):
		g.MoveCursor(0, -1)
	case in.Has(platformcore.ActionDown):
		g.MoveCursor(0, 1)
	case in.Has(platformcore.ActionLeft):
		g.MoveCursor(-1, 0)
	case in.Has(platformcore.ActionRight):
		g.MoveCursor(1, 0)
	}

	switch {
	case in.Has(platformcore.ActionConfirm):
		g.Tap(g.cursor)
	case in.Has(platformcore.ActionHint):
		g.Hint()
	case in.Has(platformcore.ActionShuffle):
		g.Shuffle()
	case in.Has(platformcore.ActionRestart):
		g.RestartStage()
	}

	return platformcore.StepResult{State: g.State()}
}

// advanceTimers runs the per-tick bookkeeping: idle penalty, fading marks
// and the stage-cleared banner.
func (g *Game) advanceTimers() {
	if g.phase == PhasePlaying && g.mode == ModeTimed {
		if g.score.Tick(g.tick) {
			g.flash("Too slow! -%d", g.cfg.Scoring.IdlePenalty)
		}
	}
	if g.pathTicks > 0 {
		g.pathTicks--
		if g.pathTicks == 0 {
			g.path = nil
		}
	}
	if g.hintTicks > 0 {
		g.hintTicks--
		if g.hintTicks == 0 {
			g.engine.ClearHighlight()
		}
	}
	if g.msgTicks > 0 {
		g.msgTicks--
		if g.msgTicks == 0 {
			g.message = ""
		}
	}
	if g.phase == PhaseStageCleared {
		g.clearTicks++
		if g.clearTicks >= stageClearSeconds*g.tickRate {
			g.nextStage()
		}
	}
}

func (g *Game) flash(format string, args ...any) {
	g.message = fmt.Sprintf(format, args...)
	g.msgTicks = 2 * g.tickRate
}

// MoveCursor moves the cursor, wrapping around the board edges.
func (g *Game) MoveCursor(dx, dy int) {
	g.cursor.X = platformcore.Wrap(g.cursor.X+dx, g.size.Width)
	g.cursor.Y = platformcore.Wrap(g.cursor.Y+dy, g.size.Height)
}

// Cursor returns the cursor position.
func (g *Game) Cursor() core.Coord {
	return g.cursor
}

// Tap taps a cell. A removal scores, may clear the stage, and reshuffles
// the board automatically when no move is left.
func (g *Game) Tap(c core.Coord) core.TapResult {
	if g.phase == PhaseStageCleared {
		g.nextStage()
		return core.TapResult{Kind: core.TapNone}
	}
	if g.phase != PhasePlaying {
		return core.TapResult{Kind: core.TapNone}
	}
	g.hintTicks = 0

	res := g.engine.Tap(c)
	switch res.Kind {
	case core.TapRemoved:
		g.removed++
		g.path = res.Path
		g.pathTicks = g.cfg.Display.PathTicks
		if g.mode == ModeTimed {
			if pts := g.score.LegalMove(g.tick); pts > g.cfg.Scoring.MovePoints {
				g.flash("Quick! +%d", pts)
			}
		}
		if res.Won {
			g.stageCleared()
			break
		}
		if g.engine.IsStuck() {
			g.autoShuffles++
			g.engine.Redeal()
			g.flash("No moves left, reshuffled")
		}
	case core.TapRejected:
		g.flash("Can't connect those")
	}
	return res
}

// Hint highlights a removable pair. When none exists the board is
// reshuffled instead, free of charge.
func (g *Game) Hint() core.HintResult {
	if g.phase != PhasePlaying {
		return core.HintResult{}
	}
	res := g.engine.Hint()
	switch {
	case res.Found:
		g.hintsUsed++
		g.hintTicks = g.cfg.Display.HintTicks
		if g.mode == ModeTimed {
			g.score.Hint(g.tick)
		}
	case errors.Is(res.Err, core.ErrNoHintAvailable):
		g.autoShuffles++
		g.engine.Redeal()
		g.flash("No moves left, reshuffled")
	}
	return res
}

// Shuffle rearranges the remaining tiles at the player's request.
func (g *Game) Shuffle() {
	if g.phase != PhasePlaying {
		return
	}
	g.shuffles++
	g.engine.Redeal()
	g.clearMarks()
	if g.mode == ModeTimed {
		g.score.Shuffle(g.tick)
	}
}

// RestartStage deals the current stage's starting layout again and returns
// the score to what it was when the stage began.
func (g *Game) RestartStage() {
	if g.phase != PhasePlaying || g.stageStart == nil {
		return
	}
	g.startStage(g.stageStart.Clone())
	g.score.RestartStage()
}

func (g *Game) stageCleared() {
	if g.stage >= g.lastStage {
		g.phase = PhaseWon
		return
	}
	g.phase = PhaseStageCleared
	g.clearTicks = 0
}

func (g *Game) nextStage() {
	g.stage++
	if err := g.dealStage(); err != nil {
		g.err = err
		g.phase = PhaseWon
	}
}

// Stage returns the current stage number, starting at 0.
func (g *Game) Stage() int {
	return g.stage
}

// LastStage returns the number of the final stage.
func (g *Game) LastStage() int {
	return g.lastStage
}

// Phase returns the current phase.
func (g *Game) Phase() Phase {
	if g.tooSmall {
		return PhaseTooSmall
	}
	return g.phase
}

// Engine exposes the board engine for read-only queries.
func (g *Game) Engine() *core.Engine {
	return g.engine
}

// Score returns the current score; always zero in practice mode.
func (g *Game) Score() int {
	if g.mode == ModePractice || g.score == nil {
		return 0
	}
	return g.score.Score()
}

// State returns the current game state.
func (g *Game) State() platformcore.GameState {
	return platformcore.GameState{
		Score:    g.Score(),
		GameOver: g.phase == PhaseWon,
		Won:      g.phase == PhaseWon && g.err == nil,
		Paused:   g.paused || g.tooSmall || g.phase == PhaseStageCleared,
	}
}
