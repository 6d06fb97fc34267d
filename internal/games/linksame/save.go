package linksame

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/linksame/internal/config"
	"github.com/vovakirdan/linksame/internal/games/linksame/core"
)

// SaveVersion is the current save document format.
const SaveVersion = 1

// ErrSaveMismatch is returned when loading a save made by the other variant.
var ErrSaveMismatch = errors.New("linksame: save belongs to another variant")

// Counter keys stored in the board's counters.
const (
	counterScore      = "score"
	counterStageScore = "score_at_stage_start"
	counterTicks      = "elapsed_ticks"
	counterRemoved    = "removed"
	counterHints      = "hints"
	counterShuffles   = "shuffles"
)

// SaveDoc is the YAML document for a game in progress.
type SaveDoc struct {
	Version    int             `yaml:"version"`
	Game       string          `yaml:"game"`
	Size       string          `yaml:"size"`
	Style      string          `yaml:"style"`
	Stage      int             `yaml:"stage"`
	LastStage  int             `yaml:"last_stage"`
	Board      core.SavedState `yaml:"board"`
	StageStart []core.Kind     `yaml:"stage_start"`
}

// Doc builds the save document for the current game.
func (g *Game) Doc() SaveDoc {
	board := g.engine.Save()
	board.Counters = map[string]int{
		counterScore:      g.Score(),
		counterStageScore: 0,
		counterTicks:      int(g.tick),
		counterRemoved:    g.removed,
		counterHints:      g.hintsUsed,
		counterShuffles:   g.shuffles,
	}
	if g.score != nil && g.mode == ModeTimed {
		board.Counters[counterStageScore] = g.score.AtStageStart()
	}
	var start []core.Kind
	if g.stageStart != nil {
		start = append(start, g.stageStart.Cells...)
	}
	return SaveDoc{
		Version:    SaveVersion,
		Game:       g.ID(),
		Size:       g.opts.Size,
		Style:      g.opts.Style,
		Stage:      g.stage,
		LastStage:  g.lastStage,
		Board:      board,
		StageStart: start,
	}
}

// SaveDocument encodes the game in progress as YAML.
func (g *Game) SaveDocument() ([]byte, error) {
	if g.engine == nil || g.err != nil {
		return nil, fmt.Errorf("linksame: nothing to save")
	}
	return yaml.Marshal(g.Doc())
}

// ParseSaveDoc decodes and checks a save document.
func ParseSaveDoc(data []byte) (SaveDoc, error) {
	var doc SaveDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("%w: %v", core.ErrCorruptState, err)
	}
	if doc.Version != SaveVersion {
		return doc, fmt.Errorf("%w: unsupported version %d", core.ErrCorruptState, doc.Version)
	}
	if err := doc.Board.Validate(); err != nil {
		return doc, err
	}
	if len(doc.StageStart) != doc.Board.Width*doc.Board.Height {
		return doc, fmt.Errorf("%w: stage start has %d cells, board has %d",
			core.ErrCorruptState, len(doc.StageStart), doc.Board.Width*doc.Board.Height)
	}
	if doc.Stage < 0 || doc.LastStage < doc.Stage || doc.LastStage >= core.GravityCount {
		return doc, fmt.Errorf("%w: stage %d of %d", core.ErrCorruptState, doc.Stage, doc.LastStage)
	}
	return doc, nil
}

// LoadDocument replaces the current game with a saved one.
func (g *Game) LoadDocument(data []byte) error {
	doc, err := ParseSaveDoc(data)
	if err != nil {
		return err
	}
	if doc.Game != g.ID() {
		return fmt.Errorf("%w: %q", ErrSaveMismatch, doc.Game)
	}
	if g.dealer == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		g.dealer = core.NewDealerWithRand(g.rng)
	}

	engine, err := core.Restore(doc.Board, g.dealer)
	if err != nil {
		return err
	}

	g.opts.Size, g.opts.Style = doc.Size, doc.Style
	g.opts.LastStage = doc.LastStage
	if err := g.applyOptions(); err != nil {
		// The save outlived its config entry: keep the board's own size.
		g.size = config.SizeConfig{Width: doc.Board.Width, Height: doc.Board.Height}
		g.lastStage = doc.LastStage
	}
	if g.size.Width != doc.Board.Width || g.size.Height != doc.Board.Height {
		g.size = config.SizeConfig{Width: doc.Board.Width, Height: doc.Board.Height}
	}

	g.err = nil
	g.engine = engine
	g.stageStart = &core.Grid{W: doc.Board.Width, H: doc.Board.Height, Cells: append([]core.Kind(nil), doc.StageStart...)}
	g.stage = doc.Stage
	g.phase = PhasePlaying
	g.paused = false
	g.cursor = core.C(0, 0)
	g.clearMarks()
	g.message = ""

	counters := doc.Board.Counters
	g.tick = uint64(max(0, counters[counterTicks]))
	g.removed = counters[counterRemoved]
	g.hintsUsed = counters[counterHints]
	g.shuffles = counters[counterShuffles]
	g.score = NewScoreKeeper(g.cfg.Scoring, g.tickRate, 0)
	g.score.Restore(counters[counterScore], counters[counterStageScore])
	if engine.IsWon() {
		g.stageCleared()
	}
	g.checkScreenSize()
	return nil
}
