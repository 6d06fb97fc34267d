package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/linksame/internal/config"
	"github.com/vovakirdan/linksame/internal/core"
	"github.com/vovakirdan/linksame/internal/registry"
	"github.com/vovakirdan/linksame/internal/storage"
)

// DefaultSaveName is used when a game is saved without an explicit name.
const DefaultSaveName = "quicksave"

// statusSeconds is how long the save status line stays visible.
const statusSeconds = 3

// GameModel runs one game: ticks, input, saving and the score on game over.
type GameModel struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	keyMapper  *KeyMapper
	saveName   string
	standalone bool // back quits instead of returning to a menu

	status      string
	statusTicks int

	quitting   bool
	backToMenu bool
	scoreSaved bool
}

// NewGameModel creates a model and starts a new game.
func NewGameModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) GameModel {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = core.DefaultConfig().TickRate
	}
	game.Reset(cfg)

	return GameModel{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		gameState:  game.State(),
		keyMapper:  NewKeyMapper(),
		saveName:   DefaultSaveName,
	}
}

// SetSaveName sets the name used when the player saves.
func (m *GameModel) SetSaveName(name string) {
	if name != "" {
		m.saveName = name
	}
}

// Resume replaces the new game with a saved one.
func (m *GameModel) Resume(doc []byte) error {
	s, ok := m.game.(registry.Saveable)
	if !ok {
		return fmt.Errorf("tui: %s cannot be resumed", m.game.ID())
	}
	if err := s.LoadDocument(doc); err != nil {
		return err
	}
	m.gameState = m.game.State()
	return nil
}

// Init starts the tick loop.
func (m GameModel) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages.
func (m GameModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m GameModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+p" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	switch {
	case isQuit:
		m.quitting = true
		return m, tea.Quit
	case action == core.ActionSave:
		m.save()
		return m, nil
	case action == core.ActionBack:
		if m.standalone {
			m.quitting = true
			return m, tea.Quit
		}
		if m.gameState.GameOver || m.gameState.Paused {
			m.backToMenu = true
		}
		return m, nil
	case action != core.ActionNone:
		m.inputFrame.Set(action)
	}
	return m, nil
}

// handleResize passes the new size to the game. Games that cannot adapt
// start over.
func (m GameModel) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if r, ok := m.game.(registry.Resizable); ok {
		r.Resize(msg.Width, msg.Height)
	} else if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m GameModel) handleTick() (tea.Model, tea.Cmd) {
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.scoreSaved = false
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	if m.gameState.Won && !m.scoreSaved {
		m.saveScore()
		m.scoreSaved = true
	}

	if m.statusTicks > 0 {
		m.statusTicks--
		if m.statusTicks == 0 {
			m.status = ""
		}
	}

	m.inputFrame.Clear()
	return m, tickCmd(m.config.TickRate)
}

// saveScore records the score of a finished game under its variant key.
// Games without a key, such as practice boards, are not ranked.
func (m *GameModel) saveScore() {
	if m.store == nil {
		return
	}
	keyed, ok := m.game.(registry.ScoreKeyed)
	if !ok || keyed.ScoreKey() == "" {
		return
	}
	//nolint:errcheck // Best-effort save, game continues regardless
	m.store.SaveScore(m.game.ID(), keyed.ScoreKey(), m.gameState.Score)
}

// save stores the game in progress under the model's save name.
func (m *GameModel) save() {
	s, ok := m.game.(registry.Saveable)
	switch {
	case !ok:
		m.setStatus("This game cannot be saved")
		return
	case m.store == nil:
		m.setStatus("Saving unavailable: no database")
		return
	case m.gameState.GameOver:
		m.setStatus("Game is over, nothing to save")
		return
	}

	doc, err := s.SaveDocument()
	if err == nil {
		_, err = m.store.SaveGame(m.game.ID(), m.saveName, doc)
	}
	if err != nil {
		m.setStatus("Save failed: " + err.Error())
		return
	}
	m.setStatus(fmt.Sprintf("Saved as %q", m.saveName))
}

func (m *GameModel) setStatus(s string) {
	m.status = s
	m.statusTicks = statusSeconds * m.config.TickRate
}

// saveScreenshot saves the current screen to a text file.
func (m *GameModel) saveScreenshot() {
	m.game.Render(m.screen)

	dir := filepath.Join(config.UserDir(), "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp))
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the game.
func (m GameModel) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)
	if m.status != "" {
		m.screen.DrawTextColor(0, m.screen.Height()-1, m.status, core.ColorBrightGreen)
	}
	return RenderScreen(m.screen)
}

// Game returns the running game.
func (m GameModel) Game() registry.Game {
	return m.game
}

// IsQuitting returns true if user requested to quit entirely.
func (m GameModel) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m GameModel) BackToMenu() bool {
	return m.backToMenu
}

// PlayOptions tune a standalone game.
type PlayOptions struct {
	SaveName string // name used by the save key
	Resume   []byte // saved game to continue, if any
}

// Run plays a single game in the terminal until the player quits.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, opts PlayOptions) error {
	model := NewGameModel(game, store, cfg)
	model.SetSaveName(opts.SaveName)
	if opts.Resume != nil {
		if err := model.Resume(opts.Resume); err != nil {
			return err
		}
	}
	return RunGame(model)
}

// RunGame runs a prepared model until the player quits or backs out.
func RunGame(model GameModel) error {
	model.standalone = true
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
