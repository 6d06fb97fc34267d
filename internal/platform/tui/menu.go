package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/linksame/internal/config"
	"github.com/vovakirdan/linksame/internal/core"
	"github.com/vovakirdan/linksame/internal/games/linksame"
	"github.com/vovakirdan/linksame/internal/storage"
)

// Menu rows.
const (
	rowMode = iota
	rowSize
	rowStyle
	rowResume
	rowStart
	rowScores
	rowQuit
	rowCount
)

var modeChoices = []linksame.Mode{linksame.ModeTimed, linksame.ModePractice}

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuCursorStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	menuHelpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// MenuModel is the Bubble Tea model for the game setup menu.
type MenuModel struct {
	cfg    config.LinkSameConfig
	sizes  []string
	styles []string
	saves  []string

	mode  int
	size  int
	style int
	save  int

	cursor    int
	width     int
	height    int
	config    core.RuntimeConfig
	keyMapper *KeyMapper

	quitting       bool
	start          bool
	resume         bool
	openScoreboard bool
}

// NewMenuModel creates a menu preselecting opts. Saved games are listed
// from store when it is available.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig, lsCfg config.LinkSameConfig, opts linksame.Options) MenuModel {
	m := MenuModel{
		cfg:       lsCfg,
		sizes:     lsCfg.SizeNames(),
		styles:    lsCfg.StyleNames(),
		cursor:    rowStart,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
	}
	m.size = indexOf(m.sizes, opts.Size)
	m.style = indexOf(m.styles, opts.Style)

	if store != nil {
		if saves, err := store.ListSaves(); err == nil {
			for _, s := range saves {
				m.saves = append(m.saves, s.Name)
			}
		}
	}
	return m
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return 0
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
	}
	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		m.cursor = core.Wrap(m.cursor-1, rowCount)
	case MenuActionDown:
		m.cursor = core.Wrap(m.cursor+1, rowCount)
	case MenuActionLeft:
		m.cycle(-1)
	case MenuActionRight:
		m.cycle(1)
	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit
	case MenuActionSelect:
		switch m.cursor {
		case rowStart:
			m.start = true
			return m, tea.Quit
		case rowResume:
			if len(m.saves) > 0 {
				m.resume = true
				return m, tea.Quit
			}
		case rowScores:
			m.openScoreboard = true
			return m, tea.Quit
		case rowQuit:
			m.quitting = true
			return m, tea.Quit
		default:
			m.cycle(1)
		}
	}
	return m, nil
}

// cycle changes the option on the current row.
func (m *MenuModel) cycle(delta int) {
	switch m.cursor {
	case rowMode:
		m.mode = core.Wrap(m.mode+delta, len(modeChoices))
	case rowSize:
		m.size = core.Wrap(m.size+delta, len(m.sizes))
	case rowStyle:
		m.style = core.Wrap(m.style+delta, len(m.styles))
	case rowResume:
		m.save = core.Wrap(m.save+delta, len(m.saves))
	}
}

func (m MenuModel) rowLabel(row int) string {
	switch row {
	case rowMode:
		if modeChoices[m.mode] == linksame.ModePractice {
			return "Mode:  < Practice >"
		}
		return "Mode:  < Timed >"
	case rowSize:
		name := m.sizes[m.size]
		return fmt.Sprintf("Size:  < %s %s >", name, m.cfg.Sizes[name])
	case rowStyle:
		name := m.styles[m.style]
		return fmt.Sprintf("Tiles: < %s >", m.cfg.Styles[name].Title)
	case rowResume:
		if len(m.saves) == 0 {
			return "Continue: (no saved games)"
		}
		return fmt.Sprintf("Continue: < %s >", m.saves[m.save])
	case rowStart:
		return "Start game"
	case rowScores:
		return "High scores"
	case rowQuit:
		return "Quit"
	}
	return ""
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(menuTitleStyle.Render(centerText("L I N K   S A M E", m.width)))
	b.WriteString("\n\n")
	b.WriteString(centerText("Connect matching tiles with at most two turns", m.width))
	b.WriteString("\n\n")

	for row := range rowCount {
		line := "  " + m.rowLabel(row)
		if row == m.cursor {
			line = menuCursorStyle.Render("> " + m.rowLabel(row))
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
		if row == rowResume || row == rowStyle {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	controls := "Up/Down: Navigate  |  Left/Right: Change  |  Enter: Select  |  Tab: Scores  |  Q: Quit"
	b.WriteString(menuHelpStyle.Render(centerText(controls, m.width)))
	b.WriteString("\n")
	return b.String()
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// Options returns the board options chosen in the menu.
func (m MenuModel) Options() linksame.Options {
	return linksame.Options{
		Size:      m.sizes[m.size],
		Style:     m.styles[m.style],
		LastStage: -1,
	}
}

// GameID returns the registry ID of the chosen mode.
func (m MenuModel) GameID() string {
	if modeChoices[m.mode] == linksame.ModePractice {
		return linksame.IDPractice
	}
	return linksame.IDTimed
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// Result reports what the player picked.
func (m MenuModel) Result() MenuResult {
	r := MenuResult{Config: m.config}
	switch {
	case m.openScoreboard:
		r.WantsScoreboard = true
	case m.resume:
		r.ResumeName = m.saves[m.save]
	case m.start:
		r.GameID = m.GameID()
		r.Options = m.Options()
	default:
		r.Quit = true
	}
	return r
}

// Done reports whether the menu has finished.
func (m MenuModel) Done() bool {
	return m.quitting || m.start || m.resume || m.openScoreboard
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	GameID          string
	Options         linksame.Options
	ResumeName      string
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig, lsCfg config.LinkSameConfig, opts linksame.Options) (MenuResult, error) {
	p := tea.NewProgram(NewMenuModel(store, cfg, lsCfg, opts), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}
	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}
	return m.Result(), nil
}
