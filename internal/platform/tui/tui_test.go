package tui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/linksame/internal/config"
	"github.com/vovakirdan/linksame/internal/core"
	"github.com/vovakirdan/linksame/internal/games/linksame"
	"github.com/vovakirdan/linksame/internal/storage"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 120, ScreenH: 40, TickRate: 30, Seed: 42}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()
	tests := []struct {
		name   string
		msg    tea.KeyMsg
		action core.Action
		quit   bool
	}{
		{"up", tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp, false},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm, false},
		{"space", tea.KeyMsg{Type: tea.KeySpace}, core.ActionConfirm, false},
		{"hint", runeKey("h"), core.ActionHint, false},
		{"help hint", runeKey("?"), core.ActionHint, false},
		{"shuffle", runeKey("x"), core.ActionShuffle, false},
		{"save", runeKey("s"), core.ActionSave, false},
		{"restart", runeKey("r"), core.ActionRestart, false},
		{"quit", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, true},
		{"unbound", runeKey("z"), core.ActionNone, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, quit := km.MapKey(tt.msg)
			if action != tt.action || quit != tt.quit {
				t.Errorf("MapKey(%q) = %v, %v; expected %v, %v", tt.msg.String(), action, quit, tt.action, tt.quit)
			}
		})
	}
}

// pressAll feeds keys to a menu and returns the final model.
func pressAll(m MenuModel, keys ...tea.KeyMsg) MenuModel {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(MenuModel)
	}
	return m
}

var (
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
)

func TestMenuSelection(t *testing.T) {
	cfg := config.DefaultLinkSameConfig()
	opts := linksame.Options{Size: "easy", Style: "letters", LastStage: -1}

	tests := []struct {
		name   string
		keys   []tea.KeyMsg
		check  func(MenuResult) bool
		done   bool
		expect string
	}{
		{
			name:   "start with preselected options",
			keys:   []tea.KeyMsg{keyEnter},
			check:  func(r MenuResult) bool { return r.GameID == linksame.IDTimed && r.Options.Size == "easy" },
			done:   true,
			expect: "timed easy board",
		},
		{
			name: "change style",
			keys: []tea.KeyMsg{keyUp, keyUp, keyRight, keyDown, keyDown, keyEnter},
			check: func(r MenuResult) bool {
				return r.Options.Style == "symbols" && r.Options.LastStage == -1
			},
			done:   true,
			expect: "symbols style",
		},
		{
			name:   "practice mode",
			keys:   []tea.KeyMsg{keyUp, keyUp, keyUp, keyUp, keyEnter, keyDown, keyDown, keyDown, keyDown, keyEnter},
			check:  func(r MenuResult) bool { return r.GameID == linksame.IDPractice },
			done:   true,
			expect: "practice game",
		},
		{
			name:   "resume without saves",
			keys:   []tea.KeyMsg{keyUp, keyEnter},
			check:  func(r MenuResult) bool { return r.ResumeName == "" },
			done:   false,
			expect: "menu still open",
		},
		{
			name:   "scoreboard",
			keys:   []tea.KeyMsg{{Type: tea.KeyTab}},
			check:  func(r MenuResult) bool { return r.WantsScoreboard },
			done:   true,
			expect: "scoreboard",
		},
		{
			name:   "quit",
			keys:   []tea.KeyMsg{runeKey("q")},
			check:  func(r MenuResult) bool { return r.Quit },
			done:   true,
			expect: "quit",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := pressAll(NewMenuModel(nil, testRuntime(), cfg, opts), tt.keys...)
			if m.Done() != tt.done {
				t.Fatalf("Done() = %v, expected %v", m.Done(), tt.done)
			}
			if tt.done && !tt.check(m.Result()) {
				t.Errorf("Result() = %+v, expected %s", m.Result(), tt.expect)
			}
		})
	}
}

func TestMenuView(t *testing.T) {
	m := NewMenuModel(nil, testRuntime(), config.DefaultLinkSameConfig(), linksame.DefaultOptions())
	view := m.View()
	for _, want := range []string{"L I N K", "Start game", "no saved games"} {
		if !strings.Contains(view, want) {
			t.Errorf("menu view missing %q", want)
		}
	}
}

func TestStartGame(t *testing.T) {
	cfg := config.DefaultLinkSameConfig()
	res := MenuResult{
		GameID:  linksame.IDPractice,
		Options: linksame.Options{Size: "tiny", Style: "letters", LastStage: 0},
	}

	gm, err := StartGame(nil, testRuntime(), cfg, res)
	if err != nil {
		t.Fatalf("StartGame() failed: %v", err)
	}
	g, ok := gm.Game().(*linksame.Game)
	if !ok {
		t.Fatalf("game is %T", gm.Game())
	}
	if g.Mode() != linksame.ModePractice || g.Engine().Width() != 4 {
		t.Errorf("started %s on a %d-wide board", g.Mode(), g.Engine().Width())
	}

	if _, err := StartGame(nil, testRuntime(), cfg, MenuResult{ResumeName: "lunch"}); err == nil {
		t.Error("resume without a store should fail")
	}
	if _, err := StartGame(nil, testRuntime(), cfg, MenuResult{GameID: "mahjong"}); err == nil {
		t.Error("unknown game should fail")
	}
}

func TestStartGameUnreadableSave(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	timed, err := StartGame(nil, testRuntime(), config.DefaultLinkSameConfig(), MenuResult{
		GameID:  linksame.IDTimed,
		Options: linksame.Options{Size: "tiny", Style: "letters", LastStage: -1},
	})
	if err != nil {
		t.Fatal(err)
	}
	doc, err := timed.Game().(*linksame.Game).SaveDocument()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		gameID string
		doc    []byte
	}{
		{"truncated document", linksame.IDTimed, []byte("version: 1\nboard: {width: [")},
		{"board cut short", linksame.IDTimed, doc[:len(doc)/3]},
		{"other variant", linksame.IDPractice, doc},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := store.SaveGame(tt.gameID, "lunch", tt.doc); err != nil {
				t.Fatalf("SaveGame() failed: %v", err)
			}
			gm, err := StartGame(store, testRuntime(), config.DefaultLinkSameConfig(), MenuResult{ResumeName: "lunch"})
			if err != nil {
				t.Fatalf("StartGame() failed: %v", err)
			}
			g := gm.Game().(*linksame.Game)
			if g.Engine() == nil || g.Engine().RemainingPairs() == 0 {
				t.Fatal("expected a freshly dealt board")
			}
			if gm.saveName != "lunch" {
				t.Errorf("save name = %q, expected lunch", gm.saveName)
			}
			if !strings.Contains(gm.status, "unreadable") {
				t.Errorf("status = %q, expected a notice", gm.status)
			}
		})
	}

	if _, err := StartGame(store, testRuntime(), config.DefaultLinkSameConfig(), MenuResult{ResumeName: "dinner"}); err == nil {
		t.Error("a missing save should still fail")
	}
}

func TestGameModelSaveWithoutStore(t *testing.T) {
	gm, err := StartGame(nil, testRuntime(), config.DefaultLinkSameConfig(), MenuResult{
		GameID:  linksame.IDTimed,
		Options: linksame.Options{Size: "tiny", Style: "letters", LastStage: -1},
	})
	if err != nil {
		t.Fatal(err)
	}

	next, _ := gm.Update(runeKey("s"))
	gm = next.(GameModel)
	if gm.status != "Saving unavailable: no database" {
		t.Errorf("status = %q", gm.status)
	}
	if !strings.Contains(gm.View(), "Saving unavailable") {
		t.Error("status line should be drawn")
	}
}

func TestSessionFlow(t *testing.T) {
	var model tea.Model = NewSessionModel(nil, testRuntime(), config.DefaultLinkSameConfig(), "alice")
	send := func(msg tea.Msg) {
		model, _ = model.Update(msg)
	}

	send(keyEnter)
	s := model.(SessionModel)
	if s.screen != screenGame || s.gameModel == nil {
		t.Fatalf("after start: screen = %d", s.screen)
	}
	if s.gameModel.saveName != "alice" {
		t.Errorf("save name = %q, expected the SSH user", s.gameModel.saveName)
	}

	// Back only leaves a paused game.
	send(runeKey("b"))
	if model.(SessionModel).screen != screenGame {
		t.Fatal("back during play should be ignored")
	}
	send(runeKey("p"))
	send(TickMsg(time.Now()))
	send(runeKey("b"))
	if s := model.(SessionModel); s.screen != screenMenu {
		t.Fatalf("after pause and back: screen = %d", s.screen)
	}

	send(tea.KeyMsg{Type: tea.KeyTab})
	if s := model.(SessionModel); s.screen != screenScores {
		t.Fatalf("after tab: screen = %d", s.screen)
	}

	send(runeKey("q"))
	if s := model.(SessionModel); !s.quitting || s.View() != "" {
		t.Error("q should end the session")
	}
}
