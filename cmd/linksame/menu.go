package main

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/linksame/internal/games/linksame"
	"github.com/vovakirdan/linksame/internal/platform/tui"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start LinkSame with a setup menu",
	Long: `Start LinkSame in interactive menu mode.

Pick the mode, board size and tile style, continue a saved game or look at
the high scores. After a game ends you return to the menu.

Controls:
  Up/Down/j/k     - Navigate menu
  Left/Right/h/l  - Change option
  Enter/Space     - Select
  Tab             - High scores
  Q               - Quit

Examples:
  linksame menu
  linksame menu --fps 20
  linksame menu --db ./linksame.db`,
	Args: cobra.NoArgs,
	RunE: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	store := openStore()
	if store != nil {
		defer store.Close()
	}

	rc := runtimeConfig()
	opts := linksame.DefaultOptions()

	for {
		res, err := tui.RunMenu(store, rc, cfg, opts)
		if err != nil {
			return err
		}
		rc = res.Config

		if res.Quit {
			return nil
		}

		if res.WantsScoreboard {
			goBack, err := tui.RunScoreboard(store, rc.ScreenW, rc.ScreenH)
			if err != nil {
				log.Error("scoreboard failed", "error", err)
			}
			if goBack {
				continue
			}
			return nil
		}

		if res.ResumeName == "" {
			opts = res.Options
		}
		if flagSeed == 0 {
			rc.Seed = time.Now().UnixNano()
		}

		model, err := tui.StartGame(store, rc, cfg, res)
		if err != nil {
			log.Error("cannot start game", "error", err)
			continue
		}
		if err := tui.RunGame(model); err != nil {
			log.Error("game failed", "error", err)
		}
	}
}
