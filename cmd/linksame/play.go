package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/linksame/internal/config"
	"github.com/vovakirdan/linksame/internal/games/linksame"
	"github.com/vovakirdan/linksame/internal/games/linksame/core"
	"github.com/vovakirdan/linksame/internal/platform/tui"
)

var (
	flagPractice bool
	flagSize     string
	flagStyle    string
	flagStages   int
	flagResume   string
	flagSaveName string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play LinkSame",
	Long: `Start a game with the given options.

Controls:
  Arrows       - Move the cursor
  Enter/Space  - Pick the tile under the cursor
  H/?          - Hint (costs points)
  X            - Shuffle (costs points)
  R            - Restart the stage
  S            - Save the game
  P            - Pause
  Q/Ctrl+C     - Quit

Modes:
  timed     - Scored: quick moves earn a bonus, hints and shuffles cost points
  practice  - No score, no clock

Examples:
  linksame play
  linksame play --size hard --style symbols
  linksame play --practice --size tiny
  linksame play --stages 3
  linksame play --resume lunch`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagPractice, "practice", false, "Unscored practice mode")
	playCmd.Flags().StringVar(&flagSize, "size", string(config.SizeNormal), "Board size preset")
	playCmd.Flags().StringVar(&flagStyle, "style", "letters", "Tile style")
	playCmd.Flags().IntVar(&flagStages, "stages", 0, "Number of stages, 1-9 (0 = from config)")
	playCmd.Flags().StringVar(&flagResume, "resume", "", "Continue a saved game by name")
	playCmd.Flags().StringVar(&flagSaveName, "save-name", "", "Name used when saving (default: quicksave)")
}

// playOptions builds board options from the flags, checking them against cfg.
func playOptions(cfg config.LinkSameConfig) (linksame.Options, error) {
	if _, err := cfg.Size(flagSize); err != nil {
		return linksame.Options{}, err
	}
	if _, err := cfg.Style(flagStyle); err != nil {
		return linksame.Options{}, err
	}
	if flagStages < 0 || flagStages > core.GravityCount {
		return linksame.Options{}, fmt.Errorf("--stages must be between 1 and %d", core.GravityCount)
	}
	return linksame.Options{
		Size:      flagSize,
		Style:     flagStyle,
		LastStage: flagStages - 1,
	}, nil
}

func runPlay(_ *cobra.Command, _ []string) error {
	cfg := loadConfig()
	opts, err := playOptions(cfg)
	if err != nil {
		return err
	}
	linksame.SetOptions(opts)

	store := openStore()
	if store != nil {
		defer store.Close()
	}
	if flagResume != "" && store == nil {
		return errors.New("cannot resume without a database")
	}

	res := tui.MenuResult{
		GameID:     linksame.IDTimed,
		Options:    opts,
		ResumeName: flagResume,
	}
	if flagPractice {
		res.GameID = linksame.IDPractice
	}

	model, err := tui.StartGame(store, runtimeConfig(), cfg, res)
	if err != nil {
		return fmt.Errorf("cannot start game: %w", err)
	}
	model.SetSaveName(flagSaveName)
	return tui.RunGame(model)
}
