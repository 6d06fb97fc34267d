// linksame is a tile-matching puzzle for the terminal: connect two equal
// tiles with a line of at most three straight segments to remove them.
//
// Usage:
//
//	linksame play            - Play a game
//	linksame menu            - Pick mode, size and style interactively
//	linksame list            - List sizes, tile styles and saved games
//	linksame scores          - Show high scores
//	linksame serve           - Start SSH server for remote play
//	linksame web             - Start HTTP/websocket server
//	linksame solve <file>    - Inspect a saved board
//
// Global flags:
//
//	--fps <rate>     - Set tick rate (default: 30)
//	--seed <value>   - Set RNG seed for reproducible deals
//	--db <path>      - Set database path (default: ~/.linksame/linksame.db)
//	--config <path>  - Use a custom game config YAML
package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/linksame/internal/config"
	"github.com/vovakirdan/linksame/internal/core"
	"github.com/vovakirdan/linksame/internal/games/linksame"
	"github.com/vovakirdan/linksame/internal/storage"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
	flagConfig string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "linksame",
	Short: "LinkSame - connect matching tiles in your terminal",
	Long: `LinkSame is a tile-matching puzzle. Tap two equal tiles to remove them
when they can be joined by a line with at most two turns. The line may run
along the outside of the board. Clear nine stages, each with its own gravity.

Available commands:
  play     - Play directly with the given options
  menu     - Interactive setup menu
  list     - Show sizes, tile styles and saved games
  scores   - View high scores
  serve    - Start SSH server for remote play
  web      - Start HTTP/websocket server
  solve    - Inspect a saved board

Examples:
  linksame play --size easy
  linksame play --practice --style symbols
  linksame menu
  linksame serve --ssh :2222
  linksame web --addr :8080`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", core.DefaultConfig().TickRate, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.linksame/linksame.db", "Path to scores and saves database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(webCmd)
	rootCmd.AddCommand(solveCmd)
}

// loadConfig reads the game config and makes it the default for new games.
// A custom file that cannot be used falls back to the standard search.
func loadConfig() config.LinkSameConfig {
	cfg, err := config.LoadLinkSame(flagConfig)
	if err != nil {
		log.Warn("could not load config, using defaults", "path", flagConfig, "error", err)
		cfg, _ = config.LoadLinkSame("")
	}
	linksame.SetConfig(cfg)
	return cfg
}

// runtimeConfig sizes the screen from the terminal.
func runtimeConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStore opens the database, or returns nil when it is unavailable so
// the game can still be played.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		log.Warn("could not open database, scores and saves disabled", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}
