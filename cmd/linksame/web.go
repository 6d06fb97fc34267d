package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/linksame/internal/config"
	"github.com/vovakirdan/linksame/internal/platform/web"
)

var (
	flagWebAddr     string
	flagWebSize     string
	flagWebStyle    string
	flagMaxSessions int
	flagMaxSide     int
)

var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Start the LinkSame HTTP/websocket server",
	Long: `Start an HTTP server hosting shared boards. Every client that knows a
board's ID can play it; websocket subscribers see every move.

Routes:
  POST   /games               {"size","width","height","style","seed"} -> new board
  GET    /games/:id           board state
  POST   /games/:id/tap       {"x","y"}
  POST   /games/:id/hint
  POST   /games/:id/shuffle
  GET    /games/:id/save      board as YAML
  DELETE /games/:id
  GET    /games/:id/ws        websocket: {"op":"tap","x":..,"y":..}, {"op":"hint"}, {"op":"shuffle"}

Examples:
  linksame web
  linksame web --addr :9000 --size easy`,
	Args: cobra.NoArgs,
	RunE: runWeb,
}

func init() {
	webCmd.Flags().StringVar(&flagWebAddr, "addr", ":8080", "HTTP listen address (host:port)")
	webCmd.Flags().StringVar(&flagWebSize, "size", string(config.SizeNormal), "Default board size preset")
	webCmd.Flags().StringVar(&flagWebStyle, "style", "letters", "Default tile style")
	webCmd.Flags().IntVar(&flagMaxSessions, "max-sessions", 1000, "Maximum live boards (0 = unlimited)")
	webCmd.Flags().IntVar(&flagMaxSide, "max-side", 32, "Largest width or height a client may request (0 = unlimited)")
}

func runWeb(_ *cobra.Command, _ []string) error {
	cfg := web.DefaultConfig()
	cfg.Address = flagWebAddr
	cfg.Game = loadConfig()
	cfg.DefaultSize = flagWebSize
	cfg.DefaultStyle = flagWebStyle
	cfg.MaxSessions = flagMaxSessions
	cfg.MaxWidth, cfg.MaxHeight = flagMaxSide, flagMaxSide

	if _, err := cfg.Game.Size(cfg.DefaultSize); err != nil {
		return err
	}
	if _, err := cfg.Game.Style(cfg.DefaultStyle); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return web.NewServer(cfg, nil).ListenAndServe(ctx)
}
