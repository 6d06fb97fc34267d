// Package web serves LinkSame boards over HTTP with a websocket event
// stream per board, so several clients can play the same board.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/matryer/way"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/linksame/internal/config"
	"github.com/vovakirdan/linksame/internal/games/linksame/core"
)

// Config holds configuration for the web server.
type Config struct {
	// Address is the host:port to listen on.
	Address string

	// Game supplies size presets and tile styles.
	Game config.LinkSameConfig

	// DefaultSize and DefaultStyle apply when a request names neither.
	DefaultSize  string
	DefaultStyle string

	// SubscriberBuffer is the event backlog per websocket client.
	SubscriberBuffer int

	// MaxSessions caps live boards; 0 means no limit.
	MaxSessions int

	// MaxWidth and MaxHeight bound requested board dimensions.
	MaxWidth  int
	MaxHeight int
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Address:          ":8080",
		Game:             config.DefaultLinkSameConfig(),
		DefaultSize:      "normal",
		DefaultStyle:     "letters",
		SubscriberBuffer: DefaultSubscriberBuffer,
		MaxSessions:      1000,
		MaxWidth:         32,
		MaxHeight:        32,
	}
}

// Server routes board requests to sessions.
type Server struct {
	cfg      Config
	router   *way.Router
	sessions *Sessions
	upgrader websocket.Upgrader
	logger   *log.Logger
}

// NewServer creates a server. A nil logger gets a default one.
func NewServer(cfg Config, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "linksame-web",
		})
	}
	s := &Server{
		cfg:      cfg,
		sessions: NewSessions(),
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router = way.NewRouter()
	s.router.HandleFunc("POST", "/games", s.handleCreate)
	s.router.HandleFunc("GET", "/games/:id", s.handleGet)
	s.router.HandleFunc("DELETE", "/games/:id", s.handleDelete)
	s.router.HandleFunc("POST", "/games/:id/tap", s.handleTap)
	s.router.HandleFunc("POST", "/games/:id/hint", s.handleHint)
	s.router.HandleFunc("POST", "/games/:id/shuffle", s.handleShuffle)
	s.router.HandleFunc("GET", "/games/:id/save", s.handleSave)
	s.router.HandleFunc("GET", "/games/:id/ws", s.handleWebsocket)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Sessions returns the live session table.
func (s *Server) Sessions() *Sessions {
	return s.sessions
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("starting web server", "address", s.cfg.Address)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down...")
	s.sessions.CloseAll()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// NewGameRequest is the body of POST /games. Size names a preset; Width and
// Height override it when both are set.
type NewGameRequest struct {
	Size   string `json:"size,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Style  string `json:"style,omitempty"`
	Seed   int64  `json:"seed,omitempty"`
}

// TapRequest is the body of POST /games/:id/tap.
type TapRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// NewSession deals a board for req and registers it.
func (s *Server) NewSession(req NewGameRequest) (*Session, error) {
	if s.cfg.MaxSessions > 0 && s.sessions.Count() >= s.cfg.MaxSessions {
		return nil, errTooManySessions
	}

	w, h := req.Width, req.Height
	if w == 0 || h == 0 {
		name := req.Size
		if name == "" {
			name = s.cfg.DefaultSize
		}
		size, err := s.cfg.Game.Size(name)
		if err != nil {
			return nil, badRequest(err)
		}
		w, h = size.Width, size.Height
	}
	if (s.cfg.MaxWidth > 0 && w > s.cfg.MaxWidth) || (s.cfg.MaxHeight > 0 && h > s.cfg.MaxHeight) {
		return nil, badRequest(fmt.Errorf("web: board %dx%d exceeds the %dx%d limit", w, h, s.cfg.MaxWidth, s.cfg.MaxHeight))
	}

	styleName := req.Style
	if styleName == "" {
		styleName = s.cfg.DefaultStyle
	}
	style, err := s.cfg.Game.Style(styleName)
	if err != nil {
		return nil, badRequest(err)
	}
	pool := make([]core.Kind, 0, style.Kinds())
	for _, g := range append(append([]string{}, style.Basic...), style.Additional...) {
		pool = append(pool, core.Kind(g))
	}

	seed := req.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	engine, err := core.NewGame(w, h, pool, seed)
	if err != nil {
		return nil, badRequest(err)
	}

	sess := NewSession(engine, styleName)
	s.sessions.Add(sess)
	s.logger.Info("session created", "session", sess.ID, "width", w, "height", h, "style", styleName)
	return sess, nil
}

var errTooManySessions = errors.New("web: too many sessions")

// requestError marks errors caused by the client.
type requestError struct{ err error }

func (e requestError) Error() string { return e.err.Error() }
func (e requestError) Unwrap() error { return e.err }

func badRequest(err error) error { return requestError{err: err} }

func statusFor(err error) int {
	var re requestError
	switch {
	case errors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, errTooManySessions):
		return http.StatusServiceUnavailable
	case errors.As(err, &re):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req NewGameRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.writeError(w, badRequest(fmt.Errorf("web: bad request body: %w", err)))
			return
		}
	}
	sess, err := s.NewSession(req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, sess.State())
}

func (s *Server) session(r *http.Request) (*Session, error) {
	return s.sessions.Get(way.Param(r.Context(), "id"))
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess.State())
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := way.Param(r.Context(), "id")
	if err := s.sessions.Remove(id); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("session deleted", "session", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleTap(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	var req TapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, badRequest(fmt.Errorf("web: bad tap body: %w", err)))
		return
	}
	s.writeJSON(w, http.StatusOK, sess.Tap(core.C(req.X, req.Y)))
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess.Hint())
}

func (s *Server) handleShuffle(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess.Shuffle())
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	data, err := yaml.Marshal(sess.Save())
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/x-yaml")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // Client went away
	w.Write(data)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("cannot write response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
