package web

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/linksame/internal/games/linksame/core"
)

// ErrSessionNotFound is returned for an unknown or deleted session ID.
var ErrSessionNotFound = errors.New("web: session not found")

// Counter keys stored in a saved board.
const (
	counterRemoved  = "removed"
	counterHints    = "hints"
	counterShuffles = "shuffles"
)

// Session is one board shared by every client that knows its ID. All
// engine access goes through mu.
type Session struct {
	ID      string
	Style   string
	Created time.Time

	mu       sync.Mutex
	engine   *core.Engine
	removed  int
	hints    int
	shuffles int
	subs     map[*Subscriber]struct{}
	closed   bool
}

// NewSession wraps an engine in a session with a fresh ID. A stuck deal is
// redealt before anyone sees it.
func NewSession(engine *core.Engine, style string) *Session {
	if engine.IsStuck() {
		engine.Redeal()
	}
	return &Session{
		ID:      uuid.NewString(),
		Style:   style,
		Created: time.Now(),
		engine:  engine,
		subs:    make(map[*Subscriber]struct{}),
	}
}

// State returns the current board.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked()
}

func (s *Session) stateLocked() State {
	g := s.engine.Grid()
	st := State{
		ID:             s.ID,
		Style:          s.Style,
		Width:          g.W,
		Height:         g.H,
		Cells:          g.Cells,
		Gravity:        s.engine.Gravity().String(),
		RemainingPairs: s.engine.RemainingPairs(),
		Removed:        s.removed,
		Hints:          s.hints,
		Shuffles:       s.shuffles,
		Won:            s.engine.IsWon(),
		Stuck:          s.engine.IsStuck(),
	}
	if c, ok := s.engine.Selected(); ok {
		st.Selected = &c
	}
	if p, ok := s.engine.Highlight(); ok {
		st.Hint = &p
	}
	return st
}

// Tap applies a tap at c and broadcasts the outcome.
func (s *Session) Tap(c core.Coord) Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.engine.Tap(c)
	evt := tapEvent(res)
	if res.Kind == core.TapRemoved {
		s.removed++
		if s.engine.IsStuck() {
			s.engine.Redeal()
			evt.Reshuffled = true
		}
	}
	return s.publishLocked(evt)
}

// Hint highlights a connectable pair and broadcasts it.
func (s *Session) Hint() Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.engine.Hint()
	evt := hintEvent(res)
	if res.Found {
		s.hints++
	}
	return s.publishLocked(evt)
}

// Shuffle redeals the remaining tiles and broadcasts the new board.
func (s *Session) Shuffle() Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.engine.Redeal()
	s.shuffles++
	return s.publishLocked(Event{Type: EventShuffled})
}

// Save captures the board with the session counters.
func (s *Session) Save() core.SavedState {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.engine.Save()
	st.Counters = map[string]int{
		counterRemoved:  s.removed,
		counterHints:    s.hints,
		counterShuffles: s.shuffles,
	}
	return st
}

// publishLocked attaches the current state and sends evt to every
// subscriber.
func (s *Session) publishLocked(evt Event) Event {
	st := s.stateLocked()
	evt.State = &st
	for sub := range s.subs {
		sub.Send(evt)
	}
	return evt
}

// Subscribe registers a new subscriber and queues the current state as its
// first event.
func (s *Session) Subscribe(buffer int) (*Subscriber, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionNotFound
	}
	sub := NewSubscriber(buffer)
	st := s.stateLocked()
	sub.Send(Event{Type: EventState, State: &st})
	s.subs[sub] = struct{}{}
	return sub, nil
}

// Unsubscribe removes and closes sub.
func (s *Session) Unsubscribe(sub *Subscriber) {
	s.mu.Lock()
	delete(s.subs, sub)
	s.mu.Unlock()
	sub.Close()
}

// Subscribers returns the number of connected subscribers.
func (s *Session) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// close tells every subscriber the session is gone and disconnects them.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	for sub := range s.subs {
		sub.Send(Event{Type: EventClosed})
		sub.Close()
	}
	s.subs = make(map[*Subscriber]struct{})
}

// Sessions tracks live sessions by ID.
// Thread-safe for concurrent access.
type Sessions struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessions creates an empty session table.
func NewSessions() *Sessions {
	return &Sessions{
		sessions: make(map[string]*Session),
	}
}

// Add registers a session.
func (r *Sessions) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}

// Get retrieves a session by ID.
func (r *Sessions) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Remove deletes a session and disconnects its subscribers.
func (r *Sessions) Remove(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	s.close()
	return nil
}

// Count returns the number of live sessions.
func (r *Sessions) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CloseAll removes every session.
func (r *Sessions) CloseAll() {
	r.mu.Lock()
	all := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range all {
		s.close()
	}
}
