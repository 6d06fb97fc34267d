package web

import (
	"github.com/vovakirdan/linksame/internal/games/linksame/core"
)

// EventType identifies what happened on a board.
type EventType string

const (
	EventState      EventType = "state"      // sent once when a subscriber joins
	EventSelected   EventType = "selected"   // a tile became the pending pick
	EventDeselected EventType = "deselected" // the pending pick was dropped
	EventIgnored    EventType = "ignored"    // the tap named an empty or off-board cell
	EventRemoved    EventType = "removed"    // a pair was removed
	EventRejected   EventType = "rejected"   // a matching pair had no path
	EventHint       EventType = "hint"       // a connectable pair is highlighted
	EventNoHint     EventType = "no_hint"    // nothing to highlight
	EventShuffled   EventType = "shuffled"   // remaining tiles were redealt
	EventClosed     EventType = "closed"     // the session was deleted
	EventError      EventType = "error"      // a malformed client message
)

// Event is broadcast to every subscriber of a session after each
// operation. State is the board after the operation.
type Event struct {
	Type       EventType   `json:"type"`
	Cell       *core.Coord `json:"cell,omitempty"`
	Pair       *core.Pair  `json:"pair,omitempty"`
	Path       core.Path   `json:"path,omitempty"`
	Moves      []core.Move `json:"moves,omitempty"`
	Reshuffled bool        `json:"reshuffled,omitempty"` // the board got stuck and was redealt
	Error      string      `json:"error,omitempty"`
	State      *State      `json:"state,omitempty"`
}

// State is the client view of a board.
type State struct {
	ID             string      `json:"id"`
	Style          string      `json:"style"`
	Width          int         `json:"width"`
	Height         int         `json:"height"`
	Cells          []core.Kind `json:"cells"` // row-major, "" for empty
	Selected       *core.Coord `json:"selected,omitempty"`
	Hint           *core.Pair  `json:"hint,omitempty"`
	Gravity        string      `json:"gravity"`
	RemainingPairs int         `json:"remaining_pairs"`
	Removed        int         `json:"removed"`
	Hints          int         `json:"hints"`
	Shuffles       int         `json:"shuffles"`
	Won            bool        `json:"won"`
	Stuck          bool        `json:"stuck"`
}

// ClientMessage is what a websocket client sends.
type ClientMessage struct {
	Op string `json:"op"` // tap, hint or shuffle
	X  int    `json:"x"`
	Y  int    `json:"y"`
}

func tapEvent(res core.TapResult) Event {
	evt := Event{}
	switch res.Kind {
	case core.TapSelected:
		evt.Type = EventSelected
		cell := res.Cell
		evt.Cell = &cell
	case core.TapRemoved:
		evt.Type = EventRemoved
		pair := res.Pair
		evt.Pair = &pair
		evt.Path = res.Path
		evt.Moves = res.Moves
	case core.TapRejected:
		evt.Type = EventRejected
		pair := res.Pair
		evt.Pair = &pair
	default:
		evt.Type = EventDeselected
		if res.Err != nil {
			evt.Type = EventIgnored
		}
	}
	if res.Err != nil {
		evt.Error = res.Err.Error()
	}
	return evt
}

func hintEvent(res core.HintResult) Event {
	if !res.Found {
		evt := Event{Type: EventNoHint}
		if res.Err != nil {
			evt.Error = res.Err.Error()
		}
		return evt
	}
	pair := res.Pair
	return Event{Type: EventHint, Pair: &pair, Path: res.Path}
}
