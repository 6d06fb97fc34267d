package web

import "sync"

// DefaultSubscriberBuffer is the event backlog kept per websocket client.
const DefaultSubscriberBuffer = 64

// Subscriber receives the events of one session over a buffered channel.
// A slow reader loses its oldest events rather than blocking the board.
type Subscriber struct {
	events   chan Event
	done     chan struct{}
	doneOnce sync.Once
}

// NewSubscriber creates a subscriber buffering up to size events.
func NewSubscriber(size int) *Subscriber {
	if size < 1 {
		size = DefaultSubscriberBuffer
	}
	return &Subscriber{
		events: make(chan Event, size),
		done:   make(chan struct{}),
	}
}

// Send queues an event. When the buffer is full the oldest event is
// dropped. Sending to a closed subscriber does nothing.
func (s *Subscriber) Send(evt Event) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.events <- evt:
	default:
		select {
		case <-s.events:
		default:
		}
		select {
		case s.events <- evt:
		default:
		}
	}
}

// Events returns the channel to read events from.
func (s *Subscriber) Events() <-chan Event {
	return s.events
}

// Done is closed when the subscriber is closed.
func (s *Subscriber) Done() <-chan struct{} {
	return s.done
}

// Close marks the subscriber as done. Safe to call multiple times.
func (s *Subscriber) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}
