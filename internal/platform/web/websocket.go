package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vovakirdan/linksame/internal/games/linksame/core"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	maxMessage = 512
)

// handleWebsocket streams a session's events to the client and applies the
// operations it sends. Every subscriber sees every operation.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		s.logger.Warn("websocket upgrade failed", "session", sess.ID, "error", err)
		return
	}
	defer conn.Close()

	sub, err := sess.Subscribe(s.cfg.SubscriberBuffer)
	if err != nil {
		//nolint:errcheck // Closing anyway
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, err.Error()))
		return
	}
	defer sess.Unsubscribe(sub)

	s.logger.Info("subscriber joined", "session", sess.ID, "remote", r.RemoteAddr)
	go s.writeLoop(conn, sub, sess.ID)
	s.readLoop(conn, sess, sub)
	s.logger.Info("subscriber left", "session", sess.ID, "remote", r.RemoteAddr)
}

// readLoop applies client messages until the connection fails or the
// subscriber is closed.
func (s *Server) readLoop(conn *websocket.Conn, sess *Session, sub *Subscriber) {
	conn.SetReadLimit(maxMessage)
	//nolint:errcheck // Deadline errors surface on the next read
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg ClientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			var closeErr *websocket.CloseError
			if !errors.As(err, &closeErr) {
				select {
				case <-sub.Done():
				default:
					s.logger.Debug("websocket read ended", "session", sess.ID, "error", err)
				}
			}
			return
		}

		switch msg.Op {
		case "tap":
			sess.Tap(core.C(msg.X, msg.Y))
		case "hint":
			sess.Hint()
		case "shuffle":
			sess.Shuffle()
		default:
			sub.Send(Event{Type: EventError, Error: fmt.Sprintf("unknown op %q", msg.Op)})
		}
	}
}

// writeLoop is the only writer on conn. It sends queued events and pings
// until the subscriber is closed, then flushes what is left and closes the
// connection.
func (s *Server) writeLoop(conn *websocket.Conn, sub *Subscriber, id string) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case evt := <-sub.Events():
			if err := s.writeEvent(conn, evt); err != nil {
				s.logger.Debug("websocket write failed", "session", id, "error", err)
				conn.Close()
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				conn.Close()
				return
			}
		case <-sub.Done():
			for {
				select {
				case evt := <-sub.Events():
					if s.writeEvent(conn, evt) != nil {
						conn.Close()
						return
					}
					continue
				default:
				}
				break
			}
			//nolint:errcheck // Closing anyway
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(writeWait))
			conn.Close()
			return
		}
	}
}

func (s *Server) writeEvent(conn *websocket.Conn, evt Event) error {
	//nolint:errcheck // Write error reported below
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(evt)
}
