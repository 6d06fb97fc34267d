package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/linksame/internal/games/linksame/core"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	srv := NewServer(DefaultConfig(), log.New(io.Discard))
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return srv, ts
}

// addBoard registers a session with a fixed board.
func addBoard(srv *Server, rows ...string) *Session {
	sess := NewSession(core.NewEngine(core.ParseGrid(rows...), nil), "letters")
	srv.Sessions().Add(sess)
	return sess
}

func post(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(data)
	}
	resp, err := http.Post(url, "application/json", r)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestCreateGame(t *testing.T) {
	_, ts := newTestServer(t)

	tests := []struct {
		name   string
		req    NewGameRequest
		status int
		w, h   int
	}{
		{"explicit size", NewGameRequest{Width: 4, Height: 4, Style: "letters", Seed: 7}, http.StatusCreated, 4, 4},
		{"preset", NewGameRequest{Size: "easy", Style: "symbols", Seed: 7}, http.StatusCreated, 12, 7},
		{"defaults", NewGameRequest{}, http.StatusCreated, 14, 8},
		{"odd cells", NewGameRequest{Width: 3, Height: 3}, http.StatusBadRequest, 0, 0},
		{"unknown size", NewGameRequest{Size: "huge"}, http.StatusBadRequest, 0, 0},
		{"unknown style", NewGameRequest{Width: 4, Height: 4, Style: "emoji"}, http.StatusBadRequest, 0, 0},
		{"too wide", NewGameRequest{Width: 2000, Height: 2}, http.StatusBadRequest, 0, 0},
		{"too tall", NewGameRequest{Width: 2, Height: 2000}, http.StatusBadRequest, 0, 0},
		{"huge board", NewGameRequest{Width: 40000, Height: 40000}, http.StatusBadRequest, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+"/games", tt.req)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, expected %d", resp.StatusCode, tt.status)
			}
			if tt.status != http.StatusCreated {
				return
			}
			st := decode[State](t, resp)
			if st.ID == "" {
				t.Error("expected a session ID")
			}
			if st.Width != tt.w || st.Height != tt.h || len(st.Cells) != tt.w*tt.h {
				t.Errorf("board %dx%d with %d cells, expected %dx%d", st.Width, st.Height, len(st.Cells), tt.w, tt.h)
			}
			if st.RemainingPairs != tt.w*tt.h/2 {
				t.Errorf("RemainingPairs = %d, expected %d", st.RemainingPairs, tt.w*tt.h/2)
			}
		})
	}
}

func TestCreateRejectsBadBody(t *testing.T) {
	_, ts := newTestServer(t)

	resp, err := http.Post(ts.URL+"/games", "application/json", strings.NewReader("{"))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, expected 400", resp.StatusCode)
	}
}

func TestUnknownSession(t *testing.T) {
	_, ts := newTestServer(t)

	if resp := get(t, ts.URL+"/games/nope"); resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET status = %d, expected 404", resp.StatusCode)
	}
	if resp := post(t, ts.URL+"/games/nope/hint", nil); resp.StatusCode != http.StatusNotFound {
		t.Errorf("hint status = %d, expected 404", resp.StatusCode)
	}
}

func TestTapRemovesPair(t *testing.T) {
	srv, ts := newTestServer(t)
	sess := addBoard(srv,
		"AA",
		"BB",
	)
	base := ts.URL + "/games/" + sess.ID

	evt := decode[Event](t, post(t, base+"/tap", TapRequest{X: 0, Y: 0}))
	if evt.Type != EventSelected || evt.Cell == nil || *evt.Cell != core.C(0, 0) {
		t.Fatalf("first tap = %+v, expected selected (0,0)", evt)
	}
	if evt.State == nil || evt.State.Selected == nil {
		t.Fatal("state should carry the selection")
	}

	evt = decode[Event](t, post(t, base+"/tap", TapRequest{X: 1, Y: 0}))
	if evt.Type != EventRemoved {
		t.Fatalf("second tap = %s, expected removed", evt.Type)
	}
	if len(evt.Path) != 2 {
		t.Errorf("path = %v, expected two cells", evt.Path)
	}
	if evt.State.RemainingPairs != 1 || evt.State.Removed != 1 {
		t.Errorf("state after removal = %+v", evt.State)
	}

	evt = decode[Event](t, post(t, base+"/tap", TapRequest{X: 5, Y: 5}))
	if evt.Type != EventIgnored || evt.Error == "" {
		t.Errorf("off-board tap = %+v, expected ignored with error", evt)
	}

	post(t, base+"/tap", TapRequest{X: 0, Y: 1})
	evt = decode[Event](t, post(t, base+"/tap", TapRequest{X: 1, Y: 1}))
	if evt.Type != EventRemoved || !evt.State.Won {
		t.Errorf("last pair = %+v, expected removed and won", evt)
	}
}

func TestTapRejectsBadBody(t *testing.T) {
	srv, ts := newTestServer(t)
	sess := addBoard(srv, "AA")

	resp, err := http.Post(ts.URL+"/games/"+sess.ID+"/tap", "application/json", strings.NewReader("x"))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, expected 400", resp.StatusCode)
	}
}

func TestHintAndShuffle(t *testing.T) {
	srv, ts := newTestServer(t)
	sess := addBoard(srv,
		"AABB",
		"CCDD",
	)
	base := ts.URL + "/games/" + sess.ID

	evt := decode[Event](t, post(t, base+"/hint", nil))
	if evt.Type != EventHint || evt.Pair == nil {
		t.Fatalf("hint = %+v", evt)
	}
	if *evt.Pair != (core.Pair{A: core.C(0, 0), B: core.C(1, 0)}) {
		t.Errorf("hint pair = %+v, expected the first row-major pair", *evt.Pair)
	}
	if evt.State.Hint == nil || evt.State.Hints != 1 {
		t.Errorf("state after hint = %+v", evt.State)
	}

	evt = decode[Event](t, post(t, base+"/shuffle", nil))
	if evt.Type != EventShuffled {
		t.Fatalf("shuffle = %s", evt.Type)
	}
	counts := map[core.Kind]int{}
	for _, k := range evt.State.Cells {
		counts[k]++
	}
	for _, k := range []core.Kind{"A", "B", "C", "D"} {
		if counts[k] != 2 {
			t.Errorf("kind %s appears %d times after shuffle, expected 2", k, counts[k])
		}
	}
	if evt.State.Hint != nil || evt.State.Shuffles != 1 {
		t.Errorf("state after shuffle = %+v", evt.State)
	}
}

func TestHintOnEmptyBoard(t *testing.T) {
	srv, ts := newTestServer(t)
	sess := addBoard(srv, "..", "..")

	evt := decode[Event](t, post(t, ts.URL+"/games/"+sess.ID+"/hint", nil))
	if evt.Type != EventNoHint || evt.Error != "" {
		t.Errorf("hint on empty board = %+v, expected no_hint without error", evt)
	}
}

func TestSaveDocument(t *testing.T) {
	srv, ts := newTestServer(t)
	sess := addBoard(srv,
		"AA",
		"BB",
	)
	base := ts.URL + "/games/" + sess.ID
	post(t, base+"/tap", TapRequest{X: 0, Y: 0})
	post(t, base+"/tap", TapRequest{X: 1, Y: 0})
	post(t, base+"/tap", TapRequest{X: 0, Y: 1})

	resp := get(t, base+"/save")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/x-yaml" {
		t.Errorf("Content-Type = %q", ct)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	var st core.SavedState
	if err := yaml.Unmarshal(data, &st); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if err := st.Validate(); err != nil {
		t.Fatalf("saved state invalid: %v", err)
	}
	if st.Counters[counterRemoved] != 1 {
		t.Errorf("removed counter = %d, expected 1", st.Counters[counterRemoved])
	}
	if len(st.Selection) != 1 || st.Selection[0] != core.C(0, 1) {
		t.Errorf("selection = %v, expected [(0,1)]", st.Selection)
	}

	e, err := core.Restore(st, nil)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if e.RemainingPairs() != 1 {
		t.Errorf("restored RemainingPairs = %d, expected 1", e.RemainingPairs())
	}
}

func TestDeleteGame(t *testing.T) {
	srv, ts := newTestServer(t)
	sess := addBoard(srv, "AA")

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/games/"+sess.ID, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d, expected 204", resp.StatusCode)
	}
	if srv.Sessions().Count() != 0 {
		t.Errorf("Count() = %d after delete", srv.Sessions().Count())
	}

	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d, expected 404", resp.StatusCode)
	}
}

func TestUnboundedSizeStillRejectsOverflow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxWidth, cfg.MaxHeight = 0, 0
	srv := NewServer(cfg, log.New(io.Discard))

	_, err := srv.NewSession(NewGameRequest{Width: math.MaxInt/2 + 1, Height: 4, Seed: 1})
	if statusFor(err) != http.StatusBadRequest || !errors.Is(err, core.ErrInvalidDimensions) {
		t.Errorf("error = %v, expected a bad request wrapping ErrInvalidDimensions", err)
	}
	if srv.Sessions().Count() != 0 {
		t.Error("no session should be registered")
	}
}

func TestMaxSessions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxSessions = 1
	srv := NewServer(cfg, log.New(io.Discard))

	if _, err := srv.NewSession(NewGameRequest{Width: 2, Height: 2, Seed: 1}); err != nil {
		t.Fatalf("first session: %v", err)
	}
	_, err := srv.NewSession(NewGameRequest{Width: 2, Height: 2, Seed: 1})
	if statusFor(err) != http.StatusServiceUnavailable {
		t.Errorf("second session error = %v, expected service unavailable", err)
	}
}

func dial(t *testing.T, ts *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/games/" + id + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) Event {
	t.Helper()
	//nolint:errcheck // Test deadline
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var evt Event
	if err := conn.ReadJSON(&evt); err != nil {
		t.Fatalf("read event: %v", err)
	}
	return evt
}

func TestWebsocketBroadcast(t *testing.T) {
	srv, ts := newTestServer(t)
	sess := addBoard(srv,
		"AA",
		"BB",
	)

	alice := dial(t, ts, sess.ID)
	bob := dial(t, ts, sess.ID)
	for _, conn := range []*websocket.Conn{alice, bob} {
		if evt := readEvent(t, conn); evt.Type != EventState || evt.State == nil {
			t.Fatalf("first event = %+v, expected state", evt)
		}
	}
	if n := sess.Subscribers(); n != 2 {
		t.Fatalf("Subscribers() = %d, expected 2", n)
	}

	if err := alice.WriteJSON(ClientMessage{Op: "tap", X: 0, Y: 0}); err != nil {
		t.Fatal(err)
	}
	for _, conn := range []*websocket.Conn{alice, bob} {
		evt := readEvent(t, conn)
		if evt.Type != EventSelected || *evt.Cell != core.C(0, 0) {
			t.Errorf("broadcast = %+v, expected selected (0,0)", evt)
		}
	}

	if err := bob.WriteJSON(ClientMessage{Op: "tap", X: 1, Y: 0}); err != nil {
		t.Fatal(err)
	}
	for _, conn := range []*websocket.Conn{alice, bob} {
		evt := readEvent(t, conn)
		if evt.Type != EventRemoved || evt.State.RemainingPairs != 1 {
			t.Errorf("broadcast = %+v, expected removed", evt)
		}
	}

	if err := alice.WriteJSON(ClientMessage{Op: "dance"}); err != nil {
		t.Fatal(err)
	}
	if evt := readEvent(t, alice); evt.Type != EventError {
		t.Errorf("unknown op = %+v, expected error", evt)
	}

	if err := srv.Sessions().Remove(sess.ID); err != nil {
		t.Fatal(err)
	}
	if evt := readEvent(t, bob); evt.Type != EventClosed {
		t.Errorf("after delete = %+v, expected closed", evt)
	}
}

func TestWebsocketUnknownSession(t *testing.T) {
	_, ts := newTestServer(t)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/games/nope/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("dial should fail for an unknown session")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Errorf("response = %v, expected 404", resp)
	}
}
