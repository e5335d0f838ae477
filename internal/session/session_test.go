package session

import (
	"context"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/okihara/plo-game-sub002/internal/engine"
	"github.com/okihara/plo-game-sub002/internal/matchmaking"
	"github.com/okihara/plo-game-sub002/internal/protocol"
	"github.com/okihara/plo-game-sub002/internal/seat"
	"github.com/okihara/plo-game-sub002/internal/table"
)

type stubDispatcher struct {
	joined     bool
	joinedUser string
	joinedLvl  matchmaking.BlindLevel
	tbl        *table.Instance
	seat       int
}

func (d *stubDispatcher) JoinMatchmaking(userID, displayName string, isBot bool, level matchmaking.BlindLevel, buyIn int) error {
	d.joined = true
	d.joinedUser = userID
	d.joinedLvl = level
	return nil
}
func (d *stubDispatcher) LeaveMatchmaking(userID string) {}
func (d *stubDispatcher) CurrentTable(userID string) (*table.Instance, int, bool) {
	if d.tbl == nil {
		return nil, 0, false
	}
	return d.tbl, d.seat, true
}
func (d *stubDispatcher) LeaveTable(userID string) error { return nil }
func (d *stubDispatcher) FastFold(userID string) (string, *table.Instance, int, bool, error) {
	return "", nil, 0, false, nil
}
func (d *stubDispatcher) Spectate(userID, tableID string) (*table.Instance, error) {
	return d.tbl, nil
}
func (d *stubDispatcher) CreatePrivateTable(userID string, level matchmaking.BlindLevel, buyIn int) (*table.Instance, int, error) {
	return d.tbl, 0, nil
}
func (d *stubDispatcher) JoinPrivateTable(userID, tableID string, buyIn int) (*table.Instance, int, error) {
	return d.tbl, 0, nil
}

func newTestServer(t *testing.T, disp Dispatcher, verify TokenVerifier) (*httptest.Server, string) {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		s := New(conn, zerolog.Nop(), verify, disp)
		s.Start()
	}))
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	return srv, wsURL
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func TestHandleConnectWithValidTokenEstablishesSession(t *testing.T) {
	verify := func(token string) (string, bool) {
		if token == "good-token" {
			return "user-1", true
		}
		return "", false
	}
	srv, url := newTestServer(t, &stubDispatcher{}, verify)
	defer srv.Close()

	conn := dial(t, url)
	defer conn.Close()

	data, err := protocol.Marshal(&protocol.Connect{AuthToken: "good-token"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		t.Fatalf("write: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, resp, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var established protocol.ConnectionEstablished
	if err := protocol.Unmarshal(resp, &established); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if established.UserID != "user-1" {
		t.Errorf("got user id %q, want user-1", established.UserID)
	}
}

func TestHandleConnectRejectsInvalidToken(t *testing.T) {
	verify := func(token string) (string, bool) { return "", false }
	srv, url := newTestServer(t, &stubDispatcher{}, verify)
	defer srv.Close()

	conn := dial(t, url)
	defer conn.Close()

	data, _ := protocol.Marshal(&protocol.Connect{AuthToken: "bad"})
	_ = conn.WriteMessage(websocket.BinaryMessage, data)

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, resp, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var tableErr protocol.TableError
	if err := protocol.Unmarshal(resp, &tableErr); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if tableErr.Code != "auth_failed" {
		t.Errorf("got code %q, want auth_failed", tableErr.Code)
	}
}

func TestBotConnectMapsNameToAStableUserID(t *testing.T) {
	first := botUserID("ManiacBot-1")
	second := botUserID("ManiacBot-1")
	other := botUserID("TAGBot-1")
	if first != second {
		t.Errorf("expected the same bot name to map to the same id, got %q and %q", first, second)
	}
	if first == other {
		t.Errorf("expected distinct bot names to map to distinct ids")
	}
}

func TestParseBlindLevelRejectsMalformedInput(t *testing.T) {
	if _, err := parseBlindLevel("1-3"); err == nil {
		t.Error("expected an error for a level with no slash")
	}
	lvl, err := parseBlindLevel("1/3")
	if err != nil {
		t.Fatalf("parseBlindLevel: %v", err)
	}
	if lvl.SmallBlind != 1 || lvl.BigBlind != 3 {
		t.Errorf("got %+v", lvl)
	}
}

func TestParseActionTypeRejectsUnknownActions(t *testing.T) {
	if _, err := parseActionType("shove"); err == nil {
		t.Error("expected an error for an unrecognized action string")
	}
	a, err := parseActionType("raise")
	if err != nil || a != engine.Raise {
		t.Errorf("parseActionType(raise) = %v, %v", a, err)
	}
}

func newTestTable(t *testing.T) *table.Instance {
	t.Helper()
	cfg := table.Config{SmallBlind: 1, BigBlind: 2, ActionTimeout: time.Second}
	tbl := table.New("t1", cfg, rand.New(rand.NewSource(1)), quartz.NewMock(t), zerolog.Nop(), nil)
	for i := 0; i < 6; i++ {
		_, err := tbl.Seats.Seat(seat.Occupant{UserID: "p", DisplayName: "p", Chips: 200})
		if err != nil {
			t.Fatalf("Seat: %v", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	go tbl.Run(ctx)
	t.Cleanup(cancel)

	if err := tbl.Submit(engine.Command{Type: engine.CmdStartHand}); err != nil {
		t.Fatalf("CmdStartHand: %v", err)
	}
	return tbl
}

func TestTranslateHandStartedIncludesPrivateHoleCardsForOwnSeatOnly(t *testing.T) {
	tbl := newTestTable(t)
	s := &Session{curTable: tbl, curSeat: 0}

	out := s.translate([]engine.Event{{Type: engine.EventHandStarted}})

	var sawHoleCards bool
	for _, m := range out {
		if hc, ok := m.(*protocol.GameHoleCards); ok {
			sawHoleCards = true
			if len(hc.HoleCards) != 4 {
				t.Errorf("expected 4 hole cards, got %d", len(hc.HoleCards))
			}
		}
	}
	if !sawHoleCards {
		t.Error("expected the occupying seat to receive its own hole cards on hand start")
	}
}
