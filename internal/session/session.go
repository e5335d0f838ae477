// Package session wraps one client's websocket connection: authentication,
// inbound frame dispatch, and outbound event translation from the pure
// engine's event log into wire messages for whichever seat this session
// occupies.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/okihara/plo-game-sub002/internal/engine"
	"github.com/okihara/plo-game-sub002/internal/matchmaking"
	"github.com/okihara/plo-game-sub002/internal/protocol"
	"github.com/okihara/plo-game-sub002/internal/table"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
	sendBuffer     = 256
)

// TokenVerifier resolves a bearer token to a user-id. A false ok means the
// token is invalid or expired; the connection is refused.
type TokenVerifier func(token string) (userID string, ok bool)

// Dispatcher is everything a session needs from the rest of the server to
// act on the client→server event catalog, kept narrow so this package
// never imports tablemgr directly.
type Dispatcher interface {
	JoinMatchmaking(userID, displayName string, isBot bool, level matchmaking.BlindLevel, buyIn int) error
	LeaveMatchmaking(userID string)
	CurrentTable(userID string) (tbl *table.Instance, seat int, ok bool)
	LeaveTable(userID string) error
	// FastFold folds the caller's current hand and, on a fast-fold table,
	// immediately reassigns them. newTbl is non-nil when reassignment
	// succeeded; cashedOut is true when no destination table could seat them
	// and their chips were returned instead. Both are zero on an ordinary
	// table, where fast-fold is just an in-place fold.
	FastFold(userID string) (oldTableID string, newTbl *table.Instance, newSeat int, cashedOut bool, err error)
	Spectate(userID, tableID string) (*table.Instance, error)
	CreatePrivateTable(userID string, level matchmaking.BlindLevel, buyIn int) (*table.Instance, int, error)
	JoinPrivateTable(userID, tableID string, buyIn int) (*table.Instance, int, error)
}

// Session is one authenticated client connection. It implements
// broadcast.Sink so a table's room can address it directly once
// subscribed.
type Session struct {
	conn   *websocket.Conn
	send   chan []byte
	logger zerolog.Logger
	verify TokenVerifier
	disp   Dispatcher

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	mu       sync.RWMutex
	userID   string
	isBot    bool
	curTable *table.Instance
	curSeat  int
}

// New returns a Session ready to Start. Authentication happens as part of
// the first inbound frame, not here.
func New(conn *websocket.Conn, logger zerolog.Logger, verify TokenVerifier, disp Dispatcher) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		logger:  logger.With().Str("component", "session").Logger(),
		verify:  verify,
		disp:    disp,
		ctx:     ctx,
		cancel:  cancel,
		curSeat: -1,
	}
}

// Start launches the read and write pumps. Returns once both have spawned;
// the connection keeps running until Close or the peer disconnects.
func (s *Session) Start() {
	go s.writePump()
	go s.readPump()
}

// Close tears the connection down exactly once, cleaning up any table
// residency so a stale seat doesn't keep waiting on a dead connection.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.cancel()
		close(s.send)
		err = s.conn.Close()

		s.mu.RLock()
		userID, tbl, seat := s.userID, s.curTable, s.curSeat
		s.mu.RUnlock()
		if userID != "" {
			s.disp.LeaveMatchmaking(userID)
		}
		if tbl != nil && seat >= 0 {
			tbl.MarkDisconnected(seat)
		}
	})
	return err
}

// Send implements broadcast.Sink. msg is either a []engine.Event from a
// table's room broadcast (rendered from this session's own point of view)
// or a protocol.Message built for this session specifically (private hole
// cards, matchmaking acks).
func (s *Session) Send(msg any) error {
	switch v := msg.(type) {
	case []engine.Event:
		for _, out := range s.translate(v) {
			if err := s.write(out); err != nil {
				return err
			}
		}
		return nil
	case protocol.Message:
		return s.write(v)
	default:
		return nil
	}
}

func (s *Session) write(m protocol.Message) error {
	data, err := protocol.Marshal(m)
	if err != nil {
		return err
	}
	select {
	case s.send <- data:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		s.logger.Warn().Str("user", s.userID).Msg("send buffer full, closing session")
		_ = s.Close()
		return websocket.ErrCloseSent
	}
}

// translate renders a batch of pure engine events into the wire messages
// this session's seat should see, pulling the seat's own hole cards and the
// full showdown reveal straight from the table's current state rather than
// threading them through the event log (the log never carries hole cards,
// so every table's hand can be replayed honestly to every seat).
func (s *Session) translate(events []engine.Event) []protocol.Message {
	s.mu.RLock()
	tbl, seat := s.curTable, s.curSeat
	s.mu.RUnlock()
	if tbl == nil {
		return nil
	}
	st := tbl.State()

	var out []protocol.Message
	for _, e := range events {
		switch e.Type {
		case engine.EventHandStarted:
			out = append(out, gameState(st))
			if seat >= 0 && st.Seats[seat].HasCards {
				hole := st.Seats[seat].HoleCards
				cards := make([]string, len(hole))
				for i, c := range hole {
					cards[i] = c.String()
				}
				out = append(out, &protocol.GameHoleCards{HoleCards: cards})
			}
		case engine.EventActionApplied:
			sv := st.Seats[e.Seat]
			out = append(out, &protocol.GameActionTaken{
				Seat: e.Seat, Action: e.Action.String(), Amount: e.Amount,
				PlayerChips: sv.Chips, Pot: potTotal(st),
			})
			if seat == st.CurrentPlayerIndex {
				out = append(out, gameActionRequired(st, seat))
			}
		case engine.EventStreetAdvanced, engine.EventAllInRunout:
			out = append(out, gameState(st))
			if seat == st.CurrentPlayerIndex {
				out = append(out, gameActionRequired(st, seat))
			}
		case engine.EventShowdownReached:
			out = append(out, gameState(st))
			hands := make(map[int][]string)
			for i, sv := range st.Seats {
				if !sv.HasCards || sv.Folded {
					continue
				}
				cards := make([]string, len(sv.HoleCards))
				for j, c := range sv.HoleCards {
					cards[j] = c.String()
				}
				hands[i] = cards
			}
			out = append(out, &protocol.GameAllHoleCards{Hands: hands})
		case engine.EventHandCompleted:
			out = append(out, handComplete(st, e))
		}
	}
	return out
}

func potTotal(st engine.State) int {
	total := 0
	for _, p := range st.Pots {
		total += p.Amount
	}
	for _, sv := range st.Seats {
		total += sv.CurrentBet
	}
	return total
}

func gameState(st engine.State) *protocol.GameState {
	board := make([]string, len(st.Board))
	for i, c := range st.Board {
		board[i] = c.String()
	}
	seats := make([]protocol.SeatView, 0, len(st.Seats))
	for i, sv := range st.Seats {
		if !sv.Occupied {
			continue
		}
		seats = append(seats, protocol.SeatView{
			Seat: i, UserID: sv.UserID, Name: sv.DisplayName, Chips: sv.Chips,
			Bet: sv.CurrentBet, Folded: sv.Folded, AllIn: sv.AllIn, IsBot: sv.IsBot, Connected: sv.Connected,
		})
	}
	return &protocol.GameState{Street: st.Street.String(), Board: board, Pot: potTotal(st), Seats: seats, CurrentSeat: st.CurrentPlayerIndex}
}

func gameActionRequired(st engine.State, seat int) *protocol.GameActionRequired {
	valid := engine.GetValidActions(st, seat)
	actions := make([]string, len(valid))
	minRaise, maxRaise := 0, 0
	for i, v := range valid {
		actions[i] = v.Action.String()
		if v.Action == engine.Raise || v.Action == engine.Bet {
			minRaise, maxRaise = v.MinAmount, v.MaxAmount
		}
	}
	toCall := st.CurrentBet - st.Seats[seat].CurrentBet
	if toCall < 0 {
		toCall = 0
	}
	return &protocol.GameActionRequired{Seat: seat, ValidActions: actions, ToCall: toCall, MinRaise: minRaise, MaxRaise: maxRaise}
}

func handComplete(st engine.State, e engine.Event) *protocol.GameHandComplete {
	board := make([]string, len(st.Board))
	for i, c := range st.Board {
		board[i] = c.String()
	}
	winners := make([]protocol.Winner, len(e.Winners))
	for i, w := range e.Winners {
		winners[i] = protocol.Winner{Seat: w.Seat, Amount: w.Amount, HandRank: w.Rank.String()}
	}
	return &protocol.GameHandComplete{Board: board, Winners: winners}
}

// botUserID maps a bot credential's display name to a stable user-id
// without a lookup table, so the same bot name always resolves to the same
// provisioned identity across reconnects.
func botUserID(botName string) string {
	sum := sha256.Sum256([]byte("bot:" + botName))
	return "bot-" + hex.EncodeToString(sum[:8])
}

// readPump decodes inbound frames and dispatches them, following the
// teacher's connection.go read loop but switching on the msgpack envelope's
// type field instead of a JSON message struct.
func (s *Session) readPump() {
	defer func() { _ = s.Close() }()

	s.conn.SetReadLimit(maxMessageSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Error().Err(err).Msg("websocket read error")
			}
			return
		}
		s.handleFrame(data)
	}
}

// writePump flushes queued outbound frames and keeps the connection alive
// with periodic pings, mirroring the teacher's connection.go write loop.
func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = s.conn.Close()
	}()

	for {
		select {
		case data, ok := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
				s.logger.Error().Err(err).Msg("websocket write error")
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Session) handleFrame(data []byte) {
	msgType, err := protocol.PeekType(data)
	if err != nil {
		s.sendError("invalid_message", "could not decode frame")
		return
	}

	if msgType == protocol.TypeConnect {
		var c protocol.Connect
		if err := protocol.Unmarshal(data, &c); err != nil {
			s.sendError("invalid_message", "malformed connect frame")
			return
		}
		s.handleConnect(c)
		return
	}

	s.mu.RLock()
	userID := s.userID
	s.mu.RUnlock()
	if userID == "" {
		s.sendError("not_authenticated", "send connect first")
		return
	}

	switch msgType {
	case protocol.TypeMatchmakingJoin:
		var j protocol.MatchmakingJoin
		if err := protocol.Unmarshal(data, &j); err != nil {
			s.sendError("invalid_message", "malformed matchmaking:join frame")
			return
		}
		s.handleMatchmakingJoin(userID, j)
	case protocol.TypeMatchmakingLeave:
		s.disp.LeaveMatchmaking(userID)
	case protocol.TypeTableLeave:
		if err := s.disp.LeaveTable(userID); err != nil {
			s.sendError("leave_failed", err.Error())
			return
		}
		s.clearTable()
	case protocol.TypeGameAction:
		var a protocol.GameAction
		if err := protocol.Unmarshal(data, &a); err != nil {
			s.sendError("invalid_message", "malformed game:action frame")
			return
		}
		s.handleGameAction(userID, a)
	case protocol.TypeGameFastFold:
		oldTableID, newTbl, newSeat, cashedOut, err := s.disp.FastFold(userID)
		if err != nil {
			s.sendError("fast_fold_failed", err.Error())
			return
		}
		switch {
		case cashedOut:
			s.clearTable()
			_ = s.write(&protocol.TableLeft{TableID: oldTableID})
		case newTbl != nil:
			s.setTable(newTbl, newSeat)
			_ = s.write(&protocol.TableChange{TableID: newTbl.ID})
		}
	case protocol.TypeTableSpectate:
		var sp protocol.TableSpectate
		if err := protocol.Unmarshal(data, &sp); err != nil {
			s.sendError("invalid_message", "malformed table:spectate frame")
			return
		}
		s.handleSpectate(userID, sp)
	case protocol.TypePrivateCreate:
		var c protocol.PrivateCreate
		if err := protocol.Unmarshal(data, &c); err != nil {
			s.sendError("invalid_message", "malformed private:create frame")
			return
		}
		s.handlePrivateCreate(userID, c)
	case protocol.TypePrivateJoin:
		var j protocol.PrivateJoin
		if err := protocol.Unmarshal(data, &j); err != nil {
			s.sendError("invalid_message", "malformed private:join frame")
			return
		}
		s.handlePrivateJoin(userID, j)
	default:
		s.sendError("unknown_message_type", "unknown message type: "+msgType)
	}
}

func (s *Session) handleConnect(c protocol.Connect) {
	var userID string
	if c.IsBot {
		userID = botUserID(c.BotName)
	} else {
		resolved, ok := s.verify(c.AuthToken)
		if !ok {
			s.sendError("auth_failed", "invalid or expired token")
			_ = s.Close()
			return
		}
		userID = resolved
	}

	s.mu.Lock()
	s.userID = userID
	s.isBot = c.IsBot
	s.mu.Unlock()

	_ = s.write(&protocol.ConnectionEstablished{UserID: userID})
}

func (s *Session) handleMatchmakingJoin(userID string, j protocol.MatchmakingJoin) {
	level, err := parseBlindLevel(j.BlindLevel)
	if err != nil {
		s.sendError("invalid_blind_level", err.Error())
		return
	}
	if err := s.disp.JoinMatchmaking(userID, userID, s.isBotUser(), level, j.BuyIn); err != nil {
		s.sendError("join_failed", err.Error())
		return
	}
	_ = s.write(&protocol.MatchmakingQueued{BlindLevel: j.BlindLevel})
}

func (s *Session) handleGameAction(userID string, a protocol.GameAction) {
	tbl, seat, ok := s.disp.CurrentTable(userID)
	if !ok {
		s.sendError("not_seated", "not seated at any table")
		return
	}
	action, err := parseActionType(a.Action)
	if err != nil {
		s.sendError("invalid_action", err.Error())
		return
	}
	if err := tbl.Submit(engine.Command{Type: engine.CmdPlayerAction, Seat: seat, Action: action, Amount: a.Amount}); err != nil {
		s.sendError("action_rejected", err.Error())
	}
}

func (s *Session) handleSpectate(userID string, sp protocol.TableSpectate) {
	tbl, err := s.disp.Spectate(userID, sp.TableID)
	if err != nil {
		s.sendError("spectate_failed", err.Error())
		return
	}
	s.setTable(tbl, -1)
	_ = s.write(&protocol.TableSpectating{TableID: sp.TableID})
}

func (s *Session) handlePrivateCreate(userID string, c protocol.PrivateCreate) {
	level, err := parseBlindLevel(c.BlindLevel)
	if err != nil {
		s.sendError("invalid_blind_level", err.Error())
		return
	}
	tbl, seatIdx, err := s.disp.CreatePrivateTable(userID, level, c.BuyIn)
	if err != nil {
		s.sendError("create_failed", err.Error())
		return
	}
	s.setTable(tbl, seatIdx)
	_ = s.write(&protocol.TableJoined{TableID: tbl.ID, Seat: seatIdx})
}

func (s *Session) handlePrivateJoin(userID string, j protocol.PrivateJoin) {
	tbl, seatIdx, err := s.disp.JoinPrivateTable(userID, j.TableID, j.BuyIn)
	if err != nil {
		s.sendError("join_failed", err.Error())
		return
	}
	s.setTable(tbl, seatIdx)
	_ = s.write(&protocol.TableJoined{TableID: tbl.ID, Seat: seatIdx})
}

func (s *Session) setTable(tbl *table.Instance, seat int) {
	s.mu.Lock()
	s.curTable, s.curSeat = tbl, seat
	s.mu.Unlock()
	tbl.Room.Subscribe(seat, s)
}

func (s *Session) clearTable() {
	s.mu.Lock()
	tbl, seat := s.curTable, s.curSeat
	s.curTable, s.curSeat = nil, -1
	s.mu.Unlock()
	if tbl != nil && seat >= 0 {
		tbl.Room.Unsubscribe(seat)
	}
}

func (s *Session) isBotUser() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isBot
}

func (s *Session) sendError(code, message string) {
	_ = s.write(&protocol.TableError{Code: code, Message: message})
}

// parseBlindLevel reads the "small/big" string used on the wire (e.g.
// "1/3") into the structured level matchmaking queues key off.
func parseBlindLevel(level string) (matchmaking.BlindLevel, error) {
	parts := strings.SplitN(level, "/", 2)
	if len(parts) != 2 {
		return matchmaking.BlindLevel{}, fmt.Errorf("blind level %q must be \"small/big\"", level)
	}
	small, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return matchmaking.BlindLevel{}, fmt.Errorf("invalid small blind in %q: %w", level, err)
	}
	big, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return matchmaking.BlindLevel{}, fmt.Errorf("invalid big blind in %q: %w", level, err)
	}
	return matchmaking.BlindLevel{SmallBlind: small, BigBlind: big}, nil
}

func parseActionType(action string) (engine.ActionType, error) {
	switch action {
	case "fold":
		return engine.Fold, nil
	case "check":
		return engine.Check, nil
	case "call":
		return engine.Call, nil
	case "bet":
		return engine.Bet, nil
	case "raise":
		return engine.Raise, nil
	case "allin":
		return engine.AllIn, nil
	default:
		return 0, fmt.Errorf("unknown action %q", action)
	}
}
