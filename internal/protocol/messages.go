// Package protocol defines the msgpack wire messages exchanged between a
// client session and the server, and the generic envelope used to marshal
// and dispatch them without running msgp code generation.
package protocol

// Client -> Server event types.
const (
	TypeConnect          = "connect"
	TypeMatchmakingJoin  = "matchmaking:join"
	TypeMatchmakingLeave = "matchmaking:leave"
	TypeTableLeave       = "table:leave"
	TypeGameAction       = "game:action"
	TypeGameFastFold     = "game:fast_fold"
	TypeTableSpectate    = "table:spectate"
	TypePrivateCreate    = "private:create"
	TypePrivateJoin      = "private:join"
)

// Server -> Client event types.
const (
	TypeConnectionEstablished  = "connection:established"
	TypeMatchmakingQueued      = "matchmaking:queued"
	TypeMatchmakingTableAssign = "matchmaking:table_assigned"
	TypeTableJoined            = "table:joined"
	TypeTableChange            = "table:change"
	TypeTableLeft              = "table:left"
	TypeTableBusted            = "table:busted"
	TypeTableError             = "table:error"
	TypeTableSpectating        = "table:spectating"
	TypeGameState              = "game:state"
	TypeGameHoleCards          = "game:hole_cards"
	TypeGameAllHoleCards       = "game:all_hole_cards"
	TypeGameActionRequired     = "game:action_required"
	TypeGameActionTaken        = "game:action_taken"
	TypeGameHandComplete       = "game:hand_complete"
	TypeMaintenanceStatus      = "maintenance:status"
	TypeAnnouncementStatus     = "announcement:status"
	TypeGameCompleted          = "game:completed"
)

// Message is anything that can be flattened to a msgpack-safe map for
// Marshal and rebuilt from one by Unmarshal. Every wire type below
// implements it.
type Message interface {
	toMap() map[string]interface{}
	fromMap(m map[string]interface{}) error
}

// --- Client -> Server ---

// Connect is the first frame a session must send. Either AuthToken is
// resolved through a TokenVerifier, or IsBot is set and BotName is mapped
// deterministically to a provisioned bot user.
type Connect struct {
	Type      string
	AuthToken string
	IsBot     bool
	BotName   string
	BotAvatar string
}

func (c Connect) toMap() map[string]interface{} {
	return map[string]interface{}{
		"type": TypeConnect, "auth_token": c.AuthToken,
		"is_bot": c.IsBot, "bot_name": c.BotName, "bot_avatar": c.BotAvatar,
	}
}

func (c *Connect) fromMap(m map[string]interface{}) error {
	c.Type = TypeConnect
	c.AuthToken = str(m, "auth_token")
	c.IsBot = boolean(m, "is_bot")
	c.BotName = str(m, "bot_name")
	c.BotAvatar = str(m, "bot_avatar")
	return nil
}

// MatchmakingJoin requests a seat at the given blind level, e.g. "1/3".
type MatchmakingJoin struct {
	Type       string
	BlindLevel string
	BuyIn      int
}

func (m MatchmakingJoin) toMap() map[string]interface{} {
	return map[string]interface{}{"type": TypeMatchmakingJoin, "blind_level": m.BlindLevel, "buy_in": m.BuyIn}
}

func (j *MatchmakingJoin) fromMap(m map[string]interface{}) error {
	j.Type = TypeMatchmakingJoin
	j.BlindLevel = str(m, "blind_level")
	j.BuyIn = integer(m, "buy_in")
	return nil
}

// MatchmakingLeave withdraws a pending queue entry.
type MatchmakingLeave struct{ Type string }

func (l MatchmakingLeave) toMap() map[string]interface{} { return map[string]interface{}{"type": TypeMatchmakingLeave} }
func (l *MatchmakingLeave) fromMap(map[string]interface{}) error {
	l.Type = TypeMatchmakingLeave
	return nil
}

// TableLeave asks to stand up from the current table after the hand ends.
type TableLeave struct{ Type string }

func (l TableLeave) toMap() map[string]interface{} { return map[string]interface{}{"type": TypeTableLeave} }
func (l *TableLeave) fromMap(map[string]interface{}) error {
	l.Type = TypeTableLeave
	return nil
}

// GameAction is a player's response to an action_required prompt.
type GameAction struct {
	Type   string
	Action string // fold, check, call, bet, raise, allin
	Amount int
}

func (a GameAction) toMap() map[string]interface{} {
	return map[string]interface{}{"type": TypeGameAction, "action": a.Action, "amount": a.Amount}
}

func (a *GameAction) fromMap(m map[string]interface{}) error {
	a.Type = TypeGameAction
	a.Action = str(m, "action")
	a.Amount = integer(m, "amount")
	return nil
}

// GameFastFold folds immediately and requests reseating at a fresh table.
type GameFastFold struct{ Type string }

func (f GameFastFold) toMap() map[string]interface{} { return map[string]interface{}{"type": TypeGameFastFold} }
func (f *GameFastFold) fromMap(map[string]interface{}) error {
	f.Type = TypeGameFastFold
	return nil
}

// TableSpectate joins a table's broadcast room as a read-only observer.
type TableSpectate struct {
	Type    string
	TableID string
}

func (s TableSpectate) toMap() map[string]interface{} {
	return map[string]interface{}{"type": TypeTableSpectate, "table_id": s.TableID}
}

func (s *TableSpectate) fromMap(m map[string]interface{}) error {
	s.Type = TypeTableSpectate
	s.TableID = str(m, "table_id")
	return nil
}

// PrivateCreate opens a private, invite-only table at the given stakes.
type PrivateCreate struct {
	Type       string
	BlindLevel string
	BuyIn      int
}

func (c PrivateCreate) toMap() map[string]interface{} {
	return map[string]interface{}{"type": TypePrivateCreate, "blind_level": c.BlindLevel, "buy_in": c.BuyIn}
}

func (c *PrivateCreate) fromMap(m map[string]interface{}) error {
	c.Type = TypePrivateCreate
	c.BlindLevel = str(m, "blind_level")
	c.BuyIn = integer(m, "buy_in")
	return nil
}

// PrivateJoin seats the session at a previously created private table.
type PrivateJoin struct {
	Type    string
	TableID string
	BuyIn   int
}

func (j PrivateJoin) toMap() map[string]interface{} {
	return map[string]interface{}{"type": TypePrivateJoin, "table_id": j.TableID, "buy_in": j.BuyIn}
}

func (j *PrivateJoin) fromMap(m map[string]interface{}) error {
	j.Type = TypePrivateJoin
	j.TableID = str(m, "table_id")
	j.BuyIn = integer(m, "buy_in")
	return nil
}

// --- Server -> Client ---

// ConnectionEstablished confirms authentication succeeded.
type ConnectionEstablished struct {
	Type   string
	UserID string
}

func (e ConnectionEstablished) toMap() map[string]interface{} {
	return map[string]interface{}{"type": TypeConnectionEstablished, "user_id": e.UserID}
}

func (e *ConnectionEstablished) fromMap(m map[string]interface{}) error {
	e.Type = TypeConnectionEstablished
	e.UserID = str(m, "user_id")
	return nil
}

// MatchmakingQueued reports a queue position after joining a pool.
type MatchmakingQueued struct {
	Type       string
	BlindLevel string
	Position   int
}

func (q MatchmakingQueued) toMap() map[string]interface{} {
	return map[string]interface{}{"type": TypeMatchmakingQueued, "blind_level": q.BlindLevel, "position": q.Position}
}

func (q *MatchmakingQueued) fromMap(m map[string]interface{}) error {
	q.Type = TypeMatchmakingQueued
	q.BlindLevel = str(m, "blind_level")
	q.Position = integer(m, "position")
	return nil
}

// MatchmakingTableAssigned tells a queued session which table seated it.
type MatchmakingTableAssigned struct {
	Type    string
	TableID string
}

func (a MatchmakingTableAssigned) toMap() map[string]interface{} {
	return map[string]interface{}{"type": TypeMatchmakingTableAssign, "table_id": a.TableID}
}

func (a *MatchmakingTableAssigned) fromMap(m map[string]interface{}) error {
	a.Type = TypeMatchmakingTableAssign
	a.TableID = str(m, "table_id")
	return nil
}

// SeatView is one occupied or empty seat as shown to a client.
type SeatView struct {
	Seat      int
	UserID    string
	Name      string
	Chips     int
	Bet       int
	Folded    bool
	AllIn     bool
	IsBot     bool
	Connected bool
}

func (p SeatView) toMap() map[string]interface{} {
	return map[string]interface{}{
		"seat": p.Seat, "user_id": p.UserID, "name": p.Name, "chips": p.Chips,
		"bet": p.Bet, "folded": p.Folded, "all_in": p.AllIn, "is_bot": p.IsBot, "connected": p.Connected,
	}
}

func seatViewFromMap(m map[string]interface{}) SeatView {
	return SeatView{
		Seat: integer(m, "seat"), UserID: str(m, "user_id"), Name: str(m, "name"), Chips: integer(m, "chips"),
		Bet: integer(m, "bet"), Folded: boolean(m, "folded"), AllIn: boolean(m, "all_in"),
		IsBot: boolean(m, "is_bot"), Connected: boolean(m, "connected"),
	}
}

// TableJoined is sent once a seat is confirmed, with the rest of the table.
type TableJoined struct {
	Type    string
	TableID string
	Seat    int
	Seats   []SeatView
}

func (j TableJoined) toMap() map[string]interface{} {
	return map[string]interface{}{
		"type": TypeTableJoined, "table_id": j.TableID, "seat": j.Seat, "seats": seatViewsToIntf(j.Seats),
	}
}

func (j *TableJoined) fromMap(m map[string]interface{}) error {
	j.Type = TypeTableJoined
	j.TableID = str(m, "table_id")
	j.Seat = integer(m, "seat")
	j.Seats = seatViewsFromIntf(m["seats"])
	return nil
}

// TableChange announces a fast-fold reseating onto a different table.
type TableChange struct {
	Type    string
	TableID string
}

func (c TableChange) toMap() map[string]interface{} {
	return map[string]interface{}{"type": TypeTableChange, "table_id": c.TableID}
}

func (c *TableChange) fromMap(m map[string]interface{}) error {
	c.Type = TypeTableChange
	c.TableID = str(m, "table_id")
	return nil
}

// TableLeft confirms a voluntary stand-up.
type TableLeft struct {
	Type    string
	TableID string
}

func (l TableLeft) toMap() map[string]interface{} {
	return map[string]interface{}{"type": TypeTableLeft, "table_id": l.TableID}
}

func (l *TableLeft) fromMap(m map[string]interface{}) error {
	l.Type = TypeTableLeft
	l.TableID = str(m, "table_id")
	return nil
}

// TableBusted reports a forced departure after losing one's entire stack.
type TableBusted struct {
	Type    string
	TableID string
}

func (b TableBusted) toMap() map[string]interface{} {
	return map[string]interface{}{"type": TypeTableBusted, "table_id": b.TableID}
}

func (b *TableBusted) fromMap(m map[string]interface{}) error {
	b.Type = TypeTableBusted
	b.TableID = str(m, "table_id")
	return nil
}

// TableError reports an input-invalid or external-transient failure; it
// never accompanies a state mutation.
type TableError struct {
	Type    string
	Code    string
	Message string
}

func (e TableError) toMap() map[string]interface{} {
	return map[string]interface{}{"type": TypeTableError, "code": e.Code, "message": e.Message}
}

func (e *TableError) fromMap(m map[string]interface{}) error {
	e.Type = TypeTableError
	e.Code = str(m, "code")
	e.Message = str(m, "message")
	return nil
}

// TableSpectating confirms read-only observation of a table's room.
type TableSpectating struct {
	Type    string
	TableID string
}

func (s TableSpectating) toMap() map[string]interface{} {
	return map[string]interface{}{"type": TypeTableSpectating, "table_id": s.TableID}
}

func (s *TableSpectating) fromMap(m map[string]interface{}) error {
	s.Type = TypeTableSpectating
	s.TableID = str(m, "table_id")
	return nil
}

// GameState is broadcast room-wide on every state transition.
type GameState struct {
	Type        string
	HandID      string
	Street      string
	Board       []string
	Pot         int
	Seats       []SeatView
	CurrentSeat int
}

func (s GameState) toMap() map[string]interface{} {
	return map[string]interface{}{
		"type": TypeGameState, "hand_id": s.HandID, "street": s.Street, "board": stringsToIntf(s.Board),
		"pot": s.Pot, "seats": seatViewsToIntf(s.Seats), "current_seat": s.CurrentSeat,
	}
}

func (s *GameState) fromMap(m map[string]interface{}) error {
	s.Type = TypeGameState
	s.HandID = str(m, "hand_id")
	s.Street = str(m, "street")
	s.Board = stringsFromIntf(m["board"])
	s.Pot = integer(m, "pot")
	s.Seats = seatViewsFromIntf(m["seats"])
	s.CurrentSeat = integer(m, "current_seat")
	return nil
}

// GameHoleCards is unicast privately to one seat at the start of a hand.
type GameHoleCards struct {
	Type      string
	HandID    string
	HoleCards []string
}

func (h GameHoleCards) toMap() map[string]interface{} {
	return map[string]interface{}{"type": TypeGameHoleCards, "hand_id": h.HandID, "hole_cards": stringsToIntf(h.HoleCards)}
}

func (h *GameHoleCards) fromMap(m map[string]interface{}) error {
	h.Type = TypeGameHoleCards
	h.HandID = str(m, "hand_id")
	h.HoleCards = stringsFromIntf(m["hole_cards"])
	return nil
}

// GameAllHoleCards is broadcast at showdown, keyed by seat.
type GameAllHoleCards struct {
	Type   string
	HandID string
	Hands  map[int][]string
}

func (h GameAllHoleCards) toMap() map[string]interface{} {
	hands := make(map[string]interface{}, len(h.Hands))
	for seat, cards := range h.Hands {
		hands[itoa(seat)] = stringsToIntf(cards)
	}
	return map[string]interface{}{"type": TypeGameAllHoleCards, "hand_id": h.HandID, "hands": hands}
}

func (h *GameAllHoleCards) fromMap(m map[string]interface{}) error {
	h.Type = TypeGameAllHoleCards
	h.HandID = str(m, "hand_id")
	h.Hands = map[int][]string{}
	if raw, ok := m["hands"].(map[string]interface{}); ok {
		for k, v := range raw {
			h.Hands[atoi(k)] = stringsFromIntf(v)
		}
	}
	return nil
}

// GameActionRequired prompts exactly one seat to act within a deadline.
type GameActionRequired struct {
	Type            string
	HandID          string
	Seat            int
	ValidActions    []string
	ToCall          int
	MinRaise        int
	MaxRaise        int
	TimeRemainingMs int
}

func (r GameActionRequired) toMap() map[string]interface{} {
	return map[string]interface{}{
		"type": TypeGameActionRequired, "hand_id": r.HandID, "seat": r.Seat,
		"valid_actions": stringsToIntf(r.ValidActions), "to_call": r.ToCall,
		"min_raise": r.MinRaise, "max_raise": r.MaxRaise, "time_remaining_ms": r.TimeRemainingMs,
	}
}

func (r *GameActionRequired) fromMap(m map[string]interface{}) error {
	r.Type = TypeGameActionRequired
	r.HandID = str(m, "hand_id")
	r.Seat = integer(m, "seat")
	r.ValidActions = stringsFromIntf(m["valid_actions"])
	r.ToCall = integer(m, "to_call")
	r.MinRaise = integer(m, "min_raise")
	r.MaxRaise = integer(m, "max_raise")
	r.TimeRemainingMs = integer(m, "time_remaining_ms")
	return nil
}

// GameActionTaken is broadcast after every action, including blinds and
// forced timeouts.
type GameActionTaken struct {
	Type        string
	HandID      string
	Seat        int
	Action      string
	Amount      int
	PlayerChips int
	Pot         int
}

func (a GameActionTaken) toMap() map[string]interface{} {
	return map[string]interface{}{
		"type": TypeGameActionTaken, "hand_id": a.HandID, "seat": a.Seat, "action": a.Action,
		"amount": a.Amount, "player_chips": a.PlayerChips, "pot": a.Pot,
	}
}

func (a *GameActionTaken) fromMap(m map[string]interface{}) error {
	a.Type = TypeGameActionTaken
	a.HandID = str(m, "hand_id")
	a.Seat = integer(m, "seat")
	a.Action = str(m, "action")
	a.Amount = integer(m, "amount")
	a.PlayerChips = integer(m, "player_chips")
	a.Pot = integer(m, "pot")
	return nil
}

// Winner is one seat awarded chips at showdown or by uncontested fold.
type Winner struct {
	Seat      int
	Amount    int
	HoleCards []string
	HandRank  string
}

func (w Winner) toMap() map[string]interface{} {
	return map[string]interface{}{
		"seat": w.Seat, "amount": w.Amount, "hole_cards": stringsToIntf(w.HoleCards), "hand_rank": w.HandRank,
	}
}

func winnerFromMap(m map[string]interface{}) Winner {
	return Winner{Seat: integer(m, "seat"), Amount: integer(m, "amount"), HoleCards: stringsFromIntf(m["hole_cards"]), HandRank: str(m, "hand_rank")}
}

// ShowdownHand is a non-winning hand voluntarily shown at showdown.
type ShowdownHand struct {
	Seat      int
	HoleCards []string
	HandRank  string
}

func (s ShowdownHand) toMap() map[string]interface{} {
	return map[string]interface{}{"seat": s.Seat, "hole_cards": stringsToIntf(s.HoleCards), "hand_rank": s.HandRank}
}

func showdownHandFromMap(m map[string]interface{}) ShowdownHand {
	return ShowdownHand{Seat: integer(m, "seat"), HoleCards: stringsFromIntf(m["hole_cards"]), HandRank: str(m, "hand_rank")}
}

// GameHandComplete ends a hand with its winners and, for showdowns, every
// hand that was turned up.
type GameHandComplete struct {
	Type     string
	HandID   string
	Board    []string
	Winners  []Winner
	Showdown []ShowdownHand
}

func (c GameHandComplete) toMap() map[string]interface{} {
	winners := make([]interface{}, len(c.Winners))
	for i, w := range c.Winners {
		winners[i] = w.toMap()
	}
	shown := make([]interface{}, len(c.Showdown))
	for i, s := range c.Showdown {
		shown[i] = s.toMap()
	}
	return map[string]interface{}{
		"type": TypeGameHandComplete, "hand_id": c.HandID, "board": stringsToIntf(c.Board),
		"winners": winners, "showdown": shown,
	}
}

func (c *GameHandComplete) fromMap(m map[string]interface{}) error {
	c.Type = TypeGameHandComplete
	c.HandID = str(m, "hand_id")
	c.Board = stringsFromIntf(m["board"])
	if raw, ok := m["winners"].([]interface{}); ok {
		for _, v := range raw {
			if wm, ok := v.(map[string]interface{}); ok {
				c.Winners = append(c.Winners, winnerFromMap(wm))
			}
		}
	}
	if raw, ok := m["showdown"].([]interface{}); ok {
		for _, v := range raw {
			if sm, ok := v.(map[string]interface{}); ok {
				c.Showdown = append(c.Showdown, showdownHandFromMap(sm))
			}
		}
	}
	return nil
}

// MaintenanceStatus toggles the server-wide maintenance banner.
type MaintenanceStatus struct {
	Type    string
	Active  bool
	Message string
}

func (s MaintenanceStatus) toMap() map[string]interface{} {
	return map[string]interface{}{"type": TypeMaintenanceStatus, "active": s.Active, "message": s.Message}
}

func (s *MaintenanceStatus) fromMap(m map[string]interface{}) error {
	s.Type = TypeMaintenanceStatus
	s.Active = boolean(m, "active")
	s.Message = str(m, "message")
	return nil
}

// AnnouncementStatus carries a one-off operator announcement.
type AnnouncementStatus struct {
	Type    string
	Message string
}

func (a AnnouncementStatus) toMap() map[string]interface{} {
	return map[string]interface{}{"type": TypeAnnouncementStatus, "message": a.Message}
}

func (a *AnnouncementStatus) fromMap(m map[string]interface{}) error {
	a.Type = TypeAnnouncementStatus
	a.Message = str(m, "message")
	return nil
}

// PositionStatSummary, StreetStatSummary and CategoryStatSummary are the
// per-position, per-street and per-hand-category totals taken from a
// StatsWriter's running aggregate; PlayerDetailedStats is
// their rolled-up view and GameCompleted reports them across a bounded run
// for bot-evaluation tooling.

type PositionStatSummary struct {
	Hands     int
	NetBB     float64
	BBPerHand float64
}

func (s PositionStatSummary) toMap() map[string]interface{} {
	return map[string]interface{}{"hands": s.Hands, "net_bb": s.NetBB, "bb_per_hand": s.BBPerHand}
}

type StreetStatSummary struct {
	HandsEnded int
	NetBB      float64
	BBPerHand  float64
}

func (s StreetStatSummary) toMap() map[string]interface{} {
	return map[string]interface{}{"hands_ended": s.HandsEnded, "net_bb": s.NetBB, "bb_per_hand": s.BBPerHand}
}

type CategoryStatSummary struct {
	Hands     int
	NetBB     float64
	BBPerHand float64
}

func (s CategoryStatSummary) toMap() map[string]interface{} {
	return map[string]interface{}{"hands": s.Hands, "net_bb": s.NetBB, "bb_per_hand": s.BBPerHand}
}

type PlayerDetailedStats struct {
	BB100             float64
	Mean              float64
	StdDev            float64
	WinRate           float64
	ShowdownWinRate   float64
	PositionStats     map[string]PositionStatSummary
	StreetStats       map[string]StreetStatSummary
	HandCategoryStats map[string]CategoryStatSummary
}

func (s PlayerDetailedStats) toMap() map[string]interface{} {
	pos := make(map[string]interface{}, len(s.PositionStats))
	for k, v := range s.PositionStats {
		pos[k] = v.toMap()
	}
	street := make(map[string]interface{}, len(s.StreetStats))
	for k, v := range s.StreetStats {
		street[k] = v.toMap()
	}
	cat := make(map[string]interface{}, len(s.HandCategoryStats))
	for k, v := range s.HandCategoryStats {
		cat[k] = v.toMap()
	}
	return map[string]interface{}{
		"bb_100": s.BB100, "mean": s.Mean, "std_dev": s.StdDev, "win_rate": s.WinRate,
		"showdown_win_rate": s.ShowdownWinRate, "position_stats": pos, "street_stats": street,
		"hand_category_stats": cat,
	}
}

// GameCompletedPlayer summarizes one bot's performance across a bounded run.
type GameCompletedPlayer struct {
	UserID        string
	DisplayName   string
	Hands         int
	NetChips      int64
	AvgPerHand    float64
	TotalWon      int64
	TotalLost     int64
	LastDelta     int
	DetailedStats *PlayerDetailedStats
}

func (p GameCompletedPlayer) toMap() map[string]interface{} {
	m := map[string]interface{}{
		"user_id": p.UserID, "display_name": p.DisplayName, "hands": p.Hands, "net_chips": p.NetChips,
		"avg_per_hand": p.AvgPerHand, "total_won": p.TotalWon, "total_lost": p.TotalLost, "last_delta": p.LastDelta,
	}
	if p.DetailedStats != nil {
		m["detailed_stats"] = p.DetailedStats.toMap()
	}
	return m
}

// GameCompleted is sent when a table reaches a configured hand cap,
// reporting each seated bot's net result for a regression harness.
type GameCompleted struct {
	Type           string
	TableID        string
	HandsCompleted uint64
	HandLimit      uint64
	Reason         string
	Seed           int64
	Players        []GameCompletedPlayer
}

func (c GameCompleted) toMap() map[string]interface{} {
	players := make([]interface{}, len(c.Players))
	for i, p := range c.Players {
		players[i] = p.toMap()
	}
	return map[string]interface{}{
		"type": TypeGameCompleted, "table_id": c.TableID, "hands_completed": c.HandsCompleted,
		"hand_limit": c.HandLimit, "reason": c.Reason, "seed": c.Seed, "players": players,
	}
}

func (c *GameCompleted) fromMap(m map[string]interface{}) error {
	c.Type = TypeGameCompleted
	c.TableID = str(m, "table_id")
	c.HandsCompleted = uint64(integer(m, "hands_completed"))
	c.HandLimit = uint64(integer(m, "hand_limit"))
	c.Reason = str(m, "reason")
	c.Seed = int64(integer(m, "seed"))
	// Each player's scalar fields are decoded; DetailedStats is not.
	if raw, ok := m["players"].([]interface{}); ok {
		for _, v := range raw {
			pm, ok := v.(map[string]interface{})
			if !ok {
				continue
			}
			avg, _ := pm["avg_per_hand"].(float64)
			c.Players = append(c.Players, GameCompletedPlayer{
				UserID: str(pm, "user_id"), DisplayName: str(pm, "display_name"), Hands: integer(pm, "hands"),
				NetChips: int64(integer(pm, "net_chips")), AvgPerHand: avg, TotalWon: int64(integer(pm, "total_won")),
				TotalLost: int64(integer(pm, "total_lost")), LastDelta: integer(pm, "last_delta"),
			})
		}
	}
	return nil
}
