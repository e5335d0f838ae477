// Package app wires together the table registry, matchmaking pool,
// persistence collaborators, and bot runners into the single Dispatcher a
// session needs, following the teacher's server.go role of owning every
// long-lived subsystem and exposing a narrow surface to the connection
// layer.
package app

import (
	"context"
	cryptorand "crypto/rand"
	"encoding/hex"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/okihara/plo-game-sub002/internal/bot"
	"github.com/okihara/plo-game-sub002/internal/card"
	"github.com/okihara/plo-game-sub002/internal/config"
	"github.com/okihara/plo-game-sub002/internal/engine"
	"github.com/okihara/plo-game-sub002/internal/equity"
	"github.com/okihara/plo-game-sub002/internal/gameid"
	"github.com/okihara/plo-game-sub002/internal/matchmaking"
	"github.com/okihara/plo-game-sub002/internal/persistence"
	"github.com/okihara/plo-game-sub002/internal/pokererr"
	"github.com/okihara/plo-game-sub002/internal/protocol"
	"github.com/okihara/plo-game-sub002/internal/seat"
	"github.com/okihara/plo-game-sub002/internal/table"
	"github.com/okihara/plo-game-sub002/internal/tablemgr"
)

const minTablePlayers = 2
const maxTablePlayers = 6

// App owns every long-lived subsystem a running server needs and
// implements session.Dispatcher against them.
type App struct {
	cfg       *config.Config
	logger    zerolog.Logger
	clock     quartz.Clock
	tables    *tablemgr.Manager
	poolsMu   sync.Mutex
	pools     map[matchmaking.BlindLevel]*matchmaking.Pool
	runCtx    context.Context
	bankroll  persistence.Bankroll
	history   persistence.HandHistoryWriter
	stats     persistence.StatsWriter
	maintOn   *maintenanceGate
	botConfig bot.Config
	rngSeed   int64
}

// New builds an App around cfg. The caller is responsible for calling Run
// to start the table observer and matchmaking pools.
func New(cfg *config.Config, logger zerolog.Logger, clock quartz.Clock, rngSeed int64, bankroll persistence.Bankroll, history persistence.HandHistoryWriter, stats persistence.StatsWriter) *App {
	a := &App{
		cfg:       cfg,
		logger:    logger,
		clock:     clock,
		bankroll:  bankroll,
		history:   history,
		stats:     stats,
		maintOn:   &maintenanceGate{},
		botConfig: bot.DefaultConfig(),
		rngSeed:   rngSeed,
		pools:     make(map[matchmaking.BlindLevel]*matchmaking.Pool),
	}
	a.maintOn.set(cfg.Maintenance.Active)
	a.tables = tablemgr.New(logger, clock, rngSeed, a)
	return a
}

// OnEvents implements table.HandObserver: every event batch a table
// produces is logged, and a completed hand is archived to HandHistoryWriter
// and folded into each seated player's running stats.
func (a *App) OnEvents(tableID string, state engine.State, events []engine.Event) {
	ranOut := false
	for _, e := range events {
		if e.Type == engine.EventAllInRunout {
			ranOut = true
		}
	}
	for _, e := range events {
		if e.Type != engine.EventHandCompleted {
			continue
		}
		go a.recordHand(tableID, state, e, ranOut)
	}
}

// OnHandLimitReached implements table.HandObserver: it builds and broadcasts
// a game:completed report once a table has played its configured number of
// hands, for bot-evaluation runs that need a defined stopping point.
func (a *App) OnHandLimitReached(tableID string, state engine.State, handLimit int) {
	tbl, ok := a.tables.Get(tableID)
	if !ok || a.stats == nil {
		return
	}
	var players []protocol.GameCompletedPlayer
	for _, sv := range state.Seats {
		if !sv.Occupied {
			continue
		}
		st := a.stats.Stats(sv.UserID)
		players = append(players, protocol.GameCompletedPlayer{
			UserID: sv.UserID, DisplayName: sv.DisplayName, Hands: st.Hands,
			NetChips: int64(st.NetChips), AvgPerHand: averagePerHand(st),
			TotalWon: int64(st.TotalWon), TotalLost: int64(st.TotalLost), LastDelta: st.LastDelta,
			DetailedStats: detailedStatsFrom(st),
		})
	}
	tbl.Room.Broadcast(&protocol.GameCompleted{
		TableID: tableID, HandsCompleted: uint64(state.HandNumber), HandLimit: uint64(handLimit),
		Reason: "hand_limit_reached", Seed: a.rngSeed, Players: players,
	})
}

// recordHand archives one completed hand and folds it into every seated
// player's running stats. ranOut reports whether the hand reached showdown
// via an all-in runout rather than a contested river, which gates the
// Monte-Carlo all-in-EV computation: it is only meaningful, and only worth
// its cost, when no further decisions remained to be made.
func (a *App) recordHand(tableID string, state engine.State, e engine.Event, ranOut bool) {
	record := persistence.HandRecord{
		TableID: tableID, HandID: gameid.Generate(), HandNumber: state.HandNumber,
		Button: state.DealerPosition, SmallBlind: state.SmallBlind, BigBlind: state.BigBlind,
		Board: cardsToStrings(state.Board), Rake: state.RakeTaken,
	}

	wentToShowdown := state.Street == engine.Showdown
	deltas := computeHandStats(state)

	var evProfits map[int]int
	if ranOut {
		evProfits = computeAllInEVProfits(a.rngSeed, state)
	}

	var board5 [5]card.Card
	copy(board5[:], state.Board)

	for i, sv := range state.Seats {
		if !sv.Occupied || !sv.InHand {
			continue
		}
		net := 0
		for _, w := range e.Winners {
			if w.Seat == i {
				net += w.Amount
			}
		}
		net -= sv.TotalBet

		wonAtShowdown := false
		var category string
		if wentToShowdown && !sv.Folded {
			for _, w := range e.Winners {
				if w.Seat == i && w.Amount > 0 {
					wonAtShowdown = true
				}
			}
			if sv.HasCards && len(state.Board) == 5 {
				category = card.EvaluatePLO(sv.HoleCards, board5).String()
			}
		}

		var holeCards []string
		if wentToShowdown && !sv.Folded {
			holeCards = cardsToStrings(sv.HoleCards[:])
		}

		record.Players = append(record.Players, persistence.HandRecordPlayer{
			Seat: i, UserID: sv.UserID, DisplayName: sv.DisplayName, HoleCards: holeCards,
			NetChips: net, WentToShowdown: wentToShowdown && !sv.Folded, WonAtShowdown: wonAtShowdown,
		})

		if a.stats == nil {
			continue
		}
		d := deltas[i]
		d.NetChips = net
		d.NetBB = 0
		if state.BigBlind > 0 {
			d.NetBB = float64(net) / float64(state.BigBlind)
		}
		d.WentToShowdown = wentToShowdown && !sv.Folded
		d.WonAtShowdown = wonAtShowdown
		d.Position = positionLabel(state, i)
		d.StreetReached = state.Street.String()
		d.HandCategory = category
		if profit, ok := evProfits[i]; ok {
			d.AllInEVProfit = profit
		}
		_ = a.stats.IncrementStats(sv.UserID, d)
	}
	if a.history != nil {
		if err := a.history.RecordHand(tableID, record); err != nil {
			a.logger.Warn().Err(err).Str("table", tableID).Msg("failed to record hand history")
		}
	}
}

// computeAllInEVProfits runs the Monte-Carlo all-in equity calculation
// against the hand's settled side pots, seeded deterministically off the
// table's rng seed and hand number so a replay reproduces the same figures.
func computeAllInEVProfits(rngSeed int64, state engine.State) map[int]int {
	hands := make(map[int]equity.Hole)
	totalBetBySeat := make(map[int]int)
	var foldedDead []card.Card
	for i, sv := range state.Seats {
		if !sv.InHand {
			continue
		}
		totalBetBySeat[i] = sv.TotalBet
		if sv.Folded {
			foldedDead = append(foldedDead, sv.HoleCards[:]...)
			continue
		}
		hands[i] = sv.HoleCards
	}
	if len(state.SettledPots) == 0 || len(hands) < 2 {
		return nil
	}
	pots := make([]equity.SidePot, len(state.SettledPots))
	for i, p := range state.SettledPots {
		pots[i] = equity.SidePot{Amount: p.Amount, Eligible: p.Eligible}
	}
	rng := rand.New(rand.NewSource(rngSeed ^ int64(state.HandNumber)))
	return equity.AllInEVProfits(state.Board, hands, foldedDead, pots, totalBetBySeat, rng)
}

func (a *App) poolFor(level matchmaking.BlindLevel) *matchmaking.Pool {
	a.poolsMu.Lock()
	defer a.poolsMu.Unlock()
	if p, ok := a.pools[level]; ok {
		return p
	}
	p := matchmaking.New(minTablePlayers, maxTablePlayers, func(l matchmaking.BlindLevel, batch []matchmaking.Request) ([]matchmaking.Request, error) {
		return a.seatBatch(l, batch)
	})
	a.pools[level] = p
	if a.runCtx != nil {
		go p.Run(a.runCtx, time.Second)
	}
	return p
}

// Run starts every matchmaking pool's drain loop until ctx is cancelled,
// including pools created for blind levels no one has queued for yet.
func (a *App) Run(ctx context.Context) {
	a.poolsMu.Lock()
	a.runCtx = ctx
	for _, p := range a.pools {
		go p.Run(ctx, time.Second)
	}
	a.poolsMu.Unlock()
}

func (a *App) tableConfig(level matchmaking.BlindLevel) table.Config {
	return table.Config{
		SmallBlind:      level.SmallBlind,
		BigBlind:        level.BigBlind,
		Rake:            engine.RakeConfig{Percent: a.cfg.Game.RakePercent, CapBB: a.cfg.Game.RakeCapBB},
		ActionTimeout:   a.cfg.ActionTimeout(),
		DisconnectGrace: a.cfg.DisconnectGrace(),
	}
}

func (a *App) seatBatch(level matchmaking.BlindLevel, batch []matchmaking.Request) ([]matchmaking.Request, error) {
	if a.maintOn.get() {
		return batch, nil
	}
	tbl := a.tables.CreateTable(a.tableConfig(level))
	for _, req := range batch {
		if err := a.seatPlayer(tbl, req); err != nil {
			a.logger.Warn().Err(err).Str("user", req.UserID).Msg("failed to seat matched player")
			continue
		}
	}
	return nil, nil
}

func (a *App) seatPlayer(tbl *table.Instance, req matchmaking.Request) error {
	idx, err := tbl.Seats.Seat(seat.Occupant{
		UserID: req.UserID, DisplayName: req.DisplayName, IsBot: req.IsBot, Connected: true, Chips: req.BuyIn,
	})
	if err != nil {
		return err
	}
	if a.bankroll != nil {
		if err := a.bankroll.DeductBuyIn(req.UserID, req.BuyIn); err != nil {
			_ = tbl.Seats.Unseat(idx)
			return err
		}
	}
	a.tables.BindPlayer(req.UserID, tbl.ID)
	if req.IsBot {
		b := bot.New(rand.New(rand.NewSource(a.rngSeed^int64(idx))), a.logger, a.botConfig)
		bot.NewRunner(idx, b, tbl, a.logger).Subscribe(tbl.Room)
	}
	if tbl.Seats.OccupantCount() == minTablePlayers {
		_ = tbl.Submit(engine.Command{Type: engine.CmdStartHand})
	}
	return nil
}

// JoinMatchmaking implements session.Dispatcher.
func (a *App) JoinMatchmaking(userID, displayName string, isBot bool, level matchmaking.BlindLevel, buyIn int) error {
	if a.maintOn.get() {
		return pokererr.New(pokererr.KindInputInvalid, "App.JoinMatchmaking", "server is in maintenance")
	}
	a.poolFor(level).Enqueue(level, matchmaking.Request{UserID: userID, DisplayName: displayName, IsBot: isBot, BuyIn: buyIn})
	return nil
}

// LeaveMatchmaking implements session.Dispatcher.
func (a *App) LeaveMatchmaking(userID string) {
	a.poolsMu.Lock()
	pools := make([]*matchmaking.Pool, 0, len(a.pools))
	for _, p := range a.pools {
		pools = append(pools, p)
	}
	a.poolsMu.Unlock()
	for _, p := range pools {
		p.Dequeue(userID)
	}
}

// CurrentTable implements session.Dispatcher.
func (a *App) CurrentTable(userID string) (*table.Instance, int, bool) {
	tbl, ok := a.tables.TableOf(userID)
	if !ok {
		return nil, 0, false
	}
	idx := tbl.Seats.SeatOf(userID)
	if idx < 0 {
		return nil, 0, false
	}
	return tbl, idx, true
}

// LeaveTable implements session.Dispatcher.
func (a *App) LeaveTable(userID string) error {
	tbl, idx, ok := a.CurrentTable(userID)
	if !ok {
		return pokererr.New(pokererr.KindInputInvalid, "App.LeaveTable", "not seated at any table")
	}
	if err := tbl.RequestLeave(idx); err != nil {
		return err
	}
	if occ, ok := tbl.Seats.Get(idx); ok && a.bankroll != nil {
		_ = a.bankroll.CashOut(userID, occ.Chips)
	}
	a.tables.UnbindPlayer(userID)
	return nil
}

// FastFold implements session.Dispatcher. It folds the player's current
// hand; on an ordinary table that is the whole of it. On a fast-fold table
// it additionally vacates the seat immediately, with chips retained, and
// reassigns the player to another fast-fold table at the same blinds,
// creating one if none has an open seat. If reassignment itself fails (the
// freshly created table somehow rejects the seat), the player is cashed out
// instead of left in limbo.
func (a *App) FastFold(userID string) (string, *table.Instance, int, bool, error) {
	tbl, idx, ok := a.CurrentTable(userID)
	if !ok {
		return "", nil, 0, false, pokererr.New(pokererr.KindInputInvalid, "App.FastFold", "not seated at any table")
	}
	if err := tbl.Submit(engine.Command{Type: engine.CmdPlayerAction, Seat: idx, Action: engine.Fold}); err != nil {
		return "", nil, 0, false, err
	}
	if !tbl.Config.IsFastFold {
		return "", nil, 0, false, nil
	}

	chips := tbl.State().Seats[idx].Chips
	occ, err := tbl.Seats.MarkLeftForFastFold(idx)
	if err != nil {
		return "", nil, 0, false, err
	}
	occ.Chips = chips
	a.tables.UnbindPlayer(userID)

	dest := a.tables.GetOrCreateFastFoldTable(tbl.Config, tbl.ID)
	newIdx, err := dest.Seats.Seat(occ)
	if err != nil {
		if a.bankroll != nil {
			_ = a.bankroll.CashOut(userID, occ.Chips)
		}
		return tbl.ID, nil, 0, true, nil
	}
	a.tables.BindPlayer(userID, dest.ID)
	if dest.Seats.OccupantCount() == minTablePlayers {
		_ = dest.Submit(engine.Command{Type: engine.CmdStartHand})
	}
	return tbl.ID, dest, newIdx, false, nil
}

// Spectate implements session.Dispatcher.
func (a *App) Spectate(userID, tableID string) (*table.Instance, error) {
	tbl, ok := a.tables.Get(tableID)
	if !ok {
		return nil, pokererr.New(pokererr.KindInputInvalid, "App.Spectate", "unknown table")
	}
	return tbl, nil
}

// CreatePrivateTable implements session.Dispatcher. The table gets an
// unguessable id so it never surfaces through matchmaking or a public
// table listing — only someone told the id can join it.
func (a *App) CreatePrivateTable(userID string, level matchmaking.BlindLevel, buyIn int) (*table.Instance, int, error) {
	tbl := a.tables.CreatePrivateTable(privateTableID(), a.tableConfig(level))
	idx, err := tbl.Seats.Seat(seat.Occupant{UserID: userID, DisplayName: userID, Connected: true, Chips: buyIn})
	if err != nil {
		return nil, 0, err
	}
	if a.bankroll != nil {
		if err := a.bankroll.DeductBuyIn(userID, buyIn); err != nil {
			_ = tbl.Seats.Unseat(idx)
			return nil, 0, err
		}
	}
	a.tables.BindPlayer(userID, tbl.ID)
	return tbl, idx, nil
}

// JoinPrivateTable implements session.Dispatcher.
func (a *App) JoinPrivateTable(userID, tableID string, buyIn int) (*table.Instance, int, error) {
	tbl, ok := a.tables.Get(tableID)
	if !ok {
		return nil, 0, pokererr.New(pokererr.KindInputInvalid, "App.JoinPrivateTable", "unknown table")
	}
	idx, err := a.seatIntoExisting(tbl, userID, buyIn)
	if err != nil {
		return nil, 0, err
	}
	return tbl, idx, nil
}

func (a *App) seatIntoExisting(tbl *table.Instance, userID string, buyIn int) (int, error) {
	idx, err := tbl.Seats.Seat(seat.Occupant{UserID: userID, DisplayName: userID, Connected: true, Chips: buyIn})
	if err != nil {
		return 0, err
	}
	if a.bankroll != nil {
		if err := a.bankroll.DeductBuyIn(userID, buyIn); err != nil {
			_ = tbl.Seats.Unseat(idx)
			return 0, err
		}
	}
	a.tables.BindPlayer(userID, tbl.ID)
	if tbl.Seats.OccupantCount() >= minTablePlayers && !tbl.State().IsHandActive {
		_ = tbl.Submit(engine.Command{Type: engine.CmdStartHand})
	}
	return idx, nil
}

// SetMaintenance flips the maintenance gate. While it is active, new
// matchmaking joins are refused and matched batches are not seated; hand
// starts, private-table seating and fast-fold reseating are not gated.
func (a *App) SetMaintenance(active bool) {
	a.maintOn.set(active)
}

// maintenanceGate is an atomic boolean read by JoinMatchmaking and
// seatBatch.
type maintenanceGate struct {
	v atomic.Bool
}

func (g *maintenanceGate) set(active bool) { g.v.Store(active) }
func (g *maintenanceGate) get() bool       { return g.v.Load() }

// privateTableID returns an id unguessable enough that it is only useful if
// shared deliberately, distinct from tablemgr's own public table ids.
func privateTableID() string {
	buf := make([]byte, 12)
	_, _ = cryptorand.Read(buf)
	return "priv_" + hex.EncodeToString(buf)
}
