// Package table implements the table instance state machine: it owns one
// table's seats, one running hand's engine state, and the serialized command
// loop that turns player decisions and timers into new hand state and
// broadcast events.
package table

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/quartz"
	"github.com/rs/zerolog"

	"github.com/okihara/plo-game-sub002/internal/broadcast"
	"github.com/okihara/plo-game-sub002/internal/control"
	"github.com/okihara/plo-game-sub002/internal/engine"
	"github.com/okihara/plo-game-sub002/internal/pokererr"
	"github.com/okihara/plo-game-sub002/internal/seat"
)

// Config holds the per-table parameters fixed at creation.
type Config struct {
	SmallBlind      int
	BigBlind        int
	Rake            engine.RakeConfig
	ActionTimeout   time.Duration
	DisconnectGrace time.Duration

	// IsFastFold marks a table as belonging to the fast-fold pool: folding
	// here vacates the seat and reassigns the player to another table of the
	// same blinds instead of waiting out the current hand.
	IsFastFold bool

	// HandLimit, when positive, stops the table after that many hands and
	// reports a game:completed summary, for bounded bot-evaluation runs.
	HandLimit int
}

// HandObserver is notified of every event batch a command produces, used to
// wire in stats collection and hand-history persistence without the table
// itself depending on those concerns.
type HandObserver interface {
	OnEvents(tableID string, state engine.State, events []engine.Event)
	OnHandLimitReached(tableID string, state engine.State, handLimit int)
}

type commandRequest struct {
	cmd    engine.Command
	result chan error
}

// Instance is one running table: seats, broadcast room, timers, and the
// current hand's pure engine state, all serialized through a single command
// loop goroutine per section 5's concurrency model.
type Instance struct {
	ID     string
	Config Config

	Seats *seat.Manager
	Room  *broadcast.Room

	logger   zerolog.Logger
	ctrl     *control.Controller
	rng      *rand.Rand
	observer HandObserver

	commands chan commandRequest
	mu       sync.RWMutex
	state    engine.State
	frozen   error // non-nil once an integrity violation has stopped the table

	handLimitNotified atomic.Bool
}

// New builds a table instance. Run must be called to start its command loop.
func New(id string, cfg Config, rng *rand.Rand, clock quartz.Clock, logger zerolog.Logger, observer HandObserver) *Instance {
	st := engine.State{SmallBlind: cfg.SmallBlind, BigBlind: cfg.BigBlind, Rake: cfg.Rake}
	return &Instance{
		ID:       id,
		Config:   cfg,
		Seats:    seat.NewManager(),
		Room:     broadcast.NewRoom(),
		logger:   logger.With().Str("table", id).Logger(),
		ctrl:     control.New(clock),
		rng:      rng,
		observer: observer,
		commands: make(chan commandRequest, 16),
		state:    st,
	}
}

// State returns a snapshot of the current hand state for read-only
// consumers (stats endpoints, reconnection replays).
func (t *Instance) State() engine.State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state.Clone()
}

// Run drives the table's serialized command loop until ctx is cancelled.
func (t *Instance) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			t.ctrl.CancelAll()
			return
		case req := <-t.commands:
			req.result <- t.handle(req.cmd)
		}
	}
}

// Submit enqueues a command and blocks until the table's loop goroutine has
// processed it. Safe to call from any goroutine (session handlers, timers).
func (t *Instance) Submit(cmd engine.Command) error {
	req := commandRequest{cmd: cmd, result: make(chan error, 1)}
	t.commands <- req
	return <-req.result
}

// handle runs on the table's own goroutine only. A panic anywhere in the
// pure engine is an integrity violation: it freezes the table rather than
// letting a corrupt state keep processing commands.
func (t *Instance) handle(cmd engine.Command) (err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.frozen != nil {
		return t.frozen
	}

	defer func() {
		if r := recover(); r != nil {
			t.frozen = pokererr.New(pokererr.KindIntegrityViolation, "table.handle", fmt.Sprintf("recovered panic: %v", r))
			t.logger.Error().Interface("panic", r).Msg("table frozen after integrity violation")
			err = t.frozen
		}
	}()

	if cmd.Type == engine.CmdStartHand {
		t.syncSeatsIn()
	}

	next, events, perr := engine.ProcessCommand(t.state, cmd, t.rng)
	if perr != nil {
		return perr
	}
	t.state = next

	handCompleted := false
	for _, e := range events {
		if e.Type == engine.EventHandCompleted {
			t.syncSeatsOut()
			handCompleted = true
		}
	}

	if len(events) > 0 {
		t.Room.Broadcast(events)
		if t.observer != nil {
			t.observer.OnEvents(t.ID, t.state, events)
		}
	}

	if handCompleted && t.Config.HandLimit > 0 && t.state.HandNumber >= t.Config.HandLimit {
		if !t.handLimitNotified.Swap(true) && t.observer != nil {
			t.observer.OnHandLimitReached(t.ID, t.state, t.Config.HandLimit)
		}
	}

	t.afterEvents(events)
	return nil
}

// syncSeatsIn copies each occupied seat's persistent chip count and identity
// into the engine state before a new hand deals, since seat.Manager is the
// source of truth for chips between hands (rebuys, departures).
func (t *Instance) syncSeatsIn() {
	for i := 0; i < seat.Count; i++ {
		occ, ok := t.Seats.Get(i)
		if !ok || t.Seats.IsLeaving(i) {
			t.state.Seats[i] = engine.Seat{}
			continue
		}
		t.state.Seats[i] = engine.Seat{
			Occupied:    true,
			UserID:      occ.UserID,
			DisplayName: occ.DisplayName,
			IsBot:       occ.IsBot,
			Connected:   occ.Connected,
			Chips:       occ.Chips,
			SittingOut:  occ.Chips <= 0,
		}
	}
}

// syncSeatsOut writes the engine's post-hand chip counts back into
// seat.Manager once a hand completes.
func (t *Instance) syncSeatsOut() {
	for i := 0; i < seat.Count; i++ {
		if !t.state.Seats[i].Occupied {
			continue
		}
		if occ, ok := t.Seats.Get(i); ok {
			t.Seats.AdjustChips(i, t.state.Seats[i].Chips-occ.Chips)
		}
	}
}

// afterEvents re-arms the action clock for whoever is next to act and clears
// it once a hand completes, folding in any mid-hand leavers once the table
// is between hands.
func (t *Instance) afterEvents(events []engine.Event) {
	for _, e := range events {
		if e.Type == engine.EventHandCompleted {
			t.ctrl.CancelAll()
			t.Seats.ClearLeavers()
			return
		}
	}
	if !t.state.IsHandActive || t.state.IsComplete {
		return
	}

	seatIdx := t.state.CurrentPlayerIndex
	t.ctrl.Schedule(control.TimerAction, t.Config.ActionTimeout, func() {
		t.onActionTimeout(seatIdx)
	})
}

// onActionTimeout runs off the table's goroutine (it is a timer callback),
// so it goes back through Submit like any other command.
func (t *Instance) onActionTimeout(seatIdx int) {
	go func() {
		t.mu.RLock()
		valid := t.state.IsHandActive && !t.state.IsComplete && t.state.CurrentPlayerIndex == seatIdx
		toCall := 0
		if valid {
			toCall = t.state.CurrentBet - t.state.Seats[seatIdx].CurrentBet
		}
		t.mu.RUnlock()
		if !valid {
			return
		}
		action := engine.Fold
		if toCall <= 0 {
			action = engine.Check
		}
		_ = t.Submit(engine.Command{Type: engine.CmdPlayerAction, Seat: seatIdx, Action: action})
	}()
}

// MarkDisconnected folds the seat on a grace-period timer if it is mid-hand
// and currently on the clock, and simply flags it otherwise.
func (t *Instance) MarkDisconnected(seatIdx int) {
	t.Seats.SetConnected(seatIdx, false)
	t.mu.RLock()
	onClock := t.state.IsHandActive && !t.state.IsComplete && t.state.CurrentPlayerIndex == seatIdx
	t.mu.RUnlock()
	if !onClock {
		return
	}
	t.ctrl.Schedule(control.TimerDisconnectGrace, t.Config.DisconnectGrace, func() {
		t.onActionTimeout(seatIdx)
	})
}

// MarkReconnected cancels any pending disconnect-grace fold for seatIdx.
func (t *Instance) MarkReconnected(seatIdx int) {
	t.Seats.SetConnected(seatIdx, true)
	t.ctrl.Cancel(control.TimerDisconnectGrace)
}

// RequestLeave removes a seat immediately if no hand is active, or defers
// the removal to the end of the current hand otherwise.
func (t *Instance) RequestLeave(seatIdx int) error {
	t.mu.RLock()
	active := t.state.IsHandActive && !t.state.IsComplete
	t.mu.RUnlock()
	if active {
		t.Seats.MarkLeaving(seatIdx)
		return nil
	}
	return t.Seats.Unseat(seatIdx)
}

// Frozen reports the integrity-violation error that stopped the table, if
// any.
func (t *Instance) Frozen() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.frozen
}
