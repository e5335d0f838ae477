package bot

import (
	"github.com/rs/zerolog"

	"github.com/okihara/plo-game-sub002/internal/broadcast"
	"github.com/okihara/plo-game-sub002/internal/engine"
)

// actionSubmitter is the slice of table.Instance a Runner needs, kept
// narrow so this package's tests can fake it instead of standing up a real
// table.
type actionSubmitter interface {
	State() engine.State
	Submit(cmd engine.Command) error
}

// Runner subscribes one bot to one seat's turn notifications and submits
// its decisions straight into the table's command loop, playing the role
// the teacher's HandRunner gives a connected bot client without a websocket
// round trip in between.
type Runner struct {
	seat   int
	bot    *Bot
	tbl    actionSubmitter
	logger zerolog.Logger
}

// NewRunner returns a Runner for bot occupying seat at tbl. Subscribe it to
// the table's room with Subscribe once seated.
func NewRunner(seat int, b *Bot, tbl actionSubmitter, logger zerolog.Logger) *Runner {
	return &Runner{seat: seat, bot: b, tbl: tbl, logger: logger.With().Int("seat", seat).Logger()}
}

// Subscribe registers the runner on room so it sees every event batch the
// seat's hand produces.
func (r *Runner) Subscribe(room *broadcast.Room) {
	room.Subscribe(r.seat, r)
}

// Send implements broadcast.Sink. It only acts on event batches that leave
// this seat to act; every other message type (protocol.Message acks aimed
// at human sessions) is irrelevant to a bot and ignored.
func (r *Runner) Send(msg any) error {
	events, ok := msg.([]engine.Event)
	if !ok {
		return nil
	}
	for _, e := range events {
		switch e.Type {
		case engine.EventHandStarted, engine.EventActionApplied, engine.EventStreetAdvanced, engine.EventAllInRunout:
			r.actIfOnTurn()
		}
	}
	return nil
}

func (r *Runner) actIfOnTurn() {
	st := r.tbl.State()
	if !st.IsHandActive || st.IsComplete || st.CurrentPlayerIndex != r.seat {
		return
	}
	obs := Observe(st, r.seat)
	decision := r.bot.Decide(obs)
	cmd := engine.Command{Type: engine.CmdPlayerAction, Seat: r.seat, Action: decision.Action, Amount: decision.Amount}
	if err := r.tbl.Submit(cmd); err != nil {
		r.logger.Warn().Err(err).Str("action", decision.Action.String()).Msg("bot action rejected")
	}
}
