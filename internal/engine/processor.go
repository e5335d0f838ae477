package engine

import (
	"math/rand"

	"github.com/okihara/plo-game-sub002/internal/card"
	"github.com/okihara/plo-game-sub002/internal/pokererr"
)

// CommandType identifies the kind of command submitted to ProcessCommand.
type CommandType int

const (
	CmdStartHand CommandType = iota
	CmdPlayerAction
)

// Command is the sole input the pure engine accepts besides the prior State.
type Command struct {
	Type   CommandType
	Seat   int
	Action ActionType
	Amount int
}

// EventType names one observable consequence of processing a Command.
type EventType string

const (
	EventHandStarted     EventType = "HAND_STARTED"
	EventActionApplied   EventType = "ACTION_APPLIED"
	EventStreetAdvanced  EventType = "STREET_ADVANCED"
	EventAllInRunout     EventType = "ALL_IN_RUNOUT"
	EventShowdownReached EventType = "SHOWDOWN_REACHED"
	EventHandCompleted   EventType = "HAND_COMPLETED"
)

// Event is one entry in the ordered log ProcessCommand returns alongside the
// new State.
type Event struct {
	Type    EventType
	Seat    int
	Action  ActionType
	Amount  int
	Street  Street
	Cards   []card.Card
	Winners []WinnerShare
	Rake    int
}

// ProcessCommand is the engine's single entry point: (State, Command) ->
// (State, []Event). It never mutates its State argument. Starting a hand on
// a table where one is already in progress is a deliberate no-op, returning
// the input state unchanged with no events.
func ProcessCommand(s State, cmd Command, rng *rand.Rand) (State, []Event, error) {
	switch cmd.Type {
	case CmdStartHand:
		if s.IsHandActive && !s.IsComplete {
			return s, nil, nil
		}
		ns, err := StartNewHand(s, rng)
		if err != nil {
			return s, nil, err
		}
		return ns, []Event{{Type: EventHandStarted, Street: ns.Street}}, nil

	case CmdPlayerAction:
		ns, t, resolvedAmount, err := ApplyAction(s, cmd.Seat, cmd.Action, cmd.Amount, rng)
		if err != nil {
			return s, nil, err
		}

		events := []Event{{
			Type:   EventActionApplied,
			Seat:   cmd.Seat,
			Action: cmd.Action,
			Amount: resolvedAmount,
			Street: s.Street,
		}}

		switch {
		case t.RanOut:
			events = append(events, Event{Type: EventAllInRunout, Cards: t.RevealedCards, Street: ns.Street})
		case t.StreetAdvanced:
			events = append(events, Event{Type: EventStreetAdvanced, Cards: t.RevealedCards, Street: ns.Street})
		}
		if t.ShowdownReached {
			events = append(events, Event{Type: EventShowdownReached, Street: ns.Street})
		}
		if t.Completed {
			events = append(events, Event{Type: EventHandCompleted, Winners: t.Winners, Rake: t.RakeTaken})
		}
		return ns, events, nil

	default:
		return s, nil, pokererr.New(pokererr.KindInputInvalid, "engine.ProcessCommand", "unknown command type")
	}
}
