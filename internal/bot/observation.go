// Package bot implements reference-opponent decision logic for Pot-Limit
// Omaha: a pure function from an observed table state to one action, with
// no access to anything a real client couldn't see (opponents' hole cards,
// the undealt deck).
package bot

import (
	"github.com/okihara/plo-game-sub002/internal/card"
	"github.com/okihara/plo-game-sub002/internal/engine"
)

// Observation is everything a bot is allowed to see when it must act: its
// own cards, the shared board, and the public betting state. It never
// carries opponents' hole cards or deck order.
type Observation struct {
	Seat    int
	Hole    [4]card.Card
	Board   []card.Card
	Street  engine.Street
	Dead    []card.Card // folded hands' exposed cards, none in the current rules, kept for completeness

	Pot        int
	ToCall     int
	MinRaise   int // resulting total bet, not an increment
	MaxRaise   int // resulting total bet, not an increment
	CurrentBet int
	MyBet      int
	Chips      int
	BigBlind   int

	DealerPosition   int
	NumActive        int // seats still in the hand; folded seats are not counted
	RaisesThisStreet int // a client can count these from the action log same as we do
	ValidActions     []engine.ValidAction
}

// Observe extracts the subset of s a client seated at `seat` would see,
// together with the legal actions GetValidActions already computed for it.
func Observe(s engine.State, seat int) Observation {
	sv := s.Seats[seat]
	valid := engine.GetValidActions(s, seat)

	pot := 0
	for _, p := range s.Pots {
		pot += p.Amount
	}
	for _, other := range s.Seats {
		pot += other.CurrentBet
	}

	obs := Observation{
		Seat:           seat,
		Hole:           sv.HoleCards,
		Board:          append([]card.Card{}, s.Board...),
		Street:         s.Street,
		Pot:            pot,
		CurrentBet:     s.CurrentBet,
		MyBet:          sv.CurrentBet,
		Chips:          sv.Chips,
		BigBlind:       s.BigBlind,
		DealerPosition: s.DealerPosition,
		ValidActions:   valid,
	}
	obs.ToCall = s.CurrentBet - sv.CurrentBet
	if obs.ToCall < 0 {
		obs.ToCall = 0
	}
	for _, v := range valid {
		if v.Action == engine.Bet || v.Action == engine.Raise {
			obs.MinRaise, obs.MaxRaise = v.MinAmount, v.MaxAmount
		}
	}
	for i := range s.Seats {
		if s.Seats[i].Occupied && s.Seats[i].InHand && !s.Seats[i].Folded {
			obs.NumActive++
		}
	}
	for _, rec := range s.History {
		if rec.Street == s.Street && (rec.Action == engine.Raise || rec.Action == engine.Bet) {
			obs.RaisesThisStreet++
		}
	}
	return obs
}

// hasAction reports whether action appears among the observation's legal
// moves and returns its bounds.
func (o Observation) hasAction(a engine.ActionType) (engine.ValidAction, bool) {
	for _, v := range o.ValidActions {
		if v.Action == a {
			return v, true
		}
	}
	return engine.ValidAction{}, false
}

// Decision is the action a strategy proposes, with the reasoning kept around
// for logging and tests rather than plumbed through channels.
type Decision struct {
	Action    engine.ActionType
	Amount    int
	Reasoning string
}

// Strategy is the common shape every bot personality implements: a pure
// mapping from an observation to one decision.
type Strategy interface {
	Decide(obs Observation) Decision
}
