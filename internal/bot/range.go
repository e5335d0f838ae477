package bot

import (
	"math/rand"

	"github.com/okihara/plo-game-sub002/internal/card"
	"github.com/okihara/plo-game-sub002/internal/engine"
)

// RangeModel narrows the set of hole cards an opponent is assumed to be
// playing, used when sampling hypothetical opponent hands for equity
// estimation rather than treating every unseen hand as equally likely.
type RangeModel interface {
	Accepts(hole [4]card.Card) bool
	Name() string
}

type scoreRange struct {
	name     string
	min, max float64
}

func (r scoreRange) Accepts(hole [4]card.Card) bool {
	s := preflopScore(hole)
	return s >= r.min && s <= r.max
}
func (r scoreRange) Name() string { return r.name }

var (
	tightRange  = scoreRange{"tight", 0.55, 1.01}
	mediumRange = scoreRange{"medium", 0.35, 1.01}
	looseRange  = scoreRange{"loose", 0.0, 1.01}
)

// sampleFromRange draws hole cards from deck that satisfy r, giving up after
// a bounded number of attempts and returning whatever the deck dealt last so
// callers always get a usable hand.
func sampleFromRange(r RangeModel, deck *card.Deck, rng *rand.Rand) [4]card.Card {
	const maxAttempts = 12
	var last [4]card.Card
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if deck.Remaining() < 4 {
			return last
		}
		cards, err := deck.Deal(4)
		if err != nil {
			return last
		}
		var hole [4]card.Card
		copy(hole[:], cards)
		last = hole
		if r.Accepts(hole) {
			return hole
		}
	}
	return last
}

// buildOpponentRange infers a range for `seat` from its table position and
// whether it has raised this hand, mirroring the teacher's position- and
// action-aware range construction generalized from two-card to four-card
// starting hands.
func buildOpponentRange(s engine.State, seat int) (RangeModel, string) {
	position := seatsFromButton(s, seat)
	base := mediumRange
	desc := "middle position range"
	switch {
	case position == 0 || position >= 4:
		base = looseRange
		desc = "late position / button range"
	case position <= 1:
		base = tightRange
		desc = "early position range"
	}

	raisedPreflop := false
	for _, rec := range s.History {
		if rec.Street == engine.Preflop && rec.Seat == seat && (rec.Action == engine.Raise || rec.Action == engine.Bet) {
			raisedPreflop = true
			break
		}
	}
	if raisedPreflop {
		base = tightRange
		desc = "preflop raiser range"
	}
	return base, desc
}

// seatsFromButton returns how many seats clockwise `seat` sits from the
// dealer button (0 = button itself).
func seatsFromButton(s engine.State, seat int) int {
	return (seat - s.DealerPosition + 6) % 6
}
