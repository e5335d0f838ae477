package bot

import (
	"math/rand"
	"testing"

	"github.com/okihara/plo-game-sub002/internal/card"
	"github.com/okihara/plo-game-sub002/internal/engine"
)

func TestBuildOpponentRangeTightensForEarlyPositionAndRaisers(t *testing.T) {
	s := engine.State{DealerPosition: 0, SmallBlind: 1, BigBlind: 2}
	for i := 0; i < 6; i++ {
		s.Seats[i] = engine.Seat{Occupied: true, InHand: true}
	}

	early, desc := buildOpponentRange(s, 1) // one off the button, early-ish
	if early.Name() != "tight" {
		t.Errorf("expected an early seat with no action to get a tight range, got %s (%s)", early.Name(), desc)
	}

	button, _ := buildOpponentRange(s, 0)
	if button.Name() != "loose" {
		t.Errorf("expected the button to get a loose range, got %s", button.Name())
	}

	s.History = []engine.ActionRecord{{Street: engine.Preflop, Seat: 0, Action: engine.Raise}}
	raised, desc := buildOpponentRange(s, 0)
	if raised.Name() != "tight" {
		t.Errorf("expected a preflop raiser to read as tight regardless of position, got %s (%s)", raised.Name(), desc)
	}
}

func TestSampleFromRangeRespectsTheRangeWhenPossible(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	deck := card.NewDeck(rng)
	hole := sampleFromRange(tightRange, deck, rng)

	seen := card.NewHand(hole[:]...)
	if seen.Count() != 4 {
		t.Fatalf("expected 4 distinct cards, got %d", seen.Count())
	}
}

func TestEstimateEquityIsHigherForPocketAcesThanForJunk(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	aces := [4]card.Card{card.MustParse("As"), card.MustParse("Ah"), card.MustParse("2c"), card.MustParse("3d")}
	junk := [4]card.Card{card.MustParse("2s"), card.MustParse("7h"), card.MustParse("9c"), card.MustParse("Jd")}

	acesEquity := estimateEquity(aces, nil, nil, 1, rng)
	junkEquity := estimateEquity(junk, nil, nil, 1, rng)

	if acesEquity <= junkEquity {
		t.Errorf("expected pocket aces to out-equity disconnected junk preflop, got %.2f vs %.2f", acesEquity, junkEquity)
	}
}
