package bot

import (
	"testing"

	"github.com/okihara/plo-game-sub002/internal/card"
	"github.com/okihara/plo-game-sub002/internal/engine"
)

func TestSituationRulesDiscourageWeakHandOutOfPosition(t *testing.T) {
	obs := Observation{
		Seat:           1,
		DealerPosition: 4, // seat 1 is three off the button, out of position
		Street:         engine.Preflop,
		ToCall:         7,
		Pot:            13,
		Hole:           [4]card.Card{card.MustParse("5c"), card.MustParse("6c"), card.MustParse("2d"), card.MustParse("9h")},
	}
	ctx := buildSituationContext(obs, Weak, 0.39)
	adjust, _ := evaluateSituation(ctx)

	if adjust.Raise > 0.35 {
		t.Errorf("expected raising to be heavily discouraged, got ×%.2f", adjust.Raise)
	}
}

func TestSituationRulesDiscourageDrawsOutOfPositionFacingABet(t *testing.T) {
	obs := Observation{
		Seat:           1,
		DealerPosition: 4,
		Street:         engine.Flop,
		ToCall:         76,
		Pot:            176,
		Board:          []card.Card{card.MustParse("7s"), card.MustParse("Tc"), card.MustParse("9s")},
		Hole:           [4]card.Card{card.MustParse("5c"), card.MustParse("6c"), card.MustParse("2d"), card.MustParse("9h")},
	}
	ctx := buildSituationContext(obs, Weak, 0.27)
	adjust, _ := evaluateSituation(ctx)

	if adjust.Raise > 0.45 {
		t.Errorf("expected jamming a gutshot out of position to be discouraged, got ×%.2f", adjust.Raise)
	}
}

func TestSituationRulesEncourageStrongHandsInPosition(t *testing.T) {
	obs := Observation{
		Seat:           4,
		DealerPosition: 4, // on the button, in position
		Street:         engine.Flop,
		ToCall:         0,
		Pot:            40,
		Board:          []card.Card{card.MustParse("Ah"), card.MustParse("7d"), card.MustParse("2s")},
		Hole:           [4]card.Card{card.MustParse("Ac"), card.MustParse("Kh"), card.MustParse("9d"), card.MustParse("4c")},
	}
	ctx := buildSituationContext(obs, VeryStrong, 0.85)
	adjust, _ := evaluateSituation(ctx)

	if adjust.Raise < 1.2 {
		t.Errorf("expected a strong hand in position to be encouraged to bet, got ×%.2f", adjust.Raise)
	}
}
