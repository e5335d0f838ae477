package equity

import (
	"math"
	"math/rand"
	"testing"

	"github.com/okihara/plo-game-sub002/internal/card"
)

func hole(a, b, c, d string) Hole {
	return Hole{card.MustParse(a), card.MustParse(b), card.MustParse(c), card.MustParse(d)}
}

func TestCalculateCompleteBoardSplitsAmongTies(t *testing.T) {
	board := []card.Card{
		card.MustParse("2h"), card.MustParse("7d"), card.MustParse("9c"),
		card.MustParse("Jc"), card.MustParse("Qs"),
	}
	hands := map[int]Hole{
		0: hole("Ad", "Kd", "3s", "4s"),
		1: hole("Ac", "Kc", "3h", "4h"),
	}
	got := Calculate(board, hands, nil, rand.New(rand.NewSource(1)))
	if math.Abs(got[0]-0.5) > 1e-9 || math.Abs(got[1]-0.5) > 1e-9 {
		t.Fatalf("expected an even split on an identical-value tie, got %v", got)
	}
}

func TestCalculateSumsToOne(t *testing.T) {
	hands := map[int]Hole{
		0: hole("Ad", "Kd", "3s", "4s"),
		1: hole("Ac", "Kc", "3h", "4h"),
		2: hole("2c", "2d", "5h", "6h"),
	}
	boards := [][]card.Card{
		{},
		{card.MustParse("2h"), card.MustParse("7d"), card.MustParse("9c")},
		{card.MustParse("2h"), card.MustParse("7d"), card.MustParse("9c"), card.MustParse("Jc")},
	}
	rng := rand.New(rand.NewSource(42))
	for _, board := range boards {
		got := Calculate(board, hands, nil, rng)
		var sum float64
		for _, v := range got {
			sum += v
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("board %v: equities summed to %f, want 1", board, sum)
		}
	}
}

func TestCalculateSingleHandIsCertain(t *testing.T) {
	hands := map[int]Hole{0: hole("Ad", "Kd", "3s", "4s")}
	got := Calculate(nil, hands, nil, rand.New(rand.NewSource(1)))
	if got[0] != 1 {
		t.Errorf("a lone live hand should have equity 1, got %f", got[0])
	}
}

func TestAllInEVProfitsSinglePotWinnerTakesAll(t *testing.T) {
	hands := map[int]Hole{
		0: hole("As", "Ks", "Qs", "Js"),
		1: hole("2c", "3d", "4h", "5s"),
	}
	board := []card.Card{
		card.MustParse("Ts"), card.MustParse("9s"), card.MustParse("8s"),
		card.MustParse("3h"), card.MustParse("4c"),
	}
	pots := []SidePot{{Amount: 200, Eligible: []int{0, 1}}}
	bets := map[int]int{0: 100, 1: 100}

	profits := AllInEVProfits(board, hands, nil, pots, bets, rand.New(rand.NewSource(7)))
	if profits[0] != 100 {
		t.Errorf("hand 0 holds the nut straight flush, expected +100 profit, got %d", profits[0])
	}
	if profits[1] != -100 {
		t.Errorf("hand 1 should lose its full stake, got %d", profits[1])
	}
}
