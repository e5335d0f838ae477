package engine

import (
	"math/rand"

	"github.com/okihara/plo-game-sub002/internal/card"
	"github.com/okihara/plo-game-sub002/internal/pokererr"
)

// StartNewHand resets per-hand seat state, rotates the button, posts blinds,
// and deals four hole cards to every eligible seat. It is a no-op error if
// fewer than two seats are eligible to play.
func StartNewHand(s State, rng *rand.Rand) (State, error) {
	rng = newRNG(rng)
	out := s.Clone()

	occupied := out.occupiedSeats()
	if len(occupied) < 2 {
		return s, pokererr.New(pokererr.KindInputInvalid, "engine.StartNewHand", "fewer than two eligible seats")
	}

	for i := range out.Seats {
		out.Seats[i].InHand = false
		out.Seats[i].Folded = false
		out.Seats[i].AllIn = false
		out.Seats[i].HasActed = false
		out.Seats[i].HasCards = false
		out.Seats[i].HoleCards = [4]card.Card{}
		out.Seats[i].CurrentBet = 0
		out.Seats[i].TotalBet = 0
	}
	for _, idx := range occupied {
		out.Seats[idx].InHand = true
	}

	out.DealerPosition = nextOccupiedFrom(occupied, out.DealerPosition)

	var sbIdx, bbIdx, firstToAct int
	if len(occupied) == 2 {
		sbIdx = out.DealerPosition
		bbIdx = otherOf(occupied, sbIdx)
		firstToAct = sbIdx
	} else {
		sbIdx = nextOccupiedFrom(occupied, out.DealerPosition)
		bbIdx = nextOccupiedFrom(occupied, sbIdx)
		firstToAct = nextOccupiedFrom(occupied, bbIdx)
	}

	out.Deck = card.NewDeck(rng).RemainingCards()
	out.Board = nil
	out.Pots = nil
	out.SettledPots = nil
	out.History = nil
	out.Winners = nil
	out.IsComplete = false
	out.IsHandActive = true
	out.RakeTaken = 0
	out.HandNumber++

	postBlind(&out, sbIdx, out.SmallBlind)
	postBlind(&out, bbIdx, out.BigBlind)

	for pass := 0; pass < 4; pass++ {
		idx := sbIdx
		for i := 0; i < len(occupied); i++ {
			if out.Seats[idx].InHand {
				c := out.Deck[0]
				out.Deck = out.Deck[1:]
				out.Seats[idx].HoleCards[pass] = c
				out.Seats[idx].HasCards = true
			}
			idx = nextOccupiedFrom(occupied, idx)
		}
	}

	out.Street = Preflop
	out.CurrentBet = out.Seats[bbIdx].CurrentBet
	out.MinRaise = out.BigBlind
	out.LastFullRaiseBet = out.BigBlind
	out.LastRaiserIndex = bbIdx
	out.CurrentPlayerIndex = firstToAct

	return out, nil
}

func postBlind(s *State, idx, amount int) {
	seat := &s.Seats[idx]
	post := amount
	if post > seat.Chips {
		post = seat.Chips
	}
	seat.Chips -= post
	seat.CurrentBet = post
	seat.TotalBet = post
	if seat.Chips == 0 {
		seat.AllIn = true
	}
}

// nextOccupiedFrom returns the next seat index in occupied strictly after
// from (wrapping), or the first occupied seat if from isn't in the list.
func nextOccupiedFrom(occupied []int, from int) int {
	pos := -1
	for i, idx := range occupied {
		if idx == from {
			pos = i
			break
		}
	}
	if pos == -1 {
		return occupied[0]
	}
	return occupied[(pos+1)%len(occupied)]
}

func otherOf(occupied []int, not int) int {
	for _, idx := range occupied {
		if idx != not {
			return idx
		}
	}
	return not
}
