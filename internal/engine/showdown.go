package engine

import (
	"math"
	"math/rand"
	"sort"

	"github.com/okihara/plo-game-sub002/internal/card"
)

// closeStreetAndAdvance collects the current street's bets into pots and
// decides what happens next: an immediate award if only one player remains,
// an atomic multi-street run-out if no further betting is possible, or a
// single ordinary advance to the next street.
func closeStreetAndAdvance(s State, rng *rand.Rand) (State, Transition) {
	collectBets(&s)
	s.CurrentBet = 0
	s.LastFullRaiseBet = s.BigBlind
	s.LastRaiserIndex = -1
	s.RaiseDisabled = [6]bool{}
	for i := range s.Seats {
		if s.Seats[i].InHand && !s.Seats[i].Folded && !s.Seats[i].AllIn {
			s.Seats[i].HasActed = false
		}
		s.Seats[i].CurrentBet = 0
	}

	nonFolded := s.nonFoldedSeats()
	if len(nonFolded) <= 1 {
		survivor := nonFolded[0]
		return completeHandSingleSurvivor(s, survivor)
	}

	canAct := s.canActSeats()
	if len(canAct) <= 1 {
		before := len(s.Board)
		for s.Street < River {
			s = dealStreet(s, rng)
		}
		revealed := append([]card.Card{}, s.Board[before:]...)
		s = determineWinners(s)
		return s, Transition{
			RanOut:          true,
			RevealedCards:   revealed,
			ShowdownReached: true,
			Completed:       true,
			Winners:         s.Winners,
			RakeTaken:       s.RakeTaken,
		}
	}

	if s.Street == River {
		s = determineWinners(s)
		return s, Transition{ShowdownReached: true, Completed: true, Winners: s.Winners, RakeTaken: s.RakeTaken}
	}

	before := len(s.Board)
	s = dealStreet(s, rng)
	revealed := append([]card.Card{}, s.Board[before:]...)
	s.CurrentPlayerIndex = nextSeatFrom(&s, s.DealerPosition, func(sv Seat) bool {
		return sv.InHand && !sv.Folded && !sv.AllIn && sv.Chips > 0
	})
	return s, Transition{StreetAdvanced: true, RevealedCards: revealed}
}

// dealStreet deals the next street's community cards and advances Street by
// one. The caller guarantees Street < River.
func dealStreet(s State, rng *rand.Rand) State {
	var n int
	switch s.Street {
	case Preflop:
		n = 3
		s.Street = Flop
	case Flop:
		n = 1
		s.Street = Turn
	case Turn:
		n = 1
		s.Street = River
	}
	dealt := s.Deck[:n]
	s.Deck = s.Deck[n:]
	s.Board = append(s.Board, dealt...)
	return s
}

// collectBets sweeps every seat's CurrentBet into tiered pots, refunding any
// uncalled excess above the largest non-folded contribution, and building one
// Pot per distinct all-in level so eligibility stays correct across runouts.
func collectBets(s *State) {
	type contrib struct {
		seat   int
		amount int
		folded bool
	}
	var contribs []contrib
	for i, sv := range s.Seats {
		if sv.CurrentBet > 0 {
			contribs = append(contribs, contrib{seat: i, amount: sv.CurrentBet, folded: sv.Folded})
		}
	}
	if len(contribs) == 0 {
		return
	}

	maxNonFolded := 0
	for _, c := range contribs {
		if !c.folded && c.amount > maxNonFolded {
			maxNonFolded = c.amount
		}
	}
	for i := range contribs {
		if contribs[i].amount > maxNonFolded {
			refund := contribs[i].amount - maxNonFolded
			s.Seats[contribs[i].seat].Chips += refund
			contribs[i].amount = maxNonFolded
		}
	}

	levelSet := map[int]bool{}
	for _, c := range contribs {
		if !c.folded && c.amount > 0 {
			levelSet[c.amount] = true
		}
	}
	levels := make([]int, 0, len(levelSet))
	for lvl := range levelSet {
		levels = append(levels, lvl)
	}
	sort.Ints(levels)

	prev := 0
	for _, lvl := range levels {
		size := lvl - prev
		total := 0
		var eligible []int
		for _, c := range contribs {
			switch {
			case c.amount >= lvl:
				total += size
			case c.amount > prev:
				total += c.amount - prev
			}
			if !c.folded && c.amount >= lvl {
				eligible = append(eligible, c.seat)
			}
		}
		if total > 0 {
			s.Pots = append(s.Pots, Pot{Amount: total, Eligible: eligible})
		}
		prev = lvl
	}
}

// completeHandSingleSurvivor awards every collected pot to the lone
// non-folded seat with no evaluation, applying rake unless the hand ended
// preflop.
func completeHandSingleSurvivor(s State, survivor int) (State, Transition) {
	total := 0
	for _, p := range s.Pots {
		total += p.Amount
	}
	rake := 0
	if s.Street != Preflop {
		rake = computeRake(total, s.Rake, s.BigBlind)
	}
	s.Seats[survivor].Chips += total - rake
	s.RakeTaken = rake
	s.Winners = []WinnerShare{{Seat: survivor, Amount: total - rake}}
	s.SettledPots = s.Pots
	s.Pots = nil
	s.IsComplete = true
	s.IsHandActive = false
	return s, Transition{Completed: true, Winners: s.Winners, RakeTaken: rake}
}

// determineWinners evaluates every non-folded hand and distributes each pot
// among its tied winners, sending any indivisible remainder chip to the
// eligible winner in the earliest position (first to act after the button),
// after deducting rake from the main pot.
func determineWinners(s State) State {
	s.Street = Showdown

	var board [5]card.Card
	copy(board[:], s.Board)

	rank := make(map[int]card.HandRank)
	for _, seat := range s.nonFoldedSeats() {
		rank[seat] = card.EvaluatePLO(s.Seats[seat].HoleCards, board)
	}

	total := 0
	for _, p := range s.Pots {
		total += p.Amount
	}
	rake := computeRake(total, s.Rake, s.BigBlind)
	s.RakeTaken = rake
	remainingRake := rake

	shares := make(map[int]int)
	for pi := range s.Pots {
		pot := &s.Pots[pi]
		amount := pot.Amount
		if remainingRake > 0 {
			take := remainingRake
			if take > amount {
				take = amount
			}
			amount -= take
			remainingRake -= take
		}
		if amount <= 0 {
			continue
		}

		var best card.HandRank
		var winners []int
		for _, seat := range pot.Eligible {
			r, ok := rank[seat]
			if !ok {
				continue
			}
			switch {
			case len(winners) == 0 || r > best:
				best = r
				winners = []int{seat}
			case r == best:
				winners = append(winners, seat)
			}
		}
		if len(winners) == 0 {
			continue
		}
		each := amount / len(winners)
		remainder := amount % len(winners)
		for _, w := range winners {
			shares[w] += each
		}
		if remainder > 0 {
			shares[earliestPosition(winners, s.DealerPosition)] += remainder
		}
	}

	seats := make([]int, 0, len(shares))
	for seat := range shares {
		seats = append(seats, seat)
	}
	sort.Ints(seats)
	s.Winners = nil
	for _, seat := range seats {
		s.Seats[seat].Chips += shares[seat]
		s.Winners = append(s.Winners, WinnerShare{Seat: seat, Amount: shares[seat], Rank: rank[seat]})
	}
	s.SettledPots = s.Pots
	s.Pots = nil
	s.IsComplete = true
	s.IsHandActive = false
	return s
}

// earliestPosition returns the seat acting first next hand (the seat
// immediately after the button), used to break indivisible remainder chips.
func earliestPosition(seats []int, dealerPos int) int {
	best := seats[0]
	bestRank := (best - (dealerPos+1)%6 + 12) % 6
	for _, seat := range seats[1:] {
		r := (seat - (dealerPos+1)%6 + 12) % 6
		if r < bestRank {
			bestRank = r
			best = seat
		}
	}
	return best
}

func computeRake(total int, rc RakeConfig, bigBlind int) int {
	if total <= 0 {
		return 0
	}
	byPercent := int(math.Floor(float64(total) * rc.Percent))
	cap := int(math.Floor(rc.CapBB * float64(bigBlind)))
	if byPercent > cap {
		return cap
	}
	return byPercent
}
