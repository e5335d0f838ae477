package engine

import (
	"math/rand"

	"github.com/okihara/plo-game-sub002/internal/card"
	"github.com/okihara/plo-game-sub002/internal/pokererr"
)

// ValidAction describes one action a seat may legally take right now. Amounts
// are always the resulting total bet for the street (not an increment), so a
// raise's MaxAmount is the new CurrentBet level after the raise, not the
// chips added.
type ValidAction struct {
	Action    ActionType
	MinAmount int
	MaxAmount int
}

// GetValidActions lists every action `seat` may take given the current
// state. It returns nil if it isn't seat's turn or the hand isn't active.
func GetValidActions(s State, seat int) []ValidAction {
	if !s.IsHandActive || s.IsComplete || s.CurrentPlayerIndex != seat {
		return nil
	}
	sv := &s.Seats[seat]
	if !sv.InHand || sv.Folded || sv.AllIn || sv.Chips <= 0 {
		return nil
	}

	toCall := s.CurrentBet - sv.CurrentBet
	pot := s.potTotal()
	var out []ValidAction

	out = append(out, ValidAction{Action: Fold})

	if toCall <= 0 {
		out = append(out, ValidAction{Action: Check})
	} else {
		callAmt := toCall
		if callAmt > sv.Chips {
			callAmt = sv.Chips
		}
		out = append(out, ValidAction{Action: Call, MinAmount: sv.CurrentBet + callAmt, MaxAmount: sv.CurrentBet + callAmt})
	}

	if !s.RaiseDisabled[seat] {
		potAfterCall := pot + toCall
		maxTotal := sv.CurrentBet + toCall + potAfterCall
		if maxTotal > sv.CurrentBet+sv.Chips {
			maxTotal = sv.CurrentBet + sv.Chips
		}
		if s.CurrentBet <= 0 {
			minTotal := s.BigBlind
			if minTotal > sv.Chips {
				minTotal = sv.Chips
			}
			if sv.Chips > 0 && maxTotal > 0 {
				out = append(out, ValidAction{Action: Bet, MinAmount: minTotal, MaxAmount: maxTotal})
			}
		} else if sv.Chips > toCall {
			minTotal := s.CurrentBet + s.LastFullRaiseBet
			if minTotal > sv.CurrentBet+sv.Chips {
				minTotal = sv.CurrentBet + sv.Chips
			}
			if maxTotal >= minTotal {
				out = append(out, ValidAction{Action: Raise, MinAmount: minTotal, MaxAmount: maxTotal})
			}
		}
	}

	if sv.Chips > 0 {
		out = append(out, ValidAction{Action: AllIn, MinAmount: sv.CurrentBet + sv.Chips, MaxAmount: sv.CurrentBet + sv.Chips})
	}

	return out
}

// Transition describes the structural consequences of one ApplyAction call,
// beyond the action itself, so a caller can translate it into the exact
// event sequence the wire protocol expects.
type Transition struct {
	StreetAdvanced  bool
	RanOut          bool
	RevealedCards   []card.Card
	ShowdownReached bool
	Completed       bool
	Winners         []WinnerShare
	RakeTaken       int
}

// WouldAdvanceStreet reports whether applying this action would close the
// current betting round, without mutating s or dealing any cards.
func WouldAdvanceStreet(s State, seat int, action ActionType, amount int) bool {
	scratch := s.Clone()
	closes, _, err := applyActionCore(&scratch, seat, action, amount)
	if err != nil {
		return false
	}
	return closes
}

// ApplyAction validates and applies seat's decision, then runs whatever
// street advances, runouts, or showdown resolution the new state requires.
// The returned int is the amount actually applied (the normalized total bet
// for Bet/Raise, or the resolved total for Fold/Check/Call/AllIn), which may
// differ from the caller-submitted amount and is what callers must record.
func ApplyAction(s State, seat int, action ActionType, amount int, rng *rand.Rand) (State, Transition, int, error) {
	out := s.Clone()
	closes, resolved, err := applyActionCore(&out, seat, action, amount)
	if err != nil {
		return s, Transition{}, 0, err
	}

	var t Transition
	if closes {
		out, t = closeStreetAndAdvance(out, rng)
	} else {
		out.CurrentPlayerIndex = nextSeatFrom(&out, seat, func(sv Seat) bool {
			return sv.InHand && !sv.Folded && !sv.AllIn && sv.Chips > 0
		})
	}
	return out, t, resolved, nil
}

// applyActionCore validates and applies the raw chip/seat effects of one
// action, returning whether the betting round is now closed and the
// normalized amount that was actually applied.
func applyActionCore(s *State, seat int, action ActionType, amount int) (bool, int, error) {
	valid := GetValidActions(*s, seat)
	if valid == nil {
		return false, 0, pokererr.New(pokererr.KindInputInvalid, "engine.ApplyAction", "not this seat's turn")
	}
	var match *ValidAction
	for i := range valid {
		if valid[i].Action == action {
			match = &valid[i]
			break
		}
	}
	if match == nil {
		return false, 0, pokererr.New(pokererr.KindInputInvalid, "engine.ApplyAction", "action not currently legal")
	}
	if action == Bet || action == Raise {
		if amount < match.MinAmount || amount > match.MaxAmount {
			return false, 0, pokererr.New(pokererr.KindInputInvalid, "engine.ApplyAction", "amount outside legal range")
		}
	} else {
		amount = match.MaxAmount
	}

	sv := &s.Seats[seat]
	s.History = append(s.History, ActionRecord{Street: s.Street, Seat: seat, Action: action, Amount: amount})

	switch action {
	case Fold:
		sv.Folded = true
		sv.HasActed = true
	case Check:
		sv.HasActed = true
	case Call:
		sv.TotalBet += amount - sv.CurrentBet
		sv.Chips -= amount - sv.CurrentBet
		sv.CurrentBet = amount
		sv.HasActed = true
		if sv.Chips == 0 {
			sv.AllIn = true
		}
	case Bet, Raise, AllIn:
		increment := amount - s.CurrentBet
		isFullRaise := increment >= s.LastFullRaiseBet || s.CurrentBet == 0
		sv.TotalBet += amount - sv.CurrentBet
		sv.Chips -= amount - sv.CurrentBet
		sv.CurrentBet = amount
		sv.HasActed = true
		if sv.Chips == 0 {
			sv.AllIn = true
		}
		if amount > s.CurrentBet {
			s.CurrentBet = amount
			s.LastRaiserIndex = seat
			if isFullRaise {
				s.LastFullRaiseBet = increment
				for i := range s.Seats {
					if i != seat && s.Seats[i].InHand && !s.Seats[i].Folded && !s.Seats[i].AllIn {
						s.Seats[i].HasActed = false
						s.RaiseDisabled[i] = false
					}
				}
			} else {
				for i := range s.Seats {
					if i != seat && s.Seats[i].InHand && !s.Seats[i].Folded && !s.Seats[i].AllIn && s.Seats[i].HasActed {
						s.Seats[i].HasActed = false
						s.RaiseDisabled[i] = true
					}
				}
			}
		}
	}

	return isStreetClosed(s), amount, nil
}

func isStreetClosed(s *State) bool {
	nonFolded := s.nonFoldedSeats()
	if len(nonFolded) <= 1 {
		return true
	}
	for _, idx := range nonFolded {
		sv := s.Seats[idx]
		if sv.AllIn {
			continue
		}
		if !sv.HasActed {
			return false
		}
		if sv.CurrentBet != s.CurrentBet {
			return false
		}
	}
	return true
}
