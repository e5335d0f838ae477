package app

import (
	"github.com/okihara/plo-game-sub002/internal/card"
	"github.com/okihara/plo-game-sub002/internal/engine"
	"github.com/okihara/plo-game-sub002/internal/persistence"
	"github.com/okihara/plo-game-sub002/internal/protocol"
)

// computeHandStats derives the per-seat tracking-stat deltas for one
// completed hand from its full action history. Every InHand seat gets an
// entry, including ones that folded before ever acting.
func computeHandStats(state engine.State) map[int]persistence.StatsDelta {
	deltas := make(map[int]persistence.StatsDelta)
	foldedPreflop := make(map[int]bool)
	for i, sv := range state.Seats {
		if sv.InHand {
			deltas[i] = persistence.StatsDelta{}
		}
	}

	preflopAggressor := -1
	preflopRaises := 0
	raiseLevel := make(map[engine.Street]int)
	for _, rec := range state.History {
		d, ok := deltas[rec.Seat]
		if !ok {
			continue
		}
		switch rec.Action {
		case engine.Fold:
			if rec.Street == engine.Preflop {
				foldedPreflop[rec.Seat] = true
			}
		case engine.Call:
			d.CallActions++
			if rec.Street == engine.Preflop {
				d.VPIP = true
			}
		case engine.Bet, engine.Raise, engine.AllIn:
			if rec.Amount > raiseLevel[rec.Street] {
				raiseLevel[rec.Street] = rec.Amount
				d.AggressiveActions++
				if rec.Street == engine.Preflop {
					preflopRaises++
					preflopAggressor = rec.Seat
					d.PFR = true
					d.VPIP = true
					switch preflopRaises {
					case 2:
						d.ThreeBet = true
					case 3:
						d.FourBet = true
					}
				}
			}
		}
		deltas[rec.Seat] = d
	}

	sawFlop := len(state.Board) >= 3
	for i, d := range deltas {
		d.SawFlop = sawFlop && !foldedPreflop[i]
		deltas[i] = d
	}

	if preflopAggressor >= 0 {
		cbetMade := false
		for _, rec := range state.History {
			if rec.Street != engine.Flop {
				continue
			}
			d, ok := deltas[rec.Seat]
			if !ok {
				continue
			}
			if rec.Seat == preflopAggressor {
				if !cbetMade {
					d.CBetOpportunity = true
					if rec.Action == engine.Bet || rec.Action == engine.Raise {
						d.CBetMade = true
						cbetMade = true
					}
					deltas[rec.Seat] = d
				}
				continue
			}
			if cbetMade && !d.FoldToCBetOpportunity {
				d.FoldToCBetOpportunity = true
				d.FoldToCBetMade = rec.Action == engine.Fold
				deltas[rec.Seat] = d
			}
		}
	}

	return deltas
}

// positionLabel names seatIdx's table position relative to the button among
// this hand's participants, using the standard 6-max position ladder
// truncated to however many seats played the hand.
func positionLabel(state engine.State, seatIdx int) string {
	var order []int
	idx := state.DealerPosition
	for i := 0; i < 6; i++ {
		if state.Seats[idx].InHand {
			order = append(order, idx)
		}
		idx = (idx + 1) % 6
	}
	names := positionNames(len(order))
	for i, s := range order {
		if s == seatIdx {
			if i < len(names) {
				return names[i]
			}
			return "MP"
		}
	}
	return ""
}

func positionNames(n int) []string {
	switch n {
	case 2:
		return []string{"SB", "BB"}
	case 3:
		return []string{"BTN", "SB", "BB"}
	case 4:
		return []string{"BTN", "SB", "BB", "UTG"}
	case 5:
		return []string{"BTN", "SB", "BB", "UTG", "CO"}
	default:
		return []string{"BTN", "SB", "BB", "UTG", "MP", "CO"}
	}
}

func cardsToStrings(cards []card.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}

func averagePerHand(st persistence.PlayerStats) float64 {
	if st.Hands == 0 {
		return 0
	}
	return float64(st.NetChips) / float64(st.Hands)
}

// detailedStatsFrom converts a StatsWriter's running aggregate into the wire
// shape game:completed reports.
func detailedStatsFrom(st persistence.PlayerStats) *protocol.PlayerDetailedStats {
	pos := make(map[string]protocol.PositionStatSummary, len(st.ByPosition))
	for k, v := range st.ByPosition {
		pos[k] = protocol.PositionStatSummary{Hands: v.Hands, NetBB: v.NetBB, BBPerHand: ratio100(v.NetBB, v.Hands)}
	}
	street := make(map[string]protocol.StreetStatSummary, len(st.ByStreet))
	for k, v := range st.ByStreet {
		street[k] = protocol.StreetStatSummary{HandsEnded: v.HandsEnded, NetBB: v.NetBB, BBPerHand: ratio100(v.NetBB, v.HandsEnded)}
	}
	cat := make(map[string]protocol.CategoryStatSummary, len(st.ByCategory))
	for k, v := range st.ByCategory {
		cat[k] = protocol.CategoryStatSummary{Hands: v.Hands, NetBB: v.NetBB, BBPerHand: ratio100(v.NetBB, v.Hands)}
	}
	return &protocol.PlayerDetailedStats{
		BB100:             st.BB100(),
		Mean:              st.MeanBB(),
		StdDev:            st.StdDevBB(),
		WinRate:           st.VPIP(),
		ShowdownWinRate:   st.WSD(),
		PositionStats:     pos,
		StreetStats:       street,
		HandCategoryStats: cat,
	}
}

func ratio100(netBB float64, hands int) float64 {
	if hands == 0 {
		return 0
	}
	return netBB / float64(hands)
}
