package bot

import "github.com/okihara/plo-game-sub002/internal/card"

// preflopScore rates a four-card PLO starting hand on a 0..1 scale using the
// handful of well-known PLO heuristics: high pairs, double-suitedness,
// connectivity, and the danger of "dead" low cards that can't combine with
// anything else in the hand. This replaces the teacher's two-card Hold'em
// chart entirely — a PLO hand's strength turns on how its four cards work
// together, not on any single card.
func preflopScore(hole [4]card.Card) float64 {
	score := 0.2

	ranks := make([]uint8, 4)
	suits := make([]uint8, 4)
	for i, c := range hole {
		ranks[i] = c.Rank()
		suits[i] = c.Suit()
	}

	// Pair bonuses, bigger pairs worth more, and a second pair ("double
	// paired" AAKK-style hands) is a well-known premium shape.
	pairRanks := 0
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			if ranks[i] == ranks[j] {
				pairRanks++
				score += 0.04 + float64(ranks[i])*0.01
			}
		}
	}
	if pairRanks >= 2 {
		score += 0.05
	}

	// Suitedness: count how many suits are held by two or more hole cards.
	suitedPairs := 0
	suitCounts := map[uint8]int{}
	for _, s := range suits {
		suitCounts[s]++
	}
	for _, n := range suitCounts {
		if n == 2 {
			suitedPairs++
		} else if n >= 3 {
			// three or four of a suit is worse in PLO: only two of them can
			// ever be used, so the extra suited cards are close to dead.
			suitedPairs++
			score -= 0.03
		}
	}
	score += float64(suitedPairs) * 0.07
	if suitCounts[suits[0]] == 2 && len(suitCounts) == 2 {
		score += 0.03 // clean double-suited (two distinct suited pairs)
	}

	// Connectivity: reward hole cards within striking distance of a
	// straight; cards more than 4 apart from every other card can't combine.
	sorted := append([]uint8{}, ranks...)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[i] > sorted[j] {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	connected := 0
	dead := 0
	for i := range sorted {
		reachable := false
		for j := range sorted {
			if i == j {
				continue
			}
			gap := int(sorted[i]) - int(sorted[j])
			if gap < 0 {
				gap = -gap
			}
			if gap <= 4 {
				reachable = true
			}
		}
		if reachable {
			connected++
		} else {
			dead++
		}
	}
	score += float64(connected) * 0.025
	score -= float64(dead) * 0.05

	// Ace-high bonus: an ace contributes to both nut-flush and nut-straight
	// potential.
	for _, r := range ranks {
		if r == 12 { // ace
			score += 0.05
		}
	}

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score
}
