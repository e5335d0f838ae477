package bot

import (
	"math/rand"

	"github.com/okihara/plo-game-sub002/internal/card"
	"github.com/okihara/plo-game-sub002/internal/equity"
)

// HandStrength buckets a hand or its estimated equity for decision-tree
// branching, mirroring the five-way split the teacher's heuristic bot used.
type HandStrength int

const (
	VeryWeak HandStrength = iota
	Weak
	Medium
	Strong
	VeryStrong
)

func (hs HandStrength) String() string {
	switch hs {
	case VeryWeak:
		return "very weak"
	case Weak:
		return "weak"
	case Medium:
		return "medium"
	case Strong:
		return "strong"
	case VeryStrong:
		return "very strong"
	default:
		return "unknown"
	}
}

func equityToStrength(e float64) HandStrength {
	switch {
	case e >= 0.80:
		return VeryStrong
	case e >= 0.62:
		return Strong
	case e >= 0.45:
		return Medium
	case e >= 0.28:
		return Weak
	default:
		return VeryWeak
	}
}

// BoardTexture summarizes how coordinated the community cards are.
type BoardTexture int

const (
	DryBoard BoardTexture = iota
	SemiWetBoard
	WetBoard
	VeryWetBoard
)

func analyzeBoardTexture(board []card.Card) BoardTexture {
	if len(board) < 3 {
		return DryBoard
	}
	h := card.NewHand(board...)

	wetness := 0
	maxSuit := 0
	for suit := uint8(0); suit < 4; suit++ {
		if c := popcount16(h.SuitMask(suit)); c > maxSuit {
			maxSuit = c
		}
	}
	switch {
	case maxSuit >= 3:
		wetness += 2
	case maxSuit == 2:
		wetness++
	}

	ranks := h.RankMask()
	connected := 0
	for r := 0; r < 13; r++ {
		if ranks&(1<<uint(r)) != 0 {
			for gap := 1; gap <= 2; gap++ {
				if r+gap < 13 && ranks&(1<<uint(r+gap)) != 0 {
					connected++
					break
				}
			}
		}
	}
	if connected >= 2 {
		wetness += 2
	}

	if boardHasPair(board) {
		wetness++
	}

	switch {
	case wetness >= 5:
		return VeryWetBoard
	case wetness >= 3:
		return WetBoard
	case wetness >= 1:
		return SemiWetBoard
	default:
		return DryBoard
	}
}

func boardHasPair(board []card.Card) bool {
	counts := map[uint8]int{}
	for _, c := range board {
		counts[c.Rank()]++
		if counts[c.Rank()] >= 2 {
			return true
		}
	}
	return false
}

func popcount16(m uint16) int {
	n := 0
	for m != 0 {
		n += int(m & 1)
		m >>= 1
	}
	return n
}

// estimateEquity samples `opponents` hands for the unseen portion of the
// deck and returns our seat's average equity share, reusing the table's own
// Monte-Carlo/enumeration engine rather than re-deriving one. Grounded on
// equity.Calculate's k-dependent strategy: exact once board is complete,
// enumerated near the river, sampled before that.
func estimateEquity(hole [4]card.Card, board []card.Card, dead []card.Card, opponents int, rng *rand.Rand) float64 {
	if opponents < 1 {
		opponents = 1
	}
	const rounds = 40 // average over several opponent-hand draws, not just one

	used := card.NewHand(board...)
	used.Add(hole[0])
	used.Add(hole[1])
	used.Add(hole[2])
	used.Add(hole[3])
	for _, c := range dead {
		used.Add(c)
	}

	total := 0.0
	for i := 0; i < rounds; i++ {
		hands := map[int]equity.Hole{0: hole}
		deck := card.RemovingCards(rng, used)
		ok := true
		for o := 1; o <= opponents; o++ {
			oppHole, err := deck.Deal(4)
			if err != nil {
				ok = false
				break
			}
			hands[o] = equity.Hole{oppHole[0], oppHole[1], oppHole[2], oppHole[3]}
		}
		if !ok {
			continue
		}
		shares := equity.Calculate(board, hands, dead, rng)
		total += shares[0]
	}
	return total / float64(rounds)
}

// nutGap estimates how far our made hand sits below the board's current nut
// hand, a PLO-specific concern the teacher's Hold'em bot never had to weigh:
// in PLO the best possible hand is reachable far more often, so "strong" by
// raw equity can still be a clear underdog to the nuts. Returns 0 when we
// hold the nuts, rising toward 1 the further our rank trails the best rank
// found among randomly sampled four-card holdings from the unseen cards.
func nutGap(hole [4]card.Card, board []card.Card, rng *rand.Rand) float64 {
	if len(board) != 5 {
		return 0 // only meaningful once the full board is known
	}
	var b5 [5]card.Card
	copy(b5[:], board)

	myRank := card.EvaluatePLO(hole, b5)

	used := card.NewHand(board...)
	used.Add(hole[0])
	used.Add(hole[1])
	used.Add(hole[2])
	used.Add(hole[3])
	deck := card.RemovingCards(rng, used)
	pool := deck.RemainingCards()

	best := myRank
	const samples = 60
	for i := 0; i < samples && len(pool) >= 4; i++ {
		idx := rng.Perm(len(pool))[:4]
		var cand [4]card.Card
		for j, k := range idx {
			cand[j] = pool[k]
		}
		r := card.EvaluatePLO(cand, b5)
		if r > best {
			best = r
		}
	}
	if best == myRank {
		return 0
	}
	span := float64(best - myRank)
	norm := span / float64(best)
	if norm > 1 {
		norm = 1
	}
	return norm
}

// blockerCount counts how many of our hole cards are the highest rank not on
// the board of a suit with three or more board cards, i.e. the card an
// opponent would need to hold the board's nut flush, reducing the chance
// anyone else has it. Straight blockers are not counted. A rough but cheap
// blocker heuristic.
func blockerCount(hole [4]card.Card, board []card.Card) int {
	if len(board) < 3 {
		return 0
	}
	h := card.NewHand(board...)
	blockers := 0

	for suit := uint8(0); suit < 4; suit++ {
		if popcount16(h.SuitMask(suit)) >= 3 {
			nutRank := highestUnseenRank(suit, board)
			for _, c := range hole {
				if c.Suit() == suit && c.Rank() == nutRank {
					blockers++
				}
			}
		}
	}
	return blockers
}

func highestUnseenRank(suit uint8, board []card.Card) uint8 {
	seen := map[uint8]bool{}
	for _, c := range board {
		if c.Suit() == suit {
			seen[c.Rank()] = true
		}
	}
	for r := int8(12); r >= 0; r-- {
		if !seen[uint8(r)] {
			return uint8(r)
		}
	}
	return 0
}
