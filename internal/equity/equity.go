// Package equity computes multiway all-in equity and expected-value profit
// across side pots for Pot-Limit Omaha hands.
package equity

import (
	"context"
	"math"
	"math/rand"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/okihara/plo-game-sub002/internal/card"
)

// monteCarloTrials is the fixed sample size used once three or more board
// cards remain unknown, per the section 4.2 sampling policy.
const monteCarloTrials = 2000

// maxWorkers caps Monte-Carlo parallelism regardless of host core count.
const maxWorkers = 8

// Hole is a PLO seat's four private cards.
type Hole = [4]card.Card

// Calculate returns each seat's equity share in [0,1] given the known board,
// the set of still-live hands, and any cards that must be excluded from the
// simulated deck (folded players' known cards, burn cards, etc).
//
// k = 5 - len(board) determines the strategy: k==0 evaluates once and splits
// among tied winners; k<=2 enumerates every completion exactly; k>=3 draws a
// fixed Monte-Carlo sample.
func Calculate(board []card.Card, hands map[int]Hole, dead []card.Card, rng *rand.Rand) map[int]float64 {
	result := make(map[int]float64, len(hands))
	if len(hands) == 0 {
		return result
	}
	if len(hands) == 1 {
		for seat := range hands {
			result[seat] = 1
		}
		return result
	}

	used := card.NewHand(dead...)
	for _, c := range board {
		used.Add(c)
	}
	for _, h := range hands {
		for _, c := range h {
			used.Add(c)
		}
	}

	k := 5 - len(board)
	switch {
	case k <= 0:
		splitShare(result, board, hands, 1)
	case k <= 2:
		enumerateCompletions(result, board, hands, used, k)
	default:
		monteCarlo(result, board, hands, used, rng)
	}

	var total float64
	for _, v := range result {
		total += v
	}
	if total > 0 {
		for seat := range result {
			result[seat] /= total
		}
	}
	return result
}

// splitShare evaluates a complete board once and adds 1/winners to each tied
// winner's accumulator, weighted by trials so callers can mix it with other
// sampling strategies.
func splitShare(acc map[int]float64, board []card.Card, hands map[int]Hole, trials float64) {
	var full [5]card.Card
	copy(full[:], board)

	seats := sortedSeats(hands)
	var best card.HandRank
	winners := make([]int, 0, len(seats))
	for _, seat := range seats {
		rank := card.EvaluatePLO(hands[seat], full)
		switch {
		case len(winners) == 0 || rank > best:
			best = rank
			winners = winners[:0]
			winners = append(winners, seat)
		case rank == best:
			winners = append(winners, seat)
		}
	}
	share := trials / float64(len(winners))
	for _, w := range winners {
		acc[w] += share
	}
}

func sortedSeats(hands map[int]Hole) []int {
	seats := make([]int, 0, len(hands))
	for s := range hands {
		seats = append(seats, s)
	}
	sort.Ints(seats)
	return seats
}

// enumerateCompletions exhaustively tries every combination of k unseen
// cards to complete the board.
func enumerateCompletions(acc map[int]float64, board []card.Card, hands map[int]Hole, used card.Hand, k int) {
	available := unseenCards(used)
	var trials float64
	combinations(available, k, func(combo []card.Card) {
		full := append(append([]card.Card{}, board...), combo...)
		splitShare(acc, full, hands, 1)
		trials++
	})
	if trials == 0 {
		return
	}
	for seat := range acc {
		acc[seat] /= trials
	}
}

// combinations invokes fn once per k-combination of items, in ascending
// index order.
func combinations(items []card.Card, k int, fn func([]card.Card)) {
	n := len(items)
	if k <= 0 || k > n {
		return
	}
	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}
	combo := make([]card.Card, k)
	for {
		for i, ix := range idx {
			combo[i] = items[ix]
		}
		fn(combo)

		i := k - 1
		for i >= 0 && idx[i] == n-k+i {
			i--
		}
		if i < 0 {
			return
		}
		idx[i]++
		for j := i + 1; j < k; j++ {
			idx[j] = idx[j-1] + 1
		}
	}
}

func unseenCards(used card.Hand) []card.Card {
	out := make([]card.Card, 0, 52)
	for suit := uint8(0); suit < 4; suit++ {
		for rank := uint8(0); rank < 13; rank++ {
			c := card.New(rank, suit)
			if !used.Has(c) {
				out = append(out, c)
			}
		}
	}
	return out
}

// monteCarlo draws monteCarloTrials random board completions via a partial
// Fisher-Yates prefix shuffle of the unseen cards, parallelized across
// independently-seeded workers in the style of the teacher's equity package.
func monteCarlo(acc map[int]float64, board []card.Card, hands map[int]Hole, used card.Hand, rng *rand.Rand) {
	available := unseenCards(used)
	k := 5 - len(board)
	if k > len(available) {
		return
	}

	workers := runtime.NumCPU()
	if workers > maxWorkers {
		workers = maxWorkers
	}
	if workers < 1 {
		workers = 1
	}
	perWorker := monteCarloTrials / workers
	remainder := monteCarloTrials % workers

	type partial struct {
		acc    map[int]float64
		trials int
	}
	results := make([]partial, workers)

	g, _ := errgroup.WithContext(context.Background())
	for w := 0; w < workers; w++ {
		w := w
		trials := perWorker
		if w < remainder {
			trials++
		}
		seed := rng.Int63()
		g.Go(func() error {
			workerRng := rand.New(rand.NewSource(seed))
			pool := append([]card.Card{}, available...)
			local := make(map[int]float64, len(hands))
			for t := 0; t < trials; t++ {
				partialFisherYates(pool, k, workerRng)
				full := append(append([]card.Card{}, board...), pool[:k]...)
				splitShare(local, full, hands, 1)
			}
			results[w] = partial{acc: local, trials: trials}
			return nil
		})
	}
	_ = g.Wait()

	var totalTrials int
	for _, r := range results {
		totalTrials += r.trials
		for seat, v := range r.acc {
			acc[seat] += v
		}
	}
	if totalTrials == 0 {
		return
	}
	for seat := range acc {
		acc[seat] /= float64(totalTrials)
	}
}

// partialFisherYates shuffles only the first k positions of pool, yielding a
// uniformly random k-subset-in-order without materializing a permutation of
// the whole slice.
func partialFisherYates(pool []card.Card, k int, rng *rand.Rand) {
	n := len(pool)
	for i := 0; i < k; i++ {
		j := i + rng.Intn(n-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
}

// SidePot mirrors the engine's pot shape: an amount contestable only by the
// listed eligible seats.
type SidePot struct {
	Amount   int
	Eligible []int
}

// AllInEVProfits computes, for every seat with a side-pot stake, the rounded
// difference between its multiway-equity expected winnings and its total
// contribution to the pot. Folded seats' known hole cards are treated as dead
// cards so they cannot appear in simulated run-outs.
func AllInEVProfits(board []card.Card, hands map[int]Hole, foldedDead []card.Card, pots []SidePot, totalBetBySeat map[int]int, rng *rand.Rand) map[int]int {
	winnings := make(map[int]float64, len(totalBetBySeat))

	for _, pot := range pots {
		eligible := make(map[int]Hole)
		for _, seat := range pot.Eligible {
			if h, ok := hands[seat]; ok {
				eligible[seat] = h
			}
		}
		if len(eligible) == 0 {
			continue
		}
		if len(eligible) == 1 {
			for seat := range eligible {
				winnings[seat] += float64(pot.Amount)
			}
			continue
		}

		dead := append([]card.Card{}, foldedDead...)
		for seat, h := range hands {
			if _, live := eligible[seat]; !live {
				dead = append(dead, h[:]...)
			}
		}

		shares := Calculate(board, eligible, dead, rng)
		for seat, share := range shares {
			winnings[seat] += share * float64(pot.Amount)
		}
	}

	profits := make(map[int]int, len(totalBetBySeat))
	for seat, bet := range totalBetBySeat {
		profits[seat] = int(math.RoundToEven(winnings[seat])) - bet
	}
	return profits
}
