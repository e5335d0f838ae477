package card

import (
	"fmt"
	"math/rand"
)

// Deck is an ordered sequence of distinct cards, consumed from the top.
type Deck struct {
	cards []Card
	next  int
	rng   *rand.Rand
}

// NewDeck builds a freshly ordered, shuffled 52-card deck. rng is injected so
// hand dealing is reproducible in tests; a nil rng falls back to the
// package-level source.
func NewDeck(rng *rand.Rand) *Deck {
	cards := make([]Card, 0, 52)
	for suit := uint8(0); suit < 4; suit++ {
		for rank := uint8(0); rank < 13; rank++ {
			cards = append(cards, New(rank, suit))
		}
	}
	d := &Deck{cards: cards, rng: rng}
	d.Shuffle()
	return d
}

// RemovingCards builds a shuffled deck of the 52 cards minus those in used,
// used by the equity calculator to sample completions of a partial board.
func RemovingCards(rng *rand.Rand, used Hand) *Deck {
	cards := make([]Card, 0, 52)
	for suit := uint8(0); suit < 4; suit++ {
		for rank := uint8(0); rank < 13; rank++ {
			c := New(rank, suit)
			if !used.Has(c) {
				cards = append(cards, c)
			}
		}
	}
	d := &Deck{cards: cards, rng: rng}
	d.Shuffle()
	return d
}

// Shuffle performs an in-place Fisher-Yates shuffle and rewinds the deck.
func (d *Deck) Shuffle() {
	d.next = 0
	intn := rand.Intn
	if d.rng != nil {
		intn = d.rng.Intn
	}
	for i := len(d.cards) - 1; i > 0; i-- {
		j := intn(i + 1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the next n cards from the top of the deck.
func (d *Deck) Deal(n int) ([]Card, error) {
	if d.next+n > len(d.cards) {
		return nil, fmt.Errorf("card: deck exhausted, requested %d with %d remaining", n, d.Remaining())
	}
	dealt := make([]Card, n)
	copy(dealt, d.cards[d.next:d.next+n])
	d.next += n
	return dealt, nil
}

// DealOne removes and returns the top card.
func (d *Deck) DealOne() (Card, error) {
	cards, err := d.Deal(1)
	if err != nil {
		return 0, err
	}
	return cards[0], nil
}

// Remaining reports how many cards are still undealt.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}

// RemainingCards returns the undealt cards without consuming them.
func (d *Deck) RemainingCards() []Card {
	out := make([]Card, len(d.cards)-d.next)
	copy(out, d.cards[d.next:])
	return out
}
