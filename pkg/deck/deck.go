package deck

import (
	"crypto/sha1" // nolint:gosec
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand"

	"card-shoggoths-server/internal/rng"
)

// ErrExhaustedDeck is returned when more cards are requested than remain in the deck
var ErrExhaustedDeck = errors.New("the deck is exhausted")

// Deck represents a playing deck
// Cards are drawn from the front of the deck.
type Deck struct {
	Cards []Card `json:"cards"`
	ranks []int
	seed  int64
	rng   *rand.Rand
}

// New returns a new deck of cards.
// Important! this deck is unshuffled. You must call the Shuffle() method to shuffle the cards
func New() *Deck {
	return NewWithRanks(nil)
}

// NewWithRanks returns an unshuffled deck that only holds the specified ranks in every suit.
// A nil or empty ranks slice builds the standard 52 card deck.
func NewWithRanks(ranks []int) *Deck {
	d := &Deck{
		ranks: append([]int(nil), ranks...),
		seed:  -1,
	}

	d.buildDeck()
	return d
}

// SetSeed will set the seed
// Setting the seed makes every subsequent shuffle reproducible.
func (d *Deck) SetSeed(seed int64) {
	d.seed = seed
	d.rng = rand.New(rand.NewSource(seed)) // nolint:gosec
}

// GetSeed returns the seed used to shuffle the deck, or -1 if one was never set
func (d *Deck) GetSeed() int64 {
	return d.seed
}

func (d *Deck) buildDeck() {
	ranks := d.ranks
	if len(ranks) == 0 {
		ranks = make([]int, 0, 13)
		for rank := 2; rank <= Ace; rank++ {
			ranks = append(ranks, rank)
		}
	}

	cards := make([]Card, 0, len(ranks)*len(Suits))
	for _, suit := range Suits {
		for _, rank := range ranks {
			cards = append(cards, Card{
				Rank: rank,
				Suit: suit,
			})
		}
	}

	d.Cards = cards
}

// Shuffle rebuilds the full deck and shuffles it.
// If a seed was never set, one is taken from the crypto random source.
func (d *Deck) Shuffle() {
	d.buildDeck()

	if d.rng == nil {
		d.SetSeed(rng.Crypto{}.Int63())
	}

	for j := len(d.Cards) - 1; j > 0; j-- {
		i := d.rng.Intn(j + 1)

		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	}
}

// HashCode returns a SHA1 hash code of the deck.
func (d *Deck) HashCode() string {
	hash := sha1.New() // nolint:gosec
	for _, card := range d.Cards {
		_, _ = hash.Write([]byte(card.String()))
	}

	return hex.EncodeToString(hash.Sum(nil))
}

// Draw will draw the next card
// If there are no more cards, an ErrExhaustedDeck is returned.
func (d *Deck) Draw() (Card, error) {
	if len(d.Cards) <= 0 {
		return Card{}, ErrExhaustedDeck
	}

	card := d.Cards[0]
	d.Cards = d.Cards[1:]

	return card, nil
}

// Deal removes and returns the next n cards.
// The deck is left untouched if fewer than n cards remain.
func (d *Deck) Deal(n int) ([]Card, error) {
	if n < 0 {
		return nil, fmt.Errorf("cannot deal %d cards", n)
	}

	if !d.CanDraw(n) {
		return nil, fmt.Errorf("%w: wanted %d cards, %d left", ErrExhaustedDeck, n, len(d.Cards))
	}

	cards := make([]Card, n)
	copy(cards, d.Cards[:n])
	d.Cards = d.Cards[n:]

	return cards, nil
}

// RemoveCards removes the specified cards from the deck
// This is used to build the unseen remainder of a deck when simulating draws.
func (d *Deck) RemoveCards(cards ...Card) {
	remaining := d.Cards[:0]
	for _, c := range d.Cards {
		if !Hand(cards).HasCard(c) {
			remaining = append(remaining, c)
		}
	}

	d.Cards = remaining
}

// CanDraw returns true if there are {want} cards left in the deck
func (d *Deck) CanDraw(want int) bool {
	return len(d.Cards) >= want
}

// CardsLeft returns the number of cards left in the deck
func (d *Deck) CardsLeft() int {
	return len(d.Cards)
}
