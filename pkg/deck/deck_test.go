package deck

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDeck(t *testing.T) {
	a := assert.New(t)
	deck := New()

	a.Equal(52, deck.CardsLeft())
	a.Equal(Card{Rank: 2, Suit: Clubs}, deck.Cards[0])
	a.Equal(Card{Rank: 14, Suit: Spades}, deck.Cards[51])
	a.Equal("10d82660174fdc27fcd9d7979735efc4bc811e5b", deck.HashCode())
	a.Equal(int64(-1), deck.GetSeed())

	seen := make(map[Card]bool)
	for _, c := range deck.Cards {
		a.False(seen[c], "duplicate %s", c)
		seen[c] = true
	}
}

func TestDeck_Shuffle(t *testing.T) {
	a := assert.New(t)

	d1 := New()
	d1.SetSeed(1)
	d1.Shuffle()

	d2 := New()
	d2.SetSeed(1)
	d2.Shuffle()

	a.Equal(d1.HashCode(), d2.HashCode())
	a.NotEqual(New().HashCode(), d1.HashCode())
	a.Equal(52, d1.CardsLeft())

	// a second shuffle continues the seeded sequence
	first := d1.HashCode()
	d1.Shuffle()
	a.NotEqual(first, d1.HashCode())
	a.Equal(52, d1.CardsLeft())

	// unseeded decks pick their own seed
	d3 := New()
	d3.Shuffle()
	a.GreaterOrEqual(d3.GetSeed(), int64(0))
}

func TestDeck_Draw(t *testing.T) {
	a := assert.New(t)
	deck := New()

	a.True(deck.CanDraw(52))
	a.False(deck.CanDraw(53))

	for i := 0; i < 52; i++ {
		_, err := deck.Draw()
		a.NoError(err)
	}

	a.False(deck.CanDraw(1))

	card, err := deck.Draw()
	a.Equal(Card{}, card)
	a.Equal(ErrExhaustedDeck, err)

	deck.Shuffle()
	a.True(deck.CanDraw(52))
}

func TestDeck_Deal(t *testing.T) {
	a := assert.New(t)
	d := New()
	d.Cards = CardsFromString("2c,3c,4c,5c")

	cards, err := d.Deal(3)
	a.NoError(err)
	a.Equal("2c,3c,4c", CardsToString(cards))
	a.Equal(1, d.CardsLeft())

	cards, err = d.Deal(2)
	a.Nil(cards)
	a.True(errors.Is(err, ErrExhaustedDeck))
	a.EqualError(err, "the deck is exhausted: wanted 2 cards, 1 left")
	a.Equal(1, d.CardsLeft(), "a failed deal leaves the deck untouched")

	cards, err = d.Deal(0)
	a.NoError(err)
	a.Len(cards, 0)

	_, err = d.Deal(-1)
	a.EqualError(err, "cannot deal -1 cards")
}

func TestDeck_RemoveCards(t *testing.T) {
	a := assert.New(t)
	d := New()
	d.RemoveCards(CardsFromString("5s,5c,14h")...)
	a.Equal(49, d.CardsLeft())
	a.False(Hand(d.Cards).HasCard(CardFromString("5s")))
	a.True(Hand(d.Cards).HasCard(CardFromString("5h")))
}

func TestNewWithRanks(t *testing.T) {
	a := assert.New(t)
	d := NewWithRanks([]int{2, 3, 5, 7})
	a.Equal(16, d.CardsLeft())

	d.SetSeed(7)
	d.Shuffle()
	a.Equal(16, d.CardsLeft())
	for _, c := range d.Cards {
		a.Contains([]int{2, 3, 5, 7}, c.Rank)
	}
}
