package drawpoker

import (
	"sort"

	"card-shoggoths-server/pkg/deck"
	"card-shoggoths-server/pkg/playable"
	"card-shoggoths-server/pkg/playable/poker/handanalyzer"
)

// Seat is a player and their cards for the current round
type Seat struct {
	*playable.Player

	hand      deck.Hand
	folded    bool
	discarded bool
}

func newSeat(player *playable.Player) *Seat {
	return &Seat{
		Player: player,
		hand:   make(deck.Hand, 0, handSize),
	}
}

func (s *Seat) reset() {
	s.hand = make(deck.Hand, 0, handSize)
	s.folded = false
	s.discarded = false
}

// Hand returns a copy of the seat's cards
func (s *Seat) Hand() deck.Hand {
	return s.hand.Clone()
}

// replaceCards swaps the cards at the indices for new cards from the deck, in index order
func (s *Seat) replaceCards(d *deck.Deck, indices []int) error {
	sorted := append([]int(nil), indices...)
	sort.Ints(sorted)

	cards, err := d.Deal(len(sorted))
	if err != nil {
		return err
	}

	for i, index := range sorted {
		s.hand[index] = cards[i]
	}

	s.discarded = true
	return nil
}

func (s *Seat) describeHand() string {
	if len(s.hand) != handSize {
		return ""
	}

	return handanalyzer.New(s.hand).Describe()
}

type seatJSON struct {
	PlayerID     int64     `json:"playerId"`
	Name         string    `json:"name"`
	IsHuman      bool      `json:"isHuman"`
	Sanity       int       `json:"sanity"`
	Cards        deck.Hand `json:"cards"`
	CardCount    int       `json:"cardCount"`
	Hand         string    `json:"hand,omitempty"`
	Folded       bool      `json:"folded"`
	Discarded    bool      `json:"discarded"`
	AllIn        bool      `json:"allIn"`
	AmountInPlay int       `json:"amountInPlay"`
}

func (s *Seat) seatJSON(g *Game, reveal bool) *seatJSON {
	sj := &seatJSON{
		PlayerID:  s.PlayerID,
		Name:      s.Name,
		IsHuman:   s.IsHuman,
		Sanity:    s.Sanity,
		CardCount: len(s.hand),
		Folded:    s.folded,
		Discarded: s.discarded,
	}

	if g.potManager != nil {
		sj.AllIn = g.potManager.IsAllIn(s)
		sj.AmountInPlay = g.potManager.GetAmountInPlay(s)
	}

	if reveal {
		sj.Cards = s.Hand()
		sj.Hand = s.describeHand()
	}

	return sj
}
