package drawpoker

import (
	"fmt"

	"card-shoggoths-server/pkg/deck"
	"card-shoggoths-server/pkg/playable"
	"card-shoggoths-server/pkg/playable/poker/opponent"
	"card-shoggoths-server/pkg/playable/poker/potmanager"

	"github.com/sirupsen/logrus"
)

// Record is the persisted form of a Game
// Sanity is not part of the record. It belongs to the players, which are persisted by their owner.
type Record struct {
	Phase       Phase             `json:"phase"`
	RoundNumber int               `json:"roundNumber"`
	Seats       []SeatRecord      `json:"seats"`
	Deck        []deck.Card       `json:"deck,omitempty"`
	Pot         *potmanager.State `json:"pot,omitempty"`
	Result      *Result           `json:"result,omitempty"`
}

// SeatRecord is the persisted form of a Seat
type SeatRecord struct {
	PlayerID  int64     `json:"playerId"`
	Hand      deck.Hand `json:"hand"`
	Folded    bool      `json:"folded"`
	Discarded bool      `json:"discarded"`
}

// Record returns a snapshot of the game
func (g *Game) Record() *Record {
	rec := &Record{
		Phase:       g.phase,
		RoundNumber: g.roundNumber,
		Seats:       make([]SeatRecord, len(g.seats)),
		Result:      g.result,
	}

	for i, seat := range g.seats {
		rec.Seats[i] = SeatRecord{
			PlayerID:  seat.PlayerID,
			Hand:      seat.Hand(),
			Folded:    seat.folded,
			Discarded: seat.discarded,
		}
	}

	if g.deck != nil {
		rec.Deck = append([]deck.Card(nil), g.deck.Cards...)
	}

	if g.potManager != nil {
		state := g.potManager.State()
		rec.Pot = &state
	}

	return rec
}

// Restore rebuilds a game from a record
func Restore(logger logrus.FieldLogger, human, opp *playable.Player, policy opponent.Policy, opts Options, rec *Record) (*Game, error) {
	g, err := NewGame(logger, human, opp, policy, opts)
	if err != nil {
		return nil, err
	}

	if len(rec.Seats) != len(g.seats) {
		return nil, fmt.Errorf("expected %d seats, got %d", len(g.seats), len(rec.Seats))
	}

	for i, seat := range g.seats {
		sr := rec.Seats[i]
		if sr.PlayerID != seat.PlayerID {
			return nil, fmt.Errorf("seat %d belongs to player %d, got %d", i, sr.PlayerID, seat.PlayerID)
		}

		seat.hand = sr.Hand.Clone()
		if seat.hand == nil {
			seat.hand = make(deck.Hand, 0, handSize)
		}
		seat.folded = sr.Folded
		seat.discarded = sr.Discarded
	}

	if rec.Deck != nil {
		g.deck = deck.New()
		g.deck.Cards = append([]deck.Card(nil), rec.Deck...)
	}

	if rec.Pot != nil {
		pm, err := potmanager.Restore(*rec.Pot, g.human, g.opponent)
		if err != nil {
			return nil, err
		}

		g.potManager = pm
	}

	if rec.Phase.IsBetting() && g.potManager == nil {
		return nil, fmt.Errorf("phase %s requires a pot", rec.Phase)
	}

	g.phase = rec.Phase
	g.roundNumber = rec.RoundNumber
	g.result = rec.Result

	return g, nil
}
