package shoggoth

import (
	"errors"
	"time"

	"card-shoggoths-server/internal/rng"
	"card-shoggoths-server/pkg/playable"
	"card-shoggoths-server/pkg/playable/esp"
	"card-shoggoths-server/pkg/playable/poker/drawpoker"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"
)

// Record is the persisted form of a session
type Record struct {
	Human     playable.Player   `json:"human"`
	Opponent  playable.Player   `json:"opponent"`
	Round     *drawpoker.Record `json:"round"`
	ESP       *esp.Round        `json:"esp,omitempty"`
	Narration string            `json:"narration"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// Record returns a snapshot of the session
func (g *Game) Record() *Record {
	rec := &Record{
		Human:     *g.human,
		Opponent:  *g.opponent,
		Round:     g.round.Record(),
		Narration: g.narration,
		CreatedAt: g.createdAt,
		UpdatedAt: g.updatedAt,
	}

	if g.activeESP != nil {
		round := *g.activeESP
		round.Hand1 = round.Hand1.Clone()
		round.Hand2 = round.Hand2.Clone()
		rec.ESP = &round
	}

	return rec
}

// Restore rebuilds a session from a record
func Restore(logger logrus.FieldLogger, opts Options, clock quartz.Clock, random rng.Generator, rec *Record) (*Game, error) {
	if rec == nil || rec.Round == nil {
		return nil, errors.New("record has no round")
	}

	human := rec.Human
	opp := rec.Opponent

	g, err := newGame(logger, opts, clock, random, &human, &opp)
	if err != nil {
		return nil, err
	}

	round, err := drawpoker.Restore(g.logger, g.human, g.opponent, opts.Opponent, opts.Poker, rec.Round)
	if err != nil {
		return nil, err
	}

	g.round = round
	g.narration = rec.Narration
	g.createdAt = rec.CreatedAt
	g.updatedAt = rec.UpdatedAt

	if rec.ESP != nil {
		round := *rec.ESP
		g.activeESP = &round
	}

	return g, nil
}
