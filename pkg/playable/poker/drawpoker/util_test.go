package drawpoker

import (
	"testing"

	"card-shoggoths-server/pkg/deck"
	"card-shoggoths-server/pkg/playable"
	"card-shoggoths-server/pkg/playable/poker/action"
	"card-shoggoths-server/pkg/playable/poker/opponent"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

const (
	humanID    int64 = 1
	opponentID int64 = 2
)

// scriptedPolicy plays the queued decisions in order, then checks or calls
type scriptedPolicy struct {
	decisions []opponent.Decision
	discards  []int
	views     []opponent.View
}

func (s *scriptedPolicy) Name() string {
	return "The Ancient One"
}

func (s *scriptedPolicy) DecideAction(view opponent.View) opponent.Decision {
	s.views = append(s.views, view)

	if len(s.decisions) > 0 {
		d := s.decisions[0]
		s.decisions = s.decisions[1:]
		return d
	}

	if view.IsLegal(action.Check) {
		return opponent.Decision{Action: action.Check}
	}

	return opponent.Decision{Action: action.Call}
}

func (s *scriptedPolicy) ChooseDiscard(hand deck.Hand) []int {
	if s.discards == nil {
		return []int{}
	}

	return s.discards
}

func (s *scriptedPolicy) queue(a action.Action, amount int) *scriptedPolicy {
	s.decisions = append(s.decisions, opponent.Decision{Action: a, Amount: amount})
	return s
}

func newPlayers(humanSanity, opponentSanity int) (*playable.Player, *playable.Player) {
	return &playable.Player{PlayerID: humanID, Name: "Miskatonic Scholar", IsHuman: true, Sanity: humanSanity},
		&playable.Player{PlayerID: opponentID, Name: "The Ancient One", Sanity: opponentSanity}
}

func newTestGame(t *testing.T, policy opponent.Policy, humanSanity, opponentSanity int) *Game {
	t.Helper()

	opts := DefaultOptions()
	opts.Seed = 42

	human, opp := newPlayers(humanSanity, opponentSanity)
	g, err := NewGame(logrus.StandardLogger(), human, opp, policy, opts)
	assert.NoError(t, err)
	return g
}

func dealTestGame(t *testing.T, policy opponent.Policy) *Game {
	t.Helper()

	g := newTestGame(t, policy, 100, 100)
	_, err := g.Deal()
	assert.NoError(t, err)
	return g
}

func setHands(g *Game, human, opp string) {
	g.human.hand = deck.Hand(deck.CardsFromString(human))
	g.opponent.hand = deck.Hand(deck.CardsFromString(opp))
}

func totalSanity(g *Game) int {
	total := g.human.Sanity + g.opponent.Sanity
	if g.potManager != nil {
		total += g.potManager.GetPot()
	}

	return total
}
