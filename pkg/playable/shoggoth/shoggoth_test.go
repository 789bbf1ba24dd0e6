package shoggoth

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"card-shoggoths-server/internal/rng"
	"card-shoggoths-server/pkg/playable"
	"card-shoggoths-server/pkg/playable/poker/action"
	"card-shoggoths-server/pkg/playable/poker/drawpoker"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newTestGame(t *testing.T) (*Game, *quartz.Mock) {
	t.Helper()

	opts := DefaultOptions()
	opts.Poker.Seed = 42
	opts.Opponent.DiscardSimulations = 10

	clock := quartz.NewMock(t)
	g, err := NewGame(logrus.StandardLogger(), "Miskatonic Scholar", opts, clock, rng.NewSeeded(3))
	assert.NoError(t, err)
	return g, clock
}

func advance(clock *quartz.Mock, d time.Duration) {
	clock.Advance(d).MustWait(context.Background())
}

func wrongGuess(g *Game) (int, int) {
	return g.activeESP.MatchIndex1, (g.activeESP.MatchIndex2 + 1) % len(g.activeESP.Hand2)
}

func TestNewGame(t *testing.T) {
	a := assert.New(t)

	g, err := NewGame(logrus.StandardLogger(), "  ", DefaultOptions(), nil, nil)
	a.NoError(err)
	a.NotEmpty(g.Human().Name)
	a.NotEqual("You", g.Human().Name)
	a.Equal("The Ancient One", g.Opponent().Name)
	a.Equal(100, g.Human().Sanity)
	a.Equal(100, g.Opponent().Sanity)
	a.Equal(drawpoker.PhaseAnte, g.Phase())
	a.True(g.CanStartESP())

	opts := DefaultOptions()
	opts.ESP.HandSize = 0
	_, err = NewGame(logrus.StandardLogger(), "x", opts, nil, nil)
	a.Error(err)
}

func TestGame_ESPTimeoutAfterWrongGuesses(t *testing.T) {
	a := assert.New(t)

	g, clock := newTestGame(t)
	outcome, err := g.StartESP()
	a.NoError(err)
	a.True(outcome.ESPActive)
	a.Equal(drawpoker.PhaseAnte, outcome.Phase)
	a.Contains(outcome.Narration, "Find the matching cards!")

	i, j := wrongGuess(g)
	for attempt := 0; attempt < 3; attempt++ {
		outcome, err := g.GuessESP(i, j)
		a.NoError(err)
		a.False(*outcome.Correct)
		a.True(outcome.ESPActive)
	}
	a.Equal(3, g.activeESP.Attempts)
	a.Equal(100, g.Human().Sanity)

	advance(clock, 16*time.Second)
	outcome, err = g.GuessESP(g.activeESP.MatchIndex1, g.activeESP.MatchIndex2)
	a.True(errors.Is(err, playable.ErrDeadlineExpired))
	a.False(outcome.ESPActive)
	a.Equal(drawpoker.PhaseAnte, outcome.Phase)
	a.Equal(90, g.Human().Sanity)
	a.False(g.IsESPActive())

	_, err = g.GuessESP(0, 0)
	a.True(errors.Is(err, playable.ErrNoActiveESP))
	a.Equal(90, g.Human().Sanity)
}

func TestGame_ESPCorrect(t *testing.T) {
	a := assert.New(t)

	g, clock := newTestGame(t)
	_, err := g.StartESP()
	a.NoError(err)

	advance(clock, 10*time.Second)
	outcome, err := g.GuessESP(g.activeESP.MatchIndex1, g.activeESP.MatchIndex2)
	a.NoError(err)
	a.True(*outcome.Correct)
	a.False(outcome.ESPActive)
	a.Equal("Your mind pierces the veil! +15 Sanity", outcome.Narration)
	a.Equal(115, g.Human().Sanity)
	a.Equal(drawpoker.PhaseAnte, g.Phase())
}

func TestGame_ESPBlocksPoker(t *testing.T) {
	a := assert.New(t)

	g, _ := newTestGame(t)
	_, _ = g.StartESP()

	before := g.Record()
	_, err := g.Deal()
	a.True(errors.Is(err, playable.ErrIllegalPhase))
	_, err = g.Rebuy()
	a.True(errors.Is(err, playable.ErrIllegalPhase))
	_, err = g.StartESP()
	a.True(errors.Is(err, playable.ErrIllegalPhase))
	a.Equal(before, g.Record())

	outcome, err := g.ExitESP()
	a.NoError(err)
	a.Equal("You close your third eye.", outcome.Narration)
	a.Equal(100, g.Human().Sanity)

	_, err = g.ExitESP()
	a.True(errors.Is(err, playable.ErrNoActiveESP))

	outcome, err = g.Deal()
	a.NoError(err)
	a.Equal(drawpoker.PhasePreDrawBetting, outcome.Phase)

	_, err = g.StartESP()
	a.True(errors.Is(err, playable.ErrIllegalPhase))
}

func TestGame_TickExpiresOnce(t *testing.T) {
	a := assert.New(t)

	g, clock := newTestGame(t)
	_, _ = g.StartESP()

	changed, err := g.Tick()
	a.NoError(err)
	a.False(changed)

	advance(clock, 20*time.Second)
	changed, err = g.Tick()
	a.NoError(err)
	a.True(changed)
	a.Equal(90, g.Human().Sanity)
	a.Contains(g.Narration(), "Time runs out")

	changed, _ = g.Tick()
	a.False(changed)
	a.Equal(90, g.Human().Sanity)
}

func TestGame_ESPTimeoutEndsGame(t *testing.T) {
	a := assert.New(t)

	g, clock := newTestGame(t)
	g.Human().Sanity = 5
	_, _ = g.StartESP()

	advance(clock, 20*time.Second)
	changed, err := g.Tick()
	a.NoError(err)
	a.True(changed)
	a.Equal(0, g.Human().Sanity)
	a.Equal(drawpoker.PhaseGameOver, g.Phase())
	a.Contains(g.Narration(), "The visions consumed you. Game Over.")

	outcome, err := g.Rebuy()
	a.NoError(err)
	a.Equal(drawpoker.PhaseAnte, outcome.Phase)
	a.Equal(100, g.Human().Sanity)
}

func TestGame_ESPWrongGuessEndsGame(t *testing.T) {
	a := assert.New(t)

	opts := DefaultOptions()
	opts.Poker.Seed = 42
	opts.Opponent.DiscardSimulations = 10
	opts.ESP.WrongGuessPenalty = 5

	clock := quartz.NewMock(t)
	g, err := NewGame(logrus.StandardLogger(), "Miskatonic Scholar", opts, clock, rng.NewSeeded(3))
	a.NoError(err)

	g.Human().Sanity = 5
	_, err = g.StartESP()
	a.NoError(err)

	i1, i2 := g.activeESP.MatchIndex1, g.activeESP.MatchIndex2
	w1, w2 := wrongGuess(g)
	outcome, err := g.GuessESP(w1, w2)
	a.NoError(err)
	a.False(*outcome.Correct)
	a.False(outcome.ESPActive)
	a.Equal(drawpoker.PhaseGameOver, outcome.Phase)
	a.Equal(0, g.Human().Sanity)
	a.Contains(outcome.Narration, "The visions consumed you. Game Over.")

	_, err = g.GuessESP(i1, i2)
	a.True(errors.Is(err, playable.ErrNoActiveESP))
	a.Equal(0, g.Human().Sanity)
	a.Equal(drawpoker.PhaseGameOver, g.Phase())
}

func TestGame_RecordRestore(t *testing.T) {
	a := assert.New(t)

	g, clock := newTestGame(t)
	_, _ = g.StartESP()
	i, j := wrongGuess(g)
	_, _ = g.GuessESP(i, j)

	data, err := json.Marshal(g.Record())
	a.NoError(err)

	var rec Record
	a.NoError(json.Unmarshal(data, &rec))

	restored, err := Restore(logrus.StandardLogger(), g.options, clock, rng.NewSeeded(3), &rec)
	a.NoError(err)
	a.True(restored.IsESPActive())
	a.Equal(1, restored.activeESP.Attempts)
	a.Equal(g.activeESP.MatchIndex1, restored.activeESP.MatchIndex1)
	a.Equal(g.Narration(), restored.Narration())
	a.Equal(g.Human().Sanity, restored.Human().Sanity)

	// the deadline survives a restore
	advance(clock, 16*time.Second)
	_, err = restored.GuessESP(0, 0)
	a.True(errors.Is(err, playable.ErrDeadlineExpired))

	_, err = Restore(logrus.StandardLogger(), g.options, clock, nil, &Record{})
	a.EqualError(err, "record has no round")
}

func TestGame_Action(t *testing.T) {
	a := assert.New(t)

	g, _ := newTestGame(t)

	resp, updated, err := g.Action(HumanID, &playable.PayloadIn{Action: "deal", Context: "abc"})
	a.NoError(err)
	a.True(updated)
	a.Equal("abc", resp.Context)
	a.Equal(drawpoker.PhasePreDrawBetting, resp.Data.(*Outcome).Phase)

	_, updated, err = g.Action(HumanID, &playable.PayloadIn{Action: "bet", AdditionalData: playable.AdditionalData{"amount": float64(10)}})
	a.NoError(err)
	a.True(updated)

	_, updated, err = g.Action(HumanID, &playable.PayloadIn{Action: "dance"})
	a.True(errors.Is(err, playable.ErrIllegalAction))
	a.False(updated)

	_, _, err = g.Action(OpponentID, &playable.PayloadIn{Action: "deal"})
	a.True(errors.Is(err, playable.ErrIllegalAction))

	_, _, err = g.Action(HumanID, &playable.PayloadIn{Action: "espGuess", AdditionalData: playable.AdditionalData{"index1": float64(1)}})
	a.True(errors.Is(err, playable.ErrIllegalIndex))

	_, _, err = g.Action(HumanID, &playable.PayloadIn{Action: "discard", AdditionalData: playable.AdditionalData{"indices": "1,2"}})
	a.True(errors.Is(err, playable.ErrIllegalIndex))

	resp, err = g.GetPlayerState(HumanID)
	a.NoError(err)
	state := resp.Data.(*State)
	a.Equal(g.Phase(), state.Phase)
	a.Equal(g.Human().Sanity, state.Sanity)
}

func TestGame_Logs(t *testing.T) {
	a := assert.New(t)

	g, _ := newTestGame(t)
	_, err := g.Act(action.Check, 0)
	a.True(errors.Is(err, playable.ErrIllegalPhase))

	_, err = g.Deal()
	a.NoError(err)

	logs := <-g.LogChan()
	a.NotEmpty(logs)
	a.Equal(drawpoker.SituationDeal, logs[0].Situation)
}
