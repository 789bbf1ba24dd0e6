package room

import (
	"context"
	"errors"
	"testing"
	"time"

	"card-shoggoths-server/pkg/playable"
	"card-shoggoths-server/pkg/playable/poker/action"
	"card-shoggoths-server/pkg/playable/poker/drawpoker"
	"card-shoggoths-server/pkg/playable/shoggoth"
	"card-shoggoths-server/pkg/store"

	"github.com/stretchr/testify/assert"
)

func TestPitBoss_UnknownSession(t *testing.T) {
	a := assert.New(t)
	p, _, _ := newTestPitBoss(t)

	_, err := p.State(context.Background(), testSessionID)
	a.True(errors.Is(err, store.ErrNotFound))
	a.Equal(0, p.LiveSessions())

	a.True(errors.Is(p.Teardown(context.Background(), testSessionID), store.ErrNotFound))
}

func TestPitBoss_CreateRejectsLongName(t *testing.T) {
	a := assert.New(t)
	p, _, _ := newTestPitBoss(t)

	long := make([]byte, 65)
	for i := range long {
		long[i] = 'a'
	}

	_, err := p.ExecuteOrCreate(context.Background(), testSessionID, playable.AdditionalData{"name": string(long)}, deal)
	a.True(errors.Is(err, playable.ErrIllegalAction))
	a.Equal(0, p.LiveSessions())
}

func TestPitBoss_EvictAndReload(t *testing.T) {
	a := assert.New(t)
	p, _, clock := newTestPitBoss(t)
	p.options.IdleEvict = 5 * time.Second
	createSession(t, p)

	advance(clock, 6*time.Second)
	p.Sweep(context.Background())
	a.Equal(0, p.LiveSessions())

	res, err := p.State(context.Background(), testSessionID)
	a.NoError(err)
	a.Equal(1, p.LiveSessions())
	a.Equal(drawpoker.PhasePreDrawBetting, res.State.Phase)
	a.Equal(90, res.State.Sanity)
	a.Equal("Randolph", res.State.Round.Player.Name)
}

func TestPitBoss_WatchedSessionsStayLive(t *testing.T) {
	a := assert.New(t)
	p, _, clock := newTestPitBoss(t)
	p.options.IdleEvict = 5 * time.Second
	createSession(t, p)

	c := NewClient(nil, p, testSessionID, "Randolph")
	p.Hub().AddClient(c)

	advance(clock, 6*time.Second)
	p.Sweep(context.Background())
	a.Equal(1, p.LiveSessions())
}

func TestPitBoss_TTL(t *testing.T) {
	a := assert.New(t)
	p, st, clock := newTestPitBoss(t)
	p.options.TTL = time.Minute
	p.options.IdleEvict = time.Second
	createSession(t, p)

	advance(clock, 2*time.Minute)
	p.Sweep(context.Background())

	_, err := st.Load(context.Background(), testSessionID)
	a.True(errors.Is(err, store.ErrNotFound))
	a.Equal(0, p.LiveSessions())
}

func TestPitBoss_Teardown(t *testing.T) {
	a := assert.New(t)
	p, st, _ := newTestPitBoss(t)
	createSession(t, p)

	a.NoError(p.Teardown(context.Background(), testSessionID))
	a.Equal(0, p.LiveSessions())

	_, err := st.Load(context.Background(), testSessionID)
	a.True(errors.Is(err, store.ErrNotFound))

	_, err = p.State(context.Background(), testSessionID)
	a.True(errors.Is(err, store.ErrNotFound))
}

func TestPitBoss_StartShift(t *testing.T) {
	a := assert.New(t)
	p, _, clock := newTestPitBoss(t)
	createSession(t, p)

	res, err := p.Execute(context.Background(), testSessionID, func(game *shoggoth.Game) (*shoggoth.Outcome, error) {
		return game.Act(action.Fold, 0)
	})
	a.NoError(err)
	a.Equal(drawpoker.PhaseComplete, res.State.Phase)

	res, err = p.Execute(context.Background(), testSessionID, startESP)
	a.NoError(err)
	sanity := res.State.Sanity

	ctx, cancel := context.WithCancel(context.Background())
	p.StartShift(ctx)

	// the sweep expires the round without any intent
	advance(clock, 16*time.Second)
	cancel()

	p.lock.Lock()
	dealer := p.dealers[testSessionID]
	p.lock.Unlock()

	dealer.lock.Lock()
	a.False(dealer.game.IsESPActive())
	a.Equal(sanity-10, dealer.game.Human().Sanity)
	dealer.lock.Unlock()
}
