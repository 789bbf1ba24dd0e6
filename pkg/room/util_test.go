package room

import (
	"context"
	"errors"
	"testing"
	"time"

	"card-shoggoths-server/internal/rng"
	"card-shoggoths-server/pkg/playable"
	"card-shoggoths-server/pkg/playable/shoggoth"
	"card-shoggoths-server/pkg/room/gamefactory"
	"card-shoggoths-server/pkg/store"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"
)

const testSessionID = "2c1e8a3c-3a5e-4d8f-9a43-6a3c0f1e2b7d"

// failingStore fails every save once failSave is set
type failingStore struct {
	store.Store
	failSave bool
}

func (f *failingStore) Save(ctx context.Context, session *store.Session) error {
	if f.failSave {
		return errors.New("disk is full")
	}

	return f.Store.Save(ctx, session)
}

func newTestPitBoss(t *testing.T) (*PitBoss, *failingStore, *quartz.Mock) {
	t.Helper()

	opts := shoggoth.DefaultOptions()
	opts.Poker.Seed = 42
	opts.Opponent.DiscardSimulations = 10

	clock := quartz.NewMock(t)
	st := &failingStore{Store: store.NewMemory()}
	factory := gamefactory.New(opts, clock, rng.NewSeeded(7))
	hub := NewHub(logrus.StandardLogger(), clock, rng.NewSeeded(7))

	p := NewPitBoss(logrus.StandardLogger(), st, factory, clock, hub, DefaultOptions())
	return p, st, clock
}

func deal(game *shoggoth.Game) (*shoggoth.Outcome, error) {
	return game.Deal()
}

func startESP(game *shoggoth.Game) (*shoggoth.Outcome, error) {
	return game.StartESP()
}

func createSession(t *testing.T, p *PitBoss) *Result {
	t.Helper()

	res, err := p.ExecuteOrCreate(context.Background(), testSessionID, playable.AdditionalData{"name": "Randolph"}, deal)
	if err != nil {
		t.Fatal(err)
	}

	return res
}

func advance(clock *quartz.Mock, d time.Duration) {
	for d > 0 {
		step := time.Second
		if d < step {
			step = d
		}

		clock.Advance(step).MustWait(context.Background())
		d -= step
	}
}

func drain(c *Client) []*ChatMessage {
	var messages []*ChatMessage
	for {
		select {
		case msg := <-c.SendChan():
			if chat, ok := msg.(*ChatMessage); ok {
				messages = append(messages, chat)
			}
		default:
			return messages
		}
	}
}
