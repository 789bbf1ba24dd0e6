package room

import (
	"context"
	"errors"
	"sync"
	"time"

	"card-shoggoths-server/pkg/playable"
	"card-shoggoths-server/pkg/playable/shoggoth"
	"card-shoggoths-server/pkg/room/gamefactory"
	"card-shoggoths-server/pkg/store"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"
)

// Options configures session housekeeping
type Options struct {
	// SweepInterval is how often live sessions are ticked
	SweepInterval time.Duration
	// IdleEvict drops a session from memory after this long without an intent
	IdleEvict time.Duration
	// TTL deletes a session from the store after this long without an update
	TTL time.Duration
	// IdleQuipAfter is how long the opponent waits before getting impatient
	IdleQuipAfter time.Duration
}

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		SweepInterval: time.Second,
		IdleEvict:     30 * time.Minute,
		TTL:           7 * 24 * time.Hour,
		IdleQuipAfter: time.Minute,
	}
}

// PitBoss owns every live session
type PitBoss struct {
	logger  logrus.FieldLogger
	store   store.Store
	factory gamefactory.GameFactory
	clock   quartz.Clock
	hub     *Hub
	options Options

	lock    sync.Mutex
	dealers map[string]*Dealer
}

// NewPitBoss returns a new session registry
func NewPitBoss(logger logrus.FieldLogger, st store.Store, factory gamefactory.GameFactory, clock quartz.Clock, hub *Hub, opts Options) *PitBoss {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	if clock == nil {
		clock = quartz.NewReal()
	}

	return &PitBoss{
		logger:  logger,
		store:   st,
		factory: factory,
		clock:   clock,
		hub:     hub,
		options: opts,
		dealers: make(map[string]*Dealer),
	}
}

// Hub returns the chat hub
func (p *PitBoss) Hub() *Hub {
	return p.hub
}

// StartShift starts the sweep
// The sweep runs until the context is cancelled.
func (p *PitBoss) StartShift(ctx context.Context) quartz.Waiter {
	return p.clock.TickerFunc(ctx, p.options.SweepInterval, func() error {
		p.Sweep(ctx)
		return nil
	}, "pitboss", "sweep")
}

// Execute runs the intent against an existing session
// store.ErrNotFound is returned if the session does not exist.
func (p *PitBoss) Execute(ctx context.Context, sessionID string, intent Intent) (*Result, error) {
	return p.execute(ctx, sessionID, nil, intent)
}

// ExecuteOrCreate runs the intent, creating the session first if necessary
func (p *PitBoss) ExecuteOrCreate(ctx context.Context, sessionID string, additionalData playable.AdditionalData, intent Intent) (*Result, error) {
	if additionalData == nil {
		additionalData = playable.AdditionalData{}
	}

	return p.execute(ctx, sessionID, additionalData, intent)
}

// State returns the state of an existing session
func (p *PitBoss) State(ctx context.Context, sessionID string) (*Result, error) {
	return p.Execute(ctx, sessionID, func(game *shoggoth.Game) (*shoggoth.Outcome, error) {
		_, err := game.Tick()
		return nil, err
	})
}

// ReceivedMessage performs a generic game action for a websocket client
// A deal creates the session if it does not exist yet.
func (p *PitBoss) ReceivedMessage(ctx context.Context, sessionID string, additionalData playable.AdditionalData, msg *playable.PayloadIn) (*playable.Response, error) {
	if msg.Action != "deal" {
		additionalData = nil
	}

	for attempt := 0; attempt < 2; attempt++ {
		dealer, err := p.dealer(ctx, sessionID, additionalData)
		if err != nil {
			return nil, err
		}

		resp, err := dealer.ReceivedMessage(ctx, msg)
		if errors.Is(err, errEvicted) {
			continue
		}

		return resp, err
	}

	return nil, ErrInternal
}

func (p *PitBoss) execute(ctx context.Context, sessionID string, additionalData playable.AdditionalData, intent Intent) (*Result, error) {
	// the dealer may be evicted between the lookup and the lock
	for attempt := 0; attempt < 2; attempt++ {
		dealer, err := p.dealer(ctx, sessionID, additionalData)
		if err != nil {
			return nil, err
		}

		res, err := dealer.Execute(ctx, intent)
		if errors.Is(err, errEvicted) {
			continue
		}

		return res, err
	}

	return nil, ErrInternal
}

// dealer returns the live dealer for the session
// The session is loaded from the store if it is not in memory. If it is not in the
// store either, it is created when additionalData is not nil.
func (p *PitBoss) dealer(ctx context.Context, sessionID string, additionalData playable.AdditionalData) (*Dealer, error) {
	p.lock.Lock()
	dealer, found := p.dealers[sessionID]
	p.lock.Unlock()
	if found {
		return dealer, nil
	}

	logger := p.logger.WithField("session", sessionID)

	session, err := p.store.Load(ctx, sessionID)
	switch {
	case err == nil:
		game, rErr := p.factory.RestoreGame(logger, session.Data)
		if rErr != nil {
			logger.WithError(rErr).WithField("type", "exception").Error("could not restore session")
			return nil, ErrInternal
		}

		dealer = NewDealer(p, sessionID, game)
		logger.Debug("session loaded")
	case errors.Is(err, store.ErrNotFound) && additionalData != nil:
		if _, _, dErr := p.factory.Details(additionalData); dErr != nil {
			return nil, playable.NewRuleError(playable.KindIllegalAction, "%s", dErr.Error())
		}

		game, cErr := p.factory.CreateGame(logger, additionalData)
		if cErr != nil {
			return nil, cErr
		}

		dealer = NewDealer(p, sessionID, game)
		logger.WithField("name", game.Human().Name).Info("session created")
	default:
		return nil, err
	}

	p.lock.Lock()
	defer p.lock.Unlock()

	// another request may have loaded it in the meantime
	if existing, ok := p.dealers[sessionID]; ok {
		return existing, nil
	}

	p.dealers[sessionID] = dealer
	return dealer, nil
}

// Teardown removes the session from memory and from the store
func (p *PitBoss) Teardown(ctx context.Context, sessionID string) error {
	p.lock.Lock()
	dealer, found := p.dealers[sessionID]
	delete(p.dealers, sessionID)
	p.lock.Unlock()

	if found {
		dealer.lock.Lock()
		dealer.evicted = true
		dealer.lock.Unlock()
	}

	// a session that was never saved only lives in memory
	err := p.store.Delete(ctx, sessionID)
	if err != nil && (!found || !errors.Is(err, store.ErrNotFound)) {
		return err
	}

	if p.hub != nil {
		p.hub.CloseSession(sessionID, "the session has ended")
	}

	p.logger.WithField("session", sessionID).Info("session torn down")
	return nil
}

// LiveSessions returns the number of sessions in memory
func (p *PitBoss) LiveSessions() int {
	p.lock.Lock()
	defer p.lock.Unlock()

	return len(p.dealers)
}

// Sweep ticks every live session, evicts idle ones and purges expired ones from the store
func (p *PitBoss) Sweep(ctx context.Context) {
	p.lock.Lock()
	dealers := make([]*Dealer, 0, len(p.dealers))
	for _, dealer := range p.dealers {
		dealers = append(dealers, dealer)
	}
	p.lock.Unlock()

	for _, dealer := range dealers {
		p.sweepDealer(ctx, dealer)
	}

	if p.options.TTL > 0 {
		cutoff := p.clock.Now().Add(-p.options.TTL)
		n, err := p.store.DeleteExpired(ctx, cutoff)
		if err != nil {
			p.logger.WithError(err).Error("could not delete expired sessions")
		} else if n > 0 {
			p.logger.WithField("count", n).Info("deleted expired sessions")
		}
	}
}

func (p *PitBoss) sweepDealer(ctx context.Context, dealer *Dealer) {
	if _, err := dealer.Tick(ctx); err != nil && !errors.Is(err, errEvicted) {
		dealer.logger.WithError(err).Error("could not tick session")
	}

	watched := p.hub != nil && p.hub.HasClients(dealer.id)

	// lock order is always pit boss, then dealer
	p.lock.Lock()
	defer p.lock.Unlock()
	dealer.lock.Lock()
	defer dealer.lock.Unlock()

	if dealer.evicted {
		return
	}

	idle := dealer.idleFor()
	if watched && p.options.IdleQuipAfter > 0 && idle >= p.options.IdleQuipAfter && !dealer.quipped {
		dealer.quipped = true
		p.hub.Say(dealer.id, "idle")
	}

	if !watched && p.options.IdleEvict > 0 && idle >= p.options.IdleEvict {
		dealer.evicted = true
		delete(p.dealers, dealer.id)
		dealer.logger.Debug("evicted idle session")
	}
}
