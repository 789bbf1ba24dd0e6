package room

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"card-shoggoths-server/pkg/playable"
	"card-shoggoths-server/pkg/playable/shoggoth"
	"card-shoggoths-server/pkg/store"

	"github.com/sirupsen/logrus"
)

var errEvicted = errors.New("dealer was evicted")

// Intent is a single operation on a session
// The returned outcome may be nil for intents that only read.
type Intent func(game *shoggoth.Game) (*shoggoth.Outcome, error)

// Result is what an intent produced, along with the state afterwards
type Result struct {
	Outcome *shoggoth.Outcome
	State   *shoggoth.State
}

// Dealer is responsible for a single session
// Every intent and every sweep of the session is serialized by the dealer lock.
type Dealer struct {
	id      string
	pitBoss *PitBoss
	logger  logrus.FieldLogger

	lock        sync.Mutex
	game        *shoggoth.Game
	logMessages []*playable.LogMessage
	lastActive  time.Time
	quipped     bool
	evicted     bool
}

// NewDealer creates a new dealer object
func NewDealer(pitBoss *PitBoss, id string, game *shoggoth.Game) *Dealer {
	return &Dealer{
		id:         id,
		pitBoss:    pitBoss,
		logger:     pitBoss.logger.WithField("session", id),
		game:       game,
		lastActive: pitBoss.clock.Now(),
	}
}

// ID returns the session ID
func (d *Dealer) ID() string {
	return d.id
}

// LogMessages returns the most recent log messages
func (d *Dealer) LogMessages() []*playable.LogMessage {
	d.lock.Lock()
	defer d.lock.Unlock()

	return append([]*playable.LogMessage(nil), d.logMessages...)
}

// Execute runs the intent
// Rule errors are returned with the state left as it was (a rule error caused by
// an expired ESP round still persists the timeout). Any other failure rolls the
// session back to its last good record and ErrInternal is returned.
func (d *Dealer) Execute(ctx context.Context, intent Intent) (*Result, error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	res, err := d.execute(ctx, intent)
	if err == nil || IsRuleError(err) {
		d.lastActive = d.pitBoss.clock.Now()
		d.quipped = false
	}

	return res, err
}

// Tick expires an ESP round that ran past its deadline
func (d *Dealer) Tick(ctx context.Context) (bool, error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.game == nil || !playable.IsDue(d.game, d.pitBoss.clock.Now()) {
		return false, nil
	}

	var changed bool
	_, err := d.execute(ctx, func(game *shoggoth.Game) (*shoggoth.Outcome, error) {
		var err error
		changed, err = game.Tick()
		return nil, err
	})

	return changed, err
}

// State returns the current state
// An ESP round that ran past its deadline is expired first.
func (d *Dealer) State(ctx context.Context) (*shoggoth.State, error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	res, err := d.execute(ctx, func(game *shoggoth.Game) (*shoggoth.Outcome, error) {
		_, err := game.Tick()
		return nil, err
	})
	if err != nil {
		return nil, err
	}

	return res.State, nil
}

// ReceivedMessage performs a generic game action
func (d *Dealer) ReceivedMessage(ctx context.Context, msg *playable.PayloadIn) (*playable.Response, error) {
	var resp *playable.Response
	_, err := d.Execute(ctx, func(game *shoggoth.Game) (*shoggoth.Outcome, error) {
		var err error
		resp, _, err = game.Action(shoggoth.HumanID, msg)
		if err != nil {
			return nil, err
		}

		outcome, _ := resp.Data.(*shoggoth.Outcome)
		return outcome, nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

// NOTE: must hold the dealer lock
func (d *Dealer) execute(ctx context.Context, intent Intent) (*Result, error) {
	if d.evicted {
		return nil, errEvicted
	}

	before, err := json.Marshal(d.game.Record())
	if err != nil {
		d.logger.WithError(err).Error("could not encode session record")
		return nil, ErrInternal
	}

	outcome, err := d.run(intent)
	if err != nil && !IsRuleError(err) {
		d.logger.WithError(err).WithField("type", "exception").Error("intent failed, rolling back")
		d.rollback(before)
		return nil, ErrInternal
	}

	after, mErr := json.Marshal(d.game.Record())
	if mErr != nil {
		d.logger.WithError(mErr).WithField("type", "exception").Error("could not encode session record, rolling back")
		d.rollback(before)
		return nil, ErrInternal
	}

	if !bytes.Equal(before, after) {
		if sErr := d.save(ctx, after); sErr != nil {
			d.logger.WithError(sErr).WithField("type", "exception").Error("could not save session, rolling back")
			d.rollback(before)
			return nil, ErrInternal
		}
	}

	d.addLogMessages(d.drainLogMessages())

	return &Result{
		Outcome: outcome,
		State:   d.game.State(),
	}, err
}

// run calls the intent, turning a panic into an error
func (d *Dealer) run(intent Intent) (outcome *shoggoth.Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	return intent(d.game)
}

func (d *Dealer) rollback(record []byte) {
	// anything logged by the failed intent never happened
	d.drainLogMessages()

	game, err := d.pitBoss.factory.RestoreGame(d.logger, record)
	if err != nil {
		// the record was produced by the game moments ago
		d.logger.WithError(err).WithField("type", "exception").Error("could not roll back session")
		return
	}

	d.game = game
}

func (d *Dealer) save(ctx context.Context, data []byte) error {
	now := d.pitBoss.clock.Now()
	return d.pitBoss.store.Save(ctx, &store.Session{
		ID:        d.id,
		Data:      data,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// idleFor returns how long since the player last did something
// NOTE: must hold the dealer lock
func (d *Dealer) idleFor() time.Duration {
	return d.pitBoss.clock.Now().Sub(d.lastActive)
}
