package gamefactory

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"card-shoggoths-server/internal/rng"
	"card-shoggoths-server/pkg/playable"
	"card-shoggoths-server/pkg/playable/shoggoth"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"
)

// MaxNameLength is the longest player name, in characters
const MaxNameLength = 64

// GameFactory creates and restores sessions
type GameFactory interface {
	CreateGame(logger logrus.FieldLogger, additionalData playable.AdditionalData) (*shoggoth.Game, error)
	RestoreGame(logger logrus.FieldLogger, data []byte) (*shoggoth.Game, error)
	Details(additionalData playable.AdditionalData) (name string, ante int, err error)
}

type shoggothFactory struct {
	options shoggoth.Options
	clock   quartz.Clock
	random  rng.Generator
}

// New returns a factory that builds every session with the same options
func New(options shoggoth.Options, clock quartz.Clock, random rng.Generator) GameFactory {
	if clock == nil {
		clock = quartz.NewReal()
	}

	if random == nil {
		random = rng.Crypto{}
	}

	return shoggothFactory{
		options: options,
		clock:   clock,
		random:  random,
	}
}

func (s shoggothFactory) CreateGame(logger logrus.FieldLogger, additionalData playable.AdditionalData) (*shoggoth.Game, error) {
	name, _ := additionalData.GetString("name")
	return shoggoth.NewGame(logger, name, s.options, s.clock, s.random)
}

func (s shoggothFactory) RestoreGame(logger logrus.FieldLogger, data []byte) (*shoggoth.Game, error) {
	var rec shoggoth.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("could not decode session record: %w", err)
	}

	return shoggoth.Restore(logger, s.options, s.clock, s.random, &rec)
}

func (s shoggothFactory) Details(additionalData playable.AdditionalData) (string, int, error) {
	name, _ := additionalData.GetString("name")
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", 0, fmt.Errorf("name must be at most %d characters", MaxNameLength)
	}

	return name, s.options.Poker.Ante, nil
}
