package gamefactory

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"card-shoggoths-server/internal/rng"
	"card-shoggoths-server/pkg/playable"
	"card-shoggoths-server/pkg/playable/shoggoth"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestShoggothFactory_CreateGame(t *testing.T) {
	a := assert.New(t)
	f := New(shoggoth.DefaultOptions(), quartz.NewMock(t), rng.NewSeeded(1))

	game, err := f.CreateGame(logrus.StandardLogger(), playable.AdditionalData{"name": "Randolph"})
	a.NoError(err)
	a.Equal("Randolph", game.Human().Name)
	a.Equal(100, game.Human().Sanity)

	game, err = f.CreateGame(logrus.StandardLogger(), playable.AdditionalData{})
	a.NoError(err)
	a.NotEmpty(game.Human().Name)
}

func TestShoggothFactory_RestoreGame(t *testing.T) {
	a := assert.New(t)
	f := New(shoggoth.DefaultOptions(), quartz.NewMock(t), rng.NewSeeded(1))

	game, err := f.CreateGame(logrus.StandardLogger(), playable.AdditionalData{"name": "Randolph"})
	a.NoError(err)
	_, err = game.Deal()
	a.NoError(err)

	data, err := json.Marshal(game.Record())
	a.NoError(err)

	restored, err := f.RestoreGame(logrus.StandardLogger(), data)
	a.NoError(err)
	a.Equal(game.Phase(), restored.Phase())
	a.Equal(game.Human().Sanity, restored.Human().Sanity)

	restoredData, err := json.Marshal(restored.Record())
	a.NoError(err)
	a.JSONEq(string(data), string(restoredData))

	_, err = f.RestoreGame(logrus.StandardLogger(), []byte("{"))
	a.Error(err)

	_, err = f.RestoreGame(logrus.StandardLogger(), []byte("{}"))
	a.EqualError(err, "record has no round")
}

func TestShoggothFactory_Details(t *testing.T) {
	a := assert.New(t)
	f := New(shoggoth.DefaultOptions(), nil, nil)

	name, ante, err := f.Details(playable.AdditionalData{"name": "Randolph"})
	a.NoError(err)
	a.Equal("Randolph", name)
	a.Equal(10, ante)

	_, _, err = f.Details(playable.AdditionalData{"name": strings.Repeat("a", 65)})
	a.EqualError(err, "name must be at most 64 characters")

	name, _, err = f.Details(playable.AdditionalData{"name": strings.Repeat("ñ", MaxNameLength)})
	a.NoError(err)
	a.Equal(MaxNameLength, utf8.RuneCountInString(name))
}
