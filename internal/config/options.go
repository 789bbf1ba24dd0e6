package config

import (
	"card-shoggoths-server/pkg/playable/esp"
	"card-shoggoths-server/pkg/playable/poker/drawpoker"
	"card-shoggoths-server/pkg/playable/poker/opponent"
	"card-shoggoths-server/pkg/playable/shoggoth"
	"card-shoggoths-server/pkg/room"
)

// GameOptions returns the options every session is created with
func (c Config) GameOptions() shoggoth.Options {
	return shoggoth.Options{
		Poker: drawpoker.Options{
			Ante:           c.Game.Ante,
			StartingSanity: c.Game.StartingSanity,
			MaxDiscards:    c.Game.MaxDiscards,
			RevealOnFold:   c.Game.RevealOnFold,
		},
		ESP: esp.Options{
			HandSize:          c.ESP.HandSize,
			Deadline:          c.ESP.Deadline,
			Reward:            c.ESP.Reward,
			TimeoutPenalty:    c.ESP.TimeoutPenalty,
			WrongGuessPenalty: c.ESP.WrongGuessPenalty,
		},
		Opponent: opponent.Brain{
			OpponentName:       c.Game.OpponentName,
			Courage:            c.Game.Courage,
			DiscardSimulations: c.Game.DiscardSimulations,
			MaxDiscards:        c.Game.MaxDiscards,
			BetSize:            c.Game.BetSize,
			RaiseSize:          c.Game.RaiseSize,
		},
	}
}

// SessionOptions returns the session housekeeping options
func (c Config) SessionOptions() room.Options {
	return room.Options{
		SweepInterval: c.Session.SweepInterval,
		IdleEvict:     c.Session.IdleEvict,
		TTL:           c.Session.TTL,
		IdleQuipAfter: c.Session.IdleQuipAfter,
	}
}
