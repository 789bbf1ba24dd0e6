package shoggoth

import (
	"card-shoggoths-server/pkg/playable/esp"
	"card-shoggoths-server/pkg/playable/poker/drawpoker"
	"card-shoggoths-server/pkg/playable/poker/opponent"
)

// Options configures a session
type Options struct {
	Poker    drawpoker.Options
	ESP      esp.Options
	Opponent opponent.Brain
}

// DefaultOptions returns the default options
func DefaultOptions() Options {
	return Options{
		Poker:    drawpoker.DefaultOptions(),
		ESP:      esp.DefaultOptions(),
		Opponent: opponent.DefaultBrain(),
	}
}
