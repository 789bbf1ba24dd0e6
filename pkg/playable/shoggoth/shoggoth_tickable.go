package shoggoth

import (
	"time"

	"card-shoggoths-server/pkg/playable"
)

var _ playable.Tickable = (*Game)(nil)

// NextDeadline returns the deadline of the active ESP round
func (g *Game) NextDeadline() (time.Time, bool) {
	if g.activeESP == nil {
		return time.Time{}, false
	}

	return g.activeESP.Deadline, true
}

// Tick expires an ESP round that ran past its deadline
func (g *Game) Tick() (bool, error) {
	var n narration
	if !g.expireESP(&n) {
		return false, nil
	}

	g.result(n, true)
	return true, nil
}
