package shoggoth

import (
	"time"

	"card-shoggoths-server/pkg/playable/esp"
	"card-shoggoths-server/pkg/playable/poker/drawpoker"
)

// State is the session as seen by the human
type State struct {
	Phase       drawpoker.Phase        `json:"phase"`
	Narration   string                 `json:"narration"`
	Sanity      int                    `json:"sanity"`
	Opponent    OpponentState          `json:"opponent"`
	Round       *drawpoker.PlayerState `json:"round"`
	ESPActive   bool                   `json:"espActive"`
	ESP         *esp.View              `json:"esp,omitempty"`
	CanStartESP bool                   `json:"canStartEsp"`
	Ante        int                    `json:"ante"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

// OpponentState is what the human knows about the opponent
type OpponentState struct {
	Name   string `json:"name"`
	Sanity int    `json:"sanity"`
}

// State returns a read-only snapshot of the session
func (g *Game) State() *State {
	s := &State{
		Phase:     g.round.Phase(),
		Narration: g.narration,
		Sanity:    g.human.Sanity,
		Opponent: OpponentState{
			Name:   g.opponent.Name,
			Sanity: g.opponent.Sanity,
		},
		Round:       g.round.GetPlayerState(HumanID),
		ESPActive:   g.activeESP != nil,
		CanStartESP: g.CanStartESP(),
		Ante:        g.options.Poker.Ante,
		UpdatedAt:   g.updatedAt,
	}

	if g.activeESP != nil {
		s.ESP = g.activeESP.View(g.clock.Now())
	}

	return s
}
