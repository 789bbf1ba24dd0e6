package poker

import (
	"card-shoggoths-server/pkg/playable/poker/potmanager"
)

// State provides the current state data for common poker values
type State struct {
	Ante       int `json:"ante"`
	CurrentBet int `json:"currentBet"`
	Pot        int `json:"pot"`
	ToCall     int `json:"toCall"`
	MaxBet     int `json:"maxBet"`
}

// NewState returns the betting state as seen by the participant
func NewState(pm *potmanager.PotManager, pt potmanager.Participant) State {
	return State{
		Ante:       pm.GetAnte(),
		CurrentBet: pm.GetBet(),
		Pot:        pm.GetPot(),
		ToCall:     pm.GetAmountToCall(pt),
		MaxBet:     pt.Balance(),
	}
}
