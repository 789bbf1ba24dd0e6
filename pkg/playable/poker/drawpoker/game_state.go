package drawpoker

import (
	"card-shoggoths-server/pkg/playable/poker"
	"card-shoggoths-server/pkg/playable/poker/action"
)

// PlayerState is the game as seen by one player
type PlayerState struct {
	Actions    []action.Action `json:"actions"`
	Player     *seatJSON       `json:"player"`
	GameState  *GameState      `json:"gameState"`
	PokerState *poker.State    `json:"pokerState,omitempty"`
}

// GameState is the public state of the game
type GameState struct {
	Phase       Phase       `json:"phase"`
	RoundNumber int         `json:"roundNumber"`
	Seats       []*seatJSON `json:"seats"`
	CurrentTurn int64       `json:"currentTurn"`
	Result      *Result     `json:"result,omitempty"`
}

// GetPlayerState returns the state as seen by the player
// A player always sees their own cards. The other hand is revealed once the round is settled.
func (g *Game) GetPlayerState(playerID int64) *PlayerState {
	ps := &PlayerState{
		Actions:   []action.Action{},
		GameState: g.getGameState(playerID),
	}

	if seat, err := g.getSeat(playerID); err == nil {
		ps.Player = seat.seatJSON(g, true)
		ps.Actions = g.actionsForSeat(seat)

		if g.potManager != nil && g.phase.IsBetting() {
			state := poker.NewState(g.potManager, seat)
			ps.PokerState = &state
		}
	}

	return ps
}

func (g *Game) getGameState(viewerID int64) *GameState {
	seats := make([]*seatJSON, len(g.seats))
	for i, seat := range g.seats {
		seats[i] = seat.seatJSON(g, seat.PlayerID == viewerID || g.isRevealed())
	}

	var currentTurn int64
	switch {
	case g.phase.IsBetting():
		if pt := g.potManager.GetInTurnParticipant(); pt != nil {
			currentTurn = pt.ID()
		}
	case g.phase == PhaseDiscard:
		currentTurn = g.human.PlayerID
	}

	return &GameState{
		Phase:       g.phase,
		RoundNumber: g.roundNumber,
		Seats:       seats,
		CurrentTurn: currentTurn,
		Result:      g.result,
	}
}

func (g *Game) isRevealed() bool {
	if g.result == nil {
		return false
	}

	return g.result.Reason == "showdown" || g.options.RevealOnFold
}
