package drawpoker

import (
	"card-shoggoths-server/pkg/playable/poker/action"
	"card-shoggoths-server/pkg/playable/poker/opponent"
)

// ActionsForPlayer returns the actions the player may take right now
func (g *Game) ActionsForPlayer(playerID int64) []action.Action {
	seat, err := g.getSeat(playerID)
	if err != nil {
		return []action.Action{}
	}

	return g.actionsForSeat(seat)
}

func (g *Game) actionsForSeat(seat *Seat) []action.Action {
	switch {
	case g.phase == PhaseDiscard:
		if seat.discarded || (seat == g.opponent && !g.human.discarded) {
			return []action.Action{}
		}

		return []action.Action{action.Discard}
	case g.phase.IsBetting():
		pm := g.potManager
		if pt := pm.GetInTurnParticipant(); pt == nil || pt.ID() != seat.PlayerID {
			return []action.Action{}
		}

		owed := pm.GetBet() - pm.GetAmountInPlay(seat)
		actions := make([]action.Action, 0, 3)
		if owed > 0 {
			actions = append(actions, action.Call)
			if pm.CanRaise(seat) && seat.Balance() > owed {
				actions = append(actions, action.Raise)
			}
		} else {
			actions = append(actions, action.Check)
			if pm.CanRaise(seat) && seat.Balance() > 0 {
				actions = append(actions, action.Bet)
			}
		}

		return append(actions, action.Fold)
	}

	return []action.Action{}
}

func (g *Game) opponentView() opponent.View {
	pm := g.potManager
	return opponent.View{
		Hand:         g.opponent.Hand(),
		Pot:          pm.GetPot(),
		CurrentBet:   pm.GetBet(),
		ToCall:       pm.GetAmountToCall(g.opponent),
		Sanity:       g.opponent.Sanity,
		LegalActions: g.actionsForSeat(g.opponent),
	}
}
