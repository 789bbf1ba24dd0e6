package shoggoth

import (
	"card-shoggoths-server/pkg/playable"
	"card-shoggoths-server/pkg/playable/poker/action"
)

// Action performs the intent named by the message
func (g *Game) Action(playerID int64, message *playable.PayloadIn) (playerResponse *playable.Response, updateState bool, err error) {
	if playerID != HumanID {
		return nil, false, playable.NewRuleError(playable.KindIllegalAction, "player %d is not the human", playerID)
	}

	outcome, err := g.dispatch(message)
	if outcome != nil {
		updateState = outcome.changed
	}

	if err != nil {
		return nil, updateState, err
	}

	return &playable.Response{
		Key:     "game",
		Value:   g.Key(),
		Data:    outcome,
		Context: message.Context,
	}, updateState, nil
}

func (g *Game) dispatch(message *playable.PayloadIn) (*Outcome, error) {
	switch message.Action {
	case "deal":
		return g.Deal()
	case "discard":
		indices := []int{}
		if _, present := message.AdditionalData["indices"]; present {
			var ok bool
			if indices, ok = message.AdditionalData.GetIntSlice("indices"); !ok {
				return nil, playable.NewRuleError(playable.KindIllegalIndex, "indices must be a list of card positions")
			}
		}

		return g.Discard(indices)
	case "showdown":
		return g.ResolveShowdown()
	case "espStart":
		return g.StartESP()
	case "espGuess":
		index1, ok1 := message.AdditionalData.GetInt("index1")
		index2, ok2 := message.AdditionalData.GetInt("index2")
		if !ok1 || !ok2 {
			return nil, playable.NewRuleError(playable.KindIllegalIndex, "index1 and index2 are required")
		}

		return g.GuessESP(index1, index2)
	case "espExit":
		return g.ExitESP()
	case "rebuy":
		return g.Rebuy()
	}

	a, err := action.FromString(message.Action)
	if err != nil || !a.IsBetting() {
		return nil, playable.NewRuleError(playable.KindIllegalAction, "unknown action: %s", message.Action)
	}

	amount, _ := message.AdditionalData.GetInt("amount")
	return g.Act(a, amount)
}

// GetPlayerState returns the current state for the player
func (g *Game) GetPlayerState(playerID int64) (*playable.Response, error) {
	if playerID != HumanID {
		return nil, playable.NewRuleError(playable.KindIllegalAction, "player %d is not the human", playerID)
	}

	return &playable.Response{
		Key:   "game",
		Value: g.Key(),
		Data:  g.State(),
	}, nil
}

// Name returns the name
func (g *Game) Name() string {
	return "Card Shoggoths"
}

// Key returns the key
func (g *Game) Key() string {
	return "card-shoggoths"
}

// LogChan returns a channel log messages must be sent on
func (g *Game) LogChan() <-chan []*playable.LogMessage {
	return g.logChan
}
