package opponent

import (
	"card-shoggoths-server/pkg/deck"
	"card-shoggoths-server/pkg/playable/poker/action"
)

// View is everything a policy is allowed to know when it is asked to act
type View struct {
	Hand         deck.Hand
	Pot          int
	CurrentBet   int
	ToCall       int
	Sanity       int
	LegalActions []action.Action
}

// IsLegal returns true if the action is one of the legal actions
func (v View) IsLegal(a action.Action) bool {
	for _, legal := range v.LegalActions {
		if legal == a {
			return true
		}
	}

	return false
}

// Decision is the action a policy selected
// Amount is the bet for a bet, the raise-by amount for a raise, and is ignored otherwise.
type Decision struct {
	Action action.Action
	Amount int
}

// Policy is a stateless opponent strategy
// Given the same inputs, a policy must always return the same decision.
type Policy interface {
	// Name is how the opponent is addressed
	Name() string

	// DecideAction selects one of the legal betting actions in the view
	DecideAction(view View) Decision

	// ChooseDiscard returns the indices of the cards to replace
	ChooseDiscard(hand deck.Hand) []int
}
