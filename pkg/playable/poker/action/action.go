package action

import (
	"encoding/json"
	"fmt"
)

// Action represents an action a player can take
type Action string

// action constants
const (
	Discard Action = "discard"
	Fold    Action = "fold"
	Check   Action = "check"
	Call    Action = "call"
	Bet     Action = "bet"
	Raise   Action = "raise"
)

var allowedActions = map[Action]bool{
	Discard: true,
	Fold:    true,
	Check:   true,
	Call:    true,
	Bet:     true,
	Raise:   true,
}

// FromString returns an action for the given string
func FromString(s string) (Action, error) {
	if _, ok := allowedActions[Action(s)]; ok {
		return Action(s), nil
	}

	return "", fmt.Errorf("unknown action for identifier: %s", s)
}

func (a Action) String() string {
	switch a {
	case Discard:
		return "Discard"
	case Fold:
		return "Fold"
	case Check:
		return "Check"
	case Call:
		return "Call"
	case Bet:
		return "Bet"
	case Raise:
		return "Raise"
	}

	panic("unknown action")
}

// MarshalJSON encodes the action into JSON
func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}{
		ID:   string(a),
		Name: a.String(),
	})
}

// IsValid returns true if the action is permitted
func (a Action) IsValid() bool {
	_, ok := allowedActions[a]
	return ok
}

// IsBetting returns true if the action is part of a betting round
func (a Action) IsBetting() bool {
	return a != Discard && a.IsValid()
}

// LogMessage returns a message formatted for the log
// amount is the sanity moved into the pot, or the new bet for a raise
func (a Action) LogMessage(amount int) string {
	switch a {
	case Discard:
		if amount == 0 {
			return "stands pat"
		}

		if amount == 1 {
			return "discards 1 card"
		}

		return fmt.Sprintf("discards %d cards", amount)
	case Fold:
		return "folds"
	case Check:
		return "checks"
	case Call:
		return fmt.Sprintf("calls %d", amount)
	case Bet:
		return fmt.Sprintf("bets %d", amount)
	case Raise:
		return fmt.Sprintf("raises to %d", amount)
	}

	return ""
}
