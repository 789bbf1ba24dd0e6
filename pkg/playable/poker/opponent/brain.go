package opponent

import (
	"hash/fnv"

	"card-shoggoths-server/pkg/deck"
	"card-shoggoths-server/pkg/playable/poker/action"
	"card-shoggoths-server/pkg/playable/poker/handanalyzer"
)

// Brain is the default Policy
// It estimates a win probability from the hand category, scaled by its courage, and weighs it against pot odds.
type Brain struct {
	OpponentName       string
	Courage            float64
	DiscardSimulations int
	MaxDiscards        int
	BetSize            int
	RaiseSize          int
}

// DefaultBrain returns a brave opponent
func DefaultBrain() Brain {
	return Brain{
		OpponentName:       "The Ancient One",
		Courage:            1.2,
		DiscardSimulations: 100,
		MaxDiscards:        3,
		BetSize:            20,
		RaiseSize:          20,
	}
}

// Name returns the opponent's name
func (b Brain) Name() string {
	return b.OpponentName
}

// WinProbability is a rough estimate of how often the hand wins a showdown
func (b Brain) WinProbability(hand deck.Hand) float64 {
	h := handanalyzer.New(hand)

	var winProb float64
	switch h.GetHand() {
	case handanalyzer.HighCard:
		winProb = 0.1
		if h.GetHighCard()[0] > 10 {
			winProb = 0.2
		}
	case handanalyzer.OnePair:
		winProb = 0.4
		if pair, _ := h.GetPair(); pair > 10 {
			winProb = 0.55
		}
	case handanalyzer.TwoPair:
		winProb = 0.7
	case handanalyzer.ThreeOfAKind:
		winProb = 0.85
	default:
		winProb = 0.95
	}

	winProb *= b.Courage
	if winProb > 0.99 {
		winProb = 0.99
	}

	return winProb
}

// DecideAction selects a betting action
// Only actions listed in view.LegalActions are ever returned.
func (b Brain) DecideAction(view View) Decision {
	winProb := b.WinProbability(view.Hand)

	if view.ToCall == 0 {
		if view.IsLegal(action.Bet) {
			if winProb > 0.6 {
				if d, ok := b.bet(view, b.BetSize); ok {
					return d
				}
			}

			if roll(view, "bluff") < 0.1*b.Courage {
				if d, ok := b.bet(view, b.BetSize/2); ok {
					return d
				}
			}
		}

		if view.IsLegal(action.Check) {
			return Decision{Action: action.Check}
		}
	}

	if view.ToCall > 0 {
		potOdds := float64(view.ToCall) / float64(view.Pot+view.ToCall)
		if winProb > potOdds+0.1 {
			if winProb > 0.8 && view.IsLegal(action.Raise) && roll(view, "raise") < 0.7*b.Courage {
				raiseBy := b.RaiseSize
				if limit := view.Sanity - view.ToCall; raiseBy > limit {
					raiseBy = limit
				}

				if raiseBy > 0 {
					return Decision{Action: action.Raise, Amount: raiseBy}
				}
			}

			if view.IsLegal(action.Call) {
				return Decision{Action: action.Call}
			}
		}

		if view.IsLegal(action.Call) && roll(view, "crying call") < 0.05*b.Courage {
			return Decision{Action: action.Call}
		}

		if view.IsLegal(action.Fold) {
			return Decision{Action: action.Fold}
		}
	}

	// nothing above applied, take whatever is allowed
	for _, preferred := range []action.Action{action.Check, action.Call, action.Fold} {
		if view.IsLegal(preferred) {
			return Decision{Action: preferred}
		}
	}

	if len(view.LegalActions) > 0 {
		return Decision{Action: view.LegalActions[0]}
	}

	return Decision{Action: action.Fold}
}

func (b Brain) bet(view View, amount int) (Decision, bool) {
	if amount > view.Sanity {
		amount = view.Sanity
	}

	if amount <= 0 {
		return Decision{}, false
	}

	return Decision{Action: action.Bet, Amount: amount}, true
}

// roll returns a number in [0, 1) derived from the view
// It stands in for a coin flip while keeping decisions reproducible.
func roll(view View, salt string) float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(salt))
	_, _ = h.Write([]byte(view.Hand.String()))
	_, _ = h.Write([]byte{byte(view.Pot), byte(view.Pot >> 8), byte(view.ToCall), byte(view.ToCall >> 8)})

	return float64(h.Sum64()%10000) / 10000
}
