package handanalyzer

import (
	"card-shoggoths-server/pkg/deck"
)

// wheelHigh is the value of the high card of an A-2-3-4-5 straight
const wheelHigh = 5

// checkStraight expects ranks sorted high to low and returns the high card of the straight
// An ace plays low in the wheel, which makes it the lowest straight.
func checkStraight(ranks []int) (int, bool) {
	for i := 1; i < len(ranks); i++ {
		if ranks[i] == ranks[i-1] {
			return 0, false
		}
	}

	if ranks[0]-ranks[len(ranks)-1] == len(ranks)-1 {
		return ranks[0], true
	}

	if ranks[0] == deck.Ace && ranks[1] == wheelHigh && ranks[len(ranks)-1] == 2 {
		return wheelHigh, true
	}

	return 0, false
}
