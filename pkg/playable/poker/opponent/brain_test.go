package opponent

import (
	"math/rand"
	"testing"

	"card-shoggoths-server/pkg/deck"
	"card-shoggoths-server/pkg/playable/poker/action"

	"github.com/stretchr/testify/assert"
)

func hand(s string) deck.Hand {
	return deck.CardsFromString(s)
}

var (
	openActions   = []action.Action{action.Check, action.Bet, action.Fold}
	facingActions = []action.Action{action.Call, action.Raise, action.Fold}
)

func TestBrain_WinProbability(t *testing.T) {
	a := assert.New(t)
	b := DefaultBrain()
	b.Courage = 1

	a.InDelta(0.1, b.WinProbability(hand("2c,5d,7h,9s,10c")), 0.0001)
	a.InDelta(0.2, b.WinProbability(hand("2c,5d,7h,9s,13c")), 0.0001)
	a.InDelta(0.4, b.WinProbability(hand("2c,2d,7h,9s,13c")), 0.0001)
	a.InDelta(0.55, b.WinProbability(hand("12c,12d,7h,9s,13c")), 0.0001)
	a.InDelta(0.7, b.WinProbability(hand("12c,12d,7h,7s,13c")), 0.0001)
	a.InDelta(0.85, b.WinProbability(hand("12c,12d,12h,7s,13c")), 0.0001)
	a.InDelta(0.95, b.WinProbability(hand("2h,5h,7h,9h,13h")), 0.0001)

	b.Courage = 1.2
	a.InDelta(0.99, b.WinProbability(hand("2h,5h,7h,9h,13h")), 0.0001, "capped")
}

func TestBrain_DecideAction_valueBet(t *testing.T) {
	b := DefaultBrain()
	d := b.DecideAction(View{
		Hand:         hand("12c,12d,7h,7s,13c"),
		Pot:          20,
		Sanity:       90,
		LegalActions: openActions,
	})

	assert.Equal(t, Decision{Action: action.Bet, Amount: 20}, d)

	// the bet is clamped to what is left
	d = b.DecideAction(View{
		Hand:         hand("12c,12d,7h,7s,13c"),
		Pot:          20,
		Sanity:       8,
		LegalActions: openActions,
	})
	assert.Equal(t, Decision{Action: action.Bet, Amount: 8}, d)
}

func TestBrain_DecideAction_foldsJunkToBigBet(t *testing.T) {
	b := DefaultBrain()
	b.Courage = 0.01 // never bluff-calls
	d := b.DecideAction(View{
		Hand:         hand("2c,5d,7h,9s,10c"),
		Pot:          120,
		ToCall:       100,
		Sanity:       100,
		LegalActions: facingActions,
	})

	assert.Equal(t, Decision{Action: action.Fold}, d)
}

func TestBrain_DecideAction_callsWithOdds(t *testing.T) {
	b := DefaultBrain()
	b.Courage = 1
	d := b.DecideAction(View{
		Hand:         hand("12c,12d,7h,2s,13c"),
		Pot:          100,
		ToCall:       10,
		Sanity:       100,
		LegalActions: []action.Action{action.Call, action.Fold},
	})

	assert.Equal(t, Decision{Action: action.Call}, d)
}

func TestBrain_DecideAction_raiseLimitedBySanity(t *testing.T) {
	b := DefaultBrain()
	b.Courage = 100 // always raises strong hands

	d := b.DecideAction(View{
		Hand:         hand("2h,5h,7h,9h,13h"),
		Pot:          40,
		ToCall:       10,
		Sanity:       15,
		LegalActions: facingActions,
	})

	assert.Equal(t, Decision{Action: action.Raise, Amount: 5}, d)
}

func TestBrain_DecideAction_onlyLegal(t *testing.T) {
	b := DefaultBrain()
	r := rand.New(rand.NewSource(5)) // nolint:gosec
	sets := [][]action.Action{
		openActions,
		facingActions,
		{action.Check, action.Fold},
		{action.Call, action.Fold},
		{action.Fold},
	}

	for i := 0; i < 1000; i++ {
		d := deck.New()
		r.Shuffle(len(d.Cards), func(i, j int) {
			d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
		})
		cards, _ := d.Deal(5)

		legal := sets[r.Intn(len(sets))]
		view := View{
			Hand:         cards,
			Pot:          10 + r.Intn(200),
			Sanity:       r.Intn(150),
			LegalActions: legal,
		}
		if !view.IsLegal(action.Check) {
			view.ToCall = 1 + r.Intn(50)
		}

		decision := b.DecideAction(view)
		assert.True(t, view.IsLegal(decision.Action), "%v is not legal in %v", decision.Action, legal)
		if decision.Action == action.Bet {
			assert.Greater(t, decision.Amount, 0)
			assert.LessOrEqual(t, decision.Amount, view.Sanity)
		}
		if decision.Action == action.Raise {
			assert.Greater(t, decision.Amount, 0)
			assert.LessOrEqual(t, decision.Amount+view.ToCall, view.Sanity)
		}

		// stateless: asking again gives the same answer
		assert.Equal(t, decision, b.DecideAction(view))
	}
}

func TestBrain_ChooseDiscard(t *testing.T) {
	a := assert.New(t)
	b := DefaultBrain()

	a.Equal([]int{}, b.ChooseDiscard(hand("5h,6h,7h,8h,9h")), "a straight flush stands pat")

	discards := b.ChooseDiscard(hand("2c,2d,9h,13s,5c"))
	a.NotContains(discards, 0, "keeps the pair")
	a.NotContains(discards, 1, "keeps the pair")
	a.LessOrEqual(len(discards), 3)
	a.Equal(discards, b.ChooseDiscard(hand("2c,2d,9h,13s,5c")), "deterministic")

	b.MaxDiscards = 1
	discards = b.ChooseDiscard(hand("2c,7d,9h,13s,5c"))
	a.LessOrEqual(len(discards), 1)

	a.Equal([]int{}, b.ChooseDiscard(hand("2c,7d")))
}

func TestPolicyInterface(t *testing.T) {
	var p Policy = DefaultBrain()
	assert.Equal(t, "The Ancient One", p.Name())
}
