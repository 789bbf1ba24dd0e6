package handanalyzer

import (
	"fmt"
	"math"
	"sort"

	"card-shoggoths-server/pkg/deck"
)

// HandSize is the number of cards evaluated
const HandSize = 5

// HandAnalyzer can analyze a five-card hand
type HandAnalyzer struct {
	cards    deck.Hand
	ranks    []int
	flush    bool
	straight int
	quads    []int
	trips    []int
	pairs    []int
	singles  []int

	hand     Hand
	tiebreak []int
	strength int
}

// New will return a new HandAnalyzer instance
// New panics if it is not given exactly five cards.
func New(cards []deck.Card) *HandAnalyzer {
	if len(cards) != HandSize {
		panic(fmt.Sprintf("hand analyzer requires %d cards, got %d", HandSize, len(cards)))
	}

	// clone to prevent modifying original
	sortedCards := make(deck.Hand, len(cards))
	copy(sortedCards, cards)
	sort.Sort(sort.Reverse(sortedCards))

	h := &HandAnalyzer{
		cards: sortedCards,
	}

	h.analyzeHand()
	h.calculateHand()
	return h
}

// analyzeHand will loop through a players hand and calculate the various combinations
// This method should only be called once from the constructor
func (h *HandAnalyzer) analyzeHand() {
	h.ranks = make([]int, len(h.cards))
	h.flush = true
	counts := make(map[int]int)
	for i, card := range h.cards {
		h.ranks[i] = card.Rank
		counts[card.Rank]++
		if card.Suit != h.cards[0].Suit {
			h.flush = false
		}
	}

	h.straight, _ = checkStraight(h.ranks)

	// ranks are sorted high to low, so each group is too
	seen := make(map[int]bool)
	for _, rank := range h.ranks {
		if seen[rank] {
			continue
		}
		seen[rank] = true

		switch counts[rank] {
		case 4:
			h.quads = append(h.quads, rank)
		case 3:
			h.trips = append(h.trips, rank)
		case 2:
			h.pairs = append(h.pairs, rank)
		default:
			h.singles = append(h.singles, rank)
		}
	}
}

func (h *HandAnalyzer) calculateHand() {
	switch {
	case h.flush && h.straight > 0:
		h.hand = StraightFlush
		h.tiebreak = []int{h.straight}
	case len(h.quads) > 0:
		h.hand = FourOfAKind
		h.tiebreak = []int{h.quads[0], h.singles[0]}
	case len(h.trips) > 0 && len(h.pairs) > 0:
		h.hand = FullHouse
		h.tiebreak = []int{h.trips[0], h.pairs[0]}
	case h.flush:
		h.hand = Flush
		h.tiebreak = h.ranks
	case h.straight > 0:
		h.hand = Straight
		h.tiebreak = []int{h.straight}
	case len(h.trips) > 0:
		h.hand = ThreeOfAKind
		h.tiebreak = append([]int{h.trips[0]}, h.singles...)
	case len(h.pairs) >= 2:
		h.hand = TwoPair
		h.tiebreak = []int{h.pairs[0], h.pairs[1], h.singles[0]}
	case len(h.pairs) == 1:
		h.hand = OnePair
		h.tiebreak = append([]int{h.pairs[0]}, h.singles...)
	default:
		h.hand = HighCard
		h.tiebreak = h.ranks
	}

	h.strength = calculateStrength(h.hand, h.tiebreak)
}

// GetHand will return the category of the hand
func (h *HandAnalyzer) GetHand() Hand {
	return h.hand
}

// GetTiebreak returns the ordered ranks used to break ties within a category
func (h *HandAnalyzer) GetTiebreak() []int {
	return append([]int(nil), h.tiebreak...)
}

// GetCards returns the cards sorted from high to low
func (h *HandAnalyzer) GetCards() deck.Hand {
	return h.cards.Clone()
}

// GetRoyalFlush will return true if there's a royal flush
func (h *HandAnalyzer) GetRoyalFlush() bool {
	return h.hand == StraightFlush && h.straight == deck.Ace
}

// GetStraight will return the high card of the straight, if possible
// The wheel (A-2-3-4-5) is a 5-high straight.
func (h *HandAnalyzer) GetStraight() (int, bool) {
	if h.straight > 0 {
		return h.straight, true
	}

	return 0, false
}

// GetPair will return the best pair, if possible
func (h *HandAnalyzer) GetPair() (int, bool) {
	if len(h.pairs) > 0 {
		return h.pairs[0], true
	}

	return 0, false
}

// GetHighCard will return the ranks from high to low
func (h *HandAnalyzer) GetHighCard() []int {
	return append([]int(nil), h.ranks...)
}

// calculateStrength packs the category and tiebreak ranks into a base-15 number
// so comparing two strengths compares the category first, then each tiebreak rank in order
func calculateStrength(hand Hand, cards []int) int {
	fiveCards := make([]int, 5)
	copy(fiveCards, cards)

	strength := math.Pow(15, 5) * float64(hand)
	for i := 0; i < 5; i++ {
		val := fiveCards[4-i]
		strength += math.Pow(15, float64(i)) * float64(val)
	}

	return int(strength)
}

// GetStrength returns the strength of the hand
// A higher strength always beats a lower one and equal strengths tie.
func (h *HandAnalyzer) GetStrength() int {
	return h.strength
}

// Describe returns a human friendly name of the hand, i.e., "Two pair, Kings and 5s"
func (h *HandAnalyzer) Describe() string {
	switch h.hand {
	case StraightFlush:
		if h.GetRoyalFlush() {
			return "Royal flush"
		}
		return fmt.Sprintf("Straight flush, %s high", deck.RankName(h.straight))
	case FourOfAKind:
		return fmt.Sprintf("Four %s", deck.RankPlural(h.quads[0]))
	case FullHouse:
		return fmt.Sprintf("Full house, %s full of %s", deck.RankPlural(h.trips[0]), deck.RankPlural(h.pairs[0]))
	case Flush:
		return fmt.Sprintf("Flush, %s high", deck.RankName(h.ranks[0]))
	case Straight:
		return fmt.Sprintf("Straight, %s high", deck.RankName(h.straight))
	case ThreeOfAKind:
		return fmt.Sprintf("Three %s", deck.RankPlural(h.trips[0]))
	case TwoPair:
		return fmt.Sprintf("Two pair, %s and %s", deck.RankPlural(h.pairs[0]), deck.RankPlural(h.pairs[1]))
	case OnePair:
		return fmt.Sprintf("Pair of %s", deck.RankPlural(h.pairs[0]))
	default:
		return fmt.Sprintf("%s high", deck.RankName(h.ranks[0]))
	}
}

// Compare returns 1 if a beats b, -1 if b beats a, and 0 for a tie
func Compare(a, b []deck.Card) int {
	sa := New(a).GetStrength()
	sb := New(b).GetStrength()

	switch {
	case sa > sb:
		return 1
	case sa < sb:
		return -1
	default:
		return 0
	}
}
