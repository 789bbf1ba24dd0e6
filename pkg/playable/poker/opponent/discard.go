package opponent

import (
	"context"
	"hash/fnv"
	"math/bits"
	"math/rand"

	"card-shoggoths-server/pkg/deck"
	"card-shoggoths-server/pkg/playable/poker/handanalyzer"

	"golang.org/x/sync/errgroup"
)

// ChooseDiscard simulates every keep/discard combination and returns the indices
// of the combination with the best average outcome
// Each combination is simulated on its own goroutine with a seed derived from the hand.
func (b Brain) ChooseDiscard(hand deck.Hand) []int {
	n := len(hand)
	if n != handanalyzer.HandSize {
		return []int{}
	}

	unknown := deck.New()
	unknown.RemoveCards(hand...)
	baseSeed := handSeed(hand)

	masks := make([]int, 0, 1<<n)
	for mask := 0; mask < 1<<n; mask++ {
		if bits.OnesCount(uint(mask)) <= b.MaxDiscards {
			masks = append(masks, mask)
		}
	}

	scores := make([]float64, len(masks))
	g, ctx := errgroup.WithContext(context.Background())
	for i, mask := range masks {
		g.Go(func() error {
			score, err := b.simulate(ctx, hand, unknown.Cards, mask, baseSeed+int64(mask))
			if err != nil {
				return err
			}

			scores[i] = score
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return []int{}
	}

	best := 0
	for i := range masks {
		if scores[i] > scores[best] {
			best = i
		}
	}

	discards := make([]int, 0, b.MaxDiscards)
	for i := 0; i < n; i++ {
		if masks[best]&(1<<i) != 0 {
			discards = append(discards, i)
		}
	}

	return discards
}

// simulate returns the average strength of the hand after replacing the cards in mask
func (b Brain) simulate(ctx context.Context, hand deck.Hand, unknown []deck.Card, mask int, seed int64) (float64, error) {
	kept := make([]deck.Card, 0, len(hand))
	for i, card := range hand {
		if mask&(1<<i) == 0 {
			kept = append(kept, card)
		}
	}

	needed := len(hand) - len(kept)
	if needed == 0 {
		return float64(handanalyzer.New(kept).GetStrength()), nil
	}

	sims := b.DiscardSimulations
	if sims <= 0 {
		sims = 1
	}

	pool := make([]deck.Card, len(unknown))
	copy(pool, unknown)
	r := rand.New(rand.NewSource(seed)) // nolint:gosec

	final := make([]deck.Card, len(hand))
	total := 0.0
	for sim := 0; sim < sims; sim++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		// partial Fisher-Yates: only the first {needed} cards are drawn
		for i := 0; i < needed; i++ {
			j := i + r.Intn(len(pool)-i)
			pool[i], pool[j] = pool[j], pool[i]
		}

		copy(final, kept)
		copy(final[len(kept):], pool[:needed])
		total += float64(handanalyzer.New(final).GetStrength())
	}

	return total / float64(sims), nil
}

func handSeed(hand deck.Hand) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(hand.String()))
	return int64(h.Sum64() >> 1)
}
