package deck

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHand_HasCard(t *testing.T) {
	a := assert.New(t)
	h := Hand(CardsFromString("2c,3d,14s"))
	a.True(h.HasCard(CardFromString("14s")))
	a.False(h.HasCard(CardFromString("14c")))
}

func TestHand_Sort(t *testing.T) {
	h := Hand(CardsFromString("14s,2c,10d,2s"))
	sort.Sort(h)
	assert.Equal(t, "2c,2s,10d,14s", h.String())
	assert.Equal(t, "2♣ 2♠ 10♦ A♠", h.Pretty())
}

func TestHand_Clone(t *testing.T) {
	a := assert.New(t)
	h := Hand(CardsFromString("2c,3d"))
	clone := h.Clone()
	clone[0] = CardFromString("14s")
	a.Equal("2c,3d", h.String())
	a.Equal("14s,3d", clone.String())
}
