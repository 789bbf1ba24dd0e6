package esp

import "card-shoggoths-server/pkg/deck"

// Theme restricts an ESP deck to a handful of ranks
// Fewer ranks means more cards that look alike, which makes the hidden link harder to spot.
type Theme struct {
	Name    string
	Ranks   []int
	Message string
}

// Themes are the decks an ESP round can be drawn from
var Themes = []Theme{
	{
		Name:    "primes",
		Ranks:   []int{2, 3, 5, 7},
		Message: "The primes align... 2, 3, 5, 7...",
	},
	{
		Name:    "faces",
		Ranks:   []int{deck.Jack, deck.Queen, deck.King, deck.Ace},
		Message: "Royal visions emerge...",
	},
	{
		Name:    "odds",
		Ranks:   []int{3, 5, 7, 9, deck.Jack, deck.King},
		Message: "Odd energies swirl...",
	},
	{
		Name:    "evens",
		Ranks:   []int{2, 4, 6, 8, 10, deck.Queen},
		Message: "Even patterns crystallize...",
	},
}

// ThemeByName returns the theme with the name
func ThemeByName(name string) (Theme, bool) {
	for _, theme := range Themes {
		if theme.Name == name {
			return theme, true
		}
	}

	return Theme{}, false
}

// smallestDeck is the number of cards in the smallest themed deck
func smallestDeck() int {
	smallest := 0
	for _, theme := range Themes {
		if size := len(theme.Ranks) * len(deck.Suits); smallest == 0 || size < smallest {
			smallest = size
		}
	}

	return smallest
}
