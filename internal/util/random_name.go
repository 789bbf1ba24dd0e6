package util

import (
	"fmt"
	"math/rand"
	"time"
)

var adjectives = []string{
	"Trembling", "Sleepless", "Whispering", "Pallid", "Feverish", "Wandering", "Hollow", "Muttering", "Haunted",
	"Gibbering", "Dreaming", "Drowned", "Shivering", "Candlelit", "Restless", "Forgotten", "Weeping", "Ashen",
}

var seekers = []string{
	"Scholar", "Antiquarian", "Librarian", "Sailor", "Archivist", "Cartographer", "Professor", "Heir", "Occultist",
	"Surveyor", "Novelist", "Physician", "Stargazer", "Fisherman", "Dilettante", "Curator",
}

var random = rand.New(rand.NewSource(time.Now().UnixNano())) // nolint:gosec

// GetRandomName returns a random name by combining an adjective with an unfortunate profession
func GetRandomName() string {
	adjectivesIndex := random.Intn(len(adjectives))
	seekersIndex := random.Intn(len(seekers))

	return fmt.Sprintf("%s %s", adjectives[adjectivesIndex], seekers[seekersIndex])
}
