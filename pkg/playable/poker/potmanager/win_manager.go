package potmanager

import "sort"

type showing struct {
	participant Participant
	strength    int
}

// WinManager ranks the participants that reached showdown
// Participants with equal strength keep the order they were added in, which is table order.
type WinManager struct {
	showings []showing
}

// NewWinManager returns an empty WinManager
func NewWinManager() *WinManager {
	return &WinManager{showings: make([]showing, 0, 2)}
}

// AddParticipant records the strength of the participant's hand
func (w *WinManager) AddParticipant(p Participant, handStrength int) {
	w.showings = append(w.showings, showing{participant: p, strength: handStrength})
}

// GetSortedTiers returns the participants grouped by strength, strongest first
func (w *WinManager) GetSortedTiers() [][]Participant {
	sorted := make([]showing, len(w.showings))
	copy(sorted, w.showings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].strength > sorted[j].strength
	})

	tiers := make([][]Participant, 0, len(sorted))
	for i, s := range sorted {
		if i > 0 && sorted[i-1].strength == s.strength {
			tiers[len(tiers)-1] = append(tiers[len(tiers)-1], s.participant)
			continue
		}

		tiers = append(tiers, []Participant{s.participant})
	}

	return tiers
}

// GetWinners returns the participants with the strongest hand
// More than one winner means the pot is split.
func (w *WinManager) GetWinners() []Participant {
	tiers := w.GetSortedTiers()
	if len(tiers) == 0 {
		return nil
	}

	return tiers[0]
}
