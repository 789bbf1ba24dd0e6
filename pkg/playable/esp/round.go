package esp

import (
	"time"

	"card-shoggoths-server/pkg/deck"
	"card-shoggoths-server/pkg/playable"
)

// Round is an active ESP challenge
// MatchIndex1 and MatchIndex2 link one card of each hand. The link is never shown to the player.
type Round struct {
	Theme       string    `json:"theme"`
	Hand1       deck.Hand `json:"hand1"`
	Hand2       deck.Hand `json:"hand2"`
	MatchIndex1 int       `json:"matchIndex1"`
	MatchIndex2 int       `json:"matchIndex2"`
	StartedAt   time.Time `json:"startedAt"`
	Deadline    time.Time `json:"deadline"`
	Attempts    int       `json:"attempts"`
}

// View is the round as the player may see it
type View struct {
	Theme       string    `json:"theme"`
	Message     string    `json:"message"`
	Hand1       deck.Hand `json:"hand1"`
	Hand2       deck.Hand `json:"hand2"`
	Deadline    time.Time `json:"deadline"`
	RemainingMS int64     `json:"remainingMs"`
	Attempts    int       `json:"attempts"`
}

// Expired returns true if the deadline has passed
func (r *Round) Expired(now time.Time) bool {
	return now.After(r.Deadline)
}

// Remaining returns how much time is left, never less than zero
func (r *Round) Remaining(now time.Time) time.Duration {
	if remaining := r.Deadline.Sub(now); remaining > 0 {
		return remaining
	}

	return 0
}

// IsMatch returns true if the indices are the linked pair
func (r *Round) IsMatch(index1, index2 int) bool {
	return index1 == r.MatchIndex1 && index2 == r.MatchIndex2
}

func (r *Round) validateIndices(index1, index2 int) error {
	if index1 < 0 || index1 >= len(r.Hand1) {
		return playable.NewRuleError(playable.KindIllegalIndex, "index1 must be between 0 and %d", len(r.Hand1)-1)
	}

	if index2 < 0 || index2 >= len(r.Hand2) {
		return playable.NewRuleError(playable.KindIllegalIndex, "index2 must be between 0 and %d", len(r.Hand2)-1)
	}

	return nil
}

// View returns the round without the hidden link
func (r *Round) View(now time.Time) *View {
	msg := ""
	if theme, ok := ThemeByName(r.Theme); ok {
		msg = theme.Message
	}

	return &View{
		Theme:       r.Theme,
		Message:     msg,
		Hand1:       r.Hand1.Clone(),
		Hand2:       r.Hand2.Clone(),
		Deadline:    r.Deadline,
		RemainingMS: r.Remaining(now).Milliseconds(),
		Attempts:    r.Attempts,
	}
}
