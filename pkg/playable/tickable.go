package playable

import "time"

// Tickable is a game whose state can change with the passage of time
type Tickable interface {
	// NextDeadline returns when the next time-based change is due
	// ok is false when nothing is pending.
	NextDeadline() (deadline time.Time, ok bool)

	// Tick applies any change that is due
	// Return true if the state changed and should be persisted
	Tick() (bool, error)
}

// IsDue reports whether t has a pending change that is past due at now
func IsDue(t Tickable, now time.Time) bool {
	deadline, ok := t.NextDeadline()
	return ok && now.After(deadline)
}
