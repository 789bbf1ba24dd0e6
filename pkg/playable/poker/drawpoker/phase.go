package drawpoker

import "fmt"

// Phase is where a round of draw poker is
type Phase int

// constants for Phase
const (
	PhaseAnte Phase = iota
	PhasePreDrawBetting
	PhaseDiscard
	PhasePostDrawBetting
	PhaseShowdown
	PhaseComplete
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseAnte:
		return "ante"
	case PhasePreDrawBetting:
		return "bet_pre"
	case PhaseDiscard:
		return "discard"
	case PhasePostDrawBetting:
		return "bet_post"
	case PhaseShowdown:
		return "showdown"
	case PhaseComplete:
		return "complete"
	case PhaseGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// IsBetting returns true if the phase is one of the betting rounds
func (p Phase) IsBetting() bool {
	return p == PhasePreDrawBetting || p == PhasePostDrawBetting
}

// IsAtRest returns true if no hand is in progress
func (p Phase) IsAtRest() bool {
	return p == PhaseAnte || p == PhaseComplete || p == PhaseGameOver
}

// MarshalText encodes the phase by name
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes the phase by name
// The legacy names "deal", "bet" and "end" are accepted.
func (p *Phase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "ante", "deal":
		*p = PhaseAnte
	case "bet_pre", "bet":
		*p = PhasePreDrawBetting
	case "discard":
		*p = PhaseDiscard
	case "bet_post":
		*p = PhasePostDrawBetting
	case "showdown":
		*p = PhaseShowdown
	case "complete", "end":
		*p = PhaseComplete
	case "game_over":
		*p = PhaseGameOver
	default:
		return fmt.Errorf("unknown phase: %s", string(text))
	}

	return nil
}
