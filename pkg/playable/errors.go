package playable

import "fmt"

// ErrorKind classifies a rule violation
type ErrorKind string

// ErrorKind constants
const (
	KindIllegalAction      ErrorKind = "illegal_action"
	KindIllegalIndex       ErrorKind = "illegal_index"
	KindIllegalPhase       ErrorKind = "illegal_phase"
	KindNoActiveESP        ErrorKind = "no_active_esp"
	KindDeadlineExpired    ErrorKind = "deadline_expired"
	KindInsufficientSanity ErrorKind = "insufficient_sanity"
)

// RuleError is an error caused by a request that breaks the rules of the game
// These errors are safe to show to the player. A RuleError never changes game state.
type RuleError struct {
	Kind    ErrorKind
	Message string
}

// sentinel errors for use with errors.Is()
var (
	ErrIllegalAction      = &RuleError{Kind: KindIllegalAction}
	ErrIllegalIndex       = &RuleError{Kind: KindIllegalIndex}
	ErrIllegalPhase       = &RuleError{Kind: KindIllegalPhase}
	ErrNoActiveESP        = &RuleError{Kind: KindNoActiveESP}
	ErrDeadlineExpired    = &RuleError{Kind: KindDeadlineExpired}
	ErrInsufficientSanity = &RuleError{Kind: KindInsufficientSanity}
)

// NewRuleError returns a new RuleError of the specified kind
func NewRuleError(kind ErrorKind, format string, a ...interface{}) *RuleError {
	return &RuleError{
		Kind:    kind,
		Message: fmt.Sprintf(format, a...),
	}
}

// Error returns the message
func (r *RuleError) Error() string {
	if r.Message == "" {
		return string(r.Kind)
	}

	return r.Message
}

// Is matches any RuleError of the same kind
func (r *RuleError) Is(target error) bool {
	t, ok := target.(*RuleError)
	return ok && t.Kind == r.Kind
}
