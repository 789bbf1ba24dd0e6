package room

import (
	"errors"

	"card-shoggoths-server/pkg/playable"
)

// ErrInternal is returned when an intent broke an invariant and the session was rolled back
var ErrInternal = errors.New("something went wrong; the session was restored to its last good state")

func newErrorResponse(ctx string, err error) *playable.Response {
	res := &playable.Response{
		Key:     "error",
		Value:   err.Error(),
		Context: ctx,
	}

	var ruleErr *playable.RuleError
	if errors.As(err, &ruleErr) {
		res.Data = ruleErr.Kind
	}

	return res
}

// IsRuleError returns true if the error is a rule violation, which never changes state
func IsRuleError(err error) bool {
	var ruleErr *playable.RuleError
	return errors.As(err, &ruleErr)
}
