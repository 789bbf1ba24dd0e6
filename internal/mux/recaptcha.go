package mux

import (
	"time"

	grecaptcha "github.com/ezzarghili/recaptcha-go"
)

// Recaptcha verifies a reCAPTCHA token
type Recaptcha interface {
	// Verify will verify the token is valid
	Verify(token string) error
}

// NewRecaptcha returns a reCAPTCHA v3 verifier
// An empty secret disables the check.
func NewRecaptcha(secret string) (Recaptcha, error) {
	if secret == "" {
		return noRecaptcha{}, nil
	}

	captcha, err := grecaptcha.NewReCAPTCHA(secret, grecaptcha.V3, 10*time.Second)
	if err != nil {
		return nil, err
	}

	return &captcha, nil
}

type noRecaptcha struct{}

func (noRecaptcha) Verify(string) error {
	return nil
}
