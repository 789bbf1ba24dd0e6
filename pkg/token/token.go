package token

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// Generate returns a crypto-secure random string of length n
// The random string is contains the following characters:
// ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_
func Generate(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("length must be > 0")
	}

	// base64 increases size by ~33%
	b, err := Secret(n*3/4 + 1)
	if err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(b)[0:n], nil
}

// Secret returns size crypto-secure random bytes
func Secret(size int) ([]byte, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}

	return b, nil
}
