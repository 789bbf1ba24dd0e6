package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate(t *testing.T) {
	token, err := Generate(8)
	assert.NoError(t, err)
	assert.Equal(t, 8, len(token))

	token2, err := Generate(8)
	assert.NoError(t, err)
	assert.NotEqual(t, token, token2)

	token, err = Generate(64)
	assert.NoError(t, err)
	assert.Equal(t, 64, len(token))

	_, err = Generate(0)
	assert.EqualError(t, err, "length must be > 0")
}

func TestSecret(t *testing.T) {
	a := assert.New(t)

	secret, err := Secret(32)
	a.NoError(err)
	a.Len(secret, 32)

	secret2, err := Secret(32)
	a.NoError(err)
	a.NotEqual(secret, secret2)
}
