package dh25519

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"key-verification/crypto/key_ed25519"
)

func TestSharedSecret(t *testing.T) {
	alice, err := key_ed25519.NewPair()
	require.NoError(t, err)
	bob, err := key_ed25519.NewPair()
	require.NoError(t, err)

	aliceSecret, err := SharedSecret(alice.Priv, bob.Pub)
	assert.NoError(t, err)
	bobSecret, err := SharedSecret(bob.Priv, alice.Pub)
	assert.NoError(t, err)

	assert.NotEmpty(t, aliceSecret)
	assert.Equal(t, aliceSecret, bobSecret, "both sides should derive the same secret")
}

func TestSharedSecretInvalid(t *testing.T) {
	alice, err := key_ed25519.NewPair()
	require.NoError(t, err)

	_, err = SharedSecret(nil, alice.Pub)
	assert.ErrorIs(t, err, ErrInvalid)

	_, err = SharedSecret(alice.Priv, nil)
	assert.ErrorIs(t, err, ErrInvalid)
}
