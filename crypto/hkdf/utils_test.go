package hkdf

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"key-verification/crypto"
)

func TestDeriveKey(t *testing.T) {
	secret := []byte("shared secret")

	a, err := DeriveKey(crypto.DefaultHashFunc, secret, nil, []byte("info-a"), crypto.MacKeySize)
	assert.NoError(t, err)
	assert.Len(t, a, crypto.MacKeySize)

	again, err := DeriveKey(crypto.DefaultHashFunc, secret, nil, []byte("info-a"), crypto.MacKeySize)
	assert.NoError(t, err)
	assert.Equal(t, a, again)

	b, err := DeriveKey(crypto.DefaultHashFunc, secret, nil, []byte("info-b"), crypto.MacKeySize)
	assert.NoError(t, err)
	assert.NotEqual(t, a, b, "different info must give different keys")

	_, err = DeriveKey(crypto.DefaultHashFunc, nil, nil, []byte("info-a"), crypto.MacKeySize)
	assert.ErrorIs(t, err, ErrEmptySecret)
}
