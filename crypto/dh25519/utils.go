package dh25519

import (
	"errors"

	"key-verification/crypto/key_ed25519"
)

var (
	ErrInvalid = errors.New("invalid input")
)

// SharedSecret returns the marshalled point priv*pub.
func SharedSecret(priv key_ed25519.PrivateKey, pub key_ed25519.PublicKey) ([]byte, error) {
	if len(priv) == 0 || len(pub) == 0 {
		return nil, ErrInvalid
	}
	privScalar, err := priv.ToScalar()
	if err != nil {
		return nil, err
	}
	pubPoint, err := pub.ToPoint()
	if err != nil {
		return nil, err
	}
	secretPoint := key_ed25519.Suite.Point().Mul(privScalar, pubPoint)
	return secretPoint.MarshalBinary()
}
