package key_ed25519

import (
	"errors"

	"go.dedis.ch/kyber/v4"
	"go.dedis.ch/kyber/v4/suites"

	"key-verification/crypto/unpadded"
)

type (
	// PrivateKey is a 32-byte private scalar
	PrivateKey []byte
	// PublicKey is a 32-byte public point
	PublicKey []byte
	Pair      struct {
		Priv PrivateKey
		Pub  PublicKey
	}
)

const KeySize = 32

var (
	Suite = suites.MustFind("Ed25519") // Use the edwards25519-curve

	ErrInvalidKeyLength = errors.New("invalid key length")
)

func New() (PrivateKey, error) {
	privK := Suite.Scalar().Pick(Suite.RandomStream())
	return privK.MarshalBinary()
}

// NewPair generates an ephemeral key pair for a single verification flow.
func NewPair() (Pair, error) {
	priv, err := New()
	if err != nil {
		return Pair{}, err
	}
	pub, err := priv.Public()
	if err != nil {
		return Pair{}, err
	}
	return Pair{Priv: priv, Pub: pub}, nil
}

func (privB PrivateKey) Public() (PublicKey, error) {
	privK, err := privB.ToScalar()
	if err != nil {
		return nil, err
	}
	pubK := Suite.Point().Mul(privK, nil)
	return pubK.MarshalBinary()
}

func (privB PrivateKey) ToScalar() (kyber.Scalar, error) {
	privK := Suite.Scalar()
	if err := privK.UnmarshalBinary(privB); err != nil {
		return nil, err
	}
	return privK, nil
}

func (pubB PublicKey) ToPoint() (kyber.Point, error) {
	pubK := Suite.Point()
	if err := pubK.UnmarshalBinary(pubB); err != nil {
		return nil, err
	}
	return pubK, nil
}

// Base64 returns the key in the unpadded base64 form carried in events.
func (pubB PublicKey) Base64() string {
	return unpadded.Encode(pubB)
}

func (privB PrivateKey) Base64() string {
	return unpadded.Encode(privB)
}

// ParsePublicKey decodes an unpadded base64 public key and checks that it is
// a point on the curve.
func ParsePublicKey(s string) (PublicKey, error) {
	raw, err := unpadded.Decode(s)
	if err != nil {
		return nil, err
	}
	if len(raw) != KeySize {
		return nil, ErrInvalidKeyLength
	}
	pub := PublicKey(raw)
	if _, err := pub.ToPoint(); err != nil {
		return nil, err
	}
	return pub, nil
}
