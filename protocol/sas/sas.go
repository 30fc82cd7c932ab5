// Package sas implements the short authentication string method of
// interactive device verification: the key agreement, the numbers or emoji
// shown to the users, and the MACs sent once the users confirmed a match.
package sas

import (
	"fmt"

	"key-verification/crypto"
	"key-verification/crypto/dh25519"
	"key-verification/crypto/hkdf"
	"key-verification/crypto/hmac"
	"key-verification/crypto/key_ed25519"
	"key-verification/crypto/unpadded"
)

const (
	sasInfoPrefix = "MATRIX_KEY_VERIFICATION_SAS|"
	macInfoPrefix = "MATRIX_KEY_VERIFICATION_MAC"
	keyIDsInfo    = "KEY_IDS"

	decimalBytes = 5
	emojiBytes   = 6
)

// Parties describes a verification flow from one device's point of view.
type Parties struct {
	OwnUser     string
	OwnDevice   string
	OtherUser   string
	OtherDevice string
	// FlowID is the transaction id for to-device flows and the id of the
	// request event for in-room flows.
	FlowID string
	// Initiator is set when the own device sent m.key.verification.start.
	Initiator bool
}

// Swap returns the same flow seen from the other device.
func (p Parties) Swap() Parties {
	return Parties{
		OwnUser:     p.OtherUser,
		OwnDevice:   p.OtherDevice,
		OtherUser:   p.OwnUser,
		OtherDevice: p.OwnDevice,
		FlowID:      p.FlowID,
		Initiator:   !p.Initiator,
	}
}

// MacInfo is the HKDF info binding a MAC to the sender, the receiver, the
// flow and the key being confirmed.
func (p Parties) MacInfo(keyID string) string {
	return macInfoPrefix + p.OwnUser + p.OwnDevice + p.OtherUser + p.OtherDevice + p.FlowID + keyID
}

// SAS holds the secret agreed on with the ephemeral keys of both devices.
type SAS struct {
	ownPub   key_ed25519.PublicKey
	theirPub key_ed25519.PublicKey
	secret   []byte
}

// New runs the key agreement between our ephemeral pair and the other
// device's ephemeral public key.
func New(own key_ed25519.Pair, theirPub key_ed25519.PublicKey) (*SAS, error) {
	secret, err := dh25519.SharedSecret(own.Priv, theirPub)
	if err != nil {
		return nil, fmt.Errorf("failed to agree on a shared secret: %w", err)
	}
	return &SAS{
		ownPub:   own.Pub,
		theirPub: theirPub,
		secret:   secret,
	}, nil
}

// CalculateMac derives a MAC key for info from the shared secret and returns
// the HMAC-SHA256 of input with it, unpadded base64.
func (s *SAS) CalculateMac(input, info string) (string, error) {
	key, err := hkdf.DeriveKey(crypto.DefaultHashFunc, s.secret, nil, []byte(info), crypto.MacKeySize)
	if err != nil {
		return "", err
	}
	return unpadded.Encode(hmac.Sum(crypto.DefaultHashFunc, key, []byte(input))), nil
}

func (s *SAS) sasInfo(p Parties) string {
	ownKey, theirKey := s.ownPub.Base64(), s.theirPub.Base64()
	if p.Initiator {
		return sasInfoPrefix + p.OwnUser + "|" + p.OwnDevice + "|" + ownKey + "|" +
			p.OtherUser + "|" + p.OtherDevice + "|" + theirKey + "|" + p.FlowID
	}
	return sasInfoPrefix + p.OtherUser + "|" + p.OtherDevice + "|" + theirKey + "|" +
		p.OwnUser + "|" + p.OwnDevice + "|" + ownKey + "|" + p.FlowID
}

// Bytes derives n bytes both devices show to their users in some form.
func (s *SAS) Bytes(p Parties, n int) ([]byte, error) {
	if n <= 0 {
		return nil, ErrInvalidSASBytes
	}
	return hkdf.DeriveKey(crypto.DefaultHashFunc, s.secret, nil, []byte(s.sasInfo(p)), n)
}

// Decimals returns the three four-digit numbers (1000 to 9191) of the
// decimal SAS method.
func (s *SAS) Decimals(p Parties) ([3]int, error) {
	b, err := s.Bytes(p, decimalBytes)
	if err != nil {
		return [3]int{}, err
	}
	return decimals(b), nil
}

// Emoji returns the seven indices (0 to 63) into the emoji table.
func (s *SAS) Emoji(p Parties) ([7]int, error) {
	b, err := s.Bytes(p, emojiBytes)
	if err != nil {
		return [7]int{}, err
	}
	return emoji(b), nil
}

// decimals splits the first 39 bits into three 13-bit numbers
func decimals(b []byte) [3]int {
	return [3]int{
		(int(b[0])<<5 | int(b[1])>>3) + 1000,
		((int(b[1])&0x07)<<10 | int(b[2])<<2 | int(b[3])>>6) + 1000,
		((int(b[3])&0x3f)<<7 | int(b[4])>>1) + 1000,
	}
}

// emoji splits the first 42 bits into seven 6-bit indices
func emoji(b []byte) [7]int {
	var bits uint64
	for _, v := range b[:emojiBytes] {
		bits = bits<<8 | uint64(v)
	}
	var result [7]int
	for i := range result {
		shift := 48 - 6*(i+1)
		result[i] = int(bits>>uint(shift)) & 0x3f
	}
	return result
}
