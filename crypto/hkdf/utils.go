package hkdf

import (
	"errors"
	"hash"
	"io"

	"golang.org/x/crypto/hkdf"
)

var (
	ErrEmptySecret = errors.New("empty secret")
)

// DeriveKey expands secret into n bytes of key material bound to info
func DeriveKey(hash func() hash.Hash, secret, salt, info []byte, n int) ([]byte, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	hkdfReader := hkdf.New(hash, secret, salt, info)

	key := make([]byte, n)
	if _, err := io.ReadFull(hkdfReader, key); err != nil {
		return nil, err
	}
	return key, nil
}
