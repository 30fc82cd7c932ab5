package crypto

import "crypto/sha256"

var (
	DefaultHashFunc = sha256.New
)

const (
	HMACSHA256Size = 32

	// MacKeySize is the length of a key derived for a single MAC computation
	MacKeySize = 32
)
