package hmac

import (
	"crypto/hmac"
	"hash"
)

// Sum returns the HMAC of the data using the key.
func Sum(hash func() hash.Hash, key, data []byte) []byte {
	mac := hmac.New(hash, key)
	mac.Write(data)
	return mac.Sum(nil)
}

// Equal compares two MACs in constant time.
func Equal(a, b []byte) bool {
	return hmac.Equal(a, b)
}
