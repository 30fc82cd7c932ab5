package hmac

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"

	"key-verification/crypto"
)

func TestSum(t *testing.T) {
	// RFC 4231 test case 2
	mac := Sum(crypto.DefaultHashFunc, []byte("Jefe"), []byte("what do ya want for nothing?"))
	assert.Equal(t, "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843", hex.EncodeToString(mac))
	assert.Len(t, mac, crypto.HMACSHA256Size)
}

func TestEqual(t *testing.T) {
	a := Sum(crypto.DefaultHashFunc, []byte("key"), []byte("data"))
	b := Sum(crypto.DefaultHashFunc, []byte("key"), []byte("data"))
	c := Sum(crypto.DefaultHashFunc, []byte("key"), []byte("other"))

	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c))
}
