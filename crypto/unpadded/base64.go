// Package unpadded implements the unpadded standard base64 encoding used for
// keys and MACs on the wire.
package unpadded

import (
	"encoding/base64"
	"errors"
	"strings"
)

var ErrLineBreak = errors.New("unpadded: line break in base64 input")

// encoding rejects non-zero trailing bits so every value has a single
// canonical form.
var encoding = base64.RawStdEncoding.Strict()

func Encode(data []byte) string {
	return encoding.EncodeToString(data)
}

// Decode decodes canonical unpadded base64. The standard decoder drops \r and
// \n even in strict mode, those are rejected here.
func Decode(s string) ([]byte, error) {
	if strings.ContainsAny(s, "\r\n") {
		return nil, ErrLineBreak
	}
	return encoding.DecodeString(s)
}

// Valid reports whether s decodes as canonical unpadded base64.
func Valid(s string) bool {
	_, err := Decode(s)
	return err == nil
}
