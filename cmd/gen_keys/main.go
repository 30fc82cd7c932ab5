package main

import (
	"fmt"
	"log"

	"key-verification/crypto/key_ed25519"
)

// Prints an ephemeral key pair in the unpadded base64 form used on the wire.
func main() {
	pair, err := key_ed25519.NewPair()
	if err != nil {
		log.Fatalf("Failed to generate key pair: %v", err)
	}

	fmt.Printf("PRIVATE: %s\n", pair.Priv.Base64())
	fmt.Printf("PUBLIC: %s\n", pair.Pub.Base64())
}
