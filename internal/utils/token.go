package utils // helper functions for opaque token generation

import (
	"crypto/rand"   // secure random number generation
	"encoding/hex"  // hex encoding of the random bytes
)

// NewSessionToken returns a 64-character hex string built from 32 bytes of
// crypto/rand output.  The token is the only thing the client ever holds;
// everything it refers to lives server-side in the session store.
func NewSessionToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
