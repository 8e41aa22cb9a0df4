package common

import (
	"crypto/rand"
	"encoding/hex"
)

// MakeRandHexString generates a random hexadecimal string from size random
// bytes, so the resulting string is twice as long as size. The bytes come
// from crypto/rand; an error is returned only if the generator fails.
//
// Opaque bearer credentials (session and password-reset tokens) are minted
// with size=32, i.e. 256 bits of entropy.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
