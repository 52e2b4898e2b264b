package common

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateRandByteArray returns n cryptographically random bytes.
func GenerateRandByteArray(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}

// MakeRandHexString returns a random hex string of 2*n characters,
// suitable for opaque tokens.
func MakeRandHexString(n int) (string, error) {
	b, err := GenerateRandByteArray(n)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// WipeByteArray zeroes a sensitive buffer in place. Callers defer it over
// password bytes so plaintext does not linger on the heap.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
