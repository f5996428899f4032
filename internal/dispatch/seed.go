package dispatch

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// SeedSize is the byte length of a per-request seed.
const SeedSize = 32

// SeedSource produces the per-request nonce sent with start, hit and stand.
type SeedSource func() (string, error)

// RandomSeed returns 0x followed by 64 random hex digits.
func RandomSeed() (string, error) {
	var b [SeedSize]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("read seed: %w", err)
	}
	return "0x" + hex.EncodeToString(b[:]), nil
}
