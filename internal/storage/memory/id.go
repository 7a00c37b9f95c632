package memory

import (
	"crypto/rand"
	"encoding/hex"
)

// newID mints a random 128-bit identifier, hex encoded.
func newID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
