package fulfillment

import (
	"crypto/rand"
	"fmt"
)

const (
	trackingAlphabet  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	trackingRandomLen = 15
)

// GenerateTrackingNumber produces a carrier-prefixed identifier with 15
// random uppercase alphanumerics, e.g. "1ZK7Q2M9XT04RBE5W". The random tail
// is long enough that collisions are not a practical concern; a unique index
// on the column backs that up.
func GenerateTrackingNumber(prefix string) (string, error) {
	buf := make([]byte, trackingRandomLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("tracking number entropy: %w", err)
	}
	for i, b := range buf {
		buf[i] = trackingAlphabet[int(b)%len(trackingAlphabet)]
	}
	return prefix + string(buf), nil
}
