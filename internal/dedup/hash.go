package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// HashHexLength is the fixed width of an identity hash. The events table
// indexes a column of exactly this size.
const HashHexLength = 64

// GenerateHash computes the deterministic identity fingerprint of an event.
// The digest covers normalized title, normalized venue (empty when absent),
// the calendar date, and normalized city, so two records phrased differently
// but describing the same event collapse to the same hash across runs.
func GenerateHash(title string, eventDate time.Time, city, venue string) string {
	input := NormalizeText(title) + "|" + NormalizeText(venue) + "|" + eventDate.Format("2006-01-02") + "|" + NormalizeText(city)
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}
