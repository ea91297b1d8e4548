package poller

import (
	"crypto/sha256"
	"encoding/hex"
)

// NotificationHash derives the ledger key for a notification. The key is
// stable across runs for the same (artist, title, date) triple, which is what
// makes repeated polls idempotent.
func NotificationHash(artistID, title, date string) string {
	if len(date) > 10 {
		date = date[:10]
	}
	sum := sha256.Sum256([]byte(artistID + "|" + title + "|" + date))
	return hex.EncodeToString(sum[:])
}
