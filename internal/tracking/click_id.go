package tracking

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"
)

// Event types embedded in click identifiers.
const (
	EventTrack = "track"
	EventCheck = "check"
)

// stubbed in tests
var timeNow = time.Now

// GenerateClickID derives the deduplication token for an event:
// "{type}-{hash}-{bucket}" where hash is the first 12 hex chars of the md5
// of "appID-ip-fingerprint" and bucket is the wall-clock timestamp rounded
// down to the minute. Hits from the same visitor inside one minute collapse
// into the same identifier. Matching never consults the click id.
func GenerateClickID(eventType, appID, ip, fingerprint string) string {
	if appID == "" {
		appID = UnknownFingerprint
	}
	sum := md5.Sum([]byte(appID + "-" + ip + "-" + fingerprint))
	hash := hex.EncodeToString(sum[:])[:12]

	bucket := timeNow().UnixMilli() / 60000 * 60000

	return fmt.Sprintf("%s-%s-%d", eventType, hash, bucket)
}
