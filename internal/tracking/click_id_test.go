package tracking

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func frozenClock(t *testing.T, at time.Time) {
	t.Helper()
	orig := timeNow
	timeNow = func() time.Time { return at }
	t.Cleanup(func() { timeNow = orig })
}

func TestGenerateClickID_Format(t *testing.T) {
	at := time.UnixMilli(1_700_000_123_456)
	frozenClock(t, at)

	id := GenerateClickID(EventTrack, "100001", "203.0.113.7", "X11; Linux x86_64")

	parts := strings.Split(id, "-")
	require.Len(t, parts, 3)
	assert.Equal(t, "track", parts[0])
	assert.Len(t, parts[1], 12)

	sum := md5.Sum([]byte("100001-203.0.113.7-X11; Linux x86_64"))
	assert.Equal(t, hex.EncodeToString(sum[:])[:12], parts[1])

	bucket := at.UnixMilli() / 60000 * 60000
	assert.Equal(t, fmt.Sprintf("%d", bucket), parts[2])
}

func TestGenerateClickID_StableWithinMinute(t *testing.T) {
	base := time.UnixMilli(1_700_000_040_000)
	frozenClock(t, base)
	first := GenerateClickID(EventCheck, "100001", "203.0.113.7", "fp")

	frozenClock(t, base.Add(59*time.Second))
	second := GenerateClickID(EventCheck, "100001", "203.0.113.7", "fp")
	assert.Equal(t, first, second)

	frozenClock(t, base.Add(61*time.Second))
	third := GenerateClickID(EventCheck, "100001", "203.0.113.7", "fp")
	assert.NotEqual(t, first, third)
}

func TestGenerateClickID_EmptyAppIDUsesUnknown(t *testing.T) {
	at := time.UnixMilli(1_700_000_000_000)
	frozenClock(t, at)

	withEmpty := GenerateClickID(EventTrack, "", "1.2.3.4", "fp")
	withUnknown := GenerateClickID(EventTrack, UnknownFingerprint, "1.2.3.4", "fp")
	assert.Equal(t, withUnknown, withEmpty)
}

func TestGenerateClickID_DistinctIdentities(t *testing.T) {
	at := time.UnixMilli(1_700_000_000_000)
	frozenClock(t, at)

	a := GenerateClickID(EventTrack, "100001", "1.2.3.4", "fp")
	b := GenerateClickID(EventTrack, "100002", "1.2.3.4", "fp")
	c := GenerateClickID(EventTrack, "100001", "1.2.3.5", "fp")
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestGenerateClickID_EventTypePrefix(t *testing.T) {
	at := time.UnixMilli(1_700_000_000_000)
	frozenClock(t, at)

	track := GenerateClickID(EventTrack, "100001", "1.2.3.4", "fp")
	check := GenerateClickID(EventCheck, "100001", "1.2.3.4", "fp")

	assert.True(t, strings.HasPrefix(track, "track-"))
	assert.True(t, strings.HasPrefix(check, "check-"))
	// Same identity and minute, so only the prefix differs.
	assert.Equal(t, strings.TrimPrefix(track, "track"), strings.TrimPrefix(check, "check"))
}
