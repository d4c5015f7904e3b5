package tracking

import (
	"regexp"
	"strings"
)

// UnknownFingerprint is the placeholder for requests without a usable
// user agent.
const UnknownFingerprint = "unknown"

var parenGroup = regexp.MustCompile(`\(([^)]+)\)`)

// NormalizeFingerprint reduces a raw user-agent string to the device/OS
// token block inside its first parenthesized group, e.g.
//
//	"Mozilla/5.0 (iPhone; CPU iPhone OS 18_7_1 like Mac OS X) ..."
//	-> "iPhone; CPU iPhone OS 18_7_1 like Mac OS X"
//
// The reduction is pure: identical input always yields identical output,
// which matching relies on. A user agent without parentheses is returned
// unchanged.
func NormalizeFingerprint(rawUserAgent string) string {
	if rawUserAgent == "" || rawUserAgent == UnknownFingerprint {
		return UnknownFingerprint
	}

	m := parenGroup.FindStringSubmatch(rawUserAgent)
	if m != nil && m[1] != "" {
		return strings.TrimSpace(m[1])
	}

	return rawUserAgent
}
