package providers

import (
	"net"
	"net/http"
	"strings"
)

// UnknownIP is the fallback when no source yields a usable address.
const UnknownIP = "unknown"

// ClientIP resolves the best-effort client address of a request. Proxy
// headers win over the transport peer: X-Forwarded-For (first hop), then
// X-Real-IP, then X-Client-IP, then the RemoteAddr host.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	if ip := strings.TrimSpace(r.Header.Get("X-Client-IP")); ip != "" {
		return ip
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}

	return UnknownIP
}
