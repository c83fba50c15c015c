// Package network extracts client addresses for logging, rate limiting, and
// forwarding.
package network

import (
	"net"
	"net/http"
	"strings"
)

// GetClientIP returns the originating client address: the first entry of
// X-Forwarded-For, then X-Real-IP, then RemoteAddr without its port.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return hostOnly(r.RemoteAddr)
}

// AppendForwardedFor returns the X-Forwarded-For value a proxy should send
// upstream: the incoming chain with this hop's peer address appended.
func AppendForwardedFor(r *http.Request) string {
	peer := hostOnly(r.RemoteAddr)
	prior := strings.TrimSpace(r.Header.Get("X-Forwarded-For"))
	switch {
	case peer == "":
		return prior
	case prior == "":
		return peer
	default:
		return prior + ", " + peer
	}
}

func hostOnly(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
