package ratelimit

import "strings"

const unknownOrigin = "unknown"

// HeaderSource looks up request headers. huma.Context satisfies it.
type HeaderSource interface {
	Header(name string) string
}

// ResolveIdentifier returns the quota identifier for a caller.
// An authenticated principal wins over the network origin, which is read from the
// first X-Forwarded-For entry, then X-Real-IP.
func ResolveIdentifier(principalID string, headers HeaderSource) string {
	if principalID != "" {
		return "user:" + principalID
	}

	return "ip:" + clientIP(headers)
}

func clientIP(headers HeaderSource) string {
	if headers == nil {
		return unknownOrigin
	}

	if xff := headers.Header("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xri := strings.TrimSpace(headers.Header("X-Real-IP")); xri != "" {
		return xri
	}

	return unknownOrigin
}
