package httputil

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// GetClientIP extracts the real client IP from a request, preferring proxy
// headers over the socket address: X-Forwarded-For (first entry), then
// X-Real-IP, then RemoteAddr.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// QueryInt64 parses an optional integer query parameter. A missing or empty
// parameter yields (0, true); malformed input yields ok == false.
func QueryInt64(r *http.Request, name string) (int64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// QueryTime parses an optional timestamp query parameter, accepting RFC 3339
// or Unix milliseconds. A missing parameter yields (nil, true).
func QueryTime(r *http.Request, name string) (*time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, true
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		t := time.UnixMilli(ms).UTC()
		return &t, true
	}
	return nil, false
}
