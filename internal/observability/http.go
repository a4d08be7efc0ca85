package observability

import (
	"net"
	"net/http"
	"strings"
)

// Caller identity headers set by the browser client and the edge proxy.
const (
	headerDeviceID  = "X-Device-Id"
	headerRequestID = "X-Request-Id"
)

// DeviceIDFromRequest returns the caller's device id, if the client sent one.
func DeviceIDFromRequest(r *http.Request) string {
	return r.Header.Get(headerDeviceID)
}

// RequestIDFromRequest returns the inbound request id used to correlate the
// published events of a single websocket session.
func RequestIDFromRequest(r *http.Request) string {
	return r.Header.Get(headerRequestID)
}

// IPFromRequest resolves the client IP, preferring the first hop recorded in
// X-Forwarded-For over the socket's remote address.
func IPFromRequest(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
