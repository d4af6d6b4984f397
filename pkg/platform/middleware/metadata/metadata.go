package metadata

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"painel/pkg/requestcontext"
)

// MaxXFFHeaderLength bounds the X-Forwarded-For value considered for the client IP.
const MaxXFFHeaderLength = 500

// Middleware stores the client IP and User-Agent in the request context. The
// client IP feeds the anonymized access log and the session device label.
type Middleware struct {
	trustedProxies []netip.Prefix
}

// NewMiddleware builds the middleware. Forwarding headers are honoured only
// when the direct peer is inside one of trustedProxies.
func NewMiddleware(trustedProxies []netip.Prefix) *Middleware {
	return &Middleware{trustedProxies: trustedProxies}
}

// ParseTrustedProxies parses CIDR strings as read from configuration.
func ParseTrustedProxies(cidrs []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(cidrs))
	for _, c := range cidrs {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		p, err := netip.ParsePrefix(c)
		if err != nil {
			return nil, fmt.Errorf("parse trusted proxy %q: %w", c, err)
		}
		prefixes = append(prefixes, p)
	}
	return prefixes, nil
}

func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithClientMetadata(r.Context(), m.clientIP(r), r.Header.Get("User-Agent"))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) clientIP(r *http.Request) string {
	remoteIP := parseRemoteAddr(r.RemoteAddr)
	if remoteIP == "" {
		return "unknown"
	}
	if !m.trusted(remoteIP) {
		return remoteIP
	}

	forwarded := r.Header.Get("X-Forwarded-For")
	if forwarded == "" {
		forwarded = r.Header.Get("X-Real-IP")
	}
	if forwarded == "" || len(forwarded) > MaxXFFHeaderLength {
		return remoteIP
	}

	first, _, _ := strings.Cut(forwarded, ",")
	first = strings.TrimSpace(first)
	if _, err := netip.ParseAddr(first); err != nil {
		return remoteIP
	}
	return first
}

func (m *Middleware) trusted(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	for _, prefix := range m.trustedProxies {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func parseRemoteAddr(remoteAddr string) string {
	if remoteAddr == "" {
		return ""
	}
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return strings.Trim(remoteAddr, "[]")
	}
	return host
}
