package request

import (
	"net/http"
)

// DefaultMaxBodyBytes bounds registration and edit payloads, which are a handful of fields.
const DefaultMaxBodyBytes int64 = 64 << 10

// BodyLimit caps request bodies with http.MaxBytesReader; decoding an oversized
// body fails and the connection is closed after the response.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
