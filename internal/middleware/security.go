package middleware

import (
	"net/http"
)

// DefaultMaxRequestBodySize fits a record whose image_data carries a
// base64-encoded photo.
const DefaultMaxRequestBodySize int64 = 10 << 20

// SecurityConfig controls the response hardening applied by Security and
// the request body limit applied by MaxBodySize.
type SecurityConfig struct {
	// IsDevelopment suppresses HSTS so plain-HTTP local runs keep working.
	IsDevelopment bool
	// MaxRequestBodySize caps request bodies in bytes. Zero means
	// DefaultMaxRequestBodySize.
	MaxRequestBodySize int64
}

// DefaultSecurityConfig returns the production settings.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{MaxRequestBodySize: DefaultMaxRequestBodySize}
}

// fixedSecurityHeaders are sent on every response. The API only ever
// returns JSON, so nothing is allowed to embed, frame or cache it.
var fixedSecurityHeaders = [][2]string{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"X-XSS-Protection", "0"},
	{"Referrer-Policy", "strict-origin-when-cross-origin"},
	{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
	{"Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=(), usb=()"},
	{"Cross-Origin-Opener-Policy", "same-origin"},
	{"Cross-Origin-Resource-Policy", "same-origin"},
	{"Cache-Control", "no-store"},
}

const hstsValue = "max-age=31536000; includeSubDomains; preload"

// Security sets the hardening headers before the handler runs, so error
// responses written by later middleware carry them too.
func Security(cfg SecurityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			for _, kv := range fixedSecurityHeaders {
				h.Set(kv[0], kv[1])
			}
			if !cfg.IsDevelopment {
				h.Set("Strict-Transport-Security", hstsValue)
			}
			h.Del("Server")

			next.ServeHTTP(w, r)
		})
	}
}

// MaxBodySize rejects requests whose declared Content-Length exceeds
// maxBytes with 413 and caps streamed bodies at the same size. Reads past
// the cap fail with *http.MaxBytesError, which handlers turn into 413.
func MaxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxRequestBodySize
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				writeJSONError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Request body too large")
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
