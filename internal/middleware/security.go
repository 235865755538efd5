// internal/middleware/security.go
//
// Security-header middleware for the API surface.
//
// Injects a small set of response headers appropriate for a JSON service:
//
//   • Strict-Transport-Security  –  forces HTTPS (2 years + preload)
//   • X-Content-Type-Options    –  MIME-sniffing defence
//   • X-Frame-Options           –  click-jacking defence
//   • Referrer-Policy           –  drops path/query from Referer
//
// Headers are added after next.ServeHTTP so handlers may set their own
// values first; the middleware never overwrites an existing one.
package middleware

import "net/http"

// Security sets security headers for every response.
func Security(next http.Handler) http.Handler {
	const (
		hsts  = "max-age=63072000; includeSubDomains; preload"
		nosn  = "nosniff"
		xfo   = "DENY"
		refer = "strict-origin-when-cross-origin"
	)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)

		set := func(k, v string) {
			if w.Header().Get(k) == "" {
				w.Header().Add(k, v)
			}
		}
		set("Strict-Transport-Security", hsts)
		set("X-Content-Type-Options", nosn)
		set("X-Frame-Options", xfo)
		set("Referrer-Policy", refer)
	})
}
