// internal/middleware/auth.go
//
// Admin-password gate for the management API.
//
// Context
// -------
// The admin surface is protected by one shared password, supplied either
// in the `X-Admin-Password` header or as the password half of HTTP basic
// auth (the username is ignored).  An empty configured password disables
// the gate entirely, which is the local-development mode.  The public
// query and health endpoints are never routed through this middleware.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.
package middleware

import (
	"crypto/subtle"
	"net/http"
)

// AdminAuth returns a middleware enforcing the shared admin password.
func AdminAuth(password string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if password == "" {
				next.ServeHTTP(w, r)
				return
			}
			if equal(r.Header.Get("X-Admin-Password"), password) {
				next.ServeHTTP(w, r)
				return
			}
			if _, pw, ok := r.BasicAuth(); ok && equal(pw, password) {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"code":"UNAUTHORIZED","message":"authentication required"}}`))
		})
	}
}

// equal is a constant-time string comparison.
func equal(a, b string) bool {
	return len(a) == len(b) &&
		subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
