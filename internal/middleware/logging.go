// internal/middleware/logging.go
//
// Per-request access logging.
//
// Context
// -------
// Sits at the top of the chain, before auth and the routers.  Each
// request is logged once on completion with method, path, status, byte
// count, duration, and the left-most public client IP taken from
// X-Forwarded-For or X-Real-IP, falling back to r.RemoteAddr.
//
// Notes
// -----
// • The status recorder assumes handlers call WriteHeader at most once,
//   which net/http enforces.
// • Oxford commas, two spaces after periods.
package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(p []byte) (int, error) {
	if sr.status == 0 {
		sr.status = http.StatusOK
	}
	n, err := sr.ResponseWriter.Write(p)
	sr.bytes += n
	return n, err
}

// RequestLogger logs one line per completed request through the global
// zap logger.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}

		next.ServeHTTP(rec, r)

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		zap.S().Infow("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"bytes", rec.bytes,
			"duration", time.Since(start),
			"ip", clientIP(r),
		)
	})
}

// clientIP returns the left-most address from X-Forwarded-For, then
// X-Real-IP, then the transport peer.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first, _, ok := strings.Cut(xff, ","); ok {
			return strings.TrimSpace(first)
		}
		return strings.TrimSpace(xff)
	}
	if xr := r.Header.Get("X-Real-IP"); xr != "" {
		return strings.TrimSpace(xr)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
