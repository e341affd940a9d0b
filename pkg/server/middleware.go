package server

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/smartworkshop/workshopcost/pkg/log"
)

// maxBodyBytes limits API request bodies.
const maxBodyBytes = 1 << 20

// requestMiddleware attaches a request-scoped logger to the context, caps the
// body size and marks API responses as uncacheable.
func (s *Server) requestMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		reqID := r.Header.Get("X-Request-Id")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		ctx = log.With(ctx, log.Ctx(ctx).With(
			slog.String("reqPath", r.URL.Path),
			slog.String("reqMethod", r.Method),
			slog.String("reqID", reqID),
		))

		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		}
		w.Header().Set("X-Request-Id", reqID)
		w.Header().Set("Cache-Control", "no-store")

		s.metrics.requests.WithLabelValues(r.Method).Inc()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) securityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Strict-Transport-Security: max-age=2 years
		w.Header().Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")

		// Prevent MIME-sniffing
		w.Header().Set("X-Content-Type-Options", "nosniff")

		// Prevent clickjacking
		w.Header().Set("X-Frame-Options", "DENY")

		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) revisionMiddleware(next http.Handler) http.Handler {
	if s.serverName == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", s.serverName)
		next.ServeHTTP(w, r)
	})
}
