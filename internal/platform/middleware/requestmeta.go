// Package middleware holds cross-cutting HTTP middleware.
package middleware

import (
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"vetgate/pkg/requestcontext"
)

// RequestMeta stamps each request's context with a request ID, the request
// arrival time, and client metadata. An inbound X-Request-ID is honored so
// callers can correlate; otherwise one is generated.
func RequestMeta(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		clientIP := r.RemoteAddr
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			clientIP = host
		}

		ctx := r.Context()
		ctx = requestcontext.WithRequestID(ctx, requestID)
		ctx = requestcontext.WithTime(ctx, time.Now())
		ctx = requestcontext.WithClientMetadata(ctx, clientIP, r.UserAgent())

		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
