package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/terryberlin/carbonmenu/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID accepts a caller-supplied correlation id or mints one, echoes it
// on the response and tags the request-scoped logger with it.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := requestIDFrom(r)
			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func requestIDFrom(r *http.Request) string {
	if id := r.Header.Get(requestIDHeader); id != "" {
		return id
	}
	return uuid.NewString()
}
