package middleware

import (
	"net/http"

	"github.com/mitchellh/go-server-timing"
)

// WithServerTiming collects the metrics recorded while handling a request,
// including render spans, into its Server-Timing header.
func WithServerTiming(w http.ResponseWriter, r *http.Request, next http.Handler) {
	servertiming.Middleware(next, nil).ServeHTTP(w, r)
}
