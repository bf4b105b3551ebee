package web

import (
	"net/http"

	"github.com/JonMunkholm/leaddesk/internal/audit"
)

// requestMetadata puts the client IP and User-Agent on the request context
// for audit logging.
func requestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := audit.WithRequestMetadata(r.Context(), r.RemoteAddr, r.UserAgent())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
