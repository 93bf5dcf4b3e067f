// Package admin guards operational endpoints (metrics scraping) with a shared token.
package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"rigcheck/pkg/requestcontext"
)

// HeaderOpsToken carries the operations token.
const HeaderOpsToken = "X-Ops-Token"

// RequireOpsToken rejects requests whose X-Ops-Token does not match expectedToken.
// An empty expectedToken disables the check.
func RequireOpsToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if expectedToken == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(HeaderOpsToken)
			if subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
				ctx := r.Context()
				logger.WarnContext(ctx, "ops token mismatch",
					"request_id", requestcontext.RequestID(ctx),
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"ops token required"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
