// Package admin guards operator endpoints that run before any admin account
// exists.
package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	dErrors "bloodlink/pkg/domain-errors"
	"bloodlink/pkg/platform/httputil"
)

// HeaderAdminToken carries the operator secret.
const HeaderAdminToken = "X-Admin-Token"

// RequireAdminToken compares X-Admin-Token against the configured secret in
// constant time. With no secret configured the guarded routes answer 404.
func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if expectedToken == "" {
				httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "not found"))
				return
			}
			token := r.Header.Get(HeaderAdminToken)
			if subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
				httputil.RespondError(ctx, logger, w,
					dErrors.New(dErrors.CodeUnauthorized, "admin token required"),
					"admin token mismatch")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
