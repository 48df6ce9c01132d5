// Package request assigns and propagates request identifiers.
package request

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"bloodlink/pkg/requestcontext"
)

// HeaderRequestID is echoed on every response. An inbound value is reused so
// ids stay stable across a proxy hop.
const HeaderRequestID = "X-Request-ID"

const maxRequestIDLen = 128

func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" || len(id) > maxRequestIDLen {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(requestcontext.WithRequestID(r.Context(), id)))
	})
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	return requestcontext.RequestID(ctx)
}
