// Package reqid generates request IDs and carries them through the request
// context. Incoming X-Request-ID headers are honoured so a proxy in front of
// the store can correlate its own logs.
package reqid

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type ctxKey struct{}

// Header is the HTTP header name used to propagate the request ID.
const Header = "X-Request-ID"

// maxIncomingLen bounds client-supplied IDs before they reach the logs.
const maxIncomingLen = 64

// New returns a random 32 hex char request ID.
func New() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func WithValue(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromCtx extracts the request ID from ctx, or "" if none is present.
func FromCtx(ctx context.Context) string {
	if id, ok := ctx.Value(ctxKey{}).(string); ok {
		return id
	}
	return ""
}

// Middleware injects a request ID into every request context and echoes it
// in the response header.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(Header))
			if id == "" || len(id) > maxIncomingLen {
				id = New()
			}

			w.Header().Set(Header, id)
			next.ServeHTTP(w, r.WithContext(WithValue(r.Context(), id)))
		})
	}
}
