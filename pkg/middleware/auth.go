package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/sadekstore/storefront/pkg/auth"
	"github.com/sadekstore/storefront/pkg/logger"
	"github.com/sadekstore/storefront/pkg/response"
)

type subjectKey struct{}

// Auth guards admin routes with a bearer token. A missing token answers 401;
// a token that fails verification (bad signature, expired) answers 403.
func Auth(signer *auth.Signer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearer(r.Header.Get("Authorization"))
			if token == "" {
				response.Unauthorized(w, "Access token required")
				return
			}

			claims, err := signer.ValidateToken(token)
			if err != nil {
				logger.WithCtx(r.Context()).Debug("rejected bearer token", "error", err)
				response.Forbidden(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey{}, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Subject returns the authenticated token subject, or "" on public routes.
func Subject(ctx context.Context) string {
	s, _ := ctx.Value(subjectKey{}).(string)
	return s
}

func bearer(header string) string {
	const prefix = "bearer "
	header = strings.TrimSpace(header)
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
