package middleware

import (
	"context"
	"net/http"
	"strings"

	pkglog "watchparty/internal/log"
	"watchparty/internal/model"
	"watchparty/internal/transport/rest/response"
)

type contextKey string

const IdentityKey contextKey = "identity"

// TokenValidator resolves a bearer token to a caller.
type TokenValidator interface {
	ValidateToken(token string) (model.Identity, error)
}

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	tokens TokenValidator
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(tokens TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireUser validates the bearer token from the Authorization header, or
// the token query parameter for clients that cannot set headers.
func (m *AuthMiddleware) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			response.Unauthorized(w, "authorization token required")
			return
		}

		id, err := m.tokens.ValidateToken(token)
		if err != nil {
			response.Unauthorized(w, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), IdentityKey, id)
		l := pkglog.Ctx(ctx).With().
			Str(pkglog.FieldUserID, id.UserID).
			Str(pkglog.FieldUsername, id.Username).
			Logger()
		ctx = pkglog.WithLogger(ctx, l)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetIdentity extracts the caller from context
func GetIdentity(ctx context.Context) (model.Identity, bool) {
	id, ok := ctx.Value(IdentityKey).(model.Identity)
	return id, ok
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
