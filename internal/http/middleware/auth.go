package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"recruitportal/internal/common"
	"recruitportal/internal/http/response"
	"recruitportal/internal/security"
)

type contextKey string

const ContextAdminKey contextKey = "admin"

type TokenVerifier interface {
	Verify(token string) (*security.Claims, error)
}

type AuthMiddleware struct {
	verifier TokenVerifier
}

func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// RequireAdmin admits requests carrying a valid admin bearer token.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Error(w, common.NewError(common.CodeUnauthorized, "missing authorization header", nil))
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" || strings.TrimSpace(parts[1]) == "" {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid authorization header", nil))
			return
		}
		claims, err := m.verifier.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			if errors.Is(err, security.ErrNotAdmin) {
				response.Error(w, common.NewError(common.CodeForbidden, "admin access required", nil))
				return
			}
			slog.Debug("token rejected", slog.String("error", err.Error()))
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid token", err))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ContextAdminKey, claims)))
	})
}

func AdminFromContext(ctx context.Context) (*security.Claims, bool) {
	claims, ok := ctx.Value(ContextAdminKey).(*security.Claims)
	return claims, ok
}
