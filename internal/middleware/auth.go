package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/nextslot/media-service/internal/response"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

// ProviderIDKey is the context key for the provider the caller acts for.
const ProviderIDKey contextKey = "providerID"

// RoleKey is the context key for the caller's role.
const RoleKey contextKey = "role"

// RoleStaff may act on any provider.
const RoleStaff = "staff"

// RequireAuth returns middleware that validates a Bearer JWT issued by the
// booking application and injects its claims into the request context.
func RequireAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "authorization header required")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				response.Unauthorized(w, "invalid authorization header format")
				return
			}

			token, err := jwt.Parse(parts[1], func(t *jwt.Token) (any, error) {
				return []byte(jwtSecret), nil
			}, jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}))
			if err != nil || !token.Valid {
				response.Unauthorized(w, "invalid or expired token")
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				response.Unauthorized(w, "invalid token claims")
				return
			}

			providerID, _ := claims["providerId"].(string)
			role, _ := claims["role"].(string)

			ctx := context.WithValue(r.Context(), ProviderIDKey, providerID)
			ctx = context.WithValue(ctx, RoleKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireProviderAccess rejects requests whose token neither belongs to the
// provider named by the {id} route parameter nor carries the staff role.
// It must run after RequireAuth.
func RequireProviderAccess(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, _ := r.Context().Value(RoleKey).(string)
		providerID, _ := r.Context().Value(ProviderIDKey).(string)

		if role != RoleStaff && (providerID == "" || providerID != chi.URLParam(r, "id")) {
			response.Forbidden(w, "no access to this provider")
			return
		}
		next.ServeHTTP(w, r)
	})
}
