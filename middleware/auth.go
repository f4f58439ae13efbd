package middleware

import (
	"context"
	"net/http"
	"strings"

	"go-storefront/apperr"
	"go-storefront/utils"
)

// Key type for context
type contextKey string

const UserContextKey = contextKey("user")

// ClaimsFrom returns the claims Auth attached to the request context
func ClaimsFrom(ctx context.Context) (*utils.Claims, bool) {
	claims, ok := ctx.Value(UserContextKey).(*utils.Claims)
	return claims, ok
}

// WithClaims returns a copy of ctx carrying claims
func WithClaims(ctx context.Context, claims *utils.Claims) context.Context {
	return context.WithValue(ctx, UserContextKey, claims)
}

// Auth verifies the bearer token and attaches its claims to the context
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			apperr.Write(w, apperr.Auth("No Token"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			apperr.Write(w, apperr.Auth("Invalid Authorization header format"))
			return
		}

		claims, err := utils.ParseJWT(parts[1])
		if err != nil {
			apperr.Write(w, apperr.Auth("Invalid Token"))
			return
		}

		next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
	})
}

// Admin lets only administrators through. It must run after Auth.
func Admin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFrom(r.Context())
		if !ok || !claims.IsAdmin {
			apperr.Write(w, apperr.Forbidden("Invalid Admin Token"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
