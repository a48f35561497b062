package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/example/partstock/internal/auth"
)

type contextKey string

const (
	// SessionContextKey holds the validated session claims, when present.
	SessionContextKey contextKey = "session"
)

// ExtractToken extracts the session token from cookie or Authorization header.
func ExtractToken(r *http.Request) string {
	// Try cookie first (for browser)
	if cookie, err := r.Cookie("session_token"); err == nil {
		return cookie.Value
	}
	// Fall back to Authorization header (for API clients)
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// SessionMiddleware adds session claims to the context when a valid token is
// present. It never rejects: identity here is a whitelist convenience, and
// requests without a token simply carry no claims.
func SessionMiddleware(tokens *auth.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if tokenString := ExtractToken(r); tokenString != "" {
				if claims, err := tokens.ValidateSessionToken(tokenString); err == nil {
					ctx := context.WithValue(r.Context(), SessionContextKey, claims)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetClaims retrieves session claims from the request context.
func GetClaims(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(SessionContextKey).(*auth.Claims)
	return claims, ok
}

// GetEmployeeID is a helper to get just the employee ID from context.
func GetEmployeeID(ctx context.Context) string {
	claims, ok := GetClaims(ctx)
	if !ok {
		return ""
	}
	return claims.EmployeeID
}
