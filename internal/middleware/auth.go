package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/jonnyb/group-order/internal/auth"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// UserKey is the context key for storing the authenticated user name.
const UserKey contextKey = "user"

// GetUser extracts the authenticated user name from the context.
// Returns empty string if not found.
func GetUser(ctx context.Context) string {
	user, _ := ctx.Value(UserKey).(string)
	return user
}

// RequireAuth validates the Bearer session token and adds the user name
// to the request context. Requests without a valid token get 401.
func RequireAuth(jwtManager *auth.JWTManager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Unauthorized: session token required", http.StatusUnauthorized)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "Unauthorized: malformed authorization header", http.StatusUnauthorized)
				return
			}

			claims, err := jwtManager.Validate(parts[1])
			if err != nil {
				http.Error(w, "Unauthorized: invalid or expired session", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, claims.User)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
