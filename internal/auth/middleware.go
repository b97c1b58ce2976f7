package auth

import (
	"context"
	"net/http"
	"strings"

	"quicksent/db"
)

type contextKey int

const (
	userKey contextKey = iota
	sessionKey
)

// UserFrom returns the authenticated user placed in the request context
// by RequireAuth.
func UserFrom(ctx context.Context) (*db.User, bool) {
	u, ok := ctx.Value(userKey).(*db.User)
	return u, ok
}

func SessionFrom(ctx context.Context) (*db.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*db.Session)
	return s, ok
}

// RequireAuth resolves the bearer token and stores user and session in
// the request context.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := BearerToken(r)
		user, session, err := s.Authenticate(r.Context(), token)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		ctx = context.WithValue(ctx, sessionKey, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequirePermission gates a route on a permission flag. Must run after
// RequireAuth.
func RequirePermission(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFrom(r.Context())
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			if !user.Permissions[permission] {
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BearerToken extracts the token from an Authorization: Bearer header, or
// returns "" when the header is absent or malformed.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
