package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/anil1907/fidi-api/internal/auth"
)

type ctxKey string

const userIDKey ctxKey = "uid"

// UserID returns the authenticated user id, or "" outside the auth middleware.
func UserID(ctx context.Context) string {
	v, _ := ctx.Value(userIDKey).(string)
	return v
}

// WithUserID is for tests that call handlers without the middleware.
func WithUserID(ctx context.Context, uid string) context.Context {
	return context.WithValue(ctx, userIDKey, uid)
}

// Auth rejects requests without a valid bearer token and puts the user id
// on the request context.
func Auth(tokens auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if raw == "" || raw == r.Header.Get("Authorization") {
				unauthorized(w, "no token")
				return
			}
			claims, err := tokens.Parse(raw)
			if err != nil {
				unauthorized(w, "bad token")
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"message":"` + msg + `"}`))
}
