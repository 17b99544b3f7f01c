package middlewares

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/joooonis/incourserun-checkout/internal/pkg/auth"
	"github.com/joooonis/incourserun-checkout/internal/pkg/authctx"
)

// Authenticate validates the Bearer access token and stashes the raw token
// and user id in the context so downstream backend calls can forward them.
func Authenticate(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(authctx.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				unauthorized(w, "missing bearer token")
				return
			}

			claims, err := auth.ValidateToken(secret, token)
			if err != nil {
				unauthorized(w, "invalid token")
				return
			}

			ctx := authctx.WithToken(r.Context(), token)
			ctx = authctx.WithUserID(ctx, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"message": msg,
	})
}
