package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/tickit/internal/server/auth"
)

type ctxKey string

const accountIDKey ctxKey = "accountID"

// AccountID returns the authenticated account id stored by the auth
// middleware, or "" when the request was not authenticated.
func AccountID(ctx context.Context) string {
	id, _ := ctx.Value(accountIDKey).(string)
	return id
}

// BearerAuth rejects requests without a valid bearer token and stores the
// token's account id in the request context.
func BearerAuth(secretKey []byte, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		accountID, err := auth.GetAccountIDFromToken(token, secretKey)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), accountIDKey, accountID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
