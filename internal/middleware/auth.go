package middleware

import (
	"context"
	"log"
	"net/http"

	"github.com/pocketbank/pocketbank/internal/models"
	"github.com/pocketbank/pocketbank/internal/session"
)

type contextKey string

const accountKey contextKey = "account"

// RequireSession guards the protected routes: it resolves the current
// session and rejects the request with 401 when no account is logged
// in, the server-side equivalent of redirecting to the login page.
func RequireSession(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account, err := sessions.Current(r.Context())
			if err != nil {
				log.Printf("ERROR: resolve session: %v", err)
				http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
				return
			}
			if account == nil {
				http.Error(w, `{"error":"login required"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), accountKey, account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAccount extracts the authenticated account from the request context.
func GetAccount(ctx context.Context) (*models.Account, bool) {
	account, ok := ctx.Value(accountKey).(*models.Account)
	return account, ok
}
