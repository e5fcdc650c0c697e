package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/Arnur12345/tirek-infomatrix-backend/internal/api/problem"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/auth"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/accounts"
)

// AccountSource resolves a token subject to a live account.
type AccountSource interface {
	FindByID(ctx context.Context, id string) (*accounts.Account, error)
}

type contextKeyAccount string

const accountKey contextKeyAccount = "currentAccount"

// Authenticate is the outer guard: it extracts the bearer credential,
// validates it, and loads the live account into the request context. All
// token failures answer 403 in the same generic shape so a caller cannot
// probe which check failed. A token that outlives its account is rejected
// here as well.
func Authenticate(manager *auth.JWTManager, source AccountSource, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if manager == nil || source == nil {
				problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", nil, env)
				return
			}

			token, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				problem.Write(w, r, http.StatusForbidden, problem.TypeForbidden, "Token is missing", err, env)
				return
			}

			claims, err := manager.Validate(token)
			if err != nil {
				title := "Token is invalid"
				if errors.Is(err, auth.ErrExpiredToken) {
					title = "Token has expired"
				}
				problem.Write(w, r, http.StatusForbidden, problem.TypeForbidden, title, err, env)
				return
			}

			account, err := source.FindByID(r.Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, accounts.ErrNotFound) {
					problem.Write(w, r, http.StatusForbidden, problem.TypeForbidden, "Token is invalid", err, env)
					return
				}
				problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, env)
				return
			}

			ctx := contextWithAccount(r.Context(), account)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRoles is the inner guard: the authenticated account's role must be
// in the allowed set. It assumes Authenticate already ran.
func RequireRoles(env string, allowed ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			account := Account(r)
			if account == nil {
				problem.Write(w, r, http.StatusForbidden, problem.TypeForbidden, "Token is missing", problem.ErrForbidden, env)
				return
			}
			if !auth.HasRole(account.Role, allowed...) {
				problem.Write(w, r, http.StatusForbidden, problem.TypeForbidden, "Permission denied", problem.ErrForbidden, env)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func contextWithAccount(ctx context.Context, account *accounts.Account) context.Context {
	return context.WithValue(ctx, accountKey, account)
}

// ContextWithAccount injects an account into a context (exported for tests).
func ContextWithAccount(ctx context.Context, account *accounts.Account) context.Context {
	return contextWithAccount(ctx, account)
}

// Account retrieves the authenticated account from the request context.
// Returns nil when the request did not pass Authenticate.
func Account(r *http.Request) *accounts.Account {
	if r == nil {
		return nil
	}
	if account, ok := r.Context().Value(accountKey).(*accounts.Account); ok {
		return account
	}
	return nil
}
