package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Arnur12345/tirek-infomatrix-backend/internal/api/middleware"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/api/problem"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/accounts"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func pathParam(r *http.Request, key string) string {
	if r == nil {
		return ""
	}
	return r.PathValue(key)
}

// currentAccount pulls the authenticated account injected by the auth
// middleware. A missing account means the route was wired without the
// guard chain, which is a server bug, not a client error.
func currentAccount(w http.ResponseWriter, r *http.Request, env string) (*accounts.Account, bool) {
	account := middleware.Account(r)
	if account == nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", problem.ErrForbidden, env)
		return nil, false
	}
	return account, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, env string, into any) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, env)
		return false
	}
	if err := validate.Struct(into); err != nil {
		problem.Write(w, r, http.StatusBadRequest, problem.TypeValidation, "Invalid request", err, env)
		return false
	}
	return true
}
