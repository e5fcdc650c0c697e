package handlers

import (
	"errors"
	"net/http"

	"github.com/Arnur12345/tirek-infomatrix-backend/internal/api/problem"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/auth"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/accounts"
)

type AuthHandler struct {
	accounts *accounts.Service
	jwt      *auth.JWTManager
	env      string
}

func NewAuthHandler(accountsService *accounts.Service, jwtManager *auth.JWTManager, env string) *AuthHandler {
	return &AuthHandler{accounts: accountsService, jwt: jwtManager, env: env}
}

type loginRequest struct {
	Login    string `json:"login" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
	Login string `json:"login"`
	Role  string `json:"user_role"`
}

// Login exchanges credentials for a bearer token. Unknown logins and wrong
// passwords get the same response.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, h.env, &req) {
		return
	}

	account, err := h.accounts.Authenticate(r.Context(), req.Login, req.Password)
	if err != nil {
		if errors.Is(err, accounts.ErrInvalidCredentials) {
			problem.Write(w, r, http.StatusUnauthorized, problem.TypeUnauthorized, "Invalid credentials", nil,
				h.env, problem.WithDetail("Invalid login or password"))
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.env)
		return
	}

	token, err := h.jwt.Generate(account.ID, account.Login)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, problem.TypeServerError, "Server error", err, h.env)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token: token,
		Login: account.Login,
		Role:  string(account.Role),
	})
}
