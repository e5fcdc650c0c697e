package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Arnur12345/tirek-infomatrix-backend/internal/auth"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/accounts"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func loginFixture(t *testing.T) (*AuthHandler, *auth.JWTManager) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := newMemAccounts(&accounts.Account{
		ID:           "acc-1",
		SchoolID:     "school-1",
		DisplayName:  "Head Admin",
		Role:         auth.RoleAdmin,
		Login:        "admin",
		PasswordHash: string(hash),
	})
	service := accounts.NewService(repo, newMemSchools(), zerolog.Nop())
	manager := auth.NewJWTManager("test-secret", time.Hour, "tirek")
	return NewAuthHandler(service, manager, testEnv), manager
}

func TestLoginIssuesToken(t *testing.T) {
	handler, manager := loginFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"login":"admin","password":"s3cret"}`))
	res := httptest.NewRecorder()
	handler.Login(res, req)

	require.Equal(t, http.StatusOK, res.Code)

	var body loginResponse
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &body))
	require.Equal(t, "admin", body.Login)
	require.Equal(t, "ADMIN", body.Role)

	claims, err := manager.Validate(body.Token)
	require.NoError(t, err)
	require.Equal(t, "acc-1", claims.Subject)
}

func TestLoginWrongPassword(t *testing.T) {
	handler, _ := loginFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"login":"admin","password":"wrong"}`))
	res := httptest.NewRecorder()
	handler.Login(res, req)

	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestLoginUnknownLogin(t *testing.T) {
	handler, _ := loginFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"login":"ghost","password":"s3cret"}`))
	res := httptest.NewRecorder()
	handler.Login(res, req)

	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestLoginMissingFields(t *testing.T) {
	handler, _ := loginFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"login":"admin"}`))
	res := httptest.NewRecorder()
	handler.Login(res, req)

	require.Equal(t, http.StatusBadRequest, res.Code)
}
