package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, "tirek")

	token, err := manager.Generate("user-1", "admin@school")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := manager.Validate(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "admin@school", claims.Login)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestGenerateRequiresSubjectAndLogin(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, "tirek")

	_, err := manager.Generate("", "login")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = manager.Generate("user-1", "")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateExpiredToken(t *testing.T) {
	manager := NewJWTManager("test-secret", -time.Minute, "tirek")

	token, err := manager.Generate("user-1", "admin@school")
	require.NoError(t, err)

	_, err = manager.Validate(token)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateRejectsTamperedToken(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, "tirek")

	token, err := manager.Generate("user-1", "admin@school")
	require.NoError(t, err)

	_, err = manager.Validate(token + "x")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	issued := NewJWTManager("secret-a", time.Hour, "tirek")
	verifier := NewJWTManager("secret-b", time.Hour, "tirek")

	token, err := issued.Generate("user-1", "admin@school")
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateMissingToken(t *testing.T) {
	manager := NewJWTManager("test-secret", time.Hour, "tirek")

	_, err := manager.Validate("  ")
	require.ErrorIs(t, err, ErrMissingToken)
}

func TestTokenFromHeader(t *testing.T) {
	token, err := TokenFromHeader("Bearer abc.def.ghi")
	require.NoError(t, err)
	require.Equal(t, "abc.def.ghi", token)

	token, err = TokenFromHeader("bearer abc")
	require.NoError(t, err)
	require.Equal(t, "abc", token)

	_, err = TokenFromHeader("")
	require.ErrorIs(t, err, ErrMissingToken)

	_, err = TokenFromHeader("Basic abc")
	require.ErrorIs(t, err, ErrMissingToken)

	_, err = TokenFromHeader("Bearer")
	require.ErrorIs(t, err, ErrMissingToken)
}
