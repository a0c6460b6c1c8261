package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/checkus/checkus-api/internal/models"
	appErrors "github.com/checkus/checkus-api/pkg/errors"
)

func testTokenService(expiration time.Duration) *TokenService {
	return NewTokenService(TokenConfig{
		Secret:     "test-secret",
		Expiration: expiration,
		Issuer:     "checkus-api",
	}, zap.NewNop())
}

func TestTokenServiceIssueAndValidate(t *testing.T) {
	svc := testTokenService(time.Hour)
	user := &models.User{
		ID:       "u1",
		Email:    "user@example.com",
		FullName: "Test User",
		Roles:    []string{"ADMIN", "TEACHER"},
	}

	token, expiresAt, err := svc.Issue(user)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, []models.UserRole{models.RoleAdmin, models.RoleTeacher}, claims.Roles)
	assert.True(t, claims.HasRole(models.RoleAdmin))
	assert.False(t, claims.HasRole(models.RoleStudent))
}

func TestTokenServiceRejectsExpired(t *testing.T) {
	svc := testTokenService(-time.Minute)
	user := &models.User{ID: "u1", Email: "user@example.com"}

	token, _, err := svc.Issue(user)
	require.NoError(t, err)

	_, err = svc.Validate(token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestTokenServiceRejectsTampered(t *testing.T) {
	svc := testTokenService(time.Hour)
	user := &models.User{ID: "u1", Email: "user@example.com"}

	token, _, err := svc.Issue(user)
	require.NoError(t, err)

	// Flip a character in the signature segment.
	tampered := token[:len(token)-2] + "xx"
	_, err = svc.Validate(tampered)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestTokenServiceRejectsForeignSecret(t *testing.T) {
	issuer := NewTokenService(TokenConfig{Secret: "other-secret", Expiration: time.Hour, Issuer: "checkus-api"}, zap.NewNop())
	user := &models.User{ID: "u1", Email: "user@example.com"}

	token, _, err := issuer.Issue(user)
	require.NoError(t, err)

	svc := testTokenService(time.Hour)
	_, err = svc.Validate(token)
	require.Error(t, err)
}

func TestTokenServiceRejectsGarbage(t *testing.T) {
	svc := testTokenService(time.Hour)
	_, err := svc.Validate("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
