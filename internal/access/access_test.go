package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/checkus/checkus-api/internal/models"
	appErrors "github.com/checkus/checkus-api/pkg/errors"
)

func claimsWith(id string, roles ...models.UserRole) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, Roles: roles}
}

func TestAuthorizeUnauthenticated(t *testing.T) {
	err := Authorize(nil, AnyOf(models.RoleAdmin))
	assert.Equal(t, appErrors.ErrUnauthorized, appErrors.FromError(err))

	err = Authorize(&models.JWTClaims{}, Owner("u1"))
	assert.Equal(t, appErrors.ErrUnauthorized, appErrors.FromError(err))
}

func TestAuthorizeAnyOf(t *testing.T) {
	req := AnyOf(models.RoleAdmin, models.RoleTeacher)

	assert.NoError(t, Authorize(claimsWith("u1", models.RoleTeacher), req))
	assert.NoError(t, Authorize(claimsWith("u1", models.RoleStudent, models.RoleAdmin), req))

	err := Authorize(claimsWith("u1", models.RoleStudent), req)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	err = Authorize(claimsWith("u1", models.RoleGuardian), req)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestAuthorizeOwner(t *testing.T) {
	assert.NoError(t, Authorize(claimsWith("u1", models.RoleStudent), Owner("u1")))

	err := Authorize(claimsWith("u2", models.RoleStudent), Owner("u1"))
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestAuthorizeAnyOfOrOwner(t *testing.T) {
	req := AnyOf(models.RoleAdmin, models.RoleTeacher).OrOwner("u1")

	// owner without an elevated role
	assert.NoError(t, Authorize(claimsWith("u1", models.RoleStudent), req))
	// elevated role without ownership
	assert.NoError(t, Authorize(claimsWith("u9", models.RoleAdmin), req))
	// neither branch satisfied
	err := Authorize(claimsWith("u9", models.RoleStudent), req)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestAuthorizeEmptyRequirementDenies(t *testing.T) {
	err := Authorize(claimsWith("u1", models.RoleAdmin), Requirement{})
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
