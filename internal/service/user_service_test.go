package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/checkus/checkus-api/internal/models"
	appErrors "github.com/checkus/checkus-api/pkg/errors"
)

type mockIdentityRepo struct {
	users     map[string]*models.User
	auditLogs []*models.AuditLog
}

func newMockIdentityRepo(users ...*models.User) *mockIdentityRepo {
	repo := &mockIdentityRepo{users: make(map[string]*models.User)}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (m *mockIdentityRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (m *mockIdentityRepo) UpdateDiscordID(ctx context.Context, id, discordID string) error {
	user, ok := m.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	user.DiscordID = discordID
	return nil
}

func (m *mockIdentityRepo) UpdateRoles(ctx context.Context, id string, roles []models.UserRole) error {
	user, ok := m.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	user.Roles = user.Roles[:0]
	for _, role := range roles {
		user.Roles = append(user.Roles, string(role))
	}
	return nil
}

func (m *mockIdentityRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

func newTestUserService(repo *mockIdentityRepo) *UserService {
	return NewUserService(repo, validator.New(), zap.NewNop())
}

func adminClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "admin-1", Roles: []models.UserRole{models.RoleAdmin}}
}

func TestUserServiceUpdateDiscordID(t *testing.T) {
	repo := newMockIdentityRepo(&models.User{ID: "u1", Email: "user@example.com", Roles: []string{"STUDENT"}})
	svc := newTestUserService(repo)

	info, err := svc.UpdateDiscordID(context.Background(), "u1", models.DiscordIDUpdateRequest{DiscordID: "handle#1234"})
	require.NoError(t, err)
	assert.Equal(t, "handle#1234", info.DiscordID)
}

func TestUserServiceUpdateDiscordIDMissingUser(t *testing.T) {
	svc := newTestUserService(newMockIdentityRepo())

	_, err := svc.UpdateDiscordID(context.Background(), "missing", models.DiscordIDUpdateRequest{DiscordID: "handle#1234"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestUserServiceUpdateRoles(t *testing.T) {
	repo := newMockIdentityRepo(&models.User{ID: "u1", Email: "user@example.com", Roles: []string{"STUDENT"}})
	svc := newTestUserService(repo)

	info, err := svc.UpdateRoles(context.Background(), adminClaims(), "u1", models.RoleUpdateRequest{
		Roles: []models.UserRole{models.RoleTeacher, models.RoleGuardian},
	})
	require.NoError(t, err)
	assert.Equal(t, []models.UserRole{models.RoleTeacher, models.RoleGuardian}, info.Roles)
	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionRoleGrant, repo.auditLogs[0].Action)
}

func TestUserServiceUpdateRolesRejectsUnknownRole(t *testing.T) {
	repo := newMockIdentityRepo(&models.User{ID: "u1", Roles: []string{"STUDENT"}})
	svc := newTestUserService(repo)

	_, err := svc.UpdateRoles(context.Background(), adminClaims(), "u1", models.RoleUpdateRequest{
		Roles: []models.UserRole{"JANITOR"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Equal(t, []models.UserRole{models.RoleStudent}, repo.users["u1"].RoleNames())
}

func TestUserServiceUpdateRolesRejectsEmptySet(t *testing.T) {
	repo := newMockIdentityRepo(&models.User{ID: "u1", Roles: []string{"STUDENT"}})
	svc := newTestUserService(repo)

	_, err := svc.UpdateRoles(context.Background(), adminClaims(), "u1", models.RoleUpdateRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
