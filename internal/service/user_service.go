package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/checkus/checkus-api/internal/models"
	appErrors "github.com/checkus/checkus-api/pkg/errors"
)

type userRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	UpdateDiscordID(ctx context.Context, id, discordID string) error
	UpdateRoles(ctx context.Context, id string, roles []models.UserRole) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// UserService covers identity maintenance that happens after signup: chat
// handle updates and role grants.
type UserService struct {
	repo      userRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService instance.
func NewUserService(repo userRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &UserService{repo: repo, validator: validate, logger: logger}
}

// Get returns public identity info for a user.
func (s *UserService) Get(ctx context.Context, id string) (*models.UserInfo, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrDependency.Code, appErrors.ErrDependency.Status, "failed to fetch user")
	}
	return userInfo(user), nil
}

// UpdateDiscordID sets the chat handle on a user.
func (s *UserService) UpdateDiscordID(ctx context.Context, id string, req models.DiscordIDUpdateRequest) (*models.UserInfo, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid discord id payload")
	}

	if err := s.repo.UpdateDiscordID(ctx, id, req.DiscordID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrDependency.Code, appErrors.ErrDependency.Status, "failed to update discord id")
	}
	return s.Get(ctx, id)
}

// UpdateRoles replaces the role set of a user. The grant takes effect on
// tokens issued after the change; tokens already in flight keep their
// issuance-time roles.
func (s *UserService) UpdateRoles(ctx context.Context, claims *models.JWTClaims, id string, req models.RoleUpdateRequest) (*models.UserInfo, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid role payload")
	}
	for _, role := range req.Roles {
		if !models.ValidRole(role) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown role %q", role))
		}
	}

	if err := s.repo.UpdateRoles(ctx, id, req.Roles); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrDependency.Code, appErrors.ErrDependency.Status, "failed to update roles")
	}

	var actor *string
	if claims != nil && claims.UserID != "" {
		actor = &claims.UserID
	}
	payload, _ := json.Marshal(map[string][]models.UserRole{"roles": req.Roles})
	if err := s.repo.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     actor,
		Action:     models.AuditActionRoleGrant,
		Resource:   "user",
		ResourceID: &id,
		NewValues:  payload,
	}); err != nil {
		s.logger.Warn("failed to record role grant audit log", zap.Error(err))
	}

	return s.Get(ctx, id)
}

func userInfo(user *models.User) *models.UserInfo {
	return &models.UserInfo{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		Roles:     user.RoleNames(),
		Phone:     user.Phone,
		DiscordID: user.DiscordID,
	}
}
