package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/checkus/checkus-api/internal/models"
	appErrors "github.com/checkus/checkus-api/pkg/errors"
)

type studentProfileRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.StudentProfileDetail, error)
	Exists(ctx context.Context, userID string) (bool, error)
	Search(ctx context.Context, filter models.StudentFilter) ([]models.StudentProfileDetail, int, error)
	ListBySchool(ctx context.Context, schoolID string, grade *int) ([]models.StudentProfileDetail, error)
	Create(ctx context.Context, profile *models.StudentProfile) error
	Update(ctx context.Context, profile *models.StudentProfile) error
	Delete(ctx context.Context, userID string) error
}

type studentDirectory interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// StudentService manages student profiles attached to identities.
type StudentService struct {
	repo      studentProfileRepository
	directory studentDirectory
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService instance.
func NewStudentService(repo studentProfileRepository, directory studentDirectory, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &StudentService{repo: repo, directory: directory, validator: validate, logger: logger}
}

// Get returns the profile of a student.
func (s *StudentService) Get(ctx context.Context, userID string) (*models.StudentProfileDetail, error) {
	detail, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrDependency.Code, appErrors.ErrDependency.Status, "failed to fetch student profile")
	}
	return withProfileLabels(detail), nil
}

// Search returns profiles matching the filter along with pagination metadata.
func (s *StudentService) Search(ctx context.Context, filter models.StudentFilter) ([]models.StudentProfileDetail, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	details, total, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrDependency.Code, appErrors.ErrDependency.Status, "failed to search student profiles")
	}
	for i := range details {
		withProfileLabels(&details[i])
	}
	return details, &models.Pagination{
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalCount: total,
	}, nil
}

// ListBySchool returns profiles of a school, optionally narrowed to a grade.
func (s *StudentService) ListBySchool(ctx context.Context, schoolID string, grade *int) ([]models.StudentProfileDetail, error) {
	details, err := s.repo.ListBySchool(ctx, schoolID, grade)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDependency.Code, appErrors.ErrDependency.Status, "failed to list school students")
	}
	for i := range details {
		withProfileLabels(&details[i])
	}
	return details, nil
}

// Create attaches a profile to an existing user. A user holds at most one
// profile.
func (s *StudentService) Create(ctx context.Context, userID string, req models.StudentProfileRequest) (*models.StudentProfileDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student profile payload")
	}

	if _, err := s.directory.FindByID(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "user not found: "+userID)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrDependency.Code, appErrors.ErrDependency.Status, "failed to fetch user")
	}

	exists, err := s.repo.Exists(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDependency.Code, appErrors.ErrDependency.Status, "failed to check student profile")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student profile already exists")
	}

	profile := &models.StudentProfile{
		UserID:   userID,
		Status:   req.Status,
		SchoolID: req.SchoolID,
		Grade:    req.Grade,
		Gender:   req.Gender,
	}
	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDependency.Code, appErrors.ErrDependency.Status, "failed to create student profile")
	}
	return s.Get(ctx, userID)
}

// Update replaces the mutable fields of an existing profile.
func (s *StudentService) Update(ctx context.Context, userID string, req models.StudentProfileRequest) (*models.StudentProfileDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student profile payload")
	}

	profile := &models.StudentProfile{
		UserID:   userID,
		Status:   req.Status,
		SchoolID: req.SchoolID,
		Grade:    req.Grade,
		Gender:   req.Gender,
	}
	if err := s.repo.Update(ctx, profile); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrDependency.Code, appErrors.ErrDependency.Status, "failed to update student profile")
	}
	return s.Get(ctx, userID)
}

// Remove deletes a student profile. The user identity stays.
func (s *StudentService) Remove(ctx context.Context, userID string) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return appErrors.Wrap(err, appErrors.ErrDependency.Code, appErrors.ErrDependency.Status, "failed to delete student profile")
	}
	return nil
}

func withProfileLabels(detail *models.StudentProfileDetail) *models.StudentProfileDetail {
	detail.StatusLabel = detail.Status.DisplayName()
	detail.GenderLabel = detail.Gender.DisplayName()
	return detail
}
