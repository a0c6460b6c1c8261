package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/checkus/checkus-api/internal/models"
	appErrors "github.com/checkus/checkus-api/pkg/errors"
)

const schoolListCacheKey = "directory:schools"

type schoolRepository interface {
	List(ctx context.Context) ([]models.SchoolDetail, error)
	FindByID(ctx context.Context, id string) (*models.SchoolDetail, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, school *models.School) error
	UpdateName(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
}

type schoolCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// SchoolService manages the school directory. The full school list is cached
// in Redis and invalidated on every write.
type SchoolService struct {
	repo      schoolRepository
	cache     schoolCache
	cacheTTL  time.Duration
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSchoolService constructs a SchoolService instance. A nil cache disables
// directory caching.
func NewSchoolService(repo schoolRepository, cache schoolCache, cacheTTL time.Duration, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *SchoolService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SchoolService{repo: repo, cache: cache, cacheTTL: cacheTTL, metrics: metrics, validator: validate, logger: logger}
}

// List returns all schools with student counts, serving from cache when
// possible.
func (s *SchoolService) List(ctx context.Context) ([]models.SchoolDetail, error) {
	if s.cache != nil {
		var cached []models.SchoolDetail
		if err := s.cache.Get(ctx, schoolListCacheKey, &cached); err == nil {
			s.metrics.RecordCacheOperation(true)
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("school list cache read failed", zap.Error(err))
		}
		s.metrics.RecordCacheOperation(false)
	}

	schools, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDependency.Code, appErrors.ErrDependency.Status, "failed to list schools")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, schoolListCacheKey, schools, s.cacheTTL); err != nil {
			s.logger.Warn("school list cache write failed", zap.Error(err))
		}
	}
	return schools, nil
}

// Get returns a single school by id.
func (s *SchoolService) Get(ctx context.Context, id string) (*models.SchoolDetail, error) {
	school, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrDependency.Code, appErrors.ErrDependency.Status, "failed to fetch school")
	}
	return school, nil
}

// Create registers a school. Names are unique; a duplicate yields Conflict.
func (s *SchoolService) Create(ctx context.Context, req models.SchoolRequest) (*models.School, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid school payload")
	}

	exists, err := s.repo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDependency.Code, appErrors.ErrDependency.Status, "failed to check school name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "school name is already in use")
	}

	school := &models.School{Name: req.Name}
	if err := s.repo.Create(ctx, school); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDependency.Code, appErrors.ErrDependency.Status, "failed to create school")
	}

	s.invalidateList(ctx)
	return school, nil
}

// Rename changes a school's name, keeping names unique.
func (s *SchoolService) Rename(ctx context.Context, id string, req models.SchoolRequest) (*models.SchoolDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid school payload")
	}

	exists, err := s.repo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDependency.Code, appErrors.ErrDependency.Status, "failed to check school name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "school name is already in use")
	}

	if err := s.repo.UpdateName(ctx, id, req.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrDependency.Code, appErrors.ErrDependency.Status, "failed to rename school")
	}

	s.invalidateList(ctx)
	return s.Get(ctx, id)
}

// Remove deletes a school. Student profiles keep their school reference
// cleared by the store's ON DELETE SET NULL rule.
func (s *SchoolService) Remove(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "school not found")
		}
		return appErrors.Wrap(err, appErrors.ErrDependency.Code, appErrors.ErrDependency.Status, "failed to delete school")
	}

	s.invalidateList(ctx)
	return nil
}

func (s *SchoolService) invalidateList(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, schoolListCacheKey); err != nil {
		s.logger.Warn("school list cache invalidation failed", zap.Error(err))
	}
}
