package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/checkus/checkus-api/internal/models"
	appErrors "github.com/checkus/checkus-api/pkg/errors"
	"github.com/checkus/checkus-api/pkg/export"
)

type guardianRepository interface {
	Create(ctx context.Context, rel *models.GuardianRelationship) error
	ListByStudent(ctx context.Context, studentID string) ([]models.GuardianRelationshipDetail, error)
	ListByGuardian(ctx context.Context, guardianID string) ([]models.GuardianRelationshipDetail, error)
	UpdateKind(ctx context.Context, key models.GuardianKey, kind models.RelationshipKind) error
	Delete(ctx context.Context, key models.GuardianKey) error
}

type guardianDirectory interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// GuardianService owns the student↔guardian relationship registry. The
// composite (student, guardian) key is unique; uniqueness is enforced by the
// store's key constraint so concurrent writers cannot race past it.
type GuardianService struct {
	repo      guardianRepository
	directory guardianDirectory
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGuardianService constructs a GuardianService instance.
func NewGuardianService(repo guardianRepository, directory guardianDirectory, validate *validator.Validate, logger *zap.Logger) *GuardianService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &GuardianService{repo: repo, directory: directory, validator: validate, logger: logger}
}

// Add creates a relationship between an existing student and guardian.
// Either identity missing yields NotFound; a duplicate pair yields Conflict
// and leaves the stored record untouched.
func (s *GuardianService) Add(ctx context.Context, claims *models.JWTClaims, req models.GuardianRelationshipRequest) (*models.GuardianRelationshipDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid relationship payload")
	}

	student, err := s.lookupIdentity(ctx, req.StudentID, "student")
	if err != nil {
		return nil, err
	}
	guardian, err := s.lookupIdentity(ctx, req.GuardianID, "guardian")
	if err != nil {
		return nil, err
	}

	rel := &models.GuardianRelationship{
		StudentID:  req.StudentID,
		GuardianID: req.GuardianID,
		Kind:       req.Kind,
	}
	if err := s.repo.Create(ctx, rel); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) && appErr.Code == appErrors.ErrConflict.Code {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrDependency.Code, appErrors.ErrDependency.Status, "failed to persist relationship")
	}

	s.audit(ctx, claims, models.AuditActionRelationshipCreate, rel.Key(), string(req.Kind))

	return &models.GuardianRelationshipDetail{
		StudentID:    student.ID,
		StudentName:  student.FullName,
		GuardianID:   guardian.ID,
		GuardianName: guardian.FullName,
		Kind:         rel.Kind,
		KindLabel:    rel.Kind.DisplayName(),
	}, nil
}

// ListByStudent returns all guardians of a student. An empty list is a valid
// result, not an error.
func (s *GuardianService) ListByStudent(ctx context.Context, studentID string) ([]models.GuardianRelationshipDetail, error) {
	details, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDependency.Code, appErrors.ErrDependency.Status, "failed to list guardians")
	}
	return withKindLabels(details), nil
}

// ListByGuardian returns all students of a guardian.
func (s *GuardianService) ListByGuardian(ctx context.Context, guardianID string) ([]models.GuardianRelationshipDetail, error) {
	details, err := s.repo.ListByGuardian(ctx, guardianID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDependency.Code, appErrors.ErrDependency.Status, "failed to list students")
	}
	return withKindLabels(details), nil
}

// UpdateKind changes the relationship kind of an existing pair. The composite
// key itself is immutable.
func (s *GuardianService) UpdateKind(ctx context.Context, claims *models.JWTClaims, req models.GuardianRelationshipRequest) (*models.GuardianRelationshipDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid relationship payload")
	}

	key := models.GuardianKey{StudentID: req.StudentID, GuardianID: req.GuardianID}
	if err := s.repo.UpdateKind(ctx, key, req.Kind); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "relationship not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrDependency.Code, appErrors.ErrDependency.Status, "failed to update relationship")
	}

	s.audit(ctx, claims, models.AuditActionRelationshipUpdate, key, string(req.Kind))

	student, err := s.lookupIdentity(ctx, req.StudentID, "student")
	if err != nil {
		return nil, err
	}
	guardian, err := s.lookupIdentity(ctx, req.GuardianID, "guardian")
	if err != nil {
		return nil, err
	}

	return &models.GuardianRelationshipDetail{
		StudentID:    student.ID,
		StudentName:  student.FullName,
		GuardianID:   guardian.ID,
		GuardianName: guardian.FullName,
		Kind:         req.Kind,
		KindLabel:    req.Kind.DisplayName(),
	}, nil
}

// Remove deletes the relationship with the exact composite key. A missing
// pair is reported as NotFound, never silently ignored.
func (s *GuardianService) Remove(ctx context.Context, claims *models.JWTClaims, key models.GuardianKey) error {
	if key.StudentID == "" || key.GuardianID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "student and guardian ids are required")
	}
	if err := s.repo.Delete(ctx, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "relationship not found")
		}
		return appErrors.Wrap(err, appErrors.ErrDependency.Code, appErrors.ErrDependency.Status, "failed to delete relationship")
	}

	s.audit(ctx, claims, models.AuditActionRelationshipDelete, key, "")
	return nil
}

// ExportByStudent renders the guardian roster of a student as CSV or PDF.
func (s *GuardianService) ExportByStudent(ctx context.Context, studentID, format string) ([]byte, string, error) {
	details, err := s.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, "", err
	}

	dataset := export.Dataset{
		Headers: []string{"Student", "Guardian", "Relationship"},
	}
	for _, d := range details {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Student":      d.StudentName,
			"Guardian":     d.GuardianName,
			"Relationship": d.Kind.DisplayName(),
		})
	}

	switch format {
	case "pdf":
		payload, err := export.NewPDFExporter().Render(dataset, "Guardian Roster")
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return payload, "application/pdf", nil
	case "", "csv":
		payload, err := export.NewCSVExporter().Render(dataset)
		if err != nil {
			return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return payload, "text/csv", nil
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
}

func (s *GuardianService) lookupIdentity(ctx context.Context, id, kind string) (*models.User, error) {
	user, err := s.directory.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, kind+" not found: "+id)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrDependency.Code, appErrors.ErrDependency.Status, "failed to fetch "+kind)
	}
	return user, nil
}

func (s *GuardianService) audit(ctx context.Context, claims *models.JWTClaims, action string, key models.GuardianKey, kind string) {
	var actor *string
	if claims != nil && claims.UserID != "" {
		actor = &claims.UserID
	}
	resourceID := key.StudentID + ":" + key.GuardianID
	payload := []byte(`{}`)
	if kind != "" {
		payload = []byte(`{"relationship":"` + kind + `"}`)
	}
	if err := s.directory.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     actor,
		Action:     action,
		Resource:   "student_guardian",
		ResourceID: &resourceID,
		NewValues:  payload,
	}); err != nil {
		s.logger.Warn("failed to record relationship audit log", zap.Error(err))
	}
}

func withKindLabels(details []models.GuardianRelationshipDetail) []models.GuardianRelationshipDetail {
	for i := range details {
		details[i].KindLabel = details[i].Kind.DisplayName()
	}
	return details
}
