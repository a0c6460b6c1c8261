package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/checkus/checkus-api/internal/models"
	appErrors "github.com/checkus/checkus-api/pkg/errors"
)

type mockGuardianRepo struct {
	records   map[models.GuardianKey]*models.GuardianRelationship
	createErr error
	listErr   error
}

func newMockGuardianRepo() *mockGuardianRepo {
	return &mockGuardianRepo{records: make(map[models.GuardianKey]*models.GuardianRelationship)}
}

func (m *mockGuardianRepo) Create(ctx context.Context, rel *models.GuardianRelationship) error {
	if m.createErr != nil {
		return m.createErr
	}
	if _, ok := m.records[rel.Key()]; ok {
		return appErrors.Clone(appErrors.ErrConflict, "relationship already exists")
	}
	stored := *rel
	m.records[rel.Key()] = &stored
	return nil
}

func (m *mockGuardianRepo) ListByStudent(ctx context.Context, studentID string) ([]models.GuardianRelationshipDetail, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	details := []models.GuardianRelationshipDetail{}
	for key, rel := range m.records {
		if key.StudentID == studentID {
			details = append(details, models.GuardianRelationshipDetail{
				StudentID:  key.StudentID,
				GuardianID: key.GuardianID,
				Kind:       rel.Kind,
			})
		}
	}
	return details, nil
}

func (m *mockGuardianRepo) ListByGuardian(ctx context.Context, guardianID string) ([]models.GuardianRelationshipDetail, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	details := []models.GuardianRelationshipDetail{}
	for key, rel := range m.records {
		if key.GuardianID == guardianID {
			details = append(details, models.GuardianRelationshipDetail{
				StudentID:  key.StudentID,
				GuardianID: key.GuardianID,
				Kind:       rel.Kind,
			})
		}
	}
	return details, nil
}

func (m *mockGuardianRepo) UpdateKind(ctx context.Context, key models.GuardianKey, kind models.RelationshipKind) error {
	rel, ok := m.records[key]
	if !ok {
		return sql.ErrNoRows
	}
	rel.Kind = kind
	return nil
}

func (m *mockGuardianRepo) Delete(ctx context.Context, key models.GuardianKey) error {
	if _, ok := m.records[key]; !ok {
		return sql.ErrNoRows
	}
	delete(m.records, key)
	return nil
}

type mockDirectory struct {
	users     map[string]*models.User
	auditLogs []*models.AuditLog
}

func newMockDirectory(users ...*models.User) *mockDirectory {
	d := &mockDirectory{users: make(map[string]*models.User)}
	for _, u := range users {
		d.users[u.ID] = u
	}
	return d
}

func (m *mockDirectory) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

func (m *mockDirectory) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.auditLogs = append(m.auditLogs, log)
	return nil
}

func newTestGuardianService(repo *mockGuardianRepo, directory *mockDirectory) *GuardianService {
	return NewGuardianService(repo, directory, validator.New(), zap.NewNop())
}

func staffClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "admin-1", Roles: []models.UserRole{models.RoleAdmin}}
}

func TestGuardianServiceAdd(t *testing.T) {
	repo := newMockGuardianRepo()
	directory := newMockDirectory(
		&models.User{ID: "s1", FullName: "Student One"},
		&models.User{ID: "g1", FullName: "Guardian One"},
	)
	svc := newTestGuardianService(repo, directory)

	detail, err := svc.Add(context.Background(), staffClaims(), models.GuardianRelationshipRequest{
		StudentID:  "s1",
		GuardianID: "g1",
		Kind:       models.RelationshipFather,
	})
	require.NoError(t, err)
	assert.Equal(t, "Student One", detail.StudentName)
	assert.Equal(t, "Guardian One", detail.GuardianName)
	assert.Equal(t, "Father", detail.KindLabel)
	assert.Len(t, directory.auditLogs, 1)
}

func TestGuardianServiceAddMissingIdentity(t *testing.T) {
	repo := newMockGuardianRepo()
	directory := newMockDirectory(&models.User{ID: "s1", FullName: "Student One"})
	svc := newTestGuardianService(repo, directory)

	_, err := svc.Add(context.Background(), staffClaims(), models.GuardianRelationshipRequest{
		StudentID:  "s1",
		GuardianID: "missing",
		Kind:       models.RelationshipMother,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.records)
}

func TestGuardianServiceAddDuplicateKeepsFirstKind(t *testing.T) {
	repo := newMockGuardianRepo()
	directory := newMockDirectory(
		&models.User{ID: "s1", FullName: "Student One"},
		&models.User{ID: "g1", FullName: "Guardian One"},
	)
	svc := newTestGuardianService(repo, directory)

	_, err := svc.Add(context.Background(), staffClaims(), models.GuardianRelationshipRequest{
		StudentID: "s1", GuardianID: "g1", Kind: models.RelationshipFather,
	})
	require.NoError(t, err)

	_, err = svc.Add(context.Background(), staffClaims(), models.GuardianRelationshipRequest{
		StudentID: "s1", GuardianID: "g1", Kind: models.RelationshipOther,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	key := models.GuardianKey{StudentID: "s1", GuardianID: "g1"}
	assert.Equal(t, models.RelationshipFather, repo.records[key].Kind)
}

func TestGuardianServiceAddRejectsUnknownKind(t *testing.T) {
	repo := newMockGuardianRepo()
	directory := newMockDirectory()
	svc := newTestGuardianService(repo, directory)

	_, err := svc.Add(context.Background(), staffClaims(), models.GuardianRelationshipRequest{
		StudentID: "s1", GuardianID: "g1", Kind: "COUSIN",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestGuardianServiceSamePersonTwoRoles(t *testing.T) {
	repo := newMockGuardianRepo()
	directory := newMockDirectory(
		&models.User{ID: "s1", FullName: "Student One"},
		&models.User{ID: "s2", FullName: "Student Two"},
		&models.User{ID: "g1", FullName: "Guardian One"},
	)
	svc := newTestGuardianService(repo, directory)

	// One guardian can be linked to many students, each an independent pair.
	for _, studentID := range []string{"s1", "s2"} {
		_, err := svc.Add(context.Background(), staffClaims(), models.GuardianRelationshipRequest{
			StudentID: studentID, GuardianID: "g1", Kind: models.RelationshipMother,
		})
		require.NoError(t, err)
	}

	students, err := svc.ListByGuardian(context.Background(), "g1")
	require.NoError(t, err)
	assert.Len(t, students, 2)
}

func TestGuardianServiceListByStudentEmpty(t *testing.T) {
	svc := newTestGuardianService(newMockGuardianRepo(), newMockDirectory())

	details, err := svc.ListByStudent(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, details)
}

func TestGuardianServiceUpdateKind(t *testing.T) {
	repo := newMockGuardianRepo()
	directory := newMockDirectory(
		&models.User{ID: "s1", FullName: "Student One"},
		&models.User{ID: "g1", FullName: "Guardian One"},
	)
	svc := newTestGuardianService(repo, directory)

	_, err := svc.Add(context.Background(), staffClaims(), models.GuardianRelationshipRequest{
		StudentID: "s1", GuardianID: "g1", Kind: models.RelationshipFather,
	})
	require.NoError(t, err)

	detail, err := svc.UpdateKind(context.Background(), staffClaims(), models.GuardianRelationshipRequest{
		StudentID: "s1", GuardianID: "g1", Kind: models.RelationshipOther,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RelationshipOther, detail.Kind)
	assert.Equal(t, "Other", detail.KindLabel)
}

func TestGuardianServiceUpdateKindMissingPair(t *testing.T) {
	svc := newTestGuardianService(newMockGuardianRepo(), newMockDirectory())

	_, err := svc.UpdateKind(context.Background(), staffClaims(), models.GuardianRelationshipRequest{
		StudentID: "s1", GuardianID: "g1", Kind: models.RelationshipMother,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestGuardianServiceRemoveMissingPair(t *testing.T) {
	svc := newTestGuardianService(newMockGuardianRepo(), newMockDirectory())

	err := svc.Remove(context.Background(), staffClaims(), models.GuardianKey{StudentID: "s1", GuardianID: "g1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestGuardianServiceRemoveExactPairOnly(t *testing.T) {
	repo := newMockGuardianRepo()
	directory := newMockDirectory(
		&models.User{ID: "s1", FullName: "Student One"},
		&models.User{ID: "g1", FullName: "Guardian One"},
		&models.User{ID: "g2", FullName: "Guardian Two"},
	)
	svc := newTestGuardianService(repo, directory)

	for _, guardianID := range []string{"g1", "g2"} {
		_, err := svc.Add(context.Background(), staffClaims(), models.GuardianRelationshipRequest{
			StudentID: "s1", GuardianID: guardianID, Kind: models.RelationshipOther,
		})
		require.NoError(t, err)
	}

	require.NoError(t, svc.Remove(context.Background(), staffClaims(), models.GuardianKey{StudentID: "s1", GuardianID: "g1"}))

	remaining, err := svc.ListByStudent(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "g2", remaining[0].GuardianID)
}

func TestGuardianServiceExportCSV(t *testing.T) {
	repo := newMockGuardianRepo()
	directory := newMockDirectory(
		&models.User{ID: "s1", FullName: "Student One"},
		&models.User{ID: "g1", FullName: "Guardian One"},
	)
	svc := newTestGuardianService(repo, directory)

	_, err := svc.Add(context.Background(), staffClaims(), models.GuardianRelationshipRequest{
		StudentID: "s1", GuardianID: "g1", Kind: models.RelationshipFather,
	})
	require.NoError(t, err)

	payload, contentType, err := svc.ExportByStudent(context.Background(), "s1", "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.True(t, strings.Contains(string(payload), "Father"))
}

func TestGuardianServiceExportUnknownFormat(t *testing.T) {
	svc := newTestGuardianService(newMockGuardianRepo(), newMockDirectory())

	_, _, err := svc.ExportByStudent(context.Background(), "s1", "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
