package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/checkus/checkus-api/internal/models"
	appErrors "github.com/checkus/checkus-api/pkg/errors"
)

type mockSchoolRepo struct {
	schools   map[string]*models.SchoolDetail
	listCalls int
}

func newMockSchoolRepo(schools ...*models.SchoolDetail) *mockSchoolRepo {
	repo := &mockSchoolRepo{schools: make(map[string]*models.SchoolDetail)}
	for _, s := range schools {
		repo.schools[s.ID] = s
	}
	return repo
}

func (m *mockSchoolRepo) List(ctx context.Context) ([]models.SchoolDetail, error) {
	m.listCalls++
	list := []models.SchoolDetail{}
	for _, s := range m.schools {
		list = append(list, *s)
	}
	return list, nil
}

func (m *mockSchoolRepo) FindByID(ctx context.Context, id string) (*models.SchoolDetail, error) {
	school, ok := m.schools[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return school, nil
}

func (m *mockSchoolRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	for _, s := range m.schools {
		if s.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockSchoolRepo) Create(ctx context.Context, school *models.School) error {
	if school.ID == "" {
		school.ID = "school-" + school.Name
	}
	m.schools[school.ID] = &models.SchoolDetail{ID: school.ID, Name: school.Name}
	return nil
}

func (m *mockSchoolRepo) UpdateName(ctx context.Context, id, name string) error {
	school, ok := m.schools[id]
	if !ok {
		return sql.ErrNoRows
	}
	school.Name = name
	return nil
}

func (m *mockSchoolRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.schools[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.schools, id)
	return nil
}

type mockSchoolCache struct {
	store   map[string][]byte
	deletes []string
}

func newMockSchoolCache() *mockSchoolCache {
	return &mockSchoolCache{store: make(map[string][]byte)}
}

func (m *mockSchoolCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *mockSchoolCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.store[key] = raw
	return nil
}

func (m *mockSchoolCache) Delete(ctx context.Context, key string) error {
	m.deletes = append(m.deletes, key)
	delete(m.store, key)
	return nil
}

func newTestSchoolService(repo *mockSchoolRepo, cache *mockSchoolCache) *SchoolService {
	if cache == nil {
		return NewSchoolService(repo, nil, 0, nil, validator.New(), zap.NewNop())
	}
	return NewSchoolService(repo, cache, time.Minute, nil, validator.New(), zap.NewNop())
}

func TestSchoolServiceListUsesCache(t *testing.T) {
	repo := newMockSchoolRepo(&models.SchoolDetail{ID: "sch-1", Name: "Eastside"})
	cache := newMockSchoolCache()
	svc := newTestSchoolService(repo, cache)

	first, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, 1, repo.listCalls)
}

func TestSchoolServiceCreateInvalidatesCache(t *testing.T) {
	repo := newMockSchoolRepo()
	cache := newMockSchoolCache()
	svc := newTestSchoolService(repo, cache)

	_, err := svc.List(context.Background())
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), models.SchoolRequest{Name: "Westside"})
	require.NoError(t, err)
	assert.Contains(t, cache.deletes, schoolListCacheKey)

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSchoolServiceCreateDuplicateName(t *testing.T) {
	repo := newMockSchoolRepo(&models.SchoolDetail{ID: "sch-1", Name: "Eastside"})
	svc := newTestSchoolService(repo, nil)

	_, err := svc.Create(context.Background(), models.SchoolRequest{Name: "Eastside"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestSchoolServiceRenameMissing(t *testing.T) {
	svc := newTestSchoolService(newMockSchoolRepo(), nil)

	_, err := svc.Rename(context.Background(), "missing", models.SchoolRequest{Name: "Renamed"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSchoolServiceRemove(t *testing.T) {
	repo := newMockSchoolRepo(&models.SchoolDetail{ID: "sch-1", Name: "Eastside"})
	svc := newTestSchoolService(repo, nil)

	require.NoError(t, svc.Remove(context.Background(), "sch-1"))

	err := svc.Remove(context.Background(), "sch-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
